// Package shared holds helpers used by more than one package.
//
// The testutil subpackage provides test support only:
//
//   - BufferedSlogHandler and NewTestLogger capture log output so tests can
//     assert on messages and attributes.
//   - WriteSalesWorkbook builds a sales workbook in a temp directory for
//     loader, service and end-to-end tests.
package shared
