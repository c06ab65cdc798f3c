// Package dataprocessing turns a sales export sheet into a ResultBundle.
//
// Data flows strictly forward:
//
//	workbook → Loader → RawTable → Normalizer → []SalesRecord
//	         → FilterActive → active subset → aggregations → ResultBundle
//
// The Loader is the only stage doing I/O. It fails with an ErrTypeStorage
// error when the file cannot be read and with ErrTypeSchema when the sheet or
// its header is missing. The Normalizer resolves the header once and never
// fails on a bad cell: numeric and date cells that do not parse become missing
// values, which contribute zero to sums.
//
// Numeric cells accept a comma as the decimal separator ("12,50" is 12.50).
// Order Date is parsed with a single layout, month/day/two-digit year by
// default ("3/14/24" or "03/14/24").
//
// Pipeline.Build ties the stages together and may run the aggregations
// concurrently; every aggregation is a pure function of the active subset.
package dataprocessing
