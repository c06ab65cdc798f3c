// Package errors defines the application error types and renders them as
// RFC 7807 problem details.
//
// AppError classifies failures inside the application (an unreadable source,
// a broken schema, data not loaded yet). APIError carries an HTTP status for
// request-level problems. ErrorHandler maps both onto ProblemDetails.
package errors
