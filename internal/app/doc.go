// Package app wires the sales dashboard together and runs it.
//
// NewApplication builds the loader, pipeline and services from a
// config.Config, mounts the HTTP handlers on a chi router and prepares the
// http.Server. Run loads the sales workbook once, serves until SIGINT or
// SIGTERM, then shuts the server and the OpenTelemetry providers down within
// Server.ShutdownTimeout.
//
// A failed load is returned from Run before the listener is opened; the
// caller decides how to exit.
package app
