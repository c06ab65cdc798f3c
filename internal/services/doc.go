// Package services sits between the HTTP handlers and the data pipeline.
//
// DashboardService owns the single load of the sales export: it calls the
// loader, runs the pipeline and keeps the resulting snapshot (bundle, load
// metadata and ETag) for readers. Until Load succeeds every accessor returns
// ErrBundleNotReady.
//
// HealthService answers liveness, readiness and version queries. Readiness
// follows DashboardService.Ready.
package services
