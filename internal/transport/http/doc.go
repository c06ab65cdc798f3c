// Package http implements the read-only JSON API over the sales result bundle.
//
// Handlers stay thin: they fetch the current snapshot from the dashboard
// service, pick the table asked for and render it with go-chi/render. Errors
// go through errors.ErrorHandler and come back as RFC 7807 problem details.
//
// Tables in the snapshot are shared between requests. A handler that needs a
// different order sorts a copy (see SortGroups).
//
// Routes, as mounted by the app package:
//
//	GET /api/health                  basic health
//	GET /api/health/live             liveness
//	GET /api/health/ready            readiness, 503 until data is loaded
//	GET /api/version                 build information
//	GET /api/dashboard/summary       whole bundle plus load metadata
//	GET /api/dashboard/metadata      load metadata
//	GET /api/dashboard/kpis          scalar KPIs
//	GET /api/dashboard/sales/category?sort=key|total_asc|total_desc
//	GET /api/dashboard/sales/region?sort=key|total_asc|total_desc
//	GET /api/dashboard/sales/monthly oldest month first
//	GET /api/dashboard/products/top?limit=N
//	GET /api/dashboard/feedback      fixed-domain feedback counts
//	GET /api/dashboard/methods       payment, shipping and merged counts
//	GET /metrics                     Prometheus exposition
//
// Dashboard responses carry an ETag; If-None-Match with the current value
// yields 304 Not Modified.
package http
