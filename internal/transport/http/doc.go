// Package http implements the HTTP handlers of the mortality dashboard.
//
// Handlers stay thin: they parse and validate the request, call the
// dashboard or health service and format the response. Service errors are
// translated into RFC 7807 problem documents through the shared
// errors.ErrorHandler.
//
// Routes served by this package:
//
//	GET  /                                   dashboard page
//	GET  /api/dashboard/panels               panel descriptors
//	GET  /api/dashboard/panels/{id}          panel table and figure
//	GET  /api/dashboard/panels/{id}/image.png
//	GET  /api/dashboard/summary              load statistics
//	GET  /api/geo/boundaries                 GeoJSON boundary document
//	GET  /api/export/{table}.csv             CSV export
//	GET  /api/health, /api/health/ready, /api/health/live, /api/version
//	POST /api/logs                           browser-side error reports
//
// Handlers are tested with httptest against mocked services.
package http
