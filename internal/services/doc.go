// Package services implements the application layer between the HTTP
// handlers and the loaded dataset.
//
// DashboardService owns the immutable dataset built at start-up. It computes
// panels on first request and caches them, renders panel images, streams CSV
// exports and exposes the boundary document. HealthService reports liveness,
// readiness and version information.
//
// Services return the sentinel errors in errors.go; handlers map them to
// RFC 7807 problem responses.
package services
