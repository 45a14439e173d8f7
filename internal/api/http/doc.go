// Package http provides the HTTP handlers and routing for the REST API.
//
// Endpoints:
//   - Files: /api/file, /api/file/:filename, /api/file/:filename/meta
//   - Users: /api/users, /api/users/:id
//   - Health: /health
//
// File endpoints answer text/plain except for listings and metadata, which
// are JSON. User endpoints are JSON throughout. Domain errors carry an
// errs.Kind that decides the status code; internal faults are logged and
// reported before the response is written.
//
// Example Usage:
//
//	handlers := http.NewHandlers(fileService, userService, logger, reporter)
//	handlers.Register(router)
package http
