// Package http implements the HTTP transport layer of the application.
// It provides middleware, route handlers, and request/response utilities
// for the REST API, and mounts the WebSocket upgrade endpoint on the same
// router. Authentication, logging, and tracing concerns are handled here
// before requests are forwarded to the service layer.
package http
