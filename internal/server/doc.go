// Package server provides the HTTP server for the blog demo app.
//
// the server is configured through environment variables
// (see app/internal/config/config.go for details)
//
// The package wires the routes for
//   - the blog post CRUD API (/posts)
//   - common infrastructure handlers (health, readiness, version)
//
// middleware is in app/internal/server/middleware
package server
