// Package handlers provides the blog post CRUD handlers and the general
// infrastructure HTTP handlers (health, readiness, version).
package handlers
