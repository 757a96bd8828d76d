// Package integration contains end-to-end tests for the blog API server.
//
// These tests verify the server handles API requests correctly (expected
// responses, error handling, database persistence, etc). Each test runs
// against a temporary MongoDB database seeded with synthetic posts, and the
// server is started in-process. The database is dropped after each test.
//
// These tests assume the blog and store packages are working correctly
// (tested separately). If bugs are introduced in lower-level packages, there
// will be cascading failures here - fix the low-level problems first.
package integration
