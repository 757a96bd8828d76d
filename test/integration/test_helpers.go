//go:build integration

// functions that are useful in integration tests

package integration

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"testing"

	"github.com/penmark/blog-demo/app/internal/blog"
)

// seedCount is the number of synthetic posts inserted before each test.
const seedCount = 10

// seedPosts bulk-inserts n random posts directly through the store and
// returns them (with their assigned ids and creation times).
func seedPosts(t *testing.T, testEnv *testEnv, n int) []blog.Post {
	t.Helper()

	posts, err := testEnv.store.InsertPosts(context.Background(), blog.RandomPosts(n))
	if err != nil {
		t.Fatalf("failed to seed posts: %v", err)
	}
	return posts
}

// cleanupDatabase removes all posts to reset the database state between test steps
func cleanupDatabase(t *testing.T, testEnv *testEnv) {
	t.Helper()

	if err := testEnv.store.ClearPosts(context.Background()); err != nil {
		t.Fatalf("Failed to cleanup database: %v", err)
	}
}

// doJSONRequest issues an HTTP request with an optional JSON body and returns
// the response. The caller is responsible for closing the body.
func doJSONRequest(t *testing.T, method, url string, body any) *http.Response {
	t.Helper()

	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			t.Fatalf("failed to marshal request body: %v", err)
		}
		reader = bytes.NewReader(data)
	}

	req, err := http.NewRequest(method, url, reader)
	if err != nil {
		t.Fatalf("failed to build %s request: %v", method, err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("%s %s failed: %v", method, url, err)
	}
	return resp
}

// requireStatus fails the test if the response status does not match,
// including the response body in the failure message.
func requireStatus(t *testing.T, resp *http.Response, want int) {
	t.Helper()

	if resp.StatusCode != want {
		body, _ := io.ReadAll(resp.Body)
		t.Fatalf("expected status %d, got %d. Response: %s", want, resp.StatusCode, string(body))
	}
}

// decodeJSON decodes the response body into out.
func decodeJSON(t *testing.T, resp *http.Response, out any) {
	t.Helper()

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
}
