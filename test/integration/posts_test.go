//go:build integration

package integration

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/penmark/blog-demo/app/internal/blog"
	"github.com/penmark/blog-demo/app/internal/store"
)

// AuthorPayload mirrors the author object in API payloads
type AuthorPayload struct {
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
}

// PostRequest represents the request body for creating a post
type PostRequest struct {
	Title   string        `json:"title"`
	Content string        `json:"content"`
	Author  AuthorPayload `json:"author"`
	Created *time.Time    `json:"created,omitempty"`
}

// PostResponse represents the response for post operations
type PostResponse struct {
	ID      string        `json:"id"`
	Title   string        `json:"title"`
	Content string        `json:"content"`
	Author  AuthorPayload `json:"author"`
	Created time.Time     `json:"created"`
}

// TestListPosts_ReturnsSeededPosts verifies that GET /posts returns exactly
// the seeded documents, each serialized with exactly the expected keys.
func TestListPosts_ReturnsSeededPosts(t *testing.T) {
	testEnv := startInProcessServer(t)
	defer testEnv.shutdown()

	seeded := seedPosts(t, testEnv, seedCount)

	resp := doJSONRequest(t, "GET", testEnv.baseURL+"/posts", nil)
	defer resp.Body.Close()
	requireStatus(t, resp, http.StatusOK)

	// decode into raw maps so unexpected or missing keys are caught
	var rawPosts []map[string]json.RawMessage
	decodeJSON(t, resp, &rawPosts)

	if len(rawPosts) != seedCount {
		t.Fatalf("expected %d posts, got %d", seedCount, len(rawPosts))
	}

	wantKeys := []string{"id", "title", "content", "author", "created"}
	for i, rawPost := range rawPosts {
		if len(rawPost) != len(wantKeys) {
			t.Errorf("post %d: expected %d keys, got %d (%v)", i, len(wantKeys), len(rawPost), keysOf(rawPost))
		}
		for _, key := range wantKeys {
			if _, ok := rawPost[key]; !ok {
				t.Errorf("post %d: missing key %q", i, key)
			}
		}

		var author map[string]json.RawMessage
		if err := json.Unmarshal(rawPost["author"], &author); err != nil {
			t.Fatalf("post %d: failed to decode author: %v", i, err)
		}
		for _, key := range []string{"firstName", "lastName"} {
			if _, ok := author[key]; !ok {
				t.Errorf("post %d: author missing key %q", i, key)
			}
		}
	}

	// round-trip: every seeded post comes back with identical field values
	seededByID := make(map[string]blog.Post, len(seeded))
	for _, post := range seeded {
		seededByID[post.ID] = post
	}

	var posts []PostResponse
	if err := json.Unmarshal(mustMarshal(t, rawPosts), &posts); err != nil {
		t.Fatalf("failed to re-decode posts: %v", err)
	}

	for _, got := range posts {
		want, ok := seededByID[got.ID]
		if !ok {
			t.Errorf("returned post %s was never seeded", got.ID)
			continue
		}
		if got.Title != want.Title || got.Content != want.Content {
			t.Errorf("post %s: got title=%q content=%q, want title=%q content=%q",
				got.ID, got.Title, got.Content, want.Title, want.Content)
		}
		if got.Author.FirstName != want.Author.FirstName || got.Author.LastName != want.Author.LastName {
			t.Errorf("post %s: author mismatch: got %+v, want %+v", got.ID, got.Author, want.Author)
		}
		if !got.Created.Equal(want.Created) {
			t.Errorf("post %s: created mismatch: got %v, want %v", got.ID, got.Created, want.Created)
		}
	}
}

// TestCreatePost verifies that POST /posts persists the document and echoes it
// back with a 201.
func TestCreatePost(t *testing.T) {
	testEnv := startInProcessServer(t)
	defer testEnv.shutdown()

	seedPosts(t, testEnv, seedCount)

	createReq := PostRequest{
		Title:   "New BlogPost",
		Content: "This is the content",
		Author:  AuthorPayload{FirstName: "Margaret", LastName: "Hamilton"},
	}

	resp := doJSONRequest(t, "POST", testEnv.baseURL+"/posts", createReq)
	defer resp.Body.Close()
	requireStatus(t, resp, http.StatusCreated)

	var created PostResponse
	decodeJSON(t, resp, &created)

	if created.Title != createReq.Title {
		t.Errorf("expected title %q, got %q", createReq.Title, created.Title)
	}
	if created.Content != createReq.Content {
		t.Errorf("expected content %q, got %q", createReq.Content, created.Content)
	}
	if created.ID == "" {
		t.Error("expected the created post to have an id")
	}
	if created.Created.IsZero() {
		t.Error("expected the created post to have a creation timestamp")
	}

	// confirm persistence by querying the store directly
	stored, err := testEnv.store.GetPostByID(context.Background(), created.ID)
	if err != nil {
		t.Fatalf("created post not found in store: %v", err)
	}
	if stored.Title != createReq.Title || stored.Content != createReq.Content {
		t.Errorf("stored post does not match request: %+v", stored)
	}

	count, err := testEnv.store.CountPosts(context.Background())
	if err != nil {
		t.Fatalf("failed to count posts: %v", err)
	}
	if count != seedCount+1 {
		t.Errorf("expected %d posts after create, got %d", seedCount+1, count)
	}
}

// TestCreatePost_Validation verifies the 400 responses for bad create requests.
func TestCreatePost_Validation(t *testing.T) {
	testEnv := startInProcessServer(t)
	defer testEnv.shutdown()

	tests := []struct {
		name string
		req  PostRequest
	}{
		{"missing title", PostRequest{Content: "c", Author: AuthorPayload{FirstName: "A", LastName: "B"}}},
		{"missing content", PostRequest{Title: "t", Author: AuthorPayload{FirstName: "A", LastName: "B"}}},
		{"missing author", PostRequest{Title: "t", Content: "c"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp := doJSONRequest(t, "POST", testEnv.baseURL+"/posts", tt.req)
			defer resp.Body.Close()
			requireStatus(t, resp, http.StatusBadRequest)
		})
	}

	// nothing should have been persisted
	count, err := testEnv.store.CountPosts(context.Background())
	if err != nil {
		t.Fatalf("failed to count posts: %v", err)
	}
	if count != 0 {
		t.Errorf("expected 0 posts after rejected creates, got %d", count)
	}
}

// TestUpdatePost verifies that PUT /posts/{id} overwrites only the supplied
// fields and responds 204 with no body.
func TestUpdatePost(t *testing.T) {
	testEnv := startInProcessServer(t)
	defer testEnv.shutdown()

	seeded := seedPosts(t, testEnv, seedCount)
	target := seeded[0]

	updateReq := map[string]string{
		"title":   "Updated BlogPost",
		"content": "This is the UPDATED content",
	}

	resp := doJSONRequest(t, "PUT", fmt.Sprintf("%s/posts/%s", testEnv.baseURL, target.ID), updateReq)
	defer resp.Body.Close()
	requireStatus(t, resp, http.StatusNoContent)

	body, _ := io.ReadAll(resp.Body)
	if len(body) != 0 {
		t.Errorf("expected empty response body, got %q", string(body))
	}

	// re-fetch: exactly the two supplied fields changed
	stored, err := testEnv.store.GetPostByID(context.Background(), target.ID)
	if err != nil {
		t.Fatalf("failed to fetch updated post: %v", err)
	}

	if stored.Title != "Updated BlogPost" {
		t.Errorf("expected updated title, got %q", stored.Title)
	}
	if stored.Content != "This is the UPDATED content" {
		t.Errorf("expected updated content, got %q", stored.Content)
	}
	if stored.Author != target.Author {
		t.Errorf("author changed by partial update: got %+v, want %+v", stored.Author, target.Author)
	}
	if !stored.Created.Equal(target.Created) {
		t.Errorf("created changed by partial update: got %v, want %v", stored.Created, target.Created)
	}

	// a title-only update leaves content untouched
	resp = doJSONRequest(t, "PUT", fmt.Sprintf("%s/posts/%s", testEnv.baseURL, target.ID), map[string]string{"title": "Title Only"})
	defer resp.Body.Close()
	requireStatus(t, resp, http.StatusNoContent)

	stored, err = testEnv.store.GetPostByID(context.Background(), target.ID)
	if err != nil {
		t.Fatalf("failed to fetch updated post: %v", err)
	}
	if stored.Title != "Title Only" {
		t.Errorf("expected title-only update to apply, got %q", stored.Title)
	}
	if stored.Content != "This is the UPDATED content" {
		t.Errorf("title-only update changed content: got %q", stored.Content)
	}
}

// TestUpdatePost_Errors verifies the error responses for bad update requests.
func TestUpdatePost_Errors(t *testing.T) {
	testEnv := startInProcessServer(t)
	defer testEnv.shutdown()

	seeded := seedPosts(t, testEnv, seedCount)

	t.Run("unknown id returns 404", func(t *testing.T) {
		resp := doJSONRequest(t, "PUT", fmt.Sprintf("%s/posts/%s", testEnv.baseURL, uuid.NewString()), map[string]string{"title": "x"})
		defer resp.Body.Close()
		requireStatus(t, resp, http.StatusNotFound)
	})

	t.Run("invalid id returns 400", func(t *testing.T) {
		resp := doJSONRequest(t, "PUT", testEnv.baseURL+"/posts/not-a-uuid", map[string]string{"title": "x"})
		defer resp.Body.Close()
		requireStatus(t, resp, http.StatusBadRequest)
	})

	t.Run("empty update body returns 400", func(t *testing.T) {
		resp := doJSONRequest(t, "PUT", fmt.Sprintf("%s/posts/%s", testEnv.baseURL, seeded[0].ID), map[string]string{})
		defer resp.Body.Close()
		requireStatus(t, resp, http.StatusBadRequest)
	})
}

// TestDeletePost_IsIdempotent verifies that DELETE /posts/{id} removes the
// document and that repeating the delete still responds 204.
func TestDeletePost_IsIdempotent(t *testing.T) {
	testEnv := startInProcessServer(t)
	defer testEnv.shutdown()

	seeded := seedPosts(t, testEnv, seedCount)
	target := seeded[0]

	resp := doJSONRequest(t, "DELETE", fmt.Sprintf("%s/posts/%s", testEnv.baseURL, target.ID), nil)
	defer resp.Body.Close()
	requireStatus(t, resp, http.StatusNoContent)

	// the document is gone from the store
	_, err := testEnv.store.GetPostByID(context.Background(), target.ID)
	if !errors.Is(err, store.ErrNotFound) {
		t.Fatalf("expected ErrNotFound after delete, got %v", err)
	}

	// and from the API
	resp = doJSONRequest(t, "GET", fmt.Sprintf("%s/posts/%s", testEnv.baseURL, target.ID), nil)
	defer resp.Body.Close()
	requireStatus(t, resp, http.StatusNotFound)

	// deleting again is not an error
	resp = doJSONRequest(t, "DELETE", fmt.Sprintf("%s/posts/%s", testEnv.baseURL, target.ID), nil)
	defer resp.Body.Close()
	requireStatus(t, resp, http.StatusNoContent)

	count, err := testEnv.store.CountPosts(context.Background())
	if err != nil {
		t.Fatalf("failed to count posts: %v", err)
	}
	if count != seedCount-1 {
		t.Errorf("expected %d posts after delete, got %d", seedCount-1, count)
	}
}

// TestSeedingIsolation verifies the drop-and-reseed discipline: clearing and
// reseeding yields a fresh, predictable count with no leakage.
func TestSeedingIsolation(t *testing.T) {
	testEnv := startInProcessServer(t)
	defer testEnv.shutdown()

	seedPosts(t, testEnv, seedCount)

	count, err := testEnv.store.CountPosts(context.Background())
	if err != nil {
		t.Fatalf("failed to count posts: %v", err)
	}
	if count != seedCount {
		t.Fatalf("expected %d posts after first seed, got %d", seedCount, count)
	}

	cleanupDatabase(t, testEnv)
	seedPosts(t, testEnv, seedCount)

	count, err = testEnv.store.CountPosts(context.Background())
	if err != nil {
		t.Fatalf("failed to count posts: %v", err)
	}
	if count != seedCount {
		t.Fatalf("expected %d posts after reseed, got %d", seedCount, count)
	}
}

// TestPostRoundTrip verifies that a post created with a supplied past date
// comes back from the API with identical field values.
func TestPostRoundTrip(t *testing.T) {
	testEnv := startInProcessServer(t)
	defer testEnv.shutdown()

	pastDate := time.Date(2020, time.March, 14, 9, 26, 53, 0, time.UTC)

	createReq := PostRequest{
		Title:   "A post from the past",
		Content: "Written long before it was stored",
		Author:  AuthorPayload{FirstName: "Alan", LastName: "Turing"},
		Created: &pastDate,
	}

	resp := doJSONRequest(t, "POST", testEnv.baseURL+"/posts", createReq)
	defer resp.Body.Close()
	requireStatus(t, resp, http.StatusCreated)

	var created PostResponse
	decodeJSON(t, resp, &created)

	resp = doJSONRequest(t, "GET", fmt.Sprintf("%s/posts/%s", testEnv.baseURL, created.ID), nil)
	defer resp.Body.Close()
	requireStatus(t, resp, http.StatusOK)

	var fetched PostResponse
	decodeJSON(t, resp, &fetched)

	if fetched.Title != createReq.Title || fetched.Content != createReq.Content {
		t.Errorf("round-trip mismatch: got %+v", fetched)
	}
	if fetched.Author != created.Author {
		t.Errorf("round-trip author mismatch: got %+v, want %+v", fetched.Author, created.Author)
	}
	if !fetched.Created.Equal(pastDate) {
		t.Errorf("round-trip created mismatch: got %v, want %v", fetched.Created, pastDate)
	}
}

func keysOf(m map[string]json.RawMessage) []string {
	keys := make([]string, 0, len(m))
	for key := range m {
		keys = append(keys, key)
	}
	return keys
}

func mustMarshal(t *testing.T, v any) []byte {
	t.Helper()
	data, err := json.Marshal(v)
	if err != nil {
		t.Fatalf("failed to marshal: %v", err)
	}
	return data
}
