package handlers

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/penmark/blog-demo/app/internal/blog"
	"github.com/penmark/blog-demo/app/internal/logger"
	"github.com/penmark/blog-demo/app/internal/store"
)

// request and responses

type AuthorPayload struct {
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
}

type PostRequest struct {
	Title   string        `json:"title"`
	Content string        `json:"content"`
	Author  AuthorPayload `json:"author"`

	// optional - defaults to the insertion time
	Created *time.Time `json:"created,omitempty"`
}

type PostResponse struct {
	ID      string        `json:"id"`
	Title   string        `json:"title"`
	Content string        `json:"content"`
	Author  AuthorPayload `json:"author"`
	Created time.Time     `json:"created"`
}

// PostUpdateRequest is a partial update - omitted fields are left unchanged
type PostUpdateRequest struct {
	Title   *string `json:"title"`
	Content *string `json:"content"`
}

// HandleListPosts godoc
//
//	@Summary	List all posts
//	@Tags		Posts
//	@Produce	json
//	@Success	200	{array}	PostResponse
//	@Router		/posts [get]
func HandleListPosts(st *store.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		reqLogger := logger.ContextRequestLogger(r.Context())

		posts, err := st.ListPosts(r.Context())
		if err != nil {
			reqLogger.Error("failed to list posts", slog.String("error", err.Error()))
			blog.RespondWithErrorResponse(w, r, blog.WrapInternalError(err, "failed to list posts"))
			return
		}

		// an empty list serializes as [] rather than null
		response := make([]PostResponse, 0, len(posts))
		for _, post := range posts {
			response = append(response, postToResponse(post))
		}

		w.Header().Set("Content-Type", "application/json")
		if err := json.NewEncoder(w).Encode(response); err != nil {
			reqLogger.Error("failed to encode response", slog.String("error", err.Error()))
		}
	}
}

// HandleCreatePost godoc
//
//	@Summary	Create a new post
//	@Tags		Posts
//	@Accept		json
//	@Produce	json
//	@Param		post	body		PostRequest	true	"Post details"
//	@Success	201		{object}	PostResponse
//	@Failure	400		{object}	blog.ErrorResponse	"Invalid request"
//	@Router		/posts [post]
func HandleCreatePost(st *store.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		reqLogger := logger.ContextRequestLogger(r.Context())

		var req PostRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			blog.RespondWithErrorResponse(w, r, blog.WrapMalformedRequestError(err, "invalid request body"))
			return
		}

		post := blog.Post{
			Title:   req.Title,
			Content: req.Content,
			Author: blog.Author{
				FirstName: req.Author.FirstName,
				LastName:  req.Author.LastName,
			},
		}
		if req.Created != nil {
			post.Created = req.Created.UTC()
		}

		if err := post.Validate(); err != nil {
			blog.RespondWithErrorResponse(w, r, err)
			return
		}

		created, err := st.InsertPost(r.Context(), post)
		if err != nil {
			reqLogger.Error("failed to create post", slog.String("error", err.Error()))
			blog.RespondWithErrorResponse(w, r, blog.WrapInternalError(err, "failed to create post"))
			return
		}

		logger.ContextWithLogAttrs(r.Context(), slog.String("post_id", created.ID))

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusCreated)
		if err := json.NewEncoder(w).Encode(postToResponse(created)); err != nil {
			reqLogger.Error("failed to encode response", slog.String("error", err.Error()))
		}
	}
}

// HandleGetPostByID godoc
//
//	@Summary	Get post by ID
//	@Tags		Posts
//	@Produce	json
//	@Param		postID	path		string	true	"Post ID"
//	@Success	200		{object}	PostResponse
//	@Failure	400		{object}	blog.ErrorResponse	"Invalid post ID"
//	@Failure	404		{object}	blog.ErrorResponse	"Post not found"
//	@Router		/posts/{postID} [get]
func HandleGetPostByID(st *store.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		reqLogger := logger.ContextRequestLogger(r.Context())

		postID, ok := parsePostID(w, r)
		if !ok {
			return
		}

		post, err := st.GetPostByID(r.Context(), postID)
		if err != nil {
			if errors.Is(err, store.ErrNotFound) {
				blog.RespondWithErrorResponse(w, r, blog.NewNotFoundError("post not found"))
				return
			}
			reqLogger.Error("failed to fetch post", slog.String("error", err.Error()))
			blog.RespondWithErrorResponse(w, r, blog.WrapInternalError(err, "failed to fetch post"))
			return
		}

		w.Header().Set("Content-Type", "application/json")
		if err := json.NewEncoder(w).Encode(postToResponse(post)); err != nil {
			reqLogger.Error("failed to encode response", slog.String("error", err.Error()))
		}
	}
}

// HandleUpdatePost godoc
//
//	@Summary		Update an existing post
//	@Description	Partial update: only the supplied fields are overwritten, everything else is left unchanged.
//	@Tags			Posts
//	@Accept			json
//	@Param			postID	path	string				true	"Post ID"
//	@Param			post	body	PostUpdateRequest	true	"Fields to update"
//	@Success		204
//	@Failure		400	{object}	blog.ErrorResponse	"Invalid request"
//	@Failure		404	{object}	blog.ErrorResponse	"Post not found"
//	@Router			/posts/{postID} [put]
func HandleUpdatePost(st *store.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		reqLogger := logger.ContextRequestLogger(r.Context())

		postID, ok := parsePostID(w, r)
		if !ok {
			return
		}

		var req PostUpdateRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			blog.RespondWithErrorResponse(w, r, blog.WrapMalformedRequestError(err, "invalid request body"))
			return
		}

		update := blog.PostUpdate{Title: req.Title, Content: req.Content}
		if update.IsEmpty() {
			blog.RespondWithErrorResponse(w, r, blog.NewValidationError("title or content is required"))
			return
		}

		if err := st.UpdatePostFields(r.Context(), postID, update); err != nil {
			if errors.Is(err, store.ErrNotFound) {
				blog.RespondWithErrorResponse(w, r, blog.NewNotFoundError("post not found"))
				return
			}
			reqLogger.Error("failed to update post", slog.String("error", err.Error()))
			blog.RespondWithErrorResponse(w, r, blog.WrapInternalError(err, "failed to update post"))
			return
		}

		w.WriteHeader(http.StatusNoContent)
	}
}

// HandleDeletePost godoc
//
//	@Summary		Delete a post
//	@Description	Idempotent: deleting a post that does not exist still returns 204.
//	@Tags			Posts
//	@Param			postID	path	string	true	"Post ID"
//	@Success		204
//	@Failure		400	{object}	blog.ErrorResponse	"Invalid post ID"
//	@Router			/posts/{postID} [delete]
func HandleDeletePost(st *store.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		reqLogger := logger.ContextRequestLogger(r.Context())

		postID, ok := parsePostID(w, r)
		if !ok {
			return
		}

		if err := st.DeletePost(r.Context(), postID); err != nil {
			reqLogger.Error("failed to delete post", slog.String("error", err.Error()))
			blog.RespondWithErrorResponse(w, r, blog.WrapInternalError(err, "failed to delete post"))
			return
		}

		w.WriteHeader(http.StatusNoContent)
	}
}

// parsePostID validates the postID path parameter. On failure it writes the
// error response and returns ok=false.
func parsePostID(w http.ResponseWriter, r *http.Request) (string, bool) {
	postIDStr := chi.URLParam(r, "postID")

	postID, err := uuid.Parse(postIDStr)
	if err != nil {
		blog.RespondWithErrorResponse(w, r, blog.NewValidationError("invalid post ID"))
		return "", false
	}
	return postID.String(), true
}

func postToResponse(post blog.Post) PostResponse {
	return PostResponse{
		ID:      post.ID,
		Title:   post.Title,
		Content: post.Content,
		Author: AuthorPayload{
			FirstName: post.Author.FirstName,
			LastName:  post.Author.LastName,
		},
		Created: post.Created,
	}
}
