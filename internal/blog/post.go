// Package blog defines the blog-post domain model, its validation rules and
// the error types returned by the API.
package blog

import (
	"time"
)

// Author identifies who wrote a post.
type Author struct {
	FirstName string `json:"firstName" bson:"firstName" yaml:"firstName"`
	LastName  string `json:"lastName" bson:"lastName" yaml:"lastName"`
}

// Post is a blog post as persisted in the document store.
//
// The ID is assigned by the store at insertion. Created defaults to the
// insertion time unless the caller supplies a (past) date.
type Post struct {
	ID      string    `json:"id" bson:"_id,omitempty" yaml:"id,omitempty"`
	Author  Author    `json:"author" bson:"author" yaml:"author"`
	Title   string    `json:"title" bson:"title" yaml:"title"`
	Content string    `json:"content" bson:"content" yaml:"content"`
	Created time.Time `json:"created" bson:"created" yaml:"created,omitempty"`
}

// Validate checks the required fields for a new post.
func (p *Post) Validate() error {
	if p.Title == "" {
		return NewValidationError("title is required")
	}
	if p.Content == "" {
		return NewValidationError("content is required")
	}
	if p.Author.FirstName == "" || p.Author.LastName == "" {
		return NewValidationError("author firstName and lastName are required")
	}
	return nil
}

// PostUpdate is a partial update to an existing post. Nil fields are left
// unchanged in the stored document.
type PostUpdate struct {
	Title   *string `json:"title"`
	Content *string `json:"content"`
}

// IsEmpty reports whether the update would change nothing.
func (u PostUpdate) IsEmpty() bool {
	return u.Title == nil && u.Content == nil
}
