// Package store implements the document store for blog posts on top of
// MongoDB. It owns the client lifecycle (connect/ping/disconnect) and all
// collection operations - nothing else in the app imports the mongo driver.
package store

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"
	"go.mongodb.org/mongo-driver/mongo/writeconcern"

	"github.com/penmark/blog-demo/app/internal/blog"
)

const postsCollection = "posts"

// ErrNotFound is returned when no document matches the requested id.
var ErrNotFound = errors.New("post not found")

// Store holds the mongo client and the database the posts live in.
type Store struct {
	client *mongo.Client
	db     *mongo.Database
	logger *slog.Logger
}

// Connect creates a mongo client, verifies connectivity with a ping and
// returns a Store bound to databaseName.
func Connect(ctx context.Context, databaseURL, databaseName string, logger *slog.Logger) (*Store, error) {
	clientOptions := options.Client().
		ApplyURI(databaseURL).
		SetWriteConcern(writeconcern.Journaled())

	client, err := mongo.Connect(ctx, clientOptions)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to mongodb: %w", err)
	}

	if err := client.Ping(ctx, readpref.Primary()); err != nil {
		// best effort - the connect context may already be expired
		_ = client.Disconnect(context.Background())
		return nil, fmt.Errorf("failed to ping mongodb at %s: %w", databaseURL, err)
	}

	return &Store{
		client: client,
		db:     client.Database(databaseName),
		logger: logger,
	}, nil
}

// Ping verifies the database is reachable (used by the readiness handler).
func (s *Store) Ping(ctx context.Context) error {
	return s.client.Ping(ctx, readpref.Primary())
}

// Close disconnects the mongo client.
func (s *Store) Close(ctx context.Context) {
	if err := s.client.Disconnect(ctx); err != nil {
		s.logger.Warn("error disconnecting from mongodb", slog.String("error", err.Error()))
		return
	}
	s.logger.Info("database connection closed")
}

// DatabaseName returns the name of the database this store is bound to.
func (s *Store) DatabaseName() string {
	return s.db.Name()
}

func (s *Store) posts() *mongo.Collection {
	return s.db.Collection(postsCollection)
}

// prepare assigns an id and a creation timestamp where the caller did not
// supply them. Ids are uuids generated here rather than mongo ObjectIDs so
// they stay opaque strings throughout the API.
func prepare(post *blog.Post) {
	if post.ID == "" {
		post.ID = uuid.NewString()
	}
	if post.Created.IsZero() {
		post.Created = time.Now().UTC().Truncate(time.Millisecond)
	}
}

// InsertPost persists a single post, assigning its id and creation time.
// The stored post is returned.
func (s *Store) InsertPost(ctx context.Context, post blog.Post) (blog.Post, error) {
	prepare(&post)

	if _, err := s.posts().InsertOne(ctx, post); err != nil {
		return blog.Post{}, fmt.Errorf("failed to insert post: %w", err)
	}
	return post, nil
}

// InsertPosts bulk-inserts posts (used for seeding). Ids and creation times
// are assigned as in InsertPost. The stored posts are returned.
func (s *Store) InsertPosts(ctx context.Context, posts []blog.Post) ([]blog.Post, error) {
	if len(posts) == 0 {
		return nil, nil
	}

	documents := make([]interface{}, 0, len(posts))
	for i := range posts {
		prepare(&posts[i])
		documents = append(documents, posts[i])
	}

	if _, err := s.posts().InsertMany(ctx, documents); err != nil {
		return nil, fmt.Errorf("failed to insert %d posts: %w", len(posts), err)
	}
	return posts, nil
}

// GetPostByID fetches a single post. Returns ErrNotFound if no document
// matches.
func (s *Store) GetPostByID(ctx context.Context, id string) (blog.Post, error) {
	var post blog.Post

	err := s.posts().FindOne(ctx, bson.M{"_id": id}).Decode(&post)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return blog.Post{}, ErrNotFound
		}
		return blog.Post{}, fmt.Errorf("failed to fetch post %s: %w", id, err)
	}
	return post, nil
}

// ListPosts returns all posts ordered by creation time.
func (s *Store) ListPosts(ctx context.Context) ([]blog.Post, error) {
	findOptions := options.Find().SetSort(bson.D{{Key: "created", Value: 1}})

	cursor, err := s.posts().Find(ctx, bson.M{}, findOptions)
	if err != nil {
		return nil, fmt.Errorf("failed to list posts: %w", err)
	}

	var posts []blog.Post
	if err := cursor.All(ctx, &posts); err != nil {
		return nil, fmt.Errorf("failed to decode posts: %w", err)
	}
	return posts, nil
}

// CountPosts returns the number of stored posts.
func (s *Store) CountPosts(ctx context.Context) (int64, error) {
	count, err := s.posts().CountDocuments(ctx, bson.M{})
	if err != nil {
		return 0, fmt.Errorf("failed to count posts: %w", err)
	}
	return count, nil
}

// UpdatePostFields overwrites only the fields supplied in update, leaving the
// rest of the document untouched. Returns ErrNotFound if no document matches.
func (s *Store) UpdatePostFields(ctx context.Context, id string, update blog.PostUpdate) error {
	fields := bson.M{}
	if update.Title != nil {
		fields["title"] = *update.Title
	}
	if update.Content != nil {
		fields["content"] = *update.Content
	}
	if len(fields) == 0 {
		return nil
	}

	result, err := s.posts().UpdateOne(ctx, bson.M{"_id": id}, bson.M{"$set": fields})
	if err != nil {
		return fmt.Errorf("failed to update post %s: %w", id, err)
	}
	if result.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}

// DeletePost removes the post with the given id. Deletes are idempotent:
// deleting a missing post is not an error.
func (s *Store) DeletePost(ctx context.Context, id string) error {
	if _, err := s.posts().DeleteOne(ctx, bson.M{"_id": id}); err != nil {
		return fmt.Errorf("failed to delete post %s: %w", id, err)
	}
	return nil
}

// ClearPosts removes every document from the posts collection (test cleanup).
func (s *Store) ClearPosts(ctx context.Context) error {
	if _, err := s.posts().DeleteMany(ctx, bson.M{}); err != nil {
		return fmt.Errorf("failed to clear posts: %w", err)
	}
	return nil
}

// Drop removes the whole database (integration test teardown).
func (s *Store) Drop(ctx context.Context) error {
	if err := s.db.Drop(ctx); err != nil {
		return fmt.Errorf("failed to drop database %s: %w", s.db.Name(), err)
	}
	return nil
}
