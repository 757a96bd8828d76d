package blog

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRandomPosts(t *testing.T) {
	posts := RandomPosts(10)
	require.Len(t, posts, 10)

	now := time.Now().UTC()
	for i, post := range posts {
		assert.Empty(t, post.ID, "post %d: id is assigned by the store, not the generator", i)
		assert.NoError(t, post.Validate(), "post %d", i)
		assert.True(t, post.Created.Before(now), "post %d: seeded posts have past dates", i)
	}
}

func TestLoadFixtures(t *testing.T) {
	fixture := `
posts:
  - title: Hello
    content: First post
    author:
      firstName: Ada
      lastName: Lovelace
  - title: Second
    content: Another post
    author:
      firstName: Grace
      lastName: Hopper
    created: 2021-06-01T12:00:00Z
`
	path := filepath.Join(t.TempDir(), "posts.yaml")
	require.NoError(t, os.WriteFile(path, []byte(fixture), 0o644))

	posts, err := LoadFixtures(path)
	require.NoError(t, err)
	require.Len(t, posts, 2)

	assert.Equal(t, "Hello", posts[0].Title)
	assert.Equal(t, Author{FirstName: "Ada", LastName: "Lovelace"}, posts[0].Author)
	assert.True(t, posts[0].Created.IsZero(), "created defaults to insertion time")

	assert.Equal(t, time.Date(2021, time.June, 1, 12, 0, 0, 0, time.UTC), posts[1].Created.UTC())
}

func TestLoadFixturesRejectsInvalidPosts(t *testing.T) {
	fixture := `
posts:
  - title: No content
    author:
      firstName: Ada
      lastName: Lovelace
`
	path := filepath.Join(t.TempDir(), "posts.yaml")
	require.NoError(t, os.WriteFile(path, []byte(fixture), 0o644))

	_, err := LoadFixtures(path)
	assert.Error(t, err)
}

func TestLoadFixturesMissingFile(t *testing.T) {
	_, err := LoadFixtures(filepath.Join(t.TempDir(), "nope.yaml"))
	assert.Error(t, err)
}
