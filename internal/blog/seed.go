package blog

// seed.go generates synthetic posts for seeding test and development databases

import (
	"fmt"
	"math/rand/v2"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

var seedAuthors = []Author{
	{FirstName: "Ada", LastName: "Lovelace"},
	{FirstName: "Grace", LastName: "Hopper"},
	{FirstName: "Edsger", LastName: "Dijkstra"},
	{FirstName: "Barbara", LastName: "Liskov"},
	{FirstName: "Donald", LastName: "Knuth"},
	{FirstName: "Frances", LastName: "Allen"},
}

var seedTopics = []string{
	"Document Databases",
	"Graceful Shutdown",
	"Structured Logging",
	"Rate Limiting",
	"Integration Testing",
	"Schema Design",
	"Connection Pooling",
	"Request Tracing",
}

// RandomPost returns a synthetic post with no ID (the store assigns one at
// insertion). Created is set to a past date so seeded data is distinguishable
// from documents created during a test run.
func RandomPost() Post {
	topic := seedTopics[rand.IntN(len(seedTopics))]

	return Post{
		Author:  seedAuthors[rand.IntN(len(seedAuthors))],
		Title:   fmt.Sprintf("Notes on %s", topic),
		Content: fmt.Sprintf("Some thoughts about %s, written down before they are forgotten.", topic),
		Created: time.Now().UTC().Add(-time.Duration(1+rand.IntN(365*24)) * time.Hour).Truncate(time.Millisecond),
	}
}

// RandomPosts returns n synthetic posts.
func RandomPosts(n int) []Post {
	posts := make([]Post, 0, n)
	for range n {
		posts = append(posts, RandomPost())
	}
	return posts
}

type fixtureFile struct {
	Posts []Post `yaml:"posts"`
}

// LoadFixtures reads posts from a YAML fixture file, e.g.
//
//	posts:
//	  - title: Hello
//	    content: First post
//	    author:
//	      firstName: Ada
//	      lastName: Lovelace
func LoadFixtures(path string) ([]Post, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read fixture file %s: %w", path, err)
	}

	var fixtures fixtureFile
	if err := yaml.Unmarshal(data, &fixtures); err != nil {
		return nil, fmt.Errorf("failed to parse fixture file %s: %w", path, err)
	}

	for i := range fixtures.Posts {
		if err := fixtures.Posts[i].Validate(); err != nil {
			return nil, fmt.Errorf("fixture post %d is invalid: %w", i, err)
		}
	}

	return fixtures.Posts, nil
}
