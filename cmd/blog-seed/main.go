// blog-seed inserts synthetic or fixture-defined blog posts into a database
// for local development and demos.
//
// usage:
//
//	DATABASE_URL=mongodb://localhost:27017 blog-seed --count 10
//	DATABASE_URL=mongodb://localhost:27017 blog-seed --fixtures testdata/posts.yaml
package main

import (
	"context"
	"fmt"
	"log"
	"os"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/penmark/blog-demo/app/internal/blog"
	"github.com/penmark/blog-demo/app/internal/config"
	"github.com/penmark/blog-demo/app/internal/logger"
	"github.com/penmark/blog-demo/app/internal/store"
	"github.com/penmark/blog-demo/app/internal/version"
)

var (
	countFlag    int
	fixturesFlag string
)

func main() {
	cmd := &cobra.Command{
		Use:   "blog-seed",
		Short: "Seed the blog database with posts",
		Long:  `blog-seed bulk-inserts synthetic blog posts (or posts loaded from a YAML fixture file) into the configured database`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return run()
		},
	}

	cmd.Flags().IntVar(&countFlag, "count", 10, "number of random posts to insert")
	cmd.Flags().StringVar(&fixturesFlag, "fixtures", "", "YAML fixture file to load posts from (overrides --count)")

	v := version.Get()
	cmd.Version = fmt.Sprintf("%s (built %s, commit %s)", v.Version, v.BuildDate, v.GitCommit)

	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.NewServerConfig()
	if err != nil {
		log.Printf("failed to load configuration: %v", err.Error())
		os.Exit(1)
	}

	appLogger := logger.InitLogger(logger.ParseLogLevel(cfg.LogLevel), cfg.Environment)

	var posts []blog.Post
	if fixturesFlag != "" {
		posts, err = blog.LoadFixtures(fixturesFlag)
		if err != nil {
			color.Red("✗ %v", err)
			return err
		}
	} else {
		posts = blog.RandomPosts(countFlag)
	}

	ctx, cancel := context.WithTimeout(context.Background(), cfg.DBConnectTimeout)
	defer cancel()

	st, err := store.Connect(ctx, cfg.DatabaseURL, cfg.DatabaseName, appLogger)
	if err != nil {
		color.Red("✗ %v", err)
		return err
	}
	defer st.Close(context.Background())

	inserted, err := st.InsertPosts(ctx, posts)
	if err != nil {
		color.Red("✗ %v", err)
		return err
	}

	color.Green("✔ seeded %d posts into database %q", len(inserted), cfg.DatabaseName)
	return nil
}
