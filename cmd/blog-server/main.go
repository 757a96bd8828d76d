package main

import (
	"context"
	"fmt"
	"log"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/penmark/blog-demo/app/internal/config"
	"github.com/penmark/blog-demo/app/internal/logger"
	"github.com/penmark/blog-demo/app/internal/server"
	"github.com/penmark/blog-demo/app/internal/store"
	"github.com/penmark/blog-demo/app/internal/version"
)

//	@title			blog-server
//	@description	blog-server is a simple blog-post CRUD REST API backed by MongoDB
//	@description
//	@description	## Common Error Responses
//	@description	All endpoints may return:
//	@description	- `413` Request body exceeds size limit
//	@description	- `429` Rate limit exceeded
//	@description	- `500` Internal server error
//	@description
//	@description	Individual endpoints document their specific business logic errors.
//	@description
//	@description	## Request Limits
//	@description	All endpoints are protected by:
//	@description	- **Rate limiting**: Configurable requests per second (see env vars) - default 100 rps (set to 0 to disable)
//	@description	- **Request size limits**: Configurable (see env vars) - default 1MB
//	@description
//	@description	Check the X-Max-Request-Size response header for the configured limit.
//	@description
//	@license.name	MIT

//	@accept		json
//	@produce	json

//	@tag.name			Posts
//	@tag.description	Blog post CRUD endpoints

//	@tag.name			Common
//	@tag.description	Server API endpoints (health, readiness, version, etc.)

func main() {
	cmd := &cobra.Command{
		Use:   "blog-server",
		Short: "Blog post CRUD API server",
		Long:  `blog-server serves a blog-post CRUD REST API backed by a MongoDB document store`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return run()
		},
	}

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

	appLogger.Info("Configuration loaded",
		slog.String("ENVIRONMENT", cfg.Environment),
		slog.String("HOST", cfg.Host),
		slog.Int("PORT", cfg.Port),
		slog.String("LOG_LEVEL", cfg.LogLevel),
		slog.String("DATABASE_URL", cfg.DatabaseURL),
		slog.String("DATABASE_NAME", cfg.DatabaseName),
	)

	dbCtx, dbCancel := context.WithTimeout(context.Background(), cfg.DBConnectTimeout)
	defer dbCancel()

	st, err := store.Connect(dbCtx, cfg.DatabaseURL, cfg.DatabaseName, appLogger)
	if err != nil {
		appLogger.Error("Unable to connect to the document store", slog.String("error", err.Error()))
		os.Exit(1)
	}

	appLogger.Info("connected to MongoDB", slog.String("database", cfg.DatabaseName))

	appLogger.Info("Starting server", slog.String("version", version.Get().Version))

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// configure the server
	server := server.NewServer(st, cfg, appLogger)

	defer server.DatabaseShutdown()

	// start the server
	if err := server.Start(ctx); err != nil {
		appLogger.Error("Server error", slog.String("error", err.Error()))
		return err
	}

	appLogger.Info("server shutdown complete")
	return nil
}
