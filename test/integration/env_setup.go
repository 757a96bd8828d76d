//go:build integration

package integration

// Test environment setup and server lifecycle management.
//
// The integration tests start the blog-server HTTP server with a temporary
// database and run tests against it. Each test gets an empty temporary MongoDB
// database (dropped up-front in case a previous run left one behind) and the
// database is dropped again after the test completes.
//
// By default the server logs are not included in the test output, you can enable them with:
//
//	ENABLE_SERVER_LOGS=true go test -tags=integration -v ./test/integration
//
// The MongoDB server defaults to mongodb://localhost:27017 and can be
// overridden with the MONGO_URL environment variable.

import (
	"context"
	"fmt"
	"net"
	"net/http"
	"os"
	"testing"
	"time"

	"github.com/penmark/blog-demo/app/internal/config"
	"github.com/penmark/blog-demo/app/internal/logger"
	"github.com/penmark/blog-demo/app/internal/server"
	"github.com/penmark/blog-demo/app/internal/store"
)

const testDatabaseName = "tmp_blog_integration_test"

// testEnv provides access to the test db and server for integration tests
type testEnv struct {
	baseURL  string
	cfg      *config.ServerEnvironment
	store    *store.Store
	shutdown func()
}

// startInProcessServer starts the blog-server in-process for testing - returns
// the base URL for the API, a store handle for direct assertions against the
// database, and a shutdown function
func startInProcessServer(t *testing.T) *testEnv {
	t.Helper()

	testEnv := &testEnv{}

	t.Log("Starting in-process server...")

	var (
		ctx          = context.Background()
		host         = "localhost"
		port         = findFreePort(t)
		rateLimitRPS = 0
		environment  = "test"
		logLevel     = "none"
	)

	if os.Getenv("ENABLE_SERVER_LOGS") == "true" {
		logLevel = "debug"
	}

	databaseURL := setupTestDatabase(t)

	// Set environment variables before calling NewServerConfig
	testEnvVars := map[string]string{
		"HOST":           host,
		"PORT":           fmt.Sprintf("%d", port),
		"RATE_LIMIT_RPS": fmt.Sprintf("%d", rateLimitRPS),

		"DATABASE_URL":  databaseURL,
		"DATABASE_NAME": testDatabaseName,
		"ENVIRONMENT":   environment,
		"LOG_LEVEL":     logLevel,
	}

	// Save original env vars and set test values
	originalEnvVars := make(map[string]string)
	for key, value := range testEnvVars {
		originalEnvVars[key] = os.Getenv(key)
		os.Setenv(key, value)
	}

	// Restore original environment variables when test completes
	t.Cleanup(func() {
		for key, original := range originalEnvVars {
			if original != "" {
				os.Setenv(key, original)
			} else {
				os.Unsetenv(key)
			}
		}
	})

	cfg, err := config.NewServerConfig()
	if err != nil {
		t.Fatalf("Failed to load configuration: %v", err)
	}

	appLogger := logger.InitLogger(logger.ParseLogLevel(logLevel), environment)

	connectCtx, connectCancel := context.WithTimeout(ctx, cfg.DBConnectTimeout)
	defer connectCancel()

	testEnv.store, err = store.Connect(connectCtx, cfg.DatabaseURL, cfg.DatabaseName, appLogger)
	if err != nil {
		t.Fatalf("Failed to connect to the document store: %v", err)
	}

	serverInstance := server.NewServer(testEnv.store, cfg, appLogger)

	// Create a cancellable context for server shutdown
	serverCtx, serverCancel := context.WithCancel(ctx)

	// Start server
	serverDone := make(chan error, 1)
	go func() {
		defer close(serverDone)
		if err := serverInstance.Start(serverCtx); err != nil {
			serverDone <- err
		}
	}()

	// Create shutdown function to be called by the test
	testEnv.shutdown = func() {
		t.Log("Stopping server...")

		// Cancel the server context to trigger graceful shutdown
		serverCancel()

		// Wait for server to shut down gracefully with timeout
		select {
		case err := <-serverDone:
			if err != nil {
				t.Logf("❌ Server shutdown with error: %v", err)
			} else {
				t.Log("✅ Server shut down gracefully")
			}
		case <-time.After(5 * time.Second):
			t.Log("⚠️ Server shutdown timeout")
		}

		// Ensure database connections are closed
		serverInstance.DatabaseShutdown()
	}

	testEnv.baseURL = fmt.Sprintf("http://localhost:%d", port)
	t.Logf("Starting in-process server at %s", testEnv.baseURL)

	testEnv.cfg = cfg

	// Wait for server to be ready
	if !waitForServer(t, testEnv.baseURL+"/health/live", 30*time.Second) {
		t.Fatal("Server failed to start within timeout")
	}

	t.Log("✅ Server started")
	return testEnv
}

func findFreePort(t *testing.T) int {
	t.Helper()
	listener, err := net.Listen("tcp", ":0")
	if err != nil {
		t.Fatalf("Failed to find free port: %v", err)
	}
	defer listener.Close()

	addr := listener.Addr().(*net.TCPAddr)
	return addr.Port
}

func waitForServer(t *testing.T, url string, timeout time.Duration) bool {
	t.Helper()

	client := &http.Client{Timeout: 1 * time.Second}
	deadline := time.Now().Add(timeout)

	for time.Now().Before(deadline) {
		resp, err := client.Get(url)
		if err == nil {
			resp.Body.Close()
			if resp.StatusCode == http.StatusOK {
				return true
			}
		}
		time.Sleep(100 * time.Millisecond)
	}
	return false
}

// setupTestDatabase drops any leftover test database and registers a cleanup
// that drops it again once the test is complete. A separate admin connection
// is used for the drops because the server's own connection is closed during
// shutdown, before t.Cleanup runs.
func setupTestDatabase(t *testing.T) string {
	t.Helper()

	ctx := context.Background()

	databaseURL := os.Getenv("MONGO_URL")
	if databaseURL == "" {
		databaseURL = "mongodb://localhost:27017"
	}

	adminLogger := logger.InitLogger(logger.ParseLogLevel("none"), "test")

	connectCtx, connectCancel := context.WithTimeout(ctx, 10*time.Second)
	defer connectCancel()

	adminStore, err := store.Connect(connectCtx, databaseURL, testDatabaseName, adminLogger)
	if err != nil {
		t.Fatalf("Can't reach MongoDB server at %s: %v", databaseURL, err)
	}

	// drop leftovers from a previous (possibly crashed) run
	if err := adminStore.Drop(ctx); err != nil {
		t.Fatalf("Failed to drop existing test database: %v", err)
	}

	// drop the test database when the test is complete
	t.Cleanup(func() {
		if err := adminStore.Drop(ctx); err != nil {
			t.Fatalf("Failed to drop test database: %v", err)
		}
		adminStore.Close(ctx)
	})

	t.Logf("Database ready: %s", testDatabaseName)

	return databaseURL
}
