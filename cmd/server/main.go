/*
main.go - Application entry point

PURPOSE:
  Initializes and starts the lease renewal HTTP server.
  Handles configuration, dependency injection, and graceful shutdown.

STARTUP SEQUENCE:
  1. Load YAML config (optional), then apply command-line flags
  2. Initialize SQLite store
  3. Create API handler and metrics
  4. Start run retention scheduler (if retention_days > 0)
  5. Configure HTTP router
  6. Start server with graceful shutdown

COMMAND-LINE FLAGS:
  -config  YAML config file (optional)
  -port    HTTP server port (default: 8080)
  -db      SQLite database path (default: leases.db)
           Use ":memory:" for in-memory database
  -max     Default renewals per day when a request gives none (default: 5)

GRACEFUL SHUTDOWN:
  On SIGINT/SIGTERM:
  1. Stop accepting new connections
  2. Wait for active requests to complete (30s timeout)
  3. Stop retention scheduler
  4. Close database connection
  5. Exit

EXAMPLES:
  ./server -db="./data/leases.db" -max=3
  ./server -config=config.yaml -port=3000

SEE ALSO:
  - api/server.go: Router configuration
  - config/config.go: Config file format
*/
package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/warp/lease-engine/api"
	"github.com/warp/lease-engine/config"
	"github.com/warp/lease-engine/metrics"
	"github.com/warp/lease-engine/store/sqlite"
)

func main() {
	// Flags
	cfgPath := flag.String("config", "", "YAML config file")
	port := flag.Int("port", 0, "HTTP server port (overrides config)")
	dbPath := flag.String("db", "", "SQLite database path (overrides config)")
	maxPerDay := flag.Int("max", -1, "Default renewals per day (overrides config)")
	flag.Parse()

	cfg, err := config.Load(*cfgPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load config: %v\n", err)
		os.Exit(1)
	}
	if *port != 0 {
		cfg.Port = *port
	}
	if *dbPath != "" {
		cfg.DBPath = *dbPath
	}
	if *maxPerDay >= 0 {
		cfg.MaxPerDay = *maxPerDay
	}
	logger := cfg.NewLogger()
	slog.SetDefault(logger)

	// Initialize store
	store, err := sqlite.New(cfg.DBPath)
	if err != nil {
		logger.Error("failed to initialize database", "path", cfg.DBPath, "error", err)
		os.Exit(1)
	}
	defer store.Close()

	// Initialize handler
	handler := api.NewHandler(store, logger, cfg.MaxPerDay, cfg.RowsPerPage)
	m := metrics.New()
	handler.Service.Observer = m

	// Start retention scheduler
	retention := api.NewRetentionScheduler(store, cfg.Retention(), logger)
	retention.Start()
	defer retention.Stop()

	// Create router
	router := api.NewRouter(handler, api.RouterOptions{
		AllowedOrigins: cfg.AllowedOrigins,
		Metrics:        m.Handler(),
	})

	// Create server
	server := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Port),
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Start server in goroutine
	go func() {
		logger.Info("server starting", "addr", server.Addr, "db", cfg.DBPath, "max_per_day", cfg.MaxPerDay)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("server failed", "error", err)
			os.Exit(1)
		}
	}()

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("shutting down server")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		logger.Error("server forced to shutdown", "error", err)
	}

	logger.Info("server stopped")
}
