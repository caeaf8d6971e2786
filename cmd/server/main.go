// Package main implements the entry point for the stocktag API server, which
// annotates batches of stock photos with AI-generated metadata and exports
// the tagged files to a remote agency server.
package main

import (
	"context"
	"fmt"
	"log"
	"os"

	"github.com/phrazzld/stocktag-api/internal/config"
	"github.com/phrazzld/stocktag-api/internal/platform/logger"
)

func main() {
	if err := run(); err != nil {
		log.Fatalf("server exited with error: %v", err)
	}
	os.Exit(0)
}

// run loads configuration, wires the application, and serves until shutdown.
func run() error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	appLogger := logger.Setup(cfg.Server)
	appLogger.Info("server configuration loaded",
		"port", cfg.Server.Port,
		"log_level", cfg.Server.LogLevel,
		"temp_dir", cfg.Storage.TempDir,
		"model", cfg.Annotation.Model)

	app, err := newApplication(cfg, appLogger)
	if err != nil {
		return fmt.Errorf("failed to initialize application: %w", err)
	}

	return app.startHTTPServer(context.Background(), app.setupRouter())
}
