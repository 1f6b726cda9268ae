package main

import (
	"context"
	"log/slog"
	"os"

	"github.com/mark3labs/mcp-go/server"

	mcpadapter "github.com/kirillkom/summary-service/internal/adapters/mcp"
	"github.com/kirillkom/summary-service/internal/bootstrap"
	"github.com/kirillkom/summary-service/internal/config"
	"github.com/kirillkom/summary-service/internal/observability/logging"
)

func main() {
	cfg := config.Load()
	// stdout carries the MCP protocol.
	logger := logging.NewCLILogger(cfg.LogLevel)
	slog.SetDefault(logger)

	app, err := bootstrap.New(context.Background(), cfg)
	if err != nil {
		logger.Error("bootstrap_failed", "error", err)
		os.Exit(1)
	}
	defer app.Close()

	tools := mcpadapter.NewTools(app.IngestUC, app.RateUC, app.QueryUC)
	if err := server.ServeStdio(tools.Server()); err != nil {
		logger.Error("mcp_server_failed", "error", err)
		os.Exit(1)
	}
}
