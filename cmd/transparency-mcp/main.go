// transparency-mcp serves question generation and transparency scoring
// as MCP tools over stdio.
//
// Usage:
//
//	transparency-mcp    # configuration is read the same way as the HTTP server
package main

import (
	"fmt"
	"os"

	"github.com/mark3labs/mcp-go/server"
	"github.com/transparencyportal/ai-service/config"
	"github.com/transparencyportal/ai-service/internal/app"
	"github.com/transparencyportal/ai-service/internal/logging"
	"github.com/transparencyportal/ai-service/internal/mcptools"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("loading configuration: %w", err)
	}

	// stdout carries the MCP protocol, so logs go to stderr.
	opts := logging.FromConfig(cfg)
	opts.Output = os.Stderr
	logger, closeLog, err := logging.New(opts)
	if err != nil {
		return fmt.Errorf("configuring logging: %w", err)
	}
	defer closeLog()

	services, err := app.NewServices(cfg, logger)
	if err != nil {
		return fmt.Errorf("creating services: %w", err)
	}

	s := mcptools.NewServer(app.Version, services.Questions, services.Scorer)
	logger.Info().Str("model", services.Questions.ModelID()).Msg("serving MCP tools on stdio")

	return server.ServeStdio(s)
}
