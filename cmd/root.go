// Package cmd wires the tutorial servers into a single CLI. Each
// subcommand starts one MCP server on stdio.
package cmd

import (
	"context"
	"fmt"
	"log/slog"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/mcplab-kr/mcp-go-tutorials/internal/config"
	"github.com/mcplab-kr/mcp-go-tutorials/internal/log"
)

// Version is set at build time via -ldflags.
var Version = "dev"

var verbose bool

var rootCmd = &cobra.Command{
	Use:   "mcptut",
	Short: "MCP tutorial servers",
	Long: `mcptut bundles five Model Context Protocol tutorial servers.

Each subcommand speaks MCP over stdio so it can be registered directly
in an MCP client configuration:

  mcptut hello     arithmetic, greetings, and prompt basics
  mcptut weather   current weather with a demo fallback
  mcptut files     a workspace-confined file manager
  mcptut db        read-only monitoring database queries
  mcptut memo      a memo application backed by SQLite`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		// Missing .env is fine; real environment variables win anyway.
		_ = godotenv.Load()
	},
}

// Execute runs the CLI.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable debug logging")
}

// serverContext returns a context canceled on SIGINT or SIGTERM.
func serverContext() (context.Context, context.CancelFunc) {
	return signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
}

// setup loads configuration and builds the logger shared by every
// subcommand. Logs go to stderr; stdout carries the MCP transport.
func setup() (*config.Config, log.Logger, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, nil, fmt.Errorf("loading configuration: %w", err)
	}

	level := slog.LevelInfo
	if verbose {
		level = slog.LevelDebug
	}
	logger := log.New(log.Config{Level: level, JSON: true})
	return cfg, logger, nil
}
