package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/oxhq/trilium-mcp/internal/config"
	"github.com/oxhq/trilium-mcp/internal/notes"
	"github.com/oxhq/trilium-mcp/internal/trilium"
	"github.com/oxhq/trilium-mcp/mcp"
)

// Stamped with -ldflags at release time.
var (
	version = "dev"
	commit  = "none"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	var verbose bool

	root := &cobra.Command{
		Use:   "trilium-mcp",
		Short: "MCP stdio server for a TriliumNext notes instance",
		Long: "trilium-mcp bridges LLM agents to a TriliumNext instance over MCP:\n" +
			"search, resolve, read, create, update, append, and delete notes\n" +
			"through its external API (ETAPI).",
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return serve(cmd.Context(), verbose)
		},
	}
	root.Flags().BoolVarP(&verbose, "verbose", "v", false, "debug logging on stderr")
	root.AddCommand(newVersionCmd())
	return root
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Run: func(cmd *cobra.Command, _ []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "trilium-mcp %s (%s)\n", version, commit)
		},
	}
}

func serve(ctx context.Context, verbose bool) error {
	// .env is a convenience for local runs; absence is fine.
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		return err
	}
	if verbose {
		cfg.Verbose = true
	}

	// Stdout carries the MCP framing, so the logger must stay on
	// stderr.
	logCfg := zap.NewProductionConfig()
	if cfg.Verbose {
		logCfg.Level = zap.NewAtomicLevelAt(zapcore.DebugLevel)
	}
	logger, err := logCfg.Build()
	if err != nil {
		return fmt.Errorf("building logger: %w", err)
	}
	defer func() {
		_ = logger.Sync()
	}()

	client := trilium.New(cfg.APIURL, cfg.APIToken, cfg.Timeout, logger)
	service := notes.NewService(client, logger)
	srv, err := mcp.NewServer(cfg, service, logger, version)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	logger.Info("starting",
		zap.String("version", version),
		zap.String("upstream", cfg.APIURL),
		zap.String("permissions", cfg.Permissions.String()),
		zap.Duration("timeout", cfg.Timeout),
	)

	if err := srv.Serve(ctx); err != nil && !errors.Is(err, context.Canceled) {
		return err
	}
	logger.Info("stopped")
	return nil
}
