// Package cmd defines and implements the CLI commands for the visarchiver
// executable. Each pipeline stage is its own subcommand so an external
// scheduler can invoke them independently.
package cmd

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"vistopia-archiver/internal/config"
	"vistopia-archiver/internal/logging"
	"vistopia-archiver/internal/metrics"
	"vistopia-archiver/internal/store"
	"vistopia-archiver/internal/vistopia"
)

var cfgFile string

// runtime bundles the shared handles a stage run needs. The store connection
// is opened at stage start and released on every exit path via close.
type runtime struct {
	cfg    config.Config
	logger *zap.Logger
	store  *store.Store
	api    *vistopia.Client
}

func (r *runtime) close() {
	if r.store != nil {
		r.store.Close()
	}
	if r.logger != nil {
		_ = r.logger.Sync()
	}
}

// setup loads configuration and opens the shared handles for one stage run.
func setup(ctx context.Context) (*runtime, error) {
	// Mirrors the original deployment: secrets come from a .env file when
	// present, config file and env vars otherwise.
	_ = godotenv.Load()

	cfg, err := config.Load(cfgFile)
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}

	logger, err := logging.New(cfg.Logging.Development)
	if err != nil {
		return nil, fmt.Errorf("init logger: %w", err)
	}

	metrics.Init()
	if cfg.Metrics.Addr != "" {
		serveMetrics(cfg.Metrics.Addr, logger)
	}

	st, err := store.New(ctx, store.Config{DSN: cfg.DB.DSN, MaxConns: cfg.DB.MaxConns})
	if err != nil {
		_ = logger.Sync()
		return nil, fmt.Errorf("open store: %w", err)
	}
	logger.Info("connected to document store")

	api := vistopia.New(cfg.API.BaseURL, cfg.API.Token, cfg.APITimeout())

	return &runtime{cfg: cfg, logger: logger, store: st, api: api}, nil
}

// serveMetrics exposes /metrics for the duration of the run.
func serveMetrics(addr string, logger *zap.Logger) {
	mux := http.NewServeMux()
	mux.Handle("/metrics", metrics.Handler())
	go func() {
		if err := http.ListenAndServe(addr, mux); err != nil {
			logger.Warn("metrics listener stopped", zap.Error(err))
		}
	}()
}

func newRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "visarchiver",
		Short: "Content-ingestion pipeline for the Vistopia archive",
		Long: `visarchiver pulls the remote content catalog and its nested article
parts into a Postgres document store, extracts embedded media URLs from the
stored documents, and mirrors the referenced assets into object storage.

Each subcommand is one pipeline stage, intended to be invoked by an external
scheduler (cron).`,
		SilenceUsage: true,
	}

	cmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file path")

	cmd.AddCommand(
		newCatalogCmd(),
		newArticlesCmd(),
		newSyncCmd(),
		newShowsCmd(),
		newExtractCmd(),
		newMirrorCmd(),
	)
	return cmd
}

// Execute is the main entry point.
func Execute() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := newRootCmd().ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}
