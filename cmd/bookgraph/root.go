package main

import (
	"context"
	"fmt"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/agenthands/bookgraph/internal/app"
	"github.com/agenthands/bookgraph/internal/config"
	"github.com/agenthands/bookgraph/internal/logging"
)

// cli holds state shared by every subcommand once the root has run.
type cli struct {
	cfgFile  string
	logLevel string
	dryRun   bool

	cfg    *config.Config
	logger *zap.Logger
}

func newRootCmd() *cobra.Command {
	c := &cli{}

	root := &cobra.Command{
		Use:   "bookgraph",
		Short: "Build a book knowledge graph from text",
		Long: `bookgraph extracts books, authors, publishers and genres from text and
stores them, with the relations between them, in a property graph.

Documents (PDF, plain text, Markdown) are split into chunks and processed one
chunk at a time. Graph writes are idempotent, so re-ingesting a document does
not duplicate nodes or edges.`,
		SilenceUsage:      true,
		PersistentPreRunE: c.init,
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			if c.logger != nil {
				_ = c.logger.Sync()
			}
		},
	}

	root.PersistentFlags().StringVar(&c.cfgFile, "config", "config/config.toml", "config file (TOML or YAML)")
	root.PersistentFlags().StringVar(&c.logLevel, "log-level", "", "log level (debug, info, warn, error)")
	root.PersistentFlags().BoolVar(&c.dryRun, "dry-run", false, "use an in-memory graph instead of the configured backend")

	root.AddCommand(
		newIngestCmd(c),
		newExtractCmd(c),
		newServeCmd(c),
		newStatsCmd(c),
	)
	return root
}

func (c *cli) init(cmd *cobra.Command, args []string) error {
	_ = godotenv.Load()

	cfg, err := config.LoadOrDefault(c.cfgFile)
	if err != nil {
		return err
	}
	config.ApplyEnv(cfg)
	if c.logLevel != "" {
		cfg.Log.Level = c.logLevel
	}
	if c.dryRun {
		cfg.Graph.Backend = "memory"
	}
	if err := cfg.Validate(); err != nil {
		return err
	}

	logger, err := logging.New(cfg.Log)
	if err != nil {
		return err
	}

	c.cfg = cfg
	c.logger = logger
	return nil
}

// withApp opens the graph for the duration of fn and always closes it.
func (c *cli) withApp(ctx context.Context, fn func(a *app.App) error) error {
	a, err := app.Open(ctx, c.cfg, c.logger)
	if err != nil {
		return err
	}
	defer func() {
		if err := a.Close(context.Background()); err != nil {
			c.logger.Warn("failed to close graph store", zap.Error(err))
		}
	}()

	if err := a.Graph.BuildIndices(ctx); err != nil {
		return fmt.Errorf("failed to build indices: %w", err)
	}
	return fn(a)
}
