package main

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/agenthands/bookgraph/internal/app"
	"github.com/agenthands/bookgraph/internal/core"
)

func newIngestCmd(c *cli) *cobra.Command {
	return &cobra.Command{
		Use:   "ingest FILE...",
		Short: "Split documents and write their entities to the graph",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.withApp(cmd.Context(), func(a *app.App) error {
				var total core.BatchStats
				for _, path := range args {
					batch, err := a.Graph.AddDocument(cmd.Context(), path)
					if err != nil {
						return fmt.Errorf("%s: %w", path, err)
					}
					c.logger.Info("ingested document",
						zap.String("path", path),
						zap.Int("chunks", batch.Chunks),
						zap.Int("nodes", batch.Nodes),
						zap.Int("edges", batch.Edges),
					)
					total.Chunks += batch.Chunks
					total.Entities += batch.Entities
					total.Relations += batch.Relations
					total.Add(batch.Stats)
				}

				enc := json.NewEncoder(cmd.OutOrStdout())
				enc.SetIndent("", "  ")
				return enc.Encode(total)
			})
		},
	}
}
