package main

import (
	"encoding/json"

	"github.com/spf13/cobra"

	"github.com/agenthands/bookgraph/internal/app"
)

func newStatsCmd(c *cli) *cobra.Command {
	return &cobra.Command{
		Use:   "stats",
		Short: "Print node and edge counts",
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.withApp(cmd.Context(), func(a *app.App) error {
				counts, err := a.Graph.Counts(cmd.Context())
				if err != nil {
					return err
				}
				enc := json.NewEncoder(cmd.OutOrStdout())
				enc.SetIndent("", "  ")
				return enc.Encode(counts)
			})
		},
	}
}
