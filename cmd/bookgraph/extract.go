package main

import (
	"encoding/json"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/agenthands/bookgraph/internal/app"
	"github.com/agenthands/bookgraph/internal/core/extraction"
	"github.com/agenthands/bookgraph/internal/llm"
)

func newExtractCmd(c *cli) *cobra.Command {
	return &cobra.Command{
		Use:   "extract [TEXT]",
		Short: "Print the entities and relations found in text without writing them",
		Long: `Print the extraction result for TEXT as JSON. When TEXT is omitted it is
read from standard input. Nothing is written to the graph.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var text string
			if len(args) == 1 {
				text = args[0]
			} else {
				b, err := io.ReadAll(cmd.InOrStdin())
				if err != nil {
					return err
				}
				text = string(b)
			}

			recognizer, client, err := app.NewRecognizer(cmd.Context(), c.cfg, c.logger)
			if err != nil {
				return err
			}
			defer llm.Close(client)

			result := extraction.NewExtractor(recognizer, c.logger).Extract(cmd.Context(), strings.TrimSpace(text))

			enc := json.NewEncoder(cmd.OutOrStdout())
			enc.SetIndent("", "  ")
			return enc.Encode(result)
		},
	}
}
