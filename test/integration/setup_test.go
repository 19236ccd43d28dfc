//go:build integration

package integration

import (
	"context"
	"os"
	"testing"

	"github.com/joho/godotenv"
	"github.com/stretchr/testify/require"

	"github.com/agenthands/bookgraph/internal/config"
	"github.com/agenthands/bookgraph/internal/graphstore"
)

// openStore connects to the graph named by MEMGRAPH_URI and skips the test
// when it is not set. GRAPH_BACKEND selects neo4j instead of memgraph.
func openStore(t *testing.T) graphstore.Store {
	t.Helper()
	_ = godotenv.Load("../../.env")

	uri := os.Getenv("MEMGRAPH_URI")
	if uri == "" {
		t.Skip("Skipping integration test: MEMGRAPH_URI not set")
	}

	cfg := config.Default()
	cfg.Graph.URI = uri
	config.ApplyEnv(cfg)
	if cfg.Graph.Backend != "neo4j" {
		cfg.Graph.Backend = "memgraph"
	}

	store, err := graphstore.Open(context.Background(), cfg.Graph, nil)
	require.NoError(t, err)
	t.Cleanup(func() { store.Close(context.Background()) })

	require.NoError(t, store.EnsureSchema(context.Background()))
	return store
}
