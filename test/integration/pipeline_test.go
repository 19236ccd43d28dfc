//go:build integration

package integration

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/agenthands/bookgraph/internal/config"
	"github.com/agenthands/bookgraph/internal/core"
	"github.com/agenthands/bookgraph/internal/ner"
	"github.com/agenthands/bookgraph/internal/splitter"
)

func TestPipeline_DocumentTwice(t *testing.T) {
	store := openStore(t)
	ctx := context.Background()

	// The suffix keeps titles unique so counts are not affected by earlier runs.
	id := uuid.NewString()[:8]
	doc := fmt.Sprintf("The book 'Dune %[1]s' was written by Frank Herbert and published by Chilton. "+
		"It belongs to the Science Fiction genre.\n\n"+
		"'Emma %[1]s' and 'Persuasion %[1]s' were written by Jane Austen. Both are Romance classics.", id)

	path := filepath.Join(t.TempDir(), "books.txt")
	require.NoError(t, os.WriteFile(path, []byte(doc), 0o644))

	split := splitter.New(config.Default().Splitter, nil)
	g := core.NewBookGraph(store, ner.NewPatternRecognizer(), split, nil)

	first, err := g.AddDocument(ctx, path)
	require.NoError(t, err)
	assert.Equal(t, 2, first.Chunks)
	assert.Equal(t, 7, first.Edges)
	afterFirst, err := g.Counts(ctx)
	require.NoError(t, err)

	_, err = g.AddDocument(ctx, path)
	require.NoError(t, err)
	afterSecond, err := g.Counts(ctx)
	require.NoError(t, err)

	assert.Equal(t, afterFirst.Nodes, afterSecond.Nodes)
	assert.Equal(t, afterFirst.Edges, afterSecond.Edges)
}
