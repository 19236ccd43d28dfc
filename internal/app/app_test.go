package app

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/agenthands/bookgraph/internal/config"
	"github.com/agenthands/bookgraph/internal/graphstore"
	"github.com/agenthands/bookgraph/internal/ner"
)

func TestOpen_Memory(t *testing.T) {
	cfg := config.Default()
	cfg.Graph.Backend = "memory"

	a, err := Open(context.Background(), cfg, nil)
	require.NoError(t, err)
	defer a.Close(context.Background())

	assert.IsType(t, &ner.PatternRecognizer{}, a.Graph.Extractor.Recognizer)

	batch, err := a.Graph.AddChunks(context.Background(), a.Splitter.SplitText(
		"The book 'Dune' was written by Frank Herbert.\n\n'Emma' is a Romance."))
	require.NoError(t, err)
	assert.Equal(t, 2, batch.Chunks)
}

func TestOpen_LLMRecognizer(t *testing.T) {
	cfg := config.Default()
	cfg.Graph.Backend = "memory"
	cfg.NER.Recognizer = "llm"

	a, err := Open(context.Background(), cfg, nil)
	require.NoError(t, err)
	defer a.Close(context.Background())

	assert.IsType(t, &ner.LLMRecognizer{}, a.Graph.Extractor.Recognizer)
	assert.NotNil(t, a.LLM)
}

type closingLLM struct {
	closed int
}

func (c *closingLLM) Generate(ctx context.Context, prompt string) (string, error) {
	return `{"entities": []}`, nil
}

func (c *closingLLM) Close() error {
	c.closed++
	return nil
}

func TestClose_ReleasesLLMClient(t *testing.T) {
	client := &closingLLM{}
	store := graphstore.NewMemoryStore()
	a := &App{Store: store, LLM: client}

	require.NoError(t, a.Close(context.Background()))
	assert.Equal(t, 1, client.closed)
	assert.ErrorIs(t, store.MergeNode(context.Background(), "Book", "title", "Dune"), graphstore.ErrClosed)

	a = &App{Store: graphstore.NewMemoryStore()}
	assert.NoError(t, a.Close(context.Background()))
}

func TestOpen_UnknownRecognizer(t *testing.T) {
	cfg := config.Default()
	cfg.Graph.Backend = "memory"
	cfg.NER.Recognizer = "spacy"

	_, err := Open(context.Background(), cfg, nil)
	assert.Error(t, err)
}
