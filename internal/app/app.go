// Package app wires configuration into a ready BookGraph.
package app

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/agenthands/bookgraph/internal/config"
	"github.com/agenthands/bookgraph/internal/core"
	"github.com/agenthands/bookgraph/internal/graphstore"
	"github.com/agenthands/bookgraph/internal/llm"
	"github.com/agenthands/bookgraph/internal/ner"
	"github.com/agenthands/bookgraph/internal/splitter"
)

type App struct {
	Graph    *core.BookGraph
	Splitter *splitter.Splitter
	Store    graphstore.Store
	// LLM is nil unless the llm recognizer is configured.
	LLM llm.LLMClient
}

// Open connects the graph store and builds the pipeline. The caller must
// Close the returned App.
func Open(ctx context.Context, cfg *config.Config, logger *zap.Logger) (*App, error) {
	if logger == nil {
		logger = zap.NewNop()
	}

	recognizer, client, err := NewRecognizer(ctx, cfg, logger)
	if err != nil {
		return nil, err
	}

	store, err := graphstore.Open(ctx, cfg.Graph, logger)
	if err != nil {
		_ = llm.Close(client)
		return nil, fmt.Errorf("failed to open %s graph store: %w", cfg.Graph.Backend, err)
	}

	split := splitter.New(cfg.Splitter, logger)
	return &App{
		Graph:    core.NewBookGraph(store, recognizer, split, logger),
		Splitter: split,
		Store:    store,
		LLM:      client,
	}, nil
}

// Close closes the graph store and the LLM client, if any.
func (a *App) Close(ctx context.Context) error {
	storeErr := a.Store.Close(ctx)
	var llmErr error
	if a.LLM != nil {
		llmErr = llm.Close(a.LLM)
	}
	return errors.Join(storeErr, llmErr)
}

// NewRecognizer builds the configured recognizer. It creates an LLM client
// only when the llm recognizer is selected; the caller owns that client and
// must release it with llm.Close.
func NewRecognizer(ctx context.Context, cfg *config.Config, logger *zap.Logger) (ner.Recognizer, llm.LLMClient, error) {
	var client llm.LLMClient
	if cfg.NER.Recognizer == "llm" {
		c, err := llm.NewClient(ctx, cfg.LLM, logger)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to initialize llm client: %w", err)
		}
		client = c
	}

	recognizer, err := ner.New(cfg.NER, client)
	if err != nil {
		_ = llm.Close(client)
		return nil, nil, fmt.Errorf("failed to initialize recognizer: %w", err)
	}
	return recognizer, client, nil
}
