package core

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/agenthands/bookgraph/internal/core/extraction"
	"github.com/agenthands/bookgraph/internal/core/model"
	"github.com/agenthands/bookgraph/internal/core/writer"
	"github.com/agenthands/bookgraph/internal/graphstore"
	"github.com/agenthands/bookgraph/internal/ner"
)

// DocumentSplitter turns a file into ordered text chunks.
type DocumentSplitter interface {
	Split(ctx context.Context, path string) ([]string, error)
}

// BatchStats summarizes one AddChunks call. Chunks is the number of chunks
// fully written; on error it is the index of the failing chunk.
type BatchStats struct {
	Chunks    int `json:"chunks"`
	Entities  int `json:"entities"`
	Relations int `json:"relations"`
	writer.Stats
}

// BookGraph runs extraction and graph writes for one chunk at a time. It
// does not own Store; the caller opens and closes it.
type BookGraph struct {
	Store     graphstore.Store
	Extractor *extraction.Extractor
	Writer    *writer.Writer
	Splitter  DocumentSplitter

	logger *zap.Logger
}

func NewBookGraph(store graphstore.Store, recognizer ner.Recognizer, splitter DocumentSplitter, logger *zap.Logger) *BookGraph {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &BookGraph{
		Store:     store,
		Extractor: extraction.NewExtractor(recognizer, logger),
		Writer:    writer.NewWriter(store, logger),
		Splitter:  splitter,
		logger:    logger,
	}
}

func (g *BookGraph) BuildIndices(ctx context.Context) error {
	return g.Store.EnsureSchema(ctx)
}

func (g *BookGraph) Counts(ctx context.Context) (graphstore.Counts, error) {
	return g.Store.Counts(ctx)
}

// Extract runs extraction only; nothing is written.
func (g *BookGraph) Extract(ctx context.Context, chunk string) *model.ExtractionResult {
	return g.Extractor.Extract(ctx, chunk)
}

// AddChunk extracts one chunk and writes the result.
func (g *BookGraph) AddChunk(ctx context.Context, chunk string) (*model.ExtractionResult, writer.Stats, error) {
	result := g.Extractor.Extract(ctx, chunk)
	stats, err := g.Writer.Write(ctx, result)
	return result, stats, err
}

// AddChunks processes chunks in order and stops at the first store error or
// when ctx is cancelled. Cancellation is only observed between chunks.
func (g *BookGraph) AddChunks(ctx context.Context, chunks []string) (BatchStats, error) {
	var batch BatchStats

	for i, chunk := range chunks {
		if err := ctx.Err(); err != nil {
			return batch, fmt.Errorf("batch cancelled after %d of %d chunks: %w", i, len(chunks), err)
		}

		result, stats, err := g.AddChunk(ctx, chunk)
		if err != nil {
			g.logger.Error("failed to write chunk", zap.Int("chunk", i), zap.Error(err))
			return batch, fmt.Errorf("chunk %d: %w", i, err)
		}

		batch.Chunks++
		batch.Entities += result.EntityCount()
		batch.Relations += len(result.Relations)
		batch.Add(stats)

		g.logger.Info("processed chunk",
			zap.Int("chunk", i),
			zap.Int("entities", result.EntityCount()),
			zap.Int("relations", len(result.Relations)),
			zap.Int("edges", stats.Edges),
			zap.Int("skipped", stats.Skipped),
		)
	}
	return batch, nil
}

// AddDocument splits the file at path and ingests its chunks.
func (g *BookGraph) AddDocument(ctx context.Context, path string) (BatchStats, error) {
	if g.Splitter == nil {
		return BatchStats{}, fmt.Errorf("no splitter configured")
	}
	chunks, err := g.Splitter.Split(ctx, path)
	if err != nil {
		return BatchStats{}, fmt.Errorf("failed to split %s: %w", path, err)
	}
	return g.AddChunks(ctx, chunks)
}
