// Package writer persists extraction results as graph nodes and edges.
package writer

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/agenthands/bookgraph/internal/core/model"
	"github.com/agenthands/bookgraph/internal/graphstore"
)

// Stats counts the work done by one Write.
type Stats struct {
	Nodes   int `json:"nodes"`
	Edges   int `json:"edges"`
	Skipped int `json:"skipped"`
}

func (s *Stats) Add(o Stats) {
	s.Nodes += o.Nodes
	s.Edges += o.Edges
	s.Skipped += o.Skipped
}

type Writer struct {
	Store  graphstore.Store
	logger *zap.Logger
}

func NewWriter(store graphstore.Store, logger *zap.Logger) *Writer {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Writer{Store: store, logger: logger}
}

// Write upserts every entity, then every relation whose endpoints exist.
// A relation with a missing endpoint is skipped; any store error aborts the
// write.
func (w *Writer) Write(ctx context.Context, result *model.ExtractionResult) (Stats, error) {
	var stats Stats
	if result == nil {
		return stats, nil
	}

	for _, kind := range model.EntityKinds {
		for _, e := range result.Entities[kind] {
			if err := w.Store.MergeNode(ctx, kind.Label(), kind.Key(), e.Value); err != nil {
				return stats, fmt.Errorf("failed to write %s %q: %w", kind.Label(), e.Value, err)
			}
			stats.Nodes++
		}
	}

	for _, rel := range result.Relations {
		from := nodeRef(model.KindBook, rel.Book)
		to := nodeRef(rel.Kind.Target(), rel.Target)

		merged, err := w.Store.MergeEdge(ctx, string(rel.Kind), from, to)
		if err != nil {
			return stats, fmt.Errorf("failed to write %s relation %q -> %q: %w", string(rel.Kind), rel.Book, rel.Target, err)
		}
		if !merged {
			stats.Skipped++
			w.logger.Debug("relation target not found, skipping",
				zap.String("book", rel.Book),
				zap.String("relation", string(rel.Kind)),
				zap.String("target", rel.Target),
			)
			continue
		}
		stats.Edges++
	}
	return stats, nil
}

func nodeRef(kind model.EntityKind, value string) graphstore.NodeRef {
	return graphstore.NodeRef{Label: kind.Label(), Key: kind.Key(), Value: value}
}
