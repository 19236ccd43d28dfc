// Package graphstore persists book graph nodes and edges. Every operation is
// an idempotent upsert: merging the same node or edge twice leaves the graph
// unchanged.
package graphstore

import (
	"context"
	"errors"
	"fmt"
	"regexp"

	"go.uber.org/zap"

	"github.com/agenthands/bookgraph/internal/config"
	"github.com/agenthands/bookgraph/internal/driver"
)

var (
	// ErrUnavailable is returned when the backing database cannot be reached.
	ErrUnavailable = driver.ErrUnavailable
	ErrClosed      = errors.New("graph store closed")
	ErrInvalidName = errors.New("invalid label or relationship name")
)

// NodeRef identifies a node by label and identifying property.
type NodeRef struct {
	Label string
	Key   string
	Value string
}

type Counts struct {
	Nodes         int64            `json:"nodes"`
	Edges         int64            `json:"edges"`
	Labels        map[string]int64 `json:"labels"`
	Relationships map[string]int64 `json:"relationships"`
}

func newCounts() Counts {
	return Counts{Labels: map[string]int64{}, Relationships: map[string]int64{}}
}

type Store interface {
	MergeNode(ctx context.Context, label, key, value string) error
	// MergeEdge reports merged=false without creating anything when either
	// endpoint does not exist.
	MergeEdge(ctx context.Context, rel string, from, to NodeRef) (merged bool, err error)
	Counts(ctx context.Context) (Counts, error)
	EnsureSchema(ctx context.Context) error
	Close(ctx context.Context) error
}

var identifier = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]*$`)

func checkNames(names ...string) error {
	for _, n := range names {
		if !identifier.MatchString(n) {
			return fmt.Errorf("%w: %q", ErrInvalidName, n)
		}
	}
	return nil
}

// Open returns the store selected by cfg.Backend. The caller owns the store
// and must Close it.
func Open(ctx context.Context, cfg config.GraphConfig, logger *zap.Logger) (Store, error) {
	if logger == nil {
		logger = zap.NewNop()
	}

	switch cfg.Backend {
	case "memgraph":
		d, err := driver.NewMemgraphDriver(ctx, cfg.URI, cfg.User, cfg.Password, logger)
		if err != nil {
			return nil, err
		}
		return NewCypherStore(d, logger), nil
	case "neo4j":
		d, err := driver.NewNeo4jDriver(ctx, cfg.URI, cfg.User, cfg.Password, cfg.Database, logger)
		if err != nil {
			return nil, err
		}
		return NewCypherStore(d, logger), nil
	case "badger":
		return OpenBadgerStore(cfg.Path, logger)
	case "memory":
		return NewMemoryStore(), nil
	default:
		return nil, fmt.Errorf("unknown graph backend: %s", cfg.Backend)
	}
}
