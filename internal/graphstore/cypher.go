package graphstore

import (
	"context"
	"fmt"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"github.com/neo4j/neo4j-go-driver/v5/neo4j"
	"go.uber.org/zap"

	"github.com/agenthands/bookgraph/internal/core/model"
	"github.com/agenthands/bookgraph/internal/driver"
)

// CypherStore runs MERGE statements against Memgraph or Neo4j.
type CypherStore struct {
	Driver        driver.GraphDriver
	UUIDGenerator func() string
	Now           func() time.Time

	logger *zap.Logger
	closed atomic.Bool
}

func NewCypherStore(d driver.GraphDriver, logger *zap.Logger) *CypherStore {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &CypherStore{
		Driver:        d,
		UUIDGenerator: uuid.NewString,
		Now:           time.Now,
		logger:        logger,
	}
}

func (s *CypherStore) MergeNode(ctx context.Context, label, key, value string) error {
	if s.closed.Load() {
		return ErrClosed
	}
	if err := checkNames(label, key); err != nil {
		return err
	}

	params := map[string]interface{}{
		"value":      value,
		"uuid":       s.UUIDGenerator(),
		"created_at": s.Now().UTC().Format(time.RFC3339),
	}
	if _, err := s.Driver.ExecuteQuery(ctx, driver.MergeNodeQuery(label, key), params); err != nil {
		return fmt.Errorf("failed to merge %s node %q: %w", label, value, err)
	}
	return nil
}

func (s *CypherStore) MergeEdge(ctx context.Context, rel string, from, to NodeRef) (bool, error) {
	if s.closed.Load() {
		return false, ErrClosed
	}
	if err := checkNames(rel, from.Label, from.Key, to.Label, to.Key); err != nil {
		return false, err
	}

	params := map[string]interface{}{
		"from":       from.Value,
		"to":         to.Value,
		"created_at": s.Now().UTC().Format(time.RFC3339),
	}
	q := driver.MergeEdgeQuery(rel, from.Label, from.Key, to.Label, to.Key)
	res, err := s.Driver.ExecuteQuery(ctx, q, params)
	if err != nil {
		return false, fmt.Errorf("failed to merge %s edge %q -> %q: %w", rel, from.Value, to.Value, err)
	}

	return firstCount(res.Records, "merged") > 0, nil
}

// Counts reports nodes per book graph label and edges per relation type.
// Nodes and edges outside the book graph schema are not counted.
func (s *CypherStore) Counts(ctx context.Context) (Counts, error) {
	if s.closed.Load() {
		return Counts{}, ErrClosed
	}

	counts := newCounts()
	for _, k := range model.EntityKinds {
		res, err := s.Driver.ExecuteQuery(ctx, driver.CountNodesQuery(k.Label()), nil)
		if err != nil {
			return Counts{}, fmt.Errorf("failed to count %s nodes: %w", k.Label(), err)
		}
		n := firstCount(res.Records, "count")
		counts.Labels[k.Label()] = n
		counts.Nodes += n
	}
	for _, r := range model.RelationKinds {
		res, err := s.Driver.ExecuteQuery(ctx, driver.CountEdgesQuery(string(r)), nil)
		if err != nil {
			return Counts{}, fmt.Errorf("failed to count %s edges: %w", string(r), err)
		}
		n := firstCount(res.Records, "count")
		counts.Relationships[string(r)] = n
		counts.Edges += n
	}
	return counts, nil
}

func (s *CypherStore) EnsureSchema(ctx context.Context) error {
	if s.closed.Load() {
		return ErrClosed
	}
	return s.Driver.BuildIndices(ctx)
}

func (s *CypherStore) Close(ctx context.Context) error {
	if s.closed.Swap(true) {
		return nil
	}
	return s.Driver.Close(ctx)
}

func firstCount(records []*neo4j.Record, key string) int64 {
	if len(records) == 0 {
		return 0
	}
	v, ok := records[0].Get(key)
	if !ok {
		return 0
	}
	n, _ := v.(int64)
	return n
}
