package graphstore

import (
	"context"
	"sync"
)

// MemoryStore keeps the graph in maps. It backs dry runs and tests.
type MemoryStore struct {
	mu     sync.RWMutex
	nodes  map[NodeRef]struct{}
	edges  map[memoryEdge]struct{}
	closed bool
}

type memoryEdge struct {
	rel      string
	from, to NodeRef
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		nodes: map[NodeRef]struct{}{},
		edges: map[memoryEdge]struct{}{},
	}
}

func (s *MemoryStore) MergeNode(ctx context.Context, label, key, value string) error {
	if err := checkNames(label, key); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return ErrClosed
	}

	s.nodes[NodeRef{Label: label, Key: key, Value: value}] = struct{}{}
	return nil
}

func (s *MemoryStore) MergeEdge(ctx context.Context, rel string, from, to NodeRef) (bool, error) {
	if err := checkNames(rel, from.Label, from.Key, to.Label, to.Key); err != nil {
		return false, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return false, ErrClosed
	}

	if _, ok := s.nodes[from]; !ok {
		return false, nil
	}
	if _, ok := s.nodes[to]; !ok {
		return false, nil
	}
	s.edges[memoryEdge{rel: rel, from: from, to: to}] = struct{}{}
	return true, nil
}

func (s *MemoryStore) Counts(ctx context.Context) (Counts, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.closed {
		return Counts{}, ErrClosed
	}

	counts := newCounts()
	for n := range s.nodes {
		counts.Labels[n.Label]++
		counts.Nodes++
	}
	for e := range s.edges {
		counts.Relationships[e.rel]++
		counts.Edges++
	}
	return counts, nil
}

// HasNode reports whether a node with the given label and value exists.
func (s *MemoryStore) HasNode(label, value string) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for n := range s.nodes {
		if n.Label == label && n.Value == value {
			return true
		}
	}
	return false
}

// HasEdge reports whether an edge of type rel links the two values.
func (s *MemoryStore) HasEdge(rel, from, to string) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for e := range s.edges {
		if e.rel == rel && e.from.Value == from && e.to.Value == to {
			return true
		}
	}
	return false
}

func (s *MemoryStore) EnsureSchema(ctx context.Context) error {
	return nil
}

func (s *MemoryStore) Close(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.closed = true
	return nil
}
