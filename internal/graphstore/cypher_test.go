package graphstore

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/neo4j/neo4j-go-driver/v5/neo4j"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/agenthands/bookgraph/internal/driver"
)

type MockDriver struct {
	QueryExecuted string
	QueryParams   map[string]interface{}
	Queries       []string
	MockResult    neo4j.EagerResult
	Err           error
	Indexed       bool
	Closed        int
}

func (m *MockDriver) ExecuteQuery(ctx context.Context, query string, params map[string]interface{}) (neo4j.EagerResult, error) {
	m.QueryExecuted = query
	m.QueryParams = params
	m.Queries = append(m.Queries, query)
	if m.Err != nil {
		return neo4j.EagerResult{}, m.Err
	}
	return m.MockResult, nil
}

func (m *MockDriver) BuildIndices(ctx context.Context) error {
	m.Indexed = true
	return m.Err
}

func (m *MockDriver) Close(ctx context.Context) error {
	m.Closed++
	return nil
}

func countResult(key string, n int64) neo4j.EagerResult {
	return neo4j.EagerResult{
		Keys:    []string{key},
		Records: []*neo4j.Record{{Keys: []string{key}, Values: []any{n}}},
	}
}

func newTestCypherStore(d driver.GraphDriver) *CypherStore {
	s := NewCypherStore(d, nil)
	s.UUIDGenerator = func() string { return "uuid-1" }
	s.Now = func() time.Time { return time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC) }
	return s
}

func TestCypherStore_MergeNode(t *testing.T) {
	mock := &MockDriver{}
	s := newTestCypherStore(mock)

	err := s.MergeNode(context.Background(), "Book", "title", "Dune")
	require.NoError(t, err)

	assert.Contains(t, mock.QueryExecuted, "MERGE (n:Book {title: $value})")
	assert.Equal(t, map[string]interface{}{
		"value":      "Dune",
		"uuid":       "uuid-1",
		"created_at": "2024-05-01T12:00:00Z",
	}, mock.QueryParams)
}

func TestCypherStore_MergeEdge(t *testing.T) {
	mock := &MockDriver{MockResult: countResult("merged", 1)}
	s := newTestCypherStore(mock)

	merged, err := s.MergeEdge(context.Background(), "WRITTEN_BY", dune, herbert)
	require.NoError(t, err)
	assert.True(t, merged)
	assert.Contains(t, mock.QueryExecuted, "MERGE (a)-[r:WRITTEN_BY]->(b)")
	assert.Equal(t, "Dune", mock.QueryParams["from"])
	assert.Equal(t, "Frank Herbert", mock.QueryParams["to"])

	mock.MockResult = countResult("merged", 0)
	merged, err = s.MergeEdge(context.Background(), "WRITTEN_BY", dune, herbert)
	require.NoError(t, err)
	assert.False(t, merged)
}

func TestCypherStore_RejectsInjectedNames(t *testing.T) {
	mock := &MockDriver{}
	s := newTestCypherStore(mock)

	_, err := s.MergeEdge(context.Background(), "KNOWS]->() DETACH DELETE (a", dune, herbert)
	assert.ErrorIs(t, err, ErrInvalidName)
	assert.Empty(t, mock.Queries)
}

func TestCypherStore_Errors(t *testing.T) {
	mock := &MockDriver{Err: fmt.Errorf("%w: connection refused", driver.ErrUnavailable)}
	s := newTestCypherStore(mock)

	err := s.MergeNode(context.Background(), "Book", "title", "Dune")
	assert.ErrorIs(t, err, ErrUnavailable)

	mock.Err = errors.New("syntax error")
	_, err = s.MergeEdge(context.Background(), "WRITTEN_BY", dune, herbert)
	assert.Error(t, err)
	assert.NotErrorIs(t, err, ErrUnavailable)
}

func TestCypherStore_Counts(t *testing.T) {
	mock := &MockDriver{MockResult: countResult("count", 3)}
	s := newTestCypherStore(mock)

	counts, err := s.Counts(context.Background())
	require.NoError(t, err)
	assert.Equal(t, int64(12), counts.Nodes)
	assert.Equal(t, int64(9), counts.Edges)
	assert.Equal(t, int64(3), counts.Labels["Genre"])
	assert.Equal(t, int64(3), counts.Relationships["BELONGS_TO_GENRE"])
	assert.Len(t, mock.Queries, 7)
}

func TestCypherStore_Close(t *testing.T) {
	mock := &MockDriver{}
	s := newTestCypherStore(mock)

	require.NoError(t, s.EnsureSchema(context.Background()))
	assert.True(t, mock.Indexed)

	require.NoError(t, s.Close(context.Background()))
	require.NoError(t, s.Close(context.Background()))
	assert.Equal(t, 1, mock.Closed)

	assert.ErrorIs(t, s.MergeNode(context.Background(), "Book", "title", "Dune"), ErrClosed)
}
