package writer

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/agenthands/bookgraph/internal/core/model"
	"github.com/agenthands/bookgraph/internal/graphstore"
)

func duneResult() *model.ExtractionResult {
	r := model.NewExtractionResult()
	r.Entities[model.KindBook] = []model.Entity{model.NewBook("Dune")}
	r.Entities[model.KindAuthor] = []model.Entity{model.NewAuthor("Frank Herbert")}
	r.Entities[model.KindPublisher] = []model.Entity{model.NewPublisher("Chilton")}
	r.Entities[model.KindGenre] = []model.Entity{model.NewGenre("Science fiction")}
	r.Relations = []model.Relation{
		{Book: "Dune", Kind: model.WrittenBy, Target: "Frank Herbert"},
		{Book: "Dune", Kind: model.PublishedBy, Target: "Chilton"},
		{Book: "Dune", Kind: model.BelongsToGenre, Target: "Science fiction"},
	}
	return r
}

func TestWrite_Dune(t *testing.T) {
	store := graphstore.NewMemoryStore()
	w := NewWriter(store, nil)

	stats, err := w.Write(context.Background(), duneResult())
	require.NoError(t, err)
	assert.Equal(t, Stats{Nodes: 4, Edges: 3}, stats)

	assert.True(t, store.HasEdge("WRITTEN_BY", "Dune", "Frank Herbert"))
	assert.True(t, store.HasEdge("PUBLISHED_BY", "Dune", "Chilton"))
	assert.True(t, store.HasEdge("BELONGS_TO_GENRE", "Dune", "Science fiction"))
}

func TestWrite_Idempotent(t *testing.T) {
	stores := map[string]func(t *testing.T) graphstore.Store{
		"memory": func(t *testing.T) graphstore.Store { return graphstore.NewMemoryStore() },
		"badger": func(t *testing.T) graphstore.Store {
			s, err := graphstore.OpenBadgerStore(t.TempDir(), nil)
			require.NoError(t, err)
			return s
		},
	}

	for name, open := range stores {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()
			store := open(t)
			defer store.Close(ctx)
			w := NewWriter(store, nil)

			_, err := w.Write(ctx, duneResult())
			require.NoError(t, err)
			first, err := store.Counts(ctx)
			require.NoError(t, err)

			_, err = w.Write(ctx, duneResult())
			require.NoError(t, err)
			second, err := store.Counts(ctx)
			require.NoError(t, err)

			assert.Equal(t, first, second)
			assert.Equal(t, int64(4), second.Nodes)
			assert.Equal(t, int64(3), second.Edges)
		})
	}
}

func TestWrite_MissingTargetIsSkipped(t *testing.T) {
	store := graphstore.NewMemoryStore()
	w := NewWriter(store, nil)

	r := model.NewExtractionResult()
	r.Entities[model.KindBook] = []model.Entity{model.NewBook("Emma")}
	r.Relations = []model.Relation{
		{Book: "Emma", Kind: model.WrittenBy, Target: "Jane Austen"},
	}

	stats, err := w.Write(context.Background(), r)
	require.NoError(t, err)
	assert.Equal(t, Stats{Nodes: 1, Skipped: 1}, stats)

	counts, err := store.Counts(context.Background())
	require.NoError(t, err)
	assert.Equal(t, int64(1), counts.Nodes)
	assert.Zero(t, counts.Edges)
	assert.False(t, store.HasNode("Author", "Jane Austen"))
}

func TestWrite_Empty(t *testing.T) {
	store := graphstore.NewMemoryStore()
	w := NewWriter(store, nil)

	stats, err := w.Write(context.Background(), model.NewExtractionResult())
	require.NoError(t, err)
	assert.Equal(t, Stats{}, stats)

	stats, err = w.Write(context.Background(), nil)
	require.NoError(t, err)
	assert.Equal(t, Stats{}, stats)
}

type failingStore struct {
	graphstore.Store
	failAfter int
	calls     int
	err       error
}

func (f *failingStore) MergeNode(ctx context.Context, label, key, value string) error {
	f.calls++
	if f.calls > f.failAfter {
		return f.err
	}
	return f.Store.MergeNode(ctx, label, key, value)
}

func TestWrite_StoreErrorAborts(t *testing.T) {
	store := &failingStore{
		Store:     graphstore.NewMemoryStore(),
		failAfter: 2,
		err:       graphstore.ErrUnavailable,
	}
	w := NewWriter(store, nil)

	stats, err := w.Write(context.Background(), duneResult())
	require.Error(t, err)
	assert.True(t, errors.Is(err, graphstore.ErrUnavailable))
	assert.Equal(t, 2, stats.Nodes)
	assert.Zero(t, stats.Edges)

	counts, err := store.Counts(context.Background())
	require.NoError(t, err)
	assert.Zero(t, counts.Edges)
}
