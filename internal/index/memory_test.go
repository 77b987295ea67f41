package index

import (
	"context"
	"errors"
	"testing"

	"github.com/pgvector/pgvector-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/transito-ai/cli/internal/corpus"
)

// fakeEmbedder maps known texts to fixed vectors so similarity ordering is
// deterministic.
type fakeEmbedder struct {
	vectors map[string][]float32
	err     error
}

func (f *fakeEmbedder) Embed(_ context.Context, text string) (*pgvector.Vector, error) {
	if f.err != nil {
		return nil, f.err
	}
	v, ok := f.vectors[text]
	if !ok {
		return nil, errors.New("no vector for text")
	}
	vec := pgvector.NewVector(v)
	return &vec, nil
}

func newFakeEmbedder() *fakeEmbedder {
	return &fakeEmbedder{vectors: map[string][]float32{
		"licencia de conducción": {1, 0, 0},
		"límites de velocidad":   {0, 1, 0},
		"sanción por embriaguez": {0, 0, 1},
		"qué licencia necesito":  {0.9, 0.1, 0},
	}}
}

func testChunks() []corpus.Chunk {
	return []corpus.Chunk{
		{Content: "licencia de conducción", Source: "codigo.txt", Article: "17"},
		{Content: "límites de velocidad", Source: "codigo.txt", Article: "106"},
		{Content: "sanción por embriaguez", Source: "codigo.txt", Article: "152"},
	}
}

func TestBuildAndQueryOrdersBySimilarity(t *testing.T) {
	ctx := context.Background()
	store := NewMemory()

	idx, err := Build(ctx, newFakeEmbedder(), store, testChunks())
	require.NoError(t, err)
	assert.Equal(t, 3, store.Len())

	chunks, err := idx.Query(ctx, "qué licencia necesito", 2)
	require.NoError(t, err)
	require.Len(t, chunks, 2)
	assert.Equal(t, "17", chunks[0].Article)
	assert.Equal(t, "106", chunks[1].Article)
}

func TestQueryDefaultsKWhenNotPositive(t *testing.T) {
	ctx := context.Background()
	store := NewMemory()

	idx, err := Build(ctx, newFakeEmbedder(), store, testChunks())
	require.NoError(t, err)

	chunks, err := idx.Query(ctx, "qué licencia necesito", 0)
	require.NoError(t, err)
	assert.Len(t, chunks, 3)
}

func TestQueryCapsKAtStoreSize(t *testing.T) {
	ctx := context.Background()
	store := NewMemory()

	idx, err := Build(ctx, newFakeEmbedder(), store, testChunks())
	require.NoError(t, err)

	chunks, err := idx.Query(ctx, "qué licencia necesito", 10)
	require.NoError(t, err)
	assert.Len(t, chunks, 3)
}

func TestBuildFailsWithoutPartialIndex(t *testing.T) {
	ctx := context.Background()
	store := NewMemory()
	embedder := newFakeEmbedder()
	delete(embedder.vectors, "límites de velocidad")

	idx, err := Build(ctx, embedder, store, testChunks())
	require.Error(t, err)
	assert.Nil(t, idx)

	var buildErr *BuildError
	assert.ErrorAs(t, err, &buildErr)
}

func TestQueryEmbeddingFailure(t *testing.T) {
	ctx := context.Background()
	store := NewMemory()

	idx, err := Build(ctx, newFakeEmbedder(), store, testChunks())
	require.NoError(t, err)

	idx.embedder = &fakeEmbedder{err: errors.New("modelo no disponible")}
	_, err = idx.Query(ctx, "cualquier cosa", 2)
	require.Error(t, err)
}

func TestCosineSimilarity(t *testing.T) {
	assert.InDelta(t, 1.0, cosineSimilarity([]float32{1, 2}, []float32{2, 4}), 1e-9)
	assert.InDelta(t, 0.0, cosineSimilarity([]float32{1, 0}, []float32{0, 1}), 1e-9)
	assert.Equal(t, 0.0, cosineSimilarity([]float32{0, 0}, []float32{1, 1}))
	assert.Equal(t, 0.0, cosineSimilarity([]float32{1}, []float32{1, 2}))
}
