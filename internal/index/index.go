package index

import (
	"context"
	"fmt"

	"github.com/pgvector/pgvector-go"

	"github.com/transito-ai/cli/internal/corpus"
)

// Embedder turns text into a vector. Implementations live in
// internal/embeddings.
type Embedder interface {
	Embed(ctx context.Context, text string) (*pgvector.Vector, error)
}

// BatchEmbedder is an optional Embedder extension that embeds several texts
// per call. Build uses it when available.
type BatchEmbedder interface {
	EmbedBatch(ctx context.Context, texts []string) ([]*pgvector.Vector, error)
}

// Store holds embedded chunks and answers nearest-neighbor queries ordered
// by descending similarity.
type Store interface {
	Add(ctx context.Context, chunk corpus.Chunk, embedding *pgvector.Vector) error
	Search(ctx context.Context, embedding *pgvector.Vector, k int) ([]corpus.Chunk, error)
}

// BatchStore is an optional Store extension that loads all embedded chunks
// in one round trip. Build uses it when available.
type BatchStore interface {
	AddBatch(ctx context.Context, chunks []corpus.Chunk, embeddings []*pgvector.Vector) error
}

// BuildError wraps any failure during index construction. A single failed
// embedding aborts the whole build; no partial index is ever returned.
type BuildError struct {
	Err error
}

func (e *BuildError) Error() string {
	return fmt.Sprintf("index build failed: %v", e.Err)
}

func (e *BuildError) Unwrap() error {
	return e.Err
}

// Index is a queryable vector index over the chunked statute. Built once at
// startup and read-only afterwards.
type Index struct {
	embedder Embedder
	store    Store
}

// Build embeds every chunk and loads it into store, taking the batch paths
// when the embedder or store offers them. Nothing is cached across runs.
func Build(ctx context.Context, embedder Embedder, store Store, chunks []corpus.Chunk) (*Index, error) {
	embeddings, err := embedChunks(ctx, embedder, chunks)
	if err != nil {
		return nil, &BuildError{Err: err}
	}

	if batch, ok := store.(BatchStore); ok {
		if err := batch.AddBatch(ctx, chunks, embeddings); err != nil {
			return nil, &BuildError{Err: fmt.Errorf("storing %d chunks: %w", len(chunks), err)}
		}
		return &Index{embedder: embedder, store: store}, nil
	}

	for i, chunk := range chunks {
		if err := store.Add(ctx, chunk, embeddings[i]); err != nil {
			return nil, &BuildError{Err: fmt.Errorf("storing chunk %d (article %s): %w", i, chunk.Article, err)}
		}
	}
	return &Index{embedder: embedder, store: store}, nil
}

func embedChunks(ctx context.Context, embedder Embedder, chunks []corpus.Chunk) ([]*pgvector.Vector, error) {
	if batch, ok := embedder.(BatchEmbedder); ok {
		texts := make([]string, len(chunks))
		for i, chunk := range chunks {
			texts[i] = chunk.Content
		}
		embeddings, err := batch.EmbedBatch(ctx, texts)
		if err != nil {
			return nil, fmt.Errorf("embedding %d chunks: %w", len(chunks), err)
		}
		if len(embeddings) != len(chunks) {
			return nil, fmt.Errorf("embedding count mismatch: %d vs %d chunks", len(embeddings), len(chunks))
		}
		return embeddings, nil
	}

	embeddings := make([]*pgvector.Vector, len(chunks))
	for i, chunk := range chunks {
		embedding, err := embedder.Embed(ctx, chunk.Content)
		if err != nil {
			return nil, fmt.Errorf("embedding chunk %d (article %s): %w", i, chunk.Article, err)
		}
		embeddings[i] = embedding
	}
	return embeddings, nil
}

// Query embeds text and returns up to k chunks ordered by descending
// similarity.
func (idx *Index) Query(ctx context.Context, text string, k int) ([]corpus.Chunk, error) {
	if k <= 0 {
		k = 4
	}

	embedding, err := idx.embedder.Embed(ctx, text)
	if err != nil {
		return nil, fmt.Errorf("failed to embed query: %w", err)
	}

	chunks, err := idx.store.Search(ctx, embedding, k)
	if err != nil {
		return nil, fmt.Errorf("failed to search index: %w", err)
	}
	return chunks, nil
}
