package db

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/pgvector/pgvector-go"

	"github.com/transito-ai/cli/internal/corpus"
	"github.com/transito-ai/cli/internal/index"
)

var (
	_ index.Store      = (*Store)(nil)
	_ index.BatchStore = (*Store)(nil)
)

// Store is a pgvector-backed chunk store. The table is truncated and
// refilled on every run: Postgres acts as the search engine, not as a
// cache of prior indexing work.
type Store struct {
	db *DB
}

// NewStore creates a Store over an open connection.
func NewStore(db *DB) *Store {
	return &Store{db: db}
}

// Migrate creates the chunks table and the pgvector extension if missing.
func (s *Store) Migrate(ctx context.Context) error {
	statements := []string{
		`CREATE EXTENSION IF NOT EXISTS vector`,
		`CREATE TABLE IF NOT EXISTS article_chunks (
			id UUID PRIMARY KEY,
			source TEXT NOT NULL,
			source_article TEXT NOT NULL,
			content TEXT NOT NULL,
			embedding vector,
			created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
		)`,
	}
	for _, stmt := range statements {
		if _, err := s.db.pool.Exec(ctx, stmt); err != nil {
			return fmt.Errorf("failed to migrate: %w", err)
		}
	}
	return nil
}

// Reset drops all stored chunks before a rebuild.
func (s *Store) Reset(ctx context.Context) error {
	_, err := s.db.pool.Exec(ctx, `TRUNCATE article_chunks`)
	if err != nil {
		return fmt.Errorf("failed to reset store: %w", err)
	}
	return nil
}

// Add inserts a single embedded chunk.
func (s *Store) Add(ctx context.Context, chunk corpus.Chunk, embedding *pgvector.Vector) error {
	_, err := s.db.pool.Exec(ctx,
		`INSERT INTO article_chunks (id, source, source_article, content, embedding)
		 VALUES ($1, $2, $3, $4, $5)`,
		uuid.New(), chunk.Source, chunk.Article, chunk.Content, embedding,
	)
	if err != nil {
		return fmt.Errorf("failed to insert chunk: %w", err)
	}
	return nil
}

// AddBatch inserts multiple embedded chunks in one round trip.
func (s *Store) AddBatch(ctx context.Context, chunks []corpus.Chunk, embeddings []*pgvector.Vector) error {
	if len(chunks) != len(embeddings) {
		return fmt.Errorf("chunk/embedding count mismatch: %d vs %d", len(chunks), len(embeddings))
	}

	batch := &pgx.Batch{}
	for i, chunk := range chunks {
		batch.Queue(
			`INSERT INTO article_chunks (id, source, source_article, content, embedding)
			 VALUES ($1, $2, $3, $4, $5)`,
			uuid.New(), chunk.Source, chunk.Article, chunk.Content, embeddings[i],
		)
	}
	br := s.db.pool.SendBatch(ctx, batch)
	defer br.Close()

	for i := 0; i < len(chunks); i++ {
		if _, err := br.Exec(); err != nil {
			return fmt.Errorf("failed to insert chunk %d: %w", i, err)
		}
	}
	return nil
}

// Search returns up to k chunks ordered by cosine distance to embedding.
func (s *Store) Search(ctx context.Context, embedding *pgvector.Vector, k int) ([]corpus.Chunk, error) {
	rows, err := s.db.pool.Query(ctx,
		`SELECT content, source, source_article
		 FROM article_chunks
		 WHERE embedding IS NOT NULL
		 ORDER BY embedding <=> $1
		 LIMIT $2`,
		embedding, k,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to search chunks: %w", err)
	}
	defer rows.Close()

	var chunks []corpus.Chunk
	for rows.Next() {
		var chunk corpus.Chunk
		if err := rows.Scan(&chunk.Content, &chunk.Source, &chunk.Article); err != nil {
			return nil, fmt.Errorf("failed to scan chunk: %w", err)
		}
		chunks = append(chunks, chunk)
	}
	return chunks, rows.Err()
}
