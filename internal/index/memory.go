package index

import (
	"context"
	"math"
	"sort"
	"sync"

	"github.com/pgvector/pgvector-go"

	"github.com/transito-ai/cli/internal/corpus"
)

// Memory is an in-process Store using exact cosine similarity. It is the
// default backend: the index lives only for the process lifetime, matching
// the build-once-per-run model.
type Memory struct {
	mu      sync.RWMutex
	entries []memoryEntry
}

type memoryEntry struct {
	chunk     corpus.Chunk
	embedding []float32
}

// NewMemory creates an empty in-memory store.
func NewMemory() *Memory {
	return &Memory{}
}

// Add appends an embedded chunk.
func (m *Memory) Add(_ context.Context, chunk corpus.Chunk, embedding *pgvector.Vector) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.entries = append(m.entries, memoryEntry{chunk: chunk, embedding: embedding.Slice()})
	return nil
}

// Search returns up to k chunks ordered by descending cosine similarity to
// embedding.
func (m *Memory) Search(_ context.Context, embedding *pgvector.Vector, k int) ([]corpus.Chunk, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	query := embedding.Slice()
	type scored struct {
		chunk corpus.Chunk
		score float64
	}

	results := make([]scored, 0, len(m.entries))
	for _, entry := range m.entries {
		results = append(results, scored{
			chunk: entry.chunk,
			score: cosineSimilarity(query, entry.embedding),
		})
	}

	sort.SliceStable(results, func(i, j int) bool {
		return results[i].score > results[j].score
	})

	if k > len(results) {
		k = len(results)
	}
	chunks := make([]corpus.Chunk, 0, k)
	for _, r := range results[:k] {
		chunks = append(chunks, r.chunk)
	}
	return chunks, nil
}

// Len reports the number of stored chunks.
func (m *Memory) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.entries)
}

func cosineSimilarity(a, b []float32) float64 {
	if len(a) != len(b) || len(a) == 0 {
		return 0
	}

	var dot, normA, normB float64
	for i := range a {
		dot += float64(a[i]) * float64(b[i])
		normA += float64(a[i]) * float64(a[i])
		normB += float64(b[i]) * float64(b[i])
	}
	if normA == 0 || normB == 0 {
		return 0
	}
	return dot / (math.Sqrt(normA) * math.Sqrt(normB))
}
