package rag

import (
	"context"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/transito-ai/cli/internal/corpus"
)

// Generator produces a completion for a plain prompt. Used for query
// paraphrasing.
type Generator interface {
	Generate(ctx context.Context, prompt string) (string, error)
}

// Searcher answers similarity queries over the chunked statute.
type Searcher interface {
	Query(ctx context.Context, text string, k int) ([]corpus.Chunk, error)
}

// Retriever expands one question into several paraphrases, retrieves per
// paraphrase, and merges the results into a deduplicated document set.
type Retriever struct {
	generator Generator
	searcher  Searcher
	topK      int
	logger    *zap.Logger
}

// NewRetriever creates a multi-query retriever.
func NewRetriever(generator Generator, searcher Searcher, topK int, logger *zap.Logger) *Retriever {
	if topK <= 0 {
		topK = 4
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Retriever{
		generator: generator,
		searcher:  searcher,
		topK:      topK,
		logger:    logger,
	}
}

// Name returns the tool identifier under which the retriever is offered to
// the decision model.
func (r *Retriever) Name() string {
	return ToolName
}

// Description explains the tool to the decision model.
func (r *Retriever) Description() string {
	return ToolDescription
}

// Invoke implements the tool contract consumed by the conversation
// controller.
func (r *Retriever) Invoke(ctx context.Context, query string) (string, []corpus.Chunk) {
	return r.Retrieve(ctx, query)
}

// Retrieve runs the multi-query retrieval for question. It never fails:
// any internal error degrades to an error-description context string and an
// empty document list, so a broken retrieval cannot abort the conversation
// turn.
func (r *Retriever) Retrieve(ctx context.Context, question string) (string, []corpus.Chunk) {
	content, docs, err := r.retrieve(ctx, question)
	if err != nil {
		r.logger.Warn("retrieval degraded", zap.Error(err))
		return fmt.Sprintf("Error extracting context: %v", err), nil
	}
	return content, docs
}

func (r *Retriever) retrieve(ctx context.Context, question string) (string, []corpus.Chunk, error) {
	queries, err := r.generateQueries(ctx, question)
	if err != nil {
		return "", nil, fmt.Errorf("failed to generate queries: %w", err)
	}

	results := make([][]corpus.Chunk, 0, len(queries))
	for _, query := range queries {
		docs, err := r.searcher.Query(ctx, query, r.topK)
		if err != nil {
			return "", nil, fmt.Errorf("failed to query index: %w", err)
		}
		results = append(results, docs)
	}

	unique := UniqueUnion(results)
	return FormatContext(unique), unique, nil
}

// generateQueries asks the paraphrasing model for five rephrasings and
// splits its output on line breaks, discarding blanks. Fewer than five
// lines (including none) is not an error; retrieval simply runs over
// whatever remains.
func (r *Retriever) generateQueries(ctx context.Context, question string) ([]string, error) {
	output, err := r.generator.Generate(ctx, ParaphrasePrompt(question))
	if err != nil {
		return nil, err
	}

	var queries []string
	for _, line := range strings.Split(output, "\n") {
		if line = strings.TrimSpace(line); line != "" {
			queries = append(queries, line)
		}
	}
	return queries, nil
}

// UniqueUnion flattens per-paraphrase result lists and keeps exactly one
// document per distinct (content, article) pair, in first-seen order.
func UniqueUnion(results [][]corpus.Chunk) []corpus.Chunk {
	seen := make(map[string]struct{})
	var unique []corpus.Chunk

	for _, docs := range results {
		for _, doc := range docs {
			key := doc.Content + "\x00" + doc.Article
			if _, ok := seen[key]; ok {
				continue
			}
			seen[key] = struct{}{}
			unique = append(unique, doc)
		}
	}
	return unique
}

// FormatContext renders documents as "[Artículo N] content" blocks joined
// by blank lines, using N/A when the article number is missing.
func FormatContext(docs []corpus.Chunk) string {
	formatted := make([]string, 0, len(docs))
	for _, doc := range docs {
		article := doc.Article
		if article == "" {
			article = "N/A"
		}
		formatted = append(formatted, fmt.Sprintf("[Artículo %s] %s", article, doc.Content))
	}
	return strings.Join(formatted, "\n\n")
}
