package rag

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/transito-ai/cli/internal/corpus"
)

type stubGenerator struct {
	output string
	err    error
	prompt string
}

func (g *stubGenerator) Generate(_ context.Context, prompt string) (string, error) {
	g.prompt = prompt
	return g.output, g.err
}

type stubSearcher struct {
	results map[string][]corpus.Chunk
	err     error
	queries []string
}

func (s *stubSearcher) Query(_ context.Context, text string, _ int) ([]corpus.Chunk, error) {
	s.queries = append(s.queries, text)
	if s.err != nil {
		return nil, s.err
	}
	return s.results[text], nil
}

func TestRetrieveMergesAndDeduplicates(t *testing.T) {
	shared := corpus.Chunk{Content: "Todo conductor portará licencia.", Article: "17"}
	generator := &stubGenerator{output: "quién debe portar licencia\nrequisitos de la licencia"}
	searcher := &stubSearcher{results: map[string][]corpus.Chunk{
		"quién debe portar licencia": {
			shared,
			{Content: "Las licencias se expiden por categorías.", Article: "19"},
		},
		"requisitos de la licencia": {
			shared,
			{Content: "La licencia se suspende por embriaguez.", Article: "152"},
		},
	}}

	retriever := NewRetriever(generator, searcher, 4, nil)
	content, docs := retriever.Retrieve(context.Background(), "¿necesito licencia?")

	require.Len(t, docs, 3)
	assert.Equal(t, "17", docs[0].Article)
	assert.Equal(t, "19", docs[1].Article)
	assert.Equal(t, "152", docs[2].Article)
	assert.Equal(t, 1, strings.Count(content, "portará licencia"))
	assert.Contains(t, generator.prompt, "¿necesito licencia?")
	assert.Equal(t, []string{"quién debe portar licencia", "requisitos de la licencia"}, searcher.queries)
}

func TestRetrieveDegradesOnGeneratorFailure(t *testing.T) {
	generator := &stubGenerator{err: errors.New("modelo caído")}
	retriever := NewRetriever(generator, &stubSearcher{}, 4, nil)

	content, docs := retriever.Retrieve(context.Background(), "pregunta")

	assert.Nil(t, docs)
	assert.True(t, strings.HasPrefix(content, "Error extracting context:"))
	assert.Contains(t, content, "modelo caído")
}

func TestRetrieveDegradesOnSearchFailure(t *testing.T) {
	generator := &stubGenerator{output: "una consulta"}
	searcher := &stubSearcher{err: errors.New("índice no disponible")}
	retriever := NewRetriever(generator, searcher, 4, nil)

	content, docs := retriever.Retrieve(context.Background(), "pregunta")

	assert.Nil(t, docs)
	assert.True(t, strings.HasPrefix(content, "Error extracting context:"))
}

func TestRetrieveWithNoParaphrases(t *testing.T) {
	generator := &stubGenerator{output: "\n  \n"}
	searcher := &stubSearcher{}
	retriever := NewRetriever(generator, searcher, 4, nil)

	content, docs := retriever.Retrieve(context.Background(), "pregunta")

	assert.Empty(t, docs)
	assert.Empty(t, content)
	assert.Empty(t, searcher.queries)
}

func TestUniqueUnionKeepsFirstSeenOrder(t *testing.T) {
	a := corpus.Chunk{Content: "texto a", Article: "1"}
	b := corpus.Chunk{Content: "texto b", Article: "2"}
	c := corpus.Chunk{Content: "texto a", Article: "3"}

	unique := UniqueUnion([][]corpus.Chunk{{a, b}, {b, c, a}})

	require.Len(t, unique, 3)
	assert.Equal(t, []corpus.Chunk{a, b, c}, unique)
}

func TestUniqueUnionEmpty(t *testing.T) {
	assert.Empty(t, UniqueUnion(nil))
	assert.Empty(t, UniqueUnion([][]corpus.Chunk{{}, {}}))
}

func TestFormatContext(t *testing.T) {
	docs := []corpus.Chunk{
		{Content: "Primer texto.", Article: "5"},
		{Content: "Segundo texto."},
	}

	got := FormatContext(docs)
	assert.Equal(t, "[Artículo 5] Primer texto.\n\n[Artículo N/A] Segundo texto.", got)
}

func TestToolIdentity(t *testing.T) {
	retriever := NewRetriever(&stubGenerator{}, &stubSearcher{}, 0, nil)
	assert.Equal(t, ToolName, retriever.Name())
	assert.Equal(t, ToolDescription, retriever.Description())
}
