package corpus

import "strings"

// separators tried in order when a piece of text is too large: paragraph
// breaks first, then line breaks, sentence ends, words, and finally hard
// rune cuts.
var separators = []string{"\n\n", "\n", ". ", " ", ""}

// Splitter splits section text into token-bounded chunks with overlap
// between consecutive chunks of the same section.
type Splitter struct {
	chunkSize    int
	chunkOverlap int
}

// NewSplitter creates a splitter with the given token budget and overlap.
func NewSplitter(chunkSize, chunkOverlap int) *Splitter {
	if chunkSize <= 0 {
		chunkSize = 300
	}
	if chunkOverlap < 0 || chunkOverlap >= chunkSize {
		chunkOverlap = 50
	}
	return &Splitter{chunkSize: chunkSize, chunkOverlap: chunkOverlap}
}

// Split breaks text into chunks of at most chunkSize estimated tokens,
// preferring paragraph, sentence, and word boundaries over hard cuts.
func (s *Splitter) Split(text string) []string {
	text = strings.TrimSpace(text)
	if text == "" {
		return nil
	}
	pieces := s.splitRecursive(text, separators)
	return s.merge(pieces)
}

// ChunkSections sub-splits every section and attaches the article number
// and originating source identifier to each resulting chunk.
func (s *Splitter) ChunkSections(sections []Section, source string) []Chunk {
	var chunks []Chunk
	for _, section := range sections {
		for _, content := range s.Split(section.Text) {
			chunks = append(chunks, Chunk{
				Content: content,
				Source:  source,
				Article: section.Article,
			})
		}
	}
	return chunks
}

// splitRecursive cuts text into pieces no larger than the chunk budget,
// trying coarser separators before finer ones.
func (s *Splitter) splitRecursive(text string, seps []string) []string {
	if estimateTokens(text) <= s.chunkSize {
		return []string{text}
	}

	sep := seps[0]
	if sep == "" {
		return s.hardCut(text)
	}

	parts := splitAfter(text, sep)
	if len(parts) == 1 {
		return s.splitRecursive(text, seps[1:])
	}

	var pieces []string
	for _, part := range parts {
		if estimateTokens(part) > s.chunkSize {
			pieces = append(pieces, s.splitRecursive(part, seps[1:])...)
		} else {
			pieces = append(pieces, part)
		}
	}
	return pieces
}

// hardCut slices text into rune windows sized by the rough four-characters-
// per-token estimate. Last resort when no separator fits.
func (s *Splitter) hardCut(text string) []string {
	runes := []rune(text)
	window := s.chunkSize * 4
	if window <= 0 {
		window = 1
	}

	var pieces []string
	for start := 0; start < len(runes); start += window {
		end := start + window
		if end > len(runes) {
			end = len(runes)
		}
		pieces = append(pieces, string(runes[start:end]))
	}
	return pieces
}

// merge greedily joins pieces into chunks up to the token budget, seeding
// each new chunk with the trailing pieces of the previous one so that
// consecutive chunks overlap by roughly chunkOverlap tokens.
func (s *Splitter) merge(pieces []string) []string {
	var chunks []string
	var current []string
	currentTokens := 0
	fresh := false

	flush := func() {
		chunk := strings.TrimSpace(strings.Join(current, ""))
		if chunk != "" {
			chunks = append(chunks, chunk)
		}

		overlapTokens := 0
		var overlap []string
		for i := len(current) - 1; i >= 0; i-- {
			t := estimateTokens(current[i])
			if overlapTokens+t > s.chunkOverlap {
				break
			}
			overlapTokens += t
			overlap = append([]string{current[i]}, overlap...)
		}
		current = overlap
		currentTokens = overlapTokens
		fresh = false
	}

	for _, piece := range pieces {
		t := estimateTokens(piece)
		if currentTokens+t > s.chunkSize && fresh {
			flush()
		}
		current = append(current, piece)
		currentTokens += t
		fresh = true
	}

	if fresh {
		flush()
	}

	return chunks
}

// splitAfter splits text on sep, keeping the separator attached to the end
// of each piece so joining pieces reconstructs the original text.
func splitAfter(text, sep string) []string {
	parts := strings.SplitAfter(text, sep)
	var out []string
	for _, p := range parts {
		if p != "" {
			out = append(out, p)
		}
	}
	return out
}

// estimateTokens approximates the token count of text: one per word plus
// one per non-ASCII rune.
func estimateTokens(text string) int {
	count := 0
	for _, r := range text {
		if r > 127 {
			count++
		}
	}
	count += len(strings.Fields(text))
	if count == 0 && len(text) > 0 {
		return 1
	}
	return count
}
