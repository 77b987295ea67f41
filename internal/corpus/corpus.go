package corpus

// Section is a single article of the traffic code, keyed by the number
// captured from its header. Sections are ordered by position in the source
// text; article numbers are not required to be unique (the code amends and
// repeats articles).
type Section struct {
	Text    string
	Article string
}

// Chunk is a bounded slice of a section's text carrying its origin metadata.
type Chunk struct {
	Content string
	Source  string
	Article string
}
