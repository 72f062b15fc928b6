package driven

// Tokenizer converts text to and from the token units of an embedding model.
type Tokenizer interface {
	// Encode returns the token ids of text.
	Encode(text string) []int

	// Decode returns the text of tokens.
	Decode(tokens []int) string
}

// Chunker splits document text into token-bounded chunks.
type Chunker interface {
	// Chunk returns consecutive non-overlapping segments covering text.
	Chunk(text string) []string

	// MaxTokens returns the per-chunk token limit.
	MaxTokens() int
}
