package domain

// Chunk is a contiguous, token-bounded segment of the loaded document.
// Its identity is its position: Index matches the row of its vector in the index.
type Chunk struct {
	// Index is the zero-based position in document order.
	Index int

	// Text is the verbatim chunk content.
	Text string
}

// ChunkTexts returns the text of each chunk in order.
func ChunkTexts(chunks []Chunk) []string {
	texts := make([]string, len(chunks))
	for i, c := range chunks {
		texts[i] = c.Text
	}
	return texts
}
