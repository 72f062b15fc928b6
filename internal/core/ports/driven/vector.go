package driven

// VectorIndex stores the chunk vectors of the loaded document and answers
// nearest-neighbour queries over them. Row i holds the vector of chunk i.
type VectorIndex interface {
	// Build replaces the whole index with vectors.
	// Fails with domain.ErrDimensionMismatch, keeping the previous content,
	// if any vector's length differs from Dimensions.
	Build(vectors [][]float32) error

	// Search returns the k nearest rows to query by Euclidean distance,
	// closest first. k is clamped to Len. Fails with domain.ErrIndexEmpty
	// when the index holds no vectors.
	Search(query []float32, k int) ([]VectorHit, error)

	// Len returns the number of indexed vectors.
	Len() int

	// Dimensions returns the vector size the index accepts.
	Dimensions() int
}

// VectorHit represents a similarity search result.
type VectorHit struct {
	// Index is the matched row, equal to the chunk position.
	Index int

	// Distance is the Euclidean distance to the query.
	Distance float64
}
