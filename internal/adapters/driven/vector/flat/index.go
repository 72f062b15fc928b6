// Package flat provides an exact, brute-force vector index.
//
// Every search scans all vectors and ranks them by Euclidean distance, so
// results are exact and deterministic. A single document yields at most a
// few thousand chunks, which keeps a full scan fast.
package flat

import (
	"fmt"
	"math"
	"sort"
	"sync"

	"github.com/custodia-labs/docchat/internal/core/domain"
	"github.com/custodia-labs/docchat/internal/core/ports/driven"
)

// Ensure Index implements the interface.
var _ driven.VectorIndex = (*Index)(nil)

// Index is an in-memory exact L2 index.
type Index struct {
	mu         sync.RWMutex
	dimensions int
	vectors    [][]float32
}

// New creates an empty index accepting vectors of the given size.
func New(dimensions int) *Index {
	return &Index{dimensions: dimensions}
}

// Build replaces the index contents. The input is copied.
func (i *Index) Build(vectors [][]float32) error {
	stored := make([][]float32, len(vectors))
	for n, v := range vectors {
		if len(v) != i.dimensions {
			return fmt.Errorf("vector %d has %d dimensions, want %d: %w",
				n, len(v), i.dimensions, domain.ErrDimensionMismatch)
		}
		stored[n] = append([]float32(nil), v...)
	}

	i.mu.Lock()
	i.vectors = stored
	i.mu.Unlock()
	return nil
}

// Search returns the k nearest vectors, closest first. Equal distances are
// ordered by row.
func (i *Index) Search(query []float32, k int) ([]driven.VectorHit, error) {
	i.mu.RLock()
	defer i.mu.RUnlock()

	if len(i.vectors) == 0 {
		return nil, domain.ErrIndexEmpty
	}
	if len(query) != i.dimensions {
		return nil, fmt.Errorf("query has %d dimensions, want %d: %w",
			len(query), i.dimensions, domain.ErrDimensionMismatch)
	}
	if k <= 0 {
		return nil, fmt.Errorf("k must be positive, got %d: %w", k, domain.ErrInvalidInput)
	}
	if k > len(i.vectors) {
		k = len(i.vectors)
	}

	hits := make([]driven.VectorHit, len(i.vectors))
	for n, v := range i.vectors {
		hits[n] = driven.VectorHit{Index: n, Distance: l2(query, v)}
	}

	sort.SliceStable(hits, func(a, b int) bool {
		return hits[a].Distance < hits[b].Distance
	})

	return hits[:k], nil
}

// Len returns the number of indexed vectors.
func (i *Index) Len() int {
	i.mu.RLock()
	defer i.mu.RUnlock()
	return len(i.vectors)
}

// Dimensions returns the vector size the index accepts.
func (i *Index) Dimensions() int {
	return i.dimensions
}

// l2 returns the Euclidean distance between a and b, accumulated in float64.
func l2(a, b []float32) float64 {
	var sum float64
	for n := range a {
		d := float64(a[n]) - float64(b[n])
		sum += d * d
	}
	return math.Sqrt(sum)
}
