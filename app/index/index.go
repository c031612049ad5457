package index

import (
	"context"
	"errors"
)

var ErrDimensionMismatch = errors.New("vector dimension does not match index dimension")

// Hit is one nearest-neighbor result. Position is the store position of the
// matched vector; Distance is the backend's raw distance (squared L2 for the
// flat index), ascending.
type Hit struct {
	Position int
	Distance float32
}

// Interface is the nearest-neighbor capability the retriever is built
// against. Implementations are read-only after the bootstrap finishes adding
// vectors and are safe for concurrent Search.
type Interface interface {
	Add(ctx context.Context, vectors [][]float32) error
	Search(ctx context.Context, vector []float32, k int) ([]Hit, error)
	Len() int
	Dimension() int
}
