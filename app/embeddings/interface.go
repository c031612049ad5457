package embeddings

import (
	"context"
	"strings"
)

// Interface is the embedding capability. Implementations must be safe for
// concurrent use and must map blank text to the zero vector instead of
// calling the underlying model.
type Interface interface {
	Embed(ctx context.Context, text string) ([]float32, error)
	Dimension() int
	Name() string
}

// ZeroVector is the sentinel embedding for text that could not be resolved.
func ZeroVector(dim int) []float32 {
	return make([]float32, dim)
}

func isBlank(text string) bool {
	return strings.TrimSpace(text) == ""
}
