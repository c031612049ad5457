package embeddings

import (
	"context"
	"hash/fnv"
	"math"
	"math/rand"
)

// RandomProvider is the degraded substitute used when no embedding model can
// be loaded. Each text maps to a unit vector drawn from a PRNG seeded by the
// text itself, so identical inputs always embed identically and the rest of
// the pipeline keeps its dimension contract.
type RandomProvider struct {
	dim int
}

func NewRandomProvider(dim int) *RandomProvider {
	return &RandomProvider{dim: dim}
}

func (p *RandomProvider) Name() string   { return "random-fallback" }
func (p *RandomProvider) Dimension() int { return p.dim }

func (p *RandomProvider) Embed(_ context.Context, text string) ([]float32, error) {
	if isBlank(text) {
		return ZeroVector(p.dim), nil
	}

	h := fnv.New64a()
	h.Write([]byte(text))
	rng := rand.New(rand.NewSource(int64(h.Sum64())))

	vec := make([]float32, p.dim)
	var norm float64
	for i := range vec {
		v := rng.Float64()*2 - 1
		vec[i] = float32(v)
		norm += v * v
	}
	norm = math.Sqrt(norm)
	if norm == 0 {
		return vec, nil
	}
	for i := range vec {
		vec[i] = float32(float64(vec[i]) / norm)
	}
	return vec, nil
}
