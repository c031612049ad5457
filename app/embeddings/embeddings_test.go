package embeddings

import (
	"context"
	"math"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRandomProviderDeterministic(t *testing.T) {
	p := NewRandomProvider(384)
	ctx := context.Background()

	a, err := p.Embed(ctx, "什么是政府采购")
	require.NoError(t, err)
	b, err := p.Embed(ctx, "什么是政府采购")
	require.NoError(t, err)
	assert.Equal(t, a, b)
	assert.Len(t, a, 384)

	c, err := p.Embed(ctx, "PPP项目风险")
	require.NoError(t, err)
	assert.NotEqual(t, a, c)
}

func TestRandomProviderUnitNorm(t *testing.T) {
	p := NewRandomProvider(64)
	vec, err := p.Embed(context.Background(), "some text")
	require.NoError(t, err)

	var norm float64
	for _, v := range vec {
		norm += float64(v) * float64(v)
	}
	assert.InDelta(t, 1.0, math.Sqrt(norm), 1e-5)
}

func TestBlankTextIsZeroVector(t *testing.T) {
	p := NewRandomProvider(8)
	vec, err := p.Embed(context.Background(), "   \n\t ")
	require.NoError(t, err)
	assert.Equal(t, ZeroVector(8), vec)
}

func TestCacheRoundTrip(t *testing.T) {
	cache, err := OpenCache(filepath.Join(t.TempDir(), "data", "embeddings.db"))
	require.NoError(t, err)
	defer cache.Close()

	ctx := context.Background()
	vec := []float32{0.5, -1.25, 3}

	_, ok := cache.Get(ctx, "m1", "政府采购")
	assert.False(t, ok)

	require.NoError(t, cache.Put(ctx, "m1", "政府采购", vec))
	got, ok := cache.Get(ctx, "m1", "政府采购")
	require.True(t, ok)
	assert.Equal(t, vec, got)

	// same text under a different model is a different entry
	_, ok = cache.Get(ctx, "m2", "政府采购")
	assert.False(t, ok)
}

func TestNilCacheIsNoop(t *testing.T) {
	var cache *Cache
	_, ok := cache.Get(context.Background(), "m", "t")
	assert.False(t, ok)
	assert.NoError(t, cache.Put(context.Background(), "m", "t", []float32{1}))
	assert.NoError(t, cache.Close())
}
