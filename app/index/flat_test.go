package index

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFlatSearchOrdering(t *testing.T) {
	ctx := context.Background()
	f := NewFlat(2)
	require.NoError(t, f.Add(ctx, [][]float32{
		{0, 0},
		{3, 4},
		{1, 0},
	}))

	hits, err := f.Search(ctx, []float32{0, 0}, 10)
	require.NoError(t, err)
	require.Len(t, hits, 3)
	assert.Equal(t, 0, hits[0].Position)
	assert.Equal(t, float32(0), hits[0].Distance)
	assert.Equal(t, 2, hits[1].Position)
	assert.Equal(t, float32(1), hits[1].Distance)
	assert.Equal(t, 1, hits[2].Position)
	assert.Equal(t, float32(25), hits[2].Distance)
}

func TestFlatSearchBounds(t *testing.T) {
	ctx := context.Background()
	f := NewFlat(2)
	require.NoError(t, f.Add(ctx, [][]float32{{1, 1}, {2, 2}}))

	hits, err := f.Search(ctx, []float32{0, 0}, 1)
	require.NoError(t, err)
	assert.Len(t, hits, 1)

	hits, err = f.Search(ctx, []float32{0, 0}, 0)
	require.NoError(t, err)
	assert.Empty(t, hits)

	empty := NewFlat(2)
	hits, err = empty.Search(ctx, []float32{0, 0}, 3)
	require.NoError(t, err)
	assert.Empty(t, hits)
}

func TestFlatDimensionMismatch(t *testing.T) {
	ctx := context.Background()
	f := NewFlat(3)

	err := f.Add(ctx, [][]float32{{1, 2}})
	assert.ErrorIs(t, err, ErrDimensionMismatch)
	assert.Equal(t, 0, f.Len())

	_, err = f.Search(ctx, []float32{1, 2}, 1)
	assert.ErrorIs(t, err, ErrDimensionMismatch)
}

func TestFlatPersistenceRoundTrip(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "db", "index.bin")

	f := NewFlat(2)
	require.NoError(t, f.Add(ctx, [][]float32{{1, 2}, {3, 4}}))
	require.NoError(t, f.Save(path))

	loaded, err := LoadFlat(path)
	require.NoError(t, err)
	assert.Equal(t, 2, loaded.Dimension())
	assert.Equal(t, 2, loaded.Len())

	hits, err := loaded.Search(ctx, []float32{1, 2}, 1)
	require.NoError(t, err)
	require.Len(t, hits, 1)
	assert.Equal(t, 0, hits[0].Position)
}

func TestLoadFlatMissingOrCorrupt(t *testing.T) {
	_, err := LoadFlat(filepath.Join(t.TempDir(), "missing.bin"))
	assert.Error(t, err)

	path := filepath.Join(t.TempDir(), "corrupt.bin")
	require.NoError(t, os.WriteFile(path, []byte("not a gob"), 0o644))
	_, err = LoadFlat(path)
	assert.Error(t, err)
}
