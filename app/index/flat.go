package index

import (
	"context"
	"encoding/gob"
	"fmt"
	"os"
	"path/filepath"
	"sort"
)

// Flat is an exact nearest-neighbor index over squared L2 distance, the
// in-process equivalent of a flat FAISS index. Vector i is always the
// embedding of document store record i.
type Flat struct {
	dim     int
	vectors [][]float32
}

func NewFlat(dim int) *Flat {
	return &Flat{dim: dim}
}

func (f *Flat) Dimension() int { return f.dim }
func (f *Flat) Len() int       { return len(f.vectors) }

func (f *Flat) Add(_ context.Context, vectors [][]float32) error {
	for _, vec := range vectors {
		if len(vec) != f.dim {
			return fmt.Errorf("%w: got %d, index built for %d", ErrDimensionMismatch, len(vec), f.dim)
		}
	}
	f.vectors = append(f.vectors, vectors...)
	return nil
}

func (f *Flat) Search(_ context.Context, vector []float32, k int) ([]Hit, error) {
	if len(vector) != f.dim {
		return nil, fmt.Errorf("%w: query has %d, index built for %d", ErrDimensionMismatch, len(vector), f.dim)
	}
	if k <= 0 || len(f.vectors) == 0 {
		return nil, nil
	}

	hits := make([]Hit, len(f.vectors))
	for i, vec := range f.vectors {
		var d float32
		for j := range vec {
			diff := vec[j] - vector[j]
			d += diff * diff
		}
		hits[i] = Hit{Position: i, Distance: d}
	}

	sort.SliceStable(hits, func(a, b int) bool {
		return hits[a].Distance < hits[b].Distance
	})
	if k < len(hits) {
		hits = hits[:k]
	}
	return hits, nil
}

type flatSnapshot struct {
	Dim     int
	Vectors [][]float32
}

// Save persists the index as a single blob. Loss of this file is recoverable
// by a full rebuild from the document store.
func (f *Flat) Save(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("create index directory: %w", err)
	}
	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create index file %s: %w", path, err)
	}
	defer file.Close()

	if err := gob.NewEncoder(file).Encode(flatSnapshot{Dim: f.dim, Vectors: f.vectors}); err != nil {
		return fmt.Errorf("encode index: %w", err)
	}
	return nil
}

func LoadFlat(path string) (*Flat, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer file.Close()

	var snap flatSnapshot
	if err := gob.NewDecoder(file).Decode(&snap); err != nil {
		return nil, fmt.Errorf("decode index %s: %w", path, err)
	}
	if snap.Dim <= 0 {
		return nil, fmt.Errorf("index %s has invalid dimension %d", path, snap.Dim)
	}
	return &Flat{dim: snap.Dim, vectors: snap.Vectors}, nil
}
