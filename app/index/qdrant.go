package index

import (
	"context"
	"fmt"

	"github.com/qdrant/go-client/qdrant"
)

// Qdrant serves the same capability against a qdrant collection, for
// deployments where the corpus outgrows an in-process index. Store positions
// travel as numeric point IDs so the position↔record pairing survives the
// round trip through the server.
type Qdrant struct {
	client     *qdrant.Client
	collection string
	dim        int
	count      int
}

func NewQdrant(ctx context.Context, host string, port int, collection string, dim int) (*Qdrant, error) {
	client, err := qdrant.NewClient(&qdrant.Config{
		Host: host,
		Port: port,
	})
	if err != nil {
		return nil, err
	}

	q := &Qdrant{client: client, collection: collection, dim: dim}
	if err := q.ensureCollection(ctx); err != nil {
		return nil, err
	}

	count, err := client.Count(ctx, &qdrant.CountPoints{
		CollectionName: collection,
		Exact:          qdrant.PtrOf(true),
	})
	if err != nil {
		return nil, fmt.Errorf("count collection %s: %w", collection, err)
	}
	q.count = int(count)
	return q, nil
}

func (q *Qdrant) ensureCollection(ctx context.Context) error {
	exists, err := q.client.CollectionExists(ctx, q.collection)
	if err != nil {
		return err
	}
	if exists {
		return nil
	}
	if err := q.client.CreateCollection(ctx, &qdrant.CreateCollection{
		CollectionName: q.collection,
		VectorsConfig: &qdrant.VectorsConfig{
			Config: &qdrant.VectorsConfig_Params{
				Params: &qdrant.VectorParams{
					Size:     uint64(q.dim),
					Distance: qdrant.Distance_Euclid,
				},
			},
		},
	}); err != nil {
		return fmt.Errorf("create collection: %w", err)
	}
	return nil
}

func (q *Qdrant) Dimension() int { return q.dim }
func (q *Qdrant) Len() int       { return q.count }

func (q *Qdrant) Add(ctx context.Context, vectors [][]float32) error {
	pts := make([]*qdrant.PointStruct, len(vectors))
	for i, vec := range vectors {
		if len(vec) != q.dim {
			return fmt.Errorf("%w: got %d, collection built for %d", ErrDimensionMismatch, len(vec), q.dim)
		}
		pts[i] = &qdrant.PointStruct{
			Id:      qdrant.NewIDNum(uint64(q.count + i)),
			Vectors: qdrant.NewVectors(vec...),
		}
	}

	if _, err := q.client.Upsert(ctx, &qdrant.UpsertPoints{
		CollectionName: q.collection,
		Points:         pts,
	}); err != nil {
		return err
	}
	q.count += len(vectors)
	return nil
}

func (q *Qdrant) Search(ctx context.Context, vector []float32, k int) ([]Hit, error) {
	if len(vector) != q.dim {
		return nil, fmt.Errorf("%w: query has %d, collection built for %d", ErrDimensionMismatch, len(vector), q.dim)
	}
	if k <= 0 {
		return nil, nil
	}

	limit := uint64(k)
	resp, err := q.client.Query(ctx, &qdrant.QueryPoints{
		CollectionName: q.collection,
		Limit:          &limit,
		Query:          qdrant.NewQuery(vector...),
	})
	if err != nil {
		return nil, err
	}

	hits := make([]Hit, 0, len(resp))
	for _, r := range resp {
		id, ok := r.Id.PointIdOptions.(*qdrant.PointId_Num)
		if !ok {
			continue
		}
		hits = append(hits, Hit{Position: int(id.Num), Distance: r.Score})
	}
	return hits, nil
}

// Reset drops and recreates the collection ahead of a full rebuild.
func (q *Qdrant) Reset(ctx context.Context) error {
	if err := q.client.DeleteCollection(ctx, q.collection); err != nil {
		return fmt.Errorf("delete collection %s: %w", q.collection, err)
	}
	q.count = 0
	return q.ensureCollection(ctx)
}

func (q *Qdrant) Close() error {
	return q.client.Close()
}
