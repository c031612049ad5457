package retrieval

import (
	"context"
	"fmt"
	"math"
	"strings"

	"go.uber.org/zap"

	"GoPolicyRAG/app/embeddings"
	"GoPolicyRAG/app/index"
	"GoPolicyRAG/app/store"
	"GoPolicyRAG/app/utils"
)

// lowSimilarity is the conservative score assigned when no meaningful
// similarity can be computed, and the ceiling for passages with no text.
const lowSimilarity = 0.05

// Passage is one retrieved unit, alive only for the duration of a query.
type Passage struct {
	Content    string
	Title      string
	SourcePath string
	RawScore   float32
	Similarity float64
	Rank       int
}

// Retriever owns the vector index and turns a query into ranked, truncated,
// relevance-annotated passages. Read-only after bootstrap; safe for
// concurrent queries.
type Retriever struct {
	provider     embeddings.Interface
	idx          index.Interface
	store        *store.Store
	previewRunes int
	log          *zap.Logger
}

func NewRetriever(provider embeddings.Interface, idx index.Interface, st *store.Store, previewRunes int, log *zap.Logger) *Retriever {
	return &Retriever{
		provider:     provider,
		idx:          idx,
		store:        st,
		previewRunes: previewRunes,
		log:          log,
	}
}

func (r *Retriever) Store() *store.Store { return r.store }

// Retrieve returns at most k passages ordered by descending similarity.
func (r *Retriever) Retrieve(ctx context.Context, query string, k int) ([]Passage, error) {
	if k <= 0 || r.store.Len() == 0 {
		return nil, nil
	}

	vec, err := r.provider.Embed(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("embed query: %w", err)
	}
	vec = r.fitDimension(vec)

	hits, err := r.idx.Search(ctx, vec, k)
	if err != nil {
		return nil, fmt.Errorf("search index: %w", err)
	}

	passages := make([]Passage, 0, len(hits))
	for _, hit := range hits {
		if hit.Position < 0 || hit.Position >= r.store.Len() {
			r.log.Warn("index returned position outside the store, skipping",
				zap.Int("position", hit.Position), zap.Int("records", r.store.Len()))
			continue
		}
		record := r.store.Records[hit.Position]
		text := r.store.Text(hit.Position)

		passages = append(passages, Passage{
			Content:    utils.TruncateRunes(text, r.previewRunes),
			Title:      record.DisplayTitle(),
			SourcePath: record.Path,
			RawScore:   hit.Distance,
			Similarity: similarityFromDistance(hit.Distance, text),
			Rank:       len(passages),
		})
	}
	return passages, nil
}

// similarityFromDistance maps a raw distance onto [0,1] via 1/(1+d). A
// passage with no text never scores above the conservative floor, whatever
// its vector distance says: matching against a zero vector is not evidence.
func similarityFromDistance(distance float32, text string) float64 {
	sim := 1.0 / (1.0 + float64(distance))
	if math.IsNaN(sim) || math.IsInf(sim, 0) || sim < 0 {
		return lowSimilarity
	}
	if strings.TrimSpace(text) == "" && sim > lowSimilarity {
		return lowSimilarity
	}
	if sim > 1 {
		return 1
	}
	return sim
}

// fitDimension repairs a query vector whose dimension drifted from the
// index, which happens after an embedding capability substitution. Repair is
// query-time only: index builds reject mismatched vectors outright.
func (r *Retriever) fitDimension(vec []float32) []float32 {
	dim := r.idx.Dimension()
	if len(vec) == dim {
		return vec
	}
	r.log.Warn("query vector dimension mismatch, padding/truncating",
		zap.Int("got", len(vec)), zap.Int("want", dim))
	fitted := make([]float32, dim)
	copy(fitted, vec)
	return fitted
}
