package retrieval

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"go.uber.org/zap"

	"GoPolicyRAG/app/configs"
	"GoPolicyRAG/app/embeddings"
	"GoPolicyRAG/app/index"
	"GoPolicyRAG/app/store"
)

const (
	metadataFile = "metadata.json"
	indexFile    = "index.bin"
)

// ErrAlignment reports irrecoverable corruption of the store↔index pairing.
// Everything else degrades; this one is loud.
var ErrAlignment = errors.New("vector index out of alignment with document store")

// Bootstrap assembles the retriever: load the record list, repair stale
// paths in place, resolve text bodies, then load the persisted index or
// rebuild it in full. Runs once at startup (or from the reindex command),
// never concurrently with live queries.
func Bootstrap(ctx context.Context, cfg *configs.Config, provider embeddings.Interface,
	cache *embeddings.Cache, forceRebuild bool, log *zap.Logger) (*Retriever, error) {

	metaPath := filepath.Join(cfg.Corpus.VectorDBPath, metadataFile)

	resolver := store.NewResolver(cfg.Corpus.ContentRoots)
	records, err := store.LoadMetadata(metaPath)
	if err != nil {
		return nil, err
	}
	if resolver.Repair(records) {
		if err := store.SaveMetadata(metaPath, records); err != nil {
			log.Warn("failed to persist repaired metadata", zap.Error(err))
		} else {
			log.Info("repaired metadata paths persisted")
		}
	}

	st, err := store.Load(metaPath, resolver, log)
	if err != nil {
		return nil, err
	}

	idx, err := openIndex(ctx, cfg, st, provider, cache, forceRebuild, log)
	if err != nil {
		return nil, err
	}

	return NewRetriever(provider, idx, st, cfg.Retrieval.PreviewRunes, log), nil
}

func openIndex(ctx context.Context, cfg *configs.Config, st *store.Store,
	provider embeddings.Interface, cache *embeddings.Cache, forceRebuild bool,
	log *zap.Logger) (index.Interface, error) {

	if cfg.Index.Backend == "qdrant" {
		return openQdrant(ctx, cfg, st, provider, cache, forceRebuild, log)
	}

	indexPath := filepath.Join(cfg.Corpus.VectorDBPath, indexFile)
	if !forceRebuild {
		idx, err := index.LoadFlat(indexPath)
		switch {
		case err == nil && idx.Dimension() == provider.Dimension() && idx.Len() == st.Len():
			log.Info("loaded persisted vector index",
				zap.Int("vectors", idx.Len()), zap.Int("dimension", idx.Dimension()))
			return idx, nil
		case err == nil:
			log.Warn("persisted index inconsistent with corpus, rebuilding",
				zap.Int("index_vectors", idx.Len()), zap.Int("records", st.Len()),
				zap.Int("index_dim", idx.Dimension()), zap.Int("provider_dim", provider.Dimension()))
		case !os.IsNotExist(err):
			log.Warn("failed to load persisted index, rebuilding", zap.Error(err))
		}
	}

	idx := index.NewFlat(provider.Dimension())
	if err := fill(ctx, idx, st, provider, cache, log); err != nil {
		return nil, err
	}
	if err := idx.Save(indexPath); err != nil {
		log.Warn("failed to persist rebuilt index", zap.Error(err))
	}
	return idx, nil
}

func openQdrant(ctx context.Context, cfg *configs.Config, st *store.Store,
	provider embeddings.Interface, cache *embeddings.Cache, forceRebuild bool,
	log *zap.Logger) (index.Interface, error) {

	idx, err := index.NewQdrant(ctx, cfg.Index.QdrantHost, cfg.Index.QdrantPort,
		cfg.Index.QdrantCollection, provider.Dimension())
	if err != nil {
		return nil, fmt.Errorf("connect qdrant: %w", err)
	}

	if !forceRebuild && idx.Len() == st.Len() {
		log.Info("reusing qdrant collection", zap.Int("vectors", idx.Len()))
		return idx, nil
	}

	log.Warn("qdrant collection inconsistent with corpus, rebuilding",
		zap.Int("collection_vectors", idx.Len()), zap.Int("records", st.Len()))
	if err := idx.Reset(ctx); err != nil {
		return nil, err
	}
	if err := fill(ctx, idx, st, provider, cache, log); err != nil {
		return nil, err
	}
	return idx, nil
}

// fill embeds every record in order and adds the vectors to the index.
// Records with empty text get the zero vector; skipping them would shift
// every position after them, which is exactly the corruption ErrAlignment
// guards against.
func fill(ctx context.Context, idx index.Interface, st *store.Store,
	provider embeddings.Interface, cache *embeddings.Cache, log *zap.Logger) error {

	log.Info("rebuilding vector index", zap.Int("records", st.Len()))
	vectors := make([][]float32, 0, st.Len())
	for i := 0; i < st.Len(); i++ {
		vec, err := embedRecord(ctx, provider, cache, st.Text(i))
		if err != nil {
			return fmt.Errorf("embed record %d: %w", i, err)
		}
		if len(vec) != idx.Dimension() {
			return fmt.Errorf("record %d: %w", i, index.ErrDimensionMismatch)
		}
		vectors = append(vectors, vec)
	}

	if err := idx.Add(ctx, vectors); err != nil {
		return err
	}
	if idx.Len() != st.Len() {
		return fmt.Errorf("%w: %d vectors for %d records", ErrAlignment, idx.Len(), st.Len())
	}
	return nil
}

func embedRecord(ctx context.Context, provider embeddings.Interface, cache *embeddings.Cache, text string) ([]float32, error) {
	if vec, ok := cache.Get(ctx, provider.Name(), text); ok {
		return vec, nil
	}
	vec, err := provider.Embed(ctx, text)
	if err != nil {
		return nil, err
	}
	if err := cache.Put(ctx, provider.Name(), text, vec); err != nil {
		// a cache write failure only costs a future re-embed
		return vec, nil
	}
	return vec, nil
}
