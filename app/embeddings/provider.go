package embeddings

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"

	"GoPolicyRAG/app/configs"
)

var (
	loadOnce sync.Once
	loaded   Interface
)

// Load selects the embedding provider for this process and caches it for the
// process lifetime: the remote model when it answers a probe, otherwise the
// deterministic random substitute. Degrading is a capability substitution,
// never a startup failure.
func Load(cfg configs.EmbeddingsConfig, log *zap.Logger) Interface {
	loadOnce.Do(func() {
		loaded = selectProvider(cfg, log)
	})
	return loaded
}

func selectProvider(cfg configs.EmbeddingsConfig, log *zap.Logger) Interface {
	remote := NewRemoteProvider(cfg.BaseURL, cfg.Model, cfg.Dimension,
		time.Duration(cfg.TimeoutSeconds)*time.Second, log)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := remote.Ping(ctx); err != nil {
		log.Warn("embedding model unavailable, degrading to deterministic fallback",
			zap.String("model", cfg.Model), zap.Error(err))
		return NewRandomProvider(cfg.Dimension)
	}

	log.Info("embedding provider ready", zap.String("provider", remote.Name()),
		zap.Int("dimension", cfg.Dimension))
	return remote
}
