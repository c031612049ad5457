package configs

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfigDefaults(t *testing.T) {
	cfg, err := LoadConfig("")
	require.NoError(t, err)
	assert.Equal(t, "flat", cfg.Index.Backend)
	assert.Equal(t, 3, cfg.Retrieval.TopK)
	assert.Equal(t, 0.3, cfg.Retrieval.Threshold)
	assert.Equal(t, 800, cfg.Retrieval.PreviewRunes)
	assert.Equal(t, 384, cfg.Embeddings.Dimension)
}

func TestLoadConfigFile(t *testing.T) {
	t.Setenv("TEST_QF_TOKEN", "tok-123")
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
generation:
  token: ${TEST_QF_TOKEN}
retrieval:
  top_k: 5
index:
  backend: qdrant
  qdrant_collection: policy_test
`), 0o644))

	cfg, err := LoadConfig(path)
	require.NoError(t, err)
	assert.Equal(t, "tok-123", cfg.Generation.Token)
	assert.Equal(t, 5, cfg.Retrieval.TopK)
	assert.Equal(t, "qdrant", cfg.Index.Backend)
	// untouched sections keep their defaults
	assert.Equal(t, "ernie-3.5-8k", cfg.Generation.Model)
}

func TestLoadConfigInvalid(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("index:\n  backend: pinecone\n"), 0o644))

	_, err := LoadConfig(path)
	assert.Error(t, err)
}

func TestLoadConfigMissingFile(t *testing.T) {
	_, err := LoadConfig(filepath.Join(t.TempDir(), "nope.yaml"))
	assert.Error(t, err)
}
