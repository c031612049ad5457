package configs

import (
	"fmt"
	"os"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"
)

type Config struct {
	Embeddings EmbeddingsConfig `yaml:"embeddings"`
	Generation GenerationConfig `yaml:"generation"`
	Corpus     CorpusConfig     `yaml:"corpus"`
	Index      IndexConfig      `yaml:"index"`
	Retrieval  RetrievalConfig  `yaml:"retrieval"`
	Server     ServerConfig     `yaml:"server"`
}

type EmbeddingsConfig struct {
	BaseURL        string `yaml:"base_url" validate:"required,url"`
	Model          string `yaml:"model" validate:"required"`
	Dimension      int    `yaml:"dimension" validate:"gt=0"`
	TimeoutSeconds int    `yaml:"timeout_seconds" validate:"gte=0"`
	CachePath      string `yaml:"cache_path"`
}

type GenerationConfig struct {
	BaseURL        string `yaml:"base_url" validate:"required,url"`
	Endpoint       string `yaml:"endpoint" validate:"required"`
	Token          string `yaml:"token"`
	AppID          string `yaml:"app_id"`
	Model          string `yaml:"model" validate:"required"`
	TimeoutSeconds int    `yaml:"timeout_seconds" validate:"gte=0"`
	WebSearch      bool   `yaml:"web_search"`
}

type CorpusConfig struct {
	VectorDBPath string   `yaml:"vector_db_path" validate:"required"`
	ContentRoots []string `yaml:"content_roots" validate:"min=1"`
}

type IndexConfig struct {
	Backend          string `yaml:"backend" validate:"oneof=flat qdrant"`
	QdrantHost       string `yaml:"qdrant_host"`
	QdrantPort       int    `yaml:"qdrant_port"`
	QdrantCollection string `yaml:"qdrant_collection"`
}

type RetrievalConfig struct {
	TopK         int     `yaml:"top_k" validate:"gte=0"`
	Threshold    float64 `yaml:"threshold" validate:"gte=0,lte=1"`
	PreviewRunes int     `yaml:"preview_runes" validate:"gt=0"`
}

type ServerConfig struct {
	Addr    string `yaml:"addr" validate:"required"`
	GinMode string `yaml:"gin_mode" validate:"oneof=debug release test"`
}

// Default returns the configuration the system runs with when no file is
// supplied. Secrets are expected through the environment.
func Default() *Config {
	return &Config{
		Embeddings: EmbeddingsConfig{
			BaseURL:        "http://localhost:1234",
			Model:          "paraphrase-multilingual-minilm-l12-v2",
			Dimension:      384,
			TimeoutSeconds: 30,
		},
		Generation: GenerationConfig{
			BaseURL:        "https://qianfan.baidubce.com",
			Endpoint:       "/v2/chat/completions",
			Token:          os.Getenv("QIANFAN_API_KEY"),
			AppID:          os.Getenv("QIANFAN_APP_ID"),
			Model:          "ernie-3.5-8k",
			TimeoutSeconds: 60,
		},
		Corpus: CorpusConfig{
			VectorDBPath: "vector_db_manual",
			ContentRoots: []string{"manual_chunks"},
		},
		Index: IndexConfig{
			Backend:          "flat",
			QdrantHost:       "localhost",
			QdrantPort:       6334,
			QdrantCollection: "policy_chunks",
		},
		Retrieval: RetrievalConfig{
			TopK:         3,
			Threshold:    0.3,
			PreviewRunes: 800,
		},
		Server: ServerConfig{
			Addr:    ":8080",
			GinMode: "release",
		},
	}
}

// LoadConfig reads a YAML configuration file over the defaults. Environment
// references in the file are expanded before parsing.
func LoadConfig(path string) (*Config, error) {
	cfg := Default()
	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("read configs file: %w", err)
		}

		expanded := os.ExpandEnv(string(data))
		if err := yaml.Unmarshal([]byte(expanded), cfg); err != nil {
			return nil, fmt.Errorf("parse YAML: %w", err)
		}
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) Validate() error {
	if err := validator.New().Struct(c); err != nil {
		return fmt.Errorf("invalid configs: %w", err)
	}
	if c.Index.Backend == "qdrant" && c.Index.QdrantCollection == "" {
		return fmt.Errorf("index backend qdrant requires a collection name")
	}
	return nil
}
