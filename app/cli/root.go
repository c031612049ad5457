package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"GoPolicyRAG/app/configs"
	"GoPolicyRAG/app/embeddings"
	"GoPolicyRAG/app/engine"
	"GoPolicyRAG/app/generation"
	"GoPolicyRAG/app/logger"
	"GoPolicyRAG/app/retrieval"
	"GoPolicyRAG/app/server"
	"GoPolicyRAG/app/store"
)

var (
	configPath string
	debug      bool
)

var rootCmd = &cobra.Command{
	Use:           "policyrag",
	Short:         "Retrieval-augmented Q&A over government procurement and PPP policy documents",
	SilenceUsage:  true,
	SilenceErrors: true,
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "", "path to config.yaml (defaults apply when omitted)")
	rootCmd.PersistentFlags().BoolVar(&debug, "debug", false, "enable debug logging")

	rootCmd.AddCommand(askCmd, serveCmd, repairCmd, reindexCmd)
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}

func setup() (*configs.Config, *zap.Logger, error) {
	log, err := logger.New(debug)
	if err != nil {
		return nil, nil, err
	}
	cfg, err := configs.LoadConfig(configPath)
	if err != nil {
		return nil, nil, err
	}
	return cfg, log, nil
}

func buildEngine(ctx context.Context, cfg *configs.Config, forceRebuild bool, log *zap.Logger) (*engine.Engine, error) {
	provider := embeddings.Load(cfg.Embeddings, log)

	var cache *embeddings.Cache
	if cfg.Embeddings.CachePath != "" {
		var err error
		if cache, err = embeddings.OpenCache(cfg.Embeddings.CachePath); err != nil {
			log.Warn("embedding cache unavailable, continuing without it", zap.Error(err))
			cache = nil
		}
	}

	retriever, err := retrieval.Bootstrap(ctx, cfg, provider, cache, forceRebuild, log)
	if err != nil {
		return nil, err
	}

	generator := generation.NewClient(cfg.Generation, log)
	return engine.New(retriever, generator, log).
		WithTopK(cfg.Retrieval.TopK).
		WithThreshold(cfg.Retrieval.Threshold), nil
}

var askCmd = &cobra.Command{
	Use:   "ask <question>",
	Short: "Answer a single question and print the result as JSON",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, log, err := setup()
		if err != nil {
			return err
		}
		defer log.Sync()

		eng, err := buildEngine(cmd.Context(), cfg, false, log)
		if err != nil {
			return err
		}

		result := eng.Answer(cmd.Context(), args[0])
		out, err := json.MarshalIndent(result, "", "  ")
		if err != nil {
			return err
		}
		fmt.Println(string(out))
		return nil
	},
}

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the HTTP API",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, log, err := setup()
		if err != nil {
			return err
		}
		defer log.Sync()

		eng, err := buildEngine(cmd.Context(), cfg, false, log)
		if err != nil {
			return err
		}

		router := server.NewRouter(eng, cfg.Server.GinMode, log)
		log.Info("serving", zap.String("addr", cfg.Server.Addr))
		return router.Run(cfg.Server.Addr)
	},
}

var repairCmd = &cobra.Command{
	Use:   "repair",
	Short: "Repair stale source paths in metadata.json in place (idempotent)",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, log, err := setup()
		if err != nil {
			return err
		}
		defer log.Sync()

		metaPath := filepath.Join(cfg.Corpus.VectorDBPath, "metadata.json")
		records, err := store.LoadMetadata(metaPath)
		if err != nil {
			return err
		}

		resolver := store.NewResolver(cfg.Corpus.ContentRoots)
		if !resolver.Repair(records) {
			fmt.Printf("%d records checked, nothing to repair\n", len(records))
			return nil
		}
		if err := store.SaveMetadata(metaPath, records); err != nil {
			return err
		}
		fmt.Printf("%d records checked, repaired paths saved to %s\n", len(records), metaPath)
		return nil
	},
}

var reindexCmd = &cobra.Command{
	Use:   "reindex",
	Short: "Re-embed the whole corpus and rewrite the vector index",
	Long: "Forces a full rebuild of the vector index from the document store. " +
		"Run this offline: a rebuild must never race live queries.",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, log, err := setup()
		if err != nil {
			return err
		}
		defer log.Sync()

		if _, err := buildEngine(cmd.Context(), cfg, true, log); err != nil {
			return err
		}
		fmt.Println("index rebuilt")
		return nil
	},
}
