package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/jonathan/blog-agent/internal/config"
	"github.com/jonathan/blog-agent/internal/ingest"
	"github.com/jonathan/blog-agent/internal/llm"
	"github.com/jonathan/blog-agent/internal/store"
)

// commonFlags are the flags every subcommand shares. Config file values
// are overridden by explicitly set flags, then environment variables fill
// whatever is still empty.
type commonFlags struct {
	configPath  string
	databaseURL string
	provider    string
	model       string
	apiKey      string
	verbose     bool
}

func (f *commonFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVar(&f.configPath, "config", "", "Path to config.json file (values can be overridden by other flags)")
	cmd.Flags().StringVar(&f.databaseURL, "db-url", "", "PostgreSQL connection URL (optional, defaults to DATABASE_URL env var)")
	cmd.Flags().StringVar(&f.provider, "provider", "", "LLM provider: ollama, openai, or gemini")
	cmd.Flags().StringVar(&f.model, "model", "", "Model name for the selected provider")
	cmd.Flags().StringVar(&f.apiKey, "api-key", "", "API key for openai/gemini (optional, defaults to provider env var)")
	cmd.Flags().BoolVarP(&f.verbose, "verbose", "v", false, "Print detailed progress information")
}

// resolve builds the effective configuration: config file, then explicitly
// set flags, then environment, then defaults.
func (f *commonFlags) resolve(cmd *cobra.Command) (config.Config, error) {
	var cfg config.Config
	if f.configPath != "" {
		loaded, err := config.LoadConfig(f.configPath)
		if err != nil {
			return cfg, fmt.Errorf("failed to load config: %w", err)
		}
		cfg = *loaded
	}

	if cmd.Flags().Changed("db-url") {
		cfg.DatabaseURL = f.databaseURL
	}
	if cmd.Flags().Changed("provider") {
		cfg.Provider = f.provider
	}
	if cmd.Flags().Changed("model") {
		cfg.Model = f.model
	}
	if cmd.Flags().Changed("api-key") {
		cfg.APIKey = f.apiKey
	}
	if cmd.Flags().Changed("verbose") {
		cfg.Verbose = f.verbose
	}

	cfg.ApplyEnv()
	cfg = cfg.MergeWithDefaults(config.DefaultConfig())

	if err := cfg.Validate(); err != nil {
		return cfg, err
	}
	return cfg, nil
}

// openStore connects to PostgreSQL and ensures the schema exists.
func openStore(ctx context.Context, cfg config.Config) (*store.Store, error) {
	if cfg.DatabaseURL == "" {
		return nil, fmt.Errorf("DATABASE_URL environment variable or --db-url flag is required")
	}
	st, err := store.Connect(ctx, cfg.DatabaseURL)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}
	if err := st.EnsureSchema(ctx); err != nil {
		st.Close()
		return nil, fmt.Errorf("failed to ensure database schema: %w", err)
	}
	return st, nil
}

// newEmbedder returns the embedding client. Embeddings always go through
// Ollama, independent of which provider handles chat.
func newEmbedder(cfg config.Config) llm.Embedder {
	llmCfg := cfg.LLMConfig()
	llmCfg.Provider = llm.ProviderOllama
	return llm.NewOllamaClient(llmCfg)
}

// newPipeline wires the store and embedder into the ingestion pipeline,
// which also serves as the search index.
func newPipeline(cfg config.Config, st *store.Store) *ingest.Pipeline {
	return ingest.NewPipeline(st, newEmbedder(cfg), cfg.ManifestPath)
}
