// Package config provides configuration loading and validation for the CLI.
package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/go-playground/validator/v10"

	"github.com/jonathan/blog-agent/internal/llm"
	"github.com/jonathan/blog-agent/internal/workflow"
)

// Config is the CLI configuration, loadable from a JSON file. All fields
// are optional; missing values fall back to defaults, environment
// variables, or CLI flags.
type Config struct {
	// LLM provider
	Provider   string `json:"provider,omitempty" validate:"omitempty,oneof=ollama openai gemini"`
	Model      string `json:"model,omitempty"`
	EmbedModel string `json:"embed_model,omitempty"`
	BaseURL    string `json:"base_url,omitempty"`
	APIKey     string `json:"api_key,omitempty"`

	// Storage
	DatabaseURL  string `json:"database_url,omitempty"`
	ContentDir   string `json:"content_dir,omitempty"`
	ManifestPath string `json:"manifest_path,omitempty"`
	FeedsFile    string `json:"feeds_file,omitempty"`

	// Generation loop
	TopK             int  `json:"top_k,omitempty" validate:"gte=0,lte=50"`
	MaxIterations    int  `json:"max_iterations,omitempty" validate:"gte=0,lte=20"`
	MaxContextTokens int  `json:"max_context_tokens,omitempty" validate:"gte=0"`
	TimeoutSeconds   int  `json:"timeout_seconds,omitempty" validate:"gte=0"`
	Verbose          bool `json:"verbose,omitempty"`
}

// Default values for everything the user does not set.
const (
	DefaultContentDir   = "content/posts"
	DefaultManifestPath = "content/.manifest.json"
	DefaultFeedsFile    = "feeds.yaml"
)

// DefaultConfig returns the baseline configuration: a local Ollama
// endpoint and the conventional content layout.
func DefaultConfig() Config {
	llmDefaults := llm.DefaultConfig()
	return Config{
		Provider:         string(llmDefaults.Provider),
		Model:            llmDefaults.Model,
		EmbedModel:       llmDefaults.EmbedModel,
		BaseURL:          llmDefaults.BaseURL,
		ContentDir:       DefaultContentDir,
		ManifestPath:     DefaultManifestPath,
		FeedsFile:        DefaultFeedsFile,
		TopK:             workflow.DefaultTopK,
		MaxIterations:    workflow.DefaultMaxIterations,
		MaxContextTokens: 4000,
		TimeoutSeconds:   300,
	}
}

// LoadConfig loads configuration from a JSON file.
func LoadConfig(path string) (*Config, error) {
	if path == "" {
		return nil, fmt.Errorf("config path is empty")
	}

	if !filepath.IsAbs(path) {
		cwd, err := os.Getwd()
		if err != nil {
			return nil, fmt.Errorf("failed to get current directory: %w", err)
		}
		path = filepath.Join(cwd, path)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
	}

	var cfg Config
	if err := json.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config JSON: %w", err)
	}
	return &cfg, nil
}

// ApplyEnv fills credentials and endpoints from the environment when the
// config does not set them. Flags override both.
func (c *Config) ApplyEnv() {
	if c.DatabaseURL == "" {
		c.DatabaseURL = os.Getenv("DATABASE_URL")
	}
	if c.BaseURL == "" {
		c.BaseURL = os.Getenv("OLLAMA_HOST")
	}
	if c.APIKey == "" {
		switch c.Provider {
		case "gemini":
			c.APIKey = os.Getenv("GEMINI_API_KEY")
		case "openai":
			c.APIKey = os.Getenv("OPENAI_API_KEY")
		}
	}
}

// MergeWithDefaults returns a copy with zero-valued fields filled from
// defaults. Explicitly set fields win.
func (c *Config) MergeWithDefaults(defaults Config) Config {
	result := *c

	if result.Provider == "" {
		result.Provider = defaults.Provider
	}
	if result.Model == "" {
		result.Model = defaults.Model
	}
	if result.EmbedModel == "" {
		result.EmbedModel = defaults.EmbedModel
	}
	if result.BaseURL == "" {
		result.BaseURL = defaults.BaseURL
	}
	if result.APIKey == "" {
		result.APIKey = defaults.APIKey
	}
	if result.DatabaseURL == "" {
		result.DatabaseURL = defaults.DatabaseURL
	}
	if result.ContentDir == "" {
		result.ContentDir = defaults.ContentDir
	}
	if result.ManifestPath == "" {
		result.ManifestPath = defaults.ManifestPath
	}
	if result.FeedsFile == "" {
		result.FeedsFile = defaults.FeedsFile
	}
	if result.TopK == 0 {
		result.TopK = defaults.TopK
	}
	if result.MaxIterations == 0 {
		result.MaxIterations = defaults.MaxIterations
	}
	if result.MaxContextTokens == 0 {
		result.MaxContextTokens = defaults.MaxContextTokens
	}
	if result.TimeoutSeconds == 0 {
		result.TimeoutSeconds = defaults.TimeoutSeconds
	}
	if defaults.Verbose {
		result.Verbose = true
	}
	return result
}

var configValidator = validator.New()

// Validate checks field values after merging.
func (c *Config) Validate() error {
	if err := configValidator.Struct(c); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}
	return nil
}

// LLMConfig builds the provider client configuration.
func (c *Config) LLMConfig() *llm.Config {
	cfg := llm.DefaultConfig()
	if c.Provider != "" {
		cfg.Provider = llm.Provider(c.Provider)
	}
	if c.Model != "" {
		cfg.Model = c.Model
	}
	if c.EmbedModel != "" {
		cfg.EmbedModel = c.EmbedModel
	}
	if c.BaseURL != "" {
		cfg.BaseURL = c.BaseURL
	}
	cfg.APIKey = c.APIKey
	if c.TimeoutSeconds > 0 {
		cfg.Timeout = time.Duration(c.TimeoutSeconds) * time.Second
	}
	return cfg
}

// RunnerConfig builds the workflow loop configuration.
func (c *Config) RunnerConfig() workflow.Config {
	cfg := workflow.DefaultRunnerConfig()
	if c.MaxIterations > 0 {
		cfg.MaxIterations = c.MaxIterations
	}
	if c.TopK > 0 {
		cfg.TopK = c.TopK
	}
	cfg.Verbose = c.Verbose
	return cfg
}
