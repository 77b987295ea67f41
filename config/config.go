package config

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// Config holds application configuration
type Config struct {
	Provider string `yaml:"provider"`
	Database struct {
		Enabled          bool   `yaml:"enabled"`
		ConnectionString string `yaml:"connection_string"`
		MaxConns         int32  `yaml:"max_conns"`
	} `yaml:"database"`
	Ollama struct {
		BaseURL        string `yaml:"base_url"`
		RetrieverModel string `yaml:"retriever_model"`
		GeneratorModel string `yaml:"generator_model"`
	} `yaml:"ollama"`
	Gemini struct {
		APIKey         string `yaml:"api_key"`
		RetrieverModel string `yaml:"retriever_model"`
		GeneratorModel string `yaml:"generator_model"`
		EmbeddingModel string `yaml:"embedding_model"`
	} `yaml:"gemini"`
	Embeddings struct {
		TextModel string `yaml:"text_model"`
	} `yaml:"embeddings"`
	Processing struct {
		ChunkSize    int `yaml:"chunk_size"`
		ChunkOverlap int `yaml:"chunk_overlap"`
		TopK         int `yaml:"top_k"`
	} `yaml:"processing"`
	Paths struct {
		CorpusFile string `yaml:"corpus_file"`
		DataDir    string `yaml:"data_dir"`
	} `yaml:"paths"`
}

// Path returns the config file location under the user's home directory.
func Path() string {
	return filepath.Join(os.Getenv("HOME"), ".transito-ai", "config.yaml")
}

// Load loads configuration from file or returns defaults
func Load() (*Config, error) {
	cfg := Default()

	configPath := Path()
	if _, err := os.Stat(configPath); os.IsNotExist(err) {
		return cfg, nil
	}

	data, err := os.ReadFile(configPath)
	if err != nil {
		return cfg, fmt.Errorf("failed to read config: %w", err)
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return cfg, fmt.Errorf("failed to parse config: %w", err)
	}

	return cfg, nil
}

// Save saves configuration to file
func (c *Config) Save() error {
	configPath := Path()
	if err := os.MkdirAll(filepath.Dir(configPath), 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	return os.WriteFile(configPath, data, 0644)
}

// Default returns default configuration
func Default() *Config {
	cfg := &Config{}

	cfg.Provider = "ollama"
	cfg.Database.Enabled = false
	cfg.Database.ConnectionString = "postgres://postgres@localhost/postgres?sslmode=disable"
	cfg.Database.MaxConns = 4
	cfg.Ollama.BaseURL = "http://localhost:11434"
	cfg.Ollama.RetrieverModel = ""
	cfg.Ollama.GeneratorModel = ""
	cfg.Gemini.APIKey = os.Getenv("GEMINI_API_KEY")
	cfg.Gemini.RetrieverModel = "gemini-2.0-flash"
	cfg.Gemini.GeneratorModel = "gemini-2.0-flash"
	cfg.Gemini.EmbeddingModel = "text-embedding-004"
	cfg.Embeddings.TextModel = "nomic-embed-text"
	cfg.Processing.ChunkSize = 300
	cfg.Processing.ChunkOverlap = 50
	cfg.Processing.TopK = 4

	homeDir := os.Getenv("HOME")
	cfg.Paths.DataDir = filepath.Join(homeDir, ".transito-ai", "data")
	cfg.Paths.CorpusFile = filepath.Join(cfg.Paths.DataDir, "ley-769-de-2002-codigo-nacional-de-transito_preprocessed.txt")

	return cfg
}
