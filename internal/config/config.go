package config

import (
	"errors"
	"os"

	"gopkg.in/yaml.v3"
)

// OpenAIConfig holds connection details for the OpenAI-compatible API used
// for both chat completions and embeddings.
type OpenAIConfig struct {
	BaseURL     string `yaml:"base_url"`
	APIKeyEnv   string `yaml:"api_key_env"`
	TimeoutSecs int    `yaml:"timeout_secs"`
}

// PostgresConfig selects the backing store. When DSNEnv resolves to an
// empty string the CLI falls back to the in-memory store.
type PostgresConfig struct {
	DSNEnv string `yaml:"dsn_env"`
}

// AnswerConfig tunes the retrieval side of the answer path.
type AnswerConfig struct {
	MatchCount int `yaml:"match_count"`
}

// AppConfig is the root application configuration structure.
type AppConfig struct {
	OpenAI   OpenAIConfig   `yaml:"openai"`
	Postgres PostgresConfig `yaml:"postgres"`
	Answer   AnswerConfig   `yaml:"answer"`
}

// Load reads a config from a specified path. If the file does not exist,
// returns defaults.
func Load(path string) (*AppConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			cfg := defaultConfig()
			return cfg, nil
		}
		return nil, err
	}
	var cfg AppConfig
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, err
	}
	applyConfigDefaults(&cfg)
	return &cfg, nil
}

func defaultConfig() *AppConfig {
	cfg := &AppConfig{}
	applyConfigDefaults(cfg)
	return cfg
}

func applyConfigDefaults(cfg *AppConfig) {
	if cfg.OpenAI.BaseURL == "" {
		cfg.OpenAI.BaseURL = "https://api.openai.com/v1"
	}
	if cfg.OpenAI.APIKeyEnv == "" {
		cfg.OpenAI.APIKeyEnv = "OPENAI_API_KEY"
	}
	if cfg.OpenAI.TimeoutSecs == 0 {
		cfg.OpenAI.TimeoutSecs = 30
	}
	if cfg.Postgres.DSNEnv == "" {
		cfg.Postgres.DSNEnv = "SHOPRAG_DATABASE_URL"
	}
	if cfg.Answer.MatchCount == 0 {
		cfg.Answer.MatchCount = 5
	}
}
