// Package config loads badtl settings from a .env file, BADTL_* environment
// variables and an optional YAML file, and builds the translation stack they
// describe.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"
	"time"

	"github.com/caarlos0/env/v10"
	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	"github.com/ZaguanLabs/badtl"
)

// EnvPrefix is prepended to every environment variable name.
const EnvPrefix = "BADTL_"

// Provider names.
const (
	ProviderGoogle = "google"
	ProviderScript = "script"
	ProviderWeb    = "web"
	ProviderOpenAI = "openai"
	ProviderMock   = "mock"
)

// Cache backend names.
const (
	CacheNone   = "none"
	CacheMemory = "memory"
	CacheRedis  = "redis"
	CacheSQLite = "sqlite"
)

// Settings is the flat configuration record for a translation run.
type Settings struct {
	// Chain
	SourceLang  string   `env:"SOURCE_LANG" envDefault:"en" yaml:"source_lang"`
	Languages   []string `env:"LANGUAGES" yaml:"languages"`
	ChunkBudget int      `env:"CHUNK_BUDGET" envDefault:"950" yaml:"chunk_budget"`
	LineBudget  int      `env:"LINE_BUDGET" envDefault:"26" yaml:"line_budget"`
	Workers     int      `env:"WORKERS" envDefault:"1" yaml:"workers"`
	Context     string   `env:"CONTEXT" yaml:"context"`

	// Provider
	Provider        string        `env:"PROVIDER" envDefault:"google" yaml:"provider"`
	ProviderTimeout time.Duration `env:"PROVIDER_TIMEOUT" envDefault:"30s" yaml:"provider_timeout"`
	GoogleURL       string        `env:"GOOGLE_URL" yaml:"google_url"`
	ScriptURL       string        `env:"SCRIPT_URL" yaml:"script_url"`
	WebURL          string        `env:"WEB_URL" yaml:"web_url"`
	OpenAIKey       string        `env:"OPENAI_API_KEY" yaml:"openai_api_key"`
	OpenAIModel     string        `env:"OPENAI_MODEL" yaml:"openai_model"`
	OpenAIBaseURL   string        `env:"OPENAI_BASE_URL" yaml:"openai_base_url"`

	// Resilience
	MaxRetries        int           `env:"MAX_RETRIES" envDefault:"3" yaml:"max_retries"`
	RetryBaseDelay    time.Duration `env:"RETRY_BASE_DELAY" envDefault:"1s" yaml:"retry_base_delay"`
	RetryMaxDelay     time.Duration `env:"RETRY_MAX_DELAY" envDefault:"30s" yaml:"retry_max_delay"`
	RequestsPerMinute int           `env:"REQUESTS_PER_MINUTE" yaml:"requests_per_minute"`
	BurstSize         int           `env:"BURST_SIZE" yaml:"burst_size"`

	// Cache
	Cache       string `env:"CACHE" envDefault:"memory" yaml:"cache"`
	CacheTTL    int    `env:"CACHE_TTL" yaml:"cache_ttl"`
	RedisURL    string `env:"REDIS_URL" yaml:"redis_url"`
	RedisPrefix string `env:"REDIS_PREFIX" yaml:"redis_prefix"`
	SQLitePath  string `env:"SQLITE_PATH" envDefault:"badtl-cache.db" yaml:"sqlite_path"`

	// Logging
	LogLevel  string `env:"LOG_LEVEL" envDefault:"info" yaml:"log_level"`
	LogFormat string `env:"LOG_FORMAT" envDefault:"text" yaml:"log_format"`

	// Run
	Input  string `env:"INPUT" yaml:"input"`   // Dialogue file; empty reads stdin
	Output string `env:"OUTPUT" yaml:"output"` // Result file; empty writes stdout
	DryRun bool   `env:"DRY_RUN" yaml:"dry_run"`
	JSON   bool   `env:"JSON" yaml:"json"`
	Quiet  bool   `env:"QUIET" yaml:"quiet"`
}

// Load reads settings. Values come from, lowest precedence first: defaults,
// a .env file in the working directory, the process environment, then the
// YAML file at path. An empty path skips the YAML step; a missing .env is
// ignored.
func Load(path string) (*Settings, error) {
	return load(path, ".env", envMap(os.Environ()))
}

func load(path, dotenv string, environ map[string]string) (*Settings, error) {
	merged := make(map[string]string)

	if dotenv != "" {
		values, err := godotenv.Read(dotenv)
		if err != nil && !errors.Is(err, fs.ErrNotExist) {
			return nil, &badtl.ConfigError{Field: "dotenv", Message: err.Error()}
		}
		for k, v := range values {
			merged[k] = v
		}
	}
	for k, v := range environ {
		merged[k] = v
	}

	s := &Settings{}
	if err := env.ParseWithOptions(s, env.Options{Prefix: EnvPrefix, Environment: merged}); err != nil {
		return nil, &badtl.ConfigError{Field: "environment", Message: err.Error()}
	}

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, &badtl.ConfigError{Field: "file", Message: err.Error()}
		}
		if err := yaml.Unmarshal(data, s); err != nil {
			return nil, &badtl.ConfigError{Field: "file", Message: fmt.Sprintf("parse %s: %v", path, err)}
		}
	}

	if s.Languages == nil {
		s.Languages = append([]string(nil), badtl.DefaultLanguages...)
	}
	for i, lang := range s.Languages {
		s.Languages[i] = strings.TrimSpace(lang)
	}

	return s, nil
}

func envMap(environ []string) map[string]string {
	m := make(map[string]string, len(environ))
	for _, kv := range environ {
		if k, v, ok := strings.Cut(kv, "="); ok {
			m[k] = v
		}
	}
	return m
}

// Config returns the translation configuration record.
func (s *Settings) Config() badtl.Config {
	return badtl.Config{
		ChunkBudget: s.ChunkBudget,
		LineBudget:  s.LineBudget,
		SourceLang:  s.SourceLang,
		Languages:   s.Languages,
	}
}

// Validate reports the first invalid setting.
func (s *Settings) Validate() error {
	if err := s.Config().Validate(); err != nil {
		return err
	}

	if s.Workers < 1 {
		return &badtl.ConfigError{Field: "Workers", Message: fmt.Sprintf("must be at least 1, got %d", s.Workers)}
	}

	switch s.Provider {
	case ProviderGoogle, ProviderWeb, ProviderMock:
	case ProviderScript:
		if s.ScriptURL == "" {
			return &badtl.ConfigError{Field: "ScriptURL", Message: "is required for the script provider"}
		}
	case ProviderOpenAI:
		if s.OpenAIKey == "" {
			return &badtl.ConfigError{Field: "OpenAIKey", Message: "is required for the openai provider"}
		}
	default:
		return &badtl.ConfigError{Field: "Provider", Message: fmt.Sprintf("unknown provider %q", s.Provider)}
	}

	if s.MaxRetries < 0 {
		return &badtl.ConfigError{Field: "MaxRetries", Message: "must not be negative"}
	}
	if s.RequestsPerMinute < 0 || s.BurstSize < 0 {
		return &badtl.ConfigError{Field: "RequestsPerMinute", Message: "rate limits must not be negative"}
	}

	switch s.Cache {
	case CacheNone, CacheMemory:
	case CacheRedis:
		if s.RedisURL == "" {
			return &badtl.ConfigError{Field: "RedisURL", Message: "is required for the redis cache"}
		}
	case CacheSQLite:
		if s.SQLitePath == "" {
			return &badtl.ConfigError{Field: "SQLitePath", Message: "is required for the sqlite cache"}
		}
	default:
		return &badtl.ConfigError{Field: "Cache", Message: fmt.Sprintf("unknown cache %q", s.Cache)}
	}

	return nil
}
