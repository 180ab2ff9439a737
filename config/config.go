// Copyright 2025 Poiesic Systems
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.


// Package config loads process configuration for the pitchfinder commands.
// It uses koanf to merge an optional YAML file with environment variables.
package config

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"runtime"
	"slices"
	"strconv"
	"strings"
	"time"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
	"github.com/poiesic/pitchfinder/ai"
	"github.com/poiesic/pitchfinder/ranking"
	"github.com/poiesic/pitchfinder/reembed"
	"github.com/poiesic/pitchfinder/websearch"
)

// Config holds every setting the commands need.
type Config struct {
	LogLevel string          `koanf:"log_level"`
	AI       AISettings      `koanf:"ai"`
	Search   SearchSettings  `koanf:"search"`
	Storage  StorageSettings `koanf:"storage"`
	Ranking  RankingSettings `koanf:"ranking"`
	Metrics  MetricsSettings `koanf:"metrics"`
	Reembed  reembed.Config  `koanf:"reembed"`
}

// AISettings configures the OpenAI-compatible embedding and judge models.
type AISettings struct {
	BaseURL        string `koanf:"base_url"`
	APIKey         string `koanf:"api_key"`
	EmbeddingModel string `koanf:"embedding_model"`
	JudgeModel     string `koanf:"judge_model"`
	Dimension      int    `koanf:"dimension"`
}

// SearchSettings configures web discovery and retrieval.
type SearchSettings struct {
	TavilyAPIKey   string        `koanf:"tavily_api_key"`
	TavilyURL      string        `koanf:"tavily_url"`
	MaxResults     int           `koanf:"max_results"`
	Domains        []string      `koanf:"domains"`
	RedisURL       string        `koanf:"redis_url"` // empty disables the hit cache
	CacheTTL       time.Duration `koanf:"cache_ttl"`
	IngestLimit    int           `koanf:"ingest_limit"`
	CandidateLimit int           `koanf:"candidate_limit"`
}

// StorageSettings locates the event database.
type StorageSettings struct {
	Path string `koanf:"path"`
}

// RankingSettings configures scoring.
type RankingSettings struct {
	PoolSize int             `koanf:"pool_size"`
	Weights  ranking.Weights `koanf:"weights"`
}

// MetricsSettings configures the Prometheus endpoint.
type MetricsSettings struct {
	Enabled bool   `koanf:"enabled"`
	Addr    string `koanf:"addr"`
}

// Configuration errors.
var (
	ErrInvalidValue    = errors.New("invalid configuration value")
	ErrInvalidLogLevel = errors.New("invalid log level")
)

// Defaults.
const (
	DefaultBaseURL        = "https://api.openai.com/v1"
	DefaultEmbeddingModel = "text-embedding-3-small"
	DefaultJudgeModel     = "gpt-4o-mini"
	DefaultMaxResults     = 50
	DefaultCacheTTL       = 30 * time.Minute
	DefaultIngestLimit    = 10
	DefaultCandidateLimit = 20
	DefaultDBPath         = "./data/events"
	DefaultLogLevel       = "info"
	DefaultMetricsAddr    = ":9090"
)

// Default returns the configuration used when neither file nor environment
// set a value.
func Default() *Config {
	return &Config{
		LogLevel: DefaultLogLevel,
		AI: AISettings{
			BaseURL:        DefaultBaseURL,
			EmbeddingModel: DefaultEmbeddingModel,
			JudgeModel:     DefaultJudgeModel,
			Dimension:      ai.DefaultDimension,
		},
		Search: SearchSettings{
			TavilyURL:      websearch.DefaultTavilyURL,
			MaxResults:     DefaultMaxResults,
			Domains:        slices.Clone(websearch.DefaultDomains),
			CacheTTL:       DefaultCacheTTL,
			IngestLimit:    DefaultIngestLimit,
			CandidateLimit: DefaultCandidateLimit,
		},
		Storage: StorageSettings{Path: DefaultDBPath},
		Ranking: RankingSettings{
			PoolSize: max(1, runtime.NumCPU()/2),
			Weights:  ranking.DefaultWeights(),
		},
		Metrics: MetricsSettings{Enabled: true, Addr: DefaultMetricsAddr},
		Reembed: *reembed.DefaultConfig(),
	}
}

// Load reads configuration from an optional YAML file and the environment.
// Environment variables take precedence over file values, which take
// precedence over defaults. Returns the config and every problem found
// (empty if valid). A file that cannot be loaded is reported alone.
func Load(configFilePath string) (*Config, []error) {
	k := koanf.New(".")
	cfg := Default()

	if configFilePath != "" {
		if err := k.Load(file.Provider(configFilePath), yaml.Parser()); err != nil {
			return nil, []error{fmt.Errorf("failed to load config file %s: %w", configFilePath, err)}
		}
		if err := k.Unmarshal("", cfg); err != nil {
			return nil, []error{fmt.Errorf("failed to decode config file %s: %w", configFilePath, err)}
		}
	}

	loadErrs := applyEnv(cfg)
	return cfg, append(loadErrs, cfg.Validate()...)
}

// applyEnv overrides cfg with any environment variables that are set.
func applyEnv(cfg *Config) []error {
	var errs []error
	collect := func(err error) {
		if err != nil {
			errs = append(errs, err)
		}
	}

	setString(&cfg.LogLevel, "PITCHFINDER_LOG_LEVEL", "LOG_LEVEL")
	setString(&cfg.AI.BaseURL, "PITCHFINDER_OPENAI_BASE_URL", "OPENAI_BASE_URL")
	setString(&cfg.AI.APIKey, "PITCHFINDER_OPENAI_API_KEY", "OPENAI_API_KEY")
	setString(&cfg.AI.EmbeddingModel, "PITCHFINDER_EMBEDDING_MODEL")
	setString(&cfg.AI.JudgeModel, "PITCHFINDER_JUDGE_MODEL")
	collect(setInt(&cfg.AI.Dimension, "PITCHFINDER_EMBEDDING_DIMENSION"))

	setString(&cfg.Search.TavilyAPIKey, "PITCHFINDER_TAVILY_API_KEY", "TAVILY_API_KEY")
	setString(&cfg.Search.TavilyURL, "PITCHFINDER_TAVILY_URL")
	setString(&cfg.Search.RedisURL, "PITCHFINDER_REDIS_URL", "REDIS_URL")
	collect(setInt(&cfg.Search.MaxResults, "PITCHFINDER_MAX_RESULTS"))
	collect(setDuration(&cfg.Search.CacheTTL, "PITCHFINDER_CACHE_TTL"))

	setString(&cfg.Storage.Path, "PITCHFINDER_DB_PATH")

	collect(setInt(&cfg.Ranking.PoolSize, "PITCHFINDER_RANKING_POOL_SIZE"))

	collect(setBool(&cfg.Metrics.Enabled, "PITCHFINDER_METRICS_ENABLED"))
	setString(&cfg.Metrics.Addr, "PITCHFINDER_METRICS_ADDR")
	return errs
}

// Validate checks every setting and returns all problems found.
func (c *Config) Validate() []error {
	var errs []error
	if _, err := ParseLogLevel(c.LogLevel); err != nil {
		errs = append(errs, err)
	}
	if err := c.AIConfig().Validate(); err != nil {
		errs = append(errs, fmt.Errorf("%w: %w", ErrInvalidValue, err))
	}
	positive := []struct {
		name  string
		value int
	}{
		{"search.max_results", c.Search.MaxResults},
		{"search.ingest_limit", c.Search.IngestLimit},
		{"search.candidate_limit", c.Search.CandidateLimit},
		{"ranking.pool_size", c.Ranking.PoolSize},
		{"reembed.batch_size", c.Reembed.BatchSize},
		{"reembed.max_retries", c.Reembed.MaxRetries},
	}
	for _, p := range positive {
		if p.value < 1 {
			errs = append(errs, fmt.Errorf("%w: %s must be positive, got %d", ErrInvalidValue, p.name, p.value))
		}
	}
	if c.Search.CacheTTL < 0 {
		errs = append(errs, fmt.Errorf("%w: search.cache_ttl must not be negative", ErrInvalidValue))
	}
	if err := c.Ranking.Weights.Validate(); err != nil {
		errs = append(errs, err)
	}
	if c.Storage.Path == "" {
		errs = append(errs, fmt.Errorf("%w: storage.path is required", ErrInvalidValue))
	}
	return errs
}

// AIConfig converts the AI settings for the ai package.
func (c *Config) AIConfig() *ai.Config {
	return ai.NewConfig(
		ai.WithHost(c.AI.BaseURL),
		ai.WithEmbeddingModel(c.AI.EmbeddingModel),
		ai.WithJudgeModel(c.AI.JudgeModel),
		ai.WithAPIKey(c.AI.APIKey),
		ai.WithDimension(c.AI.Dimension),
	)
}

// Level returns the configured log level, info if it cannot be parsed.
func (c *Config) Level() slog.Level {
	level, err := ParseLogLevel(c.LogLevel)
	if err != nil {
		return slog.LevelInfo
	}
	return level
}

// ParseLogLevel parses debug, info, warn or error, case-insensitively.
func ParseLogLevel(s string) (slog.Level, error) {
	var level slog.Level
	if err := level.UnmarshalText([]byte(strings.TrimSpace(s))); err != nil {
		return slog.LevelInfo, fmt.Errorf("%w: %q", ErrInvalidLogLevel, s)
	}
	return level, nil
}

// lookup returns the first non-empty variable among keys.
func lookup(keys ...string) (string, string, bool) {
	for _, key := range keys {
		if val := os.Getenv(key); val != "" {
			return key, val, true
		}
	}
	return "", "", false
}

func setString(dst *string, keys ...string) {
	if _, val, ok := lookup(keys...); ok {
		*dst = val
	}
}

func setInt(dst *int, keys ...string) error {
	key, val, ok := lookup(keys...)
	if !ok {
		return nil
	}
	i, err := strconv.Atoi(val)
	if err != nil {
		return fmt.Errorf("%w: %s must be a valid integer", ErrInvalidValue, key)
	}
	*dst = i
	return nil
}

func setDuration(dst *time.Duration, keys ...string) error {
	key, val, ok := lookup(keys...)
	if !ok {
		return nil
	}
	d, err := time.ParseDuration(val)
	if err != nil {
		return fmt.Errorf("%w: %s must be a valid duration", ErrInvalidValue, key)
	}
	*dst = d
	return nil
}

func setBool(dst *bool, keys ...string) error {
	key, val, ok := lookup(keys...)
	if !ok {
		return nil
	}
	switch strings.ToLower(val) {
	case "true", "1", "yes", "on":
		*dst = true
	case "false", "0", "no", "off":
		*dst = false
	default:
		return fmt.Errorf("%w: %s must be a boolean", ErrInvalidValue, key)
	}
	return nil
}
