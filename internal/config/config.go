// Package config provides the Config struct and loader for .finsight.yaml
// configuration files.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// Default values for configuration. These are the single source of truth —
// New() references them and no other code should duplicate them.
const (
	DefaultLLMBaseURL  = "https://api.openai.com/v1"
	DefaultRouterModel = "gpt-4o-mini"
	DefaultAnswerModel = "gpt-4o"
	DefaultJudgeModel  = "gpt-4o"

	DefaultMarketBaseURL = "https://api.financialdatasets.ai"

	DefaultEvalSymbol   = "AAPL"
	DefaultEvalDelayMs  = 500
	DefaultEvalOutDir   = "results/"
	DefaultEvalGolden   = "golden.json"

	DefaultCacheBackend = "memory"
	DefaultCacheTTLSecs = 300
	DefaultRedisAddr    = "localhost:6379"

	DefaultDatabasePath = "finsight.db"

	DefaultServerPort = 3000
)

// Environment variables consulted for secrets. API keys never live in the
// YAML file.
const (
	EnvLLMAPIKey    = "FINSIGHT_LLM_API_KEY"
	EnvLLMBaseURL   = "FINSIGHT_LLM_BASE_URL"
	EnvMarketAPIKey = "FINSIGHT_MARKET_API_KEY"
)

// LLMConfig holds model and endpoint settings for the language model.
type LLMConfig struct {
	BaseURL     string `yaml:"base_url,omitempty"`
	RouterModel string `yaml:"router_model,omitempty"`
	AnswerModel string `yaml:"answer_model,omitempty"`
	JudgeModel  string `yaml:"judge_model,omitempty"`
	APIKey      string `yaml:"-"`
}

// MarketConfig holds market-data API settings.
type MarketConfig struct {
	BaseURL string `yaml:"base_url,omitempty"`
	APIKey  string `yaml:"-"`
}

// EvalConfig holds evaluation run settings.
type EvalConfig struct {
	Symbol     string `yaml:"symbol,omitempty"`
	DelayMs    int    `yaml:"delay_ms,omitempty"`
	OutputDir  string `yaml:"output_dir,omitempty"`
	GoldenFile string `yaml:"golden_file,omitempty"`
	Compress   *bool  `yaml:"compress,omitempty"`
}

// CacheConfig holds answer-cache settings.
type CacheConfig struct {
	Backend   string `yaml:"backend,omitempty"` // memory or redis
	TTLSecs   int    `yaml:"ttl_secs,omitempty"`
	RedisAddr string `yaml:"redis_addr,omitempty"`
}

// StorageConfig holds run-history database settings.
type StorageConfig struct {
	Path string `yaml:"path,omitempty"`
}

// ServerConfig holds dashboard server settings.
type ServerConfig struct {
	Port int `yaml:"port,omitempty"`
}

// Config is the top-level configuration loaded from .finsight.yaml.
type Config struct {
	LLM     LLMConfig     `yaml:"llm,omitempty"`
	Market  MarketConfig  `yaml:"market,omitempty"`
	Eval    EvalConfig    `yaml:"eval,omitempty"`
	Cache   CacheConfig   `yaml:"cache,omitempty"`
	Storage StorageConfig `yaml:"storage,omitempty"`
	Server  ServerConfig  `yaml:"server,omitempty"`
}

// New returns a Config with all hard-coded defaults populated.
func New() *Config {
	return &Config{
		LLM: LLMConfig{
			BaseURL:     DefaultLLMBaseURL,
			RouterModel: DefaultRouterModel,
			AnswerModel: DefaultAnswerModel,
			JudgeModel:  DefaultJudgeModel,
		},
		Market: MarketConfig{
			BaseURL: DefaultMarketBaseURL,
		},
		Eval: EvalConfig{
			Symbol:     DefaultEvalSymbol,
			DelayMs:    DefaultEvalDelayMs,
			OutputDir:  DefaultEvalOutDir,
			GoldenFile: DefaultEvalGolden,
			Compress:   boolPtr(false),
		},
		Cache: CacheConfig{
			Backend:   DefaultCacheBackend,
			TTLSecs:   DefaultCacheTTLSecs,
			RedisAddr: DefaultRedisAddr,
		},
		Storage: StorageConfig{
			Path: DefaultDatabasePath,
		},
		Server: ServerConfig{
			Port: DefaultServerPort,
		},
	}
}

// Load finds .finsight.yaml by walking up from startDir (max 10 levels),
// unmarshals it, fills in missing fields with defaults, and applies
// environment overrides for secrets.
// If no config file is found, returns defaults with a nil error.
// Real I/O errors (e.g. permission denied) are returned to the caller.
func Load(startDir string) (*Config, error) {
	cfg := New()

	data, err := findConfigFile(startDir)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			applyEnv(cfg)
			return cfg, nil // no file found → return defaults
		}
		return nil, fmt.Errorf("loading .finsight.yaml: %w", err)
	}

	var fileCfg Config
	if err := yaml.Unmarshal(data, &fileCfg); err != nil {
		return nil, fmt.Errorf("parsing .finsight.yaml: %w", err)
	}

	// Merge file values onto defaults, then let the environment win.
	mergeConfig(cfg, &fileCfg)
	applyEnv(cfg)

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) validate() error {
	switch c.Cache.Backend {
	case "memory", "redis":
	default:
		return fmt.Errorf("invalid cache backend %q (expected memory or redis)", c.Cache.Backend)
	}
	return nil
}

// findConfigFile walks up from dir looking for .finsight.yaml (max 10
// levels). Returns os.ErrNotExist if no config file is found. Propagates
// real I/O errors (e.g. permission denied) instead of silently swallowing
// them.
func findConfigFile(dir string) ([]byte, error) {
	// Convert to absolute path so filepath.Dir(".") walks correctly.
	absDir, err := filepath.Abs(dir)
	if err != nil {
		return nil, fmt.Errorf("resolving path %q: %w", dir, err)
	}
	dir = absDir

	for i := 0; i < 10; i++ {
		p := filepath.Join(dir, ".finsight.yaml")
		data, err := os.ReadFile(p)
		if err == nil {
			return data, nil
		}
		if !errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("reading %q: %w", p, err)
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			break // reached filesystem root
		}
		dir = parent
	}
	return nil, os.ErrNotExist
}

// applyEnv overlays secret values from the environment.
func applyEnv(cfg *Config) {
	if v := os.Getenv(EnvLLMAPIKey); v != "" {
		cfg.LLM.APIKey = v
	}
	if v := os.Getenv(EnvLLMBaseURL); v != "" {
		cfg.LLM.BaseURL = v
	}
	if v := os.Getenv(EnvMarketAPIKey); v != "" {
		cfg.Market.APIKey = v
	}
}

// mergeConfig overlays non-zero values from src onto dst.
func mergeConfig(dst, src *Config) {
	// LLM
	if src.LLM.BaseURL != "" {
		dst.LLM.BaseURL = src.LLM.BaseURL
	}
	if src.LLM.RouterModel != "" {
		dst.LLM.RouterModel = src.LLM.RouterModel
	}
	if src.LLM.AnswerModel != "" {
		dst.LLM.AnswerModel = src.LLM.AnswerModel
	}
	if src.LLM.JudgeModel != "" {
		dst.LLM.JudgeModel = src.LLM.JudgeModel
	}

	// Market
	if src.Market.BaseURL != "" {
		dst.Market.BaseURL = src.Market.BaseURL
	}

	// Eval
	if src.Eval.Symbol != "" {
		dst.Eval.Symbol = src.Eval.Symbol
	}
	if src.Eval.DelayMs != 0 {
		dst.Eval.DelayMs = src.Eval.DelayMs
	}
	if src.Eval.OutputDir != "" {
		dst.Eval.OutputDir = src.Eval.OutputDir
	}
	if src.Eval.GoldenFile != "" {
		dst.Eval.GoldenFile = src.Eval.GoldenFile
	}
	if src.Eval.Compress != nil {
		dst.Eval.Compress = src.Eval.Compress
	}

	// Cache
	if src.Cache.Backend != "" {
		dst.Cache.Backend = src.Cache.Backend
	}
	if src.Cache.TTLSecs != 0 {
		dst.Cache.TTLSecs = src.Cache.TTLSecs
	}
	if src.Cache.RedisAddr != "" {
		dst.Cache.RedisAddr = src.Cache.RedisAddr
	}

	// Storage
	if src.Storage.Path != "" {
		dst.Storage.Path = src.Storage.Path
	}

	// Server
	if src.Server.Port != 0 {
		dst.Server.Port = src.Server.Port
	}
}

func boolPtr(b bool) *bool {
	return &b
}
