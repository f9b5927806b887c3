package main

import (
	"fmt"

	"github.com/redis/go-redis/v9"

	"github.com/finsight-ai/finsight/internal/cache"
	"github.com/finsight-ai/finsight/internal/config"
	"github.com/finsight-ai/finsight/internal/llm"
	"github.com/finsight-ai/finsight/internal/marketdata"
)

// loadConfig resolves .finsight.yaml starting from the working directory.
func loadConfig() (*config.Config, error) {
	cfg, err := config.Load(".")
	if err != nil {
		return nil, fmt.Errorf("loading configuration: %w", err)
	}
	return cfg, nil
}

func newLLMClient(cfg *config.Config) (llm.Client, error) {
	if cfg.LLM.APIKey == "" {
		return nil, fmt.Errorf("LLM API key is not set (export %s)", config.EnvLLMAPIKey)
	}
	return llm.NewOpenAIClient(cfg.LLM.BaseURL, cfg.LLM.APIKey), nil
}

func newMarketClient(cfg *config.Config) (marketdata.Service, error) {
	if cfg.Market.APIKey == "" {
		return nil, fmt.Errorf("market data API key is not set (export %s)", config.EnvMarketAPIKey)
	}
	return marketdata.NewClient(cfg.Market.BaseURL, cfg.Market.APIKey), nil
}

// newCacheStore builds the summary cache for the configured backend.
func newCacheStore(cfg *config.Config) cache.Store {
	if cfg.Cache.Backend == "redis" {
		client := redis.NewClient(&redis.Options{Addr: cfg.Cache.RedisAddr})
		return cache.NewRedisStore(client)
	}
	return cache.NewMemoryStore()
}
