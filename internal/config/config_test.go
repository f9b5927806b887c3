package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, dir, content string) {
	t.Helper()
	require.NoError(t, os.WriteFile(filepath.Join(dir, ".finsight.yaml"), []byte(content), 0o644))
}

func TestNew_ReturnsAllDefaults(t *testing.T) {
	cfg := New()

	require.Equal(t, "https://api.openai.com/v1", cfg.LLM.BaseURL)
	require.Equal(t, "gpt-4o-mini", cfg.LLM.RouterModel)
	require.Equal(t, "gpt-4o", cfg.LLM.AnswerModel)
	require.Equal(t, "gpt-4o", cfg.LLM.JudgeModel)
	require.Empty(t, cfg.LLM.APIKey)

	require.Equal(t, "https://api.financialdatasets.ai", cfg.Market.BaseURL)

	require.Equal(t, "AAPL", cfg.Eval.Symbol)
	require.Equal(t, 500, cfg.Eval.DelayMs)
	require.Equal(t, "results/", cfg.Eval.OutputDir)
	require.Equal(t, "golden.json", cfg.Eval.GoldenFile)
	require.NotNil(t, cfg.Eval.Compress)
	require.False(t, *cfg.Eval.Compress)

	require.Equal(t, "memory", cfg.Cache.Backend)
	require.Equal(t, 300, cfg.Cache.TTLSecs)
	require.Equal(t, "localhost:6379", cfg.Cache.RedisAddr)

	require.Equal(t, "finsight.db", cfg.Storage.Path)
	require.Equal(t, 3000, cfg.Server.Port)
}

func TestLoad_FullConfig(t *testing.T) {
	dir := t.TempDir()
	writeConfig(t, dir, `
llm:
  base_url: http://localhost:11434/v1
  router_model: llama3
  answer_model: llama3:70b
  judge_model: llama3:70b
market:
  base_url: http://localhost:9000
eval:
  symbol: MSFT
  delay_ms: 100
  output_dir: out/
  golden_file: questions.json
  compress: true
cache:
  backend: redis
  ttl_secs: 60
  redis_addr: redis:6379
storage:
  path: runs.db
server:
  port: 8080
`)

	cfg, err := Load(dir)
	require.NoError(t, err)

	require.Equal(t, "http://localhost:11434/v1", cfg.LLM.BaseURL)
	require.Equal(t, "llama3", cfg.LLM.RouterModel)
	require.Equal(t, "llama3:70b", cfg.LLM.AnswerModel)
	require.Equal(t, "http://localhost:9000", cfg.Market.BaseURL)
	require.Equal(t, "MSFT", cfg.Eval.Symbol)
	require.Equal(t, 100, cfg.Eval.DelayMs)
	require.Equal(t, "out/", cfg.Eval.OutputDir)
	require.Equal(t, "questions.json", cfg.Eval.GoldenFile)
	require.True(t, *cfg.Eval.Compress)
	require.Equal(t, "redis", cfg.Cache.Backend)
	require.Equal(t, 60, cfg.Cache.TTLSecs)
	require.Equal(t, "redis:6379", cfg.Cache.RedisAddr)
	require.Equal(t, "runs.db", cfg.Storage.Path)
	require.Equal(t, 8080, cfg.Server.Port)
}

func TestLoad_PartialConfigKeepsDefaults(t *testing.T) {
	dir := t.TempDir()
	writeConfig(t, dir, `
eval:
  symbol: NVDA
`)

	cfg, err := Load(dir)
	require.NoError(t, err)
	require.Equal(t, "NVDA", cfg.Eval.Symbol)
	require.Equal(t, 500, cfg.Eval.DelayMs)
	require.Equal(t, "memory", cfg.Cache.Backend)
}

func TestLoad_MissingFileReturnsDefaults(t *testing.T) {
	cfg, err := Load(t.TempDir())
	require.NoError(t, err)
	require.Equal(t, "AAPL", cfg.Eval.Symbol)
}

func TestLoad_WalksUpToFindConfig(t *testing.T) {
	root := t.TempDir()
	writeConfig(t, root, "eval:\n  symbol: TSLA\n")
	nested := filepath.Join(root, "a", "b", "c")
	require.NoError(t, os.MkdirAll(nested, 0o755))

	cfg, err := Load(nested)
	require.NoError(t, err)
	require.Equal(t, "TSLA", cfg.Eval.Symbol)
}

func TestLoad_InvalidYAML(t *testing.T) {
	dir := t.TempDir()
	writeConfig(t, dir, "llm: [not a mapping")

	_, err := Load(dir)
	require.Error(t, err)
}

func TestLoad_InvalidCacheBackend(t *testing.T) {
	dir := t.TempDir()
	writeConfig(t, dir, "cache:\n  backend: memcached\n")

	_, err := Load(dir)
	require.ErrorContains(t, err, "invalid cache backend")
}

func TestLoad_EnvOverrides(t *testing.T) {
	t.Setenv(EnvLLMAPIKey, "sk-test")
	t.Setenv(EnvLLMBaseURL, "http://env-llm/v1")
	t.Setenv(EnvMarketAPIKey, "md-test")

	dir := t.TempDir()
	writeConfig(t, dir, "llm:\n  base_url: http://file-llm/v1\n")

	cfg, err := Load(dir)
	require.NoError(t, err)
	require.Equal(t, "sk-test", cfg.LLM.APIKey)
	require.Equal(t, "md-test", cfg.Market.APIKey)
	// Environment wins over the file for the base URL.
	require.Equal(t, "http://env-llm/v1", cfg.LLM.BaseURL)
}
