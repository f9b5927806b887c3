package main

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/finsight-ai/finsight/internal/config"
	"github.com/finsight-ai/finsight/internal/golden"
)

func TestInit_CreatesProjectFiles(t *testing.T) {
	dir := t.TempDir()

	var out bytes.Buffer
	cmd := newRootCommand()
	cmd.SetOut(&out)
	cmd.SetArgs([]string{"init", dir})
	require.NoError(t, cmd.Execute())

	// Config file parses and carries the defaults.
	cfg, err := config.Load(dir)
	require.NoError(t, err)
	require.Equal(t, config.DefaultEvalSymbol, cfg.Eval.Symbol)
	require.Equal(t, config.DefaultCacheBackend, cfg.Cache.Backend)

	// Starter golden set passes schema validation and covers every tool.
	questions, err := golden.LoadFile(filepath.Join(dir, "golden.json"))
	require.NoError(t, err)
	require.NotEmpty(t, questions)

	tools := map[string]bool{}
	for _, q := range questions {
		tools[q.ExpectedTool] = true
	}
	for _, tool := range []string{"getPrices", "getFinancials", "getNews", "getInsiderTrades"} {
		require.True(t, tools[tool], "starter set should cover %s", tool)
	}

	// Results directory exists.
	info, err := os.Stat(filepath.Join(dir, "results"))
	require.NoError(t, err)
	require.True(t, info.IsDir())

	require.Contains(t, out.String(), "Initialized finsight project")
}

func TestInit_RefusesToClobberExistingConfig(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, ".finsight.yaml"), []byte("eval:\n  symbol: MSFT\n"), 0o644))

	cmd := newRootCommand()
	cmd.SetOut(bytes.NewBuffer(nil))
	cmd.SetErr(bytes.NewBuffer(nil))
	cmd.SetArgs([]string{"init", dir})
	err := cmd.Execute()
	require.ErrorContains(t, err, "already exists")

	// The user's file is untouched.
	data, readErr := os.ReadFile(filepath.Join(dir, ".finsight.yaml"))
	require.NoError(t, readErr)
	require.Contains(t, string(data), "MSFT")
}
