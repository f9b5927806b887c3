package catalog

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestLoad(t *testing.T) {
	c, err := Load()
	require.NoError(t, err)

	require.Equal(t, []string{"getFinancials", "getInsiderTrades", "getNews", "getPrices"}, c.Names())

	tool, ok := c.Lookup("getPrices")
	require.True(t, ok)
	require.Equal(t, "getPrices", tool.Name)
	require.Len(t, tool.Arguments, 1)
	require.Equal(t, ArgKindEnum, tool.Arguments[0].Kind)

	_, ok = c.Lookup("getWeather")
	require.False(t, ok)
}

func TestParse_Errors(t *testing.T) {
	t.Run("no tools", func(t *testing.T) {
		_, err := Parse([]byte("tools: []"))
		require.ErrorContains(t, err, "no tools")
	})

	t.Run("duplicate name", func(t *testing.T) {
		_, err := Parse([]byte(`
tools:
  - name: getPrices
  - name: getPrices
`))
		require.ErrorContains(t, err, "duplicate tool name")
	})
}

func TestFillDefaults(t *testing.T) {
	c, err := Load()
	require.NoError(t, err)

	t.Run("missing limit gets tool default", func(t *testing.T) {
		filled := c.FillDefaults("getFinancials", map[string]any{"metric": "revenue"})
		require.Equal(t, map[string]any{"metric": "revenue", "limit": 4}, filled)
	})

	t.Run("explicit value wins", func(t *testing.T) {
		filled := c.FillDefaults("getNews", map[string]any{"limit": 3})
		require.Equal(t, map[string]any{"limit": 3}, filled)
	})

	t.Run("input map is not mutated", func(t *testing.T) {
		args := map[string]any{}
		_ = c.FillDefaults("getInsiderTrades", args)
		require.Empty(t, args)
	})

	t.Run("unknown tool returns copy unchanged", func(t *testing.T) {
		filled := c.FillDefaults("nope", map[string]any{"a": 1})
		require.Equal(t, map[string]any{"a": 1}, filled)
	})
}

func TestValidate(t *testing.T) {
	c, err := Load()
	require.NoError(t, err)

	t.Run("valid arguments", func(t *testing.T) {
		issues := c.Validate("getFinancials", map[string]any{"metric": "revenue", "limit": 4})
		require.Empty(t, issues)
	})

	t.Run("out of range limit is reported, not rejected", func(t *testing.T) {
		issues := c.Validate("getNews", map[string]any{"limit": 500})
		require.Len(t, issues, 1)
		require.Contains(t, issues[0], "outside [1,50]")
	})

	t.Run("bad enum value", func(t *testing.T) {
		issues := c.Validate("getPrices", map[string]any{"range": "2w"})
		require.Len(t, issues, 1)
	})

	t.Run("json numbers are accepted as ints", func(t *testing.T) {
		issues := c.Validate("getNews", map[string]any{"limit": float64(5)})
		require.Empty(t, issues)
	})

	t.Run("missing required metric", func(t *testing.T) {
		issues := c.Validate("getFinancials", map[string]any{"limit": 4})
		require.Len(t, issues, 1)
		require.Contains(t, issues[0], "missing required argument")
	})

	t.Run("unknown tool", func(t *testing.T) {
		issues := c.Validate("getWeather", nil)
		require.Len(t, issues, 1)
	})
}

func TestAliasTable(t *testing.T) {
	table := NewAliasTable([][]string{
		{"revenue", "sales", "total_revenue"},
		{"eps", "earnings_per_share"},
	})

	t.Run("symmetric", func(t *testing.T) {
		require.True(t, table.Equivalent("revenue", "sales"))
		require.True(t, table.Equivalent("sales", "revenue"))
	})

	t.Run("reflexive even for unknown names", func(t *testing.T) {
		require.True(t, table.Equivalent("revenue", "revenue"))
		require.True(t, table.Equivalent("bogus", "bogus"))
	})

	t.Run("cross-group is not equivalent", func(t *testing.T) {
		require.False(t, table.Equivalent("revenue", "eps"))
	})

	t.Run("case-insensitive", func(t *testing.T) {
		require.True(t, table.Equivalent("Revenue", "SALES"))
	})

	t.Run("known", func(t *testing.T) {
		require.True(t, table.Known("total_revenue"))
		require.False(t, table.Known("bogus"))
	})
}

func TestPromptText(t *testing.T) {
	c, err := Load()
	require.NoError(t, err)

	text := c.PromptText()
	for _, name := range c.Names() {
		require.Contains(t, text, name)
	}
	require.Contains(t, text, "revenue = sales = total_revenue")
	require.Contains(t, text, "one of: 7d, 30d, 90d, 1y, 5y")
}
