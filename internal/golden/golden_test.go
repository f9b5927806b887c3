package golden

import (
	"testing"

	"github.com/stretchr/testify/require"
)

const validGolden = `[
  {
    "id": "q-001",
    "question": "How has the stock performed over the last month?",
    "category": "prices",
    "difficulty": "easy",
    "expected_tool": "getPrices",
    "expected_arguments": {"range": "30d"}
  },
  {
    "id": "q-002",
    "question": "What was revenue over the last 4 quarters?",
    "category": "fundamentals",
    "difficulty": "medium",
    "expected_tool": "getFinancials",
    "expected_arguments": {"metric": "revenue", "limit": 4},
    "tags": ["metrics"],
    "strictness": "strict"
  }
]`

func TestParse(t *testing.T) {
	questions, err := Parse([]byte(validGolden))
	require.NoError(t, err)
	require.Len(t, questions, 2)

	require.Equal(t, "q-001", questions[0].ID)
	require.Equal(t, "getPrices", questions[0].ExpectedTool)
	// Strictness defaults to flexible when omitted.
	require.Equal(t, StrictnessFlexible, questions[0].Strictness)
	require.Equal(t, StrictnessStrict, questions[1].Strictness)
}

func TestParse_SchemaViolations(t *testing.T) {
	t.Run("missing expected_tool", func(t *testing.T) {
		_, err := Parse([]byte(`[{"id": "x", "question": "y"}]`))
		require.ErrorContains(t, err, "schema")
	})

	t.Run("unknown field", func(t *testing.T) {
		_, err := Parse([]byte(`[{"id": "x", "question": "y", "expected_tool": "t", "bogus": 1}]`))
		require.ErrorContains(t, err, "schema")
	})

	t.Run("bad strictness", func(t *testing.T) {
		_, err := Parse([]byte(`[{"id": "x", "question": "y", "expected_tool": "t", "strictness": "loose"}]`))
		require.ErrorContains(t, err, "schema")
	})

	t.Run("not json", func(t *testing.T) {
		_, err := Parse([]byte("nope"))
		require.Error(t, err)
	})
}

func TestParse_DuplicateIDs(t *testing.T) {
	_, err := Parse([]byte(`[
	  {"id": "x", "question": "a", "expected_tool": "t"},
	  {"id": "x", "question": "b", "expected_tool": "t"}
	]`))
	require.ErrorContains(t, err, "duplicate golden question id")
}

func TestSlice(t *testing.T) {
	qs := []Question{{ID: "a"}, {ID: "b"}, {ID: "c"}, {ID: "d"}}

	t.Run("limit only", func(t *testing.T) {
		out := Slice(qs, 0, 2)
		require.Len(t, out, 2)
		require.Equal(t, "a", out[0].ID)
	})

	t.Run("start only", func(t *testing.T) {
		out := Slice(qs, 2, 0)
		require.Len(t, out, 2)
		require.Equal(t, "c", out[0].ID)
	})

	t.Run("start and limit", func(t *testing.T) {
		out := Slice(qs, 1, 2)
		require.Equal(t, []string{"b", "c"}, []string{out[0].ID, out[1].ID})
	})

	t.Run("start past end", func(t *testing.T) {
		require.Empty(t, Slice(qs, 10, 2))
	})

	t.Run("no bounds", func(t *testing.T) {
		require.Len(t, Slice(qs, 0, 0), 4)
	})
}
