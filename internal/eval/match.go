package eval

import (
	"github.com/finsight-ai/finsight/internal/catalog"
	"github.com/finsight-ai/finsight/internal/golden"
)

// Matcher computes the three scoring tiers for a routing decision against a
// golden question. All rules come from the catalog so the router prompt and
// the scorer cannot drift apart.
type Matcher struct {
	cat *catalog.Catalog
}

// NewMatcher creates a Matcher over the given catalog.
func NewMatcher(cat *catalog.Catalog) *Matcher {
	return &Matcher{cat: cat}
}

// MatchResult holds the tier outcomes for one question.
type MatchResult struct {
	ToolMatch         bool
	ExactArgsMatch    bool
	SemanticArgsMatch bool
}

// Match scores the actual (tool, args) pair. Both argument maps get the
// tool's defaults filled before comparison, so an omitted "limit" and the
// tool's default constant are the same thing. Exact equality implies
// semantic equality by construction.
func (m *Matcher) Match(q golden.Question, actualTool string, actualArgs map[string]any) MatchResult {
	var res MatchResult

	if _, known := m.cat.Lookup(actualTool); !known {
		// An unrecognized tool never matches, whatever the golden says.
		return res
	}
	res.ToolMatch = actualTool == q.ExpectedTool
	if !res.ToolMatch {
		return res
	}

	expected := m.cat.FillDefaults(q.ExpectedTool, q.ExpectedArgs)
	actual := m.cat.FillDefaults(actualTool, actualArgs)

	res.ExactArgsMatch = deepEqualArgs(expected, actual)
	if res.ExactArgsMatch {
		res.SemanticArgsMatch = true
		return res
	}

	res.SemanticArgsMatch = m.semanticEqual(q, expected, actual)
	return res
}

// deepEqualArgs compares argument maps with numeric normalization: the
// golden file and the model both arrive through JSON, but defaults come from
// the catalog as Go ints.
func deepEqualArgs(a, b map[string]any) bool {
	if len(a) != len(b) {
		return false
	}
	for k, av := range a {
		bv, ok := b[k]
		if !ok {
			return false
		}
		if !valueEqual(av, bv) {
			return false
		}
	}
	return true
}

func valueEqual(a, b any) bool {
	if an, ok := toFloat(a); ok {
		bn, ok := toFloat(b)
		return ok && an == bn
	}
	return a == b
}

// semanticEqual applies the tolerance rules: metric names through the alias
// table, limit through the strictness policy, everything else exact.
func (m *Matcher) semanticEqual(q golden.Question, expected, actual map[string]any) bool {
	if len(expected) != len(actual) {
		return false
	}

	kinds := m.argKinds(q.ExpectedTool)

	for key, ev := range expected {
		av, ok := actual[key]
		if !ok {
			return false
		}

		switch kinds[key] {
		case catalog.ArgKindMetric:
			es, eok := ev.(string)
			as, aok := av.(string)
			if !eok || !aok || !m.cat.Aliases().Equivalent(es, as) {
				return false
			}
		case catalog.ArgKindInt:
			en, eok := toFloat(ev)
			an, aok := toFloat(av)
			if !eok || !aok {
				return false
			}
			if !m.limitAccepted(q.Strictness, int(en), int(an)) {
				return false
			}
		default:
			if !valueEqual(ev, av) {
				return false
			}
		}
	}
	return true
}

// limitAccepted implements the strictness policy. Flexible questions accept
// any value in the tolerance band; an exact match is always accepted so that
// exact equality stays a subset of semantic equality.
func (m *Matcher) limitAccepted(strictness golden.Strictness, expected, actual int) bool {
	if actual == expected {
		return true
	}
	if strictness == golden.StrictnessStrict {
		return false
	}
	return m.cat.LimitTolerance.Contains(actual)
}

func (m *Matcher) argKinds(toolName string) map[string]catalog.ArgKind {
	kinds := make(map[string]catalog.ArgKind)
	tool, ok := m.cat.Lookup(toolName)
	if !ok {
		return kinds
	}
	for _, arg := range tool.Arguments {
		kinds[arg.Name] = arg.Kind
	}
	return kinds
}

func toFloat(v any) (float64, bool) {
	switch n := v.(type) {
	case int:
		return float64(n), true
	case int64:
		return float64(n), true
	case float64:
		return n, true
	case float32:
		return float64(n), true
	default:
		return 0, false
	}
}
