package catalog

import "strings"

// AliasTable answers whether two metric names belong to the same equivalence
// group. Lookups are case-insensitive; equivalence is symmetric and every
// name is equivalent to itself, whether or not it appears in a group.
type AliasTable struct {
	group map[string]int
}

// NewAliasTable builds a table from equivalence groups.
func NewAliasTable(groups [][]string) *AliasTable {
	t := &AliasTable{group: make(map[string]int)}
	for i, g := range groups {
		for _, name := range g {
			t.group[normalizeMetric(name)] = i
		}
	}
	return t
}

// Equivalent reports whether a and b name the same metric.
func (t *AliasTable) Equivalent(a, b string) bool {
	na, nb := normalizeMetric(a), normalizeMetric(b)
	if na == nb {
		return true
	}
	ga, ok := t.group[na]
	if !ok {
		return false
	}
	gb, ok := t.group[nb]
	return ok && ga == gb
}

// Known reports whether the name appears in any equivalence group.
func (t *AliasTable) Known(name string) bool {
	_, ok := t.group[normalizeMetric(name)]
	return ok
}

// Group returns all names equivalent to the given one, including itself.
func (t *AliasTable) Group(name string) []string {
	gi, ok := t.group[normalizeMetric(name)]
	if !ok {
		return []string{normalizeMetric(name)}
	}
	var members []string
	for n, g := range t.group {
		if g == gi {
			members = append(members, n)
		}
	}
	return members
}

func normalizeMetric(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}
