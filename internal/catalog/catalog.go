// Package catalog defines the fixed set of data-fetch tools the router may
// choose from, together with the argument rules shared by the prompt builder
// and the evaluator. Keeping both consumers on one rule source prevents the
// prompt text and the scoring logic from drifting apart.
package catalog

import (
	_ "embed"
	"fmt"
	"sort"

	"gopkg.in/yaml.v3"
)

//go:embed rules.yaml
var rulesYAML []byte

// ArgKind identifies the constraint style of a tool argument.
type ArgKind string

const (
	ArgKindEnum   ArgKind = "enum"
	ArgKindInt    ArgKind = "int"
	ArgKindMetric ArgKind = "metric"
)

// Argument declares one named argument and its constraint.
type Argument struct {
	Name        string   `yaml:"name"`
	Kind        ArgKind  `yaml:"kind"`
	Description string   `yaml:"description,omitempty"`
	Values      []string `yaml:"values,omitempty"`
	Min         int      `yaml:"min,omitempty"`
	Max         int      `yaml:"max,omitempty"`
	Default     any      `yaml:"default,omitempty"`
	Required    bool     `yaml:"required,omitempty"`
}

// ToolDefinition is one named data-fetch operation. Immutable after load.
type ToolDefinition struct {
	Name        string     `yaml:"name"`
	Description string     `yaml:"description"`
	Arguments   []Argument `yaml:"arguments"`
}

// Catalog holds the tool definitions plus the shared matching rules.
type Catalog struct {
	Tools          []ToolDefinition `yaml:"tools"`
	AliasGroups    [][]string       `yaml:"metric_aliases"`
	LimitTolerance ToleranceBand    `yaml:"limit_tolerance"`

	byName  map[string]*ToolDefinition
	aliases *AliasTable
}

// ToleranceBand is the inclusive integer range accepted for "limit" arguments
// on golden questions tagged flexible.
type ToleranceBand struct {
	Min int `yaml:"min"`
	Max int `yaml:"max"`
}

// Contains reports whether n falls inside the band.
func (b ToleranceBand) Contains(n int) bool {
	return n >= b.Min && n <= b.Max
}

// Load parses the embedded rule file.
func Load() (*Catalog, error) {
	return Parse(rulesYAML)
}

// Parse builds a Catalog from YAML rule data.
func Parse(data []byte) (*Catalog, error) {
	var c Catalog
	if err := yaml.Unmarshal(data, &c); err != nil {
		return nil, fmt.Errorf("parsing catalog rules: %w", err)
	}

	if len(c.Tools) == 0 {
		return nil, fmt.Errorf("catalog defines no tools")
	}

	c.byName = make(map[string]*ToolDefinition, len(c.Tools))
	for i := range c.Tools {
		t := &c.Tools[i]
		if t.Name == "" {
			return nil, fmt.Errorf("catalog tool %d has no name", i)
		}
		if _, dup := c.byName[t.Name]; dup {
			return nil, fmt.Errorf("duplicate tool name %q", t.Name)
		}
		c.byName[t.Name] = t
	}

	c.aliases = NewAliasTable(c.AliasGroups)
	return &c, nil
}

// Lookup returns the tool definition for name, or false when the name is not
// in the catalog.
func (c *Catalog) Lookup(name string) (*ToolDefinition, bool) {
	t, ok := c.byName[name]
	return t, ok
}

// Names returns all tool names in a stable order.
func (c *Catalog) Names() []string {
	names := make([]string, 0, len(c.byName))
	for name := range c.byName {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Aliases returns the metric equivalence table.
func (c *Catalog) Aliases() *AliasTable {
	return c.aliases
}

// FillDefaults returns a copy of args with the tool's declared defaults
// applied for any missing argument. The input map is never mutated.
func (c *Catalog) FillDefaults(toolName string, args map[string]any) map[string]any {
	filled := make(map[string]any, len(args))
	for k, v := range args {
		filled[k] = v
	}

	tool, ok := c.byName[toolName]
	if !ok {
		return filled
	}

	for _, arg := range tool.Arguments {
		if arg.Default == nil {
			continue
		}
		if _, present := filled[arg.Name]; !present {
			filled[arg.Name] = arg.Default
		}
	}
	return filled
}

// Validate reports constraint violations for the given arguments. Violations
// are advisory: the router deliberately passes out-of-range values through
// uncorrected, so callers log these rather than rejecting the decision.
func (c *Catalog) Validate(toolName string, args map[string]any) []string {
	tool, ok := c.byName[toolName]
	if !ok {
		return []string{fmt.Sprintf("unknown tool %q", toolName)}
	}

	var issues []string
	declared := make(map[string]*Argument, len(tool.Arguments))
	for i := range tool.Arguments {
		declared[tool.Arguments[i].Name] = &tool.Arguments[i]
	}

	for name, value := range args {
		arg, ok := declared[name]
		if !ok {
			issues = append(issues, fmt.Sprintf("%s: undeclared argument %q", toolName, name))
			continue
		}

		switch arg.Kind {
		case ArgKindEnum:
			s, ok := value.(string)
			if !ok || !contains(arg.Values, s) {
				issues = append(issues, fmt.Sprintf("%s.%s: %v is not one of %v", toolName, name, value, arg.Values))
			}
		case ArgKindInt:
			n, ok := asInt(value)
			if !ok {
				issues = append(issues, fmt.Sprintf("%s.%s: %v is not an integer", toolName, name, value))
			} else if n < arg.Min || n > arg.Max {
				issues = append(issues, fmt.Sprintf("%s.%s: %d outside [%d,%d]", toolName, name, n, arg.Min, arg.Max))
			}
		case ArgKindMetric:
			s, ok := value.(string)
			if !ok || !c.aliases.Known(s) {
				issues = append(issues, fmt.Sprintf("%s.%s: unknown metric %v", toolName, name, value))
			}
		}
	}

	for _, arg := range tool.Arguments {
		if arg.Required {
			if _, present := args[arg.Name]; !present {
				issues = append(issues, fmt.Sprintf("%s: missing required argument %q", toolName, arg.Name))
			}
		}
	}

	return issues
}

func contains(values []string, s string) bool {
	for _, v := range values {
		if v == s {
			return true
		}
	}
	return false
}

// asInt accepts the integer shapes JSON decoding produces.
func asInt(v any) (int, bool) {
	switch n := v.(type) {
	case int:
		return n, true
	case int64:
		return int(n), true
	case float64:
		if n == float64(int(n)) {
			return int(n), true
		}
		return 0, false
	default:
		return 0, false
	}
}
