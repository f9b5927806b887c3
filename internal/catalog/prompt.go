package catalog

import (
	"fmt"
	"strings"
)

// PromptText renders the tool menu and argument rules as the instruction
// block the router embeds in its system prompt. The same Catalog drives the
// evaluator, so whatever the model is told here is exactly what gets scored.
func (c *Catalog) PromptText() string {
	var b strings.Builder

	b.WriteString("Available tools:\n\n")
	for _, tool := range c.Tools {
		fmt.Fprintf(&b, "- %s: %s\n", tool.Name, tool.Description)
		for _, arg := range tool.Arguments {
			fmt.Fprintf(&b, "  - %s", arg.Name)
			switch arg.Kind {
			case ArgKindEnum:
				fmt.Fprintf(&b, " (one of: %s)", strings.Join(arg.Values, ", "))
			case ArgKindInt:
				fmt.Fprintf(&b, " (integer %d-%d)", arg.Min, arg.Max)
			case ArgKindMetric:
				b.WriteString(" (a metric name, see synonyms below)")
			}
			if arg.Default != nil {
				fmt.Fprintf(&b, ", default %v", arg.Default)
			}
			if arg.Required {
				b.WriteString(", required")
			}
			b.WriteString("\n")
		}
	}

	if len(c.AliasGroups) > 0 {
		b.WriteString("\nMetric synonyms (interchangeable):\n")
		for _, group := range c.AliasGroups {
			fmt.Fprintf(&b, "- %s\n", strings.Join(group, " = "))
		}
	}

	return b.String()
}
