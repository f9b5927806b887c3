package router

import (
	"fmt"
	"strings"
)

// workedExample is one input→output pair rendered into the system prompt.
type workedExample struct {
	question string
	decision string
}

var workedExamples = []workedExample{
	{
		question: "How has the stock performed over the last month?",
		decision: `{"tool": "getPrices", "arguments": {"range": "30d"}}`,
	},
	{
		question: "What was revenue for the last 4 quarters?",
		decision: `{"tool": "getFinancials", "arguments": {"metric": "revenue", "limit": 4}}`,
	},
	{
		question: "Any recent headlines I should know about?",
		decision: `{"tool": "getNews", "arguments": {"limit": 5}}`,
	},
	{
		question: "Have insiders been selling lately?",
		decision: `{"tool": "getInsiderTrades", "arguments": {"limit": 10}}`,
	},
}

// systemPrompt builds the deterministic instruction block: the tool menu from
// the catalog, the output contract, and the worked examples.
func (r *Router) systemPrompt() string {
	var b strings.Builder

	b.WriteString("You route financial questions about a single stock to exactly one data-fetch tool.\n\n")
	b.WriteString(r.catalog.PromptText())
	b.WriteString("\nRespond with a single JSON object and nothing else:\n")
	b.WriteString(`{"tool": "<tool name>", "arguments": {<arguments>}}` + "\n\n")
	b.WriteString("Rules:\n")
	b.WriteString("- Pick exactly one tool from the list above.\n")
	b.WriteString("- Only use the declared argument names.\n")
	b.WriteString("- When the question names a number of items or periods, use it as the limit.\n")
	b.WriteString("- When no count is given, omit the limit so the default applies.\n\n")

	b.WriteString("Examples:\n")
	for _, ex := range workedExamples {
		fmt.Fprintf(&b, "Q: %s\nA: %s\n", ex.question, ex.decision)
	}

	return b.String()
}
