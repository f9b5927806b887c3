// Package reporting renders evaluation outcomes for terminals: a per-question
// table, aggregate accuracy, and a plain-language interpretation.
package reporting

import (
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/mattn/go-runewidth"
	"golang.org/x/term"
	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"github.com/finsight-ai/finsight/internal/eval"
)

// fallbackWidth is used when stdout is not a terminal (pipes, CI).
const fallbackWidth = 100

// printer groups digits in large counts (latency totals, question counts).
var printer = message.NewPrinter(language.English)

// TerminalWidth returns the display width of the terminal behind w, or
// fallbackWidth when w is not a terminal.
func TerminalWidth(w io.Writer) int {
	f, ok := w.(*os.File)
	if !ok {
		return fallbackWidth
	}
	width, _, err := term.GetSize(int(f.Fd()))
	if err != nil || width <= 0 {
		return fallbackWidth
	}
	return width
}

// InterpretAccuracy returns a plain-language label for an accuracy
// percentage (0–100).
func InterpretAccuracy(pct float64) string {
	switch {
	case pct > 90:
		return "Excellent (>90%)"
	case pct >= 70:
		return "Good (70-90%)"
	case pct >= 50:
		return "Needs Work (50-70%)"
	default:
		return "Poor (<50%)"
	}
}

// InterpretQuality returns a plain-language label for a mean judge score
// (1–10).
func InterpretQuality(mean float64) string {
	switch {
	case mean >= 8:
		return "Excellent (8+)"
	case mean >= 6:
		return "Good (6-8)"
	default:
		return "Poor (<6)"
	}
}

// RenderSummary writes the full run report: the per-question table, the
// aggregate block, and the interpretation.
func RenderSummary(w io.Writer, outcome *eval.Outcome) {
	renderTable(w, outcome)
	renderAggregate(w, outcome)
	fmt.Fprint(w, interpretation(outcome)) //nolint:errcheck
}

func renderTable(w io.Writer, outcome *eval.Outcome) {
	const (
		colID      = 10
		colTool    = 18
		colExact   = 6
		colFlex    = 6
		colLatency = 8
	)
	questionWidth := TerminalWidth(w) - colID - colTool - colExact - colFlex - colLatency - 12
	if questionWidth < 20 {
		questionWidth = 20
	}
	totalWidth := colID + questionWidth + colTool + colExact + colFlex + colLatency + 10

	fmt.Fprintf(w, "%s  %s  %s  %s  %s  %s\n", //nolint:errcheck
		padRight("ID", colID),
		padRight("Question", questionWidth),
		padRight("Tool", colTool),
		padRight("Exact", colExact),
		padRight("Flex", colFlex),
		"Latency")
	fmt.Fprintf(w, "%s\n", strings.Repeat("─", totalWidth)) //nolint:errcheck

	for i := range outcome.Results {
		r := &outcome.Results[i]

		toolCell := r.ActualTool
		if toolCell == "" {
			toolCell = "—"
		}
		if r.ToolMatch {
			toolCell = "✅ " + toolCell
		} else {
			toolCell = "❌ " + toolCell
		}

		fmt.Fprintf(w, "%s  %s  %s  %s  %s  %dms\n", //nolint:errcheck
			padRight(r.QuestionID, colID),
			padRight(truncate(r.Question, questionWidth), questionWidth),
			padRight(truncate(toolCell, colTool), colTool),
			padRight(checkmark(r.ExactArgsMatch), colExact),
			padRight(checkmark(r.SemanticArgsMatch), colFlex),
			r.LatencyMs)
		if r.Error != "" {
			fmt.Fprintf(w, "%s  ⚠️  %s\n", //nolint:errcheck
				padRight("", colID), truncate(r.Error, questionWidth+colTool))
		}
	}
	fmt.Fprintf(w, "\n") //nolint:errcheck
}

func renderAggregate(w io.Writer, outcome *eval.Outcome) {
	s := outcome.Summary
	duration := time.Duration(s.DurationMs) * time.Millisecond

	fmt.Fprintf(w, "Run:       %s (%s mode, model %s)\n", outcome.RunID, outcome.Mode, outcome.Model) //nolint:errcheck
	printer.Fprintf(w, "Questions: %d (%d errors)\n", s.Total, s.Errors)                              //nolint:errcheck
	fmt.Fprintf(w, "Tool:      %.1f%%  (%d/%d)\n", s.ToolAccuracy, s.ToolMatches, s.Total)            //nolint:errcheck
	fmt.Fprintf(w, "Exact:     %.1f%%  (%d/%d)\n", s.ExactAccuracy, s.ExactMatches, s.Total)          //nolint:errcheck
	fmt.Fprintf(w, "Semantic:  %.1f%%  (%d/%d)\n", s.SemanticAccuracy, s.SemanticMatches, s.Total)    //nolint:errcheck
	printer.Fprintf(w, "Latency:   %dms avg, %v total\n", s.AvgLatencyMs, duration)                   //nolint:errcheck

	if q := s.Quality; q != nil {
		fmt.Fprintf(w, "\nAnswer quality (%d judged):\n", q.Judged)                           //nolint:errcheck
		fmt.Fprintf(w, "  Accuracy     %.1f\n", q.MeanAccuracy)                               //nolint:errcheck
		fmt.Fprintf(w, "  Completeness %.1f\n", q.MeanCompleteness)                           //nolint:errcheck
		fmt.Fprintf(w, "  Relevance    %.1f\n", q.MeanRelevance)                              //nolint:errcheck
		fmt.Fprintf(w, "  Clarity      %.1f\n", q.MeanClarity)                                //nolint:errcheck
		fmt.Fprintf(w, "  Overall      %.1f", q.MeanOverall)                                  //nolint:errcheck
		if ci := q.BootstrapCI; ci != nil {
			fmt.Fprintf(w, "  (95%% CI %.1f–%.1f)", ci.Lower, ci.Upper) //nolint:errcheck
		}
		fmt.Fprintf(w, "\n  Distribution: %d excellent / %d good / %d poor\n", //nolint:errcheck
			q.Distribution.Excellent, q.Distribution.Good, q.Distribution.Poor)
	}
	fmt.Fprintf(w, "\n") //nolint:errcheck
}

// interpretation produces the plain-language section of the report.
func interpretation(outcome *eval.Outcome) string {
	var b strings.Builder
	s := outcome.Summary

	b.WriteString("=== Interpretation ===\n\n")
	b.WriteString(fmt.Sprintf("Routing:  %.1f%% — %s\n", s.SemanticAccuracy, InterpretAccuracy(s.SemanticAccuracy)))

	if gap := s.SemanticAccuracy - s.ExactAccuracy; gap > 0 {
		b.WriteString(fmt.Sprintf("Aliases:  %.1f%% of questions only pass under flexible matching. The model picks valid synonyms or in-range limits rather than the canonical arguments.\n", gap))
	}
	if s.ToolAccuracy > s.SemanticAccuracy {
		b.WriteString("Args:     Some questions reach the right tool with wrong arguments. Check the worked examples in the routing prompt.\n")
	}
	if s.Errors > 0 {
		b.WriteString(fmt.Sprintf("Errors:   %d question(s) failed to complete. See the per-question table above.\n", s.Errors))
	}
	if q := s.Quality; q != nil {
		b.WriteString(fmt.Sprintf("Quality:  %.1f/10 — %s\n", q.MeanOverall, InterpretQuality(q.MeanOverall)))
	}
	return b.String()
}

func checkmark(ok bool) string {
	if ok {
		return "✅"
	}
	return "❌"
}

// truncate shortens s to maxLen runes, replacing the last rune with "…" if
// needed.
func truncate(s string, maxLen int) string {
	runes := []rune(s)
	if len(runes) <= maxLen {
		return s
	}
	return string(runes[:maxLen-1]) + "…"
}

// padRight pads s with spaces so its terminal display width reaches width.
func padRight(s string, width int) string {
	sw := runewidth.StringWidth(s)
	if sw >= width {
		return s
	}
	return s + strings.Repeat(" ", width-sw)
}
