package reporting

import (
	"fmt"
	"io"
	"strings"

	"github.com/finsight-ai/finsight/internal/storage"
)

// RenderRuns writes a run-history table, newest first.
func RenderRuns(w io.Writer, runs []storage.RunRecord) {
	if len(runs) == 0 {
		fmt.Fprintln(w, "No evaluation runs recorded yet.") //nolint:errcheck
		return
	}

	const (
		colID       = 38
		colMode     = 6
		colWhen     = 17
		colAccuracy = 10
		colQuality  = 9
	)
	totalWidth := colID + colMode + colWhen + colAccuracy + colQuality + 16

	fmt.Fprintf(w, "%s  %s  %s  %s  %s  %s\n", //nolint:errcheck
		padRight("Run", colID),
		padRight("Mode", colMode),
		padRight("When", colWhen),
		padRight("Semantic", colAccuracy),
		padRight("Quality", colQuality),
		"Artifact")
	fmt.Fprintf(w, "%s\n", strings.Repeat("─", totalWidth)) //nolint:errcheck

	for _, r := range runs {
		quality := "—"
		if r.Judged {
			quality = fmt.Sprintf("%.1f/10", r.MeanQuality)
		}
		fmt.Fprintf(w, "%s  %s  %s  %s  %s  %s\n", //nolint:errcheck
			padRight(r.RunID, colID),
			padRight(r.Mode, colMode),
			padRight(r.Timestamp.Format("2006-01-02 15:04"), colWhen),
			padRight(fmt.Sprintf("%.1f%%", r.SemanticAccuracy), colAccuracy),
			padRight(quality, colQuality),
			r.ArtifactPath)
	}
}
