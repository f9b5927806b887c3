package eval

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/klauspost/compress/gzip"
)

// ArtifactName builds the run file name from the mode and timestamp, e.g.
// "eval_fast_2026-08-28T14-03-22Z.json". Colons are avoided for portability.
func ArtifactName(mode Mode, ts time.Time, compressed bool) string {
	name := fmt.Sprintf("eval_%s_%s.json", mode, ts.UTC().Format("2006-01-02T15-04-05Z"))
	if compressed {
		name += ".gz"
	}
	return name
}

// WriteArtifact saves the outcome as indented JSON under dir, optionally
// gzip-compressed, and returns the full path.
func WriteArtifact(outcome *Outcome, dir string, compress bool) (string, error) {
	if dir == "" {
		dir = "."
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("creating output directory: %w", err)
	}

	data, err := json.MarshalIndent(outcome, "", "  ")
	if err != nil {
		return "", fmt.Errorf("marshaling outcome: %w", err)
	}

	path := filepath.Join(dir, ArtifactName(outcome.Mode, outcome.Timestamp, compress))

	if !compress {
		if err := os.WriteFile(path, data, 0o644); err != nil {
			return "", fmt.Errorf("writing outcome: %w", err)
		}
		return path, nil
	}

	f, err := os.Create(path)
	if err != nil {
		return "", fmt.Errorf("creating outcome file: %w", err)
	}
	defer f.Close()

	zw := gzip.NewWriter(f)
	if _, err := zw.Write(data); err != nil {
		return "", fmt.Errorf("compressing outcome: %w", err)
	}
	if err := zw.Close(); err != nil {
		return "", fmt.Errorf("finalizing compressed outcome: %w", err)
	}
	return path, nil
}

// ReadArtifact loads a previously written outcome, transparently handling
// gzip-compressed files.
func ReadArtifact(path string) (*Outcome, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening artifact: %w", err)
	}
	defer f.Close()

	var decoder *json.Decoder
	if filepath.Ext(path) == ".gz" {
		zr, err := gzip.NewReader(f)
		if err != nil {
			return nil, fmt.Errorf("opening compressed artifact: %w", err)
		}
		defer zr.Close()
		decoder = json.NewDecoder(zr)
	} else {
		decoder = json.NewDecoder(f)
	}

	var outcome Outcome
	if err := decoder.Decode(&outcome); err != nil {
		return nil, fmt.Errorf("decoding artifact: %w", err)
	}
	return &outcome, nil
}
