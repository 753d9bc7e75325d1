// Package output writes extraction results to disk as JSON and CSV
// artifacts. Field values pass through verbatim in both formats.
package output

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/use-agent/etfflow/extract"
)

const (
	jsonFilename = "bitcoin_etf_flows.json"
	csvFilename  = "bitcoin_etf_flows.csv"
)

// Writer persists extraction results under a fixed directory, creating
// it on first use.
type Writer struct {
	Dir string
}

// NewWriter creates a Writer targeting dir.
func NewWriter(dir string) *Writer {
	return &Writer{Dir: dir}
}

// WriteJSON writes the records as an indented JSON array and returns the
// written path.
func (w *Writer) WriteJSON(result *extract.Result) (string, error) {
	if err := os.MkdirAll(w.Dir, 0o755); err != nil {
		return "", fmt.Errorf("output: create directory %s: %w", w.Dir, err)
	}

	data, err := json.MarshalIndent(result.Records, "", "    ")
	if err != nil {
		return "", fmt.Errorf("output: marshal records: %w", err)
	}

	path := filepath.Join(w.Dir, jsonFilename)
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return "", fmt.Errorf("output: write %s: %w", path, err)
	}
	return path, nil
}

// WriteCSV writes the records as CSV, header row first, one data row per
// record in extraction order, and returns the written path.
func (w *Writer) WriteCSV(result *extract.Result) (string, error) {
	if err := os.MkdirAll(w.Dir, 0o755); err != nil {
		return "", fmt.Errorf("output: create directory %s: %w", w.Dir, err)
	}

	path := filepath.Join(w.Dir, csvFilename)
	f, err := os.Create(path)
	if err != nil {
		return "", fmt.Errorf("output: create %s: %w", path, err)
	}
	defer f.Close()

	cw := csv.NewWriter(f)
	if err := cw.Write(result.Columns); err != nil {
		return "", fmt.Errorf("output: write CSV header: %w", err)
	}

	row := make([]string, len(result.Columns))
	for _, rec := range result.Records {
		for i, col := range result.Columns {
			row[i] = rec[col]
		}
		if err := cw.Write(row); err != nil {
			return "", fmt.Errorf("output: write CSV row: %w", err)
		}
	}

	cw.Flush()
	if err := cw.Error(); err != nil {
		return "", fmt.Errorf("output: flush CSV: %w", err)
	}
	return path, nil
}

// WriteAll writes both artifacts and returns their paths.
func (w *Writer) WriteAll(result *extract.Result) (jsonPath, csvPath string, err error) {
	if jsonPath, err = w.WriteJSON(result); err != nil {
		return "", "", err
	}
	if csvPath, err = w.WriteCSV(result); err != nil {
		return "", "", err
	}
	return jsonPath, csvPath, nil
}
