package output

import (
	"encoding/json"
	"io"

	"github.com/dotcommander/codescore/internal/analyzer"
)

// JSONFormatter renders machine-readable output.
type JSONFormatter struct{}

// NewJSONFormatter creates a JSON formatter.
func NewJSONFormatter() *JSONFormatter {
	return &JSONFormatter{}
}

// FormatProject writes the project result as indented JSON.
func (f *JSONFormatter) FormatProject(w io.Writer, result *analyzer.ProjectResult) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(result)
}

// fileEntry is the JSON shape for one batch slot; errors serialize as
// strings so a partial batch stays representable.
type fileEntry struct {
	Path   string               `json:"path"`
	Result *analyzer.FileResult `json:"result,omitempty"`
	Error  string               `json:"error,omitempty"`
}

// FormatFiles writes batch results as an indented JSON array.
func (f *JSONFormatter) FormatFiles(w io.Writer, results []analyzer.BatchResult) error {
	entries := make([]fileEntry, 0, len(results))
	for _, r := range results {
		entry := fileEntry{Path: r.Path, Result: r.Result}
		if r.Err != nil {
			entry.Error = r.Err.Error()
		}
		entries = append(entries, entry)
	}

	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(entries)
}
