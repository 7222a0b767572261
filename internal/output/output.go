// Package output renders analysis results for the console, JSON consumers,
// and Markdown reports.
package output

import (
	"fmt"
	"io"

	"github.com/dotcommander/codescore/internal/analyzer"
)

// Formatter renders project and batch results to a writer.
type Formatter interface {
	FormatProject(w io.Writer, result *analyzer.ProjectResult) error
	FormatFiles(w io.Writer, results []analyzer.BatchResult) error
}

// New returns the formatter for a format name: console, json, or markdown.
func New(format string, verbose bool) (Formatter, error) {
	switch format {
	case "console":
		return NewConsoleFormatter(verbose), nil
	case "json":
		return NewJSONFormatter(), nil
	case "markdown":
		return NewMarkdownFormatter(), nil
	default:
		return nil, fmt.Errorf("unknown format %q: must be console, json, or markdown", format)
	}
}
