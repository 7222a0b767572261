package output

import (
	"bytes"
	"encoding/json"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dotcommander/codescore/internal/analyzer"
	"github.com/dotcommander/codescore/internal/metrics"
	"github.com/dotcommander/codescore/internal/scoring"
)

func sampleProject() *analyzer.ProjectResult {
	return &analyzer.ProjectResult{
		Structure:       scoring.CategoryScore{Score: 90},
		Dependencies:    scoring.CategoryScore{Score: 80, Issues: []string{"circular dependency: a.js -> b.js -> a.js"}},
		Maintainability: scoring.CategoryScore{Score: 75},
		Quality:         scoring.CategoryScore{Score: 85, Recommendations: []string{"reduce nesting in handlers"}},
		Security:        scoring.CategoryScore{Score: 100},
		Metrics: analyzer.ProjectMetrics{
			TotalFiles:     3,
			TotalLines:     120,
			TotalFunctions: 7,
			CycleCount:     1,
		},
		OverallScore: 85,
		Grade:        "B",
	}
}

func sampleBatch() []analyzer.BatchResult {
	good := &analyzer.FileResult{
		Path:       "src/ok.js",
		Language:   "javascript",
		Complexity: &metrics.Report{Cyclomatic: 3},
		Quality:    scoring.FileQualityScore{Score: 88, EnhancedScore: 91, Grade: "A"},
	}
	blocked := &analyzer.FileResult{
		Path:       "src/bad.js",
		Language:   "javascript",
		Complexity: &metrics.Report{Cyclomatic: 14},
		Quality: scoring.FileQualityScore{
			Score:         60,
			EnhancedScore: 55,
			Grade:         "C",
			ShouldBlock:   true,
			BlockReasons:  []string{"security score 40 below minimum 80"},
		},
	}
	return []analyzer.BatchResult{
		{Path: "src/ok.js", Result: good},
		{Path: "src/bad.js", Result: blocked},
		{Path: "src/gone.js", Err: errors.New("cannot read src/gone.js")},
	}
}

func TestNewDispatch(t *testing.T) {
	for format, want := range map[string]any{
		"console":  &ConsoleFormatter{},
		"json":     &JSONFormatter{},
		"markdown": &MarkdownFormatter{},
	} {
		f, err := New(format, false)
		require.NoError(t, err)
		assert.IsType(t, want, f)
	}

	_, err := New("xml", false)
	assert.Error(t, err)
}

func TestConsoleFormatProject(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, NewConsoleFormatter(false).FormatProject(&buf, sampleProject()))

	out := buf.String()
	assert.Contains(t, out, "score 85")
	assert.Contains(t, out, "Dependencies")
	assert.Contains(t, out, "circular dependency: a.js -> b.js -> a.js")
	assert.Contains(t, out, "reduce nesting in handlers")
	assert.Contains(t, out, "3 files")
}

func TestConsoleFormatFiles(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, NewConsoleFormatter(true).FormatFiles(&buf, sampleBatch()))

	out := buf.String()
	assert.Contains(t, out, "src/ok.js")
	assert.Contains(t, out, "score 91")
	assert.Contains(t, out, "BLOCKED")
	assert.Contains(t, out, "security score 40 below minimum 80")
	assert.Contains(t, out, "cannot read src/gone.js")
	assert.Contains(t, out, "cyclomatic 3")
}

func TestJSONFormatProject(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, NewJSONFormatter().FormatProject(&buf, sampleProject()))

	var decoded map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &decoded))
	assert.Equal(t, float64(85), decoded["overall_score"])
	assert.Equal(t, "B", decoded["grade"])
}

func TestJSONFormatFiles(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, NewJSONFormatter().FormatFiles(&buf, sampleBatch()))

	var decoded []map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &decoded))
	require.Len(t, decoded, 3)
	assert.Equal(t, "src/ok.js", decoded[0]["path"])
	assert.NotContains(t, decoded[0], "error")
	assert.Equal(t, "cannot read src/gone.js", decoded[2]["error"])
	assert.NotContains(t, decoded[2], "result")
}

func TestMarkdownFormatProject(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, NewMarkdownFormatter().FormatProject(&buf, sampleProject()))

	out := buf.String()
	assert.Contains(t, out, "# Code Score Report")
	assert.Contains(t, out, "**Grade: B**")
	assert.Contains(t, out, "| Dependencies | 80 |")
	assert.Contains(t, out, "| Dependency cycles | 1 |")
}

func TestMarkdownFormatFiles(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, NewMarkdownFormatter().FormatFiles(&buf, sampleBatch()))

	out := buf.String()
	assert.Contains(t, out, "| src/ok.js | A | 91 | 3 |")
	assert.Contains(t, out, "**yes**")
	assert.Contains(t, out, "error: cannot read src/gone.js")
}
