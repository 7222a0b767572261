package output

import (
	"fmt"
	"io"

	"github.com/dotcommander/codescore/internal/analyzer"
	"github.com/dotcommander/codescore/internal/scoring"
)

// MarkdownFormatter renders report files suitable for CI artifacts.
type MarkdownFormatter struct{}

// NewMarkdownFormatter creates a Markdown formatter.
func NewMarkdownFormatter() *MarkdownFormatter {
	return &MarkdownFormatter{}
}

// FormatProject writes a Markdown project report.
func (f *MarkdownFormatter) FormatProject(w io.Writer, result *analyzer.ProjectResult) error {
	fmt.Fprintf(w, "# Code Score Report\n\n")
	fmt.Fprintf(w, "**Grade: %s** (score %d/100)\n\n", result.Grade, result.OverallScore)

	fmt.Fprintf(w, "## Categories\n\n")
	fmt.Fprintf(w, "| Category | Score |\n|---|---|\n")
	categories := []struct {
		name string
		cat  scoring.CategoryScore
	}{
		{"Structure", result.Structure},
		{"Dependencies", result.Dependencies},
		{"Maintainability", result.Maintainability},
		{"Quality", result.Quality},
		{"Security", result.Security},
	}
	for _, c := range categories {
		fmt.Fprintf(w, "| %s | %d |\n", c.name, c.cat.Score)
	}

	var issues, recs []string
	for _, c := range categories {
		issues = append(issues, c.cat.Issues...)
		recs = append(recs, c.cat.Recommendations...)
	}
	if len(issues) > 0 {
		fmt.Fprintf(w, "\n## Issues\n\n")
		for _, issue := range issues {
			fmt.Fprintf(w, "- %s\n", issue)
		}
	}
	if len(recs) > 0 {
		fmt.Fprintf(w, "\n## Recommendations\n\n")
		for _, rec := range recs {
			fmt.Fprintf(w, "- %s\n", rec)
		}
	}

	m := result.Metrics
	fmt.Fprintf(w, "\n## Metrics\n\n")
	fmt.Fprintf(w, "| Metric | Value |\n|---|---|\n")
	fmt.Fprintf(w, "| Files | %d |\n", m.TotalFiles)
	fmt.Fprintf(w, "| Lines | %d |\n", m.TotalLines)
	fmt.Fprintf(w, "| Functions | %d |\n", m.TotalFunctions)
	fmt.Fprintf(w, "| Classes | %d |\n", m.TotalClasses)
	fmt.Fprintf(w, "| Dependency cycles | %d |\n", m.CycleCount)
	fmt.Fprintf(w, "| Unused files | %d |\n", m.UnusedFiles)
	fmt.Fprintf(w, "| Average complexity | %.2f |\n", m.AverageComplexity)
	fmt.Fprintf(w, "| Average maintainability | %.1f |\n", m.AverageMaintainability)
	return nil
}

// FormatFiles writes a Markdown table of per-file results.
func (f *MarkdownFormatter) FormatFiles(w io.Writer, results []analyzer.BatchResult) error {
	fmt.Fprintf(w, "# File Scores\n\n")
	fmt.Fprintf(w, "| File | Grade | Score | Cyclomatic | Cognitive | Blocked |\n|---|---|---|---|---|---|\n")
	for _, r := range results {
		if r.Err != nil {
			fmt.Fprintf(w, "| %s | — | — | — | — | error: %v |\n", r.Path, r.Err)
			continue
		}
		q := r.Result.Quality
		c := r.Result.Complexity
		blocked := "no"
		if q.ShouldBlock {
			blocked = "**yes**"
		}
		fmt.Fprintf(w, "| %s | %s | %d | %d | %d | %s |\n",
			r.Path, q.Grade, q.EnhancedScore, c.Cyclomatic, c.Cognitive.Value, blocked)
	}
	return nil
}
