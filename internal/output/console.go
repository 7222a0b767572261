package output

import (
	"fmt"
	"io"

	"github.com/charmbracelet/lipgloss"

	"github.com/dotcommander/codescore/internal/analyzer"
	"github.com/dotcommander/codescore/internal/scoring"
)

var (
	gradeStyles = map[string]lipgloss.Style{
		"A": lipgloss.NewStyle().Foreground(lipgloss.Color("10")).Bold(true), // green
		"B": lipgloss.NewStyle().Foreground(lipgloss.Color("10")),
		"C": lipgloss.NewStyle().Foreground(lipgloss.Color("11")), // yellow
		"D": lipgloss.NewStyle().Foreground(lipgloss.Color("208")),
		"F": lipgloss.NewStyle().Foreground(lipgloss.Color("9")).Bold(true), // red
	}
	headerStyle  = lipgloss.NewStyle().Bold(true)
	dimStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("7"))
	issueStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("9"))
	blockedStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("9")).Bold(true)
)

// ConsoleFormatter renders human-readable styled output.
type ConsoleFormatter struct {
	verbose bool
}

// NewConsoleFormatter creates a console formatter.
func NewConsoleFormatter(verbose bool) *ConsoleFormatter {
	return &ConsoleFormatter{verbose: verbose}
}

func gradeBadge(grade string) string {
	style, ok := gradeStyles[grade]
	if !ok {
		return grade
	}
	return style.Render(grade)
}

// FormatProject renders the project summary: grade, category breakdown,
// issues, and recommendations.
func (f *ConsoleFormatter) FormatProject(w io.Writer, result *analyzer.ProjectResult) error {
	fmt.Fprintf(w, "%s %s  (score %d)\n\n",
		headerStyle.Render("Project grade:"), gradeBadge(result.Grade), result.OverallScore)

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
		fmt.Fprintf(w, "  %-16s %3d\n", c.name, c.cat.Score)
		if f.verbose {
			for _, d := range c.cat.Details {
				fmt.Fprintf(w, "    %s\n", dimStyle.Render(fmt.Sprintf("%-20s %3d", d.Name, d.Score)))
			}
		}
	}

	var issues, recs []string
	for _, c := range categories {
		issues = append(issues, c.cat.Issues...)
		recs = append(recs, c.cat.Recommendations...)
	}

	if len(issues) > 0 {
		fmt.Fprintf(w, "\n%s\n", headerStyle.Render("Issues"))
		for _, issue := range issues {
			fmt.Fprintf(w, "  %s %s\n", issueStyle.Render("✗"), issue)
		}
	}
	if len(recs) > 0 {
		fmt.Fprintf(w, "\n%s\n", headerStyle.Render("Recommendations"))
		for _, rec := range recs {
			fmt.Fprintf(w, "  • %s\n", rec)
		}
	}

	m := result.Metrics
	fmt.Fprintf(w, "\n%s %d files, %d lines, %d functions, %d cycles\n",
		dimStyle.Render("Totals:"), m.TotalFiles, m.TotalLines, m.TotalFunctions, m.CycleCount)
	return nil
}

// FormatFiles renders per-file batch results, one line per file plus
// detail for blocked or failed files.
func (f *ConsoleFormatter) FormatFiles(w io.Writer, results []analyzer.BatchResult) error {
	for _, r := range results {
		if r.Err != nil {
			fmt.Fprintf(w, "%s %s: %v\n", issueStyle.Render("✗"), r.Path, r.Err)
			continue
		}

		q := r.Result.Quality
		status := gradeBadge(q.Grade)
		fmt.Fprintf(w, "%s %s  score %d", status, r.Path, q.EnhancedScore)
		if q.ShouldBlock {
			fmt.Fprintf(w, "  %s", blockedStyle.Render("BLOCKED"))
		}
		fmt.Fprintln(w)

		if q.ShouldBlock {
			for _, reason := range q.BlockReasons {
				fmt.Fprintf(w, "    %s\n", issueStyle.Render(reason))
			}
		}
		if f.verbose {
			c := r.Result.Complexity
			fmt.Fprintf(w, "    %s\n", dimStyle.Render(fmt.Sprintf(
				"cyclomatic %d  cognitive %d  nesting %d  maintainability %.0f",
				c.Cyclomatic, c.Cognitive.Value, c.Nesting.Max, c.Maintainability.Index)))
		}
	}
	return nil
}
