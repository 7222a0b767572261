package analyzer

import (
	"regexp"
	"strings"
)

// BasicStats holds the lexical structure counts for one file. Boundaries
// are pattern-matched, not parsed; an accepted approximation.
type BasicStats struct {
	TotalLines    int     `json:"total_lines"`
	NonBlankLines int     `json:"non_blank_lines"`
	CommentLines  int     `json:"comment_lines"`
	CodeLines     int     `json:"code_lines"`
	Functions     int     `json:"functions"`
	Classes       int     `json:"classes"`
	MaxLineLength int     `json:"max_line_length"`
	AvgLineLength float64 `json:"avg_line_length"`
}

var (
	functionPattern = regexp.MustCompile(`\bfunction\b|\bfunc\s+\w|\bdef\s+\w|=>`)
	classPattern    = regexp.MustCompile(`\bclass\s+\w|\binterface\s+\w|\bstruct\s+\w`)
)

// basicStats derives line and declaration counts from raw text.
func basicStats(text string) BasicStats {
	var stats BasicStats
	if text == "" {
		return stats
	}

	lines := strings.Split(text, "\n")
	stats.TotalLines = len(lines)

	lengthSum := 0
	for _, line := range lines {
		lengthSum += len(line)
		if len(line) > stats.MaxLineLength {
			stats.MaxLineLength = len(line)
		}

		trimmed := strings.TrimSpace(line)
		if trimmed == "" {
			continue
		}
		stats.NonBlankLines++
		if isCommentLine(trimmed) {
			stats.CommentLines++
		} else {
			stats.CodeLines++
		}
	}
	stats.AvgLineLength = float64(lengthSum) / float64(len(lines))

	stats.Functions = len(functionPattern.FindAllStringIndex(text, -1))
	stats.Classes = len(classPattern.FindAllStringIndex(text, -1))
	return stats
}

func isCommentLine(trimmed string) bool {
	return strings.HasPrefix(trimmed, "//") ||
		strings.HasPrefix(trimmed, "#") ||
		strings.HasPrefix(trimmed, "/*") ||
		strings.HasPrefix(trimmed, "*") ||
		strings.HasPrefix(trimmed, "--")
}
