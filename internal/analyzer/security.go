package analyzer

import (
	"fmt"
	"regexp"

	"github.com/dotcommander/codescore/internal/scoring"
)

// threatPattern is one entry in the fallback scan's fixed pattern list.
type threatPattern struct {
	name    string
	pattern *regexp.Regexp
}

// Fallback threat patterns, used only when the caller supplies no external
// security result. Deliberately small: the real scanner is a collaborator.
var threatPatterns = []threatPattern{
	{name: "dynamic code evaluation", pattern: regexp.MustCompile(`\beval\s*\(`)},
	{name: "command execution", pattern: regexp.MustCompile(`\b(exec|execSync|spawn|system|popen)\s*\(`)},
	{name: "HTML injection sink", pattern: regexp.MustCompile(`\.innerHTML\s*=|document\.write\s*\(`)},
	{name: "hardcoded credential", pattern: regexp.MustCompile(`(?i)\b(password|passwd|secret|api_?key|token)\s*[:=]\s*['"][^'"]{4,}['"]`)},
	{name: "SQL string concatenation", pattern: regexp.MustCompile(`(?i)\b(select|insert|update|delete)\b[^\n]*['"]\s*\+`)},
	{name: "insecure deserialization", pattern: regexp.MustCompile(`\b(pickle\.loads|unserialize|Marshal\.load)\s*\(`)},
}

const threatDeduction = 15

// scanSecurity runs the minimal self-computed fallback scan: each pattern
// hit deducts from 100, floored at 0. It never fails outright.
func scanSecurity(text string) scoring.SecurityInput {
	score := 100
	var issues []scoring.Vulnerability
	for _, tp := range threatPatterns {
		hits := len(tp.pattern.FindAllStringIndex(text, -1))
		if hits == 0 {
			continue
		}
		score -= threatDeduction * hits
		issues = append(issues, scoring.Vulnerability{
			Description: fmt.Sprintf("%s (%d occurrence(s))", tp.name, hits),
		})
	}
	if score < 0 {
		score = 0
	}

	riskLevel := "low"
	switch {
	case score < 50:
		riskLevel = "high"
	case score < 80:
		riskLevel = "medium"
	}

	return scoring.SecurityInput{
		Vulnerabilities: issues,
		Score:           score,
		RiskLevel:       riskLevel,
	}
}
