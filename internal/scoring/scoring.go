// Package scoring turns category and sub-factor scores into graded results:
// a weighted project score, a per-file quality score blended with security,
// and the hard block/no-block gate.
package scoring

import (
	"fmt"
	"math"
	"sort"
)

// Project category names and their fixed weights. Weights sum to 1.0.
const (
	CategoryStructure       = "structure"
	CategoryDependencies    = "dependencies"
	CategoryMaintainability = "maintainability"
	CategoryQuality         = "quality"
	CategorySecurity        = "security"
)

var projectWeights = map[string]float64{
	CategoryStructure:       0.25,
	CategoryDependencies:    0.20,
	CategoryMaintainability: 0.20,
	CategoryQuality:         0.20,
	CategorySecurity:        0.15,
}

// Summation order for the weighted blends. Float addition is not
// associative, so iterating the weight maps directly would make identical
// inputs round differently across calls.
var projectCategoryOrder = []string{
	CategoryStructure,
	CategoryDependencies,
	CategoryMaintainability,
	CategoryQuality,
	CategorySecurity,
}

// Per-file category names and their fixed weights. Weights sum to 1.0.
const (
	FileMaintainability = "maintainability"
	FileReliability     = "reliability"
	FileSecurity        = "security"
	FilePerformance     = "performance"
	FileReadability     = "readability"
)

var fileWeights = map[string]float64{
	FileMaintainability: 0.30,
	FileReliability:     0.25,
	FileSecurity:        0.20,
	FilePerformance:     0.15,
	FileReadability:     0.10,
}

var fileCategoryOrder = []string{
	FileMaintainability,
	FileReliability,
	FileSecurity,
	FilePerformance,
	FileReadability,
}

// Quality/security blend for the enhanced file score.
const (
	qualityBlendWeight  = 0.70
	securityBlendWeight = 0.30
)

// Blocking gate constants. A vulnerability at or above the CVSS threshold,
// a security sub-score below the floor, or a failed compliance check forces
// a block regardless of every other score.
const (
	BlockingCVSSThreshold = 7.0
	SecurityScoreFloor    = 80
)

// SubFactor is one named 0-100 contributor to a category.
type SubFactor struct {
	Name  string `json:"name"`
	Score int    `json:"score"`
}

// CategoryScore is a 0-100 category result with its sub-factor breakdown.
type CategoryScore struct {
	Score           int         `json:"score"`
	Details         []SubFactor `json:"details,omitempty"`
	Issues          []string    `json:"issues,omitempty"`
	Recommendations []string    `json:"recommendations,omitempty"`
}

// NewCategoryScore builds a category from its sub-factors. The category
// score is the unweighted mean of the sub-factor scores, rounded.
func NewCategoryScore(details []SubFactor, issues, recommendations []string) CategoryScore {
	score := 0
	if len(details) > 0 {
		sum := 0
		for _, d := range details {
			sum += d.Score
		}
		score = int(math.Round(float64(sum) / float64(len(details))))
	}
	return CategoryScore{
		Score:           score,
		Details:         details,
		Issues:          issues,
		Recommendations: recommendations,
	}
}

// ProjectScore is the weighted project result with its letter grade.
type ProjectScore struct {
	Score int    `json:"score"`
	Grade string `json:"grade"`
}

// AggregateProject combines the five category scores with fixed weights.
// A missing category counts as 0 — it lowers the result rather than being
// excluded, preserving historical grading behavior.
func AggregateProject(categories map[string]CategoryScore) ProjectScore {
	weighted := 0.0
	for _, name := range projectCategoryOrder {
		weighted += float64(categories[name].Score) * projectWeights[name]
	}
	score := int(math.Round(weighted))
	return ProjectScore{Score: score, Grade: ProjectGrade(score)}
}

// ProjectGrade maps a project score to its letter grade.
func ProjectGrade(score int) string {
	switch {
	case score >= 90:
		return "A"
	case score >= 80:
		return "B"
	case score >= 70:
		return "C"
	case score >= 60:
		return "D"
	default:
		return "F"
	}
}

// Vulnerability is the per-finding slice of an external security result.
type Vulnerability struct {
	ID          string  `json:"id,omitempty"`
	Description string  `json:"description,omitempty"`
	CVSSScore   float64 `json:"cvss_score"`
}

// SecurityInput is the externally supplied (or fallback) security result
// consumed by the file-level blend and the blocking gate.
type SecurityInput struct {
	Vulnerabilities  []Vulnerability `json:"vulnerabilities,omitempty"`
	Score            int             `json:"score"`
	RiskLevel        string          `json:"risk_level,omitempty"`
	ComplianceFailed bool            `json:"compliance_failed,omitempty"`
}

// FileQualityScore is the per-file graded result.
type FileQualityScore struct {
	Score         int         `json:"score"`          // weighted category mean
	EnhancedScore int         `json:"enhanced_score"` // quality/security blend
	Grade         string      `json:"grade"`
	Details       []SubFactor `json:"details,omitempty"`
	ShouldBlock   bool        `json:"should_block"`
	BlockReasons  []string    `json:"block_reasons,omitempty"`
}

// AggregateFile combines per-file category scores, blends in the security
// score, grades the result, and applies the blocking gate. Missing
// categories count as 0.
func AggregateFile(categories map[string]int, security SecurityInput) FileQualityScore {
	weighted := 0.0
	details := make([]SubFactor, 0, len(fileCategoryOrder))
	for _, name := range fileCategoryOrder {
		weighted += float64(categories[name]) * fileWeights[name]
		details = append(details, SubFactor{Name: name, Score: categories[name]})
	}
	sort.Slice(details, func(i, j int) bool { return details[i].Name < details[j].Name })

	score := int(math.Round(weighted))
	enhanced := int(math.Round(float64(score)*qualityBlendWeight + float64(security.Score)*securityBlendWeight))

	result := FileQualityScore{
		Score:         score,
		EnhancedScore: enhanced,
		Grade:         FileGrade(enhanced),
		Details:       details,
	}
	result.ShouldBlock, result.BlockReasons = determineBlocking(categories[FileSecurity], security)
	return result
}

// FileGrade maps an enhanced file score to its letter grade.
func FileGrade(score int) string {
	switch {
	case score >= 90:
		return "A"
	case score >= 75:
		return "B"
	case score >= 60:
		return "C"
	case score >= 40:
		return "D"
	default:
		return "F"
	}
}

// determineBlocking applies the hard gate. The decision is never overridden
// by numeric scores elsewhere.
func determineBlocking(securityCategory int, security SecurityInput) (bool, []string) {
	var reasons []string
	for _, v := range security.Vulnerabilities {
		if v.CVSSScore >= BlockingCVSSThreshold {
			reasons = append(reasons,
				fmt.Sprintf("vulnerability with CVSS %.1f at or above threshold %.1f",
					v.CVSSScore, BlockingCVSSThreshold))
		}
	}
	if securityCategory < SecurityScoreFloor {
		reasons = append(reasons, "security score below required floor")
	}
	if security.ComplianceFailed {
		reasons = append(reasons, "compliance check failed")
	}
	return len(reasons) > 0, reasons
}
