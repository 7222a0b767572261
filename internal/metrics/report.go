package metrics

// Complexity levels reported alongside numeric values.
const (
	LevelLow    = "low"
	LevelMedium = "medium"
	LevelHigh   = "high"
)

// LineContribution records one line's addition to the cognitive total.
type LineContribution struct {
	Line      int `json:"line"`      // 1-based
	Increment int `json:"increment"` // points added by this line
	Nesting   int `json:"nesting"`   // nesting level when the line was scored
}

// CognitiveMetrics holds the cognitive complexity value and its per-line
// contribution trail.
type CognitiveMetrics struct {
	Value int                `json:"value"`
	Trail []LineContribution `json:"trail,omitempty"`
}

// NestingMetrics holds maximum and average brace-nesting depth.
type NestingMetrics struct {
	Max     int     `json:"max"`
	Average float64 `json:"average"`
}

// HalsteadMetrics holds the operator/operand derived size measures.
type HalsteadMetrics struct {
	DistinctOperators int     `json:"distinct_operators"` // n1
	DistinctOperands  int     `json:"distinct_operands"`  // n2
	TotalOperators    int     `json:"total_operators"`    // N1
	TotalOperands     int     `json:"total_operands"`     // N2
	Vocabulary        int     `json:"vocabulary"`
	Length            int     `json:"length"`
	Volume            float64 `json:"volume"`
	Difficulty        float64 `json:"difficulty"`
	Effort            float64 `json:"effort"`
	TimeSeconds       float64 `json:"time_seconds"`
	Bugs              float64 `json:"bugs"`
}

// MaintainabilityMetrics holds the clamped 0-100 maintainability index.
type MaintainabilityMetrics struct {
	Index float64 `json:"index"`
	Level string  `json:"level"`
}

// OverallComplexity is the weighted blend of band-normalized sub-scores.
type OverallComplexity struct {
	Score float64 `json:"score"` // 0-1+, may exceed 1 for extreme inputs
	Level string  `json:"level"`
}

// Report is the immutable result of analyzing one file's text. It is
// computed on demand and superseded only by a fresh computation for
// changed content.
type Report struct {
	Language        string                 `json:"language"`
	NonBlankLines   int                    `json:"non_blank_lines"`
	Cyclomatic      int                    `json:"cyclomatic"`
	Cognitive       CognitiveMetrics       `json:"cognitive"`
	Nesting         NestingMetrics         `json:"nesting"`
	Halstead        HalsteadMetrics        `json:"halstead"`
	Maintainability MaintainabilityMetrics `json:"maintainability"`
	Overall         OverallComplexity      `json:"overall"`

	// Issues records sub-metric computation failures; the affected metric
	// keeps its zero value rather than aborting the report.
	Issues []Issue `json:"issues,omitempty"`
}

// Issue identifies which metric failed and why.
type Issue struct {
	Metric  string `json:"metric"`
	Message string `json:"message"`
}
