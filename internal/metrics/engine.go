// Package metrics computes per-file complexity reports: cyclomatic,
// cognitive, nesting depth, Halstead measures, maintainability index, and a
// weighted overall score. All structural facts come from lexical scanning
// (see StructuralScanner); no syntax tree is ever built.
package metrics

import (
	"fmt"
	"math"
	"strings"
)

// Band thresholds for overall-complexity normalization. Values at or below
// Low normalize into [0, 0.4]; values at or below Medium into (0.4, 0.7];
// values beyond Medium grow linearly past 0.7.
type band struct {
	low    float64
	medium float64
}

var (
	cyclomaticBand = band{low: 10, medium: 20}
	cognitiveBand  = band{low: 15, medium: 30}
	nestingBand    = band{low: 3, medium: 5}
)

// Overall blend weights.
const (
	cyclomaticWeight = 0.4
	cognitiveWeight  = 0.4
	nestingWeight    = 0.2
)

// Engine computes complexity reports. Analyze is pure and deterministic:
// byte-identical text and language always yield an identical Report.
type Engine struct {
	scanner StructuralScanner
}

// NewEngine creates an engine using the default lexical scanner.
func NewEngine() *Engine {
	return &Engine{scanner: NewRegexScanner()}
}

// NewEngineWithScanner creates an engine with a custom scanner.
func NewEngineWithScanner(scanner StructuralScanner) *Engine {
	return &Engine{scanner: scanner}
}

// Analyze computes the full complexity report for text. Empty input yields
// a zero-valued report (cyclomatic is its base value 1). A failure inside a
// single metric zeroes that metric and is recorded in Issues; it never
// aborts the rest of the report.
func (e *Engine) Analyze(text, language string) *Report {
	report := &Report{Language: language}

	e.safeMetric(report, "lines", func() {
		report.NonBlankLines = NonBlankLines(text)
	})
	e.safeMetric(report, "cyclomatic", func() {
		report.Cyclomatic = e.cyclomatic(text)
	})
	e.safeMetric(report, "cognitive", func() {
		report.Cognitive = e.cognitive(text)
	})
	e.safeMetric(report, "nesting", func() {
		report.Nesting = e.nesting(text)
	})
	e.safeMetric(report, "halstead", func() {
		report.Halstead = e.halstead(text)
	})
	e.safeMetric(report, "maintainability", func() {
		report.Maintainability = maintainability(report.Halstead.Volume, report.Cyclomatic, report.NonBlankLines)
	})
	e.safeMetric(report, "overall", func() {
		report.Overall = overall(report.Cyclomatic, report.Cognitive.Value, report.Nesting.Max)
	})

	return report
}

// safeMetric runs one metric computation, converting a panic into a
// recorded issue while the metric keeps its zero value.
func (e *Engine) safeMetric(report *Report, name string, fn func()) {
	defer func() {
		if r := recover(); r != nil {
			report.Issues = append(report.Issues, Issue{Metric: name, Message: fmt.Sprint(r)})
		}
	}()
	fn()
}

// cyclomatic starts at 1 and adds 1 per decision-point match.
func (e *Engine) cyclomatic(text string) int {
	return 1 + e.scanner.DecisionPoints(text)
}

// cognitive walks lines in order tracking a running brace-nesting level.
// Each line is scored at the level in effect when the line starts; the
// line's own brace delta is applied after scoring, floored at 0.
func (e *Engine) cognitive(text string) CognitiveMetrics {
	if text == "" {
		return CognitiveMetrics{}
	}

	var m CognitiveMetrics
	level := 0
	for i, line := range strings.Split(text, "\n") {
		weighted, flat := e.scanner.CognitiveTriggers(line)
		increment := weighted*(1+level) + flat
		if increment > 0 {
			m.Value += increment
			m.Trail = append(m.Trail, LineContribution{
				Line:      i + 1,
				Increment: increment,
				Nesting:   level,
			})
		}

		opens, closes := e.scanner.BraceDelta(line)
		level += opens - closes
		if level < 0 {
			level = 0
		}
	}
	return m
}

// nesting tracks maximum and average brace depth. On each line, closing
// braces decrement (floored at 0) before opening braces increment, so a
// line that both closes and opens nests correctly.
func (e *Engine) nesting(text string) NestingMetrics {
	if text == "" {
		return NestingMetrics{}
	}

	var m NestingMetrics
	level := 0
	lines := strings.Split(text, "\n")
	sum := 0
	for _, line := range lines {
		opens, closes := e.scanner.BraceDelta(line)
		level -= closes
		if level < 0 {
			level = 0
		}
		level += opens
		if level > m.Max {
			m.Max = level
		}
		sum += level
	}
	m.Average = float64(sum) / float64(len(lines))
	return m
}

// halstead derives the size/difficulty family from operator and operand
// token counts.
func (e *Engine) halstead(text string) HalsteadMetrics {
	operators := e.scanner.Operators(text)
	operands := e.scanner.Operands(text)

	var m HalsteadMetrics
	m.TotalOperators = len(operators)
	m.TotalOperands = len(operands)
	m.DistinctOperators = distinct(operators)
	m.DistinctOperands = distinct(operands)

	m.Vocabulary = m.DistinctOperators + m.DistinctOperands
	m.Length = m.TotalOperators + m.TotalOperands
	m.Volume = float64(m.Length) * math.Log2(math.Max(float64(m.Vocabulary), 1))
	m.Difficulty = float64(m.DistinctOperators) / 2 *
		(float64(m.TotalOperands) / math.Max(float64(m.DistinctOperands), 1))
	m.Effort = m.Difficulty * m.Volume
	m.TimeSeconds = m.Effort / 18
	m.Bugs = m.Volume / 3000
	return m
}

func distinct(tokens []string) int {
	seen := make(map[string]struct{}, len(tokens))
	for _, tok := range tokens {
		seen[tok] = struct{}{}
	}
	return len(seen)
}

// maintainability computes the classic index clamped to [0, 100].
func maintainability(volume float64, cyclomatic, nonBlankLines int) MaintainabilityMetrics {
	index := 171 -
		5.2*math.Log(math.Max(volume, 1)) -
		0.23*float64(cyclomatic) -
		16.2*math.Log(math.Max(float64(nonBlankLines), 1))
	index = math.Max(0, math.Min(100, index))

	level := LevelHigh
	switch {
	case index < 20:
		level = LevelLow
	case index < 50:
		level = LevelMedium
	}
	return MaintainabilityMetrics{Index: index, Level: level}
}

// overall blends band-normalized cyclomatic, cognitive, and nesting scores.
func overall(cyclomatic, cognitive, maxNesting int) OverallComplexity {
	score := cyclomaticWeight*normalizeBand(float64(cyclomatic), cyclomaticBand) +
		cognitiveWeight*normalizeBand(float64(cognitive), cognitiveBand) +
		nestingWeight*normalizeBand(float64(maxNesting), nestingBand)

	level := LevelHigh
	switch {
	case score <= 0.4:
		level = LevelLow
	case score <= 0.7:
		level = LevelMedium
	}
	return OverallComplexity{Score: score, Level: level}
}

// normalizeBand maps a raw metric into [0, 1+] piecewise-linearly against
// its low/medium thresholds.
func normalizeBand(value float64, b band) float64 {
	switch {
	case value <= 0:
		return 0
	case value <= b.low:
		return 0.4 * value / b.low
	case value <= b.medium:
		return 0.4 + 0.3*(value-b.low)/(b.medium-b.low)
	default:
		return 0.7 + 0.3*(value-b.medium)/b.medium
	}
}
