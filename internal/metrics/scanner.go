package metrics

import (
	"regexp"
	"strings"
)

// StructuralScanner supplies the lexical facts the engine scores. The
// default implementation pattern-matches raw text; a real parser could be
// substituted here without touching any scoring math.
type StructuralScanner interface {
	// DecisionPoints counts decision-keyword and operator occurrences for
	// cyclomatic complexity. Overlapping matches from different categories
	// all count.
	DecisionPoints(text string) int

	// CognitiveTriggers counts a line's nesting-weighted triggers
	// (if/switch/for/while/catch) and flat triggers (else/break/continue).
	CognitiveTriggers(line string) (weighted, flat int)

	// BraceDelta counts a line's opening and closing braces.
	BraceDelta(line string) (opens, closes int)

	// Operators and Operands return all operator and operand token matches
	// in order of appearance.
	Operators(text string) []string
	Operands(text string) []string
}

// decision-point categories scanned independently for cyclomatic complexity
var (
	decisionKeywordPattern = regexp.MustCompile(`\b(if|else|while|for|case|catch)\b`)
	booleanOpPattern       = regexp.MustCompile(`&&|\|\|`)
	ternaryPattern         = regexp.MustCompile(`\?[^:\n]+:`)
)

// cognitive-complexity triggers
var (
	weightedTriggerPattern = regexp.MustCompile(`\b(if|switch|for|while|catch)\b`)
	flatTriggerPattern     = regexp.MustCompile(`\b(else|break|continue)\b`)
)

// Halstead token classes. Operators are a fixed punctuation/operator set;
// operands are identifiers, numbers, and string literals.
var (
	operatorPattern = regexp.MustCompile(`[+\-*/%=<>!&|^~?:]+|[{}()\[\];,]`)
	operandPattern  = regexp.MustCompile("[A-Za-z_$][A-Za-z0-9_$]*|\\b\\d+(?:\\.\\d+)?\\b|\"[^\"\\n]*\"|'[^'\\n]*'|`[^`]*`")
)

// RegexScanner is the default StructuralScanner: lexical pattern matching
// over raw text, an accepted reproducible approximation of structure.
type RegexScanner struct{}

// NewRegexScanner returns the default lexical scanner.
func NewRegexScanner() *RegexScanner {
	return &RegexScanner{}
}

func (s *RegexScanner) DecisionPoints(text string) int {
	count := len(decisionKeywordPattern.FindAllStringIndex(text, -1))
	count += len(booleanOpPattern.FindAllStringIndex(text, -1))
	count += len(ternaryPattern.FindAllStringIndex(text, -1))
	return count
}

func (s *RegexScanner) CognitiveTriggers(line string) (weighted, flat int) {
	weighted = len(weightedTriggerPattern.FindAllStringIndex(line, -1))
	flat = len(flatTriggerPattern.FindAllStringIndex(line, -1))
	return weighted, flat
}

func (s *RegexScanner) BraceDelta(line string) (opens, closes int) {
	return strings.Count(line, "{"), strings.Count(line, "}")
}

func (s *RegexScanner) Operators(text string) []string {
	return operatorPattern.FindAllString(text, -1)
}

func (s *RegexScanner) Operands(text string) []string {
	return operandPattern.FindAllString(text, -1)
}

// NonBlankLines counts lines with any non-whitespace content.
func NonBlankLines(text string) int {
	count := 0
	for _, line := range strings.Split(text, "\n") {
		if strings.TrimSpace(line) != "" {
			count++
		}
	}
	return count
}
