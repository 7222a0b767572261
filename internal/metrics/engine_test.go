package metrics

import (
	"reflect"
	"testing"
)

func TestAnalyze_EmptyInput(t *testing.T) {
	e := NewEngine()
	report := e.Analyze("", "javascript")

	if report.Cyclomatic != 1 {
		t.Errorf("cyclomatic of empty string must be exactly 1, got %d", report.Cyclomatic)
	}
	if report.Cognitive.Value != 0 {
		t.Errorf("expected cognitive 0, got %d", report.Cognitive.Value)
	}
	if report.Nesting.Max != 0 || report.Nesting.Average != 0 {
		t.Errorf("expected zero nesting, got %+v", report.Nesting)
	}
	if report.Halstead.Length != 0 || report.Halstead.Volume != 0 {
		t.Errorf("expected zero halstead, got %+v", report.Halstead)
	}
	if len(report.Issues) != 0 {
		t.Errorf("empty input must not record issues, got %v", report.Issues)
	}
}

func TestAnalyze_Deterministic(t *testing.T) {
	src := `function sum(items) {
	let total = 0;
	for (const item of items) {
		if (item > 0 && item < 100) {
			total += item;
		} else {
			continue;
		}
	}
	return total > 0 ? total : -1;
}`

	e := NewEngine()
	first := e.Analyze(src, "javascript")
	second := e.Analyze(src, "javascript")

	if !reflect.DeepEqual(first, second) {
		t.Errorf("identical input produced different reports:\n%+v\n%+v", first, second)
	}
}

func TestCyclomatic(t *testing.T) {
	tests := []struct {
		name string
		src  string
		want int
	}{
		{name: "no decisions", src: "const x = 1;\nconst y = 2;", want: 1},
		{name: "single if", src: "if (x) { y(); }", want: 2},
		{name: "if else", src: "if (x) { a(); } else { b(); }", want: 3},
		{name: "boolean operators", src: "if (a && b || c) { d(); }", want: 4},
		{name: "ternary", src: "const v = a ? b : c;", want: 2},
		{name: "loop with case", src: "for (;;) { switch (x) { case 1: break; } }", want: 3},
	}

	e := NewEngine()
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := e.Analyze(tt.src, "javascript").Cyclomatic
			if got != tt.want {
				t.Errorf("cyclomatic = %d, want %d", got, tt.want)
			}
		})
	}
}

func TestCognitive_NestingWeighting(t *testing.T) {
	// The outer if scores at nesting 0 (1 point); the inner if scores at
	// nesting 1 (2 points) because the opening brace on line 1 raises the
	// level after that line is scored.
	src := `if (a) {
	if (b) {
		work();
	}
}`

	e := NewEngine()
	cog := e.Analyze(src, "javascript").Cognitive

	if cog.Value != 3 {
		t.Fatalf("cognitive = %d, want 3", cog.Value)
	}

	want := []LineContribution{
		{Line: 1, Increment: 1, Nesting: 0},
		{Line: 2, Increment: 2, Nesting: 1},
	}
	if !reflect.DeepEqual(cog.Trail, want) {
		t.Errorf("trail = %+v, want %+v", cog.Trail, want)
	}
}

func TestCognitive_FlatTriggers(t *testing.T) {
	src := `if (a) {
	work();
} else {
	break;
}`

	e := NewEngine()
	cog := e.Analyze(src, "javascript").Cognitive

	// if at level 0 = 1, else flat = 1, break flat = 1.
	if cog.Value != 3 {
		t.Errorf("cognitive = %d, want 3", cog.Value)
	}
}

func TestNesting_CloseBeforeOpen(t *testing.T) {
	// "} else {" closes before opening, so the line stays at depth 1
	// rather than spiking to 2.
	src := `if (a) {
	x();
} else {
	y();
}`

	e := NewEngine()
	n := e.Analyze(src, "javascript").Nesting

	if n.Max != 1 {
		t.Errorf("max nesting = %d, want 1", n.Max)
	}
	// Depths per line: 1, 1, 1, 1, 0 -> average 0.8.
	if n.Average != 0.8 {
		t.Errorf("average nesting = %v, want 0.8", n.Average)
	}
}

func TestNesting_DeepBlocks(t *testing.T) {
	src := "{\n{\n{\nx\n}\n}\n}"

	e := NewEngine()
	n := e.Analyze(src, "javascript").Nesting
	if n.Max != 3 {
		t.Errorf("max nesting = %d, want 3", n.Max)
	}
}

func TestHalstead(t *testing.T) {
	e := NewEngine()
	h := e.Analyze("x = y + 1", "javascript").Halstead

	// Operators: "=", "+" -> n1=2, N1=2. Operands: x, y, 1 -> n2=3, N2=3.
	if h.DistinctOperators != 2 || h.TotalOperators != 2 {
		t.Errorf("operators = (%d distinct, %d total), want (2, 2)",
			h.DistinctOperators, h.TotalOperators)
	}
	if h.DistinctOperands != 3 || h.TotalOperands != 3 {
		t.Errorf("operands = (%d distinct, %d total), want (3, 3)",
			h.DistinctOperands, h.TotalOperands)
	}
	if h.Vocabulary != 5 || h.Length != 5 {
		t.Errorf("vocabulary/length = %d/%d, want 5/5", h.Vocabulary, h.Length)
	}
	if h.Volume <= 0 {
		t.Error("expected positive volume")
	}
	if h.Effort != h.Difficulty*h.Volume {
		t.Error("effort must equal difficulty * volume")
	}
	if h.TimeSeconds != h.Effort/18 {
		t.Error("time must equal effort / 18")
	}
	if h.Bugs != h.Volume/3000 {
		t.Error("bugs must equal volume / 3000")
	}
}

func TestMaintainability_Clamped(t *testing.T) {
	tests := []struct {
		name          string
		volume        float64
		cyclomatic    int
		lines         int
		wantMin       float64
		wantMax       float64
		wantLevel     string
	}{
		{name: "trivial file clamps high", volume: 1, cyclomatic: 1, lines: 1, wantMin: 100, wantMax: 100, wantLevel: LevelHigh},
		{name: "huge file clamps low", volume: 1e9, cyclomatic: 500, lines: 100000, wantMin: 0, wantMax: 0, wantLevel: LevelLow},
		{name: "mid-size file", volume: 2000, cyclomatic: 12, lines: 150, wantMin: 20, wantMax: 100, wantLevel: ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := maintainability(tt.volume, tt.cyclomatic, tt.lines)
			if m.Index < tt.wantMin || m.Index > tt.wantMax {
				t.Errorf("index = %v, want within [%v, %v]", m.Index, tt.wantMin, tt.wantMax)
			}
			if tt.wantLevel != "" && m.Level != tt.wantLevel {
				t.Errorf("level = %s, want %s", m.Level, tt.wantLevel)
			}
		})
	}
}

func TestOverall_Bands(t *testing.T) {
	tests := []struct {
		name       string
		cyclomatic int
		cognitive  int
		nesting    int
		wantLevel  string
	}{
		{name: "simple code is low", cyclomatic: 2, cognitive: 1, nesting: 1, wantLevel: LevelLow},
		{name: "at thresholds is medium", cyclomatic: 15, cognitive: 22, nesting: 4, wantLevel: LevelMedium},
		{name: "extreme code is high", cyclomatic: 60, cognitive: 90, nesting: 10, wantLevel: LevelHigh},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			o := overall(tt.cyclomatic, tt.cognitive, tt.nesting)
			if o.Level != tt.wantLevel {
				t.Errorf("level = %s (score %.3f), want %s", o.Level, o.Score, tt.wantLevel)
			}
		})
	}
}

func TestOverall_CanExceedOne(t *testing.T) {
	o := overall(200, 300, 50)
	if o.Score <= 1 {
		t.Errorf("expected extreme input to exceed 1, got %.3f", o.Score)
	}
}

// panickingScanner fails one scanning concern to exercise per-metric
// failure isolation.
type panickingScanner struct {
	*RegexScanner
}

func (p *panickingScanner) Operators(text string) []string {
	panic("operator table corrupted")
}

func TestAnalyze_MetricFailureIsolated(t *testing.T) {
	e := NewEngineWithScanner(&panickingScanner{NewRegexScanner()})
	report := e.Analyze("if (a) { b(); }", "javascript")

	if len(report.Issues) != 1 {
		t.Fatalf("expected one recorded issue for the failed metric, got %v", report.Issues)
	}
	if report.Issues[0].Metric != "halstead" {
		t.Errorf("issue metric = %q, want halstead", report.Issues[0].Metric)
	}
	if report.Issues[0].Message != "operator table corrupted" {
		t.Errorf("issue message = %q", report.Issues[0].Message)
	}
	if report.Halstead.Volume != 0 {
		t.Errorf("failed metric must keep its zero value, got volume %v", report.Halstead.Volume)
	}
	// Other metrics still compute.
	if report.Cyclomatic != 2 {
		t.Errorf("cyclomatic = %d, want 2", report.Cyclomatic)
	}
}
