// Package analyzer is the engine facade: it wires the complexity engine,
// result cache, dependency graph, and score aggregation into the per-file
// and per-project entry points, and drives bounded-concurrency batches.
package analyzer

import (
	"errors"
	"fmt"
	"math"
	"time"

	"github.com/rs/zerolog"

	"github.com/dotcommander/codescore/internal/cache"
	"github.com/dotcommander/codescore/internal/graph"
	"github.com/dotcommander/codescore/internal/metrics"
	"github.com/dotcommander/codescore/internal/scoring"
)

// File is the analyzer's input unit: validated text supplied by a loader
// collaborator. The analyzer trusts the text as-is.
type File struct {
	Path     string
	Language string
	Text     string
}

// FileResult is the single-file analysis output.
type FileResult struct {
	Path       string                   `json:"path"`
	Language   string                   `json:"language"`
	Basic      BasicStats               `json:"basic"`
	Complexity *metrics.Report          `json:"complexity"`
	Quality    scoring.FileQualityScore `json:"quality"`
	Security   scoring.SecurityInput    `json:"security"`
	Timestamp  time.Time                `json:"timestamp"`
}

// ProjectMetrics summarizes raw project-wide numbers alongside the scores.
type ProjectMetrics struct {
	TotalFiles             int     `json:"total_files"`
	TotalLines             int     `json:"total_lines"`
	TotalFunctions         int     `json:"total_functions"`
	TotalClasses           int     `json:"total_classes"`
	AverageComplexity      float64 `json:"average_complexity"`
	AverageMaintainability float64 `json:"average_maintainability"`
	CycleCount             int     `json:"cycle_count"`
	UnusedFiles            int     `json:"unused_files"`
	AverageCoupling        float64 `json:"average_coupling"`
}

// ProjectResult is the project-level analysis output.
type ProjectResult struct {
	Structure       scoring.CategoryScore `json:"structure"`
	Dependencies    scoring.CategoryScore `json:"dependencies"`
	Maintainability scoring.CategoryScore `json:"maintainability"`
	Quality         scoring.CategoryScore `json:"quality"`
	Security        scoring.CategoryScore `json:"security"`
	Metrics         ProjectMetrics        `json:"metrics"`
	OverallScore    int                   `json:"overall_score"`
	Grade           string                `json:"grade"`
	Files           []*FileResult         `json:"files,omitempty"`
}

// Analyzer owns an explicitly constructed cache and engine; there is no
// ambient global state.
type Analyzer struct {
	engine   *metrics.Engine
	cache    *cache.ResultCache
	log      zerolog.Logger
	loadFile LoaderFunc
}

// New creates an Analyzer around the given cache.
func New(c *cache.ResultCache, log zerolog.Logger) *Analyzer {
	return &Analyzer{
		engine:   metrics.NewEngine(),
		cache:    c,
		log:      log,
		loadFile: loadFromDisk,
	}
}

// Cache exposes the result cache for operational introspection
// (stats, clear, resize).
func (a *Analyzer) Cache() *cache.ResultCache {
	return a.cache
}

// AnalyzeFile analyzes one file. The text-derived computation is memoized
// by path, language, and a content fingerprint. Security comes from the
// minimal fallback scan; use AnalyzeFileWithSecurity to supply an external
// scanner result.
func (a *Analyzer) AnalyzeFile(path, text, language string) *FileResult {
	return a.AnalyzeFileWithSecurity(path, text, language, nil)
}

// cachedAnalysis is the memoized part of a file analysis: everything
// derived purely from the text. Quality and blocking are NOT cached — they
// depend on the security input of the current call.
type cachedAnalysis struct {
	report  *metrics.Report
	basic   BasicStats
	scanned scoring.SecurityInput
}

// analyzeText returns the text-derived analysis, from cache when the same
// path, language, and content were seen before.
func (a *Analyzer) analyzeText(path, text, language string) cachedAnalysis {
	key := cache.Key(path, language, []byte(text))
	if cached, ok := a.cache.Get(key); ok {
		if art, ok := cached.(cachedAnalysis); ok {
			a.log.Debug().Str("path", path).Msg("cache hit")
			return art
		}
	}
	a.log.Debug().Str("path", path).Msg("cache miss")

	art := cachedAnalysis{
		report:  a.engine.Analyze(text, language),
		basic:   basicStats(text),
		scanned: scanSecurity(text),
	}
	for _, issue := range art.report.Issues {
		a.log.Warn().
			Err(NewComputationError(path, issue.Metric, errors.New(issue.Message))).
			Msg("metric computation failed")
	}
	a.cache.Set(key, art)
	return art
}

// AnalyzeFileWithSecurity analyzes one file with an optional external
// security result. A nil security input falls back to the self-computed
// pattern scan. The supplied input always takes effect, cache hit or not:
// scoring and the blocking decision are recomputed on every call.
func (a *Analyzer) AnalyzeFileWithSecurity(path, text, language string, security *scoring.SecurityInput) *FileResult {
	art := a.analyzeText(path, text, language)

	sec := art.scanned
	if security != nil {
		sec = *security
	}

	categories := deriveFileCategories(art.report, art.basic, sec)
	quality := scoring.AggregateFile(categories, sec)

	return &FileResult{
		Path:       path,
		Language:   language,
		Basic:      art.basic,
		Complexity: art.report,
		Quality:    quality,
		Security:   sec,
		Timestamp:  time.Now().UTC(),
	}
}

// deriveFileCategories maps the complexity report, lexical stats, and
// security result onto the five per-file category scores.
func deriveFileCategories(report *metrics.Report, basic BasicStats, sec scoring.SecurityInput) map[string]int {
	return map[string]int{
		scoring.FileMaintainability: int(math.Round(report.Maintainability.Index)),
		scoring.FileReliability:     reliabilityScore(report),
		scoring.FileSecurity:        sec.Score,
		scoring.FilePerformance:     performanceScore(report),
		scoring.FileReadability:     readabilityScore(basic),
	}
}

func reliabilityScore(report *metrics.Report) int {
	score := 100
	if report.Cyclomatic > 10 {
		score -= 2 * (report.Cyclomatic - 10)
	}
	if report.Cognitive.Value > 15 {
		score -= report.Cognitive.Value - 15
	}
	return clampScore(score)
}

func performanceScore(report *metrics.Report) int {
	score := 100
	if report.Nesting.Max > 3 {
		score -= 15 * (report.Nesting.Max - 3)
	}
	if report.Halstead.Difficulty > 20 {
		score -= int(report.Halstead.Difficulty-20) * 2
	}
	return clampScore(score)
}

func readabilityScore(basic BasicStats) int {
	score := 100
	if basic.AvgLineLength > 60 {
		score -= int(basic.AvgLineLength-60) / 2
	}
	if basic.MaxLineLength > 120 {
		score -= 10
	}
	if basic.CodeLines > 20 {
		density := float64(basic.CommentLines) / float64(basic.NonBlankLines)
		if density < 0.05 {
			score -= 15
		}
	}
	return clampScore(score)
}

func clampScore(score int) int {
	if score < 0 {
		return 0
	}
	if score > 100 {
		return 100
	}
	return score
}

// AnalyzeProject runs per-file analysis over the inventory, builds the
// dependency graph from the supplied edges, and aggregates the five project
// categories into an overall score and grade. The graph and aggregation are
// built single-threaded after all per-file analyses complete.
func (a *Analyzer) AnalyzeProject(files []File, edges map[string][]string) *ProjectResult {
	if len(files) == 0 {
		a.log.Warn().
			Err(NewAggregationError("project", errors.New("no analyzable files"))).
			Msg("every category counts as zero")
	}

	results := make([]*FileResult, 0, len(files))
	paths := make([]string, 0, len(files))
	for _, f := range files {
		results = append(results, a.AnalyzeFile(f.Path, f.Text, f.Language))
		paths = append(paths, f.Path)
	}

	g := graph.BuildFromEdges(paths, edges)

	result := &ProjectResult{
		Structure:       structureCategory(results),
		Dependencies:    dependenciesCategory(g),
		Maintainability: maintainabilityCategory(results),
		Quality:         qualityCategory(results),
		Security:        securityCategory(results),
		Metrics:         projectMetrics(results, g),
		Files:           results,
	}

	project := scoring.AggregateProject(map[string]scoring.CategoryScore{
		scoring.CategoryStructure:       result.Structure,
		scoring.CategoryDependencies:    result.Dependencies,
		scoring.CategoryMaintainability: result.Maintainability,
		scoring.CategoryQuality:         result.Quality,
		scoring.CategorySecurity:        result.Security,
	})
	result.OverallScore = project.Score
	result.Grade = project.Grade

	a.log.Debug().
		Int("files", len(files)).
		Int("score", project.Score).
		Str("grade", project.Grade).
		Msg("project analysis complete")
	return result
}

func structureCategory(results []*FileResult) scoring.CategoryScore {
	if len(results) == 0 {
		return scoring.NewCategoryScore(nil, nil, nil)
	}

	totalLines, totalFunctions, totalComments, totalNonBlank := 0, 0, 0, 0
	for _, r := range results {
		totalLines += r.Basic.NonBlankLines
		totalFunctions += r.Basic.Functions
		totalComments += r.Basic.CommentLines
		totalNonBlank += r.Basic.NonBlankLines
	}

	avgFileSize := float64(totalLines) / float64(len(results))
	fileSize := bandScore(avgFileSize, 200, 400, 800)

	functionLength := 100
	if totalFunctions > 0 {
		functionLength = bandScore(float64(totalLines)/float64(totalFunctions), 20, 40, 60)
	}

	commentDensity := 40
	if totalNonBlank > 0 {
		density := float64(totalComments) / float64(totalNonBlank)
		switch {
		case density >= 0.15:
			commentDensity = 100
		case density >= 0.08:
			commentDensity = 80
		case density >= 0.03:
			commentDensity = 60
		}
	}

	var issues, recs []string
	if fileSize < 80 {
		issues = append(issues, fmt.Sprintf("average file size is %.0f lines", avgFileSize))
		recs = append(recs, "split oversized files into focused modules")
	}
	if functionLength < 80 {
		recs = append(recs, "extract long functions into smaller units")
	}
	if commentDensity < 80 {
		recs = append(recs, "document non-obvious code paths")
	}

	return scoring.NewCategoryScore([]scoring.SubFactor{
		{Name: "file size", Score: fileSize},
		{Name: "function length", Score: functionLength},
		{Name: "comment density", Score: commentDensity},
	}, issues, recs)
}

func dependenciesCategory(g *graph.Graph) scoring.CategoryScore {
	cycles := g.Cycles()
	unused := g.Unused()

	var issues, recs []string
	for _, cycle := range cycles {
		issues = append(issues, "circular dependency: "+graph.FormatCycle(cycle))
	}
	if len(cycles) > 0 {
		recs = append(recs, "break dependency cycles by extracting shared code")
	}
	for _, f := range unused {
		issues = append(issues, "no file depends on "+f)
	}
	if len(unused) > 0 {
		recs = append(recs, "remove unreferenced files or wire them to an entry point")
	}
	if g.CouplingScore() < 100 {
		recs = append(recs, "reduce the average number of imports per file")
	}

	return scoring.NewCategoryScore([]scoring.SubFactor{
		{Name: "cycles", Score: g.CycleScore()},
		{Name: "coupling", Score: g.CouplingScore()},
		{Name: "unused files", Score: g.UnusedScore()},
	}, issues, recs)
}

func maintainabilityCategory(results []*FileResult) scoring.CategoryScore {
	if len(results) == 0 {
		return scoring.NewCategoryScore(nil, nil, nil)
	}

	miSum, volumeSum := 0.0, 0.0
	var issues []string
	for _, r := range results {
		miSum += r.Complexity.Maintainability.Index
		volumeSum += r.Complexity.Halstead.Volume
		if r.Complexity.Maintainability.Level == metrics.LevelLow {
			issues = append(issues, r.Path+" has a low maintainability index")
		}
	}

	avgMI := miSum / float64(len(results))
	avgVolume := volumeSum / float64(len(results))

	var recs []string
	if avgMI < 50 {
		recs = append(recs, "refactor the least maintainable files first")
	}

	return scoring.NewCategoryScore([]scoring.SubFactor{
		{Name: "maintainability index", Score: int(math.Round(avgMI))},
		{Name: "code volume", Score: bandScore(avgVolume, 1000, 3000, 8000)},
	}, issues, recs)
}

func qualityCategory(results []*FileResult) scoring.CategoryScore {
	if len(results) == 0 {
		return scoring.NewCategoryScore(nil, nil, nil)
	}

	overallSum := 0.0
	highCount := 0
	var issues []string
	for _, r := range results {
		overallSum += r.Complexity.Overall.Score
		if r.Complexity.Overall.Level == metrics.LevelHigh {
			highCount++
			issues = append(issues, r.Path+" has high overall complexity")
		}
	}

	avgOverall := overallSum / float64(len(results))
	complexityScore := int(math.Round(100 * (1 - math.Min(avgOverall, 1))))
	highRatio := float64(highCount) / float64(len(results))
	hotspotScore := int(math.Round(100 * (1 - highRatio)))

	var recs []string
	if highCount > 0 {
		recs = append(recs, "simplify the highest-complexity files")
	}

	return scoring.NewCategoryScore([]scoring.SubFactor{
		{Name: "complexity", Score: complexityScore},
		{Name: "hotspots", Score: hotspotScore},
	}, issues, recs)
}

func securityCategory(results []*FileResult) scoring.CategoryScore {
	if len(results) == 0 {
		return scoring.NewCategoryScore(nil, nil, nil)
	}

	sum := 0
	var issues, recs []string
	for _, r := range results {
		sum += r.Security.Score
		for _, v := range r.Security.Vulnerabilities {
			issues = append(issues, r.Path+": "+v.Description)
		}
	}
	if len(issues) > 0 {
		recs = append(recs, "review flagged threat patterns before release")
	}

	avg := int(math.Round(float64(sum) / float64(len(results))))
	return scoring.NewCategoryScore([]scoring.SubFactor{
		{Name: "threat scan", Score: avg},
	}, issues, recs)
}

func projectMetrics(results []*FileResult, g *graph.Graph) ProjectMetrics {
	m := ProjectMetrics{
		TotalFiles:      len(results),
		CycleCount:      len(g.Cycles()),
		UnusedFiles:     len(g.Unused()),
		AverageCoupling: g.AverageCoupling(),
	}
	if len(results) == 0 {
		return m
	}

	complexitySum, miSum := 0.0, 0.0
	for _, r := range results {
		m.TotalLines += r.Basic.TotalLines
		m.TotalFunctions += r.Basic.Functions
		m.TotalClasses += r.Basic.Classes
		complexitySum += r.Complexity.Overall.Score
		miSum += r.Complexity.Maintainability.Index
	}
	m.AverageComplexity = complexitySum / float64(len(results))
	m.AverageMaintainability = miSum / float64(len(results))
	return m
}

// bandScore maps a value against ascending thresholds: at or below good
// scores 100, then 80, then 60, else 40.
func bandScore(value, good, fair, poor float64) int {
	switch {
	case value <= good:
		return 100
	case value <= fair:
		return 80
	case value <= poor:
		return 60
	default:
		return 40
	}
}
