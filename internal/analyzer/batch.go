package analyzer

import (
	"fmt"

	"golang.org/x/sync/errgroup"

	"github.com/dotcommander/codescore/internal/discovery"
)

// LoaderFunc supplies validated file text for a path. The default loader
// reads from disk with the discovery package's size and encoding checks.
type LoaderFunc func(path string) (File, error)

// WithLoader replaces the file loader, e.g. for tests or an in-memory
// inventory. Returns the analyzer for chaining.
func (a *Analyzer) WithLoader(loader LoaderFunc) *Analyzer {
	a.loadFile = loader
	return a
}

func loadFromDisk(path string) (File, error) {
	f, err := discovery.LoadFile(path, 0)
	if err != nil {
		return File{}, err
	}
	return File{Path: path, Language: f.Language, Text: f.Contents}, nil
}

// BatchResult is one slot in a batch outcome: either a file result or that
// file's isolated error.
type BatchResult struct {
	Path   string      `json:"path"`
	Result *FileResult `json:"result,omitempty"`
	Err    error       `json:"-"`
}

// AnalyzeMany analyzes paths in fixed-size groups no larger than limit.
// All files within a group run concurrently; the whole group finishes
// before the next group starts. Results preserve input order regardless of
// completion order, and one file's failure fills only its own slot. The
// call itself fails only for invalid setup.
func (a *Analyzer) AnalyzeMany(paths []string, limit int) ([]BatchResult, error) {
	if limit < 1 {
		return nil, fmt.Errorf("concurrency limit must be at least 1, got %d", limit)
	}

	results := make([]BatchResult, len(paths))
	for start := 0; start < len(paths); start += limit {
		end := start + limit
		if end > len(paths) {
			end = len(paths)
		}

		a.log.Debug().Int("from", start).Int("to", end-1).Msg("dispatching batch group")

		var group errgroup.Group
		for i := start; i < end; i++ {
			group.Go(func() error {
				results[i] = a.analyzeOne(paths[i])
				return nil
			})
		}
		// Worker errors are captured positionally, never returned.
		_ = group.Wait()
	}
	return results, nil
}

// analyzeOne loads and analyzes a single path, converting any failure or
// panic into that slot's BatchItemError.
func (a *Analyzer) analyzeOne(path string) (result BatchResult) {
	result.Path = path
	defer func() {
		if r := recover(); r != nil {
			result.Result = nil
			result.Err = NewBatchItemError(path, fmt.Errorf("analysis panicked: %v", r))
		}
	}()

	file, err := a.loadFile(path)
	if err != nil {
		result.Err = NewBatchItemError(path, NewInputError(path, err))
		return result
	}
	result.Result = a.AnalyzeFile(file.Path, file.Text, file.Language)
	return result
}
