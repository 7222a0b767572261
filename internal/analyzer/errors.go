package analyzer

import "fmt"

// Kind classifies analysis errors.
type Kind string

const (
	// KindInput marks malformed or missing text; recovered locally by
	// returning a zero-valued report.
	KindInput Kind = "input"
	// KindComputation marks a failure inside a single metric; the metric
	// defaults to zero and the failure lands in the report's issue list.
	KindComputation Kind = "computation"
	// KindAggregation marks a score absent at aggregation time; the score
	// is treated as 0, never skipped.
	KindAggregation Kind = "aggregation"
	// KindBatchItem marks one file's failure inside a batch, isolated to
	// that file's result slot.
	KindBatchItem Kind = "batch_item"
)

// Error carries structured context for an analysis failure instead of a
// formatted string: which file, which metric or category, and what kind of
// fault occurred.
type Error struct {
	Kind       Kind
	Path       string
	Metric     string
	Underlying error
}

// NewInputError reports malformed or missing input for a file.
func NewInputError(path string, err error) *Error {
	return &Error{Kind: KindInput, Path: path, Underlying: err}
}

// NewComputationError reports a metric computation failure.
func NewComputationError(path, metric string, err error) *Error {
	return &Error{Kind: KindComputation, Path: path, Metric: metric, Underlying: err}
}

// NewAggregationError reports a missing score at aggregation time.
func NewAggregationError(metric string, err error) *Error {
	return &Error{Kind: KindAggregation, Metric: metric, Underlying: err}
}

// NewBatchItemError reports a single file's failure inside a batch.
func NewBatchItemError(path string, err error) *Error {
	return &Error{Kind: KindBatchItem, Path: path, Underlying: err}
}

// Error implements the error interface.
func (e *Error) Error() string {
	switch {
	case e.Path != "" && e.Metric != "":
		return fmt.Sprintf("%s error for %s (%s): %v", e.Kind, e.Path, e.Metric, e.Underlying)
	case e.Path != "":
		return fmt.Sprintf("%s error for %s: %v", e.Kind, e.Path, e.Underlying)
	case e.Metric != "":
		return fmt.Sprintf("%s error (%s): %v", e.Kind, e.Metric, e.Underlying)
	default:
		return fmt.Sprintf("%s error: %v", e.Kind, e.Underlying)
	}
}

// Unwrap returns the underlying error for errors.Is/As.
func (e *Error) Unwrap() error {
	return e.Underlying
}
