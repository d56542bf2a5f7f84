package domain

import "errors"

// FailureCategory classifies a per-fragment vectorization failure so the
// caller can decide whether to retry the missing ordinals.
type FailureCategory string

const (
	// FailureRetryable marks rate-limited calls, safe to retry with backoff.
	FailureRetryable FailureCategory = "retryable"

	// FailureNonRetryable marks rejected input or provider-side failures.
	FailureNonRetryable FailureCategory = "non_retryable"

	// FailureDimension marks vectors whose length disagrees with the index.
	FailureDimension FailureCategory = "dimension_mismatch"
)

// Categorize maps an embedding error to its failure category.
func Categorize(err error) FailureCategory {
	var dimErr *DimensionError
	switch {
	case errors.As(err, &dimErr):
		return FailureDimension
	case errors.Is(err, ErrRateLimited):
		return FailureRetryable
	default:
		return FailureNonRetryable
	}
}

// FragmentFailure records why one fragment ordinal was not indexed.
type FragmentFailure struct {
	Ordinal  int
	Category FailureCategory
	Err      error
}

// IngestOutcome reports which fragment ordinals of a document were indexed
// and which failed. A document with failures but at least one success is a
// degraded success, not an error.
type IngestOutcome struct {
	DocumentID    string
	FragmentCount int
	Succeeded     []int
	Failed        []FragmentFailure
}

// Complete reports whether every fragment was indexed.
func (o *IngestOutcome) Complete() bool {
	return len(o.Failed) == 0
}

// Degraded reports whether some but not all fragments were indexed.
func (o *IngestOutcome) Degraded() bool {
	return len(o.Failed) > 0 && len(o.Succeeded) > 0
}
