package domain

import (
	"errors"
	"fmt"
)

// Domain errors represent business logic failures.
// These are distinct from infrastructure errors.
var (
	// ErrNotFound indicates a requested entity does not exist.
	ErrNotFound = errors.New("not found")

	// ErrInvalidConfig indicates invalid fragmentation or retrieval
	// parameters. Fatal, surfaced immediately, never retried or clamped.
	ErrInvalidConfig = errors.New("invalid configuration")

	// ErrRateLimited indicates the embedding provider rejected a call due
	// to rate limiting. Retryable with backoff by the caller.
	ErrRateLimited = errors.New("rate limited")

	// ErrInvalidInput indicates the embedding provider rejected the input
	// text. Non-retryable for that fragment.
	ErrInvalidInput = errors.New("invalid input")

	// ErrProviderError indicates an embedding provider-side failure.
	// Non-retryable for that fragment.
	ErrProviderError = errors.New("provider error")

	// ErrEmbedderUnavailable indicates no embedding service is configured.
	// Ingestion and retrieval are disabled without one.
	ErrEmbedderUnavailable = errors.New("embedding service unavailable")

	// ErrIngestionFailed indicates a document produced fragments but none
	// could be vectorized and indexed.
	ErrIngestionFailed = errors.New("ingestion failed")

	// ErrQueryEmbedding indicates the query text could not be vectorized.
	// The whole retrieval call fails; there is no partial query to salvage.
	ErrQueryEmbedding = errors.New("query embedding failed")
)

// DimensionError reports a vector whose length disagrees with the
// dimensionality established by the index's first successful insert.
type DimensionError struct {
	Want int
	Got  int
}

func (e *DimensionError) Error() string {
	return fmt.Sprintf("vector dimension mismatch: want %d, got %d", e.Want, e.Got)
}
