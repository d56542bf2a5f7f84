// Package domain defines the core business entities for the retrieval core.
//
// This package is part of the hexagonal architecture's innermost layer.
// It has NO external dependencies and defines the fundamental types:
//
//   - Document: an ingested record's decoded text plus metadata
//   - Fragment: a contiguous, possibly overlapping slice of a document
//   - IndexEntry: a fragment's identity and metadata paired with its vector
//   - SearchResult: an ephemeral ranked retrieval hit
//   - IngestOutcome: per-ordinal success/failure report for one ingest
//
// # Import Rules
//
//   - Can Import: Standard library only
//   - Cannot Import: Any internal/ package, any external dependency
package domain
