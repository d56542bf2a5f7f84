package driven

import (
	"context"

	"github.com/docuchat-labs/retrieval-cli/internal/core/domain"
)

// VectorIndex owns all stored fragment vectors and answers top-k cosine
// similarity queries. The reference implementation is an exact brute-force
// scan; an approximate structure may be swapped in as long as it produces
// the same ranked order or exposes its approximate nature explicitly.
type VectorIndex interface {
	// Insert adds a batch of entries. The batch is atomic with respect to
	// concurrent Search calls: a search never observes it partially applied.
	// The index's dimensionality is established by the first successful
	// insert; any entry disagreeing with it fails the whole batch with a
	// *domain.DimensionError.
	Insert(ctx context.Context, entries []domain.IndexEntry) error

	// DeleteByDocument removes all entries for a document, atomically with
	// respect to concurrent Search. Deleting an absent document is a no-op.
	DeleteByDocument(ctx context.Context, documentID string) error

	// Search returns up to k entries ranked by descending cosine similarity
	// to the query vector. Ties break by ascending fragment ID. A non-empty
	// scope restricts candidates to those document IDs. Magnitude-zero
	// vectors (stored or query) never appear in results.
	Search(ctx context.Context, query []float32, k int, scope []string) ([]VectorHit, error)

	// Dimensions returns the established vector size, 0 before first insert.
	Dimensions() int

	// Len returns the number of live entries.
	Len() int

	// Close releases resources.
	Close() error
}

// VectorHit represents a similarity search result.
type VectorHit struct {
	// FragmentID is the matched fragment.
	FragmentID string

	// DocumentID is the fragment's owning document.
	DocumentID string

	// Ordinal is the fragment's position within its document.
	Ordinal int

	// Text is the fragment content.
	Text string

	// Similarity is the cosine similarity score.
	Similarity float64
}
