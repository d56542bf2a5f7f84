package driving

import (
	"context"

	"github.com/docuchat-labs/retrieval-cli/internal/core/domain"
)

// DocumentService exposes read operations over stored documents.
type DocumentService interface {
	// List returns all stored documents.
	List(ctx context.Context) ([]domain.Document, error)

	// Get retrieves a document by ID.
	Get(ctx context.Context, documentID string) (*domain.Document, error)

	// Content reconstructs the full document text from its fragments,
	// stripping overlaps.
	Content(ctx context.Context, documentID string) (string, error)

	// Cite formats a citation for the document in the given style
	// ("apa", "mla", "chicago" or "harvard").
	Cite(ctx context.Context, documentID, style string) (string, error)
}
