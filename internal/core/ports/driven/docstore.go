package driven

import (
	"context"

	"github.com/docuchat-labs/retrieval-cli/internal/core/domain"
)

// DocumentStore persists documents and their fragments.
// This is the boundary with the surrounding record store: the caller keeps
// it consistent with its own records by pairing saves and deletes.
type DocumentStore interface {
	// SaveDocument stores a document.
	SaveDocument(ctx context.Context, doc *domain.Document) error

	// SaveFragments stores the fragments of one document.
	SaveFragments(ctx context.Context, fragments []domain.Fragment) error

	// GetDocument retrieves a document by ID.
	GetDocument(ctx context.Context, id string) (*domain.Document, error)

	// GetFragment retrieves a fragment by ID.
	GetFragment(ctx context.Context, id string) (*domain.Fragment, error)

	// GetFragments retrieves all fragments for a document, ordered by ordinal.
	GetFragments(ctx context.Context, documentID string) ([]domain.Fragment, error)

	// FindByURI returns the document ingested from the given URI, or
	// domain.ErrNotFound.
	FindByURI(ctx context.Context, uri string) (*domain.Document, error)

	// ListDocuments returns all stored documents.
	ListDocuments(ctx context.Context) ([]domain.Document, error)

	// ListIndexEntries returns index entries for every fragment that has a
	// stored vector, for warming a vector index at startup.
	ListIndexEntries(ctx context.Context) ([]domain.IndexEntry, error)

	// DeleteDocument removes a document and its fragments. Removing an
	// absent document is a no-op, not an error.
	DeleteDocument(ctx context.Context, id string) error
}
