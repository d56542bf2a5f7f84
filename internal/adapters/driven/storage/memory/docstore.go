package memory

import (
	"context"
	"sort"
	"sync"

	"github.com/docuchat-labs/retrieval-cli/internal/core/domain"
	"github.com/docuchat-labs/retrieval-cli/internal/core/ports/driven"
)

// Ensure DocumentStore implements the interface.
var _ driven.DocumentStore = (*DocumentStore)(nil)

// DocumentStore is an in-memory implementation of driven.DocumentStore.
type DocumentStore struct {
	mu        sync.RWMutex
	documents map[string]domain.Document
	fragments map[string][]domain.Fragment
}

// NewDocumentStore creates a new in-memory document store.
func NewDocumentStore() *DocumentStore {
	return &DocumentStore{
		documents: make(map[string]domain.Document),
		fragments: make(map[string][]domain.Fragment),
	}
}

// SaveDocument stores or updates a document.
func (s *DocumentStore) SaveDocument(_ context.Context, doc *domain.Document) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.documents[doc.ID] = *doc
	return nil
}

// SaveFragments stores fragments for a document.
func (s *DocumentStore) SaveFragments(_ context.Context, fragments []domain.Fragment) error {
	if len(fragments) == 0 {
		return nil
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	docID := fragments[0].DocumentID
	stored := make([]domain.Fragment, len(fragments))
	copy(stored, fragments)
	sort.Slice(stored, func(i, j int) bool { return stored[i].Ordinal < stored[j].Ordinal })
	s.fragments[docID] = stored
	return nil
}

// GetDocument retrieves a document by ID.
func (s *DocumentStore) GetDocument(_ context.Context, id string) (*domain.Document, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	doc, ok := s.documents[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return &doc, nil
}

// GetFragment retrieves a specific fragment by ID.
func (s *DocumentStore) GetFragment(_ context.Context, id string) (*domain.Fragment, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, fragments := range s.fragments {
		for _, fragment := range fragments {
			if fragment.ID == id {
				return &fragment, nil
			}
		}
	}
	return nil, domain.ErrNotFound
}

// GetFragments retrieves all fragments for a document, ordered by ordinal.
func (s *DocumentStore) GetFragments(_ context.Context, documentID string) ([]domain.Fragment, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	fragments, ok := s.fragments[documentID]
	if !ok {
		return nil, nil
	}
	result := make([]domain.Fragment, len(fragments))
	copy(result, fragments)
	return result, nil
}

// FindByURI returns the document ingested from the given URI.
func (s *DocumentStore) FindByURI(_ context.Context, uri string) (*domain.Document, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for id := range s.documents {
		doc := s.documents[id]
		if doc.URI == uri {
			return &doc, nil
		}
	}
	return nil, domain.ErrNotFound
}

// ListDocuments returns all stored documents.
func (s *DocumentStore) ListDocuments(_ context.Context) ([]domain.Document, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	result := make([]domain.Document, 0, len(s.documents))
	for id := range s.documents {
		result = append(result, s.documents[id])
	}
	sort.Slice(result, func(i, j int) bool { return result[i].ID < result[j].ID })
	return result, nil
}

// ListIndexEntries returns index entries for every fragment with a stored vector.
func (s *DocumentStore) ListIndexEntries(_ context.Context) ([]domain.IndexEntry, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var entries []domain.IndexEntry
	for docID, fragments := range s.fragments {
		for _, fragment := range fragments {
			if len(fragment.Embedding) == 0 {
				continue
			}
			entries = append(entries, domain.IndexEntry{
				FragmentID: fragment.ID,
				DocumentID: docID,
				Ordinal:    fragment.Ordinal,
				Text:       fragment.Text,
				Vector:     fragment.Embedding,
			})
		}
	}
	return entries, nil
}

// DeleteDocument removes a document and its fragments.
func (s *DocumentStore) DeleteDocument(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.documents, id)
	delete(s.fragments, id)
	return nil
}
