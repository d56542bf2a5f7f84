package services

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/docuchat-labs/retrieval-cli/internal/core/domain"
	"github.com/docuchat-labs/retrieval-cli/internal/core/ports/driven"
	"github.com/docuchat-labs/retrieval-cli/internal/core/ports/driving"
)

// Ensure DocumentService implements the interface.
var _ driving.DocumentService = (*DocumentService)(nil)

// DocumentService exposes read operations over stored documents.
type DocumentService struct {
	docStore driven.DocumentStore
}

// NewDocumentService creates a document service.
func NewDocumentService(docStore driven.DocumentStore) *DocumentService {
	return &DocumentService{docStore: docStore}
}

// List returns all stored documents.
func (s *DocumentService) List(ctx context.Context) ([]domain.Document, error) {
	return s.docStore.ListDocuments(ctx)
}

// Get retrieves a document by ID.
func (s *DocumentService) Get(ctx context.Context, documentID string) (*domain.Document, error) {
	return s.docStore.GetDocument(ctx, documentID)
}

// Content reconstructs the full document text from its fragments. Each
// fragment's contribution starts where the previous fragment ended, so the
// shared overlap appears exactly once. Falls back to the stored content
// when the document has no fragments.
func (s *DocumentService) Content(ctx context.Context, documentID string) (string, error) {
	doc, err := s.docStore.GetDocument(ctx, documentID)
	if err != nil {
		return "", err
	}

	fragments, err := s.docStore.GetFragments(ctx, documentID)
	if err != nil {
		return "", err
	}
	if len(fragments) == 0 {
		return doc.Content, nil
	}

	sort.Slice(fragments, func(i, j int) bool {
		return fragments[i].Ordinal < fragments[j].Ordinal
	})

	var builder strings.Builder
	prevEnd := 0
	for i := range fragments {
		f := &fragments[i]
		runes := []rune(f.Text)
		skip := prevEnd - f.Start
		if skip < 0 {
			skip = 0
		}
		if skip > len(runes) {
			skip = len(runes)
		}
		builder.WriteString(string(runes[skip:]))
		prevEnd = f.End
	}

	return builder.String(), nil
}

// Cite formats a citation for the document in the given style.
// Supported styles: apa, mla, chicago, harvard. Unknown styles fall back
// to APA.
func (s *DocumentService) Cite(ctx context.Context, documentID, style string) (string, error) {
	doc, err := s.docStore.GetDocument(ctx, documentID)
	if err != nil {
		return "", err
	}

	author := extractAuthor(doc.Content)

	switch strings.ToLower(style) {
	case "mla":
		return mlaCitation(doc, author), nil
	case "chicago":
		return chicagoCitation(doc, author), nil
	case "harvard":
		return harvardCitation(doc, author), nil
	default:
		return apaCitation(doc, author), nil
	}
}

// fileTypeLabel returns the bracketed file type marker used in citations,
// empty for plain text documents.
func fileTypeLabel(doc *domain.Document) string {
	switch doc.FileType {
	case "pdf":
		return "PDF"
	case "word":
		return "DOCX"
	default:
		return ""
	}
}

func apaCitation(doc *domain.Document, author string) string {
	citation := fmt.Sprintf("%s (%s). %s", formatAuthorInitials(author), doc.CreatedAt.Format("2006"), doc.Title)
	if label := fileTypeLabel(doc); label != "" {
		citation += fmt.Sprintf(" [%s file]", label)
	}
	return citation
}

func mlaCitation(doc *domain.Document, author string) string {
	citation := fmt.Sprintf("%s. %q", formatAuthorLastFirst(author), doc.Title)
	if label := fileTypeLabel(doc); label != "" {
		citation += fmt.Sprintf(", %s", label)
	}
	citation += fmt.Sprintf(", %s", doc.CreatedAt.Format("02 Jan. 2006"))
	return citation
}

func chicagoCitation(doc *domain.Document, author string) string {
	citation := fmt.Sprintf("%s. %q", author, doc.Title)
	if label := fileTypeLabel(doc); label != "" {
		citation += fmt.Sprintf(" %s file", label)
	}
	citation += fmt.Sprintf(", %s.", doc.CreatedAt.Format("January 2, 2006"))
	return citation
}

func harvardCitation(doc *domain.Document, author string) string {
	citation := fmt.Sprintf("%s %s, '%s'", formatAuthorInitials(author), doc.CreatedAt.Format("2006"), doc.Title)
	if label := fileTypeLabel(doc); label != "" {
		citation += fmt.Sprintf(", %s file", label)
	}
	return citation
}

// formatAuthorInitials formats "First Middle Last" as "Last, F.M.".
func formatAuthorInitials(author string) string {
	parts := strings.Fields(author)
	if len(parts) < 2 || author == unknownAuthor {
		return author
	}
	last := parts[len(parts)-1]
	var initials strings.Builder
	for _, name := range parts[:len(parts)-1] {
		initials.WriteString(name[:1] + ".")
	}
	return fmt.Sprintf("%s, %s", last, initials.String())
}

// formatAuthorLastFirst formats "First Last" as "Last, First".
func formatAuthorLastFirst(author string) string {
	parts := strings.Fields(author)
	if len(parts) < 2 || author == unknownAuthor {
		return author
	}
	last := parts[len(parts)-1]
	return fmt.Sprintf("%s, %s", last, strings.Join(parts[:len(parts)-1], " "))
}
