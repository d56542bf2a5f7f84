package services

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/docuchat-labs/retrieval-cli/internal/adapters/driven/storage/memory"
	"github.com/docuchat-labs/retrieval-cli/internal/core/domain"
)

func newTestDocumentService(t *testing.T) (*DocumentService, *memory.DocumentStore) {
	t.Helper()
	store := memory.NewDocumentStore()
	return NewDocumentService(store), store
}

func TestDocumentService_List(t *testing.T) {
	svc, store := newTestDocumentService(t)
	ctx := context.Background()

	require.NoError(t, store.SaveDocument(ctx, &domain.Document{ID: "doc-1"}))
	require.NoError(t, store.SaveDocument(ctx, &domain.Document{ID: "doc-2"}))

	docs, err := svc.List(ctx)
	require.NoError(t, err)
	assert.Len(t, docs, 2)
}

func TestDocumentService_Get_NotFound(t *testing.T) {
	svc, _ := newTestDocumentService(t)

	_, err := svc.Get(context.Background(), "missing")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestDocumentService_Content_ReconstructsFromFragments(t *testing.T) {
	svc, store := newTestDocumentService(t)
	ctx := context.Background()

	require.NoError(t, store.SaveDocument(ctx, &domain.Document{ID: "doc-1"}))
	// Overlapping spans: [0,10), [7,17), [14,20) over "abcdefghijklmnopqrst".
	full := "abcdefghijklmnopqrst"
	require.NoError(t, store.SaveFragments(ctx, []domain.Fragment{
		{ID: "f2", DocumentID: "doc-1", Ordinal: 1, Start: 7, End: 17, Text: full[7:17]},
		{ID: "f1", DocumentID: "doc-1", Ordinal: 0, Start: 0, End: 10, Text: full[0:10]},
		{ID: "f3", DocumentID: "doc-1", Ordinal: 2, Start: 14, End: 20, Text: full[14:20]},
	}))

	content, err := svc.Content(ctx, "doc-1")
	require.NoError(t, err)
	assert.Equal(t, full, content)
}

func TestDocumentService_Content_FallsBackToStoredContent(t *testing.T) {
	svc, store := newTestDocumentService(t)
	ctx := context.Background()

	require.NoError(t, store.SaveDocument(ctx, &domain.Document{
		ID:      "doc-1",
		Content: "Original stored text.",
	}))

	content, err := svc.Content(ctx, "doc-1")
	require.NoError(t, err)
	assert.Equal(t, "Original stored text.", content)
}

func TestDocumentService_Content_UnknownDocument(t *testing.T) {
	svc, _ := newTestDocumentService(t)

	_, err := svc.Content(context.Background(), "missing")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestDocumentService_Cite_Styles(t *testing.T) {
	svc, store := newTestDocumentService(t)
	ctx := context.Background()

	created := time.Date(2024, time.March, 15, 0, 0, 0, 0, time.UTC)
	require.NoError(t, store.SaveDocument(ctx, &domain.Document{
		ID:        "doc-1",
		Title:     "Annual Report",
		FileType:  "pdf",
		Content:   "Annual Report\nWritten by: Jane Maria Smith\n\nBody text follows.",
		CreatedAt: created,
	}))

	apa, err := svc.Cite(ctx, "doc-1", "apa")
	require.NoError(t, err)
	assert.Contains(t, apa, "Smith, J.M.")
	assert.Contains(t, apa, "(2024)")
	assert.Contains(t, apa, "Annual Report")
	assert.Contains(t, apa, "[PDF file]")

	mla, err := svc.Cite(ctx, "doc-1", "mla")
	require.NoError(t, err)
	assert.Contains(t, mla, "Smith, Jane Maria")
	assert.Contains(t, mla, `"Annual Report"`)

	chicago, err := svc.Cite(ctx, "doc-1", "chicago")
	require.NoError(t, err)
	assert.Contains(t, chicago, "Jane Maria Smith")
	assert.Contains(t, chicago, "March 15, 2024")

	harvard, err := svc.Cite(ctx, "doc-1", "harvard")
	require.NoError(t, err)
	assert.Contains(t, harvard, "Smith, J.M.")
	assert.Contains(t, harvard, "'Annual Report'")

	// Unknown styles fall back to APA.
	fallback, err := svc.Cite(ctx, "doc-1", "ieee")
	require.NoError(t, err)
	assert.Equal(t, apa, fallback)
}

func TestDocumentService_Cite_UnknownAuthor(t *testing.T) {
	svc, store := newTestDocumentService(t)
	ctx := context.Background()

	require.NoError(t, store.SaveDocument(ctx, &domain.Document{
		ID:        "doc-1",
		Title:     "Notes",
		FileType:  "text",
		Content:   "12345 67890 !!!",
		CreatedAt: time.Date(2023, time.June, 1, 0, 0, 0, 0, time.UTC),
	}))

	citation, err := svc.Cite(ctx, "doc-1", "apa")
	require.NoError(t, err)
	assert.Contains(t, citation, "Unknown Author")
	assert.NotContains(t, citation, "[")
}

func TestDocumentService_Cite_NotFound(t *testing.T) {
	svc, _ := newTestDocumentService(t)

	_, err := svc.Cite(context.Background(), "missing", "apa")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestExtractAuthor(t *testing.T) {
	tests := []struct {
		name    string
		content string
		want    string
	}{
		{"written by line", "Report\nWritten by: Ada Lovelace\nBody.", "Ada Lovelace"},
		{"author line", "Author: Grace Hopper\nText.", "Grace Hopper"},
		{"prepared by", "Prepared by Alan Turing\nfor review.", "Alan Turing"},
		{"name line near top", "Quarterly Summary\nJohn Smith\nMore text here 123.", "Quarterly Summary"},
		{"empty", "", "Unknown Author"},
		{"no author", "12345\n!!!###\n", "Unknown Author"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, extractAuthor(tt.content))
		})
	}
}

func TestFormatAuthorInitials(t *testing.T) {
	assert.Equal(t, "Smith, J.", formatAuthorInitials("Jane Smith"))
	assert.Equal(t, "Smith, J.M.", formatAuthorInitials("Jane Maria Smith"))
	assert.Equal(t, "Plato", formatAuthorInitials("Plato"))
	assert.Equal(t, "Unknown Author", formatAuthorInitials("Unknown Author"))
}

func TestFormatAuthorLastFirst(t *testing.T) {
	assert.Equal(t, "Smith, Jane", formatAuthorLastFirst("Jane Smith"))
	assert.Equal(t, "Smith, Jane Maria", formatAuthorLastFirst("Jane Maria Smith"))
	assert.Equal(t, "Plato", formatAuthorLastFirst("Plato"))
}
