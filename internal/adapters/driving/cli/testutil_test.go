package cli

import (
	"context"

	"github.com/docuchat-labs/retrieval-cli/internal/adapters/driven/storage/memory"
	"github.com/docuchat-labs/retrieval-cli/internal/core/domain"
)

// fakeRetriever is a canned driving.Retriever for command tests.
type fakeRetriever struct {
	results  []domain.SearchResult
	removed  []string
	ingested []*domain.Document
	lastK    int
}

func (f *fakeRetriever) IngestDocument(_ context.Context, doc *domain.Document) (*domain.IngestOutcome, error) {
	f.ingested = append(f.ingested, doc)
	return &domain.IngestOutcome{
		DocumentID:    doc.ID,
		FragmentCount: 2,
		Succeeded:     []int{0, 1},
	}, nil
}

func (f *fakeRetriever) RemoveDocument(_ context.Context, documentID string) error {
	f.removed = append(f.removed, documentID)
	return nil
}

func (f *fakeRetriever) RetrieveContext(_ context.Context, _ string, k int, _ []string) ([]domain.SearchResult, error) {
	f.lastK = k
	return f.results, nil
}

// fakeAssembler joins result texts without any budget logic.
type fakeAssembler struct {
	lastBudget int
}

func (f *fakeAssembler) Assemble(ranked []domain.SearchResult, maxContextSize int) (string, []domain.Citation, error) {
	f.lastBudget = maxContextSize
	var text string
	citations := make([]domain.Citation, 0, len(ranked))
	for _, r := range ranked {
		if text != "" {
			text += "\n\n"
		}
		text += r.Text
		citations = append(citations, domain.Citation{
			FragmentID:    r.FragmentID,
			DocumentID:    r.DocumentID,
			DocumentTitle: r.DocumentTitle,
			Ordinal:       r.Ordinal,
			Start:         r.Start,
			End:           r.End,
		})
	}
	return text, citations, nil
}

// fakeDocuments is a canned driving.DocumentService.
type fakeDocuments struct {
	docs map[string]domain.Document
}

func (f *fakeDocuments) List(_ context.Context) ([]domain.Document, error) {
	var out []domain.Document
	for _, d := range f.docs {
		out = append(out, d)
	}
	return out, nil
}

func (f *fakeDocuments) Get(_ context.Context, documentID string) (*domain.Document, error) {
	doc, ok := f.docs[documentID]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return &doc, nil
}

func (f *fakeDocuments) Content(_ context.Context, documentID string) (string, error) {
	doc, err := f.Get(context.Background(), documentID)
	if err != nil {
		return "", err
	}
	return doc.Content, nil
}

func (f *fakeDocuments) Cite(_ context.Context, documentID, _ string) (string, error) {
	doc, err := f.Get(context.Background(), documentID)
	if err != nil {
		return "", err
	}
	return doc.Title + " [PDF document]", nil
}

// setupTestServices wires fakes into the package-level services and
// returns a cleanup that restores the previous wiring.
func setupTestServices() func() {
	oldRetriever := retrieverService
	oldAssembler := assemblerService
	oldDocuments := documentService
	oldStore := documentStore

	retrieverService = &fakeRetriever{
		results: []domain.SearchResult{
			{
				FragmentID:    "frag-1",
				DocumentID:    "doc-1",
				DocumentTitle: "Test Document",
				Ordinal:       0,
				Start:         0,
				End:           42,
				Text:          "The relevant fragment text.",
				Score:         0.91,
				Rank:          1,
			},
		},
	}
	assemblerService = &fakeAssembler{}
	documentService = &fakeDocuments{
		docs: map[string]domain.Document{
			"doc-1": {ID: "doc-1", Title: "Test Document", URI: "/tmp/test.txt", FileType: "text", Content: "Full content."},
		},
	}
	documentStore = memory.NewDocumentStore()

	return func() {
		retrieverService = oldRetriever
		assemblerService = oldAssembler
		documentService = oldDocuments
		documentStore = oldStore
	}
}
