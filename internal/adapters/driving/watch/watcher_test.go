package watch

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/docuchat-labs/retrieval-cli/internal/adapters/driven/storage/memory"
	"github.com/docuchat-labs/retrieval-cli/internal/core/domain"
)

// recordingRetriever records calls and mirrors documents into the store so
// FindByURI sees what was ingested.
type recordingRetriever struct {
	store    *memory.DocumentStore
	ingested []*domain.Document
	removed  []string
}

func (r *recordingRetriever) IngestDocument(ctx context.Context, doc *domain.Document) (*domain.IngestOutcome, error) {
	r.ingested = append(r.ingested, doc)
	if err := r.store.SaveDocument(ctx, doc); err != nil {
		return nil, err
	}
	return &domain.IngestOutcome{
		DocumentID:    doc.ID,
		FragmentCount: 1,
		Succeeded:     []int{0},
	}, nil
}

func (r *recordingRetriever) RemoveDocument(ctx context.Context, documentID string) error {
	r.removed = append(r.removed, documentID)
	return r.store.DeleteDocument(ctx, documentID)
}

func (r *recordingRetriever) RetrieveContext(_ context.Context, _ string, _ int, _ []string) ([]domain.SearchResult, error) {
	return nil, nil
}

func newTestWatcher(t *testing.T) (*Watcher, *recordingRetriever) {
	t.Helper()
	store := memory.NewDocumentStore()
	retriever := &recordingRetriever{store: store}
	return New(retriever, store), retriever
}

func TestIngestFile(t *testing.T) {
	w, retriever := newTestWatcher(t)
	ctx := context.Background()

	path := filepath.Join(t.TempDir(), "dropped.txt")
	require.NoError(t, os.WriteFile(path, []byte("Dropped document text."), 0600))

	require.NoError(t, w.IngestFile(ctx, path))

	require.Len(t, retriever.ingested, 1)
	doc := retriever.ingested[0]
	assert.Equal(t, "dropped", doc.Title)
	assert.Equal(t, "text", doc.FileType)
	assert.Equal(t, "Dropped document text.", doc.Content)
	assert.Equal(t, path, doc.URI)
}

func TestIngestFile_ReingestKeepsDocumentID(t *testing.T) {
	w, retriever := newTestWatcher(t)
	ctx := context.Background()

	path := filepath.Join(t.TempDir(), "dropped.md")
	require.NoError(t, os.WriteFile(path, []byte("v1"), 0600))
	require.NoError(t, w.IngestFile(ctx, path))
	firstID := retriever.ingested[0].ID

	require.NoError(t, os.WriteFile(path, []byte("v2"), 0600))
	require.NoError(t, w.IngestFile(ctx, path))

	require.Len(t, retriever.ingested, 2)
	assert.Equal(t, []string{firstID}, retriever.removed)
	assert.Equal(t, firstID, retriever.ingested[1].ID)
	assert.Equal(t, "v2", retriever.ingested[1].Content)
}

func TestIngestFile_MissingFile(t *testing.T) {
	w, _ := newTestWatcher(t)

	err := w.IngestFile(context.Background(), "/nonexistent/file.txt")
	assert.Error(t, err)
}

func TestRemoveFile(t *testing.T) {
	w, retriever := newTestWatcher(t)
	ctx := context.Background()

	path := filepath.Join(t.TempDir(), "dropped.txt")
	require.NoError(t, os.WriteFile(path, []byte("text"), 0600))
	require.NoError(t, w.IngestFile(ctx, path))
	docID := retriever.ingested[0].ID

	require.NoError(t, w.RemoveFile(ctx, path))
	assert.Equal(t, []string{docID}, retriever.removed)
}

func TestRemoveFile_NeverIngested(t *testing.T) {
	w, retriever := newTestWatcher(t)

	err := w.RemoveFile(context.Background(), "/tmp/never-seen.txt")

	assert.NoError(t, err)
	assert.Empty(t, retriever.removed)
}

func TestRun_StopsOnContextCancel(t *testing.T) {
	w, _ := newTestWatcher(t)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := w.Run(ctx, t.TempDir())
	assert.ErrorIs(t, err, context.Canceled)
}
