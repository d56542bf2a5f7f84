package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestDocument_Fields(t *testing.T) {
	created := time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)
	doc := Document{
		ID:        "doc-1",
		URI:       "/home/user/notes/report.md",
		Title:     "report",
		FileType:  "text",
		Content:   "Quarterly numbers are up.",
		CreatedAt: created,
	}

	assert.Equal(t, "doc-1", doc.ID)
	assert.Equal(t, "/home/user/notes/report.md", doc.URI)
	assert.Equal(t, "text", doc.FileType)
	assert.Equal(t, created, doc.CreatedAt)
}

func TestFragment_HalfOpenSpan(t *testing.T) {
	content := "abcdefghij"
	frag := Fragment{
		ID:         "frag-1",
		DocumentID: "doc-1",
		Ordinal:    0,
		Start:      2,
		End:        7,
		Text:       "cdefg",
	}

	runes := []rune(content)
	assert.Equal(t, string(runes[frag.Start:frag.End]), frag.Text)
	assert.Equal(t, frag.End-frag.Start, len([]rune(frag.Text)))
}

func TestFragment_NilEmbedding(t *testing.T) {
	frag := Fragment{ID: "frag-1", DocumentID: "doc-1", Text: "unvectorized"}
	assert.Nil(t, frag.Embedding)
}

func TestIndexEntry_Fields(t *testing.T) {
	entry := IndexEntry{
		FragmentID: "frag-3",
		DocumentID: "doc-1",
		Ordinal:    3,
		Text:       "some fragment text",
		Vector:     []float32{0.1, 0.2, 0.3},
	}

	assert.Equal(t, "frag-3", entry.FragmentID)
	assert.Len(t, entry.Vector, 3)
}

func TestSearchResult_Fields(t *testing.T) {
	result := SearchResult{
		FragmentID:    "frag-2",
		DocumentID:    "doc-1",
		DocumentTitle: "report",
		Ordinal:       2,
		Start:         500,
		End:           800,
		Text:          "matched text",
		Score:         0.92,
		Rank:          1,
	}

	assert.Equal(t, 1, result.Rank)
	assert.InDelta(t, 0.92, result.Score, 1e-9)
	assert.Equal(t, "report", result.DocumentTitle)
}
