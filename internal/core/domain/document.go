package domain

import (
	"strings"
	"time"
)

// Document is the unit of ingestion: a record's decoded plain text plus
// the metadata needed to attribute retrieved fragments back to it.
// Documents are immutable once stored; re-ingesting content is a
// delete-then-insert, never an in-place update.
type Document struct {
	// ID is the unique identifier for the document.
	ID string

	// URI is the original location (file path, upload name, etc).
	URI string

	// Title is the human-readable title.
	Title string

	// FileType is the source file type ("pdf", "word", "text", "other").
	FileType string

	// Content is the full decoded text before fragmentation.
	Content string

	// CreatedAt is when the document was ingested.
	CreatedAt time.Time
}

// Fragment is a contiguous, possibly overlapping slice of a document's
// text. It is the unit of indexing and retrieval.
//
// Start and End are rune offsets into the document content, half-open
// [Start, End). Fragments ordered by Ordinal reconstruct the original
// text once overlaps are stripped.
type Fragment struct {
	// ID is the unique identifier for the fragment.
	ID string

	// DocumentID links to the owning Document.
	DocumentID string

	// Ordinal is the position within the document, starting at 0.
	Ordinal int

	// Start is the inclusive rune offset of the fragment in the document.
	Start int

	// End is the exclusive rune offset of the fragment in the document.
	End int

	// Text is the fragment content.
	Text string

	// Embedding is the vector representation, nil until vectorized or
	// when vectorization failed for this fragment.
	Embedding []float32
}

// IndexEntry pairs a fragment's identity and metadata with its vector.
// The vector index is the exclusive owner of all stored entries.
type IndexEntry struct {
	FragmentID string
	DocumentID string
	Ordinal    int
	Text       string
	Vector     []float32
}

// FileTypeFromExtension maps a file extension to a document file type.
func FileTypeFromExtension(ext string) string {
	switch strings.ToLower(ext) {
	case ".pdf":
		return "pdf"
	case ".doc", ".docx":
		return "word"
	case ".txt", ".md":
		return "text"
	default:
		return "other"
	}
}
