// Package fragmenter splits document text into overlapping fragments sized
// for the embedding budget. The length unit is Unicode code points (runes):
// spans are rune offsets into the document content.
package fragmenter

import (
	"fmt"

	"github.com/google/uuid"

	"github.com/docuchat-labs/retrieval-cli/internal/core/domain"
)

// DefaultMaxSize is the default fragment size in runes.
const DefaultMaxSize = 1000

// DefaultOverlap is the default number of overlapping runes between
// consecutive fragments.
const DefaultOverlap = 100

// DefaultBacktrack is the default window, in runes, searched backwards from
// the hard cutoff for a sentence or paragraph boundary.
const DefaultBacktrack = 200

// Fragmenter splits text into overlapping fragments, preferring to cut at
// sentence or paragraph boundaries near the size limit.
type Fragmenter struct {
	maxSize   int
	overlap   int
	backtrack int
}

// Option configures the fragmenter.
type Option func(*Fragmenter)

// WithMaxSize sets the fragment size in runes.
func WithMaxSize(size int) Option {
	return func(f *Fragmenter) {
		f.maxSize = size
	}
}

// WithOverlap sets the overlap between consecutive fragments in runes.
func WithOverlap(overlap int) Option {
	return func(f *Fragmenter) {
		f.overlap = overlap
	}
}

// WithBacktrack sets the boundary search window in runes.
func WithBacktrack(window int) Option {
	return func(f *Fragmenter) {
		f.backtrack = window
	}
}

// New creates a fragmenter. Parameters are validated, not clamped:
// maxSize and overlap must be positive with overlap < maxSize.
func New(opts ...Option) (*Fragmenter, error) {
	f := &Fragmenter{
		maxSize:   DefaultMaxSize,
		overlap:   DefaultOverlap,
		backtrack: DefaultBacktrack,
	}

	for _, opt := range opts {
		opt(f)
	}

	if f.maxSize <= 0 {
		return nil, fmt.Errorf("%w: fragment size must be positive, got %d", domain.ErrInvalidConfig, f.maxSize)
	}
	if f.overlap <= 0 {
		return nil, fmt.Errorf("%w: overlap must be positive, got %d", domain.ErrInvalidConfig, f.overlap)
	}
	if f.overlap >= f.maxSize {
		return nil, fmt.Errorf("%w: overlap %d must be smaller than fragment size %d",
			domain.ErrInvalidConfig, f.overlap, f.maxSize)
	}
	if f.backtrack < 0 {
		return nil, fmt.Errorf("%w: backtrack window must not be negative, got %d", domain.ErrInvalidConfig, f.backtrack)
	}

	return f, nil
}

// MaxSize returns the configured fragment size in runes.
func (f *Fragmenter) MaxSize() int { return f.maxSize }

// Overlap returns the configured overlap in runes.
func (f *Fragmenter) Overlap() int { return f.overlap }

// FragmentDocument splits the document content into ordered fragments.
// Each fragment after the first starts overlap runes before the previous
// fragment's end, so consecutive fragments share exactly overlap runes.
// Empty content produces no fragments; this is not an error.
func (f *Fragmenter) FragmentDocument(doc *domain.Document) []domain.Fragment {
	if doc.Content == "" {
		return nil
	}

	runes := []rune(doc.Content)
	total := len(runes)

	estimated := total/(f.maxSize-f.overlap) + 1
	fragments := make([]domain.Fragment, 0, estimated)

	start := 0
	ordinal := 0

	for {
		end := start + f.maxSize
		if end >= total {
			end = total
		} else {
			end = f.cut(runes, start, end)
		}

		fragments = append(fragments, domain.Fragment{
			ID:         uuid.New().String(),
			DocumentID: doc.ID,
			Ordinal:    ordinal,
			Start:      start,
			End:        end,
			Text:       string(runes[start:end]),
		})

		if end == total {
			break
		}

		start = end - f.overlap
		ordinal++
	}

	return fragments
}

// cut picks the fragment end at or before the hard cutoff, preferring a
// sentence or paragraph boundary within the backtrack window. The window
// never reaches back past start+overlap, so every fragment keeps more text
// than the overlap and the split always makes forward progress.
func (f *Fragmenter) cut(runes []rune, start, hardEnd int) int {
	floor := hardEnd - f.backtrack
	if min := start + f.overlap + 1; floor < min {
		floor = min
	}

	for i := hardEnd; i > floor; i-- {
		if !isTerminator(runes[i-1]) {
			continue
		}
		if i == len(runes) || runes[i] == ' ' || runes[i] == '\n' {
			return i
		}
	}

	return hardEnd
}

// isTerminator reports whether r ends a sentence or paragraph.
func isTerminator(r rune) bool {
	return r == '.' || r == '?' || r == '!' || r == '\n'
}
