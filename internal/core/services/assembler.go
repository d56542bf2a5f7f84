package services

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/docuchat-labs/retrieval-cli/internal/core/domain"
	"github.com/docuchat-labs/retrieval-cli/internal/core/ports/driving"
	"github.com/docuchat-labs/retrieval-cli/internal/logger"
)

// Ensure ContextAssembler implements the interface.
var _ driving.Assembler = (*ContextAssembler)(nil)

// DefaultContextBudget is the default maximum assembled context size in runes.
const DefaultContextBudget = 4000

// fragmentSeparator joins accepted fragments. Separators do not count
// against the context budget; only fragment text does.
const fragmentSeparator = "\n\n"

// ContextAssembler turns ranked fragments into a bounded prompt-context
// payload with citation metadata for the downstream completion call.
type ContextAssembler struct{}

// NewContextAssembler creates a context assembler.
func NewContextAssembler() *ContextAssembler {
	return &ContextAssembler{}
}

// Assemble greedily accepts fragments in rank order, accumulating text until
// adding the next fragment would exceed maxContextSize runes. The first
// fragment is always included even when it alone exceeds the budget;
// fragments are never split to fit. Duplicate document+ordinal pairs are
// dropped before the budget check. Empty input yields empty context and
// citations without error.
func (a *ContextAssembler) Assemble(ranked []domain.SearchResult, maxContextSize int) (string, []domain.Citation, error) {
	if maxContextSize <= 0 {
		return "", nil, fmt.Errorf("%w: context budget must be positive, got %d", domain.ErrInvalidConfig, maxContextSize)
	}
	if len(ranked) == 0 {
		return "", nil, nil
	}

	type key struct {
		documentID string
		ordinal    int
	}
	seen := make(map[key]struct{}, len(ranked))

	var parts []string
	var citations []domain.Citation
	used := 0

	for i := range ranked {
		r := &ranked[i]

		k := key{documentID: r.DocumentID, ordinal: r.Ordinal}
		if _, dup := seen[k]; dup {
			logger.Debug("Skipping duplicate fragment %s#%d", r.DocumentID, r.Ordinal)
			continue
		}

		size := utf8.RuneCountInString(r.Text)
		if len(parts) > 0 && used+size > maxContextSize {
			break
		}
		seen[k] = struct{}{}

		parts = append(parts, r.Text)
		used += size
		citations = append(citations, domain.Citation{
			FragmentID:    r.FragmentID,
			DocumentID:    r.DocumentID,
			DocumentTitle: r.DocumentTitle,
			Ordinal:       r.Ordinal,
			Start:         r.Start,
			End:           r.End,
		})
	}

	logger.Debug("Assembled context: %d fragments, %d/%d runes", len(parts), used, maxContextSize)
	return strings.Join(parts, fragmentSeparator), citations, nil
}
