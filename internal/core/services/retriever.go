package services

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"golang.org/x/time/rate"

	"github.com/docuchat-labs/retrieval-cli/internal/core/domain"
	"github.com/docuchat-labs/retrieval-cli/internal/core/ports/driven"
	"github.com/docuchat-labs/retrieval-cli/internal/core/ports/driving"
	"github.com/docuchat-labs/retrieval-cli/internal/fragmenter"
	"github.com/docuchat-labs/retrieval-cli/internal/logger"
)

// Ensure RetrieverService implements the interface.
var _ driving.Retriever = (*RetrieverService)(nil)

// Default tuning values.
const (
	// DefaultFanout bounds the simultaneous outstanding embedding calls
	// during ingestion of one document.
	DefaultFanout = 4

	// DefaultTopK is the number of fragments retrieved per query.
	DefaultTopK = 3

	// DefaultQueryTimeout bounds the embedding call for a query so
	// retrieval fails fast instead of hanging the caller.
	DefaultQueryTimeout = 30 * time.Second
)

// RetrieverService orchestrates fragmentation and indexing on ingest, and
// similarity search on query.
type RetrieverService struct {
	frag         *fragmenter.Fragmenter
	embedder     driven.Embedder
	index        driven.VectorIndex
	docStore     driven.DocumentStore
	fanout       int
	limiter      *rate.Limiter
	queryTimeout time.Duration
}

// RetrieverOption configures the retriever service.
type RetrieverOption func(*RetrieverService)

// WithFanout bounds simultaneous embedding calls during ingestion.
func WithFanout(n int) RetrieverOption {
	return func(s *RetrieverService) {
		if n > 0 {
			s.fanout = n
		}
	}
}

// WithRateLimit throttles embedding calls to perSec requests per second to
// respect the provider's rate limits. Zero disables throttling.
func WithRateLimit(perSec float64) RetrieverOption {
	return func(s *RetrieverService) {
		if perSec > 0 {
			s.limiter = rate.NewLimiter(rate.Limit(perSec), 1)
		}
	}
}

// WithQueryTimeout bounds the embedding call for query text.
func WithQueryTimeout(d time.Duration) RetrieverOption {
	return func(s *RetrieverService) {
		if d > 0 {
			s.queryTimeout = d
		}
	}
}

// NewRetrieverService creates a retriever service.
func NewRetrieverService(
	frag *fragmenter.Fragmenter,
	embedder driven.Embedder,
	index driven.VectorIndex,
	docStore driven.DocumentStore,
	opts ...RetrieverOption,
) *RetrieverService {
	s := &RetrieverService{
		frag:         frag,
		embedder:     embedder,
		index:        index,
		docStore:     docStore,
		fanout:       DefaultFanout,
		queryTimeout: DefaultQueryTimeout,
	}

	for _, opt := range opts {
		opt(s)
	}

	return s
}

// IngestDocument fragments the document, vectorizes each fragment
// concurrently up to the fan-out limit, and inserts every successful
// (fragment, vector) pair into the index in one atomic batch. Insert only
// happens once all per-fragment attempts have resolved, so an abandoned
// ingestion never leaves a partial batch visible to queries.
func (s *RetrieverService) IngestDocument(ctx context.Context, doc *domain.Document) (*domain.IngestOutcome, error) {
	if s.embedder == nil {
		return nil, domain.ErrEmbedderUnavailable
	}

	logger.Section("Ingest")
	logger.Debug("Document %s (%s): %d bytes", doc.ID, doc.Title, len(doc.Content))

	if doc.CreatedAt.IsZero() {
		doc.CreatedAt = time.Now().UTC()
	}

	fragments := s.frag.FragmentDocument(doc)
	outcome := &domain.IngestOutcome{
		DocumentID:    doc.ID,
		FragmentCount: len(fragments),
	}

	logger.Debug("Fragmented into %d fragments", len(fragments))

	if len(fragments) == 0 {
		// Empty content: store the record, nothing to index.
		if err := s.docStore.SaveDocument(ctx, doc); err != nil {
			return outcome, fmt.Errorf("save document: %w", err)
		}
		return outcome, nil
	}

	vectors, errs := s.embedAll(ctx, fragments)

	dim := s.index.Dimensions()
	entries := make([]domain.IndexEntry, 0, len(fragments))

	for i := range fragments {
		if errs[i] != nil {
			outcome.Failed = append(outcome.Failed, domain.FragmentFailure{
				Ordinal:  fragments[i].Ordinal,
				Category: domain.Categorize(errs[i]),
				Err:      errs[i],
			})
			logger.Warn("Fragment %d failed: %v", fragments[i].Ordinal, errs[i])
			continue
		}

		// Dimensionality is discovered from the first vector accepted.
		if dim == 0 {
			dim = len(vectors[i])
		}
		if len(vectors[i]) != dim {
			err := &domain.DimensionError{Want: dim, Got: len(vectors[i])}
			outcome.Failed = append(outcome.Failed, domain.FragmentFailure{
				Ordinal:  fragments[i].Ordinal,
				Category: domain.FailureDimension,
				Err:      err,
			})
			logger.Warn("Fragment %d excluded: %v", fragments[i].Ordinal, err)
			continue
		}

		fragments[i].Embedding = vectors[i]
		outcome.Succeeded = append(outcome.Succeeded, fragments[i].Ordinal)
		entries = append(entries, domain.IndexEntry{
			FragmentID: fragments[i].ID,
			DocumentID: fragments[i].DocumentID,
			Ordinal:    fragments[i].Ordinal,
			Text:       fragments[i].Text,
			Vector:     vectors[i],
		})
	}

	if len(entries) == 0 {
		return outcome, fmt.Errorf("%w: 0 of %d fragments vectorized", domain.ErrIngestionFailed, len(fragments))
	}

	if err := s.index.Insert(ctx, entries); err != nil {
		return outcome, fmt.Errorf("insert entries: %w", err)
	}

	if err := s.docStore.SaveDocument(ctx, doc); err != nil {
		return outcome, fmt.Errorf("save document: %w", err)
	}
	if err := s.docStore.SaveFragments(ctx, fragments); err != nil {
		return outcome, fmt.Errorf("save fragments: %w", err)
	}

	logger.Info("Ingested %s: %d/%d fragments indexed", doc.ID, len(outcome.Succeeded), len(fragments))
	return outcome, nil
}

// embedAll vectorizes fragments concurrently, bounded by the fan-out limit
// and the rate limiter. All attempts resolve before it returns.
func (s *RetrieverService) embedAll(ctx context.Context, fragments []domain.Fragment) ([][]float32, []error) {
	vectors := make([][]float32, len(fragments))
	errs := make([]error, len(fragments))

	sem := make(chan struct{}, s.fanout)
	var wg sync.WaitGroup

	for i := range fragments {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()

			sem <- struct{}{}
			defer func() { <-sem }()

			if s.limiter != nil {
				if err := s.limiter.Wait(ctx); err != nil {
					errs[i] = err
					return
				}
			}

			vectors[i], errs[i] = s.embedder.Embed(ctx, fragments[i].Text)
		}(i)
	}

	wg.Wait()
	return vectors, errs
}

// RemoveDocument evicts all index entries for the document and deletes the
// stored record. Idempotent: removing an absent document is a no-op success.
func (s *RetrieverService) RemoveDocument(ctx context.Context, documentID string) error {
	if err := s.index.DeleteByDocument(ctx, documentID); err != nil {
		return fmt.Errorf("delete from index: %w", err)
	}
	if err := s.docStore.DeleteDocument(ctx, documentID); err != nil {
		return fmt.Errorf("delete document: %w", err)
	}
	logger.Debug("Removed document %s", documentID)
	return nil
}

// RetrieveContext vectorizes the query under the configured timeout and
// returns up to k ranked fragments, optionally scoped to document IDs.
func (s *RetrieverService) RetrieveContext(ctx context.Context, query string, k int, scope []string) ([]domain.SearchResult, error) {
	if s.embedder == nil {
		return nil, domain.ErrEmbedderUnavailable
	}

	logger.Section("Retrieve")
	logger.Debug("Query: %q, k=%d, scope=%v", query, k, scope)

	query = strings.TrimSpace(query)
	if query == "" {
		return []domain.SearchResult{}, nil
	}
	if k <= 0 {
		k = DefaultTopK
	}

	embedCtx, cancel := context.WithTimeout(ctx, s.queryTimeout)
	defer cancel()

	queryVec, err := s.embedder.Embed(embedCtx, query)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", domain.ErrQueryEmbedding, err)
	}
	logger.Debug("Query embedding: %d dimensions", len(queryVec))

	hits, err := s.index.Search(ctx, queryVec, k, scope)
	if err != nil {
		return nil, fmt.Errorf("search index: %w", err)
	}
	logger.Debug("Search: %d hits", len(hits))

	return s.hydrate(ctx, hits), nil
}

// hydrate converts index hits to full search results, filling spans and
// document titles from the document store. Hits whose backing records have
// been deleted keep their index-owned metadata.
func (s *RetrieverService) hydrate(ctx context.Context, hits []driven.VectorHit) []domain.SearchResult {
	results := make([]domain.SearchResult, 0, len(hits))

	for i, hit := range hits {
		result := domain.SearchResult{
			FragmentID: hit.FragmentID,
			DocumentID: hit.DocumentID,
			Ordinal:    hit.Ordinal,
			Text:       hit.Text,
			Score:      hit.Similarity,
			Rank:       i + 1,
		}

		if frag, err := s.docStore.GetFragment(ctx, hit.FragmentID); err == nil {
			result.Start = frag.Start
			result.End = frag.End
		}
		if doc, err := s.docStore.GetDocument(ctx, hit.DocumentID); err == nil {
			result.DocumentTitle = doc.Title
		}

		results = append(results, result)
	}

	return results
}
