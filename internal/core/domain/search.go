package domain

// SearchResult is a single ranked retrieval hit. Results are ephemeral:
// constructed per query, never persisted.
type SearchResult struct {
	// FragmentID identifies the matched fragment.
	FragmentID string

	// DocumentID identifies the owning document.
	DocumentID string

	// DocumentTitle is the owning document's title, for attribution.
	DocumentTitle string

	// Ordinal is the fragment's position within its document.
	Ordinal int

	// Start and End are the fragment's rune span within the document.
	Start int
	End   int

	// Text is the fragment content.
	Text string

	// Score is the cosine similarity to the query (higher = more relevant).
	Score float64

	// Rank is the 1-based position in the result list.
	Rank int
}

// Citation attributes a piece of assembled context to its source fragment.
type Citation struct {
	FragmentID    string
	DocumentID    string
	DocumentTitle string
	Ordinal       int
	Start         int
	End           int
}
