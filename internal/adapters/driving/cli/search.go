package cli

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/docuchat-labs/retrieval-cli/internal/core/domain"
)

var (
	searchTopK   int
	searchBudget int
	searchDocs   []string
	searchJSON   bool
)

var searchCmd = &cobra.Command{
	Use:   "search [query]",
	Short: "Retrieve context for a query",
	Long: `Embeds the query, finds the most similar fragments across the
library and packs them into a context block with citations.`,
	Args: cobra.ExactArgs(1),
	RunE: runSearch,
}

func init() {
	searchCmd.Flags().IntVarP(&searchTopK, "top-k", "k", 3, "maximum number of fragments to retrieve")
	searchCmd.Flags().IntVar(&searchBudget, "budget", 4000, "context budget in characters")
	searchCmd.Flags().StringSliceVar(&searchDocs, "docs", nil, "restrict search to these document IDs")
	searchCmd.Flags().BoolVar(&searchJSON, "json", false, "output results as JSON")
	rootCmd.AddCommand(searchCmd)
}

// SetSearchDefaults overrides the search flag defaults from configuration.
// Flags given on the command line still take precedence.
func SetSearchDefaults(topK, budget int) {
	if topK > 0 {
		searchTopK = topK
		searchCmd.Flags().Lookup("top-k").DefValue = strconv.Itoa(topK)
	}
	if budget > 0 {
		searchBudget = budget
		searchCmd.Flags().Lookup("budget").DefValue = strconv.Itoa(budget)
	}
}

// searchOutput is the JSON shape of a search response.
type searchOutput struct {
	Context   string                `json:"context"`
	Citations []domain.Citation     `json:"citations"`
	Results   []domain.SearchResult `json:"results"`
}

func runSearch(cmd *cobra.Command, args []string) error {
	query := args[0]

	if retrieverService == nil || assemblerService == nil {
		return errors.New("search services not configured")
	}

	ctx := context.Background()

	results, err := retrieverService.RetrieveContext(ctx, query, searchTopK, searchDocs)
	if err != nil {
		return fmt.Errorf("search failed: %w", err)
	}

	contextText, citations, err := assemblerService.Assemble(results, searchBudget)
	if err != nil {
		return fmt.Errorf("assembling context: %w", err)
	}

	if searchJSON {
		return outputSearchJSON(cmd, searchOutput{
			Context:   contextText,
			Citations: citations,
			Results:   results,
		})
	}

	return outputSearchText(cmd, contextText, citations, results)
}

func outputSearchJSON(cmd *cobra.Command, out searchOutput) error {
	data, err := json.MarshalIndent(out, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal results: %w", err)
	}
	cmd.Println(string(data))
	return nil
}

func outputSearchText(cmd *cobra.Command, contextText string, citations []domain.Citation, results []domain.SearchResult) error {
	if len(results) == 0 {
		cmd.Println("No results found.")
		return nil
	}

	cmd.Println("Context:")
	cmd.Println()
	cmd.Println(contextText)
	cmd.Println()

	cmd.Println("Citations:")
	for i, citation := range citations {
		title := citation.DocumentTitle
		if title == "" {
			title = citation.DocumentID
		}
		cmd.Printf("  [%d] %s, fragment %d (chars %d-%d)\n",
			i+1, title, citation.Ordinal, citation.Start, citation.End)
	}

	cmd.Println()
	cmd.Println("Scores:")
	for i := range results {
		cmd.Printf("  [%d] %.4f %s\n", results[i].Rank, results[i].Score, results[i].FragmentID)
	}

	return nil
}
