package cli

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"
)

// removeByPath treats the argument as a file path instead of a document ID.
var removeByPath bool

var removeCmd = &cobra.Command{
	Use:   "remove [doc-id]",
	Short: "Remove a document from the library",
	Long: `Evicts the document's fragments from the vector index and deletes
the stored document. Removing an unknown document is a no-op.`,
	Args: cobra.ExactArgs(1),
	RunE: runRemove,
}

func init() {
	removeCmd.Flags().BoolVar(&removeByPath, "path", false, "treat the argument as a file path")
	rootCmd.AddCommand(removeCmd)
}

func runRemove(cmd *cobra.Command, args []string) error {
	if retrieverService == nil {
		return errors.New("retriever service not configured")
	}

	ctx := context.Background()
	docID := args[0]

	if removeByPath {
		if documentStore == nil {
			return errors.New("document store not configured")
		}
		absPath, err := filepath.Abs(args[0])
		if err != nil {
			return fmt.Errorf("resolving path: %w", err)
		}
		doc, err := documentStore.FindByURI(ctx, absPath)
		if err != nil {
			cmd.Printf("No document found for path: %s\n", args[0])
			return nil
		}
		docID = doc.ID
	}

	if err := retrieverService.RemoveDocument(ctx, docID); err != nil {
		return fmt.Errorf("failed to remove document: %w", err)
	}

	cmd.Printf("Removed document: %s\n", docID)
	return nil
}
