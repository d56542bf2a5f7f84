package cli

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/docuchat-labs/retrieval-cli/internal/core/domain"
)

var ingestCmd = &cobra.Command{
	Use:   "ingest [path...]",
	Short: "Ingest documents into the library",
	Long: `Reads each file, splits it into overlapping fragments, embeds the
fragments and adds them to the vector index. Re-ingesting a path replaces
the previous version of that document.`,
	Args: cobra.MinimumNArgs(1),
	RunE: runIngest,
}

func init() {
	rootCmd.AddCommand(ingestCmd)
}

func runIngest(cmd *cobra.Command, args []string) error {
	if retrieverService == nil {
		return errors.New("retriever service not configured")
	}

	ctx := context.Background()
	var failed int

	for _, path := range args {
		if err := ingestPath(ctx, cmd, path); err != nil {
			cmd.PrintErrf("  %s: %v\n", path, err)
			failed++
		}
	}

	if failed > 0 {
		return fmt.Errorf("%d of %d paths failed", failed, len(args))
	}
	return nil
}

func ingestPath(ctx context.Context, cmd *cobra.Command, path string) error {
	absPath, err := filepath.Abs(path)
	if err != nil {
		return fmt.Errorf("resolving path: %w", err)
	}

	content, err := os.ReadFile(absPath)
	if err != nil {
		return fmt.Errorf("reading file: %w", err)
	}

	doc := buildDocument(absPath, string(content))

	// Re-ingesting a known path replaces the old version.
	if documentStore != nil {
		if existing, err := documentStore.FindByURI(ctx, absPath); err == nil {
			if err := retrieverService.RemoveDocument(ctx, existing.ID); err != nil {
				return fmt.Errorf("replacing previous version: %w", err)
			}
			doc.ID = existing.ID
		}
	}

	outcome, err := retrieverService.IngestDocument(ctx, doc)
	if err != nil {
		return err
	}

	printOutcome(cmd, path, outcome)
	return nil
}

// buildDocument creates a document from a file path and its contents.
func buildDocument(absPath, content string) *domain.Document {
	name := filepath.Base(absPath)
	title := strings.TrimSuffix(name, filepath.Ext(name))

	return &domain.Document{
		ID:       uuid.NewString(),
		URI:      absPath,
		Title:    title,
		FileType: domain.FileTypeFromExtension(filepath.Ext(name)),
		Content:  content,
	}
}

func printOutcome(cmd *cobra.Command, path string, outcome *domain.IngestOutcome) {
	if outcome.Complete() {
		cmd.Printf("  %s: %d fragments indexed\n", path, outcome.FragmentCount)
		return
	}

	cmd.Printf("  %s: %d of %d fragments indexed\n",
		path, len(outcome.Succeeded), outcome.FragmentCount)
	for _, failure := range outcome.Failed {
		cmd.Printf("    fragment %d: %s: %v\n",
			failure.Ordinal, failure.Category, failure.Err)
	}
}
