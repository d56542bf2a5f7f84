package cli

import (
	"context"
	"errors"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/docuchat-labs/retrieval-cli/internal/adapters/driving/watch"
)

var watchCmd = &cobra.Command{
	Use:   "watch [directory]",
	Short: "Watch a directory and ingest dropped documents",
	Long: `Watches a directory for .txt and .md files. New or changed files
are ingested; deleted files are removed from the library. Runs until
interrupted.`,
	Args: cobra.ExactArgs(1),
	RunE: runWatch,
}

func init() {
	rootCmd.AddCommand(watchCmd)
}

func runWatch(cmd *cobra.Command, args []string) error {
	if retrieverService == nil || documentStore == nil {
		return errors.New("watch services not configured")
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	watcher := watch.New(retrieverService, documentStore)

	err := watcher.Run(ctx, args[0])
	if errors.Is(err, context.Canceled) {
		cmd.Println("Stopped watching.")
		return nil
	}
	return err
}
