// Package cli implements the command-line interface.
package cli

import (
	"github.com/spf13/cobra"

	"github.com/docuchat-labs/retrieval-cli/internal/core/ports/driven"
	"github.com/docuchat-labs/retrieval-cli/internal/core/ports/driving"
	"github.com/docuchat-labs/retrieval-cli/internal/logger"
)

// version is set at build time via -ldflags.
var version = "dev"

// Services injected by the composition root before Execute.
var (
	retrieverService driving.Retriever
	assemblerService driving.Assembler
	documentService  driving.DocumentService
	documentStore    driven.DocumentStore
)

// verbose enables debug logging.
var verbose bool

var rootCmd = &cobra.Command{
	Use:   "docuchat",
	Short: "Ingest documents and retrieve context for questions",
	Long: `docuchat maintains a local library of documents, splits them into
overlapping fragments, embeds each fragment and answers queries with the
most relevant fragments packed into a bounded context.`,
	SilenceUsage: true,
	PersistentPreRun: func(_ *cobra.Command, _ []string) {
		logger.SetVerbose(verbose)
	},
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable debug logging")
}

// Services bundles everything the commands need.
type Services struct {
	Retriever driving.Retriever
	Assembler driving.Assembler
	Documents driving.DocumentService
	Store     driven.DocumentStore
}

// SetServices wires the application services into the commands.
func SetServices(s Services) {
	retrieverService = s.Retriever
	assemblerService = s.Assembler
	documentService = s.Documents
	documentStore = s.Store
}

// SetVersion sets the version string reported by the version command.
func SetVersion(v string) {
	if v != "" {
		version = v
	}
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}
