package cmd

import (
	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

func NewRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "tagger",
		Short: "Image naming and keyword tagging with LLM-powered suggestions",
		Long: `Tagger asks a vision-capable LLM to propose a descriptive file name and
keyword tags for each image in a batch, then exports the renamed files as a
zip archive or the keywords as a spreadsheet-compatible table.

It can run as a web API (serve) or as a one-shot batch over local files and
URLs (process).`,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			// Load .env file if present (ignore errors)
			_ = godotenv.Load()
		},
	}

	// Add subcommands
	cmd.AddCommand(newServeCmd())
	cmd.AddCommand(newProcessCmd())

	return cmd
}
