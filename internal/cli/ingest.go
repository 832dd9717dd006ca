package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"coursechat/internal/summarizer"
)

var clearExisting bool

var ingestCmd = &cobra.Command{
	Use:   "ingest <file-or-folder>",
	Short: "Ingest course documents into the index",
	Long: `Ingest a single course document or every document in a folder.
Folder ingestion skips courses already present in the catalog.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ingestor, err := buildIngestor()
		if err != nil {
			return err
		}
		path := args[0]
		info, err := os.Stat(path)
		if err != nil {
			return err
		}

		if info.IsDir() {
			courses, chunks, err := ingestor.IngestFolder(path, clearExisting)
			if err != nil {
				return err
			}
			fmt.Printf("Added %d new course(s), %d chunk(s)\n", courses, chunks)
			return nil
		}

		course, chunks, err := ingestor.IngestDocument(path)
		if err != nil {
			return err
		}
		fmt.Printf("Added course %q (%d chunks)\n", course.Title, chunks)
		if data, err := os.ReadFile(path); err == nil {
			if summary := summarizer.NewFrequencySummarizer().Summarize(string(data), 3); summary != "" {
				fmt.Printf("Summary: %s\n", summary)
			}
		}
		return nil
	},
}

func init() {
	ingestCmd.Flags().BoolVar(&clearExisting, "clear", false, "clear existing index data first")
}
