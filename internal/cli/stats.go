package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

var statsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Show catalog analytics",
	RunE: func(cmd *cobra.Command, args []string) error {
		ingestor, err := buildIngestor()
		if err != nil {
			return err
		}
		count, titles := ingestor.Analytics()
		fmt.Printf("Courses indexed: %d\n", count)
		for _, title := range titles {
			fmt.Printf("  %s\n", title)
		}
		return nil
	},
}
