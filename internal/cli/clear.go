package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

var clearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Delete all indexed data",
	RunE: func(cmd *cobra.Command, args []string) error {
		ingestor, err := buildIngestor()
		if err != nil {
			return err
		}
		if err := ingestor.ClearIndex(); err != nil {
			return err
		}
		fmt.Println("Index cleared")
		return nil
	},
}
