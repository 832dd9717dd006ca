// Package cli implements the coursechat-ingest command tree.
package cli

import (
	"github.com/spf13/cobra"

	"coursechat/internal/app"
	"coursechat/internal/config"
	"coursechat/internal/service"
)

var cfgPath string

// RootCmd is the entry command for coursechat-ingest.
var RootCmd = &cobra.Command{
	Use:           "coursechat-ingest",
	Short:         "Manage the course index",
	Long:          "Ingest course documents into the vector index and inspect the catalog.",
	SilenceUsage:  true,
	SilenceErrors: false,
}

func init() {
	RootCmd.PersistentFlags().StringVar(&cfgPath, "config", "", "path to YAML config file")
	RootCmd.AddCommand(ingestCmd)
	RootCmd.AddCommand(statsCmd)
	RootCmd.AddCommand(clearCmd)
}

// buildIngestor loads configuration and assembles the write path.
func buildIngestor() (*service.Ingestor, error) {
	var cfg *config.AppConfig
	var err error
	if cfgPath == "" {
		cfg, _, err = config.LoadDefault()
	} else {
		cfg, err = config.Load(cfgPath)
	}
	if err != nil {
		return nil, err
	}
	return app.BuildIngestor(cfg)
}
