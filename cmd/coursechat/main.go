package main

import (
	"flag"
	"fmt"
	"log"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/joho/godotenv"

	"coursechat/internal/app"
	"coursechat/internal/config"
	"coursechat/internal/tui"
)

func main() {
	_ = godotenv.Load()

	var cfgPath string
	var docsDir string
	var clearExisting bool
	flag.StringVar(&cfgPath, "config", "", "Path to YAML config file (optional; uses ~/.config/coursechat/config.yaml if not provided)")
	flag.StringVar(&docsDir, "docs", "", "Folder of course documents to ingest before starting")
	flag.BoolVar(&clearExisting, "clear", false, "Clear existing index data before ingesting")
	flag.Parse()

	var cfg *config.AppConfig
	var err error
	if cfgPath == "" {
		cfg, _, err = config.LoadDefault()
	} else {
		cfg, err = config.Load(cfgPath)
	}
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	svc, err := app.Build(cfg)
	if err != nil {
		log.Fatalf("failed to assemble: %v", err)
	}

	banner := "Ready. Ask about the indexed courses."
	if docsDir != "" {
		courses, chunks, err := svc.IngestFolder(docsDir, clearExisting)
		if err != nil {
			log.Fatalf("ingest failed: %v", err)
		}
		total, _ := svc.Analytics()
		banner = fmt.Sprintf("Loaded %d new course(s), %d chunk(s); %d course(s) indexed.", courses, chunks, total)
	}

	m := tui.New(svc, banner)
	if _, err := tea.NewProgram(m).Run(); err != nil {
		log.Fatal(err)
	}
}
