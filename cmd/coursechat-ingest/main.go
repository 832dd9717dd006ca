package main

import (
	"os"

	"github.com/joho/godotenv"

	"coursechat/internal/cli"
)

func main() {
	_ = godotenv.Load()
	if err := cli.RootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
