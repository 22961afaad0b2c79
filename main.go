package main

import (
	"os"

	"github.com/joho/godotenv"

	"github.com/ziadkadry99/agentic/cmd"
)

func main() {
	// API keys and overrides can live in a local .env file.
	_ = godotenv.Load()

	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
