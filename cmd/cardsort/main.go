package main

import (
	"os"

	"github.com/joho/godotenv"

	"github.com/cardsort-dev/cardsort/internal/commands"
)

func main() {
	// CARDSORT_* overrides may live in a .env file; it is optional.
	_ = godotenv.Load()

	if err := commands.NewRootCommand().Execute(); err != nil {
		os.Exit(1)
	}
}
