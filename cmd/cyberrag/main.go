package main

import (
	"github.com/joho/godotenv"

	"cyberrag/internal/cli"
)

func main() {
	// API keys may live in a local .env file; absence is not an error.
	_ = godotenv.Load()

	cli.Execute()
}
