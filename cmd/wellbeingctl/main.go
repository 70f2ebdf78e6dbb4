// Command wellbeingctl is the operator CLI: schema migration, blacklist
// curation, application review, offline scoring, and dev tokens.
package main

import (
	"os"

	"github.com/joho/godotenv"
)

func main() {
	_ = godotenv.Load()
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}
