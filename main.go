package main

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"

	"rootswap/cmd"
)

func main() {
	// .env is optional; configuration also comes from ~/.rootswap.yaml and
	// ROOTSWAP_* environment variables.
	_ = godotenv.Load()

	if err := cmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
