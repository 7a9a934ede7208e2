// Package main provides the entry point for the executive discovery CLI.
package main

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "discovery_agent",
	Short: "Executive contact discovery for unions and benefit plans",
	Long:  "Discovery agent locates official organization websites, crawls their sitemap-listed pages, and extracts validated executive names, titles, and likely email addresses.",
}

func main() {
	// Load .env file if it exists
	_ = godotenv.Load()

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
