// Package main provides the pubsync CLI entry point.
package main

import (
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

// Version is set at build time via ldflags
var Version = "dev"

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(ExitError)
	}
}

var rootCmd = &cobra.Command{
	Use:   "pubsync",
	Short: "Sync group publications from OpenAlex into a Jekyll collection",
	Long: `pubsync keeps a research group's publication list in sync with
OpenAlex. It resolves each roster member to an OpenAlex author ID,
fetches their works, keeps only those co-authored by the group's
required author, collapses duplicate records of the same paper, and
writes one markdown file with YAML front matter per publication.`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

func init() {
	// Load .env if present (for OPENALEX_MAILTO)
	_ = godotenv.Load()

	rootCmd.Version = Version
}
