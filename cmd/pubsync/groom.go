package main

import (
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/earthvision-lab/pubsync/internal/config"
	"github.com/earthvision-lab/pubsync/internal/publication"
)

func init() {
	f := groomCmd.Flags()
	f.String("repo", ".", "Path to the site repository root")
	f.String("publications-dir", config.DefaultPublicationsDir, "Publications collection dir (relative to repo)")

	rootCmd.AddCommand(groomCmd)
}

var groomCmd = &cobra.Command{
	Use:   "groom",
	Short: "Harmonize titles and prune duplicate publication files",
	Long: `Run only the on-disk maintenance passes over an existing
publications directory: rewrite titles to canonical title case and
delete files that collide on case-insensitive title, keeping the one
with the latest date. No network access.`,
	RunE: runGroom,
}

func runGroom(cmd *cobra.Command, args []string) error {
	repo, _ := cmd.Flags().GetString("repo")
	pubsDir, _ := cmd.Flags().GetString("publications-dir")
	dir := filepath.Join(repo, pubsDir)

	harmonized, err := publication.HarmonizeTitles(dir)
	if err != nil {
		exitWithError(ExitError, "%v", err)
	}

	pruned, err := publication.PruneDuplicateTitles(dir)
	if err != nil {
		exitWithError(ExitError, "%v", err)
	}

	fmt.Printf("Harmonized %d titles, removed %d duplicate files in %s\n", harmonized, pruned, dir)
	return nil
}
