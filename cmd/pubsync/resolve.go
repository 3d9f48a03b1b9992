package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/earthvision-lab/pubsync/internal/config"
	"github.com/earthvision-lab/pubsync/internal/identity"
	"github.com/earthvision-lab/pubsync/internal/openalex"
	"github.com/earthvision-lab/pubsync/internal/roster"
)

func init() {
	f := resolveCmd.Flags()
	f.String("repo", ".", "Path to the site repository root")
	f.String("members-dir", config.DefaultMembersDir, "Members collection dir (relative to repo)")
	f.String("mailto", "", "Contact address for the OpenAlex polite pool (or OPENALEX_MAILTO)")
	f.String("institution-hint", "", "Prefer author candidates whose institution matches this text")
	f.String("cache-file", config.DefaultCacheFile, "Author resolution cache (relative to repo)")

	rootCmd.AddCommand(resolveCmd)
}

var resolveCmd = &cobra.Command{
	Use:   "resolve",
	Short: "Resolve roster members to OpenAlex author IDs",
	Long: `Run only the identity resolution step: look up each roster member
without a pre-known OpenAlex author ID, score the candidates, persist
the outcomes to the cache, and print the resolved roster.`,
	RunE: runResolve,
}

func runResolve(cmd *cobra.Command, args []string) error {
	f := cmd.Flags()
	repo, _ := f.GetString("repo")
	membersDir, _ := f.GetString("members-dir")
	hint, _ := f.GetString("institution-hint")
	cacheFile, _ := f.GetString("cache-file")

	mailto, _ := f.GetString("mailto")
	if mailto == "" {
		mailto = os.Getenv("OPENALEX_MAILTO")
	}
	if mailto == "" {
		exitWithError(ExitConfigError, "a contact address is required (flag --mailto or OPENALEX_MAILTO)")
	}

	members, err := roster.Load(filepath.Join(repo, membersDir))
	if err != nil {
		exitWithError(ExitConfigError, "%v", err)
	}

	cache, err := identity.OpenCache(filepath.Join(repo, cacheFile))
	if err != nil {
		exitWithError(ExitError, "%v", err)
	}
	defer cache.Close()

	client := openalex.NewClient(openalex.WithMailto(mailto))
	resolver := identity.NewResolver(client, cache, hint)

	for _, m := range members {
		id, err := resolver.Resolve(cmd.Context(), m)
		if err != nil {
			exitWithError(classify(err), "resolving %s: %v", m.Name, err)
		}
		if id == "" {
			fmt.Printf("%-30s  (unresolved)\n", m.Name)
			continue
		}
		fmt.Printf("%-30s  %s\n", m.Name, id)
	}

	if err := cache.Save(); err != nil {
		exitWithError(ExitError, "%v", err)
	}
	return nil
}
