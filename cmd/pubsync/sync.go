package main

import (
	"errors"
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/earthvision-lab/pubsync/internal/config"
	"github.com/earthvision-lab/pubsync/internal/identity"
	"github.com/earthvision-lab/pubsync/internal/openalex"
	syncengine "github.com/earthvision-lab/pubsync/internal/sync"
)

func init() {
	f := syncCmd.Flags()
	f.String("repo", ".", "Path to the site repository root")
	f.String("members-dir", config.DefaultMembersDir, "Members collection dir (relative to repo)")
	f.String("publications-dir", config.DefaultPublicationsDir, "Publications collection dir (relative to repo)")
	f.String("mailto", "", "Contact address for the OpenAlex polite pool (or OPENALEX_MAILTO)")
	f.String("required-author", "", "Author who must be on every exported paper")
	f.String("institution-hint", "", "Prefer author candidates whose institution matches this text")
	f.Int("max-authors", config.DefaultMaxAuthors, "Max authors to list before adding 'et al.'")
	f.Int("limit-per-member", 0, "Only fetch the newest N works per member (0 = no limit)")
	f.String("cache-file", config.DefaultCacheFile, "Author resolution cache (relative to repo)")
	f.String("config", "", "Optional JSON config file (flags override it)")
	f.Bool("wipe-publications-dir", false, "Delete existing publications before writing")
	f.Bool("json", false, "Print the run summary as JSON")

	rootCmd.AddCommand(syncCmd)
}

var syncCmd = &cobra.Command{
	Use:   "sync",
	Short: "Run the full publication sync",
	Long: `Resolve roster identities, fetch works from OpenAlex, filter to
papers co-authored by the required author, dedupe, and write the
publication collection.`,
	RunE: runSync,
}

func runSync(cmd *cobra.Command, args []string) error {
	cfg, err := buildConfig(cmd)
	if err != nil {
		exitWithError(ExitConfigError, "%v", err)
	}
	if err := cfg.Validate(); err != nil {
		exitWithError(ExitConfigError, "%v", err)
	}

	logger := slog.New(slog.NewTextHandler(os.Stderr, nil))

	client := openalex.NewClient(openalex.WithMailto(cfg.Mailto))

	cache, err := identity.OpenCache(cfg.CachePath())
	if err != nil {
		exitWithError(ExitError, "%v", err)
	}
	defer cache.Close()

	engine := syncengine.New(cfg, client, cache, logger)
	summary, err := engine.Run(cmd.Context())
	if err != nil {
		exitWithError(classify(err), "%v", err)
	}

	asJSON, _ := cmd.Flags().GetBool("json")
	if asJSON {
		return outputJSON(summary)
	}

	fmt.Printf("Wrote %d publication files (%d skipped because they existed) to %s\n",
		summary.Written, summary.SkippedExisting, cfg.PublicationsPath())
	return nil
}

// buildConfig assembles the run configuration: defaults, then the
// optional config file, then any flag the user set.
func buildConfig(cmd *cobra.Command) (config.Config, error) {
	cfg := config.Default()

	f := cmd.Flags()
	if path, _ := f.GetString("config"); path != "" {
		if err := config.Load(path, &cfg); err != nil {
			return cfg, err
		}
	}

	if f.Changed("repo") || cfg.RepoPath == "" {
		cfg.RepoPath, _ = f.GetString("repo")
	}
	if f.Changed("members-dir") {
		cfg.MembersDir, _ = f.GetString("members-dir")
	}
	if f.Changed("publications-dir") {
		cfg.PublicationsDir, _ = f.GetString("publications-dir")
	}
	if f.Changed("cache-file") {
		cfg.CacheFile, _ = f.GetString("cache-file")
	}
	if f.Changed("mailto") || cfg.Mailto == "" {
		mailto, _ := f.GetString("mailto")
		if mailto == "" {
			mailto = os.Getenv("OPENALEX_MAILTO")
		}
		cfg.Mailto = mailto
	}
	if f.Changed("required-author") || cfg.RequiredAuthor == "" {
		cfg.RequiredAuthor, _ = f.GetString("required-author")
	}
	if f.Changed("institution-hint") {
		cfg.InstitutionHint, _ = f.GetString("institution-hint")
	}
	if f.Changed("max-authors") {
		cfg.MaxAuthors, _ = f.GetInt("max-authors")
	}
	if f.Changed("limit-per-member") {
		cfg.LimitPerMember, _ = f.GetInt("limit-per-member")
	}
	cfg.Wipe, _ = f.GetBool("wipe-publications-dir")

	return cfg, nil
}

// classify maps a run failure to an exit code.
func classify(err error) int {
	var apiErr *openalex.APIError
	if errors.As(err, &apiErr) ||
		errors.Is(err, openalex.ErrNetworkError) ||
		errors.Is(err, openalex.ErrRateLimited) ||
		errors.Is(err, openalex.ErrInvalidResponse) {
		return ExitAPIError
	}
	return ExitError
}
