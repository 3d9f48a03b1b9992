package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/earthvision-lab/pubsync/internal/openalex"
)

func init() {
	f := authorsCmd.Flags()
	f.String("mailto", "", "Contact address for the OpenAlex polite pool (or OPENALEX_MAILTO)")
	f.String("institution-hint", "", "Mark candidates whose institution matches this text")
	f.Int("limit", openalex.DefaultCandidateLimit, "Number of candidates to fetch")

	rootCmd.AddCommand(authorsCmd)
}

var authorsCmd = &cobra.Command{
	Use:   "authors <name>",
	Short: "Inspect author candidates for a name",
	Long: `Search OpenAlex for author candidates matching a name and print
them in scoring order, without touching the resolution cache. Useful
for checking which identity the resolver would pick.`,
	Args: cobra.ExactArgs(1),
	RunE: runAuthors,
}

func runAuthors(cmd *cobra.Command, args []string) error {
	f := cmd.Flags()
	hint, _ := f.GetString("institution-hint")
	limit, _ := f.GetInt("limit")

	mailto, _ := f.GetString("mailto")
	if mailto == "" {
		mailto = os.Getenv("OPENALEX_MAILTO")
	}
	if mailto == "" {
		exitWithError(ExitConfigError, "a contact address is required (flag --mailto or OPENALEX_MAILTO)")
	}

	client := openalex.NewClient(openalex.WithMailto(mailto))
	candidates, err := client.SearchAuthors(cmd.Context(), args[0], limit)
	if err != nil {
		exitWithError(classify(err), "%v", err)
	}

	if len(candidates) == 0 {
		fmt.Println("no candidates")
		return nil
	}

	for _, c := range candidates {
		marker := " "
		if hint != "" && strings.Contains(strings.ToLower(c.LastKnownInstitution.DisplayName), strings.ToLower(hint)) {
			marker = "*"
		}
		fmt.Printf("%s %-14s %6d works  %s (%s)\n",
			marker, openalex.CanonicalID(c.ID), c.WorksCount, c.DisplayName, c.LastKnownInstitution.DisplayName)
	}
	return nil
}
