// Package sync orchestrates the full publication sync: roster loading,
// identity resolution, per-member work fetching, membership filtering,
// two-pass deduplication, and ordered emission with the on-disk
// maintenance passes.
package sync

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"strings"

	"github.com/earthvision-lab/pubsync/internal/config"
	"github.com/earthvision-lab/pubsync/internal/dedupe"
	"github.com/earthvision-lab/pubsync/internal/identity"
	"github.com/earthvision-lab/pubsync/internal/openalex"
	"github.com/earthvision-lab/pubsync/internal/publication"
	"github.com/earthvision-lab/pubsync/internal/roster"
	"github.com/earthvision-lab/pubsync/internal/textnorm"
)

// untitledFallback stands in for works with no usable title.
const untitledFallback = "Untitled"

// Summary reports what one run did.
type Summary struct {
	Members          int `json:"members"`
	MembersResolved  int `json:"members_resolved"`
	WorksFetched     int `json:"works_fetched"`
	WorksKept        int `json:"works_kept"`
	Written          int `json:"written"`
	SkippedExisting  int `json:"skipped_existing"`
	TitlesHarmonized int `json:"titles_harmonized"`
	DuplicatesPruned int `json:"duplicates_pruned"`
	Wiped            int `json:"wiped,omitempty"`
}

// Engine runs the sync pipeline. All state flows through the single
// Run call; the engine holds only its collaborators.
type Engine struct {
	cfg    config.Config
	client *openalex.Client
	cache  *identity.Cache
	log    *slog.Logger
}

// New creates an engine. A nil logger falls back to slog.Default.
func New(cfg config.Config, client *openalex.Client, cache *identity.Cache, logger *slog.Logger) *Engine {
	if logger == nil {
		logger = slog.Default()
	}
	return &Engine{cfg: cfg, client: client, cache: cache, log: logger}
}

// Run executes one full sync. Upstream failures abort the run; an
// unresolvable member only costs that member's works.
func (e *Engine) Run(ctx context.Context) (*Summary, error) {
	s := &Summary{}

	members, err := roster.Load(e.cfg.MembersPath())
	if err != nil {
		return nil, err
	}
	s.Members = len(members)

	pubsDir := e.cfg.PublicationsPath()
	if err := os.MkdirAll(pubsDir, 0o755); err != nil {
		return nil, fmt.Errorf("creating publications dir: %w", err)
	}

	if e.cfg.Wipe {
		wiped, err := publication.Wipe(pubsDir)
		if err != nil {
			return nil, err
		}
		s.Wiped = wiped
		e.log.Info("wiped publications directory", "removed", wiped)
	}

	resolved, err := e.resolveMembers(ctx, members)
	if err != nil {
		return nil, err
	}
	for _, m := range resolved {
		if m.AuthorID != "" {
			s.MembersResolved++
		}
	}

	// Persist resolution outcomes before the long fetch phase, so an
	// aborted run does not repeat the lookups.
	if err := e.cache.Save(); err != nil {
		return nil, err
	}

	required, ok := roster.FindRequired(resolved, e.cfg.RequiredAuthor)
	if !ok {
		return nil, fmt.Errorf("required author %q not found in roster %s", e.cfg.RequiredAuthor, e.cfg.MembersPath())
	}
	if required.AuthorID == "" {
		e.log.Warn("required author has no resolved ID, falling back to name matching", "name", required.Name)
	}

	requiredIDs := map[string]bool{}
	if required.AuthorID != "" {
		requiredIDs[required.AuthorID] = true
	}

	pool, err := e.fetchWorks(ctx, resolved)
	if err != nil {
		return nil, err
	}
	s.WorksFetched = len(pool)

	dedupe.SortNewestFirst(pool)

	var kept []openalex.Work
	for _, w := range pool {
		if dedupe.HasAuthor(w, requiredIDs, required.NameNorm) {
			kept = append(kept, w)
		}
	}

	kept = dedupe.ByLogicalPaper(kept)
	kept = dedupe.ByLowercaseTitle(kept)
	dedupe.SortNewestFirst(kept)
	s.WorksKept = len(kept)

	e.log.Info("work pool assembled", "fetched", s.WorksFetched, "kept", s.WorksKept)

	memberNorms := roster.NameNorms(resolved)
	memberIDs := roster.AuthorIDs(resolved)

	for idx, w := range kept {
		rec := e.buildRecord(w, idx+1, memberNorms, memberIDs)
		written, err := publication.Write(pubsDir, rec)
		if err != nil {
			return nil, err
		}
		if written {
			s.Written++
		} else {
			s.SkippedExisting++
		}
	}

	harmonized, err := publication.HarmonizeTitles(pubsDir)
	if err != nil {
		return nil, err
	}
	s.TitlesHarmonized = harmonized
	if harmonized > 0 {
		e.log.Info("harmonized title case in existing records", "files", harmonized)
	}

	pruned, err := publication.PruneDuplicateTitles(pubsDir)
	if err != nil {
		return nil, err
	}
	s.DuplicatesPruned = pruned
	if pruned > 0 {
		e.log.Info("removed duplicate records with identical titles", "files", pruned)
	}

	e.log.Info("sync complete",
		"written", s.Written,
		"skipped_existing", s.SkippedExisting,
		"publications_dir", pubsDir)

	return s, nil
}

// resolveMembers returns the roster with author IDs filled in where
// resolution succeeded. Search failures abort; a member without a
// resolvable identity is kept with an empty ID.
func (e *Engine) resolveMembers(ctx context.Context, members []roster.Member) ([]roster.Member, error) {
	resolver := identity.NewResolver(e.client, e.cache, e.cfg.InstitutionHint)

	resolved := make([]roster.Member, 0, len(members))
	for _, m := range members {
		id, err := resolver.Resolve(ctx, m)
		if err != nil {
			return nil, fmt.Errorf("resolving %s: %w", m.Name, err)
		}
		m.AuthorID = id
		resolved = append(resolved, m)
	}
	return resolved, nil
}

// fetchWorks pulls every resolved member's works and pools them by
// canonical work ID, preserving first-seen order.
func (e *Engine) fetchWorks(ctx context.Context, members []roster.Member) ([]openalex.Work, error) {
	byID := make(map[string]openalex.Work)
	var order []string

	for _, m := range members {
		if m.AuthorID == "" {
			e.log.Warn("no OpenAlex author ID for member, skipping", "name", m.Name)
			continue
		}

		e.log.Info("fetching works", "name", m.Name, "author_id", m.AuthorID)

		count := 0
		pager := e.client.WorksByAuthor(m.AuthorID, openalex.DefaultPageSize)
	pages:
		for pager.More() {
			page, err := pager.Next(ctx)
			if err != nil {
				return nil, fmt.Errorf("fetching works for %s: %w", m.Name, err)
			}
			for _, w := range page {
				wid := openalex.CanonicalID(w.ID)
				if wid == "" {
					continue
				}
				if _, seen := byID[wid]; !seen {
					order = append(order, wid)
				}
				byID[wid] = w
				count++
				if e.cfg.LimitPerMember > 0 && count >= e.cfg.LimitPerMember {
					break pages
				}
			}
		}
	}

	pool := make([]openalex.Work, 0, len(order))
	for _, wid := range order {
		pool = append(pool, byID[wid])
	}
	return pool, nil
}

// buildRecord assembles the output record for one ranked work.
func (e *Engine) buildRecord(w openalex.Work, rank int, memberNorms, memberIDs map[string]bool) publication.Record {
	titleRaw := textnorm.SanitizeScalar(strings.TrimSpace(w.DisplayName))
	if titleRaw == "" {
		titleRaw = untitledFallback
	}

	date := w.DateISO()
	year := 0
	if len(date) >= 4 {
		year, _ = strconv.Atoi(date[:4])
	} else {
		year = w.PublicationYear
	}

	return publication.Record{
		Title:          textnorm.TitleCase(titleRaw),
		Authors:        dedupe.FormatAuthors(w.Authorships, memberNorms, memberIDs, e.cfg.MaxAuthors),
		Date:           date,
		Year:           publication.YearValue(year),
		Link:           w.BestLink(),
		Venue:          w.VenueName(),
		Order:          rank,
		OpenAlexWorkID: openalex.CanonicalID(w.ID),
		DedupeKey:      dedupe.Key(w),
	}
}
