package identity

import (
	"context"
	"strings"

	"github.com/earthvision-lab/pubsync/internal/openalex"
	"github.com/earthvision-lab/pubsync/internal/roster"
)

// noCandidatesNote marks a cached negative outcome.
const noCandidatesNote = "no candidates"

// Searcher is the author-search collaborator consumed by the resolver.
type Searcher interface {
	SearchAuthors(ctx context.Context, name string, perPage int) ([]openalex.AuthorCandidate, error)
}

// Resolver determines a member's canonical author identifier via a
// scored search, consulting the cache first.
type Resolver struct {
	searcher Searcher
	cache    *Cache
	hint     string
}

// NewResolver creates a resolver. The institution hint biases candidate
// scoring toward authors affiliated with a matching institution.
func NewResolver(searcher Searcher, cache *Cache, institutionHint string) *Resolver {
	return &Resolver{searcher: searcher, cache: cache, hint: institutionHint}
}

// Resolve returns the member's canonical author ID, or "" when none can
// be determined. A pre-known ID is returned unchanged without touching
// the cache. A cached outcome, positive or negative, is authoritative.
// Search failures are returned as-is and abort the run.
func (r *Resolver) Resolve(ctx context.Context, m roster.Member) (string, error) {
	if m.AuthorID != "" {
		return m.AuthorID, nil
	}

	if e, ok := r.cache.Lookup(m.NameNorm); ok {
		return openalex.CanonicalID(e.AuthorID), nil
	}

	candidates, err := r.searcher.SearchAuthors(ctx, m.Name, openalex.DefaultCandidateLimit)
	if err != nil {
		return "", err
	}

	if len(candidates) == 0 {
		r.cache.Put(Entry{NameNorm: m.NameNorm, Note: noCandidatesNote})
		return "", nil
	}

	best := pickCandidate(candidates, r.hint)
	r.cache.Put(Entry{
		NameNorm:    m.NameNorm,
		AuthorID:    best.ID,
		DisplayName: best.DisplayName,
		Institution: best.LastKnownInstitution.DisplayName,
		WorksCount:  best.WorksCount,
	})
	return openalex.CanonicalID(best.ID), nil
}

// pickCandidate selects the candidate with the maximum score tuple
// (institution-hint match, works count); ties keep the earlier result,
// so the collaborator's own ordering breaks them.
func pickCandidate(candidates []openalex.AuthorCandidate, hint string) openalex.AuthorCandidate {
	best := candidates[0]
	bestHit := hintMatch(best, hint)

	for _, c := range candidates[1:] {
		hit := hintMatch(c, hint)
		if hit > bestHit || (hit == bestHit && c.WorksCount > best.WorksCount) {
			best = c
			bestHit = hit
		}
	}
	return best
}

func hintMatch(c openalex.AuthorCandidate, hint string) int {
	if hint == "" {
		return 0
	}
	inst := strings.ToLower(c.LastKnownInstitution.DisplayName)
	if strings.Contains(inst, strings.ToLower(hint)) {
		return 1
	}
	return 0
}
