// Package roster models the tracked group members whose authored works
// are candidates for inclusion.
package roster

import (
	"fmt"
	"path/filepath"
	"sort"
	"strings"

	"github.com/earthvision-lab/pubsync/internal/frontmatter"
	"github.com/earthvision-lab/pubsync/internal/openalex"
	"github.com/earthvision-lab/pubsync/internal/textnorm"
)

// Member is one roster entry. AuthorID is the canonical short OpenAlex
// author ID when known, "" otherwise. Members are immutable once the
// identity resolution step has run.
type Member struct {
	Name     string
	NameNorm string
	AuthorID string
}

// Load reads all members from a directory of markdown files with
// `name:` and optional `openalex_author_id:` front matter, in filename
// order. Files without a usable name are skipped. An empty roster is a
// configuration error.
func Load(dir string) ([]Member, error) {
	paths, err := filepath.Glob(filepath.Join(dir, "*.md"))
	if err != nil {
		return nil, fmt.Errorf("listing members in %s: %w", dir, err)
	}
	sort.Strings(paths)

	var members []Member
	for _, path := range paths {
		f, err := frontmatter.Read(path)
		if err != nil {
			return nil, err
		}

		name := strings.TrimSpace(f.String("name"))
		if name == "" {
			continue
		}

		members = append(members, Member{
			Name:     name,
			NameNorm: textnorm.NormalizeName(name),
			AuthorID: openalex.CanonicalID(f.String("openalex_author_id")),
		})
	}

	if len(members) == 0 {
		return nil, fmt.Errorf("no members found in %s", dir)
	}
	return members, nil
}

// FindRequired locates the designated required author: the member whose
// normalized name contains every word of the configured name.
func FindRequired(members []Member, requiredName string) (Member, bool) {
	words := strings.Fields(textnorm.NormalizeName(requiredName))
	if len(words) == 0 {
		return Member{}, false
	}

	for _, m := range members {
		match := true
		for _, w := range words {
			if !strings.Contains(m.NameNorm, w) {
				match = false
				break
			}
		}
		if match {
			return m, true
		}
	}
	return Member{}, false
}

// NameNorms returns the set of normalized member names.
func NameNorms(members []Member) map[string]bool {
	set := make(map[string]bool, len(members))
	for _, m := range members {
		set[m.NameNorm] = true
	}
	return set
}

// AuthorIDs returns the set of known canonical author IDs.
func AuthorIDs(members []Member) map[string]bool {
	set := make(map[string]bool, len(members))
	for _, m := range members {
		if m.AuthorID != "" {
			set[m.AuthorID] = true
		}
	}
	return set
}
