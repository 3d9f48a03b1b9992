package dedupe

import (
	"strings"

	"github.com/earthvision-lab/pubsync/internal/openalex"
	"github.com/earthvision-lab/pubsync/internal/textnorm"
)

// EtAl is the sentinel appended when an author list is truncated.
const EtAl = "et al."

// HasAuthor reports whether the work lists the given author, matched by
// canonical author ID or by normalized display name. Used to test the
// designated required author.
func HasAuthor(w openalex.Work, authorIDs map[string]bool, nameNorm string) bool {
	for _, a := range w.Authorships {
		id := openalex.CanonicalID(a.Author.ID)
		if id != "" && authorIDs[id] {
			return true
		}
		name := strings.TrimSpace(a.Author.DisplayName)
		if name != "" && textnorm.NormalizeName(name) == nameNorm {
			return true
		}
	}
	return false
}

// FormatAuthors renders a comma-joined author list in upstream order.
// Roster members, matched by author ID or normalized name, are bolded.
// Lists longer than maxAuthors are truncated with an "et al." entry.
func FormatAuthors(authorships []openalex.Authorship, memberNameNorms, memberIDs map[string]bool, maxAuthors int) string {
	var names []string
	for _, a := range authorships {
		name := strings.TrimSpace(a.Author.DisplayName)
		if name == "" {
			continue
		}

		id := openalex.CanonicalID(a.Author.ID)
		isMember := (id != "" && memberIDs[id]) || memberNameNorms[textnorm.NormalizeName(name)]
		if isMember {
			names = append(names, "**"+name+"**")
		} else {
			names = append(names, name)
		}
	}

	if len(names) > maxAuthors {
		names = append(names[:maxAuthors], EtAl)
	}

	return strings.Join(names, ", ")
}
