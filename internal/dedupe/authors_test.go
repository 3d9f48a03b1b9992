package dedupe

import (
	"strings"
	"testing"

	"github.com/earthvision-lab/pubsync/internal/openalex"
)

func authorship(id, name string) openalex.Authorship {
	return openalex.Authorship{Author: openalex.Author{ID: id, DisplayName: name}}
}

func TestHasAuthor(t *testing.T) {
	w := openalex.Work{Authorships: []openalex.Authorship{
		authorship("https://openalex.org/A1", "Jane Smith"),
		authorship("", "Marc Russwurm"),
	}}

	t.Run("matched by ID", func(t *testing.T) {
		if !HasAuthor(w, map[string]bool{"A1": true}, "nobody") {
			t.Error("expected match by canonical ID")
		}
	})

	t.Run("matched by normalized name", func(t *testing.T) {
		// The work spells the name without eszett; the roster entry
		// carries "Marc Rußwurm". Normalization makes them equal.
		if !HasAuthor(w, map[string]bool{}, "marc russwurm") {
			t.Error("expected match by normalized name")
		}
	})

	t.Run("no match", func(t *testing.T) {
		if HasAuthor(w, map[string]bool{"A9": true}, "someone else") {
			t.Error("unexpected match")
		}
	})
}

func TestFormatAuthors(t *testing.T) {
	authorships := []openalex.Authorship{
		authorship("https://openalex.org/A1", "Jane Smith"),
		authorship("", "Marc Rußwurm"),
		authorship("", "Other Person"),
	}
	norms := map[string]bool{"marc russwurm": true}
	ids := map[string]bool{"A1": true}

	got := FormatAuthors(authorships, norms, ids, 12)
	want := "**Jane Smith**, **Marc Rußwurm**, Other Person"
	if got != want {
		t.Errorf("FormatAuthors = %q, want %q", got, want)
	}
}

func TestFormatAuthorsTruncation(t *testing.T) {
	var authorships []openalex.Authorship
	for _, name := range []string{"A One", "B Two", "C Three", "D Four", "E Five"} {
		authorships = append(authorships, authorship("", name))
	}

	got := FormatAuthors(authorships, nil, nil, 2)
	parts := strings.Split(got, ", ")
	if len(parts) != 3 {
		t.Fatalf("got %d entries, want 3: %q", len(parts), got)
	}
	if parts[2] != EtAl {
		t.Errorf("last entry = %q, want %q", parts[2], EtAl)
	}
}

func TestFormatAuthorsSkipsEmptyNames(t *testing.T) {
	authorships := []openalex.Authorship{
		authorship("https://openalex.org/A1", ""),
		authorship("", "Jane Smith"),
	}
	if got := FormatAuthors(authorships, nil, nil, 12); got != "Jane Smith" {
		t.Errorf("FormatAuthors = %q", got)
	}
}

func TestFormatAuthorsPreservesUpstreamOrder(t *testing.T) {
	authorships := []openalex.Authorship{
		authorship("", "Z Last"),
		authorship("", "A First"),
	}
	if got := FormatAuthors(authorships, nil, nil, 12); got != "Z Last, A First" {
		t.Errorf("order changed: %q", got)
	}
}
