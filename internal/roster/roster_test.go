package roster

import (
	"os"
	"path/filepath"
	"testing"
)

func writeMember(t *testing.T, dir, name, content string) {
	t.Helper()
	if err := os.WriteFile(filepath.Join(dir, name), []byte(content), 0o644); err != nil {
		t.Fatalf("writing %s: %v", name, err)
	}
}

func TestLoad(t *testing.T) {
	dir := t.TempDir()
	writeMember(t, dir, "01-marc.md", "---\nname: \"Marc Rußwurm\"\nopenalex_author_id: \"https://openalex.org/A1\"\n---\n")
	writeMember(t, dir, "02-jane.md", "---\nname: Jane Smith\n---\n")
	writeMember(t, dir, "03-broken.md", "no front matter here\n")
	writeMember(t, dir, "04-nameless.md", "---\nrole: student\n---\n")
	writeMember(t, dir, "notes.txt", "ignored\n")

	members, err := Load(dir)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	if len(members) != 2 {
		t.Fatalf("got %d members, want 2: %+v", len(members), members)
	}

	if members[0].Name != "Marc Rußwurm" {
		t.Errorf("name = %q", members[0].Name)
	}
	if members[0].NameNorm != "marc russwurm" {
		t.Errorf("name norm = %q", members[0].NameNorm)
	}
	if members[0].AuthorID != "A1" {
		t.Errorf("author ID not canonicalized: %q", members[0].AuthorID)
	}

	if members[1].Name != "Jane Smith" || members[1].AuthorID != "" {
		t.Errorf("unexpected second member: %+v", members[1])
	}
}

func TestLoadEmptyRosterIsError(t *testing.T) {
	if _, err := Load(t.TempDir()); err == nil {
		t.Fatal("expected error for empty roster")
	}
}

func TestFindRequired(t *testing.T) {
	members := []Member{
		{Name: "Jane Smith", NameNorm: "jane smith"},
		{Name: "Marc Rußwurm", NameNorm: "marc russwurm"},
	}

	m, ok := FindRequired(members, "Marc Rußwurm")
	if !ok || m.Name != "Marc Rußwurm" {
		t.Errorf("FindRequired = (%+v, %v)", m, ok)
	}

	// Accented spelling of the configured name still matches.
	m, ok = FindRequired(members, "Marc Russwurm")
	if !ok || m.Name != "Marc Rußwurm" {
		t.Errorf("FindRequired with plain spelling = (%+v, %v)", m, ok)
	}

	if _, ok := FindRequired(members, "Nobody Here"); ok {
		t.Error("expected no match")
	}
	if _, ok := FindRequired(members, ""); ok {
		t.Error("empty name should not match")
	}
}

func TestNameNormsAndAuthorIDs(t *testing.T) {
	members := []Member{
		{Name: "A", NameNorm: "a", AuthorID: "A1"},
		{Name: "B", NameNorm: "b"},
	}

	norms := NameNorms(members)
	if !norms["a"] || !norms["b"] || len(norms) != 2 {
		t.Errorf("NameNorms = %v", norms)
	}

	ids := AuthorIDs(members)
	if !ids["A1"] || len(ids) != 1 {
		t.Errorf("AuthorIDs = %v", ids)
	}
}
