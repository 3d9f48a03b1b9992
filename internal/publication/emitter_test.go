package publication

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/earthvision-lab/pubsync/internal/frontmatter"
)

func sampleRecord() Record {
	return Record{
		Title:          "Deep Learning for Crop Mapping",
		Authors:        "**Marc Rußwurm**, Jane Smith",
		Date:           "2022-03-01",
		Year:           2022,
		Link:           "https://doi.org/10.1/x",
		Venue:          "NeurIPS",
		Order:          1,
		OpenAlexWorkID: "W1",
		DedupeKey:      "doi:https://doi.org/10.1/x",
	}
}

func TestFilename(t *testing.T) {
	got := Filename("2022-03-01", "Deep Learning for Crop Mapping", "W1")
	want := "2022-03-01-deep-learning-for-crop-mapping-W1.md"
	if got != want {
		t.Errorf("Filename = %q, want %q", got, want)
	}
}

func TestWriteSkipsExisting(t *testing.T) {
	dir := t.TempDir()
	rec := sampleRecord()

	written, err := Write(dir, rec)
	if err != nil || !written {
		t.Fatalf("first Write = (%v, %v)", written, err)
	}

	path := filepath.Join(dir, Filename(rec.Date, rec.Title, rec.OpenAlexWorkID))
	before, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("reading emitted file: %v", err)
	}

	// Second write with changed metadata must not touch the file.
	rec.Venue = "Changed Venue"
	written, err = Write(dir, rec)
	if err != nil || written {
		t.Fatalf("second Write = (%v, %v), want (false, nil)", written, err)
	}

	after, _ := os.ReadFile(path)
	if string(before) != string(after) {
		t.Error("existing file was modified")
	}
}

func TestWriteFrontMatter(t *testing.T) {
	dir := t.TempDir()
	rec := sampleRecord()

	if _, err := Write(dir, rec); err != nil {
		t.Fatal(err)
	}

	path := filepath.Join(dir, Filename(rec.Date, rec.Title, rec.OpenAlexWorkID))
	f, err := frontmatter.Read(path)
	if err != nil {
		t.Fatal(err)
	}

	if got := f.String("title"); got != rec.Title {
		t.Errorf("title = %q", got)
	}
	if got := f.String("authors"); got != rec.Authors {
		t.Errorf("authors = %q", got)
	}
	if got, ok := f.Fields["order"].(int); !ok || got != 1 {
		t.Errorf("order = %v", f.Fields["order"])
	}
	if got := f.String("dedupe_key"); got != rec.DedupeKey {
		t.Errorf("dedupe_key = %q", got)
	}
}

func TestWriteSanitizesScalars(t *testing.T) {
	dir := t.TempDir()
	rec := sampleRecord()
	rec.Venue = "Venue​with\njunk"
	rec.OpenAlexWorkID = "W2"
	rec.Title = "Another Title"

	if _, err := Write(dir, rec); err != nil {
		t.Fatal(err)
	}

	path := filepath.Join(dir, Filename(rec.Date, rec.Title, "W2"))
	f, err := frontmatter.Read(path)
	if err != nil {
		t.Fatal(err)
	}
	if got := f.String("venue"); got != "Venuewith junk" {
		t.Errorf("venue not sanitized: %q", got)
	}
}

func TestYearValue(t *testing.T) {
	if got := YearValue(2022); got != 2022 {
		t.Errorf("YearValue(2022) = %v", got)
	}
	if got := YearValue(0); got != "unknown" {
		t.Errorf("YearValue(0) = %v", got)
	}
}

func TestHarmonizeTitles(t *testing.T) {
	dir := t.TempDir()

	// One file with a non-canonical title, one already canonical, one
	// without front matter.
	writeTestRecord(t, dir, "a.md", "deep learning for crop mapping", "2022-03-01")
	writeTestRecord(t, dir, "b.md", "Already Cased Title", "2023-01-01")
	if err := os.WriteFile(filepath.Join(dir, "c.md"), []byte("plain file\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	updated, err := HarmonizeTitles(dir)
	if err != nil {
		t.Fatalf("HarmonizeTitles: %v", err)
	}
	if updated != 1 {
		t.Errorf("updated = %d, want 1", updated)
	}

	f, _ := frontmatter.Read(filepath.Join(dir, "a.md"))
	if got := f.String("title"); got != "Deep Learning for Crop Mapping" {
		t.Errorf("title = %q", got)
	}

	// Second pass is a no-op.
	updated, err = HarmonizeTitles(dir)
	if err != nil || updated != 0 {
		t.Errorf("second pass = (%d, %v), want (0, nil)", updated, err)
	}
}

func TestPruneDuplicateTitles(t *testing.T) {
	dir := t.TempDir()

	writeTestRecord(t, dir, "2021-old-longer-name.md", "Crop Mapping", "2021-01-01")
	writeTestRecord(t, dir, "2022-new.md", "crop mapping", "2022-03-01")
	writeTestRecord(t, dir, "other.md", "Unrelated Paper", "2020-01-01")

	deleted, err := PruneDuplicateTitles(dir)
	if err != nil {
		t.Fatalf("PruneDuplicateTitles: %v", err)
	}
	if deleted != 1 {
		t.Errorf("deleted = %d, want 1", deleted)
	}

	if _, err := os.Stat(filepath.Join(dir, "2022-new.md")); err != nil {
		t.Error("newest duplicate should be kept")
	}
	if _, err := os.Stat(filepath.Join(dir, "2021-old-longer-name.md")); !os.IsNotExist(err) {
		t.Error("older duplicate should be deleted")
	}
	if _, err := os.Stat(filepath.Join(dir, "other.md")); err != nil {
		t.Error("unrelated file should survive")
	}
}

func TestPruneDuplicateTitlesTieBreaksOnShorterFilename(t *testing.T) {
	dir := t.TempDir()

	writeTestRecord(t, dir, "short.md", "Crop Mapping", "2022-03-01")
	writeTestRecord(t, dir, "much-longer-filename.md", "Crop Mapping", "2022-03-01")

	deleted, err := PruneDuplicateTitles(dir)
	if err != nil || deleted != 1 {
		t.Fatalf("PruneDuplicateTitles = (%d, %v)", deleted, err)
	}

	if _, err := os.Stat(filepath.Join(dir, "short.md")); err != nil {
		t.Error("shorter filename should be kept on date tie")
	}
}

func TestWipe(t *testing.T) {
	dir := t.TempDir()
	writeTestRecord(t, dir, "a.md", "A", "2022-01-01")
	writeTestRecord(t, dir, "b.md", "B", "2023-01-01")

	removed, err := Wipe(dir)
	if err != nil || removed != 2 {
		t.Fatalf("Wipe = (%d, %v)", removed, err)
	}

	left, _ := filepath.Glob(filepath.Join(dir, "*.md"))
	if len(left) != 0 {
		t.Errorf("files left after wipe: %v", left)
	}
}

func writeTestRecord(t *testing.T, dir, name, title, date string) {
	t.Helper()
	content := "---\ntitle: \"" + title + "\"\ndate: \"" + date + "\"\n---\n"
	if err := os.WriteFile(filepath.Join(dir, name), []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
}

func TestFilenameSlugStripsPunctuation(t *testing.T) {
	got := Filename("2022-03-01", "Attention: Is All You Need!", "W9")
	if strings.ContainsAny(got, ":!") {
		t.Errorf("punctuation leaked into filename: %q", got)
	}
}
