package publication

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/earthvision-lab/pubsync/internal/frontmatter"
	"github.com/earthvision-lab/pubsync/internal/textnorm"
)

// Write emits one record into dir under its derived filename. An
// existing file with that name is left untouched; the return value
// reports whether a new file was written.
func Write(dir string, rec Record) (bool, error) {
	path := filepath.Join(dir, Filename(rec.Date, rec.Title, rec.OpenAlexWorkID))

	if _, err := os.Stat(path); err == nil {
		return false, nil
	} else if !os.IsNotExist(err) {
		return false, fmt.Errorf("checking %s: %w", path, err)
	}

	if err := frontmatter.Write(path, rec.sanitized(), ""); err != nil {
		return false, err
	}
	return true, nil
}

// HarmonizeTitles rewrites any existing record whose stored title
// differs from its title-cased form, returning the number of files
// rewritten. Files without a usable title are skipped.
func HarmonizeTitles(dir string) (int, error) {
	paths, err := listRecords(dir)
	if err != nil {
		return 0, err
	}

	updated := 0
	for _, path := range paths {
		f, err := frontmatter.Read(path)
		if err != nil {
			return updated, err
		}

		old := f.String("title")
		if old == "" {
			continue
		}

		if cased := textnorm.TitleCase(old); cased != old {
			f.SetString("title", cased)
			if err := f.Rewrite(path); err != nil {
				return updated, err
			}
			updated++
		}
	}
	return updated, nil
}

// PruneDuplicateTitles deletes records sharing a case-insensitive title,
// keeping the one with the latest date (tie-break: shorter filename).
// Returns the number of files deleted.
func PruneDuplicateTitles(dir string) (int, error) {
	paths, err := listRecords(dir)
	if err != nil {
		return 0, err
	}

	groups := make(map[string][]string)
	dates := make(map[string]string)
	for _, path := range paths {
		f, err := frontmatter.Read(path)
		if err != nil {
			return 0, err
		}

		title := strings.TrimSpace(f.String("title"))
		if title == "" {
			continue
		}

		key := textnorm.TitleKeyLower(title)
		groups[key] = append(groups[key], path)
		dates[path] = f.String("date")
	}

	deleted := 0
	for _, files := range groups {
		if len(files) <= 1 {
			continue
		}

		keep := files[0]
		for _, f := range files[1:] {
			if preferKeep(f, keep, dates) {
				keep = f
			}
		}

		for _, f := range files {
			if f == keep {
				continue
			}
			if err := os.Remove(f); err != nil {
				return deleted, fmt.Errorf("removing duplicate %s: %w", f, err)
			}
			deleted++
		}
	}
	return deleted, nil
}

// preferKeep reports whether candidate should replace current as the
// retained file: later date wins, then the shorter filename.
func preferKeep(candidate, current string, dates map[string]string) bool {
	if dates[candidate] != dates[current] {
		return dates[candidate] > dates[current]
	}
	return len(filepath.Base(candidate)) < len(filepath.Base(current))
}

// Wipe removes every record file in dir, returning the number removed.
func Wipe(dir string) (int, error) {
	paths, err := listRecords(dir)
	if err != nil {
		return 0, err
	}
	for i, path := range paths {
		if err := os.Remove(path); err != nil {
			return i, fmt.Errorf("wiping %s: %w", path, err)
		}
	}
	return len(paths), nil
}

func listRecords(dir string) ([]string, error) {
	paths, err := filepath.Glob(filepath.Join(dir, "*.md"))
	if err != nil {
		return nil, fmt.Errorf("listing records in %s: %w", dir, err)
	}
	sort.Strings(paths)
	return paths, nil
}
