// Package publication models the emitted publication records and the
// maintenance passes over the on-disk publication directory. Files are
// append-only: once written, a record is never overwritten, only
// rewritten to harmonize its title or deleted as a title duplicate.
package publication

import (
	"fmt"

	"github.com/earthvision-lab/pubsync/internal/textnorm"
)

// Record is the front matter of one emitted publication file, in the
// field order the site build expects. Year is an int normally and the
// string "unknown" when the upstream record carries no usable year.
type Record struct {
	Title          string `yaml:"title"`
	Authors        string `yaml:"authors"`
	Date           string `yaml:"date"`
	Year           any    `yaml:"year"`
	Link           string `yaml:"link"`
	Venue          string `yaml:"venue"`
	Order          int    `yaml:"order"`
	OpenAlexWorkID string `yaml:"openalex_work_id"`
	DedupeKey      string `yaml:"dedupe_key"`
}

// YearValue returns the front-matter year field for a numeric year,
// falling back to "unknown" for zero.
func YearValue(year int) any {
	if year == 0 {
		return "unknown"
	}
	return year
}

// Filename derives the record's filename from its date, title slug, and
// work ID. The work ID keeps filenames unique across titles that slug
// identically.
func Filename(date, title, workID string) string {
	return fmt.Sprintf("%s-%s-%s.md", date, textnorm.Slugify(title), workID)
}

// sanitized returns a copy with every string field made YAML-safe.
func (r Record) sanitized() Record {
	r.Title = textnorm.SanitizeScalar(r.Title)
	r.Authors = textnorm.SanitizeScalar(r.Authors)
	r.Date = textnorm.SanitizeScalar(r.Date)
	r.Link = textnorm.SanitizeScalar(r.Link)
	r.Venue = textnorm.SanitizeScalar(r.Venue)
	r.OpenAlexWorkID = textnorm.SanitizeScalar(r.OpenAlexWorkID)
	r.DedupeKey = textnorm.SanitizeScalar(r.DedupeKey)
	if s, ok := r.Year.(string); ok {
		r.Year = textnorm.SanitizeScalar(s)
	}
	return r
}
