// Package dedupe collapses the fetched work pool into one record per
// logical publication. The upstream API is not internally consistent
// about issuing one identifier per paper: the same work can surface as
// a preprint and a published version under different IDs. Two passes
// handle this: a strong key (normalized DOI, falling back to
// title+year+first author) and a weak key (lowercase title). Within a
// group the record with the highest quality tuple wins, which makes
// the choice deterministic across reruns.
package dedupe

import (
	"fmt"
	"sort"

	"github.com/earthvision-lab/pubsync/internal/openalex"
	"github.com/earthvision-lab/pubsync/internal/textnorm"
)

// Key returns the grouping key identifying a logical paper: the
// normalized DOI when present, else a composite of normalized title,
// year, and first-author normalized name.
func Key(w openalex.Work) string {
	if doi := w.NormalizedDOI(); doi != "" {
		return "doi:" + doi
	}

	titleNorm := textnorm.NormalizeName(textnorm.SanitizeScalar(w.DisplayName))

	year := ""
	if w.PublicationYear != 0 {
		year = fmt.Sprintf("%d", w.PublicationYear)
	}

	firstAuthor := ""
	if len(w.Authorships) > 0 {
		firstAuthor = textnorm.NormalizeName(w.Authorships[0].Author.DisplayName)
	}

	return fmt.Sprintf("t:%s|y:%s|a0:%s", titleNorm, year, firstAuthor)
}

// Quality is the comparator tuple used to pick a winner among duplicate
// records: DOI > venue > date > citations > author count.
type Quality struct {
	HasDOI    int
	HasVenue  int
	HasDate   int
	Citations int
	Authors   int
}

// QualityOf computes a work's quality tuple. The venue bit reflects the
// host venue field only, matching the historical dedupe behavior even
// though emission falls back to the primary location source.
func QualityOf(w openalex.Work) Quality {
	q := Quality{
		Citations: w.CitedByCount,
		Authors:   len(w.Authorships),
	}
	if w.NormalizedDOI() != "" {
		q.HasDOI = 1
	}
	if textnorm.SanitizeScalar(w.HostVenue.DisplayName) != "" {
		q.HasVenue = 1
	}
	if w.PublicationDate != "" {
		q.HasDate = 1
	}
	return q
}

// Better reports whether q is strictly higher quality than other,
// comparing the tuple lexicographically.
func (q Quality) Better(other Quality) bool {
	if q.HasDOI != other.HasDOI {
		return q.HasDOI > other.HasDOI
	}
	if q.HasVenue != other.HasVenue {
		return q.HasVenue > other.HasVenue
	}
	if q.HasDate != other.HasDate {
		return q.HasDate > other.HasDate
	}
	if q.Citations != other.Citations {
		return q.Citations > other.Citations
	}
	return q.Authors > other.Authors
}

// ByLogicalPaper keeps one work per dedupe key, retaining the highest
// quality record in each group. Output preserves the order in which
// groups were first seen; within a group the earlier record wins ties.
func ByLogicalPaper(works []openalex.Work) []openalex.Work {
	return dedupeBy(works, func(w openalex.Work) string { return Key(w) })
}

// ByLowercaseTitle is the second pass: group purely by case-insensitive
// sanitized title, catching residual duplicates whose strong keys
// differ (inconsistent DOI presence, first-author formatting). Works
// with an empty title are dropped.
func ByLowercaseTitle(works []openalex.Work) []openalex.Work {
	return dedupeBy(works, func(w openalex.Work) string {
		return textnorm.TitleKeyLower(w.DisplayName)
	})
}

func dedupeBy(works []openalex.Work, keyOf func(openalex.Work) string) []openalex.Work {
	best := make(map[string]openalex.Work)
	var order []string

	for _, w := range works {
		k := keyOf(w)
		if k == "" {
			continue
		}
		prev, seen := best[k]
		if !seen {
			best[k] = w
			order = append(order, k)
			continue
		}
		if QualityOf(w).Better(QualityOf(prev)) {
			best[k] = w
		}
	}

	out := make([]openalex.Work, 0, len(order))
	for _, k := range order {
		out = append(out, best[k])
	}
	return out
}

// SortNewestFirst orders works descending by (publication year, date).
// The sort is stable: exact ties keep their input order.
func SortNewestFirst(works []openalex.Work) {
	sort.SliceStable(works, func(i, j int) bool {
		if works[i].PublicationYear != works[j].PublicationYear {
			return works[i].PublicationYear > works[j].PublicationYear
		}
		return works[i].PublicationDate > works[j].PublicationDate
	})
}
