package openalex

import (
	"fmt"
	"regexp"
	"strings"
)

// idURLPrefix is the URL form of OpenAlex identifiers.
const idURLPrefix = "https://openalex.org/"

var isoDatePattern = regexp.MustCompile(`^\d{4}-\d{2}-\d{2}$`)

// CanonicalID returns the short OpenAlex ID (A123..., W123...) from a
// full URL or an already-short input.
func CanonicalID(id string) string {
	id = strings.TrimSpace(id)
	if strings.HasPrefix(id, idURLPrefix) {
		parts := strings.Split(id, "/")
		return parts[len(parts)-1]
	}
	return id
}

// NormalizedDOI returns the work's DOI as a lowercase doi.org URL, or ""
// when the work carries none.
func (w Work) NormalizedDOI() string {
	doi := strings.TrimSpace(w.DOI)
	if doi == "" {
		return ""
	}
	if strings.HasPrefix(doi, "http") {
		return strings.ToLower(doi)
	}
	return strings.ToLower("https://doi.org/" + doi)
}

// BestLink picks the work's outbound link: DOI URL, else the primary
// location landing page, else the OpenAlex work URL.
func (w Work) BestLink() string {
	if doi := strings.TrimSpace(w.DOI); doi != "" {
		if strings.HasPrefix(doi, "http") {
			return doi
		}
		return "https://doi.org/" + doi
	}
	if url := strings.TrimSpace(w.PrimaryLocation.LandingPageURL); url != "" {
		return url
	}
	return strings.TrimSpace(w.ID)
}

// VenueName picks the venue display name: host venue, else the primary
// location source, else "".
func (w Work) VenueName() string {
	if name := strings.TrimSpace(w.HostVenue.DisplayName); name != "" {
		return name
	}
	return strings.TrimSpace(w.PrimaryLocation.Source.DisplayName)
}

// DateISO returns the publication date as YYYY-MM-DD, falling back to
// YYYY-01-01 when only the year is known, else "".
func (w Work) DateISO() string {
	if d := strings.TrimSpace(w.PublicationDate); isoDatePattern.MatchString(d) {
		return d
	}
	if w.PublicationYear >= 1000 && w.PublicationYear <= 9999 {
		return fmt.Sprintf("%04d-01-01", w.PublicationYear)
	}
	return ""
}
