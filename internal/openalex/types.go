package openalex

// Author identifies one author inside an authorship entry.
type Author struct {
	ID          string `json:"id"`
	DisplayName string `json:"display_name"`
}

// Authorship is one entry of a work's ordered author list.
type Authorship struct {
	Author Author `json:"author"`
}

// Institution is an author's affiliated institution.
type Institution struct {
	DisplayName string `json:"display_name"`
}

// AuthorCandidate is one result of an author search.
type AuthorCandidate struct {
	ID                   string      `json:"id"`
	DisplayName          string      `json:"display_name"`
	WorksCount           int         `json:"works_count"`
	LastKnownInstitution Institution `json:"last_known_institution"`
}

// Source is the publication source of a location (journal, repository).
type Source struct {
	DisplayName string `json:"display_name"`
}

// Location is where a version of a work is hosted.
type Location struct {
	Source         Source `json:"source"`
	LandingPageURL string `json:"landing_page_url"`
}

// HostVenue is the primary venue reported for a work.
type HostVenue struct {
	DisplayName string `json:"display_name"`
}

// Work is one bibliographic record as returned by the API. Works are
// fetched per run and only ever read, never mutated.
type Work struct {
	ID              string       `json:"id"`
	DisplayName     string       `json:"display_name"`
	DOI             string       `json:"doi"`
	PublicationYear int          `json:"publication_year"`
	PublicationDate string       `json:"publication_date"`
	HostVenue       HostVenue    `json:"host_venue"`
	PrimaryLocation Location     `json:"primary_location"`
	Authorships     []Authorship `json:"authorships"`
	CitedByCount    int          `json:"cited_by_count"`
}

// listMeta carries the pagination cursor of a list response.
type listMeta struct {
	NextCursor string `json:"next_cursor"`
}

// authorsResponse is the payload of GET /authors.
type authorsResponse struct {
	Results []AuthorCandidate `json:"results"`
}

// worksResponse is the payload of one GET /works page.
type worksResponse struct {
	Results []Work   `json:"results"`
	Meta    listMeta `json:"meta"`
}
