package openalex

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestSearchAuthors(t *testing.T) {
	var gotQuery map[string]string

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/authors" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		q := r.URL.Query()
		gotQuery = map[string]string{
			"search":   q.Get("search"),
			"per-page": q.Get("per-page"),
			"mailto":   q.Get("mailto"),
		}
		fmt.Fprint(w, `{"results":[
			{"id":"https://openalex.org/A1","display_name":"Jane Smith","works_count":120,
			 "last_known_institution":{"display_name":"Wageningen University"}},
			{"id":"https://openalex.org/A2","display_name":"Jane A. Smith","works_count":3,
			 "last_known_institution":null}
		]}`)
	}))
	defer srv.Close()

	c := NewClient(WithBaseURL(srv.URL), WithMailto("team@example.org"))

	candidates, err := c.SearchAuthors(context.Background(), "Jane Smith", 5)
	if err != nil {
		t.Fatalf("SearchAuthors: %v", err)
	}

	if gotQuery["search"] != "Jane Smith" || gotQuery["per-page"] != "5" {
		t.Errorf("unexpected query params: %v", gotQuery)
	}
	if gotQuery["mailto"] != "team@example.org" {
		t.Errorf("mailto not attached: %v", gotQuery)
	}

	if len(candidates) != 2 {
		t.Fatalf("got %d candidates, want 2", len(candidates))
	}
	if candidates[0].ID != "https://openalex.org/A1" || candidates[0].WorksCount != 120 {
		t.Errorf("unexpected first candidate: %+v", candidates[0])
	}
	if candidates[0].LastKnownInstitution.DisplayName != "Wageningen University" {
		t.Errorf("institution not parsed: %+v", candidates[0])
	}
	if candidates[1].LastKnownInstitution.DisplayName != "" {
		t.Errorf("null institution should decode to empty: %+v", candidates[1])
	}
}

func TestWorksPagerFollowsCursors(t *testing.T) {
	var cursors []string

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		if got := q.Get("filter"); got != "authorships.author.id:A1" {
			t.Errorf("unexpected filter %q", got)
		}
		cursor := q.Get("cursor")
		cursors = append(cursors, cursor)

		switch cursor {
		case "*":
			fmt.Fprint(w, `{"results":[{"id":"https://openalex.org/W1","display_name":"First"}],"meta":{"next_cursor":"page2"}}`)
		case "page2":
			fmt.Fprint(w, `{"results":[{"id":"https://openalex.org/W2","display_name":"Second"}],"meta":{"next_cursor":null}}`)
		default:
			t.Errorf("unexpected cursor %q", cursor)
		}
	}))
	defer srv.Close()

	c := NewClient(WithBaseURL(srv.URL))
	pager := c.WorksByAuthor("https://openalex.org/A1", 200)

	var all []Work
	for pager.More() {
		page, err := pager.Next(context.Background())
		if err != nil {
			t.Fatalf("Next: %v", err)
		}
		all = append(all, page...)
	}

	if len(all) != 2 {
		t.Fatalf("got %d works, want 2", len(all))
	}
	if len(cursors) != 2 || cursors[0] != "*" || cursors[1] != "page2" {
		t.Errorf("unexpected cursor sequence %v", cursors)
	}

	// Exhausted pager stays exhausted
	if pager.More() {
		t.Error("pager should be exhausted")
	}
	page, err := pager.Next(context.Background())
	if err != nil || page != nil {
		t.Errorf("exhausted Next = (%v, %v), want (nil, nil)", page, err)
	}
}

func TestGetReturnsAPIError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "boom", http.StatusInternalServerError)
	}))
	defer srv.Close()

	c := NewClient(WithBaseURL(srv.URL))
	_, err := c.SearchAuthors(context.Background(), "anyone", 5)
	if err == nil {
		t.Fatal("expected error")
	}

	var apiErr *APIError
	if !errors.As(err, &apiErr) {
		t.Fatalf("expected APIError, got %T: %v", err, err)
	}
	if apiErr.StatusCode != http.StatusInternalServerError {
		t.Errorf("status = %d, want 500", apiErr.StatusCode)
	}
}

func TestGetRateLimited(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
	}))
	defer srv.Close()

	c := NewClient(WithBaseURL(srv.URL))
	_, err := c.SearchAuthors(context.Background(), "anyone", 5)
	if !IsRateLimited(err) {
		t.Errorf("expected rate-limited error, got %v", err)
	}
}
