package openlibrary

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"go.uber.org/zap"
)

func newTestClient(t *testing.T, handler http.Handler) (*Client, *httptest.Server) {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	c := NewClient(zap.NewNop(), "test-agent", 0, WithBaseURL(srv.URL))
	return c, srv
}

func TestSearchFirstMatch(t *testing.T) {
	c, srv := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/search.json" {
			t.Errorf("path = %q", r.URL.Path)
		}
		if got := r.URL.Query().Get("title"); got != "Dracula" {
			t.Errorf("title = %q", got)
		}
		if got := r.URL.Query().Get("author"); got != "Bram Stoker" {
			t.Errorf("author = %q", got)
		}
		fmt.Fprint(w, `{
			"numFound": 2,
			"docs": [
				{"key": "/works/OL190818W", "title": "Dracula", "author_name": ["Bram Stoker"], "cover_i": 12216503, "ratings_average": 3.97, "ratings_count": 1234},
				{"key": "/works/OL999W", "title": "Dracula's Guest", "ratings_average": 4.9, "ratings_count": 9}
			]
		}`)
	}))

	rec, err := c.Search(context.Background(), "Dracula", "Bram Stoker")
	if err != nil {
		t.Fatalf("Search: %v", err)
	}
	if rec == nil {
		t.Fatal("got nil record")
	}
	if rec.Title != "Dracula" {
		t.Errorf("first-match violated: Title = %q", rec.Title)
	}
	if rec.ReviewURL != srv.URL+"/works/OL190818W" {
		t.Errorf("ReviewURL = %q", rec.ReviewURL)
	}
	if rec.Rating != 3.97 || rec.RatingCount != 1234 {
		t.Errorf("rating = %v (%d)", rec.Rating, rec.RatingCount)
	}
	if rec.RatingText != "3.97 avg rating — 1234 ratings" {
		t.Errorf("RatingText = %q", rec.RatingText)
	}
	if rec.CoverImage != "https://covers.openlibrary.org/b/id/12216503-M.jpg" {
		t.Errorf("CoverImage = %q", rec.CoverImage)
	}
}

func TestSearchNoMatch(t *testing.T) {
	c, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{"numFound": 0, "docs": []}`)
	}))

	rec, err := c.Search(context.Background(), "No Such Book", "")
	if err != nil {
		t.Fatalf("Search: %v", err)
	}
	if rec != nil {
		t.Errorf("got %+v, want nil for no match", rec)
	}
}

func TestGetDetailsDescriptionShapes(t *testing.T) {
	cases := []struct {
		name string
		body string
		want string
	}{
		{
			name: "string description",
			body: `{"title": "Dracula", "description": "An epistolary horror novel.", "subjects": ["Horror", "Vampires"]}`,
			want: "An epistolary horror novel.",
		},
		{
			name: "object description",
			body: `{"title": "Dracula", "description": {"type": "/type/text", "value": "An epistolary horror novel."}}`,
			want: "An epistolary horror novel.",
		},
		{
			name: "missing description",
			body: `{"title": "Dracula"}`,
			want: "",
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			c, srv := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				if r.URL.Path != "/works/OL190818W.json" {
					t.Errorf("path = %q", r.URL.Path)
				}
				fmt.Fprint(w, tc.body)
			}))

			rec, err := c.GetDetails(context.Background(), srv.URL+"/works/OL190818W")
			if err != nil {
				t.Fatalf("GetDetails: %v", err)
			}
			if rec.Description != tc.want {
				t.Errorf("Description = %q, want %q", rec.Description, tc.want)
			}
		})
	}
}

func TestGetDetailsGenreCap(t *testing.T) {
	c, srv := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{"subjects": ["a","b","c","d","e","f","g","h","i","j","k","l"]}`)
	}))

	rec, err := c.GetDetails(context.Background(), srv.URL+"/works/OL1W")
	if err != nil {
		t.Fatalf("GetDetails: %v", err)
	}
	if len(rec.Genres) != maxGenres {
		t.Errorf("got %d genres, want %d", len(rec.Genres), maxGenres)
	}
}

func TestGetDetailsUnknownWork(t *testing.T) {
	c, srv := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.NotFound(w, r)
	}))

	rec, err := c.GetDetails(context.Background(), srv.URL+"/works/OL0W")
	if err != nil {
		t.Fatalf("GetDetails: %v", err)
	}
	if rec != nil {
		t.Errorf("got %+v, want nil for unknown work", rec)
	}
}
