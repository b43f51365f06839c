package openlibrary

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ShayCichocki/litmap/pkg/models"
)

const joyLuckPayload = `{
  "numFound": 2,
  "docs": [
    {
      "key": "/works/OL45804W",
      "title": "The Joy Luck Club",
      "author_name": ["Amy Tan"],
      "first_publish_year": 1989,
      "cover_edition_key": "OL7353617M",
      "edition_count": 84,
      "isbn": ["9780399134203", "0399134204"],
      "subject": ["Mothers and daughters", "Chinese Americans", "Fiction", "San Francisco", "Families", "Immigrants"],
      "language": ["eng"],
      "publisher": ["Putnam", "Ivy Books", "Vintage", "Penguin"]
    },
    {
      "key": "/works/OL1W",
      "title": "Joy Luck Club Study Guide"
    }
  ]
}`

func TestSearch(t *testing.T) {
	var gotQuery map[string]string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		gotQuery = map[string]string{
			"title":  q.Get("title"),
			"limit":  q.Get("limit"),
			"fields": q.Get("fields"),
		}
		w.Header().Set("Content-Type", "application/json")
		fmt.Fprint(w, joyLuckPayload)
	}))
	defer srv.Close()

	c := NewClient(Config{SearchURL: srv.URL, CoverURL: "https://covers.test/b/olid/"})
	got, err := c.Search(context.Background(), "  the joy luck club ", 5)
	require.NoError(t, err)

	assert.Equal(t, "the joy luck club", gotQuery["title"])
	assert.Equal(t, "5", gotQuery["limit"])
	assert.Equal(t, searchFields, gotQuery["fields"])

	want := models.BookSearchResult{
		Query:    "the joy luck club",
		NumFound: 2,
		Books: []models.Book{
			{
				Key:              "/works/OL45804W",
				Title:            "The Joy Luck Club",
				Authors:          []string{"Amy Tan"},
				FirstPublishYear: 1989,
				EditionCount:     84,
				CoverURL:         "https://covers.test/b/olid/OL7353617M-M.jpg",
				ISBN:             "9780399134203",
				Subjects:         []string{"Mothers and daughters", "Chinese Americans", "Fiction", "San Francisco", "Families"},
				Languages:        []string{"eng"},
				Publishers:       []string{"Putnam", "Ivy Books", "Vintage"},
			},
			{
				Key:        "/works/OL1W",
				Title:      "Joy Luck Club Study Guide",
				Authors:    []string{},
				Subjects:   []string{},
				Languages:  []string{},
				Publishers: []string{},
			},
		},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("Search mismatch (-want +got):\n%s", diff)
	}
}

func TestSearch_EmptyQuery(t *testing.T) {
	c := NewClient(Config{SearchURL: "http://127.0.0.1:0"})
	_, err := c.Search(context.Background(), "   ", 10)
	assert.ErrorIs(t, err, ErrEmptyQuery)
}

func TestSearch_StatusError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "unavailable", http.StatusServiceUnavailable)
	}))
	defer srv.Close()

	c := NewClient(Config{SearchURL: srv.URL})
	_, err := c.Search(context.Background(), "beloved", 10)

	var se *StatusError
	require.True(t, errors.As(err, &se), "got %v", err)
	assert.Equal(t, http.StatusServiceUnavailable, se.Code)
}

func TestSearch_BadPayload(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, "<html>not json</html>")
	}))
	defer srv.Close()

	c := NewClient(Config{SearchURL: srv.URL})
	_, err := c.Search(context.Background(), "beloved", 10)
	assert.Error(t, err)
}

func TestSearch_ContextCanceled(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, joyLuckPayload)
	}))
	defer srv.Close()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	c := NewClient(Config{SearchURL: srv.URL})
	_, err := c.Search(ctx, "beloved", 10)
	assert.ErrorIs(t, err, context.Canceled)
}
