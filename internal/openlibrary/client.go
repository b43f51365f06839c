// Package openlibrary is a small client for the Open Library search API.
package openlibrary

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/ShayCichocki/litmap/pkg/models"
)

const (
	// DefaultSearchURL is the public search endpoint.
	DefaultSearchURL = "https://openlibrary.org/search.json"
	// DefaultCoverURL is the prefix for edition cover images.
	DefaultCoverURL = "https://covers.openlibrary.org/b/olid"
	// DefaultTimeout bounds one search request.
	DefaultTimeout = 10 * time.Second

	searchFields = "key,title,author_name,first_publish_year," +
		"cover_edition_key,edition_count,isbn,subject,language,publisher"

	maxSubjects   = 5
	maxPublishers = 3
)

// ErrEmptyQuery is returned for a blank search query.
var ErrEmptyQuery = errors.New("search query must not be empty")

// StatusError reports a non-200 response.
type StatusError struct {
	Code int
	Body string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("open library returned status %d", e.Code)
}

// Config configures a Client.
type Config struct {
	SearchURL  string
	CoverURL   string
	Timeout    time.Duration
	HTTPClient *http.Client
	Logger     *zap.Logger
}

// Client queries Open Library. It holds no per-call state.
type Client struct {
	searchURL string
	coverURL  string
	http      *http.Client
	logger    *zap.Logger
}

// NewClient creates a client, filling unset fields with defaults.
func NewClient(cfg Config) *Client {
	if cfg.SearchURL == "" {
		cfg.SearchURL = DefaultSearchURL
	}
	if cfg.CoverURL == "" {
		cfg.CoverURL = DefaultCoverURL
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = DefaultTimeout
	}
	if cfg.HTTPClient == nil {
		cfg.HTTPClient = &http.Client{Timeout: cfg.Timeout}
	}
	if cfg.Logger == nil {
		cfg.Logger = zap.NewNop()
	}

	return &Client{
		searchURL: cfg.SearchURL,
		coverURL:  strings.TrimRight(cfg.CoverURL, "/"),
		http:      cfg.HTTPClient,
		logger:    cfg.Logger,
	}
}

// Search looks up books by title and returns at most limit normalised hits.
func (c *Client) Search(ctx context.Context, query string, limit int) (models.BookSearchResult, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return models.BookSearchResult{}, ErrEmptyQuery
	}

	params := url.Values{}
	params.Set("title", query)
	params.Set("limit", strconv.Itoa(limit))
	params.Set("fields", searchFields)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.searchURL+"?"+params.Encode(), nil)
	if err != nil {
		return models.BookSearchResult{}, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	start := time.Now()
	resp, err := c.http.Do(req)
	if err != nil {
		return models.BookSearchResult{}, fmt.Errorf("open library request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
		return models.BookSearchResult{}, &StatusError{Code: resp.StatusCode, Body: string(body)}
	}

	var payload searchResponse
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return models.BookSearchResult{}, fmt.Errorf("failed to decode response: %w", err)
	}

	c.logger.Debug("open library search",
		zap.String("query", query),
		zap.Int("num_found", payload.NumFound),
		zap.Int("docs", len(payload.Docs)),
		zap.Duration("elapsed", time.Since(start)))

	books := make([]models.Book, 0, len(payload.Docs))
	for _, doc := range payload.Docs {
		books = append(books, c.normalise(doc))
	}

	return models.BookSearchResult{
		Query:    query,
		NumFound: payload.NumFound,
		Books:    books,
	}, nil
}

func (c *Client) normalise(doc searchDoc) models.Book {
	book := models.Book{
		Key:              doc.Key,
		Title:            doc.Title,
		Authors:          nonNil(doc.AuthorName),
		FirstPublishYear: doc.FirstPublishYear,
		EditionCount:     doc.EditionCount,
		Subjects:         head(doc.Subject, maxSubjects),
		Languages:        nonNil(doc.Language),
		Publishers:       head(doc.Publisher, maxPublishers),
	}
	if doc.CoverEditionKey != "" {
		book.CoverURL = fmt.Sprintf("%s/%s-M.jpg", c.coverURL, doc.CoverEditionKey)
	}
	if len(doc.ISBN) > 0 {
		book.ISBN = doc.ISBN[0]
	}
	return book
}

func head(s []string, n int) []string {
	if len(s) > n {
		s = s[:n]
	}
	return nonNil(s)
}

func nonNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}

type searchResponse struct {
	NumFound int         `json:"numFound"`
	Docs     []searchDoc `json:"docs"`
}

type searchDoc struct {
	Key              string   `json:"key"`
	Title            string   `json:"title"`
	AuthorName       []string `json:"author_name"`
	FirstPublishYear int      `json:"first_publish_year"`
	CoverEditionKey  string   `json:"cover_edition_key"`
	EditionCount     int      `json:"edition_count"`
	ISBN             []string `json:"isbn"`
	Subject          []string `json:"subject"`
	Language         []string `json:"language"`
	Publisher        []string `json:"publisher"`
}
