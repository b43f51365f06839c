package specialist

import (
	"context"
	"strings"

	"github.com/ShayCichocki/litmap/pkg/models"
)

// BookSearcher searches an external book catalogue.
type BookSearcher interface {
	Search(ctx context.Context, query string, limit int) (models.BookSearchResult, error)
}

// Librarian finds books matching a title query.
type Librarian struct {
	books BookSearcher
}

// NewLibrarian creates a librarian backed by books.
func NewLibrarian(books BookSearcher) *Librarian {
	return &Librarian{books: books}
}

// Search returns normalised books for query. Any failure of the backing
// service is reported as an UpstreamError.
func (l *Librarian) Search(ctx context.Context, query string, limit int) (models.BookSearchResult, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return models.BookSearchResult{}, ErrEmptyQuery
	}

	res, err := l.books.Search(ctx, query, limit)
	if err != nil {
		return models.BookSearchResult{}, &UpstreamError{Service: "open library", Err: err}
	}
	return res, nil
}
