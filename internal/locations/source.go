package locations

import (
	"context"
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"strings"
	"unicode"
	"unicode/utf8"
)

// ErrUnsupportedMedia is returned for manuscripts a TextSource cannot read.
var ErrUnsupportedMedia = errors.New("unsupported media type")

// DefaultMaxUpload bounds the bytes read from one manuscript.
const DefaultMaxUpload = 32 << 20

// TextSource extracts plain text from an uploaded manuscript.
type TextSource interface {
	Text(ctx context.Context, name string, r io.Reader) (string, error)
}

// PlainText reads UTF-8 text manuscripts. PDFs and other binary formats
// are rejected with ErrUnsupportedMedia.
type PlainText struct {
	// MaxBytes caps the manuscript size. Zero means DefaultMaxUpload.
	MaxBytes int64
}

var plainExts = map[string]bool{"": true, ".txt": true, ".text": true, ".md": true}

// Text implements TextSource.
func (p PlainText) Text(_ context.Context, name string, r io.Reader) (string, error) {
	ext := strings.ToLower(filepath.Ext(name))
	if ext == ".pdf" {
		return "", fmt.Errorf("%w: PDF text extraction is not available, upload a .txt manuscript", ErrUnsupportedMedia)
	}
	if !plainExts[ext] {
		return "", fmt.Errorf("%w: %s", ErrUnsupportedMedia, ext)
	}

	limit := p.MaxBytes
	if limit <= 0 {
		limit = DefaultMaxUpload
	}
	data, err := io.ReadAll(io.LimitReader(r, limit))
	if err != nil {
		return "", fmt.Errorf("read manuscript: %w", err)
	}
	if !utf8.Valid(data) {
		return "", fmt.Errorf("%w: %s is not UTF-8 text", ErrUnsupportedMedia, name)
	}
	return string(data), nil
}

// Upload is the result of processing one manuscript.
type Upload struct {
	BookTitle      string            `json:"book_title"`
	Author         string            `json:"author,omitempty"`
	LocationsFound int               `json:"locations_found"`
	GeoJSON        FeatureCollection `json:"geojson"`
}

// Process reads a manuscript through src, extracts its locations and
// returns them as GeoJSON. An empty title is derived from the file name.
func (e *Extractor) Process(ctx context.Context, src TextSource, name string, r io.Reader, title string) (*Upload, error) {
	text, err := src.Text(ctx, name, r)
	if err != nil {
		return nil, err
	}
	if strings.TrimSpace(title) == "" {
		title = TitleFromFilename(name)
	}

	locs, err := e.FromText(ctx, text, title)
	if err != nil {
		return nil, err
	}

	return &Upload{
		BookTitle:      title,
		LocationsFound: len(locs),
		GeoJSON:        ToFeatureCollection(locs),
	}, nil
}

// ProcessTitle recalls the locations of a book by title and returns them
// as GeoJSON.
func (e *Extractor) ProcessTitle(ctx context.Context, title, author, year string) (*Upload, error) {
	locs, err := e.FromTitle(ctx, title, author, year)
	if err != nil {
		return nil, err
	}
	return &Upload{
		BookTitle:      strings.TrimSpace(title),
		Author:         strings.TrimSpace(author),
		LocationsFound: len(locs),
		GeoJSON:        ToFeatureCollection(locs),
	}, nil
}

// TitleFromFilename turns "the_joy-luck club.txt" into "The Joy Luck Club".
func TitleFromFilename(name string) string {
	base := strings.TrimSuffix(filepath.Base(name), filepath.Ext(name))
	base = strings.NewReplacer("_", " ", "-", " ").Replace(base)

	words := strings.Fields(base)
	for i, w := range words {
		r, size := utf8.DecodeRuneInString(w)
		words[i] = string(unicode.ToUpper(r)) + strings.ToLower(w[size:])
	}
	if len(words) == 0 {
		return "Unknown"
	}
	return strings.Join(words, " ")
}
