// Package locations asks a text generator for the real-world places in a
// book and turns them into a ranked GeoJSON feature collection.
package locations

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"go.uber.org/zap"

	"github.com/ShayCichocki/litmap/internal/extract"
	"github.com/ShayCichocki/litmap/internal/textgen"
	"github.com/ShayCichocki/litmap/pkg/models"
)

const (
	// MaxTokens is the reply limit for one extraction call.
	MaxTokens = 4096
	// MaxTextChars is the excerpt size sent for text extraction.
	MaxTextChars = 100000

	truncationMarker = "\n\n[...middle of text truncated...]\n\n"
)

var (
	// ErrEmptyTitle is returned when no title is given.
	ErrEmptyTitle = errors.New("a title is required")
	// ErrNoText is returned when a manuscript holds no text.
	ErrNoText = errors.New("could not extract any text")
)

// Location is one generated place.
type Location struct {
	ID                string
	Title             string
	Book              string
	Era               string
	Year              int
	Coordinates       []float64
	Quote             string
	HistoricalContext string
	Mood              models.Moods
	// Relevance is the narrative importance, 1-10. Zero means unscored.
	Relevance float64
}

// rawLocation is the generated record before normalisation. Numeric
// fields are loose since generated output quotes them inconsistently.
type rawLocation struct {
	ID                string       `json:"id"`
	Title             string       `json:"title"`
	Book              string       `json:"book"`
	Era               string       `json:"era"`
	Year              any          `json:"year"`
	Coordinates       []float64    `json:"coordinates"`
	Quote             string       `json:"quote"`
	HistoricalContext string       `json:"historical_context"`
	Mood              models.Moods `json:"mood"`
	Relevance         any          `json:"relevance"`
}

// Extractor turns book titles and excerpts into locations.
type Extractor struct {
	gen    textgen.Generator
	logger *zap.Logger
}

// New creates an Extractor. A nil logger disables logging.
func New(gen textgen.Generator, logger *zap.Logger) *Extractor {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Extractor{gen: gen, logger: logger}
}

// FromTitle recalls the locations of a book from its title and optional
// author and year. Locations without a book are attributed to title.
func (e *Extractor) FromTitle(ctx context.Context, title, author, year string) ([]Location, error) {
	title = strings.TrimSpace(title)
	if title == "" {
		return nil, ErrEmptyTitle
	}

	parts := []string{"Book title: " + title}
	if author = strings.TrimSpace(author); author != "" {
		parts = append(parts, "Author: "+author)
	}
	if year = strings.TrimSpace(year); year != "" {
		parts = append(parts, "First published: "+year)
	}

	return e.extract(ctx, titlePrompt, strings.Join(parts, "\n"), title), nil
}

// FromText finds the locations mentioned in a book excerpt.
func (e *Extractor) FromText(ctx context.Context, text, title string) ([]Location, error) {
	if strings.TrimSpace(text) == "" {
		return nil, ErrNoText
	}
	title = strings.TrimSpace(title)
	if title == "" {
		title = "Unknown"
	}

	user := fmt.Sprintf("Book title: %s\n\nText excerpt:\n%s", title, Truncate(text, MaxTextChars))
	return e.extract(ctx, textPrompt, user, title), nil
}

func (e *Extractor) extract(ctx context.Context, system, user, title string) []Location {
	reply := e.gen.Generate(ctx, system, user, MaxTokens)
	if textgen.Degraded(reply) {
		e.logger.Warn("location extraction unavailable",
			zap.String("title", title),
			zap.String("reply", reply))
		return []Location{}
	}

	parsed := extract.Parse(reply)
	if parsed.Salvaged {
		e.logger.Info("location reply was incomplete, salvaged records",
			zap.String("title", title),
			zap.Int("records", len(parsed.Records)),
			zap.Int("discarded", parsed.Discarded))
	}

	raws := extract.Decode[rawLocation](reply)
	out := make([]Location, 0, len(raws))
	for _, raw := range raws {
		loc := raw.normalise()
		if loc.Book == "" {
			loc.Book = title
		}
		out = append(out, loc)
	}
	return out
}

func (r rawLocation) normalise() Location {
	return Location{
		ID:                strings.TrimSpace(r.ID),
		Title:             r.Title,
		Book:              strings.TrimSpace(r.Book),
		Era:               strings.TrimSpace(r.Era),
		Year:              int(number(r.Year)),
		Coordinates:       r.Coordinates,
		Quote:             r.Quote,
		HistoricalContext: r.HistoricalContext,
		Mood:              r.Mood,
		Relevance:         number(r.Relevance),
	}
}

// number reads a JSON number or numeric string; anything else is zero.
func number(v any) float64 {
	switch n := v.(type) {
	case float64:
		return n
	case string:
		f, err := strconv.ParseFloat(strings.TrimSpace(n), 64)
		if err != nil {
			return 0
		}
		return f
	default:
		return 0
	}
}

// Truncate keeps the head and tail of text when it exceeds limit characters.
func Truncate(text string, limit int) string {
	r := []rune(text)
	if len(r) <= limit {
		return text
	}
	half := limit / 2
	return string(r[:half]) + truncationMarker + string(r[len(r)-half:])
}
