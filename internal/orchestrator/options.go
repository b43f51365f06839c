package orchestrator

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/ShayCichocki/litmap/internal/ranker"
	"github.com/ShayCichocki/litmap/internal/textgen"
	"github.com/ShayCichocki/litmap/pkg/models"
)

const (
	// DefaultMaxWorkers is the fan-out limit. It is also the floor, since
	// one request can select three specialists at once.
	DefaultMaxWorkers = 3
	// DefaultTaskTimeout bounds each specialist call.
	DefaultTaskTimeout = 45 * time.Second
	// DefaultSynthesisMaxTokens caps the synthesis reply.
	DefaultSynthesisMaxTokens = 512
	// DefaultSearchLimit is used when a search request gives no limit.
	DefaultSearchLimit = 10
	// DefaultVibeMatches is the number of landmarks vibe search returns.
	DefaultVibeMatches = 3
)

// Landmarks is the curated landmark lookup.
type Landmarks interface {
	Landmark(id string) (models.Landmark, bool)
	Landmarks() []models.Landmark
}

// ContextSource returns historical context for a location.
type ContextSource interface {
	Lookup(ctx context.Context, landmarkID string, feature *models.Feature) (models.LocationContext, error)
}

// DialectSource returns period dialect for an era.
type DialectSource interface {
	Dialect(ctx context.Context, era string) (models.DialectRecord, error)
}

// StyleSource returns the map style for an era.
type StyleSource interface {
	Style(ctx context.Context, era string) (models.StyleRecord, error)
}

// BookSource searches for books.
type BookSource interface {
	Search(ctx context.Context, query string, limit int) (models.BookSearchResult, error)
}

// Ranker orders candidates against a query.
type Ranker interface {
	Rank(ctx context.Context, query string, candidates []ranker.Candidate, topN int) []models.RankedMatch
}

// RequiredConfig contains the collaborators a Conductor cannot work without.
type RequiredConfig struct {
	Catalog   Landmarks
	Archivist ContextSource
	Linguist  DialectSource
	Stylist   StyleSource
	Librarian BookSource
	// Generator writes the synthesis and chat answers.
	Generator textgen.Generator
}

// Option configures a Conductor. Use With* functions to create Options.
type Option func(*conductorOptions)

type conductorOptions struct {
	maxWorkers         int
	taskTimeout        time.Duration
	synthesisMaxTokens int
	logger             *zap.Logger
	ranker             Ranker
	newID              func() string
}

// WithMaxWorkers sets the fan-out limit. Values below DefaultMaxWorkers are raised to it.
func WithMaxWorkers(n int) Option {
	return func(o *conductorOptions) { o.maxWorkers = n }
}

// WithTaskTimeout sets the per-task deadline.
func WithTaskTimeout(d time.Duration) Option {
	return func(o *conductorOptions) { o.taskTimeout = d }
}

// WithSynthesisMaxTokens sets the token cap for the synthesis call.
func WithSynthesisMaxTokens(n int) Option {
	return func(o *conductorOptions) { o.synthesisMaxTokens = n }
}

// WithLogger sets the structured logger.
func WithLogger(l *zap.Logger) Option {
	return func(o *conductorOptions) { o.logger = l }
}

// WithRanker replaces the ranker used by vibe search.
func WithRanker(r Ranker) Option {
	return func(o *conductorOptions) { o.ranker = r }
}

// WithIDGenerator replaces the orchestration id source.
func WithIDGenerator(f func() string) Option {
	return func(o *conductorOptions) { o.newID = f }
}
