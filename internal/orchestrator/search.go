package orchestrator

import (
	"context"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/ShayCichocki/litmap/internal/ranker"
	"github.com/ShayCichocki/litmap/internal/specialist"
	"github.com/ShayCichocki/litmap/pkg/models"
)

// BookSearch is the response of the book-search path.
type BookSearch struct {
	ID string `json:"id"`
	models.BookSearchResult
	Timeline       []models.TimelineEntry `json:"timeline"`
	TotalElapsedMS int64                  `json:"total_elapsed_ms"`
}

// Failed reports whether the librarian call failed.
func (b *BookSearch) Failed() bool {
	for _, e := range b.Timeline {
		if e.Status == models.StatusError {
			return true
		}
	}
	return false
}

// SearchBooks runs the librarian alone: no era inference and no synthesis.
// A blank query is a ValidationError and nothing is dispatched. A librarian
// failure is not an error: the response has no books and an error entry in
// its timeline.
func (c *Conductor) SearchBooks(ctx context.Context, query string, limit int) (*BookSearch, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return nil, invalid("query", "search query must not be empty")
	}
	if limit <= 0 {
		limit = DefaultSearchLimit
	}

	r := newRun(c.newID())
	log := c.logger.With(zap.String("orchestration_id", r.id))
	info := specialist.LibrarianInfo

	runTask := task{
		info: info,
		call: fmt.Sprintf("%s(query=%q, limit=%d)", info.Tool, query, limit),
		run: func(ctx context.Context) (any, error) {
			return c.librarian.Search(ctx, query, limit)
		},
	}
	err := c.runTask(ctx, log, r, runTask)

	resp := &BookSearch{
		ID:             r.id,
		Timeline:       r.timeline,
		TotalElapsedMS: r.elapsed(),
	}

	if err != nil {
		resp.BookSearchResult = models.BookSearchResult{Query: query, Books: []models.Book{}}
		return resp, nil
	}

	v, _ := r.succeeded(info.Slot)
	resp.BookSearchResult = v.(models.BookSearchResult)
	return resp, nil
}

// VibeResponse is the result of a vibe search.
type VibeResponse struct {
	Query          string             `json:"query"`
	Matches        []models.VibeMatch `json:"matches"`
	AIElapsedMS    int64              `json:"ai_elapsed_ms"`
	TotalElapsedMS int64              `json:"total_elapsed_ms"`
}

// VibeSearch ranks the curated landmarks against a free-text mood query.
func (c *Conductor) VibeSearch(ctx context.Context, query string, topN int) (*VibeResponse, error) {
	start := time.Now()
	query = strings.TrimSpace(query)
	if query == "" {
		return nil, invalid("query", "query is required")
	}
	if topN <= 0 {
		topN = DefaultVibeMatches
	}

	landmarks := c.catalog.Landmarks()
	byID := make(map[string]models.Landmark, len(landmarks))
	for _, lm := range landmarks {
		byID[lm.ID] = lm
	}

	rankStart := time.Now()
	ranked := c.ranker.Rank(ctx, query, ranker.FromLandmarks(landmarks), topN)
	aiMS := time.Since(rankStart).Milliseconds()

	matches := make([]models.VibeMatch, 0, len(ranked))
	for _, m := range ranked {
		lm, ok := byID[m.ID]
		if !ok {
			continue
		}
		matches = append(matches, models.VibeMatch{
			LandmarkID: lm.ID,
			Title:      lm.Title,
			Book:       lm.Book,
			Era:        lm.Era,
			Reason:     m.Reason,
			VibeScore:  m.Score,
		})
	}

	c.logger.Info("vibe search",
		zap.String("query", query),
		zap.Int("matches", len(matches)),
		zap.Int64("ai_elapsed_ms", aiMS))

	return &VibeResponse{
		Query:          query,
		Matches:        matches,
		AIElapsedMS:    aiMS,
		TotalElapsedMS: time.Since(start).Milliseconds(),
	}, nil
}
