// Package ranker orders a fixed candidate set against a free-text query
// using one text-generation call.
package ranker

import (
	"context"
	"fmt"
	"math"
	"slices"
	"strconv"
	"strings"

	"go.uber.org/zap"

	"github.com/ShayCichocki/litmap/internal/extract"
	"github.com/ShayCichocki/litmap/internal/textgen"
	"github.com/ShayCichocki/litmap/pkg/models"
)

// DefaultScore is assigned to a match the generator did not score.
const DefaultScore = 0.5

const (
	quoteSummaryLen   = 80
	contextSummaryLen = 100
	rankMaxTokens     = 600
)

const systemPrompt = "You are a semantic search engine for a literary map. Given a user's " +
	"vibe/feeling query and a list of literary landmarks with their quotes " +
	"and historical context, return a JSON array of the best matching " +
	"landmark IDs ranked by relevance, with a brief 'reason' for each match.\n\n" +
	"IMPORTANT: Return ONLY valid JSON. No markdown, no explanation outside the JSON.\n" +
	`Format: [{"id": "landmark-id", "reason": "why it matches", "score": 0.95}]` + "\n" +
	"score should be 0.0 to 1.0 indicating match strength."

// Candidate is one member of the set being ranked.
type Candidate struct {
	ID      string
	Quote   string
	Context string
	Book    string
	Era     string
	Moods   []string
}

// FromLandmarks converts curated landmarks to candidates.
func FromLandmarks(landmarks []models.Landmark) []Candidate {
	out := make([]Candidate, 0, len(landmarks))
	for _, lm := range landmarks {
		out = append(out, Candidate{
			ID:      lm.ID,
			Quote:   lm.Quote,
			Context: lm.HistoricalContext,
			Book:    lm.Book,
			Era:     lm.Era,
			Moods:   lm.Mood,
		})
	}
	return out
}

// Summary is the compact one-line description sent to the generator.
func (c Candidate) Summary() string {
	return fmt.Sprintf("- %s: %q | %s (%s) | Mood: %s | %s",
		c.ID, clip(c.Quote, quoteSummaryLen), c.Book, c.Era,
		strings.Join(c.Moods, ", "), clip(c.Context, contextSummaryLen))
}

// Ranker ranks candidates with a text generator.
type Ranker struct {
	gen    textgen.Generator
	logger *zap.Logger
}

// New creates a Ranker. A nil logger disables logging.
func New(gen textgen.Generator, logger *zap.Logger) *Ranker {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Ranker{gen: gen, logger: logger}
}

// Rank returns at most topN matches for query, strongest first. The reply
// order only breaks score ties, so truncation to topN keeps the highest
// scores. Every returned id belongs to candidates and appears once. When the
// generator yields nothing usable the result is empty.
func (r *Ranker) Rank(ctx context.Context, query string, candidates []Candidate, topN int) []models.RankedMatch {
	if topN <= 0 || len(candidates) == 0 {
		return []models.RankedMatch{}
	}

	known := make(map[string]struct{}, len(candidates))
	lines := make([]string, 0, len(candidates))
	for _, c := range candidates {
		known[c.ID] = struct{}{}
		lines = append(lines, c.Summary())
	}

	user := fmt.Sprintf("User's vibe query: %q\n\nAvailable landmarks:\n%s\n\n"+
		"Return the top %d matching landmarks as a JSON array.",
		query, strings.Join(lines, "\n"), topN)

	raw := r.gen.Generate(ctx, systemPrompt, user, rankMaxTokens)
	if textgen.Degraded(raw) {
		r.logger.Warn("ranking unavailable", zap.String("reply", raw))
		return []models.RankedMatch{}
	}

	parsed := extract.Parse(raw)
	if parsed.Salvaged {
		r.logger.Debug("ranking reply salvaged",
			zap.Int("records", len(parsed.Records)),
			zap.Int("discarded", parsed.Discarded))
	}

	seen := make(map[string]struct{}, len(parsed.Records))
	matches := make([]models.RankedMatch, 0, len(parsed.Records))
	for _, rec := range parsed.Records {
		id, _ := rec["id"].(string)
		if _, ok := known[id]; !ok {
			continue
		}
		if _, dup := seen[id]; dup {
			continue
		}
		seen[id] = struct{}{}

		reason, _ := rec["reason"].(string)
		matches = append(matches, models.RankedMatch{
			ID:     id,
			Score:  score(rec),
			Reason: reason,
		})
	}

	Order(matches)
	if len(matches) > topN {
		matches = matches[:topN]
	}
	return matches
}

// Order sorts matches by descending score, keeping input order for ties.
func Order(matches []models.RankedMatch) {
	SortByScore(matches, func(m models.RankedMatch) float64 { return m.Score })
}

// SortByScore stable-sorts items by descending score.
func SortByScore[T any](items []T, score func(T) float64) {
	slices.SortStableFunc(items, func(a, b T) int {
		sa, sb := score(a), score(b)
		switch {
		case sa > sb:
			return -1
		case sa < sb:
			return 1
		}
		return 0
	})
}

// score reads "score" (or the older "vibe_score") and clamps it to [0,1].
func score(rec extract.Record) float64 {
	v, ok := rec["score"]
	if !ok {
		v, ok = rec["vibe_score"]
	}
	if !ok {
		return DefaultScore
	}

	var f float64
	switch n := v.(type) {
	case float64:
		f = n
	case string:
		parsed, err := strconv.ParseFloat(strings.TrimSpace(n), 64)
		if err != nil {
			return DefaultScore
		}
		f = parsed
	default:
		return DefaultScore
	}

	if math.IsNaN(f) {
		return DefaultScore
	}
	return math.Max(0, math.Min(1, f))
}

func clip(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n]) + "..."
}
