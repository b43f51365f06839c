package orchestrator

import (
	"context"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/ShayCichocki/litmap/internal/specialist"
	"github.com/ShayCichocki/litmap/internal/textgen"
	"github.com/ShayCichocki/litmap/pkg/models"
)

const chatSystemPrompt = "You are a brilliant literary historian and cultural guide for the Living Literary Map. " +
	"You have deep knowledge of literature, historical landmarks, cultural movements, " +
	"and the intersection of place and story. A user is exploring a location on an interactive " +
	"literary map and has asked a question about it.\n\n" +
	"Answer in 2-3 concise, engaging sentences. Be specific, vivid, and informative. " +
	"If you reference a book, author, or historical event, be accurate. " +
	"Keep a warm, knowledgeable tone, like a passionate museum guide."

const (
	chatContextLen = 300
	chatQuoteLen   = 200
)

// ChatResponse is the answer to a question about a place.
type ChatResponse struct {
	Answer    string                 `json:"answer"`
	ElapsedMS int64                  `json:"elapsed_ms"`
	Timeline  []models.TimelineEntry `json:"timeline"`
}

// Chat answers a freeform question about a place in one generation call.
// place is optional. A generation failure is returned as an UpstreamError
// together with the response carrying the error entry.
func (c *Conductor) Chat(ctx context.Context, question string, place *models.Feature) (*ChatResponse, error) {
	question = strings.TrimSpace(question)
	if question == "" {
		return nil, invalid("question", "question is required")
	}

	parts := []string{"User question: " + question}
	if place != nil {
		if place.Title != "" {
			parts = append(parts, "Location: "+place.Title)
		}
		if place.Book != "" {
			parts = append(parts, "Book: "+place.Book)
		}
		if place.Era != "" {
			parts = append(parts, "Era: "+place.Era)
		}
		if place.HistoricalContext != "" {
			parts = append(parts, "Historical context: "+clip(place.HistoricalContext, chatContextLen, ""))
		}
		if place.Quote != "" {
			parts = append(parts, fmt.Sprintf("Literary quote: %q", clip(place.Quote, chatQuoteLen, "")))
		}
	}

	start := time.Now()
	out := c.call(ctx, ConductorAgent, func(ctx context.Context) (any, error) {
		return c.gen.Generate(ctx, chatSystemPrompt, strings.Join(parts, "\n"), 0), nil
	})
	elapsed := time.Since(start).Milliseconds()

	answer, _ := out.value.(string)
	if out.err == nil && textgen.Failed(answer) {
		out.err = &specialist.UpstreamError{Service: "text generation", Err: fmt.Errorf("%s", answer)}
	}

	entry := models.TimelineEntry{
		Agent:     ConductorAgent,
		Tool:      ToolChat,
		Status:    models.StatusSuccess,
		ElapsedMS: elapsed,
	}
	resp := &ChatResponse{Answer: answer, ElapsedMS: elapsed}

	if out.err != nil {
		entry.Status = models.StatusError
		entry.Error = out.err.Error()
		resp.Timeline = []models.TimelineEntry{entry}
		c.logger.Warn("chat failed", zap.Int64("elapsed_ms", elapsed), zap.Error(out.err))
		return resp, out.err
	}

	resp.Timeline = []models.TimelineEntry{entry}
	return resp, nil
}
