package orchestrator

import (
	"context"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/ShayCichocki/litmap/internal/textgen"
	"github.com/ShayCichocki/litmap/pkg/models"
)

const conductorSystemPrompt = "You are the ConductorAgent, an AI orchestrator for a Living Literary Map. " +
	"You have just received the combined output of specialist agents: " +
	"the ArchivistAgent (historical facts), LinguistAgent (era slang), and " +
	"StylistAgent (visual design). Synthesize their outputs into one vivid, " +
	"2-sentence narrative summary that ties the location, language, and " +
	"visual atmosphere together. Be poetic but factual."

const (
	digestContextLen = 200
	digestSlangTerms = 3
	resultQuoteLen   = 60
)

// synthesize writes the narrative over the succeeded slots and records the
// synthesis timeline entry. It returns nil when synthesis was skipped or
// failed.
func (c *Conductor) synthesize(ctx context.Context, log *zap.Logger, r *run, tasks []task) *string {
	var lines []string
	for _, t := range tasks {
		if v, ok := r.succeeded(t.info.Slot); ok {
			lines = append(lines, digestLine(v))
		}
	}

	if len(lines) == 0 {
		r.finish(models.TimelineEntry{
			Agent:  ConductorAgent,
			Tool:   ToolSynthesize,
			Status: models.StatusSkipped,
		}, "", nil)
		log.Info("synthesis skipped, no specialist succeeded")
		return nil
	}

	r.step(ConductorAgent, StepSynthesizing,
		fmt.Sprintf("Merging %d agent results into unified narrative", len(lines)))

	user := strings.Join(lines, "\n") + "\n\nSynthesize into one vivid 2-sentence narrative."

	start := time.Now()
	out := c.call(ctx, ConductorAgent, func(ctx context.Context) (any, error) {
		return c.gen.Generate(ctx, conductorSystemPrompt, user, c.synthesisMaxTokens), nil
	})
	elapsed := time.Since(start).Milliseconds()

	text, _ := out.value.(string)
	if out.err == nil && textgen.Failed(text) {
		out.err = fmt.Errorf("synthesis: %s", text)
	}

	entry := models.TimelineEntry{
		Agent:     ConductorAgent,
		Tool:      ToolSynthesize,
		Status:    models.StatusSuccess,
		ElapsedMS: elapsed,
	}
	if out.err != nil {
		entry.Status = models.StatusError
		entry.Error = out.err.Error()
		r.finish(entry, "", nil)
		r.step(ConductorAgent, StepError, "Synthesis failed: "+out.err.Error())
		log.Warn("synthesis failed", zap.Int64("elapsed_ms", elapsed), zap.Error(out.err))
		return nil
	}

	r.finish(entry, "", nil)
	r.step(ConductorAgent, StepSynthesisComplete, fmt.Sprintf("Generated narrative in %dms", elapsed))
	return &text
}

// digestLine summarises one specialist record for the synthesis prompt.
func digestLine(v any) string {
	switch rec := v.(type) {
	case models.LocationContext:
		return fmt.Sprintf("Location: %s - %s", rec.Book, clip(rec.HistoricalContext, digestContextLen, ""))
	case models.DialectRecord:
		return "Language of the era: " + strings.Join(slangTerms(rec.Slang, digestSlangTerms), ", ")
	case models.StyleRecord:
		return fmt.Sprintf("Visual vibe: %s (%s)", rec.Label, rec.AccentColor)
	default:
		return fmt.Sprintf("%v", v)
	}
}

// resultDetail describes one specialist record for a RESULT step.
func resultDetail(v any) string {
	switch rec := v.(type) {
	case models.LocationContext:
		return fmt.Sprintf("Found: %q - %s", rec.Book, clip(rec.Quote, resultQuoteLen, "..."))
	case models.DialectRecord:
		return fmt.Sprintf("Identified %d slang terms: %s",
			len(rec.Slang), strings.Join(slangTerms(rec.Slang, digestSlangTerms), ", "))
	case models.StyleRecord:
		return fmt.Sprintf("Generated style: %s (accent: %s)", rec.Label, rec.AccentColor)
	case models.BookSearchResult:
		return fmt.Sprintf("Found %d books (%d total matches)", len(rec.Books), rec.NumFound)
	default:
		return "ok"
	}
}

func slangTerms(slang []models.SlangTerm, n int) []string {
	if len(slang) > n {
		slang = slang[:n]
	}
	terms := make([]string, len(slang))
	for i, s := range slang {
		terms[i] = s.Term
	}
	return terms
}

// clip truncates s to n runes, appending suffix when it cut anything.
func clip(s string, n int, suffix string) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n]) + suffix
}
