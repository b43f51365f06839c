package orchestrator

import (
	"sync"
	"time"

	"github.com/ShayCichocki/litmap/pkg/models"
)

// run is the mutable state of one orchestration. It is never shared
// across requests.
type run struct {
	id    string
	start time.Time

	mu        sync.Mutex
	results   map[string]any
	timeline  []models.TimelineEntry
	reasoning []models.ReasoningStep
}

func newRun(id string) *run {
	return &run{
		id:        id,
		start:     time.Now(),
		results:   make(map[string]any),
		timeline:  []models.TimelineEntry{},
		reasoning: []models.ReasoningStep{},
	}
}

// elapsed returns the milliseconds since the run started.
func (r *run) elapsed() int64 {
	return time.Since(r.start).Milliseconds()
}

func (r *run) step(agent, kind, detail string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.reasoning = append(r.reasoning, models.ReasoningStep{
		Agent:       agent,
		Step:        kind,
		Detail:      detail,
		TimestampMS: r.elapsed(),
	})
}

// finish appends a timeline entry and, on success, stores the slot record.
func (r *run) finish(entry models.TimelineEntry, slot string, value any) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.timeline = append(r.timeline, entry)
	if entry.Status == models.StatusSuccess && slot != "" {
		r.results[slot] = value
	}
}

// succeeded returns the stored record for slot.
func (r *run) succeeded(slot string) (any, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	v, ok := r.results[slot]
	return v, ok
}
