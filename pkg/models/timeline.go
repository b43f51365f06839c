package models

// Status represents the outcome of one step in an orchestration timeline.
type Status string

const (
	// StatusSuccess indicates the step produced a result.
	StatusSuccess Status = "success"
	// StatusError indicates the step failed; its result slot is absent.
	StatusError Status = "error"
	// StatusSkipped indicates the step had no input to work on.
	StatusSkipped Status = "skipped"
)

// Valid returns true if the status is a known value.
func (s Status) Valid() bool {
	switch s {
	case StatusSuccess, StatusError, StatusSkipped:
		return true
	default:
		return false
	}
}

// TimelineEntry records one dispatched specialist call or the synthesis step.
// Entries appear in completion order, not submission order.
type TimelineEntry struct {
	// Agent is the display name of the specialist (e.g. "ArchivistAgent").
	Agent string `json:"agent"`
	// Tool is the tool the agent invoked (e.g. "get_historical_context").
	Tool string `json:"tool"`
	// Status is the outcome of the call.
	Status Status `json:"status"`
	// ElapsedMS is the wall-clock duration of the call in milliseconds.
	ElapsedMS int64 `json:"elapsed_ms"`
	// Error is the failure reason when Status is StatusError.
	Error string `json:"error,omitempty"`
}

// ReasoningStep is one visible step of the orchestrator's chain of thought.
type ReasoningStep struct {
	// Agent is the agent the step belongs to.
	Agent string `json:"agent"`
	// Step is the step kind (e.g. "DELEGATING", "RESULT").
	Step string `json:"step"`
	// Detail is a human-readable description.
	Detail string `json:"detail,omitempty"`
	// TimestampMS is the offset from the start of the orchestration.
	TimestampMS int64 `json:"ts"`
}
