package models

import (
	"encoding/json"
	"strings"
)

// ActionSearch is the reserved action tag that routes a request to book search.
const ActionSearch = "search"

// OrchestrationRequest describes one inbound user action.
// At least one of LandmarkID, Era or a recognized Action must be usable.
type OrchestrationRequest struct {
	// LandmarkID is the curated location key (e.g. "hr-harlem").
	LandmarkID string `json:"landmark_id,omitempty"`
	// Era is the period key (e.g. "1920s").
	Era string `json:"era,omitempty"`
	// Action is a free-form action tag; ActionSearch selects the librarian.
	Action string `json:"action,omitempty"`
	// Query is the free-text query used by search actions.
	Query string `json:"query,omitempty"`
	// Limit caps the number of books returned by a search action.
	Limit int `json:"limit,omitempty"`
	// FeatureData describes a location that is not in curated data.
	FeatureData *Feature `json:"feature_data,omitempty"`
}

// IsSearch reports whether the request targets the book-search path.
func (r *OrchestrationRequest) IsSearch() bool {
	return strings.EqualFold(strings.TrimSpace(r.Action), ActionSearch)
}

// Feature is an inline location payload, typically one produced by
// location extraction for an uploaded book.
type Feature struct {
	ID                string    `json:"id,omitempty"`
	Title             string    `json:"title,omitempty"`
	Book              string    `json:"book,omitempty"`
	Era               string    `json:"era,omitempty"`
	Year              int       `json:"year,omitempty"`
	Quote             string    `json:"quote,omitempty"`
	HistoricalContext string    `json:"historical_context,omitempty"`
	Mood              Moods     `json:"mood,omitempty"`
	Coordinates       []float64 `json:"coordinates,omitempty"`
}

// Moods is a list of mood words. It decodes from either a JSON array or a
// comma separated string, since generated locations use the latter.
type Moods []string

// UnmarshalJSON implements json.Unmarshaler.
func (m *Moods) UnmarshalJSON(data []byte) error {
	var list []string
	if err := json.Unmarshal(data, &list); err == nil {
		*m = list
		return nil
	}

	var joined string
	if err := json.Unmarshal(data, &joined); err != nil {
		return err
	}
	*m = SplitMoods(joined)
	return nil
}

// SplitMoods splits a comma separated mood string, dropping empty parts.
func SplitMoods(s string) Moods {
	var out Moods
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

// AsFeature returns the landmark as an inline feature payload.
func (l Landmark) AsFeature() *Feature {
	return &Feature{
		ID:                l.ID,
		Title:             l.Title,
		Book:              l.Book,
		Era:               l.Era,
		Year:              l.Year,
		Quote:             l.Quote,
		HistoricalContext: l.HistoricalContext,
		Mood:              Moods(l.Mood),
		Coordinates:       l.Coordinates,
	}
}
