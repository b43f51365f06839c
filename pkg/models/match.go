package models

// RankedMatch is one candidate chosen by the search ranker.
type RankedMatch struct {
	// ID identifies a member of the candidate set.
	ID string `json:"id"`
	// Score is the match strength in [0,1].
	Score float64 `json:"score"`
	// Reason is the ranker's justification.
	Reason string `json:"reason"`
}

// VibeMatch is a ranked landmark as returned by vibe search.
type VibeMatch struct {
	LandmarkID string  `json:"landmark_id"`
	Title      string  `json:"title"`
	Book       string  `json:"book"`
	Era        string  `json:"era"`
	Reason     string  `json:"reason"`
	VibeScore  float64 `json:"vibe_score"`
}
