package models

// Landmark is a curated literary location.
type Landmark struct {
	ID                string    `json:"id" yaml:"id"`
	Title             string    `json:"title" yaml:"title"`
	Quote             string    `json:"quote" yaml:"quote"`
	HistoricalContext string    `json:"historical_context" yaml:"historical_context"`
	DialectNote       string    `json:"dialect_note,omitempty" yaml:"dialect_note"`
	Year              int       `json:"year" yaml:"year"`
	Book              string    `json:"book" yaml:"book"`
	Era               string    `json:"era" yaml:"era"`
	Mood              []string  `json:"mood" yaml:"mood"`
	Coordinates       []float64 `json:"coordinates,omitempty" yaml:"coordinates"`
}

// Context source values for LocationContext.Source.
const (
	SourceCurated = "curated"
	SourceFeature = "feature"
)

// LocationContext is the archivist's record for one location.
type LocationContext struct {
	// LandmarkID is the key the record was requested with.
	LandmarkID string `json:"landmark_id"`
	// Title is the display title of the location, when known.
	Title string `json:"title,omitempty"`
	// Quote is the literary quote tied to the location.
	Quote string `json:"quote"`
	// HistoricalContext is the curated or supplied background.
	HistoricalContext string `json:"historical_context"`
	// DialectNote is an optional note on local speech.
	DialectNote string `json:"dialect_note,omitempty"`
	// Year is the year the book references.
	Year int `json:"year"`
	// Book is the title of the book.
	Book string `json:"book"`
	// Era is the period key of the location.
	Era string `json:"era,omitempty"`
	// AIInsight is the generated deep-dive insight.
	AIInsight string `json:"ai_insight"`
	// Source is SourceCurated or SourceFeature.
	Source string `json:"source"`
}

// SlangTerm is one period slang term with its meaning.
type SlangTerm struct {
	Term    string `json:"term" yaml:"term"`
	Meaning string `json:"meaning" yaml:"meaning"`
}

// Dialect is the curated dialect entry for one era.
type Dialect struct {
	EraLabel     string      `json:"era_label" yaml:"era_label"`
	Slang        []SlangTerm `json:"slang" yaml:"slang"`
	DialectNotes string      `json:"dialect_notes" yaml:"dialect_notes"`
}

// DialectRecord is the linguist's record for one era.
type DialectRecord struct {
	Era string `json:"era"`
	Dialect
	AIBlurb string `json:"ai_blurb"`
}

// Style is the curated map style for one era.
type Style struct {
	Label           string         `json:"label" yaml:"label"`
	MapboxStyle     string         `json:"mapbox_style" yaml:"mapbox_style"`
	PaintOverrides  map[string]any `json:"paint_overrides" yaml:"paint_overrides"`
	BackgroundColor string         `json:"background_color" yaml:"background_color"`
	AccentColor     string         `json:"accent_color" yaml:"accent_color"`
	FontSuggestion  string         `json:"font_suggestion" yaml:"font_suggestion"`
}

// StyleRecord is the stylist's record for one era.
type StyleRecord struct {
	Era string `json:"era"`
	Style
	AISuggestion string `json:"ai_suggestion"`
}

// Book is one normalised book search hit.
type Book struct {
	Key              string   `json:"key"`
	Title            string   `json:"title"`
	Authors          []string `json:"authors"`
	FirstPublishYear int      `json:"first_publish_year,omitempty"`
	EditionCount     int      `json:"edition_count"`
	CoverURL         string   `json:"cover_url,omitempty"`
	ISBN             string   `json:"isbn,omitempty"`
	Subjects         []string `json:"subjects"`
	Languages        []string `json:"languages"`
	Publishers       []string `json:"publishers"`
}

// BookSearchResult is the librarian's record for one query.
type BookSearchResult struct {
	Query    string `json:"query"`
	NumFound int    `json:"num_found"`
	Books    []Book `json:"books"`
}
