package locations

import (
	"strings"

	"github.com/ShayCichocki/litmap/internal/ranker"
)

// Defaults applied to generated locations with missing fields.
const (
	DefaultID        = "unknown"
	DefaultTitle     = "Unknown Location"
	DefaultBook      = "Unknown"
	DefaultEra       = "2000s"
	DefaultYear      = 2000
	DefaultRelevance = 5
)

// FeatureCollection is a GeoJSON feature collection.
type FeatureCollection struct {
	Type     string    `json:"type"`
	Features []Feature `json:"features"`
}

// Feature is a GeoJSON point feature for one location.
type Feature struct {
	Type       string     `json:"type"`
	Geometry   Geometry   `json:"geometry"`
	Properties Properties `json:"properties"`
}

// Geometry is a GeoJSON point.
type Geometry struct {
	Type        string    `json:"type"`
	Coordinates []float64 `json:"coordinates"`
}

// Properties are the location fields carried on a feature.
type Properties struct {
	ID                string  `json:"id"`
	Title             string  `json:"title"`
	Book              string  `json:"book"`
	Era               string  `json:"era"`
	Year              int     `json:"year"`
	Quote             string  `json:"quote"`
	HistoricalContext string  `json:"historical_context"`
	Mood              string  `json:"mood"`
	Relevance         float64 `json:"relevance"`
	// Rank is 1 for the most relevant location.
	Rank int `json:"rank"`
}

// ToFeatureCollection orders locations by relevance, most relevant first
// with ties in input order, and converts them to GeoJSON with ranks 1..N.
func ToFeatureCollection(locs []Location) FeatureCollection {
	sorted := make([]Location, len(locs))
	copy(sorted, locs)
	ranker.SortByScore(sorted, relevance)

	fc := FeatureCollection{Type: "FeatureCollection", Features: make([]Feature, 0, len(sorted))}
	for i, loc := range sorted {
		coords := loc.Coordinates
		if len(coords) < 2 {
			coords = []float64{0, 0}
		}
		fc.Features = append(fc.Features, Feature{
			Type:     "Feature",
			Geometry: Geometry{Type: "Point", Coordinates: coords},
			Properties: Properties{
				ID:                orDefault(loc.ID, DefaultID),
				Title:             orDefault(loc.Title, DefaultTitle),
				Book:              orDefault(loc.Book, DefaultBook),
				Era:               orDefault(loc.Era, DefaultEra),
				Year:              yearOrDefault(loc.Year),
				Quote:             loc.Quote,
				HistoricalContext: loc.HistoricalContext,
				Mood:              strings.Join(loc.Mood, ","),
				Relevance:         relevance(loc),
				Rank:              i + 1,
			},
		})
	}
	return fc
}

func relevance(l Location) float64 {
	if l.Relevance == 0 {
		return DefaultRelevance
	}
	return l.Relevance
}

func yearOrDefault(y int) int {
	if y == 0 {
		return DefaultYear
	}
	return y
}

func orDefault(s, def string) string {
	if strings.TrimSpace(s) == "" {
		return def
	}
	return s
}
