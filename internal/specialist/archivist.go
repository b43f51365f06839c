package specialist

import (
	"context"
	"fmt"
	"strings"

	"github.com/ShayCichocki/litmap/internal/catalog"
	"github.com/ShayCichocki/litmap/internal/textgen"
	"github.com/ShayCichocki/litmap/pkg/models"
)

const archivistSystemPrompt = "You are the ArchivistAgent, a literary historian specializing in " +
	"American migration narratives. Given a quote, book title, and era, " +
	"provide a 2-3 sentence enriched historical insight that a student or " +
	"museum visitor would find fascinating. Be concise and vivid."

// Archivist returns historical context for a location.
type Archivist struct {
	catalog *catalog.Catalog
	gen     textgen.Generator
}

// NewArchivist creates an archivist over the curated landmarks.
func NewArchivist(cat *catalog.Catalog, gen textgen.Generator) *Archivist {
	return &Archivist{catalog: cat, gen: gen}
}

// Lookup returns the context for landmarkID. When the key is not curated,
// the inline feature is used instead; with no feature the key is NotFound.
func (a *Archivist) Lookup(ctx context.Context, landmarkID string, feature *models.Feature) (models.LocationContext, error) {
	rec, ok := a.fromCatalog(landmarkID)
	if !ok {
		if feature == nil {
			return models.LocationContext{}, &NotFoundError{Kind: "landmark", Key: landmarkID}
		}
		rec = fromFeature(landmarkID, feature)
	}

	user := fmt.Sprintf("Book: %s (%s)\nQuote: %q\nBase context: %s\n\n"+
		"Give me an enriched 2-3 sentence deep-dive insight.",
		rec.Book, rec.Era, rec.Quote, rec.HistoricalContext)
	rec.AIInsight = a.gen.Generate(ctx, archivistSystemPrompt, user, 0)

	return rec, nil
}

func (a *Archivist) fromCatalog(id string) (models.LocationContext, bool) {
	lm, ok := a.catalog.Landmark(id)
	if !ok {
		return models.LocationContext{}, false
	}
	return models.LocationContext{
		LandmarkID:        id,
		Title:             lm.Title,
		Quote:             lm.Quote,
		HistoricalContext: lm.HistoricalContext,
		DialectNote:       lm.DialectNote,
		Year:              lm.Year,
		Book:              lm.Book,
		Era:               lm.Era,
		Source:            models.SourceCurated,
	}, true
}

func fromFeature(id string, f *models.Feature) models.LocationContext {
	rec := models.LocationContext{
		LandmarkID:        id,
		Title:             f.Title,
		Quote:             f.Quote,
		HistoricalContext: f.HistoricalContext,
		Year:              f.Year,
		Book:              f.Book,
		Era:               f.Era,
		Source:            models.SourceFeature,
	}
	if strings.TrimSpace(rec.HistoricalContext) == "" && rec.Title != "" {
		rec.HistoricalContext = rec.Title
	}
	return rec
}
