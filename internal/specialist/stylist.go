package specialist

import (
	"context"
	"fmt"

	"github.com/ShayCichocki/litmap/internal/catalog"
	"github.com/ShayCichocki/litmap/internal/textgen"
	"github.com/ShayCichocki/litmap/pkg/models"
)

const stylistSystemPrompt = "You are the StylistAgent, a visual design expert for literary maps. " +
	"Given an era and its colour palette, suggest one creative CSS/visual " +
	"tweak (animation, gradient, or texture idea) in 1-2 sentences that " +
	"would make the map feel more immersive for that period."

// Stylist returns the map style for an era.
type Stylist struct {
	catalog *catalog.Catalog
	gen     textgen.Generator
}

// NewStylist creates a stylist over the curated style table.
func NewStylist(cat *catalog.Catalog, gen textgen.Generator) *Stylist {
	return &Stylist{catalog: cat, gen: gen}
}

// Style returns the style record for era.
func (s *Stylist) Style(ctx context.Context, era string) (models.StyleRecord, error) {
	st, ok := s.catalog.Style(era)
	if !ok {
		return models.StyleRecord{}, &NotFoundError{Kind: "era", Key: era}
	}

	user := fmt.Sprintf("Era: %s (%s)\nPalette: background %s, accent %s\nFont: %s\n\n"+
		"Suggest one immersive visual tweak.",
		era, st.Label, st.BackgroundColor, st.AccentColor, st.FontSuggestion)

	return models.StyleRecord{
		Era:          era,
		Style:        st,
		AISuggestion: s.gen.Generate(ctx, stylistSystemPrompt, user, 0),
	}, nil
}
