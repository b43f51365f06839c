package specialist

import (
	"context"
	"fmt"
	"strings"

	"github.com/ShayCichocki/litmap/internal/catalog"
	"github.com/ShayCichocki/litmap/internal/textgen"
	"github.com/ShayCichocki/litmap/pkg/models"
)

const linguistSystemPrompt = "You are the LinguistAgent, an expert in American English dialects " +
	"across different historical eras. Given an era and its slang terms, " +
	"write a fun 2-sentence 'Did You Know?' blurb about how one of these " +
	"terms entered mainstream English. Keep it lively and educational."

// Linguist returns period slang and dialect notes for an era.
type Linguist struct {
	catalog *catalog.Catalog
	gen     textgen.Generator
}

// NewLinguist creates a linguist over the curated dialect table.
func NewLinguist(cat *catalog.Catalog, gen textgen.Generator) *Linguist {
	return &Linguist{catalog: cat, gen: gen}
}

// Dialect returns the dialect record for era.
func (l *Linguist) Dialect(ctx context.Context, era string) (models.DialectRecord, error) {
	d, ok := l.catalog.Dialect(era)
	if !ok {
		return models.DialectRecord{}, &NotFoundError{Kind: "era", Key: era}
	}

	terms := make([]string, 0, len(d.Slang))
	for _, s := range d.Slang {
		terms = append(terms, "'"+s.Term+"'")
	}
	user := fmt.Sprintf("Era: %s (%s)\nSlang terms: %s\nNotes: %s\n\nWrite a 'Did You Know?' blurb.",
		era, d.EraLabel, strings.Join(terms, ", "), d.DialectNotes)

	return models.DialectRecord{
		Era:     era,
		Dialect: d,
		AIBlurb: l.gen.Generate(ctx, linguistSystemPrompt, user, 0),
	}, nil
}
