package main

import (
	"fmt"

	"github.com/anthropics/anthropic-sdk-go"
	"go.uber.org/zap"

	"github.com/ShayCichocki/litmap/internal/catalog"
	"github.com/ShayCichocki/litmap/internal/config"
	"github.com/ShayCichocki/litmap/internal/locations"
	"github.com/ShayCichocki/litmap/internal/openlibrary"
	"github.com/ShayCichocki/litmap/internal/orchestrator"
	"github.com/ShayCichocki/litmap/internal/specialist"
	"github.com/ShayCichocki/litmap/internal/textgen"
)

// app holds the wired collaborators shared by every command.
type app struct {
	catalog   *catalog.Catalog
	generator textgen.Generator
	archivist *specialist.Archivist
	linguist  *specialist.Linguist
	stylist   *specialist.Stylist
	librarian *specialist.Librarian
	conductor *orchestrator.Conductor
	locations *locations.Extractor
}

// newApp builds the collaborators described by c.
func newApp(c *config.Config, log *zap.Logger) (*app, error) {
	cat, err := catalog.Load(c.Catalog.Path)
	if err != nil {
		return nil, fmt.Errorf("load catalog: %w", err)
	}

	// A missing key is not an error: generation degrades to static data.
	apiKey, _ := config.GetAPIKey(c)
	gen, err := textgen.New(textgen.ClientConfig{
		Model:         anthropic.Model(c.TextGen.Model),
		APIKey:        apiKey,
		MaxTokens:     c.TextGen.MaxTokens,
		Timeout:       c.TextGen.Timeout,
		UseAWSBedrock: c.TextGen.UseBedrock,
		AWSRegion:     c.TextGen.AWSRegion,
		AWSProfile:    c.TextGen.AWSProfile,
		Logger:        log,
	})
	if err != nil {
		return nil, fmt.Errorf("create text generator: %w", err)
	}

	books := openlibrary.NewClient(openlibrary.Config{
		SearchURL: c.Librarian.BaseURL,
		CoverURL:  c.Librarian.CoverURL,
		Timeout:   c.Librarian.Timeout,
		Logger:    log,
	})

	a := &app{
		catalog:   cat,
		generator: gen,
		archivist: specialist.NewArchivist(cat, gen),
		linguist:  specialist.NewLinguist(cat, gen),
		stylist:   specialist.NewStylist(cat, gen),
		librarian: specialist.NewLibrarian(books),
		locations: locations.New(gen, log),
	}

	opts := []orchestrator.Option{orchestrator.WithLogger(log)}
	if c.Orchestrator.MaxWorkers > 0 {
		opts = append(opts, orchestrator.WithMaxWorkers(c.Orchestrator.MaxWorkers))
	}
	if c.Orchestrator.TaskTimeout > 0 {
		opts = append(opts, orchestrator.WithTaskTimeout(c.Orchestrator.TaskTimeout))
	}
	if c.Orchestrator.SynthesisMaxTokens > 0 {
		opts = append(opts, orchestrator.WithSynthesisMaxTokens(c.Orchestrator.SynthesisMaxTokens))
	}

	a.conductor = orchestrator.New(orchestrator.RequiredConfig{
		Catalog:   cat,
		Archivist: a.archivist,
		Linguist:  a.linguist,
		Stylist:   a.stylist,
		Librarian: a.librarian,
		Generator: gen,
	}, opts...)

	return a, nil
}

// active is the app wired by the running command, if any.
var active *app

// loadApp wires the app from the loaded global config.
func loadApp() (*app, error) {
	a, err := newApp(cfg, logger)
	if err != nil {
		return nil, err
	}
	active = a
	return a, nil
}

// reportUsage logs the tokens the command spent on text generation.
func reportUsage(log *zap.Logger) {
	if active == nil {
		return
	}
	textgen.LogUsage(log, active.generator)
}
