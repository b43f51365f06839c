// Package orchestrator coordinates the specialist adapters for one user
// action.
//
// A Conductor selects the relevant specialists for a request, runs them
// concurrently under a shared worker limit and a per-task deadline, and
// isolates every failure to its own slot. Once the fan-out drains it
// synthesizes a short narrative over whatever succeeded.
//
// Every dispatched task produces exactly one timeline entry, in completion
// order. Synthesis adds one more entry: "success" or "error" when it ran,
// "skipped" when no specialist succeeded.
//
// Example usage:
//
//	c := orchestrator.New(orchestrator.RequiredConfig{
//		Catalog:   cat,
//		Archivist: specialist.NewArchivist(cat, gen),
//		Linguist:  specialist.NewLinguist(cat, gen),
//		Stylist:   specialist.NewStylist(cat, gen),
//		Librarian: specialist.NewLibrarian(books),
//		Generator: gen,
//	}, orchestrator.WithLogger(logger))
//	resp, err := c.Orchestrate(ctx, models.OrchestrationRequest{LandmarkID: "hr-harlem"})
package orchestrator
