// Package specialist implements the four specialist adapters: the archivist
// (historical context), the linguist (period dialect), the stylist (map
// style) and the librarian (book search).
//
// Each adapter reads curated data or calls an external service, then asks a
// text generator for a short enrichment. Generation problems degrade to
// marker text and never fail the call.
package specialist

// Descriptor names one specialist as it appears in results and timelines.
type Descriptor struct {
	// Slot is the key of the specialist's record in a results map.
	Slot string
	// Agent is the display name used in timelines and reasoning.
	Agent string
	// Tool is the operation the specialist performs.
	Tool string
}

// Specialist descriptors.
var (
	ArchivistInfo = Descriptor{Slot: "archivist", Agent: "ArchivistAgent", Tool: "get_historical_context"}
	LinguistInfo  = Descriptor{Slot: "linguist", Agent: "LinguistAgent", Tool: "analyze_period_dialect"}
	StylistInfo   = Descriptor{Slot: "stylist", Agent: "StylistAgent", Tool: "generate_map_style"}
	LibrarianInfo = Descriptor{Slot: "librarian", Agent: "LibrarianAgent", Tool: "search_books"}
)
