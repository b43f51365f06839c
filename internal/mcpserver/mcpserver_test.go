package mcpserver

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ShayCichocki/litmap/internal/catalog"
	"github.com/ShayCichocki/litmap/internal/locations"
	"github.com/ShayCichocki/litmap/internal/orchestrator"
	"github.com/ShayCichocki/litmap/internal/specialist"
	"github.com/ShayCichocki/litmap/internal/textgen"
	"github.com/ShayCichocki/litmap/pkg/models"
)

type books struct {
	err   error
	limit int
}

func (b *books) Search(_ context.Context, query string, limit int) (models.BookSearchResult, error) {
	b.limit = limit
	if b.err != nil {
		return models.BookSearchResult{}, b.err
	}
	return models.BookSearchResult{Query: query, NumFound: 0, Books: []models.Book{}}, nil
}

func newServer(t *testing.T, reply string, b *books) *Server {
	t.Helper()

	cat, err := catalog.Embedded()
	require.NoError(t, err)
	gen := textgen.GeneratorFunc(func(context.Context, string, string, int) string { return reply })

	archivist := specialist.NewArchivist(cat, gen)
	linguist := specialist.NewLinguist(cat, gen)
	stylist := specialist.NewStylist(cat, gen)
	librarian := specialist.NewLibrarian(b)

	s, err := New(Config{
		Conductor: orchestrator.New(orchestrator.RequiredConfig{
			Catalog:   cat,
			Archivist: archivist,
			Linguist:  linguist,
			Stylist:   stylist,
			Librarian: librarian,
			Generator: gen,
		}),
		Catalog:   cat,
		Archivist: archivist,
		Linguist:  linguist,
		Stylist:   stylist,
		Librarian: librarian,
		Locations: locations.New(gen, nil),
	})
	require.NoError(t, err)
	return s
}

func call(args map[string]any) mcp.CallToolRequest {
	var req mcp.CallToolRequest
	req.Params.Arguments = args
	return req
}

func text(t *testing.T, res *mcp.CallToolResult) string {
	t.Helper()
	require.NotNil(t, res)
	require.NotEmpty(t, res.Content)
	tc, ok := res.Content[0].(mcp.TextContent)
	require.True(t, ok, "expected text content, got %T", res.Content[0])
	return tc.Text
}

func TestNew_Incomplete(t *testing.T) {
	_, err := New(Config{})
	assert.Error(t, err)
}

func TestToolsRegistered(t *testing.T) {
	s := newServer(t, "ok", &books{})

	reply := s.MCPServer().HandleMessage(context.Background(),
		json.RawMessage(`{"jsonrpc":"2.0","id":1,"method":"tools/list"}`))
	data, err := json.Marshal(reply)
	require.NoError(t, err)

	var listed struct {
		Result struct {
			Tools []struct {
				Name string `json:"name"`
			} `json:"tools"`
		} `json:"result"`
	}
	require.NoError(t, json.Unmarshal(data, &listed), string(data))

	var names []string
	for _, tool := range listed.Result.Tools {
		names = append(names, tool.Name)
	}
	assert.ElementsMatch(t, []string{
		"get_historical_context", "analyze_period_dialect", "generate_map_style",
		"search_books", "orchestrate", "vibe_search", "chat_about_place", "extract_locations",
	}, names)
}

func TestHandlers_Success(t *testing.T) {
	s := newServer(t, "Enriched.", &books{})
	ctx := context.Background()

	tests := []struct {
		name    string
		handler func(context.Context, mcp.CallToolRequest) (*mcp.CallToolResult, error)
		args    map[string]any
		wantKey string
	}{
		{"historical context", s.handleHistoricalContext, map[string]any{"landmark_id": "hr-harlem"}, "historical_context"},
		{"dialect", s.handleDialect, map[string]any{"era": "1920s"}, "ai_blurb"},
		{"style", s.handleStyle, map[string]any{"era": "1940s"}, "ai_suggestion"},
		{"search books", s.handleSearchBooks, map[string]any{"query": "passing"}, "books"},
		{"orchestrate", s.handleOrchestrate, map[string]any{"landmark_id": "cr-birmingham"}, "synthesis"},
		{"chat", s.handleChat, map[string]any{"question": "Who lived here?", "landmark_id": "hr-harlem"}, "answer"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res, err := tt.handler(ctx, call(tt.args))
			require.NoError(t, err)
			require.False(t, res.IsError, text(t, res))

			var payload map[string]any
			require.NoError(t, json.Unmarshal([]byte(text(t, res)), &payload))
			assert.Contains(t, payload, tt.wantKey)
		})
	}
}

func TestHandlers_ToolErrors(t *testing.T) {
	b := &books{err: errors.New("catalogue offline")}
	s := newServer(t, "Enriched.", b)
	ctx := context.Background()

	tests := []struct {
		name    string
		handler func(context.Context, mcp.CallToolRequest) (*mcp.CallToolResult, error)
		args    map[string]any
		want    string
	}{
		{"missing landmark id", s.handleHistoricalContext, map[string]any{}, "landmark_id"},
		{"unknown landmark", s.handleHistoricalContext, map[string]any{"landmark_id": "atlantis"}, "unknown landmark: atlantis"},
		{"unknown era", s.handleDialect, map[string]any{"era": "1850s"}, "unknown era: 1850s"},
		{"missing era", s.handleStyle, map[string]any{}, "era"},
		{"fractional limit", s.handleSearchBooks, map[string]any{"query": "passing", "limit": 2.5}, "not an integer"},
		{"limit out of range", s.handleSearchBooks, map[string]any{"query": "passing", "limit": 500.0}, "outside"},
		{"upstream failure", s.handleSearchBooks, map[string]any{"query": "passing"}, "catalogue offline"},
		{"no selector", s.handleOrchestrate, map[string]any{}, ""},
		{"blank vibe query", s.handleVibeSearch, map[string]any{"query": "  "}, "query"},
		{"unknown chat landmark", s.handleChat, map[string]any{"question": "Why?", "landmark_id": "atlantis"}, "atlantis"},
		{"missing title", s.handleExtractLocations, map[string]any{"author": "Nella Larsen"}, "title"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res, err := tt.handler(ctx, call(tt.args))
			require.NoError(t, err, "tool failures must not be protocol errors")
			require.True(t, res.IsError)
			assert.Contains(t, text(t, res), tt.want)
		})
	}
}

func TestSearchBooks_Limit(t *testing.T) {
	b := &books{}
	s := newServer(t, "ok", b)

	_, err := s.handleSearchBooks(context.Background(), call(map[string]any{"query": "passing"}))
	require.NoError(t, err)
	assert.Equal(t, orchestrator.DefaultSearchLimit, b.limit)

	_, err = s.handleSearchBooks(context.Background(), call(map[string]any{"query": "passing", "limit": 25.0}))
	require.NoError(t, err)
	assert.Equal(t, 25, b.limit)
}

func TestVibeSearch(t *testing.T) {
	s := newServer(t, `[{"id":"jlc-chinatown","score":0.8,"reason":"mahjong and memory"}]`, &books{})

	res, err := s.handleVibeSearch(context.Background(), call(map[string]any{"query": "family secrets"}))
	require.NoError(t, err)
	require.False(t, res.IsError)

	var payload orchestrator.VibeResponse
	require.NoError(t, json.Unmarshal([]byte(text(t, res)), &payload))
	require.Len(t, payload.Matches, 1)
	assert.Equal(t, "jlc-chinatown", payload.Matches[0].LandmarkID)
}

func TestExtractLocations(t *testing.T) {
	s := newServer(t, `[{"title":"Chinatown","coordinates":[-122.4,37.79],"relevance":8}]`, &books{})

	res, err := s.handleExtractLocations(context.Background(), call(map[string]any{"title": "The Joy Luck Club", "year": "1989"}))
	require.NoError(t, err)
	require.False(t, res.IsError, text(t, res))

	var upload locations.Upload
	require.NoError(t, json.Unmarshal([]byte(text(t, res)), &upload))
	assert.Equal(t, 1, upload.LocationsFound)
	assert.Equal(t, "The Joy Luck Club", upload.BookTitle)
}

func TestWholeNumber(t *testing.T) {
	n, err := wholeNumber(3, 1, 10)
	require.NoError(t, err)
	assert.Equal(t, 3, n)

	_, err = wholeNumber(0, 1, 10)
	assert.Error(t, err)
	_, err = wholeNumber(1.5, 1, 10)
	assert.Error(t, err)
}
