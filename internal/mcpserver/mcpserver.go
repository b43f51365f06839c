// Package mcpserver exposes the specialists and the conductor as MCP tools
// over stdio.
package mcpserver

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"math"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
	"go.uber.org/zap"

	"github.com/ShayCichocki/litmap/internal/locations"
	"github.com/ShayCichocki/litmap/internal/orchestrator"
	"github.com/ShayCichocki/litmap/internal/specialist"
	"github.com/ShayCichocki/litmap/pkg/models"
)

// Name is the advertised server name.
const Name = "litmap"

// Config wires the tool server to its collaborators.
type Config struct {
	Conductor *orchestrator.Conductor
	Catalog   orchestrator.Landmarks
	Archivist orchestrator.ContextSource
	Linguist  orchestrator.DialectSource
	Stylist   orchestrator.StyleSource
	Librarian orchestrator.BookSource
	Locations *locations.Extractor
	Version   string
	Logger    *zap.Logger
}

// Server owns the MCP server and its tool handlers.
type Server struct {
	cfg    Config
	logger *zap.Logger
	mcp    *server.MCPServer
}

// New registers every tool.
func New(cfg Config) (*Server, error) {
	if cfg.Conductor == nil || cfg.Catalog == nil || cfg.Locations == nil ||
		cfg.Archivist == nil || cfg.Linguist == nil || cfg.Stylist == nil || cfg.Librarian == nil {
		return nil, errors.New("mcpserver: incomplete configuration")
	}
	if cfg.Version == "" {
		cfg.Version = "dev"
	}
	logger := cfg.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	s := &Server{
		cfg:    cfg,
		logger: logger,
		mcp: server.NewMCPServer(
			Name,
			cfg.Version,
			server.WithToolCapabilities(true),
			server.WithRecovery(),
		),
	}
	s.addTools()
	return s, nil
}

// MCPServer returns the underlying server, e.g. for an alternate transport.
func (s *Server) MCPServer() *server.MCPServer {
	return s.mcp
}

// ServeStdio blocks serving tools on stdin and stdout.
func (s *Server) ServeStdio() error {
	s.logger.Info("serving tools on stdio", zap.String("version", s.cfg.Version))
	return server.ServeStdio(s.mcp)
}

func (s *Server) addTools() {
	s.mcp.AddTool(mcp.NewTool(specialist.ArchivistInfo.Tool,
		mcp.WithDescription("Retrieve the literary quote and historical context for a curated landmark"),
		mcp.WithString("landmark_id",
			mcp.Required(),
			mcp.Description("Curated landmark key, e.g. hr-harlem"),
		),
	), s.handleHistoricalContext)

	s.mcp.AddTool(mcp.NewTool(specialist.LinguistInfo.Tool,
		mcp.WithDescription("Get period slang and dialect notes for a literary era"),
		mcp.WithString("era",
			mcp.Required(),
			mcp.Description("Era key, e.g. 1920s"),
		),
	), s.handleDialect)

	s.mcp.AddTool(mcp.NewTool(specialist.StylistInfo.Tool,
		mcp.WithDescription("Get the map style for a literary era"),
		mcp.WithString("era",
			mcp.Required(),
			mcp.Description("Era key, e.g. 1960s"),
		),
	), s.handleStyle)

	s.mcp.AddTool(mcp.NewTool(specialist.LibrarianInfo.Tool,
		mcp.WithDescription("Search the Open Library catalogue by title"),
		mcp.WithString("query",
			mcp.Required(),
			mcp.Description("Title to search for"),
		),
		mcp.WithNumber("limit",
			mcp.Description("Maximum number of books to return"),
			mcp.DefaultNumber(orchestrator.DefaultSearchLimit),
			mcp.Min(1),
			mcp.Max(100),
		),
	), s.handleSearchBooks)

	s.mcp.AddTool(mcp.NewTool("orchestrate",
		mcp.WithDescription("Run the specialists concurrently for a landmark or era and synthesize a narrative"),
		mcp.WithString("landmark_id",
			mcp.Description("Curated landmark key; the era is inferred when omitted"),
		),
		mcp.WithString("era",
			mcp.Description("Era key, e.g. 1940s"),
		),
	), s.handleOrchestrate)

	s.mcp.AddTool(mcp.NewTool(orchestrator.ToolVibeSearch,
		mcp.WithDescription("Rank curated landmarks by how well they match a mood query"),
		mcp.WithString("query",
			mcp.Required(),
			mcp.Description("Free-text mood, e.g. 'smoky jazz nights'"),
		),
		mcp.WithNumber("top_n",
			mcp.Description("Number of matches to return"),
			mcp.DefaultNumber(orchestrator.DefaultVibeMatches),
			mcp.Min(1),
			mcp.Max(10),
		),
	), s.handleVibeSearch)

	s.mcp.AddTool(mcp.NewTool(orchestrator.ToolChat,
		mcp.WithDescription("Answer a freeform question about a curated landmark"),
		mcp.WithString("question",
			mcp.Required(),
			mcp.Description("The question to answer"),
		),
		mcp.WithString("landmark_id",
			mcp.Description("Landmark the question is about"),
		),
	), s.handleChat)

	s.mcp.AddTool(mcp.NewTool("extract_locations",
		mcp.WithDescription("Recall the real-world locations of a book as GeoJSON"),
		mcp.WithString("title",
			mcp.Required(),
			mcp.Description("Book title"),
		),
		mcp.WithString("author",
			mcp.Description("Author name"),
		),
		mcp.WithString("year",
			mcp.Description("First publication year"),
		),
	), s.handleExtractLocations)
}

func (s *Server) handleHistoricalContext(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	id, err := request.RequireString("landmark_id")
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("Invalid landmark_id: %v", err)), nil
	}
	record, err := s.cfg.Archivist.Lookup(ctx, id, nil)
	return s.result(specialist.ArchivistInfo.Tool, record, err)
}

func (s *Server) handleDialect(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	era, err := request.RequireString("era")
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("Invalid era: %v", err)), nil
	}
	record, err := s.cfg.Linguist.Dialect(ctx, era)
	return s.result(specialist.LinguistInfo.Tool, record, err)
}

func (s *Server) handleStyle(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	era, err := request.RequireString("era")
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("Invalid era: %v", err)), nil
	}
	record, err := s.cfg.Stylist.Style(ctx, era)
	return s.result(specialist.StylistInfo.Tool, record, err)
}

func (s *Server) handleSearchBooks(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	query, err := request.RequireString("query")
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("Invalid query: %v", err)), nil
	}
	limit, err := wholeNumber(request.GetFloat("limit", orchestrator.DefaultSearchLimit), 1, 100)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("Invalid limit: %v", err)), nil
	}
	result, err := s.cfg.Librarian.Search(ctx, query, limit)
	return s.result(specialist.LibrarianInfo.Tool, result, err)
}

func (s *Server) handleOrchestrate(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	resp, err := s.cfg.Conductor.Orchestrate(ctx, models.OrchestrationRequest{
		LandmarkID: request.GetString("landmark_id", ""),
		Era:        request.GetString("era", ""),
	})
	return s.result("orchestrate", resp, err)
}

func (s *Server) handleVibeSearch(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	query, err := request.RequireString("query")
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("Invalid query: %v", err)), nil
	}
	topN, err := wholeNumber(request.GetFloat("top_n", orchestrator.DefaultVibeMatches), 1, 10)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("Invalid top_n: %v", err)), nil
	}
	resp, err := s.cfg.Conductor.VibeSearch(ctx, query, topN)
	return s.result(orchestrator.ToolVibeSearch, resp, err)
}

func (s *Server) handleChat(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	question, err := request.RequireString("question")
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("Invalid question: %v", err)), nil
	}

	var place *models.Feature
	if id := request.GetString("landmark_id", ""); id != "" {
		lm, ok := s.cfg.Catalog.Landmark(id)
		if !ok {
			return mcp.NewToolResultError((&specialist.NotFoundError{Kind: "landmark", Key: id}).Error()), nil
		}
		place = lm.AsFeature()
	}

	resp, err := s.cfg.Conductor.Chat(ctx, question, place)
	return s.result(orchestrator.ToolChat, resp, err)
}

func (s *Server) handleExtractLocations(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	title, err := request.RequireString("title")
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("Invalid title: %v", err)), nil
	}
	upload, err := s.cfg.Locations.ProcessTitle(ctx, title,
		request.GetString("author", ""), request.GetString("year", ""))
	return s.result("extract_locations", upload, err)
}

// result renders v as indented JSON, or err as a tool error. Tool failures
// never become protocol errors.
func (s *Server) result(tool string, v any, err error) (*mcp.CallToolResult, error) {
	if err != nil {
		s.logger.Warn("tool failed", zap.String("tool", tool), zap.Error(err))
		return mcp.NewToolResultError(err.Error()), nil
	}
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("encode %s result: %v", tool, err)), nil
	}
	return mcp.NewToolResultText(string(data)), nil
}

// wholeNumber converts a JSON number argument to an int within [lo, hi].
func wholeNumber(f float64, lo, hi int) (int, error) {
	if f != math.Trunc(f) || math.IsInf(f, 0) || math.IsNaN(f) {
		return 0, fmt.Errorf("%v is not an integer", f)
	}
	if f < float64(lo) || f > float64(hi) {
		return 0, fmt.Errorf("%v is outside [%d, %d]", f, lo, hi)
	}
	return int(f), nil
}
