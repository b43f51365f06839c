package server

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/ShayCichocki/litmap/internal/orchestrator"
	"github.com/ShayCichocki/litmap/internal/specialist"
	"github.com/ShayCichocki/litmap/pkg/models"
)

type endpoint struct {
	Name     string `json:"name"`
	Endpoint string `json:"endpoint"`
	Tool     string `json:"tool"`
}

type indexResponse struct {
	Project  string     `json:"project"`
	Protocol string     `json:"protocol"`
	Version  string     `json:"version,omitempty"`
	Agents   []endpoint `json:"agents"`
}

func (s *Server) handleIndex(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, indexResponse{
		Project:  "litmap",
		Protocol: "MCP",
		Version:  s.cfg.Version,
		Agents: []endpoint{
			{Name: orchestrator.ConductorAgent, Endpoint: "/orchestrate", Tool: "orchestrate"},
			{Name: specialist.ArchivistInfo.Agent, Endpoint: "/tools/archivist/lookup", Tool: specialist.ArchivistInfo.Tool},
			{Name: specialist.LinguistInfo.Agent, Endpoint: "/tools/linguist/dialect", Tool: specialist.LinguistInfo.Tool},
			{Name: specialist.StylistInfo.Agent, Endpoint: "/tools/stylist/style", Tool: specialist.StylistInfo.Tool},
			{Name: specialist.LibrarianInfo.Agent, Endpoint: "/tools/librarian/search", Tool: specialist.LibrarianInfo.Tool},
		},
	})
}

// orchestrateRequest takes limit raw so it is validated like the
// librarian route.
type orchestrateRequest struct {
	models.OrchestrationRequest
	Limit json.RawMessage `json:"limit"`
}

func (s *Server) handleOrchestrate(w http.ResponseWriter, r *http.Request) {
	var body orchestrateRequest
	if err := decode(w, r, &body); err != nil {
		s.writeError(w, r, err)
		return
	}
	req := body.OrchestrationRequest
	if req.IsSearch() {
		limit, err := parseLimit(body.Limit)
		if err != nil {
			s.writeError(w, r, err)
			return
		}
		req.Limit = limit
	}

	// Specialist failures, including a failed book search, are reported in
	// the timeline with a 200.
	resp, err := s.cfg.Conductor.Orchestrate(r.Context(), req)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

type queryRequest struct {
	Query string `json:"query"`
}

func (s *Server) handleVibeSearch(w http.ResponseWriter, r *http.Request) {
	var req queryRequest
	if err := decode(w, r, &req); err != nil {
		s.writeError(w, r, err)
		return
	}
	resp, err := s.cfg.Conductor.VibeSearch(r.Context(), req.Query, orchestrator.DefaultVibeMatches)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

type chatRequest struct {
	Question string          `json:"question"`
	Context  *models.Feature `json:"context"`
}

func (s *Server) handleChat(w http.ResponseWriter, r *http.Request) {
	var req chatRequest
	if err := decode(w, r, &req); err != nil {
		s.writeError(w, r, err)
		return
	}
	resp, err := s.cfg.Conductor.Chat(r.Context(), req.Question, req.Context)
	if err != nil {
		if resp != nil {
			writeJSON(w, statusFor(err), map[string]any{"error": err.Error(), "elapsed_ms": resp.ElapsedMS})
			return
		}
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

type titleRequest struct {
	Title  string `json:"title"`
	Author string `json:"author"`
	// Year is a string or a number.
	Year json.RawMessage `json:"year"`
}

func (t titleRequest) year() string {
	raw := strings.TrimSpace(string(t.Year))
	if raw == "" || raw == "null" {
		return ""
	}
	var s string
	if json.Unmarshal(t.Year, &s) == nil {
		return strings.TrimSpace(s)
	}
	return raw
}

func (s *Server) handleExtractFromTitle(w http.ResponseWriter, r *http.Request) {
	var req titleRequest
	if err := decode(w, r, &req); err != nil {
		s.writeError(w, r, err)
		return
	}
	upload, err := s.cfg.Locations.ProcessTitle(r.Context(), req.Title, req.Author, req.year())
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, upload)
}

func (s *Server) handleUploadBook(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, s.cfg.MaxUploadBytes)
	if err := r.ParseMultipartForm(s.cfg.MaxUploadBytes); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			s.writeError(w, r, err)
			return
		}
		s.writeError(w, r, badRequest("expected a multipart form: %v", err))
		return
	}
	defer func() { _ = r.MultipartForm.RemoveAll() }()

	file, header, err := r.FormFile("file")
	if err != nil {
		s.writeError(w, r, badRequest("No file uploaded. Send a 'file' field."))
		return
	}
	defer file.Close()

	upload, err := s.cfg.Locations.Process(r.Context(), s.cfg.Source, header.Filename, file, r.FormValue("title"))
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, upload)
}

type lookupRequest struct {
	LandmarkID  string          `json:"landmark_id"`
	FeatureData *models.Feature `json:"feature_data"`
}

func (s *Server) handleArchivist(w http.ResponseWriter, r *http.Request) {
	var req lookupRequest
	if err := decode(w, r, &req); err != nil {
		s.writeError(w, r, err)
		return
	}
	if strings.TrimSpace(req.LandmarkID) == "" && req.FeatureData == nil {
		s.writeError(w, r, badRequest("landmark_id is required"))
		return
	}
	record, err := s.cfg.Archivist.Lookup(r.Context(), req.LandmarkID, req.FeatureData)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, record)
}

type eraRequest struct {
	Era string `json:"era"`
}

func (s *Server) decodeEra(w http.ResponseWriter, r *http.Request) (string, bool) {
	var req eraRequest
	if err := decode(w, r, &req); err != nil {
		s.writeError(w, r, err)
		return "", false
	}
	era := strings.TrimSpace(req.Era)
	if era == "" {
		s.writeError(w, r, badRequest("era is required"))
		return "", false
	}
	return era, true
}

func (s *Server) handleLinguist(w http.ResponseWriter, r *http.Request) {
	era, ok := s.decodeEra(w, r)
	if !ok {
		return
	}
	record, err := s.cfg.Linguist.Dialect(r.Context(), era)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, record)
}

func (s *Server) handleStylist(w http.ResponseWriter, r *http.Request) {
	era, ok := s.decodeEra(w, r)
	if !ok {
		return
	}
	record, err := s.cfg.Stylist.Style(r.Context(), era)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, record)
}

type librarianRequest struct {
	Query string          `json:"query"`
	Limit json.RawMessage `json:"limit"`
}

func (s *Server) handleLibrarian(w http.ResponseWriter, r *http.Request) {
	var req librarianRequest
	if err := decode(w, r, &req); err != nil {
		s.writeError(w, r, err)
		return
	}
	if strings.TrimSpace(req.Query) == "" {
		s.writeError(w, r, badRequest("query is required"))
		return
	}
	limit, err := parseLimit(req.Limit)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	result, err := s.cfg.Librarian.Search(r.Context(), req.Query, limit)
	if err != nil {
		s.writeError(w, r, fmt.Errorf("book search: %w", err))
		return
	}
	writeJSON(w, http.StatusOK, result)
}
