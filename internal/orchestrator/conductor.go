package orchestrator

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/ShayCichocki/litmap/internal/ranker"
	"github.com/ShayCichocki/litmap/internal/specialist"
	"github.com/ShayCichocki/litmap/internal/textgen"
	"github.com/ShayCichocki/litmap/pkg/models"
)

// ConductorAgent is the agent name the conductor records for its own steps.
const ConductorAgent = "ConductorAgent"

// Tool names of the conductor's own steps.
const (
	ToolSynthesize = "synthesize"
	ToolChat       = "chat_about_place"
	ToolVibeSearch = "vibe_search"
)

// Reasoning step kinds.
const (
	StepReceived          = "RECEIVED_REQUEST"
	StepReasoning         = "REASONING"
	StepDelegating        = "DELEGATING"
	StepToolCall          = "TOOL_CALL"
	StepResult            = "RESULT"
	StepError             = "ERROR"
	StepSynthesizing      = "SYNTHESIZING"
	StepSynthesisComplete = "SYNTHESIS_COMPLETE"
	StepComplete          = "COMPLETE"
)

// Response is the unified result of one orchestration.
type Response struct {
	ID string `json:"id"`
	// Results holds one record per succeeded specialist, keyed by slot.
	Results   map[string]any `json:"results"`
	Synthesis *string        `json:"synthesis"`
	// Timeline lists every dispatched task and the synthesis step in completion order.
	Timeline       []models.TimelineEntry `json:"timeline"`
	Reasoning      []models.ReasoningStep `json:"reasoning"`
	TotalElapsedMS int64                  `json:"total_elapsed_ms"`

	// Search is set instead of the fields above when the request was a
	// search action.
	Search *BookSearch `json:"-"`
}

// MarshalJSON encodes a search response in its own shape.
func (r *Response) MarshalJSON() ([]byte, error) {
	if r.Search != nil {
		return json.Marshal(r.Search)
	}
	type plain Response
	return json.Marshal((*plain)(r))
}

// Conductor fans requests out to the specialists.
type Conductor struct {
	catalog   Landmarks
	archivist ContextSource
	linguist  DialectSource
	stylist   StyleSource
	librarian BookSource
	gen       textgen.Generator

	maxWorkers         int
	taskTimeout        time.Duration
	synthesisMaxTokens int
	ranker             Ranker
	logger             *zap.Logger
	newID              func() string
}

// New creates a Conductor.
func New(cfg RequiredConfig, opts ...Option) *Conductor {
	o := conductorOptions{
		maxWorkers:         DefaultMaxWorkers,
		taskTimeout:        DefaultTaskTimeout,
		synthesisMaxTokens: DefaultSynthesisMaxTokens,
	}
	for _, opt := range opts {
		opt(&o)
	}

	if o.maxWorkers < DefaultMaxWorkers {
		o.maxWorkers = DefaultMaxWorkers
	}
	if o.taskTimeout <= 0 {
		o.taskTimeout = DefaultTaskTimeout
	}
	if o.synthesisMaxTokens <= 0 {
		o.synthesisMaxTokens = DefaultSynthesisMaxTokens
	}
	if o.logger == nil {
		o.logger = zap.NewNop()
	}
	if o.ranker == nil {
		o.ranker = ranker.New(cfg.Generator, o.logger)
	}
	if o.newID == nil {
		o.newID = func() string { return uuid.New().String() }
	}

	return &Conductor{
		catalog:            cfg.Catalog,
		archivist:          cfg.Archivist,
		linguist:           cfg.Linguist,
		stylist:            cfg.Stylist,
		librarian:          cfg.Librarian,
		gen:                cfg.Generator,
		maxWorkers:         o.maxWorkers,
		taskTimeout:        o.taskTimeout,
		synthesisMaxTokens: o.synthesisMaxTokens,
		ranker:             o.ranker,
		logger:             o.logger,
		newID:              o.newID,
	}
}

// Orchestrate handles one user action. A ValidationError is the only error
// returned; specialist failures are isolated to their timeline entries. A
// search action is answered by SearchBooks.
func (c *Conductor) Orchestrate(ctx context.Context, req models.OrchestrationRequest) (*Response, error) {
	if req.IsSearch() {
		search, err := c.SearchBooks(ctx, req.Query, req.Limit)
		if err != nil {
			return nil, err
		}
		return &Response{Search: search}, nil
	}

	landmarkID := strings.TrimSpace(req.LandmarkID)
	if landmarkID == "" && req.FeatureData != nil {
		landmarkID = strings.TrimSpace(req.FeatureData.ID)
	}
	era := strings.TrimSpace(req.Era)
	inferred := false
	if landmarkID != "" && era == "" {
		era = c.inferEra(landmarkID, req.FeatureData)
		inferred = era != ""
	}

	if landmarkID == "" && era == "" {
		return nil, invalid("request", "provide at least landmark_id or era")
	}

	r := newRun(c.newID())
	log := c.logger.With(zap.String("orchestration_id", r.id))
	r.step(ConductorAgent, StepReceived, fmt.Sprintf("landmark_id=%s, era=%s", landmarkID, era))

	tasks := c.plan(r, landmarkID, era, inferred, req.FeatureData)

	names := make([]string, len(tasks))
	for i, t := range tasks {
		names[i] = t.info.Agent
	}
	r.step(ConductorAgent, StepDelegating,
		fmt.Sprintf("Fan-out to %d agents: %s", len(tasks), strings.Join(names, ", ")))
	log.Info("orchestration started",
		zap.String("landmark_id", landmarkID),
		zap.String("era", era),
		zap.Strings("agents", names))

	c.fanOut(ctx, log, r, tasks)

	synthesis := c.synthesize(ctx, log, r, tasks)

	total := r.elapsed()
	r.step(ConductorAgent, StepComplete, fmt.Sprintf("Total orchestration: %dms", total))
	log.Info("orchestration complete",
		zap.Int("succeeded", len(r.results)),
		zap.Int("dispatched", len(tasks)),
		zap.Int64("total_elapsed_ms", total))

	return &Response{
		ID:             r.id,
		Results:        r.results,
		Synthesis:      synthesis,
		Timeline:       r.timeline,
		Reasoning:      r.reasoning,
		TotalElapsedMS: total,
	}, nil
}

// inferEra takes the era from curated data, or from the inline feature when
// the key is not curated.
func (c *Conductor) inferEra(landmarkID string, feature *models.Feature) string {
	if lm, ok := c.catalog.Landmark(landmarkID); ok {
		return lm.Era
	}
	if feature != nil {
		return strings.TrimSpace(feature.Era)
	}
	return ""
}

// plan selects the specialist tasks for a request.
func (c *Conductor) plan(r *run, landmarkID, era string, inferred bool, feature *models.Feature) []task {
	var tasks []task

	if landmarkID != "" {
		r.step(ConductorAgent, StepReasoning,
			"landmark_id present, delegating to ArchivistAgent for historical context")
		tasks = append(tasks, task{
			info: specialist.ArchivistInfo,
			call: fmt.Sprintf("%s(landmark_id=%q)", specialist.ArchivistInfo.Tool, landmarkID),
			run: func(ctx context.Context) (any, error) {
				return c.archivist.Lookup(ctx, landmarkID, feature)
			},
		})
	}

	if era != "" {
		detail := fmt.Sprintf("era=%s, delegating to LinguistAgent + StylistAgent in parallel", era)
		if inferred {
			detail = fmt.Sprintf("era=%s inferred from %s, delegating to LinguistAgent + StylistAgent in parallel", era, landmarkID)
		}
		r.step(ConductorAgent, StepReasoning, detail)
		tasks = append(tasks,
			task{
				info: specialist.LinguistInfo,
				call: fmt.Sprintf("%s(era=%q)", specialist.LinguistInfo.Tool, era),
				run: func(ctx context.Context) (any, error) {
					return c.linguist.Dialect(ctx, era)
				},
			},
			task{
				info: specialist.StylistInfo,
				call: fmt.Sprintf("%s(era=%q)", specialist.StylistInfo.Tool, era),
				run: func(ctx context.Context) (any, error) {
					return c.stylist.Style(ctx, era)
				},
			},
		)
	}

	return tasks
}
