package server

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/dashwright/dashwright/pkg/catalog"
	"github.com/dashwright/dashwright/pkg/errors"
	"github.com/dashwright/dashwright/pkg/layout"
	"github.com/dashwright/dashwright/pkg/pipeline"
)

// maxBodySize caps request bodies. Widget plans and prompts are small.
const maxBodySize = 1 << 20

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// layoutRequest is the body of POST /api/v1/layout.
type layoutRequest struct {
	Widgets []layout.Widget `json:"widgets"`
}

// layoutResponse mirrors a computed plan.
type layoutResponse struct {
	Items       []layout.Positioned `json:"items"`
	TotalHeight int                 `json:"total_height"`
}

func (s *Server) handleLayout(w http.ResponseWriter, r *http.Request) {
	var req layoutRequest
	if !decodeBody(w, r, &req) {
		return
	}

	plan, err := layout.New().Plan(req.Widgets)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, layoutResponse{
		Items:       plan.Items,
		TotalHeight: plan.TotalHeight,
	})
}

// dashboardResponse is the body of a successful pipeline run.
type dashboardResponse struct {
	DashboardID string             `json:"dashboard_id,omitempty"`
	EmbedURL    string             `json:"embed_url,omitempty"`
	DisplayName string             `json:"display_name"`
	Definition  json.RawMessage    `json:"definition"`
	Stats       pipelineStats      `json:"stats"`
	CacheInfo   pipeline.CacheInfo `json:"cache_info"`
}

// pipelineStats serializes stage timings in milliseconds.
type pipelineStats struct {
	WidgetCount int   `json:"widget_count"`
	TotalHeight int   `json:"total_height"`
	GenerateMS  int64 `json:"generate_ms"`
	LayoutMS    int64 `json:"layout_ms"`
	PublishMS   int64 `json:"publish_ms,omitempty"`
}

func (s *Server) handleCreateDashboard(w http.ResponseWriter, r *http.Request) {
	var opts pipeline.Options
	if !decodeBody(w, r, &opts) {
		return
	}

	result, err := s.runner.Execute(r.Context(), opts)
	if err != nil {
		writeError(w, err)
		return
	}

	serialized, err := result.Definition.JSON()
	if err != nil {
		writeError(w, err)
		return
	}

	resp := dashboardResponse{
		DisplayName: result.Definition.DisplayName(),
		Definition:  json.RawMessage(serialized),
		Stats: pipelineStats{
			WidgetCount: result.Stats.WidgetCount,
			TotalHeight: result.Stats.TotalHeight,
			GenerateMS:  result.Stats.GenerateTime.Milliseconds(),
			LayoutMS:    result.Stats.LayoutTime.Milliseconds(),
			PublishMS:   result.Stats.PublishTime.Milliseconds(),
		},
		CacheInfo: result.CacheInfo,
	}

	if result.Dashboard != nil {
		resp.DashboardID = result.Dashboard.DashboardID
		resp.EmbedURL = result.EmbedURL
		s.record(r, result)
	}

	writeJSON(w, http.StatusCreated, resp)
}

// record stores a published dashboard in the catalog. Failures are
// logged, not surfaced; the dashboard itself was published.
func (s *Server) record(r *http.Request, result *pipeline.Result) {
	if s.catalog == nil {
		return
	}
	serialized, err := result.Definition.JSON()
	if err != nil {
		return
	}
	now := time.Now().UTC()
	entry := &catalog.Entry{
		ID:         result.Dashboard.DashboardID,
		Name:       result.Definition.DisplayName(),
		EmbedURL:   result.EmbedURL,
		Definition: json.RawMessage(serialized),
		CreatedAt:  now,
		UpdatedAt:  now,
	}
	if err := s.catalog.Put(r.Context(), entry); err != nil {
		s.logger.Warn("catalog record failed", "id", entry.ID, "err", err)
	}
}

func (s *Server) handleListDashboards(w http.ResponseWriter, r *http.Request) {
	if s.catalog == nil {
		writeError(w, errors.New(errors.ErrCodeNotFound, "no catalog configured"))
		return
	}
	entries, err := s.catalog.List(r.Context(), r.URL.Query().Get("owner"))
	if err != nil {
		writeError(w, err)
		return
	}
	if entries == nil {
		entries = []catalog.Entry{}
	}
	writeJSON(w, http.StatusOK, map[string]any{"dashboards": entries})
}

func (s *Server) handleGetDashboard(w http.ResponseWriter, r *http.Request) {
	if s.catalog == nil {
		writeError(w, errors.New(errors.ErrCodeNotFound, "no catalog configured"))
		return
	}
	id := chi.URLParam(r, "id")
	entry, err := s.catalog.Get(r.Context(), id)
	if err != nil {
		writeError(w, err)
		return
	}
	if entry == nil {
		writeError(w, errors.New(errors.ErrCodeDashboardNotFound, "dashboard %s not in catalog", id))
		return
	}
	writeJSON(w, http.StatusOK, entry)
}

func (s *Server) handleDeleteDashboard(w http.ResponseWriter, r *http.Request) {
	if s.catalog == nil {
		writeError(w, errors.New(errors.ErrCodeNotFound, "no catalog configured"))
		return
	}
	if err := s.catalog.Delete(r.Context(), chi.URLParam(r, "id")); err != nil {
		writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// =============================================================================
// JSON plumbing
// =============================================================================

// decodeBody parses a JSON request body into v, writing a 400 on
// failure. Returns false when the response has been written.
func decodeBody(w http.ResponseWriter, r *http.Request, v any) bool {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodySize))
	dec.DisallowUnknownFields()
	if err := dec.Decode(v); err != nil {
		writeError(w, errors.Wrap(errors.ErrCodeInvalidInput, err, "parse request body"))
		return false
	}
	return true
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// errorResponse is the uniform error body.
type errorResponse struct {
	Error struct {
		Code    string `json:"code"`
		Message string `json:"message"`
	} `json:"error"`
}

func writeError(w http.ResponseWriter, err error) {
	var resp errorResponse
	resp.Error.Code = string(errors.GetCode(err))
	resp.Error.Message = errors.UserMessage(err)
	writeJSON(w, statusFor(errors.GetCode(err)), resp)
}

// statusFor maps error codes onto HTTP status codes.
func statusFor(code errors.Code) int {
	switch code {
	case errors.ErrCodeInvalidInput, errors.ErrCodeInvalidCategory, errors.ErrCodeInvalidPlan,
		errors.ErrCodeInvalidPrompt, errors.ErrCodeInvalidName, errors.ErrCodeInvalidConfig,
		errors.ErrCodeLayoutOverflow:
		return http.StatusBadRequest
	case errors.ErrCodeNotFound, errors.ErrCodeDashboardNotFound, errors.ErrCodeFileNotFound:
		return http.StatusNotFound
	case errors.ErrCodeUnauthorized:
		return http.StatusUnauthorized
	case errors.ErrCodeForbidden:
		return http.StatusForbidden
	case errors.ErrCodeRateLimited:
		return http.StatusTooManyRequests
	case errors.ErrCodeTimeout:
		return http.StatusGatewayTimeout
	default:
		return http.StatusInternalServerError
	}
}
