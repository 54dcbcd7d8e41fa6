package httpapi

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/oapi-codegen/runtime"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/stackmesh/aossindex/internal/domain"
	"github.com/stackmesh/aossindex/internal/domain/template"
	"github.com/stackmesh/aossindex/internal/logger"
	"github.com/stackmesh/aossindex/internal/metrics"
	healthuc "github.com/stackmesh/aossindex/internal/usecase/health"
	stackuc "github.com/stackmesh/aossindex/internal/usecase/stack"
	"github.com/stackmesh/aossindex/internal/usecase/synth"
)

// API error codes.
const (
	codeBadRequest         = "bad_request"
	codeValidationFailed   = "validation_failed"
	codeStackNotFound      = "stack_not_found"
	codeStackAlreadyExists = "stack_already_exists"
	codeRevisionConflict   = "revision_conflict"
	codeInternalError      = "internal_error"
)

// errorHandler tries to handle a domain error. Returns true if handled.
type errorHandler func(w http.ResponseWriter, err error, msg string) bool

// Pagination carries page size limits for list endpoints.
type Pagination struct {
	DefaultLimit int
	MaxLimit     int
}

// Server exposes template synthesis and the stack registry over HTTP.
type Server struct {
	stacks        *stackuc.Service
	health        *healthuc.Service
	provider      synth.Config
	pages         Pagination
	logger        *zap.Logger
	errorHandlers []errorHandler
}

// NewServer creates an HTTP API server. provider carries the custom-resource
// provider settings applied to every synthesized stack.
func NewServer(
	stacks *stackuc.Service,
	health *healthuc.Service,
	provider synth.Config,
	pages Pagination,
	logger *zap.Logger,
) *Server {
	if pages.DefaultLimit <= 0 {
		pages.DefaultLimit = 20
	}
	if pages.MaxLimit <= 0 {
		pages.MaxLimit = 100
	}
	s := &Server{
		stacks:   stacks,
		health:   health,
		provider: provider,
		pages:    pages,
		logger:   logger,
	}
	s.errorHandlers = []errorHandler{
		revisionConflictHandler,
		sentinelHandler(domain.ErrNotFound, http.StatusNotFound, codeStackNotFound),
		sentinelHandler(domain.ErrAlreadyExists, http.StatusConflict, codeStackAlreadyExists),
		sentinelHandler(domain.ErrInvalidDefinition, http.StatusBadRequest, codeValidationFailed),
		sentinelHandler(domain.ErrDuplicateLogicalID, http.StatusBadRequest, codeValidationFailed),
		sentinelHandler(domain.ErrUnknownResource, http.StatusBadRequest, codeValidationFailed),
		sentinelHandler(domain.ErrDependencyCycle, http.StatusBadRequest, codeValidationFailed),
	}
	return s
}

// Routes mounts all API endpoints on the router.
func (s *Server) Routes(r chi.Router) {
	r.Post("/api/v1/synth", s.Synthesize)
	r.Post("/api/v1/stacks", s.CreateStack)
	r.Get("/api/v1/stacks", s.ListStacks)
	r.Get("/api/v1/stacks/{stack}", s.GetStack)
	r.Put("/api/v1/stacks/{stack}", s.ReplaceStack)
	r.Delete("/api/v1/stacks/{stack}", s.DeleteStack)
	r.Get("/api/v1/stacks/{stack}/template", s.GetTemplate)
	r.Get("/health", s.HealthCheck)
	r.Get("/metrics", s.Metrics)
}

// Synthesize handles POST /synth: renders a template without persisting it.
func (s *Server) Synthesize(w http.ResponseWriter, r *http.Request) {
	var req SynthRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, codeBadRequest, "Invalid request body: "+err.Error())
		return
	}

	tpl, err := s.synthesize(req)
	if err != nil {
		s.handleSynthError(w, r, err)
		return
	}

	body, err := json.Marshal(tpl)
	if err != nil {
		s.handleDomainError(w, r, err)
		return
	}
	checksum, err := tpl.Checksum()
	if err != nil {
		s.handleDomainError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, SynthResponse{
		Template:      body,
		Checksum:      checksum,
		ResourceCount: tpl.ResourceCount(),
	})
}

// CreateStack handles POST /stacks: synthesizes and persists a named stack.
func (s *Server) CreateStack(w http.ResponseWriter, r *http.Request) {
	var req CreateStackRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, codeBadRequest, "Invalid request body: "+err.Error())
		return
	}

	if req.Name == "" {
		writeError(w, http.StatusBadRequest, codeValidationFailed, "Stack name is required")
		return
	}

	tpl, err := s.synthesize(req.SynthRequest)
	if err != nil {
		s.handleSynthError(w, r, err)
		return
	}

	rec, err := s.stacks.Save(r.Context(), req.Name, req.Description, tpl)
	if err != nil {
		s.handleDomainError(w, r, err)
		return
	}

	w.Header().Set("Location", "/api/v1/stacks/"+rec.Name())
	w.Header().Set("ETag", strconv.Quote(strconv.Itoa(rec.Revision())))
	writeJSON(w, http.StatusCreated, stackToSummary(rec))
}

// ListStacks handles GET /stacks.
func (s *Server) ListStacks(w http.ResponseWriter, r *http.Request) {
	var cursor *string
	if err := runtime.BindQueryParameter("form", true, false, "cursor", r.URL.Query(), &cursor); err != nil {
		writeError(w, http.StatusBadRequest, codeBadRequest, "Invalid cursor parameter")
		return
	}
	var limit *int
	if err := runtime.BindQueryParameter("form", true, false, "limit", r.URL.Query(), &limit); err != nil {
		writeError(w, http.StatusBadRequest, codeBadRequest, "Invalid limit parameter")
		return
	}
	if limit != nil && (*limit <= 0 || *limit > s.pages.MaxLimit) {
		writeError(w, http.StatusBadRequest, codeValidationFailed,
			fmt.Sprintf("limit must be between 1 and %d", s.pages.MaxLimit))
		return
	}

	recs, err := s.stacks.List(r.Context())
	if err != nil {
		s.handleDomainError(w, r, err)
		return
	}

	items := make([]StackSummary, len(recs))
	for i, rec := range recs {
		items[i] = stackToSummary(rec)
	}

	writeJSON(w, http.StatusOK, s.paginateStacks(items, cursor, limit))
}

func (s *Server) paginateStacks(items []StackSummary, cursor *string, limitPtr *int) StackListResponse {
	limit := s.pages.DefaultLimit
	if limitPtr != nil {
		limit = *limitPtr
	}

	startIdx := 0
	if cursor != nil && *cursor != "" {
		for i, item := range items {
			if item.Name == *cursor {
				startIdx = i + 1
				break
			}
		}
	}

	if startIdx > len(items) {
		startIdx = len(items)
	}
	end := startIdx + limit
	if end > len(items) {
		end = len(items)
	}

	page := items[startIdx:end]
	hasMore := end < len(items)

	resp := StackListResponse{
		Items:   page,
		HasMore: hasMore,
	}
	if hasMore && len(page) > 0 {
		c := page[len(page)-1].Name
		resp.NextCursor = &c
	}
	return resp
}

// GetStack handles GET /stacks/{stack}.
func (s *Server) GetStack(w http.ResponseWriter, r *http.Request) {
	name := chi.URLParam(r, "stack")

	rec, err := s.stacks.Get(r.Context(), name)
	if err != nil {
		s.handleDomainError(w, r, err)
		return
	}

	w.Header().Set("ETag", strconv.Quote(strconv.Itoa(rec.Revision())))
	writeJSON(w, http.StatusOK, stackToSummary(rec))
}

// GetTemplate handles GET /stacks/{stack}/template: returns the stored
// template body verbatim.
func (s *Server) GetTemplate(w http.ResponseWriter, r *http.Request) {
	name := chi.URLParam(r, "stack")

	rec, err := s.stacks.Get(r.Context(), name)
	if err != nil {
		s.handleDomainError(w, r, err)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("ETag", strconv.Quote(strconv.Itoa(rec.Revision())))
	w.Header().Set("X-Template-Checksum", rec.Checksum())
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(rec.Body())
}

// ReplaceStack handles PUT /stacks/{stack}: re-synthesizes the stack at the
// revision named by If-Match.
func (s *Server) ReplaceStack(w http.ResponseWriter, r *http.Request) {
	name := chi.URLParam(r, "stack")

	revision, ok := parseIfMatch(r.Header.Get("If-Match"))
	if !ok {
		writeError(w, http.StatusBadRequest, codeBadRequest, "If-Match header with the current revision is required")
		return
	}

	var req ReplaceStackRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, codeBadRequest, "Invalid request body: "+err.Error())
		return
	}

	tpl, err := s.synthesize(req.SynthRequest)
	if err != nil {
		s.handleSynthError(w, r, err)
		return
	}

	rec, err := s.stacks.Replace(r.Context(), name, revision, tpl)
	if err != nil {
		s.handleDomainError(w, r, err)
		return
	}

	w.Header().Set("ETag", strconv.Quote(strconv.Itoa(rec.Revision())))
	writeJSON(w, http.StatusOK, stackToSummary(rec))
}

// DeleteStack handles DELETE /stacks/{stack}.
func (s *Server) DeleteStack(w http.ResponseWriter, r *http.Request) {
	name := chi.URLParam(r, "stack")

	if err := s.stacks.Delete(r.Context(), name); err != nil {
		s.handleDomainError(w, r, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// HealthCheck handles GET /health.
func (s *Server) HealthCheck(w http.ResponseWriter, r *http.Request) {
	report := s.health.Check(r.Context())

	httpStatus := http.StatusOK
	if report.Status != healthuc.Healthy {
		httpStatus = http.StatusServiceUnavailable
	}

	writeJSON(w, httpStatus, map[string]any{
		"status": report.Status,
		"checks": report.Checks,
	})
}

// Metrics handles GET /metrics.
func (s *Server) Metrics(w http.ResponseWriter, r *http.Request) {
	promhttp.Handler().ServeHTTP(w, r)
}

// synthesize converts the request into domain objects, runs the builder and
// records synthesis metrics.
func (s *Server) synthesize(req SynthRequest) (template.Template, error) {
	start := time.Now()
	tpl, err := s.buildTemplate(req)
	metrics.SynthDuration.Observe(time.Since(start).Seconds())
	if err != nil {
		metrics.SynthTotal.WithLabelValues(metrics.OutcomeError).Inc()
		return template.Template{}, err
	}
	metrics.SynthTotal.WithLabelValues(metrics.OutcomeOK).Inc()
	metrics.TemplateResources.Observe(float64(tpl.ResourceCount()))
	return tpl, nil
}

func (s *Server) buildTemplate(req SynthRequest) (template.Template, error) {
	if len(req.Indexes) == 0 {
		return template.Template{}, errors.New("at least one index is required")
	}

	cfg := s.provider
	cfg.Description = req.Description
	b, err := synth.NewBuilder(cfg)
	if err != nil {
		return template.Template{}, err
	}

	col, err := collectionFromDTO(req.Collection)
	if err != nil {
		return template.Template{}, err
	}

	for i, dto := range req.Indexes {
		def, err := indexFromDTO(dto)
		if err != nil {
			return template.Template{}, fmt.Errorf("index %d: %w", i, err)
		}
		id := dto.LogicalID
		if id == "" {
			id = deriveLogicalID(dto.Name)
		}
		if _, err := b.AddVectorIndex(id, col, def); err != nil {
			return template.Template{}, fmt.Errorf("index %d: %w", i, err)
		}
	}

	return b.Build()
}

// handleSynthError maps synthesis failures to responses. Anything that is not
// a known sentinel is treated as an input validation failure since synthesis
// only fails on bad definitions.
func (s *Server) handleSynthError(w http.ResponseWriter, r *http.Request, err error) {
	for _, h := range s.errorHandlers {
		if h(w, err, safeDomainMessage(err)) {
			return
		}
	}
	writeError(w, http.StatusBadRequest, codeValidationFailed, err.Error())
}

func (s *Server) handleDomainError(w http.ResponseWriter, r *http.Request, err error) {
	log := logger.FromContext(r.Context(), s.logger)
	log.Warn("domain error", zap.Error(err))
	msg := safeDomainMessage(err)
	for _, h := range s.errorHandlers {
		if h(w, err, msg) {
			return
		}
	}
	log.Error("internal error", zap.Error(err))
	writeError(w, http.StatusInternalServerError, codeInternalError, "internal error")
}

func parseIfMatch(header string) (int, bool) {
	header = strings.TrimSpace(header)
	if header == "" {
		return 0, false
	}
	header = strings.TrimPrefix(header, "W/")
	header = strings.Trim(header, `"`)
	rev, err := strconv.Atoi(header)
	if err != nil || rev <= 0 {
		return 0, false
	}
	return rev, true
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, code, message string) {
	writeJSON(w, status, ErrorResponse{
		Code:    code,
		Message: message,
	})
}

// safeDomainMessage returns a sentinel error message for the client without exposing internals.
func safeDomainMessage(err error) string {
	sentinels := []error{
		domain.ErrNotFound,
		domain.ErrAlreadyExists,
		domain.ErrRevisionConflict,
		domain.ErrInvalidDefinition,
		domain.ErrDuplicateLogicalID,
		domain.ErrUnknownResource,
		domain.ErrDependencyCycle,
	}
	for _, s := range sentinels {
		if errors.Is(err, s) {
			return s.Error()
		}
	}
	return "internal error"
}

// sentinelHandler returns an errorHandler that matches a single sentinel error.
func sentinelHandler(sentinel error, status int, code string) errorHandler {
	return func(w http.ResponseWriter, err error, msg string) bool {
		if !errors.Is(err, sentinel) {
			return false
		}
		writeError(w, status, code, msg)
		return true
	}
}

// revisionConflictHandler handles ErrRevisionConflict with ETag header and extra fields.
func revisionConflictHandler(w http.ResponseWriter, err error, msg string) bool {
	if !errors.Is(err, domain.ErrRevisionConflict) {
		return false
	}
	var rce *domain.RevisionConflictError
	if errors.As(err, &rce) {
		w.Header().Set("ETag", strconv.Quote(strconv.Itoa(rce.CurrentRevision)))
		writeJSON(w, http.StatusConflict, map[string]any{
			"code":             codeRevisionConflict,
			"message":          msg,
			"current_revision": rce.CurrentRevision,
		})
		return true
	}
	writeError(w, http.StatusConflict, codeRevisionConflict, msg)
	return true
}
