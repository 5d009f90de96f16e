package api

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"
	"time"

	apierrors "github.com/foundatiofx/go-lucene/internal/errors"
	"github.com/foundatiofx/go-lucene/internal/config"
	"github.com/foundatiofx/go-lucene/internal/includestore"
	"github.com/foundatiofx/go-lucene/internal/observability"
	"github.com/foundatiofx/go-lucene/internal/parsecache"
	"github.com/foundatiofx/go-lucene/internal/sanitize"
	"github.com/foundatiofx/go-lucene/internal/schema"
	"github.com/foundatiofx/go-lucene/pkg/lucene"
)

// Version is the service's build version, overridden at link time by
// cmd/luceneql's build process (-ldflags -X).
var Version = "dev"

// HealthResponse is the body of GET /health.
type HealthResponse struct {
	Status  string `json:"status"`
	Version string `json:"version"`
}

// Handlers holds the shared dependencies the engine-facing HTTP handlers
// need: configuration, structured logging, metrics, a parse-result cache,
// and the registry of named field-alias schemas a caller may ask a request
// to resolve fields through.
type Handlers struct {
	config    *config.Config
	logger    *observability.Logger
	metrics   *observability.Metrics
	schemas   *schema.Registry
	cache     *parsecache.ParseCache
	sanitizer *sanitize.Validator
	includes  *includestore.Store
}

// NewHandlers builds a Handlers. schemas and cache may be nil — a nil
// registry means requests may not name a schema, a nil cache disables
// caching of Parse results. A fresh, empty includestore.Store is always
// created so POST /v1/expand-includes can fall back to previously
// registered includes when a request doesn't supply one inline.
func NewHandlers(cfg *config.Config, logger *observability.Logger, metrics *observability.Metrics, schemas *schema.Registry, cache *parsecache.ParseCache) *Handlers {
	var sanitizer *sanitize.Validator
	if cfg != nil {
		sanitizer = sanitize.NewValidator(&cfg.Security, &cfg.Limits)
	}
	return &Handlers{
		config:    cfg,
		logger:    logger,
		metrics:   metrics,
		schemas:   schemas,
		cache:     cache,
		sanitizer: sanitizer,
		includes:  includestore.NewStore(),
	}
}

// Health handles GET /health.
func (h *Handlers) Health(w http.ResponseWriter, r *http.Request) {
	RespondJSON(w, http.StatusOK, HealthResponse{Status: "healthy", Version: Version})
}

// Ready handles GET /ready.
func (h *Handlers) Ready(w http.ResponseWriter, r *http.Request) {
	RespondJSON(w, http.StatusOK, map[string]interface{}{
		"ready":   true,
		"version": Version,
	})
}

// Metrics returns the Prometheus scrape handler, or a 404 responder when
// metrics are disabled in configuration.
func (h *Handlers) Metrics() http.Handler {
	if h.metrics == nil || (h.config != nil && !h.config.Metrics.Enabled) {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			RespondError(w, http.StatusNotFound, "METRICS_DISABLED", "Metrics collection is disabled")
		})
	}
	return h.metrics.Handler()
}

// defaultOperator resolves a request's "defaultOperator" string ("or",
// "and", or empty) to a lucene.Operator, falling back to engine config.
func (h *Handlers) defaultOperator(raw string) lucene.Operator {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "and":
		return lucene.And
	case "or":
		return lucene.Or
	}
	if h.config != nil {
		return h.config.Engine.DefaultOperatorValue()
	}
	return lucene.Or
}

// resolveSchema looks up a named schema, returning nil (not an error) when
// name is empty or the registry is unset — field resolution becomes a no-op.
func (h *Handlers) resolveSchema(name string) (*schema.Schema, bool) {
	if name == "" || h.schemas == nil {
		return nil, true
	}
	s, err := h.schemas.Get(name)
	if err != nil {
		return nil, false
	}
	return s, true
}

func (h *Handlers) parse(query string, defaultOp lucene.Operator) lucene.ParseResult {
	start := time.Now()
	var result lucene.ParseResult
	if h.cache != nil {
		result = h.cache.GetOrParse(query, defaultOp)
	} else {
		result = lucene.Parse(query, defaultOp)
	}
	if h.metrics != nil {
		h.metrics.RecordParse(time.Since(start).Seconds(), len(result.Errors))
	}
	return result
}

type parseRequest struct {
	Query           string `json:"query"`
	DefaultOperator string `json:"defaultOperator,omitempty"`
	Schema          string `json:"schema,omitempty"`
}

type parseResponse struct {
	Query    string                  `json:"query"`
	Rendered string                  `json:"rendered,omitempty"`
	Success  bool                    `json:"success"`
	Errors   []apierrors.ErrorInfo   `json:"errors,omitempty"`
}

// Parse handles POST /v1/parse: parse query text and return its canonical
// rendering, or the list of parse diagnostics on failure.
func (h *Handlers) Parse(w http.ResponseWriter, r *http.Request) {
	var req parseRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		RespondBadRequest(w, "invalid request body: "+err.Error())
		return
	}

	query := req.Query
	if h.sanitizer != nil {
		if err := h.sanitizer.ValidateQuery(query); err != nil {
			RespondBadRequest(w, err.Error())
			return
		}
	}
	query = sanitize.Query(query)

	result := h.parse(query, h.defaultOperator(req.DefaultOperator))
	if !result.IsSuccess() {
		detail := apierrors.FromParseErrors(query, result.Errors)
		RespondDetail(w, http.StatusBadRequest, detail)
		return
	}

	doc := result.Document
	if s, ok := h.resolveSchema(req.Schema); ok && s != nil {
		doc = doc.RunVisitors(
			lucene.NewChainedVisitor().Add(lucene.NewFieldResolutionVisitor(s.FieldResolver()), 0),
			nil,
		)
	}

	if h.metrics != nil {
		h.metrics.RecordRender()
	}
	RespondJSON(w, http.StatusOK, parseResponse{
		Query:    query,
		Rendered: doc.Render(),
		Success:  true,
	})
}

type renderRequest struct {
	Query           string `json:"query"`
	DefaultOperator string `json:"defaultOperator,omitempty"`
}

type renderResponse struct {
	Rendered string `json:"rendered"`
}

// Render handles POST /v1/render: parse then return only the canonical
// rendering, discarding any diagnostics (a malformed fragment still renders
// whatever the parser recovered).
func (h *Handlers) Render(w http.ResponseWriter, r *http.Request) {
	var req renderRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		RespondBadRequest(w, "invalid request body: "+err.Error())
		return
	}

	query := sanitize.Query(req.Query)
	result := h.parse(query, h.defaultOperator(req.DefaultOperator))
	if h.metrics != nil {
		h.metrics.RecordRender()
	}
	RespondJSON(w, http.StatusOK, renderResponse{Rendered: result.Document.Render()})
}

type validateRequest struct {
	Query                 string   `json:"query"`
	DefaultOperator       string   `json:"defaultOperator,omitempty"`
	Schema                string   `json:"schema,omitempty"`
	AllowedFields         []string `json:"allowedFields,omitempty"`
	RestrictedFields      []string `json:"restrictedFields,omitempty"`
	AllowLeadingWildcards bool     `json:"allowLeadingWildcards,omitempty"`
	AllowedMaxNodeDepth   int      `json:"allowedMaxNodeDepth,omitempty"`
	AllowedOperations     []string `json:"allowedOperations,omitempty"`
	RestrictedOperations  []string `json:"restrictedOperations,omitempty"`
}

type validateResponse struct {
	Valid              bool                  `json:"valid"`
	ReferencedFields   []string              `json:"referencedFields,omitempty"`
	ReferencedIncludes []string              `json:"referencedIncludes,omitempty"`
	UnresolvedFields   []string              `json:"unresolvedFields,omitempty"`
	MaxNodeDepth       int                   `json:"maxNodeDepth"`
	Errors             []apierrors.ErrorInfo `json:"errors,omitempty"`
}

// Validate handles POST /v1/validate: parse query text, then run it through
// the validation visitor under the request's ValidationOptions.
func (h *Handlers) Validate(w http.ResponseWriter, r *http.Request) {
	var req validateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		RespondBadRequest(w, "invalid request body: "+err.Error())
		return
	}

	query := sanitize.Query(req.Query)
	parseResult := h.parse(query, h.defaultOperator(req.DefaultOperator))
	if !parseResult.IsSuccess() {
		detail := apierrors.FromParseErrors(query, parseResult.Errors)
		RespondDetail(w, http.StatusBadRequest, detail)
		return
	}

	doc := parseResult.Document
	if s, ok := h.resolveSchema(req.Schema); ok && s != nil {
		doc = doc.RunVisitors(
			lucene.NewChainedVisitor().Add(lucene.NewFieldResolutionVisitor(s.FieldResolver()), 0),
			nil,
		)
	}

	opts := lucene.ValidationOptions{
		AllowedFields:         req.AllowedFields,
		RestrictedFields:      req.RestrictedFields,
		AllowLeadingWildcards: req.AllowLeadingWildcards,
		AllowedMaxNodeDepth:   req.AllowedMaxNodeDepth,
		AllowedOperations:     req.AllowedOperations,
		RestrictedOperations:  req.RestrictedOperations,
	}
	result := doc.Validate(opts)

	for _, e := range result.Errors {
		if h.metrics != nil {
			h.metrics.RecordValidationError(e.Message)
		}
	}

	if len(result.Errors) > 0 {
		detail := apierrors.FromValidationResult(query, result)
		RespondDetail(w, http.StatusUnprocessableEntity, detail)
		return
	}

	RespondJSON(w, http.StatusOK, validateResponse{
		Valid:              true,
		ReferencedFields:   result.ReferencedFields,
		ReferencedIncludes: result.ReferencedIncludes,
		UnresolvedFields:   result.UnresolvedFields,
		MaxNodeDepth:       result.MaxNodeDepth,
	})
}

type expandIncludesRequest struct {
	Query           string            `json:"query"`
	DefaultOperator string            `json:"defaultOperator,omitempty"`
	Includes        map[string]string `json:"includes"`
}

type expandIncludesResponse struct {
	Rendered           string                `json:"rendered,omitempty"`
	UnresolvedIncludes []string              `json:"unresolvedIncludes,omitempty"`
	Errors             []apierrors.ErrorInfo `json:"errors,omitempty"`
}

// ExpandIncludes handles POST /v1/expand-includes: parse query text, then
// expand every "@include:name" reference against the request's literal
// name -> query-text map.
func (h *Handlers) ExpandIncludes(w http.ResponseWriter, r *http.Request) {
	var req expandIncludesRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		RespondBadRequest(w, "invalid request body: "+err.Error())
		return
	}

	defaultOp := h.defaultOperator(req.DefaultOperator)
	query := sanitize.Query(req.Query)
	parseResult := h.parse(query, defaultOp)
	if !parseResult.IsSuccess() {
		detail := apierrors.FromParseErrors(query, parseResult.Errors)
		RespondDetail(w, http.StatusBadRequest, detail)
		return
	}

	resolver := lucene.IncludeResolver(func(ctx context.Context, name string) (string, error) {
		if text, ok := req.Includes[name]; ok {
			return text, nil
		}
		if h.includes == nil {
			return "", nil
		}
		return h.includes.Resolver()(ctx, name)
	})

	ctx := lucene.NewVisitorContext(r.Context())
	ctx.SetValidationResult(lucene.NewValidationResult())
	doc := parseResult.Document.ExpandIncludes(resolver, defaultOp, ctx)

	if h.metrics != nil {
		h.metrics.RecordIncludeExpansion()
	}

	RespondJSON(w, http.StatusOK, expandIncludesResponse{
		Rendered:           doc.Render(),
		UnresolvedIncludes: ctx.ValidationResult().UnresolvedIncludes,
	})
}

type putIncludeRequest struct {
	Query string `json:"query"`
}

type includeResponse struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Query string `json:"query"`
}

// includeNameFromPath extracts the {name} path segment following
// "/v1/includes/" without depending on the router having set route
// context, so handlers stay directly testable via httptest.
func includeNameFromPath(r *http.Request) string {
	return strings.TrimSpace(strings.TrimPrefix(r.URL.Path, "/v1/includes/"))
}

// PutInclude handles PUT /v1/includes/{name}: stores query text under name
// so future expand-includes calls can resolve "@include:name" against it
// without the caller repeating the text on every request.
func (h *Handlers) PutInclude(w http.ResponseWriter, r *http.Request) {
	name := includeNameFromPath(r)
	if name == "" {
		RespondBadRequest(w, "include name is required")
		return
	}

	var req putIncludeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		RespondBadRequest(w, "invalid request body: "+err.Error())
		return
	}
	if h.includes == nil {
		RespondInternalError(w, "include store not configured")
		return
	}

	def := h.includes.Put(name, req.Query)
	RespondJSON(w, http.StatusOK, includeResponse{ID: def.ID, Name: def.Name, Query: def.Query})
}

// GetInclude handles GET /v1/includes/{name}.
func (h *Handlers) GetInclude(w http.ResponseWriter, r *http.Request) {
	name := includeNameFromPath(r)
	if h.includes == nil {
		RespondNotFound(w, "include not found")
		return
	}
	def, ok := h.includes.Get(name)
	if !ok {
		RespondNotFound(w, "include not found: "+name)
		return
	}
	RespondJSON(w, http.StatusOK, includeResponse{ID: def.ID, Name: def.Name, Query: def.Query})
}

// DeleteInclude handles DELETE /v1/includes/{name}.
func (h *Handlers) DeleteInclude(w http.ResponseWriter, r *http.Request) {
	name := includeNameFromPath(r)
	if h.includes != nil {
		h.includes.Delete(name)
	}
	w.WriteHeader(http.StatusNoContent)
}

// ListIncludes handles GET /v1/includes.
func (h *Handlers) ListIncludes(w http.ResponseWriter, r *http.Request) {
	if h.includes == nil {
		RespondJSON(w, http.StatusOK, []includeResponse{})
		return
	}
	defs := h.includes.List()
	out := make([]includeResponse, 0, len(defs))
	for _, def := range defs {
		out = append(out, includeResponse{ID: def.ID, Name: def.Name, Query: def.Query})
	}
	RespondJSON(w, http.StatusOK, out)
}
