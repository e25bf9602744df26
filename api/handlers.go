/*
handlers.go - HTTP API handlers for PPE issuance

PURPOSE:
  Exposes the PPE core via REST API. Handles HTTP request/response, JSON
  serialization, and delegates to the ppe and advisory packages.

ENDPOINTS:
  Catalog:
    GET    /api/catalog                 Categories with their items

  Records:
    GET    /api/records?q=term          History, filtered and newest first
    POST   /api/records                 Issue PPE (ppe.IssueForm body)

  Dashboard:
    GET    /api/stats                   Aggregate statistics

  Advisor:
    POST   /api/advisor/insights        {"query": "..."} against history
    POST   /api/advisor/requirements    {"task": "..."}

  Ops:
    GET    /healthz                     Liveness + snapshot size
    GET    /metrics                     Prometheus

ARCHITECTURE:
  Handler struct holds all dependencies:
  - Records: the process-wide ppe.Store (no global state)
  - Catalog: item reference data used by form validation
  - Advisor: advisory client (never fails, returns fallback text)
  - Events: publisher for ppe.issued events
  - Metrics: Prometheus collectors

REQUEST FLOW (POST /api/records):
  1. Decode ppe.IssueForm
  2. Validate + mint a Record (fresh UUID, now)
  3. Append (or AppendAt when If-Match carries a version)
  4. Publish ppe.issued, count metrics
  5. 201 with the record and the new version as ETag

ERROR HANDLING:
  Errors are returned as JSON with appropriate HTTP status:
  - 400: Validation errors, invalid input
  - 409: Duplicate id, stale If-Match version
  - 500: Persistence failures

SECURITY NOTE:
  No authentication. All endpoints are public.

SEE ALSO:
  - dto.go: Request/response data structures
  - server.go: Router setup and middleware
*/
package api

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/vesselflow/ppe-engine/advisory"
	"github.com/vesselflow/ppe-engine/events"
	"github.com/vesselflow/ppe-engine/metrics"
	"github.com/vesselflow/ppe-engine/ppe"
)

// =============================================================================
// HANDLER CONTEXT
// =============================================================================

// Handler holds all dependencies for HTTP handlers.
type Handler struct {
	Records *ppe.Store
	Catalog *ppe.Catalog
	Advisor *advisory.Client
	Events  events.Publisher
	Topic   string
	Metrics *metrics.Metrics
	Logger  *zap.Logger

	now   func() time.Time
	newID ppe.IDFunc
}

// HandlerOption configures a Handler.
type HandlerOption func(*Handler)

// WithEvents sets the issuance event publisher and topic.
func WithEvents(p events.Publisher, topic string) HandlerOption {
	return func(h *Handler) {
		h.Events = p
		if topic != "" {
			h.Topic = topic
		}
	}
}

// WithMetrics sets the collectors.
func WithMetrics(m *metrics.Metrics) HandlerOption {
	return func(h *Handler) { h.Metrics = m }
}

// WithLogger sets the logger.
func WithLogger(l *zap.Logger) HandlerOption {
	return func(h *Handler) { h.Logger = l }
}

// WithCatalog replaces the default catalog.
func WithCatalog(c *ppe.Catalog) HandlerOption {
	return func(h *Handler) { h.Catalog = c }
}

// WithClock sets the clock used to stamp new records.
func WithClock(now func() time.Time) HandlerOption {
	return func(h *Handler) { h.now = now }
}

// WithIDs sets the record id generator.
func WithIDs(f ppe.IDFunc) HandlerOption {
	return func(h *Handler) { h.newID = f }
}

// NewHandler creates a new handler.
func NewHandler(records *ppe.Store, advisor *advisory.Client, opts ...HandlerOption) *Handler {
	h := &Handler{
		Records: records,
		Catalog: ppe.DefaultCatalog(),
		Advisor: advisor,
		Events:  events.Noop{},
		Topic:   events.DefaultTopic,
		Metrics: metrics.New(),
		Logger:  zap.NewNop(),
		now:     time.Now,
		newID:   ppe.NewRecordID,
	}
	for _, opt := range opts {
		opt(h)
	}
	return h
}

// =============================================================================
// CATALOG
// =============================================================================

// ListCatalog returns every category with its items.
// GET /api/catalog
func (h *Handler) ListCatalog(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, toCategoryDTOs(h.Catalog))
}

// =============================================================================
// RECORDS
// =============================================================================

// ListRecords returns the history filtered by ?q=, newest first.
// GET /api/records
func (h *Handler) ListRecords(w http.ResponseWriter, r *http.Request) {
	term := r.URL.Query().Get("q")
	records := ppe.Search(h.Records.Snapshot(), term)

	w.Header().Set("ETag", etag(h.Records.Version()))
	writeJSON(w, http.StatusOK, records)
}

// CreateRecord validates an issue form and appends the resulting record.
// POST /api/records
func (h *Handler) CreateRecord(w http.ResponseWriter, r *http.Request) {
	var form ppe.IssueForm
	if err := json.NewDecoder(r.Body).Decode(&form); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}

	record, err := form.Issue(h.Catalog, h.now(), h.newID)
	if err != nil {
		h.writeStoreError(w, err)
		return
	}

	ctx := r.Context()
	if raw := r.Header.Get("If-Match"); raw != "" {
		version, perr := parseETag(raw)
		if perr != nil {
			writeError(w, http.StatusBadRequest, "Invalid If-Match header", perr)
			return
		}
		err = h.Records.AppendAt(ctx, version, record)
	} else {
		err = h.Records.Append(ctx, record)
	}
	if err != nil {
		h.writeStoreError(w, err)
		return
	}

	h.Metrics.ObserveAppend(record)
	h.publishIssued(ctx, record)
	h.Logger.Info("ppe issued",
		zap.String("id", record.ID),
		zap.String("vessel", record.VesselName),
		zap.String("item", record.ItemName),
		zap.Int("quantity", record.Quantity))

	w.Header().Set("ETag", etag(h.Records.Version()))
	writeJSON(w, http.StatusCreated, record)
}

// publishIssued never fails the request: the record is already persisted.
func (h *Handler) publishIssued(ctx context.Context, record ppe.Record) {
	if err := h.Events.PublishEvent(ctx, h.Topic, record.VesselName, events.NewIssued(record)); err != nil {
		h.Metrics.EventFailures.Inc()
		h.Logger.Warn("failed to publish issuance event",
			zap.String("id", record.ID),
			zap.String("topic", h.Topic),
			zap.Error(err))
	}
}

func (h *Handler) writeStoreError(w http.ResponseWriter, err error) {
	var verr *ppe.ValidationError
	switch {
	case errors.As(err, &verr):
		writeJSON(w, http.StatusBadRequest, ErrorResponse{
			Error:   "Please fill all required fields and verify the quantity",
			Code:    "validation_failed",
			Details: verr.Fields,
		})
	case ppe.IsConflict(err):
		writeError(w, http.StatusConflict, "Record conflicts with stored state", err)
	case ppe.IsClientError(err):
		writeError(w, http.StatusBadRequest, "Record rejected", err)
	default:
		h.Logger.Error("failed to append record", zap.Error(err))
		writeError(w, http.StatusInternalServerError, "Failed to save record", err)
	}
}

// =============================================================================
// DASHBOARD
// =============================================================================

// GetStats returns aggregate statistics over the current snapshot.
// GET /api/stats
func (h *Handler) GetStats(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, ppe.Summarize(h.Records.Snapshot()))
}

// =============================================================================
// ADVISOR
// =============================================================================

// GetInsights answers a question using the current history.
// POST /api/advisor/insights
func (h *Handler) GetInsights(w http.ResponseWriter, r *http.Request) {
	var req InsightsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}
	if strings.TrimSpace(req.Query) == "" {
		writeError(w, http.StatusBadRequest, "query is required", nil)
		return
	}

	answer := h.Advisor.GetSafetyInsights(r.Context(), h.Records.Snapshot(), req.Query)
	writeJSON(w, http.StatusOK, AdviceResponse{Mode: advisory.KindInsights, Answer: answer})
}

// PredictRequirements lists PPE for a described task.
// POST /api/advisor/requirements
func (h *Handler) PredictRequirements(w http.ResponseWriter, r *http.Request) {
	var req RequirementRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}
	if strings.TrimSpace(req.Task) == "" {
		writeError(w, http.StatusBadRequest, "task is required", nil)
		return
	}

	answer := h.Advisor.PredictPPERequirement(r.Context(), req.Task)
	writeJSON(w, http.StatusOK, AdviceResponse{Mode: advisory.KindRequirement, Answer: answer})
}

// =============================================================================
// OPS
// =============================================================================

// Health reports liveness.
// GET /healthz
func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, HealthDTO{
		Status:  "ok",
		Records: len(h.Records.Snapshot()),
		Version: h.Records.Version(),
	})
}

// =============================================================================
// HELPERS
// =============================================================================

func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

func writeError(w http.ResponseWriter, status int, message string, err error) {
	resp := ErrorResponse{Error: message}
	if err != nil {
		resp.Details = err.Error()
	}
	writeJSON(w, status, resp)
}

func etag(version uint64) string {
	return fmt.Sprintf("%q", strconv.FormatUint(version, 10))
}

func parseETag(raw string) (uint64, error) {
	raw = strings.TrimPrefix(strings.TrimSpace(raw), "W/")
	return strconv.ParseUint(strings.Trim(raw, `"`), 10, 64)
}
