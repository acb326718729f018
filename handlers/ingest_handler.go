package handlers

import (
	"context"
	"errors"
	"net/http"
	"strconv"

	"github.com/upb/log-ingest/config"
	"github.com/upb/log-ingest/middleware"
	"github.com/upb/log-ingest/models"
	"github.com/upb/log-ingest/repositories"
	"github.com/upb/log-ingest/services"
	"github.com/upb/log-ingest/services/ingest"
	"github.com/upb/log-ingest/utils"
	"go.uber.org/zap"
)

// IngestService defines the operations the ingest endpoints depend on
type IngestService interface {
	IngestUnstructured(ctx context.Context, sub models.UnstructuredLogs) (*ingest.Result, error)
	IngestUDMEvents(ctx context.Context, sub models.UDMEvents) (*ingest.Result, error)
	ListLogs(ctx context.Context, q ingest.Query) (*ingest.Page, error)
	StoredCount() int
}

// IngestResponse is the body returned for an accepted submission
type IngestResponse struct {
	IngestID string `json:"ingest_id"`
	Accepted int    `json:"accepted"`
}

// IngestHandler handles submission and log listing requests
type IngestHandler struct {
	service      IngestService
	maxBodyBytes int64
	query        config.QueryConfig
	logger       *zap.Logger
}

// NewIngestHandler creates a new IngestHandler
func NewIngestHandler(service IngestService, ingestCfg config.IngestConfig, queryCfg config.QueryConfig, logger *zap.Logger) *IngestHandler {
	return &IngestHandler{
		service:      service,
		maxBodyBytes: ingestCfg.MaxBodyBytes,
		query:        queryCfg,
		logger:       logger,
	}
}

// HandleUnstructured handles POST /api/v1/logs/unstructured
func (h *IngestHandler) HandleUnstructured(w http.ResponseWriter, r *http.Request) {
	var sub models.UnstructuredLogs
	if !h.decode(w, r, &sub) {
		return
	}

	result, err := h.service.IngestUnstructured(r.Context(), sub)
	h.respondIngest(w, r, result, err)
}

// HandleUDMEvents handles POST /api/v1/logs/udm
func (h *IngestHandler) HandleUDMEvents(w http.ResponseWriter, r *http.Request) {
	var sub models.UDMEvents
	if !h.decode(w, r, &sub) {
		return
	}

	result, err := h.service.IngestUDMEvents(r.Context(), sub)
	h.respondIngest(w, r, result, err)
}

// HandleListLogs handles GET /api/v1/logs
func (h *IngestHandler) HandleListLogs(w http.ResponseWriter, r *http.Request) {
	q, err := h.parseQuery(r)
	if err != nil {
		HandleServiceError(w, err, h.logger)
		return
	}

	page, err := h.service.ListLogs(r.Context(), q)
	if err != nil {
		HandleServiceError(w, err, h.logger)
		return
	}

	if page.Logs == nil {
		page.Logs = []models.Log{}
	}
	if err := utils.WriteOK(w, page); err != nil {
		h.logger.Error("failed to write response", zap.Error(err))
	}
}

// decode reads and validates the request body, writing the error response
// itself when it returns false.
func (h *IngestHandler) decode(w http.ResponseWriter, r *http.Request, dst interface{}) bool {
	if err := utils.DecodeJSON(w, r, h.maxBodyBytes, dst); err != nil {
		if errors.Is(err, utils.ErrBodyTooLarge) {
			_ = utils.WriteRequestEntityTooLarge(w, h.maxBodyBytes)
			return false
		}
		h.logger.Debug("invalid request body",
			zap.String("request_id", middleware.GetRequestIDFromContext(r.Context())),
			zap.Error(err))
		HandleValidationError(w, err, h.logger)
		return false
	}

	if err := utils.ValidateStruct(dst); err != nil {
		HandleValidationError(w, err, h.logger)
		return false
	}
	return true
}

func (h *IngestHandler) respondIngest(w http.ResponseWriter, r *http.Request, result *ingest.Result, err error) {
	if err != nil {
		HandleServiceError(w, err, h.logger)
		return
	}

	response := IngestResponse{
		IngestID: result.IngestID.String(),
		Accepted: result.Accepted,
	}
	if err := utils.WriteAccepted(w, response); err != nil {
		h.logger.Error("failed to write response",
			zap.String("request_id", middleware.GetRequestIDFromContext(r.Context())),
			zap.Error(err))
	}
}

// parseQuery builds an ingest.Query from URL parameters, applying the
// configured default and maximum page size.
func (h *IngestHandler) parseQuery(r *http.Request) (ingest.Query, error) {
	values := r.URL.Query()
	q := ingest.Query{
		Filter: repositories.LogFilter{
			CustomerID: values.Get("customer_id"),
			LogType:    values.Get("log_type"),
			Namespace:  values.Get("namespace"),
		},
		Limit: h.query.DefaultLimit,
	}

	fields := map[string]string{}
	if raw := values.Get("limit"); raw != "" {
		limit, err := strconv.Atoi(raw)
		if err != nil || limit <= 0 {
			fields["limit"] = "limit must be a positive integer"
		} else {
			q.Limit = limit
		}
	}
	if raw := values.Get("offset"); raw != "" {
		offset, err := strconv.Atoi(raw)
		if err != nil || offset < 0 {
			fields["offset"] = "offset must be a non-negative integer"
		} else {
			q.Offset = offset
		}
	}
	if len(fields) > 0 {
		return q, services.NewValidationError("invalid query parameters", fields)
	}

	if h.query.MaxLimit > 0 && q.Limit > h.query.MaxLimit {
		q.Limit = h.query.MaxLimit
	}
	return q, nil
}
