// Package handler exposes the audit trail viewer over HTTP.
package handler

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"vigil/internal/actors"
	"vigil/internal/auditlog/models"
	"vigil/internal/auditlog/service"
	"vigil/pkg/platform/httputil"
	"vigil/pkg/platform/middleware/admin"
	request "vigil/pkg/platform/middleware/request"
)

// Service defines the audit view operations the handler depends on.
// Returns domain objects, not HTTP response DTOs.
type Service interface {
	View(ctx context.Context, scope actors.Scope, q models.Query) (*service.View, error)
	ActorUniverse(ctx context.Context, scope actors.Scope, filter models.Filter) (actors.Resolution, error)
}

type Handler struct {
	service Service
	logger  *slog.Logger
}

func New(service Service, logger *slog.Logger) *Handler {
	return &Handler{service: service, logger: logger}
}

func (h *Handler) Register(r chi.Router) {
	r.Get("/admin/audit-log", h.HandleView)
	r.Get("/admin/audit-log/actors", h.HandleActors)
}

// HandleView returns one page of the audit trail in the requested view mode.
func (h *Handler) HandleView(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID := request.GetRequestID(ctx)

	q, err := parseQuery(r.URL.Query())
	if err != nil {
		httputil.WriteError(w, err)
		return
	}

	scope := actors.Scope{OperatorID: admin.GetOperatorID(ctx)}
	view, err := h.service.View(ctx, scope, q)
	if err != nil {
		h.logger.ErrorContext(ctx, "audit view failed", "error", err,
			"request_id", requestID, "view_mode", q.ViewMode)
		httputil.WriteError(w, err)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, toViewResponse(view))
}

// HandleActors returns the resolved actor universe for the current filter,
// for populating filter menus without loading any entries.
func (h *Handler) HandleActors(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID := request.GetRequestID(ctx)

	filter, err := parseFilter(r.URL.Query())
	if err != nil {
		httputil.WriteError(w, err)
		return
	}

	scope := actors.Scope{OperatorID: admin.GetOperatorID(ctx)}
	resolution, err := h.service.ActorUniverse(ctx, scope, filter)
	if err != nil {
		h.logger.ErrorContext(ctx, "audit actor universe failed", "error", err,
			"request_id", requestID)
		httputil.WriteError(w, err)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, toActorsResponse(resolution))
}
