package audit

import (
	"log/slog"
	"net/http"
	"strconv"

	internal "github.com/frahmantamala/hrms-backend/internal"
	"github.com/frahmantamala/hrms-backend/internal/transport"
	"github.com/frahmantamala/hrms-backend/pkg/logger"
)

type ServiceAPI interface {
	GetLogs(orgID string, filters Filters, page, limit int) (*ListResponse, error)
	GetStats(orgID string, filters Filters) (*StatsResponse, error)
}

type Handler struct {
	*transport.BaseHandler
	Service ServiceAPI
}

func NewHandler(service ServiceAPI) *Handler {
	lg := logger.LoggerWrapper()
	if lg == nil {
		lg = slog.Default()
	}
	return &Handler{
		BaseHandler: transport.NewBaseHandler(lg),
		Service:     service,
	}
}

func (h *Handler) GetLogs(w http.ResponseWriter, r *http.Request) {
	principal, ok := internal.PrincipalFromContext(r.Context())
	if !ok || principal == nil {
		h.Logger.Error("GetLogs: principal not found in context")
		h.WriteError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	q := r.URL.Query()

	page := 1
	if pageStr := q.Get("page"); pageStr != "" {
		if p, err := strconv.Atoi(pageStr); err == nil && p > 0 {
			page = p
		}
	}

	limit := 50
	if limitStr := q.Get("limit"); limitStr != "" {
		if l, err := strconv.Atoi(limitStr); err == nil && l > 0 {
			limit = l
		}
	}

	filters := Filters{
		Action:       q.Get("action"),
		ResourceType: q.Get("resource_type"),
		StartDate:    q.Get("start_date"),
		EndDate:      q.Get("end_date"),
	}

	resp, err := h.Service.GetLogs(principal.OrganisationID, filters, page, limit)
	if err != nil {
		h.Logger.Error("GetLogs: service error", "error", err, "organisation_id", principal.OrganisationID)
		h.HandleServiceError(w, err)
		return
	}

	h.WriteJSON(w, http.StatusOK, resp)
}

func (h *Handler) GetStats(w http.ResponseWriter, r *http.Request) {
	principal, ok := internal.PrincipalFromContext(r.Context())
	if !ok || principal == nil {
		h.Logger.Error("GetStats: principal not found in context")
		h.WriteError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	q := r.URL.Query()
	filters := Filters{
		StartDate: q.Get("start_date"),
		EndDate:   q.Get("end_date"),
	}

	resp, err := h.Service.GetStats(principal.OrganisationID, filters)
	if err != nil {
		h.Logger.Error("GetStats: service error", "error", err, "organisation_id", principal.OrganisationID)
		h.HandleServiceError(w, err)
		return
	}

	h.WriteJSON(w, http.StatusOK, resp)
}
