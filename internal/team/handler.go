package team

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi"

	internal "github.com/frahmantamala/hrms-backend/internal"
	"github.com/frahmantamala/hrms-backend/internal/audit"
	"github.com/frahmantamala/hrms-backend/internal/transport"
	"github.com/frahmantamala/hrms-backend/pkg/logger"
)

type ServiceAPI interface {
	ListTeams(principal *internal.Principal) ([]*Team, error)
	CreateTeam(principal *internal.Principal, dto TeamDTO, meta audit.RequestMeta) (*Team, error)
	UpdateTeam(principal *internal.Principal, teamID string, dto TeamDTO, meta audit.RequestMeta) (*Team, error)
	DeleteTeam(principal *internal.Principal, teamID string, meta audit.RequestMeta) error
	ListMembers(principal *internal.Principal, teamID string) ([]MemberRef, error)
}

type Handler struct {
	*transport.BaseHandler
	Service ServiceAPI
}

func NewHandler(svc ServiceAPI) *Handler {
	lg := logger.LoggerWrapper()
	if lg == nil {
		lg = slog.Default()
	}
	return &Handler{
		BaseHandler: transport.NewBaseHandler(lg),
		Service:     svc,
	}
}

func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	principal, ok := internal.PrincipalFromContext(r.Context())
	if !ok || principal == nil {
		h.WriteError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	teams, err := h.Service.ListTeams(principal)
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}

	h.WriteJSON(w, http.StatusOK, teams)
}

func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	principal, ok := internal.PrincipalFromContext(r.Context())
	if !ok || principal == nil {
		h.WriteError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	var dto TeamDTO
	if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
		h.WriteError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	t, err := h.Service.CreateTeam(principal, dto, audit.MetaFromRequest(r))
	if err != nil {
		h.Logger.Error("team creation failed", "error", err)
		h.HandleServiceError(w, err)
		return
	}

	h.WriteJSON(w, http.StatusCreated, map[string]interface{}{
		"message": "Team created successfully",
		"team":    t,
	})
}

func (h *Handler) Update(w http.ResponseWriter, r *http.Request) {
	principal, ok := internal.PrincipalFromContext(r.Context())
	if !ok || principal == nil {
		h.WriteError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	teamID := chi.URLParam(r, "id")

	var dto TeamDTO
	if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
		h.WriteError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	t, err := h.Service.UpdateTeam(principal, teamID, dto, audit.MetaFromRequest(r))
	if err != nil {
		h.Logger.Error("team update failed", "error", err, "team_id", teamID)
		h.HandleServiceError(w, err)
		return
	}

	h.WriteJSON(w, http.StatusOK, map[string]interface{}{
		"message": "Team updated successfully",
		"team":    t,
	})
}

func (h *Handler) Delete(w http.ResponseWriter, r *http.Request) {
	principal, ok := internal.PrincipalFromContext(r.Context())
	if !ok || principal == nil {
		h.WriteError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	teamID := chi.URLParam(r, "id")

	if err := h.Service.DeleteTeam(principal, teamID, audit.MetaFromRequest(r)); err != nil {
		h.Logger.Error("team deletion failed", "error", err, "team_id", teamID)
		h.HandleServiceError(w, err)
		return
	}

	h.WriteJSON(w, http.StatusOK, map[string]string{"message": "Team deleted successfully"})
}

func (h *Handler) Members(w http.ResponseWriter, r *http.Request) {
	principal, ok := internal.PrincipalFromContext(r.Context())
	if !ok || principal == nil {
		h.WriteError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	teamID := chi.URLParam(r, "id")

	members, err := h.Service.ListMembers(principal, teamID)
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}

	h.WriteJSON(w, http.StatusOK, members)
}
