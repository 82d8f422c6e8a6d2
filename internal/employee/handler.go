package employee

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
	ListEmployees(principal *internal.Principal) ([]*Employee, error)
	CreateEmployee(principal *internal.Principal, dto EmployeeDTO, meta audit.RequestMeta) (*Employee, error)
	UpdateEmployee(principal *internal.Principal, employeeID string, dto EmployeeDTO, meta audit.RequestMeta) (*Employee, error)
	DeleteEmployee(principal *internal.Principal, employeeID string, meta audit.RequestMeta) error
	AssignToTeam(principal *internal.Principal, employeeID, teamID string, meta audit.RequestMeta) error
	RemoveFromTeam(principal *internal.Principal, employeeID, teamID string, meta audit.RequestMeta) error
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

	employees, err := h.Service.ListEmployees(principal)
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}

	h.WriteJSON(w, http.StatusOK, employees)
}

func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	principal, ok := internal.PrincipalFromContext(r.Context())
	if !ok || principal == nil {
		h.WriteError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	var dto EmployeeDTO
	if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
		h.WriteError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	emp, err := h.Service.CreateEmployee(principal, dto, audit.MetaFromRequest(r))
	if err != nil {
		h.Logger.Error("employee creation failed", "error", err)
		h.HandleServiceError(w, err)
		return
	}

	h.WriteJSON(w, http.StatusCreated, map[string]interface{}{
		"message":  "Employee created successfully",
		"employee": emp,
	})
}

func (h *Handler) Update(w http.ResponseWriter, r *http.Request) {
	principal, ok := internal.PrincipalFromContext(r.Context())
	if !ok || principal == nil {
		h.WriteError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	employeeID := chi.URLParam(r, "id")

	var dto EmployeeDTO
	if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
		h.WriteError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	emp, err := h.Service.UpdateEmployee(principal, employeeID, dto, audit.MetaFromRequest(r))
	if err != nil {
		h.Logger.Error("employee update failed", "error", err, "employee_id", employeeID)
		h.HandleServiceError(w, err)
		return
	}

	h.WriteJSON(w, http.StatusOK, map[string]interface{}{
		"message":  "Employee updated successfully",
		"employee": emp,
	})
}

func (h *Handler) Delete(w http.ResponseWriter, r *http.Request) {
	principal, ok := internal.PrincipalFromContext(r.Context())
	if !ok || principal == nil {
		h.WriteError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	employeeID := chi.URLParam(r, "id")

	if err := h.Service.DeleteEmployee(principal, employeeID, audit.MetaFromRequest(r)); err != nil {
		h.Logger.Error("employee deletion failed", "error", err, "employee_id", employeeID)
		h.HandleServiceError(w, err)
		return
	}

	h.WriteJSON(w, http.StatusOK, map[string]string{"message": "Employee deleted successfully"})
}

func (h *Handler) AssignTeam(w http.ResponseWriter, r *http.Request) {
	principal, ok := internal.PrincipalFromContext(r.Context())
	if !ok || principal == nil {
		h.WriteError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	employeeID := chi.URLParam(r, "employeeId")
	teamID := chi.URLParam(r, "teamId")

	if err := h.Service.AssignToTeam(principal, employeeID, teamID, audit.MetaFromRequest(r)); err != nil {
		h.Logger.Error("team assignment failed", "error", err, "employee_id", employeeID, "team_id", teamID)
		h.HandleServiceError(w, err)
		return
	}

	h.WriteJSON(w, http.StatusOK, map[string]string{"message": "Employee assigned to team successfully"})
}

func (h *Handler) RemoveTeam(w http.ResponseWriter, r *http.Request) {
	principal, ok := internal.PrincipalFromContext(r.Context())
	if !ok || principal == nil {
		h.WriteError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	employeeID := chi.URLParam(r, "employeeId")
	teamID := chi.URLParam(r, "teamId")

	if err := h.Service.RemoveFromTeam(principal, employeeID, teamID, audit.MetaFromRequest(r)); err != nil {
		h.Logger.Error("team removal failed", "error", err, "employee_id", employeeID, "team_id", teamID)
		h.HandleServiceError(w, err)
		return
	}

	h.WriteJSON(w, http.StatusOK, map[string]string{"message": "Employee removed from team successfully"})
}
