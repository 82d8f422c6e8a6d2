package auth

import (
	"encoding/json"
	"log/slog"
	"net/http"

	internal "github.com/frahmantamala/hrms-backend/internal"
	"github.com/frahmantamala/hrms-backend/internal/audit"
	"github.com/frahmantamala/hrms-backend/internal/transport"
	"github.com/frahmantamala/hrms-backend/pkg/logger"
)

type ServiceAPI interface {
	Register(dto RegisterDTO, meta audit.RequestMeta) (*AuthResponse, error)
	Login(dto LoginDTO, meta audit.RequestMeta) (*AuthResponse, error)
	Logout(principal *internal.Principal, meta audit.RequestMeta)
	ValidateAccessToken(tokenString string) (*Claims, error)
	ResolvePrincipal(userID string) (*internal.Principal, error)
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

func (h *Handler) Register(w http.ResponseWriter, r *http.Request) {
	var dto RegisterDTO
	if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
		h.WriteError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	resp, err := h.Service.Register(dto, audit.MetaFromRequest(r))
	if err != nil {
		h.Logger.Error("registration failed", "error", err, "organisation_name", dto.OrganisationName)
		h.HandleServiceError(w, err)
		return
	}

	h.WriteJSON(w, http.StatusCreated, resp)
}

func (h *Handler) Login(w http.ResponseWriter, r *http.Request) {
	var dto LoginDTO
	if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
		h.WriteError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	resp, err := h.Service.Login(dto, audit.MetaFromRequest(r))
	if err != nil {
		h.Logger.Error("login failed", "error", err)
		h.HandleServiceError(w, err)
		return
	}

	h.WriteJSON(w, http.StatusOK, resp)
}

func (h *Handler) Profile(w http.ResponseWriter, r *http.Request) {
	principal, ok := internal.PrincipalFromContext(r.Context())
	if !ok || principal == nil {
		h.WriteError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	h.WriteJSON(w, http.StatusOK, map[string]interface{}{"user": principal})
}

func (h *Handler) Logout(w http.ResponseWriter, r *http.Request) {
	principal, ok := internal.PrincipalFromContext(r.Context())
	if !ok || principal == nil {
		h.WriteError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	h.Service.Logout(principal, audit.MetaFromRequest(r))

	h.WriteJSON(w, http.StatusOK, map[string]string{"message": "Logout successful"})
}

// AuthMiddleware verifies the bearer credential and resolves it to a
// principal stored in the request context. The user id is re-resolved
// against the store rather than trusted from the claims.
func (h *Handler) AuthMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		token := h.ExtractTokenFromHeader(r)
		if token == "" {
			h.WriteError(w, http.StatusUnauthorized, "Access token required")
			return
		}

		claims, err := h.Service.ValidateAccessToken(token)
		if err != nil {
			h.Logger.Warn("token validation failed", "error", err)
			h.HandleServiceError(w, err)
			return
		}

		principal, err := h.Service.ResolvePrincipal(claims.UserID)
		if err != nil {
			h.Logger.Warn("principal resolution failed", "error", err, "user_id", claims.UserID)
			h.HandleServiceError(w, err)
			return
		}

		ctx := internal.ContextWithPrincipal(r.Context(), principal)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}
