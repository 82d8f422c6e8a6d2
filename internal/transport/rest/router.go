package rest

import (
	"database/sql"
	"log/slog"
	"net/http"

	"github.com/frahmantamala/hrms-backend/internal/audit"
	"github.com/frahmantamala/hrms-backend/internal/auth"
	"github.com/frahmantamala/hrms-backend/internal/employee"
	"github.com/frahmantamala/hrms-backend/internal/team"
	"github.com/frahmantamala/hrms-backend/internal/transport/middleware"
	"github.com/frahmantamala/hrms-backend/internal/transport/swagger"
	"github.com/go-chi/chi"
	chiMiddleware "github.com/go-chi/chi/middleware"
)

// RegisterAllRoutes wires the route table. Auth and health stay public;
// everything else requires a resolved principal.
func RegisterAllRoutes(router *chi.Mux, db *sql.DB, allowedOrigins []string, includeErrorDetails bool, authHandler *auth.Handler, employeeHandler *employee.Handler, teamHandler *team.Handler, auditHandler *audit.Handler, logger *slog.Logger) {
	healthHandler := NewHealthHandler(db)

	router.Use(middleware.CORS(allowedOrigins))
	router.Use(chiMiddleware.RequestID)
	router.Use(middleware.RequestID)
	router.Use(middleware.LoggingMiddleware(logger))
	router.Use(middleware.RecoveryMiddleware(logger, includeErrorDetails))

	router.Get("/openapi.yml", func(w http.ResponseWriter, r *http.Request) {
		http.ServeFile(w, r, "./api/openapi.yml")
	})
	router.Handle("/swagger/*", swagger.Handler())

	router.Route("/api", func(r chi.Router) {
		r.Get("/health", healthHandler.healthCheckHandler)
		r.Get("/ping", healthHandler.pingHandler)

		r.Route("/auth", func(sr chi.Router) {
			sr.Post("/register", authHandler.Register)
			sr.Post("/login", authHandler.Login)

			sr.Group(func(pr chi.Router) {
				pr.Use(authHandler.AuthMiddleware)
				pr.Get("/profile", authHandler.Profile)
				pr.Post("/logout", authHandler.Logout)
			})
		})

		r.Group(func(pr chi.Router) {
			pr.Use(authHandler.AuthMiddleware)

			pr.Route("/employees", func(er chi.Router) {
				er.Get("/", employeeHandler.List)
				er.Post("/", employeeHandler.Create)
				er.Put("/{id}", employeeHandler.Update)
				er.Delete("/{id}", employeeHandler.Delete)
				er.Post("/{employeeId}/teams/{teamId}", employeeHandler.AssignTeam)
				er.Delete("/{employeeId}/teams/{teamId}", employeeHandler.RemoveTeam)
			})

			pr.Route("/teams", func(tr chi.Router) {
				tr.Get("/", teamHandler.List)
				tr.Post("/", teamHandler.Create)
				tr.Put("/{id}", teamHandler.Update)
				tr.Delete("/{id}", teamHandler.Delete)
				tr.Get("/{id}/members", teamHandler.Members)
			})

			pr.Route("/audit", func(ar chi.Router) {
				ar.Get("/logs", auditHandler.GetLogs)
				ar.Get("/stats", auditHandler.GetStats)
			})
		})
	})
}
