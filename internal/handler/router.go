package handler

import (
	"log/slog"
	"net/http"

	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/saasbase/projecthub/internal/observability/metrics"
	"github.com/saasbase/projecthub/internal/security/auth"
	"github.com/saasbase/projecthub/internal/security/middleware"
)

// Handlers groups everything the router mounts.
type Handlers struct {
	Auth    *AuthHandler
	User    *UserHandler
	Project *ProjectHandler
	Task    *TaskHandler
	Team    *TeamHandler
	Health  *HealthHandler
}

// NewRouter wires all routes and the middleware chain. Every /api/v1
// route except register, login and health sits behind the JWT gate, so no
// handler can run without a verified identity in context.
func NewRouter(h Handlers, tm *auth.TokenManager, log *slog.Logger) http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("POST /api/v1/auth/register", h.Auth.Register)
	mux.HandleFunc("POST /api/v1/auth/login", h.Auth.Login)

	mux.HandleFunc("GET /api/v1/users/{id}", h.User.Get)
	mux.HandleFunc("PUT /api/v1/users/{id}", h.User.Update)

	mux.HandleFunc("POST /api/v1/projects", h.Project.Create)
	mux.HandleFunc("GET /api/v1/projects", h.Project.List)
	mux.HandleFunc("GET /api/v1/projects/{id}", h.Project.Get)
	mux.HandleFunc("PUT /api/v1/projects/{id}", h.Project.Update)
	mux.HandleFunc("DELETE /api/v1/projects/{id}", h.Project.Delete)
	mux.HandleFunc("GET /api/v1/projects/{project_id}/tasks", h.Task.ListByProject)

	mux.HandleFunc("POST /api/v1/tasks", h.Task.Create)
	mux.HandleFunc("GET /api/v1/tasks", h.Task.List)
	mux.HandleFunc("PUT /api/v1/tasks/{id}", h.Task.Update)
	mux.HandleFunc("DELETE /api/v1/tasks/{id}", h.Task.Delete)

	mux.HandleFunc("POST /api/v1/team", h.Team.Create)
	mux.HandleFunc("GET /api/v1/team", h.Team.List)
	mux.HandleFunc("GET /api/v1/team/{id}", h.Team.Get)
	mux.HandleFunc("PUT /api/v1/team/{id}", h.Team.Update)
	mux.HandleFunc("DELETE /api/v1/team/{id}", h.Team.Delete)

	mux.HandleFunc("GET /api/v1/health", h.Health.Health)
	mux.HandleFunc("GET /healthz", h.Health.Healthz)
	mux.HandleFunc("GET /readyz", h.Health.Ready)
	mux.Handle("GET /metrics", promhttp.Handler())

	// Chain: metrics -> content-type validation -> JWT gate -> mux
	var root http.Handler = mux
	root = middleware.JWTMiddleware(tm, log)(root)
	root = middleware.ValidateJSONContentType(log)(root)
	root = metrics.HTTPMetricsMiddleware(root)
	return root
}
