package handler

import (
	"log/slog"
	"net/http"

	"github.com/saasbase/projecthub/internal/domain"
	"github.com/saasbase/projecthub/internal/observability/metrics"
	"github.com/saasbase/projecthub/internal/security/audit"
	"github.com/saasbase/projecthub/internal/service"
)

// ProjectHandler handles project CRUD endpoints.
type ProjectHandler struct {
	projectService *service.ProjectService
	audit          *audit.Logger
	logger         *slog.Logger
}

// NewProjectHandler creates a new project handler
func NewProjectHandler(projectService *service.ProjectService, auditLog *audit.Logger, logger *slog.Logger) *ProjectHandler {
	if logger == nil {
		logger = slog.Default()
	}
	return &ProjectHandler{
		projectService: projectService,
		audit:          auditLog,
		logger:         logger,
	}
}

// CreateProjectRequest represents project creation request
type CreateProjectRequest struct {
	Name        string `json:"name"`
	Description string `json:"description"`
}

// UpdateProjectRequest carries optional fields; absent fields are left
// unchanged.
type UpdateProjectRequest struct {
	Name        *string `json:"name"`
	Description *string `json:"description"`
	Status      *string `json:"status"`
}

// Create handles POST /api/v1/projects
func (h *ProjectHandler) Create(w http.ResponseWriter, r *http.Request) {
	claims := callerClaims(w, r)
	if claims == nil {
		return
	}

	var req CreateProjectRequest
	if err := decodeBody(r, &req); err != nil {
		writeError(w, h.logger, err)
		return
	}

	project, err := h.projectService.Create(r.Context(), claims.TenantID, claims.UserID, req.Name, req.Description)
	if err != nil {
		metrics.ObserveEntityOperation("project", "create", "error")
		writeError(w, h.logger, err)
		return
	}

	metrics.ObserveEntityOperation("project", "create", "ok")
	h.audit.LogAction(r.Context(), claims.TenantID, claims.UserID, "create", "project", project.ID, "created")

	writeSuccess(w, http.StatusCreated, "Project created", project)
}

// List handles GET /api/v1/projects
func (h *ProjectHandler) List(w http.ResponseWriter, r *http.Request) {
	claims := callerClaims(w, r)
	if claims == nil {
		return
	}

	projects, err := h.projectService.List(r.Context(), claims.TenantID)
	if err != nil {
		writeError(w, h.logger, err)
		return
	}
	if projects == nil {
		projects = []*domain.Project{}
	}

	writeSuccess(w, http.StatusOK, "Projects retrieved", projects)
}

// Get handles GET /api/v1/projects/{id}
func (h *ProjectHandler) Get(w http.ResponseWriter, r *http.Request) {
	claims := callerClaims(w, r)
	if claims == nil {
		return
	}

	id, err := parsePathID(r, "id")
	if err != nil {
		writeError(w, h.logger, err)
		return
	}

	project, err := h.projectService.Get(r.Context(), id, claims.TenantID)
	if err != nil {
		writeError(w, h.logger, err)
		return
	}

	writeSuccess(w, http.StatusOK, "Project found", project)
}

// Update handles PUT /api/v1/projects/{id}
func (h *ProjectHandler) Update(w http.ResponseWriter, r *http.Request) {
	claims := callerClaims(w, r)
	if claims == nil {
		return
	}

	id, err := parsePathID(r, "id")
	if err != nil {
		writeError(w, h.logger, err)
		return
	}

	var req UpdateProjectRequest
	if err := decodeBody(r, &req); err != nil {
		writeError(w, h.logger, err)
		return
	}

	patch := domain.ProjectPatch{
		Name:        req.Name,
		Description: req.Description,
		Status:      req.Status,
	}

	project, err := h.projectService.Update(r.Context(), id, claims.TenantID, patch)
	if err != nil {
		metrics.ObserveEntityOperation("project", "update", "error")
		writeError(w, h.logger, err)
		return
	}

	metrics.ObserveEntityOperation("project", "update", "ok")
	h.audit.LogAction(r.Context(), claims.TenantID, claims.UserID, "update", "project", project.ID, "updated")

	writeSuccess(w, http.StatusOK, "Project updated", project)
}

// Delete handles DELETE /api/v1/projects/{id}
func (h *ProjectHandler) Delete(w http.ResponseWriter, r *http.Request) {
	claims := callerClaims(w, r)
	if claims == nil {
		return
	}

	id, err := parsePathID(r, "id")
	if err != nil {
		writeError(w, h.logger, err)
		return
	}

	if err := h.projectService.Delete(r.Context(), id, claims.TenantID); err != nil {
		metrics.ObserveEntityOperation("project", "delete", "error")
		writeError(w, h.logger, err)
		return
	}

	metrics.ObserveEntityOperation("project", "delete", "ok")
	h.audit.LogAction(r.Context(), claims.TenantID, claims.UserID, "delete", "project", id, "deleted")

	writeSuccess(w, http.StatusOK, "Project deleted", nil)
}
