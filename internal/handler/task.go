package handler

import (
	"log/slog"
	"net/http"

	"github.com/saasbase/projecthub/internal/domain"
	"github.com/saasbase/projecthub/internal/observability/metrics"
	"github.com/saasbase/projecthub/internal/security/audit"
	"github.com/saasbase/projecthub/internal/service"
)

// TaskHandler handles task CRUD endpoints.
type TaskHandler struct {
	taskService *service.TaskService
	audit       *audit.Logger
	logger      *slog.Logger
}

// NewTaskHandler creates a new task handler
func NewTaskHandler(taskService *service.TaskService, auditLog *audit.Logger, logger *slog.Logger) *TaskHandler {
	if logger == nil {
		logger = slog.Default()
	}
	return &TaskHandler{
		taskService: taskService,
		audit:       auditLog,
		logger:      logger,
	}
}

// CreateTaskRequest represents task creation request
type CreateTaskRequest struct {
	ProjectID   int64  `json:"project_id"`
	Title       string `json:"title"`
	Description string `json:"description"`
	AssignedTo  *int64 `json:"assigned_to"`
}

// UpdateTaskRequest carries optional fields; absent fields are left
// unchanged.
type UpdateTaskRequest struct {
	Title       *string `json:"title"`
	Description *string `json:"description"`
	Status      *string `json:"status"`
	AssignedTo  *int64  `json:"assigned_to"`
}

// Create handles POST /api/v1/tasks
func (h *TaskHandler) Create(w http.ResponseWriter, r *http.Request) {
	claims := callerClaims(w, r)
	if claims == nil {
		return
	}

	var req CreateTaskRequest
	if err := decodeBody(r, &req); err != nil {
		writeError(w, h.logger, err)
		return
	}

	task, err := h.taskService.Create(r.Context(), claims.TenantID, claims.UserID, req.ProjectID, req.Title, req.Description, req.AssignedTo)
	if err != nil {
		metrics.ObserveEntityOperation("task", "create", "error")
		writeError(w, h.logger, err)
		return
	}

	metrics.ObserveEntityOperation("task", "create", "ok")
	h.audit.LogAction(r.Context(), claims.TenantID, claims.UserID, "create", "task", task.ID, "created")

	writeSuccess(w, http.StatusCreated, "Task created", task)
}

// List handles GET /api/v1/tasks
func (h *TaskHandler) List(w http.ResponseWriter, r *http.Request) {
	claims := callerClaims(w, r)
	if claims == nil {
		return
	}

	tasks, err := h.taskService.List(r.Context(), claims.TenantID, domain.TaskFilter{})
	if err != nil {
		writeError(w, h.logger, err)
		return
	}
	if tasks == nil {
		tasks = []*domain.Task{}
	}

	writeSuccess(w, http.StatusOK, "Tasks retrieved", tasks)
}

// ListByProject handles GET /api/v1/projects/{project_id}/tasks
func (h *TaskHandler) ListByProject(w http.ResponseWriter, r *http.Request) {
	claims := callerClaims(w, r)
	if claims == nil {
		return
	}

	projectID, err := parsePathID(r, "project_id")
	if err != nil {
		writeError(w, h.logger, err)
		return
	}

	tasks, err := h.taskService.List(r.Context(), claims.TenantID, domain.TaskFilter{ProjectID: &projectID})
	if err != nil {
		writeError(w, h.logger, err)
		return
	}
	if tasks == nil {
		tasks = []*domain.Task{}
	}

	writeSuccess(w, http.StatusOK, "Tasks retrieved", tasks)
}

// Update handles PUT /api/v1/tasks/{id}
func (h *TaskHandler) Update(w http.ResponseWriter, r *http.Request) {
	claims := callerClaims(w, r)
	if claims == nil {
		return
	}

	id, err := parsePathID(r, "id")
	if err != nil {
		writeError(w, h.logger, err)
		return
	}

	var req UpdateTaskRequest
	if err := decodeBody(r, &req); err != nil {
		writeError(w, h.logger, err)
		return
	}

	patch := domain.TaskPatch{
		Title:       req.Title,
		Description: req.Description,
		Status:      req.Status,
		AssignedTo:  req.AssignedTo,
	}

	task, err := h.taskService.Update(r.Context(), id, claims.TenantID, patch)
	if err != nil {
		metrics.ObserveEntityOperation("task", "update", "error")
		writeError(w, h.logger, err)
		return
	}

	metrics.ObserveEntityOperation("task", "update", "ok")
	h.audit.LogAction(r.Context(), claims.TenantID, claims.UserID, "update", "task", task.ID, "updated")

	writeSuccess(w, http.StatusOK, "Task updated", task)
}

// Delete handles DELETE /api/v1/tasks/{id}
func (h *TaskHandler) Delete(w http.ResponseWriter, r *http.Request) {
	claims := callerClaims(w, r)
	if claims == nil {
		return
	}

	id, err := parsePathID(r, "id")
	if err != nil {
		writeError(w, h.logger, err)
		return
	}

	if err := h.taskService.Delete(r.Context(), id, claims.TenantID); err != nil {
		metrics.ObserveEntityOperation("task", "delete", "error")
		writeError(w, h.logger, err)
		return
	}

	metrics.ObserveEntityOperation("task", "delete", "ok")
	h.audit.LogAction(r.Context(), claims.TenantID, claims.UserID, "delete", "task", id, "deleted")

	writeSuccess(w, http.StatusOK, "Task deleted", nil)
}
