package service

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/saasbase/projecthub/internal/domain"
	domainerrors "github.com/saasbase/projecthub/internal/domain/errors"
	"github.com/saasbase/projecthub/internal/infrastructure/redis"
)

// TaskService implements tenant-scoped task operations.
type TaskService struct {
	repo   domain.TaskRepository
	cache  *redis.Cache
	logger *slog.Logger
}

// NewTaskService creates a new task service. cache may be nil.
func NewTaskService(repo domain.TaskRepository, cache *redis.Cache, logger *slog.Logger) *TaskService {
	if logger == nil {
		logger = slog.Default()
	}
	return &TaskService{repo: repo, cache: cache, logger: logger}
}

// Create stamps tenant and creator from the authenticated context. The
// project id is stored as supplied; whether it names a real project of
// the tenant is not checked.
func (s *TaskService) Create(ctx context.Context, tenantID string, creatorID int64, projectID int64, title, description string, assignedTo *int64) (*domain.Task, error) {
	if title == "" || projectID == 0 {
		return nil, fmt.Errorf("%w: project_id and title are required", domainerrors.ErrValidation)
	}

	task := &domain.Task{
		ProjectID:   projectID,
		Title:       title,
		Description: description,
		Status:      domain.TaskStatusTodo,
		AssignedTo:  assignedTo,
		TenantID:    tenantID,
		CreatedBy:   creatorID,
	}
	if err := s.repo.Create(ctx, task); err != nil {
		return nil, err
	}
	return task, nil
}

// List returns the tenant's tasks, optionally narrowed to one project.
func (s *TaskService) List(ctx context.Context, tenantID string, filter domain.TaskFilter) ([]*domain.Task, error) {
	return s.repo.List(ctx, tenantID, filter)
}

// Get returns one task of the tenant, serving from cache when possible.
func (s *TaskService) Get(ctx context.Context, id int64, tenantID string) (*domain.Task, error) {
	key := taskCacheKey(id, tenantID)

	var cached domain.Task
	if s.cache.GetJSON(ctx, key, &cached) {
		return &cached, nil
	}

	task, err := s.repo.GetByID(ctx, id, tenantID)
	if err != nil {
		return nil, err
	}
	s.cache.SetJSON(ctx, key, task)
	return task, nil
}

// Update applies a partial update and invalidates the cache entry.
func (s *TaskService) Update(ctx context.Context, id int64, tenantID string, patch domain.TaskPatch) (*domain.Task, error) {
	task, err := s.repo.Update(ctx, id, tenantID, patch)
	if err != nil {
		return nil, err
	}
	s.cache.Invalidate(ctx, taskCacheKey(id, tenantID))
	return task, nil
}

// Delete removes a task and invalidates the cache entry.
func (s *TaskService) Delete(ctx context.Context, id int64, tenantID string) error {
	if err := s.repo.Delete(ctx, id, tenantID); err != nil {
		return err
	}
	s.cache.Invalidate(ctx, taskCacheKey(id, tenantID))
	return nil
}

func taskCacheKey(id int64, tenantID string) string {
	return fmt.Sprintf("task:%s:%d", tenantID, id)
}
