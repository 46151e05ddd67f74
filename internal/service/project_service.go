package service

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/saasbase/projecthub/internal/domain"
	domainerrors "github.com/saasbase/projecthub/internal/domain/errors"
	"github.com/saasbase/projecthub/internal/infrastructure/redis"
)

// ProjectService implements tenant-scoped project operations. Reads go
// through the optional cache; every mutation invalidates the affected key.
type ProjectService struct {
	repo   domain.ProjectRepository
	cache  *redis.Cache
	logger *slog.Logger
}

// NewProjectService creates a new project service. cache may be nil.
func NewProjectService(repo domain.ProjectRepository, cache *redis.Cache, logger *slog.Logger) *ProjectService {
	if logger == nil {
		logger = slog.Default()
	}
	return &ProjectService{repo: repo, cache: cache, logger: logger}
}

// Create stamps tenant and creator from the authenticated context, never
// from client input.
func (s *ProjectService) Create(ctx context.Context, tenantID string, creatorID int64, name, description string) (*domain.Project, error) {
	if name == "" {
		return nil, fmt.Errorf("%w: name is required", domainerrors.ErrValidation)
	}

	project := &domain.Project{
		Name:        name,
		Description: description,
		Status:      domain.ProjectStatusActive,
		TenantID:    tenantID,
		CreatedBy:   creatorID,
	}
	if err := s.repo.Create(ctx, project); err != nil {
		return nil, err
	}
	return project, nil
}

// List returns the tenant's projects.
func (s *ProjectService) List(ctx context.Context, tenantID string) ([]*domain.Project, error) {
	return s.repo.List(ctx, tenantID)
}

// Get returns one project of the tenant, serving from cache when possible.
func (s *ProjectService) Get(ctx context.Context, id int64, tenantID string) (*domain.Project, error) {
	key := projectCacheKey(id, tenantID)

	var cached domain.Project
	if s.cache.GetJSON(ctx, key, &cached) {
		return &cached, nil
	}

	project, err := s.repo.GetByID(ctx, id, tenantID)
	if err != nil {
		return nil, err
	}
	s.cache.SetJSON(ctx, key, project)
	return project, nil
}

// Update applies a partial update and invalidates the cache entry.
func (s *ProjectService) Update(ctx context.Context, id int64, tenantID string, patch domain.ProjectPatch) (*domain.Project, error) {
	project, err := s.repo.Update(ctx, id, tenantID, patch)
	if err != nil {
		return nil, err
	}
	s.cache.Invalidate(ctx, projectCacheKey(id, tenantID))
	return project, nil
}

// Delete removes a project and invalidates the cache entry.
func (s *ProjectService) Delete(ctx context.Context, id int64, tenantID string) error {
	if err := s.repo.Delete(ctx, id, tenantID); err != nil {
		return err
	}
	s.cache.Invalidate(ctx, projectCacheKey(id, tenantID))
	return nil
}

// projectCacheKey embeds the tenant id so cached rows cannot cross tenants.
func projectCacheKey(id int64, tenantID string) string {
	return fmt.Sprintf("project:%s:%d", tenantID, id)
}
