package service

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/saasbase/projecthub/internal/domain"
	"github.com/saasbase/projecthub/internal/infrastructure/redis"
)

// UserService exposes tenant-scoped profile reads and updates. A user
// record is only visible to callers of the same tenant.
type UserService struct {
	repo   domain.UserRepository
	cache  *redis.Cache
	logger *slog.Logger
}

// NewUserService creates a new user service. cache may be nil.
func NewUserService(repo domain.UserRepository, cache *redis.Cache, logger *slog.Logger) *UserService {
	if logger == nil {
		logger = slog.Default()
	}
	return &UserService{repo: repo, cache: cache, logger: logger}
}

// Get returns one user of the tenant.
func (s *UserService) Get(ctx context.Context, id int64, tenantID string) (*domain.User, error) {
	key := userCacheKey(id, tenantID)

	var cached domain.User
	if s.cache.GetJSON(ctx, key, &cached) {
		return &cached, nil
	}

	user, err := s.repo.GetByID(ctx, id, tenantID)
	if err != nil {
		return nil, err
	}
	s.cache.SetJSON(ctx, key, user)
	return user, nil
}

// Update applies a partial profile update and invalidates the cache entry.
func (s *UserService) Update(ctx context.Context, id int64, tenantID string, patch domain.UserPatch) (*domain.User, error) {
	user, err := s.repo.Update(ctx, id, tenantID, patch)
	if err != nil {
		return nil, err
	}
	s.cache.Invalidate(ctx, userCacheKey(id, tenantID))
	return user, nil
}

func userCacheKey(id int64, tenantID string) string {
	return fmt.Sprintf("user:%s:%d", tenantID, id)
}
