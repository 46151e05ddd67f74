package service

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/saasbase/projecthub/internal/domain"
	domainerrors "github.com/saasbase/projecthub/internal/domain/errors"
)

// TeamService implements tenant-scoped team member operations.
type TeamService struct {
	repo   domain.TeamMemberRepository
	logger *slog.Logger
}

// NewTeamService creates a new team service
func NewTeamService(repo domain.TeamMemberRepository, logger *slog.Logger) *TeamService {
	if logger == nil {
		logger = slog.Default()
	}
	return &TeamService{repo: repo, logger: logger}
}

// Create stamps tenant and creator from the authenticated context.
func (s *TeamService) Create(ctx context.Context, tenantID string, creatorID int64, email, role string) (*domain.TeamMember, error) {
	if email == "" || role == "" {
		return nil, fmt.Errorf("%w: email and role are required", domainerrors.ErrValidation)
	}

	member := &domain.TeamMember{
		Email:     email,
		Role:      role,
		TenantID:  tenantID,
		CreatedBy: creatorID,
	}
	if err := s.repo.Create(ctx, member); err != nil {
		return nil, err
	}
	return member, nil
}

// List returns the tenant's team members.
func (s *TeamService) List(ctx context.Context, tenantID string) ([]*domain.TeamMember, error) {
	return s.repo.List(ctx, tenantID)
}

// Get returns one team member of the tenant.
func (s *TeamService) Get(ctx context.Context, id int64, tenantID string) (*domain.TeamMember, error) {
	return s.repo.GetByID(ctx, id, tenantID)
}

// Update applies a partial update.
func (s *TeamService) Update(ctx context.Context, id int64, tenantID string, patch domain.TeamMemberPatch) (*domain.TeamMember, error) {
	return s.repo.Update(ctx, id, tenantID, patch)
}

// Delete removes a team member.
func (s *TeamService) Delete(ctx context.Context, id int64, tenantID string) error {
	return s.repo.Delete(ctx, id, tenantID)
}
