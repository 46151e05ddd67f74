package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"

	"github.com/saasbase/projecthub/internal/domain"
	domainerrors "github.com/saasbase/projecthub/internal/domain/errors"
)

// PostgresTeamMemberRepository implements domain.TeamMemberRepository using PostgreSQL
type PostgresTeamMemberRepository struct {
	db     *sql.DB
	logger *slog.Logger
}

// NewPostgresTeamMemberRepository creates a new team member repository
func NewPostgresTeamMemberRepository(db *sql.DB, logger *slog.Logger) *PostgresTeamMemberRepository {
	if logger == nil {
		logger = slog.Default()
	}
	return &PostgresTeamMemberRepository{db: db, logger: logger}
}

// Create inserts a new team member.
func (r *PostgresTeamMemberRepository) Create(ctx context.Context, member *domain.TeamMember) error {
	query := `
		INSERT INTO team_members (email, role, tenant_id, created_by)
		VALUES ($1, $2, $3, $4)
		RETURNING id, created_at
	`

	err := r.db.QueryRowContext(ctx, query,
		member.Email,
		member.Role,
		member.TenantID,
		member.CreatedBy,
	).Scan(&member.ID, &member.CreatedAt)

	if err != nil {
		r.logger.Error("failed to create team member",
			slog.String("tenant_id", member.TenantID),
			slog.String("error", err.Error()),
		)
		return fmt.Errorf("failed to create team member: %w", err)
	}

	return nil
}

// List returns all team members of a tenant in insertion order.
func (r *PostgresTeamMemberRepository) List(ctx context.Context, tenantID string) ([]*domain.TeamMember, error) {
	query := `
		SELECT id, email, role, tenant_id, created_by, created_at
		FROM team_members
		WHERE tenant_id = $1
		ORDER BY id
	`

	rows, err := r.db.QueryContext(ctx, query, tenantID)
	if err != nil {
		r.logger.Error("failed to list team members",
			slog.String("tenant_id", tenantID),
			slog.String("error", err.Error()),
		)
		return nil, fmt.Errorf("failed to list team members: %w", err)
	}
	defer rows.Close()

	var members []*domain.TeamMember
	for rows.Next() {
		m := &domain.TeamMember{}
		if err := rows.Scan(&m.ID, &m.Email, &m.Role, &m.TenantID, &m.CreatedBy, &m.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan team member: %w", err)
		}
		members = append(members, m)
	}
	return members, rows.Err()
}

// GetByID retrieves a team member by primary key and tenant jointly.
func (r *PostgresTeamMemberRepository) GetByID(ctx context.Context, id int64, tenantID string) (*domain.TeamMember, error) {
	m := &domain.TeamMember{}

	query := `
		SELECT id, email, role, tenant_id, created_by, created_at
		FROM team_members
		WHERE id = $1 AND tenant_id = $2
	`

	err := r.db.QueryRowContext(ctx, query, id, tenantID).Scan(
		&m.ID, &m.Email, &m.Role, &m.TenantID, &m.CreatedBy, &m.CreatedAt,
	)

	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domainerrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to get team member: %w", err)
	}

	return m, nil
}

// Update applies the present fields of the patch under the dual predicate.
func (r *PostgresTeamMemberRepository) Update(ctx context.Context, id int64, tenantID string, patch domain.TeamMemberPatch) (*domain.TeamMember, error) {
	if patch.IsEmpty() {
		return r.GetByID(ctx, id, tenantID)
	}

	query := `
		UPDATE team_members
		SET role = $1
		WHERE id = $2 AND tenant_id = $3
		RETURNING id, email, role, tenant_id, created_by, created_at
	`

	m := &domain.TeamMember{}
	err := r.db.QueryRowContext(ctx, query, *patch.Role, id, tenantID).Scan(
		&m.ID, &m.Email, &m.Role, &m.TenantID, &m.CreatedBy, &m.CreatedAt,
	)

	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domainerrors.ErrNotFound
		}
		r.logger.Error("failed to update team member",
			slog.Int64("id", id),
			slog.String("error", err.Error()),
		)
		return nil, fmt.Errorf("failed to update team member: %w", err)
	}

	return m, nil
}

// Delete removes a team member under the dual predicate.
func (r *PostgresTeamMemberRepository) Delete(ctx context.Context, id int64, tenantID string) error {
	query := `
		DELETE FROM team_members WHERE id = $1 AND tenant_id = $2
	`

	result, err := r.db.ExecContext(ctx, query, id, tenantID)
	if err != nil {
		return fmt.Errorf("failed to delete team member: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to check rows affected: %w", err)
	}
	if rows == 0 {
		return domainerrors.ErrNotFound
	}

	return nil
}
