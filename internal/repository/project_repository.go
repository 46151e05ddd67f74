package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/saasbase/projecthub/internal/domain"
	domainerrors "github.com/saasbase/projecthub/internal/domain/errors"
)

// PostgresProjectRepository implements domain.ProjectRepository using PostgreSQL
type PostgresProjectRepository struct {
	db     *sql.DB
	logger *slog.Logger
}

// NewPostgresProjectRepository creates a new project repository
func NewPostgresProjectRepository(db *sql.DB, logger *slog.Logger) *PostgresProjectRepository {
	if logger == nil {
		logger = slog.Default()
	}
	return &PostgresProjectRepository{db: db, logger: logger}
}

// Create inserts a new project. TenantID and CreatedBy must already be
// stamped from the authenticated context.
func (r *PostgresProjectRepository) Create(ctx context.Context, project *domain.Project) error {
	query := `
		INSERT INTO projects (name, description, status, tenant_id, created_by)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id, created_at
	`

	err := r.db.QueryRowContext(ctx, query,
		project.Name,
		project.Description,
		project.Status,
		project.TenantID,
		project.CreatedBy,
	).Scan(&project.ID, &project.CreatedAt)

	if err != nil {
		r.logger.Error("failed to create project",
			slog.String("tenant_id", project.TenantID),
			slog.String("error", err.Error()),
		)
		return fmt.Errorf("failed to create project: %w", err)
	}

	return nil
}

// List returns all projects of a tenant in insertion order.
func (r *PostgresProjectRepository) List(ctx context.Context, tenantID string) ([]*domain.Project, error) {
	query := `
		SELECT id, name, description, status, tenant_id, created_by, created_at
		FROM projects
		WHERE tenant_id = $1
		ORDER BY id
	`

	rows, err := r.db.QueryContext(ctx, query, tenantID)
	if err != nil {
		r.logger.Error("failed to list projects",
			slog.String("tenant_id", tenantID),
			slog.String("error", err.Error()),
		)
		return nil, fmt.Errorf("failed to list projects: %w", err)
	}
	defer rows.Close()

	var projects []*domain.Project
	for rows.Next() {
		p := &domain.Project{}
		if err := rows.Scan(&p.ID, &p.Name, &p.Description, &p.Status, &p.TenantID, &p.CreatedBy, &p.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan project: %w", err)
		}
		projects = append(projects, p)
	}
	return projects, rows.Err()
}

// GetByID retrieves a project by primary key and tenant jointly.
func (r *PostgresProjectRepository) GetByID(ctx context.Context, id int64, tenantID string) (*domain.Project, error) {
	p := &domain.Project{}

	query := `
		SELECT id, name, description, status, tenant_id, created_by, created_at
		FROM projects
		WHERE id = $1 AND tenant_id = $2
	`

	err := r.db.QueryRowContext(ctx, query, id, tenantID).Scan(
		&p.ID, &p.Name, &p.Description, &p.Status, &p.TenantID, &p.CreatedBy, &p.CreatedAt,
	)

	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domainerrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to get project: %w", err)
	}

	return p, nil
}

// Update applies the present fields of the patch under the dual predicate.
func (r *PostgresProjectRepository) Update(ctx context.Context, id int64, tenantID string, patch domain.ProjectPatch) (*domain.Project, error) {
	if patch.IsEmpty() {
		return r.GetByID(ctx, id, tenantID)
	}

	set := make([]string, 0, 3)
	args := make([]interface{}, 0, 5)

	if patch.Name != nil {
		args = append(args, *patch.Name)
		set = append(set, fmt.Sprintf("name = $%d", len(args)))
	}
	if patch.Description != nil {
		args = append(args, *patch.Description)
		set = append(set, fmt.Sprintf("description = $%d", len(args)))
	}
	if patch.Status != nil {
		args = append(args, *patch.Status)
		set = append(set, fmt.Sprintf("status = $%d", len(args)))
	}

	args = append(args, id, tenantID)
	query := fmt.Sprintf(`
		UPDATE projects
		SET %s
		WHERE id = $%d AND tenant_id = $%d
		RETURNING id, name, description, status, tenant_id, created_by, created_at
	`, strings.Join(set, ", "), len(args)-1, len(args))

	p := &domain.Project{}
	err := r.db.QueryRowContext(ctx, query, args...).Scan(
		&p.ID, &p.Name, &p.Description, &p.Status, &p.TenantID, &p.CreatedBy, &p.CreatedAt,
	)

	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domainerrors.ErrNotFound
		}
		r.logger.Error("failed to update project",
			slog.Int64("id", id),
			slog.String("error", err.Error()),
		)
		return nil, fmt.Errorf("failed to update project: %w", err)
	}

	return p, nil
}

// Delete removes a project. Deleting a missing or foreign-tenant id
// reports not found rather than silently succeeding.
func (r *PostgresProjectRepository) Delete(ctx context.Context, id int64, tenantID string) error {
	query := `
		DELETE FROM projects WHERE id = $1 AND tenant_id = $2
	`

	result, err := r.db.ExecContext(ctx, query, id, tenantID)
	if err != nil {
		return fmt.Errorf("failed to delete project: %w", err)
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
