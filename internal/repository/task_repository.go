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

// PostgresTaskRepository implements domain.TaskRepository using PostgreSQL
type PostgresTaskRepository struct {
	db     *sql.DB
	logger *slog.Logger
}

// NewPostgresTaskRepository creates a new task repository
func NewPostgresTaskRepository(db *sql.DB, logger *slog.Logger) *PostgresTaskRepository {
	if logger == nil {
		logger = slog.Default()
	}
	return &PostgresTaskRepository{db: db, logger: logger}
}

// Create inserts a new task. The project reference is stored as given;
// no check ties it to an existing project.
func (r *PostgresTaskRepository) Create(ctx context.Context, task *domain.Task) error {
	query := `
		INSERT INTO tasks (project_id, title, description, status, assigned_to, tenant_id, created_by)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING id, created_at
	`

	err := r.db.QueryRowContext(ctx, query,
		task.ProjectID,
		task.Title,
		task.Description,
		task.Status,
		nullableInt64(task.AssignedTo),
		task.TenantID,
		task.CreatedBy,
	).Scan(&task.ID, &task.CreatedAt)

	if err != nil {
		r.logger.Error("failed to create task",
			slog.String("tenant_id", task.TenantID),
			slog.String("error", err.Error()),
		)
		return fmt.Errorf("failed to create task: %w", err)
	}

	return nil
}

// List returns the tasks of a tenant, optionally narrowed to one project.
func (r *PostgresTaskRepository) List(ctx context.Context, tenantID string, filter domain.TaskFilter) ([]*domain.Task, error) {
	query := `
		SELECT id, project_id, title, description, status, assigned_to, tenant_id, created_by, created_at
		FROM tasks
		WHERE tenant_id = $1
	`
	args := []interface{}{tenantID}

	if filter.ProjectID != nil {
		args = append(args, *filter.ProjectID)
		query += fmt.Sprintf(" AND project_id = $%d", len(args))
	}
	query += " ORDER BY id"

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		r.logger.Error("failed to list tasks",
			slog.String("tenant_id", tenantID),
			slog.String("error", err.Error()),
		)
		return nil, fmt.Errorf("failed to list tasks: %w", err)
	}
	defer rows.Close()

	var tasks []*domain.Task
	for rows.Next() {
		t, err := scanTask(rows)
		if err != nil {
			return nil, err
		}
		tasks = append(tasks, t)
	}
	return tasks, rows.Err()
}

// GetByID retrieves a task by primary key and tenant jointly.
func (r *PostgresTaskRepository) GetByID(ctx context.Context, id int64, tenantID string) (*domain.Task, error) {
	query := `
		SELECT id, project_id, title, description, status, assigned_to, tenant_id, created_by, created_at
		FROM tasks
		WHERE id = $1 AND tenant_id = $2
	`

	t, err := scanTask(r.db.QueryRowContext(ctx, query, id, tenantID))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domainerrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to get task: %w", err)
	}

	return t, nil
}

// Update applies the present fields of the patch under the dual predicate.
func (r *PostgresTaskRepository) Update(ctx context.Context, id int64, tenantID string, patch domain.TaskPatch) (*domain.Task, error) {
	if patch.IsEmpty() {
		return r.GetByID(ctx, id, tenantID)
	}

	set := make([]string, 0, 4)
	args := make([]interface{}, 0, 6)

	if patch.Title != nil {
		args = append(args, *patch.Title)
		set = append(set, fmt.Sprintf("title = $%d", len(args)))
	}
	if patch.Description != nil {
		args = append(args, *patch.Description)
		set = append(set, fmt.Sprintf("description = $%d", len(args)))
	}
	if patch.Status != nil {
		args = append(args, *patch.Status)
		set = append(set, fmt.Sprintf("status = $%d", len(args)))
	}
	if patch.AssignedTo != nil {
		args = append(args, *patch.AssignedTo)
		set = append(set, fmt.Sprintf("assigned_to = $%d", len(args)))
	}

	args = append(args, id, tenantID)
	query := fmt.Sprintf(`
		UPDATE tasks
		SET %s
		WHERE id = $%d AND tenant_id = $%d
		RETURNING id, project_id, title, description, status, assigned_to, tenant_id, created_by, created_at
	`, strings.Join(set, ", "), len(args)-1, len(args))

	t, err := scanTask(r.db.QueryRowContext(ctx, query, args...))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domainerrors.ErrNotFound
		}
		r.logger.Error("failed to update task",
			slog.Int64("id", id),
			slog.String("error", err.Error()),
		)
		return nil, fmt.Errorf("failed to update task: %w", err)
	}

	return t, nil
}

// Delete removes a task under the dual predicate.
func (r *PostgresTaskRepository) Delete(ctx context.Context, id int64, tenantID string) error {
	query := `
		DELETE FROM tasks WHERE id = $1 AND tenant_id = $2
	`

	result, err := r.db.ExecContext(ctx, query, id, tenantID)
	if err != nil {
		return fmt.Errorf("failed to delete task: %w", err)
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

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanTask(row rowScanner) (*domain.Task, error) {
	t := &domain.Task{}
	var assignedTo sql.NullInt64

	err := row.Scan(
		&t.ID, &t.ProjectID, &t.Title, &t.Description, &t.Status,
		&assignedTo, &t.TenantID, &t.CreatedBy, &t.CreatedAt,
	)
	if err != nil {
		return nil, err
	}

	if assignedTo.Valid {
		t.AssignedTo = &assignedTo.Int64
	}
	return t, nil
}

func nullableInt64(v *int64) sql.NullInt64 {
	if v == nil {
		return sql.NullInt64{}
	}
	return sql.NullInt64{Int64: *v, Valid: true}
}
