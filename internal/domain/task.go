package domain

import (
	"context"
	"time"
)

// TaskStatusTodo is the status assigned to newly created tasks.
const TaskStatusTodo = "todo"

// Task is a tenant-scoped resource tied to a project by id. The project
// reference is not verified against the projects table; a task may point
// at a project id that never existed (deliberate simplification).
type Task struct {
	ID          int64     `json:"id"`
	ProjectID   int64     `json:"project_id"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	Status      string    `json:"status"`
	AssignedTo  *int64    `json:"assigned_to"`
	TenantID    string    `json:"tenant_id"`
	CreatedBy   int64     `json:"created_by"`
	CreatedAt   time.Time `json:"created_at"`
}

// TaskPatch carries optionally-present fields for a partial update.
type TaskPatch struct {
	Title       *string
	Description *string
	Status      *string
	AssignedTo  *int64
}

func (p TaskPatch) IsEmpty() bool {
	return p.Title == nil && p.Description == nil && p.Status == nil && p.AssignedTo == nil
}

// TaskFilter narrows List results. A nil ProjectID means all tasks of the
// tenant.
type TaskFilter struct {
	ProjectID *int64
}

// TaskRepository defines tenant-scoped data access for tasks.
type TaskRepository interface {
	Create(ctx context.Context, task *Task) error
	List(ctx context.Context, tenantID string, filter TaskFilter) ([]*Task, error)
	GetByID(ctx context.Context, id int64, tenantID string) (*Task, error)
	Update(ctx context.Context, id int64, tenantID string, patch TaskPatch) (*Task, error)
	Delete(ctx context.Context, id int64, tenantID string) error
}
