package domain

import (
	"context"
	"time"
)

// ProjectStatusActive is the status assigned to newly created projects.
const ProjectStatusActive = "active"

// Project is a tenant-scoped resource. TenantID and CreatedBy are stamped
// from the authenticated context at creation, never from client input.
type Project struct {
	ID          int64     `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
	Status      string    `json:"status"`
	TenantID    string    `json:"tenant_id"`
	CreatedBy   int64     `json:"created_by"`
	CreatedAt   time.Time `json:"created_at"`
}

// ProjectPatch carries optionally-present fields for a partial update.
type ProjectPatch struct {
	Name        *string
	Description *string
	Status      *string
}

func (p ProjectPatch) IsEmpty() bool {
	return p.Name == nil && p.Description == nil && p.Status == nil
}

// ProjectRepository defines tenant-scoped data access for projects.
// Every operation filters by tenant; a project under another tenant is
// indistinguishable from one that does not exist.
type ProjectRepository interface {
	Create(ctx context.Context, project *Project) error
	List(ctx context.Context, tenantID string) ([]*Project, error)
	GetByID(ctx context.Context, id int64, tenantID string) (*Project, error)
	Update(ctx context.Context, id int64, tenantID string, patch ProjectPatch) (*Project, error)
	Delete(ctx context.Context, id int64, tenantID string) error
}
