package domain

import (
	"context"
	"time"
)

// TeamMember is a tenant-scoped directory entry. Membership grants no
// permissions beyond belonging to the tenant.
type TeamMember struct {
	ID        int64     `json:"id"`
	Email     string    `json:"email"`
	Role      string    `json:"role"`
	TenantID  string    `json:"tenant_id"`
	CreatedBy int64     `json:"created_by"`
	CreatedAt time.Time `json:"created_at"`
}

// TeamMemberPatch carries optionally-present fields for a partial update.
type TeamMemberPatch struct {
	Role *string
}

func (p TeamMemberPatch) IsEmpty() bool {
	return p.Role == nil
}

// TeamMemberRepository defines tenant-scoped data access for team members.
type TeamMemberRepository interface {
	Create(ctx context.Context, member *TeamMember) error
	List(ctx context.Context, tenantID string) ([]*TeamMember, error)
	GetByID(ctx context.Context, id int64, tenantID string) (*TeamMember, error)
	Update(ctx context.Context, id int64, tenantID string, patch TeamMemberPatch) (*TeamMember, error)
	Delete(ctx context.Context, id int64, tenantID string) error
}
