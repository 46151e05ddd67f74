package domain

import (
	"context"
	"time"
)

// User represents an account holder. Every user belongs to exactly one
// tenant; TenantID is assigned at registration and never changes.
type User struct {
	ID           int64     `json:"id"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"` // bcrypt digest, never serialized
	CompanyName  string    `json:"company_name"`
	Phone        string    `json:"phone,omitempty"`
	TenantID     string    `json:"tenant_id"`
	CreatedAt    time.Time `json:"created_at"`
}

// UserPatch carries the optionally-present fields of a user update.
// A nil field means "leave unchanged".
type UserPatch struct {
	CompanyName *string
	Phone       *string
}

// IsEmpty reports whether the patch carries no changes.
func (p UserPatch) IsEmpty() bool {
	return p.CompanyName == nil && p.Phone == nil
}

// UserRepository defines data access for users. Lookups that take a
// tenantID must treat a row under a different tenant exactly like a
// missing row.
type UserRepository interface {
	Create(ctx context.Context, user *User) error
	GetByEmail(ctx context.Context, email string) (*User, error)
	GetByID(ctx context.Context, id int64, tenantID string) (*User, error)
	Update(ctx context.Context, id int64, tenantID string, patch UserPatch) (*User, error)
}
