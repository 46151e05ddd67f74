package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/lib/pq"

	"github.com/saasbase/projecthub/internal/domain"
	domainerrors "github.com/saasbase/projecthub/internal/domain/errors"
)

const pqUniqueViolation = "23505"

// PostgresUserRepository implements domain.UserRepository using PostgreSQL
type PostgresUserRepository struct {
	db     *sql.DB
	logger *slog.Logger
}

// NewPostgresUserRepository creates a new user repository
func NewPostgresUserRepository(db *sql.DB, logger *slog.Logger) *PostgresUserRepository {
	if logger == nil {
		logger = slog.Default()
	}
	return &PostgresUserRepository{db: db, logger: logger}
}

// Create inserts a new user. The unique email constraint is surfaced as
// ErrEmailTaken.
func (r *PostgresUserRepository) Create(ctx context.Context, user *domain.User) error {
	query := `
		INSERT INTO users (email, password_hash, company_name, phone, tenant_id)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id, created_at
	`

	err := r.db.QueryRowContext(ctx, query,
		user.Email,
		user.PasswordHash,
		user.CompanyName,
		user.Phone,
		user.TenantID,
	).Scan(&user.ID, &user.CreatedAt)

	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && string(pqErr.Code) == pqUniqueViolation {
			return domainerrors.ErrEmailTaken
		}
		r.logger.Error("failed to create user",
			slog.String("email", user.Email),
			slog.String("error", err.Error()),
		)
		return fmt.Errorf("failed to create user: %w", err)
	}

	return nil
}

// GetByEmail retrieves a user by email. This is the only lookup not scoped
// by tenant; it exists for login, before any tenant is known.
func (r *PostgresUserRepository) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	user := &domain.User{}

	query := `
		SELECT id, email, password_hash, company_name, phone, tenant_id, created_at
		FROM users
		WHERE email = $1
	`

	err := r.db.QueryRowContext(ctx, query, email).Scan(
		&user.ID,
		&user.Email,
		&user.PasswordHash,
		&user.CompanyName,
		&user.Phone,
		&user.TenantID,
		&user.CreatedAt,
	)

	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domainerrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to get user by email: %w", err)
	}

	return user, nil
}

// GetByID retrieves a user by id within a tenant. A user under a different
// tenant behaves exactly like a missing row.
func (r *PostgresUserRepository) GetByID(ctx context.Context, id int64, tenantID string) (*domain.User, error) {
	user := &domain.User{}

	query := `
		SELECT id, email, password_hash, company_name, phone, tenant_id, created_at
		FROM users
		WHERE id = $1 AND tenant_id = $2
	`

	err := r.db.QueryRowContext(ctx, query, id, tenantID).Scan(
		&user.ID,
		&user.Email,
		&user.PasswordHash,
		&user.CompanyName,
		&user.Phone,
		&user.TenantID,
		&user.CreatedAt,
	)

	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domainerrors.ErrNotFound
		}
		r.logger.Error("failed to get user by id",
			slog.Int64("id", id),
			slog.String("error", err.Error()),
		)
		return nil, fmt.Errorf("failed to get user: %w", err)
	}

	return user, nil
}

// Update applies the present fields of the patch. Absent fields keep their
// stored values; the SET list is built only from supplied fields.
func (r *PostgresUserRepository) Update(ctx context.Context, id int64, tenantID string, patch domain.UserPatch) (*domain.User, error) {
	if patch.IsEmpty() {
		return r.GetByID(ctx, id, tenantID)
	}

	set := make([]string, 0, 2)
	args := make([]interface{}, 0, 4)

	if patch.CompanyName != nil {
		args = append(args, *patch.CompanyName)
		set = append(set, fmt.Sprintf("company_name = $%d", len(args)))
	}
	if patch.Phone != nil {
		args = append(args, *patch.Phone)
		set = append(set, fmt.Sprintf("phone = $%d", len(args)))
	}

	args = append(args, id, tenantID)
	query := fmt.Sprintf(`
		UPDATE users
		SET %s
		WHERE id = $%d AND tenant_id = $%d
		RETURNING id, email, password_hash, company_name, phone, tenant_id, created_at
	`, strings.Join(set, ", "), len(args)-1, len(args))

	user := &domain.User{}
	err := r.db.QueryRowContext(ctx, query, args...).Scan(
		&user.ID,
		&user.Email,
		&user.PasswordHash,
		&user.CompanyName,
		&user.Phone,
		&user.TenantID,
		&user.CreatedAt,
	)

	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domainerrors.ErrNotFound
		}
		r.logger.Error("failed to update user",
			slog.Int64("id", id),
			slog.String("error", err.Error()),
		)
		return nil, fmt.Errorf("failed to update user: %w", err)
	}

	return user, nil
}
