package service

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/saasbase/projecthub/internal/domain"
	domainerrors "github.com/saasbase/projecthub/internal/domain/errors"
	"github.com/saasbase/projecthub/internal/security/auth"
)

// AuthService registers users, verifies credentials and issues bearer
// tokens carrying {user_id, tenant_id}.
type AuthService struct {
	userRepo domain.UserRepository
	tokens   *auth.TokenManager
	logger   *slog.Logger
}

// NewAuthService creates a new authentication service
func NewAuthService(userRepo domain.UserRepository, tokens *auth.TokenManager, logger *slog.Logger) *AuthService {
	if logger == nil {
		logger = slog.Default()
	}
	return &AuthService{
		userRepo: userRepo,
		tokens:   tokens,
		logger:   logger,
	}
}

// Register creates a new account under a freshly generated tenant. The
// tenant id is a UUID, so concurrent registrations cannot collide. The raw
// password is hashed before persisting and never stored or logged.
func (s *AuthService) Register(ctx context.Context, email, password, companyName, phone string) (*domain.User, error) {
	if email == "" || password == "" {
		return nil, fmt.Errorf("%w: email and password are required", domainerrors.ErrValidation)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		s.logger.Error("failed to hash password", slog.String("error", err.Error()))
		return nil, fmt.Errorf("failed to register user: %w", err)
	}

	user := &domain.User{
		Email:        email,
		PasswordHash: string(hash),
		CompanyName:  companyName,
		Phone:        phone,
		TenantID:     uuid.NewString(),
	}

	if err := s.userRepo.Create(ctx, user); err != nil {
		return nil, err
	}

	s.logger.Info("user registered",
		slog.Int64("user_id", user.ID),
		slog.String("tenant_id", user.TenantID),
	)

	return user, nil
}

// Login authenticates a user and issues a token. Unknown email and wrong
// password both surface as ErrInvalidCredentials so login responses do
// not reveal which part failed.
func (s *AuthService) Login(ctx context.Context, email, password string) (string, *domain.User, error) {
	if email == "" || password == "" {
		return "", nil, fmt.Errorf("%w: email and password are required", domainerrors.ErrValidation)
	}

	user, err := s.userRepo.GetByEmail(ctx, email)
	if err != nil {
		s.logger.Info("login attempt with unknown email")
		return "", nil, domainerrors.ErrInvalidCredentials
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		s.logger.Info("login failed with wrong password", slog.Int64("user_id", user.ID))
		return "", nil, domainerrors.ErrInvalidCredentials
	}

	token, err := s.tokens.GenerateToken(user.ID, user.TenantID)
	if err != nil {
		s.logger.Error("failed to sign token", slog.String("error", err.Error()))
		return "", nil, fmt.Errorf("failed to generate token: %w", err)
	}

	s.logger.Info("user logged in",
		slog.Int64("user_id", user.ID),
		slog.String("tenant_id", user.TenantID),
	)

	return token, user, nil
}

// VerifyToken resolves a token string into the identity it carries. It is
// a pure function of the signing secret; no store lookup happens.
func (s *AuthService) VerifyToken(tokenString string) (*auth.Claims, error) {
	return s.tokens.VerifyToken(tokenString)
}
