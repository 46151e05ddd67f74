package auth

import (
	"fmt"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"

	domainerrors "github.com/saasbase/projecthub/internal/domain/errors"
)

// Claims carries the authenticated identity. TenantID is the isolation
// key: every repository call downstream filters by it.
type Claims struct {
	UserID   int64  `json:"user_id"`
	TenantID string `json:"tenant_id"`
	jwt.RegisteredClaims
}

// TokenManager signs and verifies bearer tokens with a shared HMAC secret.
// Verification is a pure function of the secret; no store lookup and no
// revocation list exist.
type TokenManager struct {
	secret []byte
	issuer string
	ttl    time.Duration // 0 disables expiry
}

// NewTokenManager creates a token manager. A ttl of 0 issues tokens
// without an expiry claim.
func NewTokenManager(secret, issuer string, ttl time.Duration) *TokenManager {
	if issuer == "" {
		issuer = "projecthub"
	}
	return &TokenManager{secret: []byte(secret), issuer: issuer, ttl: ttl}
}

// GenerateToken issues a signed token embedding the user and tenant ids.
func (tm *TokenManager) GenerateToken(userID int64, tenantID string) (string, error) {
	if tenantID == "" {
		return "", fmt.Errorf("tenant_id required")
	}

	now := time.Now()
	claims := Claims{
		UserID:   userID,
		TenantID: tenantID,
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt: jwt.NewNumericDate(now),
			Issuer:   tm.issuer,
		},
	}
	if tm.ttl > 0 {
		claims.ExpiresAt = jwt.NewNumericDate(now.Add(tm.ttl))
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(tm.secret)
}

// VerifyToken parses and verifies a token string. Any failure (bad
// signature, malformed input, wrong algorithm, expired) maps to
// ErrInvalidToken so callers cannot distinguish tamper modes.
func (tm *TokenManager) VerifyToken(tokenString string) (*Claims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return tm.secret, nil
	})
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domainerrors.ErrInvalidToken, err)
	}

	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid || claims.TenantID == "" {
		return nil, domainerrors.ErrInvalidToken
	}
	return claims, nil
}

// ExtractToken pulls the token out of an Authorization header value.
func ExtractToken(authHeader string) (string, error) {
	parts := strings.Split(authHeader, " ")
	if len(parts) != 2 || parts[0] != "Bearer" {
		return "", fmt.Errorf("invalid authorization header")
	}
	return parts[1], nil
}
