package auth

import (
	"fmt"
	"moviehub/proj/internal/domain/models"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

type tokenClaims struct {
	User *models.Identity `json:"user"`
	jwt.RegisteredClaims
}

// TokenManager issues and verifies stateless bearer tokens signed with HS256.
type TokenManager struct {
	secret []byte
	ttl    time.Duration
	now    func() time.Time
}

func NewTokenManager(secret string, ttl time.Duration) *TokenManager {
	return &TokenManager{secret: []byte(secret), ttl: ttl, now: time.Now}
}

func (m *TokenManager) Issue(identity models.Identity) (string, error) {
	now := m.now()
	claims := tokenClaims{
		User: &identity,
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(m.ttl)),
		},
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(m.secret)
}

// Verify checks an Authorization header value of the form "Bearer <token>".
// It has no side effects.
func (m *TokenManager) Verify(header string) (*models.Identity, error) {
	if header == "" {
		return nil, ErrMissingToken
	}
	scheme, raw, ok := strings.Cut(header, " ")
	if !ok || !strings.EqualFold(scheme, "Bearer") || raw == "" {
		return nil, ErrInvalidToken
	}
	claims := &tokenClaims{}
	token, err := jwt.ParseWithClaims(
		raw,
		claims,
		func(*jwt.Token) (any, error) { return m.secret, nil },
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(m.now),
	)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidToken, err)
	}
	if !token.Valid || claims.User == nil || claims.User.Email == "" {
		return nil, ErrInvalidToken
	}
	return claims.User, nil
}
