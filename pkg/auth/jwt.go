package auth

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// Token purposes. A reset token is never accepted as a session token and
// vice versa.
const (
	PurposeSession       = "session"
	PurposePasswordReset = "password_reset"
)

var (
	ErrInvalidToken = errors.New("invalid token")
	ErrWrongPurpose = errors.New("token purpose mismatch")
)

// Claims are the JWT claims issued by this service.
type Claims struct {
	UserID  string `json:"uid"`
	Purpose string `json:"purpose"`
	jwt.RegisteredClaims
}

// TokenManager signs and verifies HS256 tokens.
type TokenManager struct {
	secret   []byte
	ttl      time.Duration
	resetTTL time.Duration
	now      func() time.Time
}

// NewTokenManager creates a token manager. ttl is the session lifetime and
// also the lifetime of a revocation entry.
func NewTokenManager(secret string, ttl, resetTTL time.Duration) *TokenManager {
	return &TokenManager{
		secret:   []byte(secret),
		ttl:      ttl,
		resetTTL: resetTTL,
		now:      time.Now,
	}
}

// TTL returns the session token lifetime.
func (m *TokenManager) TTL() time.Duration { return m.ttl }

// GenerateToken issues a session token for userID.
func (m *TokenManager) GenerateToken(userID string) (string, time.Time, error) {
	return m.sign(userID, PurposeSession, m.ttl)
}

// GenerateResetToken issues a short-lived password reset token.
func (m *TokenManager) GenerateResetToken(userID string) (string, time.Time, error) {
	return m.sign(userID, PurposePasswordReset, m.resetTTL)
}

func (m *TokenManager) sign(userID, purpose string, ttl time.Duration) (string, time.Time, error) {
	now := m.now()
	expiresAt := now.Add(ttl)
	claims := Claims{
		UserID:  userID,
		Purpose: purpose,
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        uuid.NewString(),
			Subject:   userID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(expiresAt),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(m.secret)
	if err != nil {
		return "", time.Time{}, fmt.Errorf("failed to sign token: %w", err)
	}
	return signed, expiresAt, nil
}

// ValidateToken verifies signature and expiry of a session token.
func (m *TokenManager) ValidateToken(tokenString string) (*Claims, error) {
	return m.validate(tokenString, PurposeSession)
}

// ValidateResetToken verifies a password reset token.
func (m *TokenManager) ValidateResetToken(tokenString string) (*Claims, error) {
	return m.validate(tokenString, PurposePasswordReset)
}

func (m *TokenManager) validate(tokenString, purpose string) (*Claims, error) {
	claims := &Claims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (interface{}, error) {
		return m.secret, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithTimeFunc(m.now),
		jwt.WithExpirationRequired(),
	)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}
	if !token.Valid || claims.UserID == "" {
		return nil, ErrInvalidToken
	}
	if claims.Purpose != purpose {
		return nil, ErrWrongPurpose
	}
	return claims, nil
}

// Verify checks a session token and returns its subject and expiry.
func (m *TokenManager) Verify(tokenString string) (string, time.Time, error) {
	claims, err := m.ValidateToken(tokenString)
	if err != nil {
		return "", time.Time{}, err
	}
	return claims.UserID, claims.ExpiresAt.Time, nil
}
