// Package gate authenticates session tokens against the revocation registry,
// the token verifier and the user store.
package gate

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/tair/shopfront/internal/revocation"
	"github.com/tair/shopfront/internal/shop/domain"
	"github.com/tair/shopfront/kafka"
	"github.com/tair/shopfront/pkg/logger"
)

// Identity is the authenticated caller. It is a value with no setters, so a
// handler can only read it.
type Identity struct {
	userID    string
	user      domain.UserSummary
	expiresAt time.Time
}

func (i Identity) UserID() string { return i.userID }

func (i Identity) User() domain.UserSummary { return i.user }

func (i Identity) ExpiresAt() time.Time { return i.expiresAt }

// SessionPublisher announces logouts to other instances.
type SessionPublisher interface {
	PublishSessionRevoked(ctx context.Context, event kafka.SessionRevokedEvent) error
}

type Gate struct {
	registry  *revocation.Registry
	verifier  domain.TokenVerifier
	users     domain.UserRepository
	publisher SessionPublisher
}

// New builds a gate. publisher may be nil when Kafka is not configured.
func New(registry *revocation.Registry, verifier domain.TokenVerifier, users domain.UserRepository, publisher SessionPublisher) *Gate {
	return &Gate{registry: registry, verifier: verifier, users: users, publisher: publisher}
}

// Authenticate resolves token to an Identity. A revoked token is refused
// before its signature is checked.
func (g *Gate) Authenticate(ctx context.Context, token string) (Identity, error) {
	token = strings.TrimSpace(token)
	if token == "" {
		return Identity{}, domain.Unauthenticated("authentication token is required")
	}
	if g.registry.IsRevoked(token) {
		return Identity{}, domain.Revoked("token has been revoked")
	}

	userID, expiresAt, err := g.verifier.Verify(token)
	if err != nil {
		logger.Debug(ctx).Err(err).Msg("Token verification failed")
		return Identity{}, domain.Unauthenticated("invalid or expired token")
	}

	user, err := g.users.FindByID(ctx, userID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return Identity{}, domain.NotFound("user not found")
		}
		return Identity{}, domain.Internal(err)
	}

	return Identity{userID: user.ID, user: user.Summary(), expiresAt: expiresAt}, nil
}

// Logout revokes token until it would have expired. Revoking a token twice
// is a CONFLICT, including when two logouts race.
func (g *Gate) Logout(ctx context.Context, token string) error {
	token = strings.TrimSpace(token)
	if token == "" {
		return domain.Unauthenticated("authentication token is required")
	}
	if g.registry.IsRevoked(token) {
		return domain.Conflict("token already revoked", nil)
	}

	userID, expiresAt, err := g.verifier.Verify(token)
	if err != nil {
		return domain.Unauthenticated("invalid or expired token")
	}

	fp := revocation.Fingerprint(token)
	until, added := g.registry.RevokeFingerprint(fp, expiresAt)
	if !added {
		return domain.Conflict("token already revoked", nil)
	}

	logger.Info(ctx).
		Str("user_id", userID).
		Time("revoked_until", until).
		Msg("Session revoked")

	if g.publisher != nil {
		event := kafka.SessionRevokedEvent{Fingerprint: fp, ExpiresAt: until}
		if err := g.publisher.PublishSessionRevoked(ctx, event); err != nil {
			logger.Warn(ctx).Err(err).Msg("Failed to replicate session revocation")
		}
	}
	return nil
}
