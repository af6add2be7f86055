package gate

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/sync/errgroup"

	"github.com/tair/shopfront/internal/revocation"
	"github.com/tair/shopfront/internal/shop/domain"
	"github.com/tair/shopfront/internal/shop/repository"
	"github.com/tair/shopfront/kafka"
	"github.com/tair/shopfront/pkg/auth"
)

// fakeVerifier counts Verify calls so tests can prove the registry is
// consulted first.
type fakeVerifier struct {
	mu     sync.Mutex
	calls  int
	verify func(token string) (string, time.Time, error)
}

func (f *fakeVerifier) Verify(token string) (string, time.Time, error) {
	f.mu.Lock()
	f.calls++
	f.mu.Unlock()
	return f.verify(token)
}

type recordingPublisher struct {
	mu     sync.Mutex
	events []kafka.SessionRevokedEvent
}

func (p *recordingPublisher) PublishSessionRevoked(_ context.Context, e kafka.SessionRevokedEvent) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, e)
	return nil
}

func setup(t *testing.T) (*Gate, *auth.TokenManager, *revocation.Registry, *recordingPublisher) {
	t.Helper()
	users := repository.NewMemoryUserRepository()
	require.NoError(t, users.Create(context.Background(), &domain.User{ID: "u1", Name: "Ann", Email: "ann@example.com"}))

	tokens := auth.NewTokenManager("secret", time.Hour, 15*time.Minute)
	registry := revocation.NewRegistry(time.Hour)
	pub := &recordingPublisher{}
	return New(registry, tokens, users, pub), tokens, registry, pub
}

func TestGate_Authenticate(t *testing.T) {
	g, tokens, _, _ := setup(t)
	token, exp, err := tokens.GenerateToken("u1")
	require.NoError(t, err)

	id, err := g.Authenticate(context.Background(), token)
	require.NoError(t, err)
	assert.Equal(t, "u1", id.UserID())
	assert.Equal(t, "ann@example.com", id.User().Email)
	assert.WithinDuration(t, exp, id.ExpiresAt(), time.Second)
}

func TestGate_AuthenticateFailures(t *testing.T) {
	g, tokens, _, _ := setup(t)
	ctx := context.Background()

	_, err := g.Authenticate(ctx, "")
	assert.Equal(t, domain.CodeUnauthenticated, domain.CodeOf(err))

	_, err = g.Authenticate(ctx, "not-a-jwt")
	assert.Equal(t, domain.CodeUnauthenticated, domain.CodeOf(err))

	ghost, _, err := tokens.GenerateToken("deleted-user")
	require.NoError(t, err)
	_, err = g.Authenticate(ctx, ghost)
	assert.Equal(t, domain.CodeNotFound, domain.CodeOf(err))
}

func TestGate_RevokedTokenSkipsVerification(t *testing.T) {
	registry := revocation.NewRegistry(time.Hour)
	verifier := &fakeVerifier{verify: func(string) (string, time.Time, error) {
		return "u1", time.Now().Add(time.Hour), nil
	}}
	g := New(registry, verifier, repository.NewMemoryUserRepository(), nil)

	require.True(t, registry.Revoke("tok"))
	_, err := g.Authenticate(context.Background(), "tok")

	assert.True(t, errors.Is(err, domain.ErrRevoked))
	assert.Equal(t, 0, verifier.calls)
}

func TestGate_LogoutThenAuthenticate(t *testing.T) {
	g, tokens, registry, pub := setup(t)
	ctx := context.Background()
	token, exp, err := tokens.GenerateToken("u1")
	require.NoError(t, err)

	require.NoError(t, g.Logout(ctx, token))
	assert.True(t, registry.IsRevoked(token))

	_, err = g.Authenticate(ctx, token)
	assert.Equal(t, domain.CodeRevoked, domain.CodeOf(err))

	err = g.Logout(ctx, token)
	assert.Equal(t, domain.CodeConflict, domain.CodeOf(err))

	require.Len(t, pub.events, 1)
	assert.Equal(t, revocation.Fingerprint(token), pub.events[0].Fingerprint)
	assert.WithinDuration(t, exp, pub.events[0].ExpiresAt, time.Second)
	assert.NotContains(t, pub.events[0].Fingerprint, token)
}

func TestGate_ConcurrentLogoutHasOneWinner(t *testing.T) {
	g, tokens, _, pub := setup(t)
	token, _, err := tokens.GenerateToken("u1")
	require.NoError(t, err)

	const workers = 32
	var mu sync.Mutex
	ok, conflicts := 0, 0

	var eg errgroup.Group
	for i := 0; i < workers; i++ {
		eg.Go(func() error {
			err := g.Logout(context.Background(), token)
			mu.Lock()
			defer mu.Unlock()
			switch {
			case err == nil:
				ok++
			case errors.Is(err, domain.ErrConflict):
				conflicts++
			default:
				return err
			}
			return nil
		})
	}
	require.NoError(t, eg.Wait())

	assert.Equal(t, 1, ok)
	assert.Equal(t, workers-1, conflicts)
	assert.Len(t, pub.events, 1)
}

func TestGate_LogoutRejectsInvalidToken(t *testing.T) {
	g, _, registry, pub := setup(t)

	err := g.Logout(context.Background(), "garbage")
	assert.Equal(t, domain.CodeUnauthenticated, domain.CodeOf(err))
	assert.Equal(t, 0, registry.Len())
	assert.Empty(t, pub.events)
}
