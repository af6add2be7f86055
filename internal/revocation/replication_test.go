package revocation

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/tair/shopfront/kafka"
)

func TestReplicator_AppliesRemoteRevocations(t *testing.T) {
	r, clock := newTestRegistry(time.Hour)
	rep := NewReplicator(r, "self")
	ctx := context.Background()

	err := rep.HandleSessionRevoked(ctx, kafka.SessionRevokedEvent{
		InstanceID:  "peer",
		Fingerprint: Fingerprint("tok"),
		ExpiresAt:   clock.Now().Add(10 * time.Minute),
	})
	assert.NoError(t, err)
	assert.True(t, r.IsRevoked("tok"))

	clock.Advance(11 * time.Minute)
	assert.False(t, r.IsRevoked("tok"))
}

func TestReplicator_IgnoresOwnAndMalformedEvents(t *testing.T) {
	r, clock := newTestRegistry(time.Hour)
	rep := NewReplicator(r, "self")
	ctx := context.Background()

	assert.NoError(t, rep.HandleSessionRevoked(ctx, kafka.SessionRevokedEvent{
		InstanceID:  "self",
		Fingerprint: Fingerprint("tok"),
		ExpiresAt:   clock.Now().Add(time.Minute),
	}))
	assert.Equal(t, 0, r.Len())

	assert.Error(t, rep.HandleSessionRevoked(ctx, kafka.SessionRevokedEvent{InstanceID: "peer"}))

	// already expired on arrival
	assert.NoError(t, rep.HandleSessionRevoked(ctx, kafka.SessionRevokedEvent{
		InstanceID:  "peer",
		Fingerprint: Fingerprint("old"),
		ExpiresAt:   clock.Now().Add(-time.Minute),
	}))
	assert.Equal(t, 0, r.Len())
}
