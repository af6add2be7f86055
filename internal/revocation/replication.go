package revocation

import (
	"context"
	"errors"

	"github.com/tair/shopfront/kafka"
	"github.com/tair/shopfront/pkg/logger"
)

// Replicator applies logouts announced by other instances to the local
// registry.
type Replicator struct {
	registry   *Registry
	instanceID string
}

func NewReplicator(registry *Registry, instanceID string) *Replicator {
	return &Replicator{registry: registry, instanceID: instanceID}
}

// HandleSessionRevoked is registered on the session-revoked topic. Events this
// instance published itself are skipped; the registry already holds them.
func (r *Replicator) HandleSessionRevoked(ctx context.Context, event kafka.SessionRevokedEvent) error {
	if event.InstanceID == r.instanceID {
		return nil
	}
	if event.Fingerprint == "" {
		return errors.New("session revoked event without fingerprint")
	}

	until, added := r.registry.RevokeFingerprint(event.Fingerprint, event.ExpiresAt)
	logger.Debug(ctx).
		Str("origin", event.InstanceID).
		Time("until", until).
		Bool("added", added).
		Msg("Replicated session revocation")
	return nil
}
