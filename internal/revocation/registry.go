// Package revocation keeps the process-local set of logged-out session tokens.
//
// Entries expire after the session token lifetime, so the set never outlives
// the tokens it blocks. Nothing is persisted: a restart forgets every
// revocation, and a token revoked before the restart becomes usable again
// until it expires on its own. Replicas can share revocations through the
// session-revoked Kafka topic, but that is best effort too.
package revocation

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"sync"
	"time"

	"github.com/tair/shopfront/pkg/logger"
)

// Fingerprint is the key under which a token is stored. Raw tokens are never
// kept in memory or sent to other instances.
func Fingerprint(token string) string {
	sum := sha256.Sum256([]byte(token))
	return hex.EncodeToString(sum[:])
}

// Registry maps token fingerprints to the instant their entry expires.
type Registry struct {
	mu      sync.RWMutex
	entries map[string]time.Time
	ttl     time.Duration
	now     func() time.Time
}

// NewRegistry creates a registry whose entries live for ttl.
func NewRegistry(ttl time.Duration) *Registry {
	return &Registry{
		entries: make(map[string]time.Time),
		ttl:     ttl,
		now:     time.Now,
	}
}

// WithClock replaces the time source. Tests only.
func (r *Registry) WithClock(now func() time.Time) *Registry {
	r.now = now
	return r
}

// Revoke inserts token and reports whether it was newly revoked. A token that
// is already revoked is left untouched and false is returned, which makes a
// concurrent double logout detectable.
func (r *Registry) Revoke(token string) bool {
	_, ok := r.RevokeFingerprint(Fingerprint(token), time.Time{})
	return ok
}

// RevokeFingerprint inserts a fingerprint directly, used when replicating a
// revocation from another instance. A zero until means now+TTL. It returns
// the expiry that is in effect and whether the entry was new.
func (r *Registry) RevokeFingerprint(fp string, until time.Time) (time.Time, bool) {
	now := r.now()
	if until.IsZero() {
		until = now.Add(r.ttl)
	}
	if !until.After(now) {
		return until, false
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if exp, ok := r.entries[fp]; ok && exp.After(now) {
		return exp, false
	}
	r.entries[fp] = until
	return until, true
}

// IsRevoked reports whether token is revoked and not yet expired. It never
// mutates the registry.
func (r *Registry) IsRevoked(token string) bool {
	return r.IsFingerprintRevoked(Fingerprint(token))
}

func (r *Registry) IsFingerprintRevoked(fp string) bool {
	r.mu.RLock()
	exp, ok := r.entries[fp]
	r.mu.RUnlock()
	return ok && exp.After(r.now())
}

// Len is the number of live entries, expired ones excluded.
func (r *Registry) Len() int {
	now := r.now()
	r.mu.RLock()
	defer r.mu.RUnlock()

	n := 0
	for _, exp := range r.entries {
		if exp.After(now) {
			n++
		}
	}
	return n
}

// Clear empties the registry.
func (r *Registry) Clear() {
	r.mu.Lock()
	r.entries = make(map[string]time.Time)
	r.mu.Unlock()
}

// Sweep drops expired entries and returns how many were removed.
func (r *Registry) Sweep() int {
	now := r.now()
	r.mu.Lock()
	defer r.mu.Unlock()

	removed := 0
	for fp, exp := range r.entries {
		if !exp.After(now) {
			delete(r.entries, fp)
			removed++
		}
	}
	return removed
}

// Run sweeps every interval until ctx is cancelled.
func (r *Registry) Run(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if n := r.Sweep(); n > 0 {
				logger.Debug(ctx).
					Int("removed", n).
					Int("remaining", r.Len()).
					Msg("Revocation registry swept")
			}
		}
	}
}
