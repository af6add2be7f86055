package command

import (
	"context"
	"errors"
	"fmt"

	"github.com/tair/shopfront/internal/shop/domain"
	"github.com/tair/shopfront/pkg/keylock"
	"github.com/tair/shopfront/pkg/logger"
)

const defaultMaxAttempts = 3

// UnitOfWork runs read-modify-write cycles on one user aggregate. Cycles for
// the same user are serialized inside the process; the store's version check
// catches writers in other processes, and the cycle is retried on a fresh
// read when that happens.
type UnitOfWork struct {
	users       domain.UserRepository
	locks       *keylock.Locker
	maxAttempts int
}

func NewUnitOfWork(users domain.UserRepository, locks *keylock.Locker) *UnitOfWork {
	return &UnitOfWork{users: users, locks: locks, maxAttempts: defaultMaxAttempts}
}

// Mutate loads the user, applies fn and saves the result. If fn fails, or ctx
// is done before the save, nothing is written. The returned user is the saved
// state.
func (u *UnitOfWork) Mutate(ctx context.Context, userID string, fn func(user *domain.User) error) (*domain.User, error) {
	unlock, err := u.locks.Lock(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("waiting for user lock: %w", err)
	}
	defer unlock()

	for attempt := 1; attempt <= u.maxAttempts; attempt++ {
		user, err := u.users.FindByID(ctx, userID)
		if err != nil {
			return nil, storeError(err)
		}

		if err := fn(user); err != nil {
			return nil, err
		}

		if err := ctx.Err(); err != nil {
			return nil, fmt.Errorf("request cancelled before save: %w", err)
		}

		err = u.users.Save(ctx, user)
		if err == nil {
			return user, nil
		}
		if !errors.Is(err, domain.ErrStaleVersion) {
			return nil, storeError(err)
		}
		logger.Warn(ctx).
			Str("user_id", userID).
			Int("attempt", attempt).
			Msg("Stale user version, retrying")
	}

	return nil, domain.Conflict("user was modified concurrently, please retry", nil)
}

// storeError passes typed errors through and hides everything else behind
// INTERNAL.
func storeError(err error) error {
	var de *domain.Error
	if errors.As(err, &de) {
		return de
	}
	return domain.Internal(err)
}
