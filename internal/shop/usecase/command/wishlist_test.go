package command

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tair/shopfront/internal/shop/domain"
	"github.com/tair/shopfront/kafka"
)

func TestWishlistCommands(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	add := NewAddToWishlistHandler(f.uow, f.products)

	res, err := add.Handle(ctx, AddToWishlistCommand{UserID: "u1", ProductID: "p1"})
	require.NoError(t, err)
	assert.Equal(t, 1, res.WishlistCount)

	_, err = add.Handle(ctx, AddToWishlistCommand{UserID: "u1", ProductID: "p1"})
	assert.True(t, errors.Is(err, domain.ErrAlreadyExists))

	_, err = add.Handle(ctx, AddToWishlistCommand{UserID: "u1", ProductID: "missing"})
	assert.True(t, errors.Is(err, domain.ErrNotFound))

	_, err = add.Handle(ctx, AddToWishlistCommand{UserID: "u1", ProductID: "p2"})
	require.NoError(t, err)

	rm, err := NewRemoveFromWishlistHandler(f.uow, f.products).Handle(ctx, RemoveFromWishlistCommand{UserID: "u1", ProductID: "p1"})
	require.NoError(t, err)
	assert.Equal(t, "/uploads/image-1.png", rm.Removed.Image)
	assert.Equal(t, 1, rm.WishlistCount)

	_, err = NewRemoveFromWishlistHandler(f.uow, f.products).Handle(ctx, RemoveFromWishlistCommand{UserID: "u1", ProductID: "p1"})
	assert.True(t, errors.Is(err, domain.ErrNotFound))

	cl, err := NewClearWishlistHandler(f.uow, f.products).Handle(ctx, ClearWishlistCommand{UserID: "u1"})
	require.NoError(t, err)
	require.Len(t, cl.Removed, 1)
	assert.Equal(t, "p2", cl.Removed[0].ID)
	assert.Equal(t, 0, cl.WishlistCount)
	assert.Equal(t, 0, f.stored(t).Wishlist.Count())
}

func TestMigrateWishlist(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	_, err := NewAddToCartHandler(f.uow, f.products, nil).Handle(ctx, AddToCartCommand{UserID: "u1", ProductID: "p2", Quantity: 3})
	require.NoError(t, err)
	for _, id := range []string{"p1", "p2", "p3"} {
		_, err := NewAddToWishlistHandler(f.uow, f.products).Handle(ctx, AddToWishlistCommand{UserID: "u1", ProductID: id})
		require.NoError(t, err)
	}
	saves := f.users.saves

	res, err := NewMigrateWishlistHandler(f.uow, f.products, f.events).Handle(ctx, MigrateWishlistCommand{UserID: "u1"})
	require.NoError(t, err)

	assert.Len(t, res.Added, 2)
	assert.Equal(t, 5, res.Cart.CartCount)
	assert.Equal(t, saves+1, f.users.saves, "migration is a single save")

	stored := f.stored(t)
	assert.Equal(t, 3, stored.Cart.Len())
	assert.Equal(t, 0, stored.Wishlist.Count())
	line, _ := stored.Cart.Line("p2")
	assert.Equal(t, 3, line.Quantity)
	assert.Contains(t, f.events.types(), kafka.EventTypeWishlistMigrated)
}

func TestMigrateWishlist_EmptyIsInvalid(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	_, err := NewAddToCartHandler(f.uow, f.products, nil).Handle(ctx, AddToCartCommand{UserID: "u1", ProductID: "p1", Quantity: 1})
	require.NoError(t, err)
	saves := f.users.saves

	_, err = NewMigrateWishlistHandler(f.uow, f.products, nil).Handle(ctx, MigrateWishlistCommand{UserID: "u1"})
	assert.True(t, errors.Is(err, domain.ErrInvalidInput))
	assert.Equal(t, saves, f.users.saves)
	assert.Equal(t, 1, f.stored(t).Cart.Len())
}

func TestMigrateWishlist_FailedSaveKeepsBothCollections(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	_, err := NewAddToWishlistHandler(f.uow, f.products).Handle(ctx, AddToWishlistCommand{UserID: "u1", ProductID: "p1"})
	require.NoError(t, err)

	f.users.beforeSave = func(context.Context, *domain.User) error { return errors.New("write failed") }
	_, err = NewMigrateWishlistHandler(f.uow, f.products, nil).Handle(ctx, MigrateWishlistCommand{UserID: "u1"})
	assert.Equal(t, domain.CodeInternal, domain.CodeOf(err))

	stored := f.stored(t)
	assert.Equal(t, 1, stored.Wishlist.Count())
	assert.Equal(t, 0, stored.Cart.Len())
}
