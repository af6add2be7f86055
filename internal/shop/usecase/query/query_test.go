package query

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tair/shopfront/internal/revocation"
	"github.com/tair/shopfront/internal/shop/domain"
	"github.com/tair/shopfront/internal/shop/gate"
	"github.com/tair/shopfront/internal/shop/repository"
	"github.com/tair/shopfront/pkg/auth"
)

func seedProducts() *repository.MemoryProductRepository {
	base := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	return repository.NewMemoryProductRepository(
		domain.Product{ID: "p1", Name: "Kettle", Price: decimal.RequireFromString("12.00"), ImageRef: "/uploads/k.png", Category: "Kitchen", CreatedAt: base},
		domain.Product{ID: "p2", Name: "Pan", Price: decimal.RequireFromString("30.00"), ImageRef: "/uploads/p.png", Category: "kitchenware", CreatedAt: base.Add(time.Hour)},
		domain.Product{ID: "p3", Name: "Lamp", Price: decimal.RequireFromString("45.50"), ImageRef: "/uploads/l.png", Category: "Home", CreatedAt: base.Add(2 * time.Hour)},
	)
}

func TestGetCart_JoinsCatalog(t *testing.T) {
	ctx := context.Background()
	users := repository.NewMemoryUserRepository()
	user := &domain.User{ID: "u1", Email: "a@b.c"}
	user.Cart = domain.NewCart([]domain.CartLine{
		{ProductID: "p1", ProductName: "Kettle (old)", Price: decimal.RequireFromString("10.00"), Quantity: 2},
		{ProductID: "gone", ProductName: "Discontinued", Price: decimal.RequireFromString("3.00"), Quantity: 1},
	})
	require.NoError(t, users.Create(ctx, user))

	view, err := NewGetCartHandler(users, seedProducts()).Handle(ctx, GetCartQuery{UserID: "u1"})
	require.NoError(t, err)

	require.Len(t, view.Items, 2)
	assert.Equal(t, "Kettle", view.Items[0].Name)
	assert.Equal(t, "/uploads/k.png", view.Items[0].Image)
	assert.True(t, decimal.RequireFromString("24").Equal(view.Items[0].LineTotal))
	assert.Equal(t, "Discontinued", view.Items[1].Name)
	assert.Empty(t, view.Items[1].Image)
	assert.Equal(t, 3, view.CartCount)
	assert.True(t, decimal.RequireFromString("27").Equal(view.CartValue))
}

func TestGetCart_EmptyAndMissingUser(t *testing.T) {
	ctx := context.Background()
	users := repository.NewMemoryUserRepository()
	require.NoError(t, users.Create(ctx, &domain.User{ID: "u1", Email: "a@b.c"}))
	h := NewGetCartHandler(users, seedProducts())

	view, err := h.Handle(ctx, GetCartQuery{UserID: "u1"})
	require.NoError(t, err)
	assert.NotNil(t, view.Items)
	assert.Empty(t, view.Items)
	assert.Equal(t, 0, view.CartCount)
	assert.True(t, view.CartValue.IsZero())

	_, err = h.Handle(ctx, GetCartQuery{UserID: "ghost"})
	assert.True(t, errors.Is(err, domain.ErrNotFound))
}

func TestGetWishlist(t *testing.T) {
	ctx := context.Background()
	users := repository.NewMemoryUserRepository()
	user := &domain.User{ID: "u1", Email: "a@b.c"}
	user.Wishlist = domain.NewWishlist([]domain.WishlistLine{
		{ProductID: "p3", ProductName: "Lamp", Price: decimal.RequireFromString("45.50")},
	})
	require.NoError(t, users.Create(ctx, user))

	view, err := NewGetWishlistHandler(users, seedProducts()).Handle(ctx, GetWishlistQuery{UserID: "u1"})
	require.NoError(t, err)
	require.Len(t, view.Items, 1)
	assert.Equal(t, "Home", view.Items[0].Category)
	assert.Equal(t, 1, view.WishlistCount)
}

func TestListProducts(t *testing.T) {
	h := NewListProductsHandler(seedProducts())
	ctx := context.Background()

	all, err := h.Handle(ctx, ListProductsQuery{})
	require.NoError(t, err)
	require.Len(t, all, 3)
	assert.Equal(t, "p3", all[0].ID, "newest first")

	kitchen, err := h.Handle(ctx, ListProductsQuery{Category: "KITCHEN"})
	require.NoError(t, err)
	require.Len(t, kitchen, 2)
	assert.Equal(t, "p2", kitchen[0].ID)

	none, err := h.Handle(ctx, ListProductsQuery{Category: "garden"})
	require.NoError(t, err)
	assert.NotNil(t, none)
	assert.Empty(t, none)
}

func TestGetProduct(t *testing.T) {
	h := NewGetProductHandler(seedProducts())

	p, err := h.Handle(context.Background(), GetProductQuery{ID: "p2"})
	require.NoError(t, err)
	assert.Equal(t, "Pan", p.Name)

	_, err = h.Handle(context.Background(), GetProductQuery{ID: "nope"})
	assert.True(t, errors.Is(err, domain.ErrNotFound))
}

func TestCheckToken(t *testing.T) {
	ctx := context.Background()
	users := repository.NewMemoryUserRepository()
	require.NoError(t, users.Create(ctx, &domain.User{ID: "u1", Name: "Ann", Email: "ann@example.com"}))
	tokens := auth.NewTokenManager("secret", time.Hour, time.Minute)
	g := gate.New(revocation.NewRegistry(time.Hour), tokens, users, nil)
	h := NewCheckTokenHandler(g)

	token, _, err := tokens.GenerateToken("u1")
	require.NoError(t, err)

	res, err := h.Handle(ctx, CheckTokenQuery{Token: token})
	require.NoError(t, err)
	assert.True(t, res.Valid)
	assert.Equal(t, "ann@example.com", res.User.Email)

	require.NoError(t, g.Logout(ctx, token))
	_, err = h.Handle(ctx, CheckTokenQuery{Token: token})
	assert.Equal(t, domain.CodeRevoked, domain.CodeOf(err))
}
