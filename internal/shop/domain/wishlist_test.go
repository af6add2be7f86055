package domain

import (
	"errors"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWishlist_AddRemoveClear(t *testing.T) {
	var w Wishlist
	_, err := w.Add(product("p1", "Mug", "10"))
	require.NoError(t, err)
	_, err = w.Add(product("p2", "Pen", "1"))
	require.NoError(t, err)
	assert.Equal(t, 2, w.Count())

	_, err = w.Add(product("p1", "Mug", "10"))
	assert.True(t, errors.Is(err, ErrAlreadyExists))
	assert.Equal(t, 2, w.Count())

	removed, err := w.Remove("p1")
	require.NoError(t, err)
	assert.Equal(t, "Mug", removed.ProductName)
	assert.False(t, w.Contains("p1"))

	_, err = w.Remove("p1")
	assert.True(t, errors.Is(err, ErrNotFound))

	cleared := w.Clear()
	require.Len(t, cleared, 1)
	assert.Equal(t, "p2", cleared[0].ProductID)
	assert.Equal(t, 0, w.Count())
}

func TestUser_MoveWishlistToCart(t *testing.T) {
	p1, p2, p3 := product("p1", "A", "1"), product("p2", "B", "2.5"), product("p3", "C", "3")
	u := &User{ID: "u1"}
	_, err := u.Cart.Add(p2, 4)
	require.NoError(t, err)
	for _, p := range []Product{p1, p2, p3} {
		_, err := u.Wishlist.Add(p)
		require.NoError(t, err)
	}

	added, err := u.MoveWishlistToCart(NewProductIndex([]Product{p1, p2, p3}))
	require.NoError(t, err)

	assert.Len(t, added, 2)
	assert.Equal(t, 3, u.Cart.Len())
	assert.Equal(t, 0, u.Wishlist.Count())
	line, _ := u.Cart.Line("p2")
	assert.Equal(t, 4, line.Quantity)
	assert.Equal(t, 6, u.Cart.Count())
	assert.True(t, decimal.RequireFromString("14").Equal(u.Cart.Value()))
}

func TestUser_MoveWishlistToCart_Empty(t *testing.T) {
	u := &User{ID: "u1"}
	_, _ = u.Cart.Add(product("p1", "A", "1"), 1)

	_, err := u.MoveWishlistToCart(ProductIndex{})
	assert.True(t, errors.Is(err, ErrInvalidInput))
	assert.Equal(t, 1, u.Cart.Len())
}

func TestUser_MoveWishlistToCart_SkipsVanishedProducts(t *testing.T) {
	u := &User{ID: "u1"}
	_, _ = u.Wishlist.Add(product("gone", "Old", "9"))
	_, _ = u.Wishlist.Add(product("p1", "A", "1"))

	added, err := u.MoveWishlistToCart(NewProductIndex([]Product{product("p1", "A", "1")}))
	require.NoError(t, err)
	require.Len(t, added, 1)
	assert.Equal(t, "p1", added[0].ProductID)
	assert.Equal(t, 0, u.Wishlist.Count())
}

func TestUser_CloneIsDeep(t *testing.T) {
	u := &User{ID: "u1", Version: 3}
	_, _ = u.Cart.Add(product("p1", "A", "1"), 1)
	_, _ = u.Wishlist.Add(product("p2", "B", "2"))

	cp := u.Clone()
	_, _ = cp.Cart.Adjust("p1", Increase)
	cp.Wishlist.Clear()

	assert.Equal(t, 1, u.Cart.Count())
	assert.Equal(t, 1, u.Wishlist.Count())
}

func TestBuildCartView_JoinsCatalog(t *testing.T) {
	var c Cart
	_, _ = c.Add(product("p1", "Old name", "10"), 2)
	_, _ = c.Add(product("gone", "Vanished", "3"), 1)

	current := product("p1", "New name", "12")
	current.ImageRef = "/uploads/image-1.png"
	view := BuildCartView(&c, NewProductIndex([]Product{current}))

	require.Len(t, view.Items, 2)
	assert.Equal(t, "New name", view.Items[0].Name)
	assert.Equal(t, "/uploads/image-1.png", view.Items[0].Image)
	assert.True(t, decimal.NewFromInt(24).Equal(view.Items[0].LineTotal))
	assert.Equal(t, "Vanished", view.Items[1].Name)
	assert.Empty(t, view.Items[1].Image)
	assert.Equal(t, 3, view.CartCount)
	assert.True(t, decimal.NewFromInt(27).Equal(view.CartValue))
}

func TestBuildWishlistView(t *testing.T) {
	var w Wishlist
	_, _ = w.Add(product("p1", "A", "1"))

	view := BuildWishlistView(&w, ProductIndex{})
	assert.Equal(t, 1, view.WishlistCount)
	require.Len(t, view.Items, 1)
	assert.Equal(t, "A", view.Items[0].Name)
}

func TestError_IsAndCode(t *testing.T) {
	err := NotFound("product not found")
	assert.True(t, errors.Is(err, ErrNotFound))
	assert.False(t, errors.Is(err, ErrConflict))

	assert.Equal(t, CodeInternal, CodeOf(errors.New("boom")))
	wrapped := AsError(errors.New("db down"))
	assert.Equal(t, "internal server error", wrapped.Message)
	assert.NotContains(t, wrapped.Message, "db down")
}
