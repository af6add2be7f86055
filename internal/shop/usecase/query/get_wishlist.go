package query

import (
	"context"

	"github.com/tair/shopfront/internal/shop/domain"
)

// GetWishlistQuery reads the caller's wishlist joined with the catalog
type GetWishlistQuery struct {
	UserID string
}

type GetWishlistHandler struct {
	users    domain.UserRepository
	products domain.ProductRepository
}

func NewGetWishlistHandler(users domain.UserRepository, products domain.ProductRepository) *GetWishlistHandler {
	return &GetWishlistHandler{users: users, products: products}
}

func (h *GetWishlistHandler) Handle(ctx context.Context, q GetWishlistQuery) (*domain.WishlistView, error) {
	user, err := h.users.FindByID(ctx, q.UserID)
	if err != nil {
		return nil, typed(err)
	}

	lines := user.Wishlist.Lines()
	ids := make([]string, 0, len(lines))
	for _, l := range lines {
		ids = append(ids, l.ProductID)
	}
	catalog, err := catalogFor(ctx, h.products, ids)
	if err != nil {
		return nil, err
	}

	view := domain.BuildWishlistView(&user.Wishlist, catalog)
	return &view, nil
}
