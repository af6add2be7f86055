package query

import (
	"context"
	"errors"

	"github.com/tair/shopfront/internal/shop/domain"
)

// GetCartQuery reads the caller's cart joined with the catalog
type GetCartQuery struct {
	UserID string
}

type GetCartHandler struct {
	users    domain.UserRepository
	products domain.ProductRepository
}

func NewGetCartHandler(users domain.UserRepository, products domain.ProductRepository) *GetCartHandler {
	return &GetCartHandler{users: users, products: products}
}

func (h *GetCartHandler) Handle(ctx context.Context, q GetCartQuery) (*domain.CartView, error) {
	user, err := h.users.FindByID(ctx, q.UserID)
	if err != nil {
		return nil, typed(err)
	}

	lines := user.Cart.Lines()
	ids := make([]string, 0, len(lines))
	for _, l := range lines {
		ids = append(ids, l.ProductID)
	}
	catalog, err := catalogFor(ctx, h.products, ids)
	if err != nil {
		return nil, err
	}

	view := domain.BuildCartView(&user.Cart, catalog)
	return &view, nil
}

func catalogFor(ctx context.Context, products domain.ProductRepository, ids []string) (domain.ProductIndex, error) {
	if len(ids) == 0 {
		return domain.ProductIndex{}, nil
	}
	found, err := products.FindByIDs(ctx, ids)
	if err != nil {
		return nil, typed(err)
	}
	return domain.NewProductIndex(found), nil
}

func typed(err error) error {
	var de *domain.Error
	if errors.As(err, &de) {
		return de
	}
	return domain.Internal(err)
}
