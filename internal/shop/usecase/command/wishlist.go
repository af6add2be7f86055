package command

import (
	"context"
	"strings"

	"github.com/tair/shopfront/internal/shop/domain"
	"github.com/tair/shopfront/kafka"
	"github.com/tair/shopfront/pkg/logger"
)

type AddToWishlistCommand struct {
	UserID    string
	ProductID string
}

type AddToWishlistResult struct {
	Line          domain.WishlistLine `json:"wishlistItem"`
	WishlistCount int                 `json:"wishlistCount"`
}

type AddToWishlistHandler struct {
	uow      *UnitOfWork
	products domain.ProductRepository
}

func NewAddToWishlistHandler(uow *UnitOfWork, products domain.ProductRepository) *AddToWishlistHandler {
	return &AddToWishlistHandler{uow: uow, products: products}
}

func (h *AddToWishlistHandler) Handle(ctx context.Context, cmd AddToWishlistCommand) (*AddToWishlistResult, error) {
	if strings.TrimSpace(cmd.ProductID) == "" {
		return nil, domain.InvalidInput("productId is required")
	}
	product, err := h.products.FindByID(ctx, cmd.ProductID)
	if err != nil {
		return nil, storeError(err)
	}

	var line domain.WishlistLine
	user, err := h.uow.Mutate(ctx, cmd.UserID, func(u *domain.User) error {
		var err error
		line, err = u.Wishlist.Add(*product)
		return err
	})
	if err != nil {
		logger.Warn(ctx).Err(err).
			Str("user_id", cmd.UserID).
			Str("product_id", cmd.ProductID).
			Msg("Add to wishlist rejected")
		return nil, err
	}
	return &AddToWishlistResult{Line: line, WishlistCount: user.Wishlist.Count()}, nil
}

type RemoveFromWishlistCommand struct {
	UserID    string
	ProductID string
}

type RemoveFromWishlistResult struct {
	Removed       domain.ProductView `json:"removedItem"`
	WishlistCount int                `json:"wishlistCount"`
}

type RemoveFromWishlistHandler struct {
	uow      *UnitOfWork
	products domain.ProductRepository
}

func NewRemoveFromWishlistHandler(uow *UnitOfWork, products domain.ProductRepository) *RemoveFromWishlistHandler {
	return &RemoveFromWishlistHandler{uow: uow, products: products}
}

func (h *RemoveFromWishlistHandler) Handle(ctx context.Context, cmd RemoveFromWishlistCommand) (*RemoveFromWishlistResult, error) {
	var removed domain.WishlistLine
	user, err := h.uow.Mutate(ctx, cmd.UserID, func(u *domain.User) error {
		var err error
		removed, err = u.Wishlist.Remove(cmd.ProductID)
		return err
	})
	if err != nil {
		return nil, err
	}

	catalog, err := loadCatalog(ctx, h.products, []string{removed.ProductID})
	if err != nil {
		return nil, err
	}
	return &RemoveFromWishlistResult{
		Removed:       domain.ViewOf(catalog, removed.ProductID, removed.ProductName, removed.Price),
		WishlistCount: user.Wishlist.Count(),
	}, nil
}

type ClearWishlistCommand struct {
	UserID string
}

type ClearWishlistResult struct {
	Removed       []domain.ProductView `json:"removedItems"`
	WishlistCount int                  `json:"wishlistCount"`
}

type ClearWishlistHandler struct {
	uow      *UnitOfWork
	products domain.ProductRepository
}

func NewClearWishlistHandler(uow *UnitOfWork, products domain.ProductRepository) *ClearWishlistHandler {
	return &ClearWishlistHandler{uow: uow, products: products}
}

func (h *ClearWishlistHandler) Handle(ctx context.Context, cmd ClearWishlistCommand) (*ClearWishlistResult, error) {
	var removed []domain.WishlistLine
	user, err := h.uow.Mutate(ctx, cmd.UserID, func(u *domain.User) error {
		removed = u.Wishlist.Clear()
		return nil
	})
	if err != nil {
		return nil, err
	}

	ids := make([]string, 0, len(removed))
	for _, l := range removed {
		ids = append(ids, l.ProductID)
	}
	catalog, err := loadCatalog(ctx, h.products, ids)
	if err != nil {
		return nil, err
	}
	views := make([]domain.ProductView, 0, len(removed))
	for _, l := range removed {
		views = append(views, domain.ViewOf(catalog, l.ProductID, l.ProductName, l.Price))
	}
	return &ClearWishlistResult{Removed: views, WishlistCount: user.Wishlist.Count()}, nil
}

type MigrateWishlistCommand struct {
	UserID string
}

type MigrateWishlistResult struct {
	Added []domain.ProductView `json:"addedItems"`
	Cart  domain.CartState     `json:"cart"`
}

type MigrateWishlistHandler struct {
	uow      *UnitOfWork
	products domain.ProductRepository
	events   CartEventPublisher
}

func NewMigrateWishlistHandler(uow *UnitOfWork, products domain.ProductRepository, events CartEventPublisher) *MigrateWishlistHandler {
	return &MigrateWishlistHandler{uow: uow, products: products, events: events}
}

// Handle moves every wishlisted product into the cart in a single save.
// Products already in the cart are skipped without error.
func (h *MigrateWishlistHandler) Handle(ctx context.Context, cmd MigrateWishlistCommand) (*MigrateWishlistResult, error) {
	var (
		added   []domain.CartLine
		catalog domain.ProductIndex
	)
	user, err := h.uow.Mutate(ctx, cmd.UserID, func(u *domain.User) error {
		lines := u.Wishlist.Lines()
		if len(lines) == 0 {
			return domain.InvalidInput("wishlist is empty")
		}
		ids := make([]string, 0, len(lines))
		for _, l := range lines {
			ids = append(ids, l.ProductID)
		}
		var err error
		if catalog, err = loadCatalog(ctx, h.products, ids); err != nil {
			return err
		}
		added, err = u.MoveWishlistToCart(catalog)
		return err
	})
	if err != nil {
		logger.Warn(ctx).Err(err).Str("user_id", cmd.UserID).Msg("Wishlist migration rejected")
		return nil, err
	}

	publish(ctx, h.events, kafka.EventTypeWishlistMigrated, user, "", len(added))

	views := make([]domain.ProductView, 0, len(added))
	for _, l := range added {
		views = append(views, domain.ViewOf(catalog, l.ProductID, l.ProductName, l.Price))
	}
	return &MigrateWishlistResult{Added: views, Cart: user.CartState()}, nil
}
