package command

import (
	"context"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/tair/shopfront/internal/shop/domain"
	"github.com/tair/shopfront/kafka"
	"github.com/tair/shopfront/pkg/logger"
)

// AddToCartCommand adds a product line to the caller's cart
type AddToCartCommand struct {
	UserID    string
	ProductID string
	Quantity  int
}

// AddToCartResult is the added line and the cart aggregates after the add
type AddToCartResult struct {
	Line domain.CartLine  `json:"cartItem"`
	Cart domain.CartState `json:"cart"`
}

type AddToCartHandler struct {
	uow      *UnitOfWork
	products domain.ProductRepository
	events   CartEventPublisher
}

func NewAddToCartHandler(uow *UnitOfWork, products domain.ProductRepository, events CartEventPublisher) *AddToCartHandler {
	return &AddToCartHandler{uow: uow, products: products, events: events}
}

// Handle rejects a product that is already in the cart with CONFLICT. The
// caller adjusts the quantity instead.
func (h *AddToCartHandler) Handle(ctx context.Context, cmd AddToCartCommand) (*AddToCartResult, error) {
	if strings.TrimSpace(cmd.ProductID) == "" {
		return nil, domain.InvalidInput("productId is required")
	}
	if cmd.Quantity < 1 {
		return nil, domain.InvalidInput("quantity must be at least 1")
	}

	product, err := h.products.FindByID(ctx, cmd.ProductID)
	if err != nil {
		return nil, storeError(err)
	}

	var line domain.CartLine
	user, err := h.uow.Mutate(ctx, cmd.UserID, func(u *domain.User) error {
		var err error
		line, err = u.Cart.Add(*product, cmd.Quantity)
		return err
	})
	if err != nil {
		logger.Warn(ctx).Err(err).
			Str("user_id", cmd.UserID).
			Str("product_id", cmd.ProductID).
			Msg("Add to cart rejected")
		return nil, err
	}

	publish(ctx, h.events, kafka.EventTypeCartItemAdded, user, line.ProductID, line.Quantity)
	return &AddToCartResult{Line: line, Cart: user.CartState()}, nil
}

// AdjustQuantityCommand moves a line quantity by one
type AdjustQuantityCommand struct {
	UserID    string
	ProductID string
	Action    domain.Direction
}

type AdjustQuantityResult struct {
	Line       domain.CartLine  `json:"cartItem"`
	TotalPrice decimal.Decimal  `json:"totalPrice"`
	Cart       domain.CartState `json:"cart"`
}

type AdjustQuantityHandler struct {
	uow    *UnitOfWork
	events CartEventPublisher
}

func NewAdjustQuantityHandler(uow *UnitOfWork, events CartEventPublisher) *AdjustQuantityHandler {
	return &AdjustQuantityHandler{uow: uow, events: events}
}

func (h *AdjustQuantityHandler) Handle(ctx context.Context, cmd AdjustQuantityCommand) (*AdjustQuantityResult, error) {
	if !cmd.Action.Valid() {
		return nil, domain.InvalidInput("action must be increase or decrease")
	}

	var line domain.CartLine
	user, err := h.uow.Mutate(ctx, cmd.UserID, func(u *domain.User) error {
		var err error
		line, err = u.Cart.Adjust(cmd.ProductID, cmd.Action)
		return err
	})
	if err != nil {
		logger.Warn(ctx).Err(err).
			Str("user_id", cmd.UserID).
			Str("product_id", cmd.ProductID).
			Str("action", string(cmd.Action)).
			Msg("Quantity change rejected")
		return nil, err
	}

	publish(ctx, h.events, kafka.EventTypeCartQuantityChanged, user, line.ProductID, line.Quantity)
	return &AdjustQuantityResult{Line: line, TotalPrice: line.Total(), Cart: user.CartState()}, nil
}

type RemoveFromCartCommand struct {
	UserID    string
	ProductID string
}

// RemoveFromCartResult carries the removed line joined with the catalog
type RemoveFromCartResult struct {
	Removed domain.CartItemView `json:"removedItem"`
	Cart    domain.CartState    `json:"cart"`
}

type RemoveFromCartHandler struct {
	uow      *UnitOfWork
	products domain.ProductRepository
	events   CartEventPublisher
}

func NewRemoveFromCartHandler(uow *UnitOfWork, products domain.ProductRepository, events CartEventPublisher) *RemoveFromCartHandler {
	return &RemoveFromCartHandler{uow: uow, products: products, events: events}
}

func (h *RemoveFromCartHandler) Handle(ctx context.Context, cmd RemoveFromCartCommand) (*RemoveFromCartResult, error) {
	var removed domain.CartLine
	user, err := h.uow.Mutate(ctx, cmd.UserID, func(u *domain.User) error {
		var err error
		removed, err = u.Cart.Remove(cmd.ProductID)
		return err
	})
	if err != nil {
		logger.Warn(ctx).Err(err).
			Str("user_id", cmd.UserID).
			Str("product_id", cmd.ProductID).
			Msg("Remove from cart rejected")
		return nil, err
	}

	publish(ctx, h.events, kafka.EventTypeCartItemRemoved, user, removed.ProductID, removed.Quantity)

	catalog, err := loadCatalog(ctx, h.products, []string{removed.ProductID})
	if err != nil {
		return nil, err
	}
	pv := domain.ViewOf(catalog, removed.ProductID, removed.ProductName, removed.Price)
	return &RemoveFromCartResult{
		Removed: domain.CartItemView{
			ProductView: pv,
			Quantity:    removed.Quantity,
			LineTotal:   pv.Price.Mul(decimal.NewFromInt(int64(removed.Quantity))),
		},
		Cart: user.CartState(),
	}, nil
}

type ClearCartCommand struct {
	UserID string
}

type ClearCartHandler struct {
	uow    *UnitOfWork
	events CartEventPublisher
}

func NewClearCartHandler(uow *UnitOfWork, events CartEventPublisher) *ClearCartHandler {
	return &ClearCartHandler{uow: uow, events: events}
}

// Handle empties the cart. Clearing an empty cart succeeds.
func (h *ClearCartHandler) Handle(ctx context.Context, cmd ClearCartCommand) (*domain.CartState, error) {
	user, err := h.uow.Mutate(ctx, cmd.UserID, func(u *domain.User) error {
		u.Cart.Clear()
		return nil
	})
	if err != nil {
		return nil, err
	}

	publish(ctx, h.events, kafka.EventTypeCartCleared, user, "", 0)
	state := user.CartState()
	return &state, nil
}

// loadCatalog fetches the products for ids. A product that no longer exists
// is simply absent from the index.
func loadCatalog(ctx context.Context, products domain.ProductRepository, ids []string) (domain.ProductIndex, error) {
	if len(ids) == 0 {
		return domain.ProductIndex{}, nil
	}
	found, err := products.FindByIDs(ctx, ids)
	if err != nil {
		return nil, storeError(err)
	}
	return domain.NewProductIndex(found), nil
}
