package http

import (
	"net/http"

	"github.com/gorilla/mux"

	"github.com/tair/shopfront/internal/shop/domain"
	"github.com/tair/shopfront/internal/shop/usecase/command"
	"github.com/tair/shopfront/internal/shop/usecase/query"
)

// userID reads the identity attached by AuthMiddleware
func userID(r *http.Request) (string, error) {
	id, ok := IdentityFrom(r.Context())
	if !ok {
		return "", domain.Unauthenticated("authentication required")
	}
	return id.UserID(), nil
}

// GetCart handles GET /cart
func (h *ShopHandler) GetCart(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	uid, err := userID(r)
	if err != nil {
		respondError(ctx, w, err)
		return
	}
	view, err := h.queries.GetCart.Handle(ctx, query.GetCartQuery{UserID: uid})
	if err != nil {
		respondError(ctx, w, err)
		return
	}
	respondOK(w, http.StatusOK, "", view)
}

// AddToCart handles POST /cart/items
func (h *ShopHandler) AddToCart(w http.ResponseWriter, r *http.Request) {
	var req struct {
		ProductID string `json:"productId"`
		Quantity  *int   `json:"quantity"`
	}
	ctx := r.Context()
	uid, err := userID(r)
	if err != nil {
		respondError(ctx, w, err)
		return
	}
	if err := decodeJSON(r, &req); err != nil {
		respondError(ctx, w, err)
		return
	}

	quantity := 1
	if req.Quantity != nil {
		quantity = *req.Quantity
	}
	res, err := h.commands.AddToCart.Handle(ctx, command.AddToCartCommand{
		UserID:    uid,
		ProductID: req.ProductID,
		Quantity:  quantity,
	})
	h.metrics.cartOperation("cart_add", err)
	if err != nil {
		respondError(ctx, w, err)
		return
	}
	respondOK(w, http.StatusCreated, "Product added to cart", res)
}

// AdjustQuantity handles PATCH /cart/items/{productId}
func (h *ShopHandler) AdjustQuantity(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Action string `json:"action"`
	}
	ctx := r.Context()
	uid, err := userID(r)
	if err != nil {
		respondError(ctx, w, err)
		return
	}
	if err := decodeJSON(r, &req); err != nil {
		respondError(ctx, w, err)
		return
	}

	res, err := h.commands.AdjustQuantity.Handle(ctx, command.AdjustQuantityCommand{
		UserID:    uid,
		ProductID: mux.Vars(r)["productId"],
		Action:    domain.Direction(req.Action),
	})
	h.metrics.cartOperation("cart_adjust", err)
	if err != nil {
		respondError(ctx, w, err)
		return
	}
	respondOK(w, http.StatusOK, "Quantity updated", res)
}

// RemoveFromCart handles DELETE /cart/items/{productId}
func (h *ShopHandler) RemoveFromCart(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	uid, err := userID(r)
	if err != nil {
		respondError(ctx, w, err)
		return
	}

	res, err := h.commands.RemoveFromCart.Handle(ctx, command.RemoveFromCartCommand{
		UserID:    uid,
		ProductID: mux.Vars(r)["productId"],
	})
	h.metrics.cartOperation("cart_remove", err)
	if err != nil {
		respondError(ctx, w, err)
		return
	}
	respondOK(w, http.StatusOK, "Product removed from cart", res)
}

// ClearCart handles DELETE /cart
func (h *ShopHandler) ClearCart(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	uid, err := userID(r)
	if err != nil {
		respondError(ctx, w, err)
		return
	}

	state, err := h.commands.ClearCart.Handle(ctx, command.ClearCartCommand{UserID: uid})
	h.metrics.cartOperation("cart_clear", err)
	if err != nil {
		respondError(ctx, w, err)
		return
	}
	respondOK(w, http.StatusOK, "Cart cleared", state)
}

// GetWishlist handles GET /wishlist
func (h *ShopHandler) GetWishlist(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	uid, err := userID(r)
	if err != nil {
		respondError(ctx, w, err)
		return
	}
	view, err := h.queries.GetWishlist.Handle(ctx, query.GetWishlistQuery{UserID: uid})
	if err != nil {
		respondError(ctx, w, err)
		return
	}
	respondOK(w, http.StatusOK, "", view)
}

// AddToWishlist handles POST /wishlist/items
func (h *ShopHandler) AddToWishlist(w http.ResponseWriter, r *http.Request) {
	var req struct {
		ProductID string `json:"productId"`
	}
	ctx := r.Context()
	uid, err := userID(r)
	if err != nil {
		respondError(ctx, w, err)
		return
	}
	if err := decodeJSON(r, &req); err != nil {
		respondError(ctx, w, err)
		return
	}

	res, err := h.commands.AddToWishlist.Handle(ctx, command.AddToWishlistCommand{UserID: uid, ProductID: req.ProductID})
	h.metrics.cartOperation("wishlist_add", err)
	if err != nil {
		respondError(ctx, w, err)
		return
	}
	respondOK(w, http.StatusCreated, "Product added to wishlist", res)
}

// RemoveFromWishlist handles DELETE /wishlist/items/{productId}
func (h *ShopHandler) RemoveFromWishlist(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	uid, err := userID(r)
	if err != nil {
		respondError(ctx, w, err)
		return
	}

	res, err := h.commands.RemoveFromWishlist.Handle(ctx, command.RemoveFromWishlistCommand{
		UserID:    uid,
		ProductID: mux.Vars(r)["productId"],
	})
	h.metrics.cartOperation("wishlist_remove", err)
	if err != nil {
		respondError(ctx, w, err)
		return
	}
	respondOK(w, http.StatusOK, "Product removed from wishlist", res)
}

// ClearWishlist handles DELETE /wishlist
func (h *ShopHandler) ClearWishlist(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	uid, err := userID(r)
	if err != nil {
		respondError(ctx, w, err)
		return
	}

	res, err := h.commands.ClearWishlist.Handle(ctx, command.ClearWishlistCommand{UserID: uid})
	h.metrics.cartOperation("wishlist_clear", err)
	if err != nil {
		respondError(ctx, w, err)
		return
	}
	respondOK(w, http.StatusOK, "Wishlist cleared", res)
}

// MigrateWishlist handles POST /wishlist/migrate
func (h *ShopHandler) MigrateWishlist(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	uid, err := userID(r)
	if err != nil {
		respondError(ctx, w, err)
		return
	}

	res, err := h.commands.MigrateWishlist.Handle(ctx, command.MigrateWishlistCommand{UserID: uid})
	h.metrics.cartOperation("wishlist_migrate", err)
	if err != nil {
		respondError(ctx, w, err)
		return
	}
	respondOK(w, http.StatusOK, "Wishlist moved to cart", res)
}
