package domain

import "github.com/shopspring/decimal"

// ProductView is a line joined back to the catalog for display.
type ProductView struct {
	ID          string          `json:"id"`
	Name        string          `json:"name"`
	Price       decimal.Decimal `json:"price"`
	Image       string          `json:"image"`
	Description string          `json:"description"`
	Category    string          `json:"category"`
}

// ViewOf joins a product id with the catalog. When the product is gone the
// snapshot name and price are used and the display-only fields stay empty.
func ViewOf(catalog ProductIndex, productID, snapshotName string, snapshotPrice decimal.Decimal) ProductView {
	if p, ok := catalog[productID]; ok {
		return ProductView{
			ID:          p.ID,
			Name:        p.Name,
			Price:       p.Price,
			Image:       p.ImageRef,
			Description: p.Description,
			Category:    p.Category,
		}
	}
	return ProductView{ID: productID, Name: snapshotName, Price: snapshotPrice}
}

// CartItemView is one row of GET /cart.
type CartItemView struct {
	ProductView
	Quantity  int             `json:"quantity"`
	LineTotal decimal.Decimal `json:"lineTotal"`
}

type CartView struct {
	Items     []CartItemView  `json:"cartItems"`
	CartCount int             `json:"cartCount"`
	CartValue decimal.Decimal `json:"cartValue"`
}

// BuildCartView joins every line with the catalog and re-sums the value from
// the joined line totals. CartCount is the stored aggregate.
func BuildCartView(cart *Cart, catalog ProductIndex) CartView {
	view := CartView{
		Items:     make([]CartItemView, 0, cart.Len()),
		CartCount: cart.Count(),
		CartValue: decimal.Zero,
	}
	for _, l := range cart.Lines() {
		pv := ViewOf(catalog, l.ProductID, l.ProductName, l.Price)
		total := pv.Price.Mul(decimal.NewFromInt(int64(l.Quantity)))
		view.Items = append(view.Items, CartItemView{ProductView: pv, Quantity: l.Quantity, LineTotal: total})
		view.CartValue = view.CartValue.Add(total)
	}
	return view
}

type WishlistView struct {
	Items         []ProductView `json:"wishlistItems"`
	WishlistCount int           `json:"wishlistCount"`
}

func BuildWishlistView(w *Wishlist, catalog ProductIndex) WishlistView {
	view := WishlistView{Items: make([]ProductView, 0, w.Count()), WishlistCount: w.Count()}
	for _, l := range w.Lines() {
		view.Items = append(view.Items, ViewOf(catalog, l.ProductID, l.ProductName, l.Price))
	}
	return view
}
