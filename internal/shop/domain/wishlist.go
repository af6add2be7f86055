package domain

import "github.com/shopspring/decimal"

// WishlistLine is a saved product with snapshot name and price.
type WishlistLine struct {
	ProductID   string          `json:"productId"`
	ProductName string          `json:"productName"`
	Price       decimal.Decimal `json:"price"`
}

// Wishlist is an ordered set of lines keyed by product id.
type Wishlist struct {
	lines []WishlistLine
	index map[string]int
}

func NewWishlist(lines []WishlistLine) Wishlist {
	w := Wishlist{lines: make([]WishlistLine, 0, len(lines))}
	w.lines = append(w.lines, lines...)
	w.reindex()
	return w
}

func (w *Wishlist) Clone() Wishlist {
	return NewWishlist(w.lines)
}

func (w *Wishlist) Lines() []WishlistLine {
	out := make([]WishlistLine, len(w.lines))
	copy(out, w.lines)
	return out
}

// Count is the number of lines.
func (w *Wishlist) Count() int { return len(w.lines) }

func (w *Wishlist) Contains(productID string) bool {
	_, ok := w.index[productID]
	return ok
}

func (w *Wishlist) Add(product Product) (WishlistLine, error) {
	if w.Contains(product.ID) {
		return WishlistLine{}, AlreadyExists("product already in wishlist")
	}
	line := WishlistLine{
		ProductID:   product.ID,
		ProductName: product.Name,
		Price:       product.Price,
	}
	w.lines = append(w.lines, line)
	w.reindex()
	return line, nil
}

func (w *Wishlist) Remove(productID string) (WishlistLine, error) {
	i, ok := w.index[productID]
	if !ok {
		return WishlistLine{}, NotFound("product not found in wishlist")
	}
	removed := w.lines[i]
	w.lines = append(w.lines[:i], w.lines[i+1:]...)
	w.reindex()
	return removed, nil
}

// Clear empties the wishlist and returns what it held.
func (w *Wishlist) Clear() []WishlistLine {
	removed := w.Lines()
	w.lines = w.lines[:0]
	w.reindex()
	return removed
}

func (w *Wishlist) reindex() {
	w.index = make(map[string]int, len(w.lines))
	for i, l := range w.lines {
		w.index[l.ProductID] = i
	}
}
