package domain

import "github.com/shopspring/decimal"

// CartLine is one product in a cart. Name and price are snapshots taken when
// the line was added.
type CartLine struct {
	ProductID   string          `json:"productId"`
	ProductName string          `json:"productName"`
	Price       decimal.Decimal `json:"price"`
	Quantity    int             `json:"quantity"`
}

// Total is price times quantity.
func (l CartLine) Total() decimal.Decimal {
	return l.Price.Mul(decimal.NewFromInt(int64(l.Quantity)))
}

// Direction selects the quantity adjustment.
type Direction string

const (
	Increase Direction = "increase"
	Decrease Direction = "decrease"
)

func (d Direction) Valid() bool {
	return d == Increase || d == Decrease
}

// Cart is an ordered set of lines keyed by product id. Count and Value are
// derived and recomputed after every mutation.
type Cart struct {
	lines []CartLine
	index map[string]int
	count int
	value decimal.Decimal
}

// NewCart builds a cart from stored lines, preserving their order.
func NewCart(lines []CartLine) Cart {
	c := Cart{lines: make([]CartLine, 0, len(lines))}
	c.lines = append(c.lines, lines...)
	c.recompute()
	return c
}

// Clone returns a cart that shares no memory with c.
func (c *Cart) Clone() Cart {
	return NewCart(c.lines)
}

// Lines returns a copy of the lines in display order.
func (c *Cart) Lines() []CartLine {
	out := make([]CartLine, len(c.lines))
	copy(out, c.lines)
	return out
}

func (c *Cart) Len() int { return len(c.lines) }

func (c *Cart) Count() int { return c.count }

func (c *Cart) Value() decimal.Decimal { return c.value }

// Line returns the line for productID, if present.
func (c *Cart) Line(productID string) (CartLine, bool) {
	i, ok := c.index[productID]
	if !ok {
		return CartLine{}, false
	}
	return c.lines[i], true
}

func (c *Cart) Contains(productID string) bool {
	_, ok := c.index[productID]
	return ok
}

// Add appends a snapshot of product with the given quantity. A product that
// is already in the cart is rejected with CONFLICT, never merged.
func (c *Cart) Add(product Product, quantity int) (CartLine, error) {
	if quantity < 1 {
		return CartLine{}, InvalidInput("quantity must be at least 1")
	}
	if existing, ok := c.Line(product.ID); ok {
		return CartLine{}, Conflict("product is already in the cart", DuplicateCartLine{
			ProductID:       product.ID,
			ProductName:     product.Name,
			CurrentQuantity: existing.Quantity,
			CartItems:       c.Lines(),
			CartCount:       c.count,
			CartValue:       c.value,
		})
	}
	line := CartLine{
		ProductID:   product.ID,
		ProductName: product.Name,
		Price:       product.Price,
		Quantity:    quantity,
	}
	c.lines = append(c.lines, line)
	c.recompute()
	return line, nil
}

// Adjust moves the quantity of an existing line by one. Decreasing a line at
// quantity 1 fails and leaves it unchanged.
func (c *Cart) Adjust(productID string, dir Direction) (CartLine, error) {
	if !dir.Valid() {
		return CartLine{}, InvalidInput("action must be increase or decrease")
	}
	i, ok := c.index[productID]
	if !ok {
		return CartLine{}, NotFound("product not found in cart")
	}
	switch dir {
	case Increase:
		c.lines[i].Quantity++
	case Decrease:
		if c.lines[i].Quantity <= 1 {
			return CartLine{}, InvalidInput("minimum quantity is 1")
		}
		c.lines[i].Quantity--
	}
	c.recompute()
	return c.lines[i], nil
}

// Remove deletes the line for productID and returns it.
func (c *Cart) Remove(productID string) (CartLine, error) {
	i, ok := c.index[productID]
	if !ok {
		return CartLine{}, NotFound("product not found in cart")
	}
	removed := c.lines[i]
	c.lines = append(c.lines[:i], c.lines[i+1:]...)
	c.recompute()
	return removed, nil
}

// Clear empties the cart. It is idempotent.
func (c *Cart) Clear() {
	c.lines = c.lines[:0]
	c.recompute()
}

// recompute is the single place the index and aggregates are derived.
func (c *Cart) recompute() {
	c.index = make(map[string]int, len(c.lines))
	c.count = 0
	c.value = decimal.Zero
	for i, l := range c.lines {
		c.index[l.ProductID] = i
		c.count += l.Quantity
		c.value = c.value.Add(l.Total())
	}
}

// DuplicateCartLine is attached to the CONFLICT returned by Cart.Add so the
// caller can offer a quantity adjustment instead. It carries the whole cart
// so the client can re-render without another GET.
type DuplicateCartLine struct {
	ProductID       string          `json:"productId"`
	ProductName     string          `json:"productName"`
	CurrentQuantity int             `json:"currentQuantity"`
	CartItems       []CartLine      `json:"cartItems"`
	CartCount       int             `json:"cartCount"`
	CartValue       decimal.Decimal `json:"cartValue"`
}
