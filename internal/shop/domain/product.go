package domain

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
)

// Product is a catalog entry. The cart and wishlist only ever copy its name
// and price; they never write to it.
type Product struct {
	ID          string          `json:"id"`
	Name        string          `json:"name"`
	Price       decimal.Decimal `json:"price"`
	ImageRef    string          `json:"image"`
	Description string          `json:"description"`
	Category    string          `json:"category"`
	CreatedAt   time.Time       `json:"created_at"`
}

// ProductRepository is the catalog store.
type ProductRepository interface {
	Create(ctx context.Context, product *Product) error
	FindByID(ctx context.Context, id string) (*Product, error)
	FindByIDs(ctx context.Context, ids []string) ([]Product, error)
	FindAll(ctx context.Context) ([]Product, error)
	// FindByCategory matches pattern as a substring of the category.
	FindByCategory(ctx context.Context, pattern string, caseInsensitive bool) ([]Product, error)
}

// ProductIndex maps product ids to products, for joining lines to the catalog.
type ProductIndex map[string]Product

func NewProductIndex(products []Product) ProductIndex {
	idx := make(ProductIndex, len(products))
	for _, p := range products {
		idx[p.ID] = p
	}
	return idx
}
