package query

import (
	"context"
	"strings"

	"github.com/tair/shopfront/internal/shop/domain"
)

// ListProductsQuery represents the query to list products
type ListProductsQuery struct {
	Category string // Optional: case-insensitive substring filter
}

// ListProductsHandler handles list products query
type ListProductsHandler struct {
	repo domain.ProductRepository
}

// NewListProductsHandler creates a new list products handler
func NewListProductsHandler(repo domain.ProductRepository) *ListProductsHandler {
	return &ListProductsHandler{repo: repo}
}

// Handle executes the list products query
func (h *ListProductsHandler) Handle(ctx context.Context, query ListProductsQuery) ([]domain.Product, error) {
	var (
		products []domain.Product
		err      error
	)
	if category := strings.TrimSpace(query.Category); category != "" {
		products, err = h.repo.FindByCategory(ctx, category, true)
	} else {
		products, err = h.repo.FindAll(ctx)
	}
	if err != nil {
		return nil, typed(err)
	}
	if products == nil {
		products = []domain.Product{}
	}
	return products, nil
}

// GetProductQuery represents the query to get a product by ID
type GetProductQuery struct {
	ID string
}

type GetProductHandler struct {
	repo domain.ProductRepository
}

func NewGetProductHandler(repo domain.ProductRepository) *GetProductHandler {
	return &GetProductHandler{repo: repo}
}

func (h *GetProductHandler) Handle(ctx context.Context, query GetProductQuery) (*domain.Product, error) {
	product, err := h.repo.FindByID(ctx, query.ID)
	if err != nil {
		return nil, typed(err)
	}
	return product, nil
}
