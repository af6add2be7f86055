package http

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gorilla/mux"
	"github.com/shopspring/decimal"

	"github.com/tair/shopfront/internal/shop/domain"
	"github.com/tair/shopfront/internal/shop/usecase/command"
	"github.com/tair/shopfront/internal/shop/usecase/query"
)

// multipart overhead allowed on top of the image itself
const formOverhead = 1 << 20

// ListProducts handles GET /products?category=
func (h *ShopHandler) ListProducts(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	products, err := h.queries.ListProducts.Handle(ctx, query.ListProductsQuery{
		Category: r.URL.Query().Get("category"),
	})
	if err != nil {
		respondError(ctx, w, err)
		return
	}
	respondOK(w, http.StatusOK, "", products)
}

// GetProduct handles GET /products/{id}
func (h *ShopHandler) GetProduct(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	product, err := h.queries.GetProduct.Handle(ctx, query.GetProductQuery{ID: mux.Vars(r)["id"]})
	if err != nil {
		respondError(ctx, w, err)
		return
	}
	respondOK(w, http.StatusOK, "", product)
}

// CreateProduct handles POST /products as multipart/form-data with an
// "image" file field
func (h *ShopHandler) CreateProduct(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	r.Body = http.MaxBytesReader(w, r.Body, command.MaxImageSize+formOverhead)
	if err := r.ParseMultipartForm(command.MaxImageSize + formOverhead); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			respondError(ctx, w, domain.InvalidInput("image must be 5MB or smaller"))
			return
		}
		respondError(ctx, w, domain.InvalidInput("invalid multipart form"))
		return
	}
	defer r.MultipartForm.RemoveAll()

	price, err := decimal.NewFromString(strings.TrimSpace(r.FormValue("price")))
	if err != nil {
		respondError(ctx, w, domain.InvalidInput("price must be a decimal number"))
		return
	}

	cmd := command.CreateProductCommand{
		Name:        r.FormValue("name"),
		Price:       price,
		Description: r.FormValue("description"),
		Category:    r.FormValue("category"),
	}

	file, header, err := r.FormFile("image")
	if err == nil {
		defer file.Close()
		cmd.Image = &command.ImageUpload{
			Filename:    header.Filename,
			ContentType: header.Header.Get("Content-Type"),
			Size:        header.Size,
			Content:     file,
		}
	}

	product, err := h.commands.CreateProduct.Handle(ctx, cmd)
	if err != nil {
		respondError(ctx, w, err)
		return
	}
	respondOK(w, http.StatusCreated, "Product created successfully", product)
}
