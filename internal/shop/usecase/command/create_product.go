package command

import (
	"context"
	"fmt"
	"io"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/tair/shopfront/internal/shop/domain"
	"github.com/tair/shopfront/pkg/logger"
)

// MaxImageSize is the largest accepted product image
const MaxImageSize = 5 << 20

var allowedImageTypes = map[string]string{
	".jpeg": "image/jpeg",
	".jpg":  "image/jpeg",
	".png":  "image/png",
	".webp": "image/webp",
}

// ImageUpload is an uploaded image as received from the client
type ImageUpload struct {
	Filename    string
	ContentType string
	Size        int64
	Content     io.Reader
}

// CreateProductCommand represents the command to create a new product
type CreateProductCommand struct {
	Name        string
	Price       decimal.Decimal
	Description string
	Category    string
	Image       *ImageUpload
}

// CreateProductHandler handles product creation command
type CreateProductHandler struct {
	repo  domain.ProductRepository
	files domain.FileStore
}

// NewCreateProductHandler creates a new create product handler
func NewCreateProductHandler(repo domain.ProductRepository, files domain.FileStore) *CreateProductHandler {
	return &CreateProductHandler{repo: repo, files: files}
}

// Handle executes the create product command
func (h *CreateProductHandler) Handle(ctx context.Context, cmd CreateProductCommand) (*domain.Product, error) {
	cmd.Name = strings.TrimSpace(cmd.Name)
	if cmd.Name == "" {
		return nil, domain.InvalidInput("product name is required")
	}
	if cmd.Price.IsNegative() {
		return nil, domain.InvalidInput("price cannot be negative")
	}
	ext, err := validateImage(cmd.Image)
	if err != nil {
		return nil, err
	}

	name := fmt.Sprintf("image-%s%s", uuid.NewString(), ext)
	ref, err := h.files.Put(ctx, name, allowedImageTypes[ext], io.LimitReader(cmd.Image.Content, MaxImageSize+1))
	if err != nil {
		logger.Error(ctx).Err(err).Str("file", name).Msg("Failed to store product image")
		return nil, domain.Internal(fmt.Errorf("failed to store image: %w", err))
	}

	product := &domain.Product{
		ID:          uuid.NewString(),
		Name:        cmd.Name,
		Price:       cmd.Price.Round(2),
		ImageRef:    ref,
		Description: strings.TrimSpace(cmd.Description),
		Category:    strings.TrimSpace(cmd.Category),
		CreatedAt:   time.Now().UTC(),
	}
	if err := h.repo.Create(ctx, product); err != nil {
		return nil, storeError(err)
	}

	logger.Info(ctx).
		Str("product_id", product.ID).
		Str("category", product.Category).
		Msg("Product created")
	return product, nil
}

// validateImage checks presence, size, extension and declared content type,
// and returns the normalized extension.
func validateImage(img *ImageUpload) (string, error) {
	if img == nil || img.Content == nil {
		return "", domain.InvalidInput("image is required")
	}
	if img.Size > MaxImageSize {
		return "", domain.InvalidInput("image must be 5MB or smaller")
	}
	ext := strings.ToLower(filepath.Ext(img.Filename))
	want, ok := allowedImageTypes[ext]
	if !ok {
		return "", domain.InvalidInput("only jpeg, jpg, png and webp images are allowed")
	}
	if ct := strings.ToLower(strings.TrimSpace(img.ContentType)); ct != "" && ct != want {
		return "", domain.InvalidInput("image content type does not match its extension")
	}
	return ext, nil
}
