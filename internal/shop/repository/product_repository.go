package repository

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"gorm.io/gorm"

	"github.com/tair/shopfront/internal/shop/domain"
)

type GormProductRepository struct {
	db *gorm.DB
}

func NewGormProductRepository(db *gorm.DB) *GormProductRepository {
	return &GormProductRepository{db: db}
}

func (r *GormProductRepository) AutoMigrate() error {
	return r.db.AutoMigrate(&productRecord{})
}

func (r *GormProductRepository) Create(ctx context.Context, product *domain.Product) error {
	if product.CreatedAt.IsZero() {
		product.CreatedAt = time.Now().UTC()
	}
	rec := toProductRecord(product)
	if err := r.db.WithContext(ctx).Create(&rec).Error; err != nil {
		return fmt.Errorf("failed to create product: %w", err)
	}
	return nil
}

func (r *GormProductRepository) FindByID(ctx context.Context, id string) (*domain.Product, error) {
	var rec productRecord
	if err := r.db.WithContext(ctx).Where("id = ?", id).Take(&rec).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.NotFound("product not found")
		}
		return nil, fmt.Errorf("failed to find product: %w", err)
	}
	p := rec.toDomain()
	return &p, nil
}

func (r *GormProductRepository) FindByIDs(ctx context.Context, ids []string) ([]domain.Product, error) {
	if len(ids) == 0 {
		return []domain.Product{}, nil
	}
	var recs []productRecord
	if err := r.db.WithContext(ctx).Where("id IN ?", ids).Find(&recs).Error; err != nil {
		return nil, fmt.Errorf("failed to find products: %w", err)
	}
	return toDomainProducts(recs), nil
}

func (r *GormProductRepository) FindAll(ctx context.Context) ([]domain.Product, error) {
	var recs []productRecord
	if err := r.db.WithContext(ctx).Order("created_at DESC").Find(&recs).Error; err != nil {
		return nil, fmt.Errorf("failed to list products: %w", err)
	}
	return toDomainProducts(recs), nil
}

func (r *GormProductRepository) FindByCategory(ctx context.Context, pattern string, caseInsensitive bool) ([]domain.Product, error) {
	op := "LIKE"
	if caseInsensitive {
		op = "ILIKE"
	}
	var recs []productRecord
	err := r.db.WithContext(ctx).
		Where("category "+op+" ? ESCAPE '\\'", "%"+escapeLike(pattern)+"%").
		Order("created_at DESC").
		Find(&recs).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list products by category: %w", err)
	}
	return toDomainProducts(recs), nil
}

// escapeLike makes pattern match literally inside a LIKE expression.
func escapeLike(pattern string) string {
	return strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`).Replace(pattern)
}
