package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/lib/pq"
	"gorm.io/gorm"

	"github.com/tair/shopfront/internal/shop/domain"
)

const uniqueViolation = "23505"

// GormUserRepository implements domain.UserRepository using GORM
type GormUserRepository struct {
	db *gorm.DB
}

// NewGormUserRepository creates a new GORM user repository
func NewGormUserRepository(db *gorm.DB) *GormUserRepository {
	return &GormUserRepository{db: db}
}

// AutoMigrate creates the users, cart_lines and wishlist_lines tables
func (r *GormUserRepository) AutoMigrate() error {
	return r.db.AutoMigrate(&userRecord{}, &cartLineRecord{}, &wishlistLineRecord{})
}

// Create inserts a new user. The aggregate starts empty, so only the row is written.
func (r *GormUserRepository) Create(ctx context.Context, user *domain.User) error {
	now := time.Now().UTC()
	if user.CreatedAt.IsZero() {
		user.CreatedAt = now
	}
	user.UpdatedAt = now

	rec := toUserRecord(user)
	if err := r.db.WithContext(ctx).Create(&rec).Error; err != nil {
		if isUniqueViolation(err) {
			return domain.AlreadyExists("email already registered")
		}
		return fmt.Errorf("failed to create user: %w", err)
	}
	return nil
}

// FindByID retrieves a user with cart and wishlist lines
func (r *GormUserRepository) FindByID(ctx context.Context, id string) (*domain.User, error) {
	return r.find(ctx, "id = ?", id)
}

// FindByEmail retrieves a user by email
func (r *GormUserRepository) FindByEmail(ctx context.Context, email string) (*domain.User, error) {
	return r.find(ctx, "email = ?", email)
}

func (r *GormUserRepository) find(ctx context.Context, where string, arg string) (*domain.User, error) {
	db := r.db.WithContext(ctx)

	var rec userRecord
	if err := db.Where(where, arg).Take(&rec).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.NotFound("user not found")
		}
		return nil, fmt.Errorf("failed to find user: %w", err)
	}

	var cart []cartLineRecord
	if err := db.Where("user_id = ?", rec.ID).Order("position").Find(&cart).Error; err != nil {
		return nil, fmt.Errorf("failed to load cart: %w", err)
	}
	var wishlist []wishlistLineRecord
	if err := db.Where("user_id = ?", rec.ID).Order("position").Find(&wishlist).Error; err != nil {
		return nil, fmt.Errorf("failed to load wishlist: %w", err)
	}
	return toDomainUser(rec, cart, wishlist), nil
}

// Save writes the user row and replaces its lines in one transaction. The row
// update is conditional on the version that was read; when nothing matches
// the transaction is rolled back and domain.ErrStaleVersion is returned.
func (r *GormUserRepository) Save(ctx context.Context, user *domain.User) error {
	rec := toUserRecord(user)
	rec.UpdatedAt = time.Now().UTC()
	cart := cartRecords(user)
	wishlist := wishlistRecords(user)

	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Model(&userRecord{}).
			Where("id = ? AND version = ?", rec.ID, rec.Version).
			Updates(map[string]interface{}{
				"name":          rec.Name,
				"email":         rec.Email,
				"password_hash": rec.PasswordHash,
				"reset_token":   rec.ResetToken,
				"cart_count":    rec.CartCount,
				"cart_value":    rec.CartValue,
				"version":       rec.Version + 1,
				"updated_at":    rec.UpdatedAt,
			})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return domain.ErrStaleVersion
		}

		if err := tx.Where("user_id = ?", rec.ID).Delete(&cartLineRecord{}).Error; err != nil {
			return err
		}
		if len(cart) > 0 {
			if err := tx.Create(&cart).Error; err != nil {
				return err
			}
		}
		if err := tx.Where("user_id = ?", rec.ID).Delete(&wishlistLineRecord{}).Error; err != nil {
			return err
		}
		if len(wishlist) > 0 {
			if err := tx.Create(&wishlist).Error; err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		if errors.Is(err, domain.ErrStaleVersion) {
			return err
		}
		if isUniqueViolation(err) {
			return domain.AlreadyExists("email already registered")
		}
		return fmt.Errorf("failed to save user: %w", err)
	}

	user.Version = rec.Version + 1
	user.UpdatedAt = rec.UpdatedAt
	return nil
}

func isUniqueViolation(err error) bool {
	var pqErr *pq.Error
	return errors.As(err, &pqErr) && pqErr.Code == uniqueViolation
}
