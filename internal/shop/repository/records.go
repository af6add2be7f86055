package repository

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/tair/shopfront/internal/shop/domain"
)

// userRecord is the users row. Cart and wishlist lines live in their own
// tables and are rewritten together with the row on every save.
type userRecord struct {
	ID           string          `gorm:"primaryKey;type:varchar(36)"`
	Name         string          `gorm:"not null"`
	Email        string          `gorm:"uniqueIndex;not null"`
	PasswordHash string          `gorm:"not null"`
	ResetToken   string
	CartCount    int             `gorm:"not null"`
	CartValue    decimal.Decimal `gorm:"type:numeric(14,2);not null"`
	Version      int64           `gorm:"not null"`
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

func (userRecord) TableName() string { return "users" }

type cartLineRecord struct {
	UserID      string          `gorm:"primaryKey;type:varchar(36)"`
	ProductID   string          `gorm:"primaryKey;type:varchar(36)"`
	Position    int             `gorm:"not null"`
	ProductName string          `gorm:"not null"`
	Price       decimal.Decimal `gorm:"type:numeric(12,2);not null"`
	Quantity    int             `gorm:"not null"`
}

func (cartLineRecord) TableName() string { return "cart_lines" }

type wishlistLineRecord struct {
	UserID      string          `gorm:"primaryKey;type:varchar(36)"`
	ProductID   string          `gorm:"primaryKey;type:varchar(36)"`
	Position    int             `gorm:"not null"`
	ProductName string          `gorm:"not null"`
	Price       decimal.Decimal `gorm:"type:numeric(12,2);not null"`
}

func (wishlistLineRecord) TableName() string { return "wishlist_lines" }

type productRecord struct {
	ID          string          `gorm:"primaryKey;type:varchar(36)"`
	Name        string          `gorm:"not null"`
	Price       decimal.Decimal `gorm:"type:numeric(12,2);not null"`
	ImageRef    string
	Description string
	Category    string `gorm:"index"`
	CreatedAt   time.Time
}

func (productRecord) TableName() string { return "products" }

func toUserRecord(u *domain.User) userRecord {
	return userRecord{
		ID:           u.ID,
		Name:         u.Name,
		Email:        u.Email,
		PasswordHash: u.PasswordHash,
		ResetToken:   u.ResetToken,
		CartCount:    u.Cart.Count(),
		CartValue:    u.Cart.Value(),
		Version:      u.Version,
		CreatedAt:    u.CreatedAt,
		UpdatedAt:    u.UpdatedAt,
	}
}

func cartRecords(u *domain.User) []cartLineRecord {
	lines := u.Cart.Lines()
	out := make([]cartLineRecord, 0, len(lines))
	for i, l := range lines {
		out = append(out, cartLineRecord{
			UserID:      u.ID,
			ProductID:   l.ProductID,
			Position:    i,
			ProductName: l.ProductName,
			Price:       l.Price,
			Quantity:    l.Quantity,
		})
	}
	return out
}

func wishlistRecords(u *domain.User) []wishlistLineRecord {
	lines := u.Wishlist.Lines()
	out := make([]wishlistLineRecord, 0, len(lines))
	for i, l := range lines {
		out = append(out, wishlistLineRecord{
			UserID:      u.ID,
			ProductID:   l.ProductID,
			Position:    i,
			ProductName: l.ProductName,
			Price:       l.Price,
		})
	}
	return out
}

// toDomainUser rebuilds the aggregate. Stored cart_count and cart_value are
// ignored: the cart recomputes them from its lines.
func toDomainUser(rec userRecord, cart []cartLineRecord, wishlist []wishlistLineRecord) *domain.User {
	cartLines := make([]domain.CartLine, 0, len(cart))
	for _, l := range cart {
		cartLines = append(cartLines, domain.CartLine{
			ProductID:   l.ProductID,
			ProductName: l.ProductName,
			Price:       l.Price,
			Quantity:    l.Quantity,
		})
	}
	wishLines := make([]domain.WishlistLine, 0, len(wishlist))
	for _, l := range wishlist {
		wishLines = append(wishLines, domain.WishlistLine{
			ProductID:   l.ProductID,
			ProductName: l.ProductName,
			Price:       l.Price,
		})
	}
	return &domain.User{
		ID:           rec.ID,
		Name:         rec.Name,
		Email:        rec.Email,
		PasswordHash: rec.PasswordHash,
		ResetToken:   rec.ResetToken,
		Cart:         domain.NewCart(cartLines),
		Wishlist:     domain.NewWishlist(wishLines),
		Version:      rec.Version,
		CreatedAt:    rec.CreatedAt,
		UpdatedAt:    rec.UpdatedAt,
	}
}

func toProductRecord(p *domain.Product) productRecord {
	return productRecord{
		ID:          p.ID,
		Name:        p.Name,
		Price:       p.Price,
		ImageRef:    p.ImageRef,
		Description: p.Description,
		Category:    p.Category,
		CreatedAt:   p.CreatedAt,
	}
}

func (r productRecord) toDomain() domain.Product {
	return domain.Product{
		ID:          r.ID,
		Name:        r.Name,
		Price:       r.Price,
		ImageRef:    r.ImageRef,
		Description: r.Description,
		Category:    r.Category,
		CreatedAt:   r.CreatedAt,
	}
}

func toDomainProducts(recs []productRecord) []domain.Product {
	out := make([]domain.Product, 0, len(recs))
	for _, r := range recs {
		out = append(out, r.toDomain())
	}
	return out
}
