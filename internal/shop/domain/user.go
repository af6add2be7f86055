package domain

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
)

// User is the aggregate root that owns a cart and a wishlist. Version is
// bumped by the store on every successful save.
type User struct {
	ID           string    `json:"id"`
	Name         string    `json:"name"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"`
	ResetToken   string    `json:"-"`
	Cart         Cart      `json:"-"`
	Wishlist     Wishlist  `json:"-"`
	Version      int64     `json:"-"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// Clone returns a deep copy, so a failed mutation can never leak into a
// stored record.
func (u *User) Clone() *User {
	cp := *u
	cp.Cart = u.Cart.Clone()
	cp.Wishlist = u.Wishlist.Clone()
	return &cp
}

// Summary is the public profile returned by auth endpoints.
func (u *User) Summary() UserSummary {
	return UserSummary{ID: u.ID, Name: u.Name, Email: u.Email}
}

type UserSummary struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
}

// CartState is the aggregate view returned after every cart mutation.
type CartState struct {
	Lines     []CartLine      `json:"cartItems"`
	CartCount int             `json:"cartCount"`
	CartValue decimal.Decimal `json:"cartValue"`
}

func (u *User) CartState() CartState {
	return CartState{
		Lines:     u.Cart.Lines(),
		CartCount: u.Cart.Count(),
		CartValue: u.Cart.Value(),
	}
}

// MoveWishlistToCart adds every wishlisted product that is not already in the
// cart with quantity 1, skipping duplicates silently, then clears the
// wishlist. catalog supplies the current product for each wishlist entry;
// entries whose product vanished from the catalog are dropped.
func (u *User) MoveWishlistToCart(catalog ProductIndex) ([]CartLine, error) {
	if u.Wishlist.Count() == 0 {
		return nil, InvalidInput("wishlist is empty")
	}
	var added []CartLine
	for _, entry := range u.Wishlist.Lines() {
		if u.Cart.Contains(entry.ProductID) {
			continue
		}
		product, ok := catalog[entry.ProductID]
		if !ok {
			continue
		}
		line, err := u.Cart.Add(product, 1)
		if err != nil {
			return nil, err
		}
		added = append(added, line)
	}
	u.Wishlist.Clear()
	return added, nil
}

// UserRepository is the user store. Save must fail with ErrStaleVersion when
// the stored version differs from user.Version, and must write the user with
// its lines atomically.
type UserRepository interface {
	Create(ctx context.Context, user *User) error
	FindByID(ctx context.Context, id string) (*User, error)
	FindByEmail(ctx context.Context, email string) (*User, error)
	Save(ctx context.Context, user *User) error
}
