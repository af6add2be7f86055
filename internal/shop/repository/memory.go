package repository

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/tair/shopfront/internal/shop/domain"
)

// MemoryUserRepository is the STORE_BACKEND=memory user store. Users are
// cloned on the way in and out so callers never share state with the store.
type MemoryUserRepository struct {
	mu      sync.RWMutex
	users   map[string]*domain.User
	byEmail map[string]string
}

func NewMemoryUserRepository() *MemoryUserRepository {
	return &MemoryUserRepository{
		users:   make(map[string]*domain.User),
		byEmail: make(map[string]string),
	}
}

func (r *MemoryUserRepository) Create(_ context.Context, user *domain.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.byEmail[user.Email]; ok {
		return domain.AlreadyExists("email already registered")
	}
	now := time.Now().UTC()
	if user.CreatedAt.IsZero() {
		user.CreatedAt = now
	}
	user.UpdatedAt = now
	r.users[user.ID] = user.Clone()
	r.byEmail[user.Email] = user.ID
	return nil
}

func (r *MemoryUserRepository) FindByID(_ context.Context, id string) (*domain.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	u, ok := r.users[id]
	if !ok {
		return nil, domain.NotFound("user not found")
	}
	return u.Clone(), nil
}

func (r *MemoryUserRepository) FindByEmail(ctx context.Context, email string) (*domain.User, error) {
	r.mu.RLock()
	id, ok := r.byEmail[email]
	r.mu.RUnlock()
	if !ok {
		return nil, domain.NotFound("user not found")
	}
	return r.FindByID(ctx, id)
}

func (r *MemoryUserRepository) Save(_ context.Context, user *domain.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	stored, ok := r.users[user.ID]
	if !ok {
		return domain.NotFound("user not found")
	}
	if stored.Version != user.Version {
		return domain.ErrStaleVersion
	}
	if user.Email != stored.Email {
		if _, taken := r.byEmail[user.Email]; taken {
			return domain.AlreadyExists("email already registered")
		}
		delete(r.byEmail, stored.Email)
		r.byEmail[user.Email] = user.ID
	}

	user.Version++
	user.UpdatedAt = time.Now().UTC()
	r.users[user.ID] = user.Clone()
	return nil
}

// MemoryProductRepository is the STORE_BACKEND=memory catalog.
type MemoryProductRepository struct {
	mu       sync.RWMutex
	products map[string]domain.Product
}

func NewMemoryProductRepository(seed ...domain.Product) *MemoryProductRepository {
	r := &MemoryProductRepository{products: make(map[string]domain.Product, len(seed))}
	for _, p := range seed {
		r.products[p.ID] = p
	}
	return r
}

func (r *MemoryProductRepository) Create(_ context.Context, product *domain.Product) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.products[product.ID]; ok {
		return domain.AlreadyExists("product already exists")
	}
	if product.CreatedAt.IsZero() {
		product.CreatedAt = time.Now().UTC()
	}
	r.products[product.ID] = *product
	return nil
}

func (r *MemoryProductRepository) FindByID(_ context.Context, id string) (*domain.Product, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	p, ok := r.products[id]
	if !ok {
		return nil, domain.NotFound("product not found")
	}
	return &p, nil
}

func (r *MemoryProductRepository) FindByIDs(_ context.Context, ids []string) ([]domain.Product, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]domain.Product, 0, len(ids))
	for _, id := range ids {
		if p, ok := r.products[id]; ok {
			out = append(out, p)
		}
	}
	return out, nil
}

func (r *MemoryProductRepository) FindAll(_ context.Context) ([]domain.Product, error) {
	return r.filter(func(domain.Product) bool { return true }), nil
}

func (r *MemoryProductRepository) FindByCategory(_ context.Context, pattern string, caseInsensitive bool) ([]domain.Product, error) {
	if caseInsensitive {
		pattern = strings.ToLower(pattern)
	}
	return r.filter(func(p domain.Product) bool {
		category := p.Category
		if caseInsensitive {
			category = strings.ToLower(category)
		}
		return strings.Contains(category, pattern)
	}), nil
}

// filter returns matches newest first, the same order as the SQL store.
func (r *MemoryProductRepository) filter(keep func(domain.Product) bool) []domain.Product {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]domain.Product, 0, len(r.products))
	for _, p := range r.products {
		if keep(p) {
			out = append(out, p)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].ID < out[j].ID
		}
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})
	return out
}
