package repository

import (
	"context"
	"errors"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/tair/shopfront/internal/shop/domain"
)

var tracer = otel.Tracer("shop-repository")

// UserRepositoryWithTracing wraps a user store with spans
type UserRepositoryWithTracing struct {
	next domain.UserRepository
}

// NewUserRepositoryWithTracing creates a new repository with tracing
func NewUserRepositoryWithTracing(next domain.UserRepository) *UserRepositoryWithTracing {
	return &UserRepositoryWithTracing{next: next}
}

func (r *UserRepositoryWithTracing) Create(ctx context.Context, user *domain.User) error {
	ctx, span := tracer.Start(ctx, "repository.User.Create",
		trace.WithAttributes(attribute.String("user.id", user.ID)),
	)
	defer span.End()

	err := r.next.Create(ctx, user)
	recordError(span, err)
	return err
}

func (r *UserRepositoryWithTracing) FindByID(ctx context.Context, id string) (*domain.User, error) {
	ctx, span := tracer.Start(ctx, "repository.User.FindByID",
		trace.WithAttributes(attribute.String("user.id", id)),
	)
	defer span.End()

	user, err := r.next.FindByID(ctx, id)
	if err != nil {
		recordError(span, err)
		return nil, err
	}
	span.SetAttributes(
		attribute.Int("cart.lines", user.Cart.Len()),
		attribute.Int("wishlist.lines", user.Wishlist.Count()),
		attribute.Int64("user.version", user.Version),
	)
	return user, nil
}

func (r *UserRepositoryWithTracing) FindByEmail(ctx context.Context, email string) (*domain.User, error) {
	ctx, span := tracer.Start(ctx, "repository.User.FindByEmail")
	defer span.End()

	user, err := r.next.FindByEmail(ctx, email)
	if err != nil {
		recordError(span, err)
		return nil, err
	}
	span.SetAttributes(attribute.String("user.id", user.ID))
	return user, nil
}

func (r *UserRepositoryWithTracing) Save(ctx context.Context, user *domain.User) error {
	ctx, span := tracer.Start(ctx, "repository.User.Save",
		trace.WithAttributes(
			attribute.String("user.id", user.ID),
			attribute.Int64("user.version", user.Version),
			attribute.Int("cart.count", user.Cart.Count()),
			attribute.String("cart.value", user.Cart.Value().String()),
		),
	)
	defer span.End()

	err := r.next.Save(ctx, user)
	if errors.Is(err, domain.ErrStaleVersion) {
		span.SetAttributes(attribute.Bool("save.stale", true))
		return err
	}
	recordError(span, err)
	return err
}

// ProductRepositoryWithTracing wraps a catalog store with spans
type ProductRepositoryWithTracing struct {
	next domain.ProductRepository
}

func NewProductRepositoryWithTracing(next domain.ProductRepository) *ProductRepositoryWithTracing {
	return &ProductRepositoryWithTracing{next: next}
}

func (r *ProductRepositoryWithTracing) Create(ctx context.Context, product *domain.Product) error {
	ctx, span := tracer.Start(ctx, "repository.Product.Create",
		trace.WithAttributes(
			attribute.String("product.id", product.ID),
			attribute.String("product.name", product.Name),
			attribute.String("product.category", product.Category),
			attribute.String("product.price", product.Price.String()),
		),
	)
	defer span.End()

	err := r.next.Create(ctx, product)
	recordError(span, err)
	return err
}

func (r *ProductRepositoryWithTracing) FindByID(ctx context.Context, id string) (*domain.Product, error) {
	ctx, span := tracer.Start(ctx, "repository.Product.FindByID",
		trace.WithAttributes(attribute.String("product.id", id)),
	)
	defer span.End()

	product, err := r.next.FindByID(ctx, id)
	if err != nil {
		recordError(span, err)
		return nil, err
	}
	span.SetAttributes(attribute.String("product.name", product.Name))
	return product, nil
}

func (r *ProductRepositoryWithTracing) FindByIDs(ctx context.Context, ids []string) ([]domain.Product, error) {
	ctx, span := tracer.Start(ctx, "repository.Product.FindByIDs",
		trace.WithAttributes(attribute.Int("query.ids", len(ids))),
	)
	defer span.End()

	products, err := r.next.FindByIDs(ctx, ids)
	if err != nil {
		recordError(span, err)
		return nil, err
	}
	span.SetAttributes(attribute.Int("result.count", len(products)))
	return products, nil
}

func (r *ProductRepositoryWithTracing) FindAll(ctx context.Context) ([]domain.Product, error) {
	ctx, span := tracer.Start(ctx, "repository.Product.FindAll")
	defer span.End()

	products, err := r.next.FindAll(ctx)
	if err != nil {
		recordError(span, err)
		return nil, err
	}
	span.SetAttributes(attribute.Int("result.count", len(products)))
	return products, nil
}

func (r *ProductRepositoryWithTracing) FindByCategory(ctx context.Context, pattern string, caseInsensitive bool) ([]domain.Product, error) {
	ctx, span := tracer.Start(ctx, "repository.Product.FindByCategory",
		trace.WithAttributes(
			attribute.String("query.category", pattern),
			attribute.Bool("query.case_insensitive", caseInsensitive),
		),
	)
	defer span.End()

	products, err := r.next.FindByCategory(ctx, pattern, caseInsensitive)
	if err != nil {
		recordError(span, err)
		return nil, err
	}
	span.SetAttributes(attribute.Int("result.count", len(products)))
	return products, nil
}

func recordError(span trace.Span, err error) {
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	}
}
