package shop

import (
	"github.com/tair/shopfront/internal/revocation"
	"github.com/tair/shopfront/internal/shop/delivery/http"
	"github.com/tair/shopfront/internal/shop/domain"
	"github.com/tair/shopfront/internal/shop/gate"
	"github.com/tair/shopfront/internal/shop/usecase/command"
	"github.com/tair/shopfront/internal/shop/usecase/query"
	"github.com/tair/shopfront/pkg/auth"
	"github.com/tair/shopfront/pkg/health"
	"github.com/tair/shopfront/pkg/keylock"
	"github.com/tair/shopfront/pkg/ratelimit"
)

// ClientURL is the storefront base URL used in emailed links
type ClientURL string

// Infrastructure holds the adapters built by main. CartEvents and Sessions
// must be left nil (not typed nil) when Kafka is disabled, as must Limiter and
// Health when unused.
type Infrastructure struct {
	Users      domain.UserRepository
	Products   domain.ProductRepository
	Registry   *revocation.Registry
	Tokens     *auth.TokenManager
	Mailer     domain.Mailer
	Files      domain.FileStore
	CartEvents command.CartEventPublisher
	Sessions   gate.SessionPublisher
	Limiter    *ratelimit.Limiter
	Health     *health.Checker
	Metrics    *http.Metrics
	ClientURL  ClientURL
	HTTP       http.Options
}

func ProvidePasswordHasher() domain.PasswordHasher {
	return auth.Bcrypt{}
}

func ProvideKeyLocker() *keylock.Locker {
	return keylock.New()
}

func ProvideUnitOfWork(users domain.UserRepository, locks *keylock.Locker) *command.UnitOfWork {
	return command.NewUnitOfWork(users, locks)
}

func ProvideGate(registry *revocation.Registry, verifier domain.TokenVerifier, users domain.UserRepository, sessions gate.SessionPublisher) *gate.Gate {
	return gate.New(registry, verifier, users, sessions)
}

// Command Handlers Providers
func ProvideSignupHandler(users domain.UserRepository, hasher domain.PasswordHasher) *command.SignupHandler {
	return command.NewSignupHandler(users, hasher)
}

func ProvideLoginHandler(users domain.UserRepository, hasher domain.PasswordHasher, tokens command.TokenIssuer) *command.LoginHandler {
	return command.NewLoginHandler(users, hasher, tokens)
}

func ProvideForgotPasswordHandler(uow *command.UnitOfWork, users domain.UserRepository, tokens command.ResetTokens, mailer domain.Mailer, clientURL ClientURL) *command.ForgotPasswordHandler {
	return command.NewForgotPasswordHandler(uow, users, tokens, mailer, string(clientURL))
}

func ProvideResetPasswordHandler(uow *command.UnitOfWork, tokens command.ResetTokens, hasher domain.PasswordHasher) *command.ResetPasswordHandler {
	return command.NewResetPasswordHandler(uow, tokens, hasher)
}

func ProvideCreateProductHandler(products domain.ProductRepository, files domain.FileStore) *command.CreateProductHandler {
	return command.NewCreateProductHandler(products, files)
}

func ProvideAddToCartHandler(uow *command.UnitOfWork, products domain.ProductRepository, events command.CartEventPublisher) *command.AddToCartHandler {
	return command.NewAddToCartHandler(uow, products, events)
}

func ProvideAdjustQuantityHandler(uow *command.UnitOfWork, events command.CartEventPublisher) *command.AdjustQuantityHandler {
	return command.NewAdjustQuantityHandler(uow, events)
}

func ProvideRemoveFromCartHandler(uow *command.UnitOfWork, products domain.ProductRepository, events command.CartEventPublisher) *command.RemoveFromCartHandler {
	return command.NewRemoveFromCartHandler(uow, products, events)
}

func ProvideClearCartHandler(uow *command.UnitOfWork, events command.CartEventPublisher) *command.ClearCartHandler {
	return command.NewClearCartHandler(uow, events)
}

func ProvideAddToWishlistHandler(uow *command.UnitOfWork, products domain.ProductRepository) *command.AddToWishlistHandler {
	return command.NewAddToWishlistHandler(uow, products)
}

func ProvideRemoveFromWishlistHandler(uow *command.UnitOfWork, products domain.ProductRepository) *command.RemoveFromWishlistHandler {
	return command.NewRemoveFromWishlistHandler(uow, products)
}

func ProvideClearWishlistHandler(uow *command.UnitOfWork, products domain.ProductRepository) *command.ClearWishlistHandler {
	return command.NewClearWishlistHandler(uow, products)
}

func ProvideMigrateWishlistHandler(uow *command.UnitOfWork, products domain.ProductRepository, events command.CartEventPublisher) *command.MigrateWishlistHandler {
	return command.NewMigrateWishlistHandler(uow, products, events)
}

// Query Handlers Providers
func ProvideGetCartHandler(users domain.UserRepository, products domain.ProductRepository) *query.GetCartHandler {
	return query.NewGetCartHandler(users, products)
}

func ProvideGetWishlistHandler(users domain.UserRepository, products domain.ProductRepository) *query.GetWishlistHandler {
	return query.NewGetWishlistHandler(users, products)
}

func ProvideListProductsHandler(products domain.ProductRepository) *query.ListProductsHandler {
	return query.NewListProductsHandler(products)
}

func ProvideGetProductHandler(products domain.ProductRepository) *query.GetProductHandler {
	return query.NewGetProductHandler(products)
}

func ProvideCheckTokenHandler(authenticator query.Authenticator) *query.CheckTokenHandler {
	return query.NewCheckTokenHandler(authenticator)
}
