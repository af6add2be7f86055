//go:build wireinject
// +build wireinject

package shop

import (
	"github.com/google/wire"

	"github.com/tair/shopfront/internal/shop/delivery/http"
	"github.com/tair/shopfront/internal/shop/domain"
	"github.com/tair/shopfront/internal/shop/gate"
	"github.com/tair/shopfront/internal/shop/usecase/command"
	"github.com/tair/shopfront/internal/shop/usecase/query"
	"github.com/tair/shopfront/pkg/auth"
)

var InfrastructureSet = wire.NewSet(
	wire.FieldsOf(new(*Infrastructure),
		"Users", "Products", "Registry", "Tokens", "Mailer", "Files",
		"CartEvents", "Sessions", "Limiter", "Health", "Metrics", "ClientURL", "HTTP",
	),
	wire.Bind(new(domain.TokenVerifier), new(*auth.TokenManager)),
	wire.Bind(new(command.TokenIssuer), new(*auth.TokenManager)),
	wire.Bind(new(command.ResetTokens), new(*auth.TokenManager)),
	ProvidePasswordHasher,
	ProvideKeyLocker,
	ProvideUnitOfWork,
	ProvideGate,
	wire.Bind(new(http.SessionGate), new(*gate.Gate)),
	wire.Bind(new(query.Authenticator), new(*gate.Gate)),
)

var CommandHandlerSet = wire.NewSet(
	ProvideSignupHandler,
	ProvideLoginHandler,
	ProvideForgotPasswordHandler,
	ProvideResetPasswordHandler,
	ProvideCreateProductHandler,
	ProvideAddToCartHandler,
	ProvideAdjustQuantityHandler,
	ProvideRemoveFromCartHandler,
	ProvideClearCartHandler,
	ProvideAddToWishlistHandler,
	ProvideRemoveFromWishlistHandler,
	ProvideClearWishlistHandler,
	ProvideMigrateWishlistHandler,
	wire.Struct(new(command.Handlers), "*"),
)

var QueryHandlerSet = wire.NewSet(
	ProvideGetCartHandler,
	ProvideGetWishlistHandler,
	ProvideListProductsHandler,
	ProvideGetProductHandler,
	ProvideCheckTokenHandler,
	wire.Struct(new(query.Handlers), "*"),
)

var AllHandlersSet = wire.NewSet(
	InfrastructureSet,
	CommandHandlerSet,
	QueryHandlerSet,
)

// InitializeHTTPHandler initializes the HTTP handler with all dependencies
func InitializeHTTPHandler(infra *Infrastructure) (*http.ShopHandler, error) {
	wire.Build(
		AllHandlersSet,
		http.NewShopHandler,
	)
	return nil, nil
}
