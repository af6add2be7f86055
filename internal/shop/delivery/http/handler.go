package http

import (
	"context"
	"net/http"
	"time"

	"github.com/gorilla/mux"

	"github.com/tair/shopfront/internal/shop/usecase/command"
	"github.com/tair/shopfront/internal/shop/usecase/query"
	"github.com/tair/shopfront/pkg/health"
	"github.com/tair/shopfront/pkg/ratelimit"
)

// SessionGate authenticates requests and revokes sessions
type SessionGate interface {
	Authenticator
	Logout(ctx context.Context, token string) error
}

// Options controls cookie and upload behaviour
type Options struct {
	SecureCookies bool
	TokenTTL      time.Duration
}

// ShopHandler handles HTTP requests using the CQRS handlers
type ShopHandler struct {
	commands *command.Handlers
	queries  *query.Handlers
	gate     SessionGate
	limiter  *ratelimit.Limiter
	health   *health.Checker
	metrics  *Metrics
	opts     Options
}

// NewShopHandler creates the HTTP handler. limiter and checker may be nil.
func NewShopHandler(
	commands *command.Handlers,
	queries *query.Handlers,
	gate SessionGate,
	limiter *ratelimit.Limiter,
	checker *health.Checker,
	metrics *Metrics,
	opts Options,
) *ShopHandler {
	return &ShopHandler{
		commands: commands,
		queries:  queries,
		gate:     gate,
		limiter:  limiter,
		health:   checker,
		metrics:  metrics,
		opts:     opts,
	}
}

func (h *ShopHandler) RegisterRoutes(router *mux.Router) {
	m := h.metrics.middleware
	authed := AuthMiddleware(h.gate)
	limited := RateLimitMiddleware(h.limiter)

	// Auth
	router.HandleFunc("/auth/signup", m("/auth/signup", limited(h.Signup))).Methods("POST")
	router.HandleFunc("/auth/login", m("/auth/login", limited(h.Login))).Methods("POST")
	router.HandleFunc("/auth/logout", m("/auth/logout", h.Logout)).Methods("POST")
	router.HandleFunc("/auth/forgot-password", m("/auth/forgot-password", limited(h.ForgotPassword))).Methods("POST")
	router.HandleFunc("/auth/reset-password/{token}", m("/auth/reset-password/{token}", limited(h.ResetPassword))).Methods("POST")
	router.HandleFunc("/auth/check-token", m("/auth/check-token", h.CheckToken)).Methods("GET")

	// Catalog
	router.HandleFunc("/products", m("/products", h.ListProducts)).Methods("GET")
	router.HandleFunc("/products", m("/products", h.CreateProduct)).Methods("POST")
	router.HandleFunc("/products/{id}", m("/products/{id}", h.GetProduct)).Methods("GET")

	// Cart
	router.HandleFunc("/cart", m("/cart", authed(h.GetCart))).Methods("GET")
	router.HandleFunc("/cart", m("/cart", authed(h.ClearCart))).Methods("DELETE")
	router.HandleFunc("/cart/items", m("/cart/items", authed(h.AddToCart))).Methods("POST")
	router.HandleFunc("/cart/items/{productId}", m("/cart/items/{productId}", authed(h.AdjustQuantity))).Methods("PATCH")
	router.HandleFunc("/cart/items/{productId}", m("/cart/items/{productId}", authed(h.RemoveFromCart))).Methods("DELETE")

	// Wishlist
	router.HandleFunc("/wishlist", m("/wishlist", authed(h.GetWishlist))).Methods("GET")
	router.HandleFunc("/wishlist", m("/wishlist", authed(h.ClearWishlist))).Methods("DELETE")
	router.HandleFunc("/wishlist/items", m("/wishlist/items", authed(h.AddToWishlist))).Methods("POST")
	router.HandleFunc("/wishlist/items/{productId}", m("/wishlist/items/{productId}", authed(h.RemoveFromWishlist))).Methods("DELETE")
	router.HandleFunc("/wishlist/migrate", m("/wishlist/migrate", authed(h.MigrateWishlist))).Methods("POST")

	router.HandleFunc("/health", h.Health).Methods("GET")
}

// Health handles GET /health
func (h *ShopHandler) Health(w http.ResponseWriter, r *http.Request) {
	if h.health == nil {
		respondJSON(w, http.StatusOK, health.Report{Status: health.StatusHealthy})
		return
	}
	report := h.health.Check(r.Context())
	status := http.StatusOK
	if report.Status == health.StatusUnhealthy {
		status = http.StatusServiceUnavailable
	}
	respondJSON(w, status, report)
}
