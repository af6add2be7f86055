package http

import (
	"net/http"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// RouterConfig holds router-level configuration
type RouterConfig struct {
	EnableLogging bool
	EnableTracing bool
	Gatherer      prometheus.Gatherer
	UploadDir     string // empty disables /uploads/
}

// NewRouter builds the service router with middlewares, metrics and static uploads
func NewRouter(h *ShopHandler, cfg RouterConfig) *mux.Router {
	router := mux.NewRouter()

	if cfg.EnableTracing {
		router.Use(TracingMiddleware("http-request"))
	}
	if cfg.EnableLogging {
		router.Use(LoggingMiddleware)
	}

	h.RegisterRoutes(router)

	if cfg.Gatherer != nil {
		router.Handle("/metrics", promhttp.HandlerFor(cfg.Gatherer, promhttp.HandlerOpts{})).Methods("GET")
	}
	if cfg.UploadDir != "" {
		router.PathPrefix("/uploads/").Handler(
			http.StripPrefix("/uploads/", http.FileServer(http.Dir(cfg.UploadDir))),
		).Methods("GET")
	}
	return router
}
