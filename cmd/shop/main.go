package main

import (
	"context"
	"errors"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	gcs "cloud.google.com/go/storage"
	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/redis/go-redis/v9"
	"github.com/rs/cors"
	"golang.org/x/sync/errgroup"

	"github.com/tair/shopfront/internal/revocation"
	"github.com/tair/shopfront/internal/shop"
	grpcDelivery "github.com/tair/shopfront/internal/shop/delivery/grpc"
	httpDelivery "github.com/tair/shopfront/internal/shop/delivery/http"
	"github.com/tair/shopfront/internal/shop/domain"
	"github.com/tair/shopfront/internal/shop/repository"
	"github.com/tair/shopfront/kafka"
	"github.com/tair/shopfront/pkg/auth"
	"github.com/tair/shopfront/pkg/circuitbreaker"
	"github.com/tair/shopfront/pkg/config"
	"github.com/tair/shopfront/pkg/database"
	"github.com/tair/shopfront/pkg/health"
	"github.com/tair/shopfront/pkg/logger"
	"github.com/tair/shopfront/pkg/mail"
	"github.com/tair/shopfront/pkg/ratelimit"
	"github.com/tair/shopfront/pkg/storage"
	"github.com/tair/shopfront/pkg/tracing"
)

const serviceName = "shopfront"

func main() {
	cfg := config.Load()

	logger.Init(logger.Options{
		Service:     serviceName,
		Development: cfg.IsDevelopment(),
		Level:       cfg.LogLevel,
	})

	if err := cfg.Validate(); err != nil {
		logger.Logger.Fatal().Err(err).Msg("Invalid configuration")
	}
	if cfg.JWTSecret == "" {
		cfg.JWTSecret = "dev-secret-change-me"
		logger.Logger.Warn().Msg("JWT_SECRET not set, using development secret")
	}

	logger.Logger.Info().
		Str("environment", cfg.AppEnv).
		Str("store", cfg.StoreBackend).
		Str("log_level", cfg.LogLevel).
		Msg("Starting shop service")

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if cfg.TracingEnabled {
		tp, err := tracing.InitTracer(ctx, serviceName, cfg.JaegerEndpoint)
		if err != nil {
			logger.Logger.Fatal().Err(err).Msg("Failed to initialize tracer")
		}
		defer func() {
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			if err := tracing.Shutdown(shutdownCtx, tp); err != nil {
				logger.Logger.Error().Err(err).Msg("Failed to shutdown tracer")
			}
		}()
	}

	checker := health.NewChecker(serviceName, 2*time.Second)
	instanceID := uuid.NewString()

	// Stores
	var (
		users    domain.UserRepository
		products domain.ProductRepository
	)
	switch cfg.StoreBackend {
	case "memory":
		users = repository.NewMemoryUserRepository()
		products = repository.NewMemoryProductRepository()
		logger.Logger.Warn().Msg("Using in-memory stores, data is lost on restart")
	default:
		sqlDB, err := database.NewPostgresConnection(ctx, cfg.Database)
		if err != nil {
			logger.Logger.Fatal().Err(err).Msg("Failed to connect to database")
		}
		defer sqlDB.Close()

		db, err := database.NewGorm(sqlDB)
		if err != nil {
			logger.Logger.Fatal().Err(err).Msg("Failed to initialize GORM")
		}

		userRepo := repository.NewGormUserRepository(db)
		productRepo := repository.NewGormProductRepository(db)
		if err := userRepo.AutoMigrate(); err != nil {
			logger.Logger.Fatal().Err(err).Msg("Failed to run user migrations")
		}
		if err := productRepo.AutoMigrate(); err != nil {
			logger.Logger.Fatal().Err(err).Msg("Failed to run product migrations")
		}
		users = userRepo
		products = productRepo
		checker.Register("postgres", sqlDB.PingContext)

		logger.Logger.Info().Msg("Database initialized successfully")
	}
	users = repository.NewUserRepositoryWithTracing(users)
	products = repository.NewProductRepositoryWithTracing(products)

	// Redis: catalog cache and auth rate limit
	var limiter *ratelimit.Limiter
	if cfg.RedisAddr != "" {
		rdb := redis.NewClient(&redis.Options{
			Addr:     cfg.RedisAddr,
			Password: cfg.RedisPassword,
			DB:       cfg.RedisDB,
		})
		defer rdb.Close()

		pingCtx, cancel := context.WithTimeout(ctx, 2*time.Second)
		if err := rdb.Ping(pingCtx).Err(); err != nil {
			logger.Logger.Warn().Err(err).Msg("Redis not reachable at startup, cache will fall back to the store")
		}
		cancel()

		breaker := circuitbreaker.New("redis", 5, 30*time.Second)
		products = repository.NewCachedProductRepository(products, rdb, cfg.CatalogCacheTTL, breaker)
		limiter = ratelimit.NewLimiter(rdb, "auth", cfg.RateLimitMax, cfg.RateLimitWindow)
		checker.Register("redis", func(ctx context.Context) error { return rdb.Ping(ctx).Err() })
		checker.Register("catalog_cache", func(context.Context) error {
			if breaker.State() == circuitbreaker.StateOpen {
				return errors.New("circuit open, serving from the store")
			}
			return nil
		})

		logger.Logger.Info().Str("addr", cfg.RedisAddr).Msg("Redis cache and rate limiter enabled")
	}

	// Revocation registry and its replication over Kafka
	registry := revocation.NewRegistry(cfg.TokenTTL)
	tokens := auth.NewTokenManager(cfg.JWTSecret, cfg.TokenTTL, cfg.ResetTokenTTL)

	infra := &shop.Infrastructure{
		Users:     users,
		Products:  products,
		Registry:  registry,
		Tokens:    tokens,
		Limiter:   limiter,
		Health:    checker,
		ClientURL: shop.ClientURL(cfg.ClientURL),
		HTTP: httpDelivery.Options{
			SecureCookies: cfg.IsProduction(),
			TokenTTL:      cfg.TokenTTL,
		},
	}

	var consumer *kafka.Consumer
	if len(cfg.KafkaBrokers) > 0 {
		publisher, err := kafka.NewPublisher(cfg.KafkaBrokers, instanceID)
		if err != nil {
			logger.Logger.Fatal().Err(err).Msg("Failed to create Kafka publisher")
		}
		defer publisher.Close()
		infra.CartEvents = publisher
		infra.Sessions = publisher

		// every instance needs every revocation, so each gets its own group
		consumer, err = kafka.NewConsumer(cfg.KafkaBrokers, cfg.KafkaGroupID+"-"+instanceID, []string{kafka.TopicSessionRevoked})
		if err != nil {
			logger.Logger.Fatal().Err(err).Msg("Failed to create Kafka consumer")
		}
		replicator := revocation.NewReplicator(registry, instanceID)
		consumer.RegisterHandler(kafka.EventTypeSessionRevoked, kafka.SessionRevokedHandler(replicator.HandleSessionRevoked))
	} else {
		logger.Logger.Warn().Msg("KAFKA_BROKERS not set, events disabled and logout stays local to this instance")
	}

	// Mail
	if cfg.SendGridAPIKey != "" {
		infra.Mailer = mail.NewSendGridSender(cfg.SendGridAPIKey, "Shopfront", cfg.MailFrom)
	} else {
		infra.Mailer = mail.LogSender{}
		logger.Logger.Warn().Msg("SENDGRID_API_KEY not set, emails are only logged")
	}

	// File store
	uploadDir := ""
	switch cfg.FileStore {
	case "gcs":
		client, err := gcs.NewClient(ctx)
		if err != nil {
			logger.Logger.Fatal().Err(err).Msg("Failed to create GCS client")
		}
		defer client.Close()
		infra.Files = storage.NewGCSStore(client, cfg.GCSBucket, "products")
	default:
		local, err := storage.NewLocalStore(cfg.UploadDir, "/uploads")
		if err != nil {
			logger.Logger.Fatal().Err(err).Msg("Failed to prepare upload directory")
		}
		infra.Files = local
		uploadDir = cfg.UploadDir
	}

	// Metrics
	promRegistry := prometheus.NewRegistry()
	promRegistry.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	infra.Metrics = httpDelivery.NewMetrics(promRegistry, registry)

	handler, err := shop.InitializeHTTPHandler(infra)
	if err != nil {
		logger.Logger.Fatal().Err(err).Msg("Failed to initialize handler")
	}

	router := httpDelivery.NewRouter(handler, httpDelivery.RouterConfig{
		EnableLogging: true,
		EnableTracing: cfg.TracingEnabled,
		Gatherer:      promRegistry,
		UploadDir:     uploadDir,
	})

	c := cors.New(cors.Options{
		AllowedOrigins:   cfg.CORSOrigins,
		AllowedMethods:   []string{"GET", "POST", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Authorization", "Content-Type"},
		AllowCredentials: true,
	})

	httpServer := &http.Server{
		Addr:              ":" + cfg.HTTPPort,
		Handler:           c.Handler(router),
		ReadHeaderTimeout: 10 * time.Second,
	}
	grpcServer := grpcDelivery.NewServer()

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		registry.Run(gctx, cfg.RevocationSweepInterval)
		return nil
	})

	if consumer != nil {
		consumer.Start(gctx)
	}

	g.Go(func() error {
		logger.Logger.Info().
			Str("port", cfg.HTTPPort).
			Str("metrics_endpoint", "/metrics").
			Msg("HTTP server started")
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})

	g.Go(func() error {
		lis, err := net.Listen("tcp", ":"+cfg.GRPCPort)
		if err != nil {
			return err
		}
		return grpcServer.Serve(lis)
	})

	g.Go(func() error {
		<-gctx.Done()
		logger.Logger.Info().Msg("Shutting down servers...")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
		defer cancel()

		grpcServer.Stop(shutdownCtx)
		if consumer != nil {
			if err := consumer.Close(); err != nil {
				logger.Logger.Error().Err(err).Msg("Failed to close Kafka consumer")
			}
		}
		return httpServer.Shutdown(shutdownCtx)
	})

	if err := g.Wait(); err != nil {
		logger.Logger.Error().Err(err).Msg("Server stopped with error")
		os.Exit(1)
	}
	logger.Logger.Info().Msg("Shutdown complete")
}
