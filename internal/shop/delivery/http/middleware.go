package http

import (
	"context"
	"net"
	"net/http"
	"strconv"
	"strings"
	"time"

	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
	"go.opentelemetry.io/otel/trace"

	"github.com/tair/shopfront/internal/shop/domain"
	"github.com/tair/shopfront/internal/shop/gate"
	"github.com/tair/shopfront/pkg/logger"
	"github.com/tair/shopfront/pkg/ratelimit"
)

const tokenCookie = "token"

type contextKey string

const identityKey contextKey = "identity"

// Authenticator resolves a session token to an Identity
type Authenticator interface {
	Authenticate(ctx context.Context, token string) (gate.Identity, error)
}

// IdentityFrom returns the Identity attached by AuthMiddleware
func IdentityFrom(ctx context.Context) (gate.Identity, bool) {
	id, ok := ctx.Value(identityKey).(gate.Identity)
	return id, ok
}

// tokenFromRequest reads the bearer token, falling back to the session cookie
func tokenFromRequest(r *http.Request) string {
	if h := r.Header.Get("Authorization"); h != "" {
		parts := strings.SplitN(h, " ", 2)
		if len(parts) == 2 && strings.EqualFold(parts[0], "Bearer") {
			return strings.TrimSpace(parts[1])
		}
		return ""
	}
	if c, err := r.Cookie(tokenCookie); err == nil {
		return c.Value
	}
	return ""
}

// AuthMiddleware runs the auth gate and attaches the Identity to the request
func AuthMiddleware(auth Authenticator) func(http.HandlerFunc) http.HandlerFunc {
	return func(next http.HandlerFunc) http.HandlerFunc {
		return func(w http.ResponseWriter, r *http.Request) {
			ctx := r.Context()
			id, err := auth.Authenticate(ctx, tokenFromRequest(r))
			if err != nil {
				logger.Warn(ctx).
					Str("path", r.URL.Path).
					Str("code", string(domain.CodeOf(err))).
					Msg("Authentication rejected")
				respondError(ctx, w, err)
				return
			}

			logger.Debug(ctx).Str("user_id", id.UserID()).Msg("User authenticated")
			next.ServeHTTP(w, r.WithContext(context.WithValue(ctx, identityKey, id)))
		}
	}
}

// RateLimitMiddleware limits requests per client address. A nil limiter
// disables it, and a limiter error lets the request through.
func RateLimitMiddleware(limiter *ratelimit.Limiter) func(http.HandlerFunc) http.HandlerFunc {
	return func(next http.HandlerFunc) http.HandlerFunc {
		if limiter == nil {
			return next
		}
		return func(w http.ResponseWriter, r *http.Request) {
			ctx := r.Context()
			identifier := clientIP(r)

			res, err := limiter.Allow(ctx, identifier)
			if err != nil {
				logger.Error(ctx).Err(err).Str("identifier", identifier).Msg("Rate limiter error")
				next.ServeHTTP(w, r)
				return
			}

			w.Header().Set("X-RateLimit-Limit", strconv.Itoa(res.Limit))
			w.Header().Set("X-RateLimit-Remaining", strconv.Itoa(res.Remaining))
			w.Header().Set("X-RateLimit-Reset", strconv.FormatInt(res.ResetAt.Unix(), 10))

			if !res.Allowed {
				logger.Warn(ctx).
					Str("identifier", identifier).
					Int("limit", res.Limit).
					Msg("Rate limit exceeded")
				w.Header().Set("Retry-After", strconv.Itoa(int(time.Until(res.ResetAt).Seconds())))
				respondJSON(w, http.StatusTooManyRequests, Response{
					Success: false,
					Error:   &ErrorBody{Code: "RATE_LIMITED", Message: "too many requests"},
				})
				return
			}
			next.ServeHTTP(w, r)
		}
	}
}

func clientIP(r *http.Request) string {
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}

// LoggingMiddleware logs HTTP requests with structured logging
func LoggingMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := &responseWriter{ResponseWriter: w, statusCode: http.StatusOK}

		ctx := r.Context()
		traceID := "no-trace"
		if span := trace.SpanFromContext(ctx); span.SpanContext().IsValid() {
			traceID = span.SpanContext().TraceID().String()
		}

		logger.Debug(ctx).
			Str("method", r.Method).
			Str("path", r.URL.Path).
			Str("remote_addr", r.RemoteAddr).
			Str("user_agent", r.UserAgent()).
			Msg("HTTP request started")

		next.ServeHTTP(ww, r)

		duration := time.Since(start)
		logEvent := logger.Info(ctx)
		if ww.statusCode >= 500 {
			logEvent = logger.Error(ctx)
		} else if ww.statusCode >= 400 {
			logEvent = logger.Warn(ctx)
		}
		logEvent.
			Str("method", r.Method).
			Str("path", r.URL.Path).
			Int("status", ww.statusCode).
			Int64("duration_ms", duration.Milliseconds()).
			Str("trace_id", traceID).
			Msg("HTTP request completed")
	})
}

// TracingMiddleware wraps HTTP handlers with OpenTelemetry tracing
func TracingMiddleware(operationName string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return otelhttp.NewHandler(next, operationName)
	}
}
