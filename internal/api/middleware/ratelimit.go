package middleware

import (
	"context"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/sessionless/auth-api/internal/api/metrics"
)

// AttemptLimiter is the per-subject attempt budget consulted before the
// issuance endpoints run.
type AttemptLimiter interface {
	Allow(ctx context.Context, scope, subject string) (bool, error)
}

// RateLimit rejects requests once a client IP exhausts its attempt budget
// for the route. Limiter errors fail open: an unreachable limiter backend
// must not take token issuance down with it.
func RateLimit(limiter AttemptLimiter, log zerolog.Logger) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			ok, err := limiter.Allow(c.Request().Context(), c.Path(), c.RealIP())
			if err != nil {
				log.Warn().Err(err).Str("path", c.Path()).Msg("rate limiter unavailable, failing open")
				return next(c)
			}
			if !ok {
				metrics.RateLimitedTotal.WithLabelValues(c.Path()).Inc()
				return echo.NewHTTPError(http.StatusTooManyRequests, "too many requests")
			}
			return next(c)
		}
	}
}
