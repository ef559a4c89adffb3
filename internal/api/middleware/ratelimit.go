package middleware

import (
	"strconv"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/madinti/madinti-api/internal/core/domain"
	"github.com/madinti/madinti-api/internal/core/ports"
	"github.com/madinti/madinti-api/pkg/metrics"
)

// RateLimit limits requests per client IP. Limiter errors let the request
// through: an unavailable Redis must not take authentication down with it.
func RateLimit(limiter ports.RateLimiter, log zerolog.Logger) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			d, err := limiter.Allow(c.Request().Context(), "ip:"+c.RealIP())
			if err != nil {
				log.Warn().Err(err).Msg("rate limiter unavailable, allowing request")
				return next(c)
			}

			h := c.Response().Header()
			h.Set("X-RateLimit-Limit", strconv.Itoa(d.Limit))
			h.Set("X-RateLimit-Remaining", strconv.Itoa(d.Remaining))

			if !d.Allowed {
				metrics.RateLimitedTotal.Inc()
				h.Set("Retry-After", strconv.Itoa(int(d.ResetIn.Seconds())))
				return domain.ErrRateLimited
			}
			return next(c)
		}
	}
}
