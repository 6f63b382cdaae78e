package middleware

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/taskboard/task-api/internal/api/metrics"
	"github.com/taskboard/task-api/internal/core/ports"
)

const (
	headerRateLimitLimit     = "X-RateLimit-Limit"
	headerRateLimitRemaining = "X-RateLimit-Remaining"
	headerRateLimitReset     = "X-RateLimit-Reset"
)

// RateLimit throttles requests per client IP. When the limiter itself fails
// the request is let through and the failure logged.
func RateLimit(limiter ports.RateLimiter, log zerolog.Logger) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			key := "ip:" + c.RealIP()

			res, err := limiter.Allow(c.Request().Context(), key)
			if err != nil {
				metrics.RateLimitDecisionsTotal.WithLabelValues("error").Inc()
				log.Warn().Err(err).Str("key", key).Msg("rate limiter unavailable, allowing request")
				return next(c)
			}

			h := c.Response().Header()
			h.Set(headerRateLimitLimit, strconv.Itoa(res.Limit))
			h.Set(headerRateLimitRemaining, strconv.Itoa(res.Remaining))
			h.Set(headerRateLimitReset, strconv.FormatInt(res.ResetAt.Unix(), 10))

			if !res.Allowed {
				metrics.RateLimitDecisionsTotal.WithLabelValues("limited").Inc()
				h.Set(echo.HeaderRetryAfter, strconv.Itoa(int(res.RetryAfter.Seconds())))
				return echo.NewHTTPError(http.StatusTooManyRequests,
					"Too many requests from this IP, please try again later.")
			}

			metrics.RateLimitDecisionsTotal.WithLabelValues("allowed").Inc()
			return next(c)
		}
	}
}
