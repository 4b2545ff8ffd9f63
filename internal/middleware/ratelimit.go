package middleware

import (
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/ulule/limiter/v3"
	"github.com/ulule/limiter/v3/drivers/store/memory"
)

// Rate limit scopes. Each scope counts requests separately per client IP.
const (
	ScopeAPI      = "api"
	ScopeTransfer = "transfer"
)

// NewRateLimiter builds an in-process limiter from a formatted rate such as "100-M".
func NewRateLimiter(formatted string) (*limiter.Limiter, error) {
	rate, err := limiter.NewRateFromFormatted(formatted)
	if err != nil {
		return nil, err
	}
	return limiter.New(memory.NewStore(), rate), nil
}

// RateLimit rejects clients that exceed limiterInstance within scope with
// 429. Counters are keyed by scope and client IP, so a stricter limiter on
// money movements does not consume the general API allowance.
func RateLimit(limiterInstance *limiter.Limiter, scope string) gin.HandlerFunc {
	return func(c *gin.Context) {
		ip := c.ClientIP()
		logger := GetLoggerFromCtx(c.Request.Context()).With(
			slog.String("ip", ip),
			slog.String("rate_limit_scope", scope),
		)

		limitCtx, err := limiterInstance.Get(c.Request.Context(), scope+":"+ip)
		if err != nil {
			logger.Error("Failed to get rate limit context", slog.String("error", err.Error()))
			c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "Internal server error during rate limit check"})
			return
		}

		c.Header("X-RateLimit-Limit", strconv.FormatInt(limitCtx.Limit, 10))
		c.Header("X-RateLimit-Remaining", strconv.FormatInt(limitCtx.Remaining, 10))

		if limitCtx.Reached {
			logger.Warn("Rate limit exceeded", slog.Int64("limit", limitCtx.Limit))
			c.Header("Retry-After", strconv.FormatInt(max(limitCtx.Reset-time.Now().Unix(), 1), 10))
			c.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{"error": "Too many requests. Please try again later."})
			return
		}

		c.Next()
	}
}
