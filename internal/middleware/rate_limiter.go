package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"golang.org/x/time/rate"

	"github.com/devtogether/platform-api/internal/handler"
)

type RateLimiterConfig struct {
	RPS   float64
	Burst int
}

type RateLimiter struct {
	limiter *rate.Limiter
}

func NewRateLimiter(config RateLimiterConfig) *RateLimiter {
	return &RateLimiter{
		limiter: rate.NewLimiter(rate.Limit(config.RPS), config.Burst),
	}
}

func (rl *RateLimiter) RateLimit() gin.HandlerFunc {
	return func(c *gin.Context) {
		if !rl.limiter.Allow() {
			c.AbortWithStatusJSON(http.StatusTooManyRequests,
				handler.NewErrorResponse("rate limit exceeded"))
			return
		}
		c.Next()
	}
}
