package middleware

import (
	"fmt"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/princeprakhar/shopfront-api/internal/config"
	"github.com/ulule/limiter/v3"
	mgin "github.com/ulule/limiter/v3/drivers/middleware/gin"
	"github.com/ulule/limiter/v3/drivers/store/memory"
)

// RateLimitMiddleware limits requests per second per client and path. A
// non-positive RATE_LIMIT_RPS disables it.
func RateLimitMiddleware(cfg *config.Config) gin.HandlerFunc {
	if cfg.RateLimitRPS <= 0 {
		return func(c *gin.Context) { c.Next() }
	}

	rate := limiter.Rate{
		Period: time.Second,
		Limit:  int64(cfg.RateLimitRPS),
	}

	store := memory.NewStore()
	instance := limiter.New(store, rate, limiter.WithTrustForwardHeader(true))

	return mgin.NewMiddleware(instance, mgin.WithKeyGetter(func(c *gin.Context) string {
		return fmt.Sprintf("%s:%s", c.ClientIP(), c.Request.URL.Path)
	}))
}
