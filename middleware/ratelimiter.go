package middleware

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/ulule/limiter/v3"
	ginlimiter "github.com/ulule/limiter/v3/drivers/middleware/gin"
	memory "github.com/ulule/limiter/v3/drivers/store/memory"
)

// RateLimiter returns a Gin middleware that limits requests per IP. Listing
// is cheap; event submission is the endpoint this mostly protects.
func RateLimiter() gin.HandlerFunc {
	store := memory.NewStore()
	rate := limiter.Rate{
		Period: 1 * time.Minute,
		Limit:  120,
	}

	instance := limiter.New(store, rate)
	return ginlimiter.NewMiddleware(instance)
}
