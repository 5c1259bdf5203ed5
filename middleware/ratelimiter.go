package middleware

import (
	"log"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"github.com/ulule/limiter/v3"
	ginlimiter "github.com/ulule/limiter/v3/drivers/middleware/gin"
	memory "github.com/ulule/limiter/v3/drivers/store/memory"
	sredis "github.com/ulule/limiter/v3/drivers/store/redis"
)

// RateLimiter limits requests per client IP per minute. With a redis client the counters are
// shared across instances; otherwise they live in process memory.
func RateLimiter(perMinute int64, rdb *redis.Client) gin.HandlerFunc {
	rate := limiter.Rate{
		Period: 1 * time.Minute,
		Limit:  perMinute,
	}

	var store limiter.Store = memory.NewStore()
	if rdb != nil {
		s, err := sredis.NewStoreWithOptions(rdb, limiter.StoreOptions{Prefix: "vibra:ratelimit"})
		if err != nil {
			log.Printf("⚠️ redis rate limit store unavailable, using memory: %v", err)
		} else {
			store = s
		}
	}

	return ginlimiter.NewMiddleware(limiter.New(store, rate))
}
