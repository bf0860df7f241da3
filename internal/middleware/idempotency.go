package middleware

import (
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"

	"go-ats/internal/shared/response"
)

// Gin context keys the protected handler uses to finish the idempotency
// cycle (cache the response, release the lock).
const (
	KeyIdempotencyCache = "idempotency_cache_key"
	KeyIdempotencyLock  = "idempotency_lock_key"
)

// Idempotency replays the cached response for a repeated
// Idempotency-Key and rejects a duplicate that arrives while the first
// attempt is still in flight. Claims retried by a flaky client must not
// consume a second manpower slot.
func Idempotency(rdb *redis.Client) gin.HandlerFunc {
	return func(c *gin.Context) {
		idempKey := c.GetHeader("Idempotency-Key")
		if rdb == nil || idempKey == "" || c.Request.Method != http.MethodPost {
			c.Next()
			return
		}

		actor := c.GetString(KeyActorEmail)
		cacheKey := fmt.Sprintf("idemp:%s:%s:%s", c.FullPath(), actor, idempKey)
		lockKey := cacheKey + ":lock"

		if val, err := rdb.Get(c.Request.Context(), cacheKey).Result(); err == nil {
			var cached any
			if err := json.Unmarshal([]byte(val), &cached); err == nil {
				c.AbortWithStatusJSON(http.StatusOK, response.ApiEnvelope{Ok: true, Data: cached})
				return
			}
		}

		// Short expiry so a crashed attempt cannot wedge the key forever.
		isNew, _ := rdb.SetNX(c.Request.Context(), lockKey, "locked", 30*time.Second).Result()
		if !isNew {
			response.Error(c, http.StatusConflict, "PROCESSING", "A request with this idempotency key is already in progress", nil)
			c.Abort()
			return
		}

		c.Set(KeyIdempotencyCache, cacheKey)
		c.Set(KeyIdempotencyLock, lockKey)

		c.Next()
	}
}
