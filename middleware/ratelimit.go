package middleware

import (
	"fmt"
	"math"
	"net/http"
	"strconv"
	"time"

	"vitals-server/cache"

	"github.com/gin-gonic/gin"
)

const rateLimitMessage = "Too many requests, please try again later."

// RateLimit allows limit requests per client IP in each fixed window of store
// and reports the budget in RateLimit-* headers.
func RateLimit(store *cache.WindowCache, limit int) gin.HandlerFunc {
	policy := fmt.Sprintf("%d;w=%d", limit, int(store.Size().Seconds()))

	return func(c *gin.Context) {
		w := store.Hit(c.ClientIP())

		reset := int(math.Ceil(time.Until(w.ResetAt).Seconds()))
		if reset < 0 {
			reset = 0
		}
		remaining := limit - w.Count
		if remaining < 0 {
			remaining = 0
		}

		h := c.Writer.Header()
		h.Set("RateLimit-Policy", policy)
		h.Set("RateLimit-Limit", strconv.Itoa(limit))
		h.Set("RateLimit-Remaining", strconv.Itoa(remaining))
		h.Set("RateLimit-Reset", strconv.Itoa(reset))

		if w.Count > limit {
			h.Set("Retry-After", strconv.Itoa(reset))
			AbortWithEnvelope(c, http.StatusTooManyRequests, rateLimitMessage)
			return
		}
		c.Next()
	}
}
