package middleware

import (
	"net/http"
	"strconv"
	"time"

	"gamecritic/cache"
	"gamecritic/models"

	"github.com/gin-gonic/gin"
)

// RateLimit limits authenticated users to maxRequests per window.
// Applied to content-submission routes (comments, user reviews) so one
// account cannot flood the moderation queue. When Redis is unavailable
// the limiter allows everything.
func RateLimit(maxRequests int, window time.Duration) gin.HandlerFunc {
	return func(c *gin.Context) {
		if !cache.IsRedisAvailable() {
			c.Next()
			return
		}

		var userID uint
		if user, exists := c.Get("user"); exists {
			if u, ok := user.(models.User); ok {
				userID = u.ID
			}
		}
		if userID == 0 {
			userID = hashIP(c.ClientIP())
		}

		allowed, remaining, err := cache.CheckRateLimit(userID, maxRequests, window)
		if err != nil {
			// limiter failure never blocks traffic
			c.Next()
			return
		}

		c.Header("X-RateLimit-Limit", strconv.Itoa(maxRequests))
		c.Header("X-RateLimit-Remaining", strconv.Itoa(remaining))

		if !allowed {
			c.JSON(http.StatusTooManyRequests, gin.H{"error": "Rate limit exceeded"})
			c.Abort()
			return
		}

		c.Next()
	}
}

// hashIP converts an IP to a numeric ID for the limiter key space
func hashIP(ip string) uint {
	hash := uint(0)
	for _, r := range ip {
		hash = hash*31 + uint(r)
	}
	return hash
}
