package middleware

import (
	"github.com/gin-gonic/gin"
)

// SecurityHeaders adds standard security headers to all responses
func SecurityHeaders() gin.HandlerFunc {
	return func(c *gin.Context) {
		// Prevent clickjacking attacks
		c.Header("X-Frame-Options", "DENY")

		// Prevent MIME type sniffing
		c.Header("X-Content-Type-Options", "nosniff")

		// Referrer Policy - controls how much referrer information is sent
		c.Header("Referrer-Policy", "strict-origin-when-cross-origin")

		// API serves JSON only; forbid embedding entirely
		c.Header("Content-Security-Policy", "default-src 'none'; frame-ancestors 'none'")

		// Strict Transport Security - only meaningful over HTTPS
		if c.Request.TLS != nil {
			c.Header("Strict-Transport-Security", "max-age=31536000; includeSubDomains")
		}

		c.Next()
	}
}
