package middleware

import (
	"housiee-backend/internal/shared/utils"

	"github.com/gin-gonic/gin"
)

const clientIPKey = "client_ip"

// ClientIP extracts the client IP once per request so the logger and the
// rate limiter agree on it.
//
// Usage:
//
//	router.Use(middleware.ClientIP())
func ClientIP() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Set(clientIPKey, utils.ExtractClientIP(c))
		c.Next()
	}
}

// GetClientIP returns the IP stored by ClientIP, extracting it when the
// middleware did not run.
func GetClientIP(c *gin.Context) string {
	if ip := c.GetString(clientIPKey); ip != "" {
		return ip
	}
	return utils.ExtractClientIP(c)
}
