package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// CORS restricts browser access to the configured front-end origin; an empty
// origine falls back to the permissive wildcard for local development.
// Content-Disposition is exposed so the export downloads keep their
// declaration file names.
func CORS(origine string) gin.HandlerFunc {
	if origine == "" {
		origine = "*"
	}
	return func(c *gin.Context) {
		c.Header("Access-Control-Allow-Origin", origine)
		if origine != "*" {
			c.Header("Vary", "Origin")
		}
		c.Header("Access-Control-Allow-Methods", "GET, POST, PUT, PATCH, DELETE, OPTIONS")
		c.Header("Access-Control-Allow-Headers", "Authorization, Content-Type, X-Request-ID")
		c.Header("Access-Control-Expose-Headers", "X-Request-ID, Content-Disposition")
		c.Header("Access-Control-Max-Age", "3600")
		if c.Request.Method == http.MethodOptions {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}
		c.Next()
	}
}
