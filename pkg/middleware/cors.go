package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// CORS allows the web client to read the token response headers. Kept
// intentionally permissive for dev/test; production should use a stricter
// origin policy.
func CORS() gin.HandlerFunc {
	return func(c *gin.Context) {
		h := c.Writer.Header()
		h.Set("Access-Control-Allow-Origin", "*")
		h.Set("Access-Control-Allow-Methods", "GET, POST, HEAD, OPTIONS, PUT, PATCH, DELETE")
		h.Set("Access-Control-Allow-Headers", "Origin, X-Requested-With, Content-Type, Accept, "+HeaderAccessToken+", "+HeaderRefreshToken+", "+HeaderUserID)
		h.Set("Access-Control-Expose-Headers", HeaderAccessToken+", "+HeaderRefreshToken)
		if c.Request.Method == http.MethodOptions {
			c.AbortWithStatus(http.StatusOK)
			return
		}
		c.Next()
	}
}
