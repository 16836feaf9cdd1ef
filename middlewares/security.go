package middlewares

import (
	"github.com/gin-gonic/gin"
)

// SecurityHeaders untuk service API murni: tidak ada halaman HTML yang
// dilayani, jadi respons tidak boleh di-cache dan tidak boleh di-frame
func SecurityHeaders() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Header("X-Frame-Options", "DENY")
		c.Header("X-Content-Type-Options", "nosniff")
		c.Header("Referrer-Policy", "strict-origin-when-cross-origin")
		c.Header("Strict-Transport-Security", "max-age=31536000; includeSubDomains")
		c.Header("Cache-Control", "no-store")

		c.Next()
	}
}
