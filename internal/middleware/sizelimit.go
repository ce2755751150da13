package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/xyvra/marketplace-api/internal/handler"
)

// SizeLimit rejects bodies above maxBytes before handlers read them.
func SizeLimit(maxBytes int64) gin.HandlerFunc {
	return func(c *gin.Context) {
		if c.Request.ContentLength > maxBytes {
			c.JSON(http.StatusRequestEntityTooLarge, handler.NewErrorResponse("request body too large"))
			c.Abort()
			return
		}
		c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, maxBytes)
		c.Next()
	}
}
