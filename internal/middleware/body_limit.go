package middleware

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
)

// multipartOverhead is the allowance for multipart boundaries and part headers
// on top of the configured document size.
const multipartOverhead = 64 << 10

// BodyLimit caps the request body at maxBytes plus multipart overhead. Reads
// past the cap fail with *http.MaxBytesError.
func BodyLimit(maxBytes int64) gin.HandlerFunc {
	return func(c *gin.Context) {
		if c.Request.ContentLength > maxBytes+multipartOverhead {
			c.AbortWithStatusJSON(http.StatusRequestEntityTooLarge, gin.H{
				"status": "fail",
				"reason": fmt.Sprintf("request body (%d bytes) exceeds maximum allowed upload (%d bytes)",
					c.Request.ContentLength, maxBytes),
			})
			return
		}
		c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, maxBytes+multipartOverhead)
		c.Next()
	}
}
