package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// MaxRequestBody fits a maximal recipe image once base64 encoded.
const MaxRequestBody int64 = 16 << 20

// BodyLimit caps the size of request bodies. Reads past the limit fail with
// *http.MaxBytesError.
func BodyLimit(limit int64) gin.HandlerFunc {
	return func(c *gin.Context) {
		if c.Request.Body != nil {
			c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, limit)
		}
		c.Next()
	}
}
