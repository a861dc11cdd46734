package requestid

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"time"

	"github.com/gin-gonic/gin"
)

const (
	headerKey  = "X-Request-ID"
	contextKey = "request_id"

	// idPrefix marks ids minted by this API, as opposed to ones passed in
	// by the portal frontends or a gateway.
	idPrefix = "pms-"
)

// Middleware tags each request with an id, honoring one supplied upstream.
func Middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		reqID := c.GetHeader(headerKey)
		if reqID == "" {
			reqID = generateID()
		}

		c.Set(contextKey, reqID)
		c.Writer.Header().Set(headerKey, reqID)

		c.Next()
	}
}

// Value returns the request ID stored in the Gin context.
func Value(c *gin.Context) string {
	if v, exists := c.Get(contextKey); exists {
		if id, ok := v.(string); ok {
			return id
		}
	}
	return ""
}

func generateID() string {
	buf := make([]byte, 12)
	if _, err := rand.Read(buf); err == nil {
		return idPrefix + hex.EncodeToString(buf)
	}

	return fmt.Sprintf("%s%d", idPrefix, time.Now().UnixNano())
}
