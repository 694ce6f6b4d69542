package handlers

import (
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

const (
	userCtxKey      = "userId"
	requestIDHeader = "X-Request-ID"
	requestIDCtxKey = "requestId"
)

// userIdentityMiddleware authenticates the request from its bearer token
// and stores the user id for downstream ownership scoping.
func (h *Handler) userIdentityMiddleware(c *gin.Context) {
	header := c.GetHeader("Authorization")
	if header == "" {
		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
			"error": "missing Authorization header",
		})
		return
	}

	parts := strings.SplitN(header, " ", 2)
	if len(parts) != 2 || parts[0] != "Bearer" {
		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
			"error": "invalid Authorization header format",
		})
		return
	}

	userID, err := h.services.ParseToken(parts[1])
	if err != nil {
		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
			"error": "invalid or expired token",
		})
		return
	}

	// store in Gin context
	c.Set(userCtxKey, userID)
	c.Next()
}

// userID extracts the authenticated user id placed by the middleware.
func userID(c *gin.Context) (int, bool) {
	v, ok := c.Get(userCtxKey)
	if !ok {
		return 0, false
	}
	id, ok := v.(int)
	return id, ok
}

// requestIDMiddleware tags each request with an id, honoring one supplied
// by the client.
func (h *Handler) requestIDMiddleware(c *gin.Context) {
	id := c.GetHeader(requestIDHeader)
	if id == "" {
		id = uuid.NewString()
	}
	c.Set(requestIDCtxKey, id)
	c.Writer.Header().Set(requestIDHeader, id)
	c.Next()
}

// accessLogMiddleware logs one line per request with status and duration.
func (h *Handler) accessLogMiddleware(c *gin.Context) {
	if h.log == nil {
		c.Next()
		return
	}
	start := time.Now()
	c.Next()
	h.log.Infow("http_request",
		"method", c.Request.Method,
		"path", c.Request.URL.Path,
		"status", c.Writer.Status(),
		"duration", time.Since(start),
		"request_id", c.GetString(requestIDCtxKey),
	)
}
