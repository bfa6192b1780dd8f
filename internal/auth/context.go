package auth

import (
	"context"
	"strings"

	"github.com/gin-gonic/gin"
	"google.golang.org/grpc/metadata"
)

// HeaderUserID carries the acting user. Authentication happens upstream.
const HeaderUserID = "X-User-ID"

type ctxKey struct{}

// WithUserID binds the acting user to ctx.
func WithUserID(ctx context.Context, userID string) context.Context {
	return context.WithValue(ctx, ctxKey{}, userID)
}

// GetUserID returns the acting user bound to ctx, falling back to incoming
// gRPC metadata.
func GetUserID(ctx context.Context) string {
	if val, ok := ctx.Value(ctxKey{}).(string); ok {
		return val
	}

	md, ok := metadata.FromIncomingContext(ctx)
	if ok {
		if val := md.Get(strings.ToLower(HeaderUserID)); len(val) > 0 {
			return val[0]
		}
	}
	return ""
}

// Middleware copies the acting user header into the request context.
func Middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		if userID := strings.TrimSpace(c.GetHeader(HeaderUserID)); userID != "" {
			c.Request = c.Request.WithContext(WithUserID(c.Request.Context(), userID))
		}
		c.Next()
	}
}
