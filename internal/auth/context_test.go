package auth

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"google.golang.org/grpc/metadata"
)

func TestGetUserIDFromContext(t *testing.T) {
	assert.Equal(t, "u-1", GetUserID(WithUserID(context.Background(), "u-1")))
	assert.Equal(t, "", GetUserID(context.Background()))
}

func TestGetUserIDFromMetadata(t *testing.T) {
	ctx := metadata.NewIncomingContext(context.Background(), metadata.Pairs("x-user-id", "u-2"))
	assert.Equal(t, "u-2", GetUserID(ctx))
}

func TestMiddleware(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(Middleware())
	r.GET("/whoami", func(c *gin.Context) {
		c.String(http.StatusOK, GetUserID(c.Request.Context()))
	})

	req := httptest.NewRequest(http.MethodGet, "/whoami", nil)
	req.Header.Set(HeaderUserID, " u-3 ")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, "u-3", w.Body.String())
}
