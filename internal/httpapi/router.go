package httpapi

import (
	"net/http"
	"slices"
	"time"

	"github.com/fekuna/omnipos-stock-service/internal/auth"
	"github.com/fekuna/omnipos-stock-service/pkg/logger"
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// Registrar mounts a handler's routes on the versioned API group.
type Registrar interface {
	Register(rg *gin.RouterGroup)
}

type RouterConfig struct {
	AppEnv         string
	AllowedOrigins []string
}

func NewRouter(cfg RouterConfig, log logger.ZapLogger, handlers ...Registrar) *gin.Engine {
	if cfg.AppEnv != "dev" {
		gin.SetMode(gin.ReleaseMode)
	}

	engine := gin.New()
	engine.Use(gin.Recovery(), accessLog(log), auth.Middleware())

	corsCfg := cors.DefaultConfig()
	if len(cfg.AllowedOrigins) == 0 || slices.Contains(cfg.AllowedOrigins, "*") {
		corsCfg.AllowAllOrigins = true
	} else {
		corsCfg.AllowOrigins = cfg.AllowedOrigins
	}
	corsCfg.AllowHeaders = append(corsCfg.AllowHeaders, auth.HeaderUserID, "Accept-Language")
	engine.Use(cors.New(corsCfg))

	engine.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	api := engine.Group("/api/v1")
	for _, h := range handlers {
		h.Register(api)
	}
	return engine
}

// RequireUser rejects requests that carry no acting user.
func RequireUser() gin.HandlerFunc {
	return func(c *gin.Context) {
		if auth.GetUserID(c.Request.Context()) == "" {
			WriteUnauthenticated(c)
			return
		}
		c.Next()
	}
}

func accessLog(log logger.ZapLogger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		fields := []zap.Field{
			zap.String("method", c.Request.Method),
			zap.String("path", c.Request.URL.Path),
			zap.Int("status", c.Writer.Status()),
			zap.Duration("latency", time.Since(start)),
		}
		if userID := auth.GetUserID(c.Request.Context()); userID != "" {
			fields = append(fields, zap.String("user_id", userID))
		}

		switch {
		case c.Writer.Status() >= http.StatusInternalServerError:
			log.Error("http request", fields...)
		case c.Writer.Status() >= http.StatusBadRequest:
			log.Warn("http request", fields...)
		default:
			log.Debug("http request", fields...)
		}
	}
}
