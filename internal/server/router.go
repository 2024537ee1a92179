// internal/server/router.go
package server

import (
	"fmt"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	apperrors "donde-engine/internal/common/errors"
	"donde-engine/internal/common/logger"
)

const requestIDHeader = "X-Request-ID"

// NewRouter wires the HTTP surface: the recommendation endpoint, health, and
// metrics.
func NewRouter(h *Handler, allowedOrigins []string, log logger.Logger) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)
	router := gin.New()

	router.Use(recovery(log))
	router.Use(requestID())
	router.Use(accessLog(log))
	router.Use(cors.New(corsConfig(allowedOrigins)))

	router.GET("/healthz", h.Health)
	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	v1 := router.Group("/api/v1")
	v1.POST("/recommend", h.Recommend)

	return router
}

func corsConfig(allowedOrigins []string) cors.Config {
	cfg := cors.DefaultConfig()
	if len(allowedOrigins) == 0 {
		cfg.AllowAllOrigins = true
	} else {
		cfg.AllowOrigins = allowedOrigins
	}
	cfg.AllowHeaders = append(cfg.AllowHeaders, requestIDHeader)
	return cfg
}

// recovery answers handler panics with the same client-safe shape the error
// handler produces; internal detail stays in the log.
func recovery(log logger.Logger) gin.HandlerFunc {
	eh := apperrors.NewErrorHandler(log)
	return gin.CustomRecovery(func(c *gin.Context, rec interface{}) {
		status, payload := eh.HandleRequestError(RequestID(c), apperrors.NewInternalError(fmt.Errorf("panic: %v", rec)))
		c.AbortWithStatusJSON(status, payload)
	})
}

// requestID attaches an identifier to every request, honoring one supplied
// by the caller.
func requestID() gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.GetHeader(requestIDHeader)
		if id == "" {
			id = uuid.NewString()
		}
		c.Set("requestID", id)
		c.Header(requestIDHeader, id)
		c.Next()
	}
}

func accessLog(log logger.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()
		log.Info("request handled", map[string]interface{}{
			"requestId": RequestID(c),
			"method":    c.Request.Method,
			"path":      c.Request.URL.Path,
			"status":    c.Writer.Status(),
		})
	}
}

// RequestID returns the identifier attached by the middleware.
func RequestID(c *gin.Context) string {
	return c.GetString("requestID")
}
