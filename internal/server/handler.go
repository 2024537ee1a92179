// internal/server/handler.go
package server

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	apperrors "donde-engine/internal/common/errors"
	"donde-engine/internal/common/logger"
	"donde-engine/internal/models"
)

// Recommender is the engine surface the HTTP layer depends on.
type Recommender interface {
	Recommend(ctx context.Context, req *models.RecommendationRequest) (*models.RecommendationResponse, error)
}

type Handler struct {
	engine Recommender
	errors *apperrors.ErrorHandler
	logger logger.Logger
}

func NewHandler(engine Recommender, log logger.Logger) *Handler {
	return &Handler{
		engine: engine,
		errors: apperrors.NewErrorHandler(log),
		logger: log.WithFields(map[string]interface{}{"component": "http"}),
	}
}

// Recommend handles POST /api/v1/recommend.
func (h *Handler) Recommend(c *gin.Context) {
	var req models.RecommendationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		status, payload := h.errors.HandleRequestError(RequestID(c), apperrors.NewInvalidRequestError(err.Error()))
		c.JSON(status, payload)
		return
	}

	resp, err := h.engine.Recommend(c.Request.Context(), &req)
	if err != nil {
		status, payload := h.errors.HandleRequestError(RequestID(c), err)
		c.JSON(status, payload)
		return
	}

	resp.RequestID = RequestID(c)
	c.JSON(http.StatusOK, resp)
}

// Health handles GET /healthz.
func (h *Handler) Health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}
