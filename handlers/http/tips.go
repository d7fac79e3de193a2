package httpHandler

import (
	"net/http"
	"time"

	"vitals-server/services"

	"github.com/gin-gonic/gin"
)

type TipsHandler struct {
	service *services.TipsService
}

func NewTipsHandler(service *services.TipsService) *TipsHandler {
	return &TipsHandler{
		service: service,
	}
}

// GetTips handles GET /api/ai/tips. It always answers 200; X-Tips-Source
// tells whether the bundle came from the model or the fallback.
func (h *TipsHandler) GetTips(c *gin.Context) {
	res := h.service.Tips(c.Request.Context())
	c.Header("X-Tips-Source", string(res.Source))
	c.JSON(http.StatusOK, res.Bundle)
}

// Health handles GET /api/health
func Health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"ok": true,
		"ts": time.Now().UTC().Format("2006-01-02T15:04:05.000Z"),
	})
}
