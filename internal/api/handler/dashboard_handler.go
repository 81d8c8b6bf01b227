package handler

import (
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/philippe-delaval/Lesot-bon/internal/service"
	"github.com/philippe-delaval/Lesot-bon/pkg/response"
)

// DashboardHandler exposes the landing-page counters.
type DashboardHandler struct {
	svc    *service.DashboardService
	logger *zap.Logger
}

// Stats GET /api/v1/dashboard/stats
func (h *DashboardHandler) Stats(c *gin.Context) {
	stats, err := h.svc.Stats(c.Request.Context())
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	response.OK(c, stats)
}
