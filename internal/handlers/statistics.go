package handlers

import (
	"github.com/gin-gonic/gin"

	"github.com/coursebridge/coursebridge-backend/internal/logger"
	"github.com/coursebridge/coursebridge-backend/internal/services"
)

type StatisticsHandler struct {
	log               *logger.Logger
	statisticsService services.StatisticsService
}

func NewStatisticsHandler(log *logger.Logger, statisticsService services.StatisticsService) *StatisticsHandler {
	return &StatisticsHandler{
		log:               log.With("handler", "StatisticsHandler"),
		statisticsService: statisticsService,
	}
}

func (h *StatisticsHandler) GetItemStatistics(c *gin.Context) {
	courseID, ok := courseParam(c)
	if !ok {
		return
	}
	itemID, ok := itemParam(c)
	if !ok {
		return
	}
	stats, err := h.statisticsService.Compute(c.Request.Context(), nil, courseID, itemID)
	if err != nil {
		h.log.Error("GetItemStatistics failed", "error", err, "content_id", itemID)
		RespondServiceError(c, "get_statistics_failed", err)
		return
	}
	RespondOK(c, gin.H{"statistics": stats})
}
