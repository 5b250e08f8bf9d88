package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/coursebridge/coursebridge-backend/internal/logger"
	"github.com/coursebridge/coursebridge-backend/internal/requestdata"
	"github.com/coursebridge/coursebridge-backend/internal/services"
)

type ProgressHandler struct {
	log             *logger.Logger
	progressService services.ProgressService
}

func NewProgressHandler(log *logger.Logger, progressService services.ProgressService) *ProgressHandler {
	return &ProgressHandler{
		log:             log.With("handler", "ProgressHandler"),
		progressService: progressService,
	}
}

func (h *ProgressHandler) GetMyProgress(c *gin.Context) {
	rd := requestdata.GetRequestData(c.Request.Context())
	if rd == nil || rd.UserID == uuid.Nil {
		RespondError(c, http.StatusUnauthorized, "unauthorized", nil)
		return
	}
	courseID, ok := courseParam(c)
	if !ok {
		return
	}
	progress, err := h.progressService.Get(c.Request.Context(), nil, courseID, rd.UserID)
	if err != nil {
		h.log.Error("GetMyProgress failed", "error", err, "course_id", courseID, "student_id", rd.UserID)
		RespondServiceError(c, "get_progress_failed", err)
		return
	}
	RespondOK(c, gin.H{"progress": progress})
}
