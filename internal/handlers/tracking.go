package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/coursebridge/coursebridge-backend/internal/logger"
	"github.com/coursebridge/coursebridge-backend/internal/requestdata"
	"github.com/coursebridge/coursebridge-backend/internal/services"
)

type TrackingHandler struct {
	log            *logger.Logger
	trackerService services.TrackerService
}

func NewTrackingHandler(log *logger.Logger, trackerService services.TrackerService) *TrackingHandler {
	return &TrackingHandler{
		log:            log.With("handler", "TrackingHandler"),
		trackerService: trackerService,
	}
}

func (h *TrackingHandler) Track(c *gin.Context) {
	rd := requestdata.GetRequestData(c.Request.Context())
	if rd == nil || rd.UserID == uuid.Nil {
		RespondError(c, http.StatusUnauthorized, "unauthorized", nil)
		return
	}
	courseID, ok := courseParam(c)
	if !ok {
		return
	}
	itemID, ok := itemParam(c)
	if !ok {
		return
	}
	record, err := h.trackerService.Track(c.Request.Context(), nil, courseID, itemID, rd.UserID, rd.DisplayName)
	if err != nil {
		h.log.Error("Track failed", "error", err, "content_id", itemID, "student_id", rd.UserID)
		RespondServiceError(c, "track_failed", err)
		return
	}
	RespondOK(c, gin.H{"access": record})
}

func (h *TrackingHandler) UpdateAccess(c *gin.Context) {
	rd := requestdata.GetRequestData(c.Request.Context())
	if rd == nil || rd.UserID == uuid.Nil {
		RespondError(c, http.StatusUnauthorized, "unauthorized", nil)
		return
	}
	courseID, ok := courseParam(c)
	if !ok {
		return
	}
	itemID, ok := itemParam(c)
	if !ok {
		return
	}
	var patch services.UpdateAccessInput
	if err := c.ShouldBindJSON(&patch); err != nil {
		RespondError(c, http.StatusBadRequest, "bad_payload", err)
		return
	}
	record, err := h.trackerService.UpdateAccess(c.Request.Context(), nil, courseID, itemID, rd.UserID, patch)
	if err != nil {
		h.log.Error("UpdateAccess failed", "error", err, "content_id", itemID, "student_id", rd.UserID)
		RespondServiceError(c, "update_access_failed", err)
		return
	}
	RespondOK(c, gin.H{"access": record})
}

func (h *TrackingHandler) GetMyAccess(c *gin.Context) {
	rd := requestdata.GetRequestData(c.Request.Context())
	if rd == nil || rd.UserID == uuid.Nil {
		RespondError(c, http.StatusUnauthorized, "unauthorized", nil)
		return
	}
	if _, ok := courseParam(c); !ok {
		return
	}
	itemID, ok := itemParam(c)
	if !ok {
		return
	}
	record, err := h.trackerService.GetForStudent(c.Request.Context(), nil, itemID, rd.UserID)
	if err != nil {
		RespondServiceError(c, "get_access_failed", err)
		return
	}
	RespondOK(c, gin.H{"access": record})
}

func (h *TrackingHandler) GetAllAccess(c *gin.Context) {
	if _, ok := courseParam(c); !ok {
		return
	}
	itemID, ok := itemParam(c)
	if !ok {
		return
	}
	records, err := h.trackerService.GetAllForItem(c.Request.Context(), nil, itemID)
	if err != nil {
		h.log.Error("GetAllAccess failed", "error", err, "content_id", itemID)
		RespondServiceError(c, "list_access_failed", err)
		return
	}
	RespondOK(c, gin.H{"accesses": records})
}
