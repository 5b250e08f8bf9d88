package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/coursebridge/coursebridge-backend/internal/logger"
	"github.com/coursebridge/coursebridge-backend/internal/requestdata"
	"github.com/coursebridge/coursebridge-backend/internal/services"
)

type ContentHandler struct {
	log            *logger.Logger
	catalogService services.CatalogService
}

func NewContentHandler(log *logger.Logger, catalogService services.CatalogService) *ContentHandler {
	return &ContentHandler{
		log:            log.With("handler", "ContentHandler"),
		catalogService: catalogService,
	}
}

func courseParam(c *gin.Context) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param("courseId"))
	if err != nil {
		RespondError(c, http.StatusBadRequest, "bad_course_id", err)
		return uuid.Nil, false
	}
	return id, true
}

func itemParam(c *gin.Context) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param("itemId"))
	if err != nil {
		RespondError(c, http.StatusBadRequest, "bad_item_id", err)
		return uuid.Nil, false
	}
	return id, true
}

func (h *ContentHandler) CreateItem(c *gin.Context) {
	rd := requestdata.GetRequestData(c.Request.Context())
	if rd == nil || rd.UserID == uuid.Nil {
		RespondError(c, http.StatusUnauthorized, "unauthorized", nil)
		return
	}
	courseID, ok := courseParam(c)
	if !ok {
		return
	}
	var input services.CreateContentItemInput
	if err := c.ShouldBindJSON(&input); err != nil {
		RespondError(c, http.StatusBadRequest, "bad_payload", err)
		return
	}
	item, err := h.catalogService.CreateItem(c.Request.Context(), nil, courseID, rd.UserID, input)
	if err != nil {
		h.log.Error("CreateItem failed", "error", err, "course_id", courseID)
		RespondServiceError(c, "create_item_failed", err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"item": item})
}

func (h *ContentHandler) ListItems(c *gin.Context) {
	courseID, ok := courseParam(c)
	if !ok {
		return
	}
	includeHidden, _ := strconv.ParseBool(c.Query("include_hidden"))
	items, err := h.catalogService.ListItems(c.Request.Context(), nil, courseID, includeHidden)
	if err != nil {
		h.log.Error("ListItems failed", "error", err, "course_id", courseID)
		RespondServiceError(c, "list_items_failed", err)
		return
	}
	RespondOK(c, gin.H{"items": items})
}

func (h *ContentHandler) GetItem(c *gin.Context) {
	courseID, ok := courseParam(c)
	if !ok {
		return
	}
	itemID, ok := itemParam(c)
	if !ok {
		return
	}
	item, err := h.catalogService.GetItem(c.Request.Context(), nil, courseID, itemID)
	if err != nil {
		RespondServiceError(c, "get_item_failed", err)
		return
	}
	RespondOK(c, gin.H{"item": item})
}

func (h *ContentHandler) UpdateItem(c *gin.Context) {
	courseID, ok := courseParam(c)
	if !ok {
		return
	}
	itemID, ok := itemParam(c)
	if !ok {
		return
	}
	var patch services.UpdateContentItemInput
	if err := c.ShouldBindJSON(&patch); err != nil {
		RespondError(c, http.StatusBadRequest, "bad_payload", err)
		return
	}
	item, err := h.catalogService.UpdateItem(c.Request.Context(), nil, courseID, itemID, patch)
	if err != nil {
		h.log.Error("UpdateItem failed", "error", err, "content_id", itemID)
		RespondServiceError(c, "update_item_failed", err)
		return
	}
	RespondOK(c, gin.H{"item": item})
}

func (h *ContentHandler) PublishItem(c *gin.Context) {
	courseID, ok := courseParam(c)
	if !ok {
		return
	}
	itemID, ok := itemParam(c)
	if !ok {
		return
	}
	item, err := h.catalogService.PublishItem(c.Request.Context(), nil, courseID, itemID)
	if err != nil {
		h.log.Error("PublishItem failed", "error", err, "content_id", itemID)
		RespondServiceError(c, "publish_item_failed", err)
		return
	}
	RespondOK(c, gin.H{"item": item})
}

func (h *ContentHandler) DeleteItem(c *gin.Context) {
	courseID, ok := courseParam(c)
	if !ok {
		return
	}
	itemID, ok := itemParam(c)
	if !ok {
		return
	}
	outcome, err := h.catalogService.DeleteItem(c.Request.Context(), courseID, itemID)
	if err != nil {
		h.log.Error("DeleteItem failed", "error", err, "content_id", itemID)
		RespondServiceError(c, "delete_item_failed", err)
		return
	}
	RespondOK(c, gin.H{"outcome": outcome})
}

func (h *ContentHandler) UploadFile(c *gin.Context) {
	rd := requestdata.GetRequestData(c.Request.Context())
	if rd == nil || rd.UserID == uuid.Nil {
		RespondError(c, http.StatusUnauthorized, "unauthorized", nil)
		return
	}
	courseID, ok := courseParam(c)
	if !ok {
		return
	}
	fileHeader, err := c.FormFile("file")
	if err != nil {
		RespondError(c, http.StatusBadRequest, "missing_file", err)
		return
	}
	f, err := fileHeader.Open()
	if err != nil {
		RespondError(c, http.StatusBadRequest, "unreadable_file", err)
		return
	}
	defer f.Close()

	input := services.FileUploadInput{
		FileName:    fileHeader.Filename,
		MimeType:    fileHeader.Header.Get("Content-Type"),
		FileSize:    fileHeader.Size,
		Title:       c.PostForm("title"),
		Description: c.PostForm("description"),
		Body:        f,
	}
	if raw := c.PostForm("parent_id"); raw != "" {
		parentID, err := uuid.Parse(raw)
		if err != nil {
			RespondError(c, http.StatusBadRequest, "bad_parent_id", err)
			return
		}
		input.ParentID = &parentID
	}
	if raw := c.PostForm("order"); raw != "" {
		order, err := strconv.Atoi(raw)
		if err != nil {
			RespondError(c, http.StatusBadRequest, "bad_order", err)
			return
		}
		input.Order = &order
	}

	item, err := h.catalogService.UploadFile(c.Request.Context(), nil, courseID, rd.UserID, input)
	if err != nil {
		h.log.Error("UploadFile failed", "error", err, "course_id", courseID)
		RespondServiceError(c, "upload_file_failed", err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"item": item})
}

func (h *ContentHandler) Reorder(c *gin.Context) {
	courseID, ok := courseParam(c)
	if !ok {
		return
	}
	var body struct {
		ItemIDs   []uuid.UUID `json:"item_ids"`
		NewOrders []int       `json:"new_orders"`
	}
	if err := c.ShouldBindJSON(&body); err != nil {
		RespondError(c, http.StatusBadRequest, "bad_payload", err)
		return
	}
	if err := h.catalogService.Reorder(c.Request.Context(), courseID, body.ItemIDs, body.NewOrders); err != nil {
		h.log.Error("Reorder failed", "error", err, "course_id", courseID)
		RespondServiceError(c, "reorder_failed", err)
		return
	}
	RespondOK(c, gin.H{"reordered": len(body.ItemIDs)})
}
