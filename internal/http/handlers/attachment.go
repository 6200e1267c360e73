package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/yungbote/omnichat-backend/internal/http/response"
	"github.com/yungbote/omnichat-backend/internal/services"
)

type AttachmentHandler struct {
	docs *services.DocumentContext
}

func NewAttachmentHandler(docs *services.DocumentContext) *AttachmentHandler {
	return &AttachmentHandler{docs: docs}
}

// GET /api/attachments
func (h *AttachmentHandler) List(c *gin.Context) {
	response.RespondOK(c, gin.H{"attachments": h.docs.Attachments()})
}

type addAttachmentReq struct {
	Name     string `json:"name"`
	MimeType string `json:"mime_type"`
	Size     int64  `json:"size"`
	Locator  string `json:"locator"`
}

// POST /api/attachments
func (h *AttachmentHandler) Add(c *gin.Context) {
	var req addAttachmentReq
	if err := c.ShouldBindJSON(&req); err != nil {
		response.RespondError(c, http.StatusBadRequest, "invalid_request", err)
		return
	}
	att := h.docs.AddAttachment(req.Name, req.MimeType, req.Size, req.Locator)
	response.RespondOK(c, gin.H{"attachment": att})
}

// DELETE /api/attachments/:id
func (h *AttachmentHandler) Remove(c *gin.Context) {
	if !h.docs.RemoveAttachment(c.Param("id")) {
		response.RespondError(c, http.StatusNotFound, "attachment_not_found", nil)
		return
	}
	response.RespondOK(c, gin.H{"removed": true})
}
