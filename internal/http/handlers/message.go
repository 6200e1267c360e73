package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/yungbote/omnichat-backend/internal/domain"
	"github.com/yungbote/omnichat-backend/internal/http/response"
	"github.com/yungbote/omnichat-backend/internal/services"
)

type MessageHandler struct {
	responder *services.ResponderService
}

func NewMessageHandler(responder *services.ResponderService) *MessageHandler {
	return &MessageHandler{responder: responder}
}

type sendMessageReq struct {
	Content string `json:"content"`
}

// POST /api/chats/:id/messages
func (h *MessageHandler) Send(c *gin.Context) {
	var req sendMessageReq
	if err := c.ShouldBindJSON(&req); err != nil {
		response.RespondError(c, http.StatusBadRequest, "invalid_request", err)
		return
	}
	chat, err := h.responder.Send(c.Request.Context(), c.Param("id"), req.Content)
	if errors.Is(err, domain.ErrSendCancelled) {
		response.RespondOK(c, gin.H{"cancelled": true, "chat": chat})
		return
	}
	if err != nil {
		respondServiceError(c, err)
		return
	}
	response.RespondOK(c, gin.H{"chat": chat})
}

// POST /api/chats/:id/messages/stream
//
// Streams the raw reply as chunked text/plain, the video suffix included as
// a trailing chunk. The persisted message is the normalized full text.
func (h *MessageHandler) SendStream(c *gin.Context) {
	var req sendMessageReq
	if err := c.ShouldBindJSON(&req); err != nil {
		response.RespondError(c, http.StatusBadRequest, "invalid_request", err)
		return
	}

	c.Header("Content-Type", "text/plain; charset=utf-8")
	c.Header("Cache-Control", "no-cache")
	c.Header("X-Accel-Buffering", "no")

	wrote := false
	_, err := h.responder.SendStream(c.Request.Context(), c.Param("id"), req.Content, func(delta string) error {
		if _, werr := c.Writer.WriteString(delta); werr != nil {
			return werr
		}
		wrote = true
		c.Writer.Flush()
		return nil
	})
	if errors.Is(err, domain.ErrSendCancelled) {
		// Client went away or cancelled; nothing more to write.
		return
	}
	if err != nil {
		if wrote {
			// Headers are gone; the truncated body is the only signal left.
			return
		}
		respondServiceError(c, err)
	}
}

// POST /api/chats/:id/cancel
func (h *MessageHandler) Cancel(c *gin.Context) {
	h.responder.Cancel(c.Param("id"))
	response.RespondOK(c, gin.H{"cancelled": true})
}

type editMessageReq struct {
	Content string `json:"content"`
}

// PUT /api/chats/:id/messages/:messageId
func (h *MessageHandler) Edit(c *gin.Context) {
	var req editMessageReq
	if err := c.ShouldBindJSON(&req); err != nil {
		response.RespondError(c, http.StatusBadRequest, "invalid_request", err)
		return
	}
	chat, err := h.responder.EditAndResend(c.Request.Context(), c.Param("id"), c.Param("messageId"), req.Content, nil)
	if errors.Is(err, domain.ErrSendCancelled) {
		response.RespondOK(c, gin.H{"cancelled": true, "chat": chat})
		return
	}
	if err != nil {
		respondServiceError(c, err)
		return
	}
	response.RespondOK(c, gin.H{"chat": chat})
}
