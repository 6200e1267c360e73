package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/yungbote/omnichat-backend/internal/http/response"
	"github.com/yungbote/omnichat-backend/internal/services"
)

type ConversationHandler struct {
	convo *services.ConversationService
}

func NewConversationHandler(convo *services.ConversationService) *ConversationHandler {
	return &ConversationHandler{convo: convo}
}

// GET /api/chats
func (h *ConversationHandler) ListChats(c *gin.Context) {
	response.RespondOK(c, gin.H{
		"chats":  h.convo.ListChats(),
		"active": h.convo.ActiveChat().ID,
	})
}

type createChatReq struct {
	FirstMessage string `json:"first_message"`
}

// POST /api/chats
func (h *ConversationHandler) CreateChat(c *gin.Context) {
	var req createChatReq
	if err := c.ShouldBindJSON(&req); err != nil {
		response.RespondError(c, http.StatusBadRequest, "invalid_request", err)
		return
	}
	chat, err := h.convo.CreateBotChat(c.Request.Context(), req.FirstMessage)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	response.RespondOK(c, gin.H{"chat": chat})
}

// GET /api/chats/:id
func (h *ConversationHandler) GetChat(c *gin.Context) {
	chat, err := h.convo.GetChat(c.Param("id"))
	if err != nil {
		respondServiceError(c, err)
		return
	}
	response.RespondOK(c, gin.H{"chat": chat})
}

// POST /api/chats/:id/select
func (h *ConversationHandler) SelectChat(c *gin.Context) {
	chat, err := h.convo.SelectChat(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondServiceError(c, err)
		return
	}
	response.RespondOK(c, gin.H{"chat": chat})
}

// DELETE /api/chats/:id
func (h *ConversationHandler) DeleteChat(c *gin.Context) {
	active, err := h.convo.DeleteChat(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondServiceError(c, err)
		return
	}
	response.RespondOK(c, gin.H{"active": active})
}

// GET /api/contacts
func (h *ConversationHandler) ListContacts(c *gin.Context) {
	response.RespondOK(c, gin.H{"contacts": h.convo.ListContacts()})
}

type addContactReq struct {
	Name  string `json:"name"`
	Email string `json:"email"`
}

// POST /api/contacts
func (h *ConversationHandler) AddContact(c *gin.Context) {
	var req addContactReq
	if err := c.ShouldBindJSON(&req); err != nil {
		response.RespondError(c, http.StatusBadRequest, "invalid_request", err)
		return
	}
	contact, err := h.convo.AddContact(c.Request.Context(), req.Name, req.Email)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	response.RespondOK(c, gin.H{"contact": contact})
}

// POST /api/contacts/:id/chat
func (h *ConversationHandler) OpenContactChat(c *gin.Context) {
	chat, err := h.convo.ResolveOrCreateContactChat(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondServiceError(c, err)
		return
	}
	response.RespondOK(c, gin.H{"chat": chat})
}

// GET /api/groups
func (h *ConversationHandler) ListGroups(c *gin.Context) {
	response.RespondOK(c, gin.H{"groups": h.convo.ListGroups()})
}

type createGroupReq struct {
	Name      string   `json:"name"`
	MemberIDs []string `json:"member_ids"`
}

// POST /api/groups
func (h *ConversationHandler) CreateGroup(c *gin.Context) {
	var req createGroupReq
	if err := c.ShouldBindJSON(&req); err != nil {
		response.RespondError(c, http.StatusBadRequest, "invalid_request", err)
		return
	}
	group, err := h.convo.CreateGroup(c.Request.Context(), req.Name, req.MemberIDs)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	response.RespondOK(c, gin.H{"group": group})
}

// POST /api/groups/:id/chat
func (h *ConversationHandler) OpenGroupChat(c *gin.Context) {
	chat, err := h.convo.ResolveOrCreateGroupChat(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondServiceError(c, err)
		return
	}
	response.RespondOK(c, gin.H{"chat": chat})
}
