package handlers

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/yungbote/omnichat-backend/internal/http/response"
	"github.com/yungbote/omnichat-backend/internal/services"
)

type VideoHandler struct {
	video services.VideoSearcher
}

func NewVideoHandler(video services.VideoSearcher) *VideoHandler {
	return &VideoHandler{video: video}
}

type videoSearchReq struct {
	Query string `json:"query"`
}

// POST /api/youtube/search
//
// A search with no hit returns null fields, not an error.
func (h *VideoHandler) Search(c *gin.Context) {
	var req videoSearchReq
	if err := c.ShouldBindJSON(&req); err != nil {
		response.RespondError(c, http.StatusBadRequest, "invalid_request", err)
		return
	}
	if strings.TrimSpace(req.Query) == "" {
		response.RespondError(c, http.StatusBadRequest, "empty_query", nil)
		return
	}

	v, err := h.video.Search(c.Request.Context(), req.Query)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	if v == nil {
		response.RespondOK(c, gin.H{"url": nil, "title": nil})
		return
	}
	response.RespondOK(c, v)
}
