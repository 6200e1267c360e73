package handlers

import (
	"io"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/yungbote/omnichat-backend/internal/domain"
	"github.com/yungbote/omnichat-backend/internal/http/response"
	"github.com/yungbote/omnichat-backend/internal/services"
)

type DocumentHandler struct {
	docs *services.DocumentContext
}

func NewDocumentHandler(docs *services.DocumentContext) *DocumentHandler {
	return &DocumentHandler{docs: docs}
}

// POST /api/documents/parse (multipart, field "file")
//
// On success the extracted text is also staged in the document context, so
// the next send injects it into the prompt.
func (h *DocumentHandler) Parse(c *gin.Context) {
	fh, err := c.FormFile("file")
	if err != nil {
		respondServiceError(c, domain.ErrNoFile)
		return
	}
	f, err := fh.Open()
	if err != nil {
		response.RespondError(c, http.StatusBadRequest, "file_open_failed", err)
		return
	}
	defer f.Close()

	data, err := io.ReadAll(f)
	if err != nil {
		response.RespondError(c, http.StatusBadRequest, "file_read_failed", err)
		return
	}

	doc, err := services.ExtractDocument(fh.Filename, fh.Header.Get("Content-Type"), data)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	h.docs.Set(doc.Text)
	response.RespondOK(c, doc)
}
