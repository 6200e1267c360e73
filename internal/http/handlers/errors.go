package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/yungbote/omnichat-backend/internal/domain"
	"github.com/yungbote/omnichat-backend/internal/http/response"
	"github.com/yungbote/omnichat-backend/internal/platform/aigrid"
	"github.com/yungbote/omnichat-backend/internal/platform/apierr"
)

// respondServiceError maps service-layer failures onto HTTP statuses and
// stable codes. Cancellation never reaches here; callers handle it as a
// normal outcome.
func respondServiceError(c *gin.Context, err error) {
	var ae *apierr.Error
	if errors.As(err, &ae) {
		response.RespondError(c, ae.Status, ae.Code, ae.Err)
		return
	}

	switch {
	case errors.Is(err, domain.ErrChatNotFound):
		response.RespondError(c, http.StatusNotFound, "chat_not_found", err)
	case errors.Is(err, domain.ErrMessageNotFound):
		response.RespondError(c, http.StatusNotFound, "message_not_found", err)
	case errors.Is(err, domain.ErrContactNotFound):
		response.RespondError(c, http.StatusNotFound, "contact_not_found", err)
	case errors.Is(err, domain.ErrGroupNotFound):
		response.RespondError(c, http.StatusNotFound, "group_not_found", err)
	case errors.Is(err, domain.ErrEmptyMessage):
		response.RespondError(c, http.StatusBadRequest, "empty_content", err)
	case errors.Is(err, domain.ErrNoFile):
		response.RespondError(c, http.StatusBadRequest, "no_file", err)
	case errors.Is(err, domain.ErrUnsupportedFormat):
		response.RespondError(c, http.StatusBadRequest, "unsupported_file_type",
			errors.New("Unsupported file type. Please upload PDF, DOCX, or TXT files."))
	case errors.Is(err, domain.ErrEmptyDocument):
		response.RespondError(c, http.StatusBadRequest, "empty_document",
			errors.New("No text content found in document"))
	case errors.Is(err, domain.ErrMissingAPIKey):
		response.RespondError(c, http.StatusInternalServerError, "missing_api_key", err)
	default:
		var herr *aigrid.HTTPError
		if errors.As(err, &herr) {
			response.RespondError(c, http.StatusBadGateway, "upstream_error", err)
			return
		}
		response.RespondError(c, http.StatusInternalServerError, "internal_error", err)
	}
}
