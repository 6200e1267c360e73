package domain

import "errors"

var (
	// ErrMissingAPIKey means a required upstream credential is absent.
	// Terminal for the operation; nothing is attempted.
	ErrMissingAPIKey = errors.New("api key not configured")

	// ErrChatNotFound / ErrMessageNotFound cover lookups by id.
	ErrChatNotFound    = errors.New("chat not found")
	ErrMessageNotFound = errors.New("message not found")
	ErrContactNotFound = errors.New("contact not found")
	ErrGroupNotFound   = errors.New("group not found")

	// ErrEmptyMessage rejects blank message content before any side effect.
	ErrEmptyMessage = errors.New("message content is empty")

	// ErrSendCancelled marks a turn stopped by cooperative cancellation.
	// Not a failure: no assistant message is appended and no error is
	// surfaced to the user.
	ErrSendCancelled = errors.New("send cancelled")

	// Document extraction failures.
	ErrUnsupportedFormat = errors.New("unsupported file type")
	ErrEmptyDocument     = errors.New("no text content found in document")

	// ErrNoFile rejects an upload request without a file part.
	ErrNoFile = errors.New("no file provided")
)
