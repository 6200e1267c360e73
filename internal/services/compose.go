package services

import (
	"sync"

	"github.com/google/uuid"

	"github.com/yungbote/omnichat-backend/internal/domain"
)

// DocumentContext holds the ephemeral compose state for the next outgoing
// message: at most one parsed document's text, plus the pending file
// attachments. Both are consumed exactly once by the next send.
type DocumentContext struct {
	mu      sync.Mutex
	text    string
	pending []domain.FileAttachment
}

func NewDocumentContext() *DocumentContext {
	return &DocumentContext{}
}

// Set replaces the held document text. A later Set overwrites an unconsumed
// earlier one.
func (d *DocumentContext) Set(text string) {
	d.mu.Lock()
	d.text = text
	d.mu.Unlock()
}

// Take returns the held document text and clears it, so each parsed
// document is injected into at most one turn.
func (d *DocumentContext) Take() string {
	d.mu.Lock()
	t := d.text
	d.text = ""
	d.mu.Unlock()
	return t
}

// Peek returns the held text without consuming it.
func (d *DocumentContext) Peek() string {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.text
}

// AddAttachment registers an uploaded file for the next outgoing message.
func (d *DocumentContext) AddAttachment(name, mimeType string, size int64, locator string) domain.FileAttachment {
	att := domain.FileAttachment{
		ID:       uuid.NewString(),
		Name:     name,
		MimeType: mimeType,
		Size:     size,
		Locator:  locator,
	}
	d.mu.Lock()
	d.pending = append(d.pending, att)
	d.mu.Unlock()
	return att
}

// RemoveAttachment drops a pending attachment. Removing an unknown id is a
// no-op; the locator release happens at the boundary that owns the bytes.
func (d *DocumentContext) RemoveAttachment(id string) bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	for i := range d.pending {
		if d.pending[i].ID == id {
			d.pending = append(d.pending[:i], d.pending[i+1:]...)
			return true
		}
	}
	return false
}

// Attachments returns a copy of the pending list.
func (d *DocumentContext) Attachments() []domain.FileAttachment {
	d.mu.Lock()
	defer d.mu.Unlock()
	out := make([]domain.FileAttachment, len(d.pending))
	copy(out, d.pending)
	return out
}

// TakeAttachments returns the pending attachments and clears the list; the
// caller attaches them to the message being sent.
func (d *DocumentContext) TakeAttachments() []domain.FileAttachment {
	d.mu.Lock()
	defer d.mu.Unlock()
	out := d.pending
	d.pending = nil
	return out
}

// Clear drops both the document text and pending attachments, for when the
// compose view is discarded.
func (d *DocumentContext) Clear() {
	d.mu.Lock()
	d.text = ""
	d.pending = nil
	d.mu.Unlock()
}
