// Package domain holds the entity graph for the chat assistant: chats,
// messages, contacts, groups, and pending file attachments.
package domain

import (
	"time"

	"github.com/google/uuid"
)

type Role string

const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
	RoleSystem    Role = "system"
	// RoleContact marks a message from a simulated human peer, as opposed
	// to the model.
	RoleContact Role = "contact"
	// RoleModel is a legacy alias for RoleAssistant still present in
	// persisted snapshots from older builds.
	RoleModel Role = "model"
)

func (r Role) String() string { return string(r) }

type ChatType string

const (
	ChatTypeBot     ChatType = "bot"
	ChatTypeContact ChatType = "contact"
	ChatTypeGroup   ChatType = "group"
)

// FileAttachment describes an uploaded file pending on (or attached to) a
// message. Locator points at wherever the bytes live; Release on the owning
// side is responsible for revoking it.
type FileAttachment struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	MimeType  string `json:"mime_type"`
	Size      int64  `json:"size"`
	Locator   string `json:"locator"`
	Thumbnail string `json:"thumbnail,omitempty"`
}

type Message struct {
	ID        string    `json:"id"`
	Role      Role      `json:"role"`
	Content   string    `json:"content"`
	Timestamp time.Time `json:"timestamp"`

	// Set for contact/group messages only.
	SenderID   string `json:"sender_id,omitempty"`
	SenderName string `json:"sender_name,omitempty"`

	Attachments []FileAttachment `json:"attachments,omitempty"`
}

func NewMessage(role Role, content string) Message {
	return Message{
		ID:        uuid.NewString(),
		Role:      role,
		Content:   content,
		Timestamp: time.Now(),
	}
}

type Contact struct {
	ID     string `json:"id"`
	Name   string `json:"name"`
	Email  string `json:"email"`
	Online bool   `json:"online"`
}

type Group struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	MemberIDs []string  `json:"member_ids"`
	CreatedAt time.Time `json:"created_at"`
}

// Chat is a titled conversation thread bound to the model, a contact, or a
// group. ContactID/GroupID are back-references; deleting a chat never
// deletes the referenced contact or group.
type Chat struct {
	ID        string    `json:"id"`
	Type      ChatType  `json:"type"`
	Title     string    `json:"title"`
	ContactID string    `json:"contact_id,omitempty"`
	GroupID   string    `json:"group_id,omitempty"`
	Messages  []Message `json:"messages"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	UnreadCount int `json:"unread_count,omitempty"`
}

// LastMessage returns the most recent message, or nil when empty.
func (c *Chat) LastMessage() *Message {
	if len(c.Messages) == 0 {
		return nil
	}
	return &c.Messages[len(c.Messages)-1]
}

// MessageIndex returns the index of the message with the given id, or -1.
func (c *Chat) MessageIndex(id string) int {
	for i := range c.Messages {
		if c.Messages[i].ID == id {
			return i
		}
	}
	return -1
}
