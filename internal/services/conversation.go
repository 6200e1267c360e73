package services

import (
	"context"
	"errors"
	"strings"
	"sync"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"

	"github.com/yungbote/omnichat-backend/internal/domain"
	"github.com/yungbote/omnichat-backend/internal/platform/logger"
	"github.com/yungbote/omnichat-backend/internal/store"
)

const (
	defaultChatTitle = "New Chat"
	titleMaxRunes    = 50
)

// botGreeting opens every fresh bot chat, so the first user turn always
// lands at index 1.
const botGreeting = "Hello! I'm OmniChat, your AI assistant. I can help you with employee management, recruitment, accounting, and e-invoicing. How can I assist you today?"

// ConversationService owns the chat/contact/group graph for the session.
// Every mutating operation saves the full collections before returning, so
// a restart reconstructs identical state.
type ConversationService struct {
	mu sync.Mutex

	chats    []domain.Chat
	contacts []domain.Contact
	groups   []domain.Group

	activeChatID string
	// placeholder is the unpersisted empty chat shown when the last real
	// chat was deleted. Cleared once any real chat exists again.
	placeholder *domain.Chat

	store store.Store
	log   *logger.Logger
}

// NewConversationService loads the persisted collections. Missing keys mean
// a first run and are not errors.
func NewConversationService(ctx context.Context, st store.Store, log *logger.Logger) (*ConversationService, error) {
	if log == nil {
		log = logger.NewNop()
	}
	log = log.With("service", "conversation")
	s := &ConversationService{store: st, log: log}
	if err := s.loadKey(ctx, store.KeyChats, &s.chats); err != nil {
		return nil, err
	}
	if err := s.loadKey(ctx, store.KeyContacts, &s.contacts); err != nil {
		return nil, err
	}
	if err := s.loadKey(ctx, store.KeyGroups, &s.groups); err != nil {
		return nil, err
	}
	if len(s.chats) > 0 {
		s.activeChatID = s.chats[0].ID
	}
	log.Info("conversation state loaded",
		"chats", len(s.chats), "contacts", len(s.contacts), "groups", len(s.groups))
	return s, nil
}

func (s *ConversationService) loadKey(ctx context.Context, key string, out interface{}) error {
	err := s.store.Load(ctx, key, out)
	if errors.Is(err, store.ErrNotFound) {
		return nil
	}
	return err
}

func (s *ConversationService) persist(ctx context.Context) error {
	if err := s.store.Save(ctx, store.KeyChats, s.chats); err != nil {
		return err
	}
	if err := s.store.Save(ctx, store.KeyContacts, s.contacts); err != nil {
		return err
	}
	return s.store.Save(ctx, store.KeyGroups, s.groups)
}

// deriveTitle trims the message and caps it at 50 runes with an ellipsis
// suffix. Blank input falls back to the default title.
func deriveTitle(firstMessage string) string {
	t := strings.TrimSpace(firstMessage)
	if t == "" {
		return defaultChatTitle
	}
	if utf8.RuneCountInString(t) > titleMaxRunes {
		return string([]rune(t)[:titleMaxRunes]) + "..."
	}
	return t
}

// CreateBotChat prepends a new model-bound chat titled from the first
// message and makes it active.
func (s *ConversationService) CreateBotChat(ctx context.Context, firstMessage string) (domain.Chat, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := time.Now()
	chat := domain.Chat{
		ID:        uuid.NewString(),
		Type:      domain.ChatTypeBot,
		Title:     deriveTitle(firstMessage),
		Messages:  []domain.Message{domain.NewMessage(domain.RoleAssistant, botGreeting)},
		CreatedAt: now,
		UpdatedAt: now,
	}
	s.chats = append([]domain.Chat{chat}, s.chats...)
	s.activeChatID = chat.ID
	s.placeholder = nil
	if err := s.persist(ctx); err != nil {
		return domain.Chat{}, err
	}
	return chat, nil
}

// SelectChat makes the chat active and clears its unread counter.
func (s *ConversationService) SelectChat(ctx context.Context, chatID string) (domain.Chat, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	i := s.indexOf(chatID)
	if i < 0 {
		return domain.Chat{}, domain.ErrChatNotFound
	}
	s.chats[i].UnreadCount = 0
	s.activeChatID = chatID
	s.placeholder = nil
	if err := s.persist(ctx); err != nil {
		return domain.Chat{}, err
	}
	return s.chats[i], nil
}

// UpdateMessages replaces the chat's message list wholesale and bumps
// UpdatedAt. The title is upgraded from the second message once that turn
// is a user message, and never regressed afterwards.
func (s *ConversationService) UpdateMessages(ctx context.Context, chatID string, messages []domain.Message) (domain.Chat, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.materializeLocked(chatID)
	i := s.indexOf(chatID)
	if i < 0 {
		return domain.Chat{}, domain.ErrChatNotFound
	}
	c := &s.chats[i]
	c.Messages = messages
	c.UpdatedAt = time.Now()
	s.refreshTitleLocked(c)
	if err := s.persist(ctx); err != nil {
		return domain.Chat{}, err
	}
	return *c, nil
}

// AppendMessage appends one message to the chat under the store lock, so
// concurrent turns cannot drop each other's appends. The whole-snapshot
// read-then-swap path stays reserved for edit truncation.
func (s *ConversationService) AppendMessage(ctx context.Context, chatID string, msg domain.Message) (domain.Chat, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.materializeLocked(chatID)
	i := s.indexOf(chatID)
	if i < 0 {
		return domain.Chat{}, domain.ErrChatNotFound
	}
	c := &s.chats[i]
	c.Messages = append(append([]domain.Message{}, c.Messages...), msg)
	c.UpdatedAt = time.Now()
	s.refreshTitleLocked(c)
	if err := s.persist(ctx); err != nil {
		return domain.Chat{}, err
	}
	return *c, nil
}

// materializeLocked moves the placeholder into the chat list when a
// mutation targets it, mirroring the original flow where typing into the
// fresh-chat state creates the chat.
func (s *ConversationService) materializeLocked(chatID string) {
	if s.placeholder == nil || s.placeholder.ID != chatID {
		return
	}
	s.chats = append([]domain.Chat{*s.placeholder}, s.chats...)
	s.placeholder = nil
}

func (s *ConversationService) refreshTitleLocked(c *domain.Chat) {
	if len(c.Messages) > 1 && c.Messages[1].Role == domain.RoleUser {
		c.Title = deriveTitle(c.Messages[1].Content)
	}
}

// DeleteChat removes the chat. If it was active, the most recently listed
// surviving chat becomes active; with none left, an unpersisted placeholder
// takes its place.
func (s *ConversationService) DeleteChat(ctx context.Context, chatID string) (domain.Chat, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	i := s.indexOf(chatID)
	if i < 0 {
		return domain.Chat{}, domain.ErrChatNotFound
	}
	s.chats = append(s.chats[:i], s.chats[i+1:]...)

	if s.activeChatID == chatID {
		if len(s.chats) > 0 {
			s.activeChatID = s.chats[0].ID
		} else {
			now := time.Now()
			s.placeholder = &domain.Chat{
				ID:        uuid.NewString(),
				Type:      domain.ChatTypeBot,
				Title:     defaultChatTitle,
				Messages:  []domain.Message{domain.NewMessage(domain.RoleAssistant, botGreeting)},
				CreatedAt: now,
				UpdatedAt: now,
			}
			s.activeChatID = s.placeholder.ID
		}
	}
	if err := s.persist(ctx); err != nil {
		return domain.Chat{}, err
	}
	return s.activeChatLocked(), nil
}

// ResolveOrCreateContactChat returns the chat bound to the contact,
// creating it on first use. At most one chat per contact exists.
func (s *ConversationService) ResolveOrCreateContactChat(ctx context.Context, contactID string) (domain.Chat, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	contact, ok := s.contactByID(contactID)
	if !ok {
		return domain.Chat{}, domain.ErrContactNotFound
	}
	for i := range s.chats {
		if s.chats[i].Type == domain.ChatTypeContact && s.chats[i].ContactID == contactID {
			s.activeChatID = s.chats[i].ID
			s.placeholder = nil
			return s.chats[i], nil
		}
	}

	now := time.Now()
	chat := domain.Chat{
		ID:        uuid.NewString(),
		Type:      domain.ChatTypeContact,
		Title:     contact.Name,
		ContactID: contactID,
		Messages:  []domain.Message{},
		CreatedAt: now,
		UpdatedAt: now,
	}
	s.chats = append([]domain.Chat{chat}, s.chats...)
	s.activeChatID = chat.ID
	s.placeholder = nil
	if err := s.persist(ctx); err != nil {
		return domain.Chat{}, err
	}
	return chat, nil
}

// ResolveOrCreateGroupChat is the group counterpart of
// ResolveOrCreateContactChat.
func (s *ConversationService) ResolveOrCreateGroupChat(ctx context.Context, groupID string) (domain.Chat, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	group, ok := s.groupByID(groupID)
	if !ok {
		return domain.Chat{}, domain.ErrGroupNotFound
	}
	for i := range s.chats {
		if s.chats[i].Type == domain.ChatTypeGroup && s.chats[i].GroupID == groupID {
			s.activeChatID = s.chats[i].ID
			s.placeholder = nil
			return s.chats[i], nil
		}
	}

	now := time.Now()
	chat := domain.Chat{
		ID:        uuid.NewString(),
		Type:      domain.ChatTypeGroup,
		Title:     group.Name,
		GroupID:   groupID,
		Messages:  []domain.Message{},
		CreatedAt: now,
		UpdatedAt: now,
	}
	s.chats = append([]domain.Chat{chat}, s.chats...)
	s.activeChatID = chat.ID
	s.placeholder = nil
	if err := s.persist(ctx); err != nil {
		return domain.Chat{}, err
	}
	return chat, nil
}

func (s *ConversationService) AddContact(ctx context.Context, name, email string) (domain.Contact, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	c := domain.Contact{
		ID:    uuid.NewString(),
		Name:  strings.TrimSpace(name),
		Email: strings.TrimSpace(email),
	}
	if c.Name == "" {
		return domain.Contact{}, domain.ErrEmptyMessage
	}
	s.contacts = append(s.contacts, c)
	if err := s.persist(ctx); err != nil {
		return domain.Contact{}, err
	}
	return c, nil
}

func (s *ConversationService) CreateGroup(ctx context.Context, name string, memberIDs []string) (domain.Group, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	name = strings.TrimSpace(name)
	if name == "" {
		return domain.Group{}, domain.ErrEmptyMessage
	}
	for _, id := range memberIDs {
		if _, ok := s.contactByID(id); !ok {
			return domain.Group{}, domain.ErrContactNotFound
		}
	}
	g := domain.Group{
		ID:        uuid.NewString(),
		Name:      name,
		MemberIDs: memberIDs,
		CreatedAt: time.Now(),
	}
	s.groups = append(s.groups, g)
	if err := s.persist(ctx); err != nil {
		return domain.Group{}, err
	}
	return g, nil
}

func (s *ConversationService) GetChat(chatID string) (domain.Chat, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.placeholder != nil && s.placeholder.ID == chatID {
		return *s.placeholder, nil
	}
	i := s.indexOf(chatID)
	if i < 0 {
		return domain.Chat{}, domain.ErrChatNotFound
	}
	return s.chats[i], nil
}

func (s *ConversationService) ListChats() []domain.Chat {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]domain.Chat, len(s.chats))
	copy(out, s.chats)
	return out
}

func (s *ConversationService) ListContacts() []domain.Contact {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]domain.Contact, len(s.contacts))
	copy(out, s.contacts)
	return out
}

func (s *ConversationService) ListGroups() []domain.Group {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]domain.Group, len(s.groups))
	copy(out, s.groups)
	return out
}

// ActiveChat returns the currently selected chat, which may be the
// unpersisted placeholder.
func (s *ConversationService) ActiveChat() domain.Chat {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.activeChatLocked()
}

func (s *ConversationService) activeChatLocked() domain.Chat {
	if s.placeholder != nil && s.placeholder.ID == s.activeChatID {
		return *s.placeholder
	}
	if i := s.indexOf(s.activeChatID); i >= 0 {
		return s.chats[i]
	}
	return domain.Chat{Title: defaultChatTitle, Type: domain.ChatTypeBot, Messages: []domain.Message{}}
}

func (s *ConversationService) indexOf(chatID string) int {
	for i := range s.chats {
		if s.chats[i].ID == chatID {
			return i
		}
	}
	return -1
}

func (s *ConversationService) contactByID(id string) (domain.Contact, bool) {
	for _, c := range s.contacts {
		if c.ID == id {
			return c, true
		}
	}
	return domain.Contact{}, false
}

func (s *ConversationService) groupByID(id string) (domain.Group, bool) {
	for _, g := range s.groups {
		if g.ID == id {
			return g, true
		}
	}
	return domain.Group{}, false
}
