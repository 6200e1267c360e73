package services

import (
	"context"
	"strconv"
	"strings"
	"sync"
	"testing"

	"github.com/yungbote/omnichat-backend/internal/domain"
	"github.com/yungbote/omnichat-backend/internal/platform/logger"
	"github.com/yungbote/omnichat-backend/internal/store"
)

func newConvo(t *testing.T) (*ConversationService, store.Store) {
	t.Helper()
	st := store.NewMemoryStore()
	s, err := NewConversationService(context.Background(), st, logger.NewNop())
	if err != nil {
		t.Fatalf("NewConversationService: %v", err)
	}
	return s, st
}

func TestDeriveTitle(t *testing.T) {
	long := "Hello world, this is a very long opening message exceeding fifty characters"
	got := deriveTitle(long)
	if len([]rune(got)) != 53 {
		t.Fatalf("title length = %d, want 53", len([]rune(got)))
	}
	if got[len(got)-3:] != "..." {
		t.Fatalf("title %q does not end in ellipsis", got)
	}

	if deriveTitle("") != "New Chat" {
		t.Fatalf("empty title = %q", deriveTitle(""))
	}
	if deriveTitle("  hi  ") != "hi" {
		t.Fatalf("trim failed: %q", deriveTitle("  hi  "))
	}
}

func TestCreateBotChatPrepends(t *testing.T) {
	s, _ := newConvo(t)
	ctx := context.Background()

	first, err := s.CreateBotChat(ctx, "first")
	if err != nil {
		t.Fatalf("CreateBotChat: %v", err)
	}
	second, err := s.CreateBotChat(ctx, "second")
	if err != nil {
		t.Fatalf("CreateBotChat: %v", err)
	}

	chats := s.ListChats()
	if len(chats) != 2 {
		t.Fatalf("chat count = %d", len(chats))
	}
	if chats[0].ID != second.ID || chats[1].ID != first.ID {
		t.Fatalf("newest chat not first: %v", []string{chats[0].Title, chats[1].Title})
	}
	if s.ActiveChat().ID != second.ID {
		t.Fatalf("new chat not active")
	}
}

func TestCreateBotChatSeedsGreeting(t *testing.T) {
	s, _ := newConvo(t)

	chat, err := s.CreateBotChat(context.Background(), "hi")
	if err != nil {
		t.Fatalf("CreateBotChat: %v", err)
	}
	if len(chat.Messages) != 1 || chat.Messages[0].Role != domain.RoleAssistant {
		t.Fatalf("messages = %+v", chat.Messages)
	}
	if !strings.Contains(chat.Messages[0].Content, "OmniChat") {
		t.Fatalf("greeting = %q", chat.Messages[0].Content)
	}
}

func TestUpdateMessagesUpgradesTitle(t *testing.T) {
	s, _ := newConvo(t)
	ctx := context.Background()

	chat, _ := s.CreateBotChat(ctx, "")
	if chat.Title != "New Chat" {
		t.Fatalf("initial title = %q", chat.Title)
	}

	msgs := []domain.Message{
		domain.NewMessage(domain.RoleAssistant, "welcome"),
		domain.NewMessage(domain.RoleUser, "tell me about Go"),
	}
	updated, err := s.UpdateMessages(ctx, chat.ID, msgs)
	if err != nil {
		t.Fatalf("UpdateMessages: %v", err)
	}
	if updated.Title != "tell me about Go" {
		t.Fatalf("title = %q", updated.Title)
	}
	if !updated.UpdatedAt.After(chat.UpdatedAt) && !updated.UpdatedAt.Equal(chat.UpdatedAt) {
		t.Fatalf("UpdatedAt not bumped")
	}
}

func TestUpdateMessagesUnknownChat(t *testing.T) {
	s, _ := newConvo(t)
	_, err := s.UpdateMessages(context.Background(), "nope", nil)
	if err != domain.ErrChatNotFound {
		t.Fatalf("err = %v", err)
	}
}

func TestDeleteChatFallsBackToNewest(t *testing.T) {
	s, _ := newConvo(t)
	ctx := context.Background()

	older, _ := s.CreateBotChat(ctx, "older")
	newer, _ := s.CreateBotChat(ctx, "newer")

	active, err := s.DeleteChat(ctx, newer.ID)
	if err != nil {
		t.Fatalf("DeleteChat: %v", err)
	}
	if active.ID != older.ID {
		t.Fatalf("active after delete = %q, want %q", active.ID, older.ID)
	}
}

func TestDeleteLastChatYieldsPlaceholder(t *testing.T) {
	s, _ := newConvo(t)
	ctx := context.Background()

	chat, _ := s.CreateBotChat(ctx, "only")
	active, err := s.DeleteChat(ctx, chat.ID)
	if err != nil {
		t.Fatalf("DeleteChat: %v", err)
	}
	if active.Title != "New Chat" || len(active.Messages) != 1 {
		t.Fatalf("placeholder = %+v", active)
	}
	if active.Messages[0].Role != domain.RoleAssistant {
		t.Fatalf("placeholder greeting = %+v", active.Messages[0])
	}
	// The placeholder is not part of the persisted collection.
	if got := len(s.ListChats()); got != 0 {
		t.Fatalf("chats persisted = %d, want 0", got)
	}
}

func TestAppendMessageMaterializesPlaceholder(t *testing.T) {
	s, _ := newConvo(t)
	ctx := context.Background()

	chat, _ := s.CreateBotChat(ctx, "only")
	active, err := s.DeleteChat(ctx, chat.ID)
	if err != nil {
		t.Fatalf("DeleteChat: %v", err)
	}

	got, err := s.AppendMessage(ctx, active.ID, domain.NewMessage(domain.RoleUser, "starting over"))
	if err != nil {
		t.Fatalf("AppendMessage into fresh chat: %v", err)
	}
	if len(got.Messages) != 2 || got.Messages[1].Content != "starting over" {
		t.Fatalf("messages = %+v", got.Messages)
	}
	if got.Title != "starting over" {
		t.Fatalf("title = %q", got.Title)
	}

	chats := s.ListChats()
	if len(chats) != 1 || chats[0].ID != active.ID {
		t.Fatalf("fresh chat missing from collection: %+v", chats)
	}
}

func TestAppendMessageKeepsConcurrentTurns(t *testing.T) {
	s, _ := newConvo(t)
	ctx := context.Background()

	chat, _ := s.CreateBotChat(ctx, "hi")

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func(n int) {
			defer wg.Done()
			msg := domain.NewMessage(domain.RoleUser, strconv.Itoa(n))
			if _, err := s.AppendMessage(ctx, chat.ID, msg); err != nil {
				t.Errorf("AppendMessage: %v", err)
			}
		}(i)
	}
	wg.Wait()

	got, _ := s.GetChat(chat.ID)
	if len(got.Messages) != 9 {
		t.Fatalf("messages = %d, want greeting + 8 appends", len(got.Messages))
	}
}

func TestResolveOrCreateContactChat(t *testing.T) {
	s, _ := newConvo(t)
	ctx := context.Background()

	c, err := s.AddContact(ctx, "Ada", "ada@example.com")
	if err != nil {
		t.Fatalf("AddContact: %v", err)
	}
	first, err := s.ResolveOrCreateContactChat(ctx, c.ID)
	if err != nil {
		t.Fatalf("ResolveOrCreateContactChat: %v", err)
	}
	if first.Type != domain.ChatTypeContact || first.ContactID != c.ID || first.Title != "Ada" {
		t.Fatalf("chat = %+v", first)
	}

	again, err := s.ResolveOrCreateContactChat(ctx, c.ID)
	if err != nil {
		t.Fatalf("second resolve: %v", err)
	}
	if again.ID != first.ID {
		t.Fatalf("duplicate chat created for contact")
	}
	if len(s.ListChats()) != 1 {
		t.Fatalf("chat count = %d", len(s.ListChats()))
	}
}

func TestResolveOrCreateGroupChat(t *testing.T) {
	s, _ := newConvo(t)
	ctx := context.Background()

	a, _ := s.AddContact(ctx, "Ada", "")
	b, _ := s.AddContact(ctx, "Bob", "")
	g, err := s.CreateGroup(ctx, "Team", []string{a.ID, b.ID})
	if err != nil {
		t.Fatalf("CreateGroup: %v", err)
	}

	first, err := s.ResolveOrCreateGroupChat(ctx, g.ID)
	if err != nil {
		t.Fatalf("ResolveOrCreateGroupChat: %v", err)
	}
	again, _ := s.ResolveOrCreateGroupChat(ctx, g.ID)
	if again.ID != first.ID {
		t.Fatalf("duplicate group chat created")
	}
}

func TestSelectChatClearsUnread(t *testing.T) {
	s, _ := newConvo(t)
	ctx := context.Background()

	chat, _ := s.CreateBotChat(ctx, "hi")
	msgs := []domain.Message{domain.NewMessage(domain.RoleUser, "hi")}
	if _, err := s.UpdateMessages(ctx, chat.ID, msgs); err != nil {
		t.Fatalf("UpdateMessages: %v", err)
	}

	got, err := s.SelectChat(ctx, chat.ID)
	if err != nil {
		t.Fatalf("SelectChat: %v", err)
	}
	if got.UnreadCount != 0 {
		t.Fatalf("unread = %d", got.UnreadCount)
	}
}

func TestStateSurvivesReload(t *testing.T) {
	ctx := context.Background()
	st := store.NewMemoryStore()

	s1, err := NewConversationService(ctx, st, logger.NewNop())
	if err != nil {
		t.Fatalf("NewConversationService: %v", err)
	}
	chat, _ := s1.CreateBotChat(ctx, "persistent chat")
	c, _ := s1.AddContact(ctx, "Ada", "ada@example.com")
	if _, err := s1.CreateGroup(ctx, "Team", []string{c.ID}); err != nil {
		t.Fatalf("CreateGroup: %v", err)
	}
	msgs := []domain.Message{domain.NewMessage(domain.RoleUser, "hello")}
	if _, err := s1.UpdateMessages(ctx, chat.ID, msgs); err != nil {
		t.Fatalf("UpdateMessages: %v", err)
	}

	s2, err := NewConversationService(ctx, st, logger.NewNop())
	if err != nil {
		t.Fatalf("reload: %v", err)
	}
	chats := s2.ListChats()
	if len(chats) != 1 || chats[0].ID != chat.ID {
		t.Fatalf("chats after reload: %+v", chats)
	}
	if len(chats[0].Messages) != 1 || chats[0].Messages[0].Content != "hello" {
		t.Fatalf("messages after reload: %+v", chats[0].Messages)
	}
	if len(s2.ListContacts()) != 1 || len(s2.ListGroups()) != 1 {
		t.Fatalf("contacts/groups lost on reload")
	}
}
