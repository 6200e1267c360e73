package services

import (
	"context"
	"strings"

	"github.com/yungbote/omnichat-backend/internal/domain"
)

// EditAndResend rewrites an earlier message and regenerates from it: the
// list is truncated through the edited message, its content replaced with
// the trimmed new content, and the truncated state persisted before the
// model call. Every message after the edited one is discarded, including
// all previously generated replies.
func (r *ResponderService) EditAndResend(ctx context.Context, chatID, messageID, newContent string, onDelta func(delta string) error) (domain.Chat, error) {
	newContent = strings.TrimSpace(newContent)
	if newContent == "" {
		return domain.Chat{}, domain.ErrEmptyMessage
	}

	chat, err := r.convo.GetChat(chatID)
	if err != nil {
		return domain.Chat{}, err
	}
	if chat.Type == domain.ChatTypeBot && r.client == nil {
		return domain.Chat{}, domain.ErrMissingAPIKey
	}
	idx := chat.MessageIndex(messageID)
	if idx < 0 {
		return domain.Chat{}, domain.ErrMessageNotFound
	}

	truncated := append([]domain.Message{}, chat.Messages[:idx+1]...)
	truncated[idx].Content = newContent

	// Persist before regenerating so a crash mid-regeneration leaves the
	// truncation durable.
	chat, err = r.convo.UpdateMessages(ctx, chatID, truncated)
	if err != nil {
		return domain.Chat{}, err
	}
	if chat.Type != domain.ChatTypeBot {
		return chat, nil
	}
	return r.regenerate(ctx, chat, truncated[idx], onDelta)
}
