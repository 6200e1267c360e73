package services

import (
	"context"
	"errors"
	"regexp"
	"strings"
	"sync"

	"github.com/yungbote/omnichat-backend/internal/domain"
	"github.com/yungbote/omnichat-backend/internal/platform/aigrid"
	"github.com/yungbote/omnichat-backend/internal/platform/logger"
	"github.com/yungbote/omnichat-backend/internal/platform/youtube"
)

// Completer is the completion collaborator. *aigrid.Client satisfies it.
type Completer interface {
	Complete(ctx context.Context, history []aigrid.TurnMessage) (string, error)
	Stream(ctx context.Context, history []aigrid.TurnMessage, onDelta func(delta string) error) (string, error)
}

// VideoSearcher is the video-search collaborator. A nil result with a nil
// error means no hit. *youtube.Client satisfies it.
type VideoSearcher interface {
	Search(ctx context.Context, query string) (*youtube.Video, error)
}

var videoKeywords = []string{"video", "tutorial", "watch", "show me", "youtube", "learn"}

const videoSuffix = "\n\nHere's a relevant video: "

var boldSpan = regexp.MustCompile(`\*\*(.*?)\*\*`)

// NormalizeBold uppercases every **bold** span, strips its markers, then
// removes any stray asterisks left over.
func NormalizeBold(s string) string {
	s = boldSpan.ReplaceAllStringFunc(s, func(m string) string {
		return strings.ToUpper(strings.TrimSuffix(strings.TrimPrefix(m, "**"), "**"))
	})
	return strings.ReplaceAll(s, "*", "")
}

// IsVideoRequest reports whether the user message asks for video content.
func IsVideoRequest(content string) bool {
	lower := strings.ToLower(content)
	for _, kw := range videoKeywords {
		if strings.Contains(lower, kw) {
			return true
		}
	}
	return false
}

// inflight tracks one outstanding model request for a chat. generation
// distinguishes a request from its successor so a superseded request can
// never reconcile its result into the chat.
type inflight struct {
	cancel     context.CancelFunc
	generation uint64
}

// ResponderService drives a full turn: append the user message, call the
// model, post-process, enrich with a video link, and reconcile the reply
// into the conversation state. At most one request per chat is in flight;
// starting a new one cancels its predecessor.
type ResponderService struct {
	convo  *ConversationService
	client Completer
	video  VideoSearcher
	docs   *DocumentContext
	log    *logger.Logger

	mu        sync.Mutex
	inflights map[string]*inflight
	nextGen   uint64
}

func NewResponderService(convo *ConversationService, client Completer, video VideoSearcher, docs *DocumentContext, log *logger.Logger) *ResponderService {
	if log == nil {
		log = logger.NewNop()
	}
	return &ResponderService{
		convo:     convo,
		client:    client,
		video:     video,
		docs:      docs,
		log:       log.With("service", "responder"),
		inflights: make(map[string]*inflight),
	}
}

// begin cancels any in-flight request for the chat and registers a new one,
// returning the request context and its generation token.
func (r *ResponderService) begin(ctx context.Context, chatID string) (context.Context, uint64) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if prev, ok := r.inflights[chatID]; ok {
		prev.cancel()
	}
	r.nextGen++
	gen := r.nextGen
	reqCtx, cancel := context.WithCancel(ctx)
	r.inflights[chatID] = &inflight{cancel: cancel, generation: gen}
	return reqCtx, gen
}

// finish deregisters the request if it is still the current one for the
// chat. It reports whether this request owned the slot, which gates
// reconciliation: a superseded request must not touch the chat.
func (r *ResponderService) finish(chatID string, gen uint64) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	cur, ok := r.inflights[chatID]
	if !ok || cur.generation != gen {
		return false
	}
	cur.cancel()
	delete(r.inflights, chatID)
	return true
}

// Cancel stops the chat's in-flight request, if any. Idempotent: cancelling
// twice, or after natural completion, is a no-op.
func (r *ResponderService) Cancel(chatID string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if cur, ok := r.inflights[chatID]; ok {
		cur.cancel()
		delete(r.inflights, chatID)
	}
}

// Send runs one batch-mode turn. The user message is appended and persisted
// before the model call, so a failed or cancelled turn keeps it for retry.
// Cancellation returns domain.ErrSendCancelled and leaves no assistant
// message; it is not a failure.
func (r *ResponderService) Send(ctx context.Context, chatID, content string) (domain.Chat, error) {
	return r.send(ctx, chatID, content, nil)
}

// SendStream runs one streaming turn, forwarding raw model chunks to
// onDelta as they arrive. The persisted assistant message is the normalized
// full text, so batch and stream turns store identical content.
func (r *ResponderService) SendStream(ctx context.Context, chatID, content string, onDelta func(delta string) error) (domain.Chat, error) {
	return r.send(ctx, chatID, content, onDelta)
}

func (r *ResponderService) send(ctx context.Context, chatID, content string, onDelta func(delta string) error) (domain.Chat, error) {
	content = strings.TrimSpace(content)
	if content == "" {
		return domain.Chat{}, domain.ErrEmptyMessage
	}

	chat, err := r.convo.GetChat(chatID)
	if err != nil {
		return domain.Chat{}, err
	}
	// Configuration errors surface before the user message is appended, so
	// an unsendable turn leaves the chat untouched.
	if chat.Type == domain.ChatTypeBot && r.client == nil {
		return domain.Chat{}, domain.ErrMissingAPIKey
	}

	userMsg := domain.NewMessage(domain.RoleUser, content)
	if atts := r.docs.TakeAttachments(); len(atts) > 0 {
		userMsg.Attachments = atts
	}
	chat, err = r.convo.AppendMessage(ctx, chatID, userMsg)
	if err != nil {
		return domain.Chat{}, err
	}

	// Contact and group chats never reach the model; the turn ends with
	// the appended user message.
	if chat.Type != domain.ChatTypeBot {
		return chat, nil
	}

	return r.regenerate(ctx, chat, userMsg, onDelta)
}

// regenerate runs the model call for the chat's current message list, whose
// last entry must be the originating user message. EditAndResend reuses it
// after truncation.
func (r *ResponderService) regenerate(ctx context.Context, chat domain.Chat, userMsg domain.Message, onDelta func(delta string) error) (domain.Chat, error) {
	history := BuildHistory(chat.Messages, r.docs.Take())

	reqCtx, gen := r.begin(ctx, chat.ID)

	var text string
	var err error
	if onDelta != nil {
		text, err = r.client.Stream(reqCtx, history, onDelta)
	} else {
		text, err = r.client.Complete(reqCtx, history)
	}

	owned := r.finish(chat.ID, gen)
	if err != nil {
		if errors.Is(err, context.Canceled) || !owned {
			return chat, domain.ErrSendCancelled
		}
		r.log.Error("completion failed", "chat_id", chat.ID, "error", err)
		return chat, err
	}
	if !owned {
		// A newer send superseded this one; drop the result.
		return chat, domain.ErrSendCancelled
	}

	text = NormalizeBold(text)

	if IsVideoRequest(userMsg.Content) {
		if suffix := r.searchVideoSuffix(ctx, userMsg.Content); suffix != "" {
			text += suffix
			if onDelta != nil {
				// Trailing chunk so streaming consumers see the link too.
				_ = onDelta(suffix)
			}
		}
	}

	assistantMsg := domain.NewMessage(domain.RoleAssistant, text)
	return r.convo.AppendMessage(ctx, chat.ID, assistantMsg)
}

// searchVideoSuffix returns the enrichment suffix for the user query, or ""
// on any failure or no-hit. Enrichment never fails the turn.
func (r *ResponderService) searchVideoSuffix(ctx context.Context, query string) string {
	if r.video == nil {
		return ""
	}
	v, err := r.video.Search(ctx, query)
	if err != nil {
		r.log.Warn("video search failed", "error", err)
		return ""
	}
	if v == nil || v.URL == "" {
		return ""
	}
	return videoSuffix + v.URL
}
