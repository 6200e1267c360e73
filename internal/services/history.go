// Package services implements the conversation core: history building,
// response orchestration, chat state, edit-and-regenerate, compose state,
// and document text extraction.
package services

import (
	"github.com/yungbote/omnichat-backend/internal/domain"
	"github.com/yungbote/omnichat-backend/internal/platform/aigrid"
)

// systemPrompt is prepended when the history carries no system message.
const systemPrompt = `You are OmniChat, a helpful AI assistant.

If the user provides document content (prefixed with 'Based on the following document content:'), your primary task is to analyze that content and provide detailed feedback or answer questions based on it.

When users ask for videos or video tutorials, you should:
1. Provide a brief explanation or answer to their question.
2. Include a real, working YouTube URL that is relevant to their request.
3. Use the full YouTube URL format: https://www.youtube.com/watch?v=VIDEO_ID
4. IMPORTANT: Only provide URLs to videos that actually exist on YouTube. Do not make up video IDs.
5. If you don't know a specific real YouTube video URL, explain that you cannot provide video links but can help with text-based information instead.`

const (
	docPreamble     = "Based on the following document content:\n\n"
	docQuestionJoin = "\n\nUser question: "
)

// historyLimit caps the built history at a system message plus the last 20
// turns (10 exchanges).
const historyLimit = 21

// CanonicalRole maps stored roles to the wire roles the completion API
// accepts. Contact messages count as user turns; the legacy model alias
// counts as assistant.
func CanonicalRole(r domain.Role) string {
	switch r {
	case domain.RoleSystem:
		return "system"
	case domain.RoleAssistant, domain.RoleModel:
		return "assistant"
	default:
		return "user"
	}
}

// BuildHistory converts a chat's message list into the model-ready payload:
// role normalization, optional document injection into the last user turn,
// system prompt insertion, then middle truncation.
func BuildHistory(messages []domain.Message, documentContent string) []aigrid.TurnMessage {
	out := make([]aigrid.TurnMessage, 0, len(messages)+1)
	for _, m := range messages {
		out = append(out, aigrid.TurnMessage{Role: CanonicalRole(m.Role), Content: m.Content})
	}

	// Inject the parsed document into the last user turn only. If the
	// history is empty or ends on a non-user turn, the document is skipped
	// this round.
	if documentContent != "" && len(out) > 0 {
		last := len(out) - 1
		if out[last].Role == "user" {
			out[last].Content = docPreamble + documentContent + docQuestionJoin + out[last].Content
		}
	}

	hasSystem := false
	for _, m := range out {
		if m.Role == "system" {
			hasSystem = true
			break
		}
	}
	if !hasSystem {
		out = append([]aigrid.TurnMessage{{Role: "system", Content: systemPrompt}}, out...)
	}

	// Keep entry 0 plus the most recent 20; drop only from the middle.
	if len(out) > historyLimit {
		trimmed := make([]aigrid.TurnMessage, 0, historyLimit)
		trimmed = append(trimmed, out[0])
		trimmed = append(trimmed, out[len(out)-(historyLimit-1):]...)
		out = trimmed
	}
	return out
}
