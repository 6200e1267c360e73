package services

import (
	"fmt"
	"strings"
	"testing"

	"github.com/yungbote/omnichat-backend/internal/domain"
)

func TestBuildHistoryAddsSystemPrompt(t *testing.T) {
	out := BuildHistory([]domain.Message{
		{Role: domain.RoleUser, Content: "hi"},
	}, "")
	if len(out) != 2 {
		t.Fatalf("len = %d", len(out))
	}
	if out[0].Role != "system" || !strings.Contains(out[0].Content, "OmniChat") {
		t.Fatalf("missing system prompt: %+v", out[0])
	}
	if out[1].Role != "user" || out[1].Content != "hi" {
		t.Fatalf("user turn mangled: %+v", out[1])
	}
}

func TestBuildHistoryKeepsExistingSystem(t *testing.T) {
	out := BuildHistory([]domain.Message{
		{Role: domain.RoleSystem, Content: "custom"},
		{Role: domain.RoleUser, Content: "hi"},
	}, "")
	if len(out) != 2 {
		t.Fatalf("len = %d", len(out))
	}
	if out[0].Content != "custom" {
		t.Fatalf("system prompt replaced: %q", out[0].Content)
	}
}

func TestBuildHistoryRoleMapping(t *testing.T) {
	out := BuildHistory([]domain.Message{
		{Role: domain.RoleModel, Content: "a"},
		{Role: domain.RoleAssistant, Content: "b"},
		{Role: domain.RoleContact, Content: "c"},
		{Role: domain.RoleUser, Content: "d"},
	}, "")
	roles := []string{out[1].Role, out[2].Role, out[3].Role, out[4].Role}
	want := []string{"assistant", "assistant", "user", "user"}
	for i := range want {
		if roles[i] != want[i] {
			t.Fatalf("role %d = %q, want %q", i, roles[i], want[i])
		}
	}
}

func TestBuildHistoryDocumentInjection(t *testing.T) {
	out := BuildHistory([]domain.Message{
		{Role: domain.RoleUser, Content: "Q"},
	}, "D")
	last := out[len(out)-1]
	want := "Based on the following document content:\n\nD\n\nUser question: Q"
	if last.Content != want {
		t.Fatalf("content = %q, want %q", last.Content, want)
	}
}

func TestBuildHistoryNoInjectionOnAssistantTail(t *testing.T) {
	out := BuildHistory([]domain.Message{
		{Role: domain.RoleUser, Content: "Q"},
		{Role: domain.RoleAssistant, Content: "A"},
	}, "D")
	for _, m := range out {
		if strings.Contains(m.Content, "document content") && m.Role != "system" {
			t.Fatalf("document injected into non-user tail: %+v", m)
		}
	}
}

func TestBuildHistoryTruncation(t *testing.T) {
	msgs := []domain.Message{{Role: domain.RoleSystem, Content: "sys"}}
	for i := 0; i < 30; i++ {
		role := domain.RoleUser
		if i%2 == 1 {
			role = domain.RoleAssistant
		}
		msgs = append(msgs, domain.Message{Role: role, Content: fmt.Sprintf("m%d", i)})
	}

	out := BuildHistory(msgs, "")
	if len(out) != 21 {
		t.Fatalf("len = %d, want 21", len(out))
	}
	if out[0].Content != "sys" {
		t.Fatalf("system message dropped: %+v", out[0])
	}
	// Elements 1..20 are the last 20 of the input, in order.
	for i := 0; i < 20; i++ {
		want := fmt.Sprintf("m%d", 10+i)
		if out[i+1].Content != want {
			t.Fatalf("out[%d] = %q, want %q", i+1, out[i+1].Content, want)
		}
	}
}

func TestBuildHistoryShortInputUntouched(t *testing.T) {
	msgs := []domain.Message{{Role: domain.RoleSystem, Content: "sys"}}
	for i := 0; i < 20; i++ {
		msgs = append(msgs, domain.Message{Role: domain.RoleUser, Content: fmt.Sprintf("m%d", i)})
	}
	out := BuildHistory(msgs, "")
	if len(out) != 21 {
		t.Fatalf("len = %d, want 21 (no truncation at the boundary)", len(out))
	}
	if out[1].Content != "m0" {
		t.Fatalf("boundary input truncated: %+v", out[1])
	}
}
