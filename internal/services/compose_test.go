package services

import "testing"

func TestDocumentContextTakeClears(t *testing.T) {
	d := NewDocumentContext()
	d.Set("doc text")
	if got := d.Take(); got != "doc text" {
		t.Fatalf("Take = %q", got)
	}
	if got := d.Take(); got != "" {
		t.Fatalf("second Take = %q, want empty", got)
	}
}

func TestDocumentContextSetOverwrites(t *testing.T) {
	d := NewDocumentContext()
	d.Set("first")
	d.Set("second")
	if got := d.Take(); got != "second" {
		t.Fatalf("Take = %q", got)
	}
}

func TestAttachmentLifecycle(t *testing.T) {
	d := NewDocumentContext()
	a := d.AddAttachment("notes.pdf", "application/pdf", 1234, "blob:abc")
	b := d.AddAttachment("pic.png", "image/png", 99, "blob:def")

	if len(d.Attachments()) != 2 {
		t.Fatalf("pending = %d", len(d.Attachments()))
	}
	if !d.RemoveAttachment(a.ID) {
		t.Fatal("remove existing returned false")
	}
	if d.RemoveAttachment("missing") {
		t.Fatal("remove missing returned true")
	}

	taken := d.TakeAttachments()
	if len(taken) != 1 || taken[0].ID != b.ID {
		t.Fatalf("taken = %+v", taken)
	}
	if len(d.Attachments()) != 0 {
		t.Fatal("TakeAttachments did not clear pending list")
	}
}

func TestClearDropsEverything(t *testing.T) {
	d := NewDocumentContext()
	d.Set("text")
	d.AddAttachment("a", "text/plain", 1, "blob:x")
	d.Clear()
	if d.Peek() != "" || len(d.Attachments()) != 0 {
		t.Fatal("Clear left state behind")
	}
}
