package coach

import (
	"strings"
	"testing"

	"topcoach/internal/glm"
)

func TestRenderTranscript(t *testing.T) {
	history := []glm.Message{
		{Role: "user", Content: "I want to start lifting"},
		{Role: "assistant", Content: "Great, tell me your height"},
		{Role: "user", Content: "180cm"},
	}

	got := RenderTranscript(history)
	want := "user: I want to start lifting\nassistant: Great, tell me your height\nuser: 180cm"
	if got != want {
		t.Errorf("RenderTranscript = %q, want %q", got, want)
	}

	if RenderTranscript(nil) != "" {
		t.Errorf("RenderTranscript(nil) should be empty")
	}
}

func TestCapHistory(t *testing.T) {
	history := make([]glm.Message, 10)
	for i := range history {
		history[i] = glm.Message{Role: "user", Content: strings.Repeat("x", i+1)}
	}

	capped := CapHistory(history, 3)
	if len(capped) != 3 {
		t.Fatalf("expected 3 messages, got %d", len(capped))
	}
	// Most recent entries survive, order preserved
	if capped[0].Content != strings.Repeat("x", 8) || capped[2].Content != strings.Repeat("x", 10) {
		t.Errorf("CapHistory kept wrong slice: %v", capped)
	}

	if got := CapHistory(history, 20); len(got) != 10 {
		t.Errorf("cap larger than history should be a no-op, got %d", len(got))
	}
	if got := CapHistory(history, 0); len(got) != 10 {
		t.Errorf("cap of 0 should be a no-op, got %d", len(got))
	}
}

func TestHistoryJSON(t *testing.T) {
	history := []glm.Message{{Role: "user", Content: "hello"}}
	got := HistoryJSON(history)
	if !strings.Contains(got, `"role": "user"`) || !strings.Contains(got, `"content": "hello"`) {
		t.Errorf("unexpected serialization: %s", got)
	}
}
