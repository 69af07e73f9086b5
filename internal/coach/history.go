package coach

import (
	"encoding/json"
	"strings"

	"topcoach/internal/glm"
)

// NoPreviousInfo is substituted as long-term context when no summary exists
// yet. A literal placeholder, distinct from a genuine empty string.
const NoPreviousInfo = "No previous information available."

// RenderTranscript renders a chronological history as "role: content" lines
// joined by newlines. This is the transcript format persisted with summaries.
func RenderTranscript(history []glm.Message) string {
	lines := make([]string, len(history))
	for i, m := range history {
		lines[i] = m.Role + ": " + m.Content
	}
	return strings.Join(lines, "\n")
}

// HistoryJSON serializes a history for inclusion in an analysis prompt
func HistoryJSON(history []glm.Message) string {
	serialized, err := json.MarshalIndent(history, "", "  ")
	if err != nil {
		// glm.Message contains only strings; marshalling cannot realistically fail
		return "[]"
	}
	return string(serialized)
}

// CapHistory bounds a chronological history to its most recent max entries
func CapHistory(history []glm.Message, max int) []glm.Message {
	if max <= 0 || len(history) <= max {
		return history
	}
	return history[len(history)-max:]
}
