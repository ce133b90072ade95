package agent

// History is the bounded ordered log of texts published by this
// process, most-recent-last. It is owned by the orchestrator and passed
// by reference into prompt building, never ambient state.
type History struct {
	limit   int
	entries []string
}

// NewHistory creates a history bounded to limit entries.
func NewHistory(limit int) *History {
	if limit <= 0 {
		limit = 20
	}
	return &History{limit: limit}
}

// Append records a published text, dropping the oldest entry when the
// bound is exceeded.
func (h *History) Append(text string) {
	h.entries = append(h.entries, text)
	if len(h.entries) > h.limit {
		h.entries = h.entries[len(h.entries)-h.limit:]
	}
}

// Entries returns the log, oldest first.
func (h *History) Entries() []string {
	out := make([]string, len(h.entries))
	copy(out, h.entries)
	return out
}

// Len returns the number of recorded entries.
func (h *History) Len() int {
	return len(h.entries)
}
