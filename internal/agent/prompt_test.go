package agent

import (
	"strings"
	"testing"
)

func TestBuildPromptEmptyHistory(t *testing.T) {
	p := BuildPrompt("say something", "Thought Leader", "space", nil, false)

	if !strings.Contains(p, "**Persona:** You are a 'Thought Leader' expert in 'space'.") {
		t.Error("missing persona declaration")
	}
	if !strings.Contains(p, "No recent activity.") {
		t.Error("missing empty-history marker")
	}
	if !strings.Contains(p, "**TASK:** say something") {
		t.Error("missing task")
	}
	if !strings.Contains(p, `"analysis"`) || !strings.Contains(p, `"tweet_text"`) {
		t.Error("missing required output fields")
	}
}

func TestBuildPromptRendersHistory(t *testing.T) {
	h := NewHistory(5)
	h.Append("first post")
	h.Append("second post")

	p := BuildPrompt("task", "tone", "niche", h, false)
	if !strings.Contains(p, "first post\nsecond post") {
		t.Error("history not rendered most-recent-last")
	}
	if strings.Contains(p, "No recent activity.") {
		t.Error("empty-history marker rendered despite history")
	}
}

func TestBuildPromptReplyVariantForbidsMentions(t *testing.T) {
	reply := BuildPrompt("task", "tone", "niche", nil, true)
	post := BuildPrompt("task", "tone", "niche", nil, false)

	if !strings.Contains(reply, "DO NOT use @ mentions") {
		t.Error("reply variant missing no-mentions instruction")
	}
	if strings.Contains(post, "DO NOT use @ mentions") {
		t.Error("post variant carries the reply instruction")
	}
}

func TestHistoryBound(t *testing.T) {
	h := NewHistory(3)
	for _, s := range []string{"a", "b", "c", "d", "e"} {
		h.Append(s)
	}
	got := h.Entries()
	if len(got) != 3 || got[0] != "c" || got[2] != "e" {
		t.Fatalf("bounded history = %v, want [c d e]", got)
	}
}
