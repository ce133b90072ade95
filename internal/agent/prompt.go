package agent

import (
	"fmt"
	"strings"
)

// noActivityMarker is rendered in place of an empty history.
const noActivityMarker = "No recent activity."

// Output shape instructions. The field names are a fixed contract the
// draft parser depends on; the reply variant additionally forbids
// @-mentions in the text.
const (
	postOutputShape  = `"analysis": "A brief summary.", "tweet_text": "The final tweet text."`
	replyOutputShape = `"analysis": "Justification for your reply.", "tweet_text": "The reply text. DO NOT use @ mentions."`
)

// BuildPrompt assembles the structured prompt shared by all strategies:
// persona declaration, rendered history, the task, and the strict JSON
// output shape.
func BuildPrompt(task, tone, niche string, history *History, isReply bool) string {
	historyContext := noActivityMarker
	if history != nil && history.Len() > 0 {
		historyContext = strings.Join(history.Entries(), "\n")
	}

	outputShape := postOutputShape
	if isReply {
		outputShape = replyOutputShape
	}

	return fmt.Sprintf(
		"**Persona:** You are a '%s' expert in '%s'.\n"+
			"**Your Recent Activity:**\n%s\n"+
			"**TASK:** %s\n"+
			"**Output Format (Strictly JSON):**\n```json\n{\n  %s\n}\n```",
		tone, niche, historyContext, task, outputShape)
}
