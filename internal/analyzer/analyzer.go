// Package analyzer derives descriptive tags, language, subject, and summaries
// from extracted document text. Detection is explicit keyword counting, not a
// learned model; results are deterministic for a given input.
package analyzer

import "strings"

const summaryMaxSentences = 3

// Summarize builds a short summary from the leading sentences of content.
func Summarize(content string) string {
	content = strings.TrimSpace(content)
	if content == "" {
		return ""
	}

	var sentences []string
	remaining := content
	for len(sentences) < summaryMaxSentences {
		idx := strings.IndexAny(remaining, ".!?")
		if idx < 0 {
			if trimmed := strings.TrimSpace(remaining); trimmed != "" && len(sentences) == 0 {
				sentences = append(sentences, trimmed)
			}
			break
		}
		sentence := strings.TrimSpace(remaining[:idx+1])
		if sentence != "" {
			sentences = append(sentences, sentence)
		}
		remaining = remaining[idx+1:]
	}

	summary := strings.Join(sentences, " ")
	const maxLen = 400
	if len(summary) > maxLen {
		summary = summary[:maxLen] + "..."
	}
	return summary
}
