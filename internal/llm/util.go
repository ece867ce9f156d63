// Package llm - util.go provides shared utilities for LLM response processing.
package llm

import "strings"

// StripMarkdownFence removes a code fence wrapping a whole markdown response.
// A leading "```markdown" or "```" line and a trailing "```" line are dropped;
// fences inside the document are kept.
func StripMarkdownFence(text string) string {
	if rest, ok := strings.CutPrefix(text, "```markdown\n"); ok {
		text = rest
	}
	if rest, ok := strings.CutPrefix(text, "```\n"); ok {
		text = rest
	}
	if rest, ok := strings.CutSuffix(text, "\n```"); ok {
		text = rest
	}
	return text
}
