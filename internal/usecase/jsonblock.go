package usecase

import "strings"

// extractJSONBlock returns the JSON payload inside raw model output. Models
// often wrap JSON in Markdown code fences even when asked not to. Priority:
// a fence tagged json, then any fence, then the raw text itself.
func extractJSONBlock(raw string) string {
	raw = strings.TrimSpace(raw)

	if _, after, found := strings.Cut(raw, "```json"); found {
		if inner, _, closed := strings.Cut(after, "```"); closed {
			return strings.TrimSpace(inner)
		}
		return strings.TrimSpace(after)
	}

	if _, after, found := strings.Cut(raw, "```"); found {
		if inner, _, closed := strings.Cut(after, "```"); closed {
			return strings.TrimSpace(inner)
		}
		return strings.TrimSpace(after)
	}

	return raw
}
