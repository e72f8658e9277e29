package html

import (
	"html"
	"strings"
	"sync"

	"github.com/microcosm-cc/bluemonday"
)

var (
	messagePolicyOnce sync.Once
	messagePolicy     *bluemonday.Policy
)

// plainMessage strips markup from backend supplied messages. The template
// escapes the result again, so entities are decoded here.
func plainMessage(raw string) string {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return ""
	}
	cleaned := messageSanitizer().Sanitize(trimmed)
	return strings.TrimSpace(html.UnescapeString(cleaned))
}

func plainMessages(raw []string) []string {
	out := make([]string, 0, len(raw))
	for _, message := range raw {
		if cleaned := plainMessage(message); cleaned != "" {
			out = append(out, cleaned)
		}
	}
	return out
}

func messageSanitizer() *bluemonday.Policy {
	messagePolicyOnce.Do(func() {
		messagePolicy = bluemonday.StrictPolicy()
	})
	return messagePolicy
}
