package config

import (
	"html"
	"strings"
	"sync"

	"github.com/microcosm-cc/bluemonday"
)

var (
	vocabularyPolicyOnce sync.Once
	vocabularyPolicy     *bluemonday.Policy
)

// Normalize returns a copy with vocabulary entries stripped of markup and
// surrounding whitespace. Entries left empty are dropped.
func (c Config) Normalize() Config {
	out := c.Clone()
	out.Adjectives = sanitizeWords(out.Adjectives)
	out.Categories = sanitizeWords(out.Categories)
	out.EmailDomain = strings.TrimSpace(out.EmailDomain)
	return out
}

func sanitizeWords(words []string) []string {
	out := make([]string, 0, len(words))
	for _, word := range words {
		if cleaned := sanitizeWord(word); cleaned != "" {
			out = append(out, cleaned)
		}
	}
	return out
}

func sanitizeWord(raw string) string {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return ""
	}
	// The strict policy entity-encodes text; vocabulary is plain text.
	return strings.TrimSpace(html.UnescapeString(vocabularySanitizer().Sanitize(trimmed)))
}

func vocabularySanitizer() *bluemonday.Policy {
	vocabularyPolicyOnce.Do(func() {
		vocabularyPolicy = bluemonday.StrictPolicy()
	})
	return vocabularyPolicy
}
