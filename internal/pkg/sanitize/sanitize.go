// Package sanitize strips markup from free-text input before it is stored.
package sanitize

import (
	"html"
	"strings"

	"github.com/microcosm-cc/bluemonday"
)

var strict = bluemonday.StrictPolicy()

// maxPasses bounds the unescape/sanitize loop for entity-encoded markup.
const maxPasses = 3

// Text removes every HTML element from s and returns plain text.
// Entity-encoded markup such as "&lt;b&gt;" is decoded and stripped as well.
func Text(s string) string {
	out := s
	for i := 0; i < maxPasses; i++ {
		next := html.UnescapeString(strict.Sanitize(out))
		if next == out {
			break
		}
		out = next
	}
	return strings.TrimSpace(out)
}

// OptionalText applies Text to an optional value. Blank results become nil.
func OptionalText(s *string) *string {
	if s == nil {
		return nil
	}
	cleaned := Text(*s)
	if cleaned == "" {
		return nil
	}
	return &cleaned
}

// Lines applies Text to every element and drops the ones left empty.
func Lines(items []string) []string {
	out := make([]string, 0, len(items))
	for _, item := range items {
		if cleaned := Text(item); cleaned != "" {
			out = append(out, cleaned)
		}
	}
	return out
}
