// Package sanitize turns raw model output into trusted JSON.
//
// Models routinely wrap JSON replies in Markdown code fences even when
// asked not to. The sanitizer strips a leading ```json or ``` fence and a
// trailing ``` fence, trims whitespace, and then requires the remainder to
// parse as JSON. Anything that fails to parse is rejected rather than
// passed through to clients.
package sanitize

import (
	"encoding/json"
	"fmt"
	"strings"

	"tavola-hq/menugate/pkg/providers"
)

// Sanitize strips Markdown code fences from raw model output and validates
// that the remainder is well-formed JSON. The provider label appears in the
// error when validation fails.
//
// The returned RawMessage is the cleaned text, not a re-serialization:
// key order and formatting inside the JSON are preserved.
func Sanitize(raw, provider string) (json.RawMessage, error) {
	cleaned := stripFences(raw)

	if cleaned == "" {
		return nil, &providers.ParseError{
			Provider:    provider,
			RawResponse: raw,
			Cause:       fmt.Errorf("response is empty after removing code fences"),
		}
	}

	if !json.Valid([]byte(cleaned)) {
		return nil, &providers.ParseError{
			Provider:    provider,
			RawResponse: raw,
			Cause:       fmt.Errorf("response is not valid JSON"),
		}
	}

	return json.RawMessage(cleaned), nil
}

// stripFences removes one leading and one trailing Markdown code fence.
// Fences inside the body are left alone.
func stripFences(raw string) string {
	s := strings.TrimSpace(raw)

	if strings.HasPrefix(s, "```") {
		s = s[3:]
		// A language tag like "json" may follow the opening fence.
		if idx := strings.IndexByte(s, '\n'); idx >= 0 {
			firstLine := strings.TrimSpace(s[:idx])
			if isLanguageTag(firstLine) {
				s = s[idx+1:]
			}
		} else {
			s = strings.TrimSpace(s)
			if isLanguageTag(s) {
				return ""
			}
		}
	}

	s = strings.TrimSpace(s)
	if strings.HasSuffix(s, "```") {
		s = s[:len(s)-3]
	}

	return strings.TrimSpace(s)
}

// isLanguageTag reports whether a fence's first line is a language tag
// (or empty) rather than content.
func isLanguageTag(line string) bool {
	if line == "" {
		return true
	}
	for _, r := range line {
		if (r < 'a' || r > 'z') && (r < 'A' || r > 'Z') && (r < '0' || r > '9') {
			return false
		}
	}
	return true
}
