// Package prompting holds helpers shared by every prompt builder and
// response parser that talks to the text-generation service.
package prompting

import (
	"strings"
	"unicode/utf8"
)

// DefaultMaxChars bounds document text sent with a prompt.
const DefaultMaxChars = 4000

// Snippet returns at most maxChars runes of text. Invalid UTF-8 is replaced
// so the request body always encodes cleanly.
func Snippet(text string, maxChars int) string {
	if maxChars <= 0 {
		maxChars = DefaultMaxChars
	}
	if !utf8.ValidString(text) {
		text = strings.ToValidUTF8(text, "�")
	}
	if utf8.RuneCountInString(text) <= maxChars {
		return text
	}
	runes := []rune(text)
	return string(runes[:maxChars])
}

// CleanJSONBlock strips markdown code fences around a JSON payload.
func CleanJSONBlock(raw string) string {
	s := strings.TrimSpace(raw)
	if !strings.HasPrefix(s, "```") {
		return s
	}
	s = strings.TrimPrefix(s, "```")
	if nl := strings.Index(s, "\n"); nl >= 0 {
		s = s[nl+1:]
	} else {
		s = strings.TrimPrefix(s, "json")
	}
	s = strings.TrimSuffix(strings.TrimSpace(s), "```")
	return strings.TrimSpace(s)
}

// ExtractJSONObject returns the outermost {...} span of raw, or "" when none exists.
func ExtractJSONObject(raw string) string {
	start := strings.Index(raw, "{")
	end := strings.LastIndex(raw, "}")
	if start >= 0 && end > start {
		return raw[start : end+1]
	}
	return ""
}
