// Package jsonx extracts a best-effort JSON object from free-form model
// output. Providers frequently wrap their payload in a fenced code block
// or surround it with prose; the extraction here is deliberately the
// single place where that heuristic lives, so call sites only deal with
// "found an object or not".
package jsonx

import (
	"encoding/json"
	"strings"
)

// Extract returns the first JSON object found in text. It prefers a
// fenced ```json code block; when no fence is present it falls back to
// the first top-level balanced-brace span. The second return value is
// false when no syntactically valid object could be located.
func Extract(text string) ([]byte, bool) {
	if candidate, ok := fencedBlock(text); ok {
		if json.Valid(candidate) {
			return candidate, true
		}
	}
	if candidate, ok := balancedBraces(text); ok {
		if json.Valid(candidate) {
			return candidate, true
		}
	}
	return nil, false
}

// Unmarshal extracts a JSON object from text and decodes it into v.
func Unmarshal(text string, v any) bool {
	raw, ok := Extract(text)
	if !ok {
		return false
	}
	return json.Unmarshal(raw, v) == nil
}

// fencedBlock returns the body of the first ``` fence that contains an
// object. The language tag after the opening fence (json, javascript,
// anything) is ignored.
func fencedBlock(text string) ([]byte, bool) {
	start := strings.Index(text, "```")
	if start < 0 {
		return nil, false
	}
	rest := text[start+3:]
	if nl := strings.IndexByte(rest, '\n'); nl >= 0 {
		// Drop the language tag line.
		rest = rest[nl+1:]
	}
	end := strings.Index(rest, "```")
	if end < 0 {
		return nil, false
	}
	body := strings.TrimSpace(rest[:end])
	if !strings.HasPrefix(body, "{") {
		return nil, false
	}
	return []byte(body), true
}

// balancedBraces returns the first top-level {...} span, tracking brace
// depth while skipping string literals and escapes.
func balancedBraces(text string) ([]byte, bool) {
	start := strings.IndexByte(text, '{')
	if start < 0 {
		return nil, false
	}

	depth := 0
	inString := false
	escaped := false
	for i := start; i < len(text); i++ {
		c := text[i]
		if inString {
			switch {
			case escaped:
				escaped = false
			case c == '\\':
				escaped = true
			case c == '"':
				inString = false
			}
			continue
		}
		switch c {
		case '"':
			inString = true
		case '{':
			depth++
		case '}':
			depth--
			if depth == 0 {
				return []byte(text[start : i+1]), true
			}
		}
	}
	return nil, false
}
