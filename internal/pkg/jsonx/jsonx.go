// Package jsonx recovers JSON objects from model output that may wrap
// the payload in prose or markdown fences.
package jsonx

import (
	"encoding/json"
	"errors"
	"strings"
)

var ErrNoObject = errors.New("jsonx: no JSON object found")

// ExtractObject returns the first JSON object found in text. It tries
// the whole input first, then fenced code blocks, then a balanced-brace
// scan from the first '{'.
func ExtractObject(text string) (map[string]any, error) {
	trimmed := strings.TrimSpace(text)
	if trimmed == "" {
		return nil, ErrNoObject
	}

	var obj map[string]any
	if err := json.Unmarshal([]byte(trimmed), &obj); err == nil && obj != nil {
		return obj, nil
	}

	if inner, ok := fencedBlock(trimmed); ok {
		if err := json.Unmarshal([]byte(inner), &obj); err == nil && obj != nil {
			return obj, nil
		}
		if span, ok := balancedObject(inner); ok {
			if err := json.Unmarshal([]byte(span), &obj); err == nil && obj != nil {
				return obj, nil
			}
		}
	}

	if span, ok := balancedObject(trimmed); ok {
		if err := json.Unmarshal([]byte(span), &obj); err == nil && obj != nil {
			return obj, nil
		}
	}
	return nil, ErrNoObject
}

// fencedBlock pulls the body of the first ``` fence, tolerating an
// optional language tag on the opening line.
func fencedBlock(text string) (string, bool) {
	start := strings.Index(text, "```")
	if start < 0 {
		return "", false
	}
	rest := text[start+3:]
	if nl := strings.IndexByte(rest, '\n'); nl >= 0 {
		firstLine := strings.TrimSpace(rest[:nl])
		if firstLine == "" || isFenceTag(firstLine) {
			rest = rest[nl+1:]
		}
	}
	end := strings.Index(rest, "```")
	if end < 0 {
		return strings.TrimSpace(rest), true
	}
	return strings.TrimSpace(rest[:end]), true
}

func isFenceTag(s string) bool {
	if len(s) > 16 {
		return false
	}
	for _, r := range s {
		if (r < 'a' || r > 'z') && (r < 'A' || r > 'Z') && (r < '0' || r > '9') {
			return false
		}
	}
	return true
}

// balancedObject scans from the first '{' to its matching '}' while
// tracking string literals and escapes.
func balancedObject(text string) (string, bool) {
	start := strings.IndexByte(text, '{')
	if start < 0 {
		return "", false
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
				return text[start : i+1], true
			}
		}
	}
	return "", false
}
