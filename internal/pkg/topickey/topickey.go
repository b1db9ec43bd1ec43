// Package topickey canonicalizes free-form topic text into stable
// document keys. Every store path and cache lookup goes through
// Normalize so that "Dog!!", "  dog  " and "DOG" land on one record.
package topickey

import (
	"regexp"
	"strings"
)

const (
	// Unknown is the key used when no usable characters survive
	// normalization.
	Unknown = "unknown_topic"

	maxLen = 50
)

var nonAlnum = regexp.MustCompile(`[^a-z0-9]+`)

// Normalize lowercases s, collapses every run of non-alphanumeric
// characters to a single underscore, strips edge underscores and caps
// the result at 50 characters. Inputs that normalize below two
// characters map to Unknown. Normalize is idempotent.
func Normalize(s string) string {
	key := strings.ToLower(strings.TrimSpace(s))
	key = nonAlnum.ReplaceAllString(key, "_")
	key = strings.Trim(key, "_")
	if len(key) < 2 {
		return Unknown
	}
	if len(key) > maxLen {
		key = key[:maxLen]
		key = strings.TrimRight(key, "_")
		if len(key) < 2 {
			return Unknown
		}
	}
	return key
}
