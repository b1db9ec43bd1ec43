package services

import (
	"strings"
	"unicode"

	"github.com/playfinity/playfinity-backend/internal/types"
)

var descriptionStopWords = map[string]struct{}{
	"a": {}, "an": {}, "the": {}, "is": {}, "are": {}, "with": {},
	"on": {}, "in": {}, "at": {}, "of": {}, "for": {}, "and": {},
	"or": {}, "but": {},
}

// PrimaryLabel picks the subject a prediction is filed under: the
// highest-confidence tag (first wins on ties), else the first usable
// word of the description, else "Object".
func PrimaryLabel(tags []types.Tag, description string) string {
	if len(tags) > 0 {
		best := tags[0]
		for _, t := range tags[1:] {
			if t.Confidence > best.Confidence {
				best = t
			}
		}
		if name := strings.TrimSpace(best.Name); name != "" {
			return titleCase(name)
		}
		return "Object"
	}

	for _, word := range strings.Fields(strings.ToLower(description)) {
		if _, stop := descriptionStopWords[word]; stop {
			continue
		}
		if len(word) > 2 {
			return titleCase(word)
		}
	}
	return "Object"
}

func titleCase(s string) string {
	words := strings.Fields(strings.ToLower(s))
	for i, w := range words {
		r := []rune(w)
		r[0] = unicode.ToUpper(r[0])
		words[i] = string(r)
	}
	return strings.Join(words, " ")
}
