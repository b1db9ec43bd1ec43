package services

import (
	"testing"

	"github.com/playfinity/playfinity-backend/internal/types"
)

func TestPrimaryLabelPicksTopTag(t *testing.T) {
	tags := []types.Tag{
		{Name: "animal", Confidence: 80.0},
		{Name: "golden retriever", Confidence: 95.5},
		{Name: "dog", Confidence: 95.5},
	}
	if got := PrimaryLabel(tags, "some text"); got != "Golden Retriever" {
		t.Fatalf("PrimaryLabel = %q, want Golden Retriever (first wins ties)", got)
	}
}

func TestPrimaryLabelFromDescription(t *testing.T) {
	cases := []struct {
		description string
		want        string
	}{
		{"a fluffy dog on the grass", "Fluffy"},
		{"the an is of at", "Object"},
		{"", "Object"},
		{"ox up it cat", "Cat"},
	}
	for _, tc := range cases {
		if got := PrimaryLabel(nil, tc.description); got != tc.want {
			t.Fatalf("PrimaryLabel(nil, %q) = %q, want %q", tc.description, got, tc.want)
		}
	}
}

func TestPrimaryLabelBlankTagName(t *testing.T) {
	tags := []types.Tag{{Name: "   ", Confidence: 99}}
	if got := PrimaryLabel(tags, "a fluffy dog"); got != "Object" {
		t.Fatalf("blank tag name should yield Object, got %q", got)
	}
}

func TestTitleCase(t *testing.T) {
	cases := map[string]string{
		"golden retriever": "Golden Retriever",
		"DOG":              "Dog",
		"  mixed   CASE ":  "Mixed Case",
	}
	for in, want := range cases {
		if got := titleCase(in); got != want {
			t.Fatalf("titleCase(%q) = %q, want %q", in, got, want)
		}
	}
}
