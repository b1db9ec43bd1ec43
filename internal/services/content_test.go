package services

import (
	"context"
	"fmt"
	"testing"
)

const validBundleJSON = `{
  "spelling": {"word": "DOG", "instructions": "Spell the word"},
  "drawing": {"word": "DOG", "instructions": "Draw each letter"},
  "gallery": {
    "image_prompts": ["a dog running", "a dog sleeping", "a puppy", "a dog in snow"],
    "images": [],
    "instructions": "Explore the gallery"
  },
  "quiz": {
    "questions": [
      {"question": "What sound does a dog make?", "options": ["Bark", "Meow", "Moo", "Quack"], "correct_answer": "Bark"}
    ],
    "instructions": "Answer the questions"
  }
}`

func TestGenerateGamesParsesModelOutput(t *testing.T) {
	model := &fakeModel{textOut: []string{"Here you go:\n```json\n" + validBundleJSON + "\n```"}}
	gen := NewContentGenerator(testLogger(t), model)

	out := gen.GenerateGames(context.Background(), "Dog", "2", []string{"dog"}, "Science")
	if out.Fallback {
		t.Fatalf("unexpected fallback: %s", out.Reason)
	}
	if out.Bundle.Spelling.Word != "DOG" {
		t.Fatalf("spelling word = %q", out.Bundle.Spelling.Word)
	}
	if len(out.Bundle.Gallery.ImagePrompts) != 4 {
		t.Fatalf("image prompts = %d, want 4", len(out.Bundle.Gallery.ImagePrompts))
	}
	if len(out.Bundle.Quiz.Questions) != 1 {
		t.Fatalf("quiz questions = %d, want 1", len(out.Bundle.Quiz.Questions))
	}
}

func TestGenerateGamesFallsBackOnModelError(t *testing.T) {
	model := &fakeModel{textErr: fmt.Errorf("rate limited")}
	gen := NewContentGenerator(testLogger(t), model)

	out := gen.GenerateGames(context.Background(), "Dog", "2", nil, "")
	if !out.Fallback {
		t.Fatalf("expected fallback on model error")
	}
	if out.Reason == "" {
		t.Fatalf("fallback must carry a reason")
	}
	if err := out.Bundle.Validate(); err != nil {
		t.Fatalf("fallback bundle must validate: %v", err)
	}
}

func TestGenerateGamesFallsBackOnMissingGame(t *testing.T) {
	// Quiz key absent.
	model := &fakeModel{textOut: []string{`{"spelling": {"word": "DOG"}, "drawing": {"word": "DOG"}, "gallery": {"instructions": "look"}}`}}
	gen := NewContentGenerator(testLogger(t), model)

	out := gen.GenerateGames(context.Background(), "Dog", "2", nil, "")
	if !out.Fallback {
		t.Fatalf("expected fallback when a game is missing")
	}
}

func TestGenerateGamesWithoutClient(t *testing.T) {
	gen := NewContentGenerator(testLogger(t), nil)
	out := gen.GenerateGames(context.Background(), "Dog", "2", nil, "")
	if !out.Fallback {
		t.Fatalf("nil client must fall back")
	}
}

func TestParseBundleRejectsInvalidContent(t *testing.T) {
	cases := []struct {
		name string
		raw  string
	}{
		{"no json", "sorry, I cannot help with that"},
		{"empty word", `{"spelling": {"word": ""}, "drawing": {"word": "X"}, "gallery": {"instructions": "go"}, "quiz": {"questions": [{"question": "q", "options": ["a"], "correct_answer": "a"}]}}`},
		{"no quiz questions", `{"spelling": {"word": "X"}, "drawing": {"word": "X"}, "gallery": {"instructions": "go"}, "quiz": {"questions": []}}`},
	}
	for _, tc := range cases {
		if _, err := parseBundle(tc.raw); err == nil {
			t.Fatalf("%s: expected error", tc.name)
		}
	}
}

func TestFallbackBundleShape(t *testing.T) {
	bundle := FallbackBundle("Elephant Habitat", "2")
	if err := bundle.Validate(); err != nil {
		t.Fatalf("fallback bundle invalid: %v", err)
	}
	if got := bundle.Spelling.Word; len([]rune(got)) > 8 {
		t.Fatalf("fallback word too long: %q", got)
	}
	if bundle.Spelling.Word != "ELEPHANT" {
		t.Fatalf("fallback word = %q, want ELEPHANT", bundle.Spelling.Word)
	}
	if len(bundle.Gallery.Images) != 0 {
		t.Fatalf("fallback gallery starts without images")
	}
	if bundle.Quiz.Questions[0].CorrectAnswer != "Option A" {
		t.Fatalf("fallback quiz answer = %q", bundle.Quiz.Questions[0].CorrectAnswer)
	}
}

func TestFallbackWordEmptyTopic(t *testing.T) {
	if got := fallbackWord("   "); got != "LEARN" {
		t.Fatalf("fallbackWord(blank) = %q, want LEARN", got)
	}
}
