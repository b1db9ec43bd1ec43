package services

import (
	"context"
	"strings"
	"testing"
)

func TestSynthesizeKeepsPromptOrderIndices(t *testing.T) {
	model := &fakeModel{imageFail: map[int]bool{1: true}}
	is := NewImageSynthesizer(testLogger(t), model)

	prompts := []string{"a dog running", "a dog sleeping", "a puppy"}
	out := is.Synthesize(context.Background(), prompts, "Dog")

	if len(out) != 2 {
		t.Fatalf("synthesized = %d, want 2", len(out))
	}
	if out[0].Index != 0 || out[1].Index != 2 {
		t.Fatalf("indices = %d,%d, want 0,2", out[0].Index, out[1].Index)
	}
	// Refs carry the original prompt, not the enhanced one.
	if out[1].Prompt != "a puppy" {
		t.Fatalf("prompt = %q", out[1].Prompt)
	}
}

func TestSynthesizeEnhancesPrompts(t *testing.T) {
	model := &fakeModel{}
	is := NewImageSynthesizer(testLogger(t), model)

	is.Synthesize(context.Background(), []string{"a dog running"}, "Dog")
	if len(model.imagePrompts) != 1 {
		t.Fatalf("image calls = %d", len(model.imagePrompts))
	}
	sent := model.imagePrompts[0]
	if !strings.Contains(sent, "a dog running") {
		t.Fatalf("original prompt missing from %q", sent)
	}
	if !strings.Contains(sent, "child-friendly") {
		t.Fatalf("enhancement missing from %q", sent)
	}
}

func TestSynthesizeDisabled(t *testing.T) {
	is := NewImageSynthesizer(testLogger(t), nil)
	if out := is.Synthesize(context.Background(), []string{"x"}, "Dog"); out != nil {
		t.Fatalf("nil client must synthesize nothing, got %v", out)
	}
}
