package jsonx

import (
	"errors"
	"testing"
)

func TestExtractObjectDirect(t *testing.T) {
	obj, err := ExtractObject(`{"title": "Dog Quiz", "count": 4}`)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if obj["title"] != "Dog Quiz" {
		t.Fatalf("title = %v", obj["title"])
	}
}

func TestExtractObjectFenced(t *testing.T) {
	text := "Here you go:\n```json\n{\"topic\": \"dinosaurs\"}\n```\nEnjoy!"
	obj, err := ExtractObject(text)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if obj["topic"] != "dinosaurs" {
		t.Fatalf("topic = %v", obj["topic"])
	}
}

func TestExtractObjectFencedNoTag(t *testing.T) {
	text := "```\n{\"a\": 1}\n```"
	obj, err := ExtractObject(text)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if obj["a"] != float64(1) {
		t.Fatalf("a = %v", obj["a"])
	}
}

func TestExtractObjectEmbeddedProse(t *testing.T) {
	text := `Sure! The answer is {"questions": [{"q": "What {sound} does a dog make?"}]} hope that helps`
	obj, err := ExtractObject(text)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, ok := obj["questions"]; !ok {
		t.Fatalf("missing questions key: %v", obj)
	}
}

func TestExtractObjectBracesInStrings(t *testing.T) {
	text := `prefix {"msg": "use } and { freely \" here"} suffix`
	obj, err := ExtractObject(text)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if obj["msg"] != `use } and { freely " here` {
		t.Fatalf("msg = %v", obj["msg"])
	}
}

func TestExtractObjectMiss(t *testing.T) {
	for _, text := range []string{"", "no json here", "[1, 2, 3]", "{broken"} {
		if _, err := ExtractObject(text); !errors.Is(err, ErrNoObject) {
			t.Fatalf("ExtractObject(%q) err = %v, want ErrNoObject", text, err)
		}
	}
}
