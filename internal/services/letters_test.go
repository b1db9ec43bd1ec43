package services

import (
	"context"
	"fmt"
	"testing"

	"github.com/playfinity/playfinity-backend/internal/clients/azure"
)

func TestCheckLetterExactMatch(t *testing.T) {
	reader := &fakeReader{result: &azure.ReadResult{Texts: []string{"b"}, FullText: "b"}}
	ls := NewLetterService(testLogger(t), reader)

	res := ls.CheckLetter(context.Background(), []byte("img"), "B")
	if !res.Success || !res.Correct {
		t.Fatalf("result = %+v", res)
	}
	if res.Confidence != "high" {
		t.Fatalf("confidence = %q, want high", res.Confidence)
	}
	if res.Detected != "B" {
		t.Fatalf("detected = %q, want B", res.Detected)
	}
}

func TestCheckLetterSubstringMatch(t *testing.T) {
	reader := &fakeReader{result: &azure.ReadResult{Texts: []string{"ABC"}}}
	ls := NewLetterService(testLogger(t), reader)

	res := ls.CheckLetter(context.Background(), []byte("img"), "b")
	if !res.Correct {
		t.Fatalf("substring match should count: %+v", res)
	}
	if res.Confidence != "low" {
		t.Fatalf("confidence = %q, want low", res.Confidence)
	}
}

func TestCheckLetterWrongAnswer(t *testing.T) {
	reader := &fakeReader{result: &azure.ReadResult{Texts: []string{"X", "Y"}}}
	ls := NewLetterService(testLogger(t), reader)

	res := ls.CheckLetter(context.Background(), []byte("img"), "B")
	if !res.Success {
		t.Fatalf("recognition worked, success must be true: %+v", res)
	}
	if res.Correct {
		t.Fatalf("X/Y must not match B")
	}
	if res.Detected != "X" {
		t.Fatalf("detected = %q, want first recognized text", res.Detected)
	}
	if len(res.AllDetected) != 2 {
		t.Fatalf("all detected = %v", res.AllDetected)
	}
}

func TestCheckLetterTimeoutDistinct(t *testing.T) {
	ls := NewLetterService(testLogger(t), &fakeReader{err: azure.ErrTimeout})
	res := ls.CheckLetter(context.Background(), []byte("img"), "B")
	if res.Success {
		t.Fatalf("timeout must not report success")
	}
	if res.Error != "recognition timed out" {
		t.Fatalf("error = %q", res.Error)
	}

	ls = NewLetterService(testLogger(t), &fakeReader{err: fmt.Errorf("boom")})
	res = ls.CheckLetter(context.Background(), []byte("img"), "B")
	if res.Error == "recognition timed out" {
		t.Fatalf("generic failures must not look like timeouts")
	}
}

func TestCheckLetterUnavailableAndEmptyInput(t *testing.T) {
	ls := NewLetterService(testLogger(t), nil)
	if ls.Enabled() {
		t.Fatalf("nil reader must disable the service")
	}
	res := ls.CheckLetter(context.Background(), nil, "B")
	if res.Success || res.Error == "" {
		t.Fatalf("unavailable service must report an error: %+v", res)
	}

	ls = NewLetterService(testLogger(t), &fakeReader{result: &azure.ReadResult{}})
	res = ls.CheckLetter(context.Background(), nil, "  ")
	if res.Success || res.Error == "" {
		t.Fatalf("blank expected letter must be rejected: %+v", res)
	}
}
