package handlers

import (
	"encoding/base64"
	"testing"
)

func TestDecodeDataURLPNG(t *testing.T) {
	payload := base64.StdEncoding.EncodeToString([]byte{0x89, 0x50, 0x4e, 0x47})

	data, err := decodeDataURLPNG("data:image/png;base64," + payload)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(data) != 4 || data[0] != 0x89 {
		t.Fatalf("decoded bytes = %v", data)
	}

	// Bare base64 (no data URL header) is accepted too.
	if _, err := decodeDataURLPNG(payload); err != nil {
		t.Fatalf("bare base64: %v", err)
	}
}

func TestDecodeDataURLPNGRejectsInvalid(t *testing.T) {
	cases := []struct {
		name string
		raw  string
	}{
		{"missing comma", "data:image/png;base64"},
		{"not an image", "data:text/plain;base64,aGVsbG8="},
		{"bad base64", "data:image/png;base64,%%%"},
		{"empty payload", "data:image/png;base64,"},
	}
	for _, tc := range cases {
		if _, err := decodeDataURLPNG(tc.raw); err == nil {
			t.Fatalf("%s: expected error", tc.name)
		}
	}
}
