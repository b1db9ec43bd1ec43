package handlers

import "testing"

func TestMapAgeGroup(t *testing.T) {
	cases := map[string]string{
		"":     "2",
		"7-11": "2",
		"5-10": "2",
		"2":    "2",
		"3":    "3",
	}
	for in, want := range cases {
		if got := mapAgeGroup(in); got != want {
			t.Fatalf("mapAgeGroup(%q) = %q, want %q", in, got, want)
		}
	}
}
