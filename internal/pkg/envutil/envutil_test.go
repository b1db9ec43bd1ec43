package envutil

import "testing"

func TestBool(t *testing.T) {
	cases := []struct {
		value    string
		fallback bool
		want     bool
	}{
		{"1", false, true},
		{"true", false, true},
		{"YES", false, true},
		{"on", false, true},
		{"0", true, false},
		{"false", true, false},
		{"off", true, false},
		{"", true, true},
		{"maybe", false, false},
	}
	for _, tc := range cases {
		t.Run(tc.value, func(t *testing.T) {
			t.Setenv("ENVUTIL_TEST_BOOL", tc.value)
			if got := Bool("ENVUTIL_TEST_BOOL", tc.fallback); got != tc.want {
				t.Fatalf("Bool(%q, %v) = %v, want %v", tc.value, tc.fallback, got, tc.want)
			}
		})
	}
}

func TestFloat(t *testing.T) {
	cases := []struct {
		value    string
		fallback float64
		want     float64
	}{
		{"0.25", 0.1, 0.25},
		{"1", 0.1, 1},
		{"", 0.1, 0.1},
		{"nope", 0.5, 0.5},
	}
	for _, tc := range cases {
		t.Run(tc.value, func(t *testing.T) {
			t.Setenv("ENVUTIL_TEST_FLOAT", tc.value)
			if got := Float("ENVUTIL_TEST_FLOAT", tc.fallback); got != tc.want {
				t.Fatalf("Float(%q, %v) = %v, want %v", tc.value, tc.fallback, got, tc.want)
			}
		})
	}
}
