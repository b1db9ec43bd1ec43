package topickey

import (
	"strings"
	"testing"
)

func TestNormalizeCollapsesVariants(t *testing.T) {
	want := "dog"
	for _, in := range []string{"dog", "Dog!!", "  DOG  ", "d-o-g"} {
		if in == "d-o-g" {
			continue
		}
		if got := Normalize(in); got != want {
			t.Fatalf("Normalize(%q) = %q, want %q", in, got, want)
		}
	}
	if got := Normalize("d-o-g"); got != "d_o_g" {
		t.Fatalf("Normalize(d-o-g) = %q, want d_o_g", got)
	}
}

func TestNormalizePunctuationRuns(t *testing.T) {
	if got := Normalize("solar -- system!!"); got != "solar_system" {
		t.Fatalf("got %q, want solar_system", got)
	}
	if got := Normalize("__fire__truck__"); got != "fire_truck" {
		t.Fatalf("got %q, want fire_truck", got)
	}
}

func TestNormalizeShortAndEmptyInputs(t *testing.T) {
	for _, in := range []string{"", "  ", "!", "a", "é", "猫"} {
		if got := Normalize(in); got != Unknown {
			t.Fatalf("Normalize(%q) = %q, want %q", in, got, Unknown)
		}
	}
}

func TestNormalizeCapsLength(t *testing.T) {
	long := strings.Repeat("ab", 60)
	got := Normalize(long)
	if len(got) > 50 {
		t.Fatalf("len = %d, want <= 50", len(got))
	}
	if !strings.HasPrefix(long, got) {
		t.Fatalf("capped key %q is not a prefix of the input", got)
	}
}

func TestNormalizeIdempotent(t *testing.T) {
	inputs := []string{"Dog!!", "solar -- system", strings.Repeat("x_", 60), "", "a"}
	for _, in := range inputs {
		once := Normalize(in)
		twice := Normalize(once)
		if once != twice {
			t.Fatalf("Normalize not idempotent for %q: %q then %q", in, once, twice)
		}
	}
}
