package types

// LetterCheckResult reports whether a drawn letter matched the expected
// one. Success false with ErrTimeout-style text distinguishes verifier
// trouble from a wrong answer.
type LetterCheckResult struct {
	Success     bool     `json:"success"`
	Correct     bool     `json:"correct"`
	Detected    string   `json:"detected"`
	Expected    string   `json:"expected"`
	AllDetected []string `json:"all_detected,omitempty"`
	Confidence  string   `json:"confidence,omitempty"`
	Error       string   `json:"error,omitempty"`
}
