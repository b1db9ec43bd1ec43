package types

// Tag is one vision label with its confidence on a 0-100 scale.
type Tag struct {
	Name       string  `json:"name"`
	Confidence float64 `json:"confidence"`
}
