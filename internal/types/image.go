package types

// ImageRef points at one published gallery image. URL must be durable
// and publicly fetchable before the ref is ever persisted. Index keeps
// the image's position in the original prompt order even when other
// images in the set failed to publish.
type ImageRef struct {
	URL      string `json:"url"`
	Prompt   string `json:"prompt"`
	Index    int    `json:"index"`
	Filename string `json:"filename"`
}

// SynthesizedImage is raw synthesizer output that has not been
// published yet. Data is never persisted directly.
type SynthesizedImage struct {
	Index  int
	Prompt string
	Data   []byte
}
