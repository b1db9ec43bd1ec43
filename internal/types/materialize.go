package types

// Source tells the caller how a materialization result was produced.
type Source string

const (
	// SourceExisting means the bundle was already stored and nothing
	// was generated.
	SourceExisting Source = "existing"
	// SourceGenerated means a fresh bundle was generated and persisted.
	SourceGenerated Source = "generated"
	// SourceFallback means generation or persistence failed and the
	// caller received templated content instead.
	SourceFallback Source = "fallback"
)

// MaterializeResult is the always-usable outcome of a games-for-topic
// request. Error carries diagnostics when Source is SourceFallback; it
// never turns the response into a failure.
type MaterializeResult struct {
	Games  StoredBundle `json:"games"`
	Images []ImageRef   `json:"images"`
	Source Source       `json:"source"`
	Saved  bool         `json:"saved_games"`
	Error  string       `json:"error,omitempty"`
}
