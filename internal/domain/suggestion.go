package domain

// Suggestion is one proposed documentation update parsed from a model
// response. It is transient: built, posted to its recipient, discarded.
type Suggestion struct {
	SourceMessageLink string
	ThreadContext     string
	TriggeringText    string
	BlockID           string
	ConflictingText   string
	SuggestedEdit     string
	Reasoning         string
	Confidence        string
	// NotionURL is the deep link to the conflicting block, filled in by
	// the monitor pipeline after parsing.
	NotionURL string
}
