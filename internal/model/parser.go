package model

// UsageParser defines the common interface for turning a raw usage digest into
// ParsedUsage. Each source format (email, csv) provides its own implementation.
type UsageParser interface {
	// Source reports which digest format the parser handles.
	Source() UsageSource

	// Parse extracts the daily record and top apps from raw digest text.
	// A nil result with a nil error means nothing recognisable was found.
	Parse(raw string) (*ParsedUsage, error)
}
