package model

import "time"

// UsageRecord is the daily phone usage headline.
type UsageRecord struct {
	Date        NullString `json:"date"`
	UsageTime   NullString `json:"usage_time"`
	UsageDelta  NullString `json:"usage_delta"`
	AccessCount NullString `json:"access_count"`
	AccessDelta NullString `json:"access_delta"`
}

// AppUsageEntry is the usage of a single app on the digest day.
type AppUsageEntry struct {
	Name        NullString `json:"name"`
	UsageTime   NullString `json:"usage_time"`
	UsageDelta  NullString `json:"usage_delta"`
	AccessCount NullString `json:"access_count"`
	AccessDelta NullString `json:"access_delta"`
}

// ParsedUsage is the result of parsing one usage digest.
type ParsedUsage struct {
	Daily   *UsageRecord    `json:"daily"`
	TopApps []AppUsageEntry `json:"top_apps"`
}

// UsageSnapshot is a ParsedUsage annotated with where it came from.
type UsageSnapshot struct {
	ParsedUsage
	Source          UsageSource `json:"source"`
	Directory       string      `json:"directory,omitempty"`
	File            string      `json:"file,omitempty"`
	Path            string      `json:"path,omitempty"`
	SourceMessageID string      `json:"source_message_id,omitempty"`
	UpdatedAt       time.Time   `json:"updated_at"`
}
