package model

import (
	"encoding/json"
	"fmt"
	"math"
	"time"
)

// NormalizedRecord is a flattened API record reduced to a date and finite numeric fields.
type NormalizedRecord struct {
	Date   NullString
	Fields map[string]float64
}

// Field returns the numeric value stored under key, if present and finite.
func (r NormalizedRecord) Field(key string) (float64, bool) {
	value, ok := r.Fields[key]
	if !ok || math.IsNaN(value) || math.IsInf(value, 0) {
		return 0, false
	}
	return value, true
}

// MarshalJSON encodes the record as a single flat object: {"date": ..., "<path>": <number>}.
func (r NormalizedRecord) MarshalJSON() ([]byte, error) {
	flat := make(map[string]any, len(r.Fields)+1)
	for key, value := range r.Fields {
		flat[key] = value
	}
	flat["date"] = r.Date
	return json.Marshal(flat)
}

// UnmarshalJSON decodes the flat object produced by MarshalJSON.
func (r *NormalizedRecord) UnmarshalJSON(data []byte) error {
	var flat map[string]json.RawMessage
	if err := json.Unmarshal(data, &flat); err != nil {
		return err
	}
	out := NormalizedRecord{Fields: make(map[string]float64, len(flat))}
	for key, raw := range flat {
		if key == "date" {
			if err := json.Unmarshal(raw, &out.Date); err != nil {
				return fmt.Errorf("decode date: %w", err)
			}
			continue
		}
		var value float64
		if err := json.Unmarshal(raw, &value); err != nil {
			return fmt.Errorf("decode field %s: %w", key, err)
		}
		out.Fields[key] = value
	}
	*r = out
	return nil
}

// Dataset is a named sequence of records from one upstream metric source, ascending by date.
type Dataset struct {
	Name    string             `json:"name"`
	Records []NormalizedRecord `json:"records"`
}

// FormatKind selects how a metric value is rendered for display.
type FormatKind string

const (
	FormatPercent       FormatKind = "percent"
	FormatDuration      FormatKind = "duration"
	FormatPlain         FormatKind = "plain"
	FormatSleepDuration FormatKind = "sleep_duration"
)

// Section names the display group a metric is placed in.
type Section string

const (
	SectionSummary      Section = "summary"
	SectionSleepDetails Section = "sleep_details"
)

// MetricSpec describes one curated metric: where it comes from, how it is
// formatted and where it is displayed.
type MetricSpec struct {
	Dataset string
	Label   string
	Key     string
	Format  FormatKind
	Section Section
}

// SummaryItem is a labelled, pre-formatted display value.
type SummaryItem struct {
	Label string `json:"label"`
	Value string `json:"value"`
}

// HealthSummary holds the curated metrics split into display sections.
type HealthSummary struct {
	Summary      []SummaryItem `json:"summary"`
	SleepDetails []SummaryItem `json:"sleep_details"`
}

// HealthReport is the snapshot payload written after a health refresh.
type HealthReport struct {
	GeneratedAt  time.Time     `json:"generated_at"`
	Summary      []SummaryItem `json:"summary"`
	SleepDetails []SummaryItem `json:"sleep_details"`
	Datasets     []Dataset     `json:"datasets,omitempty"`
}
