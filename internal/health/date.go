package health

import (
	"encoding/json"
	"math"
	"strconv"
	"strings"
	"time"
)

// dateKeys are checked in order before falling back to any ISO-looking string.
var dateKeys = []string{
	"start",
	"end",
	"created_at",
	"updated_at",
	"timestamp",
	"cycle_start",
	"cycle_end",
}

// PickDate selects the most plausible timestamp of a flattened record.
// It returns "" when nothing qualifies. The fallback accepts any string
// containing "T", so an unrelated value can be picked.
func PickDate(record *FlatRecord) string {
	for _, key := range dateKeys {
		value, ok := record.Get(key)
		if ok && truthy(value) {
			return dateText(value)
		}
	}

	var fallback string
	record.Each(func(_ string, value any) {
		if fallback != "" {
			return
		}
		if text, ok := value.(string); ok && strings.Contains(text, "T") {
			fallback = text
		}
	})
	return fallback
}

func truthy(value any) bool {
	switch v := value.(type) {
	case string:
		return v != ""
	case float64:
		return v != 0 && !math.IsNaN(v)
	case bool:
		return v
	case json.RawMessage:
		return true
	default:
		return false
	}
}

func dateText(value any) string {
	switch v := value.(type) {
	case string:
		return v
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64)
	case bool:
		return strconv.FormatBool(v)
	case json.RawMessage:
		return string(v)
	default:
		return ""
	}
}

var dateLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05.999999999",
	"2006-01-02 15:04:05",
	"2006-01-02",
}

// ParseDate interprets a record date for ordering purposes.
func ParseDate(value string) (time.Time, bool) {
	value = strings.TrimSpace(value)
	if value == "" {
		return time.Time{}, false
	}
	for _, layout := range dateLayouts {
		if ts, err := time.Parse(layout, value); err == nil {
			return ts, true
		}
	}
	if millis, err := strconv.ParseFloat(value, 64); err == nil && !math.IsInf(millis, 0) {
		return time.UnixMilli(int64(millis)).UTC(), true
	}
	return time.Time{}, false
}
