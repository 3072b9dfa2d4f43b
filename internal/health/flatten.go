// Package health normalizes wearable API payloads and builds the daily summary.
package health

import (
	"encoding/json"

	"github.com/buger/jsonparser"

	"healthdigest/internal/model"
)

// FlatRecord maps dot-joined paths to scalar values, keeping the order in which
// the flattening step produced them. Values are float64, string, bool,
// json.RawMessage (arrays, never descended into) or nil.
type FlatRecord struct {
	keys   []string
	values map[string]any
}

// NewFlatRecord returns an empty FlatRecord.
func NewFlatRecord() *FlatRecord {
	return &FlatRecord{values: map[string]any{}}
}

// Set stores value under key. Overwriting keeps the original position.
func (f *FlatRecord) Set(key string, value any) {
	if _, exists := f.values[key]; !exists {
		f.keys = append(f.keys, key)
	}
	f.values[key] = value
}

// Get returns the value stored under key.
func (f *FlatRecord) Get(key string) (any, bool) {
	value, ok := f.values[key]
	return value, ok
}

// Len returns the number of entries.
func (f *FlatRecord) Len() int { return len(f.keys) }

// Keys returns the keys in insertion order.
func (f *FlatRecord) Keys() []string {
	out := make([]string, len(f.keys))
	copy(out, f.keys)
	return out
}

// Each calls fn for every entry in insertion order.
func (f *FlatRecord) Each(fn func(key string, value any)) {
	for _, key := range f.keys {
		fn(key, f.values[key])
	}
}

type pendingObject struct {
	prefix string
	raw    []byte
}

type objectEntry struct {
	name     string
	value    []byte
	dataType jsonparser.ValueType
}

// objectEntries lists the members of one JSON object in document order. A
// repeated key keeps its first position and its last value, as a decoder would.
func objectEntries(raw []byte) []objectEntry {
	var entries []objectEntry
	seen := map[string]int{}
	_ = jsonparser.ObjectEach(raw, func(key []byte, value []byte, dataType jsonparser.ValueType, _ int) error {
		name, err := jsonparser.ParseString(key)
		if err != nil {
			name = string(key)
		}
		entry := objectEntry{name: name, value: value, dataType: dataType}
		if i, ok := seen[name]; ok {
			entries[i] = entry
			return nil
		}
		seen[name] = len(entries)
		entries = append(entries, entry)
		return nil
	})
	return entries
}

// Flatten turns one nested JSON record into a single-level FlatRecord.
// Nested objects are expanded through an explicit work list rather than
// recursion, so deeply nested payloads cannot exhaust the stack. Anything that
// is not a JSON object yields an empty record.
func Flatten(raw model.RawRecord) *FlatRecord {
	out := NewFlatRecord()
	root, dataType, _, err := jsonparser.Get(raw)
	if err != nil || dataType != jsonparser.Object {
		return out
	}

	work := []pendingObject{{raw: root}}
	for len(work) > 0 {
		next := work[len(work)-1]
		work = work[:len(work)-1]

		for _, entry := range objectEntries(next.raw) {
			path := entry.name
			if next.prefix != "" {
				path = next.prefix + "." + entry.name
			}

			switch entry.dataType {
			case jsonparser.Object:
				work = append(work, pendingObject{prefix: path, raw: entry.value})
			case jsonparser.Number:
				if number, err := jsonparser.ParseFloat(entry.value); err == nil {
					out.Set(path, number)
				}
			case jsonparser.String:
				text, err := jsonparser.ParseString(entry.value)
				if err != nil {
					text = string(entry.value)
				}
				out.Set(path, text)
			case jsonparser.Boolean:
				flag, _ := jsonparser.ParseBoolean(entry.value)
				out.Set(path, flag)
			case jsonparser.Array:
				out.Set(path, json.RawMessage(append([]byte(nil), entry.value...)))
			case jsonparser.Null:
				out.Set(path, nil)
			}
		}
	}

	return out
}
