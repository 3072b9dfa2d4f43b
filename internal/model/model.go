// Package model provides the canonical record types shared by the health and usage pipelines.
package model

import (
	"bytes"
	"encoding/json"
)

// RawRecord is one JSON value as received from an upstream API. It has no fixed schema.
type RawRecord = json.RawMessage

// NullString is a string whose empty value is encoded as JSON null.
type NullString string

// MarshalJSON encodes the empty string as null.
func (s NullString) MarshalJSON() ([]byte, error) {
	if s == "" {
		return []byte("null"), nil
	}
	return json.Marshal(string(s))
}

// UnmarshalJSON decodes null as the empty string.
func (s *NullString) UnmarshalJSON(data []byte) error {
	if bytes.Equal(bytes.TrimSpace(data), []byte("null")) {
		*s = ""
		return nil
	}
	var value string
	if err := json.Unmarshal(data, &value); err != nil {
		return err
	}
	*s = NullString(value)
	return nil
}

// Valid reports whether the value is non-null.
func (s NullString) Valid() bool { return s != "" }

// String returns the underlying text.
func (s NullString) String() string { return string(s) }
