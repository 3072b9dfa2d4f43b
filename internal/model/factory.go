package model

import (
	"errors"
	"fmt"
	"sort"
	"sync"
)

// UsageSource identifies the format a usage digest arrived in.
type UsageSource string

const (
	// SourceEmail is a MIME digest email fetched from the mail API.
	SourceEmail UsageSource = "gmail"
	// SourceCSV is a CSV export fetched from the file-transfer share.
	SourceCSV UsageSource = "csv"
)

// ErrUnknownSource is returned when no parser is registered for a source.
var ErrUnknownSource = errors.New("unknown usage source")

// ParserOptions carries settings shared by all usage parsers.
type ParserOptions struct {
	// ClockTimes accepts colon-delimited H:MM[:SS] values as usage times.
	ClockTimes bool
}

// ParserFactory creates a UsageParser. Parser packages register one per
// source from init.
type ParserFactory func(ParserOptions) UsageParser

var (
	factoriesMu sync.RWMutex
	factories   = map[UsageSource]ParserFactory{}
)

// RegisterUsageParser registers the factory for source.
func RegisterUsageParser(source UsageSource, factory ParserFactory) {
	factoriesMu.Lock()
	defer factoriesMu.Unlock()
	factories[source] = factory
}

// NewUsageParser creates a parser for the given source.
func NewUsageParser(source UsageSource, opts ParserOptions) (UsageParser, error) {
	factoriesMu.RLock()
	factory, ok := factories[source]
	factoriesMu.RUnlock()
	if !ok || factory == nil {
		return nil, fmt.Errorf("%w: %s", ErrUnknownSource, source)
	}
	return factory(opts), nil
}

// RegisteredSources lists the sources with a registered parser, sorted.
func RegisteredSources() []UsageSource {
	factoriesMu.RLock()
	defer factoriesMu.RUnlock()
	out := make([]UsageSource, 0, len(factories))
	for source := range factories {
		out = append(out, source)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}
