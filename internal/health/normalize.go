package health

import (
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"regexp"
	"sort"
	"strconv"
	"strings"

	"github.com/buger/jsonparser"
	"github.com/samber/lo"

	"healthdigest/internal/model"
)

// ErrInvalidPayload is returned when an API response body is not valid JSON.
var ErrInvalidPayload = errors.New("payload is not valid JSON")

// recordContainers are the envelope keys that may hold the record list.
var recordContainers = []string{"records", "data", "items"}

var (
	numericNoise = regexp.MustCompile(`[^0-9.+\-]`)
	leadingFloat = regexp.MustCompile(`^[+-]?(?:\d+(?:\.\d*)?|\.\d+)`)
)

// ExtractRecords returns the record list held by an API response envelope.
// The first of records, data or items that is an array wins; an envelope
// without any of them yields an empty list.
func ExtractRecords(envelope []byte) ([]model.RawRecord, error) {
	if !json.Valid(envelope) {
		return nil, ErrInvalidPayload
	}

	var fields map[string]json.RawMessage
	if err := json.Unmarshal(envelope, &fields); err != nil {
		return []model.RawRecord{}, nil
	}

	for _, key := range recordContainers {
		raw, ok := fields[key]
		if !ok {
			continue
		}
		if _, kind, _, err := jsonparser.Get(raw); err != nil || kind != jsonparser.Array {
			continue
		}
		var records []json.RawMessage
		if err := json.Unmarshal(raw, &records); err != nil {
			continue
		}
		out := make([]model.RawRecord, 0, len(records))
		for _, record := range records {
			out = append(out, model.RawRecord(record))
		}
		return out, nil
	}
	return []model.RawRecord{}, nil
}

// NormalizeRecord reduces a raw record to its date and finite numeric fields.
// The boolean is false when the record carries no date and no numeric field.
func NormalizeRecord(raw model.RawRecord) (model.NormalizedRecord, bool) {
	flat := Flatten(raw)
	record := model.NormalizedRecord{
		Date:   model.NullString(PickDate(flat)),
		Fields: map[string]float64{},
	}

	flat.Each(func(key string, value any) {
		switch v := value.(type) {
		case float64:
			if !math.IsNaN(v) && !math.IsInf(v, 0) {
				record.Fields[key] = v
			}
		case string:
			if number, ok := CoerceNumber(v); ok {
				record.Fields[key] = number
			}
		}
	})

	if !record.Date.Valid() && len(record.Fields) == 0 {
		return model.NormalizedRecord{}, false
	}
	return record, true
}

// Normalize normalizes every record, dropping those that carry nothing.
func Normalize(records []model.RawRecord) []model.NormalizedRecord {
	out := make([]model.NormalizedRecord, 0, len(records))
	for _, raw := range records {
		if record, ok := NormalizeRecord(raw); ok {
			out = append(out, record)
		}
	}
	return out
}

// CoerceNumber strips everything except digits, '.', '+' and '-' from text and
// parses the leading number that remains. "42.5 bpm" yields 42.5; "n/a" fails.
func CoerceNumber(text string) (float64, bool) {
	if strings.TrimSpace(text) == "" {
		return 0, false
	}
	cleaned := numericNoise.ReplaceAllString(text, "")
	match := leadingFloat.FindString(cleaned)
	if match == "" {
		return 0, false
	}
	number, err := strconv.ParseFloat(match, 64)
	if err != nil || math.IsInf(number, 0) || math.IsNaN(number) {
		return 0, false
	}
	return number, true
}

// SortRecords orders records ascending by date. Records whose date is missing
// or unparseable compare equal to everything and keep their relative order.
func SortRecords(records []model.NormalizedRecord) {
	type keyed struct {
		record model.NormalizedRecord
		at     int64
		ok     bool
	}
	items := make([]keyed, len(records))
	for i, record := range records {
		ts, ok := ParseDate(string(record.Date))
		items[i] = keyed{record: record, at: ts.UnixNano(), ok: ok}
	}
	sort.SliceStable(items, func(i, j int) bool {
		if !items[i].ok || !items[j].ok {
			return false
		}
		return items[i].at < items[j].at
	})
	for i, item := range items {
		records[i] = item.record
	}
}

// Payload is one fetched API response body and the dataset name it feeds.
type Payload struct {
	Name string
	Body []byte
}

// Dataset names the summary reads. Other datasets are normalized but not summarized.
const (
	DatasetSleep    = "Sleep"
	DatasetRecovery = "Recovery"
)

// BuildDatasets normalizes each payload into a date-sorted Dataset. Naps are
// excluded from the Sleep dataset and datasets left without records are dropped.
func BuildDatasets(payloads []Payload) ([]model.Dataset, error) {
	datasets := make([]model.Dataset, 0, len(payloads))
	for _, payload := range payloads {
		records, err := ExtractRecords(payload.Body)
		if err != nil {
			return nil, fmt.Errorf("extract %s records: %w", payload.Name, err)
		}
		if payload.Name == DatasetSleep {
			records = lo.Filter(records, func(record model.RawRecord, _ int) bool {
				return !isNap(record)
			})
		}

		normalized := Normalize(records)
		if len(normalized) == 0 {
			continue
		}
		SortRecords(normalized)
		datasets = append(datasets, model.Dataset{Name: payload.Name, Records: normalized})
	}
	return datasets, nil
}

func isNap(record model.RawRecord) bool {
	nap, err := jsonparser.GetBoolean(record, "nap")
	return err == nil && nap
}

// IndexDatasets keys datasets by name. The first dataset with a given name wins.
func IndexDatasets(datasets []model.Dataset) map[string]model.Dataset {
	index := make(map[string]model.Dataset, len(datasets))
	for _, dataset := range datasets {
		if _, exists := index[dataset.Name]; !exists {
			index[dataset.Name] = dataset
		}
	}
	return index
}
