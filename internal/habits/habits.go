// Package habits resolves habit journal entries to done or not done.
package habits

import (
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/buger/jsonparser"

	"healthdigest/internal/model"
)

// ErrInvalidJournal is returned when a journal payload is not JSON.
var ErrInvalidJournal = errors.New("invalid habit journal")

// ResolveStatus reduces a raw journal entry to a HabitStatus. An entry is done
// when its status (a string, or an object carrying status or value) reads
// "completed" or "done", or when its progress has reached the target.
func ResolveStatus(entry []byte) model.HabitStatus {
	if statusDone(entry) {
		return model.HabitDone
	}
	current, okCurrent := progressValue(entry, "current_value")
	target, okTarget := progressValue(entry, "target_value")
	if okCurrent && okTarget && current >= target {
		return model.HabitDone
	}
	return model.HabitNotDone
}

func statusDone(entry []byte) bool {
	value, kind, _, err := jsonparser.Get(entry, "status")
	if err != nil {
		return false
	}
	switch kind {
	case jsonparser.String:
		return isDoneText(value)
	case jsonparser.Object:
		for _, key := range []string{"status", "value"} {
			inner, innerKind, _, err := jsonparser.Get(value, key)
			if err != nil || !truthy(inner, innerKind) {
				continue
			}
			return innerKind == jsonparser.String && isDoneText(inner)
		}
	}
	return false
}

func isDoneText(raw []byte) bool {
	text, err := jsonparser.ParseString(raw)
	if err != nil {
		return false
	}
	switch strings.ToLower(text) {
	case "completed", "done":
		return true
	}
	return false
}

func truthy(raw []byte, kind jsonparser.ValueType) bool {
	switch kind {
	case jsonparser.String:
		return len(raw) > 0
	case jsonparser.Number:
		f, err := jsonparser.ParseFloat(raw)
		return err == nil && f != 0
	case jsonparser.Boolean:
		b, _ := jsonparser.ParseBoolean(raw)
		return b
	case jsonparser.Object, jsonparser.Array:
		return true
	}
	return false
}

// progressValue reads progress.<key> as a number. Strings are parsed after
// trimming (blank reads as zero), booleans are 0 or 1 and null is zero.
func progressValue(entry []byte, key string) (float64, bool) {
	value, kind, _, err := jsonparser.Get(entry, "progress", key)
	if err != nil {
		return 0, false
	}
	var f float64
	switch kind {
	case jsonparser.Number:
		f, err = jsonparser.ParseFloat(value)
	case jsonparser.String:
		var text string
		if text, err = jsonparser.ParseString(value); err == nil {
			text = strings.TrimSpace(text)
			if text != "" {
				f, err = strconv.ParseFloat(text, 64)
			}
		}
	case jsonparser.Boolean:
		var b bool
		if b, err = jsonparser.ParseBoolean(value); b {
			f = 1
		}
	case jsonparser.Null:
	default:
		return 0, false
	}
	if err != nil || math.IsInf(f, 0) || math.IsNaN(f) {
		return 0, false
	}
	return f, true
}

// ParseJournal reads a journal payload ({"data": [...]}) and resolves every
// entry. A payload without a data array yields no habits. Non-object entries
// are skipped.
func ParseJournal(payload []byte, date string) (model.HabitReport, error) {
	report := model.HabitReport{Date: model.NullString(date), Habits: []model.Habit{}}

	_, kind, _, err := jsonparser.Get(payload)
	if err != nil {
		return report, fmt.Errorf("parse journal: %w", ErrInvalidJournal)
	}
	if kind != jsonparser.Object {
		return report, nil
	}
	if _, dataKind, _, err := jsonparser.Get(payload, "data"); err != nil || dataKind != jsonparser.Array {
		return report, nil
	}

	var walkErr error
	_, err = jsonparser.ArrayEach(payload, func(entry []byte, kind jsonparser.ValueType, _ int, err error) {
		if err != nil {
			walkErr = err
			return
		}
		if kind != jsonparser.Object {
			return
		}
		report.Habits = append(report.Habits, model.Habit{
			ID:     textField(entry, "id"),
			Name:   textField(entry, "name"),
			Status: ResolveStatus(entry),
		})
	}, "data")
	if err == nil {
		err = walkErr
	}
	if err != nil {
		return report, fmt.Errorf("parse journal entries: %w", err)
	}
	return report, nil
}

func textField(entry []byte, key string) string {
	value, kind, _, err := jsonparser.Get(entry, key)
	if err != nil {
		return ""
	}
	if kind == jsonparser.String {
		text, err := jsonparser.ParseString(value)
		if err != nil {
			return ""
		}
		return text
	}
	if kind == jsonparser.Number {
		return string(value)
	}
	return ""
}

// DonePercent is the rounded share of done habits. It reports false when
// there are no habits.
func DonePercent(habits []model.Habit) (int, bool) {
	if len(habits) == 0 {
		return 0, false
	}
	done := 0
	for _, h := range habits {
		if h.Status == model.HabitDone {
			done++
		}
	}
	return int(math.Floor(float64(done)*100/float64(len(habits)) + 0.5)), true
}
