package habits

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"healthdigest/internal/model"
)

func TestResolveStatus(t *testing.T) {
	tests := []struct {
		entry string
		want  model.HabitStatus
	}{
		{`{"status":"completed"}`, model.HabitDone},
		{`{"status":"DONE"}`, model.HabitDone},
		{`{"status":"skipped"}`, model.HabitNotDone},
		{`{"status":{"status":"completed"}}`, model.HabitDone},
		{`{"status":{"value":"done"}}`, model.HabitDone},
		{`{"status":{"status":"failed","value":"done"}}`, model.HabitNotDone},
		{`{"status":{"status":"","value":"done"}}`, model.HabitDone},
		{`{"progress":{"current_value":3,"target_value":3}}`, model.HabitDone},
		{`{"progress":{"current_value":"5","target_value":"4"}}`, model.HabitDone},
		{`{"progress":{"current_value":2,"target_value":3}}`, model.HabitNotDone},
		{`{"progress":{"current_value":"x","target_value":1}}`, model.HabitNotDone},
		{`{"progress":{"current_value":1}}`, model.HabitNotDone},
		{`{"progress":{"current_value":null,"target_value":0}}`, model.HabitDone},
		{`{}`, model.HabitNotDone},
		{`null`, model.HabitNotDone},
	}
	for _, tt := range tests {
		if got := ResolveStatus([]byte(tt.entry)); got != tt.want {
			t.Fatalf("ResolveStatus(%s) = %s, want %s", tt.entry, got, tt.want)
		}
	}
}

func TestParseJournalFixture(t *testing.T) {
	payload, err := os.ReadFile(filepath.Join("..", "..", "testdata", "habits", "journal.json"))
	if err != nil {
		t.Fatalf("read fixture: %v", err)
	}

	report, err := ParseJournal(payload, "2025-03-01")
	if err != nil {
		t.Fatalf("ParseJournal returned error: %v", err)
	}
	if report.Date != "2025-03-01" {
		t.Fatalf("unexpected date: %s", report.Date)
	}
	want := []model.Habit{
		{ID: "h1", Name: "Meditate", Status: model.HabitDone},
		{ID: "h2", Name: "Read", Status: model.HabitNotDone},
		{ID: "h3", Name: "Walk", Status: model.HabitDone},
		{ID: "h4", Name: "Water", Status: model.HabitDone},
		{ID: "h5", Name: "Stretch", Status: model.HabitNotDone},
	}
	if len(report.Habits) != len(want) {
		t.Fatalf("expected %d habits, got %+v", len(want), report.Habits)
	}
	for i := range want {
		if report.Habits[i] != want[i] {
			t.Fatalf("habit %d: got %+v want %+v", i, report.Habits[i], want[i])
		}
	}

	percent, ok := DonePercent(report.Habits)
	if !ok || percent != 60 {
		t.Fatalf("unexpected done percent: %d %v", percent, ok)
	}
}

func TestParseJournalWithoutData(t *testing.T) {
	for _, payload := range []string{`{}`, `{"data":null}`, `[]`} {
		report, err := ParseJournal([]byte(payload), "")
		if err != nil {
			t.Fatalf("ParseJournal(%s) returned error: %v", payload, err)
		}
		if report.Habits == nil || len(report.Habits) != 0 {
			t.Fatalf("expected empty habits for %s, got %#v", payload, report.Habits)
		}
	}

	if _, err := ParseJournal([]byte(`not json`), ""); !errors.Is(err, ErrInvalidJournal) {
		t.Fatalf("expected ErrInvalidJournal, got %v", err)
	}
	if _, ok := DonePercent(nil); ok {
		t.Fatalf("DonePercent should report false without habits")
	}
}
