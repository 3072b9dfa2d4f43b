package format

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"
	"time"

	"healthdigest/internal/model"
	"healthdigest/internal/snapshot"
	"healthdigest/internal/store"
)

func sampleSummary() model.HealthSummary {
	return model.HealthSummary{
		Summary: []model.SummaryItem{
			{Label: "Time in bed", Value: "07:50"},
			{Label: "Recovery score", Value: "64%"},
		},
		SleepDetails: []model.SummaryItem{
			{Label: "Sleep duration", Value: "06:30"},
			{Label: "HRV", Value: "48.13"},
		},
	}
}

func sampleUsage() model.ParsedUsage {
	return model.ParsedUsage{
		Daily: &model.UsageRecord{Date: "Mon, Jan 1", UsageTime: "3h 20m", UsageDelta: "+15%", AccessCount: "#42"},
		TopApps: []model.AppUsageEntry{
			{Name: "Chrome", UsageTime: "1h 5m", UsageDelta: "+10%", AccessCount: "#12", AccessDelta: "-2%"},
			{Name: "A very long application name", UsageTime: "45m"},
		},
	}
}

func TestWriteSummaryPlain(t *testing.T) {
	var buf bytes.Buffer
	if err := WriteSummary(&buf, sampleSummary(), Options{Format: "plain", Header: true}); err != nil {
		t.Fatalf("WriteSummary plain returned error: %v", err)
	}

	expected := strings.Join([]string{
		"section\tlabel\tvalue",
		"summary\tTime in bed\t07:50",
		"summary\tRecovery score\t64%",
		"sleep_details\tSleep duration\t06:30",
		"sleep_details\tHRV\t48.13",
	}, "\n") + "\n"
	if got := buf.String(); got != expected {
		t.Fatalf("plain output mismatch:\nexpected: %q\nactual:   %q", expected, got)
	}
}

func TestWriteSummaryTable(t *testing.T) {
	var buf bytes.Buffer
	if err := WriteSummary(&buf, sampleSummary(), Options{Header: true}); err != nil {
		t.Fatalf("WriteSummary table returned error: %v", err)
	}

	out := buf.String()
	if !strings.Contains(out, "METRIC") || !strings.Contains(out, "VALUE") {
		t.Fatalf("table header missing expected columns:\n%s", out)
	}
	if !strings.Contains(out, "Sleep details") || !strings.Contains(out, "07:50") {
		t.Fatalf("table rows missing:\n%s", out)
	}
	if strings.Contains(out, "\x1b[") {
		t.Fatalf("uncolored table should not contain escape codes:\n%s", out)
	}
	if strings.Index(out, "Time in bed") > strings.Index(out, "HRV") {
		t.Fatalf("summary rows should precede sleep details:\n%s", out)
	}
}

func TestWriteSummaryEmptyTable(t *testing.T) {
	var buf bytes.Buffer
	if err := WriteSummary(&buf, model.HealthSummary{}, Options{Format: "table"}); err != nil {
		t.Fatalf("WriteSummary returned error: %v", err)
	}
	if !strings.Contains(buf.String(), "(no metrics)") {
		t.Fatalf("expected placeholder row:\n%s", buf.String())
	}
}

func TestWriteSummaryJSON(t *testing.T) {
	var buf bytes.Buffer
	if err := WriteSummary(&buf, sampleSummary(), Options{Format: "JSON"}); err != nil {
		t.Fatalf("WriteSummary json returned error: %v", err)
	}
	var decoded model.HealthSummary
	if err := json.Unmarshal(buf.Bytes(), &decoded); err != nil {
		t.Fatalf("output is not JSON: %v", err)
	}
	if len(decoded.SleepDetails) != 2 || decoded.SleepDetails[1].Label != "HRV" {
		t.Fatalf("unexpected decoded summary: %+v", decoded)
	}
}

func TestWriteSummaryInvalidFormat(t *testing.T) {
	var buf bytes.Buffer
	if err := WriteSummary(&buf, sampleSummary(), Options{Format: "csv"}); err == nil {
		t.Fatal("expected error for unsupported format")
	}
}

func TestWriteReportJSONIncludesDatasets(t *testing.T) {
	report := model.HealthReport{
		GeneratedAt: time.Date(2025, 10, 3, 8, 0, 0, 0, time.UTC),
		Summary:     sampleSummary().Summary,
		Datasets:    []model.Dataset{{Name: "Sleep"}},
	}
	var buf bytes.Buffer
	if err := WriteReport(&buf, report, Options{Format: "json"}); err != nil {
		t.Fatalf("WriteReport returned error: %v", err)
	}
	if !strings.Contains(buf.String(), `"datasets"`) || !strings.Contains(buf.String(), `"generated_at": "2025-10-03T08:00:00Z"`) {
		t.Fatalf("unexpected report json:\n%s", buf.String())
	}

	buf.Reset()
	if err := WriteReport(&buf, report, Options{Format: "plain"}); err != nil {
		t.Fatalf("WriteReport returned error: %v", err)
	}
	if buf.String() != "summary\tTime in bed\t07:50\nsummary\tRecovery score\t64%\n" {
		t.Fatalf("unexpected plain report: %q", buf.String())
	}
}

func TestWriteUsagePlain(t *testing.T) {
	var buf bytes.Buffer
	if err := WriteUsage(&buf, sampleUsage(), Options{Format: "plain"}); err != nil {
		t.Fatalf("WriteUsage plain returned error: %v", err)
	}
	expected := strings.Join([]string{
		"daily\tMon, Jan 1\t3h 20m\t+15%\t#42\t",
		"app\tChrome\t1h 5m\t+10%\t#12\t-2%",
		"app\tA very long application name\t45m\t\t\t",
	}, "\n") + "\n"
	if got := buf.String(); got != expected {
		t.Fatalf("plain output mismatch:\nexpected: %q\nactual:   %q", expected, got)
	}
}

func TestWriteUsageTableClipsNames(t *testing.T) {
	var buf bytes.Buffer
	if err := WriteUsage(&buf, sampleUsage(), Options{Header: true, Width: 80}); err != nil {
		t.Fatalf("WriteUsage table returned error: %v", err)
	}
	out := buf.String()
	if !strings.Contains(out, "Total (Mon, Jan 1)") {
		t.Fatalf("daily row label missing:\n%s", out)
	}
	if strings.Contains(out, "A very long application name") || !strings.Contains(out, "A very long application n…") {
		t.Fatalf("long app name should be clipped:\n%s", out)
	}
}

func TestWriteUsageCSV(t *testing.T) {
	var buf bytes.Buffer
	if err := WriteUsage(&buf, sampleUsage(), Options{Format: "csv"}); err != nil {
		t.Fatalf("WriteUsage csv returned error: %v", err)
	}
	if !strings.HasPrefix(buf.String(), "Summary\n\"Mon, Jan 1\",3h 20m,+15%,#42,\nTop apps\n") {
		t.Fatalf("unexpected csv:\n%s", buf.String())
	}
}

func TestWriteUsageSnapshotJSON(t *testing.T) {
	snap := model.UsageSnapshot{ParsedUsage: sampleUsage(), Source: model.SourceCSV, Directory: "2025-01-02"}
	var buf bytes.Buffer
	if err := WriteUsageSnapshot(&buf, snap, Options{Format: "json"}); err != nil {
		t.Fatalf("WriteUsageSnapshot returned error: %v", err)
	}
	out := buf.String()
	if !strings.Contains(out, `"source": "csv"`) || !strings.Contains(out, `"access_delta": null`) {
		t.Fatalf("unexpected snapshot json:\n%s", out)
	}
}

func TestWriteHabits(t *testing.T) {
	report := model.HabitReport{
		Date: "2025-03-01",
		Habits: []model.Habit{
			{ID: "h1", Name: "Meditate", Status: model.HabitDone},
			{ID: "h2", Name: "Read", Status: model.HabitNotDone},
		},
	}
	var buf bytes.Buffer
	if err := WriteHabits(&buf, report, Options{Header: true}); err != nil {
		t.Fatalf("WriteHabits returned error: %v", err)
	}
	out := buf.String()
	if !strings.Contains(out, "Habits 2025-03-01") || !strings.Contains(out, "Not done") || !strings.Contains(out, "50%") {
		t.Fatalf("unexpected habits table:\n%s", out)
	}

	buf.Reset()
	if err := WriteHabits(&buf, report, Options{Format: "plain"}); err != nil {
		t.Fatalf("WriteHabits plain returned error: %v", err)
	}
	if buf.String() != "h1\tMeditate\tdone\nh2\tRead\tnot_done\n" {
		t.Fatalf("unexpected plain habits: %q", buf.String())
	}
}

func TestWriteExports(t *testing.T) {
	files := []store.ExportFile{
		{Directory: "2025-03-01", File: "DailyUsage.csv", Path: "/x/2025-03-01/DailyUsage.csv", Size: 2048, ModTime: time.Date(2025, 3, 1, 6, 0, 0, 0, time.UTC)},
	}
	var buf bytes.Buffer
	if err := WriteExports(&buf, files, Options{Header: true}); err != nil {
		t.Fatalf("WriteExports returned error: %v", err)
	}
	if !strings.Contains(buf.String(), "2.0 kB") {
		t.Fatalf("expected humanized size:\n%s", buf.String())
	}

	buf.Reset()
	if err := WriteExports(&buf, files, Options{Format: "jsonl"}); err != nil {
		t.Fatalf("WriteExports jsonl returned error: %v", err)
	}
	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	if len(lines) != 1 || !strings.Contains(lines[0], `"size":2048`) {
		t.Fatalf("unexpected jsonl: %s", buf.String())
	}
}

func TestWriteSnapshot(t *testing.T) {
	snap := snapshot.Snapshot{
		ID:          "abc",
		Kind:        snapshot.KindHealth,
		GeneratedAt: time.Date(2025, 3, 1, 6, 0, 0, 0, time.UTC),
		Payload:     json.RawMessage(`{"summary":[]}`),
	}
	var buf bytes.Buffer
	if err := WriteSnapshot(&buf, snap, Options{Format: "json"}); err != nil {
		t.Fatalf("WriteSnapshot returned error: %v", err)
	}
	if buf.String() != "{\n  \"summary\": []\n}\n" {
		t.Fatalf("unexpected json: %q", buf.String())
	}

	buf.Reset()
	if err := WriteSnapshot(&buf, snap, Options{Format: "table"}); err != nil {
		t.Fatalf("WriteSnapshot returned error: %v", err)
	}
	if !strings.HasPrefix(buf.String(), "Snapshot abc (2025-03-01T06:00:00Z)\nkind: health\n") {
		t.Fatalf("unexpected header: %q", buf.String())
	}
}
