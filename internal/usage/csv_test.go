package usage

import (
	"errors"
	"reflect"
	"strings"
	"testing"

	"healthdigest/internal/model"
)

func TestSplitCSVRow(t *testing.T) {
	tests := []struct {
		in   string
		want []string
	}{
		{`a,b,c`, []string{"a", "b", "c"}},
		{` a , b ,`, []string{"a", "b", ""}},
		{`"Mon, Jan 1",3h`, []string{"Mon, Jan 1", "3h"}},
		{`"say ""hi""",x`, []string{`say "hi"`, "x"}},
		{`"open, ended`, []string{"open, ended"}},
		{``, []string{""}},
	}
	for _, tt := range tests {
		if got := SplitCSVRow(tt.in); !reflect.DeepEqual(got, tt.want) {
			t.Fatalf("SplitCSVRow(%q) = %#v, want %#v", tt.in, got, tt.want)
		}
	}
}

func TestParseCSVFixture(t *testing.T) {
	parsed, err := ParseCSV(loadFixture(t, "DailyUsage.csv"), Options{})
	if err != nil {
		t.Fatalf("ParseCSV returned error: %v", err)
	}
	if parsed == nil || parsed.Daily == nil {
		t.Fatalf("expected daily usage, got %+v", parsed)
	}
	wantDaily := model.UsageRecord{Date: "Mon, Jan 1", UsageTime: "3h 20m", UsageDelta: "+15%", AccessCount: "#42", AccessDelta: "-3%"}
	if *parsed.Daily != wantDaily {
		t.Fatalf("unexpected daily record: %+v", *parsed.Daily)
	}

	wantApps := []model.AppUsageEntry{
		{Name: "Chrome", UsageTime: "1h 5m", UsageDelta: "+10%", AccessCount: "#12", AccessDelta: "-2%"},
		{Name: `Mail, Calendar & "Notes"`, UsageTime: "45m", UsageDelta: "＋", AccessCount: "#8", AccessDelta: "+4%"},
		{Name: "Clock", UsageTime: "0:25"},
	}
	if !reflect.DeepEqual(parsed.TopApps, wantApps) {
		t.Fatalf("unexpected apps: %+v", parsed.TopApps)
	}

	compound, err := ParseCSV(loadFixture(t, "DailyUsage.csv"), Options{TimeTokens: TimeTokenCompound})
	if err != nil {
		t.Fatalf("ParseCSV returned error: %v", err)
	}
	if len(compound.TopApps) != 2 {
		t.Fatalf("clock row should be skipped in compound mode, got %+v", compound.TopApps)
	}
}

func TestParseCSVWithoutSummary(t *testing.T) {
	for _, raw := range []string{"", "Top apps\nChrome,1h", "Summary\n"} {
		parsed, err := ParseCSV(raw, Options{})
		if err != nil {
			t.Fatalf("ParseCSV(%q) returned error: %v", raw, err)
		}
		if parsed != nil {
			t.Fatalf("ParseCSV(%q) = %+v, want nil", raw, parsed)
		}
	}
}

func TestParseCSVRejectsBinary(t *testing.T) {
	for _, raw := range []string{"Summary\x00\n1,2", "Summary\n\xff\xfe"} {
		if _, err := ParseCSV(raw, Options{}); !errors.Is(err, ErrNotText) {
			t.Fatalf("expected ErrNotText for %q, got %v", raw, err)
		}
	}
	if _, err := ParseEmail("\xff", Options{}); !errors.Is(err, ErrNotText) {
		t.Fatalf("expected ErrNotText from ParseEmail, got %v", err)
	}
}

func TestFormatCSVRoundTrip(t *testing.T) {
	parsed, err := ParseCSV(loadFixture(t, "DailyUsage.csv"), Options{})
	if err != nil {
		t.Fatalf("ParseCSV returned error: %v", err)
	}

	out, err := FormatCSV(*parsed)
	if err != nil {
		t.Fatalf("FormatCSV returned error: %v", err)
	}
	if !strings.HasPrefix(out, "Summary\n\"Mon, Jan 1\",3h 20m,") {
		t.Fatalf("unexpected csv layout: %q", out)
	}

	again, err := ParseCSV(out, Options{})
	if err != nil {
		t.Fatalf("ParseCSV returned error on formatted output: %v", err)
	}
	if !reflect.DeepEqual(again, parsed) {
		t.Fatalf("round trip mismatch:\n got %+v\nwant %+v", again, parsed)
	}
}

func TestFormatCSVWithoutDaily(t *testing.T) {
	out, err := FormatCSV(model.ParsedUsage{TopApps: []model.AppUsageEntry{{Name: "Chrome", UsageTime: "1h"}}})
	if err != nil {
		t.Fatalf("FormatCSV returned error: %v", err)
	}
	if out != "Top apps\nChrome,1h,,,\n" {
		t.Fatalf("unexpected csv: %q", out)
	}
}
