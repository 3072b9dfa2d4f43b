package usage

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"strings"

	"github.com/samber/lo"

	"healthdigest/internal/model"
)

const (
	csvHeadingSummary = "summary"
	csvDigestTitle    = "daily usage digest"
)

// SplitCSVRow splits one CSV line into trimmed cells. Double quotes group
// cells containing commas and "" inside quotes yields a literal quote.
// An unterminated quote runs to the end of the line.
func SplitCSVRow(line string) []string {
	var (
		cells    []string
		current  strings.Builder
		inQuotes bool
	)
	for i := 0; i < len(line); i++ {
		c := line[i]
		switch {
		case c == '"':
			if inQuotes && i+1 < len(line) && line[i+1] == '"' {
				current.WriteByte('"')
				i++
				continue
			}
			inQuotes = !inQuotes
		case c == ',' && !inQuotes:
			cells = append(cells, strings.TrimSpace(current.String()))
			current.Reset()
		default:
			current.WriteByte(c)
		}
	}
	return append(cells, strings.TrimSpace(current.String()))
}

// ParseCSV parses a usage CSV export. The row after the "Summary" row holds
// date, usage time, usage delta, access count and access delta; rows after
// "Top apps" whose second cell is a usage time are app entries. It returns nil
// when there is no summary row.
func ParseCSV(raw string, opts Options) (*model.ParsedUsage, error) {
	if err := validateText(raw); err != nil {
		return nil, err
	}
	lines := SplitLines(raw)
	if len(lines) == 0 {
		return nil, nil
	}
	rows := lo.Map(lines, func(line string, _ int) []string { return SplitCSVRow(line) })

	summaryIdx := indexOfRow(rows, csvHeadingSummary)
	if summaryIdx < 0 || summaryIdx+1 >= len(rows) {
		return nil, nil
	}
	summary := rows[summaryIdx+1]
	daily := &model.UsageRecord{
		Date:        model.NullString(cell(summary, 0)),
		UsageTime:   model.NullString(cell(summary, 1)),
		UsageDelta:  model.NullString(cell(summary, 2)),
		AccessCount: model.NullString(cell(summary, 3)),
		AccessDelta: model.NullString(cell(summary, 4)),
	}

	var candidates [][]string
	if topIdx := indexOfRow(rows, headingTopApps); topIdx >= 0 {
		candidates = rows[topIdx+1:]
	}
	apps := lo.FilterMap(candidates, func(row []string, _ int) (model.AppUsageEntry, bool) {
		name := cell(row, 0)
		if name == "" || strings.ToLower(name) == csvDigestTitle || !opts.IsUsageTime(cell(row, 1)) {
			return model.AppUsageEntry{}, false
		}
		return model.AppUsageEntry{
			Name:        model.NullString(name),
			UsageTime:   model.NullString(cell(row, 1)),
			UsageDelta:  model.NullString(cell(row, 2)),
			AccessCount: model.NullString(cell(row, 3)),
			AccessDelta: model.NullString(cell(row, 4)),
		}, true
	})

	return &model.ParsedUsage{Daily: daily, TopApps: apps}, nil
}

// FormatCSV writes usage in the export layout ParseCSV reads: a Summary
// heading, the daily row, a Top apps heading and one row per app. A nil daily
// record omits the summary block.
func FormatCSV(parsed model.ParsedUsage) (string, error) {
	var buf bytes.Buffer
	w := csv.NewWriter(&buf)

	var records [][]string
	if parsed.Daily != nil {
		d := parsed.Daily
		records = append(records,
			[]string{"Summary"},
			[]string{d.Date.String(), d.UsageTime.String(), d.UsageDelta.String(), d.AccessCount.String(), d.AccessDelta.String()},
		)
	}
	records = append(records, []string{"Top apps"})
	for _, app := range parsed.TopApps {
		records = append(records, []string{
			app.Name.String(), app.UsageTime.String(), app.UsageDelta.String(), app.AccessCount.String(), app.AccessDelta.String(),
		})
	}

	if err := w.WriteAll(records); err != nil {
		return "", fmt.Errorf("write usage csv: %w", err)
	}
	return buf.String(), nil
}

func indexOfRow(rows [][]string, heading string) int {
	for i, row := range rows {
		if strings.ToLower(cell(row, 0)) == heading {
			return i
		}
	}
	return -1
}

func cell(row []string, i int) string {
	if i < 0 || i >= len(row) {
		return ""
	}
	return row[i]
}

type csvParser struct {
	opts Options
}

func (p csvParser) Source() model.UsageSource { return model.SourceCSV }

func (p csvParser) Parse(raw string) (*model.ParsedUsage, error) {
	return ParseCSV(raw, p.opts)
}
