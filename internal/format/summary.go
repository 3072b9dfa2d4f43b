package format

import (
	"io"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"

	"healthdigest/internal/model"
)

var (
	labelColor   = text.Colors{text.FgCyan}
	sectionColor = text.Colors{text.Bold}
)

var sectionTitles = map[model.Section]string{
	model.SectionSummary:      "Summary",
	model.SectionSleepDetails: "Sleep details",
}

type sectionRows struct {
	section model.Section
	items   []model.SummaryItem
}

func summaryRows(summary model.HealthSummary) []sectionRows {
	return []sectionRows{
		{model.SectionSummary, summary.Summary},
		{model.SectionSleepDetails, summary.SleepDetails},
	}
}

// WriteSummary writes a health summary in the requested format.
func WriteSummary(w io.Writer, summary model.HealthSummary, opts Options) error {
	switch f := opts.format(); f {
	case FormatTable:
		return writeSummaryTable(w, summary, opts)
	case FormatPlain:
		return writeSummaryPlain(w, summary, opts)
	case FormatJSON:
		return writeJSON(w, summary)
	default:
		return unsupported(f, "health summary")
	}
}

// WriteReport writes a full health report. Table and plain output only show
// the summary; JSON includes datasets when the report carries them.
func WriteReport(w io.Writer, report model.HealthReport, opts Options) error {
	if opts.format() == FormatJSON {
		return writeJSON(w, report)
	}
	return WriteSummary(w, model.HealthSummary{Summary: report.Summary, SleepDetails: report.SleepDetails}, opts)
}

func writeSummaryPlain(w io.Writer, summary model.HealthSummary, opts Options) error {
	if opts.Header {
		if err := writeLine(w, "section", "label", "value"); err != nil {
			return err
		}
	}
	for _, rows := range summaryRows(summary) {
		for _, item := range rows.items {
			if err := writeLine(w, string(rows.section), escapeTabs(item.Label), escapeTabs(item.Value)); err != nil {
				return err
			}
		}
	}
	return nil
}

func writeSummaryTable(w io.Writer, summary model.HealthSummary, opts Options) error {
	tw := newTable(w, opts)
	tw.SetColumnConfigs([]table.ColumnConfig{
		{Number: 1, Align: text.AlignLeft, AlignHeader: text.AlignCenter},
		{Number: 2, Align: text.AlignLeft, AlignHeader: text.AlignCenter},
		{Number: 3, Align: text.AlignRight, AlignHeader: text.AlignCenter},
	})
	if opts.Header {
		tw.AppendHeader(table.Row{"Section", "Metric", "Value"})
	}

	count := 0
	for _, rows := range summaryRows(summary) {
		for i, item := range rows.items {
			section := ""
			if i == 0 {
				section = colorize(opts.Color, sectionColor, sectionTitles[rows.section])
			}
			tw.AppendRow(table.Row{section, colorize(opts.Color, labelColor, item.Label), item.Value})
			count++
		}
		if len(rows.items) > 0 {
			tw.AppendSeparator()
		}
	}
	if count == 0 {
		tw.AppendRow(table.Row{"-", "(no metrics)", "-"})
	}

	_ = tw.Render()
	return nil
}
