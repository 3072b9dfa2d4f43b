package format

import (
	"fmt"
	"io"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"

	"healthdigest/internal/model"
	"healthdigest/internal/usage"
	"healthdigest/internal/view"
)

// minNameWidth keeps app names readable on narrow terminals.
const minNameWidth = 12

// WriteUsage writes parsed phone usage in the requested format.
func WriteUsage(w io.Writer, parsed model.ParsedUsage, opts Options) error {
	switch f := opts.format(); f {
	case FormatTable:
		return writeUsageTable(w, parsed, opts)
	case FormatPlain:
		return writeUsagePlain(w, parsed, opts)
	case FormatJSON:
		return writeJSON(w, parsed)
	case FormatCSV:
		out, err := usage.FormatCSV(parsed)
		if err != nil {
			return err
		}
		_, err = io.WriteString(w, out)
		return err
	default:
		return unsupported(f, "usage")
	}
}

// WriteUsageSnapshot writes a usage snapshot. JSON keeps the source
// annotations; other formats render the parsed usage alone.
func WriteUsageSnapshot(w io.Writer, snapshot model.UsageSnapshot, opts Options) error {
	if opts.format() == FormatJSON {
		return writeJSON(w, snapshot)
	}
	return WriteUsage(w, snapshot.ParsedUsage, opts)
}

func writeUsagePlain(w io.Writer, parsed model.ParsedUsage, opts Options) error {
	if opts.Header {
		if err := writeLine(w, "kind", "name", "usage_time", "usage_delta", "access_count", "access_delta"); err != nil {
			return err
		}
	}
	if d := parsed.Daily; d != nil {
		if err := writeLine(w, "daily", escapeTabs(d.Date.String()), d.UsageTime.String(), d.UsageDelta.String(), d.AccessCount.String(), d.AccessDelta.String()); err != nil {
			return err
		}
	}
	for _, app := range parsed.TopApps {
		if err := writeLine(w, "app", escapeTabs(app.Name.String()), app.UsageTime.String(), app.UsageDelta.String(), app.AccessCount.String(), app.AccessDelta.String()); err != nil {
			return err
		}
	}
	return nil
}

func writeUsageTable(w io.Writer, parsed model.ParsedUsage, opts Options) error {
	tw := newTable(w, opts)
	tw.SetColumnConfigs([]table.ColumnConfig{
		{Number: 1, Align: text.AlignLeft, AlignHeader: text.AlignCenter},
		{Number: 2, Align: text.AlignRight, AlignHeader: text.AlignCenter},
		{Number: 3, Align: text.AlignRight, AlignHeader: text.AlignCenter},
		{Number: 4, Align: text.AlignRight, AlignHeader: text.AlignCenter},
		{Number: 5, Align: text.AlignRight, AlignHeader: text.AlignCenter},
	})
	if opts.Header {
		tw.AppendHeader(table.Row{"App", "Usage", "Change", "Opens", "Change"})
	}

	nameWidth := 0
	if opts.Width > 0 {
		nameWidth = max(opts.Width/3, minNameWidth)
	}

	if d := parsed.Daily; d != nil {
		label := fmt.Sprintf("Total (%s)", orDash(d.Date))
		tw.AppendRow(table.Row{
			colorize(opts.Color, sectionColor, view.Clip(label, nameWidth)),
			orDash(d.UsageTime), orDash(d.UsageDelta), orDash(d.AccessCount), orDash(d.AccessDelta),
		})
		tw.AppendSeparator()
	}
	for _, app := range parsed.TopApps {
		tw.AppendRow(table.Row{
			colorize(opts.Color, labelColor, view.Clip(app.Name.String(), nameWidth)),
			orDash(app.UsageTime), orDash(app.UsageDelta), orDash(app.AccessCount), orDash(app.AccessDelta),
		})
	}
	if parsed.Daily == nil && len(parsed.TopApps) == 0 {
		tw.AppendRow(table.Row{"(no usage)", "-", "-", "-", "-"})
	}

	_ = tw.Render()
	return nil
}
