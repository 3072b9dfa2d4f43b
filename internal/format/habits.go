package format

import (
	"fmt"
	"io"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"

	"healthdigest/internal/habits"
	"healthdigest/internal/model"
)

var (
	doneColor    = text.Colors{text.FgGreen}
	pendingColor = text.Colors{text.FgYellow}
)

// WriteHabits writes a habit report in the requested format.
func WriteHabits(w io.Writer, report model.HabitReport, opts Options) error {
	switch f := opts.format(); f {
	case FormatTable:
		return writeHabitsTable(w, report, opts)
	case FormatPlain:
		if opts.Header {
			if err := writeLine(w, "id", "name", "status"); err != nil {
				return err
			}
		}
		for _, h := range report.Habits {
			if err := writeLine(w, h.ID, escapeTabs(h.Name), string(h.Status)); err != nil {
				return err
			}
		}
		return nil
	case FormatJSON:
		return writeJSON(w, report)
	default:
		return unsupported(f, "habits")
	}
}

func writeHabitsTable(w io.Writer, report model.HabitReport, opts Options) error {
	tw := newTable(w, opts)
	if report.Date.Valid() {
		tw.SetTitle("Habits " + report.Date.String())
	}
	if opts.Header {
		tw.AppendHeader(table.Row{"Habit", "Status"})
	}
	for _, h := range report.Habits {
		status := "Not done"
		colors := pendingColor
		if h.Status == model.HabitDone {
			status = "Done"
			colors = doneColor
		}
		tw.AppendRow(table.Row{h.Name, colorize(opts.Color, colors, status)})
	}
	if percent, ok := habits.DonePercent(report.Habits); ok {
		tw.AppendFooter(table.Row{"Habits done", fmt.Sprintf("%d%%", percent)})
	} else {
		tw.AppendRow(table.Row{"(no habits)", "-"})
	}

	_ = tw.Render()
	return nil
}
