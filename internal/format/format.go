// Package format renders health summaries, phone usage, habits and stored
// snapshots as tables, plain text, JSON or CSV.
package format

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"

	"healthdigest/internal/model"
)

// Supported output formats.
const (
	FormatTable = "table"
	FormatPlain = "plain"
	FormatJSON  = "json"
	FormatJSONL = "jsonl"
	FormatCSV   = "csv"
)

// Options controls rendering.
type Options struct {
	Format string
	Header bool
	Color  bool
	// Width caps table rows in display cells; zero leaves them unbounded.
	Width int
}

func (o Options) format() string {
	f := strings.ToLower(strings.TrimSpace(o.Format))
	if f == "" {
		return FormatTable
	}
	return f
}

func unsupported(format, what string) error {
	return fmt.Errorf("unsupported format for %s: %s", what, format)
}

func newTable(w io.Writer, opts Options) table.Writer {
	tw := table.NewWriter()
	tw.SetOutputMirror(w)
	tw.SetStyle(table.StyleRounded)
	tw.Style().Options.SeparateRows = false
	tw.Style().Options.SeparateHeader = true
	tw.Style().Options.DrawBorder = true
	if opts.Width > 0 {
		tw.SetAllowedRowLength(opts.Width)
	}
	return tw
}

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func writeLine(w io.Writer, fields ...string) error {
	_, err := fmt.Fprintln(w, strings.Join(fields, "\t"))
	return err
}

func colorize(enabled bool, colors text.Colors, s string) string {
	if !enabled {
		return s
	}
	return colors.Sprint(s)
}

// orDash renders a missing value as "-".
func orDash(s model.NullString) string {
	if !s.Valid() {
		return "-"
	}
	return s.String()
}

func escapeTabs(s string) string {
	return strings.NewReplacer("\t", " ", "\n", "\\n").Replace(s)
}
