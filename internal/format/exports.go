package format

import (
	"encoding/json"
	"io"
	"strconv"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"

	"healthdigest/internal/store"
)

type exportItem struct {
	Directory string    `json:"directory"`
	File      string    `json:"file"`
	Path      string    `json:"path"`
	Size      int64     `json:"size"`
	ModTime   time.Time `json:"modified"`
}

func toExportItems(files []store.ExportFile) []exportItem {
	items := make([]exportItem, 0, len(files))
	for _, f := range files {
		items = append(items, exportItem(f))
	}
	return items
}

// WriteExports lists usage export files.
func WriteExports(w io.Writer, files []store.ExportFile, opts Options) error {
	switch f := opts.format(); f {
	case FormatTable:
		return writeExportsTable(w, files, opts)
	case FormatPlain:
		if opts.Header {
			if err := writeLine(w, "directory", "file", "size", "modified"); err != nil {
				return err
			}
		}
		for _, file := range files {
			if err := writeLine(w, file.Directory, file.File, strconv.FormatInt(file.Size, 10), file.ModTime.Format(time.RFC3339)); err != nil {
				return err
			}
		}
		return nil
	case FormatJSON:
		return writeJSON(w, toExportItems(files))
	case FormatJSONL:
		enc := json.NewEncoder(w)
		for _, item := range toExportItems(files) {
			if err := enc.Encode(item); err != nil {
				return err
			}
		}
		return nil
	default:
		return unsupported(f, "exports")
	}
}

func writeExportsTable(w io.Writer, files []store.ExportFile, opts Options) error {
	tw := newTable(w, opts)
	tw.SetColumnConfigs([]table.ColumnConfig{
		{Number: 1, Align: text.AlignLeft, AlignHeader: text.AlignCenter},
		{Number: 2, Align: text.AlignLeft, AlignHeader: text.AlignCenter},
		{Number: 3, Align: text.AlignRight, AlignHeader: text.AlignCenter},
		{Number: 4, Align: text.AlignLeft, AlignHeader: text.AlignCenter},
	})
	if opts.Header {
		tw.AppendHeader(table.Row{"Directory", "File", "Size", "Modified"})
	}
	for _, file := range files {
		tw.AppendRow(table.Row{
			file.Directory,
			file.File,
			humanize.Bytes(uint64(file.Size)),
			file.ModTime.Format(time.RFC3339),
		})
	}
	if len(files) == 0 {
		tw.AppendRow(table.Row{"-", "(no exports)", "-", "-"})
	}

	_ = tw.Render()
	return nil
}
