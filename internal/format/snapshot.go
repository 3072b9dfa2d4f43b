package format

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"time"

	"healthdigest/internal/snapshot"
)

// WriteSnapshot writes a stored snapshot. JSON output is the payload alone;
// table and plain output prefix it with the snapshot metadata.
func WriteSnapshot(w io.Writer, snap snapshot.Snapshot, opts Options) error {
	switch f := opts.format(); f {
	case FormatJSON:
		_, err := fmt.Fprintln(w, indentJSON(snap.Payload))
		return err
	case FormatTable, FormatPlain:
		header := fmt.Sprintf("Snapshot %s (%s)", snap.ID, snap.GeneratedAt.Format(time.RFC3339))
		if _, err := fmt.Fprintln(w, colorize(opts.Color, sectionColor, header)); err != nil {
			return err
		}
		if _, err := fmt.Fprintf(w, "kind: %s\n", snap.Kind); err != nil {
			return err
		}
		if snap.Source != "" {
			if _, err := fmt.Fprintf(w, "source: %s\n", snap.Source); err != nil {
				return err
			}
		}
		_, err := fmt.Fprintln(w, indentJSON(snap.Payload))
		return err
	default:
		return unsupported(f, "snapshot")
	}
}

func indentJSON(raw []byte) string {
	if len(raw) == 0 {
		return ""
	}
	var buf bytes.Buffer
	if err := json.Indent(&buf, raw, "", "  "); err == nil {
		return buf.String()
	}
	return string(raw)
}
