package view

import (
	"strings"

	"github.com/mattn/go-runewidth"
)

const ellipsis = "…"

// Clip shortens text to at most width display cells, ending in an ellipsis
// when something was cut. Wide runes count as two cells.
func Clip(text string, width int) string {
	if width <= 0 || runewidth.StringWidth(text) <= width {
		return text
	}
	if width == 1 {
		return ellipsis
	}
	var out strings.Builder
	current := 0
	for _, r := range text {
		rw := runewidth.RuneWidth(r)
		if current+rw > width-1 {
			break
		}
		out.WriteRune(r)
		current += rw
	}
	return out.String() + ellipsis
}
