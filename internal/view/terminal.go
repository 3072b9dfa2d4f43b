// Package view holds terminal helpers shared by the renderers: color
// detection, width detection and display-width aware clipping.
package view

import (
	"io"
	"os"
	"strconv"

	"github.com/mattn/go-isatty"
	"golang.org/x/term"
)

// DefaultWidth is used when neither the terminal nor COLUMNS report a width.
const DefaultWidth = 80

// ColorOptions selects whether output is colored.
type ColorOptions struct {
	ForceColor   bool
	ForceNoColor bool
	Out          io.Writer
}

// ResolveColor applies --color / --no-color, falling back to auto detection:
// color only on a terminal and only when NO_COLOR is unset.
func ResolveColor(opts ColorOptions) bool {
	if opts.ForceColor {
		return true
	}
	if opts.ForceNoColor {
		return false
	}
	return shouldUseColorAuto(opts.Out)
}

func shouldUseColorAuto(out io.Writer) bool {
	if os.Getenv("NO_COLOR") != "" {
		return false
	}
	file, ok := out.(*os.File)
	if !ok {
		return false
	}
	fd := file.Fd()
	return isatty.IsTerminal(fd) || isatty.IsCygwinTerminal(fd)
}

// IsTerminal reports whether out is an interactive terminal.
func IsTerminal(out io.Writer) bool {
	file, ok := out.(*os.File)
	if !ok {
		return false
	}
	return isatty.IsTerminal(file.Fd()) || isatty.IsCygwinTerminal(file.Fd())
}

// DetermineWidth returns override when positive, else the terminal width of
// out, else $COLUMNS, else DefaultWidth.
func DetermineWidth(out io.Writer, override int) int {
	if override > 0 {
		return override
	}
	if file, ok := out.(*os.File); ok {
		if w, _, err := term.GetSize(int(file.Fd())); err == nil && w > 0 {
			return w
		}
	}
	if colsStr := os.Getenv("COLUMNS"); colsStr != "" {
		if v, err := strconv.Atoi(colsStr); err == nil && v > 0 {
			return v
		}
	}
	return DefaultWidth
}
