// Package render provides width-aware text helpers for terminal output.
package render

import (
	"strings"

	"github.com/mattn/go-runewidth"
)

const ellipsis = "…"

// Sanitize removes control characters that would break a single-line
// layout. Tabs become spaces.
func Sanitize(s string) string {
	return strings.Map(func(r rune) rune {
		switch {
		case r == '\t' || r == '\n' || r == '\r':
			return ' '
		case r < 0x20 || r == 0x7f:
			return -1
		}
		return r
	}, s)
}

// Truncate shortens s to at most width display cells, ending with an
// ellipsis when anything was cut.
func Truncate(s string, width int) string {
	if width <= 0 {
		return ""
	}
	if runewidth.StringWidth(s) <= width {
		return s
	}
	return runewidth.Truncate(s, width, ellipsis)
}

// Fit truncates s and pads it with spaces to exactly width cells.
func Fit(s string, width int) string {
	s = Truncate(Sanitize(s), width)
	return runewidth.FillRight(s, width)
}

// Columns lays out left and right on one line of width cells, truncating
// left when both do not fit.
func Columns(left, right string, width int) string {
	rw := runewidth.StringWidth(right)
	if rw >= width {
		return Truncate(right, width)
	}
	return Fit(left, width-rw) + right
}
