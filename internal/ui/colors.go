// Package ui holds the ANSI styling used by the CLI summaries and help.
package ui

import "os"

// ANSI color and style constants for CLI output
const (
	ColorReset = "\033[0m"
	ColorBold  = "\033[1m"
	ColorDim   = "\033[2m"

	ColorCyan   = "\033[36m"
	ColorGreen  = "\033[32m"
	ColorYellow = "\033[33m"
	ColorWhite  = "\033[97m"
	ColorRed    = "\033[31m"
)

// Plain disables the helper styling below. It is set when NO_COLOR is present.
var Plain = os.Getenv("NO_COLOR") != ""

func paint(style, s string) string {
	if Plain {
		return s
	}
	return style + s + ColorReset
}

func Bold(s string) string {
	return paint(ColorBold, s)
}

// Success marks completed work: saved records, downloaded files
func Success(s string) string {
	return paint(ColorGreen, s)
}

func Info(s string) string {
	return paint(ColorDim+ColorYellow, s)
}

func Error(s string) string {
	return paint(ColorRed, s)
}
