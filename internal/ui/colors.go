// Package ui holds the ANSI styling used by CLI output.
package ui

import (
	"os"

	"github.com/mattn/go-isatty"
)

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

var enabled = isatty.IsTerminal(os.Stdout.Fd()) && os.Getenv("NO_COLOR") == ""

// SetEnabled turns styling on or off, e.g. when stdout is redirected
func SetEnabled(on bool) {
	enabled = on
}

// Enabled reports whether styled output is on
func Enabled() bool {
	return enabled
}

// Style wraps s in the given codes when styling is enabled
func Style(s string, codes ...string) string {
	if !enabled || len(codes) == 0 {
		return s
	}
	var prefix string
	for _, c := range codes {
		prefix += c
	}
	return prefix + s + ColorReset
}

func Bold(s string) string {
	return Style(s, ColorBold)
}

func Success(s string) string {
	return Style(s, ColorGreen)
}

func Info(s string) string {
	return Style(s, ColorDim, ColorYellow)
}

func Warn(s string) string {
	return Style(s, ColorYellow)
}

func Error(s string) string {
	return Style(s, ColorRed)
}

func Dim(s string) string {
	return Style(s, ColorDim)
}

func Value(s string) string {
	return Style(s, ColorWhite)
}
