package ui

import "strings"

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

// Heading styles a page title
func Heading(s string) string {
	return ColorBold + ColorCyan + s + ColorReset
}

// Section styles a help section name
func Section(s string) string {
	return ColorBold + ColorWhite + s + ColorReset
}

// Command styles a command line or command name
func Command(s string) string {
	return ColorCyan + s + ColorReset
}

func Bold(s string) string {
	return ColorBold + s + ColorReset
}

func Success(s string) string {
	return ColorGreen + s + ColorReset
}

func Warning(s string) string {
	return ColorYellow + s + ColorReset
}

func Info(s string) string {
	return ColorDim + ColorYellow + s + ColorReset
}

func Error(s string) string {
	return ColorRed + s + ColorReset
}

// ResultLine colors a run transcript line by its leading marker
func ResultLine(s string) string {
	trimmed := strings.TrimLeft(s, " \n")
	switch {
	case strings.HasPrefix(trimmed, "✓"):
		return Success(s)
	case strings.HasPrefix(trimmed, "⚠"):
		return Warning(s)
	case strings.HasPrefix(trimmed, "❌"):
		return Error(s)
	case strings.HasPrefix(trimmed, "["):
		return Bold(s)
	}
	return s
}
