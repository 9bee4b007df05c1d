package ui

import "fmt"

// ANSI256 color codes matching the Ayu palette.
const (
	colorAccent  = 74  // blue, field names and headers
	colorMuted   = 245 // medium gray, keys and timestamps
	colorAdded   = 70  // green, new records and values
	colorRemoved = 160 // red, deleted records and old values
)

var noColor bool

func render(code int, s string) string {
	if noColor {
		return s
	}
	return fmt.Sprintf("\x1b[38;5;%dm%s\x1b[0m", code, s)
}

// RenderAccent returns s in the accent (blue) color.
func RenderAccent(s string) string { return render(colorAccent, s) }

// RenderMuted returns s in the muted (gray) color.
func RenderMuted(s string) string { return render(colorMuted, s) }

// RenderAdded returns s in the added (green) color.
func RenderAdded(s string) string { return render(colorAdded, s) }

// RenderRemoved returns s in the removed (red) color.
func RenderRemoved(s string) string { return render(colorRemoved, s) }

// ForceNoColor disables color output globally.
func ForceNoColor() {
	noColor = true
}
