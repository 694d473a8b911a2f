package output

import (
	"github.com/fatih/color"
)

// ColorScheme defines the colors used for different elements in the output
type ColorScheme struct {
	Header    *color.Color
	Label     *color.Color
	Value     *color.Color
	Good      *color.Color
	Warn      *color.Color
	Bad       *color.Color
	Highlight *color.Color
}

// DefaultColorScheme returns the default color scheme
func DefaultColorScheme() *ColorScheme {
	return &ColorScheme{
		Header:    color.New(color.FgCyan, color.Bold),
		Label:     color.New(color.FgYellow),
		Value:     color.New(color.FgWhite),
		Good:      color.New(color.FgGreen, color.Bold),
		Warn:      color.New(color.FgYellow, color.Bold),
		Bad:       color.New(color.FgRed, color.Bold),
		Highlight: color.New(color.FgMagenta, color.Bold),
	}
}

// NoColorScheme returns a color scheme with all colors disabled
func NoColorScheme() *ColorScheme {
	scheme := DefaultColorScheme()

	// Disable all colors
	scheme.Header.DisableColor()
	scheme.Label.DisableColor()
	scheme.Value.DisableColor()
	scheme.Good.DisableColor()
	scheme.Warn.DisableColor()
	scheme.Bad.DisableColor()
	scheme.Highlight.DisableColor()

	return scheme
}
