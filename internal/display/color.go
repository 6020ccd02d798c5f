// Package display renders CLI output: ANSI styling and aligned tables.
//
// Styling honours NO_COLOR (https://no-color.org/) and FORCE_COLOR, and is
// off when stdout is not a terminal.
package display

import (
	"os"
	"strings"
	"unicode/utf8"
)

// Style is a set of SGR parameters, e.g. "1;36" for bold cyan.
type Style string

const (
	StyleBold   Style = "1"
	StyleDim    Style = "2"
	StyleAccent Style = "1;36"
	StyleWarn   Style = "33"
	StyleMuted  Style = "90"
)

var enabled = shouldEnable()

func shouldEnable() bool {
	if _, ok := os.LookupEnv("NO_COLOR"); ok {
		return false
	}
	if _, ok := os.LookupEnv("FORCE_COLOR"); ok {
		return true
	}
	return isTerminal(os.Stdout)
}

// isTerminal reports whether f is a character device.
func isTerminal(f *os.File) bool {
	fi, err := f.Stat()
	if err != nil {
		return false
	}
	return fi.Mode()&os.ModeCharDevice != 0
}

// SetEnabled overrides detection; --json output turns styling off.
func SetEnabled(b bool) {
	enabled = b
}

// Enabled reports whether styling is active.
func Enabled() bool {
	return enabled
}

// Paint wraps text in the escape sequence for s.
func Paint(s Style, text string) string {
	if !enabled || s == "" || text == "" {
		return text
	}
	return "\033[" + string(s) + "m" + text + "\033[0m"
}

func Bold(text string) string   { return Paint(StyleBold, text) }
func Dim(text string) string    { return Paint(StyleDim, text) }
func Accent(text string) string { return Paint(StyleAccent, text) }
func Warn(text string) string   { return Paint(StyleWarn, text) }
func Muted(text string) string  { return Paint(StyleMuted, text) }

// visibleLen returns the printed width of s, skipping escape sequences.
func visibleLen(s string) int {
	n := 0
	for i := 0; i < len(s); {
		if s[i] == '\033' {
			if end := strings.IndexByte(s[i:], 'm'); end >= 0 {
				i += end + 1
				continue
			}
		}
		_, size := utf8.DecodeRuneInString(s[i:])
		i += size
		n++
	}
	return n
}
