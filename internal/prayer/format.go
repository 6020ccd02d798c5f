package prayer

import (
	"bytes"
	"fmt"
	"strings"
	"text/template"
	"time"
)

// Display modes accepted by FormatOutput.
const (
	FormatTimeRemaining      = "time-remaining"
	FormatNextPrayerTime     = "next-prayer-time"
	FormatNameAndTime        = "name-and-time"
	FormatNameAndRemaining   = "name-and-remaining"
	FormatShortNameAndTime   = "short-name-and-time"
	FormatShortNameAndRemain = "short-name-and-remaining"
	FormatFull               = "full"
)

// Placeholder is shown in place of a time that could not be computed.
const Placeholder = "--:--"

// FormatModes lists the built-in modes, for help text and validation.
var FormatModes = []string{
	FormatTimeRemaining,
	FormatNextPrayerTime,
	FormatNameAndTime,
	FormatNameAndRemaining,
	FormatShortNameAndTime,
	FormatShortNameAndRemain,
	FormatFull,
}

// FormatData is the data passed to custom templates.
type FormatData struct {
	Name      string // "Asr"
	ShortName string // "A"
	Time      string // "15:02", "3:02 PM" or Placeholder
	Remaining string // "2h 15m"
	Hours     int
	Minutes   int
	Adjusted  bool // placed by a high-latitude rule
}

// FormatTime renders the time of p in its own location, or Placeholder when
// p is unresolved.
func FormatTime(p Prayer, layout string) string {
	if !p.Resolved() {
		return Placeholder
	}
	return p.Time.Format(layout)
}

// FormatOutput renders p for a status line. layout is "15:04" or "3:04 PM".
//
// A mode containing "{{" is executed as a text/template over FormatData:
//
//	"{{.Name}} in {{.Remaining}}" -> "Asr in 2h 15m"
func FormatOutput(p Prayer, now time.Time, mode string, layout string) string {
	var d time.Duration
	if p.Resolved() {
		d = TimeRemaining(p, now)
	}
	remaining := FormatRemaining(d)
	clock := FormatTime(p, layout)
	name := p.Name.String()
	short := ShortNames[p.Name]

	if strings.Contains(mode, "{{") {
		return formatCustom(mode, FormatData{
			Name:      name,
			ShortName: short,
			Time:      clock,
			Remaining: remaining,
			Hours:     int(d.Hours()),
			Minutes:   int(d.Minutes()) % 60,
			Adjusted:  p.Adjusted,
		})
	}

	switch mode {
	case FormatTimeRemaining:
		return remaining
	case FormatNextPrayerTime:
		return clock
	case FormatNameAndRemaining:
		return name + " " + remaining
	case FormatShortNameAndTime:
		return short + " " + clock
	case FormatShortNameAndRemain:
		return short + " " + remaining
	case FormatFull:
		return fmt.Sprintf("%s %s (%s)", name, clock, remaining)
	default:
		return name + " " + clock
	}
}

func formatCustom(tmpl string, data FormatData) string {
	t, err := template.New("custom").Option("missingkey=error").Parse(tmpl)
	if err != nil {
		return fmt.Sprintf("template-err: %v", err)
	}

	var buf bytes.Buffer
	if err := t.Execute(&buf, data); err != nil {
		return fmt.Sprintf("template-err: %v", err)
	}
	return buf.String()
}
