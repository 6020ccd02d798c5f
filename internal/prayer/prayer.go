package prayer

import (
	"fmt"
	"strings"
	"time"

	"github.com/smokyabdulrahman/salah/internal/astro"
	"github.com/smokyabdulrahman/salah/internal/calendar"
)

// Name identifies a prayer or a solar event in a Schedule.
type Name int

// Names in chronological order for an ordinary day.
const (
	Imsak Name = iota
	Fajr
	Sunrise
	Dhuhr
	Asr
	Maghrib
	Isha
	Midnight

	nameCount
)

var names = [nameCount]string{"Imsak", "Fajr", "Sunrise", "Dhuhr", "Asr", "Maghrib", "Isha", "Midnight"}

func (n Name) String() string {
	if !n.valid() {
		return fmt.Sprintf("Name(%d)", int(n))
	}
	return names[n]
}

func (n Name) valid() bool {
	return n >= 0 && n < nameCount
}

// ParseName resolves a prayer name, ignoring case.
func ParseName(s string) (Name, error) {
	s = strings.TrimSpace(s)
	for i, n := range names {
		if strings.EqualFold(n, s) {
			return Name(i), nil
		}
	}
	return 0, fmt.Errorf("unknown prayer name: %s", s)
}

// ParseNames parses a comma-separated list of prayer names.
func ParseNames(list string) ([]Name, error) {
	var out []Name
	for _, part := range strings.Split(list, ",") {
		n, err := ParseName(part)
		if err != nil {
			return nil, err
		}
		out = append(out, n)
	}
	return out, nil
}

// AllNames lists every entry of a Schedule, in order.
var AllNames = []Name{Imsak, Fajr, Sunrise, Dhuhr, Asr, Maghrib, Isha, Midnight}

// DefaultNames are the entries tracked by default.
var DefaultNames = []Name{Fajr, Sunrise, Dhuhr, Asr, Maghrib, Isha}

// ShortNames maps prayer names to one- or two-letter abbreviations.
var ShortNames = map[Name]string{
	Imsak:    "Im",
	Fajr:     "F",
	Sunrise:  "S",
	Dhuhr:    "D",
	Asr:      "A",
	Maghrib:  "M",
	Isha:     "I",
	Midnight: "Mi",
}

// Prayer is one entry of a Schedule.
type Prayer struct {
	Name Name
	Time time.Time // UTC; zero when Err is set
	// Adjusted is set when a high-latitude rule placed the time.
	Adjusted bool
	Err      error
}

// Resolved reports whether p has a usable time.
func (p Prayer) Resolved() bool {
	return p.Err == nil && !p.Time.IsZero()
}

// In returns p with its time read in zone.
func (p Prayer) In(zone *time.Location) Prayer {
	if p.Resolved() {
		p.Time = p.Time.In(zone)
	}
	return p
}

// Schedule is the computed day for one (date, location, method).
// Prayers holds every Name in order; treat it as read-only.
type Schedule struct {
	Date     calendar.Date
	Location astro.Location
	Method   Method
	Solar    astro.SolarDay
	Prayers  []Prayer
}

// Get returns the entry for name.
func (s Schedule) Get(name Name) Prayer {
	for _, p := range s.Prayers {
		if p.Name == name {
			return p
		}
	}
	return Prayer{Name: name, Err: &UnresolvedTimeError{Name: name, Reason: "not computed"}}
}

// Time returns the instant of name, or the reason it is unavailable.
func (s Schedule) Time(name Name) (time.Time, error) {
	p := s.Get(name)
	if p.Err != nil {
		return time.Time{}, p.Err
	}
	return p.Time, nil
}

// Select returns the entries for the given names, in the order given.
func (s Schedule) Select(selected []Name) []Prayer {
	out := make([]Prayer, 0, len(selected))
	for _, n := range selected {
		out = append(out, s.Get(n))
	}
	return out
}

// Resolved returns the entries that have a time.
func (s Schedule) Resolved() []Prayer {
	var out []Prayer
	for _, p := range s.Prayers {
		if p.Resolved() {
			out = append(out, p)
		}
	}
	return out
}

// Unresolved returns the entries that could not be placed.
func (s Schedule) Unresolved() []Prayer {
	var out []Prayer
	for _, p := range s.Prayers {
		if !p.Resolved() {
			out = append(out, p)
		}
	}
	return out
}

// Clone returns s with its own copy of Prayers.
func (s Schedule) Clone() Schedule {
	s.Prayers = append([]Prayer(nil), s.Prayers...)
	return s
}

// NextPrayer finds the first resolved prayer strictly after now.
// A prayer whose time equals now is current, not next.
// Returns nil when every prayer has passed (the caller should look at
// tomorrow's schedule).
func NextPrayer(prayers []Prayer, now time.Time) *Prayer {
	for i := range prayers {
		if prayers[i].Resolved() && prayers[i].Time.After(now) {
			return &prayers[i]
		}
	}
	return nil
}

// CurrentPrayer finds the last resolved prayer at or before now.
func CurrentPrayer(prayers []Prayer, now time.Time) *Prayer {
	var current *Prayer
	for i := range prayers {
		if prayers[i].Resolved() && !prayers[i].Time.After(now) {
			current = &prayers[i]
		}
	}
	return current
}

// TimeRemaining returns the duration until the given prayer time.
func TimeRemaining(p Prayer, now time.Time) time.Duration {
	return p.Time.Sub(now)
}

// FormatRemaining formats a duration as "Xh Ym" or "Ym" if less than an hour.
func FormatRemaining(d time.Duration) string {
	if d < 0 {
		return "0m"
	}
	h := int(d.Hours())
	m := int(d.Minutes()) % 60

	if h > 0 {
		return fmt.Sprintf("%dh %dm", h, m)
	}
	return fmt.Sprintf("%dm", m)
}
