// Package recalc decides when a computed schedule has to be rebuilt.
package recalc

import (
	"fmt"

	"github.com/smokyabdulrahman/salah/internal/astro"
	"github.com/smokyabdulrahman/salah/internal/calendar"
	"github.com/smokyabdulrahman/salah/internal/geo"
	"github.com/smokyabdulrahman/salah/internal/prayer"
)

// DefaultThreshold is the distance, in kilometres, a device may move before
// its schedule is recomputed.
const DefaultThreshold = 5.0

// Key identifies the inputs a schedule was computed from.
type Key struct {
	Date     calendar.Date
	Location astro.Location
	Method   prayer.Method
}

func (k Key) String() string {
	return fmt.Sprintf("%s @ %s / %s", k.Date, k.Location, k.Method.Key)
}

// Kind is the amount of work a Decision asks for.
type Kind int

const (
	None     Kind = iota // the schedule is still valid
	DateRoll             // tomorrow's schedule becomes today's
	Full                 // recompute both days
)

func (k Kind) String() string {
	switch k {
	case None:
		return "none"
	case DateRoll:
		return "date-roll"
	case Full:
		return "full"
	}
	return fmt.Sprintf("Kind(%d)", int(k))
}

// Decision is the outcome of Decide.
type Decision struct {
	Kind   Kind
	Reason string
	Moved  float64 // kilometres between the two locations
}

// Recompute reports whether any work is needed.
func (d Decision) Recompute() bool {
	return d.Kind != None
}

// Decide compares the key a schedule was built for with the current inputs.
// A date-roll is only possible when the date advanced by exactly one day and
// nothing else changed. A move of more than thresholdKm, a method change, or
// any other date change asks for a full recompute.
func Decide(prev, cur Key, thresholdKm float64) Decision {
	moved := geo.Distance(prev.Location, cur.Location)

	switch {
	case prev.Method != cur.Method:
		return Decision{Kind: Full, Reason: "method changed", Moved: moved}
	case moved > thresholdKm:
		return Decision{Kind: Full, Reason: fmt.Sprintf("moved %.1f km", moved), Moved: moved}
	}

	switch days := cur.Date.Sub(prev.Date); days {
	case 0:
		return Decision{Kind: None, Moved: moved}
	case 1:
		return Decision{Kind: DateRoll, Reason: "date advanced", Moved: moved}
	default:
		return Decision{Kind: Full, Reason: fmt.Sprintf("date changed by %d days", days), Moved: moved}
	}
}
