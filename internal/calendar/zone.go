package calendar

import (
	"fmt"
	"time"
	_ "time/tzdata" // zone rules must not depend on the host's zoneinfo
)

// LocalTime is a UTC instant read on a wall clock.
type LocalTime struct {
	Instant time.Time // the instant, in UTC
	Wall    time.Time // the same instant in the target zone
	Offset  time.Duration
	Abbrev  string
	// Ambiguous is set when the wall reading occurs twice on that day
	// (DST overlap). The instant itself is still exact.
	Ambiguous bool
}

// Resolution describes how FromLocal mapped a wall-clock reading.
type Resolution struct {
	// Gap is set when the reading does not exist (spring-forward); the
	// result is shifted forward by the length of the gap.
	Gap bool
	// Ambiguous is set when the reading exists twice (fall-back); the later
	// occurrence is returned.
	Ambiguous bool
}

// Flagged reports whether the conversion hit a DST transition.
func (r Resolution) Flagged() bool {
	return r.Gap || r.Ambiguous
}

// LoadZone resolves an IANA zone name. An empty name or "Local" selects the
// host zone.
func LoadZone(name string) (*time.Location, error) {
	if name == "" || name == "Local" {
		return time.Local, nil
	}
	zone, err := time.LoadLocation(name)
	if err != nil {
		return nil, fmt.Errorf("invalid timezone %q: %w", name, err)
	}
	return zone, nil
}

// ToLocal converts UTC instants to wall-clock readings in zone. Zero
// instants (unresolved prayers) are passed through as zero LocalTimes.
func ToLocal(instants []time.Time, zone *time.Location) []LocalTime {
	out := make([]LocalTime, len(instants))
	for i, t := range instants {
		if t.IsZero() {
			continue
		}
		wall := t.In(zone)
		abbrev, offset := wall.Zone()
		_, res := FromLocal(DateOf(wall), clockOf(wall), zone)
		out[i] = LocalTime{
			Instant:   t.UTC(),
			Wall:      wall,
			Offset:    time.Duration(offset) * time.Second,
			Abbrev:    abbrev,
			Ambiguous: res.Ambiguous,
		}
	}
	return out
}

// FromLocal returns the instant at which the wall clock in zone reads
// clock past midnight on d.
//
// Readings inside a DST gap or overlap are resolved with the
// post-transition offset: a skipped reading moves forward by the gap, a
// repeated reading maps to its second occurrence.
func FromLocal(d Date, clock time.Duration, zone *time.Location) (time.Time, Resolution) {
	naive := time.Date(d.Year, d.Month, d.Day, 0, 0, 0, 0, time.UTC).Add(clock)

	// A day holds at most one transition, so the offsets a day either side
	// of the reading are the pre- and post-transition offsets.
	pre := offsetAt(naive.Add(-24*time.Hour), zone)
	post := offsetAt(naive.Add(24*time.Hour), zone)

	early := naive.Add(-pre)
	if pre == post {
		return early.UTC(), Resolution{}
	}
	late := naive.Add(-post)

	earlyOK := offsetAt(early, zone) == pre
	lateOK := offsetAt(late, zone) == post

	switch {
	case earlyOK && lateOK:
		// Overlap: both readings exist, pick the post-transition one.
		if late.Before(early) {
			return early.UTC(), Resolution{Ambiguous: true}
		}
		return late.UTC(), Resolution{Ambiguous: true}
	case earlyOK:
		return early.UTC(), Resolution{}
	case lateOK:
		return late.UTC(), Resolution{}
	default:
		// Gap: reading with the pre-transition offset lands after the
		// transition, i.e. in the post-transition offset.
		return early.UTC(), Resolution{Gap: true}
	}
}

// StartOfDay returns the first instant of d in zone. Zones that skip
// midnight start the day at the end of the gap.
func StartOfDay(d Date, zone *time.Location) (time.Time, Resolution) {
	return FromLocal(d, 0, zone)
}

func offsetAt(t time.Time, zone *time.Location) time.Duration {
	_, off := t.In(zone).Zone()
	return time.Duration(off) * time.Second
}

func clockOf(t time.Time) time.Duration {
	h, m, s := t.Clock()
	return time.Duration(h)*time.Hour + time.Duration(m)*time.Minute +
		time.Duration(s)*time.Second + time.Duration(t.Nanosecond())
}
