// Package schedule joins two consecutive days of prayer times into a plan
// that answers "what is next" across midnight and lists the instants a
// notifier should fire at.
package schedule

import (
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/google/uuid"

	"github.com/smokyabdulrahman/salah/internal/astro"
	"github.com/smokyabdulrahman/salah/internal/calendar"
	"github.com/smokyabdulrahman/salah/internal/prayer"
	"github.com/smokyabdulrahman/salah/internal/recalc"
)

var (
	// ErrNoUpcoming is returned when every entry of the plan is at or before now.
	ErrNoUpcoming = errors.New("no upcoming prayer in plan")

	// ErrMismatch is returned by BuildPlan when the two schedules do not
	// describe consecutive days of the same place and method.
	ErrMismatch = errors.New("schedules do not form a plan")
)

// TriggerKind tells a notifier what a Trigger is for.
type TriggerKind int

const (
	AtTime   TriggerKind = iota // the prayer time itself
	Reminder                    // a fixed lead before it
)

func (k TriggerKind) String() string {
	if k == Reminder {
		return "reminder"
	}
	return "at-time"
}

// Trigger is one instant a notifier should fire at.
//
// ID is derived from the prayer, kind and instant only, so rebuilding a plan
// for unchanged inputs yields the same IDs and a notifier can drop triggers it
// already holds.
type Trigger struct {
	ID         uuid.UUID
	Prayer     prayer.Name
	Kind       TriggerKind
	At         time.Time
	PrayerTime time.Time
	Adjusted   bool
}

var triggerNamespace = uuid.NewSHA1(uuid.NameSpaceURL, []byte("https://github.com/smokyabdulrahman/salah/trigger"))

func triggerID(name prayer.Name, kind TriggerKind, at time.Time) uuid.UUID {
	return uuid.NewSHA1(triggerNamespace, []byte(fmt.Sprintf("%s|%s|%d", name, kind, at.Unix())))
}

// Plan is today's and tomorrow's schedules seen as one timeline. A Plan is
// never patched: when IsStale reports true, build a new one.
type Plan struct {
	Today    prayer.Schedule
	Tomorrow prayer.Schedule

	// Key is what Today was computed from.
	Key       recalc.Key
	Zone      *time.Location
	Prayers   []prayer.Name
	Lead      time.Duration
	Threshold float64
	BuiltAt   time.Time

	// Entries holds the selected, resolved prayers of both days in time order.
	Entries []prayer.Prayer
	// Triggers holds every trigger after BuiltAt, in firing order.
	Triggers []Trigger
}

type options struct {
	prayers   []prayer.Name
	lead      time.Duration
	zone      *time.Location
	threshold float64
}

// Option configures BuildPlan.
type Option func(*options)

// WithPrayers restricts the plan to names. The default is prayer.DefaultNames.
func WithPrayers(names ...prayer.Name) Option {
	return func(o *options) {
		if len(names) > 0 {
			o.prayers = names
		}
	}
}

// WithReminder adds a Reminder trigger lead before every prayer.
func WithReminder(lead time.Duration) Option {
	return func(o *options) { o.lead = lead }
}

// WithZone sets the zone results are reported in. The default is UTC.
func WithZone(zone *time.Location) Option {
	return func(o *options) {
		if zone != nil {
			o.zone = zone
		}
	}
}

// WithMoveThreshold sets how far, in kilometres, the caller may move before
// IsStale reports true.
func WithMoveThreshold(km float64) Option {
	return func(o *options) { o.threshold = km }
}

// BuildPlan joins today and tomorrow. Entries that could not be resolved are
// left out; the rest of the day stays usable.
func BuildPlan(today, tomorrow prayer.Schedule, now time.Time, opts ...Option) (Plan, error) {
	o := options{
		prayers:   prayer.DefaultNames,
		zone:      time.UTC,
		threshold: recalc.DefaultThreshold,
	}
	for _, opt := range opts {
		opt(&o)
	}

	if want := today.Date.AddDays(1); tomorrow.Date != want {
		return Plan{}, fmt.Errorf("%w: tomorrow is %s, want %s", ErrMismatch, tomorrow.Date, want)
	}
	if today.Location != tomorrow.Location {
		return Plan{}, fmt.Errorf("%w: locations differ (%s vs %s)", ErrMismatch, today.Location, tomorrow.Location)
	}
	if today.Method != tomorrow.Method {
		return Plan{}, fmt.Errorf("%w: methods differ (%s vs %s)", ErrMismatch, today.Method.Key, tomorrow.Method.Key)
	}
	if o.lead < 0 {
		return Plan{}, fmt.Errorf("reminder lead must not be negative, got %s", o.lead)
	}

	p := Plan{
		Today:     today,
		Tomorrow:  tomorrow,
		Key:       recalc.Key{Date: today.Date, Location: today.Location, Method: today.Method},
		Zone:      o.zone,
		Prayers:   append([]prayer.Name(nil), o.prayers...),
		Lead:      o.lead,
		Threshold: o.threshold,
		BuiltAt:   now,
	}
	p.Entries = append(resolved(today, o.prayers), resolved(tomorrow, o.prayers)...)
	sort.SliceStable(p.Entries, func(i, j int) bool {
		return p.Entries[i].Time.Before(p.Entries[j].Time)
	})
	p.Triggers = triggers(p.Entries, o.lead, now)
	return p, nil
}

func resolved(s prayer.Schedule, names []prayer.Name) []prayer.Prayer {
	var out []prayer.Prayer
	for _, p := range s.Select(names) {
		if p.Resolved() {
			out = append(out, p)
		}
	}
	return out
}

func triggers(entries []prayer.Prayer, lead time.Duration, now time.Time) []Trigger {
	seen := make(map[uuid.UUID]bool)
	var out []Trigger
	add := func(p prayer.Prayer, kind TriggerKind, at time.Time) {
		if !at.After(now) {
			return
		}
		id := triggerID(p.Name, kind, at)
		if seen[id] {
			return
		}
		seen[id] = true
		out = append(out, Trigger{ID: id, Prayer: p.Name, Kind: kind, At: at, PrayerTime: p.Time, Adjusted: p.Adjusted})
	}

	for _, p := range entries {
		if lead > 0 {
			add(p, Reminder, p.Time.Add(-lead))
		}
		add(p, AtTime, p.Time)
	}

	sort.SliceStable(out, func(i, j int) bool {
		if !out[i].At.Equal(out[j].At) {
			return out[i].At.Before(out[j].At)
		}
		return out[i].Kind > out[j].Kind
	})
	return out
}

// Pending returns the triggers that fire after now.
func (p Plan) Pending(now time.Time) []Trigger {
	i := sort.Search(len(p.Triggers), func(i int) bool { return p.Triggers[i].At.After(now) })
	return p.Triggers[i:]
}

// NextPrayer returns the first entry strictly after now, in the plan's zone.
// At the exact instant of a prayer that prayer is current, and the one after
// it is returned.
func NextPrayer(plan Plan, now time.Time) (prayer.Prayer, error) {
	next := prayer.NextPrayer(plan.Entries, now)
	if next == nil {
		return prayer.Prayer{}, ErrNoUpcoming
	}
	return next.In(plan.zone()), nil
}

// CurrentPrayer returns the last entry at or before now. ok is false before
// the first entry of the plan.
func CurrentPrayer(plan Plan, now time.Time) (p prayer.Prayer, ok bool) {
	cur := prayer.CurrentPrayer(plan.Entries, now)
	if cur == nil {
		return prayer.Prayer{}, false
	}
	return cur.In(plan.zone()), true
}

// TimeUntil returns how long until the next prayer.
func TimeUntil(plan Plan, now time.Time) (time.Duration, error) {
	next, err := NextPrayer(plan, now)
	if err != nil {
		return 0, err
	}
	return next.Time.Sub(now), nil
}

// Staleness reports what has to be recomputed before plan can answer for
// now at loc under method.
func Staleness(plan Plan, now time.Time, loc astro.Location, method prayer.Method) recalc.Decision {
	cur := recalc.Key{
		Date:     calendar.DateOf(now.In(plan.zone())),
		Location: loc,
		Method:   method,
	}
	return recalc.Decide(plan.Key, cur, plan.Threshold)
}

// IsStale reports whether plan has to be rebuilt: the local date has moved
// past Today, the caller moved beyond the threshold, or the method changed.
func IsStale(plan Plan, now time.Time, loc astro.Location, method prayer.Method) bool {
	return Staleness(plan, now, loc, method).Recompute()
}

func (p Plan) zone() *time.Location {
	if p.Zone == nil {
		return time.UTC
	}
	return p.Zone
}
