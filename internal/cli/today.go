package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/smokyabdulrahman/salah/internal/calendar"
	"github.com/smokyabdulrahman/salah/internal/display"
	"github.com/smokyabdulrahman/salah/internal/engine"
	"github.com/smokyabdulrahman/salah/internal/prayer"
	"github.com/smokyabdulrahman/salah/internal/schedule"
)

const (
	noteAdjusted   = "* placed by the high-latitude rule"
	noteUnresolved = prayer.Placeholder + " not reached on this day; try --high-lat angle"
)

func runToday(cmd *cobra.Command, args []string) error {
	s, err := newSession(cmd)
	if err != nil {
		return err
	}

	day, err := s.day(s.date)
	if err != nil {
		return err
	}

	// Only today's view has a "next" prayer.
	var next *prayer.Prayer
	if s.today {
		plan, err := s.eng.Plan(s.now, s.zone, s.loc, s.method, schedule.WithPrayers(s.names...))
		if err != nil {
			return err
		}
		if p, err := schedule.NextPrayer(plan, s.now); err == nil {
			next = &p
		}
	}

	out := cmd.OutOrStdout()
	if FlagJSON {
		return printTodayJSON(out, s, day, next)
	}
	printTodayRich(out, s, day, next)
	return nil
}

// localDay is one computed day read in the session zone.
type localDay struct {
	Date    calendar.Date
	Prayers map[prayer.Name]engine.LocalPrayer
}

// day computes date and converts it to the session zone.
func (s *session) day(date calendar.Date) (localDay, error) {
	sched, err := s.eng.Schedule(date, s.loc, s.method)
	if err != nil {
		return localDay{}, err
	}
	d := localDay{Date: date, Prayers: make(map[prayer.Name]engine.LocalPrayer)}
	for _, lp := range s.eng.Local(sched, s.zone) {
		d.Prayers[lp.Name] = lp
	}
	return d, nil
}

// days computes n consecutive days starting at the session date.
func (s *session) days(n int) ([]localDay, error) {
	out := make([]localDay, 0, n)
	for i := 0; i < n; i++ {
		d, err := s.day(s.date.AddDays(i))
		if err != nil {
			return nil, err
		}
		out = append(out, d)
	}
	return out, nil
}

// cell renders a prayer for a table: wall time, the zone abbreviation when
// the reading is ambiguous, and a marker for rule-placed times.
func (s *session) cell(lp engine.LocalPrayer) string {
	if !lp.Resolved() {
		return prayer.Placeholder
	}
	text := lp.Local.Wall.Format(s.layout)
	if lp.Local.Ambiguous {
		text += " " + lp.Local.Abbrev
	}
	if lp.Adjusted {
		text += display.Warn("*")
	}
	return text
}

// plain renders a prayer for JSON: the wall time, or "" when unresolved.
func (s *session) plain(lp engine.LocalPrayer) string {
	if !lp.Resolved() {
		return ""
	}
	return lp.Local.Wall.Format(s.layout)
}

// addNotes appends the footnotes that explain markers used in days.
func addNotes(tbl *display.Table, days []localDay, names []prayer.Name) {
	var adjusted, unresolved bool
	for _, d := range days {
		for _, n := range names {
			lp := d.Prayers[n]
			adjusted = adjusted || lp.Adjusted
			unresolved = unresolved || !lp.Resolved()
		}
	}
	if adjusted {
		tbl.AddNote(noteAdjusted)
	}
	if unresolved {
		tbl.AddNote(noteUnresolved)
	}
}

// printTodayRich renders the colored terminal output for one day.
func printTodayRich(w io.Writer, s *session, day localDay, next *prayer.Prayer) {
	fmt.Fprintln(w)
	fmt.Fprintf(w, "  %s\n", display.Bold("Prayer Times"))
	fmt.Fprintln(w)
	fmt.Fprintf(w, "  %s\n", s.locationLabel())
	fmt.Fprintf(w, "  %s\n", day.Date.Format("Monday 02 January 2006"))
	fmt.Fprintf(w, "  %s\n", s.hijri(day.Date))
	fmt.Fprintf(w, "  %s\n", display.Dim(s.method.String()))
	fmt.Fprintln(w)

	tbl := display.NewTable([]string{"Prayer", "Time"})
	for i, n := range s.names {
		lp := day.Prayers[n]
		tbl.AddRow([]string{n.String(), s.cell(lp)})
		if next != nil && lp.Resolved() && lp.Name == next.Name && lp.Time.Equal(next.Time) {
			tbl.SetHighlightRow(i)
		}
	}
	addNotes(tbl, []localDay{day}, s.names)
	fmt.Fprint(w, tbl.Render())

	if next != nil {
		fmt.Fprintln(w)
		remaining := prayer.FormatRemaining(prayer.TimeRemaining(*next, s.now))
		fmt.Fprintf(w, "  %s\n", display.Accent(fmt.Sprintf("Next: %s at %s, in %s", next.Name, next.Time.Format(s.layout), remaining)))
	}
	fmt.Fprintln(w)
}

// todayJSON is the JSON output structure for the root command.
type todayJSON struct {
	Location   locationJSON      `json:"location"`
	Date       dateJSON          `json:"date"`
	Method     string            `json:"method"`
	Timings    map[string]string `json:"timings"`
	Adjusted   []string          `json:"adjusted,omitempty"`
	Unresolved map[string]string `json:"unresolved,omitempty"`
	Next       *nextJSON         `json:"next,omitempty"`
}

type locationJSON struct {
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
	Elevation float64 `json:"elevation,omitempty"`
	Timezone  string  `json:"timezone"`
}

type dateJSON struct {
	Gregorian string `json:"gregorian"`
	Hijri     string `json:"hijri"`
}

type nextJSON struct {
	Prayer    string `json:"prayer"`
	Time      string `json:"time"`
	Remaining string `json:"remaining"`
	Adjusted  bool   `json:"adjusted,omitempty"`
}

func (s *session) locationJSON() locationJSON {
	return locationJSON{
		Latitude:  s.loc.Latitude,
		Longitude: s.loc.Longitude,
		Elevation: s.loc.Elevation,
		Timezone:  s.zone.String(),
	}
}

// timingsJSON splits a day into resolved timings, rule-placed names and
// unresolved names with their reason.
func (s *session) timingsJSON(day localDay, names []prayer.Name) (timings map[string]string, adjusted []string, unresolved map[string]string) {
	timings = make(map[string]string)
	for _, n := range names {
		lp := day.Prayers[n]
		key := strings.ToLower(n.String())
		if !lp.Resolved() {
			if unresolved == nil {
				unresolved = make(map[string]string)
			}
			unresolved[key] = errReason(lp.Err)
			continue
		}
		timings[key] = s.plain(lp)
		if lp.Adjusted {
			adjusted = append(adjusted, key)
		}
	}
	return timings, adjusted, unresolved
}

func errReason(err error) string {
	if err == nil {
		return "not computed"
	}
	return err.Error()
}

// printTodayJSON renders structured JSON output.
func printTodayJSON(w io.Writer, s *session, day localDay, next *prayer.Prayer) error {
	timings, adjusted, unresolved := s.timingsJSON(day, s.names)
	out := todayJSON{
		Location: s.locationJSON(),
		Date: dateJSON{
			Gregorian: day.Date.String(),
			Hijri:     s.hijri(day.Date),
		},
		Method:     s.method.Key,
		Timings:    timings,
		Adjusted:   adjusted,
		Unresolved: unresolved,
	}
	if next != nil {
		out.Next = &nextJSON{
			Prayer:    strings.ToLower(next.Name.String()),
			Time:      next.Time.Format(s.layout),
			Remaining: prayer.FormatRemaining(prayer.TimeRemaining(*next, s.now)),
			Adjusted:  next.Adjusted,
		}
	}
	return writeJSON(w, out)
}

func writeJSON(w io.Writer, v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal JSON: %w", err)
	}
	_, err = fmt.Fprintln(w, string(data))
	return err
}

// sameDay reports whether t falls on d in zone.
func sameDay(t time.Time, d calendar.Date, zone *time.Location) bool {
	return calendar.DateOf(t.In(zone)) == d
}
