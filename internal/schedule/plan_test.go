package schedule

import (
	"errors"
	"testing"
	"time"

	"github.com/smokyabdulrahman/salah/internal/astro"
	"github.com/smokyabdulrahman/salah/internal/calendar"
	"github.com/smokyabdulrahman/salah/internal/prayer"
)

var (
	mecca = astro.Location{Latitude: 21.4225, Longitude: 39.8262}
	oslo  = astro.Location{Latitude: 60, Longitude: 10}
	ast   = time.FixedZone("AST", 3*3600)
	d0    = calendar.NewDate(2024, 1, 1)
)

func compute(t *testing.T, d calendar.Date, loc astro.Location, m prayer.Method) prayer.Schedule {
	t.Helper()
	day, err := astro.Solve(d, loc)
	if err != nil {
		t.Fatalf("Solve(%v): %v", d, err)
	}
	return prayer.Calculate(day, m)
}

func buildMecca(t *testing.T, now time.Time, opts ...Option) Plan {
	t.Helper()
	today := compute(t, d0, mecca, prayer.MuslimWorldLeague)
	tomorrow := compute(t, d0.AddDays(1), mecca, prayer.MuslimWorldLeague)
	plan, err := BuildPlan(today, tomorrow, now, append([]Option{WithZone(ast)}, opts...)...)
	if err != nil {
		t.Fatalf("BuildPlan: %v", err)
	}
	return plan
}

func localTime(day, h, m int) time.Time {
	return time.Date(2024, 1, day, h, m, 0, 0, ast)
}

// ---------------------------------------------------------------------------
// BuildPlan
// ---------------------------------------------------------------------------

func TestBuildPlan_Mismatch(t *testing.T) {
	today := compute(t, d0, mecca, prayer.MuslimWorldLeague)

	tests := []struct {
		name     string
		tomorrow prayer.Schedule
	}{
		{"same day", today},
		{"two days later", compute(t, d0.AddDays(2), mecca, prayer.MuslimWorldLeague)},
		{"other place", compute(t, d0.AddDays(1), oslo, prayer.MuslimWorldLeague)},
		{"other method", compute(t, d0.AddDays(1), mecca, prayer.MuslimWorldLeague.WithSchool(prayer.Hanafi))},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := BuildPlan(today, tt.tomorrow, localTime(1, 12, 0))
			if !errors.Is(err, ErrMismatch) {
				t.Errorf("error = %v, want ErrMismatch", err)
			}
		})
	}
}

func TestBuildPlan_EntriesOrdered(t *testing.T) {
	plan := buildMecca(t, localTime(1, 0, 0))

	if len(plan.Entries) != 2*len(prayer.DefaultNames) {
		t.Fatalf("entries = %d, want %d", len(plan.Entries), 2*len(prayer.DefaultNames))
	}
	for i := 1; i < len(plan.Entries); i++ {
		if !plan.Entries[i].Time.After(plan.Entries[i-1].Time) {
			t.Errorf("entry %d (%s) not after entry %d (%s)", i, plan.Entries[i].Name, i-1, plan.Entries[i-1].Name)
		}
	}
}

func TestBuildPlan_SelectedPrayers(t *testing.T) {
	plan := buildMecca(t, localTime(1, 0, 0), WithPrayers(prayer.Fajr, prayer.Maghrib))
	if len(plan.Entries) != 4 {
		t.Fatalf("entries = %d, want 4", len(plan.Entries))
	}
	for _, p := range plan.Entries {
		if p.Name != prayer.Fajr && p.Name != prayer.Maghrib {
			t.Errorf("unexpected entry %s", p.Name)
		}
	}
}

func TestBuildPlan_NegativeLead(t *testing.T) {
	today := compute(t, d0, mecca, prayer.MuslimWorldLeague)
	tomorrow := compute(t, d0.AddDays(1), mecca, prayer.MuslimWorldLeague)
	if _, err := BuildPlan(today, tomorrow, localTime(1, 0, 0), WithReminder(-time.Minute)); err == nil {
		t.Error("expected error for a negative lead")
	}
}

// ---------------------------------------------------------------------------
// NextPrayer / CurrentPrayer / TimeUntil
// ---------------------------------------------------------------------------

func TestNextPrayer_RollsPastMidnight(t *testing.T) {
	plan := buildMecca(t, localTime(1, 20, 0))

	next, err := NextPrayer(plan, localTime(1, 23, 59))
	if err != nil {
		t.Fatalf("NextPrayer: %v", err)
	}
	if next.Name != prayer.Fajr {
		t.Fatalf("next = %s, want Fajr", next.Name)
	}
	if got := calendar.DateOf(next.Time); got != d0.AddDays(1) {
		t.Errorf("next Fajr on %s, want %s", got, d0.AddDays(1))
	}
	if next.Time.Location() != ast {
		t.Errorf("next reported in %v, want the plan zone", next.Time.Location())
	}
}

func TestNextPrayer_ExactInstant(t *testing.T) {
	plan := buildMecca(t, localTime(1, 0, 0))
	dhuhr, err := plan.Today.Time(prayer.Dhuhr)
	if err != nil {
		t.Fatal(err)
	}

	next, err := NextPrayer(plan, dhuhr)
	if err != nil {
		t.Fatal(err)
	}
	if next.Name != prayer.Asr {
		t.Errorf("next at Dhuhr = %s, want Asr", next.Name)
	}
	cur, ok := CurrentPrayer(plan, dhuhr)
	if !ok || cur.Name != prayer.Dhuhr {
		t.Errorf("current at Dhuhr = %v (%v), want Dhuhr", cur.Name, ok)
	}
}

func TestNextPrayer_NothingLeft(t *testing.T) {
	plan := buildMecca(t, localTime(1, 0, 0))

	_, err := NextPrayer(plan, localTime(3, 0, 0))
	if !errors.Is(err, ErrNoUpcoming) {
		t.Errorf("error = %v, want ErrNoUpcoming", err)
	}
	if _, err := TimeUntil(plan, localTime(3, 0, 0)); !errors.Is(err, ErrNoUpcoming) {
		t.Errorf("TimeUntil error = %v, want ErrNoUpcoming", err)
	}
}

func TestCurrentPrayer_BeforeFirst(t *testing.T) {
	plan := buildMecca(t, localTime(1, 0, 0))
	if _, ok := CurrentPrayer(plan, localTime(1, 1, 0)); ok {
		t.Error("expected no current prayer before the first Fajr")
	}
}

func TestTimeUntil(t *testing.T) {
	plan := buildMecca(t, localTime(1, 0, 0))
	now := localTime(1, 13, 0)

	d, err := TimeUntil(plan, now)
	if err != nil {
		t.Fatal(err)
	}
	asr, _ := plan.Today.Time(prayer.Asr)
	if d != asr.Sub(now) {
		t.Errorf("TimeUntil = %v, want %v", d, asr.Sub(now))
	}
}

func TestNextPrayer_SkipsUnresolved(t *testing.T) {
	d := calendar.NewDate(2024, 6, 21)
	today := compute(t, d, oslo, prayer.MuslimWorldLeague)
	tomorrow := compute(t, d.AddDays(1), oslo, prayer.MuslimWorldLeague)
	plan, err := BuildPlan(today, tomorrow, time.Date(2024, 6, 21, 12, 0, 0, 0, time.UTC))
	if err != nil {
		t.Fatal(err)
	}

	maghrib, _ := today.Time(prayer.Maghrib)
	next, err := NextPrayer(plan, maghrib)
	if err != nil {
		t.Fatal(err)
	}
	if next.Name != prayer.Sunrise {
		t.Errorf("next after Maghrib without Isha/Fajr = %s, want Sunrise", next.Name)
	}
}

// ---------------------------------------------------------------------------
// Triggers
// ---------------------------------------------------------------------------

func TestTriggers_Reminders(t *testing.T) {
	now := localTime(1, 13, 0)
	plan := buildMecca(t, now, WithReminder(10*time.Minute))

	// Asr, Maghrib, Isha today and six prayers tomorrow, two triggers each.
	if len(plan.Triggers) != 18 {
		t.Fatalf("triggers = %d, want 18", len(plan.Triggers))
	}
	first := plan.Triggers[0]
	if first.Prayer != prayer.Asr || first.Kind != Reminder {
		t.Errorf("first trigger = %s %s, want Asr reminder", first.Prayer, first.Kind)
	}
	if first.PrayerTime.Sub(first.At) != 10*time.Minute {
		t.Errorf("reminder lead = %v", first.PrayerTime.Sub(first.At))
	}
	for i := 1; i < len(plan.Triggers); i++ {
		if plan.Triggers[i].At.Before(plan.Triggers[i-1].At) {
			t.Errorf("trigger %d out of order", i)
		}
	}
}

func TestTriggers_StableIDs(t *testing.T) {
	a := buildMecca(t, localTime(1, 0, 0), WithReminder(5*time.Minute))
	b := buildMecca(t, localTime(1, 13, 0), WithReminder(5*time.Minute))

	ids := make(map[string]bool)
	for _, tr := range a.Triggers {
		if ids[tr.ID.String()] {
			t.Errorf("duplicate trigger id %s", tr.ID)
		}
		ids[tr.ID.String()] = true
	}
	for _, tr := range b.Triggers {
		if !ids[tr.ID.String()] {
			t.Errorf("trigger %s %s at %v has a new id after rebuilding", tr.Prayer, tr.Kind, tr.At)
		}
	}
	if a.Triggers[0].ID.Version() != 5 {
		t.Errorf("trigger id version = %d, want 5", a.Triggers[0].ID.Version())
	}
}

func TestPlan_Pending(t *testing.T) {
	plan := buildMecca(t, localTime(1, 0, 0))
	now := localTime(1, 16, 0)

	pending := plan.Pending(now)
	if len(pending) == 0 || pending[0].Prayer != prayer.Maghrib {
		t.Fatalf("first pending trigger = %v, want Maghrib", pending)
	}
	for _, tr := range pending {
		if !tr.At.After(now) {
			t.Errorf("pending trigger at %v is not after %v", tr.At, now)
		}
	}
}

// ---------------------------------------------------------------------------
// IsStale
// ---------------------------------------------------------------------------

func TestIsStale(t *testing.T) {
	plan := buildMecca(t, localTime(1, 12, 0))
	moved := astro.Location{Latitude: mecca.Latitude + 0.1, Longitude: mecca.Longitude}

	tests := []struct {
		name   string
		now    time.Time
		loc    astro.Location
		method prayer.Method
		want   bool
	}{
		{"same day", localTime(1, 23, 59), mecca, prayer.MuslimWorldLeague, false},
		{"past local midnight", localTime(2, 0, 1), mecca, prayer.MuslimWorldLeague, true},
		// 21:30 UTC is still Jan 1 in UTC but Jan 2 in Mecca.
		{"midnight in the plan zone", time.Date(2024, 1, 1, 21, 30, 0, 0, time.UTC), mecca, prayer.MuslimWorldLeague, true},
		{"moved 11 km", localTime(1, 13, 0), moved, prayer.MuslimWorldLeague, true},
		{"method changed", localTime(1, 13, 0), mecca, prayer.MuslimWorldLeague.WithSchool(prayer.Hanafi), true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := IsStale(plan, tt.now, tt.loc, tt.method); got != tt.want {
				t.Errorf("IsStale = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestIsStale_Threshold(t *testing.T) {
	plan := buildMecca(t, localTime(1, 12, 0), WithMoveThreshold(20))
	moved := astro.Location{Latitude: mecca.Latitude + 0.1, Longitude: mecca.Longitude}
	if IsStale(plan, localTime(1, 13, 0), moved, prayer.MuslimWorldLeague) {
		t.Error("an 11 km move should not be stale with a 20 km threshold")
	}
}
