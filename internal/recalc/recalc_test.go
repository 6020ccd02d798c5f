package recalc

import (
	"testing"

	"github.com/smokyabdulrahman/salah/internal/astro"
	"github.com/smokyabdulrahman/salah/internal/calendar"
	"github.com/smokyabdulrahman/salah/internal/prayer"
)

var (
	day   = calendar.NewDate(2024, 3, 10)
	here  = astro.Location{Latitude: 51.5074, Longitude: -0.1278}
	near  = astro.Location{Latitude: 51.5274, Longitude: -0.1278} // ~2.2 km north
	far   = astro.Location{Latitude: 51.7520, Longitude: -1.2577} // Oxford
	isna  = mustMethod("isna")
	basis = Key{Date: day, Location: here, Method: prayer.MuslimWorldLeague}
)

func mustMethod(key string) prayer.Method {
	m, err := prayer.MethodByKey(key)
	if err != nil {
		panic(err)
	}
	return m
}

func TestDecide(t *testing.T) {
	tests := []struct {
		name string
		cur  Key
		want Kind
	}{
		{"unchanged", basis, None},
		{"small move", Key{Date: day, Location: near, Method: basis.Method}, None},
		{"next day", Key{Date: day.AddDays(1), Location: basis.Location, Method: basis.Method}, DateRoll},
		{"next day after small move", Key{Date: day.AddDays(1), Location: near, Method: basis.Method}, DateRoll},
		{"two days later", Key{Date: day.AddDays(2), Location: here, Method: basis.Method}, Full},
		{"clock went back", Key{Date: day.AddDays(-1), Location: here, Method: basis.Method}, Full},
		{"moved beyond threshold", Key{Date: day, Location: far, Method: basis.Method}, Full},
		{"next day and moved", Key{Date: day.AddDays(1), Location: far, Method: basis.Method}, Full},
		{"method changed", Key{Date: day, Location: here, Method: isna}, Full},
		{"school changed", Key{Date: day, Location: here, Method: basis.Method.WithSchool(prayer.Hanafi)}, Full},
		{"rule changed", Key{Date: day.AddDays(1), Location: here, Method: basis.Method.WithHighLatRule(prayer.HighLatOneSeventh)}, Full},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Decide(basis, tt.cur, DefaultThreshold)
			if got.Kind != tt.want {
				t.Errorf("Decide = %s (%s), want %s", got.Kind, got.Reason, tt.want)
			}
			if got.Recompute() != (tt.want != None) {
				t.Errorf("Recompute() = %v for %s", got.Recompute(), got.Kind)
			}
		})
	}
}

func TestDecide_Threshold(t *testing.T) {
	cur := Key{Date: day, Location: near, Method: basis.Method}

	if d := Decide(basis, cur, 1); d.Kind != Full {
		t.Errorf("2 km move with a 1 km threshold = %s, want full", d.Kind)
	}
	if d := Decide(basis, cur, 10); d.Kind != None {
		t.Errorf("2 km move with a 10 km threshold = %s, want none", d.Kind)
	}
	if d := Decide(basis, cur, 10); d.Moved < 2 || d.Moved > 2.5 {
		t.Errorf("Moved = %.2f km, want about 2.2", d.Moved)
	}
}

func TestKindString(t *testing.T) {
	for k, want := range map[Kind]string{None: "none", DateRoll: "date-roll", Full: "full", Kind(9): "Kind(9)"} {
		if got := k.String(); got != want {
			t.Errorf("Kind(%d).String() = %q, want %q", int(k), got, want)
		}
	}
}
