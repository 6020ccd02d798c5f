package config

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/smokyabdulrahman/salah/internal/prayer"
)

// tempConfigPath returns a path to a config file inside a temp directory.
func tempConfigPath(t *testing.T) string {
	t.Helper()
	return filepath.Join(t.TempDir(), "config.json")
}

// clearEnv unsets every override so the host environment cannot leak in.
func clearEnv(t *testing.T) {
	t.Helper()
	for _, key := range ValidKeys {
		t.Setenv(EnvName(key), "")
	}
}

// --- Defaults ---

func TestDefaults(t *testing.T) {
	d := Defaults()

	if d.Method != "mwl" {
		t.Errorf("Defaults().Method = %q, want mwl", d.Method)
	}
	if d.School != "shafi" {
		t.Errorf("Defaults().School = %q, want shafi", d.School)
	}
	if d.HighLatRule != "none" {
		t.Errorf("Defaults().HighLatRule = %q, want none", d.HighLatRule)
	}
	if d.TimeFormat != "24h" {
		t.Errorf("Defaults().TimeFormat = %q, want 24h", d.TimeFormat)
	}
	if d.Latitude != nil || d.Longitude != nil {
		t.Error("Defaults() should not set a location")
	}
}

// --- Dir and Path with XDG ---

func TestDir_XDGConfigHome(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", "/tmp/xdg-test")

	dir, err := Dir()
	if err != nil {
		t.Fatalf("Dir() error: %v", err)
	}
	if want := filepath.Join("/tmp/xdg-test", "prayer-times"); dir != want {
		t.Errorf("Dir() = %q, want %q", dir, want)
	}
}

func TestDir_FallbackToHome(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", "")

	dir, err := Dir()
	if err != nil {
		t.Fatalf("Dir() error: %v", err)
	}
	home, _ := os.UserHomeDir()
	if want := filepath.Join(home, ".config", "prayer-times"); dir != want {
		t.Errorf("Dir() = %q, want %q", dir, want)
	}
}

func TestPaths_XDGConfigHome(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", "/tmp/xdg-test")

	p, err := Path()
	if err != nil {
		t.Fatalf("Path() error: %v", err)
	}
	if want := filepath.Join("/tmp/xdg-test", "prayer-times", "config.json"); p != want {
		t.Errorf("Path() = %q, want %q", p, want)
	}
	e, err := EnvPath()
	if err != nil {
		t.Fatalf("EnvPath() error: %v", err)
	}
	if want := filepath.Join("/tmp/xdg-test", "prayer-times", ".env"); e != want {
		t.Errorf("EnvPath() = %q, want %q", e, want)
	}
}

// --- LoadFrom / SaveTo ---

func TestLoadFrom_NonExistentFile(t *testing.T) {
	cfg, err := LoadFrom("/no/such/file.json")
	if err != nil {
		t.Fatalf("LoadFrom non-existent should not error, got: %v", err)
	}
	if cfg.Method != "" || cfg.Latitude != nil {
		t.Error("LoadFrom non-existent should return empty config")
	}
}

func TestLoadFrom_InvalidJSON(t *testing.T) {
	path := tempConfigPath(t)
	os.WriteFile(path, []byte("{not json"), 0o644)

	if _, err := LoadFrom(path); err == nil {
		t.Fatal("expected error for invalid JSON")
	}
}

func TestLoadFrom_EquatorIsSet(t *testing.T) {
	path := tempConfigPath(t)
	os.WriteFile(path, []byte(`{"latitude": 0, "longitude": 0}`), 0o644)

	cfg, err := LoadFrom(path)
	if err != nil {
		t.Fatal(err)
	}
	if _, ok := cfg.Location(); !ok {
		t.Error("latitude 0 / longitude 0 should count as a configured location")
	}
}

func TestSaveAndLoad_RoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "config.json")

	var orig Config
	for key, value := range map[string]string{
		"latitude":      "21.4225",
		"longitude":     "39.8262",
		"elevation":     "277",
		"timezone":      "Asia/Riyadh",
		"method":        "makkah",
		"school":        "hanafi",
		"high_lat_rule": "seventh",
		"time_format":   "12h",
		"prayers":       "Fajr,Maghrib",
		"reminder_lead": "15m",
	} {
		if err := orig.Set(key, value); err != nil {
			t.Fatalf("Set(%s): %v", key, err)
		}
	}
	if err := orig.SaveTo(path); err != nil {
		t.Fatalf("SaveTo: %v", err)
	}

	data, _ := os.ReadFile(path)
	if !strings.HasSuffix(string(data), "\n") {
		t.Error("saved config should end with a newline")
	}

	loaded, err := LoadFrom(path)
	if err != nil {
		t.Fatalf("LoadFrom: %v", err)
	}
	for _, key := range ValidKeys {
		want, _ := orig.Get(key)
		got, _ := loaded.Get(key)
		if got != want {
			t.Errorf("%s = %q after round trip, want %q", key, got, want)
		}
	}
}

func TestConfig_OmitEmpty_JSON(t *testing.T) {
	data, err := json.Marshal(Config{})
	if err != nil {
		t.Fatal(err)
	}
	if string(data) != "{}" {
		t.Errorf("empty config JSON = %s, want {}", data)
	}
}

func TestResetAt(t *testing.T) {
	path := tempConfigPath(t)
	os.WriteFile(path, []byte("{}"), 0o644)

	if err := ResetAt(path); err != nil {
		t.Fatalf("ResetAt: %v", err)
	}
	if _, err := os.Stat(path); !os.IsNotExist(err) {
		t.Error("config file still exists after ResetAt")
	}
	if err := ResetAt(path); err != nil {
		t.Errorf("ResetAt on a missing file: %v", err)
	}
}

// --- Set / Get ---

func TestSet(t *testing.T) {
	tests := []struct {
		key     string
		value   string
		want    string
		wantErr bool
	}{
		{"latitude", "51.5", "51.5", false},
		{"latitude", "-90", "-90", false},
		{"latitude", "91", "", true},
		{"latitude", "north", "", true},
		{"longitude", "-0.1278", "-0.1278", false},
		{"longitude", "181", "", true},
		{"elevation", "1200", "1200", false},
		{"elevation", "-900", "", true},
		{"timezone", "Europe/London", "Europe/London", false},
		{"timezone", "Mars/Olympus", "", true},
		{"method", "ISNA", "isna", false},
		{"method", "4", "makkah", false},
		{"method", "6", "", true},
		{"school", "1", "hanafi", false},
		{"school", "Shafii", "shafi", false},
		{"school", "maliki", "", true},
		{"high_lat_rule", "angle-based", "angle", false},
		{"high_lat_rule", "sometimes", "", true},
		{"time_format", "12h", "12h", false},
		{"time_format", "13h", "", true},
		{"prayers", "fajr, isha", "fajr, isha", false},
		{"prayers", "Fajr,Tahajjud", "", true},
		{"hijri_adjustment", "-1", "-1", false},
		{"hijri_adjustment", "3", "", true},
		{"reminder_lead", "90s", "1m30s", false},
		{"reminder_lead", "-5m", "", true},
		{"city", "London", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.key+"="+tt.value, func(t *testing.T) {
			var cfg Config
			err := cfg.Set(tt.key, tt.value)
			if tt.wantErr {
				if err == nil {
					t.Fatalf("Set(%q, %q) expected error", tt.key, tt.value)
				}
				return
			}
			if err != nil {
				t.Fatalf("Set(%q, %q): %v", tt.key, tt.value, err)
			}
			if got, _ := cfg.Get(tt.key); got != tt.want {
				t.Errorf("Get(%q) = %q, want %q", tt.key, got, tt.want)
			}
		})
	}
}

func TestGet_UnknownKey(t *testing.T) {
	var cfg Config
	if _, err := cfg.Get("cache_dir"); err == nil {
		t.Error("expected error for unknown key")
	}
}

func TestGet_EmptyConfig(t *testing.T) {
	var cfg Config
	for _, key := range ValidKeys {
		v, err := cfg.Get(key)
		if err != nil {
			t.Errorf("Get(%q): %v", key, err)
		}
		if v != "" {
			t.Errorf("Get(%q) on empty config = %q, want empty", key, v)
		}
	}
}

// --- Environment overrides ---

func TestApplyEnv_ProcessEnv(t *testing.T) {
	clearEnv(t)
	t.Setenv("PRAYER_TIMES_METHOD", "egypt")
	t.Setenv("PRAYER_TIMES_LATITUDE", "30.0444")

	cfg := Config{Method: "mwl"}
	if err := cfg.ApplyEnv(""); err != nil {
		t.Fatalf("ApplyEnv: %v", err)
	}
	if cfg.Method != "egypt" {
		t.Errorf("Method = %q, want egypt", cfg.Method)
	}
	if cfg.Latitude == nil || *cfg.Latitude != 30.0444 {
		t.Errorf("Latitude = %v, want 30.0444", cfg.Latitude)
	}
}

func TestApplyEnv_DotEnvFile(t *testing.T) {
	clearEnv(t)
	envPath := filepath.Join(t.TempDir(), ".env")
	os.WriteFile(envPath, []byte("PRAYER_TIMES_SCHOOL=hanafi\nPRAYER_TIMES_METHOD=karachi\n"), 0o644)
	t.Setenv("PRAYER_TIMES_METHOD", "isna")

	var cfg Config
	if err := cfg.ApplyEnv(envPath); err != nil {
		t.Fatalf("ApplyEnv: %v", err)
	}
	if cfg.School != "hanafi" {
		t.Errorf("School = %q, want hanafi from .env", cfg.School)
	}
	if cfg.Method != "isna" {
		t.Errorf("Method = %q, the process environment should win over .env", cfg.Method)
	}
}

func TestApplyEnv_MissingFileIgnored(t *testing.T) {
	clearEnv(t)
	var cfg Config
	if err := cfg.ApplyEnv(filepath.Join(t.TempDir(), "missing.env")); err != nil {
		t.Errorf("ApplyEnv with a missing file: %v", err)
	}
}

func TestApplyEnv_InvalidValue(t *testing.T) {
	clearEnv(t)
	t.Setenv("PRAYER_TIMES_TIME_FORMAT", "25h")

	var cfg Config
	err := cfg.ApplyEnv("")
	if err == nil || !strings.Contains(err.Error(), "PRAYER_TIMES_TIME_FORMAT") {
		t.Errorf("error = %v, want it to name the variable", err)
	}
}

func TestLoad_UsesXDGAndEnv(t *testing.T) {
	clearEnv(t)
	dir := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", dir)
	os.MkdirAll(filepath.Join(dir, "prayer-times"), 0o755)
	os.WriteFile(filepath.Join(dir, "prayer-times", "config.json"), []byte(`{"method":"isna","time_format":"12h"}`), 0o644)
	t.Setenv("PRAYER_TIMES_TIME_FORMAT", "24h")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Method != "isna" || cfg.TimeFormat != "24h" {
		t.Errorf("Load = method %q, time_format %q", cfg.Method, cfg.TimeFormat)
	}
}

// --- Resolution helpers ---

func TestCalculationMethod(t *testing.T) {
	var cfg Config
	m, err := cfg.CalculationMethod()
	if err != nil {
		t.Fatal(err)
	}
	if m != prayer.MuslimWorldLeague {
		t.Errorf("default method = %v, want MWL", m)
	}

	cfg = Config{Method: "isna", School: "hanafi", HighLatRule: "middle"}
	m, err = cfg.CalculationMethod()
	if err != nil {
		t.Fatal(err)
	}
	if m.ID != 2 || m.School != prayer.Hanafi || m.HighLatRule != prayer.HighLatMiddleOfNight {
		t.Errorf("method = %+v", m)
	}
}

func TestPrayerNamesAndLead(t *testing.T) {
	var cfg Config
	names, err := cfg.PrayerNames()
	if err != nil || len(names) != len(prayer.DefaultNames) {
		t.Errorf("default prayers = %v, %v", names, err)
	}
	lead, err := cfg.Lead()
	if err != nil || lead != 0 {
		t.Errorf("default lead = %v, %v", lead, err)
	}

	cfg = Config{Prayers: "Isha", ReminderLead: "10m"}
	names, _ = cfg.PrayerNames()
	if len(names) != 1 || names[0] != prayer.Isha {
		t.Errorf("prayers = %v, want [Isha]", names)
	}
	if lead, _ := cfg.Lead(); lead != 10*time.Minute {
		t.Errorf("lead = %v, want 10m", lead)
	}
}

func TestTimeLayout(t *testing.T) {
	if got := (&Config{TimeFormat: "12h"}).TimeLayout(); got != "3:04 PM" {
		t.Errorf("12h layout = %q", got)
	}
	if got := (&Config{}).TimeLayout(); got != "15:04" {
		t.Errorf("default layout = %q", got)
	}
}
