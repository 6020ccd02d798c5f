// Package config provides persistent configuration for the prayer-times CLI.
//
// Configuration is stored as JSON at ~/.config/prayer-times/config.json
// (XDG-compliant). Any key can also be set through a PRAYER_TIMES_<KEY>
// environment variable or a .env file next to the config file. The merge
// priority is: CLI flags > environment > config file > defaults.
package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"

	"github.com/smokyabdulrahman/salah/internal/astro"
	"github.com/smokyabdulrahman/salah/internal/calendar"
	"github.com/smokyabdulrahman/salah/internal/prayer"
)

const (
	configDirName  = "prayer-times"
	configFileName = "config.json"
	envFileName    = ".env"

	// EnvPrefix starts every environment override, e.g. PRAYER_TIMES_METHOD.
	EnvPrefix = "PRAYER_TIMES_"
)

// ValidKeys lists all config keys that can be set via `config set`.
var ValidKeys = []string{
	"latitude", "longitude", "elevation",
	"timezone",
	"method", "school", "high_lat_rule",
	"time_format",
	"prayers",
	"hijri_adjustment",
	"reminder_lead",
}

// Config holds all user-configurable settings.
// Zero values mean "not set" (use defaults).
type Config struct {
	Latitude        *float64 `json:"latitude,omitempty"` // pointer so the equator can be set
	Longitude       *float64 `json:"longitude,omitempty"`
	Elevation       float64  `json:"elevation,omitempty"`
	Timezone        string   `json:"timezone,omitempty"` // IANA name; empty means the host zone
	Method          string   `json:"method,omitempty"`   // preset key, e.g. "mwl"
	School          string   `json:"school,omitempty"`   // "shafi" or "hanafi"
	HighLatRule     string   `json:"high_lat_rule,omitempty"`
	TimeFormat      string   `json:"time_format,omitempty"` // "12h" or "24h"
	Prayers         string   `json:"prayers,omitempty"`     // comma-separated list
	HijriAdjustment int      `json:"hijri_adjustment,omitempty"`
	ReminderLead    string   `json:"reminder_lead,omitempty"` // Go duration, e.g. "10m"
}

// Defaults returns a Config with all default values applied.
func Defaults() Config {
	return Config{
		Method:       prayer.MuslimWorldLeague.Key,
		School:       "shafi",
		HighLatRule:  prayer.HighLatNone.String(),
		TimeFormat:   "24h",
		ReminderLead: "0s",
	}
}

// Dir returns the config directory path.
// It respects $XDG_CONFIG_HOME if set, otherwise uses ~/.config/.
func Dir() (string, error) {
	dir := os.Getenv("XDG_CONFIG_HOME")
	if dir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("cannot determine home directory: %w", err)
		}
		dir = filepath.Join(home, ".config")
	}
	return filepath.Join(dir, configDirName), nil
}

// Path returns the full path to the config file.
func Path() (string, error) {
	dir, err := Dir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, configFileName), nil
}

// EnvPath returns the path of the optional .env file.
func EnvPath() (string, error) {
	dir, err := Dir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, envFileName), nil
}

// Load reads the config file and applies environment overrides.
// A missing config file is not an error.
func Load() (*Config, error) {
	path, err := Path()
	if err != nil {
		return nil, err
	}
	cfg, err := LoadFrom(path)
	if err != nil {
		return nil, err
	}

	envPath, err := EnvPath()
	if err != nil {
		return nil, err
	}
	if err := cfg.ApplyEnv(envPath); err != nil {
		return nil, err
	}
	return cfg, nil
}

// LoadFrom reads the config from a specific file path.
// If the file does not exist, it returns an empty Config.
func LoadFrom(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return &Config{}, nil
		}
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	var cfg Config
	if err := json.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("invalid config file %s: %w", path, err)
	}
	return &cfg, nil
}

// ApplyEnv overrides keys from PRAYER_TIMES_<KEY> variables. Values in the
// .env file at envPath are used for variables the process leaves empty;
// a missing file is ignored.
func (c *Config) ApplyEnv(envPath string) error {
	fileVars := map[string]string{}
	if envPath != "" {
		vars, err := godotenv.Read(envPath)
		switch {
		case err == nil:
			fileVars = vars
		case !errors.Is(err, os.ErrNotExist):
			return fmt.Errorf("failed to read env file %s: %w", envPath, err)
		}
	}

	for _, key := range ValidKeys {
		name := EnvName(key)
		value := os.Getenv(name)
		if value == "" {
			value = fileVars[name]
		}
		if value == "" {
			continue
		}
		if err := c.Set(key, value); err != nil {
			return fmt.Errorf("%s: %w", name, err)
		}
	}
	return nil
}

// EnvName returns the environment variable that overrides key.
func EnvName(key string) string {
	return EnvPrefix + strings.ToUpper(key)
}

// Save writes the config to disk, creating the directory if needed.
func (c *Config) Save() error {
	path, err := Path()
	if err != nil {
		return err
	}
	return c.SaveTo(path)
}

// SaveTo writes the config to a specific file path.
func (c *Config) SaveTo(path string) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("cannot create config directory %s: %w", dir, err)
	}

	data, err := json.MarshalIndent(c, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}
	data = append(data, '\n')

	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}
	return nil
}

// Reset deletes the config file.
func Reset() error {
	path, err := Path()
	if err != nil {
		return err
	}
	return ResetAt(path)
}

// ResetAt deletes the config file at a specific path.
func ResetAt(path string) error {
	err := os.Remove(path)
	if err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("failed to delete config file: %w", err)
	}
	return nil
}

// Set sets a config key to the given value.
// It validates the key name and parses the value into the correct type.
func (c *Config) Set(key, value string) error {
	value = strings.TrimSpace(value)
	switch key {
	case "latitude":
		v, err := parseCoordinate("latitude", value, 90)
		if err != nil {
			return err
		}
		c.Latitude = &v
	case "longitude":
		v, err := parseCoordinate("longitude", value, 180)
		if err != nil {
			return err
		}
		c.Longitude = &v
	case "elevation":
		v, err := strconv.ParseFloat(value, 64)
		if err != nil {
			return fmt.Errorf("invalid elevation %q: must be a number of metres", value)
		}
		if err := (astro.Location{Elevation: v}).Validate(); err != nil {
			return fmt.Errorf("invalid elevation %q: %w", value, err)
		}
		c.Elevation = v
	case "timezone":
		if _, err := calendar.LoadZone(value); err != nil {
			return err
		}
		c.Timezone = value
	case "method":
		m, err := prayer.MethodByKey(value)
		if err != nil {
			return fmt.Errorf("invalid method %q: see `prayer-times methods`", value)
		}
		c.Method = m.Key
	case "school":
		s, err := prayer.ParseSchool(value)
		if err != nil {
			return err
		}
		c.School = strings.ToLower(s.String())
	case "high_lat_rule":
		r, err := prayer.ParseHighLatRule(value)
		if err != nil {
			return err
		}
		c.HighLatRule = r.String()
	case "time_format":
		if value != "12h" && value != "24h" {
			return fmt.Errorf("invalid time_format %q: must be \"12h\" or \"24h\"", value)
		}
		c.TimeFormat = value
	case "prayers":
		if _, err := prayer.ParseNames(value); err != nil {
			return fmt.Errorf("invalid prayers list: %w", err)
		}
		c.Prayers = value
	case "hijri_adjustment":
		v, err := strconv.Atoi(value)
		if err != nil || v < -2 || v > 2 {
			return fmt.Errorf("invalid hijri_adjustment %q: must be an integer between -2 and 2", value)
		}
		c.HijriAdjustment = v
	case "reminder_lead":
		d, err := time.ParseDuration(value)
		if err != nil || d < 0 {
			return fmt.Errorf("invalid reminder_lead %q: must be a duration like \"10m\"", value)
		}
		c.ReminderLead = d.String()
	default:
		return fmt.Errorf("unknown config key %q; valid keys: %s", key, strings.Join(ValidKeys, ", "))
	}
	return nil
}

func parseCoordinate(name, value string, limit float64) (float64, error) {
	v, err := strconv.ParseFloat(value, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid %s %q: must be a number", name, value)
	}
	if v < -limit || v > limit {
		return 0, fmt.Errorf("invalid %s %q: must be between %g and %g", name, value, -limit, limit)
	}
	return v, nil
}

// Get returns the string value of a config key.
func (c *Config) Get(key string) (string, error) {
	switch key {
	case "latitude":
		return formatFloatPtr(c.Latitude), nil
	case "longitude":
		return formatFloatPtr(c.Longitude), nil
	case "elevation":
		if c.Elevation == 0 {
			return "", nil
		}
		return strconv.FormatFloat(c.Elevation, 'f', -1, 64), nil
	case "timezone":
		return c.Timezone, nil
	case "method":
		return c.Method, nil
	case "school":
		return c.School, nil
	case "high_lat_rule":
		return c.HighLatRule, nil
	case "time_format":
		return c.TimeFormat, nil
	case "prayers":
		return c.Prayers, nil
	case "hijri_adjustment":
		if c.HijriAdjustment == 0 {
			return "", nil
		}
		return strconv.Itoa(c.HijriAdjustment), nil
	case "reminder_lead":
		return c.ReminderLead, nil
	default:
		return "", fmt.Errorf("unknown config key %q", key)
	}
}

func formatFloatPtr(v *float64) string {
	if v == nil {
		return ""
	}
	return strconv.FormatFloat(*v, 'f', -1, 64)
}

// Location returns the configured observer. ok is false until both
// latitude and longitude are set.
func (c *Config) Location() (loc astro.Location, ok bool) {
	if c.Latitude == nil || c.Longitude == nil {
		return astro.Location{}, false
	}
	return astro.Location{Latitude: *c.Latitude, Longitude: *c.Longitude, Elevation: c.Elevation}, true
}

// CalculationMethod resolves the method preset with the configured school
// and high-latitude rule applied.
func (c *Config) CalculationMethod() (prayer.Method, error) {
	def := Defaults()
	m, err := prayer.MethodByKey(orDefault(c.Method, def.Method))
	if err != nil {
		return prayer.Method{}, err
	}
	school, err := prayer.ParseSchool(orDefault(c.School, def.School))
	if err != nil {
		return prayer.Method{}, err
	}
	rule, err := prayer.ParseHighLatRule(orDefault(c.HighLatRule, def.HighLatRule))
	if err != nil {
		return prayer.Method{}, err
	}
	return m.WithSchool(school).WithHighLatRule(rule), nil
}

// Zone loads the configured timezone.
func (c *Config) Zone() (*time.Location, error) {
	return calendar.LoadZone(c.Timezone)
}

// PrayerNames returns the selected prayers, or prayer.DefaultNames.
func (c *Config) PrayerNames() ([]prayer.Name, error) {
	if c.Prayers == "" {
		return prayer.DefaultNames, nil
	}
	return prayer.ParseNames(c.Prayers)
}

// Lead returns the reminder lead time.
func (c *Config) Lead() (time.Duration, error) {
	return time.ParseDuration(orDefault(c.ReminderLead, Defaults().ReminderLead))
}

// TimeLayout returns the Go time layout for the configured format.
func (c *Config) TimeLayout() string {
	if c.TimeFormat == "12h" {
		return "3:04 PM"
	}
	return "15:04"
}

func orDefault(v, def string) string {
	if v == "" {
		return def
	}
	return v
}
