package cli

import (
	"errors"
	"fmt"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/smokyabdulrahman/salah/internal/astro"
	"github.com/smokyabdulrahman/salah/internal/calendar"
	"github.com/smokyabdulrahman/salah/internal/config"
	"github.com/smokyabdulrahman/salah/internal/display"
	"github.com/smokyabdulrahman/salah/internal/engine"
	"github.com/smokyabdulrahman/salah/internal/log"
	"github.com/smokyabdulrahman/salah/internal/prayer"
)

// Global flags shared across all subcommands.
var (
	FlagLatitude   float64
	FlagLongitude  float64
	FlagElevation  float64
	FlagTimezone   string
	FlagMethod     string
	FlagSchool     string
	FlagHighLat    string
	FlagDate       string
	FlagJSON       bool
	FlagTimeFormat string
	FlagDebug      bool
)

// loadedConfig holds the config loaded during PersistentPreRunE.
// Available to all subcommand handlers.
var loadedConfig *config.Config

// clock returns the current instant; tests pin it.
var clock = time.Now

// errNoLocation is returned when neither flags, environment nor the config
// file give a position.
var errNoLocation = errors.New("no location set: pass --latitude and --longitude, or run `prayer-times config set latitude <value>` and `prayer-times config set longitude <value>`")

// NewRootCmd creates the root command for the prayer-times CLI.
// The version parameter is set by the calling binary via ldflags.
func NewRootCmd(version string) *cobra.Command {
	rootCmd := &cobra.Command{
		Use:     "prayer-times",
		Short:   "Islamic prayer times CLI",
		Long:    "Compute Islamic prayer times offline from your coordinates, date and calculation method.",
		Version: version,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if err := log.Init(FlagDebug); err != nil {
				return err
			}
			if FlagJSON {
				display.SetEnabled(false)
			}

			cfg, err := config.Load()
			if err != nil {
				return fmt.Errorf("failed to load config: %w", err)
			}
			loadedConfig = cfg
			return nil
		},
		// Default action: show today's prayer schedule.
		RunE:          runToday,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	// Register global persistent flags.
	pf := rootCmd.PersistentFlags()
	pf.Float64Var(&FlagLatitude, "latitude", 0, "Override latitude (degrees, north positive)")
	pf.Float64Var(&FlagLongitude, "longitude", 0, "Override longitude (degrees, east positive)")
	pf.Float64Var(&FlagElevation, "elevation", 0, "Override elevation in metres")
	pf.StringVar(&FlagTimezone, "timezone", "", "IANA timezone for display, e.g. Europe/London (default: system zone)")
	pf.StringVar(&FlagMethod, "method", "", "Calculation method key or id, see `prayer-times methods`")
	pf.StringVar(&FlagSchool, "school", "", "Asr school: shafi or hanafi")
	pf.StringVar(&FlagHighLat, "high-lat", "", "High-latitude rule: none, angle, seventh or middle")
	pf.StringVar(&FlagDate, "date", "", "Compute for this date (YYYY-MM-DD) instead of today")
	pf.BoolVar(&FlagJSON, "json", false, "Output as JSON (where supported)")
	pf.StringVar(&FlagTimeFormat, "time-format", "", "Time format: 12h or 24h (overrides config)")
	pf.BoolVar(&FlagDebug, "debug", false, "Log calculation details to stderr")

	// Register subcommands.
	rootCmd.AddCommand(newNextCmd())
	rootCmd.AddCommand(newListCmd())
	rootCmd.AddCommand(newWeekCmd())
	rootCmd.AddCommand(newMonthCmd())
	rootCmd.AddCommand(newQueryCmd())
	rootCmd.AddCommand(newPlanCmd())
	rootCmd.AddCommand(newQiblaCmd())
	rootCmd.AddCommand(newConfigCmd())
	rootCmd.AddCommand(newMethodsCmd())

	return rootCmd
}

// flagKeys maps global flags to the config keys they override.
var flagKeys = []struct{ flag, key string }{
	{"latitude", "latitude"},
	{"longitude", "longitude"},
	{"elevation", "elevation"},
	{"timezone", "timezone"},
	{"method", "method"},
	{"school", "school"},
	{"high-lat", "high_lat_rule"},
	{"time-format", "time_format"},
}

// effectiveConfig returns the merged configuration values,
// applying the priority: CLI flags > environment > config file > defaults.
// Flag values go through config.Set, so they are validated the same way.
func effectiveConfig(cmd *cobra.Command) (*config.Config, error) {
	var cfg config.Config
	if loadedConfig != nil {
		cfg = *loadedConfig
	}

	flags := cmd.Flags()
	root := cmd.Root().PersistentFlags()

	for _, fk := range flagKeys {
		if !flagWasSet(flags, root, fk.flag) {
			continue
		}
		f := flags.Lookup(fk.flag)
		if f == nil {
			f = root.Lookup(fk.flag)
		}
		if err := cfg.Set(fk.key, f.Value.String()); err != nil {
			return nil, fmt.Errorf("--%s: %w", fk.flag, err)
		}
	}
	return &cfg, nil
}

// flagWasSet checks if a flag was explicitly set on either the local or persistent flag set.
func flagWasSet(local, persistent *pflag.FlagSet, name string) bool {
	if f := local.Lookup(name); f != nil && f.Changed {
		return true
	}
	if f := persistent.Lookup(name); f != nil && f.Changed {
		return true
	}
	return false
}

// session is everything a command needs to compute and print times.
type session struct {
	cfg    *config.Config
	loc    astro.Location
	method prayer.Method
	zone   *time.Location
	names  []prayer.Name
	layout string
	now    time.Time     // in zone
	date   calendar.Date // the day to show
	today  bool          // date is the local date of now
	eng    *engine.Engine
}

// newSession resolves the merged config into calculation inputs.
func newSession(cmd *cobra.Command) (*session, error) {
	cfg, err := effectiveConfig(cmd)
	if err != nil {
		return nil, err
	}

	loc, ok := cfg.Location()
	if !ok {
		return nil, errNoLocation
	}
	if err := loc.Validate(); err != nil {
		return nil, err
	}
	method, err := cfg.CalculationMethod()
	if err != nil {
		return nil, err
	}
	zone, err := cfg.Zone()
	if err != nil {
		return nil, err
	}
	names, err := cfg.PrayerNames()
	if err != nil {
		return nil, err
	}

	eng, err := engine.New(engine.WithLogger(log.GetSugaredLogger()))
	if err != nil {
		return nil, err
	}

	now := clock().In(zone)
	s := &session{
		cfg:    cfg,
		loc:    loc,
		method: method,
		zone:   zone,
		names:  names,
		layout: cfg.TimeLayout(),
		now:    now,
		date:   calendar.DateOf(now),
		today:  true,
		eng:    eng,
	}

	if flagWasSet(cmd.Flags(), cmd.Root().PersistentFlags(), "date") {
		d, err := calendar.ParseDate(FlagDate)
		if err != nil {
			return nil, fmt.Errorf("--date: %w", err)
		}
		s.today = d == s.date
		s.date = d
	}

	log.Debugw("session",
		"location", loc.String(),
		"elevation", loc.Elevation,
		"method", method.Key,
		"school", method.School.String(),
		"high_lat_rule", method.HighLatRule.String(),
		"zone", zone.String(),
		"date", s.date.String(),
	)
	return s, nil
}

// hijri returns the Hijri label for d with the configured adjustment.
func (s *session) hijri(d calendar.Date) string {
	return calendar.ToHijri(d, s.cfg.HijriAdjustment).Format()
}

// hijriDay returns the Hijri day and month of d, e.g. "01 Ramadan".
func (s *session) hijriDay(d calendar.Date) string {
	h := calendar.ToHijri(d, s.cfg.HijriAdjustment)
	return fmt.Sprintf("%02d %s", h.Day, h.MonthName())
}

// locationLabel returns "lat, lon (zone)".
func (s *session) locationLabel() string {
	return fmt.Sprintf("%s (%s)", s.loc.String(), s.zone.String())
}
