package cli

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/smokyabdulrahman/salah/internal/config"
	"github.com/smokyabdulrahman/salah/internal/display"
	"github.com/smokyabdulrahman/salah/internal/prayer"
)

func newConfigCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Show or modify configuration",
		Long: "Display current configuration, or use subcommands to modify it.\n" +
			"When run without subcommands, shows the current configuration.\n\n" +
			"Every key can also be set with a " + config.EnvPrefix + "<KEY> environment variable,\n" +
			"or in a .env file next to the config file.",
		RunE: runConfigShow,
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "set <key> <value>",
		Short: "Set a config value",
		Long: fmt.Sprintf("Set a configuration value. Valid keys: %s\n\nExamples:\n  prayer-times config set latitude 21.4225\n  prayer-times config set longitude 39.8262\n  prayer-times config set timezone Asia/Riyadh\n  prayer-times config set method makkah\n  prayer-times config set high_lat_rule angle\n  prayer-times config set time_format 12h\n  prayer-times config set prayers Fajr,Dhuhr,Asr,Maghrib,Isha\n  prayer-times config set reminder_lead 10m",
			strings.Join(config.ValidKeys, ", ")),
		Args: cobra.ExactArgs(2),
		RunE: runConfigSet,
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "reset",
		Short: "Reset config to defaults",
		Long:  "Delete the config file and restore all settings to defaults.",
		RunE:  runConfigReset,
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "path",
		Short: "Print config file path",
		RunE:  runConfigPath,
	})

	return cmd
}

// runConfigShow displays the current configuration, environment included.
func runConfigShow(cmd *cobra.Command, args []string) error {
	path, err := config.Path()
	if err != nil {
		return err
	}

	cfg := loadedConfig
	if cfg == nil {
		if cfg, err = config.Load(); err != nil {
			return err
		}
	}

	out := cmd.OutOrStdout()
	if FlagJSON {
		return writeJSON(out, cfg)
	}

	fmt.Fprintf(out, "  Configuration (%s)\n\n", path)

	defaults := config.Defaults()
	for _, key := range config.ValidKeys {
		val, _ := cfg.Get(key)
		shown := val
		switch {
		case val == "":
			if def, _ := defaults.Get(key); def != "" {
				shown = display.Dim(def + " (default)")
			} else {
				shown = display.Dim("(not set)")
			}
		case key == "method":
			shown = formatMethodValue(val)
		}
		fmt.Fprintf(out, "  %-17s %s\n", key, shown)
	}
	return nil
}

// runConfigSet sets a config key to the given value. Only the file is
// written; environment overrides are left out of it.
func runConfigSet(cmd *cobra.Command, args []string) error {
	key, value := args[0], args[1]

	path, err := config.Path()
	if err != nil {
		return err
	}
	cfg, err := config.LoadFrom(path)
	if err != nil {
		return err
	}

	if err := cfg.Set(key, value); err != nil {
		return err
	}

	if err := cfg.SaveTo(path); err != nil {
		return err
	}

	stored, _ := cfg.Get(key)
	fmt.Fprintf(cmd.OutOrStdout(), "Set %s = %s\n", key, stored)
	return nil
}

// runConfigReset deletes the config file.
func runConfigReset(cmd *cobra.Command, args []string) error {
	if err := config.Reset(); err != nil {
		return err
	}
	fmt.Fprintln(cmd.OutOrStdout(), "Configuration reset to defaults.")
	return nil
}

// runConfigPath prints the config file path.
func runConfigPath(cmd *cobra.Command, args []string) error {
	path, err := config.Path()
	if err != nil {
		return err
	}
	fmt.Fprintln(cmd.OutOrStdout(), path)
	return nil
}

// formatMethodValue adds the method name to the stored key.
func formatMethodValue(val string) string {
	m, err := prayer.MethodByKey(val)
	if err != nil {
		return val
	}
	return fmt.Sprintf("%s (%s)", val, m.Name)
}

func newMethodsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "methods",
		Short: "List all calculation methods",
		Long:  "Print the table of all supported calculation methods and their twilight angles.",
		Args:  cobra.NoArgs,
		RunE:  runMethods,
	}
}

func runMethods(cmd *cobra.Command, args []string) error {
	out := cmd.OutOrStdout()
	if FlagJSON {
		return writeJSON(out, methodsJSON())
	}

	fmt.Fprintln(out, "Supported calculation methods:")
	fmt.Fprintln(out)

	tbl := display.NewTable([]string{"ID", "Key", "Fajr", "Isha", "Name"})
	tbl.AlignRight(0)
	tbl.AlignRight(2)
	for _, m := range prayer.Methods {
		tbl.AddRow([]string{strconv.Itoa(m.ID), m.Key, formatAngle(m.FajrAngle), ishaRule(m), m.Name})
	}
	fmt.Fprint(out, tbl.Render())

	fmt.Fprintln(out)
	fmt.Fprintln(out, "Use --method <key> or --method <ID> to select a calculation method.")
	fmt.Fprintf(out, "If omitted, %s is used.\n", prayer.MuslimWorldLeague.Name)
	return nil
}

func formatAngle(a float64) string {
	return strconv.FormatFloat(a, 'f', -1, 64) + "°"
}

// ishaRule describes how a method places Isha.
func ishaRule(m prayer.Method) string {
	if m.IshaInterval > 0 {
		return fmt.Sprintf("%d min", int(m.IshaInterval.Minutes()))
	}
	return formatAngle(m.IshaAngle)
}

type methodJSON struct {
	ID           int     `json:"id"`
	Key          string  `json:"key"`
	Name         string  `json:"name"`
	FajrAngle    float64 `json:"fajr_angle"`
	IshaAngle    float64 `json:"isha_angle,omitempty"`
	IshaMinutes  int     `json:"isha_minutes,omitempty"`
	MaghribAngle float64 `json:"maghrib_angle,omitempty"`
}

func methodsJSON() []methodJSON {
	out := make([]methodJSON, 0, len(prayer.Methods))
	for _, m := range prayer.Methods {
		out = append(out, methodJSON{
			ID:           m.ID,
			Key:          m.Key,
			Name:         m.Name,
			FajrAngle:    m.FajrAngle,
			IshaAngle:    m.IshaAngle,
			IshaMinutes:  int(m.IshaInterval.Minutes()),
			MaghribAngle: m.MaghribAngle,
		})
	}
	return out
}
