package cli

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/smokyabdulrahman/salah/internal/prayer"
	"github.com/smokyabdulrahman/salah/internal/schedule"
)

var (
	flagFormat  string
	flagPrayers string
)

func newNextCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "next",
		Short: "Show the next prayer with countdown",
		Long:  "Display the next upcoming prayer time with a countdown.\nThe output is a single line, suitable for a status bar such as tmux.",
		RunE:  runNext,
	}

	cmd.Flags().StringVar(&flagFormat, "format", prayer.FormatFull, "Display format: "+strings.Join(prayer.FormatModes, ", ")+", or a custom Go template")
	cmd.Flags().StringVar(&flagPrayers, "prayers", "", "Comma-separated list of prayers to track (overrides config)")

	return cmd
}

func runNext(cmd *cobra.Command, args []string) error {
	s, err := newSession(cmd)
	if err != nil {
		return err
	}

	// Priority: --prayers flag > config > defaults.
	names := s.names
	if cmd.Flags().Changed("prayers") && flagPrayers != "" {
		names, err = prayer.ParseNames(flagPrayers)
		if err != nil {
			return fmt.Errorf("--prayers: %w", err)
		}
	}

	plan, err := s.eng.Plan(s.now, s.zone, s.loc, s.method, schedule.WithPrayers(names...))
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	next, err := schedule.NextPrayer(plan, s.now)
	if errors.Is(err, schedule.ErrNoUpcoming) {
		// Nothing resolvable today or tomorrow, e.g. polar night with no
		// rule. A status bar still wants a line.
		if FlagJSON {
			return writeJSON(out, struct {
				Next *nextJSON `json:"next"`
			}{})
		}
		fmt.Fprint(out, prayer.Placeholder)
		return nil
	}
	if err != nil {
		return err
	}

	if FlagJSON {
		return writeJSON(out, nextJSON{
			Prayer:    strings.ToLower(next.Name.String()),
			Time:      next.Time.Format(s.layout),
			Remaining: prayer.FormatRemaining(prayer.TimeRemaining(next, s.now)),
			Adjusted:  next.Adjusted,
		})
	}

	fmt.Fprint(out, prayer.FormatOutput(next, s.now, flagFormat, s.layout))
	return nil
}
