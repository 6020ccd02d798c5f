package cli

import (
	"fmt"
	"io"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/smokyabdulrahman/salah/internal/display"
)

// maxDays bounds list and query ranges.
const maxDays = 366

func newListCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list [days]",
		Short: "Show prayer times for multiple days",
		Long:  "Display a grid of prayer times for N days (default: 7).",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runList(cmd, args, 7)
		},
	}
}

func newWeekCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "week",
		Short: "Show prayer times for the next 7 days",
		Long:  "Alias for 'list 7'. Display a grid of prayer times for 7 days.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runList(cmd, nil, 7)
		},
	}
}

func newMonthCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "month",
		Short: "Show prayer times for the next 30 days",
		Long:  "Alias for 'list 30'. Display a grid of prayer times for 30 days.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runList(cmd, nil, 30)
		},
	}
}

// parseDays parses a positive day count.
func parseDays(s string) (int, error) {
	n, err := strconv.Atoi(s)
	if err != nil || n < 1 || n > maxDays {
		return 0, fmt.Errorf("invalid number of days: %q (must be between 1 and %d)", s, maxDays)
	}
	return n, nil
}

// runList is the handler for the list, week and month subcommands.
func runList(cmd *cobra.Command, args []string, defaultDays int) error {
	n := defaultDays
	if len(args) > 0 {
		var err error
		if n, err = parseDays(args[0]); err != nil {
			return err
		}
	}

	s, err := newSession(cmd)
	if err != nil {
		return err
	}
	days, err := s.days(n)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	if FlagJSON {
		return printListJSON(out, s, days)
	}

	fmt.Fprintln(out)
	fmt.Fprintf(out, "  %s\n", display.Bold(fmt.Sprintf("Prayer Times, %d Days", n)))
	fmt.Fprintln(out)
	fmt.Fprintf(out, "  %s\n", s.locationLabel())
	fmt.Fprintf(out, "  %s\n", display.Dim(s.method.String()))
	fmt.Fprintln(out)

	headers := []string{"Date", "Hijri"}
	for _, name := range s.names {
		headers = append(headers, name.String())
	}
	tbl := display.NewTable(headers)

	for i, d := range days {
		row := []string{d.Date.Format("Mon 02 Jan"), s.hijriDay(d.Date)}
		for _, name := range s.names {
			row = append(row, s.cell(d.Prayers[name]))
		}
		tbl.AddRow(row)

		// Highlight today's row.
		if sameDay(s.now, d.Date, s.zone) {
			tbl.SetHighlightRow(i)
		}
	}
	addNotes(tbl, days, s.names)

	fmt.Fprint(out, tbl.Render())
	fmt.Fprintln(out)
	return nil
}

// listJSONOutput is the JSON structure for the list command.
type listJSONOutput struct {
	Location locationJSON  `json:"location"`
	Method   string        `json:"method"`
	Days     []listJSONDay `json:"days"`
}

type listJSONDay struct {
	Date       string            `json:"date"`
	Hijri      string            `json:"hijri"`
	Timings    map[string]string `json:"timings"`
	Adjusted   []string          `json:"adjusted,omitempty"`
	Unresolved map[string]string `json:"unresolved,omitempty"`
}

func printListJSON(w io.Writer, s *session, days []localDay) error {
	out := listJSONOutput{Location: s.locationJSON(), Method: s.method.Key}
	for _, d := range days {
		timings, adjusted, unresolved := s.timingsJSON(d, s.names)
		out.Days = append(out.Days, listJSONDay{
			Date:       d.Date.String(),
			Hijri:      s.hijri(d.Date),
			Timings:    timings,
			Adjusted:   adjusted,
			Unresolved: unresolved,
		})
	}
	return writeJSON(w, out)
}
