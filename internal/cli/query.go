package cli

import (
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/smokyabdulrahman/salah/internal/display"
	"github.com/smokyabdulrahman/salah/internal/prayer"
)

var flagQueryDays string

func newQueryCmd() *cobra.Command {
	valid := make([]string, len(prayer.AllNames))
	for i, n := range prayer.AllNames {
		valid[i] = n.String()
	}

	cmd := &cobra.Command{
		Use:   "query <prayer>",
		Short: "Query a specific prayer time",
		Long:  "Query a specific prayer time for today, or across multiple days with --days.\n\nValid prayer names: " + strings.Join(valid, ", "),
		Args:  cobra.ExactArgs(1),
		RunE:  runQuery,
	}

	cmd.Flags().StringVar(&flagQueryDays, "days", "", "Number of days to show (or 'week'/'month')")

	return cmd
}

// parseQueryDays accepts a positive count, "week" or "month".
func parseQueryDays(s string) (int, error) {
	switch s {
	case "":
		return 1, nil
	case "week":
		return 7, nil
	case "month":
		return 30, nil
	}
	n, err := parseDays(s)
	if err != nil {
		return 0, fmt.Errorf("invalid --days value %q: must be a positive integer, 'week', or 'month'", s)
	}
	return n, nil
}

func runQuery(cmd *cobra.Command, args []string) error {
	name, err := prayer.ParseName(args[0])
	if err != nil {
		return err
	}
	n, err := parseQueryDays(flagQueryDays)
	if err != nil {
		return err
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
		return printQueryJSON(out, s, name, days)
	}

	if n == 1 {
		lp := days[0].Prayers[name]
		if !lp.Resolved() {
			fmt.Fprintf(out, "%s %s (%s)\n", name, prayer.Placeholder, errReason(lp.Err))
			return nil
		}
		fmt.Fprintf(out, "%s %s\n", name, s.cell(lp))
		return nil
	}

	fmt.Fprintln(out)
	fmt.Fprintf(out, "  %s\n", display.Bold(fmt.Sprintf("%s Times, %d Days", name, n)))
	fmt.Fprintln(out)
	fmt.Fprintf(out, "  %s\n", s.locationLabel())
	fmt.Fprintln(out)

	tbl := display.NewTable([]string{"Date", name.String()})
	for i, d := range days {
		tbl.AddRow([]string{d.Date.Format("Mon 02 Jan"), s.cell(d.Prayers[name])})
		if sameDay(s.now, d.Date, s.zone) {
			tbl.SetHighlightRow(i)
		}
	}
	addNotes(tbl, days, []prayer.Name{name})

	fmt.Fprint(out, tbl.Render())
	fmt.Fprintln(out)
	return nil
}

type queryJSON struct {
	Location locationJSON   `json:"location"`
	Prayer   string         `json:"prayer"`
	Days     []queryJSONDay `json:"days"`
}

type queryJSONDay struct {
	Date     string `json:"date"`
	Hijri    string `json:"hijri"`
	Time     string `json:"time"`
	Adjusted bool   `json:"adjusted,omitempty"`
	Error    string `json:"error,omitempty"`
}

func printQueryJSON(w io.Writer, s *session, name prayer.Name, days []localDay) error {
	out := queryJSON{Location: s.locationJSON(), Prayer: strings.ToLower(name.String())}
	for _, d := range days {
		lp := d.Prayers[name]
		day := queryJSONDay{
			Date:     d.Date.String(),
			Hijri:    s.hijri(d.Date),
			Time:     s.plain(lp),
			Adjusted: lp.Adjusted,
		}
		if !lp.Resolved() {
			day.Error = errReason(lp.Err)
		}
		out.Days = append(out.Days, day)
	}
	return writeJSON(w, out)
}
