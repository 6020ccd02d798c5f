package cli

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/smokyabdulrahman/salah/internal/display"
	"github.com/smokyabdulrahman/salah/internal/schedule"
)

var flagLead time.Duration

func newPlanCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "plan",
		Short: "List the upcoming notification triggers",
		Long: "Print every trigger between now and the end of tomorrow: one at each prayer, plus a reminder\n" +
			"--lead before it when a lead is set. Trigger IDs are stable across runs, so a notifier\n" +
			"can schedule the JSON output and skip IDs it already holds.",
		Args: cobra.NoArgs,
		RunE: runPlan,
	}

	cmd.Flags().DurationVar(&flagLead, "lead", 0, "Reminder lead time, e.g. 10m (overrides config reminder_lead)")

	return cmd
}

func runPlan(cmd *cobra.Command, args []string) error {
	s, err := newSession(cmd)
	if err != nil {
		return err
	}

	lead, err := s.cfg.Lead()
	if err != nil {
		return fmt.Errorf("invalid reminder_lead: %w", err)
	}
	if cmd.Flags().Changed("lead") {
		lead = flagLead
	}

	plan, err := s.eng.Plan(s.now, s.zone, s.loc, s.method,
		schedule.WithPrayers(s.names...),
		schedule.WithReminder(lead),
	)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	if FlagJSON {
		return printPlanJSON(out, s, plan)
	}

	fmt.Fprintln(out)
	fmt.Fprintf(out, "  %s\n", display.Bold("Notification Plan"))
	fmt.Fprintln(out)
	fmt.Fprintf(out, "  %s\n", s.locationLabel())
	fmt.Fprintf(out, "  %s\n", display.Dim(fmt.Sprintf("%s, reminder lead %s", s.method.Key, lead)))
	fmt.Fprintln(out)

	tbl := display.NewTable([]string{"Fires", "Prayer", "Kind", "Prayer time"})
	for _, t := range plan.Triggers {
		at := t.At.In(s.zone)
		prayerTime := t.PrayerTime.In(s.zone).Format(s.layout)
		if t.Adjusted {
			prayerTime += display.Warn("*")
		}
		tbl.AddRow([]string{at.Format("Mon " + s.layout), t.Prayer.String(), t.Kind.String(), prayerTime})
	}
	if tbl.Len() == 0 {
		tbl.AddNote("no prayers left today or tomorrow")
	}
	for _, t := range plan.Triggers {
		if t.Adjusted {
			tbl.AddNote(noteAdjusted)
			break
		}
	}

	fmt.Fprint(out, tbl.Render())
	fmt.Fprintln(out)
	return nil
}

type planJSON struct {
	Location locationJSON  `json:"location"`
	Method   string        `json:"method"`
	Date     string        `json:"date"`
	BuiltAt  string        `json:"built_at"`
	Lead     string        `json:"lead"`
	Triggers []triggerJSON `json:"triggers"`
}

type triggerJSON struct {
	ID         string `json:"id"`
	Prayer     string `json:"prayer"`
	Kind       string `json:"kind"`
	At         string `json:"at"`
	PrayerTime string `json:"prayer_time"`
	Adjusted   bool   `json:"adjusted,omitempty"`
}

func printPlanJSON(w io.Writer, s *session, plan schedule.Plan) error {
	out := planJSON{
		Location: s.locationJSON(),
		Method:   s.method.Key,
		Date:     plan.Key.Date.String(),
		BuiltAt:  plan.BuiltAt.UTC().Format(time.RFC3339),
		Lead:     plan.Lead.String(),
		Triggers: []triggerJSON{},
	}
	for _, t := range plan.Triggers {
		out.Triggers = append(out.Triggers, triggerJSON{
			ID:         t.ID.String(),
			Prayer:     strings.ToLower(t.Prayer.String()),
			Kind:       t.Kind.String(),
			At:         t.At.UTC().Format(time.RFC3339),
			PrayerTime: t.PrayerTime.UTC().Format(time.RFC3339),
			Adjusted:   t.Adjusted,
		})
	}
	return writeJSON(w, out)
}
