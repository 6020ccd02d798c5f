package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/smokyabdulrahman/salah/internal/display"
	"github.com/smokyabdulrahman/salah/internal/geo"
)

func newQiblaCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "qibla",
		Short: "Show the direction of the Kaaba",
		Long:  "Print the great-circle bearing from true north and the distance to the Kaaba in Mecca.",
		Args:  cobra.NoArgs,
		RunE:  runQibla,
	}
}

func runQibla(cmd *cobra.Command, args []string) error {
	cfg, err := effectiveConfig(cmd)
	if err != nil {
		return err
	}
	loc, ok := cfg.Location()
	if !ok {
		return errNoLocation
	}
	if err := loc.Validate(); err != nil {
		return err
	}

	dir := geo.Qibla(loc)
	out := cmd.OutOrStdout()
	if FlagJSON {
		return writeJSON(out, dir)
	}

	fmt.Fprintf(out, "  %s %s\n", display.Bold("Qibla"), display.Accent(fmt.Sprintf("%.1f° %s", dir.Bearing, dir.Compass)))
	fmt.Fprintf(out, "  %s\n", display.Dim(fmt.Sprintf("%.0f km to the Kaaba from %s", dir.Distance, loc.String())))
	return nil
}
