package cmd

import (
	"github.com/spf13/cobra"

	"github.com/twiced-technology-gmbh/gradwatch/internal/output"
	"github.com/twiced-technology-gmbh/gradwatch/internal/timeline"
)

var countdownCmd = &cobra.Command{
	Use:   "countdown [TARGET]",
	Short: "Show days, hours, minutes and seconds until graduation or TARGET",
	Args:  cobra.MaximumNArgs(1),
	RunE:  runCountdown,
}

func init() {
	countdownCmd.Flags().String("at", "", "count from this instant instead of now (YYYY-MM-DD or RFC 3339)")
	rootCmd.AddCommand(countdownCmd)
}

func runCountdown(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	now, err := referenceTime(cmd, cfg)
	if err != nil {
		return err
	}

	c := output.Countdown{Label: "Graduation", Target: cfg.GraduationTime()}
	if len(args) == 1 {
		if c.Target, err = parseInstant(args[0], cfg); err != nil {
			return err
		}
		c.Label = "Until " + timeline.FormatDate(c.Target)
	}
	c.Remaining = timeline.Countdown(c.Target, now)
	c.Totals = timeline.CountTotals(c.Target, now)

	w := cmd.OutOrStdout()
	switch outputFormat() {
	case output.FormatJSON:
		return output.JSON(w, c)
	case output.FormatCompact:
		output.CountdownCompact(w, c)
	default:
		output.CountdownTable(w, c)
	}
	return nil
}
