package cmd

import (
	"github.com/spf13/cobra"

	"github.com/twiced-technology-gmbh/gradwatch/internal/output"
)

var milestonesCmd = &cobra.Command{
	Use:     "milestones [ID]",
	Aliases: []string{"ms"},
	Short:   "List milestone states or show one milestone",
	Long: `Without an ID, lists every milestone with its status and dates. With an ID,
shows that milestone's progress and its blurb.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runMilestones,
}

func init() {
	milestonesCmd.Flags().String("at", "", "evaluate at this instant instead of now (YYYY-MM-DD or RFC 3339)")
	rootCmd.AddCommand(milestonesCmd)
}

func runMilestones(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	now, err := referenceTime(cmd, cfg)
	if err != nil {
		return err
	}

	tl := cfg.Timeline()
	snap := tl.Snapshot(now, nil)
	w := cmd.OutOrStdout()
	format := outputFormat()

	if len(args) == 0 {
		switch format {
		case output.FormatJSON:
			return output.JSON(w, output.MilestonesJSON(snap))
		case output.FormatCompact:
			output.MilestoneCompact(w, snap)
		default:
			output.MilestoneTable(w, snap)
		}
		return nil
	}

	id := args[0]
	i := tl.Index(id)
	if i < 0 {
		return milestoneNotFound(id, tl)
	}
	ms := snap.Milestones[i]
	active := id == snap.ActiveID

	switch format {
	case output.FormatJSON:
		return output.JSON(w, output.NewMilestoneJSON(ms, active))
	case output.FormatCompact:
		output.MilestoneDetailCompact(w, ms, active)
	default:
		output.MilestoneDetail(w, ms, active, terminalWidth())
	}
	return nil
}
