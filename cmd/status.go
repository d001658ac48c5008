package cmd

import (
	"context"
	"io"
	"time"

	"github.com/muesli/termenv"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/twiced-technology-gmbh/gradwatch/internal/clierr"
	"github.com/twiced-technology-gmbh/gradwatch/internal/clock"
	"github.com/twiced-technology-gmbh/gradwatch/internal/config"
	"github.com/twiced-technology-gmbh/gradwatch/internal/output"
	"github.com/twiced-technology-gmbh/gradwatch/internal/timeline"
)

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show the countdown, overall progress and milestone states",
	Long: `Evaluates the timeline once and prints the countdown to graduation, the
overall progress bar and every milestone's state. With --watch the snapshot is
re-rendered every second until graduation.`,
	Args: cobra.NoArgs,
	RunE: runStatus,
}

func init() {
	statusCmd.Flags().String("at", "", "evaluate at this instant instead of now (YYYY-MM-DD or RFC 3339)")
	statusCmd.Flags().String("milestone", "", "highlight this milestone instead of the derived one")
	statusCmd.Flags().Bool("watch", false, "re-render every second until graduation")
	rootCmd.AddCommand(statusCmd)
}

func runStatus(cmd *cobra.Command, _ []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	log := newLogger(cfg)
	defer func() { _ = log.Sync() }()

	tl := cfg.Timeline()
	var sel timeline.Selection
	if id, _ := cmd.Flags().GetString("milestone"); id != "" {
		if err := tl.Select(&sel, id); err != nil {
			return milestoneNotFound(id, tl)
		}
	}

	w := cmd.OutOrStdout()
	watch, _ := cmd.Flags().GetBool("watch")
	if !watch {
		now, err := referenceTime(cmd, cfg)
		if err != nil {
			return err
		}
		return renderStatus(w, cfg, tl.Snapshot(now, &sel))
	}

	if at, _ := cmd.Flags().GetString("at"); at != "" {
		return clierr.New(clierr.InvalidInput, "--watch cannot be combined with --at")
	}

	format := outputFormat()
	term := termenv.NewOutput(w)
	var renderErr error
	s := clock.NewScheduler(clock.DefaultInterval, appClock, func(now time.Time) bool {
		if format == output.FormatTable && isTerminal() {
			term.ClearScreen()
		}
		if renderErr = renderStatus(w, cfg, tl.Snapshot(now, &sel)); renderErr != nil {
			return true
		}
		return tl.Terminal(now)
	}, log)

	log.Debug("status watch started", zap.Time("graduation", tl.Final()))
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	if err := s.Run(ctx); err != nil {
		// Interrupted by the user; the last render stays on screen.
		return nil //nolint:nilerr // cancellation is a normal exit
	}
	return renderErr
}

func renderStatus(w io.Writer, cfg *config.Config, snap timeline.Snapshot) error {
	status := output.Status{
		Title:      cfg.Title,
		Graduation: cfg.GraduationTime(),
		Meta:       snap.Overall.MetaLabel(cfg.ProgressStartTime(), cfg.Meta.Default, cfg.Meta.Complete),
		Snapshot:   snap,
	}
	switch outputFormat() {
	case output.FormatJSON:
		return output.JSON(w, output.NewStatusJSON(status))
	case output.FormatCompact:
		output.SnapshotCompact(w, status)
	default:
		output.SnapshotTable(w, status)
	}
	return nil
}

func milestoneNotFound(id string, tl *timeline.Timeline) error {
	return clierr.Newf(clierr.MilestoneNotFound, "milestone %q not found", id).
		WithDetails(map[string]any{"id": id, "milestones": tl.Order()})
}
