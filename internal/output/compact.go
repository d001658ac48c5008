package output

import (
	"fmt"
	"io"
	"strings"

	"github.com/twiced-technology-gmbh/gradwatch/internal/schedule"
	"github.com/twiced-technology-gmbh/gradwatch/internal/timeline"
)

// SnapshotCompact renders the status in a few plain lines.
func SnapshotCompact(w io.Writer, s Status) {
	snap := s.Snapshot
	fmt.Fprintf(w, "%s to graduation | %s\n", FormatRemaining(snap.Countdown), snap.Overall.PercentLabel())
	MilestoneCompact(w, snap)
}

// MilestoneCompact renders one line per milestone.
func MilestoneCompact(w io.Writer, snap timeline.Snapshot) {
	for _, ms := range snap.Milestones {
		fmt.Fprintln(w, milestoneLine(ms, ms.Milestone.ID == snap.ActiveID))
	}
}

// CountdownCompact renders a countdown on one line.
func CountdownCompact(w io.Writer, c Countdown) {
	fmt.Fprintf(w, "%s: %s (%s)\n", c.Label, FormatRemaining(c.Remaining), FormatTotals(c.Totals))
}

// ScheduleCompact renders one line per upcoming game.
func ScheduleCompact(w io.Writer, s Schedule) {
	if s.Next != nil && s.Countdown != nil {
		fmt.Fprintf(w, "next: %s in %s\n", s.Next.OpponentLabel(), FormatRemaining(*s.Countdown))
	}
	if len(s.Upcoming) == 0 {
		fmt.Fprintln(w, schedule.SeasonCompleteList)
		return
	}
	for _, g := range s.Upcoming {
		fmt.Fprintf(w, "%s %s [%s]\n", g.Day(s.Location), g.Matchup(s.Short), g.Meta(s.Location))
	}
}

func milestoneLine(ms timeline.MilestoneState, active bool) string {
	var b strings.Builder
	if active {
		b.WriteString("* ")
	} else {
		b.WriteString("  ")
	}
	b.WriteString(ms.Milestone.ID)
	b.WriteString(" [" + string(ms.State.Status) + "] ")
	b.WriteString(ms.Milestone.Label)
	b.WriteString(" (" + timeline.CountLabel(ms.State) + ")")
	return b.String()
}

// MilestoneDetailCompact renders one milestone with its dates and detail.
func MilestoneDetailCompact(w io.Writer, ms timeline.MilestoneState, active bool) {
	fmt.Fprintln(w, milestoneLine(ms, active))
	fmt.Fprintf(w, "  %s | %s\n", timeline.FormatRange(ms.Milestone), timeline.DetailLabel(ms.State))
}
