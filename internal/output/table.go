package output

import (
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/dustin/go-humanize"

	"github.com/twiced-technology-gmbh/gradwatch/internal/schedule"
	"github.com/twiced-technology-gmbh/gradwatch/internal/timeline"
)

const (
	barWidth   = 24
	labelWidth = 11
)

var (
	titleStyle  = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("39"))
	headerStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("244"))
	dimStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("241"))
	activeStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("214"))
	fillStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("33"))

	statusStyles = map[timeline.Status]lipgloss.Style{
		timeline.StatusUpcoming: lipgloss.NewStyle().Foreground(lipgloss.Color("252")),
		timeline.StatusActive:   lipgloss.NewStyle().Foreground(lipgloss.Color("33")),
		timeline.StatusComplete: lipgloss.NewStyle().Foreground(lipgloss.Color("34")),
	}
)

// DisableColor strips all styling from table output and markdown.
func DisableColor() {
	titleStyle = lipgloss.NewStyle()
	headerStyle = lipgloss.NewStyle()
	dimStyle = lipgloss.NewStyle()
	activeStyle = lipgloss.NewStyle()
	fillStyle = lipgloss.NewStyle()
	statusStyles = map[timeline.Status]lipgloss.Style{}
	plainMarkdown()
}

// SnapshotTable renders the full status dashboard.
func SnapshotTable(w io.Writer, s Status) {
	snap := s.Snapshot
	fmt.Fprintln(w, titleStyle.Render(s.Title))
	fmt.Fprintln(w, dimStyle.Render("Graduation "+timeline.FormatDate(s.Graduation)))
	fmt.Fprintln(w)

	printField(w, "COUNTDOWN", FormatRemaining(snap.Countdown))
	printField(w, "TOTALS", FormatTotals(snap.Totals))
	printField(w, "PROGRESS", Bar(snap.Overall.Percent, barWidth)+" "+snap.Overall.PercentLabel())
	if s.Meta != "" {
		printField(w, "", dimStyle.Render(s.Meta))
	}
	printField(w, "TRACK", FormatRatio(snap.Track)+" of the milestone track")
	fmt.Fprintln(w)

	MilestoneTable(w, snap)
}

// MilestoneTable renders every milestone with its state; the active one is
// marked.
func MilestoneTable(w io.Writer, snap timeline.Snapshot) {
	const pad = 2
	idW, labelW, statusW, datesW := 2, 9, 6, 5
	for _, ms := range snap.Milestones {
		idW = max(idW, len(ms.Milestone.ID)+pad)
		labelW = max(labelW, lipgloss.Width(ms.Milestone.Label)+pad)
		statusW = max(statusW, lipgloss.Width(timeline.StatusLabel(ms.Milestone, ms.State))+pad)
		datesW = max(datesW, lipgloss.Width(timeline.FormatRange(ms.Milestone))+pad)
	}

	header := fmt.Sprintf("  %-*s %-*s %-*s %-*s %s",
		idW, "ID", labelW, "MILESTONE", statusW, "STATUS", datesW, "DATES", "DETAIL")
	fmt.Fprintln(w, headerStyle.Render(strings.TrimRight(header, " ")))

	for _, ms := range snap.Milestones {
		marker := "  "
		label := ms.Milestone.Label
		if ms.Milestone.ID == snap.ActiveID {
			marker = activeStyle.Render("▸ ")
			label = activeStyle.Render(label)
		}
		row := marker + padRight(ms.Milestone.ID, idW) + " " +
			padRight(label, labelW) + " " +
			padRight(styledStatus(ms.Milestone, ms.State), statusW) + " " +
			padRight(timeline.FormatRange(ms.Milestone), datesW) + " " +
			timeline.DetailLabel(ms.State)
		fmt.Fprintln(w, strings.TrimRight(row, " "))
	}
}

// MilestoneDetail renders a single milestone with its blurb as markdown.
func MilestoneDetail(w io.Writer, ms timeline.MilestoneState, active bool, width int) {
	heading := ms.Milestone.Label
	if ms.Milestone.Title != "" {
		heading = ms.Milestone.Title
	}
	fmt.Fprintln(w, titleStyle.Render(heading))
	fmt.Fprintln(w, strings.Repeat("─", lipgloss.Width(heading)))

	printField(w, "ID", ms.Milestone.ID)
	printField(w, "Label", ms.Milestone.Label)
	printField(w, "Status", styledStatus(ms.Milestone, ms.State))
	printField(w, "Dates", timeline.FormatRange(ms.Milestone))
	printField(w, "Progress", Bar(timeline.BarPercent(ms.State), barWidth)+" "+timeline.CountLabel(ms.State))
	printField(w, "Detail", timeline.DetailLabel(ms.State))
	if active {
		printField(w, "Active", activeStyle.Render("yes"))
	}

	if ms.Milestone.Blurb != "" {
		fmt.Fprintln(w)
		fmt.Fprintln(w, Markdown(ms.Milestone.Blurb, width))
	}
}

// CountdownTable renders a countdown with its totals.
func CountdownTable(w io.Writer, c Countdown) {
	fmt.Fprintln(w, titleStyle.Render(c.Label))
	fmt.Fprintln(w, dimStyle.Render(timeline.FormatDate(c.Target)))
	fmt.Fprintln(w)
	printField(w, "REMAINING", FormatRemaining(c.Remaining))
	printField(w, "DAYS", humanize.Comma(c.Totals.Days))
	printField(w, "HOURS", humanize.Comma(c.Totals.Hours))
	printField(w, "MINUTES", humanize.Comma(c.Totals.Minutes))
	printField(w, "SECONDS", humanize.Comma(c.Totals.Seconds))
	printField(w, "MONTHS", fmt.Sprintf("%.1f", c.Totals.Months))
	printField(w, "YEARS", fmt.Sprintf("%.2f", c.Totals.Years))
}

// ScheduleTable renders the next game and the upcoming list.
func ScheduleTable(w io.Writer, s Schedule) {
	fmt.Fprintln(w, titleStyle.Render(s.Team+" schedule "+dimStyle.Render("("+s.Season+")")))
	if s.Stale {
		fmt.Fprintln(w, dimStyle.Render(schedule.StaleHeading))
	}
	fmt.Fprintln(w)

	if s.Next == nil {
		printField(w, "NEXT", schedule.SeasonCompleteHeading)
		printField(w, "", dimStyle.Render(schedule.SeasonCompleteInfo))
	} else {
		printField(w, "NEXT", activeStyle.Render(s.Next.OpponentLabel()))
		printField(w, "", s.Next.Info(s.Location, s.HomeVenue))
		if b := s.Next.BroadcastLabel(); b != "" {
			printField(w, "", dimStyle.Render(b))
		}
		if s.Countdown != nil {
			printField(w, "PUCK DROP", FormatRemaining(*s.Countdown))
		}
	}
	fmt.Fprintln(w)

	if len(s.Upcoming) == 0 {
		fmt.Fprintln(w, dimStyle.Render(schedule.SeasonCompleteList))
		return
	}

	dayW, matchW := 4, 7
	for _, g := range s.Upcoming {
		dayW = max(dayW, lipgloss.Width(g.Day(s.Location))+2)
		matchW = max(matchW, lipgloss.Width(g.Matchup(s.Short))+2)
	}
	header := fmt.Sprintf("%-*s %-*s %s", dayW, "DATE", matchW, "MATCHUP", "DETAILS")
	fmt.Fprintln(w, headerStyle.Render(header))
	for _, g := range s.Upcoming {
		matchup := g.Matchup(s.Short)
		if g.IsHome {
			matchup = activeStyle.Render(matchup)
		}
		fmt.Fprintln(w, padRight(g.Day(s.Location), dayW)+" "+padRight(matchup, matchW)+" "+dimStyle.Render(g.Meta(s.Location)))
	}
}

// Messagef prints a simple formatted message line.
func Messagef(w io.Writer, format string, args ...interface{}) {
	fmt.Fprintf(w, format+"\n", args...)
}

// Bar renders a percent as a fixed-width bar.
func Bar(percent, width int) string {
	percent = min(max(percent, 0), 100) //nolint:mnd // percent bounds
	filled := percent * width / 100     //nolint:mnd // percent scale
	return fillStyle.Render(strings.Repeat("█", filled)) + dimStyle.Render(strings.Repeat("░", width-filled))
}

// FormatRemaining renders "Nd HHh MMm SSs".
func FormatRemaining(r timeline.Remaining) string {
	return fmt.Sprintf("%sd %02dh %02dm %02ds", humanize.Comma(int64(r.Days)), r.Hours, r.Minutes, r.Seconds)
}

// FormatTotals renders the totals on one line.
func FormatTotals(t timeline.Totals) string {
	return fmt.Sprintf("%s days • %.1f months • %.2f years • %s hours",
		humanize.Comma(t.Days), t.Months, t.Years, humanize.Comma(t.Hours))
}

// FormatRatio renders a [0,1] ratio as a percentage with one decimal.
func FormatRatio(r float64) string {
	return fmt.Sprintf("%.1f%%", r*100) //nolint:mnd // percent scale
}

func printField(w io.Writer, label, value string) {
	fmt.Fprintf(w, "%-*s %s\n", labelWidth, label, value)
}

func styledStatus(m timeline.Milestone, st timeline.State) string {
	label := timeline.StatusLabel(m, st)
	if style, ok := statusStyles[st.Status]; ok {
		return style.Render(label)
	}
	return label
}

// padRight pads s with spaces to the given visible width, accounting for ANSI
// escape codes that are invisible but consume bytes.
func padRight(s string, width int) string {
	visible := lipgloss.Width(s)
	if visible >= width {
		return s
	}
	return s + strings.Repeat(" ", width-visible)
}
