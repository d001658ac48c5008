package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/twiced-technology-gmbh/gradwatch/internal/output"
	"github.com/twiced-technology-gmbh/gradwatch/internal/schedule"
	"github.com/twiced-technology-gmbh/gradwatch/internal/timeline"
)

const (
	labelColumn  = 10
	nodeMinWidth = 18
	cardMaxWidth = 80
)

// --- Styles ---

var (
	titleStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("39"))

	countdownStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("230")).
			Background(lipgloss.Color("62")).
			Padding(0, 1)

	sectionStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("244"))

	nodeStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("240")).
			Padding(0, 1)

	activeNodeStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("226")).
			Padding(0, 1)

	cardStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("62")).
			Padding(0, 1)

	statusStyles = map[timeline.Status]lipgloss.Style{
		timeline.StatusUpcoming: lipgloss.NewStyle().Foreground(lipgloss.Color("252")),
		timeline.StatusActive:   lipgloss.NewStyle().Foreground(lipgloss.Color("33")),
		timeline.StatusComplete: lipgloss.NewStyle().Foreground(lipgloss.Color("34")),
	}

	homeStyle      = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("214"))
	statusBarStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("241"))
	flashStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("34"))
	errorStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("196")).Bold(true)
	dimStyle       = lipgloss.NewStyle().Foreground(lipgloss.Color("241"))
)

// --- View rendering ---

// View implements tea.Model.
func (d *Dashboard) View() string {
	if d.width == 0 {
		return "Loading..."
	}

	sections := []string{
		d.renderHeader(),
		d.renderOverall(),
		d.renderTrack(),
		d.renderNodes(),
		d.renderCard(),
	}
	if d.sched != nil {
		sections = append(sections, d.renderSchedule())
	}
	body := lipgloss.JoinVertical(lipgloss.Left, sections...)

	// Clamp from the bottom, keeping the countdown visible, and pad so the
	// status bar stays on the last line.
	if d.height > 0 {
		target := d.height - d.chromeHeight()
		actual := strings.Count(body, "\n") + 1
		if target > 0 && actual > target {
			body = strings.Join(strings.SplitN(body, "\n", target+1)[:target], "\n")
		} else if actual < target {
			body += strings.Repeat("\n", target-actual)
		}
	}

	return lipgloss.JoinVertical(lipgloss.Left, body, "", d.renderStatusBar())
}

// chromeHeight is the number of lines below the body: a blank line and the
// status bar, plus one when an error is shown.
func (d *Dashboard) chromeHeight() int {
	if d.err != nil {
		return 3 //nolint:mnd // blank + error + status
	}
	return 2 //nolint:mnd // blank + status
}

func (d *Dashboard) renderHeader() string {
	title := titleStyle.Render(d.cfg.Title) + "  " +
		dimStyle.Render("Graduation "+timeline.FormatDate(d.tl.Final()))

	countdown := "Graduated!"
	if !d.snap.Countdown.Reached {
		countdown = output.FormatRemaining(d.snap.Countdown)
	}
	return lipgloss.JoinVertical(lipgloss.Left,
		title,
		"",
		countdownStyle.Render(countdown)+"  "+dimStyle.Render(output.FormatTotals(d.snap.Totals)),
		"",
	)
}

func (d *Dashboard) renderOverall() string {
	o := d.snap.Overall
	line := field("Overall", d.overall.ViewAs(float64(o.Percent)/100)+" "+o.PercentLabel()) //nolint:mnd // percent scale
	meta := o.MetaLabel(d.tl.ProgressStart(), d.cfg.Meta.Default, d.cfg.Meta.Complete)
	return lipgloss.JoinVertical(lipgloss.Left, line, field("", dimStyle.Render(meta)), "")
}

// renderTrack draws the milestone track: a marker per milestone start and
// the current position.
func (d *Dashboard) renderTrack() string {
	width := d.overall.Width
	if width <= 0 {
		return ""
	}
	cells := []rune(strings.Repeat("─", width))
	start, end := d.tl.Start(), d.tl.End()
	span := end.Sub(start)
	pos := func(r float64) int {
		return min(max(int(r*float64(width-1)), 0), width-1)
	}
	if span > 0 {
		for _, m := range d.tl.Milestones() {
			if s, _, ok := m.Bounds(); ok {
				cells[pos(float64(s.Sub(start))/float64(span))] = '●'
			}
		}
	}
	cells[pos(d.snap.Track)] = '▲'
	return field("Track", string(cells)+" "+dimStyle.Render(output.FormatRatio(d.snap.Track)))
}

func (d *Dashboard) renderNodes() string {
	if len(d.snap.Milestones) == 0 {
		return dimStyle.Render("No milestones configured.")
	}
	n := len(d.snap.Milestones)
	w := max(nodeMinWidth, d.width/n-2) //nolint:mnd // border width
	nodes := make([]string, n)
	for i, ms := range d.snap.Milestones {
		style := nodeStyle
		if ms.Milestone.ID == d.snap.ActiveID {
			style = activeNodeStyle
		}
		content := lipgloss.JoinVertical(lipgloss.Left,
			fmt.Sprintf("%d %s", i+1, truncate(ms.Milestone.Label, w-6)), //nolint:mnd // index prefix + padding
			statusStyle(ms.State.Status).Render(timeline.StatusLabel(ms.Milestone, ms.State)),
			dimStyle.Render(timeline.CountLabel(ms.State)),
		)
		nodes[i] = style.Width(w - 2).Render(content) //nolint:mnd // border width
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, nodes...)
}

func (d *Dashboard) renderCard() string {
	ms, ok := d.snap.Active()
	if !ok {
		return ""
	}
	w := min(d.width, cardMaxWidth) - 4 //nolint:mnd // border + padding
	heading := ms.Milestone.Label
	if ms.Milestone.Title != "" {
		heading = ms.Milestone.Title
	}
	lines := []string{
		titleStyle.Render(heading),
		dimStyle.Render(timeline.FormatRange(ms.Milestone)),
		d.card.ViewAs(float64(timeline.BarPercent(ms.State))/100) + " " + timeline.CountLabel(ms.State), //nolint:mnd // percent scale
		timeline.DetailLabel(ms.State),
	}
	if ms.Milestone.Blurb != "" {
		lines = append(lines, "", output.Markdown(ms.Milestone.Blurb, w))
	}
	return cardStyle.Width(w + 2).Render(lipgloss.JoinVertical(lipgloss.Left, lines...)) //nolint:mnd // padding
}

func (d *Dashboard) renderSchedule() string {
	sc := d.cfg.Schedule
	team := sc.TeamName
	if team == "" {
		team = sc.Team
	}
	heading := sectionStyle.Render(team + " schedule")
	now := d.snap.Now
	loc := d.cfg.Location()

	switch {
	case !d.schedLoaded:
		return lipgloss.JoinVertical(lipgloss.Left, "", heading, dimStyle.Render("Loading schedule..."))
	case d.schedErr != nil && !d.schedResult.Stale && len(d.schedResult.Games) == 0:
		return lipgloss.JoinVertical(lipgloss.Left, "", heading,
			errorStyle.Render(schedule.UnavailableHeading),
			dimStyle.Render(schedule.UnavailableInfo),
			dimStyle.Render(schedule.LoadFailedList))
	}

	lines := []string{"", heading}
	if d.schedResult.Stale {
		lines = append(lines, dimStyle.Render(schedule.StaleHeading))
	}

	games := d.schedResult.Games
	if next, ok := schedule.Next(games, now); ok {
		lines = append(lines,
			field("Next", homeStyle.Render(next.OpponentLabel())),
			field("", next.Info(loc, sc.HomeVenue)))
		if b := next.BroadcastLabel(); b != "" {
			lines = append(lines, field("", dimStyle.Render(b)))
		}
		lines = append(lines, field("Puck drop", output.FormatRemaining(timeline.Countdown(next.Start, now))))
	} else {
		lines = append(lines,
			field("Next", schedule.SeasonCompleteHeading),
			field("", dimStyle.Render(schedule.SeasonCompleteInfo)))
	}

	upcoming := schedule.Upcoming(games, now, sc.Limit)
	if len(upcoming) == 0 {
		return lipgloss.JoinVertical(lipgloss.Left, append(lines, "", dimStyle.Render(schedule.SeasonCompleteList))...)
	}
	lines = append(lines, "")
	for _, g := range upcoming {
		matchup := g.Matchup(team)
		if g.IsHome {
			matchup = homeStyle.Render(matchup)
		}
		lines = append(lines, fmt.Sprintf("%-12s %s  %s", g.Day(loc), matchup, dimStyle.Render(g.Meta(loc))))
	}
	return lipgloss.JoinVertical(lipgloss.Left, lines...)
}

func (d *Dashboard) renderStatusBar() string {
	parts := make([]string, 0, len(d.keys.help()))
	for _, b := range d.keys.help() {
		h := b.Help()
		parts = append(parts, h.Key+":"+h.Desc)
	}
	parts = append(parts, "1-9:jump")
	status := statusBarStyle.Render(truncate(" "+strings.Join(parts, "  "), d.width))
	if d.flash != "" && d.clock.Now().Before(d.flashUntil) {
		status += "  " + flashStyle.Render(d.flash)
	}

	if d.err != nil {
		return errorStyle.Render(truncate("Error: "+d.err.Error(), d.width)) + "\n" + status
	}
	return status
}

func field(label, value string) string {
	return fmt.Sprintf("%-*s %s", labelColumn, label, value)
}

func statusStyle(s timeline.Status) lipgloss.Style {
	if style, ok := statusStyles[s]; ok {
		return style
	}
	return lipgloss.NewStyle()
}

func truncate(s string, maxLen int) string {
	if maxLen < 4 { //nolint:mnd // minimum length for truncation
		maxLen = 4
	}
	if lipgloss.Width(s) <= maxLen {
		return s
	}
	// Slice by runes to avoid breaking multi-byte UTF-8 characters.
	runes := []rune(s)
	target := min(maxLen-3, len(runes)) //nolint:mnd // room for "..."
	for target > 0 && lipgloss.Width(string(runes[:target])) > maxLen-3 {
		target--
	}
	return string(runes[:target]) + "..."
}
