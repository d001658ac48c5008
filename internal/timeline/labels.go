package timeline

import (
	"fmt"
	"time"

	"github.com/dustin/go-humanize"
)

// DateLayout is the long date format used in all labels.
const DateLayout = "January 2, 2006"

// FormatDate renders t in the long date format, in t's own location.
func FormatDate(t time.Time) string {
	return t.Format(DateLayout)
}

// FormatRange renders a milestone's dates: "TBD" without a span, a single
// date for a point or a zero-length range, otherwise "start – end".
func FormatRange(m Milestone) string {
	start, end, ok := m.Bounds()
	if !ok {
		return "TBD"
	}
	if start.Equal(end) {
		return FormatDate(start)
	}
	return FormatDate(start) + " – " + FormatDate(end)
}

// FormatStart renders a milestone's start date, or "TBD".
func FormatStart(m Milestone) string {
	start, _, ok := m.Bounds()
	if !ok {
		return "TBD"
	}
	return FormatDate(start)
}

// StatusLabel is the short node label for a milestone's state.
func StatusLabel(m Milestone, st State) string {
	switch st.Status {
	case StatusActive:
		return "In progress"
	case StatusComplete:
		return "Complete"
	default:
		if m.UpcomingLabel != "" {
			return m.UpcomingLabel
		}
		return "Up next"
	}
}

// CountLabel is the compact figure shown on a milestone node.
func CountLabel(st State) string {
	switch st.Status {
	case StatusActive:
		return fmt.Sprintf("%d%%", st.PercentComplete)
	case StatusComplete:
		return "Done"
	default:
		return humanize.Comma(int64(st.DaysUntilStart)) + "d"
	}
}

// DetailLabel is the sentence shown under a milestone's progress bar.
func DetailLabel(st State) string {
	switch st.Status {
	case StatusActive:
		return fmt.Sprintf("%d%% complete • %s days left",
			st.PercentComplete, humanize.Comma(int64(st.DaysRemaining)))
	case StatusComplete:
		return "Wrapped on " + FormatDate(st.End)
	default:
		return "Starts in " + humanize.Comma(int64(st.DaysUntilStart)) + " days"
	}
}

// BarPercent is the fill of a milestone's progress bar.
func BarPercent(st State) int {
	switch st.Status {
	case StatusActive:
		return st.PercentComplete
	case StatusComplete:
		return 100
	default:
		return 0
	}
}

// PercentLabel is the overall percentage label, replaced by "Mission
// Complete" once the window is finished.
func (o Overall) PercentLabel() string {
	if o.MissionComplete() {
		return "Mission Complete"
	}
	return fmt.Sprintf("%d%%", o.Percent)
}

// MetaLabel is the sentence under the overall progress bar. defaultMeta is
// shown during the window and completeMeta after the final target.
func (o Overall) MetaLabel(progressStart time.Time, defaultMeta, completeMeta string) string {
	switch {
	case o.Complete:
		return completeMeta
	case o.Preseason && o.DaysUntilStart > 0:
		return fmt.Sprintf("%s days until the progress window opens on %s.",
			humanize.Comma(int64(o.DaysUntilStart)), FormatDate(progressStart))
	case o.Preseason:
		return "Progress window opens today — tracking begins now!"
	default:
		return defaultMeta
	}
}
