package timeline

import "time"

// Overall is the progress across the whole configured window, from the
// progress start anchor to the end of the milestone timeline.
type Overall struct {
	Percent int `json:"percent"`

	// Preseason is true while now is before the progress start anchor.
	// DaysUntilStart is only set in preseason.
	Preseason      bool `json:"preseason"`
	DaysUntilStart int  `json:"days_until_start"`

	// Complete is true once the final target instant has been reached. It
	// forces Percent to 100 regardless of the window ratio.
	Complete bool `json:"complete"`
}

// ComputeOverallProgress computes overall progress through [start, end] at
// now. final is the terminal instant (graduation), which may differ from end.
//
// A window with end <= start stays at 0%.
func ComputeOverallProgress(start, end, final, now time.Time) Overall {
	total := end.UnixMilli() - start.UnixMilli()

	var o Overall
	if now.Before(start) {
		o.Preseason = true
		o.Percent = percentOf(0, total)
		o.DaysUntilStart = max(0, DaysUntil(start, now))
	} else {
		elapsed := min(max(now.UnixMilli()-start.UnixMilli(), 0), max(total, 0))
		o.Percent = percentOf(elapsed, total)
	}

	if !now.Before(final) {
		o.Complete = true
		o.Percent = 100
	}
	return o
}

// MissionComplete reports whether the overall display should switch from a
// percentage to the completion banner.
func (o Overall) MissionComplete() bool {
	return o.Complete || (!o.Preseason && o.Percent >= 100)
}

// TrackRatio is the fraction of [start, end] elapsed at now, clamped to
// [0, 1]. A window with end <= start yields 0.
func TrackRatio(start, end, now time.Time) float64 {
	total := end.UnixMilli() - start.UnixMilli()
	if total <= 0 {
		return 0
	}
	elapsed := min(max(now.UnixMilli()-start.UnixMilli(), 0), total)
	return float64(elapsed) / float64(total)
}
