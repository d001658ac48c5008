package timeline

import (
	"math"
	"time"
)

// msPerDay is the day length used for all day counts.
const msPerDay int64 = 86_400_000

// Status is the lifecycle state of a milestone relative to a reference instant.
type Status string

// Milestone lifecycle states. A milestone only ever moves forward through
// them as the reference instant advances.
const (
	StatusUpcoming Status = "upcoming"
	StatusActive   Status = "active"
	StatusComplete Status = "complete"
)

// State is the derived state of one milestone at a reference instant.
//
// PercentComplete is meaningful when active or complete, DaysUntilStart only
// when upcoming. DaysRemaining counts days until the milestone ends; it is 0
// once complete.
type State struct {
	Status          Status    `json:"status"`
	PercentComplete int       `json:"percent_complete"`
	DaysUntilStart  int       `json:"days_until_start"`
	DaysRemaining   int       `json:"days_remaining"`
	Start           time.Time `json:"start,omitzero"`
	End             time.Time `json:"end,omitzero"`
}

// Evaluate computes the lifecycle state of m at now.
//
// The start bound is inclusive and the end bound exclusive: a milestone is
// active at exactly its start and complete at exactly its end. A milestone
// without a span evaluates to upcoming with all counts zero.
func Evaluate(m Milestone, now time.Time) State {
	start, end, ok := m.Bounds()
	if !ok {
		return State{Status: StatusUpcoming}
	}

	st := State{Start: start, End: end}

	switch {
	case now.Before(start):
		st.Status = StatusUpcoming
		st.DaysUntilStart = max(0, DaysUntil(start, now))
		st.DaysRemaining = max(0, DaysUntil(end, now))
	case !now.Before(end):
		st.Status = StatusComplete
		st.PercentComplete = 100
	default:
		total := end.UnixMilli() - start.UnixMilli()
		elapsed := now.UnixMilli() - start.UnixMilli()
		st.Status = StatusActive
		st.PercentComplete = percentOf(elapsed, total)
		st.DaysRemaining = max(0, DaysUntil(end, now))
	}

	return st
}

// DaysUntil returns the number of days from ref until t, rounded up. Any
// positive remainder counts as a whole day, so one millisecond left is one
// day. The result is negative when t is more than a day before ref.
func DaysUntil(t, ref time.Time) int {
	return int(ceilDiv(t.UnixMilli()-ref.UnixMilli(), msPerDay))
}

// ceilDiv divides a by a positive b, rounding toward positive infinity.
func ceilDiv(a, b int64) int64 {
	q := a / b
	if a%b != 0 && a > 0 {
		q++
	}
	return q
}

// percentOf returns part/total as a whole percentage clamped to [0, 100].
// A non-positive total yields 0.
func percentOf(part, total int64) int {
	if total <= 0 {
		return 0
	}
	p := int(math.Round(float64(part) / float64(total) * 100)) //nolint:mnd // percent
	return min(100, max(0, p))                                 //nolint:mnd // percent
}
