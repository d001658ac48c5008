package timeline

import (
	"errors"
	"fmt"
	"time"
)

// ErrUnknownMilestone is returned when selecting an id the timeline does not hold.
var ErrUnknownMilestone = errors.New("unknown milestone")

// Timeline is the immutable set of milestones plus the two global anchors:
// the overall progress start and the final target (graduation).
//
// Milestones are kept in the order given, which must already be
// chronological; no sorting is done.
type Timeline struct {
	milestones    []Milestone
	progressStart time.Time
	final         time.Time
}

// New creates a Timeline. The milestones slice is copied.
func New(milestones []Milestone, progressStart, final time.Time) *Timeline {
	return &Timeline{
		milestones:    append([]Milestone(nil), milestones...),
		progressStart: progressStart,
		final:         final,
	}
}

// Milestones returns a copy of the milestones in chronological order.
func (t *Timeline) Milestones() []Milestone {
	return append([]Milestone(nil), t.milestones...)
}

// Len returns the number of milestones.
func (t *Timeline) Len() int { return len(t.milestones) }

// Milestone returns the milestone with the given id.
func (t *Timeline) Milestone(id string) (Milestone, bool) {
	for _, m := range t.milestones {
		if m.ID == id {
			return m, true
		}
	}
	return Milestone{}, false
}

// Index returns the position of the milestone with the given id, or -1.
func (t *Timeline) Index(id string) int {
	for i, m := range t.milestones {
		if m.ID == id {
			return i
		}
	}
	return -1
}

// Order returns milestone ids in chronological order.
func (t *Timeline) Order() []string {
	ids := make([]string, len(t.milestones))
	for i, m := range t.milestones {
		ids[i] = m.ID
	}
	return ids
}

// ProgressStart returns the overall progress start anchor.
func (t *Timeline) ProgressStart() time.Time { return t.progressStart }

// Final returns the terminal instant the root countdown counts down to.
func (t *Timeline) Final() time.Time { return t.final }

// Start returns the start of the first milestone. With no milestones it
// falls back to the progress start anchor.
func (t *Timeline) Start() time.Time {
	if len(t.milestones) > 0 {
		if start, _, ok := t.milestones[0].Bounds(); ok {
			return start
		}
	}
	return t.progressStart
}

// End returns the end of the last milestone. With no milestones it falls
// back to the final target.
func (t *Timeline) End() time.Time {
	if n := len(t.milestones); n > 0 {
		if _, end, ok := t.milestones[n-1].Bounds(); ok {
			return end
		}
	}
	return t.final
}

// Terminal reports whether now has reached the final target. No further
// re-evaluation is needed after that.
func (t *Timeline) Terminal(now time.Time) bool {
	return !now.Before(t.final)
}

// Select validates id and pins it on sel.
func (t *Timeline) Select(sel *Selection, id string) error {
	if t.Index(id) < 0 {
		return fmt.Errorf("%w: %q", ErrUnknownMilestone, id)
	}
	sel.Set(id)
	return nil
}

// MilestoneState pairs a milestone with its state at a reference instant.
type MilestoneState struct {
	Milestone Milestone
	State     State
}

// Snapshot is the full evaluation of the timeline at one instant.
type Snapshot struct {
	Now        time.Time
	Milestones []MilestoneState
	ActiveID   string
	Overall    Overall
	Track      float64
	Countdown  Remaining
	Totals     Totals
}

// Active returns the highlighted milestone and its state.
func (s Snapshot) Active() (MilestoneState, bool) {
	for _, ms := range s.Milestones {
		if ms.Milestone.ID == s.ActiveID {
			return ms, true
		}
	}
	return MilestoneState{}, false
}

// Terminal reports whether the snapshot was taken at or after the final target.
func (s Snapshot) Terminal() bool {
	return s.Countdown.Reached
}

// Snapshot evaluates every milestone at now, picks the active milestone
// (honoring sel when it holds a pin), and computes overall progress, the
// track ratio and the countdown to the final target. sel may be nil.
func (t *Timeline) Snapshot(now time.Time, sel *Selection) Snapshot {
	states := make(map[string]State, len(t.milestones))
	views := make([]MilestoneState, len(t.milestones))
	for i, m := range t.milestones {
		st := Evaluate(m, now)
		states[m.ID] = st
		views[i] = MilestoneState{Milestone: m, State: st}
	}

	override, _ := sel.ID()
	activeID, _ := SelectActive(states, override, t.Order())

	return Snapshot{
		Now:        now,
		Milestones: views,
		ActiveID:   activeID,
		Overall:    ComputeOverallProgress(t.progressStart, t.End(), t.final, now),
		Track:      TrackRatio(t.Start(), t.End(), now),
		Countdown:  Countdown(t.final, now),
		Totals:     CountTotals(t.final, now),
	}
}
