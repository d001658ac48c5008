// Package timeline computes milestone lifecycle state, active-milestone
// selection, overall progress and countdowns for a fixed set of configured
// milestones. Every function is a pure function of its inputs and the
// reference instant passed in; nothing here reads the wall clock.
package timeline

import "time"

// Span is the time extent of a milestone: either a Ranged interval or a
// PointInTime. A nil Span marks a milestone with no resolvable dates.
type Span interface {
	// Bounds returns the inclusive start and exclusive end of the span.
	Bounds() (start, end time.Time)
	isSpan()
}

// Ranged is a milestone that runs from Start until End.
type Ranged struct {
	Start time.Time
	End   time.Time
}

// Bounds implements Span.
func (r Ranged) Bounds() (start, end time.Time) { return r.Start, r.End }

func (Ranged) isSpan() {}

// PointInTime is a milestone that happens at a single instant. It is a
// zero-length interval: upcoming before At, complete from At onward.
type PointInTime struct {
	At time.Time
}

// Bounds implements Span.
func (p PointInTime) Bounds() (start, end time.Time) { return p.At, p.At }

func (PointInTime) isSpan() {}

// Milestone is one configured stage of the timeline. Milestones are built
// once from configuration and never mutated.
type Milestone struct {
	ID    string
	Label string
	Title string
	Blurb string

	// UpcomingLabel replaces the default "Up next" node label while the
	// milestone has not started yet. Empty means the default.
	UpcomingLabel string

	Span Span
}

// Bounds resolves the milestone's start and end. ok is false when the
// milestone has no span.
func (m Milestone) Bounds() (start, end time.Time, ok bool) {
	switch s := m.Span.(type) {
	case Ranged:
		return s.Start, s.End, true
	case PointInTime:
		return s.At, s.At, true
	default:
		return time.Time{}, time.Time{}, false
	}
}

// IsPoint reports whether the milestone is a single instant.
func (m Milestone) IsPoint() bool {
	_, ok := m.Span.(PointInTime)
	return ok
}
