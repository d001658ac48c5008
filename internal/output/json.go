package output

import (
	"encoding/json"
	"fmt"
	"io"
	"time"

	"github.com/twiced-technology-gmbh/gradwatch/internal/schedule"
	"github.com/twiced-technology-gmbh/gradwatch/internal/timeline"
)

// JSON writes data as indented JSON to the given writer.
func JSON(w io.Writer, data interface{}) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(data); err != nil {
		return fmt.Errorf("encoding JSON: %w", err)
	}
	return nil
}

// ErrorResponse is the JSON envelope for structured error output.
type ErrorResponse struct {
	Error   string         `json:"error"`
	Code    string         `json:"code"`
	Details map[string]any `json:"details,omitempty"`
}

// JSONError writes a structured error to the given writer as JSON.
func JSONError(w io.Writer, code, msg string, details map[string]any) {
	resp := ErrorResponse{Error: msg, Code: code, Details: details}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	_ = enc.Encode(resp) // best-effort; if writer fails, nothing we can do
}

// Status is the input of the status renderers.
type Status struct {
	Title      string
	Graduation time.Time
	Meta       string
	Snapshot   timeline.Snapshot
}

// MilestoneJSON is one milestone with its evaluated state.
type MilestoneJSON struct {
	ID          string         `json:"id"`
	Label       string         `json:"label"`
	Title       string         `json:"title,omitempty"`
	Range       string         `json:"range"`
	Point       bool           `json:"point,omitempty"`
	Active      bool           `json:"active"`
	StatusLabel string         `json:"status_label"`
	Detail      string         `json:"detail"`
	Blurb       string         `json:"blurb,omitempty"`
	State       timeline.State `json:"state"`
}

// StatusJSON is the JSON shape of the status command.
type StatusJSON struct {
	Title        string             `json:"title"`
	Now          time.Time          `json:"now"`
	Graduation   time.Time          `json:"graduation"`
	Terminal     bool               `json:"terminal"`
	Countdown    timeline.Remaining `json:"countdown"`
	Totals       timeline.Totals    `json:"totals"`
	Overall      timeline.Overall   `json:"overall"`
	PercentLabel string             `json:"percent_label"`
	Meta         string             `json:"meta"`
	Track        float64            `json:"track"`
	ActiveID     string             `json:"active_id"`
	Milestones   []MilestoneJSON    `json:"milestones"`
}

// NewStatusJSON flattens s for JSON output.
func NewStatusJSON(s Status) StatusJSON {
	snap := s.Snapshot
	return StatusJSON{
		Title:        s.Title,
		Now:          snap.Now,
		Graduation:   s.Graduation,
		Terminal:     snap.Terminal(),
		Countdown:    snap.Countdown,
		Totals:       snap.Totals,
		Overall:      snap.Overall,
		PercentLabel: snap.Overall.PercentLabel(),
		Meta:         s.Meta,
		Track:        snap.Track,
		ActiveID:     snap.ActiveID,
		Milestones:   MilestonesJSON(snap),
	}
}

// MilestonesJSON returns every milestone of snap in timeline order.
func MilestonesJSON(snap timeline.Snapshot) []MilestoneJSON {
	out := make([]MilestoneJSON, len(snap.Milestones))
	for i, ms := range snap.Milestones {
		out[i] = NewMilestoneJSON(ms, ms.Milestone.ID == snap.ActiveID)
	}
	return out
}

// NewMilestoneJSON builds the JSON view of one milestone.
func NewMilestoneJSON(ms timeline.MilestoneState, active bool) MilestoneJSON {
	return MilestoneJSON{
		ID:          ms.Milestone.ID,
		Label:       ms.Milestone.Label,
		Title:       ms.Milestone.Title,
		Range:       timeline.FormatRange(ms.Milestone),
		Point:       ms.Milestone.IsPoint(),
		Active:      active,
		StatusLabel: timeline.StatusLabel(ms.Milestone, ms.State),
		Detail:      timeline.DetailLabel(ms.State),
		Blurb:       ms.Milestone.Blurb,
		State:       ms.State,
	}
}

// Countdown is the input of the countdown renderers.
type Countdown struct {
	Label     string             `json:"label"`
	Target    time.Time          `json:"target"`
	Remaining timeline.Remaining `json:"remaining"`
	Totals    timeline.Totals    `json:"totals"`
}

// Schedule is the input of the schedule renderers.
type Schedule struct {
	Team      string              `json:"team"`
	Season    string              `json:"season"`
	Source    schedule.Source     `json:"source"`
	Stale     bool                `json:"stale"`
	FetchedAt time.Time           `json:"fetched_at"`
	Upcoming  []schedule.Game     `json:"upcoming"`
	Next      *schedule.Game      `json:"next,omitempty"`
	Countdown *timeline.Remaining `json:"next_countdown,omitempty"`

	// Location is where dates are rendered; HomeVenue and Short feed the
	// game labels. None of them are serialized.
	Location  *time.Location `json:"-"`
	HomeVenue string         `json:"-"`
	Short     string         `json:"-"`
}
