package config

import (
	"github.com/twiced-technology-gmbh/gradwatch/internal/timeline"
)

// Timeline builds the milestone timeline with all instants resolved at the
// configured offset. The config is expected to be valid.
func (c *Config) Timeline() *timeline.Timeline {
	loc := c.Location()
	milestones := make([]timeline.Milestone, 0, len(c.Milestones))
	for _, mc := range c.Milestones {
		m := timeline.Milestone{
			ID:            mc.ID,
			Label:         mc.Label,
			Title:         mc.Title,
			Blurb:         mc.Blurb,
			UpcomingLabel: mc.UpcomingLabel,
		}
		switch {
		case mc.Date != nil:
			m.Span = timeline.PointInTime{At: mc.Date.In(loc)}
		case mc.Start != nil && mc.End != nil:
			m.Span = timeline.Ranged{Start: mc.Start.In(loc), End: mc.End.In(loc)}
		}
		milestones = append(milestones, m)
	}
	return timeline.New(milestones, c.ProgressStartTime(), c.GraduationTime())
}
