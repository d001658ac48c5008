package schedule

import (
	"strings"
	"time"
)

// Widget messages.
const (
	SeasonCompleteHeading = "Season Complete"
	SeasonCompleteInfo    = "No upcoming games on the schedule right now."
	SeasonCompleteList    = "The season is complete. Check back when the new schedule drops."
	UnavailableHeading    = "Schedule unavailable"
	StaleHeading          = "Using cached data"
	UnavailableInfo       = "Please check back shortly for the next puck drop."
	LoadFailedList        = "Could not load the schedule right now. Refresh to try again."
)

const (
	dayLayout  = "Mon, Jan 2"
	timeLayout = "3:04 PM MST"
	infoLayout = "Monday, January 2 at 3:04 PM MST"
)

// OpponentLabel renders "vs X" for home games and "@ X" for road games.
func (g Game) OpponentLabel() string {
	if g.IsHome {
		return "vs " + g.Opponent
	}
	return "@ " + g.Opponent
}

// Matchup renders the game from team's viewpoint, e.g. "Isles @ Rangers".
func (g Game) Matchup(team string) string {
	return team + " " + g.OpponentLabel()
}

// Day renders the short game date in loc.
func (g Game) Day(loc *time.Location) string {
	return g.Start.In(loc).Format(dayLayout)
}

// Meta joins start time, venue and broadcast with bullets.
func (g Game) Meta(loc *time.Location) string {
	parts := []string{g.Start.In(loc).Format(timeLayout)}
	if g.Venue != "" {
		parts = append(parts, g.Venue)
	}
	if g.Broadcast != "" {
		parts = append(parts, g.Broadcast)
	}
	return strings.Join(parts, " • ")
}

// Info is the long description of the next game. Home games always show the
// club's own arena.
func (g Game) Info(loc *time.Location, homeVenue string) string {
	venue := g.Venue
	if g.IsHome && homeVenue != "" {
		venue = homeVenue
	}
	return g.Start.In(loc).Format(infoLayout) + " • " + venue
}

// BroadcastLabel returns "Broadcast: X" or "".
func (g Game) BroadcastLabel() string {
	if g.Broadcast == "" {
		return ""
	}
	return "Broadcast: " + g.Broadcast
}
