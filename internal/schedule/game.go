package schedule

import (
	"bytes"
	"encoding/json"
	"slices"
	"time"
)

// StateFinal is the gameState of a finished game.
const StateFinal = "FINAL"

// text is an API string that may arrive bare or localized as
// {"default": "..."} (or {"name": "..."}).
type text string

func (t *text) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || bytes.Equal(data, []byte("null")) {
		*t = ""
		return nil
	}
	if data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*t = text(s)
		return nil
	}
	var obj struct {
		Default string `json:"default"`
		Name    string `json:"name"`
	}
	if err := json.Unmarshal(data, &obj); err != nil {
		// Unknown shapes carry no usable name.
		*t = ""
		return nil //nolint:nilerr // tolerate unexpected API shapes
	}
	if obj.Default != "" {
		*t = text(obj.Default)
	} else {
		*t = text(obj.Name)
	}
	return nil
}

// RawTeam is one side of a game as the API reports it.
type RawTeam struct {
	Abbrev     string `json:"abbrev"`
	Name       text   `json:"name"`
	Default    text   `json:"default"`
	PlaceName  text   `json:"placeName"`
	TeamName   text   `json:"teamName"`
	CommonName text   `json:"commonName"`
	FullName   text   `json:"fullName"`
}

// DisplayName picks the best available name for the team.
func (t *RawTeam) DisplayName() string {
	if t == nil {
		return ""
	}
	switch {
	case t.Name != "":
		return string(t.Name)
	case t.Default != "":
		return string(t.Default)
	case t.PlaceName != "" && t.TeamName != "":
		return string(t.PlaceName) + " " + string(t.TeamName)
	case t.PlaceName != "":
		return string(t.PlaceName)
	case t.TeamName != "":
		return string(t.TeamName)
	case t.CommonName != "":
		return string(t.CommonName)
	default:
		return string(t.FullName)
	}
}

// RawGame is one schedule record as the API reports it.
type RawGame struct {
	ID           int64     `json:"id"`
	GameNumber   int64     `json:"gameNumber"`
	Season       int64     `json:"season"`
	GameDate     string    `json:"gameDate"`
	StartTimeUTC string    `json:"startTimeUTC"`
	GameTimeUTC  string    `json:"gameTimeUTC"`
	GameTime     string    `json:"gameTime"`
	GameState    string    `json:"gameState"`
	Venue        text      `json:"venue"`
	HomeTeam     *RawTeam  `json:"homeTeam"`
	AwayTeam     *RawTeam  `json:"awayTeam"`
	TVBroadcasts []struct {
		Network string `json:"network"`
	} `json:"tvBroadcasts"`
}

// Game is a normalized schedule entry from the tracked team's viewpoint.
type Game struct {
	ID        int64     `json:"id"`
	Start     time.Time `json:"date"`
	IsHome    bool      `json:"is_home"`
	Opponent  string    `json:"opponent"`
	Venue     string    `json:"venue"`
	Broadcast string    `json:"broadcast,omitempty"`
	Season    int64     `json:"season,omitempty"`
	GameState string    `json:"game_state,omitempty"`
}

// Final reports whether the game is over.
func (g Game) Final() bool { return g.GameState == StateFinal }

// start resolves the game's start instant.
func (r RawGame) start() (time.Time, bool) {
	if r.StartTimeUTC != "" {
		t, err := time.Parse(time.RFC3339, r.StartTimeUTC)
		return t, err == nil
	}
	if r.GameDate == "" {
		return time.Time{}, false
	}
	clock := r.GameTimeUTC
	if clock == "" {
		clock = r.GameTime
	}
	if clock == "" {
		clock = "00:00:00"
	}
	t, err := time.Parse(time.RFC3339, r.GameDate+"T"+clock+"Z")
	return t, err == nil
}

func (r RawGame) broadcast() string {
	var first string
	for _, b := range r.TVBroadcasts {
		if b.Network == "" {
			continue
		}
		if first == "" {
			first = b.Network
		}
		if b.Network != "ESPN+" {
			return b.Network
		}
	}
	return first
}

// Normalize converts raw records to games for team, dropping records
// without a usable start time, sorted by start.
func Normalize(raw []RawGame, team, homeVenue string) []Game {
	games := make([]Game, 0, len(raw))
	for _, r := range raw {
		start, ok := r.start()
		if !ok {
			continue
		}

		isHome := r.HomeTeam != nil && r.HomeTeam.Abbrev == team
		opponent := r.HomeTeam.DisplayName()
		if isHome {
			opponent = r.AwayTeam.DisplayName()
		}

		venue := string(r.Venue)
		if venue == "" {
			venue = "Away"
			if isHome {
				venue = homeVenue
			}
		}

		id := r.ID
		if id == 0 {
			id = r.GameNumber
		}

		games = append(games, Game{
			ID:        id,
			Start:     start,
			IsHome:    isHome,
			Opponent:  opponent,
			Venue:     venue,
			Broadcast: r.broadcast(),
			Season:    r.Season,
			GameState: r.GameState,
		})
	}
	slices.SortStableFunc(games, func(a, b Game) int { return a.Start.Compare(b.Start) })
	return games
}

// Upcoming returns up to limit games starting at or after now that are not
// final. A non-positive limit returns all of them.
func Upcoming(games []Game, now time.Time, limit int) []Game {
	var out []Game
	for _, g := range games {
		if g.Start.Before(now) || g.Final() {
			continue
		}
		out = append(out, g)
		if limit > 0 && len(out) == limit {
			break
		}
	}
	return out
}

// Next returns the first game starting strictly after now that is not final.
func Next(games []Game, now time.Time) (Game, bool) {
	for _, g := range games {
		if g.Start.After(now) && !g.Final() {
			return g, true
		}
	}
	return Game{}, false
}
