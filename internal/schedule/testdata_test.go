package schedule

// sampleBody mimics /club-schedule-season/NYI/20252026 with the shapes the
// normalizer has to cope with.
const sampleBody = `{
  "games": [
    {
      "id": 2025020030,
      "season": 20252026,
      "gameDate": "2025-10-11",
      "startTimeUTC": "2025-10-11T23:00:00Z",
      "gameState": "FUT",
      "venue": {"default": "Madison Square Garden"},
      "homeTeam": {"abbrev": "NYR", "placeName": {"default": "New York"}, "commonName": {"default": "Rangers"}},
      "awayTeam": {"abbrev": "NYI", "placeName": {"default": "New York"}, "commonName": {"default": "Islanders"}},
      "tvBroadcasts": [{"network": "ESPN+"}, {"network": "MSGSN"}]
    },
    {
      "id": 2025020010,
      "season": 20252026,
      "gameDate": "2025-10-09",
      "gameTimeUTC": "23:30:00",
      "gameState": "FINAL",
      "homeTeam": {"abbrev": "NYI", "name": "New York Islanders"},
      "awayTeam": {"abbrev": "PIT", "placeName": "Pittsburgh", "teamName": {"name": "Penguins"}},
      "tvBroadcasts": [{"network": "ESPN+"}]
    },
    {
      "gameNumber": 77,
      "gameDate": "2025-10-14",
      "gameState": "FUT",
      "homeTeam": {"abbrev": "NYI", "default": "Islanders"},
      "awayTeam": {"abbrev": "BOS", "fullName": "Boston Bruins"}
    },
    {
      "id": 1,
      "gameState": "FUT",
      "homeTeam": {"abbrev": "NYI"},
      "awayTeam": {"abbrev": "TOR"}
    },
    {
      "id": 2,
      "startTimeUTC": "not a time",
      "homeTeam": {"abbrev": "NYI"},
      "awayTeam": {"abbrev": "MTL"}
    }
  ]
}`
