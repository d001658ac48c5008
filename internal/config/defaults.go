// Package config handles gradwatch configuration.
package config

import (
	"time"

	"github.com/twiced-technology-gmbh/gradwatch/internal/date"
)

const (
	// DefaultDir is the default gradwatch directory name.
	DefaultDir = ".gradwatch"

	// ConfigFileName is the name of the config file within the gradwatch directory.
	ConfigFileName = "config.yml"

	// CurrentVersion is the current config schema version.
	CurrentVersion = 2

	// DefaultTitle is the dashboard heading.
	DefaultTitle = "Graduation Countdown"
	// DefaultUTCOffset is the offset date-only instants resolve against.
	DefaultUTCOffset = "-04:00"

	// DefaultMeta is the overall progress line shown while tracking.
	DefaultMeta = "Every school day between here and graduation counts toward the Florida move."
	// DefaultCompleteMeta replaces the progress line once graduation has passed.
	DefaultCompleteMeta = "Senior year wrapped — Florida launch sequence is live!"

	// DefaultTeam is the NHL club whose schedule is tracked.
	DefaultTeam = "NYI"
	// DefaultTeamName is the display name of DefaultTeam.
	DefaultTeamName = "New York Islanders"
	// DefaultHomeVenue is used for home games when the API omits a venue.
	DefaultHomeVenue = "UBS Arena"
	// DefaultAPIBase is the NHL web API root.
	DefaultAPIBase = "https://api-web.nhle.com/v1"
	// DefaultScheduleLimit is the number of upcoming games listed.
	DefaultScheduleLimit = 6
	// DefaultCacheTTL is how long a fetched schedule is served from cache.
	DefaultCacheTTL = "6h"

	// Cache backends.
	CacheFile   = "file"
	CacheSQLite = "sqlite"
	CacheRedis  = "redis"

	// DefaultFileCache and DefaultSQLiteCache are the cache paths used when
	// schedule.cache.path is unset, relative to the gradwatch directory.
	DefaultFileCache   = "cache.json"
	DefaultSQLiteCache = "cache.db"
	// DefaultRedisAddr is the redis address used when none is configured.
	DefaultRedisAddr = "localhost:6379"

	// DefaultLogLevel is the zap level name used without --verbose.
	DefaultLogLevel = "info"
	// DefaultLogFile is the log file name within the gradwatch directory.
	DefaultLogFile = "gradwatch.log"

	// DefaultShareTemplate renders the daily update text.
	DefaultShareTemplate = "Here is your daily update for the New York escape plan: {{.Today}}. " +
		"There are only {{.Days}} days left until we escape to Florida! " +
		"This translates to {{.Years}} years, or {{.Months}} months, or {{.Hours}} hours"
)

func eastern(year int, month time.Month, day, hour, minute, sec int) date.Instant {
	return date.At(time.Date(year, month, day, hour, minute, sec, 0, time.FixedZone(DefaultUTCOffset, -4*60*60)))
}

// Default instants for a new config.
var (
	DefaultGraduation    = eastern(2028, time.June, 18, 0, 0, 0)
	DefaultProgressStart = date.New(2024, time.September, 2)
)

// DefaultMilestones returns the three-season timeline for a new config.
func DefaultMilestones() []MilestoneConfig {
	return []MilestoneConfig{
		{
			ID:    "current",
			Label: "Sophomore Season",
			Title: "Sophomore Year Build-Up (2025–26)",
			Start: ptr(date.New(2025, time.September, 2)),
			End:   ptr(eastern(2026, time.June, 24, 23, 59, 59)),
			Blurb: "Build strong foundations this year. Focus on good study habits, explore interests, " +
				"and start thinking about what you want to pursue. Keep the Florida goal in sight " +
				"and use Islanders games as your reward for hard work.",
		},
		{
			ID:    "next",
			Label: "Junior Season",
			Title: "Junior Year Build-Up (2026–27)",
			Start: ptr(date.New(2026, time.September, 8)),
			End:   ptr(eastern(2027, time.June, 24, 23, 59, 59)),
			Blurb: "Heavy-weight year for transcripts and leadership. Line up college lists, visit " +
				"campuses, and keep Isles energy on loop during long study nights.",
		},
		{
			ID:            "final",
			Label:         "Final Season",
			Title:         "Senior Year Faceoff (2027–28)",
			UpcomingLabel: "Final stretch",
			Start:         ptr(date.New(2027, time.September, 7)),
			End:           ptr(DefaultGraduation),
			Blurb: "Capstones, celebrations, and final commitments. Every assignment finished is " +
				"another stride toward graduation day and the Florida relocation.",
		},
	}
}

// DefaultSchedule returns the schedule section for a new config.
func DefaultSchedule() ScheduleConfig {
	return ScheduleConfig{
		Enabled:   true,
		Team:      DefaultTeam,
		TeamName:  DefaultTeamName,
		HomeVenue: DefaultHomeVenue,
		APIBase:   DefaultAPIBase,
		Limit:     DefaultScheduleLimit,
		CacheTTL:  DefaultCacheTTL,
		Cache:     CacheConfig{Backend: CacheFile},
	}
}

func ptr[T any](v T) *T { return &v }
