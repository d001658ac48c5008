package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"text/template"
	"time"

	"go.uber.org/zap/zapcore"
	"go.yaml.in/yaml/v3"

	"github.com/twiced-technology-gmbh/gradwatch/internal/clierr"
	"github.com/twiced-technology-gmbh/gradwatch/internal/date"
)

const fileMode = 0o600

// Sentinel errors.
var (
	ErrNotFound = errors.New("no gradwatch config found (run 'gradwatch init' to create one)")
	ErrInvalid  = errors.New("invalid config")
)

// Config represents the gradwatch configuration.
type Config struct {
	Version       int               `yaml:"version"`
	Title         string            `yaml:"title"`
	UTCOffset     string            `yaml:"utc_offset"`
	Graduation    date.Instant      `yaml:"graduation"`
	ProgressStart date.Instant      `yaml:"progress_start"`
	Meta          MetaConfig        `yaml:"meta"`
	Milestones    []MilestoneConfig `yaml:"milestones"`
	Schedule      ScheduleConfig    `yaml:"schedule"`
	Share         ShareConfig       `yaml:"share"`
	Log           LogConfig         `yaml:"log"`

	// dir is the absolute path to the gradwatch directory (not serialized).
	dir string `yaml:"-"`
}

// MetaConfig holds the overall progress captions.
type MetaConfig struct {
	Default  string `yaml:"default"`
	Complete string `yaml:"complete"`
}

// MilestoneConfig defines one milestone. Either Start and End or Date is set.
type MilestoneConfig struct {
	ID            string        `yaml:"id" json:"id"`
	Label         string        `yaml:"label" json:"label"`
	Title         string        `yaml:"title,omitempty" json:"title,omitempty"`
	Start         *date.Instant `yaml:"start,omitempty" json:"start,omitempty"`
	End           *date.Instant `yaml:"end,omitempty" json:"end,omitempty"`
	Date          *date.Instant `yaml:"date,omitempty" json:"date,omitempty"`
	UpcomingLabel string        `yaml:"upcoming_label,omitempty" json:"upcoming_label,omitempty"`
	Blurb         string        `yaml:"blurb,omitempty" json:"blurb,omitempty"`
}

// ScheduleConfig configures the team schedule widget.
type ScheduleConfig struct {
	Enabled   bool        `yaml:"enabled"`
	Team      string      `yaml:"team"`
	TeamName  string      `yaml:"team_name,omitempty"`
	HomeVenue string      `yaml:"home_venue,omitempty"`
	APIBase   string      `yaml:"api_base"`
	Proxy     string      `yaml:"proxy,omitempty"`
	Limit     int         `yaml:"limit"`
	CacheTTL  string      `yaml:"cache_ttl"`
	Cache     CacheConfig `yaml:"cache"`
}

// CacheConfig selects and configures the schedule cache backend.
type CacheConfig struct {
	Backend   string `yaml:"backend"`
	Path      string `yaml:"path,omitempty"`
	RedisAddr string `yaml:"redis_addr,omitempty"`
	RedisDB   int    `yaml:"redis_db,omitempty"`
}

// ShareConfig holds the share text template.
type ShareConfig struct {
	Template string `yaml:"template"`
}

// LogConfig configures the structured log file.
type LogConfig struct {
	Level string `yaml:"level"`
	File  string `yaml:"file"`
}

// Dir returns the absolute path to the gradwatch directory.
func (c *Config) Dir() string {
	return c.dir
}

// SetDir sets the gradwatch directory path on the config.
func (c *Config) SetDir(dir string) {
	c.dir = dir
}

// ConfigPath returns the absolute path to the config file.
func (c *Config) ConfigPath() string {
	return filepath.Join(c.dir, ConfigFileName)
}

// NewDefault creates a Config with the built-in timeline.
func NewDefault() *Config {
	return &Config{
		Version:       CurrentVersion,
		Title:         DefaultTitle,
		UTCOffset:     DefaultUTCOffset,
		Graduation:    DefaultGraduation,
		ProgressStart: DefaultProgressStart,
		Meta:          MetaConfig{Default: DefaultMeta, Complete: DefaultCompleteMeta},
		Milestones:    DefaultMilestones(),
		Schedule:      DefaultSchedule(),
		Share:         ShareConfig{Template: DefaultShareTemplate},
		Log:           LogConfig{Level: DefaultLogLevel, File: DefaultLogFile},
	}
}

// Location returns the fixed zone date-only instants resolve against.
// An invalid offset falls back to UTC; Validate reports it.
func (c *Config) Location() *time.Location {
	loc, err := date.ParseOffset(c.UTCOffset)
	if err != nil {
		return time.UTC
	}
	return loc
}

// GraduationTime returns the resolved graduation instant.
func (c *Config) GraduationTime() time.Time {
	return c.Graduation.In(c.Location())
}

// ProgressStartTime returns the resolved start of the overall progress window.
func (c *Config) ProgressStartTime() time.Time {
	return c.ProgressStart.In(c.Location())
}

// MilestoneIDs returns milestone ids in configured order.
func (c *Config) MilestoneIDs() []string {
	ids := make([]string, len(c.Milestones))
	for i, m := range c.Milestones {
		ids[i] = m.ID
	}
	return ids
}

// CacheTTLDuration parses schedule.cache_ttl. Returns the default TTL if the
// field is empty or unparseable.
func (c *Config) CacheTTLDuration() time.Duration {
	d, err := time.ParseDuration(c.Schedule.CacheTTL)
	if err != nil || d <= 0 {
		d, _ = time.ParseDuration(DefaultCacheTTL)
	}
	return d
}

// CachePath returns the absolute cache location for file and sqlite backends.
func (c *Config) CachePath() string {
	p := c.Schedule.Cache.Path
	if p == "" {
		p = DefaultFileCache
		if c.Schedule.Cache.Backend == CacheSQLite {
			p = DefaultSQLiteCache
		}
	}
	if filepath.IsAbs(p) {
		return p
	}
	return filepath.Join(c.dir, p)
}

// LogPath returns the absolute path to the log file.
func (c *Config) LogPath() string {
	f := c.Log.File
	if f == "" {
		f = DefaultLogFile
	}
	if filepath.IsAbs(f) {
		return f
	}
	return filepath.Join(c.dir, f)
}

// Validate checks the config for errors.
func (c *Config) Validate() error {
	if c.Version != CurrentVersion {
		return fmt.Errorf("%w: unsupported version %d (expected %d)", ErrInvalid, c.Version, CurrentVersion)
	}
	if _, err := date.ParseOffset(c.UTCOffset); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalid, err)
	}
	if c.Graduation.IsZero() {
		return fmt.Errorf("%w: graduation is required", ErrInvalid)
	}
	if c.ProgressStart.IsZero() {
		return fmt.Errorf("%w: progress_start is required", ErrInvalid)
	}
	if !c.ProgressStartTime().Before(c.GraduationTime()) {
		return fmt.Errorf("%w: progress_start must be before graduation", ErrInvalid)
	}
	if err := c.validateMilestones(); err != nil {
		return err
	}
	if err := c.validateSchedule(); err != nil {
		return err
	}
	if _, err := template.New("share").Parse(c.Share.Template); err != nil {
		return fmt.Errorf("%w: share.template: %w", ErrInvalid, err)
	}
	if c.Log.Level != "" {
		if _, err := zapcore.ParseLevel(c.Log.Level); err != nil {
			return fmt.Errorf("%w: log.level: %w", ErrInvalid, err)
		}
	}
	return nil
}

func (c *Config) validateMilestones() error {
	if len(c.Milestones) == 0 {
		return fmt.Errorf("%w: at least 1 milestone is required", ErrInvalid)
	}
	loc := c.Location()
	seen := make(map[string]bool, len(c.Milestones))
	var prevEnd time.Time
	for i, m := range c.Milestones {
		if m.ID == "" {
			return fmt.Errorf("%w: milestones[%d].id is required", ErrInvalid, i)
		}
		if seen[m.ID] {
			return fmt.Errorf("%w: duplicate milestone id %q", ErrInvalid, m.ID)
		}
		seen[m.ID] = true
		if m.Label == "" {
			return fmt.Errorf("%w: milestone %q label is required", ErrInvalid, m.ID)
		}

		ranged := m.Start != nil || m.End != nil
		switch {
		case ranged && m.Date != nil:
			return fmt.Errorf("%w: milestone %q sets both start/end and date", ErrInvalid, m.ID)
		case !ranged && m.Date == nil:
			return fmt.Errorf("%w: milestone %q needs start and end, or date", ErrInvalid, m.ID)
		case ranged && (m.Start == nil || m.End == nil):
			return fmt.Errorf("%w: milestone %q needs both start and end", ErrInvalid, m.ID)
		}

		start, end := m.bounds(loc)
		if end.Before(start) {
			return fmt.Errorf("%w: milestone %q ends before it starts", ErrInvalid, m.ID)
		}
		if i > 0 && start.Before(prevEnd) {
			return fmt.Errorf("%w: milestone %q overlaps the previous milestone", ErrInvalid, m.ID)
		}
		prevEnd = end
	}
	return nil
}

func (c *Config) validateSchedule() error {
	s := c.Schedule
	if !s.Enabled {
		return nil
	}
	if s.Team == "" {
		return fmt.Errorf("%w: schedule.team is required", ErrInvalid)
	}
	if s.APIBase == "" {
		return fmt.Errorf("%w: schedule.api_base is required", ErrInvalid)
	}
	if s.Limit < 1 {
		return fmt.Errorf("%w: schedule.limit must be >= 1", ErrInvalid)
	}
	if d, err := time.ParseDuration(s.CacheTTL); err != nil || d <= 0 {
		return fmt.Errorf("%w: invalid schedule.cache_ttl %q", ErrInvalid, s.CacheTTL)
	}
	switch s.Cache.Backend {
	case CacheFile, CacheSQLite, CacheRedis:
	default:
		return fmt.Errorf("%w: schedule.cache.backend %q must be one of file, sqlite, redis",
			ErrInvalid, s.Cache.Backend)
	}
	if s.Cache.RedisDB < 0 {
		return fmt.Errorf("%w: schedule.cache.redis_db must be >= 0", ErrInvalid)
	}
	return nil
}

// bounds resolves the milestone span; point milestones start and end at Date.
func (m MilestoneConfig) bounds(loc *time.Location) (start, end time.Time) {
	if m.Date != nil {
		at := m.Date.In(loc)
		return at, at
	}
	if m.Start != nil {
		start = m.Start.In(loc)
	}
	if m.End != nil {
		end = m.End.In(loc)
	}
	return start, end
}

// Init creates a new gradwatch directory with the default config.
func Init(dir string) (*Config, error) {
	const dirMode = 0o750

	absDir, err := filepath.Abs(dir)
	if err != nil {
		return nil, fmt.Errorf("resolving path: %w", err)
	}

	cfg := NewDefault()
	cfg.SetDir(absDir)

	if err := os.MkdirAll(absDir, dirMode); err != nil {
		return nil, fmt.Errorf("creating config directory: %w", err)
	}

	if err := cfg.Save(); err != nil {
		return nil, fmt.Errorf("writing config: %w", err)
	}

	return cfg, nil
}

// Save writes the config to its config file.
func (c *Config) Save() error {
	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("marshaling config: %w", err)
	}
	return os.WriteFile(c.ConfigPath(), data, fileMode)
}

// Load reads and validates a config from the given gradwatch directory.
func Load(dir string) (*Config, error) {
	absDir, err := filepath.Abs(dir)
	if err != nil {
		return nil, fmt.Errorf("resolving path: %w", err)
	}

	path := filepath.Join(absDir, ConfigFileName)
	data, err := os.ReadFile(path) //nolint:gosec // config path from trusted source
	if err != nil {
		if os.IsNotExist(err) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("reading config: %w", err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("%w: parsing config: %w", ErrInvalid, err)
	}

	cfg.dir = absDir

	// Migrate old config versions forward before validating.
	oldVersion := cfg.Version
	if err := migrate(&cfg); err != nil {
		return nil, err
	}

	// Persist migrated config so future loads skip re-migration.
	if cfg.Version != oldVersion {
		if err := cfg.Save(); err != nil {
			return nil, fmt.Errorf("saving migrated config: %w", err)
		}
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// FindDir walks upward from startDir looking for a gradwatch directory
// containing config.yml. Returns the absolute path to the gradwatch directory.
func FindDir(startDir string) (string, error) {
	absStart, err := filepath.Abs(startDir)
	if err != nil {
		return "", fmt.Errorf("resolving path: %w", err)
	}

	dir := absStart
	for {
		candidate := filepath.Join(dir, DefaultDir, ConfigFileName)
		if _, err := os.Stat(candidate); err == nil {
			return filepath.Join(dir, DefaultDir), nil
		}

		// Also check if we're inside the gradwatch directory itself.
		candidate = filepath.Join(dir, ConfigFileName)
		if _, err := os.Stat(candidate); err == nil {
			return dir, nil
		}

		parent := filepath.Dir(dir)
		if parent == dir {
			return "", clierr.New(clierr.ConfigNotFound,
				"no gradwatch config found (run 'gradwatch init' to create one)")
		}
		dir = parent
	}
}
