package schedule

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/twiced-technology-gmbh/gradwatch/internal/kvcache"
)

// DefaultTTL is how long a fetched schedule stays fresh.
const DefaultTTL = 6 * time.Hour

// Source says where a Result came from.
type Source string

// Result sources.
const (
	SourceNetwork Source = "network"
	SourceCache   Source = "cache"
)

// Result is a loaded schedule.
type Result struct {
	Games     []Game    `json:"games"`
	FetchedAt time.Time `json:"fetched_at"`
	Source    Source    `json:"source"`
	// Stale is set when a refresh failed and cached games were served instead.
	Stale bool `json:"stale"`
}

// cacheEntry is the stored payload; Timestamp is unix milliseconds.
type cacheEntry struct {
	Timestamp int64  `json:"timestamp"`
	Games     []Game `json:"games"`
}

// Options configures a Service.
type Options struct {
	Team      string
	HomeVenue string
	TTL       time.Duration
}

// Service loads a team's schedule, serving fresh cache entries before
// going to the network.
type Service struct {
	fetcher Fetcher
	cache   kvcache.Cache
	opts    Options
	log     *zap.Logger
}

// NewService creates a Service. A nil cache disables caching.
func NewService(fetcher Fetcher, cache kvcache.Cache, opts Options, log *zap.Logger) *Service {
	if opts.TTL <= 0 {
		opts.TTL = DefaultTTL
	}
	if log == nil {
		log = zap.NewNop()
	}
	return &Service{fetcher: fetcher, cache: cache, opts: opts, log: log.With(zap.String("team", opts.Team))}
}

// CacheKey returns the cache key for the service's team.
func (s *Service) CacheKey() string {
	return "schedule:" + s.opts.Team + ":v1"
}

// Load returns the schedule as of now. A fresh cache entry is returned
// without a request unless refresh is set. When the request fails and a
// fresh entry exists, that entry is returned with Stale set alongside the
// error.
func (s *Service) Load(ctx context.Context, now time.Time, refresh bool) (Result, error) {
	cached, hit := s.readCache(ctx, now)
	if hit && !refresh {
		s.log.Debug("schedule cache hit", zap.Int("games", len(cached.Games)))
		return Result{Games: cached.Games, FetchedAt: time.UnixMilli(cached.Timestamp), Source: SourceCache}, nil
	}

	season := SeasonCode(now)
	raw, err := s.fetcher.Fetch(ctx, s.opts.Team, season)
	if err != nil {
		s.log.Warn("schedule fetch failed", zap.String("season", season), zap.Bool("cached", hit), zap.Error(err))
		if hit {
			return Result{
				Games:     cached.Games,
				FetchedAt: time.UnixMilli(cached.Timestamp),
				Source:    SourceCache,
				Stale:     true,
			}, err
		}
		return Result{}, err
	}

	games := Normalize(raw, s.opts.Team, s.opts.HomeVenue)
	s.log.Info("schedule fetched", zap.String("season", season), zap.Int("raw", len(raw)), zap.Int("games", len(games)))
	s.writeCache(ctx, cacheEntry{Timestamp: now.UnixMilli(), Games: games})

	return Result{Games: games, FetchedAt: now, Source: SourceNetwork}, nil
}

// readCache returns the fresh entry, if any. Expired or malformed entries
// are deleted.
func (s *Service) readCache(ctx context.Context, now time.Time) (cacheEntry, bool) {
	if s.cache == nil {
		return cacheEntry{}, false
	}
	key := s.CacheKey()
	data, err := s.cache.Get(ctx, key)
	if err != nil {
		if !errors.Is(err, kvcache.ErrMiss) {
			s.log.Warn("schedule cache read failed", zap.Error(err))
		}
		return cacheEntry{}, false
	}

	var entry cacheEntry
	if err := json.Unmarshal(data, &entry); err != nil || entry.Timestamp == 0 || entry.Games == nil {
		s.log.Info("dropping malformed schedule cache entry")
		s.drop(ctx, key)
		return cacheEntry{}, false
	}
	if age := now.Sub(time.UnixMilli(entry.Timestamp)); age > s.opts.TTL {
		s.log.Debug("schedule cache expired", zap.Duration("age", age))
		s.drop(ctx, key)
		return cacheEntry{}, false
	}
	return entry, true
}

func (s *Service) writeCache(ctx context.Context, entry cacheEntry) {
	if s.cache == nil {
		return
	}
	data, err := json.Marshal(entry)
	if err != nil {
		s.log.Warn("schedule cache encode failed", zap.Error(err))
		return
	}
	if err := s.cache.Set(ctx, s.CacheKey(), data); err != nil {
		s.log.Warn("schedule cache write failed", zap.Error(err))
	}
}

func (s *Service) drop(ctx context.Context, key string) {
	if err := s.cache.Delete(ctx, key); err != nil {
		s.log.Warn("schedule cache delete failed", zap.Error(fmt.Errorf("%s: %w", key, err)))
	}
}
