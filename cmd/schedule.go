package cmd

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/twiced-technology-gmbh/gradwatch/internal/clierr"
	"github.com/twiced-technology-gmbh/gradwatch/internal/config"
	"github.com/twiced-technology-gmbh/gradwatch/internal/kvcache"
	"github.com/twiced-technology-gmbh/gradwatch/internal/output"
	"github.com/twiced-technology-gmbh/gradwatch/internal/schedule"
	"github.com/twiced-technology-gmbh/gradwatch/internal/timeline"
)

var scheduleCmd = &cobra.Command{
	Use:   "schedule",
	Short: "Show the next game and the upcoming schedule",
	Long: `Loads the team schedule from the NHL web API, serving a cached copy while it
is fresh. When the API is unreachable, a cached copy is shown and marked stale.`,
	Args: cobra.NoArgs,
	RunE: runSchedule,
}

func init() {
	scheduleCmd.Flags().Bool("refresh", false, "bypass the cache and fetch from the API")
	scheduleCmd.Flags().Int("limit", 0, "number of upcoming games to list (default from config)")
	rootCmd.AddCommand(scheduleCmd)
}

func runSchedule(cmd *cobra.Command, _ []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	if !cfg.Schedule.Enabled {
		return clierr.New(clierr.ScheduleUnavailable,
			"the schedule is disabled (run 'gradwatch config set schedule.enabled true')").
			WithDetails(map[string]any{"reason": "disabled"})
	}
	log := newLogger(cfg)
	defer func() { _ = log.Sync() }()

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	svc, closeCache := newScheduleService(ctx, cfg, log)
	defer closeCache()

	refresh, _ := cmd.Flags().GetBool("refresh")
	now := appClock.Now()
	res, err := svc.Load(ctx, now, refresh)
	if err != nil && !res.Stale {
		return clierr.Newf(clierr.ScheduleUnavailable, "%s: %v", schedule.UnavailableHeading, err).
			WithDetails(map[string]any{"team": cfg.Schedule.Team})
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "Warning: %s (%v)\n", schedule.StaleHeading, err)
	}

	limit, _ := cmd.Flags().GetInt("limit")
	if limit <= 0 {
		limit = cfg.Schedule.Limit
	}

	view := output.Schedule{
		Team:      cfg.Schedule.Team,
		Season:    schedule.SeasonCode(now),
		Source:    res.Source,
		Stale:     res.Stale,
		FetchedAt: res.FetchedAt,
		Upcoming:  schedule.Upcoming(res.Games, now, limit),
		Location:  cfg.Location(),
		HomeVenue: cfg.Schedule.HomeVenue,
		Short:     teamShortName(cfg),
	}
	if view.Upcoming == nil {
		view.Upcoming = []schedule.Game{}
	}
	if next, ok := schedule.Next(res.Games, now); ok {
		rem := timeline.Countdown(next.Start, now)
		view.Next, view.Countdown = &next, &rem
	}

	w := cmd.OutOrStdout()
	switch outputFormat() {
	case output.FormatJSON:
		return output.JSON(w, view)
	case output.FormatCompact:
		output.ScheduleCompact(w, view)
	default:
		output.ScheduleTable(w, view)
	}
	return nil
}

// newScheduleService wires the API client and the configured cache. A cache
// that cannot be opened is logged and skipped; the schedule still loads.
func newScheduleService(ctx context.Context, cfg *config.Config, log *zap.Logger) (*schedule.Service, func()) {
	sc := cfg.Schedule
	redisAddr := sc.Cache.RedisAddr
	if redisAddr == "" {
		redisAddr = config.DefaultRedisAddr
	}

	var cache kvcache.Cache
	opened, err := kvcache.Open(ctx, kvcache.Options{
		Backend:   sc.Cache.Backend,
		Path:      cfg.CachePath(),
		RedisAddr: redisAddr,
		RedisDB:   sc.Cache.RedisDB,
	})
	if err != nil {
		log.Warn("schedule cache unavailable", zap.String("backend", sc.Cache.Backend), zap.Error(err))
	} else {
		cache = opened
	}

	client := schedule.NewClient(sc.APIBase, sc.Proxy, log)
	svc := schedule.NewService(client, cache, schedule.Options{
		Team:      sc.Team,
		HomeVenue: sc.HomeVenue,
		TTL:       cfg.CacheTTLDuration(),
	}, log)

	return svc, func() {
		if cache != nil {
			_ = cache.Close()
		}
	}
}

func teamShortName(cfg *config.Config) string {
	if cfg.Schedule.TeamName != "" {
		return cfg.Schedule.TeamName
	}
	return cfg.Schedule.Team
}
