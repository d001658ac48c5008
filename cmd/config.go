package cmd

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/twiced-technology-gmbh/gradwatch/internal/clierr"
	"github.com/twiced-technology-gmbh/gradwatch/internal/config"
	"github.com/twiced-technology-gmbh/gradwatch/internal/date"
	"github.com/twiced-technology-gmbh/gradwatch/internal/output"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "View or modify configuration",
	Long:  `View the full configuration, get a specific key, or set a writable value.`,
	RunE:  runConfigShow,
}

var configGetCmd = &cobra.Command{
	Use:   "get KEY",
	Short: "Get a configuration value",
	Args:  cobra.ExactArgs(1),
	RunE:  runConfigGet,
}

var configSetCmd = &cobra.Command{
	Use:   "set KEY VALUE",
	Short: "Set a configuration value",
	Args:  cobra.ExactArgs(2), //nolint:mnd // key and value
	RunE:  runConfigSet,
}

func init() {
	configCmd.AddCommand(configGetCmd)
	configCmd.AddCommand(configSetCmd)
	rootCmd.AddCommand(configCmd)
}

// configAccessor describes how to get and set a config key.
type configAccessor struct {
	get      func(*config.Config) any
	set      func(*config.Config, string) error
	writable bool
}

func stringAccessor(field func(*config.Config) *string) configAccessor {
	return configAccessor{
		get:      func(c *config.Config) any { return *field(c) },
		set:      func(c *config.Config, v string) error { *field(c) = v; return nil },
		writable: true,
	}
}

func instantAccessor(key string, field func(*config.Config) *date.Instant) configAccessor {
	return configAccessor{
		get: func(c *config.Config) any { return field(c).String() },
		set: func(c *config.Config, v string) error {
			in, err := date.Parse(v)
			if err != nil {
				return clierr.Newf(clierr.InvalidDate, "invalid %s %q: expected YYYY-MM-DD or RFC 3339", key, v)
			}
			*field(c) = in
			return nil
		},
		writable: true,
	}
}

func configAccessors() map[string]configAccessor {
	return map[string]configAccessor{
		"version": {
			get: func(c *config.Config) any { return c.Version },
		},
		"title": stringAccessor(func(c *config.Config) *string { return &c.Title }),
		"utc_offset": {
			get: func(c *config.Config) any { return c.UTCOffset },
			set: func(c *config.Config, v string) error {
				if _, err := date.ParseOffset(v); err != nil {
					return clierr.Newf(clierr.InvalidInput, "invalid utc_offset %q: %v", v, err)
				}
				c.UTCOffset = v
				return nil
			},
			writable: true,
		},
		"graduation":     instantAccessor("graduation", func(c *config.Config) *date.Instant { return &c.Graduation }),
		"progress_start": instantAccessor("progress_start", func(c *config.Config) *date.Instant { return &c.ProgressStart }),
		"meta.default":   stringAccessor(func(c *config.Config) *string { return &c.Meta.Default }),
		"meta.complete":  stringAccessor(func(c *config.Config) *string { return &c.Meta.Complete }),
		"milestones": {
			get: func(c *config.Config) any { return c.MilestoneIDs() },
		},
		"schedule.enabled": {
			get: func(c *config.Config) any { return c.Schedule.Enabled },
			set: func(c *config.Config, v string) error {
				b, err := strconv.ParseBool(v)
				if err != nil {
					return clierr.Newf(clierr.InvalidInput, "invalid schedule.enabled %q: must be true or false", v)
				}
				c.Schedule.Enabled = b
				return nil
			},
			writable: true,
		},
		"schedule.team": {
			get: func(c *config.Config) any { return c.Schedule.Team },
			set: func(c *config.Config, v string) error {
				c.Schedule.Team = strings.ToUpper(strings.TrimSpace(v))
				return nil
			},
			writable: true,
		},
		"schedule.team_name":  stringAccessor(func(c *config.Config) *string { return &c.Schedule.TeamName }),
		"schedule.home_venue": stringAccessor(func(c *config.Config) *string { return &c.Schedule.HomeVenue }),
		"schedule.api_base":   stringAccessor(func(c *config.Config) *string { return &c.Schedule.APIBase }),
		"schedule.proxy":      stringAccessor(func(c *config.Config) *string { return &c.Schedule.Proxy }),
		"schedule.limit": {
			get: func(c *config.Config) any { return c.Schedule.Limit },
			set: func(c *config.Config, v string) error {
				n, err := strconv.Atoi(v)
				if err != nil {
					return clierr.Newf(clierr.InvalidInput, "invalid schedule.limit %q: must be an integer", v)
				}
				c.Schedule.Limit = n
				return nil // validation handles range check
			},
			writable: true,
		},
		"schedule.cache_ttl": {
			get: func(c *config.Config) any { return c.Schedule.CacheTTL },
			set: func(c *config.Config, v string) error {
				if _, err := time.ParseDuration(v); err != nil {
					return clierr.Newf(clierr.InvalidInput, "invalid schedule.cache_ttl %q: %v", v, err)
				}
				c.Schedule.CacheTTL = v
				return nil
			},
			writable: true,
		},
		"schedule.cache.backend":    stringAccessor(func(c *config.Config) *string { return &c.Schedule.Cache.Backend }),
		"schedule.cache.path":       stringAccessor(func(c *config.Config) *string { return &c.Schedule.Cache.Path }),
		"schedule.cache.redis_addr": stringAccessor(func(c *config.Config) *string { return &c.Schedule.Cache.RedisAddr }),
		"share.template":            stringAccessor(func(c *config.Config) *string { return &c.Share.Template }),
		"log.level":                 stringAccessor(func(c *config.Config) *string { return &c.Log.Level }),
		"log.file":                  stringAccessor(func(c *config.Config) *string { return &c.Log.File }),
	}
}

// allConfigKeys returns config keys in display order.
func allConfigKeys() []string {
	return []string{
		"version",
		"title",
		"utc_offset",
		"graduation",
		"progress_start",
		"meta.default",
		"meta.complete",
		"milestones",
		"schedule.enabled",
		"schedule.team",
		"schedule.team_name",
		"schedule.home_venue",
		"schedule.api_base",
		"schedule.proxy",
		"schedule.limit",
		"schedule.cache_ttl",
		"schedule.cache.backend",
		"schedule.cache.path",
		"schedule.cache.redis_addr",
		"share.template",
		"log.level",
		"log.file",
	}
}

func runConfigShow(cmd *cobra.Command, _ []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	accessors := configAccessors()
	w := cmd.OutOrStdout()

	if outputFormat() == output.FormatJSON {
		m := make(map[string]any, len(accessors))
		for _, key := range allConfigKeys() {
			m[key] = accessors[key].get(cfg)
		}
		m["dir"] = cfg.Dir()
		return output.JSON(w, m)
	}

	// Table mode: key-value pairs.
	for _, key := range allConfigKeys() {
		val := accessors[key].get(cfg)
		fmt.Fprintf(w, "%-26s %v\n", key, formatConfigValue(val))
	}
	return nil
}

func runConfigGet(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	key := args[0]
	acc, ok := configAccessors()[key]
	if !ok {
		return unknownConfigKey(key)
	}

	val := acc.get(cfg)
	w := cmd.OutOrStdout()

	if outputFormat() == output.FormatJSON {
		return output.JSON(w, val)
	}

	fmt.Fprintln(w, formatConfigValue(val))
	return nil
}

func runConfigSet(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	key, value := args[0], args[1]
	acc, ok := configAccessors()[key]
	if !ok {
		return unknownConfigKey(key)
	}
	if !acc.writable {
		return clierr.Newf(clierr.InvalidInput, "config key %q is read-only", key)
	}

	if err := acc.set(cfg, value); err != nil {
		return err
	}

	if err := cfg.Validate(); err != nil {
		return clierr.New(clierr.InvalidConfig, err.Error()).WithDetails(map[string]any{"key": key})
	}

	if err := cfg.Save(); err != nil {
		return fmt.Errorf("saving config: %w", err)
	}

	w := cmd.OutOrStdout()
	if outputFormat() == output.FormatJSON {
		return output.JSON(w, map[string]any{"key": key, "value": acc.get(cfg)})
	}

	output.Messagef(w, "Set %s = %v", key, formatConfigValue(acc.get(cfg)))
	return nil
}

func unknownConfigKey(key string) error {
	return clierr.Newf(clierr.InvalidInput, "unknown config key %q", key).
		WithDetails(map[string]any{"keys": allConfigKeys()})
}

func formatConfigValue(val any) string {
	switch v := val.(type) {
	case []string:
		if len(v) == 0 {
			return "--"
		}
		return strings.Join(v, ", ")
	case string:
		if v == "" {
			return "--"
		}
		return v
	default:
		return fmt.Sprintf("%v", v)
	}
}
