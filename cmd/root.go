// Package cmd implements the gradwatch CLI commands.
package cmd

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"go.uber.org/zap"
	"golang.org/x/term"

	"github.com/twiced-technology-gmbh/gradwatch/internal/applog"
	"github.com/twiced-technology-gmbh/gradwatch/internal/clierr"
	"github.com/twiced-technology-gmbh/gradwatch/internal/clock"
	"github.com/twiced-technology-gmbh/gradwatch/internal/config"
	"github.com/twiced-technology-gmbh/gradwatch/internal/date"
	"github.com/twiced-technology-gmbh/gradwatch/internal/output"
)

// version is set at build time via ldflags.
var version = "dev"

// Global flags.
var (
	flagJSON    bool
	flagTable   bool
	flagCompact bool
	flagDir     string
	flagNoColor bool
	flagVerbose bool
)

// appClock supplies "now" for every command; tests replace it.
var appClock clock.Clock = clock.Real{}

// isTerminal reports whether stdout is an interactive terminal.
var isTerminal = func() bool { return term.IsTerminal(int(os.Stdout.Fd())) }

var rootCmd = &cobra.Command{
	Use:   "gradwatch",
	Short: "Graduation countdown with a milestone timeline",
	Long: `gradwatch counts down to graduation, tracks progress through each season
and shows the next puck drop. Run it in a terminal to open the live dashboard;
piped output prints the status snapshot instead.`,
	Version:       version,
	SilenceErrors: true,
	SilenceUsage:  true,
	RunE:          runRoot,
	PersistentPreRun: func(_ *cobra.Command, _ []string) {
		if output.NoColor(flagNoColor) {
			output.DisableColor()
		}
	},
}

func init() {
	rootCmd.PersistentFlags().BoolVar(&flagJSON, "json", false, "output as JSON")
	rootCmd.PersistentFlags().BoolVar(&flagTable, "table", false, "output as table")
	rootCmd.PersistentFlags().BoolVar(&flagCompact, "compact", false, "compact one-line-per-record output")
	rootCmd.PersistentFlags().BoolVar(&flagCompact, "oneline", false, "alias for --compact")
	rootCmd.PersistentFlags().StringVar(&flagDir, "dir", "", "path to gradwatch directory")
	rootCmd.PersistentFlags().BoolVar(&flagNoColor, "no-color", false, "disable color output")
	rootCmd.PersistentFlags().BoolVarP(&flagVerbose, "verbose", "v", false, "debug-level logging to the log file")
	rootCmd.SetGlobalNormalizationFunc(normalizeFlag)
}

// normalizeFlag accepts --utc_offset for --utc-offset.
func normalizeFlag(_ *pflag.FlagSet, name string) pflag.NormalizedName {
	return pflag.NormalizedName(strings.ReplaceAll(name, "_", "-"))
}

func runRoot(cmd *cobra.Command, args []string) error {
	if isTerminal() && !flagJSON && !flagCompact && !flagTable {
		return runTUI(cmd, args)
	}
	return runStatus(statusCmd, args)
}

// Execute runs the root command.
func Execute() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	_, err := rootCmd.ExecuteContextC(ctx)
	stop()
	if err == nil {
		return
	}

	// SilentError: exit with its code and print nothing.
	var silent *clierr.SilentError
	if errors.As(err, &silent) {
		os.Exit(silent.Code)
	}

	os.Exit(reportError(os.Stdout, os.Stderr, err))
}

// reportError prints err as a JSON envelope on stdout in JSON mode or as
// plain text on stderr, and returns the exit code.
func reportError(stdout, stderr io.Writer, err error) int {
	cliErr := clierr.As(err)
	if flagJSON || os.Getenv(output.EnvFormat) == "json" {
		output.JSONError(stdout, cliErr.Code, cliErr.Message, cliErr.Details)
		return cliErr.ExitCode()
	}
	fmt.Fprintln(stderr, "Error: "+cliErr.Message)
	return cliErr.ExitCode()
}

// defaultHomeDir returns the path to ~/.config/gradwatch.
func defaultHomeDir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("getting home directory: %w", err)
	}
	return filepath.Join(home, ".config", "gradwatch"), nil
}

// resolveDir returns the gradwatch directory.
// Falls back to ~/.config/gradwatch if none is found in the current directory tree.
func resolveDir() (string, error) {
	if flagDir != "" {
		return flagDir, nil
	}

	cwd, err := os.Getwd()
	if err != nil {
		return "", fmt.Errorf("getting working directory: %w", err)
	}

	dir, err := config.FindDir(cwd)
	if err == nil {
		return dir, nil
	}

	return defaultHomeDir()
}

// loadConfig finds and loads the config.
// If the resolved directory is ~/.config/gradwatch and it doesn't exist yet,
// it is auto-created with the default timeline.
func loadConfig() (*config.Config, error) {
	dir, err := resolveDir()
	if err != nil {
		return nil, err
	}

	cfg, err := config.Load(dir)
	if err == nil {
		return cfg, nil
	}
	if errors.Is(err, config.ErrInvalid) {
		return nil, clierr.New(clierr.InvalidConfig, err.Error()).
			WithDetails(map[string]any{"dir": dir})
	}
	if !errors.Is(err, config.ErrNotFound) {
		return nil, err
	}

	homeDir, homeErr := defaultHomeDir()
	if homeErr != nil || dir != homeDir {
		return nil, clierr.Newf(clierr.ConfigNotFound, "no config.yml in %s (run 'gradwatch init')", dir).
			WithDetails(map[string]any{"dir": dir})
	}
	return config.Init(homeDir)
}

// newLogger opens the config's log file. Logging never fails a command.
func newLogger(cfg *config.Config) *zap.Logger {
	return applog.NewOrNop(cfg.LogPath(), cfg.Log.Level, flagVerbose)
}

// outputFormat returns the detected output format from flags/env.
func outputFormat() output.Format {
	return output.Detect(flagJSON, flagTable, flagCompact)
}

// referenceTime returns the --at instant when given, otherwise the clock.
func referenceTime(cmd *cobra.Command, cfg *config.Config) (time.Time, error) {
	at, _ := cmd.Flags().GetString("at")
	if at == "" {
		return appClock.Now(), nil
	}
	return parseInstant(at, cfg)
}

// parseInstant parses RFC 3339 or YYYY-MM-DD; date-only values resolve at the
// config's offset.
func parseInstant(s string, cfg *config.Config) (time.Time, error) {
	t, err := date.ParseIn(s, cfg.Location())
	if err != nil {
		return time.Time{}, clierr.Newf(clierr.InvalidDate,
			"invalid date %q (expected YYYY-MM-DD or RFC 3339)", s).
			WithDetails(map[string]any{"value": s})
	}
	return t, nil
}

// terminalWidth returns the stdout width, or 80 when it is not a terminal.
func terminalWidth() int {
	const fallback = 80
	w, _, err := term.GetSize(int(os.Stdout.Fd()))
	if err != nil || w <= 0 {
		return fallback
	}
	return w
}
