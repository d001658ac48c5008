package cmd

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/twiced-technology-gmbh/gradwatch/internal/clierr"
	"github.com/twiced-technology-gmbh/gradwatch/internal/config"
	"github.com/twiced-technology-gmbh/gradwatch/internal/date"
	"github.com/twiced-technology-gmbh/gradwatch/internal/output"
)

var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Initialize a gradwatch directory",
	Long:  `Creates a .gradwatch directory (or --dir) with a config.yml holding the default timeline.`,
	Args:  cobra.NoArgs,
	RunE:  runInit,
}

func init() {
	initCmd.Flags().String("title", "", "dashboard title")
	initCmd.Flags().String("graduation", "", "graduation instant (YYYY-MM-DD or RFC 3339)")
	initCmd.Flags().String("utc-offset", "", "fixed offset for date-only values, e.g. -04:00")
	rootCmd.AddCommand(initCmd)
}

func runInit(cmd *cobra.Command, _ []string) error {
	dir := flagDir
	if dir == "" {
		dir = config.DefaultDir
	}

	absDir, err := filepath.Abs(dir)
	if err != nil {
		return fmt.Errorf("resolving path: %w", err)
	}

	// Check if already initialized.
	if _, err := os.Stat(filepath.Join(absDir, config.ConfigFileName)); err == nil {
		return clierr.Newf(clierr.ConfigExists, "gradwatch already initialized in %s", absDir).
			WithDetails(map[string]any{"dir": absDir})
	}

	cfg := config.NewDefault()
	cfg.SetDir(absDir)

	if title, _ := cmd.Flags().GetString("title"); title != "" {
		cfg.Title = title
	}
	if offset, _ := cmd.Flags().GetString("utc-offset"); offset != "" {
		cfg.UTCOffset = offset
	}
	if grad, _ := cmd.Flags().GetString("graduation"); grad != "" {
		in, err := date.Parse(grad)
		if err != nil {
			return clierr.New(clierr.InvalidDate, err.Error()).WithDetails(map[string]any{"value": grad})
		}
		cfg.Graduation = in
		// The final season ends at graduation.
		last := &cfg.Milestones[len(cfg.Milestones)-1]
		last.End = &in
	}

	if err := cfg.Validate(); err != nil {
		return clierr.New(clierr.InvalidConfig, err.Error())
	}

	const dirMode = 0o750
	if err := os.MkdirAll(absDir, dirMode); err != nil {
		return fmt.Errorf("creating directory: %w", err)
	}
	if err := cfg.Save(); err != nil {
		return fmt.Errorf("writing config: %w", err)
	}

	w := cmd.OutOrStdout()
	if outputFormat() == output.FormatJSON {
		return output.JSON(w, map[string]any{
			"status":     "initialized",
			"dir":        absDir,
			"config":     cfg.ConfigPath(),
			"graduation": cfg.GraduationTime(),
			"milestones": cfg.MilestoneIDs(),
		})
	}

	output.Messagef(w, "Initialized gradwatch in %s", absDir)
	output.Messagef(w, "  Config:     %s", cfg.ConfigPath())
	output.Messagef(w, "  Graduation: %s", cfg.GraduationTime().Format("January 2, 2006 15:04 MST"))
	output.Messagef(w, "  Hint:       Edit milestones in config.yml; the dashboard reloads on save.")
	return nil
}
