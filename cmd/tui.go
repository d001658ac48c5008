package cmd

import (
	"context"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/twiced-technology-gmbh/gradwatch/internal/config"
	"github.com/twiced-technology-gmbh/gradwatch/internal/tui"
	"github.com/twiced-technology-gmbh/gradwatch/internal/watcher"
)

var tuiCmd = &cobra.Command{
	Use:   "tui",
	Short: "Open the live dashboard",
	Args:  cobra.NoArgs,
	RunE:  runTUI,
}

func init() {
	rootCmd.AddCommand(tuiCmd)
}

func runTUI(_ *cobra.Command, _ []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	log := newLogger(cfg)
	defer func() { _ = log.Sync() }()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	opts := tui.Options{
		Config: cfg,
		Reload: func() (*config.Config, error) { return config.Load(cfg.Dir()) },
		Clock:  appClock,
		Log:    log,
	}
	if cfg.Schedule.Enabled {
		svc, closeCache := newScheduleService(ctx, cfg, log)
		defer closeCache()
		opts.Schedule = svc
	}

	model := tui.NewDashboard(opts)
	p := tea.NewProgram(model, tea.WithAltScreen())

	go startTUIWatcher(ctx, model, p, log)

	log.Info("dashboard started", zap.String("dir", cfg.Dir()))
	_, err = p.Run()
	return err
}

func startTUIWatcher(ctx context.Context, model *tui.Dashboard, p *tea.Program, log *zap.Logger) {
	w, err := watcher.New(model.WatchPath(), func() {
		p.Send(tui.ReloadMsg{})
	})
	if err != nil {
		log.Warn("config watcher unavailable", zap.Error(err))
		return // non-fatal: the dashboard works without live reload
	}
	defer w.Close()
	w.Run(ctx, func(err error) { log.Warn("config watcher error", zap.Error(err)) })
}
