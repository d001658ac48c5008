// Package tui implements the live graduation dashboard.
package tui

import (
	"context"
	"errors"
	"time"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/progress"
	tea "github.com/charmbracelet/bubbletea"
	"go.uber.org/zap"

	"github.com/twiced-technology-gmbh/gradwatch/internal/clock"
	"github.com/twiced-technology-gmbh/gradwatch/internal/config"
	"github.com/twiced-technology-gmbh/gradwatch/internal/schedule"
	"github.com/twiced-technology-gmbh/gradwatch/internal/share"
	"github.com/twiced-technology-gmbh/gradwatch/internal/timeline"
)

const (
	scheduleTimeout = 15 * time.Second
	flashDuration   = 3 * time.Second
	maxBarWidth     = 60
)

// ScheduleLoader loads the team schedule. *schedule.Service implements it.
type ScheduleLoader interface {
	Load(ctx context.Context, now time.Time, refresh bool) (schedule.Result, error)
}

// Options configures a Dashboard.
type Options struct {
	Config *config.Config
	// Schedule is nil when the schedule widget is disabled.
	Schedule ScheduleLoader
	// Reload re-reads the config after a file change. Nil ignores ReloadMsg.
	Reload func() (*config.Config, error)
	// Copy puts text on the clipboard. Defaults to share.Copy.
	Copy  func(string) error
	Clock clock.Clock
	Log   *zap.Logger
}

// Dashboard is the top-level bubbletea model.
type Dashboard struct {
	cfg   *config.Config
	tl    *timeline.Timeline
	sel   timeline.Selection
	snap  timeline.Snapshot
	clock clock.Clock
	keys  keyMap
	log   *zap.Logger

	width   int
	height  int
	ticking bool
	overall progress.Model
	card    progress.Model

	sched        ScheduleLoader
	schedResult  schedule.Result
	schedErr     error
	schedLoading bool
	schedLoaded  bool
	// nextStart is the start of the next game at the last load; reaching
	// it triggers a reload.
	nextStart time.Time

	reload func() (*config.Config, error)
	copy   func(string) error

	flash      string
	flashUntil time.Time
	flashSeq   int
	err        error
}

// NewDashboard creates a Dashboard evaluated at the clock's current instant.
func NewDashboard(opts Options) *Dashboard {
	d := &Dashboard{
		cfg:     opts.Config,
		tl:      opts.Config.Timeline(),
		clock:   opts.Clock,
		keys:    newKeyMap(),
		log:     opts.Log,
		sched:   opts.Schedule,
		reload:  opts.Reload,
		copy:    opts.Copy,
		overall: progress.New(progress.WithDefaultGradient(), progress.WithoutPercentage()),
		card:    progress.New(progress.WithSolidFill("33"), progress.WithoutPercentage()),
	}
	if d.clock == nil {
		d.clock = clock.Real{}
	}
	if d.log == nil {
		d.log = zap.NewNop()
	}
	if d.copy == nil {
		d.copy = share.Copy
	}
	d.evaluate(d.clock.Now())
	return d
}

// Snapshot returns the most recent evaluation.
func (d *Dashboard) Snapshot() timeline.Snapshot {
	return d.snap
}

// Err returns the last error shown in the status bar.
func (d *Dashboard) Err() error {
	return d.err
}

// WatchPath returns the file whose changes should send a ReloadMsg.
func (d *Dashboard) WatchPath() string {
	return d.cfg.ConfigPath()
}

// --- Messages ---

// ReloadMsg is sent by the file watcher when the config changes.
type ReloadMsg struct{}

// TickMsg re-evaluates the dashboard.
type TickMsg struct{}

// flashExpiredMsg clears the flash it was scheduled for.
type flashExpiredMsg struct{ seq int }

type scheduleMsg struct {
	result schedule.Result
	err    error
}

func tickCmd() tea.Cmd {
	return tea.Tick(clock.DefaultInterval, func(time.Time) tea.Msg { return TickMsg{} })
}

func (d *Dashboard) loadScheduleCmd(refresh bool) tea.Cmd {
	if d.sched == nil || d.schedLoading {
		return nil
	}
	d.schedLoading = true
	loader, now := d.sched, d.clock.Now()
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), scheduleTimeout)
		defer cancel()
		res, err := loader.Load(ctx, now, refresh)
		return scheduleMsg{result: res, err: err}
	}
}

// Init implements tea.Model.
func (d *Dashboard) Init() tea.Cmd {
	return tea.Batch(d.startTicking(), d.loadScheduleCmd(false))
}

// startTicking schedules the next tick unless one is pending or the
// graduation instant has been reached.
func (d *Dashboard) startTicking() tea.Cmd {
	if d.ticking || d.snap.Terminal() {
		return nil
	}
	d.ticking = true
	return tickCmd()
}

// Update implements tea.Model.
func (d *Dashboard) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return d.handleKey(msg)
	case tea.WindowSizeMsg:
		d.width = msg.Width
		d.height = msg.Height
		w := min(max(msg.Width-labelColumn-12, 10), maxBarWidth) //nolint:mnd // room for the percent label
		d.overall.Width = w
		d.card.Width = w
		return d, nil
	case TickMsg:
		d.ticking = false
		now := d.clock.Now()
		d.evaluate(now)
		cmds := []tea.Cmd{d.startTicking()}
		if !d.nextStart.IsZero() && !now.Before(d.nextStart) {
			d.nextStart = time.Time{}
			cmds = append(cmds, d.loadScheduleCmd(true))
		}
		return d, tea.Batch(cmds...)
	case ReloadMsg:
		return d, d.handleReload()
	case scheduleMsg:
		d.handleSchedule(msg)
		return d, nil
	case flashExpiredMsg:
		if msg.seq == d.flashSeq {
			d.flash = ""
		}
		return d, nil
	}
	return d, nil
}

func (d *Dashboard) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, d.keys.quit):
		return d, tea.Quit
	case key.Matches(msg, d.keys.prev):
		d.step(-1)
	case key.Matches(msg, d.keys.next):
		d.step(1)
	case key.Matches(msg, d.keys.copy):
		return d, d.copyShare()
	case key.Matches(msg, d.keys.refresh):
		if d.sched == nil {
			return d, d.setFlash("Schedule widget is disabled")
		}
		return d, d.loadScheduleCmd(true)
	default:
		if s := msg.String(); len(s) == 1 && s[0] >= '1' && s[0] <= '9' {
			d.selectIndex(int(s[0] - '1'))
		}
	}
	return d, nil
}

// step moves the selection by delta from the highlighted milestone.
func (d *Dashboard) step(delta int) {
	i := d.tl.Index(d.snap.ActiveID)
	if i < 0 {
		return
	}
	d.selectIndex(min(max(i+delta, 0), d.tl.Len()-1))
}

func (d *Dashboard) selectIndex(i int) {
	order := d.tl.Order()
	if i < 0 || i >= len(order) {
		return
	}
	if err := d.tl.Select(&d.sel, order[i]); err != nil {
		d.err = err
		return
	}
	d.evaluate(d.clock.Now())
}

func (d *Dashboard) copyShare() tea.Cmd {
	now := d.clock.Now()
	text, err := share.Render(d.cfg.Share.Template, share.NewData(d.cfg.GraduationTime(), now, d.cfg.Location()))
	if err == nil {
		err = d.copy(text)
	}
	if err != nil {
		d.log.Warn("copy share text failed", zap.Error(err))
		if errors.Is(err, share.ErrClipboardUnavailable) {
			return d.setFlash("Clipboard unavailable")
		}
		d.err = err
		return nil
	}
	d.err = nil
	return d.setFlash("Copied today's update")
}

func (d *Dashboard) handleReload() tea.Cmd {
	if d.reload == nil {
		return nil
	}
	cfg, err := d.reload()
	if err != nil {
		d.log.Warn("config reload failed", zap.Error(err))
		d.err = err
		return nil
	}
	d.cfg = cfg
	d.tl = cfg.Timeline()
	if id, ok := d.sel.ID(); ok && d.tl.Index(id) < 0 {
		d.sel.Clear()
	}
	d.err = nil
	d.evaluate(d.clock.Now())
	d.log.Info("config reloaded", zap.Int("milestones", d.tl.Len()))
	return tea.Batch(d.setFlash("Config reloaded"), d.startTicking())
}

func (d *Dashboard) handleSchedule(msg scheduleMsg) {
	d.schedLoading = false
	d.schedLoaded = true
	d.schedErr = msg.err
	if msg.err != nil {
		d.log.Warn("schedule load failed", zap.Bool("stale", msg.result.Stale), zap.Error(msg.err))
	}
	if msg.err == nil || msg.result.Stale {
		d.schedResult = msg.result
	}
	d.nextStart = time.Time{}
	if next, ok := schedule.Next(d.schedResult.Games, d.clock.Now()); ok {
		d.nextStart = next.Start
	}
}

func (d *Dashboard) evaluate(now time.Time) {
	d.snap = d.tl.Snapshot(now, &d.sel)
}

// setFlash shows s in the status bar and returns the command that clears
// it, so it expires even after ticking has stopped.
func (d *Dashboard) setFlash(s string) tea.Cmd {
	d.flashSeq++
	d.flash = s
	d.flashUntil = d.clock.Now().Add(flashDuration)
	seq := d.flashSeq
	return tea.Tick(flashDuration, func(time.Time) tea.Msg { return flashExpiredMsg{seq: seq} })
}
