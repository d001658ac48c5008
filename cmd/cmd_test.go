package cmd

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/twiced-technology-gmbh/gradwatch/internal/clierr"
	"github.com/twiced-technology-gmbh/gradwatch/internal/clock"
	"github.com/twiced-technology-gmbh/gradwatch/internal/config"
	"github.com/twiced-technology-gmbh/gradwatch/internal/output"
	"github.com/twiced-technology-gmbh/gradwatch/internal/share"
)

// Commands share package-level flag state, so these tests run sequentially.

var edt = time.FixedZone("EDT", -4*60*60)

func TestMain(m *testing.M) {
	output.DisableColor()
	isTerminal = func() bool { return false }
	os.Exit(m.Run())
}

func resetFlags(c *cobra.Command) {
	c.Flags().VisitAll(func(f *pflag.Flag) {
		_ = f.Value.Set(f.DefValue)
		f.Changed = false
	})
	for _, sub := range c.Commands() {
		resetFlags(sub)
	}
}

// execute runs the CLI with args and returns stdout.
func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	resetFlags(rootCmd)
	flagJSON, flagTable, flagCompact, flagNoColor, flagVerbose = false, false, false, false, false
	flagDir = ""

	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(io.Discard)
	rootCmd.SetArgs(args)
	err := rootCmd.Execute()
	return out.String(), err
}

func setClock(t *testing.T, now time.Time) {
	t.Helper()
	prev := appClock
	appClock = clock.Fixed(now)
	t.Cleanup(func() { appClock = prev })
}

// initDir creates a default config in a temp dir and returns the dir.
func initDir(t *testing.T) string {
	t.Helper()
	dir := filepath.Join(t.TempDir(), ".gradwatch")
	if _, err := execute(t, "init", "--dir", dir); err != nil {
		t.Fatalf("init: %v", err)
	}
	return dir
}

func wantCode(t *testing.T, err error, code string) {
	t.Helper()
	if err == nil {
		t.Fatalf("error = nil, want %s", code)
	}
	var ce *clierr.Error
	if !errors.As(err, &ce) {
		t.Fatalf("error = %v (%T), want *clierr.Error %s", err, err, code)
	}
	if ce.Code != code {
		t.Errorf("error code = %s, want %s (%s)", ce.Code, code, ce.Message)
	}
}

func TestInit(t *testing.T) { //nolint:paralleltest // shared CLI state
	dir := initDir(t)

	cfg, err := config.Load(dir)
	if err != nil {
		t.Fatalf("Load() after init: %v", err)
	}
	if got := strings.Join(cfg.MilestoneIDs(), ","); got != "current,next,final" {
		t.Errorf("milestones = %s, want current,next,final", got)
	}

	_, err = execute(t, "init", "--dir", dir)
	wantCode(t, err, clierr.ConfigExists)
}

func TestInit_Flags(t *testing.T) { //nolint:paralleltest // shared CLI state
	dir := filepath.Join(t.TempDir(), "custom")
	out, err := execute(t, "init", "--dir", dir, "--title", "Class of 2028",
		"--graduation", "2028-06-20", "--utc_offset", "-05:00", "--json")
	if err != nil {
		t.Fatalf("init: %v", err)
	}
	if !strings.Contains(out, `"status": "initialized"`) {
		t.Errorf("init output = %s", out)
	}

	cfg, err := config.Load(dir)
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Title != "Class of 2028" || cfg.UTCOffset != "-05:00" {
		t.Errorf("title, offset = %q, %q", cfg.Title, cfg.UTCOffset)
	}
	want := time.Date(2028, 6, 20, 0, 0, 0, 0, time.FixedZone("", -5*60*60))
	if got := cfg.GraduationTime(); !got.Equal(want) {
		t.Errorf("graduation = %s, want %s", got, want)
	}

	_, err = execute(t, "init", "--dir", filepath.Join(t.TempDir(), "bad"), "--graduation", "June 20")
	wantCode(t, err, clierr.InvalidDate)
}

func TestStatus(t *testing.T) { //nolint:paralleltest // shared CLI state
	dir := initDir(t)
	setClock(t, time.Date(2026, 1, 1, 0, 0, 0, 0, edt))

	out, err := execute(t, "status", "--dir", dir, "--json")
	if err != nil {
		t.Fatalf("status: %v", err)
	}
	var got struct {
		ActiveID string `json:"active_id"`
		Overall  struct {
			Percent int `json:"percent"`
		} `json:"overall"`
		Countdown struct {
			Days int `json:"days"`
		} `json:"countdown"`
		Milestones []struct {
			ID    string `json:"id"`
			State struct {
				Status string `json:"status"`
			} `json:"state"`
		} `json:"milestones"`
	}
	if err := json.Unmarshal([]byte(out), &got); err != nil {
		t.Fatalf("invalid JSON: %v\n%s", err, out)
	}
	if got.ActiveID != "current" || got.Overall.Percent != 35 || got.Countdown.Days != 899 {
		t.Errorf("status = %+v", got)
	}
	if len(got.Milestones) != 3 || got.Milestones[0].State.Status != "active" {
		t.Errorf("milestones = %+v", got.Milestones)
	}

	// The root command prints the same snapshot when stdout is not a terminal.
	rootOut, err := execute(t, "--dir", dir, "--compact")
	if err != nil {
		t.Fatalf("root: %v", err)
	}
	if !strings.HasPrefix(rootOut, "899d 00h 00m 00s to graduation | 35%") {
		t.Errorf("root output = %q", rootOut)
	}
}

func TestStatus_Options(t *testing.T) { //nolint:paralleltest // shared CLI state
	dir := initDir(t)
	setClock(t, time.Date(2026, 1, 1, 0, 0, 0, 0, edt))

	out, err := execute(t, "status", "--dir", dir, "--compact", "--milestone", "final")
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(out, "* final [upcoming]") {
		t.Errorf("pinned milestone not marked:\n%s", out)
	}

	out, err = execute(t, "status", "--dir", dir, "--compact", "--at", "2029-01-01")
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(out, "Mission Complete") {
		t.Errorf("status after graduation:\n%s", out)
	}

	tests := []struct {
		name string
		args []string
		code string
	}{
		{name: "unknown milestone", args: []string{"--milestone", "nope"}, code: clierr.MilestoneNotFound},
		{name: "bad instant", args: []string{"--at", "tomorrow"}, code: clierr.InvalidDate},
		{name: "watch with at", args: []string{"--watch", "--at", "2026-01-01"}, code: clierr.InvalidInput},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := execute(t, append([]string{"status", "--dir", dir}, tt.args...)...)
			wantCode(t, err, tt.code)
		})
	}
}

func TestStatus_WatchStopsAtGraduation(t *testing.T) { //nolint:paralleltest // shared CLI state
	dir := initDir(t)
	setClock(t, time.Date(2028, 6, 18, 0, 0, 0, 0, edt))

	out, err := execute(t, "status", "--dir", dir, "--compact", "--watch")
	if err != nil {
		t.Fatalf("status --watch: %v", err)
	}
	if got := strings.Count(out, "to graduation"); got != 1 {
		t.Errorf("renders = %d, want 1 at the terminal instant", got)
	}
}

func TestMilestones(t *testing.T) { //nolint:paralleltest // shared CLI state
	dir := initDir(t)
	setClock(t, time.Date(2026, 7, 15, 0, 0, 0, 0, edt))

	out, err := execute(t, "milestones", "--dir", dir)
	if err != nil {
		t.Fatal(err)
	}
	for _, want := range []string{"Complete", "▸ next", "Final stretch", "Starts in 55 days"} {
		if !strings.Contains(out, want) {
			t.Errorf("milestones output missing %q:\n%s", want, out)
		}
	}

	out, err = execute(t, "milestones", "final", "--dir", dir)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(out, "Senior Year Faceoff") || !strings.Contains(out, "September 7, 2027 – June 18, 2028") {
		t.Errorf("milestone detail:\n%s", out)
	}

	_, err = execute(t, "milestones", "nope", "--dir", dir)
	wantCode(t, err, clierr.MilestoneNotFound)
}

func TestCountdown(t *testing.T) { //nolint:paralleltest // shared CLI state
	dir := initDir(t)

	out, err := execute(t, "countdown", "2026-01-02T06:30:00-04:00", "--at", "2026-01-01", "--dir", dir, "--json")
	if err != nil {
		t.Fatal(err)
	}
	var got output.Countdown
	if err := json.Unmarshal([]byte(out), &got); err != nil {
		t.Fatalf("invalid JSON: %v\n%s", err, out)
	}
	if got.Remaining.Days != 1 || got.Remaining.Hours != 6 || got.Remaining.Minutes != 30 {
		t.Errorf("remaining = %+v", got.Remaining)
	}
	if got.Totals.Hours != 30 || got.Label != "Until January 2, 2026" {
		t.Errorf("countdown = %+v", got)
	}

	_, err = execute(t, "countdown", "soon", "--dir", dir)
	wantCode(t, err, clierr.InvalidDate)
}

func TestShare(t *testing.T) { //nolint:paralleltest // shared CLI state
	dir := initDir(t)

	var copied string
	prev := copyText
	t.Cleanup(func() { copyText = prev })
	copyText = func(s string) error { copied = s; return nil }

	out, err := execute(t, "share", "--dir", dir, "--at", "2025-01-15T12:00:00-04:00", "--copy")
	if err != nil {
		t.Fatal(err)
	}
	for _, want := range []string{"January 15, 2025", "only 1,249 days left", "3.42 years", "41.0 months"} {
		if !strings.Contains(out, want) {
			t.Errorf("share text missing %q: %s", want, out)
		}
	}
	if copied != strings.TrimSuffix(out, "\n") {
		t.Errorf("copied = %q, want the printed text", copied)
	}

	copyText = func(string) error { return share.ErrClipboardUnavailable }
	_, err = execute(t, "share", "--dir", dir, "--copy")
	wantCode(t, err, clierr.ClipboardUnavailable)
}

func TestConfig(t *testing.T) { //nolint:paralleltest // shared CLI state
	dir := initDir(t)

	out, err := execute(t, "config", "get", "schedule.team", "--dir", dir)
	if err != nil || strings.TrimSpace(out) != "NYI" {
		t.Fatalf("config get = %q, %v", out, err)
	}

	if _, err := execute(t, "config", "set", "title", "Escape Plan", "--dir", dir); err != nil {
		t.Fatal(err)
	}
	if _, err := execute(t, "config", "set", "schedule.team", "nyr", "--dir", dir); err != nil {
		t.Fatal(err)
	}
	cfg, err := config.Load(dir)
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Title != "Escape Plan" || cfg.Schedule.Team != "NYR" {
		t.Errorf("title, team = %q, %q", cfg.Title, cfg.Schedule.Team)
	}

	out, err = execute(t, "config", "--dir", dir)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(out, "milestones") || !strings.Contains(out, "current, next, final") {
		t.Errorf("config show:\n%s", out)
	}

	tests := []struct {
		name string
		args []string
		code string
	}{
		{name: "unknown key", args: []string{"get", "nope"}, code: clierr.InvalidInput},
		{name: "read-only", args: []string{"set", "version", "3"}, code: clierr.InvalidInput},
		{name: "bad offset", args: []string{"set", "utc_offset", "EST"}, code: clierr.InvalidInput},
		{name: "bad date", args: []string{"set", "graduation", "someday"}, code: clierr.InvalidDate},
		{name: "fails validation", args: []string{"set", "schedule.limit", "0"}, code: clierr.InvalidConfig},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			args := append(append([]string{"config"}, tt.args...), "--dir", dir)
			_, err := execute(t, args...)
			wantCode(t, err, tt.code)
		})
	}
}

func TestLoadConfig_Errors(t *testing.T) { //nolint:paralleltest // shared CLI state
	_, err := execute(t, "status", "--dir", t.TempDir())
	wantCode(t, err, clierr.ConfigNotFound)

	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, config.ConfigFileName), []byte("version: 2\nutc_offset: EST\n"), 0o600); err != nil {
		t.Fatal(err)
	}
	_, err = execute(t, "status", "--dir", dir)
	wantCode(t, err, clierr.InvalidConfig)
}

func TestLoadConfig_CreatesHomeDefault(t *testing.T) { //nolint:paralleltest // shared CLI state
	home := t.TempDir()
	t.Setenv("HOME", home)
	t.Chdir(home)
	setClock(t, time.Date(2026, 1, 1, 0, 0, 0, 0, edt))

	if _, err := execute(t, "status", "--compact"); err != nil {
		t.Fatalf("status: %v", err)
	}
	if _, err := os.Stat(filepath.Join(home, ".config", "gradwatch", config.ConfigFileName)); err != nil {
		t.Errorf("home config not created: %v", err)
	}
}

const scheduleBody = `{"games": [
  {"id": 1, "startTimeUTC": "2025-10-14T23:00:00Z", "gameState": "FUT",
   "homeTeam": {"abbrev": "NYI", "name": "New York Islanders"},
   "awayTeam": {"abbrev": "BOS", "fullName": "Boston Bruins"},
   "tvBroadcasts": [{"network": "MSGSN"}]},
  {"id": 2, "startTimeUTC": "2025-10-09T23:30:00Z", "gameState": "FINAL",
   "homeTeam": {"abbrev": "PIT", "name": "Pittsburgh Penguins"},
   "awayTeam": {"abbrev": "NYI", "name": "New York Islanders"}}
]}`

func TestSchedule(t *testing.T) { //nolint:paralleltest // shared CLI state
	dir := initDir(t)
	setClock(t, time.Date(2025, 10, 13, 12, 0, 0, 0, edt))

	var hits atomic.Int32
	var fail atomic.Bool
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
		if r.URL.Path != "/club-schedule-season/NYI/20252026" {
			http.NotFound(w, r)
			return
		}
		if fail.Load() {
			http.Error(w, "upstream down", http.StatusServiceUnavailable)
			return
		}
		fmt.Fprint(w, scheduleBody)
	}))
	defer srv.Close()

	if _, err := execute(t, "config", "set", "schedule.api_base", srv.URL, "--dir", dir); err != nil {
		t.Fatal(err)
	}

	out, err := execute(t, "schedule", "--dir", dir, "--json")
	if err != nil {
		t.Fatalf("schedule: %v", err)
	}
	var got struct {
		Source   string `json:"source"`
		Stale    bool   `json:"stale"`
		Upcoming []struct {
			Opponent string `json:"opponent"`
			Venue    string `json:"venue"`
		} `json:"upcoming"`
		Next *struct {
			Opponent string `json:"opponent"`
		} `json:"next"`
		Countdown *struct {
			Days  int `json:"days"`
			Hours int `json:"hours"`
		} `json:"next_countdown"`
	}
	if err := json.Unmarshal([]byte(out), &got); err != nil {
		t.Fatalf("invalid JSON: %v\n%s", err, out)
	}
	if got.Source != "network" || len(got.Upcoming) != 1 || got.Upcoming[0].Venue != "UBS Arena" {
		t.Errorf("schedule = %+v", got)
	}
	if got.Next == nil || got.Next.Opponent != "Boston Bruins" {
		t.Fatalf("next = %+v", got.Next)
	}
	if got.Countdown == nil || got.Countdown.Days != 1 || got.Countdown.Hours != 7 {
		t.Errorf("next countdown = %+v", got.Countdown)
	}

	// A fresh cache entry is served without a request.
	out, err = execute(t, "schedule", "--dir", dir, "--compact")
	if err != nil {
		t.Fatal(err)
	}
	if hits.Load() != 1 {
		t.Errorf("requests = %d, want 1 (second load from cache)", hits.Load())
	}
	if !strings.Contains(out, "next: vs Boston Bruins in 1d 07h 00m 00s") {
		t.Errorf("compact schedule:\n%s", out)
	}

	// A failed refresh falls back to the cached games.
	fail.Store(true)
	out, err = execute(t, "schedule", "--dir", dir, "--json", "--refresh")
	if err != nil {
		t.Fatalf("stale schedule: %v", err)
	}
	if !strings.Contains(out, `"stale": true`) {
		t.Errorf("refresh failure was not served stale:\n%s", out)
	}

	if err := os.Remove(filepath.Join(dir, config.DefaultFileCache)); err != nil {
		t.Fatal(err)
	}
	_, err = execute(t, "schedule", "--dir", dir)
	wantCode(t, err, clierr.ScheduleUnavailable)
}

func TestSchedule_Disabled(t *testing.T) { //nolint:paralleltest // shared CLI state
	dir := initDir(t)
	if _, err := execute(t, "config", "set", "schedule.enabled", "false", "--dir", dir); err != nil {
		t.Fatal(err)
	}
	_, err := execute(t, "schedule", "--dir", dir)
	wantCode(t, err, clierr.ScheduleUnavailable)
}

func TestReportError(t *testing.T) { //nolint:paralleltest // shared CLI state
	flagJSON = true
	t.Cleanup(func() { flagJSON = false })

	var stdout, stderr bytes.Buffer
	code := reportError(&stdout, &stderr, clierr.New(clierr.MilestoneNotFound, `milestone "x" not found`))
	if code != 1 {
		t.Errorf("exit code = %d, want 1", code)
	}
	var resp output.ErrorResponse
	if err := json.Unmarshal(stdout.Bytes(), &resp); err != nil || resp.Code != clierr.MilestoneNotFound {
		t.Errorf("envelope = %s (%v)", stdout.String(), err)
	}

	flagJSON = false
	stdout.Reset()
	if code := reportError(&stdout, &stderr, errors.New("boom")); code != 2 {
		t.Errorf("exit code = %d, want 2 for internal errors", code)
	}
	if stdout.Len() != 0 || !strings.Contains(stderr.String(), "Error: boom") {
		t.Errorf("stdout = %q, stderr = %q", stdout.String(), stderr.String())
	}
}
