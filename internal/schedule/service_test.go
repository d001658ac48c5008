package schedule

import (
	"context"
	"encoding/json"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/twiced-technology-gmbh/gradwatch/internal/kvcache"
)

type fakeFetcher struct {
	raw    []RawGame
	err    error
	calls  int
	season string
}

func (f *fakeFetcher) Fetch(_ context.Context, _, season string) ([]RawGame, error) {
	f.calls++
	f.season = season
	return f.raw, f.err
}

func newTestService(t *testing.T, f Fetcher) (*Service, kvcache.Cache) {
	t.Helper()
	cache, err := kvcache.NewFile(filepath.Join(t.TempDir(), "cache.json"))
	if err != nil {
		t.Fatal(err)
	}
	return NewService(f, cache, Options{Team: "NYI", HomeVenue: "UBS Arena"}, nil), cache
}

func oneGame() []RawGame {
	return []RawGame{{
		ID:           9,
		StartTimeUTC: "2026-01-20T00:00:00Z",
		HomeTeam:     &RawTeam{Abbrev: "NYI"},
		AwayTeam:     &RawTeam{Abbrev: "NJD", CommonName: "Devils"},
	}}
}

func TestService_FetchThenCache(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	now := time.Date(2026, 1, 10, 12, 0, 0, 0, time.UTC)
	f := &fakeFetcher{raw: oneGame()}
	svc, _ := newTestService(t, f)

	first, err := svc.Load(ctx, now, false)
	if err != nil {
		t.Fatalf("Load() = %v", err)
	}
	if first.Source != SourceNetwork || len(first.Games) != 1 {
		t.Fatalf("first Load = %+v, want one game from network", first)
	}
	if f.season != "20252026" {
		t.Errorf("season = %q, want 20252026", f.season)
	}

	second, err := svc.Load(ctx, now.Add(time.Hour), false)
	if err != nil {
		t.Fatalf("second Load() = %v", err)
	}
	if second.Source != SourceCache || f.calls != 1 {
		t.Errorf("second Load source = %s, calls = %d; want cache and 1 call", second.Source, f.calls)
	}
	if !second.FetchedAt.Equal(now) {
		t.Errorf("FetchedAt = %s, want %s", second.FetchedAt, now)
	}
	if second.Games[0].Opponent != "Devils" {
		t.Errorf("cached opponent = %q", second.Games[0].Opponent)
	}

	if _, err := svc.Load(ctx, now.Add(time.Hour), true); err != nil || f.calls != 2 {
		t.Errorf("refresh Load err = %v, calls = %d; want a second fetch", err, f.calls)
	}
}

func TestService_ExpiredEntryIsRefetched(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	now := time.Date(2026, 1, 10, 12, 0, 0, 0, time.UTC)
	f := &fakeFetcher{raw: oneGame()}
	svc, cache := newTestService(t, f)

	if _, err := svc.Load(ctx, now, false); err != nil {
		t.Fatal(err)
	}

	f.err = errors.New("offline")
	_, err := svc.Load(ctx, now.Add(DefaultTTL+time.Second), false)
	if err == nil {
		t.Fatal("Load() after expiry with failing fetch = nil error")
	}
	if _, err := cache.Get(ctx, svc.CacheKey()); !errors.Is(err, kvcache.ErrMiss) {
		t.Errorf("expired entry still cached: %v", err)
	}
}

func TestService_StaleFallback(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	now := time.Date(2026, 1, 10, 12, 0, 0, 0, time.UTC)
	f := &fakeFetcher{raw: oneGame()}
	svc, _ := newTestService(t, f)

	if _, err := svc.Load(ctx, now, false); err != nil {
		t.Fatal(err)
	}

	f.err = errors.New("HTTP 503")
	res, err := svc.Load(ctx, now.Add(time.Minute), true)
	if err == nil {
		t.Fatal("Load(refresh) with failing fetch = nil error")
	}
	if !res.Stale || len(res.Games) != 1 {
		t.Errorf("Load() = %+v, want stale cached games", res)
	}
}

func TestService_MalformedEntryDropped(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	f := &fakeFetcher{err: errors.New("offline")}
	svc, cache := newTestService(t, f)

	for _, payload := range []string{`not json`, `{"timestamp":0,"games":[]}`, `{"timestamp":5}`} {
		if err := cache.Set(ctx, svc.CacheKey(), []byte(payload)); err != nil {
			t.Fatal(err)
		}
		if _, err := svc.Load(ctx, time.Now(), false); err == nil {
			t.Errorf("Load() with %s = nil error, want fetch error", payload)
		}
		if _, err := cache.Get(ctx, svc.CacheKey()); !errors.Is(err, kvcache.ErrMiss) {
			t.Errorf("malformed entry %s not deleted", payload)
		}
	}
}

func TestService_CachePayloadShape(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	now := time.Date(2026, 1, 10, 12, 0, 0, 0, time.UTC)
	svc, cache := newTestService(t, &fakeFetcher{raw: oneGame()})
	if _, err := svc.Load(ctx, now, false); err != nil {
		t.Fatal(err)
	}

	data, err := cache.Get(ctx, "schedule:NYI:v1")
	if err != nil {
		t.Fatal(err)
	}
	var payload map[string]json.RawMessage
	if err := json.Unmarshal(data, &payload); err != nil {
		t.Fatal(err)
	}
	if string(payload["timestamp"]) != "1768046400000" {
		t.Errorf("timestamp = %s, want unix ms of now", payload["timestamp"])
	}
	if _, ok := payload["games"]; !ok {
		t.Error("payload has no games")
	}
}

func TestService_NoCache(t *testing.T) {
	t.Parallel()

	f := &fakeFetcher{raw: oneGame()}
	svc := NewService(f, nil, Options{Team: "NYI"}, nil)
	for range 2 {
		if _, err := svc.Load(context.Background(), time.Now(), false); err != nil {
			t.Fatal(err)
		}
	}
	if f.calls != 2 {
		t.Errorf("calls = %d, want 2 without a cache", f.calls)
	}
}
