package schedule

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"
)

func TestSeasonCode(t *testing.T) {
	t.Parallel()

	tests := []struct {
		now  time.Time
		want string
	}{
		{time.Date(2025, 10, 1, 0, 0, 0, 0, time.UTC), "20252026"},
		{time.Date(2026, 3, 15, 0, 0, 0, 0, time.UTC), "20252026"},
		{time.Date(2026, 6, 30, 23, 0, 0, 0, time.UTC), "20252026"},
		{time.Date(2026, 7, 1, 0, 0, 0, 0, time.UTC), "20262027"},
	}
	for _, tt := range tests {
		t.Run(tt.now.Format(time.DateOnly), func(t *testing.T) {
			t.Parallel()
			if got := SeasonCode(tt.now); got != tt.want {
				t.Errorf("SeasonCode(%s) = %q, want %q", tt.now, got, tt.want)
			}
		})
	}
}

func TestClient_URL(t *testing.T) {
	t.Parallel()

	direct := NewClient("https://api-web.nhle.com/v1/", "", nil)
	if got, want := direct.URL("NYI", "20252026"), "https://api-web.nhle.com/v1/club-schedule-season/NYI/20252026"; got != want {
		t.Errorf("URL() = %q, want %q", got, want)
	}

	proxied := NewClient("https://api-web.nhle.com/v1", "https://api.allorigins.win/raw?url=", nil)
	want := "https://api.allorigins.win/raw?url=https%3A%2F%2Fapi-web.nhle.com%2Fv1%2Fclub-schedule-season%2FNYI%2F20252026"
	if got := proxied.URL("NYI", "20252026"); got != want {
		t.Errorf("proxied URL() = %q, want %q", got, want)
	}
}

func TestClient_Fetch(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/v1/club-schedule-season/NYI/20252026" {
			http.NotFound(w, r)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(sampleBody))
	}))
	t.Cleanup(srv.Close)

	c := NewClient(srv.URL+"/v1", "", nil)
	raw, err := c.Fetch(context.Background(), "NYI", "20252026")
	if err != nil {
		t.Fatalf("Fetch() = %v", err)
	}
	if len(raw) != 5 {
		t.Fatalf("len(raw) = %d, want 5", len(raw))
	}
	if raw[0].HomeTeam.Abbrev != "NYR" || string(raw[0].Venue) != "Madison Square Garden" {
		t.Errorf("raw[0] = %+v", raw[0])
	}
}

func TestClient_FetchErrors(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		status  int
		body    string
		wantMsg string
	}{
		{name: "server error", status: http.StatusBadGateway, body: "upstream down", wantMsg: "HTTP 502"},
		{name: "bad json", status: http.StatusOK, body: "{", wantMsg: "decode"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
				w.WriteHeader(tt.status)
				_, _ = w.Write([]byte(tt.body))
			}))
			t.Cleanup(srv.Close)

			_, err := NewClient(srv.URL, "", nil).Fetch(context.Background(), "NYI", "20252026")
			if err == nil || !strings.Contains(err.Error(), tt.wantMsg) {
				t.Errorf("Fetch() = %v, want error containing %q", err, tt.wantMsg)
			}
		})
	}
}
