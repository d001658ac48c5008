package date

import (
	"encoding/json"
	"testing"
	"time"

	"go.yaml.in/yaml/v3"
)

func TestParse(t *testing.T) {
	t.Parallel()

	eastern := time.FixedZone("-04:00", -4*60*60)

	tests := []struct {
		in       string
		wantErr  bool
		dateOnly bool
		want     time.Time
	}{
		{in: "2025-09-02", dateOnly: true, want: time.Date(2025, 9, 2, 0, 0, 0, 0, eastern)},
		{in: "2026-06-24T23:59:59-04:00", want: time.Date(2026, 6, 24, 23, 59, 59, 0, eastern)},
		{in: "2028-06-18T04:00:00Z", want: time.Date(2028, 6, 18, 0, 0, 0, 0, eastern)},
		{in: "06/18/2028", wantErr: true},
		{in: "", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			t.Parallel()
			got, err := Parse(tt.in)
			if (err != nil) != tt.wantErr {
				t.Fatalf("Parse(%q) error = %v, wantErr %v", tt.in, err, tt.wantErr)
			}
			if tt.wantErr {
				return
			}
			if got.DateOnly() != tt.dateOnly {
				t.Errorf("DateOnly() = %v, want %v", got.DateOnly(), tt.dateOnly)
			}
			if !got.In(eastern).Equal(tt.want) {
				t.Errorf("In(eastern) = %s, want %s", got.In(eastern), tt.want)
			}
		})
	}
}

func TestInstant_RoundTrip(t *testing.T) {
	t.Parallel()

	type doc struct {
		Start Instant `yaml:"start" json:"start"`
	}

	for _, raw := range []string{"2025-09-02", "2026-06-24T23:59:59-04:00"} {
		in, err := Parse(raw)
		if err != nil {
			t.Fatal(err)
		}

		out, err := yaml.Marshal(doc{Start: in})
		if err != nil {
			t.Fatal(err)
		}
		var back doc
		if err := yaml.Unmarshal(out, &back); err != nil {
			t.Fatal(err)
		}
		if back.Start.String() != raw {
			t.Errorf("yaml round trip = %q, want %q", back.Start.String(), raw)
		}

		js, err := json.Marshal(doc{Start: in})
		if err != nil {
			t.Fatal(err)
		}
		if err := json.Unmarshal(js, &back); err != nil {
			t.Fatal(err)
		}
		if back.Start.String() != raw {
			t.Errorf("json round trip = %q, want %q", back.Start.String(), raw)
		}
	}
}

func TestParseOffset(t *testing.T) {
	t.Parallel()

	tests := []struct {
		in      string
		wantSec int
		wantErr bool
	}{
		{in: "-04:00", wantSec: -4 * 3600},
		{in: "+05:30", wantSec: 5*3600 + 30*60},
		{in: "Z", wantSec: 0},
		{in: "", wantSec: 0},
		{in: "EST", wantErr: true},
		{in: "-4", wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			t.Parallel()
			loc, err := ParseOffset(tt.in)
			if (err != nil) != tt.wantErr {
				t.Fatalf("ParseOffset(%q) error = %v, wantErr %v", tt.in, err, tt.wantErr)
			}
			if tt.wantErr {
				return
			}
			_, off := time.Date(2026, 1, 1, 0, 0, 0, 0, loc).Zone()
			if off != tt.wantSec {
				t.Errorf("offset = %d, want %d", off, tt.wantSec)
			}
		})
	}
}
