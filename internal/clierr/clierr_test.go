package clierr

import (
	"errors"
	"fmt"
	"testing"
)

func TestExitCode(t *testing.T) {
	t.Parallel()

	tests := []struct {
		code string
		want int
	}{
		{InternalError, 2},
		{ConfigNotFound, 1},
		{ScheduleUnavailable, 1},
	}
	for _, tt := range tests {
		t.Run(tt.code, func(t *testing.T) {
			t.Parallel()
			if got := New(tt.code, "x").ExitCode(); got != tt.want {
				t.Errorf("ExitCode() = %d, want %d", got, tt.want)
			}
		})
	}
}

func TestAs(t *testing.T) {
	t.Parallel()

	wrapped := fmt.Errorf("loading: %w", Newf(MilestoneNotFound, "milestone %q not found", "x"))
	if got := As(wrapped); got.Code != MilestoneNotFound {
		t.Errorf("As(wrapped).Code = %q, want %q", got.Code, MilestoneNotFound)
	}

	plain := As(errors.New("boom"))
	if plain.Code != InternalError || plain.Message != "boom" {
		t.Errorf("As(plain) = %+v, want INTERNAL_ERROR boom", plain)
	}
}

func TestWithDetails(t *testing.T) {
	t.Parallel()

	e := New(InvalidInput, "bad").WithDetails(map[string]any{"flag": "at"})
	if e.Details["flag"] != "at" {
		t.Errorf("Details = %v, want flag=at", e.Details)
	}
	if e.Error() != "bad" {
		t.Errorf("Error() = %q, want %q", e.Error(), "bad")
	}
}
