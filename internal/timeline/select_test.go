package timeline

import (
	"errors"
	"testing"
)

func TestSelectActive(t *testing.T) {
	t.Parallel()

	order := []string{"current", "next", "final"}
	up := State{Status: StatusUpcoming}
	act := State{Status: StatusActive}
	done := State{Status: StatusComplete}

	tests := []struct {
		name     string
		states   map[string]State
		override string
		order    []string
		wantID   string
		wantOK   bool
	}{
		{
			name:   "first active wins",
			states: map[string]State{"current": done, "next": act, "final": up},
			order:  order,
			wantID: "next",
			wantOK: true,
		},
		{
			name:   "active beats an earlier upcoming",
			states: map[string]State{"current": up, "next": act, "final": up},
			order:  order,
			wantID: "next",
			wantOK: true,
		},
		{
			name:   "first upcoming when nothing is active",
			states: map[string]State{"current": done, "next": up, "final": up},
			order:  order,
			wantID: "next",
			wantOK: true,
		},
		{
			name:   "last milestone when everything is complete",
			states: map[string]State{"current": done, "next": done, "final": done},
			order:  order,
			wantID: "final",
			wantOK: true,
		},
		{
			name:     "override wins over active",
			states:   map[string]State{"current": act, "next": up, "final": up},
			override: "final",
			order:    order,
			wantID:   "final",
			wantOK:   true,
		},
		{
			name:     "override may pin a completed milestone",
			states:   map[string]State{"current": done, "next": act, "final": up},
			override: "current",
			order:    order,
			wantID:   "current",
			wantOK:   true,
		},
		{
			name:   "empty timeline has no selection",
			states: map[string]State{},
			order:  nil,
			wantOK: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			id, ok := SelectActive(tt.states, tt.override, tt.order)
			if ok != tt.wantOK || id != tt.wantID {
				t.Errorf("SelectActive = (%q, %v), want (%q, %v)", id, ok, tt.wantID, tt.wantOK)
			}
		})
	}
}

func TestSelectActive_AlwaysDefined(t *testing.T) {
	t.Parallel()

	statuses := []Status{StatusUpcoming, StatusActive, StatusComplete}
	order := []string{"a", "b", "c"}

	for _, sa := range statuses {
		for _, sb := range statuses {
			for _, sc := range statuses {
				states := map[string]State{"a": {Status: sa}, "b": {Status: sb}, "c": {Status: sc}}
				id, ok := SelectActive(states, "", order)
				if !ok || id == "" {
					t.Errorf("SelectActive(%s,%s,%s) returned no selection", sa, sb, sc)
				}
			}
		}
	}
}

func TestSelection(t *testing.T) {
	t.Parallel()

	var nilSel *Selection
	if _, ok := nilSel.ID(); ok {
		t.Error("nil Selection should have no pin")
	}

	var sel Selection
	if _, ok := sel.ID(); ok {
		t.Error("zero Selection should have no pin")
	}

	sel.Set("next")
	if id, ok := sel.ID(); !ok || id != "next" {
		t.Errorf("ID() = (%q, %v), want (next, true)", id, ok)
	}

	sel.Clear()
	if _, ok := sel.ID(); ok {
		t.Error("cleared Selection should have no pin")
	}
}

func TestTimelineSelect_Sticky(t *testing.T) {
	t.Parallel()

	tl := seasons()
	var sel Selection

	if err := tl.Select(&sel, "missing"); !errors.Is(err, ErrUnknownMilestone) {
		t.Fatalf("Select(missing) error = %v, want ErrUnknownMilestone", err)
	}
	if _, ok := sel.ID(); ok {
		t.Fatal("failed Select must not pin anything")
	}

	if err := tl.Select(&sel, "final"); err != nil {
		t.Fatalf("Select(final): %v", err)
	}

	instants := []struct {
		name string
		now  int
	}{
		{"preseason", 2024},
		{"sophomore year", 2026},
		{"senior year", 2027},
		{"after graduation", 2029},
	}
	for _, in := range instants {
		snap := tl.Snapshot(at(in.now, 1, 15, 0, 0, 0), &sel)
		if snap.ActiveID != "final" {
			t.Errorf("%s: ActiveID = %q, want pinned %q", in.name, snap.ActiveID, "final")
		}
	}

	if err := tl.Select(&sel, "current"); err != nil {
		t.Fatalf("Select(current): %v", err)
	}
	if snap := tl.Snapshot(at(2027, 1, 15, 0, 0, 0), &sel); snap.ActiveID != "current" {
		t.Errorf("after re-select ActiveID = %q, want %q", snap.ActiveID, "current")
	}
}
