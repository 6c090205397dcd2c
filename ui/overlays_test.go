package ui

import (
	"slices"
	"testing"

	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/pthm-cable/antcolony/components"
)

func TestOverlayDefaults(t *testing.T) {
	s := NewOverlays()
	for o := range numOverlays {
		want := o == OverlayHomeField || o == OverlayResourceField
		if s.On(o) != want {
			t.Errorf("%s on = %v, want %v", o, s.On(o), want)
		}
	}
}

func TestOverlayToggle(t *testing.T) {
	s := NewOverlays()
	if !s.Toggle(OverlayGrid) || !s.On(OverlayGrid) {
		t.Fatal("Toggle did not enable grid")
	}
	if s.Toggle(OverlayGrid) {
		t.Error("second Toggle should disable grid")
	}
	s.Set(numOverlays, true)
	if s.on != 1<<OverlayHomeField|1<<OverlayResourceField {
		t.Errorf("out of range Set changed state: %b", s.on)
	}
}

func TestOverlayHandleKey(t *testing.T) {
	s := NewOverlays()

	o, ok := s.HandleKey(rl.KeyT)
	if !ok || o != OverlayTrails || !s.On(OverlayTrails) {
		t.Errorf("KeyT = (%s, %v), want trails enabled", o, ok)
	}
	if _, ok := s.HandleKey(rl.KeyZ); ok {
		t.Error("unbound key toggled an overlay")
	}
	if OverlayTrails.KeyLabel() != "T" {
		t.Errorf("KeyLabel = %q", OverlayTrails.KeyLabel())
	}
}

func TestOverlayGroups(t *testing.T) {
	tests := []struct {
		g    OverlayGroup
		want []Overlay
	}{
		{GroupFields, []Overlay{OverlayHomeField, OverlayResourceField, OverlayRevealed}},
		{GroupAgents, []Overlay{OverlayTrails, OverlayHeadings}},
		{GroupDebug, []Overlay{OverlayGrid, OverlayPerf}},
	}
	for _, tt := range tests {
		t.Run(tt.g.String(), func(t *testing.T) {
			if got := InGroup(tt.g); !slices.Equal(got, tt.want) {
				t.Errorf("InGroup = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestAgentSections(t *testing.T) {
	info := &AgentInfo{ID: 4, State: components.StateReturn, Alive: true, Carrying: true, AgeTicks: 12, TrailLen: 8, TrailCap: 32}
	r := NewRenderer()

	text := map[string]string{}
	for _, s := range AgentSections {
		for _, row := range s.Rows {
			if row.Kind == RowText {
				text[row.Key] = RowString(row, info)
			}
		}
	}
	want := map[string]string{"id": "#4", "state": "return", "carrying": "yes", "age": "12 ticks"}
	for k, v := range want {
		if text[k] != v {
			t.Errorf("%s = %q, want %q", k, text[k], v)
		}
	}

	motion := AgentSections[1:2]
	alive := SectionsHeight(r, motion, info)
	info.Alive = false
	if dead := SectionsHeight(r, motion, info); dead != 0 || alive == 0 {
		t.Errorf("motion section height alive=%d dead=%d, want >0 and 0", alive, dead)
	}

	// The identity section loses its carrying row once dead.
	full := SectionsHeight(r, AgentSections[:1], &AgentInfo{Alive: true})
	if SectionsHeight(r, AgentSections[:1], info) != full-r.Theme.LineHeight {
		t.Error("dead agent should hide the carrying row")
	}
}

func TestRowString(t *testing.T) {
	row := Row[float64]{Value: func(v float64) float64 { return v * 2 }}
	if got := RowString(row, 1.25); got != "2.50" {
		t.Errorf("RowString = %q, want 2.50", got)
	}
	if got := RowString(Row[float64]{}, 1); got != "" {
		t.Errorf("empty row text = %q", got)
	}
}
