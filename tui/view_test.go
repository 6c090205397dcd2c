package tui

import (
	"strings"
	"testing"

	"github.com/gdamore/tcell/v2"

	"github.com/pthm-cable/antcolony/components"
	"github.com/pthm-cable/antcolony/config"
	"github.com/pthm-cable/antcolony/game"
	"github.com/pthm-cable/antcolony/systems"
)

func init() {
	config.MustInit("")
}

const testMap = `#######
#.....#
#H..F.#
#..X..#
#######`

func newTestView(t *testing.T, w, h int) (*View, *game.Game, tcell.SimulationScreen) {
	t.Helper()
	l, err := systems.ParseMap(strings.NewReader(testMap), nil)
	if err != nil {
		t.Fatalf("ParseMap: %v", err)
	}
	g, err := game.New(game.Options{Seed: 3, Config: config.Cfg().Clone(), Layout: l})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	t.Cleanup(func() { g.Close() })

	screen := tcell.NewSimulationScreen("UTF-8")
	if err := screen.Init(); err != nil {
		t.Fatalf("screen init: %v", err)
	}
	t.Cleanup(screen.Fini)
	screen.SetSize(w, h)
	return New(g, screen), g, screen
}

func runeKey(r rune) *tcell.EventKey {
	return tcell.NewEventKey(tcell.KeyRune, r, tcell.ModNone)
}

func TestDrawCells(t *testing.T) {
	v, _, screen := newTestView(t, 40, 10)
	v.showHome = false
	v.Draw()

	tests := []struct {
		x, y int
		want rune
	}{
		{0, 0, '#'},
		{4, 2, '*'},
		{3, 3, '~'},
		{6, 4, '#'},
	}
	for _, tt := range tests {
		if got, _, _, _ := screen.GetContent(tt.x, tt.y); got != tt.want {
			t.Errorf("cell (%d,%d) = %q, want %q", tt.x, tt.y, got, tt.want)
		}
	}

	// Every agent starts at home and covers the home glyph.
	if got, _, _, _ := screen.GetContent(1, 2); got != 'e' {
		t.Errorf("home cell = %q, want explorer glyph", got)
	}
}

func TestDrawStatusLine(t *testing.T) {
	v, _, screen := newTestView(t, 120, 10)
	v.Draw()

	var b strings.Builder
	for x := 0; x < 120; x++ {
		r, _, _, _ := screen.GetContent(x, 8)
		b.WriteRune(r)
	}
	line := b.String()
	for _, want := range []string{"running", "resources", "alive"} {
		if !strings.Contains(line, want) {
			t.Errorf("status line %q missing %q", line, want)
		}
	}
}

func TestHandleKeys(t *testing.T) {
	v, g, _ := newTestView(t, 40, 10)

	if !v.HandleEvent(runeKey(' ')) || !g.Paused() {
		t.Fatal("space should pause")
	}
	v.HandleEvent(runeKey(' '))
	if g.Paused() {
		t.Fatal("second space should resume")
	}

	v.HandleEvent(runeKey('+'))
	if g.Speed() != 2 {
		t.Errorf("speed after + = %v, want 2", g.Speed())
	}
	v.HandleEvent(runeKey('-'))
	v.HandleEvent(runeKey('-'))
	if g.Speed() != 0.5 {
		t.Errorf("speed after two - = %v, want 0.5", g.Speed())
	}

	v.HandleEvent(runeKey('3'))
	if d := g.Snapshot().Colony.Directive; d != components.DirectiveDefend {
		t.Errorf("directive = %v, want defend", d)
	}

	v.HandleEvent(runeKey('h'))
	if v.showHome {
		t.Error("h should hide the home field")
	}

	if v.HandleEvent(runeKey('q')) {
		t.Error("q should quit")
	}
	if v.HandleEvent(tcell.NewEventKey(tcell.KeyEscape, 0, tcell.ModNone)) {
		t.Error("escape should quit")
	}
}

func TestRestartKey(t *testing.T) {
	v, g, _ := newTestView(t, 40, 10)
	g.RunTicks(20)
	if g.Tick() == 0 {
		t.Fatal("no ticks ran")
	}
	v.HandleEvent(runeKey('r'))
	if g.Tick() != 0 {
		t.Errorf("tick after restart = %d, want 0", g.Tick())
	}
	if v.snap.Colony.Tick != 0 {
		t.Errorf("view snapshot not refreshed after restart")
	}
}

func TestScrollClamped(t *testing.T) {
	v, _, _ := newTestView(t, 4, 5)

	for range 10 {
		v.HandleEvent(tcell.NewEventKey(tcell.KeyRight, 0, tcell.ModNone))
		v.HandleEvent(tcell.NewEventKey(tcell.KeyDown, 0, tcell.ModNone))
	}
	// 7x5 grid in a 4x3 map area.
	if v.offX != 3 || v.offY != 2 {
		t.Errorf("offset = (%d,%d), want (3,2)", v.offX, v.offY)
	}
	for range 10 {
		v.HandleEvent(tcell.NewEventKey(tcell.KeyLeft, 0, tcell.ModNone))
	}
	if v.offX != 0 {
		t.Errorf("offX = %d, want 0", v.offX)
	}
}

func TestSummary(t *testing.T) {
	tests := []struct {
		name string
		c    game.ColonySnapshot
		want []string
	}{
		{"running", game.ColonySnapshot{ResourceCount: 3, ResourceGoal: 10, Speed: 1}, []string{"running", "explore", "resources 3/10", "speed 1x"}},
		{"paused", game.ColonySnapshot{Paused: true, Directive: components.DirectiveHarvest}, []string{"paused", "harvest"}},
		{"over", game.ColonySnapshot{GameOver: true, Paused: true, Outcome: game.OutcomeLossStarvation}, []string{"loss_starvation"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Summary(tt.c)
			for _, w := range tt.want {
				if !strings.Contains(got, w) {
					t.Errorf("Summary = %q, missing %q", got, w)
				}
			}
		})
	}
}

func TestCellGlyph(t *testing.T) {
	tests := []struct {
		name string
		cell game.CellSnapshot
		want rune
	}{
		{"border", game.CellSnapshot{Kind: systems.CellBorder}, '#'},
		{"hazard", game.CellSnapshot{Kind: systems.CellHazard}, '~'},
		{"resource", game.CellSnapshot{Kind: systems.CellResource}, '*'},
		{"home", game.CellSnapshot{Kind: systems.CellHome}, 'H'},
		{"ground", game.CellSnapshot{Kind: systems.CellGround}, ' '},
		{"revealed", game.CellSnapshot{Kind: systems.CellGround, Revealed: true}, '.'},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got, _ := CellGlyph(tt.cell, true, true); got != tt.want {
				t.Errorf("glyph = %q, want %q", got, tt.want)
			}
		})
	}

	_, lit := CellGlyph(game.CellSnapshot{Kind: systems.CellGround, Resource: 1}, true, true)
	_, hidden := CellGlyph(game.CellSnapshot{Kind: systems.CellGround, Resource: 1}, true, false)
	_, litBg, _ := lit.Decompose()
	_, hiddenBg, _ := hidden.Decompose()
	if litBg == hiddenBg {
		t.Error("hiding the resource field should change the shading")
	}
}

func TestAgentGlyph(t *testing.T) {
	tests := []struct {
		a    game.AgentSnapshot
		want rune
	}{
		{game.AgentSnapshot{State: components.StateExplore, Alive: true}, 'e'},
		{game.AgentSnapshot{State: components.StateHarvest, Alive: true}, 'h'},
		{game.AgentSnapshot{State: components.StateReturn, Alive: true}, 'r'},
		{game.AgentSnapshot{State: components.StateReturn, Alive: true, Carrying: true}, 'R'},
		{game.AgentSnapshot{State: components.StateDefend, Alive: true}, 'd'},
		{game.AgentSnapshot{State: components.StateDead}, 'x'},
	}
	for _, tt := range tests {
		if got, _ := AgentGlyph(tt.a); got != tt.want {
			t.Errorf("%s carrying=%v: glyph %q, want %q", tt.a.State, tt.a.Carrying, got, tt.want)
		}
	}
}
