package game

import (
	"log/slog"
	"math"

	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/pthm-cable/antcolony/camera"
	"github.com/pthm-cable/antcolony/components"
	"github.com/pthm-cable/antcolony/renderer"
	"github.com/pthm-cable/antcolony/systems"
	"github.com/pthm-cable/antcolony/telemetry"
	"github.com/pthm-cable/antcolony/ui"
)

const controlsHelp = "[1-3] Directive  [Space] Pause  [R] Restart  [,/.] Speed  [Tab] Panel  [Arrows] Pan  [Wheel] Zoom  [Click] Inspect"

// Viewer draws a Game with raylib and routes player input to its entry
// points. It reads the simulation only through snapshots.
type Viewer struct {
	game *Game

	camera    *camera.Camera
	field     *renderer.FieldRenderer
	hud       *ui.HUD
	controls  *ui.ControlsPanel
	inspector *ui.Inspector
	perfPanel *ui.PerfPanel
	overlays  *ui.Overlays

	snap     Snapshot
	selected selection
	trailBuf []rl.Vector2

	screenWidth, screenHeight float32
}

// NewViewer creates a viewer. The raylib window must already be open.
func NewViewer(g *Game) *Viewer {
	w := float32(rl.GetScreenWidth())
	h := float32(rl.GetScreenHeight())
	cellPx := float32(g.cfg.Screen.CellPx)
	if cellPx <= 0 {
		cellPx = 16
	}

	v := &Viewer{
		game:         g,
		camera:       camera.New(w, h, float32(g.layout.W), float32(g.layout.H), cellPx),
		field:        renderer.NewFieldRenderer(),
		hud:          ui.NewHUD(),
		controls:     ui.NewControlsPanel(int32(w)-230, 10, 220),
		inspector:    ui.NewInspector(10, 140, 220),
		perfPanel:    ui.NewPerfPanel(10, 0),
		overlays:     ui.NewOverlays(),
		screenWidth:  w,
		screenHeight: h,
	}
	g.SnapshotInto(&v.snap)
	return v
}

// Frame handles input, advances the game by dt and draws one frame.
func (v *Viewer) Frame(dt float64) {
	g := v.game
	v.handleInput()
	g.Update(dt)
	g.SnapshotInto(&v.snap)
	g.RecordFrame()
	v.Draw()
}

// Draw renders the current snapshot.
func (v *Viewer) Draw() {
	s := &v.snap

	rl.BeginDrawing()
	rl.ClearBackground(rl.Color{R: 12, G: 12, B: 14, A: 255})

	v.drawField(s)
	if v.overlays.On(ui.OverlayGrid) {
		renderer.DrawGridLines(v.camera, s.W, s.H)
	}
	v.drawAgents(s)
	v.drawUI(s)

	rl.EndDrawing()
}

func (v *Viewer) drawField(s *Snapshot) {
	opts := renderer.FieldOptions{
		Home:     v.overlays.On(ui.OverlayHomeField),
		Resource: v.overlays.On(ui.OverlayResourceField),
		Revealed: v.overlays.On(ui.OverlayRevealed),
	}
	pixels := v.field.Pixels(s.W, s.H)
	for i, c := range s.Cells {
		pixels[i] = renderer.CellColor(c.Kind, c.Home, c.Resource, c.Revealed, opts)
	}
	v.field.Update(s.W, s.H)
	v.field.Draw(v.camera)
}

func (v *Viewer) drawAgents(s *Snapshot) {
	trails := v.overlays.On(ui.OverlayTrails)
	headings := v.overlays.On(ui.OverlayHeadings)
	sel, hasSel := v.selected.resolve(s)

	for i := range s.Agents {
		a := &s.Agents[i]
		color := ui.StateColor(a.State)
		selected := hasSel && sel.ID == a.ID

		if a.Alive && (trails || selected) {
			v.trailBuf = v.trailBuf[:0]
			for _, p := range a.Trail {
				v.trailBuf = append(v.trailBuf, rl.Vector2{X: float32(p.X), Y: float32(p.Y)})
			}
			v.trailBuf = append(v.trailBuf, rl.Vector2{X: float32(a.Pos.X), Y: float32(a.Pos.Y)})
			renderer.DrawTrail(v.camera, v.trailBuf, color)
		}

		angle := a.Heading
		if a.Vel.X != 0 || a.Vel.Y != 0 {
			angle = math.Atan2(a.Vel.Y, a.Vel.X)
		}
		renderer.DrawAgent(v.camera, float32(a.Pos.X), float32(a.Pos.Y), float32(angle), 0.7, renderer.AgentStyle{
			Color:    color,
			Carrying: a.Carrying,
			Dead:     !a.Alive,
			Selected: selected,
		})
		if headings && a.Alive {
			renderer.DrawHeading(v.camera, float32(a.Pos.X), float32(a.Pos.Y), float32(a.Heading))
		}
	}
}

func (v *Viewer) drawUI(s *Snapshot) {
	g := v.game
	c := s.Colony
	data := ui.HUDData{
		Title:         "Ant Colony",
		ResourceCount: c.ResourceCount,
		ResourceGoal:  c.ResourceGoal,
		Directive:     c.Directive.String(),
		Alive:         c.Alive,
		Delivered:     c.Delivered,
		Deaths:        c.Deaths,
		SinceDelivery: c.SinceDelivery,
		Starvation:    g.cfg.Colony.StarvationThreshold,
		Tick:          c.Tick,
		Speed:         c.Speed,
		FPS:           rl.GetFPS(),
		Paused:        c.Paused,
		Won:           c.Won,
	}
	if c.GameOver {
		data.Outcome = c.Outcome.String()
	}
	v.hud.Draw(data)

	y := int32(140)
	if a, ok := v.selected.resolve(s); ok {
		y = v.inspector.Draw(v.agentInfo(s, a)) + 10
	}
	if v.overlays.On(ui.OverlayPerf) {
		stats := g.PerfStats()
		v.perfPanel.SetPosition(10, y)
		v.perfPanel.Draw(perfPanelData(stats))
	}

	act := v.controls.Draw(ui.ControlsState{
		Directive: c.Directive,
		Speed:     c.Speed,
		MinSpeed:  g.cfg.Clock.MinSpeed,
		MaxSpeed:  g.cfg.Clock.MaxSpeed,
		Paused:    c.Paused,
		GameOver:  c.GameOver,
	}, v.overlays)
	v.apply(act)

	v.hud.DrawGameOver(int32(v.screenWidth), int32(v.screenHeight), data)
	v.hud.DrawControls(int32(v.screenWidth), int32(v.screenHeight), controlsHelp)
}

func (v *Viewer) agentInfo(s *Snapshot, a AgentSnapshot) *ui.AgentInfo {
	cell := systems.CellOf(a.Pos)
	cs := s.Cell(cell.X, cell.Y)
	return &ui.AgentInfo{
		ID:             a.ID,
		State:          a.State,
		Alive:          a.Alive,
		Carrying:       a.Carrying,
		X:              a.Pos.X,
		Y:              a.Pos.Y,
		Speed:          math.Hypot(a.Vel.X, a.Vel.Y),
		Heading:        a.Heading,
		AgeTicks:       a.AgeTicks,
		TrailLen:       len(a.Trail),
		TrailCap:       v.game.cfg.Agent.TrailCapacity,
		HomeSignal:     cs.Home,
		ResourceSignal: cs.Resource,
	}
}

// apply routes a controls panel action to the game entry points.
func (v *Viewer) apply(act ui.ControlsAction) {
	g := v.game
	if act.SetDirective {
		v.setDirective(act.Directive)
	}
	if act.SetSpeed {
		v.setSpeed(act.Speed)
	}
	if act.TogglePause {
		g.TogglePause()
	}
	if act.Restart {
		v.restart()
	}
	if act.Toggled {
		v.overlays.Toggle(act.Overlay)
	}
}

func (v *Viewer) restart() {
	v.game.Restart()
	v.selected.clear()
	v.game.SnapshotInto(&v.snap)
}

func (v *Viewer) setDirective(d components.Directive) {
	if err := v.game.SetDirective(d); err != nil {
		slog.Debug("directive_rejected", "directive", d.String(), "error", err)
	}
}

func (v *Viewer) setSpeed(s float64) {
	if err := v.game.SetSpeedMultiplier(s); err != nil {
		slog.Debug("speed_rejected", "speed", s, "error", err)
	}
}

// Unload frees GPU resources.
func (v *Viewer) Unload() {
	v.field.Unload()
}

func perfPanelData(s telemetry.PerfStats) ui.PerfPanelData {
	d := ui.PerfPanelData{
		Frame:         s.AvgFrame,
		P95:           s.P95Frame,
		LogicPerFrame: s.LogicPerFrame,
		Headroom:      s.Headroom,
	}
	for ph := range telemetry.NumPhases {
		d.Rows = append(d.Rows, ui.PerfRow{Name: ph.String(), Avg: s.PhaseAvg[ph], Pct: s.PhasePct[ph]})
	}
	return d
}
