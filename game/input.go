package game

import (
	rl "github.com/gen2brain/raylib-go/raylib"
	"gonum.org/v1/gonum/spatial/r2"

	"github.com/pthm-cable/antcolony/components"
)

// Preset speeds for keyboard stepping.
var speedSteps = []float64{0.25, 0.5, 1, 2, 4, 8}

// handleInput processes keyboard and mouse input.
func (v *Viewer) handleInput() {
	v.handleResize()

	if rl.IsKeyPressed(rl.KeyF11) {
		rl.ToggleFullscreen()
	}

	if rl.IsKeyPressed(rl.KeySpace) {
		v.game.TogglePause()
	}
	if rl.IsKeyPressed(rl.KeyR) {
		v.restart()
	}
	if rl.IsKeyPressed(rl.KeyTab) {
		v.controls.Toggle()
	}

	for key, d := range map[int32]components.Directive{
		rl.KeyOne:   components.DirectiveExplore,
		rl.KeyTwo:   components.DirectiveHarvest,
		rl.KeyThree: components.DirectiveDefend,
	} {
		if rl.IsKeyPressed(key) && v.snap.Colony.Directive != d {
			v.setDirective(d)
		}
	}

	if rl.IsKeyPressed(rl.KeyComma) {
		v.setSpeed(StepSpeed(v.game.Speed(), -1))
	}
	if rl.IsKeyPressed(rl.KeyPeriod) {
		v.setSpeed(StepSpeed(v.game.Speed(), 1))
	}

	if key := rl.GetKeyPressed(); key != 0 {
		v.overlays.HandleKey(key)
	}

	v.handleCameraInput()
	v.handleSelection()
}

// StepSpeed returns the next preset speed step above (dir > 0) or below the current speed.
func StepSpeed(cur float64, dir int) float64 {
	if dir > 0 {
		for _, s := range speedSteps {
			if s > cur+1e-9 {
				return s
			}
		}
		return speedSteps[len(speedSteps)-1]
	}
	for i := len(speedSteps) - 1; i >= 0; i-- {
		if speedSteps[i] < cur-1e-9 {
			return speedSteps[i]
		}
	}
	return speedSteps[0]
}

// handleResize checks for window resize and propagates new dimensions.
func (v *Viewer) handleResize() {
	if !rl.IsWindowResized() {
		return
	}
	w := float32(rl.GetScreenWidth())
	h := float32(rl.GetScreenHeight())
	if w == v.screenWidth && h == v.screenHeight {
		return
	}
	v.screenWidth = w
	v.screenHeight = h

	v.camera.Resize(w, h)
	v.controls.SetPosition(int32(w)-230, 10)
}

// handleCameraInput processes camera pan/zoom controls.
func (v *Viewer) handleCameraInput() {
	const panSpeed = 8.0

	if rl.IsKeyDown(rl.KeyRight) {
		v.camera.Pan(panSpeed, 0)
	}
	if rl.IsKeyDown(rl.KeyLeft) {
		v.camera.Pan(-panSpeed, 0)
	}
	if rl.IsKeyDown(rl.KeyDown) {
		v.camera.Pan(0, panSpeed)
	}
	if rl.IsKeyDown(rl.KeyUp) {
		v.camera.Pan(0, -panSpeed)
	}

	// Zoom toward the cursor
	if wheel := rl.GetMouseWheelMove(); wheel != 0 {
		m := rl.GetMousePosition()
		v.camera.ZoomAt(m.X, m.Y, 1+wheel*0.1)
	}

	if rl.IsKeyPressed(rl.KeyEqual) || rl.IsKeyPressed(rl.KeyKpAdd) {
		v.camera.ZoomBy(1.25)
	}
	if rl.IsKeyPressed(rl.KeyMinus) || rl.IsKeyPressed(rl.KeyKpSubtract) {
		v.camera.ZoomBy(0.8)
	}

	if rl.IsKeyPressed(rl.KeyHome) {
		v.camera.Reset()
	}

	if rl.IsMouseButtonDown(rl.MouseButtonRight) {
		d := rl.GetMouseDelta()
		v.camera.Pan(-d.X, -d.Y)
	}
}

// handleSelection picks the agent under a left click.
func (v *Viewer) handleSelection() {
	if !rl.IsMouseButtonPressed(rl.MouseButtonLeft) {
		return
	}
	m := rl.GetMousePosition()
	if v.controls.Contains(int32(m.X), int32(m.Y)) {
		return
	}
	wx, wy := v.camera.ScreenToWorld(m.X, m.Y)
	v.selected.set(v.snap.Nearest(r2.Vec{X: float64(wx), Y: float64(wy)}, 0.75))
}
