package renderer

import (
	"math"

	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/pthm-cable/antcolony/camera"
)

// AgentStyle is how one agent is drawn.
type AgentStyle struct {
	Color    rl.Color
	Carrying bool
	Dead     bool
	Selected bool
}

// DrawAgent draws an agent as a triangle pointing along angle at world
// position (wx, wy). Size is in cells.
func DrawAgent(cam *camera.Camera, wx, wy, angle, size float32, style AgentStyle) {
	if !cam.IsVisible(wx, wy, size) {
		return
	}
	sx, sy := cam.WorldToScreen(wx, wy)
	px := size * cam.CellSize()

	if style.Dead {
		c := rl.Color{R: 110, G: 110, B: 110, A: 180}
		d := px * 0.35
		rl.DrawLineEx(rl.Vector2{X: sx - d, Y: sy - d}, rl.Vector2{X: sx + d, Y: sy + d}, 2, c)
		rl.DrawLineEx(rl.Vector2{X: sx - d, Y: sy + d}, rl.Vector2{X: sx + d, Y: sy - d}, 2, c)
		return
	}

	sin, cos := math.Sincos(float64(angle))
	fx, fy := float32(cos), float32(sin)
	// Perpendicular
	rx, ry := -fy, fx

	tip := rl.Vector2{X: sx + fx*px*0.6, Y: sy + fy*px*0.6}
	left := rl.Vector2{X: sx - fx*px*0.4 + rx*px*0.35, Y: sy - fy*px*0.4 + ry*px*0.35}
	right := rl.Vector2{X: sx - fx*px*0.4 - rx*px*0.35, Y: sy - fy*px*0.4 - ry*px*0.35}
	// Counter-clockwise winding in screen space
	rl.DrawTriangle(tip, right, left, style.Color)

	if style.Carrying {
		rl.DrawCircleV(tip, max(px*0.15, 1.5), rl.Color{R: 255, G: 220, B: 80, A: 255})
	}
	if style.Selected {
		rl.DrawCircleLines(int32(sx), int32(sy), px*0.9, rl.White)
	}
}

// DrawHeading draws a short line from the agent along its wander heading.
func DrawHeading(cam *camera.Camera, wx, wy, heading float32) {
	sx, sy := cam.WorldToScreen(wx, wy)
	sin, cos := math.Sincos(float64(heading))
	l := cam.CellSize() * 0.8
	rl.DrawLineV(rl.Vector2{X: sx, Y: sy}, rl.Vector2{X: sx + float32(cos)*l, Y: sy + float32(sin)*l},
		rl.Color{R: 255, G: 255, B: 255, A: 90})
}

// DrawTrail draws a polyline through world points, fading toward the oldest.
func DrawTrail(cam *camera.Camera, points []rl.Vector2, c rl.Color) {
	n := len(points)
	if n < 2 {
		return
	}
	prevX, prevY := cam.WorldToScreen(points[0].X, points[0].Y)
	for i := 1; i < n; i++ {
		x, y := cam.WorldToScreen(points[i].X, points[i].Y)
		seg := c
		seg.A = uint8(30 + 150*i/n)
		rl.DrawLineV(rl.Vector2{X: prevX, Y: prevY}, rl.Vector2{X: x, Y: y}, seg)
		prevX, prevY = x, y
	}
}
