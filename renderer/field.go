// Package renderer draws the colony grid and its agents with raylib.
package renderer

import (
	"image/color"

	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/pthm-cable/antcolony/camera"
	"github.com/pthm-cable/antcolony/systems"
)

// Base cell colors by kind.
var kindColors = [...]color.RGBA{
	systems.CellGround:   {R: 34, G: 30, B: 26, A: 255},
	systems.CellBorder:   {R: 78, G: 72, B: 66, A: 255},
	systems.CellResource: {R: 70, G: 150, B: 60, A: 255},
	systems.CellHazard:   {R: 150, G: 40, B: 40, A: 255},
	systems.CellHome:     {R: 160, G: 110, B: 50, A: 255},
}

var (
	homeTint     = color.RGBA{R: 90, G: 140, B: 255, A: 255}
	resourceTint = color.RGBA{R: 255, G: 210, B: 60, A: 255}
)

// FieldOptions selects which layers tint the base cell colors.
type FieldOptions struct {
	Home     bool
	Resource bool
	Revealed bool
}

// CellColor returns the display color of one cell. Pheromone layers
// blend toward their tint in proportion to the signal.
func CellColor(kind systems.CellKind, home, resource float64, revealed bool, opts FieldOptions) color.RGBA {
	c := color.RGBA{A: 255}
	if int(kind) < len(kindColors) {
		c = kindColors[kind]
	}
	if kind == systems.CellBorder {
		return c
	}
	if opts.Home {
		c = blend(c, homeTint, home*0.6)
	}
	if opts.Resource {
		c = blend(c, resourceTint, resource*0.8)
	}
	if opts.Revealed && revealed {
		c = blend(c, color.RGBA{R: 255, G: 255, B: 255, A: 255}, 0.12)
	}
	return c
}

func blend(a, b color.RGBA, t float64) color.RGBA {
	t = min(max(t, 0), 1)
	mix := func(x, y uint8) uint8 { return uint8(float64(x) + (float64(y)-float64(x))*t + 0.5) }
	return color.RGBA{R: mix(a.R, b.R), G: mix(a.G, b.G), B: mix(a.B, b.B), A: 255}
}

// FieldRenderer draws the grid as a texture with one texel per cell.
type FieldRenderer struct {
	tex         rl.Texture2D
	texW, texH  int
	pixels      []color.RGBA
	initialized bool
}

// NewFieldRenderer creates a field renderer. GPU resources are created on
// first Update, after the window exists.
func NewFieldRenderer() *FieldRenderer {
	return &FieldRenderer{}
}

// Pixels returns a w*h buffer for the caller to fill, row-major.
func (r *FieldRenderer) Pixels(w, h int) []color.RGBA {
	if cap(r.pixels) < w*h {
		r.pixels = make([]color.RGBA, w*h)
	}
	r.pixels = r.pixels[:w*h]
	return r.pixels
}

// Update uploads the pixel buffer, recreating the texture when the grid size changed.
func (r *FieldRenderer) Update(w, h int) {
	if len(r.pixels) != w*h {
		return
	}
	if r.initialized && (r.texW != w || r.texH != h) {
		r.Unload()
	}
	if !r.initialized {
		img := rl.GenImageColor(w, h, rl.Black)
		r.tex = rl.LoadTextureFromImage(img)
		rl.SetTextureFilter(r.tex, rl.FilterPoint)
		rl.UnloadImage(img)
		r.texW, r.texH = w, h
		r.initialized = true
	}
	rl.UpdateTexture(r.tex, r.pixels)
}

// Draw renders the field through the camera.
func (r *FieldRenderer) Draw(cam *camera.Camera) {
	if !r.initialized {
		return
	}
	x0, y0 := cam.WorldToScreen(0, 0)
	src := rl.Rectangle{Width: float32(r.texW), Height: float32(r.texH)}
	dst := rl.Rectangle{X: x0, Y: y0, Width: float32(r.texW) * cam.CellSize(), Height: float32(r.texH) * cam.CellSize()}
	rl.DrawTexturePro(r.tex, src, dst, rl.Vector2{}, 0, rl.White)
}

// DrawGridLines draws cell boundaries over the visible area.
func DrawGridLines(cam *camera.Camera, w, h int) {
	line := rl.Color{R: 255, G: 255, B: 255, A: 24}
	x0, y0 := cam.WorldToScreen(0, 0)
	x1, y1 := cam.WorldToScreen(float32(w), float32(h))
	for x := 0; x <= w; x++ {
		sx, _ := cam.WorldToScreen(float32(x), 0)
		rl.DrawLineV(rl.Vector2{X: sx, Y: y0}, rl.Vector2{X: sx, Y: y1}, line)
	}
	for y := 0; y <= h; y++ {
		_, sy := cam.WorldToScreen(0, float32(y))
		rl.DrawLineV(rl.Vector2{X: x0, Y: sy}, rl.Vector2{X: x1, Y: sy}, line)
	}
}

// Unload frees GPU resources.
func (r *FieldRenderer) Unload() {
	if !r.initialized {
		return
	}
	rl.UnloadTexture(r.tex)
	r.initialized = false
}
