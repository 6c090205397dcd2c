package ui

import (
	"fmt"

	gui "github.com/gen2brain/raylib-go/raygui"
	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/pthm-cable/antcolony/components"
)

// ControlsState is the game state the controls panel reflects.
type ControlsState struct {
	Directive components.Directive
	Speed     float64
	MinSpeed  float64
	MaxSpeed  float64
	Paused    bool
	GameOver  bool
}

// ControlsAction reports what the player did this frame. Zero value means nothing.
type ControlsAction struct {
	SetDirective bool
	Directive    components.Directive
	SetSpeed     bool
	Speed        float64
	TogglePause  bool
	Restart      bool
	Toggled      bool
	Overlay      Overlay
}

var directiveButtons = [...]struct {
	d     components.Directive
	label string
}{
	{components.DirectiveExplore, "Explore [1]"},
	{components.DirectiveHarvest, "Harvest [2]"},
	{components.DirectiveDefend, "Defend [3]"},
}

// ControlsPanel renders the directive, clock and overlay controls.
type ControlsPanel struct {
	renderer *Renderer
	x, y     int32
	width    int32
	visible  bool
}

// NewControlsPanel creates a new controls panel.
func NewControlsPanel(x, y, width int32) *ControlsPanel {
	return &ControlsPanel{
		renderer: NewRenderer(),
		x:        x,
		y:        y,
		width:    width,
		visible:  true,
	}
}

// SetPosition updates the panel position.
func (c *ControlsPanel) SetPosition(x, y int32) {
	c.x = x
	c.y = y
}

// IsVisible returns whether the panel is shown.
func (c *ControlsPanel) IsVisible() bool {
	return c.visible
}

// Toggle switches panel visibility.
func (c *ControlsPanel) Toggle() bool {
	c.visible = !c.visible
	return c.visible
}

// Contains reports whether a screen point is over the panel.
func (c *ControlsPanel) Contains(px, py int32) bool {
	if !c.visible {
		return false
	}
	return px >= c.x && px < c.x+c.width && py >= c.y && py < c.y+c.height()
}

func (c *ControlsPanel) height() int32 {
	lh := c.renderer.Theme.LineHeight
	rows := int32(numOverlays) + int32(numGroups)
	// Title, three directive buttons, slider, two clock buttons, overlay list.
	return c.renderer.Theme.Padding*3 + lh + 3*30 + 50 + 40 + rows*lh + lh
}

// Draw renders the panel and returns the actions taken this frame.
func (c *ControlsPanel) Draw(state ControlsState, overlays *Overlays) ControlsAction {
	var act ControlsAction
	if !c.visible {
		return act
	}

	r := c.renderer
	padding := r.Theme.Padding
	lineHeight := r.Theme.LineHeight
	inner := float32(c.width - padding*2)
	x := float32(c.x + padding)

	r.DrawPanel(c.x, c.y, c.width, c.height())
	y := c.y + padding

	rl.DrawText("Colony", c.x+padding, y, 16, rl.White)
	y += lineHeight + 4

	if state.GameOver {
		gui.Disable()
	}
	for _, b := range directiveButtons {
		label := b.label
		if b.d == state.Directive {
			label = "> " + label
		}
		if gui.Button(rl.Rectangle{X: x, Y: float32(y), Width: inner, Height: 24}, label) && b.d != state.Directive {
			act.SetDirective = true
			act.Directive = b.d
		}
		y += 30
	}
	gui.Enable()

	rl.DrawText(fmt.Sprintf("Speed %.2fx", state.Speed), c.x+padding, y, r.Theme.FontSize, r.Theme.LabelColor)
	y += lineHeight
	speed := gui.SliderBar(
		rl.Rectangle{X: x + 30, Y: float32(y), Width: inner - 60, Height: 16},
		fmt.Sprintf("%.2g", state.MinSpeed), fmt.Sprintf("%.2g", state.MaxSpeed),
		float32(state.Speed), float32(state.MinSpeed), float32(state.MaxSpeed),
	)
	if float64(speed) != float64(float32(state.Speed)) {
		act.SetSpeed = true
		act.Speed = float64(speed)
	}
	y += 34

	half := (inner - 6) / 2
	pauseLabel := "Pause [Space]"
	if state.Paused {
		pauseLabel = "Resume [Space]"
	}
	if gui.Button(rl.Rectangle{X: x, Y: float32(y), Width: half, Height: 26}, pauseLabel) {
		act.TogglePause = true
	}
	if gui.Button(rl.Rectangle{X: x + half + 6, Y: float32(y), Width: half, Height: 26}, "Restart [R]") {
		act.Restart = true
	}
	y += 40

	for g := range numGroups {
		rl.DrawText(g.String(), c.x+padding, y, r.Theme.HeaderFontSize, r.Theme.SectionHeader)
		y += lineHeight
		for _, o := range InGroup(g) {
			if c.drawToggle(x, y, o, overlays.On(o), inner) {
				act.Toggled = true
				act.Overlay = o
			}
			y += lineHeight
		}
	}

	return act
}

// drawToggle draws one overlay checkbox and reports a click.
func (c *ControlsPanel) drawToggle(x float32, y int32, o Overlay, on bool, width float32) bool {
	r := c.renderer
	clicked := gui.CheckBox(rl.Rectangle{X: x, Y: float32(y + 2), Width: 10, Height: 10}, o.String(), on) != on

	key := "[" + o.KeyLabel() + "]"
	kw := rl.MeasureText(key, r.Theme.FontSize)
	rl.DrawText(key, int32(x+width)-kw, y, r.Theme.FontSize, rl.Gray)
	return clicked
}
