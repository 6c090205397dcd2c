package ui

import (
	"fmt"
	"time"

	rl "github.com/gen2brain/raylib-go/raylib"
)

// HUDData holds all the data needed to render the main HUD.
type HUDData struct {
	Title         string
	ResourceCount int
	ResourceGoal  int
	Directive     string
	Alive         int
	Delivered     int
	Deaths        int
	SinceDelivery int
	Starvation    int
	Tick          int
	Speed         float64
	FPS           int32
	Paused        bool
	Outcome       string // Empty while running
	Won           bool
}

// HUD renders the main heads-up display.
type HUD struct {
	renderer *Renderer
}

// NewHUD creates a new HUD renderer.
func NewHUD() *HUD {
	return &HUD{renderer: NewRenderer()}
}

// Draw renders the HUD.
func (h *HUD) Draw(data HUDData) {
	rl.DrawText(data.Title, 10, 10, 20, rl.White)

	rl.DrawText(
		fmt.Sprintf("Resources: %d / %d | Directive: %s", data.ResourceCount, data.ResourceGoal, data.Directive),
		10, 35, 16, rl.LightGray,
	)
	rl.DrawText(
		fmt.Sprintf("Ants: %d | Delivered: %d | Deaths: %d", data.Alive, data.Delivered, data.Deaths),
		10, 55, 16, rl.LightGray,
	)
	rl.DrawText(
		fmt.Sprintf("Tick: %d | Speed: %.2fx | FPS: %d", data.Tick, data.Speed, data.FPS),
		10, 75, 16, rl.LightGray,
	)

	starveColor := rl.LightGray
	if data.Starvation > 0 && data.SinceDelivery*4 > data.Starvation*3 {
		starveColor = rl.Orange
	}
	rl.DrawText(fmt.Sprintf("Since delivery: %d / %d", data.SinceDelivery, data.Starvation), 10, 95, 16, starveColor)

	if data.Paused {
		rl.DrawText("PAUSED", 10, 115, 16, rl.Yellow)
	}
}

// DrawGameOver renders the end-of-game banner centered on screen.
func (h *HUD) DrawGameOver(screenWidth, screenHeight int32, data HUDData) {
	if data.Outcome == "" {
		return
	}
	title := "COLONY LOST"
	color := rl.Red
	if data.Won {
		title = "COLONY THRIVES"
		color = rl.Green
	}
	sub := fmt.Sprintf("%s at tick %d. Press R to restart.", data.Outcome, data.Tick)

	w := int32(420)
	x := (screenWidth - w) / 2
	y := screenHeight/2 - 50
	h.renderer.DrawPanel(x, y, w, 100)
	tw := rl.MeasureText(title, 28)
	rl.DrawText(title, x+(w-tw)/2, y+20, 28, color)
	sw := rl.MeasureText(sub, 14)
	rl.DrawText(sub, x+(w-sw)/2, y+62, 14, rl.LightGray)
}

// DrawControls renders the control legend at the bottom of the screen.
func (h *HUD) DrawControls(screenWidth, screenHeight int32, controls string) {
	rl.DrawText(controls, 10, screenHeight-25, 14, rl.Gray)
}

// PerfRow is one phase line of the perf panel.
type PerfRow struct {
	Name string
	Avg  time.Duration
	Pct  float64
}

// PerfPanelData is the frame timing summary shown by the perf overlay.
type PerfPanelData struct {
	Frame         time.Duration
	P95           time.Duration
	LogicPerFrame float64
	Headroom      float64
	Rows          []PerfRow
}

// PerfPanel renders frame phase timing.
type PerfPanel struct {
	x, y int32
}

// NewPerfPanel creates a perf panel at (x, y).
func NewPerfPanel(x, y int32) *PerfPanel {
	return &PerfPanel{x: x, y: y}
}

// SetPosition moves the panel.
func (p *PerfPanel) SetPosition(x, y int32) {
	p.x, p.y = x, y
}

// PhaseColor grades a phase by its share of the frame.
func PhaseColor(pct float64) rl.Color {
	switch {
	case pct > 40:
		return rl.Red
	case pct > 20:
		return rl.Orange
	}
	return rl.LightGray
}

func (p *PerfPanel) Draw(data PerfPanelData) {
	x, y := p.x, p.y
	rl.DrawText("Frame timing", x, y, 16, rl.White)
	y += 20

	rl.DrawText(fmt.Sprintf("avg %s  p95 %s", data.Frame.Round(time.Microsecond), data.P95.Round(time.Microsecond)),
		x, y, 14, rl.Yellow)
	y += 16
	rl.DrawText(fmt.Sprintf("%.1f ticks/frame  %.0f fps headroom", data.LogicPerFrame, data.Headroom),
		x, y, 12, rl.Gray)
	y += 16

	for _, r := range data.Rows {
		rl.DrawText(fmt.Sprintf("%-10s %8s %5.1f%%", r.Name, r.Avg.Round(time.Microsecond), r.Pct),
			x, y, 12, PhaseColor(r.Pct))
		y += 14
	}
}
