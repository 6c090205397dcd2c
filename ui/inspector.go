package ui

import (
	"fmt"
	"math"

	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/pthm-cable/antcolony/components"
)

// AgentInfo holds the data shown for the selected agent.
type AgentInfo struct {
	ID             uint32
	State          components.State
	Alive          bool
	Carrying       bool
	X, Y           float64
	Speed          float64
	Heading        float64 // Radians
	AgeTicks       int
	TrailLen       int
	TrailCap       int
	HomeSignal     float64 // At the agent's cell
	ResourceSignal float64
}

// AgentSections lays out the inspector.
var AgentSections = []Section[*AgentInfo]{
	{
		Title: "Agent",
		Rows: []Row[*AgentInfo]{
			{Key: "id", Label: "ID", Text: func(a *AgentInfo) string { return fmt.Sprintf("#%d", a.ID) }},
			{Key: "state", Label: "State", Text: func(a *AgentInfo) string { return a.State.String() }},
			{Key: "state_color", Label: "Color", Kind: RowSwatch,
				Color: func(a *AgentInfo) rl.Color { return StateColor(a.State) }},
			{Key: "carrying", Label: "Carrying",
				Show: func(a *AgentInfo) bool { return a.Alive },
				Text: func(a *AgentInfo) string { return yesNo(a.Carrying) }},
			{Key: "age", Label: "Age", Text: func(a *AgentInfo) string { return fmt.Sprintf("%d ticks", a.AgeTicks) }},
		},
	},
	{
		Title: "Motion",
		Show:  func(a *AgentInfo) bool { return a.Alive },
		Rows: []Row[*AgentInfo]{
			{Key: "pos", Label: "Position", Text: func(a *AgentInfo) string { return fmt.Sprintf("%.2f, %.2f", a.X, a.Y) }},
			{Key: "speed", Label: "Speed", Text: func(a *AgentInfo) string { return fmt.Sprintf("%.3f", a.Speed) }},
			{Key: "heading", Label: "Heading",
				Text: func(a *AgentInfo) string { return fmt.Sprintf("%.0f deg", a.Heading*180/math.Pi) }},
			{Key: "trail", Label: "Trail", Kind: RowBar, Value: func(a *AgentInfo) float64 {
				if a.TrailCap == 0 {
					return 0
				}
				return float64(a.TrailLen) / float64(a.TrailCap)
			}},
		},
	},
	{
		Title: "Pheromone",
		Rows: []Row[*AgentInfo]{
			{Key: "home", Label: "Home", Kind: RowBar, Value: func(a *AgentInfo) float64 { return a.HomeSignal }},
			{Key: "resource", Label: "Resource", Kind: RowBar, Value: func(a *AgentInfo) float64 { return a.ResourceSignal }},
		},
	},
}

func yesNo(b bool) string {
	if b {
		return "yes"
	}
	return "no"
}

// Inspector renders the agent inspection panel.
type Inspector struct {
	renderer *Renderer
	x, y     int32
	width    int32
}

// NewInspector creates a new inspector panel.
func NewInspector(x, y, width int32) *Inspector {
	return &Inspector{
		renderer: NewRenderer(),
		x:        x,
		y:        y,
		width:    width,
	}
}

// SetPosition updates the inspector position.
func (ins *Inspector) SetPosition(x, y int32) {
	ins.x = x
	ins.y = y
}

// Draw renders the inspector panel and returns the Y below it.
func (ins *Inspector) Draw(info *AgentInfo) int32 {
	r := ins.renderer
	padding := r.Theme.Padding

	height := padding*2 + SectionsHeight(r, AgentSections, info)
	r.DrawPanel(ins.x, ins.y, ins.width, height)
	DrawSections(r, ins.x+padding, ins.y+padding, ins.width-padding*2, AgentSections, info)
	return ins.y + height
}
