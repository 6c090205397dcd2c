package game

import (
	"cmp"
	"image"
	"slices"

	"gonum.org/v1/gonum/spatial/r2"

	"github.com/pthm-cable/antcolony/components"
	"github.com/pthm-cable/antcolony/systems"
)

// CellSnapshot is the observable state of one grid cell.
type CellSnapshot struct {
	Kind     systems.CellKind
	Home     float64
	Resource float64
	Revealed bool
}

// AgentSnapshot is the observable state of one agent.
type AgentSnapshot struct {
	ID       uint32
	Pos      r2.Vec
	Vel      r2.Vec
	Heading  float64
	State    components.State
	Carrying bool
	Trail    []r2.Vec // Oldest first
	Alive    bool
	AgeTicks int
}

// ColonySnapshot holds colony stats and clock state.
type ColonySnapshot struct {
	ResourceCount int
	ResourceGoal  int
	Directive     components.Directive
	SinceDelivery int
	Tick          int
	Elapsed       float64
	GameOver      bool
	Won           bool
	Outcome       Outcome
	Alive         int
	Delivered     int
	Spawned       int
	Deaths        int
	Speed         float64
	Paused        bool
}

// Snapshot is a read-only copy of the simulation for renderers and
// tests. Mutating it has no effect on the game.
type Snapshot struct {
	W, H   int
	Home   image.Point
	Cells  []CellSnapshot // Row-major, W*H
	Agents []AgentSnapshot
	Colony ColonySnapshot
}

// Cell returns the cell at (x, y). Out-of-bounds coordinates yield a Border cell.
func (s *Snapshot) Cell(x, y int) CellSnapshot {
	if x < 0 || y < 0 || x >= s.W || y >= s.H {
		return CellSnapshot{Kind: systems.CellBorder}
	}
	return s.Cells[y*s.W+x]
}

// Agent returns the agent with the given id.
func (s *Snapshot) Agent(id uint32) (AgentSnapshot, bool) {
	i, ok := slices.BinarySearchFunc(s.Agents, id, func(a AgentSnapshot, id uint32) int {
		return cmp.Compare(a.ID, id)
	})
	if !ok {
		return AgentSnapshot{}, false
	}
	return s.Agents[i], true
}

// Snapshot returns a fresh copy of the simulation state.
func (g *Game) Snapshot() *Snapshot {
	s := &Snapshot{}
	g.SnapshotInto(s)
	return s
}

// SnapshotInto copies the simulation state into s, reusing its buffers.
// Agents are ordered by id.
func (g *Game) SnapshotInto(s *Snapshot) {
	grid := g.grid
	s.W, s.H = grid.W, grid.H
	s.Home = grid.HomeCell()

	n := grid.W * grid.H
	if cap(s.Cells) < n {
		s.Cells = make([]CellSnapshot, n)
	}
	s.Cells = s.Cells[:n]
	for y := 0; y < grid.H; y++ {
		for x := 0; x < grid.W; x++ {
			s.Cells[y*grid.W+x] = CellSnapshot{
				Kind:     grid.CellAt(x, y),
				Home:     grid.Signal(systems.ChannelHome, x, y),
				Resource: grid.Signal(systems.ChannelResource, x, y),
				Revealed: grid.Revealed(x, y),
			}
		}
	}

	alive := 0
	s.Agents = s.Agents[:0]
	query := g.antFilter.Query()
	for query.Next() {
		pos, vel, ant, trail := query.Get()

		// Reuse the trail buffer left in the backing array by the previous call.
		var buf []r2.Vec
		if k := len(s.Agents); k < cap(s.Agents) {
			buf = s.Agents[:k+1][k].Trail[:0]
		}
		s.Agents = append(s.Agents, AgentSnapshot{
			ID:       ant.ID,
			Pos:      pos.Vec(),
			Vel:      vel.Vec(),
			Heading:  ant.Heading,
			State:    ant.State,
			Carrying: ant.Carried == components.PayloadResource,
			Trail:    trail.AppendTo(buf),
			Alive:    ant.Alive,
			AgeTicks: ant.AgeTicks,
		})
		if ant.Alive {
			alive++
		}
	}
	slices.SortFunc(s.Agents, func(a, b AgentSnapshot) int { return cmp.Compare(a.ID, b.ID) })

	c := g.colony
	s.Colony = ColonySnapshot{
		ResourceCount: c.ResourceCount,
		ResourceGoal:  c.ResourceGoal,
		Directive:     c.Directive,
		SinceDelivery: c.SinceDelivery,
		Tick:          g.clock.Tick(),
		Elapsed:       g.clock.Elapsed(),
		GameOver:      c.Over(),
		Won:           c.Won(),
		Outcome:       c.Outcome,
		Alive:         alive,
		Delivered:     c.Delivered,
		Spawned:       c.Spawned,
		Deaths:        c.Deaths,
		Speed:         g.clock.Speed(),
		Paused:        g.clock.Paused(),
	}
}
