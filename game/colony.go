package game

import (
	"gonum.org/v1/gonum/spatial/r2"

	"github.com/pthm-cable/antcolony/components"
	"github.com/pthm-cable/antcolony/config"
)

// Outcome is the terminal result of a game.
type Outcome uint8

const (
	OutcomeRunning Outcome = iota
	OutcomeWin
	OutcomeLossExtinction // Fewer live agents than colony.min_survivors
	OutcomeLossStarvation // No delivery for longer than colony.starvation_threshold
)

var outcomeNames = [...]string{"running", "win", "loss_extinction", "loss_starvation"}

func (o Outcome) String() string {
	if int(o) < len(outcomeNames) {
		return outcomeNames[o]
	}
	return "unknown"
}

// Colony is the economy: resource count, directive, roster counters and
// the termination rules. Only the logic pass mutates it, apart from the
// directive which the player sets between frames.
type Colony struct {
	ResourceCount int
	ResourceGoal  int
	Directive     components.Directive
	SinceDelivery int // Logic ticks since the last delivery
	HomePos       r2.Vec
	NextID        uint32

	SpawnCost           int
	MaxAgents           int
	MinSurvivors        int
	StarvationThreshold int

	Delivered int
	Spawned   int
	Deaths    int

	Outcome Outcome
}

// NewColony creates a colony from config with its home at home.
func NewColony(c config.ColonyConfig, home r2.Vec, d components.Directive) *Colony {
	return &Colony{
		ResourceCount:       c.InitialResources,
		ResourceGoal:        c.ResourceGoal,
		Directive:           d,
		HomePos:             home,
		SpawnCost:           c.SpawnCost,
		MaxAgents:           c.MaxAgents,
		MinSurvivors:        c.MinSurvivors,
		StarvationThreshold: c.StarvationThreshold,
	}
}

// NewID returns the next unused agent id.
func (c *Colony) NewID() uint32 {
	id := c.NextID
	c.NextID++
	return id
}

// Deliver books one unit of resource.
func (c *Colony) Deliver() {
	c.ResourceCount++
	c.Delivered++
	c.SinceDelivery = 0
}

// TrySpawn deducts the spawn cost and reports true when the colony can
// afford another agent and is below its cap. A colony that has reached
// its goal does not spend.
func (c *Colony) TrySpawn(alive int) bool {
	if c.ResourceCount >= c.ResourceGoal {
		return false
	}
	if c.ResourceCount < c.SpawnCost || alive >= c.MaxAgents {
		return false
	}
	c.ResourceCount -= c.SpawnCost
	c.Spawned++
	return true
}

// SpawnState is the state new agents start in under the current directive.
func (c *Colony) SpawnState() components.State {
	if c.Directive == components.DirectiveDefend {
		return components.StateDefend
	}
	return components.StateExplore
}

// Evaluate applies the termination rules in priority order and latches
// the outcome once terminal.
func (c *Colony) Evaluate(alive int) Outcome {
	if c.Outcome != OutcomeRunning {
		return c.Outcome
	}
	switch {
	case c.ResourceCount >= c.ResourceGoal:
		c.Outcome = OutcomeWin
	case alive < c.MinSurvivors:
		c.Outcome = OutcomeLossExtinction
	case c.SinceDelivery > c.StarvationThreshold:
		c.Outcome = OutcomeLossStarvation
	}
	return c.Outcome
}

// Over reports whether the game has ended.
func (c *Colony) Over() bool { return c.Outcome != OutcomeRunning }

// Won reports whether the game ended in a win.
func (c *Colony) Won() bool { return c.Outcome == OutcomeWin }
