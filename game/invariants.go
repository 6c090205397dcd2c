package game

import (
	"errors"
	"fmt"

	"gonum.org/v1/gonum/spatial/r2"

	"github.com/pthm-cable/antcolony/components"
	"github.com/pthm-cable/antcolony/systems"
)

// CheckInvariants reports every violated simulation invariant as one
// joined error, or nil. A non-nil result is a programming defect.
func (g *Game) CheckInvariants() error {
	var errs []error
	c := g.colony
	grid := g.grid

	if c.ResourceCount < 0 {
		errs = append(errs, fmt.Errorf("resource count %d is negative", c.ResourceCount))
	}
	if c.Won() && c.ResourceCount < c.ResourceGoal {
		errs = append(errs, fmt.Errorf("won with %d of %d resources", c.ResourceCount, c.ResourceGoal))
	}

	home := grid.HomeCell()
	spill := g.cfg.Pheromone.HomeRadius
	for y := 0; y < grid.H; y++ {
		for x := 0; x < grid.W; x++ {
			for _, ch := range [...]systems.Channel{systems.ChannelHome, systems.ChannelResource} {
				v := grid.Signal(ch, x, y)
				if v < 0 || v > 1 {
					errs = append(errs, fmt.Errorf("%s signal %v at (%d,%d) outside [0,1]", ch, v, x, y))
				}
				if v == 0 || grid.CellAt(x, y) != systems.CellBorder {
					continue
				}
				d := r2.Norm(r2.Sub(systems.CellCenter(x, y), grid.HomePos()))
				if ch == systems.ChannelResource || d > spill {
					errs = append(errs, fmt.Errorf("border cell (%d,%d) carries %s signal %v", x, y, ch, v))
				}
			}
		}
	}
	if v := grid.Signal(systems.ChannelHome, home.X, home.Y); v < g.cfg.Pheromone.HomeFloor {
		errs = append(errs, fmt.Errorf("home signal %v below floor %v", v, g.cfg.Pheromone.HomeFloor))
	}

	query := g.antFilter.Query()
	for query.Next() {
		_, _, ant, trail := query.Get()
		if ant.Alive == (ant.State == components.StateDead) {
			errs = append(errs, fmt.Errorf("agent %d alive=%v in state %s", ant.ID, ant.Alive, ant.State))
		}
		if ant.Alive && ant.Carried == components.PayloadResource && ant.State != components.StateReturn {
			errs = append(errs, fmt.Errorf("agent %d carries a resource in state %s", ant.ID, ant.State))
		}
		if trail.Len() > trail.Cap() {
			errs = append(errs, fmt.Errorf("agent %d trail length %d exceeds capacity %d", ant.ID, trail.Len(), trail.Cap()))
		}
	}

	return errors.Join(errs...)
}
