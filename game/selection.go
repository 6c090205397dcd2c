package game

import (
	"gonum.org/v1/gonum/spatial/r2"
)

// Nearest returns the agent closest to p within maxDist world units.
// Live agents win over corpses at equal distance.
func (s *Snapshot) Nearest(p r2.Vec, maxDist float64) (AgentSnapshot, bool) {
	best := -1
	bestDist := maxDist * maxDist
	for i := range s.Agents {
		a := &s.Agents[i]
		d := r2.Norm2(r2.Sub(a.Pos, p))
		if d > bestDist {
			continue
		}
		if best >= 0 && d == bestDist && !a.Alive {
			continue
		}
		best, bestDist = i, d
	}
	if best < 0 {
		return AgentSnapshot{}, false
	}
	return s.Agents[best], true
}

// selection tracks the agent picked in the viewer by id, so it survives
// roster reordering between snapshots.
type selection struct {
	id    uint32
	valid bool
}

func (sel *selection) set(a AgentSnapshot, ok bool) {
	sel.id, sel.valid = a.ID, ok
}

func (sel *selection) clear() { sel.valid = false }

// resolve returns the selected agent in s, clearing the selection when
// the agent has been pruned.
func (sel *selection) resolve(s *Snapshot) (AgentSnapshot, bool) {
	if !sel.valid {
		return AgentSnapshot{}, false
	}
	a, ok := s.Agent(sel.id)
	if !ok {
		sel.clear()
	}
	return a, ok
}
