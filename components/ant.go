// Package components defines ECS components for the simulation.
package components

import (
	"fmt"
	"strings"
)

// State is an agent's behavior state.
type State uint8

const (
	StateExplore State = iota
	StateHarvest
	StateReturn
	StateDefend
	StateDead // Terminal
)

var stateNames = [...]string{"explore", "harvest", "return", "defend", "dead"}

func (s State) String() string {
	if int(s) < len(stateNames) {
		return stateNames[s]
	}
	return "unknown"
}

// Payload is what an agent is carrying.
type Payload uint8

const (
	PayloadNone Payload = iota
	PayloadResource
)

func (p Payload) String() string {
	if p == PayloadResource {
		return "resource"
	}
	return "none"
}

// Directive is the colony-wide behavior bias set by the player.
type Directive uint8

const (
	DirectiveExplore Directive = iota
	DirectiveHarvest
	DirectiveDefend
)

var directiveNames = [...]string{"explore", "harvest", "defend"}

func (d Directive) String() string {
	if int(d) < len(directiveNames) {
		return directiveNames[d]
	}
	return "unknown"
}

// State returns the agent state a directive maps to.
func (d Directive) State() State {
	switch d {
	case DirectiveHarvest:
		return StateHarvest
	case DirectiveDefend:
		return StateDefend
	default:
		return StateExplore
	}
}

// Valid reports whether d is one of the defined directives.
func (d Directive) Valid() bool { return d <= DirectiveDefend }

// ParseDirective parses a directive name, case-insensitively.
func ParseDirective(s string) (Directive, error) {
	for i, name := range directiveNames {
		if strings.EqualFold(s, name) {
			return Directive(i), nil
		}
	}
	return 0, fmt.Errorf("unknown directive %q", s)
}

// Ant holds per-agent identity, behavior state and motion-pass latches.
type Ant struct {
	ID       uint32
	State    State
	Carried  Payload
	Alive    bool
	AgeTicks int
	Heading  float64 // Wander heading (radians), persisted between calls

	// Latched by the motion pass, resolved by the next logic tick.
	PendingPickup  bool
	PickupX        int
	PickupY        int
	ArrivedHome    bool
	DeathRecorded  bool
	TicksSinceDead int
}
