package systems

import (
	"slices"

	"github.com/pthm-cable/antcolony/components"
)

// Event is something that can move an agent between states.
type Event uint8

const (
	EventHazard        Event = iota // Entered a hazard cell
	EventFoundResource              // Entered a resource cell while carrying nothing
	EventDelivered                  // Reached home while carrying
	EventDirective                  // Colony directive changed
)

var eventNames = [...]string{"hazard", "found_resource", "delivered", "directive"}

func (e Event) String() string {
	if int(e) < len(eventNames) {
		return eventNames[e]
	}
	return "unknown"
}

// Transition is one row of the state table. A row with ToDirective set
// targets the state of the current directive instead of To.
type Transition struct {
	From        []components.State
	Event       Event
	To          components.State
	ToDirective bool
}

var liveStates = []components.State{
	components.StateExplore, components.StateHarvest, components.StateReturn, components.StateDefend,
}

// Transitions is the agent state table, in evaluation priority order.
// Dead has no outgoing rows. Return has no directive row.
var Transitions = []Transition{
	{From: liveStates, Event: EventHazard, To: components.StateDead},
	{From: []components.State{components.StateExplore, components.StateHarvest}, Event: EventFoundResource, To: components.StateReturn},
	{From: []components.State{components.StateReturn}, Event: EventDelivered, ToDirective: true},
	{From: []components.State{components.StateExplore, components.StateHarvest, components.StateDefend}, Event: EventDirective, ToDirective: true},
}

// Next returns the state reached from s on event e under directive d.
// ok is false when no row matches; s is returned unchanged then.
func Next(s components.State, e Event, d components.Directive) (next components.State, ok bool) {
	for _, t := range Transitions {
		if t.Event != e || !slices.Contains(t.From, s) {
			continue
		}
		if t.ToDirective {
			return d.State(), true
		}
		return t.To, true
	}
	return s, false
}
