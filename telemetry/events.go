// Package telemetry provides colony health tracking, CSV output and perf timing.
package telemetry

// EventType identifies telemetry events.
type EventType uint8

const (
	EventSpawn EventType = iota
	EventPickup
	EventDelivery
	EventDeath
	EventDirective
	EventGameOver
)

var eventNames = [...]string{"spawn", "pickup", "delivery", "death", "directive", "game_over"}

func (t EventType) String() string {
	if int(t) < len(eventNames) {
		return eventNames[t]
	}
	return "unknown"
}

// MarshalCSV writes the event name rather than its ordinal.
func (t EventType) MarshalCSV() (string, error) {
	return t.String(), nil
}

// Event is a single colony event, one row of events.csv.
type Event struct {
	Tick    int       `csv:"tick"`
	Type    EventType `csv:"event"`
	AgentID uint32    `csv:"agent"`
	X       float64   `csv:"x"`
	Y       float64   `csv:"y"`
	Detail  string    `csv:"detail"` // State, directive or outcome name
}

// NewSpawnEvent creates a spawn event.
func NewSpawnEvent(tick int, id uint32, x, y float64, state string) Event {
	return Event{Tick: tick, Type: EventSpawn, AgentID: id, X: x, Y: y, Detail: state}
}

// NewPickupEvent creates a resource pickup event at the given cell.
func NewPickupEvent(tick int, id uint32, cellX, cellY int) Event {
	return Event{Tick: tick, Type: EventPickup, AgentID: id, X: float64(cellX), Y: float64(cellY)}
}

// NewDeliveryEvent creates a delivery event; next is the state adopted after it.
func NewDeliveryEvent(tick int, id uint32, x, y float64, next string) Event {
	return Event{Tick: tick, Type: EventDelivery, AgentID: id, X: x, Y: y, Detail: next}
}

// NewDeathEvent creates a death event.
func NewDeathEvent(tick int, id uint32, x, y float64) Event {
	return Event{Tick: tick, Type: EventDeath, AgentID: id, X: x, Y: y}
}

// NewDirectiveEvent records a colony directive change.
func NewDirectiveEvent(tick int, directive string) Event {
	return Event{Tick: tick, Type: EventDirective, Detail: directive}
}

// NewGameOverEvent records the terminal outcome.
func NewGameOverEvent(tick int, outcome string) Event {
	return Event{Tick: tick, Type: EventGameOver, Detail: outcome}
}
