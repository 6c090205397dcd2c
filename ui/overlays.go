package ui

import (
	rl "github.com/gen2brain/raylib-go/raylib"
)

// Overlay is a toggleable layer of the colony view.
type Overlay uint8

const (
	OverlayHomeField Overlay = iota
	OverlayResourceField
	OverlayRevealed
	OverlayTrails
	OverlayHeadings
	OverlayGrid
	OverlayPerf
	numOverlays
)

// OverlayGroup orders overlays in the controls panel.
type OverlayGroup uint8

const (
	GroupFields OverlayGroup = iota
	GroupAgents
	GroupDebug
	numGroups
)

var groupTitles = [numGroups]string{"Fields", "Agents", "Debug"}

func (g OverlayGroup) String() string {
	if g < numGroups {
		return groupTitles[g]
	}
	return "?"
}

type overlayInfo struct {
	name  string
	key   int32
	group OverlayGroup
	on    bool // at startup
}

var overlayTable = [numOverlays]overlayInfo{
	OverlayHomeField:     {"Home field", rl.KeyH, GroupFields, true},
	OverlayResourceField: {"Resource field", rl.KeyF, GroupFields, true},
	OverlayRevealed:      {"Revealed cells", rl.KeyV, GroupFields, false},
	OverlayTrails:        {"Trails", rl.KeyT, GroupAgents, false},
	OverlayHeadings:      {"Headings", rl.KeyN, GroupAgents, false},
	OverlayGrid:          {"Grid lines", rl.KeyG, GroupDebug, false},
	OverlayPerf:          {"Frame timing", rl.KeyO, GroupDebug, false},
}

func (o Overlay) String() string {
	if o < numOverlays {
		return overlayTable[o].name
	}
	return "?"
}

// Group returns the panel group o is listed under.
func (o Overlay) Group() OverlayGroup { return overlayTable[o].group }

// KeyLabel is the toggle key as shown in the panel.
func (o Overlay) KeyLabel() string { return string(rune(overlayTable[o].key)) }

// Overlays is the on/off state of every overlay.
type Overlays struct {
	on uint16
}

// NewOverlays returns the startup overlay set.
func NewOverlays() *Overlays {
	s := &Overlays{}
	for o, info := range overlayTable {
		s.Set(Overlay(o), info.on)
	}
	return s
}

func (s *Overlays) On(o Overlay) bool { return s.on&(1<<o) != 0 }

func (s *Overlays) Set(o Overlay, on bool) {
	if o >= numOverlays {
		return
	}
	if on {
		s.on |= 1 << o
	} else {
		s.on &^= 1 << o
	}
}

// Toggle flips o and returns its new state.
func (s *Overlays) Toggle(o Overlay) bool {
	s.Set(o, !s.On(o))
	return s.On(o)
}

// HandleKey toggles the overlay bound to key, if any.
func (s *Overlays) HandleKey(key int32) (Overlay, bool) {
	for o, info := range overlayTable {
		if info.key == key {
			s.Toggle(Overlay(o))
			return Overlay(o), true
		}
	}
	return 0, false
}

// InGroup lists the overlays of g in display order.
func InGroup(g OverlayGroup) []Overlay {
	var out []Overlay
	for o, info := range overlayTable {
		if info.group == g {
			out = append(out, Overlay(o))
		}
	}
	return out
}
