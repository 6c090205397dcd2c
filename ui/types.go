// Package ui draws the colony viewer's panels. Panels are lists of
// typed rows laid out by a shared Renderer.
package ui

import (
	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/pthm-cable/antcolony/components"
)

// RowKind selects how a row is drawn.
type RowKind uint8

const (
	RowText   RowKind = iota // label: value
	RowBar                   // label and a [0, 1] bar
	RowSwatch                // label and a colour square
)

// Row is one labelled line of a panel showing a value read from T.
type Row[T any] struct {
	Key   string
	Label string
	Kind  RowKind
	Show  func(T) bool // nil shows always
	Text  func(T) string
	Value func(T) float64
	Color func(T) rl.Color
}

// Section is a titled group of rows.
type Section[T any] struct {
	Title string
	Show  func(T) bool
	Rows  []Row[T]
}

// Theme is the palette and metrics shared by every panel.
type Theme struct {
	PanelBg, PanelBorder  rl.Color
	SectionHeader         rl.Color
	LabelColor            rl.Color
	ValueColor            rl.Color
	BarBg, BarFill        rl.Color
	Padding, LineHeight   int32
	LabelWidth, BarHeight int32
	FontSize              int32
	HeaderFontSize        int32
}

// DefaultTheme is a dark soil palette.
func DefaultTheme() Theme {
	return Theme{
		PanelBg:        rl.NewColor(28, 22, 16, 235),
		PanelBorder:    rl.NewColor(92, 74, 52, 255),
		SectionHeader:  rl.NewColor(240, 196, 90, 255),
		LabelColor:     rl.NewColor(190, 180, 165, 255),
		ValueColor:     rl.RayWhite,
		BarBg:          rl.NewColor(48, 40, 32, 255),
		BarFill:        rl.NewColor(110, 200, 120, 255),
		Padding:        8,
		LineHeight:     16,
		LabelWidth:     84,
		BarHeight:      11,
		FontSize:       12,
		HeaderFontSize: 14,
	}
}

// StateColor returns the display color for an agent state.
func StateColor(state components.State) rl.Color {
	switch state {
	case components.StateExplore:
		return rl.Color{R: 120, G: 180, B: 255, A: 255}
	case components.StateHarvest:
		return rl.Color{R: 250, G: 200, B: 60, A: 255}
	case components.StateReturn:
		return rl.Color{R: 110, G: 220, B: 110, A: 255}
	case components.StateDefend:
		return rl.Color{R: 230, G: 90, B: 200, A: 255}
	default:
		return rl.Color{R: 90, G: 90, B: 90, A: 255}
	}
}
