package renderer

import (
	"image/color"
	"testing"

	"github.com/pthm-cable/antcolony/systems"
)

func TestCellColor(t *testing.T) {
	all := FieldOptions{Home: true, Resource: true, Revealed: true}
	ground := kindColors[systems.CellGround]

	tests := []struct {
		name     string
		kind     systems.CellKind
		home     float64
		resource float64
		revealed bool
		opts     FieldOptions
		want     color.RGBA
	}{
		{"bare ground", systems.CellGround, 0, 0, false, all, ground},
		{"layers off", systems.CellGround, 1, 1, true, FieldOptions{}, ground},
		{"border ignores signal", systems.CellBorder, 1, 1, true, all, kindColors[systems.CellBorder]},
		{"full resource", systems.CellGround, 0, 1, false, FieldOptions{Resource: true}, blend(ground, resourceTint, 0.8)},
		{"hazard", systems.CellHazard, 0, 0, false, all, kindColors[systems.CellHazard]},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := CellColor(tt.kind, tt.home, tt.resource, tt.revealed, tt.opts); got != tt.want {
				t.Errorf("CellColor = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestBlend(t *testing.T) {
	a := color.RGBA{R: 0, G: 100, B: 200, A: 255}
	b := color.RGBA{R: 200, G: 100, B: 0, A: 255}

	if got := blend(a, b, 0); got != a {
		t.Errorf("blend t=0 = %v, want %v", got, a)
	}
	if got := blend(a, b, 1); got != b {
		t.Errorf("blend t=1 = %v, want %v", got, b)
	}
	if got := blend(a, b, 0.5); got != (color.RGBA{R: 100, G: 100, B: 100, A: 255}) {
		t.Errorf("blend t=0.5 = %v", got)
	}
	if got := blend(a, b, 3); got != b {
		t.Errorf("blend clamps t, got %v", got)
	}
}

func TestHomeTintIncreasesWithSignal(t *testing.T) {
	opts := FieldOptions{Home: true}
	weak := CellColor(systems.CellGround, 0.1, 0, false, opts)
	strong := CellColor(systems.CellGround, 0.9, 0, false, opts)
	if strong.B <= weak.B {
		t.Errorf("stronger home signal should be bluer: weak %v strong %v", weak, strong)
	}
}
