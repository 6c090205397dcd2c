package systems

import (
	"math"
	"testing"

	"github.com/pthm-cable/antcolony/config"
)

func testMapGen() config.MapGenConfig {
	return config.MapGenConfig{
		Width:         40,
		Height:        30,
		Scale:         0.15,
		ResourceLevel: 0.5,
		HazardLevel:   -0.55,
		ClearRadius:   4,
	}
}

func TestGenerateMap(t *testing.T) {
	c := testMapGen()
	l := GenerateMap(c, 42)

	if l.W != c.Width || l.H != c.Height {
		t.Fatalf("size = %dx%d, want %dx%d", l.W, l.H, c.Width, c.Height)
	}
	if l.KindAt(l.Home.X, l.Home.Y) != CellHome {
		t.Fatal("home cell not placed at Home")
	}

	homes, resources := 0, 0
	for y := 0; y < l.H; y++ {
		for x := 0; x < l.W; x++ {
			k := l.KindAt(x, y)
			edge := x == 0 || y == 0 || x == l.W-1 || y == l.H-1
			if edge && k != CellBorder {
				t.Fatalf("edge cell (%d,%d) is %v, want border", x, y, k)
			}
			switch k {
			case CellHome:
				homes++
			case CellResource:
				resources++
			}
			d := math.Hypot(float64(x-l.Home.X), float64(y-l.Home.Y))
			if d <= c.ClearRadius && k != CellGround && k != CellHome {
				t.Errorf("cell (%d,%d) inside clear radius is %v", x, y, k)
			}
		}
	}
	if homes != 1 {
		t.Errorf("homes = %d, want 1", homes)
	}
	if resources == 0 {
		t.Error("generated map has no resources")
	}
}

func TestGenerateMapDeterministic(t *testing.T) {
	a := GenerateMap(testMapGen(), 7)
	b := GenerateMap(testMapGen(), 7)
	if a.String() != b.String() {
		t.Error("same seed produced different maps")
	}
}

func TestGenerateMapAlwaysHasResource(t *testing.T) {
	c := testMapGen()
	c.ResourceLevel = 2 // noise never exceeds this
	l := GenerateMap(c, 3)

	found := false
	for _, k := range l.Kinds {
		if k == CellResource {
			found = true
		}
	}
	if !found {
		t.Error("fallback resource cell missing")
	}
}
