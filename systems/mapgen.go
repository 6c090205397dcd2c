package systems

import (
	"image"
	"math"

	"github.com/ojrac/opensimplex-go"

	"github.com/pthm-cable/antcolony/config"
)

// GenerateMap builds a bordered layout with home at the centre and
// resource and hazard patches placed by two simplex noise fields.
// The area within ClearRadius of home is kept as ground.
func GenerateMap(c config.MapGenConfig, seed int64) *Layout {
	w, h := max(c.Width, 5), max(c.Height, 5)
	l := &Layout{
		W:     w,
		H:     h,
		Kinds: make([]CellKind, w*h),
		Home:  image.Point{X: w / 2, Y: h / 2},
	}

	food := opensimplex.New(seed)
	danger := opensimplex.New(seed ^ 0x5bd1e995)

	resources := 0
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			i := y*w + x
			if x == 0 || y == 0 || x == w-1 || y == h-1 {
				l.Kinds[i] = CellBorder
				continue
			}
			dx := float64(x - l.Home.X)
			dy := float64(y - l.Home.Y)
			if math.Hypot(dx, dy) <= c.ClearRadius {
				continue
			}
			fx, fy := float64(x)*c.Scale, float64(y)*c.Scale
			switch {
			case food.Eval2(fx, fy) > c.ResourceLevel:
				l.Kinds[i] = CellResource
				resources++
			case danger.Eval2(fx, fy) < c.HazardLevel:
				l.Kinds[i] = CellHazard
			}
		}
	}
	l.Kinds[l.Home.Y*w+l.Home.X] = CellHome

	// A map without resources can only be lost.
	if resources == 0 {
		x := min(l.Home.X+int(c.ClearRadius)+1, w-2)
		l.Kinds[l.Home.Y*w+x] = CellResource
	}
	return l
}
