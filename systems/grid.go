package systems

import (
	"image"
	"math"

	"gonum.org/v1/gonum/spatial/r2"
)

// CellKind is the immutable terrain type of a grid cell.
type CellKind uint8

const (
	CellGround CellKind = iota
	CellBorder
	CellResource
	CellHazard
	CellHome
)

var cellKindNames = [...]string{"ground", "border", "resource", "hazard", "home"}

func (k CellKind) String() string {
	if int(k) < len(cellKindNames) {
		return cellKindNames[k]
	}
	return "unknown"
}

// Channel selects one of the two pheromone fields.
type Channel uint8

const (
	ChannelHome Channel = iota
	ChannelResource
)

func (c Channel) String() string {
	if c == ChannelResource {
		return "resource"
	}
	return "home"
}

// ParseChannel maps a deposit-policy channel name to a Channel.
// ok is false for "none", the empty string and unknown names.
func ParseChannel(name string) (ch Channel, ok bool) {
	switch name {
	case "home":
		return ChannelHome, true
	case "resource":
		return ChannelResource, true
	}
	return 0, false
}

// gradientEps is the magnitude below which a gradient is treated as zero.
const gradientEps = 1e-9

// Field is the read-only view of the grid used during decision-making.
type Field interface {
	Sample(ch Channel, pos r2.Vec) float64
	Gradient(ch Channel, pos r2.Vec, delta float64) r2.Vec
	KindAt(pos r2.Vec) CellKind
	Bounds() r2.Vec
}

// Grid is the environment: cell kinds plus the home and resource
// pheromone channels, each in [0,1]. It is the single owner of both
// fields; all writes happen during the logic pass.
type Grid struct {
	W, H int

	kinds    []CellKind
	home     []float64
	resource []float64
	revealed []bool

	homeCell image.Point

	// Scratch buffer for diffusion
	tmp []float64
}

// NewGrid builds a grid with zeroed signals from a parsed layout.
func NewGrid(l *Layout) *Grid {
	n := l.W * l.H
	g := &Grid{
		W:        l.W,
		H:        l.H,
		kinds:    make([]CellKind, n),
		home:     make([]float64, n),
		resource: make([]float64, n),
		revealed: make([]bool, n),
		homeCell: l.Home,
		tmp:      make([]float64, n),
	}
	copy(g.kinds, l.Kinds)
	return g
}

// InBounds reports whether (x, y) addresses a cell.
func (g *Grid) InBounds(x, y int) bool {
	return x >= 0 && y >= 0 && x < g.W && y < g.H
}

// CellOf maps a continuous position to the cell containing it.
func CellOf(pos r2.Vec) image.Point {
	return image.Point{X: int(math.Floor(pos.X)), Y: int(math.Floor(pos.Y))}
}

// CellCenter returns the continuous centre of cell (x, y).
func CellCenter(x, y int) r2.Vec {
	return r2.Vec{X: float64(x) + 0.5, Y: float64(y) + 0.5}
}

// CellAt returns the kind of cell (x, y). Out-of-bounds cells are Border.
func (g *Grid) CellAt(x, y int) CellKind {
	if !g.InBounds(x, y) {
		return CellBorder
	}
	return g.kinds[y*g.W+x]
}

// KindAt returns the kind of the cell containing pos.
func (g *Grid) KindAt(pos r2.Vec) CellKind {
	c := CellOf(pos)
	return g.CellAt(c.X, c.Y)
}

// Traversable reports whether an agent may occupy pos.
func (g *Grid) Traversable(pos r2.Vec) bool {
	return g.KindAt(pos) != CellBorder
}

// Bounds returns the world extent in continuous units.
func (g *Grid) Bounds() r2.Vec { return r2.Vec{X: float64(g.W), Y: float64(g.H)} }

// HomeCell returns the integer coordinates of the home cell.
func (g *Grid) HomeCell() image.Point { return g.homeCell }

// HomePos returns the centre of the home cell.
func (g *Grid) HomePos() r2.Vec { return CellCenter(g.homeCell.X, g.homeCell.Y) }

func (g *Grid) channel(ch Channel) []float64 {
	if ch == ChannelResource {
		return g.resource
	}
	return g.home
}

// Signal returns the raw value of channel ch at cell (x, y), or 0 out of bounds.
func (g *Grid) Signal(ch Channel, x, y int) float64 {
	if !g.InBounds(x, y) {
		return 0
	}
	return g.channel(ch)[y*g.W+x]
}

// Revealed reports whether cell (x, y) has been revealed.
func (g *Grid) Revealed(x, y int) bool {
	if !g.InBounds(x, y) {
		return false
	}
	return g.revealed[y*g.W+x]
}

// DecayAll subtracts rate from both channels, flooring at 0.
func (g *Grid) DecayAll(rate float64) {
	g.DecayChannel(ChannelHome, rate)
	g.DecayChannel(ChannelResource, rate)
}

// DecayChannel subtracts rate from one channel, flooring at 0.
func (g *Grid) DecayChannel(ch Channel, rate float64) {
	if rate <= 0 {
		return
	}
	s := g.channel(ch)
	for i, v := range s {
		s[i] = math.Max(0, v-rate)
	}
}

// ReinforceHome raises the home channel around pos to a linear falloff
// from 1 at pos to floor at radius: homeSignal = max(current, falloff(d)).
func (g *Grid) ReinforceHome(pos r2.Vec, radius, floor float64) {
	if radius <= 0 {
		return
	}
	x0 := int(math.Floor(pos.X - radius))
	x1 := int(math.Ceil(pos.X + radius))
	y0 := int(math.Floor(pos.Y - radius))
	y1 := int(math.Ceil(pos.Y + radius))

	for y := max(y0, 0); y <= min(y1, g.H-1); y++ {
		for x := max(x0, 0); x <= min(x1, g.W-1); x++ {
			d := r2.Norm(r2.Sub(CellCenter(x, y), pos))
			if d > radius {
				continue
			}
			f := floor + (1-floor)*(1-d/radius)
			i := y*g.W + x
			if f > g.home[i] {
				g.home[i] = clamp01(f)
			}
		}
	}
}

// Deposit adds amount to channel ch at cell (x, y), capped at 1.
// Border cells, out-of-bounds cells and non-positive amounts are ignored.
func (g *Grid) Deposit(ch Channel, x, y int, amount float64) {
	if amount <= 0 || g.CellAt(x, y) == CellBorder {
		return
	}
	s := g.channel(ch)
	i := y*g.W + x
	s[i] = math.Min(1, s[i]+amount)
}

// Mark sets channel ch at cell (x, y) to 1.
func (g *Grid) Mark(ch Channel, x, y int) {
	if g.CellAt(x, y) == CellBorder {
		return
	}
	g.channel(ch)[y*g.W+x] = 1
}

// Reveal flags cell (x, y) as revealed. Idempotent.
func (g *Grid) Reveal(x, y int) {
	if g.InBounds(x, y) {
		g.revealed[y*g.W+x] = true
	}
}

// Sample returns channel ch at pos by bilinear interpolation over the
// four surrounding cell centres. Out-of-bounds corners contribute 0 and
// positions outside the grid sample as 0.
func (g *Grid) Sample(ch Channel, pos r2.Vec) float64 {
	if pos.X < 0 || pos.Y < 0 || pos.X >= float64(g.W) || pos.Y >= float64(g.H) {
		return 0
	}
	fx := pos.X - 0.5
	fy := pos.Y - 0.5
	x0 := int(math.Floor(fx))
	y0 := int(math.Floor(fy))
	tx := fx - float64(x0)
	ty := fy - float64(y0)

	a := lerp(g.Signal(ch, x0, y0), g.Signal(ch, x0+1, y0), tx)
	b := lerp(g.Signal(ch, x0, y0+1), g.Signal(ch, x0+1, y0+1), tx)
	return lerp(a, b, ty)
}

// Gradient estimates the direction of increasing signal by central
// differences and returns it as a unit vector, or zero where flat.
func (g *Grid) Gradient(ch Channel, pos r2.Vec, delta float64) r2.Vec {
	dx := r2.Vec{X: delta}
	dy := r2.Vec{Y: delta}
	v := r2.Vec{
		X: g.Sample(ch, r2.Add(pos, dx)) - g.Sample(ch, r2.Sub(pos, dx)),
		Y: g.Sample(ch, r2.Add(pos, dy)) - g.Sample(ch, r2.Sub(pos, dy)),
	}
	n := r2.Norm(v)
	if n <= gradientEps {
		return r2.Vec{}
	}
	return r2.Scale(1/n, v)
}

// Diffuse spreads both channels with a 5-point Laplacian stencil.
// Border cells neither give nor receive signal.
func (g *Grid) Diffuse(rate float64) {
	if rate <= 0 {
		return
	}
	// Stability clamp for explicit diffusion
	if rate > 0.25 {
		rate = 0.25
	}
	g.diffuse(g.home, rate)
	g.diffuse(g.resource, rate)
}

func (g *Grid) diffuse(src []float64, a float64) {
	w, h := g.W, g.H
	dst := g.tmp

	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			i := y*w + x
			if g.kinds[i] == CellBorder {
				dst[i] = src[i]
				continue
			}
			c := src[i]
			var lap float64
			for _, o := range [4]image.Point{{0, -1}, {0, 1}, {1, 0}, {-1, 0}} {
				nx, ny := x+o.X, y+o.Y
				if g.CellAt(nx, ny) == CellBorder {
					continue // zero-flux edge
				}
				lap += src[ny*w+nx] - c
			}
			dst[i] = c + a*lap
		}
	}

	for i := range src {
		src[i] = clamp01(dst[i])
	}
}

// TotalSignal sums channel ch over all cells.
func (g *Grid) TotalSignal(ch Channel) float64 {
	var sum float64
	for _, v := range g.channel(ch) {
		sum += v
	}
	return sum
}

// Coverage returns the fraction of non-border cells whose channel ch
// exceeds threshold.
func (g *Grid) Coverage(ch Channel, threshold float64) float64 {
	s := g.channel(ch)
	var open, hit int
	for i, k := range g.kinds {
		if k == CellBorder {
			continue
		}
		open++
		if s[i] > threshold {
			hit++
		}
	}
	if open == 0 {
		return 0
	}
	return float64(hit) / float64(open)
}

// RevealedCount returns the number of revealed cells.
func (g *Grid) RevealedCount() int {
	n := 0
	for _, r := range g.revealed {
		if r {
			n++
		}
	}
	return n
}
