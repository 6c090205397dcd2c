package systems

import (
	"math"
	"math/rand"
	"strings"
	"testing"

	"gonum.org/v1/gonum/spatial/r2"
)

func mustLayout(t testing.TB, text string) *Layout {
	t.Helper()
	l, err := ParseMap(strings.NewReader(text), nil)
	if err != nil {
		t.Fatalf("ParseMap: %v", err)
	}
	return l
}

const openMap = `#######
#.....#
#.....#
#..H..#
#.....#
#.....#
#######`

func TestGridDecayAll(t *testing.T) {
	g := NewGrid(mustLayout(t, openMap))
	g.Deposit(ChannelHome, 2, 2, 0.5)
	g.Deposit(ChannelResource, 2, 2, 0.05)

	g.DecayAll(0.1)

	if got := g.Signal(ChannelHome, 2, 2); math.Abs(got-0.4) > 1e-12 {
		t.Errorf("home after decay = %v, want 0.4", got)
	}
	if got := g.Signal(ChannelResource, 2, 2); got != 0 {
		t.Errorf("resource after decay = %v, want floor at 0", got)
	}
}

func TestGridDepositCapsAndSkipsBorder(t *testing.T) {
	g := NewGrid(mustLayout(t, openMap))

	for i := 0; i < 5; i++ {
		g.Deposit(ChannelResource, 1, 1, 0.4)
	}
	if got := g.Signal(ChannelResource, 1, 1); got != 1 {
		t.Errorf("deposit should cap at 1, got %v", got)
	}

	g.Deposit(ChannelResource, 0, 0, 0.5)
	if got := g.Signal(ChannelResource, 0, 0); got != 0 {
		t.Errorf("border cell took a deposit: %v", got)
	}

	g.Deposit(ChannelResource, -3, 40, 0.5) // out of bounds, no panic
	g.Deposit(ChannelResource, 2, 2, -1)
	if got := g.Signal(ChannelResource, 2, 2); got != 0 {
		t.Errorf("negative deposit changed signal: %v", got)
	}
}

func TestGridMark(t *testing.T) {
	g := NewGrid(mustLayout(t, openMap))
	g.Mark(ChannelResource, 4, 4)
	if got := g.Signal(ChannelResource, 4, 4); got != 1 {
		t.Errorf("Mark = %v, want 1", got)
	}
}

func TestGridReinforceHomeFloor(t *testing.T) {
	g := NewGrid(mustLayout(t, openMap))
	home := g.HomePos()
	const floor = 0.6

	// No agents: decay then reinforce forever keeps the beacon up.
	for tick := 0; tick < 2000; tick++ {
		g.DecayAll(0.05)
		g.ReinforceHome(home, 3, floor)
		hc := g.HomeCell()
		if v := g.Signal(ChannelHome, hc.X, hc.Y); v < floor {
			t.Fatalf("tick %d: home cell signal %v below floor %v", tick, v, floor)
		}
	}

	// Falloff decreases with distance and never exceeds 1.
	hc := g.HomeCell()
	near := g.Signal(ChannelHome, hc.X+1, hc.Y)
	far := g.Signal(ChannelHome, hc.X+2, hc.Y)
	if !(near > far) {
		t.Errorf("expected falloff: near=%v far=%v", near, far)
	}
	if want := floor + (1-floor)*(1-2.0/3); math.Abs(far-want) > 1e-9 {
		t.Errorf("signal at d=2 = %v, want %v", far, want)
	}
}

func TestGridReinforceKeepsHigherSignal(t *testing.T) {
	g := NewGrid(mustLayout(t, openMap))
	hc := g.HomeCell()
	g.Mark(ChannelHome, hc.X+2, hc.Y)
	g.ReinforceHome(g.HomePos(), 3, 0.2)
	if got := g.Signal(ChannelHome, hc.X+2, hc.Y); got != 1 {
		t.Errorf("reinforcement lowered a stronger signal to %v", got)
	}
}

func TestGridSampleBilinear(t *testing.T) {
	g := NewGrid(mustLayout(t, openMap))
	g.Mark(ChannelResource, 2, 2)

	tests := []struct {
		name string
		pos  r2.Vec
		want float64
	}{
		{"cell centre", r2.Vec{X: 2.5, Y: 2.5}, 1},
		{"halfway to neighbour", r2.Vec{X: 3.0, Y: 2.5}, 0.5},
		{"corner of four", r2.Vec{X: 3.0, Y: 3.0}, 0.25},
		{"far cell", r2.Vec{X: 5.5, Y: 5.5}, 0},
		{"outside grid", r2.Vec{X: -1, Y: 2.5}, 0},
		{"beyond far edge", r2.Vec{X: 7, Y: 7}, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := g.Sample(ChannelResource, tt.pos); math.Abs(got-tt.want) > 1e-9 {
				t.Errorf("Sample(%v) = %v, want %v", tt.pos, got, tt.want)
			}
		})
	}
}

func TestGridSampleEdgeCornersAreZero(t *testing.T) {
	g := NewGrid(mustLayout(t, openMap))
	// Fill every interior cell so the only zero corners are out of bounds.
	for y := 0; y < g.H; y++ {
		for x := 0; x < g.W; x++ {
			g.home[y*g.W+x] = 1
		}
	}
	// At (0.2, 0.2) three of four corners are out of bounds.
	got := g.Sample(ChannelHome, r2.Vec{X: 0.2, Y: 0.2})
	if got <= 0 || got >= 1 {
		t.Errorf("edge sample = %v, want strictly between 0 and 1", got)
	}
}

func TestGridGradient(t *testing.T) {
	g := NewGrid(mustLayout(t, openMap))

	if grad := g.Gradient(ChannelResource, r2.Vec{X: 3.5, Y: 3.5}, 0.5); grad != (r2.Vec{}) {
		t.Errorf("flat field gradient = %v, want zero", grad)
	}

	g.Mark(ChannelResource, 5, 3)
	grad := g.Gradient(ChannelResource, r2.Vec{X: 4.5, Y: 3.5}, 0.5)
	if math.Abs(r2.Norm(grad)-1) > 1e-9 {
		t.Errorf("gradient not unit length: %v", grad)
	}
	if grad.X <= 0.99 {
		t.Errorf("gradient should point +x toward the marked cell, got %v", grad)
	}

	// Outside the grid: no error, zero result.
	if grad := g.Gradient(ChannelResource, r2.Vec{X: -10, Y: -10}, 0.5); grad != (r2.Vec{}) {
		t.Errorf("out-of-bounds gradient = %v, want zero", grad)
	}
}

func TestGridRevealIdempotent(t *testing.T) {
	g := NewGrid(mustLayout(t, openMap))
	g.Reveal(2, 2)
	g.Reveal(2, 2)
	g.Reveal(99, 99)
	if !g.Revealed(2, 2) || g.RevealedCount() != 1 {
		t.Errorf("revealed count = %d, want 1", g.RevealedCount())
	}
}

func TestGridCellQueries(t *testing.T) {
	g := NewGrid(mustLayout(t, openMap))
	if k := g.KindAt(r2.Vec{X: 3.9, Y: 3.1}); k != CellHome {
		t.Errorf("KindAt home = %v", k)
	}
	if k := g.CellAt(-1, 3); k != CellBorder {
		t.Errorf("out of bounds kind = %v, want border", k)
	}
	if g.Traversable(r2.Vec{X: 0.5, Y: 3}) {
		t.Error("border cell reported traversable")
	}
	if hp := g.HomePos(); hp != (r2.Vec{X: 3.5, Y: 3.5}) {
		t.Errorf("HomePos = %v", hp)
	}
}

func TestGridDiffuse(t *testing.T) {
	g := NewGrid(mustLayout(t, openMap))
	g.Mark(ChannelResource, 3, 3)
	before := g.TotalSignal(ChannelResource)

	g.Diffuse(0.1)

	if c := g.Signal(ChannelResource, 3, 3); c >= 1 {
		t.Errorf("centre should lose signal, got %v", c)
	}
	if n := g.Signal(ChannelResource, 3, 2); n <= 0 {
		t.Errorf("neighbour should gain signal, got %v", n)
	}
	// Zero-flux edges conserve the total away from clamping.
	if after := g.TotalSignal(ChannelResource); math.Abs(after-before) > 1e-9 {
		t.Errorf("total changed from %v to %v", before, after)
	}
	if b := g.Signal(ChannelResource, 0, 3); b != 0 {
		t.Errorf("border cell received diffusion: %v", b)
	}
}

func TestGridSignalsStayInUnitRange(t *testing.T) {
	g := NewGrid(mustLayout(t, openMap))
	rng := rand.New(rand.NewSource(7))

	for tick := 0; tick < 500; tick++ {
		g.DecayAll(0.01)
		g.Diffuse(0.2)
		for i := 0; i < 10; i++ {
			ch := Channel(rng.Intn(2))
			g.Deposit(ch, rng.Intn(g.W), rng.Intn(g.H), rng.Float64())
		}
		g.ReinforceHome(g.HomePos(), 2.5, 0.5)

		for _, ch := range []Channel{ChannelHome, ChannelResource} {
			for _, v := range g.channel(ch) {
				if v < 0 || v > 1 {
					t.Fatalf("tick %d: %v signal %v out of [0,1]", tick, ch, v)
				}
			}
		}
	}
}

func TestGridCoverage(t *testing.T) {
	g := NewGrid(mustLayout(t, openMap))
	if c := g.Coverage(ChannelResource, 0.1); c != 0 {
		t.Errorf("empty coverage = %v", c)
	}
	g.Mark(ChannelResource, 1, 1)
	if c := g.Coverage(ChannelResource, 0.1); math.Abs(c-1.0/25) > 1e-12 {
		t.Errorf("coverage = %v, want 1/25", c)
	}
}

func BenchmarkGridLogicStep(b *testing.B) {
	l := GenerateMap(testMapGen(), 1)
	g := NewGrid(l)
	home := g.HomePos()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		g.DecayAll(0.004)
		g.Diffuse(0.05)
		g.ReinforceHome(home, 6, 0.6)
	}
}
