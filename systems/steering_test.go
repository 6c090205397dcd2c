package systems

import (
	"math"
	"math/rand"
	"testing"

	"gonum.org/v1/gonum/spatial/r2"
)

func near(a, b r2.Vec) bool {
	return math.Abs(a.X-b.X) < 1e-9 && math.Abs(a.Y-b.Y) < 1e-9
}

func TestSeek(t *testing.T) {
	tests := []struct {
		name   string
		pos    r2.Vec
		vel    r2.Vec
		target r2.Vec
		lim    Limits
		want   r2.Vec
	}{
		{"from rest", r2.Vec{}, r2.Vec{}, r2.Vec{X: 10}, Limits{MaxSpeed: 1, MaxForce: 5}, r2.Vec{X: 1}},
		{"already at desired velocity", r2.Vec{}, r2.Vec{Y: 2}, r2.Vec{Y: 3}, Limits{MaxSpeed: 2, MaxForce: 5}, r2.Vec{}},
		{"clamped to max force", r2.Vec{}, r2.Vec{X: -1}, r2.Vec{X: 10}, Limits{MaxSpeed: 1, MaxForce: 0.5}, r2.Vec{X: 0.5}},
		{"on target brakes", r2.Vec{X: 1}, r2.Vec{X: 0.2}, r2.Vec{X: 1}, Limits{MaxSpeed: 1, MaxForce: 5}, r2.Vec{X: -0.2}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Seek(tt.pos, tt.vel, tt.target, tt.lim); !near(got, tt.want) {
				t.Errorf("Seek = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestFleeIsNegatedSeek(t *testing.T) {
	lim := Limits{MaxSpeed: 1, MaxForce: 0.3}
	pos, vel, target := r2.Vec{X: 1, Y: 2}, r2.Vec{X: 0.1}, r2.Vec{X: 4, Y: -1}
	if got, want := Flee(pos, vel, target, lim), r2.Scale(-1, Seek(pos, vel, target, lim)); !near(got, want) {
		t.Errorf("Flee = %v, want %v", got, want)
	}
}

func TestWanderBoundedStep(t *testing.T) {
	rng := rand.New(rand.NewSource(1))
	p := WanderParams{Jitter: 0.2, Radius: 0.5, Distance: 1}
	lim := Limits{MaxSpeed: 0.1, MaxForce: 0.03}

	heading := 0.0
	vel := r2.Vec{X: 0.05}
	for i := 0; i < 1000; i++ {
		f, h := Wander(rng, r2.Vec{X: 5, Y: 5}, vel, heading, p, lim)
		step := math.Abs(normalizeAngle(h - heading))
		if step > p.Jitter+1e-12 {
			t.Fatalf("heading moved %v, more than jitter %v", step, p.Jitter)
		}
		if r2.Norm(f) > lim.MaxForce+1e-12 {
			t.Fatalf("wander force %v exceeds max force", r2.Norm(f))
		}
		heading = h
	}
}

func TestWanderFromRestUsesHeading(t *testing.T) {
	rng := rand.New(rand.NewSource(1))
	p := WanderParams{Jitter: 0, Radius: 0.5, Distance: 1}
	f, _ := Wander(rng, r2.Vec{}, r2.Vec{}, math.Pi/2, p, Limits{MaxSpeed: 1, MaxForce: 1})
	if f.Y <= 0 || math.Abs(f.X) > 1e-9 {
		t.Errorf("stationary wander with heading +y gave %v", f)
	}
}

func TestAvoidBoundary(t *testing.T) {
	bounds := r2.Vec{X: 20, Y: 10}
	tests := []struct {
		name string
		pos  r2.Vec
		want r2.Vec
	}{
		{"interior", r2.Vec{X: 10, Y: 5}, r2.Vec{}},
		{"left band", r2.Vec{X: 1, Y: 5}, r2.Vec{X: 0.5}},
		{"right band deeper", r2.Vec{X: 19.5, Y: 5}, r2.Vec{X: -0.75}},
		{"top-left corner", r2.Vec{X: 0, Y: 0}, r2.Vec{X: 1, Y: 1}},
		{"bottom edge", r2.Vec{X: 10, Y: 9}, r2.Vec{Y: -0.5}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := AvoidBoundary(tt.pos, bounds, 2, 1); !near(got, tt.want) {
				t.Errorf("AvoidBoundary(%v) = %v, want %v", tt.pos, got, tt.want)
			}
		})
	}
	if got := AvoidBoundary(r2.Vec{}, bounds, 0, 1); got != (r2.Vec{}) {
		t.Errorf("zero margin should disable avoidance, got %v", got)
	}
}

func TestFollowGradient(t *testing.T) {
	g := NewGrid(mustLayout(t, openMap))
	p := GradientParams{Delta: 0.5, Lookahead: 2, K: 4}
	lim := Limits{MaxSpeed: 0.1, MaxForce: 0.05}
	pos := r2.Vec{X: 3.0, Y: 3.5} // between cells (2,3) and (3,3)

	if f := FollowGradient(g, ChannelResource, pos, r2.Vec{}, 1, p, lim); f != (r2.Vec{}) {
		t.Errorf("flat field gave force %v", f)
	}

	// Weak field: strength < 1/K scales the pull down.
	g.Deposit(ChannelResource, 3, 3, 0.05)
	weak := FollowGradient(g, ChannelResource, pos, r2.Vec{}, 1, p, lim)
	g.Mark(ChannelResource, 3, 3)
	strong := FollowGradient(g, ChannelResource, pos, r2.Vec{}, 1, p, lim)

	if weak.X <= 0 {
		t.Fatalf("weak follow should point +x, got %v", weak)
	}
	if !(r2.Norm(strong) > r2.Norm(weak)) {
		t.Errorf("strong field pull %v should exceed weak pull %v", r2.Norm(strong), r2.Norm(weak))
	}

	half := FollowGradient(g, ChannelResource, pos, r2.Vec{}, 0.5, p, lim)
	if math.Abs(r2.Norm(half)-0.5*r2.Norm(strong)) > 1e-12 {
		t.Errorf("weight should scale linearly: %v vs %v", r2.Norm(half), r2.Norm(strong))
	}
}

func TestComposeClampsOnce(t *testing.T) {
	const maxForce = 1.0
	forces := []Force{
		{Behavior: BehaviorWander, Vec: r2.Vec{X: 0.6}},
		{Behavior: BehaviorSeekHome, Vec: r2.Vec{X: 0.6}},
	}
	if got := Compose(forces, maxForce); !near(got, r2.Vec{X: 1}) {
		t.Errorf("Compose = %v, want total clamped to {1 0}", got)
	}

	// Weak cues combine: neither alone reaches the cap, together they do not exceed it.
	forces = []Force{{Vec: r2.Vec{X: 0.3}}, {Vec: r2.Vec{Y: 0.4}}}
	if got := Compose(forces, maxForce); !near(got, r2.Vec{X: 0.3, Y: 0.4}) {
		t.Errorf("Compose under cap = %v, want unclamped sum", got)
	}

	forces = []Force{{Vec: r2.Vec{X: 3}}, {Vec: r2.Vec{X: -3}}}
	if got := Compose(forces, maxForce); got != (r2.Vec{}) {
		t.Errorf("opposing forces = %v, want zero", got)
	}
}

func TestIntegrate(t *testing.T) {
	pos, vel := Integrate(r2.Vec{X: 1, Y: 1}, r2.Vec{X: 0.1}, r2.Vec{X: 0.5}, 0.2)
	if !near(vel, r2.Vec{X: 0.2}) {
		t.Errorf("velocity = %v, want capped {0.2 0}", vel)
	}
	if !near(pos, r2.Vec{X: 1.2, Y: 1}) {
		t.Errorf("position = %v, want {1.2 1}", pos)
	}
}

func TestMoveReflectsOffBorder(t *testing.T) {
	g := NewGrid(mustLayout(t, openMap))

	// Heading into the left border column.
	pos, vel, blocked := Move(g, r2.Vec{X: 1.05, Y: 3.5}, r2.Vec{X: -0.1}, r2.Vec{}, 0.2, 0.5)
	if !blocked {
		t.Fatal("expected border contact")
	}
	if pos.X != 1.05 {
		t.Errorf("x should not advance into the border, got %v", pos.X)
	}
	if !near(vel, r2.Vec{X: 0.05}) {
		t.Errorf("velocity = %v, want reflected {0.05 0}", vel)
	}

	// Sliding along the border keeps the free axis.
	pos, vel, _ = Move(g, r2.Vec{X: 1.05, Y: 3.5}, r2.Vec{X: -0.1, Y: 0.1}, r2.Vec{}, 0.2, 0.5)
	if pos.Y != 3.6 && math.Abs(pos.Y-3.6) > 1e-9 {
		t.Errorf("free axis should advance, y = %v", pos.Y)
	}
	if vel.Y != 0.1 {
		t.Errorf("free axis velocity changed: %v", vel.Y)
	}

	// Free space is plain integration.
	pos, _, blocked = Move(g, r2.Vec{X: 3, Y: 3}, r2.Vec{X: 0.1}, r2.Vec{}, 0.2, 0.5)
	if blocked || !near(pos, r2.Vec{X: 3.1, Y: 3}) {
		t.Errorf("free move = %v blocked=%v", pos, blocked)
	}
}
