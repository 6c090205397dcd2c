package systems

import (
	"math"
	"math/rand"

	"gonum.org/v1/gonum/spatial/r2"
)

// WanderParams shapes the wander behavior.
type WanderParams struct {
	Jitter   float64 // Max heading change per call (radians)
	Radius   float64 // Radius of the circle projected ahead
	Distance float64 // Distance of that circle ahead of the agent
}

// GradientParams shapes gradient following.
type GradientParams struct {
	Delta     float64 // Central difference half-step
	Lookahead float64 // Seek target distance along the gradient
	K         float64 // Strength scale: weight *= min(1, signal*K)
}

// Limits bounds agent motion.
type Limits struct {
	MaxSpeed float64
	MaxForce float64
}

// Seek returns the steering force toward target:
// limit(unit(target-pos)*maxSpeed - vel, maxForce).
func Seek(pos, vel, target r2.Vec, lim Limits) r2.Vec {
	desired := r2.Scale(lim.MaxSpeed, unit(r2.Sub(target, pos)))
	return limit(r2.Sub(desired, vel), lim.MaxForce)
}

// Flee is the negated Seek.
func Flee(pos, vel, target r2.Vec, lim Limits) r2.Vec {
	return r2.Scale(-1, Seek(pos, vel, target, lim))
}

// Wander advances heading by a bounded random step, projects a circle
// ahead along the current velocity and seeks the point on it selected by
// heading. The caller must persist the returned heading.
func Wander(rng *rand.Rand, pos, vel r2.Vec, heading float64, p WanderParams, lim Limits) (r2.Vec, float64) {
	heading = normalizeAngle(heading + (rng.Float64()*2-1)*p.Jitter)
	onCircle := r2.Vec{X: math.Cos(heading), Y: math.Sin(heading)}

	dir := unit(vel)
	if dir == (r2.Vec{}) {
		dir = onCircle
	}
	center := r2.Add(pos, r2.Scale(p.Distance, dir))
	target := r2.Add(center, r2.Scale(p.Radius, onCircle))
	return Seek(pos, vel, target, lim), heading
}

// AvoidBoundary pushes away from world edges with a force proportional to
// how far pos has penetrated the margin band along each axis.
func AvoidBoundary(pos, bounds r2.Vec, margin, strength float64) r2.Vec {
	if margin <= 0 {
		return r2.Vec{}
	}
	var f r2.Vec
	if d := margin - pos.X; d > 0 {
		f.X += strength * d / margin
	}
	if d := pos.X - (bounds.X - margin); d > 0 {
		f.X -= strength * d / margin
	}
	if d := margin - pos.Y; d > 0 {
		f.Y += strength * d / margin
	}
	if d := pos.Y - (bounds.Y - margin); d > 0 {
		f.Y -= strength * d / margin
	}
	return f
}

// FollowGradient seeks a point lookahead units up the channel gradient,
// scaled by weight and by min(1, signal*K) so weak fields pull weakly.
func FollowGradient(f Field, ch Channel, pos, vel r2.Vec, weight float64, p GradientParams, lim Limits) r2.Vec {
	g := f.Gradient(ch, pos, p.Delta)
	if g == (r2.Vec{}) {
		return r2.Vec{}
	}
	strength := math.Min(1, f.Sample(ch, pos)*p.K)
	target := r2.Add(pos, r2.Scale(p.Lookahead, g))
	return r2.Scale(weight*strength, Seek(pos, vel, target, lim))
}

// Compose sums the forces and clamps the total once to maxForce.
func Compose(forces []Force, maxForce float64) r2.Vec {
	var sum r2.Vec
	for _, f := range forces {
		sum = r2.Add(sum, f.Vec)
	}
	return limit(sum, maxForce)
}

// Integrate applies force to vel, caps the speed and advances pos.
func Integrate(pos, vel, force r2.Vec, maxSpeed float64) (r2.Vec, r2.Vec) {
	vel = limit(r2.Add(vel, force), maxSpeed)
	return r2.Add(pos, vel), vel
}
