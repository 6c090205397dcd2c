package systems

import "gonum.org/v1/gonum/spatial/r2"

// Move integrates one motion step and keeps the agent out of border cells.
// A blocked axis is cancelled and its velocity reflected, scaled by bounce.
// blocked reports whether any axis hit a border.
func Move(f Field, pos, vel, force r2.Vec, maxSpeed, bounce float64) (newPos, newVel r2.Vec, blocked bool) {
	next, v := Integrate(pos, vel, force, maxSpeed)
	if f.KindAt(next) != CellBorder {
		return next, v, false
	}

	blockX := f.KindAt(r2.Vec{X: next.X, Y: pos.Y}) == CellBorder
	blockY := f.KindAt(r2.Vec{X: pos.X, Y: next.Y}) == CellBorder
	if !blockX && !blockY {
		// Diagonal corner contact
		blockX, blockY = true, true
	}

	out := pos
	if blockX {
		v.X = -v.X * bounce
	} else {
		out.X = next.X
	}
	if blockY {
		v.Y = -v.Y * bounce
	} else {
		out.Y = next.Y
	}
	if f.KindAt(out) == CellBorder {
		out = pos
	}
	return out, v, true
}
