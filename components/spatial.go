package components

import "gonum.org/v1/gonum/spatial/r2"

// Position is an agent's continuous world position in cell units.
type Position struct {
	X, Y float64
}

// Vec returns the position as a vector.
func (p Position) Vec() r2.Vec { return r2.Vec{X: p.X, Y: p.Y} }

// Set assigns the position from a vector.
func (p *Position) Set(v r2.Vec) { p.X, p.Y = v.X, v.Y }

// Velocity is an agent's displacement per motion pass.
type Velocity struct {
	X, Y float64
}

// Vec returns the velocity as a vector.
func (v Velocity) Vec() r2.Vec { return r2.Vec{X: v.X, Y: v.Y} }

// Set assigns the velocity from a vector.
func (v *Velocity) Set(u r2.Vec) { v.X, v.Y = u.X, u.Y }
