package systems

import (
	"math"

	"gonum.org/v1/gonum/spatial/r2"
)

// clamp01 clamps a value to the [0, 1] range.
func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}

func lerp(a, b, t float64) float64 {
	return a + (b-a)*t
}

// unit returns v scaled to length 1, or zero for a zero vector.
func unit(v r2.Vec) r2.Vec {
	n := r2.Norm(v)
	if n == 0 {
		return r2.Vec{}
	}
	return r2.Scale(1/n, v)
}

// limit scales v down so its length does not exceed m.
func limit(v r2.Vec, m float64) r2.Vec {
	n := r2.Norm(v)
	if n <= m || n == 0 {
		return v
	}
	return r2.Scale(m/n, v)
}

// normalizeAngle wraps an angle to [-Pi, Pi].
func normalizeAngle(angle float64) float64 {
	return math.Remainder(angle, 2*math.Pi)
}
