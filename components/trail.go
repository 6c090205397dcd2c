package components

import "gonum.org/v1/gonum/spatial/r2"

// Trail is a fixed-capacity ring buffer of recent positions.
// Push is O(1) and evicts the oldest point once full.
type Trail struct {
	points []r2.Vec
	start  int
	n      int
}

// NewTrail creates an empty trail holding at most capacity points.
func NewTrail(capacity int) Trail {
	if capacity < 1 {
		capacity = 1
	}
	return Trail{points: make([]r2.Vec, capacity)}
}

// Push appends p, dropping the oldest point when the trail is full.
func (t *Trail) Push(p r2.Vec) {
	c := len(t.points)
	if c == 0 {
		return
	}
	if t.n < c {
		t.points[(t.start+t.n)%c] = p
		t.n++
		return
	}
	t.points[t.start] = p
	t.start = (t.start + 1) % c
}

// Reset clears the trail and seeds it with p.
func (t *Trail) Reset(p r2.Vec) {
	t.start, t.n = 0, 0
	t.Push(p)
}

// Len returns the number of stored points.
func (t *Trail) Len() int { return t.n }

// Cap returns the maximum number of stored points.
func (t *Trail) Cap() int { return len(t.points) }

// At returns the i-th point, oldest first.
func (t *Trail) At(i int) r2.Vec {
	return t.points[(t.start+i)%len(t.points)]
}

// AppendTo appends the points oldest first to dst and returns it.
func (t *Trail) AppendTo(dst []r2.Vec) []r2.Vec {
	for i := 0; i < t.n; i++ {
		dst = append(dst, t.At(i))
	}
	return dst
}
