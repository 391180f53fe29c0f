package fretboard

import "math"

// RadiusDrop returns how far an arc of the given radius falls below its
// chord across width: the sagitta. It is +Inf when the arc cannot span the
// width, and 0 for a flat (zero or infinite radius) board.
func RadiusDrop(radius, width float64) float64 {
	if radius == 0 || math.IsInf(radius, 0) {
		return 0
	}
	r := math.Abs(radius)
	half := math.Abs(width) / 2
	if half >= r {
		return math.Inf(1)
	}
	return r - math.Sqrt(r*r-half*half)
}
