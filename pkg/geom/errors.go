package geom

import "errors"

var (
	// ErrDegenerateLine is returned when a line whose two points coincide is
	// offset, sized or intersected.
	ErrDegenerateLine = errors.New("geom: degenerate line (zero length)")

	// ErrParallel is returned by Intersection when the two lines have
	// parallel directions.
	ErrParallel = errors.New("geom: lines are parallel")

	// ErrSkew is returned by Intersection when two 3D lines are not coplanar.
	ErrSkew = errors.New("geom: lines are not coplanar")
)
