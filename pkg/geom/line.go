package geom

import (
	"fmt"
	"math"
)

// parallelTolerance bounds sin²θ between two directions below which they are
// treated as parallel.
const parallelTolerance = 1e-24

// coplanarTolerance bounds the normalised triple product of two 3D lines.
const coplanarTolerance = 1e-9

// Line is an infinite line through Point1 and Point2. Its direction runs
// from Point1 to Point2; offsets are signed relative to that direction.
type Line struct {
	Point1 Point `json:"point1"`
	Point2 Point `json:"point2"`
}

// NewLine returns the line through p1 and p2.
func NewLine(p1, p2 Point) Line {
	return Line{Point1: p1, Point2: p2}
}

// Direction returns Point2-Point1.
func (l Line) Direction() Point {
	return l.Point2.Sub(l.Point1)
}

// Length returns the distance between the two defining points.
func (l Line) Length() float64 {
	return l.Point1.Distance(l.Point2)
}

// IsDegenerate reports whether both defining points coincide.
func (l Line) IsDegenerate() bool {
	return l.Point1 == l.Point2
}

// Midpoint returns the point halfway between the defining points.
func (l Line) Midpoint() Point {
	return l.Point1.Midpoint(l.Point2)
}

// Intersection returns the point where l and other cross.
// See http://mathworld.wolfram.com/Line-LineIntersection.html; with z=0 on
// both lines this is the usual planar intersection.
func (l Line) Intersection(other Line) (Point, error) {
	if l.IsDegenerate() || other.IsDegenerate() {
		return Point{}, ErrDegenerateLine
	}
	da := l.Direction()
	db := other.Direction()
	dc := other.Point1.Sub(l.Point1)

	c := da.Cross(db)
	n2 := c.Norm2()
	if n2 <= parallelTolerance*da.Norm2()*db.Norm2() {
		return Point{}, ErrParallel
	}
	if math.Abs(dc.Dot(c)) > coplanarTolerance*dc.Norm()*math.Sqrt(n2) {
		return Point{}, ErrSkew
	}

	s := dc.Cross(db).Dot(c) / n2
	return l.Point1.Add(da.Mul(s)), nil
}

// Offset2D returns a line parallel to l at signed distance d. A positive d
// moves the line towards the side obtained by rotating the direction
// (dx, dy) to (dy, -dx); for a line running in -X that is +Y.
func (l Line) Offset2D(d float64) (Line, error) {
	dir := l.Direction()
	perp := Pt(dir.Y, -dir.X)
	n := perp.Norm()
	if n == 0 {
		return Line{}, ErrDegenerateLine
	}
	shift := perp.Mul(d / n)
	return Line{Point1: l.Point1.Add(shift), Point2: l.Point2.Add(shift)}, nil
}

// Offset2DAlong displaces l by different amounts at two places. The points
// where l crosses v0 and v1 are moved along v0 and v1 by off0 and off1
// (following the SizedVector convention, i.e. towards each vector's
// Point1), and the resulting line goes through the two moved points. The
// orientation of l is preserved.
func (l Line) Offset2DAlong(off0 float64, v0 Line, off1 float64, v1 Line) (Line, error) {
	p0, err := l.Intersection(v0)
	if err != nil {
		return Line{}, fmt.Errorf("offset along first guide: %w", err)
	}
	p1, err := l.Intersection(v1)
	if err != nil {
		return Line{}, fmt.Errorf("offset along second guide: %w", err)
	}
	e0, err := v0.SizedVector(off0)
	if err != nil {
		return Line{}, err
	}
	e1, err := v1.SizedVector(off1)
	if err != nil {
		return Line{}, err
	}

	q0 := p0.Add(e0.Point2)
	q1 := p1.Add(e1.Point2)
	if q0 == q1 {
		return Line{}, ErrDegenerateLine
	}
	if q1.Sub(q0).Dot(l.Direction()) < 0 {
		return Line{Point1: q1, Point2: q0}, nil
	}
	return Line{Point1: q0, Point2: q1}, nil
}

// SizedVector returns a line from the origin to a displacement of the given
// length pointing from Point2 towards Point1.
func (l Line) SizedVector(size float64) (Line, error) {
	d := l.Length()
	if d == 0 {
		return Line{}, ErrDegenerateLine
	}
	return Line{Point2: l.Point1.Sub(l.Point2).Mul(size / d)}, nil
}

// UnitVector is SizedVector(1).
func (l Line) UnitVector() (Line, error) {
	return l.SizedVector(1)
}
