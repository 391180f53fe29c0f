package fretboard

import (
	"fmt"
	"math"

	"github.com/chazu/fretboarder/pkg/geom"
)

// BridgeFret is the fret index whose distance from the bridge is zero. As a
// perpendicular fret index it makes the bridge the square end of the board.
const BridgeFret = 100

// StringSpec is everything needed to lay out one string.
type StringSpec struct {
	Index                  int
	ScaleLength            float64
	PerpendicularFretIndex float64
	YAtStart               float64
	YAtBridge              float64
	HasZeroFret            bool
	NutToZeroFretOffset    float64
	FretsPerOctave         float64
}

// String is the straight centerline of one string, from its start (the zero
// fret, or the nut when there is none) to the bridge.
type String struct {
	index                  int
	scaleLength            float64
	perpendicularFretIndex float64
	perpendicularFromStart float64
	fretsPerOctave         float64
	nutToZeroFretOffset    float64

	start  geom.Point
	bridge geom.Point
}

// NewString lays out a string so that its perpendicular fret sits at x=0.
func NewString(spec StringSpec) (String, error) {
	l := spec.ScaleLength
	if !(l > 0) || math.IsInf(l, 0) {
		return String{}, fmt.Errorf("%w: string %d: scale length %g", ErrStringGeometry, spec.Index, l)
	}
	if !(spec.FretsPerOctave > 0) {
		return String{}, fmt.Errorf("%w: string %d: %g frets per octave", ErrStringGeometry, spec.Index, spec.FretsPerOctave)
	}
	if dy := spec.YAtBridge - spec.YAtStart; math.Abs(dy) >= l {
		return String{}, fmt.Errorf("%w: string %d: transverse run %g is not shorter than scale length %g",
			ErrStringGeometry, spec.Index, dy, l)
	}

	s := String{
		index:                  spec.Index,
		scaleLength:            l,
		perpendicularFretIndex: spec.PerpendicularFretIndex,
		fretsPerOctave:         spec.FretsPerOctave,
	}
	if spec.HasZeroFret {
		s.nutToZeroFretOffset = spec.NutToZeroFretOffset
	}

	d := s.DistanceFromStart(spec.PerpendicularFretIndex)
	s.perpendicularFromStart = d
	yIntersect := spec.YAtStart + d*(spec.YAtBridge-spec.YAtStart)/l

	if d >= 0 {
		xStart := -math.Sqrt(d*d - sq(yIntersect-spec.YAtStart))
		xBridge := xStart + math.Sqrt(l*l-sq(spec.YAtBridge-spec.YAtStart))
		s.start = geom.Pt(xStart, spec.YAtStart)
		s.bridge = geom.Pt(xBridge, spec.YAtBridge)
		return s, nil
	}

	// The perpendicular fret lies behind the start. Lay out a longer virtual
	// string whose fret 0 is that point, then find the real start on it.
	virtualLength := s.DistanceFromBridge(spec.PerpendicularFretIndex)
	virtual, err := NewString(StringSpec{
		Index:          spec.Index,
		ScaleLength:    virtualLength,
		YAtStart:       yIntersect,
		YAtBridge:      spec.YAtBridge,
		FretsPerOctave: spec.FretsPerOctave,
	})
	if err != nil {
		return String{}, fmt.Errorf("virtual string: %w", err)
	}
	xBridge := virtual.bridge.X
	s.start = geom.Pt((virtualLength-l)/virtualLength*xBridge, spec.YAtStart)
	s.bridge = geom.Pt(xBridge, spec.YAtBridge)
	return s, nil
}

func sq(v float64) float64 { return v * v }

// DistanceFromBridge is the equal-tempered vibrating length at fret f.
func (s String) DistanceFromBridge(f float64) float64 {
	if f == BridgeFret {
		return 0
	}
	return s.scaleLength / math.Pow(2, f/s.fretsPerOctave)
}

// DistanceFromStart is the distance from the start to fret f, negative for
// frets behind the start.
func (s String) DistanceFromStart(f float64) float64 {
	return s.scaleLength - s.DistanceFromBridge(f)
}

// PointAtFret returns the point of fret f on the straight line from the
// start to the bridge.
func (s String) PointAtFret(f float64) geom.Point {
	return s.start.Lerp(s.bridge, s.DistanceFromStart(f)/s.scaleLength)
}

// PointAtStart is fret 0.
func (s String) PointAtStart() geom.Point { return s.start }

// PointAtNut is where the string leaves the nut: the start, moved back
// towards the headstock by the zero fret offset along the string.
func (s String) PointAtNut() geom.Point {
	if s.nutToZeroFretOffset == 0 {
		return s.start
	}
	dir := s.bridge.Sub(s.start)
	return s.start.Sub(dir.Mul(s.nutToZeroFretOffset / dir.Norm()))
}

func (s String) PointAtBridge() geom.Point { return s.bridge }

// Line runs from the bridge to the start.
func (s String) Line() geom.Line {
	return geom.NewLine(s.bridge, s.start)
}

func (s String) Index() int { return s.index }
func (s String) ScaleLength() float64 { return s.scaleLength }
func (s String) PerpendicularFretIndex() float64 { return s.perpendicularFretIndex }
func (s String) PerpendicularFretFromStart() float64 { return s.perpendicularFromStart }
func (s String) FretsPerOctave() float64 { return s.fretsPerOctave }
func (s String) NutToZeroFretOffset() float64 { return s.nutToZeroFretOffset }

func (s String) withXOffset(dx float64) String {
	shift := geom.Pt(dx, 0)
	s.start = s.start.Add(shift)
	s.bridge = s.bridge.Add(shift)
	return s
}
