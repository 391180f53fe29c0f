package fretboard

import (
	"math"
	"testing"

	"github.com/stretchr/testify/require"
)

func mustString(t *testing.T, spec StringSpec) String {
	t.Helper()
	if spec.FretsPerOctave == 0 {
		spec.FretsPerOctave = 12
	}
	s, err := NewString(spec)
	require.NoError(t, err)
	return s
}

func TestFretSpacing(t *testing.T) {
	for _, l := range []float64{300, 628.65, 648, 864} {
		s := mustString(t, StringSpec{ScaleLength: l})
		require.Zero(t, s.DistanceFromStart(0))
		require.InDelta(t, l/2, s.DistanceFromStart(12), 1e-9)
		require.InDelta(t, l*3/4, s.DistanceFromStart(24), 1e-9)
		require.InDelta(t, l, s.DistanceFromBridge(0), 1e-12)
	}

	s := mustString(t, StringSpec{ScaleLength: 648, FretsPerOctave: 24})
	require.InDelta(t, 324, s.DistanceFromStart(24), 1e-9)
	require.InDelta(t, 648*(1-math.Pow(2, -1.0/24)), s.DistanceFromStart(1), 1e-9)
}

func TestBridgeFretSentinel(t *testing.T) {
	s := mustString(t, StringSpec{ScaleLength: 648})
	require.Zero(t, s.DistanceFromBridge(BridgeFret))
	require.Equal(t, 648.0, s.DistanceFromStart(BridgeFret))
	require.InDelta(t, 0, s.PointAtFret(BridgeFret).Distance(s.PointAtBridge()), 1e-9)

	square := mustString(t, StringSpec{ScaleLength: 648, PerpendicularFretIndex: BridgeFret, YAtStart: 20, YAtBridge: 25})
	require.InDelta(t, 0, square.PointAtBridge().X, 1e-9)
	require.Less(t, square.PointAtStart().X, -600.0)
}

func TestStraightString(t *testing.T) {
	s := mustString(t, StringSpec{ScaleLength: 648})
	require.Equal(t, 0.0, s.PointAtStart().X)
	require.InDelta(t, 648, s.PointAtBridge().X, 1e-12)

	p := s.PointAtFret(12)
	require.InDelta(t, 324, p.X, 1e-9)
	require.Zero(t, p.Y)
}

func TestPerpendicularFretAtOrigin(t *testing.T) {
	for _, perp := range []float64{0, 3.5, 7, 12, 24} {
		s := mustString(t, StringSpec{ScaleLength: 650, PerpendicularFretIndex: perp, YAtStart: 10, YAtBridge: 20})
		require.InDelta(t, 0, s.PointAtFret(perp).X, 1e-9, "perp %g", perp)
		require.InDelta(t, 650, s.PointAtStart().Distance(s.PointAtBridge()), 1e-9)
		require.InDelta(t, s.DistanceFromStart(perp), s.PerpendicularFretFromStart(), 1e-12)
	}
}

func TestNegativePerpendicularFret(t *testing.T) {
	const l = 650.0
	for _, perp := range []float64{-0.5, -2, -13} {
		s := mustString(t, StringSpec{ScaleLength: l, PerpendicularFretIndex: perp, YAtStart: 10, YAtBridge: 20})

		require.Less(t, s.PerpendicularFretFromStart(), 0.0)
		require.Greater(t, s.PointAtStart().X, 0.0)
		require.InDelta(t, 0, s.PointAtFret(perp).X, 1e-9, "perp %g", perp)
		require.InDelta(t, 10, s.PointAtStart().Y, 1e-12)
		require.InDelta(t, 20, s.PointAtBridge().Y, 1e-12)
		require.InDelta(t, l, s.PointAtStart().Distance(s.PointAtBridge()), 1e-9)

		// Same result as anchoring directly on the real string.
		d := s.DistanceFromStart(perp)
		want := -d * math.Sqrt(1-sq(10/l))
		require.InDelta(t, want, s.PointAtStart().X, 1e-9)
	}
}

func TestPointAtNut(t *testing.T) {
	spec := StringSpec{ScaleLength: 648, YAtStart: 5, YAtBridge: 8, NutToZeroFretOffset: 3}

	plain := mustString(t, spec)
	require.Equal(t, plain.PointAtFret(0), plain.PointAtNut())
	require.Zero(t, plain.NutToZeroFretOffset())

	spec.HasZeroFret = true
	s := mustString(t, spec)
	nut := s.PointAtNut()
	zero := s.PointAtFret(0)
	require.InDelta(t, 3, nut.Distance(zero), 1e-12)

	along := zero.Sub(nut).Mul(1.0 / 3)
	dir := s.PointAtBridge().Sub(s.PointAtStart())
	dir = dir.Mul(1 / dir.Norm())
	require.InDelta(t, dir.X, along.X, 1e-12)
	require.InDelta(t, dir.Y, along.Y, 1e-12)
}

func TestStringLine(t *testing.T) {
	s := mustString(t, StringSpec{ScaleLength: 648, YAtStart: 5, YAtBridge: 8})
	l := s.Line()
	require.Equal(t, s.PointAtBridge(), l.Point1)
	require.Equal(t, s.PointAtStart(), l.Point2)

	moved := s.withXOffset(-12)
	require.InDelta(t, s.PointAtStart().X-12, moved.PointAtStart().X, 1e-12)
	require.InDelta(t, s.PointAtFret(5).X-12, moved.PointAtFret(5).X, 1e-12)
	require.Equal(t, s.PointAtFret(5).Y, moved.PointAtFret(5).Y)
}

func TestFractionalAndNegativeFrets(t *testing.T) {
	s := mustString(t, StringSpec{ScaleLength: 648})
	require.Less(t, s.PointAtFret(-1).X, s.PointAtStart().X)
	require.Greater(t, s.PointAtFret(0.5).X, 0.0)
	require.Less(t, s.PointAtFret(0.5).X, s.PointAtFret(1).X)
}

func TestNewStringErrors(t *testing.T) {
	tests := []struct {
		name string
		spec StringSpec
	}{
		{"zero scale", StringSpec{ScaleLength: 0, FretsPerOctave: 12}},
		{"negative scale", StringSpec{ScaleLength: -10, FretsPerOctave: 12}},
		{"nan scale", StringSpec{ScaleLength: math.NaN(), FretsPerOctave: 12}},
		{"no octave", StringSpec{ScaleLength: 648}},
		{"too steep", StringSpec{ScaleLength: 10, YAtStart: 0, YAtBridge: 10, FretsPerOctave: 12}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewString(tt.spec)
			require.ErrorIs(t, err, ErrStringGeometry)
		})
	}
}

func TestRadiusDrop(t *testing.T) {
	require.Zero(t, RadiusDrop(254, 0))
	require.Zero(t, RadiusDrop(0, 50))
	require.Zero(t, RadiusDrop(math.Inf(1), 50))
	require.True(t, math.IsInf(RadiusDrop(10, 20), 1))
	require.InDelta(t, 254-math.Sqrt(254*254-25*25), RadiusDrop(254, 50), 1e-12)
	require.InDelta(t, 50.0*50/(8*254), RadiusDrop(254, 50), 0.01)
}
