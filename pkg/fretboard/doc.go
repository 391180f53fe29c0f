// Package fretboard lays out a fretboard in 2D from an instrument.
//
// The X axis runs along the neck, +X towards the body and -X towards the
// headstock. +Y points to the first string, -Y to the last one. The first
// string is the bass string of a right handed instrument.
//
// Each string is a straight line from its start (the zero fret, or the nut
// without one) to the bridge. Frets are placed on it with the equal
// tempered rule
//
//	distanceFromBridge(f) = scaleLength / 2^(f / fretsPerOctave)
//
// and strings are positioned so that the perpendicular fret is square to
// the X axis. A shared X offset then centres the string starts on x=0.
//
// New computes everything at once; a Fretboard never changes afterwards.
// Any degeneracy met on the way (parallel borders, zero-length lines)
// aborts the construction with an error wrapping ErrDegenerate and the geom
// sentinel that caused it.
//
// # Signs
//
// Fret lines run from the first string to the last, so a positive
// geom.Line.Offset2D moves them towards the headstock. String lines run from
// the bridge to the start, so a positive offset moves them towards +Y.
package fretboard
