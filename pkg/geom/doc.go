// Package geom provides the 2D line algebra used to lay out a fretboard:
// points, lines defined by two points, line-line intersection and
// parallel offsets.
//
// All operations work in the z=0 plane. Z is carried on Point so that 3D
// consumers can reuse the values, and Intersection is the general 3D
// formulation, but offsets are strictly planar.
//
// Degenerate input is reported, never absorbed: a zero-length line yields
// ErrDegenerateLine and parallel lines yield ErrParallel. Callers wrap these
// with context and abort whatever construction they were doing.
package geom
