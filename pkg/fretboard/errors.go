package fretboard

import "errors"

var (
	// ErrStringGeometry is returned when a string cannot be laid out from its
	// parameters.
	ErrStringGeometry = errors.New("fretboard: invalid string geometry")

	// ErrDegenerate wraps the geom error that aborted a layout.
	ErrDegenerate = errors.New("fretboard: degenerate geometry")
)
