// Package tessellate turns a fretboard layout into triangle meshes using a
// geometry kernel. One mesh is produced per part.
//
// The board is the outline extruded by the board thickness, with the fret
// slots and the nut slot cut from its top face. Frets are crown blocks
// sitting on the top face. Radius carving is left to the host modeler; the
// layout exposes the radius numbers it would need.
package tessellate

import (
	"fmt"

	"github.com/chazu/fretboarder/pkg/fretboard"
	"github.com/chazu/fretboarder/pkg/geom"
	"github.com/chazu/fretboarder/pkg/instrument"
	"github.com/chazu/fretboarder/pkg/kernel"
)

// Part names set on the produced meshes.
const (
	PartFretboard = "fretboard"
	PartFrets     = "frets"
)

// cutterOverrun lifts cutters above the top face so they never share it.
const cutterOverrun = 1.0

// part builds the solid of one named part. A nil solid means the part has
// nothing to show.
type part struct {
	name  string
	build func(fb *fretboard.Fretboard, inst instrument.Instrument, k kernel.Kernel) (kernel.Solid, error)
}

// Tessellate produces the meshes of fb, in part order: the board, then the
// frets when inst.DrawFrets is set. inst must be the instrument fb was laid
// out from. The tessellator is read-only and never mutates its inputs.
func Tessellate(fb *fretboard.Fretboard, inst instrument.Instrument, k kernel.Kernel) ([]*kernel.Mesh, error) {
	if fb == nil {
		return nil, nil
	}

	parts := []part{{name: PartFretboard, build: buildBoard}}
	if inst.DrawFrets {
		parts = append(parts, part{name: PartFrets, build: buildFrets})
	}

	var meshes []*kernel.Mesh
	for _, p := range parts {
		solid, err := p.build(fb, inst, k)
		if err != nil {
			return nil, fmt.Errorf("tessellate: %s: %w", p.name, err)
		}
		if solid == nil {
			continue
		}
		mesh, err := k.ToMesh(solid)
		if err != nil {
			return nil, fmt.Errorf("tessellate: ToMesh failed for %s: %w", p.name, err)
		}
		mesh.PartName = p.name
		meshes = append(meshes, mesh)
	}
	return meshes, nil
}

// buildBoard extrudes the outline and subtracts every cutter at once.
func buildBoard(fb *fretboard.Fretboard, inst instrument.Instrument, k kernel.Kernel) (kernel.Solid, error) {
	thickness := inst.FretboardThickness
	board, err := k.Extrude(fb.BoardShape().Polygon(), thickness)
	if err != nil {
		return nil, fmt.Errorf("board outline: %w", err)
	}

	var cutters kernel.Solid
	add := func(q fretboard.Quad, depth float64) error {
		c, err := k.Extrude(q.Polygon(), depth+cutterOverrun)
		if err != nil {
			return err
		}
		c = k.Translate(c, 0, 0, thickness-depth)
		if cutters == nil {
			cutters = c
		} else {
			cutters = k.Union(cutters, c)
		}
		return nil
	}

	if inst.FretSlotsWidth > 0 && inst.FretSlotsHeight > 0 {
		for i, q := range fb.FretSlotShapes() {
			if err := add(q, inst.FretSlotsHeight); err != nil {
				return nil, fmt.Errorf("fret slot %d: %w", fb.FirstFretIndex()+i, err)
			}
		}
	}
	if inst.CarveNutSlot && inst.NutHeightUnder > 0 && inst.NutThickness > 0 {
		if err := add(fb.NutSlotShape(), inst.NutHeightUnder); err != nil {
			return nil, fmt.Errorf("nut slot: %w", err)
		}
	}

	if cutters == nil {
		return board, nil
	}
	return k.Difference(board, cutters), nil
}

// buildFrets places one crown block on the top face along every fret line.
func buildFrets(fb *fretboard.Fretboard, inst instrument.Instrument, k kernel.Kernel) (kernel.Solid, error) {
	if inst.FretCrownWidth <= 0 || inst.FretCrownHeight <= 0 {
		return nil, nil
	}

	var frets kernel.Solid
	for i, line := range fb.FretLines() {
		q, err := crown(line, inst.FretCrownWidth)
		if err != nil {
			return nil, fmt.Errorf("fret %d: %w", fb.FirstFretIndex()+i, err)
		}
		s, err := k.Extrude(q.Polygon(), inst.FretCrownHeight)
		if err != nil {
			return nil, fmt.Errorf("fret %d: %w", fb.FirstFretIndex()+i, err)
		}
		s = k.Translate(s, 0, 0, inst.FretboardThickness)
		if frets == nil {
			frets = s
		} else {
			frets = k.Union(frets, s)
		}
	}
	return frets, nil
}

// crown is the footprint of a fret of the given width centred on line.
func crown(line geom.Line, width float64) (fretboard.Quad, error) {
	a, err := line.Offset2D(width / 2)
	if err != nil {
		return fretboard.Quad{}, err
	}
	b, err := line.Offset2D(-width / 2)
	if err != nil {
		return fretboard.Quad{}, err
	}
	return fretboard.Quad{a.Point1, b.Point1, b.Point2, a.Point2}, nil
}
