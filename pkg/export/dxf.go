// Package export writes fretboard layouts and meshes to files: layered 2D
// DXF drawings, JSON documents and STL solids.
package export

import (
	"fmt"

	"github.com/chazu/fretboarder/pkg/fretboard"
	"github.com/chazu/fretboarder/pkg/geom"
	"github.com/chazu/fretboarder/pkg/instrument"
	"github.com/yofu/dxf"
	"github.com/yofu/dxf/color"
)

// Drawing layers, in the order they are created.
const (
	LayerBoard       = "BOARD"
	LayerNut         = "NUT"
	LayerNutSlot     = "NUT_SLOT"
	LayerStrings     = "STRINGS"
	LayerFretSlots   = "FRET_SLOTS"
	LayerFrets       = "FRETS"
	LayerCenterlines = "CENTERLINES"
)

var layers = []struct {
	name  string
	color color.ColorNumber
}{
	{LayerBoard, color.White},
	{LayerNut, color.Yellow},
	{LayerNutSlot, color.Magenta},
	{LayerStrings, color.Cyan},
	{LayerFretSlots, color.Red},
	{LayerFrets, color.Green},
	{LayerCenterlines, color.Blue},
}

// Options selects the optional parts of a drawing.
type Options struct {
	DrawStrings  bool
	DrawFrets    bool
	CarveNutSlot bool
}

// OptionsFor reads the drawing switches of inst.
func OptionsFor(inst instrument.Instrument) Options {
	return Options{
		DrawStrings:  inst.DrawStrings,
		DrawFrets:    inst.DrawFrets,
		CarveNutSlot: inst.CarveNutSlot,
	}
}

// Segment is one line of a drawing on a named layer.
type Segment struct {
	Layer string
	Line  geom.Line
}

// Segments flattens l into drawing lines, layer by layer.
func Segments(l fretboard.Layout, opts Options) []Segment {
	var out []Segment
	add := func(layer string, lines ...geom.Line) {
		for _, line := range lines {
			out = append(out, Segment{Layer: layer, Line: line})
		}
	}
	quad := func(layer string, q fretboard.Quad) {
		e := q.Edges()
		add(layer, e[:]...)
	}

	quad(LayerBoard, l.Board)
	quad(LayerNut, l.Nut)
	if opts.CarveNutSlot {
		quad(LayerNutSlot, l.NutSlot)
	}
	if opts.DrawStrings {
		for _, s := range l.Strings {
			add(LayerStrings, geom.NewLine(s.Nut, s.Bridge))
		}
	}
	for _, q := range l.FretSlotShapes {
		quad(LayerFretSlots, q)
	}
	if opts.DrawFrets {
		add(LayerFrets, l.FretLines...)
	}

	first, last := l.Borders[0], l.Borders[1]
	add(LayerCenterlines, geom.NewLine(first.Point1.Midpoint(last.Point1), first.Point2.Midpoint(last.Point2)))
	add(LayerCenterlines, l.FretSlots...)
	return out
}

// WriteDXF draws l into a new DXF file at path.
func WriteDXF(path string, l fretboard.Layout, opts Options) error {
	d := dxf.NewDrawing()
	for _, layer := range layers {
		if _, err := d.AddLayer(layer.name, layer.color, dxf.DefaultLineType, false); err != nil {
			return fmt.Errorf("export: layer %s: %w", layer.name, err)
		}
	}

	current := ""
	for _, s := range Segments(l, opts) {
		if s.Layer != current {
			if err := d.ChangeLayer(s.Layer); err != nil {
				return fmt.Errorf("export: layer %s: %w", s.Layer, err)
			}
			current = s.Layer
		}
		p, q := s.Line.Point1, s.Line.Point2
		if _, err := d.Line(p.X, p.Y, 0, q.X, q.Y, 0); err != nil {
			return fmt.Errorf("export: %s line: %w", s.Layer, err)
		}
	}

	if err := d.SaveAs(path); err != nil {
		return fmt.Errorf("export: save %s: %w", path, err)
	}
	return nil
}
