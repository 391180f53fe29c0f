package fretboard

import "github.com/chazu/fretboarder/pkg/geom"

// StringLayout is the plain data form of a String.
type StringLayout struct {
	Index       int        `json:"index"`
	ScaleLength float64    `json:"scale_length"`
	Nut         geom.Point `json:"nut"`
	Start       geom.Point `json:"start"`
	Bridge      geom.Point `json:"bridge"`
}

// Layout is a self-contained snapshot of a Fretboard for consumers that
// only want data: drawing exporters, solid modelers, JSON.
type Layout struct {
	Strings        []StringLayout `json:"strings"`
	FirstFretIndex int            `json:"first_fret_index"`
	NumberOfFrets  int            `json:"number_of_frets"`

	FretSlots      []geom.Line `json:"fret_slots"`
	FretLines      []geom.Line `json:"fret_lines"`
	FretSlotShapes []Quad      `json:"fret_slot_shapes"`

	Board        Quad `json:"board"`
	Nut          Quad `json:"nut"`
	NutSlot      Quad `json:"nut_slot"`
	StringsShape Quad `json:"strings_shape"`

	Borders     [2]geom.Line `json:"borders"`
	TangBorders [2]geom.Line `json:"tang_borders"`
	LastFretCut geom.Line    `json:"last_fret_cut"`

	Distances Distances `json:"construction_distances"`

	BoardWidthAtNut      float64 `json:"board_width_at_nut"`
	BoardWidthAtLastFret float64 `json:"board_width_at_last_fret"`
}

// Layout returns a copy of everything the fretboard computed.
func (fb *Fretboard) Layout() Layout {
	strs := make([]StringLayout, len(fb.strings))
	for i, s := range fb.strings {
		strs[i] = StringLayout{
			Index:       s.index,
			ScaleLength: s.scaleLength,
			Nut:         s.PointAtNut(),
			Start:       s.start,
			Bridge:      s.bridge,
		}
	}
	return Layout{
		Strings:              strs,
		FirstFretIndex:       fb.firstFretIndex,
		NumberOfFrets:        fb.numberOfFrets,
		FretSlots:            fb.FretSlots(),
		FretLines:            fb.FretLines(),
		FretSlotShapes:       fb.FretSlotShapes(),
		Board:                fb.board,
		Nut:                  fb.nut,
		NutSlot:              fb.nutSlot,
		StringsShape:         fb.stringsQd,
		Borders:              [2]geom.Line{fb.firstBorder, fb.lastBorder},
		TangBorders:          [2]geom.Line{fb.firstTangBorder, fb.lastTangBorder},
		LastFretCut:          fb.lastFretCut,
		Distances:            fb.distances,
		BoardWidthAtNut:      fb.BoardWidthAtNut(),
		BoardWidthAtLastFret: fb.BoardWidthAtLastFret(),
	}
}
