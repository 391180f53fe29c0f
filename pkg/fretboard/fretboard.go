package fretboard

import (
	"fmt"
	"math"

	"github.com/chazu/fretboarder/pkg/geom"
	"github.com/chazu/fretboarder/pkg/instrument"
)

// nutSlotMargin is how far the nut slot cutout extends past each board edge.
const nutSlotMargin = 5

// Quad is a closed four sided outline.
type Quad [4]geom.Point

// Edges returns the four sides in winding order.
func (q Quad) Edges() [4]geom.Line {
	return [4]geom.Line{
		geom.NewLine(q[0], q[1]),
		geom.NewLine(q[1], q[2]),
		geom.NewLine(q[2], q[3]),
		geom.NewLine(q[3], q[0]),
	}
}

// Polygon returns the corners as XY pairs.
func (q Quad) Polygon() [][2]float64 {
	out := make([][2]float64, len(q))
	for i, p := range q {
		out[i] = [2]float64{p.X, p.Y}
	}
	return out
}

// Distances are X positions used to place construction planes.
type Distances struct {
	NutSide  float64 `json:"nut_side"`
	Nut      float64 `json:"nut"`
	LastFret float64 `json:"last_fret"`
	Heel     float64 `json:"heel"`

	// TwelfthFret is only set when the board has more than twelve frets.
	TwelfthFret    float64 `json:"twelfth_fret,omitempty"`
	HasTwelfthFret bool    `json:"has_twelfth_fret"`
}

// Fretboard is the complete layout of one instrument.
type Fretboard struct {
	strings []String
	first   String
	last    String

	numberOfFrets  int
	firstFretIndex int

	firstBorder     geom.Line
	lastBorder      geom.Line
	firstTangBorder geom.Line
	lastTangBorder  geom.Line

	fretSlots      []geom.Line
	fretLines      []geom.Line
	fretSlotShapes []Quad
	lastFretCut    geom.Line
	lastFretLine   geom.Line
	nutLine        geom.Line

	board     Quad
	nut       Quad
	nutSlot   Quad
	stringsQd Quad

	distances Distances

	radiusAtNut      float64
	radiusAtLastFret float64
}

// New lays out inst. inst is validated on a copy; the caller's value is
// never changed. An error is returned, and no Fretboard, when inst fails
// Check or its geometry degenerates.
func New(inst instrument.Instrument) (*Fretboard, error) {
	inst.Validate()
	if err := inst.Check().Err(); err != nil {
		return nil, err
	}

	fb := &Fretboard{
		numberOfFrets:    inst.NumberOfFrets,
		radiusAtNut:      inst.RadiusAtNut,
		radiusAtLastFret: inst.RadiusAtLastFret,
	}
	if inst.HasZeroFret {
		fb.firstFretIndex = 0
	} else {
		fb.firstFretIndex = 1
	}

	if err := fb.layout(inst); err != nil {
		Logger().Warn("fretboard: layout aborted",
			"strings", inst.NumberOfStrings,
			"frets", inst.NumberOfFrets,
			"err", err)
		return nil, err
	}

	Logger().Debug("fretboard: laid out",
		"strings", len(fb.strings),
		"frets", len(fb.fretSlots),
		"multiscale", inst.IsMultiscale(),
		"nut_side", fb.distances.NutSide,
		"nut", fb.distances.Nut,
		"last_fret", fb.distances.LastFret,
		"heel", fb.distances.Heel)
	return fb, nil
}

func (fb *Fretboard) layout(inst instrument.Instrument) error {
	if err := fb.buildStrings(inst); err != nil {
		return err
	}

	b := &builder{}
	fb.buildBorders(b, inst)
	fb.buildFrets(b, inst)
	fb.buildShapes(b, inst)
	if b.err != nil {
		return fmt.Errorf("%w: %w", ErrDegenerate, b.err)
	}
	return nil
}

// ----------------------------------------------------------------------------
// Strings
// ----------------------------------------------------------------------------

func (fb *Fretboard) buildStrings(inst instrument.Instrument) error {
	n := inst.NumberOfStrings
	first := inst.FirstScaleLength()
	last := inst.LastScaleLength()

	spec := func(index int, scale, yStart, yBridge float64) StringSpec {
		return StringSpec{
			Index:                  index,
			ScaleLength:            scale,
			PerpendicularFretIndex: inst.PerpendicularFretIndex,
			YAtStart:               yStart,
			YAtBridge:              yBridge,
			HasZeroFret:            inst.HasZeroFret,
			NutToZeroFretOffset:    inst.NutToZeroFretOffset,
			FretsPerOctave:         inst.NumberOfFretsPerOctave,
		}
	}

	fb.strings = make([]String, n)
	sumX := 0.0
	for i := range n {
		ratio := 0.5
		if n > 1 {
			ratio = float64(i) / float64(n-1)
		}
		s, err := NewString(spec(i,
			first+ratio*(last-first),
			inst.YAtStart-ratio*2*inst.YAtStart,
			inst.YAtBridge-ratio*2*inst.YAtBridge))
		if err != nil {
			return err
		}
		fb.strings[i] = s
		sumX += s.start.X
	}

	// Centre the string starts on x=0.
	dx := -sumX / float64(n)
	for i := range fb.strings {
		fb.strings[i] = fb.strings[i].withXOffset(dx)
	}

	fb.first = fb.strings[0]
	fb.last = fb.strings[n-1]
	if n > 1 {
		return nil
	}

	// A lone string gets two virtual border strings placed by the overhangs.
	nutFirst, lastFretFirst, nutLast, lastFretLast := overhangs(inst)
	scale := fb.strings[0].scaleLength
	firstVirtual, err := NewString(spec(0, scale, nutFirst, lastFretFirst))
	if err != nil {
		return fmt.Errorf("first border string: %w", err)
	}
	lastVirtual, err := NewString(spec(0, scale, -nutLast, -lastFretLast))
	if err != nil {
		return fmt.Errorf("last border string: %w", err)
	}
	fb.first = firstVirtual.withXOffset(dx)
	fb.last = lastVirtual.withXOffset(dx)
	return nil
}

// overhangs returns the nut and last fret overhangs of the first and last
// border, following handedness.
func overhangs(inst instrument.Instrument) (nutFirst, lastFretFirst, nutLast, lastFretLast float64) {
	o := inst.Overhangs
	if inst.RightHanded {
		return o[instrument.NutBass], o[instrument.LastFretBass], o[instrument.NutTreble], o[instrument.LastFretTreble]
	}
	return o[instrument.NutTreble], o[instrument.LastFretTreble], o[instrument.NutBass], o[instrument.LastFretBass]
}

// ----------------------------------------------------------------------------
// Borders, frets and shapes
// ----------------------------------------------------------------------------

// builder records the first geometry error and turns every later call into
// a no-op.
type builder struct {
	err error
}

func (b *builder) at(l, other geom.Line, what string) geom.Point {
	if b.err != nil {
		return geom.Point{}
	}
	p, err := l.Intersection(other)
	if err != nil {
		b.err = fmt.Errorf("%s: %w", what, err)
	}
	return p
}

func (b *builder) offset(l geom.Line, d float64, what string) geom.Line {
	if b.err != nil {
		return geom.Line{}
	}
	out, err := l.Offset2D(d)
	if err != nil {
		b.err = fmt.Errorf("%s: %w", what, err)
	}
	return out
}

func (b *builder) offsetAlong(l geom.Line, off0 float64, v0 geom.Line, off1 float64, v1 geom.Line, what string) geom.Line {
	if b.err != nil {
		return geom.Line{}
	}
	out, err := l.Offset2DAlong(off0, v0, off1, v1)
	if err != nil {
		b.err = fmt.Errorf("%s: %w", what, err)
	}
	return out
}

// crossLine runs across the board through fret f of both border strings.
func (fb *Fretboard) crossLine(f float64) geom.Line {
	return geom.NewLine(fb.first.PointAtFret(f), fb.last.PointAtFret(f))
}

func (fb *Fretboard) buildBorders(b *builder, inst instrument.Instrument) {
	nutFirst, lastFretFirst, nutLast, lastFretLast := overhangs(inst)

	// The overhangs are measured along the fret 0 and last fret lines. A
	// board without frets has nothing at the far end but the bridge.
	far := float64(inst.NumberOfFrets)
	if inst.NumberOfFrets == 0 {
		far = BridgeFret
	}
	near := fb.crossLine(0)
	farLine := fb.crossLine(far)

	fb.firstBorder = b.offsetAlong(fb.first.Line(), nutFirst, near, lastFretFirst, farLine, "first border")
	fb.lastBorder = b.offsetAlong(fb.last.Line(), -nutLast, near, -lastFretLast, farLine, "last border")

	fb.firstTangBorder = b.offset(fb.firstBorder, -inst.HiddenTangLength, "first tang border")
	fb.lastTangBorder = b.offset(fb.lastBorder, inst.HiddenTangLength, "last tang border")
}

func (fb *Fretboard) buildFrets(b *builder, inst instrument.Instrument) {
	count := max(0, inst.NumberOfFrets-fb.firstFretIndex+1)
	fb.fretSlots = make([]geom.Line, 0, count)
	fb.fretLines = make([]geom.Line, 0, count)
	fb.fretSlotShapes = make([]Quad, 0, count)

	halfSlot := inst.FretSlotsWidth / 2
	for i := fb.firstFretIndex; i <= inst.NumberOfFrets; i++ {
		what := fmt.Sprintf("fret %d", i)
		cross := fb.crossLine(float64(i))

		fb.fretSlots = append(fb.fretSlots, geom.NewLine(
			b.at(cross, fb.firstTangBorder, what),
			b.at(cross, fb.lastTangBorder, what)))
		fb.fretLines = append(fb.fretLines, geom.NewLine(
			b.at(cross, fb.firstBorder, what),
			b.at(cross, fb.lastBorder, what)))

		// bridgeSide is towards +X, nutSide towards -X.
		bridgeSide := b.offset(cross, -halfSlot, what)
		nutSide := b.offset(cross, halfSlot, what)
		fb.fretSlotShapes = append(fb.fretSlotShapes, Quad{
			b.at(bridgeSide, fb.firstTangBorder, what),
			b.at(nutSide, fb.firstTangBorder, what),
			b.at(nutSide, fb.lastTangBorder, what),
			b.at(bridgeSide, fb.lastTangBorder, what),
		})
	}

	last := fb.crossLine(float64(inst.NumberOfFrets))
	fb.lastFretLine = geom.NewLine(
		b.at(last, fb.firstBorder, "last fret"),
		b.at(last, fb.lastBorder, "last fret"))

	// The heel end is cut one fret past the last one, moved towards the
	// bridge by the cut offset.
	fb.lastFretCut = b.offset(fb.crossLine(float64(inst.NumberOfFrets+1)), -inst.LastFretCutOffset, "last fret cut")
}

func (fb *Fretboard) buildShapes(b *builder, inst instrument.Instrument) {
	fb.nutLine = geom.NewLine(fb.first.PointAtNut(), fb.last.PointAtNut())

	boardCut := b.offset(fb.nutLine, inst.SpaceBeforeNut, "board cut at nut")
	fb.board = Quad{
		b.at(boardCut, fb.firstBorder, "board"),
		b.at(fb.lastFretCut, fb.firstBorder, "board"),
		b.at(fb.lastFretCut, fb.lastBorder, "board"),
		b.at(boardCut, fb.lastBorder, "board"),
	}

	nutBack := b.offset(fb.nutLine, inst.NutThickness, "nut")
	fb.nut = Quad{
		b.at(nutBack, fb.firstBorder, "nut"),
		b.at(fb.nutLine, fb.firstBorder, "nut"),
		b.at(fb.nutLine, fb.lastBorder, "nut"),
		b.at(nutBack, fb.lastBorder, "nut"),
	}

	outerFirst := b.offset(fb.firstBorder, nutSlotMargin, "nut slot")
	outerLast := b.offset(fb.lastBorder, -nutSlotMargin, "nut slot")
	fb.nutSlot = Quad{
		b.at(nutBack, outerFirst, "nut slot"),
		b.at(fb.nutLine, outerFirst, "nut slot"),
		b.at(fb.nutLine, outerLast, "nut slot"),
		b.at(nutBack, outerLast, "nut slot"),
	}

	fb.stringsQd = Quad{
		fb.first.PointAtNut(),
		fb.first.PointAtBridge(),
		fb.last.PointAtBridge(),
		fb.last.PointAtNut(),
	}

	if b.err != nil {
		return
	}

	frets := float64(inst.NumberOfFrets)
	fb.distances = Distances{
		NutSide:  math.Min(fb.board[0].X, fb.board[3].X),
		Heel:     math.Max(fb.board[1].X, fb.board[2].X),
		Nut:      (fb.first.PointAtNut().X + fb.last.PointAtNut().X) / 2,
		LastFret: (fb.first.PointAtFret(frets).X + fb.last.PointAtFret(frets).X) / 2,
	}
	if inst.NumberOfFrets > 12 {
		fb.distances.TwelfthFret = (fb.first.PointAtFret(12).X + fb.last.PointAtFret(12).X) / 2
		fb.distances.HasTwelfthFret = true
	}
}

// ----------------------------------------------------------------------------
// Accessors
// ----------------------------------------------------------------------------

// Strings returns the physical strings, first to last.
func (fb *Fretboard) Strings() []String {
	return append([]String(nil), fb.strings...)
}

// BorderStrings returns the strings the outline is built from. They are
// the first and last physical strings, except on a single string board.
func (fb *Fretboard) BorderStrings() (first, last String) {
	return fb.first, fb.last
}

// FirstFretIndex is 0 with a zero fret and 1 without.
func (fb *Fretboard) FirstFretIndex() int { return fb.firstFretIndex }

// NumberOfFrets is the configured fret count.
func (fb *Fretboard) NumberOfFrets() int { return fb.numberOfFrets }

// FretSlots returns the slot centerlines, bounded by the tang borders, from
// FirstFretIndex to NumberOfFrets.
func (fb *Fretboard) FretSlots() []geom.Line {
	return append([]geom.Line(nil), fb.fretSlots...)
}

// FretLines returns the full width fret lines, bounded by the board edges.
func (fb *Fretboard) FretLines() []geom.Line {
	return append([]geom.Line(nil), fb.fretLines...)
}

// FretSlotShapes returns one slot outline per fret slot, in the order
// (bridge side first, nut side first, nut side last, bridge side last).
func (fb *Fretboard) FretSlotShapes() []Quad {
	return append([]Quad(nil), fb.fretSlotShapes...)
}

// BoardShape is the board outline: (nut end first, heel first, heel last,
// nut end last).
func (fb *Fretboard) BoardShape() Quad { return fb.board }

// NutShape is the nut block, between the nut line and the headstock.
func (fb *Fretboard) NutShape() Quad { return fb.nut }

// NutSlotShape is the nut block extended past both board edges.
func (fb *Fretboard) NutSlotShape() Quad { return fb.nutSlot }

// StringsShape joins the border strings' nut and bridge points.
func (fb *Fretboard) StringsShape() Quad { return fb.stringsQd }

// Borders returns the two board edges.
func (fb *Fretboard) Borders() (first, last geom.Line) {
	return fb.firstBorder, fb.lastBorder
}

// TangBorders returns the board edges moved in by the hidden tang length.
func (fb *Fretboard) TangBorders() (first, last geom.Line) {
	return fb.firstTangBorder, fb.lastTangBorder
}

// LastFretCut is the heel end line of the board.
func (fb *Fretboard) LastFretCut() geom.Line { return fb.lastFretCut }

// Distances returns the construction distances.
func (fb *Fretboard) Distances() Distances { return fb.distances }

// BoardWidthAtNut is the board width along the nut line.
func (fb *Fretboard) BoardWidthAtNut() float64 {
	return fb.nut[1].Distance(fb.nut[2])
}

// BoardWidthAtLastFret is the board width along the last fret.
func (fb *Fretboard) BoardWidthAtLastFret() float64 {
	return fb.lastFretLine.Length()
}

// RadiusDropAtNut is RadiusDrop across the board at the nut.
func (fb *Fretboard) RadiusDropAtNut() float64 {
	return RadiusDrop(fb.radiusAtNut, fb.BoardWidthAtNut())
}

// RadiusDropAtLastFret is RadiusDrop across the board at the last fret.
func (fb *Fretboard) RadiusDropAtLastFret() float64 {
	return RadiusDrop(fb.radiusAtLastFret, fb.BoardWidthAtLastFret())
}
