package instrument

import "fmt"

// Indices into Instrument.ScaleLength.
const (
	Treble = 0
	Bass   = 1
)

// Indices into Instrument.Overhangs.
const (
	NutBass = iota
	LastFretBass
	NutTreble
	LastFretTreble
)

// DefaultFretsPerOctave is the equal-tempered division used when none is set.
const DefaultFretsPerOctave = 12

// OverhangType tells how many of the four overhangs are independent.
type OverhangType int

const (
	OverhangSingle         OverhangType = iota // one value everywhere
	OverhangNutAndLastFret                     // one value at the nut, one at the last fret
	OverhangAll                                // four independent values
)

func (t OverhangType) String() string {
	switch t {
	case OverhangSingle:
		return "single"
	case OverhangNutAndLastFret:
		return "nut_and_last_fret"
	case OverhangAll:
		return "all"
	default:
		return "unknown"
	}
}

// Instrument describes a fretboard to lay out.
//
// The X axis runs along the neck, +X towards the body. +Y points to the
// first string, -Y to the last one.
type Instrument struct {
	RightHanded     bool `json:"right_handed"`
	NumberOfStrings int  `json:"number_of_strings"`

	// ScaleLength is indexed by Treble and Bass.
	ScaleLength [2]float64 `json:"scale_length"`

	// PerpendicularFretIndex is the fret square to the neck axis. It may be
	// fractional or negative; 100 means square at the bridge.
	PerpendicularFretIndex float64 `json:"perpendicular_fret_index"`

	InterStringSpacingAtNut    float64 `json:"inter_string_spacing_at_nut"`
	InterStringSpacingAtBridge float64 `json:"inter_string_spacing_at_bridge"`

	// Derived by Validate.
	StringSpacingAtNut    float64 `json:"-"`
	StringSpacingAtBridge float64 `json:"-"`
	YAtStart              float64 `json:"-"`
	YAtBridge             float64 `json:"-"`

	HasZeroFret         bool    `json:"has_zero_fret"`
	NutToZeroFretOffset float64 `json:"nut_to_zero_fret_offset"`

	NumberOfFretsPerOctave float64 `json:"number_of_frets_per_octave"`
	NumberOfFrets          int     `json:"number_of_frets"`

	OverhangType OverhangType `json:"overhang_type"`
	// Overhangs is indexed by NutBass, LastFretBass, NutTreble, LastFretTreble.
	Overhangs [4]float64 `json:"overhangs"`

	HiddenTangLength float64 `json:"hidden_tang_length"`
	DrawStrings      bool    `json:"draw_strings"`
	DrawFrets        bool    `json:"draw_frets"`
	FretSlotsWidth   float64 `json:"fret_slots_width"`
	FretSlotsHeight  float64 `json:"fret_slots_height"`
	FretCrownWidth   float64 `json:"fret_crown_width"`
	FretCrownHeight  float64 `json:"fret_crown_height"`

	LastFretCutOffset float64 `json:"last_fret_cut_offset"`

	CarveNutSlot   bool    `json:"carve_nut_slot"`
	SpaceBeforeNut float64 `json:"space_before_nut"`
	NutThickness   float64 `json:"nut_thickness"`
	NutHeightUnder float64 `json:"nut_height_under"`

	RadiusAtNut        float64 `json:"radius_at_nut"`
	RadiusAtLastFret   float64 `json:"radius_at_last_fret"`
	FretboardThickness float64 `json:"fretboard_thickness"`
}

// DefaultInstrument returns a 24 fret, six string, slightly fanned guitar
// in millimetres.
func DefaultInstrument() Instrument {
	inst := Instrument{
		RightHanded:                true,
		NumberOfStrings:            6,
		ScaleLength:                [2]float64{Treble: 635, Bass: 647.7},
		InterStringSpacingAtNut:    7.5,
		InterStringSpacingAtBridge: 12,
		HasZeroFret:                true,
		NutToZeroFretOffset:        3,
		NumberOfFretsPerOctave:     DefaultFretsPerOctave,
		NumberOfFrets:              24,
		OverhangType:               OverhangSingle,
		Overhangs:                  [4]float64{3, 3, 3, 3},
		HiddenTangLength:           2,
		DrawStrings:                true,
		DrawFrets:                  true,
		FretSlotsWidth:             0.6,
		FretSlotsHeight:            1.5,
		FretCrownWidth:             2.34,
		FretCrownHeight:            1.22,
		CarveNutSlot:               true,
		SpaceBeforeNut:             12,
		NutThickness:               4,
		NutHeightUnder:             3,
		RadiusAtNut:                MmFromInch(10),
		RadiusAtLastFret:           MmFromInch(20),
		FretboardThickness:         7,
	}
	inst.Validate()
	return inst
}

// Validate recomputes the derived spacing fields and enforces the zero fret
// invariant. It does not reject anything; see Check.
func (i *Instrument) Validate() {
	n := max(2, i.NumberOfStrings) - 1
	i.StringSpacingAtNut = i.InterStringSpacingAtNut * float64(n)
	i.StringSpacingAtBridge = i.InterStringSpacingAtBridge * float64(n)
	i.YAtStart = i.StringSpacingAtNut / 2
	i.YAtBridge = i.StringSpacingAtBridge / 2

	if !i.HasZeroFret {
		i.NutToZeroFretOffset = 0
	}
	if i.NumberOfFretsPerOctave == 0 {
		i.NumberOfFretsPerOctave = DefaultFretsPerOctave
	}
}

// Scale multiplies every length by k and revalidates.
func (i *Instrument) Scale(k float64) {
	i.ScaleLength[Treble] *= k
	i.ScaleLength[Bass] *= k

	i.InterStringSpacingAtNut *= k
	i.InterStringSpacingAtBridge *= k

	i.NutToZeroFretOffset *= k

	for j := range i.Overhangs {
		i.Overhangs[j] *= k
	}

	i.HiddenTangLength *= k
	i.FretSlotsWidth *= k
	i.FretSlotsHeight *= k
	i.FretCrownWidth *= k
	i.FretCrownHeight *= k

	i.LastFretCutOffset *= k

	i.SpaceBeforeNut *= k
	i.NutThickness *= k
	i.NutHeightUnder *= k

	i.RadiusAtNut *= k
	i.RadiusAtLastFret *= k

	i.FretboardThickness *= k

	i.Validate()
}

// SetOverhangs fills the four overhangs from one, two or four values
// according to t.
func (i *Instrument) SetOverhangs(t OverhangType, values ...float64) error {
	switch t {
	case OverhangSingle:
		if len(values) != 1 {
			return fmt.Errorf("overhang type %s takes 1 value, got %d", t, len(values))
		}
		i.Overhangs = [4]float64{values[0], values[0], values[0], values[0]}
	case OverhangNutAndLastFret:
		if len(values) != 2 {
			return fmt.Errorf("overhang type %s takes 2 values, got %d", t, len(values))
		}
		i.Overhangs[NutBass] = values[0]
		i.Overhangs[NutTreble] = values[0]
		i.Overhangs[LastFretBass] = values[1]
		i.Overhangs[LastFretTreble] = values[1]
	case OverhangAll:
		if len(values) != 4 {
			return fmt.Errorf("overhang type %s takes 4 values, got %d", t, len(values))
		}
		copy(i.Overhangs[:], values)
	default:
		return fmt.Errorf("unknown overhang type %d", t)
	}
	i.OverhangType = t
	return nil
}

// FirstScaleLength returns the scale of the string laid out at +Y: the bass
// side for a right handed instrument.
func (i Instrument) FirstScaleLength() float64 {
	if i.RightHanded {
		return i.ScaleLength[Bass]
	}
	return i.ScaleLength[Treble]
}

// LastScaleLength returns the scale of the string laid out at -Y.
func (i Instrument) LastScaleLength() float64 {
	if i.RightHanded {
		return i.ScaleLength[Treble]
	}
	return i.ScaleLength[Bass]
}

// IsMultiscale reports whether bass and treble scales differ.
func (i Instrument) IsMultiscale() bool {
	return i.ScaleLength[Treble] != i.ScaleLength[Bass]
}

// MmFromInch converts inches to millimetres.
func MmFromInch(v float64) float64 { return v * 25.4 }

// CmFromInch converts inches to centimetres.
func CmFromInch(v float64) float64 { return MmFromInch(v) * 0.1 }
