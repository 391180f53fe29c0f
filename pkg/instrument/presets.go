package instrument

import (
	"errors"
	"fmt"
	"strings"
	"sync"
)

// ErrUnknownPreset is returned by PresetByName.
var ErrUnknownPreset = errors.New("instrument: unknown preset")

// Preset is a named instrument from the catalog.
type Preset struct {
	Name       string     `json:"name"`
	Instrument Instrument `json:"instrument"`
}

var (
	presetsOnce sync.Once
	presets     []Preset
)

// Presets returns the catalog in its fixed order. The catalog is built on
// first use and never changes afterwards; the returned slice is a copy.
func Presets() []Preset {
	presetsOnce.Do(func() {
		presets = buildPresets()
	})
	out := make([]Preset, len(presets))
	copy(out, presets)
	return out
}

// PresetByName returns the catalog instrument with the given name,
// ignoring case.
func PresetByName(name string) (Instrument, error) {
	for _, p := range Presets() {
		if strings.EqualFold(p.Name, name) {
			return p.Instrument, nil
		}
	}
	return Instrument{}, fmt.Errorf("%w: %q", ErrUnknownPreset, name)
}

// presetParams holds what differs between catalog entries; everything else
// comes from the shared guitar/bass hardware below.
type presetParams struct {
	strings        int
	bass, treble   float64
	perpendicular  float64
	bassSpacing    bool
	zeroFret       bool
	frets          int
	spaceBeforeNut float64
	radiusNut      float64
	radiusLastFret float64
}

func (p presetParams) instrument() Instrument {
	inst := Instrument{
		RightHanded:                true,
		NumberOfStrings:            p.strings,
		ScaleLength:                [2]float64{Treble: p.treble, Bass: p.bass},
		PerpendicularFretIndex:     p.perpendicular,
		InterStringSpacingAtNut:    7.2,
		InterStringSpacingAtBridge: 11,
		HasZeroFret:                p.zeroFret,
		NutToZeroFretOffset:        3,
		NumberOfFretsPerOctave:     DefaultFretsPerOctave,
		NumberOfFrets:              p.frets,
		OverhangType:               OverhangSingle,
		Overhangs:                  [4]float64{3, 3, 3, 3},
		HiddenTangLength:           2,
		DrawStrings:                true,
		DrawFrets:                  true,
		FretSlotsWidth:             0.6,
		FretSlotsHeight:            1.5,
		FretCrownWidth:             3,
		FretCrownHeight:            3,
		CarveNutSlot:               true,
		SpaceBeforeNut:             p.spaceBeforeNut,
		NutThickness:               4,
		NutHeightUnder:             3,
		RadiusAtNut:                p.radiusNut,
		RadiusAtLastFret:           p.radiusLastFret,
		FretboardThickness:         7,
	}
	if p.bassSpacing {
		inst.InterStringSpacingAtNut = 12
		inst.InterStringSpacingAtBridge = 18
	}
	inst.Validate()
	return inst
}

func buildPresets() []Preset {
	fender := MmFromInch(25.5)
	bass34 := MmFromInch(34)
	return []Preset{
		{"Telecaster", presetParams{
			strings: 6, bass: fender, treble: fender, frets: 22, spaceBeforeNut: 12,
			radiusNut: MmFromInch(9.5), radiusLastFret: MmFromInch(9.5),
		}.instrument()},
		{"Stratocaster", presetParams{
			strings: 6, bass: fender, treble: fender, frets: 22, spaceBeforeNut: 12,
			radiusNut: MmFromInch(10), radiusLastFret: MmFromInch(10),
		}.instrument()},
		{"Les paul", presetParams{
			strings: 6, bass: MmFromInch(24.7), treble: MmFromInch(24.7), frets: 22,
			radiusNut: MmFromInch(12), radiusLastFret: MmFromInch(12),
		}.instrument()},
		{"Jazz bass", presetParams{
			strings: 4, bass: bass34, treble: bass34, bassSpacing: true, frets: 24, spaceBeforeNut: 12,
			radiusNut: MmFromInch(12), radiusLastFret: MmFromInch(12),
		}.instrument()},
		{"Precision bass", presetParams{
			strings: 4, bass: bass34, treble: bass34, bassSpacing: true, frets: 24, spaceBeforeNut: 12,
			radiusNut: MmFromInch(12), radiusLastFret: MmFromInch(12),
		}.instrument()},
		{"Boden 6", presetParams{
			strings: 6, bass: MmFromInch(25.5), treble: MmFromInch(25), zeroFret: true, frets: 24, spaceBeforeNut: 12,
			radiusNut: MmFromInch(12), radiusLastFret: MmFromInch(20),
		}.instrument()},
		{"Boden 7", presetParams{
			strings: 7, bass: MmFromInch(25.5), treble: MmFromInch(25), zeroFret: true, frets: 24, spaceBeforeNut: 12,
			radiusNut: MmFromInch(12), radiusLastFret: MmFromInch(20),
		}.instrument()},
		{"Boden bass", presetParams{
			strings: 4, bass: bass34, treble: MmFromInch(32), perpendicular: 7, bassSpacing: true,
			zeroFret: true, frets: 24, spaceBeforeNut: 12,
			radiusNut: MmFromInch(16), radiusLastFret: MmFromInch(20),
		}.instrument()},
		{"Boden bass 5 strings", presetParams{
			strings: 5, bass: bass34, treble: MmFromInch(32), perpendicular: 7, bassSpacing: true,
			zeroFret: true, frets: 24, spaceBeforeNut: 12,
			radiusNut: MmFromInch(16), radiusLastFret: MmFromInch(20),
		}.instrument()},
	}
}
