package instrument

import (
	"errors"
	"fmt"
	"math"
)

// ErrInvalid is wrapped by ValidationResult.Err when an instrument cannot be
// laid out.
var ErrInvalid = errors.New("instrument: invalid parameters")

// ValidationSeverity tells whether a finding blocks layout.
type ValidationSeverity int

const (
	SeverityError   ValidationSeverity = iota // blocks layout
	SeverityWarning                           // informational
)

func (s ValidationSeverity) String() string {
	switch s {
	case SeverityError:
		return "error"
	case SeverityWarning:
		return "warning"
	default:
		return fmt.Sprintf("ValidationSeverity(%d)", int(s))
	}
}

// ValidationError describes a single finding on one field.
type ValidationError struct {
	Field    string
	Message  string
	Severity ValidationSeverity
}

func (e ValidationError) Error() string {
	return fmt.Sprintf("[%s] %s: %s", e.Severity, e.Field, e.Message)
}

// ValidationResult separates blocking errors from warnings.
type ValidationResult struct {
	Errors   []ValidationError
	Warnings []ValidationError
}

// OK reports whether there are no blocking errors.
func (r ValidationResult) OK() bool {
	return len(r.Errors) == 0
}

// Err returns nil when OK, otherwise an error wrapping ErrInvalid and
// describing the first blocking finding.
func (r ValidationResult) Err() error {
	if r.OK() {
		return nil
	}
	if len(r.Errors) == 1 {
		return fmt.Errorf("%w: %s", ErrInvalid, r.Errors[0].Error())
	}
	return fmt.Errorf("%w: %s (and %d more)", ErrInvalid, r.Errors[0].Error(), len(r.Errors)-1)
}

// Check reports structural problems that make a layout impossible, and
// warnings about values that lay out but are unlikely to be intended.
// It never mutates the instrument.
func (i Instrument) Check() ValidationResult {
	var r ValidationResult
	r.Errors = append(r.Errors, i.checkStructure()...)
	r.Warnings = append(r.Warnings, i.checkAdvisory()...)
	return r
}

func fieldError(field, format string, args ...any) ValidationError {
	return ValidationError{Field: field, Message: fmt.Sprintf(format, args...), Severity: SeverityError}
}

func fieldWarning(field, format string, args ...any) ValidationError {
	return ValidationError{Field: field, Message: fmt.Sprintf(format, args...), Severity: SeverityWarning}
}

func finite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}

func (i Instrument) checkStructure() []ValidationError {
	var errs []ValidationError

	if i.NumberOfStrings < 1 {
		errs = append(errs, fieldError("number_of_strings", "is %d, must be at least 1", i.NumberOfStrings))
	}
	if i.NumberOfFrets < 0 {
		errs = append(errs, fieldError("number_of_frets", "is %d, must not be negative", i.NumberOfFrets))
	}
	if !(i.NumberOfFretsPerOctave > 0) {
		errs = append(errs, fieldError("number_of_frets_per_octave", "is %g, must be positive", i.NumberOfFretsPerOctave))
	}
	for side, name := range []string{Treble: "treble", Bass: "bass"} {
		if l := i.ScaleLength[side]; !(l > 0) || !finite(l) {
			errs = append(errs, fieldError("scale_length", "%s scale is %g, must be positive", name, l))
		}
	}
	if !finite(i.PerpendicularFretIndex) {
		errs = append(errs, fieldError("perpendicular_fret_index", "is %g, must be finite", i.PerpendicularFretIndex))
	}

	nonNegative := []struct {
		field string
		v     float64
	}{
		{"inter_string_spacing_at_nut", i.InterStringSpacingAtNut},
		{"inter_string_spacing_at_bridge", i.InterStringSpacingAtBridge},
		{"nut_to_zero_fret_offset", i.NutToZeroFretOffset},
		{"hidden_tang_length", i.HiddenTangLength},
		{"fret_slots_width", i.FretSlotsWidth},
		{"space_before_nut", i.SpaceBeforeNut},
		{"nut_thickness", i.NutThickness},
	}
	for _, f := range nonNegative {
		if f.v < 0 || !finite(f.v) {
			errs = append(errs, fieldError(f.field, "is %g, must be a non-negative length", f.v))
		}
	}
	for j, o := range i.Overhangs {
		if !finite(o) {
			errs = append(errs, fieldError("overhangs", "overhang %d is %g, must be finite", j, o))
		}
	}

	// A string shorter than its own transverse run cannot be laid out.
	spread := math.Abs(i.InterStringSpacingAtBridge-i.InterStringSpacingAtNut) * float64(max(2, i.NumberOfStrings)-1) / 2
	if spread >= i.ScaleLength[Treble] || spread >= i.ScaleLength[Bass] {
		errs = append(errs, fieldError("inter_string_spacing_at_bridge",
			"string spread change %.4g is not shorter than the scale length", spread))
	}

	// Single-string boards take their width from the overhangs alone.
	if i.NumberOfStrings == 1 && i.Overhangs[NutBass]+i.Overhangs[NutTreble] <= 0 {
		errs = append(errs, fieldError("overhangs", "a single string board needs a positive overhang"))
	}

	return errs
}

func (i Instrument) checkAdvisory() []ValidationError {
	var warnings []ValidationError

	if i.FretSlotsHeight >= i.FretboardThickness {
		warnings = append(warnings, fieldWarning("fret_slots_height",
			"slot depth %.4g reaches through the %.4g board", i.FretSlotsHeight, i.FretboardThickness))
	}
	if i.CarveNutSlot && i.NutHeightUnder >= i.FretboardThickness {
		warnings = append(warnings, fieldWarning("nut_height_under",
			"nut slot depth %.4g reaches through the %.4g board", i.NutHeightUnder, i.FretboardThickness))
	}
	if i.SpaceBeforeNut > 0 && i.SpaceBeforeNut < i.NutThickness {
		warnings = append(warnings, fieldWarning("space_before_nut",
			"%.4g leaves the %.4g nut hanging past the board end", i.SpaceBeforeNut, i.NutThickness))
	}
	if i.HiddenTangLength*2 >= i.InterStringSpacingAtNut*float64(max(1, i.NumberOfStrings-1))+i.Overhangs[NutBass]+i.Overhangs[NutTreble] {
		warnings = append(warnings, fieldWarning("hidden_tang_length",
			"%.4g hides the whole fret slot at the nut", i.HiddenTangLength))
	}
	if i.PerpendicularFretIndex > float64(i.NumberOfFrets) && i.PerpendicularFretIndex != 100 {
		warnings = append(warnings, fieldWarning("perpendicular_fret_index",
			"%.4g lies beyond the last fret %d", i.PerpendicularFretIndex, i.NumberOfFrets))
	}
	switch i.OverhangType {
	case OverhangSingle:
		o := i.Overhangs
		if o[0] != o[1] || o[0] != o[2] || o[0] != o[3] {
			warnings = append(warnings, fieldWarning("overhang_type", "single, but the four overhangs differ"))
		}
	case OverhangNutAndLastFret:
		o := i.Overhangs
		if o[NutBass] != o[NutTreble] || o[LastFretBass] != o[LastFretTreble] {
			warnings = append(warnings, fieldWarning("overhang_type", "nut_and_last_fret, but bass and treble overhangs differ"))
		}
	}

	return warnings
}
