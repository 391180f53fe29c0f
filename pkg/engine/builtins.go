package engine

import (
	"fmt"
	"maps"
	"math"
	"slices"
	"strings"

	"github.com/chazu/fretboarder/pkg/instrument"
	zygo "github.com/glycerine/zygomys/zygo"
)

// ---------------------------------------------------------------------------
// Source preprocessing
// ---------------------------------------------------------------------------

// kwPrefix is the marker prepended to keyword names by preprocessSource.
const kwPrefix = "__kw_"

// preprocessSource rewrites script source into something zygomys accepts:
//
//  1. :keyword becomes the string literal "__kw_keyword", so keywords never
//     collide with user variables of the same name.
//  2. kebab-case identifiers become snake_case (scale-bass -> scale_bass);
//     zygomys reads a bare hyphen as subtraction.
//  3. ; and ;; line comments become // comments.
//
// String literals are copied untouched.
func preprocessSource(source string) string {
	s := &scanner{src: []byte(source)}
	s.out = make([]byte, 0, len(source)+len(source)/4)
	for s.pos < len(s.src) {
		switch c := s.src[s.pos]; {
		case c == '"':
			s.quoted('"', true)
		case c == '`':
			s.quoted('`', false)
		case c == ';':
			s.comment()
		case c == ':' && s.peek() == '=':
			s.copy(2)
		case c == ':' && isLetter(s.peek()):
			s.keyword()
		case c == '-' && s.pos > 0 && isIdentChar(s.src[s.pos-1]) && isLetter(s.peek()):
			s.out = append(s.out, '_')
			s.pos++
		default:
			s.copy(1)
		}
	}
	return string(s.out)
}

type scanner struct {
	src []byte
	out []byte
	pos int
}

func (s *scanner) peek() byte {
	if s.pos+1 < len(s.src) {
		return s.src[s.pos+1]
	}
	return 0
}

func (s *scanner) copy(n int) {
	end := min(s.pos+n, len(s.src))
	s.out = append(s.out, s.src[s.pos:end]...)
	s.pos = end
}

// quoted copies a literal delimited by q, honouring backslash escapes when
// escapes is set.
func (s *scanner) quoted(q byte, escapes bool) {
	s.copy(1)
	for s.pos < len(s.src) && s.src[s.pos] != q {
		if escapes && s.src[s.pos] == '\\' {
			s.copy(2)
			continue
		}
		s.copy(1)
	}
	s.copy(1)
}

func (s *scanner) comment() {
	for s.pos < len(s.src) && s.src[s.pos] == ';' {
		s.pos++
	}
	s.out = append(s.out, '/', '/')
	for s.pos < len(s.src) && s.src[s.pos] != '\n' {
		s.copy(1)
	}
}

func (s *scanner) keyword() {
	end := s.pos + 1
	for end < len(s.src) && isKWChar(s.src[end]) {
		end++
	}
	s.out = append(s.out, '"')
	s.out = append(s.out, kwPrefix...)
	s.out = append(s.out, s.src[s.pos+1:end]...)
	s.out = append(s.out, '"')
	s.pos = end
}

func isLetter(c byte) bool {
	return (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z')
}

func isKWChar(c byte) bool {
	return isIdentChar(c) || c == '-'
}

func isIdentChar(c byte) bool {
	return isLetter(c) || (c >= '0' && c <= '9') || c == '_'
}

// ---------------------------------------------------------------------------
// Custom Sexp types
// ---------------------------------------------------------------------------

// sexpInstrument carries an instrument between builtins. It holds a value,
// so scripts can reuse one as a base without aliasing.
type sexpInstrument struct {
	name string
	inst instrument.Instrument
}

func (s *sexpInstrument) SexpString(ps *zygo.PrintState) string {
	return fmt.Sprintf("(instrument %q)", s.name)
}
func (s *sexpInstrument) Type() *zygo.RegisteredType { return nil }

// declarations collects the instruments of one evaluation in call order.
type declarations struct {
	list []instrument.Preset
}

func (d *declarations) add(name string, inst instrument.Instrument) error {
	for _, p := range d.list {
		if p.Name == name {
			return fmt.Errorf("instrument %q declared twice", name)
		}
	}
	d.list = append(d.list, instrument.Preset{Name: name, Instrument: inst})
	return nil
}

func (d *declarations) presets() []instrument.Preset {
	return slices.Clone(d.list)
}

// ---------------------------------------------------------------------------
// Keyword argument parsing
// ---------------------------------------------------------------------------

// isKW checks if a Sexp is a preprocessed keyword string and returns the
// keyword name without its prefix.
func isKW(s zygo.Sexp) (string, bool) {
	str, ok := s.(*zygo.SexpStr)
	if !ok {
		return "", false
	}
	return strings.CutPrefix(str.S, kwPrefix)
}

// kwArgs holds the result of parsing a mixed positional+keyword argument list.
type kwArgs struct {
	kw         map[string]zygo.Sexp
	positional []zygo.Sexp
}

// parseArgs separates args into keyword and positional arguments.
func parseArgs(args []zygo.Sexp) kwArgs {
	result := kwArgs{kw: make(map[string]zygo.Sexp)}
	for i := 0; i < len(args); i++ {
		name, ok := isKW(args[i])
		if !ok {
			result.positional = append(result.positional, args[i])
			continue
		}
		if i+1 < len(args) {
			result.kw[name] = args[i+1]
			i++
		} else {
			result.kw[name] = zygo.SexpNull
		}
	}
	return result
}

// ---------------------------------------------------------------------------
// Value extraction helpers
// ---------------------------------------------------------------------------

// toFloat64 extracts a float64 from a Sexp (SexpInt or SexpFloat).
func toFloat64(s zygo.Sexp) (float64, error) {
	switch v := s.(type) {
	case *zygo.SexpInt:
		return float64(v.Val), nil
	case *zygo.SexpFloat:
		return v.Val, nil
	}
	return 0, fmt.Errorf("expected number, got %T (%s)", s, s.SexpString(nil))
}

// toInt accepts integers and integral floats.
func toInt(s zygo.Sexp) (int, error) {
	switch v := s.(type) {
	case *zygo.SexpInt:
		return int(v.Val), nil
	case *zygo.SexpFloat:
		if v.Val == math.Trunc(v.Val) {
			return int(v.Val), nil
		}
		return 0, fmt.Errorf("expected integer, got %g", v.Val)
	}
	return 0, fmt.Errorf("expected integer, got %T (%s)", s, s.SexpString(nil))
}

func toBool(s zygo.Sexp) (bool, error) {
	if b, ok := s.(*zygo.SexpBool); ok {
		return b.Val, nil
	}
	return false, fmt.Errorf("expected true or false, got %T (%s)", s, s.SexpString(nil))
}

// toString extracts a string from a Sexp.
func toString(s zygo.Sexp) (string, error) {
	if str, ok := s.(*zygo.SexpStr); ok {
		return str.S, nil
	}
	return "", fmt.Errorf("expected string, got %T (%s)", s, s.SexpString(nil))
}

// toInstrument accepts an instrument value or the name of a catalog preset.
func toInstrument(s zygo.Sexp) (instrument.Instrument, error) {
	switch v := s.(type) {
	case *sexpInstrument:
		return v.inst, nil
	case *zygo.SexpStr:
		return instrument.PresetByName(v.S)
	}
	return instrument.Instrument{}, fmt.Errorf("expected instrument or preset name, got %T (%s)", s, s.SexpString(nil))
}

// sexpListToSlice converts a SexpPair (Lisp list) or SexpArray to a Go slice.
func sexpListToSlice(s zygo.Sexp) ([]zygo.Sexp, error) {
	switch v := s.(type) {
	case *zygo.SexpPair:
		return zygo.ListToArray(v)
	case *zygo.SexpArray:
		return v.Val, nil
	case *zygo.SexpSentinel:
		if v == zygo.SexpNull {
			return nil, nil
		}
	}
	return nil, fmt.Errorf("expected list or array, got %T", s)
}

// ---------------------------------------------------------------------------
// Instrument keywords
// ---------------------------------------------------------------------------

// floatFields maps keywords to the length or count they set.
var floatFields = map[string]func(*instrument.Instrument) *float64{
	"scale-bass":         func(i *instrument.Instrument) *float64 { return &i.ScaleLength[instrument.Bass] },
	"scale-treble":       func(i *instrument.Instrument) *float64 { return &i.ScaleLength[instrument.Treble] },
	"perpendicular-fret": func(i *instrument.Instrument) *float64 { return &i.PerpendicularFretIndex },
	"frets-per-octave":   func(i *instrument.Instrument) *float64 { return &i.NumberOfFretsPerOctave },
	"zero-fret-offset":   func(i *instrument.Instrument) *float64 { return &i.NutToZeroFretOffset },
	"spacing-nut":        func(i *instrument.Instrument) *float64 { return &i.InterStringSpacingAtNut },
	"spacing-bridge":     func(i *instrument.Instrument) *float64 { return &i.InterStringSpacingAtBridge },
	"tang":               func(i *instrument.Instrument) *float64 { return &i.HiddenTangLength },
	"slot-width":         func(i *instrument.Instrument) *float64 { return &i.FretSlotsWidth },
	"slot-height":        func(i *instrument.Instrument) *float64 { return &i.FretSlotsHeight },
	"crown-width":        func(i *instrument.Instrument) *float64 { return &i.FretCrownWidth },
	"crown-height":       func(i *instrument.Instrument) *float64 { return &i.FretCrownHeight },
	"last-fret-cut":      func(i *instrument.Instrument) *float64 { return &i.LastFretCutOffset },
	"space-before-nut":   func(i *instrument.Instrument) *float64 { return &i.SpaceBeforeNut },
	"nut-thickness":      func(i *instrument.Instrument) *float64 { return &i.NutThickness },
	"nut-height":         func(i *instrument.Instrument) *float64 { return &i.NutHeightUnder },
	"radius-nut":         func(i *instrument.Instrument) *float64 { return &i.RadiusAtNut },
	"radius-last-fret":   func(i *instrument.Instrument) *float64 { return &i.RadiusAtLastFret },
	"thickness":          func(i *instrument.Instrument) *float64 { return &i.FretboardThickness },
}

var intFields = map[string]func(*instrument.Instrument) *int{
	"strings": func(i *instrument.Instrument) *int { return &i.NumberOfStrings },
	"frets":   func(i *instrument.Instrument) *int { return &i.NumberOfFrets },
}

var boolFields = map[string]func(*instrument.Instrument) *bool{
	"zero-fret":      func(i *instrument.Instrument) *bool { return &i.HasZeroFret },
	"draw-strings":   func(i *instrument.Instrument) *bool { return &i.DrawStrings },
	"draw-frets":     func(i *instrument.Instrument) *bool { return &i.DrawFrets },
	"carve-nut-slot": func(i *instrument.Instrument) *bool { return &i.CarveNutSlot },
}

// Keywords handled outside the field tables.
var specialKeywords = []string{"base", "left-handed", "overhang", "overhang-nut", "overhang-last-fret", "overhangs"}

func knownKeyword(name string) bool {
	_, f := floatFields[name]
	_, n := intFields[name]
	_, b := boolFields[name]
	return f || n || b || slices.Contains(specialKeywords, name)
}

// applyKeywords sets every field named in kw on inst.
func applyKeywords(inst *instrument.Instrument, kw map[string]zygo.Sexp) error {
	for _, name := range slices.Sorted(maps.Keys(kw)) {
		if !knownKeyword(name) {
			return fmt.Errorf("unknown keyword :%s", name)
		}
	}

	for name, field := range floatFields {
		if v, ok := kw[name]; ok {
			f, err := toFloat64(v)
			if err != nil {
				return fmt.Errorf("%s: %w", name, err)
			}
			*field(inst) = f
		}
	}
	for name, field := range intFields {
		if v, ok := kw[name]; ok {
			n, err := toInt(v)
			if err != nil {
				return fmt.Errorf("%s: %w", name, err)
			}
			*field(inst) = n
		}
	}
	for name, field := range boolFields {
		if v, ok := kw[name]; ok {
			b, err := toBool(v)
			if err != nil {
				return fmt.Errorf("%s: %w", name, err)
			}
			*field(inst) = b
		}
	}
	if v, ok := kw["left-handed"]; ok {
		b, err := toBool(v)
		if err != nil {
			return fmt.Errorf("left-handed: %w", err)
		}
		inst.RightHanded = !b
	}
	return applyOverhangs(inst, kw)
}

// applyOverhangs picks the overhang type from the keywords present:
// :overhangs sets all four, :overhang-nut and :overhang-last-fret set one
// value at each end, :overhang sets a single value.
func applyOverhangs(inst *instrument.Instrument, kw map[string]zygo.Sexp) error {
	all, hasAll := kw["overhangs"]
	single, hasSingle := kw["overhang"]
	nut, hasNut := kw["overhang-nut"]
	last, hasLast := kw["overhang-last-fret"]

	groups := 0
	for _, has := range []bool{hasAll, hasSingle, hasNut || hasLast} {
		if has {
			groups++
		}
	}
	if groups > 1 {
		return fmt.Errorf("use only one of :overhang, :overhangs or :overhang-nut/:overhang-last-fret")
	}

	switch {
	case hasAll:
		items, err := sexpListToSlice(all)
		if err != nil {
			return fmt.Errorf("overhangs: %w", err)
		}
		values := make([]float64, len(items))
		for i, item := range items {
			if values[i], err = toFloat64(item); err != nil {
				return fmt.Errorf("overhangs: entry %d: %w", i, err)
			}
		}
		return inst.SetOverhangs(instrument.OverhangAll, values...)

	case hasSingle:
		f, err := toFloat64(single)
		if err != nil {
			return fmt.Errorf("overhang: %w", err)
		}
		return inst.SetOverhangs(instrument.OverhangSingle, f)

	case hasNut || hasLast:
		n, l := inst.Overhangs[instrument.NutBass], inst.Overhangs[instrument.LastFretBass]
		var err error
		if hasNut {
			if n, err = toFloat64(nut); err != nil {
				return fmt.Errorf("overhang-nut: %w", err)
			}
		}
		if hasLast {
			if l, err = toFloat64(last); err != nil {
				return fmt.Errorf("overhang-last-fret: %w", err)
			}
		}
		return inst.SetOverhangs(instrument.OverhangNutAndLastFret, n, l)
	}
	return nil
}

// ---------------------------------------------------------------------------
// Builtin registration
// ---------------------------------------------------------------------------

// registerBuiltins installs the instrument builtins into a zygomys
// environment. Declared instruments are appended to decls.
//
// Source code must be preprocessed with preprocessSource() before evaluation
// so that :keyword tokens are recognizable.
func registerBuiltins(env *zygo.Zlisp, decls *declarations) {

	// -----------------------------------------------------------------------
	// (inch 25.5)
	// -----------------------------------------------------------------------
	env.AddFunction("inch", func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
		if len(args) != 1 {
			return zygo.SexpNull, fmt.Errorf("inch requires exactly 1 argument, got %d", len(args))
		}
		v, err := toFloat64(args[0])
		if err != nil {
			return zygo.SexpNull, fmt.Errorf("inch: %w", err)
		}
		return &zygo.SexpFloat{Val: instrument.MmFromInch(v)}, nil
	})

	// -----------------------------------------------------------------------
	// (preset "Telecaster")
	// -----------------------------------------------------------------------
	env.AddFunction("preset", func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
		if len(args) != 1 {
			return zygo.SexpNull, fmt.Errorf("preset requires a name argument")
		}
		presetName, err := toString(args[0])
		if err != nil {
			return zygo.SexpNull, fmt.Errorf("preset: name: %w", err)
		}
		inst, err := instrument.PresetByName(presetName)
		if err != nil {
			return zygo.SexpNull, fmt.Errorf("preset: %w", err)
		}
		return &sexpInstrument{name: presetName, inst: inst}, nil
	})

	// -----------------------------------------------------------------------
	// (instrument "Fanned 7" :base "Boden 7" :scale-bass (inch 27)
	//             :perpendicular-fret 8 :overhangs (list 3 3 4 4))
	// -----------------------------------------------------------------------
	env.AddFunction("instrument", func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
		pa := parseArgs(args)
		if len(pa.positional) != 1 {
			return zygo.SexpNull, fmt.Errorf("instrument requires exactly one name argument, got %d", len(pa.positional))
		}
		instName, err := toString(pa.positional[0])
		if err != nil {
			return zygo.SexpNull, fmt.Errorf("instrument: name: %w", err)
		}

		inst := instrument.DefaultInstrument()
		if v, ok := pa.kw["base"]; ok {
			if inst, err = toInstrument(v); err != nil {
				return zygo.SexpNull, fmt.Errorf("instrument %q: base: %w", instName, err)
			}
		}
		if err := applyKeywords(&inst, pa.kw); err != nil {
			return zygo.SexpNull, fmt.Errorf("instrument %q: %w", instName, err)
		}
		inst.Validate()
		if err := inst.Check().Err(); err != nil {
			return zygo.SexpNull, fmt.Errorf("instrument %q: %w", instName, err)
		}
		if err := decls.add(instName, inst); err != nil {
			return zygo.SexpNull, err
		}

		return &sexpInstrument{name: instName, inst: inst}, nil
	})
}
