package instrument

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
)

// DocumentVersion is the version written by Encode and Save.
const DocumentVersion = 2

var (
	// ErrMissingField is returned when a required key is absent.
	ErrMissingField = errors.New("instrument: missing required field")

	// ErrUnsupportedVersion is returned for documents newer than this package.
	ErrUnsupportedVersion = errors.New("instrument: unsupported document version")

	// ErrMalformedField is returned when a key holds the wrong number of values.
	ErrMalformedField = errors.New("instrument: malformed field")
)

// fixedArrays are the array keys and their required lengths. Decoding into
// Go arrays would zero-fill short ones and drop extra values.
var fixedArrays = []struct {
	key string
	n   int
}{
	{"scale_length", 2},
	{"overhangs", 4},
}

// requiredFields must be present once a document has been upgraded to the
// current version. right_handed and number_of_frets_per_octave predate
// nothing and default to true and 12.
var requiredFields = []string{
	"number_of_strings",
	"scale_length",
	"perpendicular_fret_index",
	"inter_string_spacing_at_nut",
	"inter_string_spacing_at_bridge",
	"has_zero_fret",
	"nut_to_zero_fret_offset",
	"number_of_frets",
	"overhang_type",
	"overhangs",
	"hidden_tang_length",
	"draw_strings",
	"draw_frets",
	"fret_slots_width",
	"fret_slots_height",
	"fret_crown_width",
	"fret_crown_height",
	"last_fret_cut_offset",
	"carve_nut_slot",
	"space_before_nut",
	"nut_thickness",
	"nut_height_under",
	"radius_at_nut",
	"radius_at_last_fret",
	"fretboard_thickness",
}

// document is the raw key/value form a file is upgraded in.
type document map[string]json.RawMessage

// upgrade turns a version N document into version N+1.
type upgrade func(document) (document, error)

// upgrades is indexed by the version they upgrade from.
var upgrades = map[int]upgrade{
	1: upgradeV1,
}

// versionedInstrument is the on-disk shape written by Encode.
type versionedInstrument struct {
	Version int `json:"version"`
	Instrument
}

// Encode writes inst as an indented current-version document.
func Encode(w io.Writer, inst Instrument) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(versionedInstrument{Version: DocumentVersion, Instrument: inst}); err != nil {
		return fmt.Errorf("instrument: encode: %w", err)
	}
	return nil
}

// Decode reads a document of any supported version, upgrades it, and
// returns the validated instrument. Nothing is returned on error.
func Decode(r io.Reader) (Instrument, error) {
	var doc document
	if err := json.NewDecoder(r).Decode(&doc); err != nil {
		return Instrument{}, fmt.Errorf("instrument: decode: %w", err)
	}
	if doc == nil {
		return Instrument{}, fmt.Errorf("instrument: decode: document is not an object")
	}

	version, err := documentVersion(doc)
	if err != nil {
		return Instrument{}, err
	}
	if version > DocumentVersion {
		return Instrument{}, fmt.Errorf("%w: %d", ErrUnsupportedVersion, version)
	}
	for version < DocumentVersion {
		up, ok := upgrades[version]
		if !ok {
			return Instrument{}, fmt.Errorf("%w: %d", ErrUnsupportedVersion, version)
		}
		if doc, err = up(doc); err != nil {
			return Instrument{}, fmt.Errorf("instrument: upgrade from version %d: %w", version, err)
		}
		version++
	}

	for _, key := range requiredFields {
		if _, ok := doc[key]; !ok {
			return Instrument{}, fmt.Errorf("%w: %q", ErrMissingField, key)
		}
	}
	for _, a := range fixedArrays {
		var values []float64
		if err := json.Unmarshal(doc[a.key], &values); err != nil {
			return Instrument{}, fmt.Errorf("%w: %q: %w", ErrMalformedField, a.key, err)
		}
		if len(values) != a.n {
			return Instrument{}, fmt.Errorf("%w: %q has %d values, want %d", ErrMalformedField, a.key, len(values), a.n)
		}
	}

	raw, err := json.Marshal(doc)
	if err != nil {
		return Instrument{}, fmt.Errorf("instrument: decode: %w", err)
	}
	inst := Instrument{
		RightHanded:            true,
		NumberOfFretsPerOctave: DefaultFretsPerOctave,
	}
	if err := json.Unmarshal(raw, &inst); err != nil {
		return Instrument{}, fmt.Errorf("instrument: decode: %w", err)
	}
	inst.Validate()
	return inst, nil
}

// Load reads and decodes the document at path.
func Load(path string) (Instrument, error) {
	f, err := os.Open(path)
	if err != nil {
		return Instrument{}, fmt.Errorf("instrument: load: %w", err)
	}
	defer f.Close()
	inst, err := Decode(f)
	if err != nil {
		return Instrument{}, fmt.Errorf("%s: %w", path, err)
	}
	return inst, nil
}

// Save writes inst to path as a current-version document.
func Save(path string, inst Instrument) error {
	var buf bytes.Buffer
	if err := Encode(&buf, inst); err != nil {
		return err
	}
	if err := os.WriteFile(path, buf.Bytes(), 0o644); err != nil {
		return fmt.Errorf("instrument: save: %w", err)
	}
	return nil
}

// documentVersion reads the "version" key. Unversioned documents are
// version 2 when they carry "overhangs" and version 1 otherwise.
func documentVersion(doc document) (int, error) {
	raw, ok := doc["version"]
	if !ok {
		if _, modern := doc["overhangs"]; modern {
			return 2, nil
		}
		return 1, nil
	}
	var v int
	if err := json.Unmarshal(raw, &v); err != nil {
		return 0, fmt.Errorf("instrument: version: %w", err)
	}
	if v < 1 {
		return 0, fmt.Errorf("%w: %d", ErrUnsupportedVersion, v)
	}
	return v, nil
}

// upgradeV1 broadcasts the legacy single "overhang" to all four overhangs.
func upgradeV1(doc document) (document, error) {
	raw, ok := doc["overhang"]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrMissingField, "overhang")
	}
	var overhang float64
	if err := json.Unmarshal(raw, &overhang); err != nil {
		return nil, fmt.Errorf("overhang: %w", err)
	}

	overhangs, err := json.Marshal([4]float64{overhang, overhang, overhang, overhang})
	if err != nil {
		return nil, err
	}
	kind, err := json.Marshal(OverhangSingle)
	if err != nil {
		return nil, err
	}

	out := make(document, len(doc)+1)
	for k, v := range doc {
		out[k] = v
	}
	delete(out, "overhang")
	out["overhangs"] = overhangs
	out["overhang_type"] = kind
	out["version"] = json.RawMessage("2")
	return out, nil
}
