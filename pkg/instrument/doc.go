// Package instrument holds the parameter record a fretboard is laid out
// from, its validation and unit scaling, its JSON document form and the
// catalog of well-known presets.
//
// All lengths are unit agnostic. Presets and DefaultInstrument are given in
// millimetres; Scale is the only place a unit conversion happens.
//
// # Persistence
//
// Save always writes the current document version. Load accepts the
// current version and the legacy form that stored a single "overhang"
// scalar; the legacy form is upgraded by an explicit adapter before the
// document is decoded. Every loaded instrument is validated.
//
//	inst, err := instrument.Load("tele.json")
//	if errors.Is(err, instrument.ErrMissingField) {
//	    // the document lacks a required key
//	}
package instrument
