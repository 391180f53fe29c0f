package main

import (
	"bytes"
	"context"
	"errors"
	"io"
	"log/slog"
	"math"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/chazu/fretboarder/pkg/instrument"
	"github.com/chazu/fretboarder/pkg/kernel/sdfx"
)

const exampleScript = "../../examples/multiscale.lisp"

func quietApp() *App {
	return NewApp(sdfx.NewWithCells(40), slog.New(slog.NewTextHandler(io.Discard, nil)))
}

// TestE2EScriptExport exercises the full pipeline: script -> engine ->
// instruments -> fretboards -> drawings, layouts and meshes.
func TestE2EScriptExport(t *testing.T) {
	app := quietApp()

	presets, err := app.Instruments(Source{Script: exampleScript})
	if err != nil {
		t.Fatalf("Instruments failed: %v", err)
	}
	if len(presets) != 3 {
		t.Fatalf("expected 3 instruments, got %d", len(presets))
	}
	wantNames := []string{"Fanned 7", "Fanned 8", "Travel"}
	for i, p := range presets {
		if p.Name != wantNames[i] {
			t.Errorf("instrument %d is %q, want %q", i, p.Name, wantNames[i])
		}
	}
	if presets[2].Instrument.RightHanded {
		t.Error("Travel should be left handed")
	}

	dir := t.TempDir()
	opts := ExportOptions{Dir: dir, DXF: true, JSON: true}
	for _, p := range presets {
		b, err := app.Build(p)
		if err != nil {
			t.Fatalf("Build(%s) failed: %v", p.Name, err)
		}
		paths, err := app.Export(context.Background(), b, opts)
		if err != nil {
			t.Fatalf("Export(%s) failed: %v", p.Name, err)
		}
		if len(paths) != 2 {
			t.Errorf("%s: expected 2 files, got %v", p.Name, paths)
		}
	}

	for _, name := range []string{"fanned-7.dxf", "fanned-7.layout.json", "fanned-8.dxf", "travel.layout.json"} {
		info, err := os.Stat(filepath.Join(dir, name))
		if err != nil {
			t.Errorf("missing %s: %v", name, err)
			continue
		}
		if info.Size() == 0 {
			t.Errorf("%s is empty", name)
		}
	}
}

func TestE2EMeshExport(t *testing.T) {
	if testing.Short() {
		t.Skip("marching cubes in short mode")
	}
	// Fine enough to resolve the 3 mm fret crowns.
	app := NewApp(sdfx.NewWithCells(300), slog.New(slog.NewTextHandler(io.Discard, nil)))
	presets, err := app.Instruments(Source{Preset: "Telecaster"})
	if err != nil {
		t.Fatal(err)
	}
	b, err := app.Build(presets[0])
	if err != nil {
		t.Fatal(err)
	}

	dir := t.TempDir()
	paths, err := app.Export(context.Background(), b, ExportOptions{Dir: dir, Mesh: true})
	if err != nil {
		t.Fatalf("Export failed: %v", err)
	}
	want := []string{"telecaster.fretboard.stl", "telecaster.frets.stl", "telecaster.meshes.json"}
	if len(paths) != len(want) {
		t.Fatalf("expected %v, got %v", want, paths)
	}
	for i, p := range paths {
		if filepath.Base(p) != want[i] {
			t.Errorf("file %d is %s, want %s", i, filepath.Base(p), want[i])
		}
	}

	data, err := os.ReadFile(filepath.Join(dir, "telecaster.meshes.json"))
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(string(data), `"partName":"fretboard"`) {
		t.Error("mesh document should name the fretboard part")
	}
}

func TestE2EScriptError(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "broken.lisp")
	if err := os.WriteFile(path, []byte(`(instrument "A" :strings 0)`), 0o644); err != nil {
		t.Fatal(err)
	}

	_, err := quietApp().Instruments(Source{Script: path})
	if err == nil {
		t.Fatal("expected an error from an invalid script")
	}
	if !strings.Contains(err.Error(), "broken.lisp") {
		t.Errorf("error should name the script, got: %v", err)
	}
}

func TestE2EEmptyScript(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "empty.lisp")
	if err := os.WriteFile(path, []byte(";; nothing here\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := quietApp().Instruments(Source{Script: path}); err == nil {
		t.Fatal("expected an error for a script without instruments")
	}
}

func TestInstrumentsSourceChoice(t *testing.T) {
	app := quietApp()
	for _, src := range []Source{
		{},
		{Preset: "Telecaster", File: "x.json"},
		{Preset: "Telecaster", Script: exampleScript},
	} {
		if _, err := app.Instruments(src); !errors.Is(err, errNoSource) {
			t.Errorf("Instruments(%+v) = %v, want errNoSource", src, err)
		}
	}
	if _, err := app.Instruments(Source{Preset: "Banjo"}); !errors.Is(err, instrument.ErrUnknownPreset) {
		t.Errorf("expected ErrUnknownPreset, got %v", err)
	}
}

func TestInstrumentsMmFromCm(t *testing.T) {
	want, err := instrument.PresetByName("Stratocaster")
	if err != nil {
		t.Fatal(err)
	}
	inCm := want
	inCm.Scale(0.1)

	path := filepath.Join(t.TempDir(), "strat-cm.json")
	if err := instrument.Save(path, inCm); err != nil {
		t.Fatal(err)
	}

	presets, err := quietApp().Instruments(Source{File: path, MmFromCm: true})
	if err != nil {
		t.Fatalf("Instruments failed: %v", err)
	}
	if presets[0].Name != "strat-cm" {
		t.Errorf("name = %q, want strat-cm", presets[0].Name)
	}
	got := presets[0].Instrument
	if math.Abs(got.ScaleLength[instrument.Bass]-want.ScaleLength[instrument.Bass]) > 1e-9 {
		t.Errorf("bass scale = %f, want %f", got.ScaleLength[instrument.Bass], want.ScaleLength[instrument.Bass])
	}
	if math.Abs(got.FretboardThickness-want.FretboardThickness) > 1e-9 {
		t.Errorf("thickness = %f, want %f", got.FretboardThickness, want.FretboardThickness)
	}
}

func TestExportAllCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := quietApp().ExportAll(ctx, instrument.Presets(), ExportOptions{Dir: t.TempDir(), DXF: true}, 2)
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
}

func TestSlug(t *testing.T) {
	tests := map[string]string{
		"Telecaster":    "telecaster",
		"Boden Bass 5":  "boden-bass-5",
		"  Les  Paul  ": "les-paul",
		"Fanned 7/8!":   "fanned-7-8",
		"???":           "instrument",
	}
	for in, want := range tests {
		if got := slug(in); got != want {
			t.Errorf("slug(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestCheckStems(t *testing.T) {
	ok := []instrument.Preset{{Name: "Fanned 7"}, {Name: "Fanned 8"}}
	if err := checkStems(ok); err != nil {
		t.Fatalf("checkStems(distinct) = %v", err)
	}
	clash := []instrument.Preset{{Name: "Fanned 7"}, {Name: "fanned-7"}}
	err := checkStems(clash)
	if err == nil || !strings.Contains(err.Error(), "fanned-7") {
		t.Fatalf("checkStems(clash) = %v, want a fanned-7 collision", err)
	}
}

func TestRunExportCollidingNames(t *testing.T) {
	dir := t.TempDir()
	script := filepath.Join(dir, "clash.lisp")
	src := "(instrument \"Fanned 7\")\n(instrument \"fanned-7\" :frets 24)\n"
	if err := os.WriteFile(script, []byte(src), 0o644); err != nil {
		t.Fatal(err)
	}
	out := filepath.Join(dir, "out")

	code, _, stderr := runCmd(t, "export", "-script", script, "-out", out, "-dxf")
	if code != 1 {
		t.Fatalf("exit code %d, want 1", code)
	}
	if !strings.Contains(stderr, "fanned-7") {
		t.Errorf("stderr should name the colliding stem:\n%s", stderr)
	}
	entries, err := os.ReadDir(out)
	if err != nil {
		t.Fatal(err)
	}
	if len(entries) != 0 {
		t.Errorf("nothing should be written, got %d files", len(entries))
	}
}

// ---------------------------------------------------------------------------
// Command line
// ---------------------------------------------------------------------------

func runCmd(t *testing.T, args ...string) (code int, stdout, stderr string) {
	t.Helper()
	var out, errb bytes.Buffer
	code = run(context.Background(), args, &out, &errb)
	return code, out.String(), errb.String()
}

func TestRunPresets(t *testing.T) {
	code, out, _ := runCmd(t, "presets")
	if code != 0 {
		t.Fatalf("exit code %d", code)
	}
	for _, p := range instrument.Presets() {
		if !strings.Contains(out, p.Name) {
			t.Errorf("output should list %q", p.Name)
		}
	}
}

func TestRunLayout(t *testing.T) {
	code, out, stderr := runCmd(t, "layout", "-preset", "Boden 6")
	if code != 0 {
		t.Fatalf("exit code %d: %s", code, stderr)
	}
	for _, want := range []string{"Boden 6", "Heel", "12th fret", "Width at nut", "Fret slots"} {
		if !strings.Contains(out, want) {
			t.Errorf("layout output should contain %q", want)
		}
	}
}

func TestRunExportAll(t *testing.T) {
	dir := t.TempDir()
	code, out, stderr := runCmd(t, "export-all", "-out", dir, "-dxf", "-json", "-jobs", "3")
	if code != 0 {
		t.Fatalf("exit code %d: %s", code, stderr)
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		t.Fatal(err)
	}
	if want := 2 * len(instrument.Presets()); len(entries) != want {
		t.Errorf("expected %d files, got %d", want, len(entries))
	}
	if !strings.Contains(out, "Boden bass 5 strings: 2 files") {
		t.Errorf("unexpected output:\n%s", out)
	}
}

func TestRunSave(t *testing.T) {
	path := filepath.Join(t.TempDir(), "jazz.json")
	code, _, stderr := runCmd(t, "save", "-preset", "Jazz Bass", "-o", path)
	if code != 0 {
		t.Fatalf("exit code %d: %s", code, stderr)
	}

	got, err := instrument.Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	want, _ := instrument.PresetByName("Jazz Bass")
	if got != want {
		t.Errorf("saved instrument differs from the preset")
	}
}

func TestRunErrors(t *testing.T) {
	tests := []struct {
		name string
		args []string
		code int
	}{
		{"no command", nil, 2},
		{"unknown command", []string{"frobnicate"}, 2},
		{"bad flag", []string{"layout", "-nope"}, 1},
		{"no source", []string{"layout"}, 1},
		{"unknown preset", []string{"layout", "-preset", "Banjo"}, 1},
		{"export without out", []string{"export", "-preset", "Telecaster", "-dxf"}, 1},
		{"export without format", []string{"export", "-preset", "Telecaster", "-out", "x"}, 1},
		{"save without output", []string{"save", "-preset", "Telecaster"}, 1},
		{"unknown kernel", []string{"layout", "-preset", "Telecaster", "-kernel", "cgal"}, 1},
		{"help", []string{"help"}, 0},
		{"command help", []string{"layout", "-h"}, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			code, _, _ := runCmd(t, tt.args...)
			if code != tt.code {
				t.Errorf("exit code %d, want %d", code, tt.code)
			}
		})
	}
}
