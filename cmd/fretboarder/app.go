package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/chazu/fretboarder/pkg/engine"
	"github.com/chazu/fretboarder/pkg/export"
	"github.com/chazu/fretboarder/pkg/fretboard"
	"github.com/chazu/fretboarder/pkg/instrument"
	"github.com/chazu/fretboarder/pkg/kernel"
	"github.com/chazu/fretboarder/pkg/tessellate"
	"golang.org/x/sync/errgroup"
)

// App ties instrument sources to layout and export.
type App struct {
	engine *engine.Engine
	kernel kernel.Kernel
	log    *slog.Logger
}

// NewApp creates an App meshing with k.
func NewApp(k kernel.Kernel, log *slog.Logger) *App {
	return &App{
		engine: engine.NewEngine(),
		kernel: k,
		log:    log,
	}
}

// Source names where instruments come from. Exactly one of Preset, File
// and Script is set.
type Source struct {
	Preset string
	File   string
	Script string

	// MmFromCm scales instruments written in centimetres to millimetres.
	MmFromCm bool
}

var errNoSource = errors.New("choose one of -preset, -file or -script")

// Instruments loads the instruments named by src.
func (a *App) Instruments(src Source) ([]instrument.Preset, error) {
	set := 0
	for _, s := range []string{src.Preset, src.File, src.Script} {
		if s != "" {
			set++
		}
	}
	if set != 1 {
		return nil, errNoSource
	}

	var out []instrument.Preset
	switch {
	case src.Preset != "":
		inst, err := instrument.PresetByName(src.Preset)
		if err != nil {
			return nil, err
		}
		out = []instrument.Preset{{Name: src.Preset, Instrument: inst}}

	case src.File != "":
		inst, err := instrument.Load(src.File)
		if err != nil {
			return nil, err
		}
		name := strings.TrimSuffix(filepath.Base(src.File), filepath.Ext(src.File))
		out = []instrument.Preset{{Name: name, Instrument: inst}}

	case src.Script != "":
		body, err := os.ReadFile(src.Script)
		if err != nil {
			return nil, err
		}
		insts, evalErrs, err := a.engine.Evaluate(string(body))
		if err != nil {
			return nil, fmt.Errorf("%s: %w", src.Script, err)
		}
		if len(evalErrs) > 0 {
			for _, e := range evalErrs {
				a.log.Error("script error", "file", src.Script, "line", e.Line, "msg", e.Message)
			}
			return nil, fmt.Errorf("%s: %w", src.Script, evalErrs[0])
		}
		if len(insts) == 0 {
			return nil, fmt.Errorf("%s: script declares no instruments", src.Script)
		}
		out = insts
	}

	if src.MmFromCm {
		for i := range out {
			out[i].Instrument.Scale(10)
		}
	}
	return out, nil
}

// Build is one laid out instrument.
type Build struct {
	Name       string
	Instrument instrument.Instrument
	Fretboard  *fretboard.Fretboard
	Warnings   []instrument.ValidationError
}

// Build lays out p.
func (a *App) Build(p instrument.Preset) (*Build, error) {
	fb, err := fretboard.New(p.Instrument)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", p.Name, err)
	}
	b := &Build{
		Name:       p.Name,
		Instrument: p.Instrument,
		Fretboard:  fb,
		Warnings:   p.Instrument.Check().Warnings,
	}
	for _, w := range b.Warnings {
		a.log.Warn("instrument warning", "instrument", p.Name, "field", w.Field, "msg", w.Message)
	}
	return b, nil
}

// ExportOptions selects the files written for each instrument.
type ExportOptions struct {
	Dir  string
	DXF  bool
	JSON bool
	Mesh bool
}

func (o ExportOptions) selected() bool { return o.DXF || o.JSON || o.Mesh }

// slug turns an instrument name into a file name stem.
func slug(name string) string {
	var sb strings.Builder
	dash := false
	for _, r := range strings.ToLower(strings.TrimSpace(name)) {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9':
			sb.WriteRune(r)
			dash = false
		case !dash && sb.Len() > 0:
			sb.WriteByte('-')
			dash = true
		}
	}
	s := strings.TrimSuffix(sb.String(), "-")
	if s == "" {
		return "instrument"
	}
	return s
}

// checkStems rejects instruments whose file names would collide.
func checkStems(presets []instrument.Preset) error {
	seen := make(map[string]string, len(presets))
	for _, p := range presets {
		stem := slug(p.Name)
		if prev, ok := seen[stem]; ok {
			return fmt.Errorf("instruments %q and %q would both be written as %q", prev, p.Name, stem)
		}
		seen[stem] = p.Name
	}
	return nil
}

// Export writes the files selected by opts for b and returns their paths.
func (a *App) Export(ctx context.Context, b *Build, opts ExportOptions) ([]string, error) {
	stem := filepath.Join(opts.Dir, slug(b.Name))
	layout := b.Fretboard.Layout()
	var written []string

	if opts.DXF {
		path := stem + ".dxf"
		if err := export.WriteDXF(path, layout, export.OptionsFor(b.Instrument)); err != nil {
			return written, err
		}
		written = append(written, path)
	}

	if opts.JSON {
		path := stem + ".layout.json"
		if err := writeFile(path, func(f *os.File) error { return export.WriteLayoutJSON(f, layout) }); err != nil {
			return written, err
		}
		written = append(written, path)
	}

	if opts.Mesh {
		if err := ctx.Err(); err != nil {
			return written, err
		}
		meshes, err := tessellate.Tessellate(b.Fretboard, b.Instrument, a.kernel)
		if err != nil {
			return written, fmt.Errorf("%s: %w", b.Name, err)
		}
		for _, m := range meshes {
			path := stem + "." + m.PartName + ".stl"
			if err := export.WriteSTL(path, m); err != nil {
				return written, err
			}
			written = append(written, path)
		}
		path := stem + ".meshes.json"
		doc := export.NewMeshDocument(b.Name, meshes)
		if err := writeFile(path, func(f *os.File) error { return export.WriteMeshJSON(f, doc) }); err != nil {
			return written, err
		}
		written = append(written, path)
	}

	a.log.Info("exported", "instrument", b.Name, "files", len(written))
	return written, nil
}

// ExportAll builds and exports every preset, at most limit at a time.
func (a *App) ExportAll(ctx context.Context, presets []instrument.Preset, opts ExportOptions, limit int) ([][]string, error) {
	if err := checkStems(presets); err != nil {
		return nil, err
	}
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(max(1, limit))

	results := make([][]string, len(presets))
	for i, p := range presets {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			b, err := a.Build(p)
			if err != nil {
				return err
			}
			results[i], err = a.Export(ctx, b, opts)
			return err
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}

func writeFile(path string, write func(*os.File) error) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := write(f); err != nil {
		f.Close()
		return fmt.Errorf("write %s: %w", path, err)
	}
	return f.Close()
}
