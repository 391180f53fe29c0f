// Command fretboarder lays out fretboards and exports drawings, layout
// documents and preview meshes.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"runtime"
	"syscall"

	"github.com/chazu/fretboarder/pkg/fretboard"
	"github.com/chazu/fretboarder/pkg/instrument"
	"github.com/chazu/fretboarder/pkg/kernel"
	"github.com/chazu/fretboarder/pkg/kernel/manifold"
	"github.com/chazu/fretboarder/pkg/kernel/sdfx"
)

const usage = `fretboarder - parametric fretboard layout

Usage:
  fretboarder presets
  fretboarder layout     (-preset NAME | -file F.json | -script F.lisp) [options]
  fretboarder export     (-preset NAME | -file F.json | -script F.lisp) -out DIR [-dxf] [-json] [-mesh]
  fretboarder export-all -out DIR [-dxf] [-json] [-mesh] [-jobs N]
  fretboarder save       -preset NAME -o F.json

Meshes are built with sdfx unless -kernel manifold is given, which needs a
binary built with -tags=manifold.

Run "fretboarder <command> -h" for the options of a command.
`

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	os.Exit(run(ctx, os.Args[1:], os.Stdout, os.Stderr))
}

// common holds the flags every command shares.
type common struct {
	verbose bool
	cells   int
	kernel  string
}

func (c *common) register(fs *flag.FlagSet) {
	fs.BoolVar(&c.verbose, "verbose", false, "Show debug output")
	fs.IntVar(&c.cells, "cells", sdfx.DefaultMeshCells, "Marching cubes resolution for meshes")
	fs.StringVar(&c.kernel, "kernel", "sdfx", "Solid modeler for meshes: sdfx or manifold")
}

func (c *common) app(stderr io.Writer) (*App, error) {
	level := slog.LevelWarn
	if c.verbose {
		level = slog.LevelDebug
	}
	log := slog.New(slog.NewTextHandler(stderr, &slog.HandlerOptions{Level: level}))
	fretboard.SetLogger(log)

	var k kernel.Kernel
	switch c.kernel {
	case "sdfx":
		k = sdfx.NewWithCells(c.cells)
	case "manifold":
		var err error
		if k, err = manifold.New(); err != nil {
			return nil, err
		}
	default:
		return nil, fmt.Errorf("unknown kernel %q", c.kernel)
	}
	return NewApp(k, log), nil
}

func (s *Source) register(fs *flag.FlagSet) {
	fs.StringVar(&s.Preset, "preset", "", "Catalog instrument name")
	fs.StringVar(&s.File, "file", "", "Instrument JSON document")
	fs.StringVar(&s.Script, "script", "", "Instrument script")
	fs.BoolVar(&s.MmFromCm, "mm-from-cm", false, "Scale an instrument written in centimetres to millimetres")
}

func (o *ExportOptions) register(fs *flag.FlagSet) {
	fs.StringVar(&o.Dir, "out", "", "Output directory")
	fs.BoolVar(&o.DXF, "dxf", false, "Write a DXF drawing")
	fs.BoolVar(&o.JSON, "json", false, "Write the layout as JSON")
	fs.BoolVar(&o.Mesh, "mesh", false, "Write STL meshes and a mesh JSON document")
}

// run executes one command and returns the process exit code.
func run(ctx context.Context, args []string, stdout, stderr io.Writer) int {
	if len(args) == 0 {
		fmt.Fprint(stderr, usage)
		return 2
	}

	cmd, rest := args[0], args[1:]
	fs := flag.NewFlagSet(cmd, flag.ContinueOnError)
	fs.SetOutput(stderr)

	var c common
	c.register(fs)

	var err error
	switch cmd {
	case "presets":
		if err = fs.Parse(rest); err == nil {
			fmt.Fprint(stdout, renderPresets(instrument.Presets()))
		}

	case "layout":
		var src Source
		src.register(fs)
		if err = fs.Parse(rest); err == nil {
			err = withApp(c, stderr, func(app *App) error {
				return runLayout(app, src, stdout)
			})
		}

	case "export":
		var src Source
		var opts ExportOptions
		src.register(fs)
		opts.register(fs)
		if err = fs.Parse(rest); err == nil {
			err = withApp(c, stderr, func(app *App) error {
				return runExport(ctx, app, src, opts, stdout)
			})
		}

	case "export-all":
		var opts ExportOptions
		opts.register(fs)
		jobs := fs.Int("jobs", runtime.NumCPU(), "Instruments exported at once")
		if err = fs.Parse(rest); err == nil {
			err = withApp(c, stderr, func(app *App) error {
				return runExportAll(ctx, app, opts, *jobs, stdout)
			})
		}

	case "save":
		preset := fs.String("preset", "", "Catalog instrument name")
		out := fs.String("o", "", "Output JSON document")
		if err = fs.Parse(rest); err == nil {
			err = runSave(*preset, *out, stdout)
		}

	case "-h", "-help", "--help", "help":
		fmt.Fprint(stdout, usage)
		return 0

	default:
		fmt.Fprintf(stderr, "unknown command %q\n\n%s", cmd, usage)
		return 2
	}

	switch {
	case err == nil:
		return 0
	case errors.Is(err, flag.ErrHelp):
		return 0
	case errors.Is(err, context.Canceled):
		fmt.Fprintln(stderr, "Interrupted.")
		return 130
	default:
		fmt.Fprintf(stderr, "Error: %v\n", err)
		return 1
	}
}

func withApp(c common, stderr io.Writer, fn func(*App) error) error {
	app, err := c.app(stderr)
	if err != nil {
		return err
	}
	return fn(app)
}

func runLayout(app *App, src Source, stdout io.Writer) error {
	presets, err := app.Instruments(src)
	if err != nil {
		return err
	}
	for _, p := range presets {
		b, err := app.Build(p)
		if err != nil {
			return err
		}
		fmt.Fprintln(stdout, renderLayout(b))
	}
	return nil
}

func checkExport(opts ExportOptions) error {
	if opts.Dir == "" {
		return errors.New("-out is required")
	}
	if !opts.selected() {
		return errors.New("choose at least one of -dxf, -json or -mesh")
	}
	return os.MkdirAll(opts.Dir, 0o755)
}

func runExport(ctx context.Context, app *App, src Source, opts ExportOptions, stdout io.Writer) error {
	if err := checkExport(opts); err != nil {
		return err
	}
	presets, err := app.Instruments(src)
	if err != nil {
		return err
	}
	if err := checkStems(presets); err != nil {
		return err
	}
	for _, p := range presets {
		b, err := app.Build(p)
		if err != nil {
			return err
		}
		paths, err := app.Export(ctx, b, opts)
		if err != nil {
			return err
		}
		fmt.Fprint(stdout, renderWritten(b.Name, paths))
	}
	return nil
}

func runExportAll(ctx context.Context, app *App, opts ExportOptions, jobs int, stdout io.Writer) error {
	if err := checkExport(opts); err != nil {
		return err
	}
	presets := instrument.Presets()
	results, err := app.ExportAll(ctx, presets, opts, jobs)
	if err != nil {
		return err
	}
	for i, p := range presets {
		fmt.Fprint(stdout, renderWritten(p.Name, results[i]))
	}
	return nil
}

func runSave(preset, out string, stdout io.Writer) error {
	if preset == "" || out == "" {
		return errors.New("-preset and -o are required")
	}
	inst, err := instrument.PresetByName(preset)
	if err != nil {
		return err
	}
	if err := instrument.Save(out, inst); err != nil {
		return err
	}
	fmt.Fprint(stdout, successStyle.Render("Saved "+preset+" to "+out))
	fmt.Fprintln(stdout)
	return nil
}
