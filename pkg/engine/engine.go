// Package engine evaluates instrument scripts. It wraps zygomys in a
// sandboxed environment and collects the instruments a script declares.
package engine

import (
	"errors"
	"fmt"
	"os"
	"regexp"
	"strconv"
	"strings"
	"sync"

	"github.com/chazu/fretboarder/pkg/instrument"
	zygo "github.com/glycerine/zygomys/zygo"
)

// ErrScript is wrapped by Evaluate and EvaluateFile when the script itself
// fails to parse or run.
var ErrScript = errors.New("engine: script failed")

// EvalError represents a non-fatal error encountered during evaluation,
// such as a parse error or a runtime error in user code.
type EvalError struct {
	Line    int
	Col     int
	Message string
}

func (e EvalError) Error() string {
	if e.Line > 0 {
		return fmt.Sprintf("line %d: %s", e.Line, e.Message)
	}
	return e.Message
}

// Engine wraps the zygomys interpreter. It is safe for concurrent use; each
// call to Evaluate creates a fresh sandboxed environment for determinism.
type Engine struct {
	mu         sync.Mutex
	generation uint64
}

// NewEngine creates a new Engine instance.
func NewEngine() *Engine {
	return &Engine{}
}

// Evaluate runs source and returns the instruments it declares, in
// declaration order.
//
// Return semantics:
//   - On success: returns instruments + nil errors + nil error
//   - On parse/eval failure: returns nil + eval errors + nil error
//   - On fatal failure (timeout, panic, superseded): returns nil + nil + error
func (e *Engine) Evaluate(source string) ([]instrument.Preset, []EvalError, error) {
	e.mu.Lock()
	e.generation++
	gen := e.generation
	e.mu.Unlock()

	ch := make(chan evalResult, 1)

	go func() {
		defer func() {
			if r := recover(); r != nil {
				ch <- evalResult{err: fmt.Errorf("panic during evaluation: %v", r)}
			}
		}()

		insts, evalErrs, err := e.evaluate(source)
		ch <- evalResult{instruments: insts, errors: evalErrs, err: err}
	}()

	return waitWithTimeout(ch, gen, &e.mu, &e.generation)
}

// evaluate performs the actual zygomys evaluation in a fresh sandbox.
func (e *Engine) evaluate(source string) ([]instrument.Preset, []EvalError, error) {
	// An empty program declares nothing.
	if strings.TrimSpace(source) == "" {
		return []instrument.Preset{}, nil, nil
	}

	// Sandbox mode keeps scripts away from the filesystem and syscalls.
	env := zygo.NewZlispSandbox()
	defer env.Stop()

	decls := &declarations{}
	registerBuiltins(env, decls)

	if err := env.LoadString(preprocessSource(source)); err != nil {
		return nil, parseZygomysError(err), nil
	}
	if _, err := env.Run(); err != nil {
		return nil, parseZygomysError(err), nil
	}

	return decls.presets(), nil, nil
}

// Evaluate runs source on a fresh Engine and folds script errors into a
// single error wrapping ErrScript.
func Evaluate(source string) ([]instrument.Preset, error) {
	insts, evalErrs, err := NewEngine().Evaluate(source)
	if err != nil {
		return nil, err
	}
	if len(evalErrs) > 0 {
		errs := make([]error, len(evalErrs))
		for i, ee := range evalErrs {
			errs[i] = ee
		}
		return nil, fmt.Errorf("%w: %w", ErrScript, errors.Join(errs...))
	}
	return insts, nil
}

// EvaluateFile reads and evaluates the script at path.
func EvaluateFile(path string) ([]instrument.Preset, error) {
	src, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	insts, err := Evaluate(string(src))
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return insts, nil
}

// linePattern matches zygomys error messages that include "Error on line N: ..."
var linePattern = regexp.MustCompile(`(?i)(?:error )?on line (\d+):\s*(.*)`)

// linePatternShort matches simpler "line N: ..." patterns.
var linePatternShort = regexp.MustCompile(`(?i)^line (\d+):\s*(.*)`)

// parseZygomysError converts a zygomys error into one or more EvalError
// values, extracting the line number when the message carries one.
func parseZygomysError(err error) []EvalError {
	msg := err.Error()

	for _, re := range []*regexp.Regexp{linePattern, linePatternShort} {
		if m := re.FindStringSubmatch(msg); m != nil {
			line, _ := strconv.Atoi(m[1])
			return []EvalError{{Line: line, Message: strings.TrimSpace(m[2])}}
		}
	}

	return []EvalError{{Message: strings.TrimSpace(msg)}}
}
