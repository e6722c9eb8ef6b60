package symexec

import (
	"fmt"
	"io"

	"github.com/aclements/go-z3/z3"
	"gopkg.in/yaml.v3"

	"decafsym/ir"
)

// Failure reports one decaf_assert that was found satisfiable when negated
// on some path — i.e. a concrete input exists that violates the asserted
// condition. Model holds one counterexample binding per function parameter,
// keyed by parameter name.
type Failure struct {
	Function string
	Model    map[string]string
	Path     []string
}

// FailureSink receives every failure discovered during a run. Reporting is
// decoupled from execution the same way the teacher separates solving from
// its result formatting, so a caller driving the interpreter as a library
// can substitute its own sink instead of the CLI's.
type FailureSink interface {
	Report(Failure)
}

// CollectingFailureSink accumulates failures in memory; used by tests and by
// callers that want the full list before deciding how to present it.
type CollectingFailureSink struct {
	Failures []Failure
}

func (s *CollectingFailureSink) Report(f Failure) { s.Failures = append(s.Failures, f) }

// PrintingFailureSink writes each failure to Out as it's found. With YAML
// set, failures render as YAML documents (one per failure, "---"-separated)
// instead of the terse single-line form — the same choice of a structured
// diagnostic dump the teacher's mocks lean on gopkg.in/yaml.v3 for.
type PrintingFailureSink struct {
	Out  io.Writer
	YAML bool
}

func (s *PrintingFailureSink) Report(f Failure) {
	if s.YAML {
		fmt.Fprintln(s.Out, "---")
		enc := yaml.NewEncoder(s.Out)
		defer enc.Close()
		if err := enc.Encode(f); err != nil {
			fmt.Fprintf(s.Out, "# failed to encode failure: %s\n", err)
		}
		return
	}
	fmt.Fprintf(s.Out, "assertion failed in %s: %v\n", f.Function, f.Model)
}

// modelToFailure extracts a Failure from a satisfying model: one entry per
// parameter of fn, read back from the frame's bindings and evaluated
// against m. Bitvector values are rendered as signed decimal integers.
func modelToFailure(m *z3.Model, frame *StackFrame, fn *ir.Function, path []string) (Failure, error) {
	bindings := make(map[string]string, len(fn.Params))
	for _, p := range fn.Params {
		e, err := frame.Lookup(p)
		if err != nil {
			return Failure{}, err
		}
		v := m.Eval(e, true)
		if bv, ok := v.(z3.BV); ok {
			if n, isLit := bv.AsBigSigned(); isLit {
				bindings[p.Name()] = n.String()
				continue
			}
		}
		bindings[p.Name()] = fmt.Sprint(v)
	}
	return Failure{Function: fn.Name(), Model: bindings, Path: path}, nil
}
