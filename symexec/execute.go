package symexec

import (
	"github.com/aclements/go-z3/z3"

	"decafsym/ir"
)

// Options configures one ExecuteSymbolic run.
type Options struct {
	// NewWorklist builds the worklist used to order path exploration.
	// Defaults to DFS (NewDFSWorklist) when nil.
	NewWorklist func() Worklist
	// Sink receives every decaf_assert failure found. Defaults to a
	// CollectingFailureSink when nil, whose accumulated Failures are
	// returned as Options.Sink's dynamic type after Run — callers that
	// want streaming output should supply their own PrintingFailureSink.
	Sink FailureSink
}

// ExecuteSymbolic runs the symbolic executor over fn: it constructs the
// initial Context with fresh symbolic parameters, drives the Interpreter's
// worklist to completion, and returns the FailureSink that received every
// discovered decaf_assert violation. This is the single entry point package
// symexec exposes to command-line and library callers alike, mirroring the
// teacher's dynamic.go top-level driver function.
func ExecuteSymbolic(zctx *z3.Context, fn *ir.Function, opts Options) (FailureSink, error) {
	newWorklist := opts.NewWorklist
	if newWorklist == nil {
		newWorklist = func() Worklist { return NewDFSWorklist() }
	}
	sink := opts.Sink
	if sink == nil {
		sink = &CollectingFailureSink{}
	}

	ctx, err := NewContext(zctx, fn)
	if err != nil {
		return nil, err
	}

	interp := NewInterpreter(zctx, newWorklist(), sink)
	if err := interp.Run(ctx); err != nil {
		return nil, err
	}
	return sink, nil
}
