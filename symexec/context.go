package symexec

import (
	"fmt"

	"github.com/aclements/go-z3/z3"
	"github.com/benbjohnson/immutable"

	"decafsym/ir"
	"decafsym/smt"
)

// Result is the outcome of a solver satisfiability query. Unknown is treated
// as Sat everywhere in this package (SPEC_FULL.md §4.F): a solver that can't
// decide feasibility is explored rather than pruned, trading a possible
// false-positive path for never missing a real one.
type Result int

const (
	Unsat Result = iota
	Sat
	Unknown
)

func (r Result) String() string {
	switch r {
	case Sat:
		return "sat"
	case Unsat:
		return "unsat"
	default:
		return "unknown"
	}
}

func resultFromCheck(sat bool, err error) Result {
	if err != nil {
		return Unknown
	}
	if sat {
		return Sat
	}
	return Unsat
}

// explorable reports whether a branch side with this result should be
// queued for exploration — i.e. everything but definite unsat.
func (r Result) explorable() bool { return r != Unsat }

// Context is one symbolic-execution path: a call stack plus the SMT
// assertion stack representing its path condition. The assertion list is
// kept as a persistent (structurally-shared) list so Fork can copy it in
// O(1); the *z3.Solver is rebuilt by replaying that list only when a fork
// actually happens, per the design notes in SPEC_FULL.md §9.
type Context struct {
	zctx *z3.Context

	stack      []*StackFrame
	solver     *z3.Solver
	assertions *immutable.List
}

// NewContext constructs the initial context for a top-level
// ExecuteSymbolic invocation: one frame for fn, with every parameter bound
// to a fresh symbolic bitvector named after the parameter plus a
// context-unique suffix. The suffix is the frame's own heap address rather
// than a package-level counter: two live frames never share one, so it
// uniquifies parameter names across concurrent invocations without any
// shared mutable state (SPEC_FULL.md §9, "Parameter symbol naming").
func NewContext(zctx *z3.Context, fn *ir.Function) (*Context, error) {
	frame := NewStackFrame(zctx, fn)
	suffix := fmt.Sprintf("%p", frame)
	for i, p := range fn.Params {
		sort, err := smt.SortFor(zctx, p.Type())
		if err != nil {
			return nil, fmt.Errorf("parameter %q: %w", p.Name(), err)
		}
		name := fmt.Sprintf("%s.%s#%s.%d", fn.Name(), p.Name(), suffix, i)
		frame.Insert(p, zctx.Const(name, sort))
	}
	return &Context{
		zctx:       zctx,
		stack:      []*StackFrame{frame},
		solver:     z3.NewSolver(zctx),
		assertions: immutable.NewList(),
	}, nil
}

// Top returns the active (innermost) frame.
func (c *Context) Top() *StackFrame {
	if len(c.stack) == 0 {
		panic("symexec: Top called on a context with an empty stack")
	}
	return c.stack[len(c.stack)-1]
}

// Empty reports whether the call stack has been fully popped — the context
// is terminal and should be discarded by the worklist loop.
func (c *Context) Empty() bool { return len(c.stack) == 0 }

// PushFrame pushes a new activation record (for a symbolic call). Unused by
// this core's Call semantics today (only intrinsics are supported, and they
// don't push frames) but kept as a faithful implementation of the general
// Context contract for the inter-procedural extension SPEC_FULL.md flags as
// future work.
func (c *Context) PushFrame(f *StackFrame) { c.stack = append(c.stack, f) }

// PopFrame pops the active frame, returning it.
func (c *Context) PopFrame() *StackFrame {
	top := c.Top()
	c.stack = c.stack[:len(c.stack)-1]
	return top
}

// Assert adds e as a permanent assertion on this path: it is pushed onto
// both the live solver and the persistent assertion list that Fork later
// replays.
func (c *Context) Assert(e z3.Bool) {
	c.solver.Assert(e)
	c.assertions = c.assertions.Append(e)
}

// Check returns the solver's result under the currently accumulated
// assertions. It does not mutate the assertion set.
func (c *Context) Check() Result {
	return resultFromCheck(c.solver.Check())
}

// CheckWith returns the result of the accumulated assertions conjoined with
// to_bool(e), without mutating the assertion set (implemented as a
// push/assert/check/pop scope). e must be boolean or a 1-bit bitvector;
// anything else is smt.ErrTypeMismatch.
func (c *Context) CheckWith(e z3.Value) (Result, error) {
	b, err := smt.ToBoolChecked(c.zctx, e)
	if err != nil {
		return Unknown, err
	}
	c.solver.Push()
	defer c.solver.Pop()
	c.solver.Assert(b)
	return resultFromCheck(c.solver.Check()), nil
}

// CheckWithModel is CheckWith but also returns a model when the result is
// satisfiable (or unknown, treated as sat) — the model can only be read
// while the temporary assertion is still on the solver's stack, so this
// bundles that into one push/pop scope. Used by decaf_assert.
func (c *Context) CheckWithModel(e z3.Value) (Result, *z3.Model, error) {
	b, err := smt.ToBoolChecked(c.zctx, e)
	if err != nil {
		return Unknown, nil, err
	}
	c.solver.Push()
	defer c.solver.Pop()
	c.solver.Assert(b)
	res := resultFromCheck(c.solver.Check())
	if !res.explorable() {
		return res, nil, nil
	}
	return res, c.solver.Model(), nil
}

// Fork produces an independent context: the stack is structurally copied
// (frames cloned, bound expressions shared by reference — they're
// immutable), and the assertion list handle is copied in O(1) and replayed
// into a brand-new solver, per SPEC_FULL.md §9.
func (c *Context) Fork() *Context {
	stack := make([]*StackFrame, len(c.stack))
	for i, f := range c.stack {
		stack[i] = f.Clone()
	}

	solver := z3.NewSolver(c.zctx)
	it := c.assertions.Iterator()
	for !it.Done() {
		_, v := it.Next()
		solver.Assert(v.(z3.Bool))
	}

	return &Context{
		zctx:       c.zctx,
		stack:      stack,
		solver:     solver,
		assertions: c.assertions,
	}
}

// Assertions returns the accumulated path condition, most recent last. Used
// by failure sinks that want to render the path a reported model took.
func (c *Context) Assertions() []z3.Bool {
	out := make([]z3.Bool, 0, c.assertions.Len())
	it := c.assertions.Iterator()
	for !it.Done() {
		_, v := it.Next()
		out = append(out, v.(z3.Bool))
	}
	return out
}
