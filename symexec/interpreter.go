package symexec

import (
	"fmt"

	"github.com/aclements/go-z3/z3"

	"decafsym/ir"
	"decafsym/smt"
)

const (
	intrinsicAssume = "decaf_assume"
	intrinsicAssert = "decaf_assert"
)

// stepOutcome tells Run what to do with a context after one instruction has
// been executed on it.
type stepOutcome int

const (
	stepContinue stepOutcome = iota // frame advanced or jumped; keep this context on the worklist
	stepForked                      // a Br produced a sibling context that was pushed onto the worklist itself
	stepDone                        // the frame's stack emptied (top-level Return) or the path was pruned; this context is finished
)

// Interpreter executes IR functions symbolically, forking a new Context at
// every conditional branch whose condition is not already determined by the
// path condition, and reporting to Sink every decaf_assert found violable.
// It mirrors the teacher's dynamic.go executor loop: an explicit worklist,
// one context popped and single-stepped per iteration, rather than
// recursion, so path count is bounded only by memory, not goroutine or Go
// call stack depth.
type Interpreter struct {
	zctx     *z3.Context
	worklist Worklist
	sink     FailureSink
}

func NewInterpreter(zctx *z3.Context, worklist Worklist, sink FailureSink) *Interpreter {
	return &Interpreter{zctx: zctx, worklist: worklist, sink: sink}
}

// Run drains the worklist starting from initial, executing one instruction
// per context per iteration until every path has either returned or been
// pruned. An executor-level error (UnboundValue, Unimplemented,
// UnknownExternal, PhiPredecessorMissing, TypeMismatch) terminates only the
// offending context — it is dropped and the drain loop continues with
// whatever else is on the worklist — per SPEC_FULL.md §7/§4.F. Run itself
// only ever returns nil; its error result is kept for callers that may one
// day want to observe something other than a per-context termination, but
// nothing in this core raises one.
func (in *Interpreter) Run(initial *Context) error {
	in.worklist.Push(initial)
	for {
		ctx, ok := in.worklist.Pop()
		if !ok {
			return nil
		}
		if ctx.Empty() {
			continue
		}
		outcome, err := in.step(ctx)
		if err != nil {
			// Terminate this context only; other paths continue.
			continue
		}
		switch outcome {
		case stepContinue:
			in.worklist.Push(ctx)
		case stepForked, stepDone:
			// stepForked already pushed both children; stepDone has
			// nothing left to run.
		}
	}
}

// step executes the single instruction at ctx's cursor.
func (in *Interpreter) step(ctx *Context) (stepOutcome, error) {
	frame := ctx.Top()
	instr := frame.Instruction()

	switch instr := instr.(type) {
	case *ir.Phi:
		return in.evalPhiGroup(frame)

	case *ir.BinOp:
		v, err := in.evalBinOp(frame, instr)
		if err != nil {
			return stepContinue, err
		}
		frame.Insert(instr, v)
		frame.Advance()
		return stepContinue, nil

	case *ir.ICmp:
		v, err := in.evalICmp(frame, instr)
		if err != nil {
			return stepContinue, err
		}
		frame.Insert(instr, v)
		frame.Advance()
		return stepContinue, nil

	case *ir.Select:
		v, err := in.evalSelect(frame, instr)
		if err != nil {
			return stepContinue, err
		}
		frame.Insert(instr, v)
		frame.Advance()
		return stepContinue, nil

	case *ir.Call:
		if err := in.evalCall(ctx, frame, instr); err != nil {
			return stepContinue, err
		}
		frame.Advance()
		return stepContinue, nil

	case *ir.Br:
		return in.evalBr(ctx, frame, instr)

	case *ir.Return:
		ctx.PopFrame()
		if ctx.Empty() {
			return stepDone, nil
		}
		return stepContinue, nil

	default:
		return stepContinue, fmt.Errorf("%w: %s", ErrUnimplemented, instr.Opcode())
	}
}

// evalPhiGroup executes every phi instruction at the head of the current
// block as a single parallel step: all of their incoming-value lookups are
// resolved against the predecessor's state before any of their results are
// bound, so a phi can legally reference a sibling phi defined earlier in the
// same block (e.g. the classic swap idiom
// a = phi[x: entry][b: header]; b = phi[y: entry][a: header]) without the
// second phi observing the first's new binding instead of prev_block's old
// one.
func (in *Interpreter) evalPhiGroup(frame *StackFrame) (stepOutcome, error) {
	start := frame.Cursor()
	var phis []*ir.Phi
	for i := start; i < len(frame.CurrentBlock().Instrs); i++ {
		p, ok := frame.CurrentBlock().Instrs[i].(*ir.Phi)
		if !ok {
			break
		}
		phis = append(phis, p)
	}

	values := make([]z3.Value, len(phis))
	for i, p := range phis {
		v, err := in.evalPhi(frame, p)
		if err != nil {
			return stepContinue, err
		}
		values[i] = v
	}
	for i, p := range phis {
		frame.Insert(p, values[i])
		frame.Advance()
	}
	return stepContinue, nil
}

func (in *Interpreter) evalPhi(frame *StackFrame, instr *ir.Phi) (z3.Value, error) {
	prev := frame.PrevBlock()
	for _, edge := range instr.Incoming {
		if edge.Block == prev {
			return frame.Lookup(edge.Value)
		}
	}
	return nil, fmt.Errorf("%w: phi %s in block %s", ErrPhiPredecessorMissing, instr.Name(), frame.CurrentBlock().Name)
}

func (in *Interpreter) evalBinOp(frame *StackFrame, instr *ir.BinOp) (z3.Value, error) {
	x, err := frame.Lookup(instr.X)
	if err != nil {
		return nil, err
	}
	y, err := frame.Lookup(instr.Y)
	if err != nil {
		return nil, err
	}
	xv, yv := x.(z3.BV), y.(z3.BV)
	switch instr.Op {
	case ir.Add:
		return xv.Add(yv), nil
	case ir.Sub:
		return xv.Sub(yv), nil
	case ir.Mul:
		return xv.Mul(yv), nil
	case ir.UDiv:
		return xv.UDiv(yv), nil
	case ir.SDiv:
		return xv.SDiv(yv), nil
	case ir.URem:
		return nil, fmt.Errorf("%w: urem", ErrUnimplemented)
	case ir.SRem:
		return nil, fmt.Errorf("%w: srem", ErrUnimplemented)
	default:
		return nil, fmt.Errorf("%w: binop %s", ErrUnimplemented, instr.Op)
	}
}

func (in *Interpreter) evalICmp(frame *StackFrame, instr *ir.ICmp) (z3.Value, error) {
	x, err := frame.Lookup(instr.X)
	if err != nil {
		return nil, err
	}
	y, err := frame.Lookup(instr.Y)
	if err != nil {
		return nil, err
	}
	xv, yv := x.(z3.BV), y.(z3.BV)
	var b z3.Bool
	switch instr.Pred {
	case ir.EQ:
		b = xv.Eq(yv)
	case ir.NE:
		b = xv.NE(yv)
	case ir.ULT:
		b = xv.ULT(yv)
	case ir.ULE:
		b = xv.ULE(yv)
	case ir.UGT:
		b = xv.UGT(yv)
	case ir.UGE:
		b = xv.UGE(yv)
	case ir.SLT:
		b = xv.SLT(yv)
	case ir.SLE:
		b = xv.SLE(yv)
	case ir.SGT:
		b = xv.SGT(yv)
	case ir.SGE:
		b = xv.SGE(yv)
	default:
		return nil, fmt.Errorf("%w: predicate %s", ErrUnimplemented, instr.Pred)
	}
	return smt.ToBV1(in.zctx, b), nil
}

func (in *Interpreter) evalSelect(frame *StackFrame, instr *ir.Select) (z3.Value, error) {
	cond, err := frame.Lookup(instr.Cond)
	if err != nil {
		return nil, err
	}
	x, err := frame.Lookup(instr.X)
	if err != nil {
		return nil, err
	}
	y, err := frame.Lookup(instr.Y)
	if err != nil {
		return nil, err
	}
	return smt.ITE(smt.ToBool(in.zctx, cond), x, y), nil
}

// evalCall dispatches decaf_assume/decaf_assert; any other callee is
// ErrUnknownExternal, since this core has no user-defined function calls.
func (in *Interpreter) evalCall(ctx *Context, frame *StackFrame, instr *ir.Call) error {
	switch instr.Callee {
	case intrinsicAssume:
		return in.evalAssume(ctx, frame, instr)
	case intrinsicAssert:
		return in.evalAssert(ctx, frame, instr)
	default:
		return fmt.Errorf("%w: %s", ErrUnknownExternal, instr.Callee)
	}
}

// evalAssume narrows the path condition permanently: decaf_assume(e) is
// equivalent to Assert(to_bool(e)). Unlike decaf_assert it never reports a
// failure — it prunes rather than checks.
func (in *Interpreter) evalAssume(ctx *Context, frame *StackFrame, instr *ir.Call) error {
	if len(instr.Args) != 1 {
		return fmt.Errorf("%w: decaf_assume takes exactly one argument", ErrUnimplemented)
	}
	arg, err := frame.Lookup(instr.Args[0])
	if err != nil {
		return err
	}
	ctx.Assert(smt.ToBool(in.zctx, arg))
	return nil
}

// evalAssert checks whether the path condition together with the negation
// of e is satisfiable: if so, a concrete input exists that reaches this
// program point with e false, and that counterexample is reported to Sink.
// Either way, e is then asserted permanently, same as decaf_assume, so
// exploration downstream of a checked assertion proceeds as if it held.
func (in *Interpreter) evalAssert(ctx *Context, frame *StackFrame, instr *ir.Call) error {
	if len(instr.Args) != 1 {
		return fmt.Errorf("%w: decaf_assert takes exactly one argument", ErrUnimplemented)
	}
	arg, err := frame.Lookup(instr.Args[0])
	if err != nil {
		return err
	}
	cond := smt.ToBool(in.zctx, arg)

	res, model, err := ctx.CheckWithModel(cond.Not())
	if err != nil {
		return err
	}
	if res.explorable() && model != nil {
		var path []string
		for _, a := range ctx.Assertions() {
			path = append(path, a.String())
		}
		failure, err := modelToFailure(model, frame, frame.Function, path)
		if err != nil {
			return err
		}
		in.sink.Report(failure)
	}

	ctx.Assert(cond)
	return nil
}

// evalBr executes a branch. An unconditional branch just jumps. A
// conditional branch checks both sides against the current path condition:
// a side that is Unsat is pruned outright; a side that is Sat or Unknown is
// explored. When both sides are explorable, ctx continues down the true
// side and a forked sibling (with the negated condition asserted) is pushed
// for the false side, per SPEC_FULL.md §4.F/§9.
func (in *Interpreter) evalBr(ctx *Context, frame *StackFrame, instr *ir.Br) (stepOutcome, error) {
	if instr.Cond == nil {
		frame.JumpTo(instr.True)
		return stepContinue, nil
	}

	condVal, err := frame.Lookup(instr.Cond)
	if err != nil {
		return stepContinue, err
	}
	cond := smt.ToBool(in.zctx, condVal)

	trueRes, err := ctx.CheckWith(cond)
	if err != nil {
		return stepContinue, err
	}
	falseRes, err := ctx.CheckWith(cond.Not())
	if err != nil {
		return stepContinue, err
	}

	switch {
	case !trueRes.explorable() && !falseRes.explorable():
		// Both sides refuted by the current path condition: this can only
		// happen if the path condition itself is already unsatisfiable
		// (e.g. after a decaf_assume of a condition that is false on this
		// path; Run does not check feasibility before stepping). Prune
		// rather than proceeding on a contradiction.
		return stepDone, nil

	case !falseRes.explorable():
		ctx.Assert(cond)
		frame.JumpTo(instr.True)
		return stepContinue, nil

	case !trueRes.explorable():
		ctx.Assert(cond.Not())
		frame.JumpTo(instr.False)
		return stepContinue, nil

	default:
		sibling := ctx.Fork()
		sibling.Assert(cond.Not())
		sibling.Top().JumpTo(instr.False)
		in.worklist.Push(sibling)

		ctx.Assert(cond)
		frame.JumpTo(instr.True)
		return stepForked, in.pushSelf(ctx)
	}
}

// pushSelf re-enqueues ctx after a fork; step callers otherwise handle
// pushing via Run's stepContinue case, but evalBr already pushed the
// sibling itself, so it must push its own continuation too and report
// stepForked to tell Run not to push it a second time.
func (in *Interpreter) pushSelf(ctx *Context) error {
	in.worklist.Push(ctx)
	return nil
}
