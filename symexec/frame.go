package symexec

import (
	"fmt"

	"github.com/aclements/go-z3/z3"

	"decafsym/ir"
	"decafsym/smt"
)

// StackFrame is a single activation record: the function it executes, the
// bindings from IR value to symbolic expression built up so far, and the
// instruction cursor. prevBlock is nil only before the first inter-block
// transition (i.e. while still in the entry block), which is also the one
// state in which a Phi instruction cannot legally appear.
type StackFrame struct {
	zctx *z3.Context

	Function *ir.Function
	locals   map[ir.Value]z3.Value

	currentBlock *ir.BasicBlock
	prevBlock    *ir.BasicBlock
	cursor       int
}

// NewStackFrame creates a frame positioned at the start of fn's entry block
// with no locals bound. Callers (NewContext) bind parameters afterward.
func NewStackFrame(zctx *z3.Context, fn *ir.Function) *StackFrame {
	entry := fn.Entry()
	return &StackFrame{
		zctx:         zctx,
		Function:     fn,
		locals:       make(map[ir.Value]z3.Value),
		currentBlock: entry,
		prevBlock:    nil,
		cursor:       entry.Begin(),
	}
}

// CurrentBlock, PrevBlock and Cursor are read-only views used by the
// interpreter and by invariant checks.
func (f *StackFrame) CurrentBlock() *ir.BasicBlock { return f.currentBlock }
func (f *StackFrame) PrevBlock() *ir.BasicBlock    { return f.prevBlock }
func (f *StackFrame) Cursor() int                  { return f.cursor }

// Instruction returns the instruction the cursor currently points at. It
// panics if the cursor has run off the end of the block — an internal
// invariant violation, not a recoverable executor-level error.
func (f *StackFrame) Instruction() ir.Instruction {
	if f.cursor < 0 || f.cursor >= len(f.currentBlock.Instrs) {
		panic(fmt.Sprintf("symexec: cursor %d out of range for block %q with %d instructions", f.cursor, f.currentBlock.Name, len(f.currentBlock.Instrs)))
	}
	return f.currentBlock.Instrs[f.cursor]
}

// Advance moves the cursor to the next instruction in the current block.
// Instructions that alter control flow (Br, Return) set the cursor
// themselves via JumpTo or by popping the frame, and must not call Advance.
func (f *StackFrame) Advance() { f.cursor++ }

// Insert binds v to e in locals, overwriting any prior binding. SSA
// guarantees the same handle is never legitimately rebound within a frame,
// but insertion tolerates it rather than erroring, per the data-model
// invariant.
func (f *StackFrame) Insert(v ir.Value, e z3.Value) {
	f.locals[v] = e
}

// Lookup resolves v to its symbolic expression: a prior binding if present,
// otherwise the evaluated constant if v is one. Any other miss is
// ErrUnboundValue.
func (f *StackFrame) Lookup(v ir.Value) (z3.Value, error) {
	if e, ok := f.locals[v]; ok {
		return e, nil
	}
	if c, ok := v.(ir.Constant); ok {
		e, err := smt.EvalConstant(f.zctx, c)
		if err != nil {
			return nil, err
		}
		return e, nil
	}
	return nil, fmt.Errorf("%w: %s", ErrUnboundValue, v.Name())
}

// JumpTo transitions the cursor to the start of block b, recording the
// current block as the new prev_block. Must precede execution of any
// instruction in b, including its leading phi nodes.
func (f *StackFrame) JumpTo(b *ir.BasicBlock) {
	f.prevBlock = f.currentBlock
	f.currentBlock = b
	f.cursor = b.Begin()
}

// Clone returns a deep-equivalent frame: a fresh locals map with the same
// bindings (expressions are shared by reference — they're immutable), at
// the same cursor position. Used by Context.Fork.
func (f *StackFrame) Clone() *StackFrame {
	locals := make(map[ir.Value]z3.Value, len(f.locals))
	for k, v := range f.locals {
		locals[k] = v
	}
	return &StackFrame{
		zctx:         f.zctx,
		Function:     f.Function,
		locals:       locals,
		currentBlock: f.currentBlock,
		prevBlock:    f.prevBlock,
		cursor:       f.cursor,
	}
}
