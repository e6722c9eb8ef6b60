package symexec

import "errors"

// ErrUnboundValue is returned by StackFrame.Lookup when a value is neither
// bound in locals nor a constant — an implementation bug in the front end
// that produced the IR, per the data-model invariant in SPEC_FULL.md.
var ErrUnboundValue = errors.New("symexec: unbound value")

// ErrPhiPredecessorMissing is returned when a Phi's incoming edges don't
// include the frame's prev_block.
var ErrPhiPredecessorMissing = errors.New("symexec: no phi edge for predecessor block")

// ErrUnimplemented is returned for any instruction opcode the interpreter
// doesn't dispatch (urem/srem, memory/pointer instructions, and anything
// else outside this core's scope).
var ErrUnimplemented = errors.New("symexec: unimplemented instruction")

// ErrUnknownExternal is returned when a Call names a function that is
// neither decaf_assume nor decaf_assert.
var ErrUnknownExternal = errors.New("symexec: unknown external function")
