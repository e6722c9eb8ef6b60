package ir

import (
	"fmt"
	"math/big"
)

// Value is an IR value handle. Concrete implementations are *Param and every
// producing Instruction — an instruction doubles as the value it produces,
// the same convention go/ssa and LLVM use. Go pointer identity gives handles
// equality and hashability for free, so Value can be used directly as a map
// key without a synthetic ID scheme.
type Value interface {
	Name() string
	Type() Type
}

// Constant is a Value that does not need to be looked up in a stack frame's
// locals: its symbolic expression can be computed on demand from its literal
// value. The constant marker method exists purely to distinguish constants
// from ordinary values in a type switch.
type Constant interface {
	Value
	constant()
}

// Param is a function parameter. It is bound to a fresh symbolic expression
// when a Context is constructed for the function (see symexec.NewContext).
type Param struct {
	Nm string
	Ty Type
}

func (p *Param) Name() string { return p.Nm }
func (p *Param) Type() Type   { return p.Ty }

// IntConst is an integer literal of the given width and two's-complement
// value. It is the only constant kind the evaluator in smt.EvalConstant
// accepts.
type IntConst struct {
	Width int
	Value *big.Int
}

func NewIntConst(width int, value int64) *IntConst {
	return &IntConst{Width: width, Value: big.NewInt(value)}
}

func (c *IntConst) Name() string { return c.Value.String() }
func (c *IntConst) Type() Type   { return IntType{Width: c.Width} }
func (*IntConst) constant()      {}

// FloatConst exists only to exercise smt.EvalConstant's UnsupportedConstant
// path; floating point is a Non-goal of the core.
type FloatConst struct {
	Width int
	Value float64
}

func (c *FloatConst) Name() string { return fmt.Sprintf("%g", c.Value) }
func (c *FloatConst) Type() Type   { return FloatType{Width: c.Width} }
func (*FloatConst) constant()      {}
