package smt

import (
	"fmt"

	"github.com/aclements/go-z3/z3"

	"decafsym/ir"
)

// EvalConstant converts an IR constant into its SMT expression. Integer
// constants become bitvector literals with a matching two's-complement bit
// pattern (go-z3's FromBigInt handles negative big.Int values by taking them
// modulo 2^width, which is exactly the two's-complement encoding this core
// requires). Any other constant kind is UnsupportedConstant.
func EvalConstant(zctx *z3.Context, c ir.Constant) (z3.Value, error) {
	switch c := c.(type) {
	case *ir.IntConst:
		sort := zctx.BVSort(c.Width)
		return zctx.FromBigInt(c.Value, sort), nil
	default:
		return nil, fmt.Errorf("%w: %T", ErrUnsupportedConstant, c)
	}
}
