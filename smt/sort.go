// Package smt is the semantic translation layer between the ir package's
// typed SSA values and the go-z3 bitvector/boolean theories: sort mapping,
// constant evaluation, and boolean/1-bit-bitvector normalization. It knows
// nothing about stack frames, contexts, or instruction dispatch — those live
// in package symexec and are built on top of this one, the same layering the
// teacher draws between its EncodingContext (sorts/constants) and its
// Interpreter (instruction semantics).
package smt

import (
	"fmt"

	"github.com/aclements/go-z3/z3"

	"decafsym/ir"
)

// SortFor maps an IR scalar type to the SMT sort used to represent it.
// Integer types of any width (including width 1) map to bitvector sorts of
// matching width; everything else is UnsupportedType.
func SortFor(zctx *z3.Context, t ir.Type) (z3.Sort, error) {
	switch t := t.(type) {
	case ir.IntType:
		return zctx.BVSort(t.Width), nil
	default:
		return z3.Sort{}, fmt.Errorf("%w: %s", ErrUnsupportedType, t.String())
	}
}
