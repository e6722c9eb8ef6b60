package smt

import (
	"fmt"

	"github.com/aclements/go-z3/z3"
)

// ToBool canonicalizes a 1-bit bitvector to a boolean (e == 1); an
// already-boolean expression passes through unchanged, and a wider
// bitvector panics. Callers that cannot guarantee e is boolean-shaped should use
// ToBoolChecked instead.
func ToBool(zctx *z3.Context, e z3.Value) z3.Bool {
	if bv, ok := e.(z3.BV); ok && bv.Sort().BVSize() == 1 {
		one := zctx.FromInt(1, bv.Sort()).(z3.BV)
		return bv.Eq(one)
	}
	return e.(z3.Bool)
}

// ToBoolChecked is ToBool but reports TypeMismatch instead of panicking when
// e is neither boolean nor a 1-bit bitvector. Context.CheckWith uses this:
// the spec requires check(e) to fail cleanly on a malformed query rather
// than trust IR-level invariants the way the interpreter's own call sites
// do.
func ToBoolChecked(zctx *z3.Context, e z3.Value) (z3.Bool, error) {
	switch v := e.(type) {
	case z3.Bool:
		return v, nil
	case z3.BV:
		if v.Sort().BVSize() == 1 {
			one := zctx.FromInt(1, v.Sort()).(z3.BV)
			return v.Eq(one), nil
		}
		return z3.Bool{}, fmt.Errorf("%w: expected boolean or 1-bit bitvector, got %d-bit bitvector", ErrTypeMismatch, v.Sort().BVSize())
	default:
		return z3.Bool{}, fmt.Errorf("%w: expected boolean or 1-bit bitvector", ErrTypeMismatch)
	}
}

// ToBV1 canonicalizes a boolean to a 1-bit bitvector via ite(e, 1, 0); any
// other expression, including an already-bitvector one, passes through
// unchanged.
func ToBV1(zctx *z3.Context, e z3.Value) z3.BV {
	if b, ok := e.(z3.Bool); ok {
		sort := zctx.BVSort(1)
		one := zctx.FromInt(1, sort).(z3.BV)
		zero := zctx.FromInt(0, sort).(z3.BV)
		return b.IfThenElse(one, zero).(z3.BV)
	}
	return e.(z3.BV)
}

// ITE builds ite(cond, then, els), dispatching to whichever sort then/els
// actually have (bitvector or boolean) — used by Select, which the IR
// permits to select between values of any scalar type this core supports.
func ITE(cond z3.Bool, then, els z3.Value) z3.Value {
	return cond.IfThenElse(then, els)
}
