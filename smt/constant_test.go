package smt

import (
	"errors"
	"testing"

	"github.com/aclements/go-z3/z3"

	"decafsym/ir"
)

func TestEvalConstant_Int(t *testing.T) {
	zctx := z3.NewContext(nil)
	e, err := EvalConstant(zctx, ir.NewIntConst(32, -1))
	if err != nil {
		t.Fatalf("unexpected error: %s", err)
	}
	bv, ok := e.(z3.BV)
	if !ok {
		t.Fatalf("got %T; want z3.BV", e)
	}
	want := zctx.FromInt(-1, zctx.BVSort(32)).(z3.BV)
	solver := z3.NewSolver(zctx)
	solver.Assert(bv.NE(want))
	sat, err := solver.Check()
	if err != nil {
		t.Fatalf("solver error: %s", err)
	}
	if sat {
		t.Errorf("-1 as i32 did not encode as the expected two's-complement bit pattern")
	}
}

func TestEvalConstant_Unsupported(t *testing.T) {
	zctx := z3.NewContext(nil)
	_, err := EvalConstant(zctx, &ir.FloatConst{Width: 64, Value: 1.5})
	if !errors.Is(err, ErrUnsupportedConstant) {
		t.Errorf("got error %v; want ErrUnsupportedConstant", err)
	}
}
