package smt

import (
	"errors"
	"testing"

	"github.com/aclements/go-z3/z3"
)

func checkEquivalent(t *testing.T, zctx *z3.Context, a, b z3.Bool) {
	t.Helper()
	solver := z3.NewSolver(zctx)
	solver.Assert(a.Xor(b))
	sat, err := solver.Check()
	if err != nil {
		t.Fatalf("solver error: %s", err)
	}
	if sat {
		t.Errorf("expressions are not equivalent")
	}
}

func TestToBool_FromBV1(t *testing.T) {
	zctx := z3.NewContext(nil)
	bv1 := zctx.BVConst("c", 1)
	got := ToBool(zctx, bv1)
	want := bv1.Eq(zctx.FromInt(1, zctx.BVSort(1)).(z3.BV))
	checkEquivalent(t, zctx, got, want)
}

func TestToBool_PassThroughBool(t *testing.T) {
	zctx := z3.NewContext(nil)
	b := zctx.BoolConst("b")
	got := ToBool(zctx, b)
	checkEquivalent(t, zctx, got, b)
}

func TestToBV1_FromBool(t *testing.T) {
	zctx := z3.NewContext(nil)
	b := zctx.BoolConst("b")
	bv := ToBV1(zctx, b)
	if bv.Sort().BVSize() != 1 {
		t.Fatalf("got width %d; want 1", bv.Sort().BVSize())
	}
	roundTrip := ToBool(zctx, bv)
	checkEquivalent(t, zctx, roundTrip, b)
}

func TestToBV1_PassThroughBV(t *testing.T) {
	zctx := z3.NewContext(nil)
	bv := zctx.BVConst("x", 32)
	got := ToBV1(zctx, bv)
	if got.Sort().BVSize() != 32 {
		t.Errorf("pass-through changed width to %d", got.Sort().BVSize())
	}
}

func TestIdempotence(t *testing.T) {
	zctx := z3.NewContext(nil)
	b := zctx.BoolConst("b")
	once := ToBool(zctx, b)
	twice := ToBool(zctx, once)
	checkEquivalent(t, zctx, once, twice)

	bv1 := zctx.BVConst("c", 1)
	onceBV := ToBV1(zctx, bv1)
	twiceBV := ToBV1(zctx, onceBV)
	checkEquivalent(t, zctx, ToBool(zctx, onceBV), ToBool(zctx, twiceBV))
}

func TestToBoolChecked_TypeMismatch(t *testing.T) {
	zctx := z3.NewContext(nil)
	bv32 := zctx.BVConst("x", 32)
	if _, err := ToBoolChecked(zctx, bv32); !errors.Is(err, ErrTypeMismatch) {
		t.Errorf("got error %v; want ErrTypeMismatch", err)
	}
}

func TestToBoolChecked_Accepts(t *testing.T) {
	zctx := z3.NewContext(nil)
	if _, err := ToBoolChecked(zctx, zctx.BoolConst("b")); err != nil {
		t.Errorf("unexpected error for boolean: %s", err)
	}
	if _, err := ToBoolChecked(zctx, zctx.BVConst("c", 1)); err != nil {
		t.Errorf("unexpected error for 1-bit bitvector: %s", err)
	}
}
