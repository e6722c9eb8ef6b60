package smt

import (
	"errors"
	"testing"

	"github.com/aclements/go-z3/z3"

	"decafsym/ir"
)

func TestSortFor_Int(t *testing.T) {
	zctx := z3.NewContext(nil)
	for _, width := range []int{1, 8, 32, 64} {
		sort, err := SortFor(zctx, ir.IntType{Width: width})
		if err != nil {
			t.Fatalf("i%d: unexpected error: %s", width, err)
		}
		if got := sort.BVSize(); got != width {
			t.Errorf("i%d: got BVSize %d; want %d", width, got, width)
		}
	}
}

func TestSortFor_Unsupported(t *testing.T) {
	zctx := z3.NewContext(nil)
	for _, ty := range []ir.Type{ir.FloatType{Width: 64}, ir.PointerType{Elem: ir.IntType{Width: 32}}, ir.VoidType{}} {
		if _, err := SortFor(zctx, ty); !errors.Is(err, ErrUnsupportedType) {
			t.Errorf("%s: got error %v; want ErrUnsupportedType", ty, err)
		}
	}
}
