package irtext

import (
	"testing"

	"github.com/google/go-cmp/cmp"

	"decafsym/ir"
)

func TestParse_StraightLine(t *testing.T) {
	src := `
func f(x: i32) {
entry:
    decaf_assert_arg = icmp eq i32 x, x
    call decaf_assert(decaf_assert_arg)
    ret
}
`
	fn, err := Parse(src)
	if err != nil {
		t.Fatalf("unexpected error: %s", err)
	}
	if fn.Name() != "f" {
		t.Errorf("got name %q; want f", fn.Name())
	}
	if len(fn.Params) != 1 || fn.Params[0].Name() != "x" {
		t.Fatalf("got params %v; want [x]", fn.Params)
	}
	if len(fn.Blocks) != 1 {
		t.Fatalf("got %d blocks; want 1", len(fn.Blocks))
	}
	entry := fn.Entry()
	if len(entry.Instrs) != 3 {
		t.Fatalf("got %d instructions; want 3", len(entry.Instrs))
	}
	if _, ok := entry.Instrs[0].(*ir.ICmp); !ok {
		t.Errorf("instr 0: got %T; want *ir.ICmp", entry.Instrs[0])
	}
	call, ok := entry.Instrs[1].(*ir.Call)
	if !ok {
		t.Fatalf("instr 1: got %T; want *ir.Call", entry.Instrs[1])
	}
	if call.Callee != "decaf_assert" {
		t.Errorf("got callee %q; want decaf_assert", call.Callee)
	}
	if _, ok := entry.Instrs[2].(*ir.Return); !ok {
		t.Errorf("instr 2: got %T; want *ir.Return", entry.Instrs[2])
	}
}

func TestParse_Branching(t *testing.T) {
	src := `
func f(x: i32) {
entry:
    cond = icmp slt i32 x, i32#10
    br cond, then, done
then:
    check = icmp ne i32 x, i32#5
    call decaf_assert(check)
    br done
done:
    ret
}
`
	fn, err := Parse(src)
	if err != nil {
		t.Fatalf("unexpected error: %s", err)
	}
	if len(fn.Blocks) != 3 {
		t.Fatalf("got %d blocks; want 3", len(fn.Blocks))
	}
	entry := fn.Blocks[0]
	br, ok := entry.Instrs[len(entry.Instrs)-1].(*ir.Br)
	if !ok {
		t.Fatalf("entry's last instr: got %T; want *ir.Br", entry.Instrs[len(entry.Instrs)-1])
	}
	if br.Cond == nil {
		t.Fatalf("expected conditional branch, got unconditional")
	}
	if br.True.Name != "then" || br.False.Name != "done" {
		t.Errorf("got targets %s/%s; want then/done", br.True.Name, br.False.Name)
	}
	if len(entry.Succs) != 2 {
		t.Errorf("got %d successors on entry; want 2", len(entry.Succs))
	}
}

func TestParse_IntegerLiteral(t *testing.T) {
	src := `
func f(x: i32) {
entry:
    y = add i32 x, i32#-1
    ret y
}
`
	fn, err := Parse(src)
	if err != nil {
		t.Fatalf("unexpected error: %s", err)
	}
	binop := fn.Entry().Instrs[0].(*ir.BinOp)
	lit, ok := binop.Y.(*ir.IntConst)
	if !ok {
		t.Fatalf("got %T; want *ir.IntConst", binop.Y)
	}
	if lit.Value.Int64() != -1 {
		t.Errorf("got %s; want -1", lit.Value)
	}
}

func TestParse_UnknownOpcode(t *testing.T) {
	src := `
func f(x: i32) {
entry:
    y = frobnicate i32 x, x
    ret y
}
`
	if _, err := Parse(src); err == nil {
		t.Fatalf("expected an error for an unrecognized opcode")
	}
}

// blockShape flattens a BasicBlock's name and successor names, dropping the
// back-pointers in Preds/Succs so cmp.Diff has plain data to compare instead
// of a pointer graph.
type blockShape struct {
	Name  string
	Succs []string
}

func shapeOf(fn *ir.Function) []blockShape {
	out := make([]blockShape, len(fn.Blocks))
	for i, b := range fn.Blocks {
		succs := make([]string, len(b.Succs))
		for j, s := range b.Succs {
			succs[j] = s.Name
		}
		out[i] = blockShape{Name: b.Name, Succs: succs}
	}
	return out
}

func TestParse_CFGShape(t *testing.T) {
	src := `
func f(x: i32) {
entry:
    cond = icmp slt i32 x, i32#10
    br cond, then, done
then:
    check = icmp ne i32 x, i32#5
    call decaf_assert(check)
    br done
done:
    ret
}
`
	fn, err := Parse(src)
	if err != nil {
		t.Fatalf("unexpected error: %s", err)
	}
	got := shapeOf(fn)
	exp := []blockShape{
		{Name: "entry", Succs: []string{"then", "done"}},
		{Name: "then", Succs: []string{"done"}},
		{Name: "done", Succs: []string{}},
	}
	if diff := cmp.Diff(got, exp); diff != "" {
		t.Errorf("block shape mismatch (-got +want):\n%s", diff)
	}
}

func TestParse_UndefinedBranchTarget(t *testing.T) {
	src := `
func f(x: i32) {
entry:
    cond = icmp eq i32 x, x
    br cond, nowhere, alsonowhere
}
`
	if _, err := Parse(src); err == nil {
		t.Fatalf("expected an error for an undefined branch target")
	}
}
