package symexec

import (
	"testing"

	"github.com/aclements/go-z3/z3"

	"decafsym/ir"
	"decafsym/irtext"
)

func mustParse(t *testing.T, src string) *ir.Function {
	t.Helper()
	fn, err := irtext.Parse(src)
	if err != nil {
		t.Fatalf("parse error: %s", err)
	}
	return fn
}

func run(t *testing.T, src string) []Failure {
	t.Helper()
	fn := mustParse(t, src)
	zctx := z3.NewContext(nil)
	sink := &CollectingFailureSink{}
	if _, err := ExecuteSymbolic(zctx, fn, Options{Sink: sink}); err != nil {
		t.Fatalf("ExecuteSymbolic error: %s", err)
	}
	return sink.Failures
}

// Scenario 1: decaf_assert(x == x) never fails.
func TestScenario_TautologyNeverFails(t *testing.T) {
	src := `
func f(x: i32) {
entry:
    c = icmp eq i32 x, x
    call decaf_assert(c)
    ret
}
`
	if got := run(t, src); len(got) != 0 {
		t.Errorf("got %d failures; want 0: %+v", len(got), got)
	}
}

// Scenario 2: decaf_assert(x == 0) fails for some x != 0.
func TestScenario_AssertZeroFails(t *testing.T) {
	src := `
func f(x: i32) {
entry:
    c = icmp eq i32 x, i32#0
    call decaf_assert(c)
    ret
}
`
	got := run(t, src)
	if len(got) != 1 {
		t.Fatalf("got %d failures; want 1: %+v", len(got), got)
	}
	if got[0].Model["x"] == "0" {
		t.Errorf("model binds x = 0, which does not violate x == 0")
	}
}

// Scenario 3: assuming x > 0 then asserting x > 0 never fails.
func TestScenario_AssumeThenAssertSameCondition(t *testing.T) {
	src := `
func f(x: i32) {
entry:
    c = icmp sgt i32 x, i32#0
    call decaf_assume(c)
    call decaf_assert(c)
    ret
}
`
	if got := run(t, src); len(got) != 0 {
		t.Errorf("got %d failures; want 0: %+v", len(got), got)
	}
}

// Scenario 4: asserting that unsigned addition never "decreases" a fails on
// overflow.
func TestScenario_AdditionOverflowFails(t *testing.T) {
	src := `
func f(a: i32, b: i32) {
entry:
    c = add i32 a, b
    ok = icmp uge i32 c, a
    call decaf_assert(ok)
    ret
}
`
	got := run(t, src)
	if len(got) != 1 {
		t.Fatalf("got %d failures; want 1: %+v", len(got), got)
	}
}

// Scenario 5: a branch-guarded assertion fails on the path that takes the
// branch with an excluded value.
func TestScenario_BranchGuardedAssertFails(t *testing.T) {
	src := `
func f(x: i32) {
entry:
    lt = icmp slt i32 x, i32#10
    br lt, guarded, done
guarded:
    ne5 = icmp ne i32 x, i32#5
    call decaf_assert(ne5)
    br done
done:
    ret
}
`
	got := run(t, src)
	if len(got) != 1 {
		t.Fatalf("got %d failures; want 1: %+v", len(got), got)
	}
	if got[0].Model["x"] != "5" {
		t.Errorf("got model x = %s; want x = 5", got[0].Model["x"])
	}
}

// Scenario 6: signed division truncates, so 2*y == x fails for odd x.
func TestScenario_DivisionRoundingFails(t *testing.T) {
	src := `
func f(x: i32) {
entry:
    y = sdiv i32 x, i32#2
    doubled = mul i32 y, i32#2
    ok = icmp eq i32 doubled, x
    call decaf_assert(ok)
    ret
}
`
	got := run(t, src)
	if len(got) != 1 {
		t.Fatalf("got %d failures; want 1: %+v", len(got), got)
	}
}
