package ir

import "strconv"

// Builder constructs a Function block by block. It is used by tests and by
// the irtext front end, in the same spirit as the teacher's testdata/mocks
// fixtures — a convenient way to get a function into memory without a full
// front end.
type Builder struct {
	fn      *Function
	counter int
}

// NewBuilder starts building a function with the given name and parameters.
func NewBuilder(name string, params ...*Param) *Builder {
	return &Builder{fn: &Function{Nm: name, Params: params}}
}

// Block appends a new, empty basic block and returns it for instruction
// insertion. Callers are responsible for wiring Preds/Succs to match the
// control flow they build (NewBuilder does not infer it).
func (b *Builder) Block(name string) *BasicBlock {
	blk := &BasicBlock{Name: name, Index: len(b.fn.Blocks)}
	b.fn.Blocks = append(b.fn.Blocks, blk)
	return blk
}

// Connect records a directed edge between two blocks of the function under
// construction, updating both Succs and Preds.
func (b *Builder) Connect(from, to *BasicBlock) {
	from.Succs = append(from.Succs, to)
	to.Preds = append(to.Preds, from)
}

// id returns a fresh SSA value name, scoped to this builder.
func (b *Builder) id(prefix string) string {
	b.counter++
	return prefix + strconv.Itoa(b.counter)
}

func (b *Builder) Build() *Function { return b.fn }

// Emit appends instr to blk's instruction list and returns instr, so calls
// can be chained inline, e.g. blk.Instrs append via b.Emit(blk, ir.NewBinOp(...)).
func (b *Builder) Emit(blk *BasicBlock, instr Instruction) Instruction {
	blk.Instrs = append(blk.Instrs, instr)
	return instr
}

// NextID returns a fresh SSA value name with the given prefix, e.g. "t" ->
// "t1", "t2", ... Useful when callers want to name an instruction's result
// before constructing it.
func (b *Builder) NextID(prefix string) string { return b.id(prefix) }
