package ir

// Opcode tags an Instruction for diagnostics; dispatch itself is a Go type
// switch over the concrete instruction types (see symexec.Interpreter), but
// every instruction still carries an Opcode so error messages naming an
// unimplemented opcode don't need reflection.
type Opcode int

const (
	OpBinOp Opcode = iota
	OpICmp
	OpPhi
	OpBr
	OpSelect
	OpReturn
	OpCall
	OpLoad
	OpGetElementPtr
)

func (op Opcode) String() string {
	switch op {
	case OpBinOp:
		return "binop"
	case OpICmp:
		return "icmp"
	case OpPhi:
		return "phi"
	case OpBr:
		return "br"
	case OpSelect:
		return "select"
	case OpReturn:
		return "ret"
	case OpCall:
		return "call"
	case OpLoad:
		return "load"
	case OpGetElementPtr:
		return "getelementptr"
	default:
		return "unknown"
	}
}

// Instruction is anything that occupies a slot in a BasicBlock's instruction
// list. Instructions that produce a usable result additionally implement
// Value (Name, Type).
type Instruction interface {
	Opcode() Opcode
}

// BinOpKind is the arithmetic operator of a BinOp instruction.
type BinOpKind int

const (
	Add BinOpKind = iota
	Sub
	Mul
	UDiv
	SDiv
	URem
	SRem
)

func (k BinOpKind) String() string {
	return [...]string{"add", "sub", "mul", "udiv", "sdiv", "urem", "srem"}[k]
}

// BinOp is a binary integer arithmetic instruction.
type BinOp struct {
	id   string
	Ty   Type
	Op   BinOpKind
	X, Y Value
}

func NewBinOp(id string, ty Type, op BinOpKind, x, y Value) *BinOp {
	return &BinOp{id: id, Ty: ty, Op: op, X: x, Y: y}
}

func (b *BinOp) Opcode() Opcode { return OpBinOp }
func (b *BinOp) Name() string   { return b.id }
func (b *BinOp) Type() Type     { return b.Ty }

// Predicate is an icmp comparison predicate.
type Predicate int

const (
	EQ Predicate = iota
	NE
	ULT
	ULE
	UGT
	UGE
	SLT
	SLE
	SGT
	SGE
)

func (p Predicate) String() string {
	return [...]string{"eq", "ne", "ult", "ule", "ugt", "uge", "slt", "sle", "sgt", "sge"}[p]
}

// ICmp is an integer comparison instruction; its result is always i1.
type ICmp struct {
	id   string
	Pred Predicate
	X, Y Value
}

func NewICmp(id string, pred Predicate, x, y Value) *ICmp {
	return &ICmp{id: id, Pred: pred, X: x, Y: y}
}

func (c *ICmp) Opcode() Opcode { return OpICmp }
func (c *ICmp) Name() string   { return c.id }
func (c *ICmp) Type() Type     { return IntType{Width: 1} }

// PhiEdge is one incoming edge of a Phi node.
type PhiEdge struct {
	Block *BasicBlock
	Value Value
}

// Phi selects the value bound on the edge matching the frame's prev_block.
type Phi struct {
	id       string
	Ty       Type
	Incoming []PhiEdge
}

func NewPhi(id string, ty Type, incoming ...PhiEdge) *Phi {
	return &Phi{id: id, Ty: ty, Incoming: incoming}
}

func (p *Phi) Opcode() Opcode { return OpPhi }
func (p *Phi) Name() string   { return p.id }
func (p *Phi) Type() Type     { return p.Ty }

// Br is both the conditional and unconditional branch instruction; Cond is
// nil for an unconditional jump, in which case False is also nil and True is
// the sole successor. This mirrors decaf.h's single visitBranchInst, which
// dispatches on BranchInst::isConditional() rather than two instruction
// kinds.
type Br struct {
	Cond        Value
	True, False *BasicBlock
}

func (b *Br) Opcode() Opcode { return OpBr }

// Select is ite(cond, x, y).
type Select struct {
	id        string
	Ty        Type
	Cond, X, Y Value
}

func NewSelect(id string, ty Type, cond, x, y Value) *Select {
	return &Select{id: id, Ty: ty, Cond: cond, X: x, Y: y}
}

func (s *Select) Opcode() Opcode { return OpSelect }
func (s *Select) Name() string   { return s.id }
func (s *Select) Type() Type     { return s.Ty }

// Return pops the active frame. Value is nil for a void return.
type Return struct {
	Value Value
}

func (r *Return) Opcode() Opcode { return OpReturn }

// Call invokes a function by name. Only calls to the intrinsics the
// interpreter recognizes are meaningful in this core; everything else raises
// Unimplemented or UnknownExternal. A Call with a non-void ResultType
// produces a value, following the same "instruction is a value" convention
// as every other producing instruction — though no intrinsic in this core
// currently returns one.
type Call struct {
	id         string
	ResultType Type
	Callee     string
	Args       []Value
}

func NewCall(id string, resultType Type, callee string, args ...Value) *Call {
	return &Call{id: id, ResultType: resultType, Callee: callee, Args: args}
}

func (c *Call) Opcode() Opcode { return OpCall }
func (c *Call) Name() string   { return c.id }
func (c *Call) Type() Type     { return c.ResultType }

// Load and GetElementPtr are memory/pointer instructions. This core has no
// memory model (Non-goals); they exist only so Unimplemented has concrete,
// realistic instructions to report on in tests.
type Load struct {
	id   string
	Ty   Type
	Addr Value
}

func NewLoad(id string, ty Type, addr Value) *Load { return &Load{id: id, Ty: ty, Addr: addr} }

func (l *Load) Opcode() Opcode { return OpLoad }
func (l *Load) Name() string   { return l.id }
func (l *Load) Type() Type     { return l.Ty }

type GetElementPtr struct {
	id    string
	Ty    Type
	Base  Value
	Index Value
}

func NewGetElementPtr(id string, ty Type, base, index Value) *GetElementPtr {
	return &GetElementPtr{id: id, Ty: ty, Base: base, Index: index}
}

func (g *GetElementPtr) Opcode() Opcode { return OpGetElementPtr }
func (g *GetElementPtr) Name() string   { return g.id }
func (g *GetElementPtr) Type() Type     { return g.Ty }
