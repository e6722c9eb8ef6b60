package ir

// BasicBlock is a single-entry, single-exit sequence of instructions. The
// last instruction of a reachable block is always a Br or a Return.
type BasicBlock struct {
	Name   string
	Index  int
	Instrs []Instruction
	Preds  []*BasicBlock
	Succs  []*BasicBlock
}

// Begin is the cursor position of the first instruction in the block.
func (b *BasicBlock) Begin() int { return 0 }

// Function is a single function: its parameters and the blocks of its body.
// Blocks[0] is the entry block.
type Function struct {
	Nm     string
	Params []*Param
	Blocks []*BasicBlock
}

func (f *Function) Name() string     { return f.Nm }
func (f *Function) Entry() *BasicBlock { return f.Blocks[0] }
