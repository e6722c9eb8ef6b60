// Package irtext is a minimal textual front end for package ir. It parses a
// small line-oriented assembly, just enough to get a *ir.Function into
// memory from a file for the CLI in cmd/decafsym — not a general assembler:
// one function per source text, no verifier pass, no type inference, no
// module-level declarations. Anything more capable belongs in a real
// front end built on top of package ir, not in this one.
//
// Grammar (informal):
//
//	func name(p1: i32, p2: i32) {
//	block:
//	    t1 = add i32 p1, p2
//	    t2 = icmp slt i32 t1, i32#0
//	    br t2, then, else
//	then:
//	    call decaf_assert(t2)
//	    ret
//	else:
//	    ret
//	}
//
// Values are referenced by name: a parameter name, a prior instruction's
// result name, or an integer literal written as width#value (e.g. i32#-1).
package irtext

import (
	"bufio"
	"fmt"
	"strconv"
	"strings"

	"decafsym/ir"
)

// Parse reads one function definition from src.
func Parse(src string) (*ir.Function, error) {
	p := &parser{
		lines: splitLines(src),
	}
	return p.parseFunction()
}

func splitLines(src string) []string {
	var out []string
	sc := bufio.NewScanner(strings.NewReader(src))
	for sc.Scan() {
		line := strings.TrimSpace(sc.Text())
		if line == "" || strings.HasPrefix(line, "//") {
			continue
		}
		out = append(out, line)
	}
	return out
}

type parser struct {
	lines []string
	pos   int

	builder *ir.Builder
	values  map[string]ir.Value
	blocks  map[string]*ir.BasicBlock

	// pendingBr collects branches so targets that appear later in the
	// source (forward references, e.g. a jump to a block defined further
	// down) resolve once every block has been seen.
	pendingBr []*pendingBranch
}

type pendingBranch struct {
	instr    *ir.Br
	trueName string
	falseName string
}

func (p *parser) next() (string, bool) {
	if p.pos >= len(p.lines) {
		return "", false
	}
	line := p.lines[p.pos]
	p.pos++
	return line, true
}

func (p *parser) peek() (string, bool) {
	if p.pos >= len(p.lines) {
		return "", false
	}
	return p.lines[p.pos], true
}

func (p *parser) parseFunction() (*ir.Function, error) {
	header, ok := p.next()
	if !ok {
		return nil, fmt.Errorf("irtext: empty input")
	}
	name, params, err := parseHeader(header)
	if err != nil {
		return nil, err
	}

	p.builder = ir.NewBuilder(name, params...)
	p.values = make(map[string]ir.Value, len(params))
	p.blocks = make(map[string]*ir.BasicBlock)
	for _, prm := range params {
		p.values[prm.Name()] = prm
	}

	for {
		line, ok := p.peek()
		if !ok {
			return nil, fmt.Errorf("irtext: unexpected end of input, expected block or '}'")
		}
		if line == "}" {
			p.next()
			break
		}
		if err := p.parseBlock(); err != nil {
			return nil, err
		}
	}

	for _, pb := range p.pendingBr {
		trueBlk, ok := p.blocks[pb.trueName]
		if !ok {
			return nil, fmt.Errorf("irtext: br target %q not defined", pb.trueName)
		}
		pb.instr.True = trueBlk
		if pb.falseName != "" {
			falseBlk, ok := p.blocks[pb.falseName]
			if !ok {
				return nil, fmt.Errorf("irtext: br target %q not defined", pb.falseName)
			}
			pb.instr.False = falseBlk
		}
	}

	fn := p.builder.Build()
	wireEdges(fn)
	return fn, nil
}

// wireEdges derives Preds/Succs from each block's trailing Br, since the
// text form only spells out branch targets, not the reverse edges the
// interpreter doesn't need but a front end consumer inspecting the CFG
// might.
func wireEdges(fn *ir.Function) {
	for _, blk := range fn.Blocks {
		if len(blk.Instrs) == 0 {
			continue
		}
		br, ok := blk.Instrs[len(blk.Instrs)-1].(*ir.Br)
		if !ok {
			continue
		}
		connect(blk, br.True)
		if br.False != nil {
			connect(blk, br.False)
		}
	}
}

func connect(from, to *ir.BasicBlock) {
	if to == nil {
		return
	}
	from.Succs = append(from.Succs, to)
	to.Preds = append(to.Preds, from)
}

// parseHeader parses "func name(p1: i32, p2: i1) {".
func parseHeader(line string) (string, []*ir.Param, error) {
	if !strings.HasPrefix(line, "func ") {
		return "", nil, fmt.Errorf("irtext: expected \"func\", got %q", line)
	}
	line = strings.TrimSuffix(strings.TrimSpace(strings.TrimPrefix(line, "func ")), "{")
	line = strings.TrimSpace(line)

	open := strings.IndexByte(line, '(')
	closeIdx := strings.LastIndexByte(line, ')')
	if open < 0 || closeIdx < open {
		return "", nil, fmt.Errorf("irtext: malformed function header %q", line)
	}
	name := strings.TrimSpace(line[:open])
	if name == "" {
		return "", nil, fmt.Errorf("irtext: function header missing a name")
	}

	paramsSrc := strings.TrimSpace(line[open+1 : closeIdx])
	var params []*ir.Param
	if paramsSrc != "" {
		for _, part := range strings.Split(paramsSrc, ",") {
			part = strings.TrimSpace(part)
			nameType := strings.SplitN(part, ":", 2)
			if len(nameType) != 2 {
				return "", nil, fmt.Errorf("irtext: malformed parameter %q", part)
			}
			pname := strings.TrimSpace(nameType[0])
			ty, err := parseType(strings.TrimSpace(nameType[1]))
			if err != nil {
				return "", nil, err
			}
			params = append(params, &ir.Param{Nm: pname, Ty: ty})
		}
	}
	return name, params, nil
}

func parseType(s string) (ir.Type, error) {
	if strings.HasPrefix(s, "i") {
		width, err := strconv.Atoi(s[1:])
		if err == nil {
			return ir.IntType{Width: width}, nil
		}
	}
	return nil, fmt.Errorf("irtext: unsupported type %q", s)
}

// parseBlock parses "label:" followed by its instructions, up to (but not
// including) the next label line, closing "}", or end of input.
func (p *parser) parseBlock() error {
	header, _ := p.next()
	label := strings.TrimSuffix(header, ":")
	if label == header {
		return fmt.Errorf("irtext: expected block label, got %q", header)
	}
	blk := p.builder.Block(label)
	p.blocks[label] = blk

	for {
		line, ok := p.peek()
		if !ok || line == "}" || isLabel(line) {
			return nil
		}
		p.next()
		if err := p.parseInstruction(blk, line); err != nil {
			return err
		}
	}
}

func isLabel(line string) bool {
	return strings.HasSuffix(line, ":") && !strings.Contains(line, " ")
}

func (p *parser) parseInstruction(blk *ir.BasicBlock, line string) error {
	if strings.HasPrefix(line, "ret") {
		rest := strings.TrimSpace(strings.TrimPrefix(line, "ret"))
		var v ir.Value
		if rest != "" {
			var err error
			v, err = p.resolve(rest)
			if err != nil {
				return err
			}
		}
		p.builder.Emit(blk, &ir.Return{Value: v})
		return nil
	}
	if strings.HasPrefix(line, "br ") {
		return p.parseBr(blk, strings.TrimSpace(strings.TrimPrefix(line, "br")))
	}
	if strings.HasPrefix(line, "call ") {
		return p.parseCall(blk, strings.TrimSpace(strings.TrimPrefix(line, "call")))
	}

	eq := strings.Index(line, "=")
	if eq < 0 {
		return fmt.Errorf("irtext: unrecognized instruction %q", line)
	}
	name := strings.TrimSpace(line[:eq])
	rhs := strings.TrimSpace(line[eq+1:])
	return p.parseAssignment(blk, name, rhs)
}

func (p *parser) parseAssignment(blk *ir.BasicBlock, name, rhs string) error {
	fields := strings.Fields(rhs)
	if len(fields) == 0 {
		return fmt.Errorf("irtext: empty right-hand side for %q", name)
	}

	switch fields[0] {
	case "phi":
		return p.parsePhi(blk, name, fields)
	case "select":
		return p.parseSelect(blk, name, fields)
	case "icmp":
		return p.parseICmp(blk, name, fields)
	default:
		return p.parseBinOp(blk, name, fields)
	}
}

var binOpNames = map[string]ir.BinOpKind{
	"add": ir.Add, "sub": ir.Sub, "mul": ir.Mul,
	"udiv": ir.UDiv, "sdiv": ir.SDiv, "urem": ir.URem, "srem": ir.SRem,
}

// parseBinOp parses "<op> <type> <x>, <y>", e.g. "add i32 a, b".
func (p *parser) parseBinOp(blk *ir.BasicBlock, name string, fields []string) error {
	kind, ok := binOpNames[fields[0]]
	if !ok {
		return fmt.Errorf("irtext: unrecognized opcode %q", fields[0])
	}
	if len(fields) < 4 {
		return fmt.Errorf("irtext: malformed %s instruction", fields[0])
	}
	ty, err := parseType(fields[1])
	if err != nil {
		return err
	}
	x, y, err := p.resolvePair(strings.Join(fields[2:], " "))
	if err != nil {
		return err
	}
	instr := ir.NewBinOp(name, ty, kind, x, y)
	p.builder.Emit(blk, instr)
	p.values[name] = instr
	return nil
}

var predicateNames = map[string]ir.Predicate{
	"eq": ir.EQ, "ne": ir.NE,
	"ult": ir.ULT, "ule": ir.ULE, "ugt": ir.UGT, "uge": ir.UGE,
	"slt": ir.SLT, "sle": ir.SLE, "sgt": ir.SGT, "sge": ir.SGE,
}

// parseICmp parses "icmp <pred> <type> <x>, <y>".
func (p *parser) parseICmp(blk *ir.BasicBlock, name string, fields []string) error {
	if len(fields) < 5 {
		return fmt.Errorf("irtext: malformed icmp instruction")
	}
	pred, ok := predicateNames[fields[1]]
	if !ok {
		return fmt.Errorf("irtext: unrecognized icmp predicate %q", fields[1])
	}
	x, y, err := p.resolvePair(strings.Join(fields[3:], " "))
	if err != nil {
		return err
	}
	instr := ir.NewICmp(name, pred, x, y)
	p.builder.Emit(blk, instr)
	p.values[name] = instr
	return nil
}

// parseSelect parses "select <type> <cond>, <x>, <y>".
func (p *parser) parseSelect(blk *ir.BasicBlock, name string, fields []string) error {
	if len(fields) < 3 {
		return fmt.Errorf("irtext: malformed select instruction")
	}
	ty, err := parseType(fields[1])
	if err != nil {
		return err
	}
	parts := strings.Split(strings.Join(fields[2:], " "), ",")
	if len(parts) != 3 {
		return fmt.Errorf("irtext: select requires exactly 3 operands")
	}
	cond, err := p.resolve(strings.TrimSpace(parts[0]))
	if err != nil {
		return err
	}
	x, err := p.resolve(strings.TrimSpace(parts[1]))
	if err != nil {
		return err
	}
	y, err := p.resolve(strings.TrimSpace(parts[2]))
	if err != nil {
		return err
	}
	instr := ir.NewSelect(name, ty, cond, x, y)
	p.builder.Emit(blk, instr)
	p.values[name] = instr
	return nil
}

// parsePhi parses "phi <type> [pred1: v1], [pred2: v2], ...".
func (p *parser) parsePhi(blk *ir.BasicBlock, name string, fields []string) error {
	if len(fields) < 2 {
		return fmt.Errorf("irtext: malformed phi instruction")
	}
	ty, err := parseType(fields[1])
	if err != nil {
		return err
	}
	rest := strings.Join(fields[2:], " ")
	var edges []ir.PhiEdge
	for _, part := range strings.Split(rest, "],") {
		part = strings.TrimSpace(strings.Trim(part, "[]"))
		if part == "" {
			continue
		}
		kv := strings.SplitN(part, ":", 2)
		if len(kv) != 2 {
			return fmt.Errorf("irtext: malformed phi edge %q", part)
		}
		predName := strings.TrimSpace(kv[0])
		predBlk, ok := p.blocks[predName]
		if !ok {
			return fmt.Errorf("irtext: phi refers to undefined block %q", predName)
		}
		v, err := p.resolve(strings.TrimSpace(kv[1]))
		if err != nil {
			return err
		}
		edges = append(edges, ir.PhiEdge{Block: predBlk, Value: v})
	}
	instr := ir.NewPhi(name, ty, edges...)
	p.builder.Emit(blk, instr)
	p.values[name] = instr
	return nil
}

// parseBr parses either "cond, trueLabel, falseLabel" or "trueLabel" for an
// unconditional jump.
func (p *parser) parseBr(blk *ir.BasicBlock, rest string) error {
	parts := strings.Split(rest, ",")
	for i := range parts {
		parts[i] = strings.TrimSpace(parts[i])
	}
	instr := &ir.Br{}
	var pb pendingBranch
	switch len(parts) {
	case 1:
		pb.trueName = parts[0]
	case 3:
		cond, err := p.resolve(parts[0])
		if err != nil {
			return err
		}
		instr.Cond = cond
		pb.trueName = parts[1]
		pb.falseName = parts[2]
	default:
		return fmt.Errorf("irtext: malformed br instruction %q", rest)
	}
	pb.instr = instr
	p.pendingBr = append(p.pendingBr, &pb)
	p.builder.Emit(blk, instr)
	return nil
}

// parseCall parses "name(arg1, arg2, ...)" or "result = name(...)".
func (p *parser) parseCall(blk *ir.BasicBlock, rest string) error {
	var resultName string
	if eq := strings.Index(rest, "="); eq >= 0 {
		resultName = strings.TrimSpace(rest[:eq])
		rest = strings.TrimSpace(rest[eq+1:])
	}
	open := strings.IndexByte(rest, '(')
	closeIdx := strings.LastIndexByte(rest, ')')
	if open < 0 || closeIdx < open {
		return fmt.Errorf("irtext: malformed call %q", rest)
	}
	callee := strings.TrimSpace(rest[:open])
	argsSrc := strings.TrimSpace(rest[open+1 : closeIdx])

	var args []ir.Value
	if argsSrc != "" {
		for _, a := range strings.Split(argsSrc, ",") {
			v, err := p.resolve(strings.TrimSpace(a))
			if err != nil {
				return err
			}
			args = append(args, v)
		}
	}

	id := resultName
	if id == "" {
		id = p.builder.NextID("call")
	}
	instr := ir.NewCall(id, ir.VoidType{}, callee, args...)
	p.builder.Emit(blk, instr)
	if resultName != "" {
		p.values[resultName] = instr
	}
	return nil
}

// resolve looks up a value reference: an integer literal ("i32#-1"), a
// prior binding, or a parameter.
func (p *parser) resolve(ref string) (ir.Value, error) {
	if hash := strings.IndexByte(ref, '#'); hash > 0 && ref[0] == 'i' {
		width, err := strconv.Atoi(ref[1:hash])
		if err == nil {
			n, err := strconv.ParseInt(ref[hash+1:], 10, 64)
			if err != nil {
				return nil, fmt.Errorf("irtext: malformed integer literal %q: %w", ref, err)
			}
			return ir.NewIntConst(width, n), nil
		}
	}
	if v, ok := p.values[ref]; ok {
		return v, nil
	}
	return nil, fmt.Errorf("irtext: undefined value %q", ref)
}

func (p *parser) resolvePair(s string) (ir.Value, ir.Value, error) {
	parts := strings.SplitN(s, ",", 2)
	if len(parts) != 2 {
		return nil, nil, fmt.Errorf("irtext: expected two comma-separated operands, got %q", s)
	}
	x, err := p.resolve(strings.TrimSpace(parts[0]))
	if err != nil {
		return nil, nil, err
	}
	y, err := p.resolve(strings.TrimSpace(parts[1]))
	if err != nil {
		return nil, nil, err
	}
	return x, y, nil
}
