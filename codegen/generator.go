// Package codegen implements the code generation core: a tree-walking
// visitor that lowers an already-semantically-analyzed aslc syntax tree
// into linear three-address code.
//
// The generator is structured the way the teacher's compiler/compiler.go
// is structured — a big per-node-kind switch, one emit-style helper per
// concern, and a CodeAttribs triple threaded bottom-up through expression
// visits — but every case lowers to [ir.Instruction] TAC instead of
// stack-machine bytecode, and enter/leave scope operates on the shared
// [SymbolTable] collaborator instead of an owned symbol table.
//
// The generator never imports the parser or lexer: it only ever sees the
// already-built *ast.Program plus the SymbolTable/TypeManager/Decorations
// interfaces a prior semantic-analysis pass populated.
package codegen

import (
	"fmt"
	"strconv"

	"github.com/dr8co/aslc/ast"
	"github.com/dr8co/aslc/counter"
	"github.com/dr8co/aslc/ir"
	"github.com/dr8co/aslc/typesys"
)

// unit is the scale-factor literal used to turn an array index into a
// cell offset; every type in this language occupies one cell, so the
// scale is always 1, but the MUL is still emitted, matching the original
// compiler's unconditional UNIT-scaling step.
const unit = "1"

// resultParam is the synthetic leading parameter name a non-void
// subroutine stores its return value through.
const resultParam = "_result"

// Generator lowers a decorated *ast.Program into a codegen.Program of TAC.
type Generator struct {
	symbols SymbolTable
	types   TypeManager
	deco    Decorations
	cnt     *counter.Counter

	currentReturn *typesys.Type
}

// New creates a Generator over the given collaborators.
func New(symbols SymbolTable, types TypeManager, deco Decorations) *Generator {
	return &Generator{symbols: symbols, types: types, deco: deco, cnt: counter.New()}
}

// Generate lowers every function in prog into a Subroutine and returns
// the assembled Program.
func (g *Generator) Generate(prog *ast.Program) *Program {
	out := NewProgram()
	for _, fn := range prog.Functions {
		out.AddSubroutine(g.genFunction(fn))
	}
	return out
}

func (g *Generator) genFunction(fn *ast.Function) *Subroutine {
	g.cnt.Reset()
	g.symbols.PushScope(fn.Name)
	defer g.symbols.PopScope()

	sig, _ := g.symbols.FunctionSignature(fn.Name)
	if sig != nil {
		g.currentReturn = sig.Return
	} else {
		g.currentReturn = nil
	}

	sub := NewSubroutine(fn.Name)
	if fn.ReturnType != nil {
		sub.AddParam(resultParam)
	}
	for _, p := range fn.Params {
		sub.AddParam(p.Name)
	}
	for _, d := range fn.Decls {
		sub.AddLocal(d.Name)
	}

	var body ir.List
	for _, s := range fn.Body {
		body = body.Concat(g.genStatement(s))
	}
	body = body.Append(ir.Make(ir.OpReturn))
	sub.SetBody(body)
	return sub
}

func (g *Generator) genStatement(s ast.Statement) ir.List {
	switch n := s.(type) {
	case *ast.Assignment:
		return g.genAssignment(n)
	case *ast.If:
		return g.genIf(n)
	case *ast.While:
		return g.genWhile(n)
	case *ast.Read:
		return g.genRead(n)
	case *ast.WriteExpr:
		return g.genWriteExpr(n)
	case *ast.WriteString:
		return g.genWriteString(n)
	case *ast.Return:
		return g.genReturn(n)
	case *ast.ProcCall:
		attr := g.genCall(n.Name, n.Args)
		return attr.Code
	default:
		panic(fmt.Sprintf("codegen: unhandled statement %T", s))
	}
}

func (g *Generator) genAssignment(a *ast.Assignment) ir.List {
	leftType := g.symbols.TypeOf(a.Left.Name)

	if a.Left.Index == nil && g.types.IsArray(leftType) {
		return g.genArrayCopy(a.Left.Name, a.Value, leftType)
	}

	valAttr := g.genExpression(a.Value)
	code := valAttr.Code
	valAddr := valAttr.Addr

	elemType := leftType
	if a.Left.Index != nil {
		elemType = leftType.Elem
	}
	coercedAddr, coerceCode := g.coerce(valAddr, g.deco.TypeOf(a.Value), elemType)
	code = code.Concat(coerceCode)
	valAddr = coercedAddr

	if a.Left.Index == nil {
		return code.Append(ir.Make(ir.OpStore, a.Left.Name, valAddr))
	}

	idxAttr := g.genExpression(a.Left.Index)
	code = code.Concat(idxAttr.Code)
	scaled, scaleCode := g.scaleOffset(idxAttr.Addr)
	code = code.Concat(scaleCode)
	base, baseCode := g.arrayBase(a.Left.Name)
	code = code.Concat(baseCode)
	return code.Append(ir.Make(ir.OpStoreX, base, scaled, valAddr))
}

// genArrayCopy lowers a whole-array assignment `dst = src;` into an
// explicit element-wise copy loop: the array-to-array case has no single
// TAC instruction, so the generator builds its own bounded while loop.
func (g *Generator) genArrayCopy(dstName string, value ast.Expression, arrType *typesys.Type) ir.List {
	srcIdent, ok := value.(*ast.Ident)
	if !ok {
		panic("codegen: array assignment requires a plain array variable on the right-hand side")
	}
	srcName := srcIdent.Name
	count := g.types.ArrayElementCount(arrType)

	indexTemp := g.cnt.NewTemp()
	sizeTemp := g.cnt.NewTemp()
	var code ir.List
	code = code.Append(ir.Make(ir.OpLoad, indexTemp, "0"))
	code = code.Append(ir.Make(ir.OpLoad, sizeTemp, strconv.Itoa(count)))

	srcBase, srcCode := g.arrayBase(srcName)
	code = code.Concat(srcCode)
	dstBase, dstCode := g.arrayBase(dstName)
	code = code.Concat(dstCode)

	startLabel := g.cnt.NewLabel("WHILE")
	endLabel := g.cnt.NewLabel("WHILE")
	code = code.Append(ir.Make(ir.OpLabel, startLabel))

	comparisonTemp := g.cnt.NewTemp()
	code = code.Append(ir.Make(ir.OpLT, comparisonTemp, indexTemp, sizeTemp))
	code = code.Append(ir.Make(ir.OpIfZ, comparisonTemp, endLabel))

	scaled, scaleCode := g.scaleOffset(indexTemp)
	code = code.Concat(scaleCode)

	valueTemp := g.cnt.NewTemp()
	code = code.Append(ir.Make(ir.OpLoadX, valueTemp, srcBase, scaled))
	code = code.Append(ir.Make(ir.OpStoreX, dstBase, scaled, valueTemp))

	oneTemp := g.cnt.NewTemp()
	code = code.Append(ir.Make(ir.OpLoad, oneTemp, "1"))
	code = code.Append(ir.Make(ir.OpAdd, indexTemp, indexTemp, oneTemp))
	code = code.Append(ir.Make(ir.OpGoto, startLabel))
	code = code.Append(ir.Make(ir.OpLabel, endLabel))
	return code
}

func (g *Generator) genIf(n *ast.If) ir.List {
	condAttr := g.genExpression(n.Cond)
	code := condAttr.Code

	elseLabel := g.cnt.NewLabel("IF")
	code = code.Append(ir.Make(ir.OpIfZ, condAttr.Addr, elseLabel))
	for _, s := range n.Then {
		code = code.Concat(g.genStatement(s))
	}

	if n.Else == nil {
		return code.Append(ir.Make(ir.OpLabel, elseLabel))
	}

	endLabel := g.cnt.NewLabel("IF")
	code = code.Append(ir.Make(ir.OpGoto, endLabel))
	code = code.Append(ir.Make(ir.OpLabel, elseLabel))
	for _, s := range n.Else {
		code = code.Concat(g.genStatement(s))
	}
	return code.Append(ir.Make(ir.OpLabel, endLabel))
}

func (g *Generator) genWhile(n *ast.While) ir.List {
	startLabel := g.cnt.NewLabel("WHILE")
	endLabel := g.cnt.NewLabel("WHILE")

	var code ir.List
	code = code.Append(ir.Make(ir.OpLabel, startLabel))
	condAttr := g.genExpression(n.Cond)
	code = code.Concat(condAttr.Code)
	code = code.Append(ir.Make(ir.OpIfZ, condAttr.Addr, endLabel))
	for _, s := range n.Body {
		code = code.Concat(g.genStatement(s))
	}
	code = code.Append(ir.Make(ir.OpGoto, startLabel))
	return code.Append(ir.Make(ir.OpLabel, endLabel))
}

func (g *Generator) genRead(n *ast.Read) ir.List {
	varType := g.symbols.TypeOf(n.Left.Name)
	elemType := varType
	if n.Left.Index != nil {
		elemType = varType.Elem
	}
	op := g.readOpFor(elemType)

	if n.Left.Index == nil {
		return ir.List{ir.Make(op, n.Left.Name)}
	}

	idxAttr := g.genExpression(n.Left.Index)
	code := idxAttr.Code
	scaled, scaleCode := g.scaleOffset(idxAttr.Addr)
	code = code.Concat(scaleCode)

	valueTemp := g.cnt.NewTemp()
	code = code.Append(ir.Make(op, valueTemp))
	base, baseCode := g.arrayBase(n.Left.Name)
	code = code.Concat(baseCode)
	return code.Append(ir.Make(ir.OpStoreX, base, scaled, valueTemp))
}

func (g *Generator) readOpFor(t *typesys.Type) ir.Opcode {
	switch {
	case g.types.IsFloat(t):
		return ir.OpReadFloat
	case g.types.IsCharacter(t):
		return ir.OpReadChar
	default:
		return ir.OpReadInt
	}
}

func (g *Generator) genWriteExpr(n *ast.WriteExpr) ir.List {
	attr := g.genExpression(n.Value)
	op := g.writeOpFor(g.deco.TypeOf(n.Value))
	return attr.Code.Append(ir.Make(op, attr.Addr))
}

func (g *Generator) writeOpFor(t *typesys.Type) ir.Opcode {
	switch {
	case g.types.IsFloat(t):
		return ir.OpWriteFloat
	case g.types.IsCharacter(t):
		return ir.OpWriteChar
	default:
		return ir.OpWriteInt
	}
}

// genWriteString lowers a `write "literal";` statement. \n becomes a
// single WRITELN; \t, \", and \\ become a CHLOAD of the two-character
// escape followed by WRITEC, preserving the escape as written; any other
// escape sequence degrades to the bare character following the backslash.
func (g *Generator) genWriteString(n *ast.WriteString) ir.List {
	inner := n.Raw[1 : len(n.Raw)-1]

	var code ir.List
	for i := 0; i < len(inner); {
		ch := inner[i]
		if ch != '\\' || i+1 >= len(inner) {
			code = code.Concat(g.genWriteChar(string(ch)))
			i++
			continue
		}

		next := inner[i+1]
		switch next {
		case 'n':
			code = code.Append(ir.Make(ir.OpWriteLn))
		case 't', '"', '\\':
			code = code.Concat(g.genWriteChar(`\` + string(next)))
		default:
			code = code.Concat(g.genWriteChar(string(next)))
		}
		i += 2
	}
	return code
}

func (g *Generator) genWriteChar(lit string) ir.List {
	t := g.cnt.NewTemp()
	return ir.List{
		ir.Make(ir.OpChLoad, t, lit),
		ir.Make(ir.OpWriteChar, t),
	}
}

func (g *Generator) genReturn(n *ast.Return) ir.List {
	if n.Value == nil {
		return ir.List{ir.Make(ir.OpReturn)}
	}
	attr := g.genExpression(n.Value)
	code := attr.Code
	valAddr, coerceCode := g.coerce(attr.Addr, g.deco.TypeOf(n.Value), g.currentReturn)
	code = code.Concat(coerceCode)
	code = code.Append(ir.Make(ir.OpStore, resultParam, valAddr))
	return code.Append(ir.Make(ir.OpReturn))
}

// genCall is the single calling sequence shared by a statement-level
// procedure call and an expression-level functional call. When the callee
// returns a value, the caller first reserves a fresh temporary with a
// bare PUSH (passed as the leading _result parameter), then PUSHes every
// argument in order, CALLs, discards every pushed argument with one
// 0-arg POP apiece, and, for a value-returning callee, finally POPs the
// produced value back out.
func (g *Generator) genCall(name string, args []ast.Expression) CodeAttribs {
	sig, ok := g.symbols.FunctionSignature(name)
	if !ok {
		panic(fmt.Sprintf("codegen: call to undefined function %q", name))
	}

	var code ir.List
	var resultTemp string

	if sig.Return != nil {
		resultTemp = g.cnt.NewTemp()
		code = code.Append(ir.Make(ir.OpPush))
	}

	paramTypes := g.types.FunctionParameterTypes(sig)
	for i, arg := range args {
		attr := g.genExpression(arg)
		code = code.Concat(attr.Code)
		addr := attr.Addr
		if i < len(paramTypes) {
			coerced, coerceCode := g.coerce(addr, g.deco.TypeOf(arg), paramTypes[i])
			code = code.Concat(coerceCode)
			addr = coerced
		}
		code = code.Append(ir.Make(ir.OpPush, addr))
	}

	code = code.Append(ir.Make(ir.OpCall, name))

	for range args {
		code = code.Append(ir.Make(ir.OpPop))
	}

	if sig.Return != nil {
		code = code.Append(ir.Make(ir.OpPop, resultTemp))
		return CodeAttribs{Addr: resultTemp, Code: code}
	}
	return CodeAttribs{Code: code}
}

// genExpression visits e as an r-value: Addr always holds the computed
// value and Offs is always empty, per the CodeAttribs convention.
func (g *Generator) genExpression(e ast.Expression) CodeAttribs {
	switch n := e.(type) {
	case *ast.IntegerLiteral:
		return g.genLiteral(strconv.FormatInt(n.Value, 10))
	case *ast.FloatLiteral:
		return g.genLiteral(strconv.FormatFloat(n.Value, 'g', -1, 64))
	case *ast.CharLiteral:
		return g.genLiteral(n.Value)
	case *ast.BoolLiteral:
		if n.Value {
			return g.genLiteral("1")
		}
		return g.genLiteral("0")
	case *ast.Ident:
		return CodeAttribs{Addr: n.Name}
	case *ast.Indexer:
		return g.genIndexer(n)
	case *ast.Unary:
		return g.genUnary(n)
	case *ast.Arithmetic:
		return g.genArithmetic(n)
	case *ast.Relational:
		return g.genRelational(n)
	case *ast.Logical:
		return g.genLogical(n)
	case *ast.FunctionalCall:
		return g.genCall(n.Name, n.Args)
	default:
		panic(fmt.Sprintf("codegen: unhandled expression %T", e))
	}
}

func (g *Generator) genLiteral(value string) CodeAttribs {
	t := g.cnt.NewTemp()
	return CodeAttribs{Addr: t, Code: ir.List{ir.Make(ir.OpLoad, t, value)}}
}

func (g *Generator) genIndexer(n *ast.Indexer) CodeAttribs {
	baseIdent, ok := n.Base.(*ast.Ident)
	if !ok {
		panic("codegen: indexed expression's base must be a plain array identifier")
	}

	idxAttr := g.genExpression(n.Index)
	code := idxAttr.Code
	scaled, scaleCode := g.scaleOffset(idxAttr.Addr)
	code = code.Concat(scaleCode)

	base, baseCode := g.arrayBase(baseIdent.Name)
	code = code.Concat(baseCode)

	result := g.cnt.NewTemp()
	code = code.Append(ir.Make(ir.OpLoadX, result, base, scaled))
	return CodeAttribs{Addr: result, Code: code}
}

func (g *Generator) genUnary(n *ast.Unary) CodeAttribs {
	attr := g.genExpression(n.Right)
	code := attr.Code
	result := g.cnt.NewTemp()
	switch n.Operator {
	case "-":
		code = code.Append(ir.Make(ir.OpUMinus, result, attr.Addr))
	case "not":
		code = code.Append(ir.Make(ir.OpNot, result, attr.Addr))
	default:
		panic("codegen: unknown unary operator " + n.Operator)
	}
	return CodeAttribs{Addr: result, Code: code}
}

var arithmeticOps = map[string]ir.Opcode{
	"+": ir.OpAdd,
	"-": ir.OpSub,
	"*": ir.OpMul,
	"/": ir.OpDiv,
	"%": ir.OpMod,
}

func (g *Generator) genArithmetic(n *ast.Arithmetic) CodeAttribs {
	leftAttr := g.genExpression(n.Left)
	rightAttr := g.genExpression(n.Right)
	code := leftAttr.Code.Concat(rightAttr.Code)

	leftAddr, rightAddr, coerceCode := g.coercePair(
		leftAttr.Addr, rightAttr.Addr, g.deco.TypeOf(n.Left), g.deco.TypeOf(n.Right))
	code = code.Concat(coerceCode)

	op, ok := arithmeticOps[n.Operator]
	if !ok {
		panic("codegen: unknown arithmetic operator " + n.Operator)
	}
	result := g.cnt.NewTemp()
	code = code.Append(ir.Make(op, result, leftAddr, rightAddr))
	return CodeAttribs{Addr: result, Code: code}
}

// genRelational implements every relational operator with only EQ, LE,
// and LT primitives: != is EQ followed by NOT, > is LE followed by NOT,
// and >= is LT followed by NOT. There is deliberately no dedicated
// not-equal/greater-than opcode — the negation pattern is structural.
func (g *Generator) genRelational(n *ast.Relational) CodeAttribs {
	leftAttr := g.genExpression(n.Left)
	rightAttr := g.genExpression(n.Right)
	code := leftAttr.Code.Concat(rightAttr.Code)

	leftAddr, rightAddr, coerceCode := g.coercePair(
		leftAttr.Addr, rightAttr.Addr, g.deco.TypeOf(n.Left), g.deco.TypeOf(n.Right))
	code = code.Concat(coerceCode)

	result := g.cnt.NewTemp()
	switch n.Operator {
	case "==":
		code = code.Append(ir.Make(ir.OpEqual, result, leftAddr, rightAddr))
	case "<=":
		code = code.Append(ir.Make(ir.OpLE, result, leftAddr, rightAddr))
	case "<":
		code = code.Append(ir.Make(ir.OpLT, result, leftAddr, rightAddr))
	case "!=":
		code = code.Append(ir.Make(ir.OpEqual, result, leftAddr, rightAddr))
		code = code.Append(ir.Make(ir.OpNot, result, result))
	case ">":
		code = code.Append(ir.Make(ir.OpLE, result, leftAddr, rightAddr))
		code = code.Append(ir.Make(ir.OpNot, result, result))
	case ">=":
		code = code.Append(ir.Make(ir.OpLT, result, leftAddr, rightAddr))
		code = code.Append(ir.Make(ir.OpNot, result, result))
	default:
		panic("codegen: unknown relational operator " + n.Operator)
	}
	return CodeAttribs{Addr: result, Code: code}
}

// genLogical evaluates both operands unconditionally — this language does
// not short-circuit "and"/"or", matching the original compiler it was
// distilled from.
func (g *Generator) genLogical(n *ast.Logical) CodeAttribs {
	leftAttr := g.genExpression(n.Left)
	rightAttr := g.genExpression(n.Right)
	code := leftAttr.Code.Concat(rightAttr.Code)

	op := ir.OpAnd
	if n.Operator == "or" {
		op = ir.OpOr
	}
	result := g.cnt.NewTemp()
	code = code.Append(ir.Make(op, result, leftAttr.Addr, rightAttr.Addr))
	return CodeAttribs{Addr: result, Code: code}
}

// scaleOffset multiplies an index value by the cell-size unit, producing
// a byte/cell offset suitable for LOADX/STOREX.
func (g *Generator) scaleOffset(index string) (string, ir.List) {
	unitTemp := g.cnt.NewTemp()
	scaleTemp := g.cnt.NewTemp()
	code := ir.List{
		ir.Make(ir.OpLoad, unitTemp, unit),
		ir.Make(ir.OpMul, scaleTemp, index, unitTemp),
	}
	return scaleTemp, code
}

// arrayBase resolves the base address to index into. A reference-class
// (parameter) array's base must first be LOADed into a temporary; a
// value-class (local) array's name is already a usable base address.
func (g *Generator) arrayBase(name string) (string, ir.List) {
	if g.symbols.IsReference(name) {
		t := g.cnt.NewTemp()
		return t, ir.List{ir.Make(ir.OpLoad, t, name)}
	}
	return name, nil
}

// coerce inserts an explicit FLOAT instruction wherever a float context
// meets an integer operand; it is a no-op in every other case.
func (g *Generator) coerce(addr string, from, to *typesys.Type) (string, ir.List) {
	if from == nil || to == nil {
		return addr, nil
	}
	if g.types.IsFloat(to) && g.types.IsInteger(from) {
		t := g.cnt.NewTemp()
		return t, ir.List{ir.Make(ir.OpFloat, t, addr)}
	}
	return addr, nil
}

// coercePair applies coerce to whichever side of a binary operation is
// the integer operand when the other side is float.
func (g *Generator) coercePair(leftAddr, rightAddr string, leftT, rightT *typesys.Type) (string, string, ir.List) {
	if g.types.IsFloat(rightT) && g.types.IsInteger(leftT) {
		addr, code := g.coerce(leftAddr, leftT, rightT)
		return addr, rightAddr, code
	}
	if g.types.IsFloat(leftT) && g.types.IsInteger(rightT) {
		addr, code := g.coerce(rightAddr, rightT, leftT)
		return leftAddr, addr, code
	}
	return leftAddr, rightAddr, nil
}
