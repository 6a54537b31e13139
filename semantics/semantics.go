// Package semantics implements the one-pass semantic analyzer that sits
// between the parser and the code generator: it populates a symbol table
// of function signatures, parameters, and locals, and decorates every
// expression node in the tree with its static [typesys.Type].
//
// This is the "external collaborator" spec.md's generation core talks to
// only through the codegen.SymbolTable/codegen.Decorations interfaces; it
// is adapted from the teacher's tree-walking dispatch idiom in
// compiler/compiler.go (a big switch over ast.Node, one case per node
// kind) applied to type-checking instead of bytecode emission.
package semantics

import (
	"fmt"

	"github.com/dr8co/aslc/ast"
	"github.com/dr8co/aslc/symtab"
	"github.com/dr8co/aslc/typesys"
)

// Decorations holds the static type computed for every expression node
// visited by Analyze. It implements codegen.Decorations.
type Decorations struct {
	types map[ast.Expression]*typesys.Type
}

// TypeOf returns e's static type, or nil if e was never visited.
func (d *Decorations) TypeOf(e ast.Expression) *typesys.Type {
	return d.types[e]
}

func (d *Decorations) set(e ast.Expression, t *typesys.Type) *typesys.Type {
	d.types[e] = t
	return t
}

// analyzer carries the state threaded through one Analyze call.
type analyzer struct {
	symbols *symtab.Manager
	deco    *Decorations
	errors  []string

	currentFn *ast.Function
}

// Analyze type-checks prog, returning the populated symbol table, the
// expression-type decorations, and any errors found. A non-empty error
// list means the symbol table and decorations are necessarily incomplete;
// callers should not run codegen over a tree with errors.
func Analyze(prog *ast.Program) (*symtab.Manager, *Decorations, []string) {
	a := &analyzer{
		symbols: symtab.NewManager(),
		deco:    &Decorations{types: make(map[ast.Expression]*typesys.Type)},
	}

	for _, fn := range prog.Functions {
		a.registerSignature(fn)
	}
	for _, fn := range prog.Functions {
		a.analyzeFunction(fn)
	}
	return a.symbols, a.deco, a.errors
}

func (a *analyzer) errorf(format string, args ...any) {
	a.errors = append(a.errors, fmt.Sprintf(format, args...))
}

func (a *analyzer) resolveType(tn *ast.TypeName) *typesys.Type {
	if tn.IsArray {
		elem := typesys.FromName(tn.ElemName)
		if elem == nil {
			a.errorf("unknown element type %q", tn.ElemName)
			elem = typesys.IntType
		}
		return typesys.NewArray(elem, tn.ArraySize)
	}
	t := typesys.FromName(tn.Name)
	if t == nil {
		a.errorf("unknown type %q", tn.Name)
		return typesys.IntType
	}
	return t
}

func (a *analyzer) registerSignature(fn *ast.Function) {
	params := make([]*typesys.Type, len(fn.Params))
	for i, p := range fn.Params {
		params[i] = a.resolveType(p.Type)
	}
	var ret *typesys.Type
	if fn.ReturnType != nil {
		ret = a.resolveType(fn.ReturnType)
	}
	a.symbols.DefineFunction(fn.Name, typesys.NewFunction(params, ret))
}

func (a *analyzer) analyzeFunction(fn *ast.Function) {
	a.currentFn = fn
	a.symbols.PushScope(fn.Name)
	defer a.symbols.PopScope()

	for _, p := range fn.Params {
		a.symbols.DefineParam(p.Name, a.resolveType(p.Type))
	}
	for _, d := range fn.Decls {
		a.symbols.DefineLocal(d.Name, a.resolveType(d.Type))
	}
	for _, s := range fn.Body {
		a.analyzeStatement(s)
	}
}

func (a *analyzer) analyzeStatement(s ast.Statement) {
	switch n := s.(type) {
	case *ast.Assignment:
		a.analyzeLeftExpr(n.Left)
		a.analyzeExpression(n.Value)
	case *ast.If:
		a.analyzeExpression(n.Cond)
		for _, st := range n.Then {
			a.analyzeStatement(st)
		}
		for _, st := range n.Else {
			a.analyzeStatement(st)
		}
	case *ast.While:
		a.analyzeExpression(n.Cond)
		for _, st := range n.Body {
			a.analyzeStatement(st)
		}
	case *ast.Read:
		a.analyzeLeftExpr(n.Left)
	case *ast.WriteExpr:
		a.analyzeExpression(n.Value)
	case *ast.WriteString:
		// no expression type to decorate
	case *ast.Return:
		if n.Value != nil {
			a.analyzeExpression(n.Value)
		}
		if a.currentFn != nil && a.currentFn.ReturnType == nil && n.Value != nil {
			a.errorf("function %q is void but returns a value", a.currentFn.Name)
		}
		if a.currentFn != nil && a.currentFn.ReturnType != nil && n.Value == nil {
			a.errorf("function %q must return a value", a.currentFn.Name)
		}
	case *ast.ProcCall:
		a.analyzeCall(n.Name, n.Args)
	default:
		a.errorf("unhandled statement type %T", s)
	}
}

func (a *analyzer) analyzeLeftExpr(l *ast.LeftExpr) *typesys.Type {
	base := a.symbols.TypeOf(l.Name)
	if base == nil {
		a.errorf("undefined variable %q", l.Name)
		return a.deco.set(l, typesys.IntType)
	}
	if l.Index == nil {
		return a.deco.set(l, base)
	}
	a.analyzeExpression(l.Index)
	if !typesys.IsArray(base) {
		a.errorf("%q is not an array", l.Name)
		return a.deco.set(l, base)
	}
	return a.deco.set(l, base.Elem)
}

func (a *analyzer) analyzeCall(name string, args []ast.Expression) *typesys.Type {
	sig, ok := a.symbols.FunctionSignature(name)
	if !ok {
		a.errorf("undefined function %q", name)
		for _, arg := range args {
			a.analyzeExpression(arg)
		}
		return typesys.IntType
	}
	if len(args) != len(sig.Params) {
		a.errorf("function %q expects %d arguments, got %d", name, len(sig.Params), len(args))
	}
	for _, arg := range args {
		a.analyzeExpression(arg)
	}
	return sig.Return
}

func (a *analyzer) analyzeExpression(e ast.Expression) *typesys.Type {
	switch n := e.(type) {
	case *ast.IntegerLiteral:
		return a.deco.set(n, typesys.IntType)
	case *ast.FloatLiteral:
		return a.deco.set(n, typesys.FloatType)
	case *ast.CharLiteral:
		return a.deco.set(n, typesys.CharType)
	case *ast.BoolLiteral:
		return a.deco.set(n, typesys.BoolType)
	case *ast.Ident:
		t := a.symbols.TypeOf(n.Name)
		if t == nil {
			a.errorf("undefined variable %q", n.Name)
			t = typesys.IntType
		}
		return a.deco.set(n, t)
	case *ast.LeftExpr:
		return a.analyzeLeftExpr(n)
	case *ast.Indexer:
		baseT := a.analyzeExpression(n.Base)
		a.analyzeExpression(n.Index)
		if !typesys.IsArray(baseT) {
			a.errorf("indexed expression is not an array")
			return a.deco.set(n, typesys.IntType)
		}
		return a.deco.set(n, baseT.Elem)
	case *ast.Unary:
		t := a.analyzeExpression(n.Right)
		return a.deco.set(n, t)
	case *ast.Arithmetic:
		lt := a.analyzeExpression(n.Left)
		rt := a.analyzeExpression(n.Right)
		result := lt
		if typesys.IsFloat(lt) || typesys.IsFloat(rt) {
			result = typesys.FloatType
		}
		return a.deco.set(n, result)
	case *ast.Relational:
		a.analyzeExpression(n.Left)
		a.analyzeExpression(n.Right)
		return a.deco.set(n, typesys.BoolType)
	case *ast.Logical:
		a.analyzeExpression(n.Left)
		a.analyzeExpression(n.Right)
		return a.deco.set(n, typesys.BoolType)
	case *ast.FunctionalCall:
		t := a.analyzeCall(n.Name, n.Args)
		if t == nil {
			a.errorf("function %q used as a value but has no return type", n.Name)
			t = typesys.IntType
		}
		return a.deco.set(n, t)
	default:
		a.errorf("unhandled expression type %T", e)
		return nil
	}
}
