package parser

import (
	"testing"

	"github.com/dr8co/aslc/ast"
	"github.com/dr8co/aslc/lexer"
)

func parseProgram(t *testing.T, input string) *ast.Program {
	t.Helper()
	p := New(lexer.New(input))
	prog := p.ParseProgram()
	checkParserErrors(t, p)
	return prog
}

func checkParserErrors(t *testing.T, p *Parser) {
	t.Helper()
	errs := p.Errors()
	if len(errs) == 0 {
		return
	}
	t.Errorf("parser has %d errors", len(errs))
	for _, msg := range errs {
		t.Errorf("parser error: %s", msg)
	}
	t.FailNow()
}

func TestParseEmptyFunction(t *testing.T) {
	input := `func main (): int
begin
  return 0;
end
endfunc
`
	prog := parseProgram(t, input)
	if len(prog.Functions) != 1 {
		t.Fatalf("expected 1 function, got %d", len(prog.Functions))
	}
	fn := prog.Functions[0]
	if fn.Name != "main" {
		t.Fatalf("expected function name 'main', got %q", fn.Name)
	}
	if fn.ReturnType == nil || fn.ReturnType.Name != "int" {
		t.Fatalf("expected return type int, got %v", fn.ReturnType)
	}
	if len(fn.Body) != 1 {
		t.Fatalf("expected 1 statement, got %d", len(fn.Body))
	}
	ret, ok := fn.Body[0].(*ast.Return)
	if !ok {
		t.Fatalf("expected *ast.Return, got %T", fn.Body[0])
	}
	if lit, ok := ret.Value.(*ast.IntegerLiteral); !ok || lit.Value != 0 {
		t.Fatalf("expected return value 0, got %v", ret.Value)
	}
}

func TestParseParamsAndDecls(t *testing.T) {
	input := `func f (p: int, q: array[4] of float): float
vars
  x: int
  a: array[10] of int
begin
  return p;
end
endfunc
`
	prog := parseProgram(t, input)
	fn := prog.Functions[0]
	if len(fn.Params) != 2 {
		t.Fatalf("expected 2 params, got %d", len(fn.Params))
	}
	if fn.Params[0].Name != "p" || fn.Params[0].Type.Name != "int" {
		t.Fatalf("unexpected param 0: %+v", fn.Params[0])
	}
	if !fn.Params[1].Type.IsArray || fn.Params[1].Type.ArraySize != 4 || fn.Params[1].Type.ElemName != "float" {
		t.Fatalf("unexpected param 1: %+v", fn.Params[1])
	}
	if len(fn.Decls) != 2 {
		t.Fatalf("expected 2 decls, got %d", len(fn.Decls))
	}
	if !fn.Decls[1].Type.IsArray || fn.Decls[1].Type.ArraySize != 10 {
		t.Fatalf("unexpected decl 1: %+v", fn.Decls[1])
	}
}

func TestParseAssignmentAndIndexer(t *testing.T) {
	input := `func f ()
vars
  a: array[5] of int
  i: int
begin
  a[i] = i + 1;
  i = a[0];
end
endfunc
`
	prog := parseProgram(t, input)
	fn := prog.Functions[0]
	if len(fn.Body) != 2 {
		t.Fatalf("expected 2 statements, got %d", len(fn.Body))
	}
	assign, ok := fn.Body[0].(*ast.Assignment)
	if !ok {
		t.Fatalf("expected *ast.Assignment, got %T", fn.Body[0])
	}
	if assign.Left.Name != "a" || assign.Left.Index == nil {
		t.Fatalf("expected indexed left expr, got %+v", assign.Left)
	}
	arith, ok := assign.Value.(*ast.Arithmetic)
	if !ok || arith.Operator != "+" {
		t.Fatalf("expected arithmetic '+', got %+v", assign.Value)
	}

	assign2, ok := fn.Body[1].(*ast.Assignment)
	if !ok {
		t.Fatalf("expected *ast.Assignment, got %T", fn.Body[1])
	}
	if _, ok := assign2.Value.(*ast.Indexer); !ok {
		t.Fatalf("expected indexer value, got %T", assign2.Value)
	}
}

func TestParseIfWhileReadWrite(t *testing.T) {
	input := `func f ()
vars
  x: int
begin
  read x;
  if x < 0 then
    write "neg";
  else
    write x;
  endif
  while x < 10 do
    x = x + 1;
  endwhile
end
endfunc
`
	prog := parseProgram(t, input)
	fn := prog.Functions[0]
	if len(fn.Body) != 3 {
		t.Fatalf("expected 3 statements, got %d", len(fn.Body))
	}
	if _, ok := fn.Body[0].(*ast.Read); !ok {
		t.Fatalf("expected *ast.Read, got %T", fn.Body[0])
	}
	ifs, ok := fn.Body[1].(*ast.If)
	if !ok {
		t.Fatalf("expected *ast.If, got %T", fn.Body[1])
	}
	if len(ifs.Then) != 1 || len(ifs.Else) != 1 {
		t.Fatalf("expected 1 then/else statement, got %d/%d", len(ifs.Then), len(ifs.Else))
	}
	if _, ok := ifs.Then[0].(*ast.WriteString); !ok {
		t.Fatalf("expected *ast.WriteString in then branch, got %T", ifs.Then[0])
	}
	if _, ok := ifs.Else[0].(*ast.WriteExpr); !ok {
		t.Fatalf("expected *ast.WriteExpr in else branch, got %T", ifs.Else[0])
	}
	if _, ok := fn.Body[2].(*ast.While); !ok {
		t.Fatalf("expected *ast.While, got %T", fn.Body[2])
	}
}

func TestParseCalls(t *testing.T) {
	input := `func f ()
vars
  x: int
begin
  g(1, x);
  x = h(x);
end
endfunc
`
	prog := parseProgram(t, input)
	fn := prog.Functions[0]
	call, ok := fn.Body[0].(*ast.ProcCall)
	if !ok || call.Name != "g" || len(call.Args) != 2 {
		t.Fatalf("unexpected proc call: %+v", fn.Body[0])
	}
	assign, ok := fn.Body[1].(*ast.Assignment)
	if !ok {
		t.Fatalf("expected *ast.Assignment, got %T", fn.Body[1])
	}
	fc, ok := assign.Value.(*ast.FunctionalCall)
	if !ok || fc.Name != "h" {
		t.Fatalf("expected functional call to h, got %+v", assign.Value)
	}
}

func TestOperatorPrecedence(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{"1 + 2 * 3", "(1 + (2 * 3))"},
		{"1 < 2 and 3 < 4", "((1 < 2) and (3 < 4))"},
		{"not x or y", "((notx) or y)"},
		{"-a + b", "((-a) + b)"},
	}

	for i, tt := range tests {
		input := "func f()\nvars\n  x: int\n  y: int\n  a: int\n  b: int\nbegin\n  x = " + tt.input + ";\nend\nendfunc\n"
		prog := parseProgram(t, input)
		assign := prog.Functions[0].Body[0].(*ast.Assignment)
		got := assign.Value.String()
		if got != tt.want {
			t.Errorf("tests[%d]: expected %q, got %q", i, tt.want, got)
		}
	}
}
