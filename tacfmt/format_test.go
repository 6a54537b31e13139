package tacfmt

import (
	"strings"
	"testing"

	"github.com/dr8co/aslc/codegen"
	"github.com/dr8co/aslc/lexer"
	"github.com/dr8co/aslc/parser"
	"github.com/dr8co/aslc/semantics"
	"github.com/dr8co/aslc/typesys"
)

func TestFormatListsInstructionsWithIndex(t *testing.T) {
	p := parser.New(lexer.New(`func f ()
vars
  x: int
begin
  x = 1;
end
endfunc
`))
	prog := p.ParseProgram()
	if errs := p.Errors(); len(errs) != 0 {
		t.Fatalf("parser errors: %v", errs)
	}
	symbols, deco, errs := semantics.Analyze(prog)
	if len(errs) != 0 {
		t.Fatalf("semantic errors: %v", errs)
	}
	out := codegen.New(symbols, typesys.Manager{}, deco).Generate(prog)

	text := Format(out)
	if !strings.Contains(text, "sub f()") {
		t.Errorf("expected a sub header for f, got:\n%s", text)
	}
	if !strings.Contains(text, "locals x") {
		t.Errorf("expected f's locals listed, got:\n%s", text)
	}
	if !strings.Contains(text, "0000 LOAD") {
		t.Errorf("expected a numbered first instruction, got:\n%s", text)
	}
	if !strings.Contains(text, "STORE x,") {
		t.Errorf("expected the STORE into x, got:\n%s", text)
	}
}

func TestFormatSeparatesMultipleSubroutines(t *testing.T) {
	p := parser.New(lexer.New(`func f ()
begin
end
endfunc

func g ()
begin
end
endfunc
`))
	prog := p.ParseProgram()
	if errs := p.Errors(); len(errs) != 0 {
		t.Fatalf("parser errors: %v", errs)
	}
	symbols, deco, errs := semantics.Analyze(prog)
	if len(errs) != 0 {
		t.Fatalf("semantic errors: %v", errs)
	}
	out := codegen.New(symbols, typesys.Manager{}, deco).Generate(prog)

	text := Format(out)
	if !strings.Contains(text, "sub f()") || !strings.Contains(text, "sub g()") {
		t.Errorf("expected headers for both subroutines, got:\n%s", text)
	}
}
