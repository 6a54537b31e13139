package symtab

import (
	"testing"

	"github.com/dr8co/aslc/typesys"
)

func TestParamsAreReferenceLocalsAreValue(t *testing.T) {
	m := NewManager()
	m.PushScope("f")
	m.DefineParam("p", typesys.IntType)
	m.DefineLocal("x", typesys.FloatType)

	if !m.IsReference("p") {
		t.Errorf("expected p to be reference-class")
	}
	if m.IsLocal("p") {
		t.Errorf("expected p not to be value-class")
	}
	if !m.IsLocal("x") {
		t.Errorf("expected x to be value-class")
	}
	if m.IsReference("x") {
		t.Errorf("expected x not to be reference-class")
	}
	if got := m.TypeOf("p"); got != typesys.IntType {
		t.Errorf("TypeOf(p) = %v, want int", got)
	}
	if got := m.TypeOf("x"); got != typesys.FloatType {
		t.Errorf("TypeOf(x) = %v, want float", got)
	}
	m.PopScope()
}

func TestScopesDoNotLeak(t *testing.T) {
	m := NewManager()
	m.PushScope("f")
	m.DefineLocal("x", typesys.IntType)
	m.PopScope()

	m.PushScope("g")
	if m.TypeOf("x") != nil {
		t.Errorf("expected x from f's scope not to be visible in g")
	}
	m.PopScope()
}

func TestFunctionSignatures(t *testing.T) {
	m := NewManager()
	sig := typesys.NewFunction([]*typesys.Type{typesys.IntType}, typesys.BoolType)
	m.DefineFunction("isPositive", sig)

	got, ok := m.FunctionSignature("isPositive")
	if !ok || got != sig {
		t.Fatalf("FunctionSignature(isPositive) = %v, %v", got, ok)
	}
	if _, ok := m.FunctionSignature("missing"); ok {
		t.Errorf("expected missing function to not resolve")
	}
}
