package codegen

import (
	"github.com/dr8co/aslc/ast"
	"github.com/dr8co/aslc/typesys"
)

// SymbolTable is the external collaborator the generator consults to
// resolve a variable's declared type and storage class. symtab.Manager
// implements this.
type SymbolTable interface {
	PushScope(name string)
	PopScope()
	TypeOf(name string) *typesys.Type
	IsLocal(name string) bool
	IsReference(name string) bool
	FunctionSignature(name string) (*typesys.Type, bool)
}

// TypeManager is the external collaborator the generator consults for
// type-algebra questions (is this type X, how many cells does an array
// hold). typesys.Manager implements this.
type TypeManager interface {
	IsInteger(t *typesys.Type) bool
	IsFloat(t *typesys.Type) bool
	IsCharacter(t *typesys.Type) bool
	IsBoolean(t *typesys.Type) bool
	IsArray(t *typesys.Type) bool
	IsVoidFunction(t *typesys.Type) bool
	ArrayElementCount(t *typesys.Type) int
	CellSize(t *typesys.Type) int
	FunctionParameterTypes(t *typesys.Type) []*typesys.Type
}

// Decorations is the external collaborator holding the static type of
// every expression node, computed by a prior semantic-analysis pass.
// semantics.Decorations implements this.
type Decorations interface {
	TypeOf(e ast.Expression) *typesys.Type
}
