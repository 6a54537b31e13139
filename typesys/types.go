// Package typesys defines the type representation shared by the semantic
// analyzer and the code generator: a small, closed set of scalar kinds plus
// arrays of them and function signatures.
//
// Every [Type] carries a [Kind] tag, the same idiom the teacher's object
// package uses for runtime values (Type() Type), adapted here to describe
// static types instead of values.
package typesys

import "strconv"

// Kind identifies one of the closed set of type shapes in the source
// language.
type Kind int

//nolint:revive
const (
	Int Kind = iota
	Float
	Bool
	Char
	Array
	Void
	Function
)

// Type describes a static type: a scalar, an array of a scalar, or a
// function signature (parameter types plus an optional return type).
type Type struct {
	Kind Kind

	// Elem and Count are set when Kind == Array.
	Elem  *Type
	Count int

	// Params and Return are set when Kind == Function. Return is nil for
	// a void function (a procedure).
	Params []*Type
	Return *Type
}

var (
	IntType   = &Type{Kind: Int}
	FloatType = &Type{Kind: Float}
	BoolType  = &Type{Kind: Bool}
	CharType  = &Type{Kind: Char}
	VoidType  = &Type{Kind: Void}
)

// NewArray builds an array-of-elem type with the given element count.
func NewArray(elem *Type, count int) *Type {
	return &Type{Kind: Array, Elem: elem, Count: count}
}

// NewFunction builds a function signature type.
func NewFunction(params []*Type, ret *Type) *Type {
	return &Type{Kind: Function, Params: params, Return: ret}
}

func (t *Type) String() string {
	if t == nil {
		return "<nil>"
	}
	switch t.Kind {
	case Int:
		return "int"
	case Float:
		return "float"
	case Bool:
		return "bool"
	case Char:
		return "char"
	case Void:
		return "void"
	case Array:
		return "array[" + strconv.Itoa(t.Count) + "] of " + t.Elem.String()
	case Function:
		s := "func("
		for i, p := range t.Params {
			if i > 0 {
				s += ", "
			}
			s += p.String()
		}
		s += ")"
		if t.Return != nil {
			s += ": " + t.Return.String()
		}
		return s
	default:
		return "<unknown>"
	}
}

// FromName resolves a surface type-name spelling ("int", "float", "bool",
// "char") to its Type. It returns nil for an unrecognized name.
func FromName(name string) *Type {
	switch name {
	case "int":
		return IntType
	case "float":
		return FloatType
	case "bool":
		return BoolType
	case "char":
		return CharType
	default:
		return nil
	}
}

// CellSize returns the number of scalar cells (the generator's addressing
// unit) a single element of t occupies. Every scalar type and every array
// element in this language occupies exactly one cell; CellSize exists as
// a seam so a future type (e.g. a multi-word record) would only need to
// change this one place.
func CellSize(t *Type) int {
	if t == nil {
		return 1
	}
	return 1
}

// IsInteger reports whether t is the scalar int type.
func IsInteger(t *Type) bool { return t != nil && t.Kind == Int }

// IsFloat reports whether t is the scalar float type.
func IsFloat(t *Type) bool { return t != nil && t.Kind == Float }

// IsCharacter reports whether t is the scalar char type.
func IsCharacter(t *Type) bool { return t != nil && t.Kind == Char }

// IsBoolean reports whether t is the scalar bool type.
func IsBoolean(t *Type) bool { return t != nil && t.Kind == Bool }

// IsArray reports whether t is an array type.
func IsArray(t *Type) bool { return t != nil && t.Kind == Array }

// IsVoidFunction reports whether t is a function signature with no return
// type (a procedure).
func IsVoidFunction(t *Type) bool { return t != nil && t.Kind == Function && t.Return == nil }

// ArrayElementCount returns t's declared element count, or 0 if t is not
// an array.
func ArrayElementCount(t *Type) int {
	if t == nil || t.Kind != Array {
		return 0
	}
	return t.Count
}

// FunctionParameterTypes returns t's parameter types, or nil if t is not
// a function signature.
func FunctionParameterTypes(t *Type) []*Type {
	if t == nil || t.Kind != Function {
		return nil
	}
	return t.Params
}

// Manager is a stateless adapter exposing the type predicates above as
// methods, satisfying codegen.TypeManager without the generator importing
// typesys's free functions directly.
type Manager struct{}

func (Manager) IsInteger(t *Type) bool              { return IsInteger(t) }
func (Manager) IsFloat(t *Type) bool                { return IsFloat(t) }
func (Manager) IsCharacter(t *Type) bool            { return IsCharacter(t) }
func (Manager) IsBoolean(t *Type) bool              { return IsBoolean(t) }
func (Manager) IsArray(t *Type) bool                { return IsArray(t) }
func (Manager) IsVoidFunction(t *Type) bool         { return IsVoidFunction(t) }
func (Manager) ArrayElementCount(t *Type) int       { return ArrayElementCount(t) }
func (Manager) CellSize(t *Type) int                { return CellSize(t) }
func (Manager) FunctionParameterTypes(t *Type) []*Type { return FunctionParameterTypes(t) }
