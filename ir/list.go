package ir

import "strings"

// List is an ordered sequence of Instructions, the TAC analog of the
// teacher's Instructions []byte — append and concatenate replace byte
// slicing since each element here is a whole Instruction, not a byte.
type List []Instruction

// Append adds instructions to the end of the list and returns the result.
func (l List) Append(ins ...Instruction) List {
	return append(l, ins...)
}

// Concat appends another list's instructions in order.
func (l List) Concat(other List) List {
	return append(l, other...)
}

// String renders every instruction on its own line, in order.
func (l List) String() string {
	var out strings.Builder
	for _, in := range l {
		out.WriteString(in.String())
		out.WriteString("\n")
	}
	return out.String()
}
