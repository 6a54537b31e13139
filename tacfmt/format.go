// Package tacfmt renders a codegen.Program as human-readable text: a
// debug/test-grade serializer, not a claimed canonical wire format.
//
// This mirrors the teacher's code.Instructions.String()/fmtInstruction
// idiom — a numbered listing, one instruction per line — adapted from a
// byte-offset prefix (meaningless for TAC, which has no encoded widths)
// to a sequential instruction index within each subroutine.
package tacfmt

import (
	"fmt"
	"strings"

	"github.com/dr8co/aslc/codegen"
)

// Format renders every subroutine in prog as a numbered instruction
// listing, in declaration order.
func Format(prog *codegen.Program) string {
	var out strings.Builder
	for i, sub := range prog.Subroutines {
		if i > 0 {
			out.WriteString("\n")
		}
		out.WriteString(FormatSubroutine(sub))
	}
	return out.String()
}

// FormatSubroutine renders one subroutine: its header (name, params,
// locals) followed by a numbered listing of its body.
func FormatSubroutine(sub *codegen.Subroutine) string {
	var out strings.Builder
	fmt.Fprintf(&out, "sub %s(%s)", sub.Name, strings.Join(sub.Params, ", "))
	if len(sub.Locals) > 0 {
		fmt.Fprintf(&out, " locals %s", strings.Join(sub.Locals, ", "))
	}
	out.WriteString("\n")
	for i, in := range sub.Body {
		fmt.Fprintf(&out, "%04d %s\n", i, in.String())
	}
	return out.String()
}
