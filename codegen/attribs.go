package codegen

import "github.com/dr8co/aslc/ir"

// CodeAttribs is the triple threaded bottom-up through every expression
// visit: Addr names where the computed value lives, Offs names a scaled
// byte/cell offset when the visit produced an addressable location rather
// than a plain value, and Code is the instruction list that computes them.
//
// Every expression visit in this package is an r-value visit and returns
// Offs == "": Addr holds the value itself. There is no separate
// left-expression (l-value) visit that fills Offs: genAssignment and
// genRead lower an indexed target inline, taking the base from arrayBase
// and the scaled offset from scaleOffset.
type CodeAttribs struct {
	Addr string
	Offs string
	Code ir.List
}
