package codegen

import "github.com/dr8co/aslc/ir"

// Subroutine is one generated function: its parameter list (carrying a
// leading "_result" out-parameter when the source function returns a
// value), its local variable names, and its TAC body.
type Subroutine struct {
	Name   string
	Params []string
	Locals []string
	Body   ir.List
}

// NewSubroutine creates an empty Subroutine named name.
func NewSubroutine(name string) *Subroutine {
	return &Subroutine{Name: name}
}

// AddParam appends a parameter name, in declaration order.
func (s *Subroutine) AddParam(name string) {
	s.Params = append(s.Params, name)
}

// AddLocal appends a local variable name.
func (s *Subroutine) AddLocal(name string) {
	s.Locals = append(s.Locals, name)
}

// SetBody installs the subroutine's generated instruction list.
func (s *Subroutine) SetBody(body ir.List) {
	s.Body = body
}

// Program is the generator's final output: every subroutine in
// declaration order.
type Program struct {
	Subroutines []*Subroutine
}

// NewProgram creates an empty Program.
func NewProgram() *Program {
	return &Program{}
}

// AddSubroutine appends a completed subroutine to the program.
func (p *Program) AddSubroutine(s *Subroutine) {
	p.Subroutines = append(p.Subroutines, s)
}
