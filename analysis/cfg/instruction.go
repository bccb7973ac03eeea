package cfg

import (
	"go/token"

	L "github.com/cs-au-dk/cprop/analysis/lattice"
)

// Stmt is the syntactic content of an instruction.
type Stmt interface {
	String() string
	Pos() token.Pos
	stmt()
}

type (
	// Assign writes the value of Rhs to the variable Lhs.
	Assign struct {
		Lhs string
		Rhs Expr
		pos token.Pos
	}

	// Decl declares Name with type Type, without giving it a value.
	Decl struct {
		Name string
		Type string
		pos  token.Pos
	}

	// Other is any statement or control expression the analysis does not
	// interpret. Text is its source rendering.
	Other struct {
		Text string
		pos  token.Pos
	}
)

func (*Assign) stmt() {}
func (*Decl) stmt()   {}
func (*Other) stmt()  {}

func (s *Assign) Pos() token.Pos { return s.pos }
func (s *Decl) Pos() token.Pos   { return s.pos }
func (s *Other) Pos() token.Pos  { return s.pos }

func (s *Assign) String() string {
	return SourceName(s.Lhs) + " = " + s.Rhs.String()
}

func (s *Decl) String() string {
	return "var " + SourceName(s.Name) + " " + s.Type
}

func (s *Other) String() string {
	return s.Text
}

// NewAssign, NewDecl and NewOther build statements without a source position.
func NewAssign(lhs string, rhs Expr) *Assign {
	return &Assign{Lhs: lhs, Rhs: rhs}
}

func NewDecl(name, typ string) *Decl {
	return &Decl{Name: name, Type: typ}
}

func NewOther(text string) *Other {
	return &Other{Text: text}
}

// Instruction wraps one statement of a basic block, together with the
// states recorded before and after it during the last visit of its block.
type Instruction struct {
	Stmt Stmt
	In   L.State
	Out  L.State
}

func (i *Instruction) String() string {
	return i.Stmt.String()
}
