package cfg

import (
	"go/token"
	"go/types"
	"strconv"
	"strings"
)

// Expr is the right-hand side of an assignment: an integer literal, a
// variable, a binary arithmetic operation, or an opaque expression that
// the analysis cannot evaluate.
type Expr interface {
	String() string
	expr()
}

// Op is an arithmetic operator of a Binary expression.
type Op token.Token

const (
	Add = Op(token.ADD)
	Sub = Op(token.SUB)
	Mul = Op(token.MUL)
	Quo = Op(token.QUO)
)

func (op Op) String() string {
	return token.Token(op).String()
}

type (
	// IntLit is an integer literal.
	IntLit struct {
		Value int
	}

	// Var is a read of a variable. Name is unique within the function,
	// see LocalNames.
	Var struct {
		Name string
	}

	// Binary applies Op to two operands. Kind is the integer type the
	// operation is computed in, or types.Invalid if it is unknown.
	Binary struct {
		Op   Op
		X, Y Expr
		Kind types.BasicKind
	}

	// Opaque is any other expression, kept only as source text. Names maps
	// the identifiers of Text that denote a renamed variable to its name.
	Opaque struct {
		Text  string
		Names map[string]string
	}
)

func (IntLit) expr() {}
func (Var) expr()    {}
func (Binary) expr() {}
func (Opaque) expr() {}

func (e IntLit) String() string {
	return strconv.Itoa(e.Value)
}

func (e Var) String() string {
	return SourceName(e.Name)
}

func (e Opaque) String() string {
	return e.Text
}

func (e Binary) String() string {
	operand := func(x Expr) string {
		if _, nested := x.(Binary); nested {
			return "(" + x.String() + ")"
		}
		return x.String()
	}
	return operand(e.X) + " " + e.Op.String() + " " + operand(e.Y)
}

// Vars lists the variables read by e, in reading order.
func Vars(e Expr) (vars []string) {
	var visit func(Expr)
	visit = func(e Expr) {
		switch e := e.(type) {
		case Var:
			vars = append(vars, e.Name)
		case Binary:
			visit(e.X)
			visit(e.Y)
		}
	}
	visit(e)
	return
}

// SourceName strips the suffix LocalNames gives to a shadowing variable.
func SourceName(x string) string {
	if i := strings.IndexByte(x, '$'); i > 0 {
		return x[:i]
	}
	return x
}
