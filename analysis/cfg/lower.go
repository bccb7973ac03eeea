package cfg

import (
	"bytes"
	"fmt"
	"go/ast"
	"go/constant"
	"go/printer"
	"go/token"
	"go/types"
	"strconv"

	"golang.org/x/tools/go/ast/astutil"
)

// lowerer converts the nodes that go/cfg places in basic blocks into
// statements of the analysis.
type lowerer struct {
	fset *token.FileSet
	info *types.Info
	// ranges maps the operand, key and value of range statements, which
	// go/cfg places as bare expressions before the loop, to their statement.
	ranges map[ast.Node]*ast.RangeStmt
	// names are the unique names of the variables of the function.
	names map[types.Object]string
}

func newLowerer(fset *token.FileSet, info *types.Info, fun *ast.FuncDecl) *lowerer {
	l := &lowerer{
		fset:   fset,
		info:   info,
		ranges: make(map[ast.Node]*ast.RangeStmt),
		names:  LocalNames(fun, info),
	}
	ast.Inspect(fun.Body, func(n ast.Node) bool {
		switch n := n.(type) {
		case *ast.FuncLit:
			return false
		case *ast.RangeStmt:
			for _, e := range []ast.Expr{n.X, n.Key, n.Value} {
				if e != nil {
					l.ranges[e] = n
				}
			}
		}
		return true
	})
	return l
}

// text renders n as Go source.
func (l *lowerer) text(n ast.Node) string {
	var buf bytes.Buffer
	fset := l.fset
	if fset == nil {
		fset = token.NewFileSet()
	}
	if err := printer.Fprint(&buf, fset, n); err != nil {
		return fmt.Sprintf("<%T>", n)
	}
	return buf.String()
}

// mayReturn reports false only for calls to the panic built-in.
func (l *lowerer) mayReturn(call *ast.CallExpr) bool {
	id, ok := astutil.Unparen(call.Fun).(*ast.Ident)
	if !ok || id.Name != "panic" {
		return true
	}
	if l.info != nil {
		if _, builtin := l.info.Uses[id].(*types.Builtin); !builtin {
			return true
		}
	}
	return false
}

// name is the variable denoted by x. Variables declared outside the
// function are suffixed with $0, so they never share a name with a local.
// Without type information the name is the identifier itself.
func (l *lowerer) name(x *ast.Ident) string {
	if l.info == nil {
		return x.Name
	}
	obj := l.info.Defs[x]
	if obj == nil {
		obj = l.info.Uses[x]
	}
	if name, ok := l.names[obj]; ok {
		return name
	}
	if v, ok := obj.(*types.Var); ok && !v.IsField() && x.Name != "_" {
		return x.Name + "$0"
	}
	return x.Name
}

// opaque keeps text, which renders nodes, as an opaque expression. An
// identifier denoting several variables in text is mapped to no variable.
func (l *lowerer) opaque(text string, nodes ...ast.Node) Opaque {
	denoted := make(map[string]string)
	for _, n := range nodes {
		ast.Inspect(n, func(n ast.Node) bool {
			x, ok := n.(*ast.Ident)
			if !ok {
				return true
			}
			name := l.name(x)
			if prev, seen := denoted[x.Name]; seen && prev != name {
				name = ""
			}
			denoted[x.Name] = name
			return true
		})
	}

	var names map[string]string
	for x, name := range denoted {
		if name != x {
			if names == nil {
				names = make(map[string]string)
			}
			names[x] = name
		}
	}
	return Opaque{Text: text, Names: names}
}

// kind is the integer type of e, or types.Invalid if it is unknown.
func (l *lowerer) kind(e ast.Expr) types.BasicKind {
	if l.info == nil {
		return types.Invalid
	}
	if t := l.info.TypeOf(e); t != nil {
		if basic, ok := t.Underlying().(*types.Basic); ok && basic.Info()&types.IsInteger != 0 {
			return basic.Kind()
		}
	}
	return types.Invalid
}

func (l *lowerer) other(n ast.Node) Stmt {
	return &Other{Text: l.text(n), pos: n.Pos()}
}

func (l *lowerer) lower(n ast.Node) []Stmt {
	if rng, ok := l.ranges[n]; ok {
		return l.lowerRange(rng, n)
	}

	switch n := n.(type) {
	case *ast.EmptyStmt:
		return nil
	case *ast.AssignStmt:
		return l.lowerAssign(n)
	case *ast.IncDecStmt:
		x, ok := n.X.(*ast.Ident)
		if !ok || x.Name == "_" {
			return []Stmt{l.other(n)}
		}
		op := Add
		if n.Tok == token.DEC {
			op = Sub
		}
		return []Stmt{&Assign{
			Lhs: l.name(x),
			Rhs: Binary{Op: op, X: Var{l.name(x)}, Y: IntLit{1}, Kind: l.kind(x)},
			pos: n.Pos(),
		}}
	case *ast.ValueSpec:
		return l.lowerValueSpec(n)
	default:
		return []Stmt{l.other(n)}
	}
}

// lowerRange assigns an unknown value to the key and value variables of a
// range statement.
func (l *lowerer) lowerRange(rng *ast.RangeStmt, n ast.Node) []Stmt {
	header := "range " + l.text(rng.X)
	if n == ast.Node(rng.X) {
		return []Stmt{&Other{Text: header, pos: rng.X.Pos()}}
	}
	rhs := l.opaque(header, rng.X)

	x, ok := n.(*ast.Ident)
	switch {
	case !ok || rng.Tok == token.ILLEGAL:
		return []Stmt{l.other(n)}
	case x.Name == "_":
		return nil
	}
	return []Stmt{&Assign{Lhs: l.name(x), Rhs: rhs, pos: x.Pos()}}
}

func (l *lowerer) lowerAssign(n *ast.AssignStmt) []Stmt {
	idents := make([]*ast.Ident, len(n.Lhs))
	for i, lhs := range n.Lhs {
		x, ok := lhs.(*ast.Ident)
		if !ok {
			return []Stmt{l.other(n)}
		}
		idents[i] = x
	}

	switch {
	case n.Tok == token.ASSIGN || n.Tok == token.DEFINE:
	case len(idents) == 1 && idents[0].Name != "_":
		// x op= e
		x := idents[0]
		var rhs Expr
		if op, ok := arithmetic(compoundOps[n.Tok]); ok && l.isInteger(x) {
			rhs = Binary{Op: op, X: Var{l.name(x)}, Y: l.lowerExpr(n.Rhs[0]), Kind: l.kind(x)}
		} else {
			rhs = l.opaque(fmt.Sprintf("%s %s %s", x.Name, compoundOps[n.Tok], l.text(n.Rhs[0])), x, n.Rhs[0])
		}
		return []Stmt{&Assign{Lhs: l.name(x), Rhs: rhs, pos: n.Pos()}}
	default:
		return []Stmt{l.other(n)}
	}

	var stmts []Stmt
	if len(n.Lhs) != len(n.Rhs) {
		// x, y := f()
		rhs := l.opaque(l.text(n.Rhs[0]), n.Rhs[0])
		for _, x := range idents {
			if x.Name != "_" {
				stmts = append(stmts, &Assign{Lhs: l.name(x), Rhs: rhs, pos: x.Pos()})
			}
		}
		return stmts
	}

	rhss := make([]Expr, len(n.Rhs))
	for i, e := range n.Rhs {
		rhss[i] = l.lowerExpr(e)
	}

	// The targets of a tuple assignment are written simultaneously, so
	// splitting it is only faithful if no right-hand side reads a target.
	if len(idents) > 1 {
		targets := make(map[string]bool)
		for _, x := range idents {
			targets[l.name(x)] = true
		}
		for i, rhs := range rhss {
			for _, v := range Vars(rhs) {
				if targets[v] {
					rhss[i] = l.opaque(l.text(n.Rhs[i]), n.Rhs[i])
					break
				}
			}
		}
	}

	for i, x := range idents {
		if x.Name != "_" {
			stmts = append(stmts, &Assign{Lhs: l.name(x), Rhs: rhss[i], pos: x.Pos()})
		}
	}
	return stmts
}

func (l *lowerer) lowerValueSpec(n *ast.ValueSpec) (stmts []Stmt) {
	for i, x := range n.Names {
		if x.Name == "_" {
			continue
		}

		typ := ""
		if n.Type != nil {
			typ = l.text(n.Type)
		} else if l.info != nil {
			if t := l.info.TypeOf(x); t != nil {
				typ = t.String()
			}
		}
		name := l.name(x)
		stmts = append(stmts, &Decl{Name: name, Type: typ, pos: x.Pos()})

		switch {
		case len(n.Values) == len(n.Names):
			stmts = append(stmts, &Assign{Lhs: name, Rhs: l.lowerExpr(n.Values[i]), pos: x.Pos()})
		case len(n.Values) == 1:
			stmts = append(stmts, &Assign{Lhs: name, Rhs: l.opaque(l.text(n.Values[0]), n.Values[0]), pos: x.Pos()})
		}
	}
	return
}

var compoundOps = map[token.Token]token.Token{
	token.ADD_ASSIGN:     token.ADD,
	token.SUB_ASSIGN:     token.SUB,
	token.MUL_ASSIGN:     token.MUL,
	token.QUO_ASSIGN:     token.QUO,
	token.REM_ASSIGN:     token.REM,
	token.AND_ASSIGN:     token.AND,
	token.OR_ASSIGN:      token.OR,
	token.XOR_ASSIGN:     token.XOR,
	token.SHL_ASSIGN:     token.SHL,
	token.SHR_ASSIGN:     token.SHR,
	token.AND_NOT_ASSIGN: token.AND_NOT,
}

func arithmetic(tok token.Token) (Op, bool) {
	switch op := Op(tok); op {
	case Add, Sub, Mul, Quo:
		return op, true
	}
	return 0, false
}

// isInteger reports whether e is known to have an integer type.
// Without type information every expression qualifies.
func (l *lowerer) isInteger(e ast.Expr) bool {
	if l.info == nil {
		return true
	}
	t := l.info.TypeOf(e)
	if t == nil {
		return true
	}
	basic, ok := t.Underlying().(*types.Basic)
	return ok && basic.Info()&types.IsInteger != 0
}

// lowerExpr converts integer literals, variables and + - * / over them into
// expression trees. Anything else is kept opaque.
func (l *lowerer) lowerExpr(e ast.Expr) Expr {
	opaque := l.opaque(l.text(e), e)

	switch e := e.(type) {
	case *ast.ParenExpr:
		return l.lowerExpr(e.X)
	case *ast.BasicLit:
		if e.Kind != token.INT {
			return opaque
		}
		if n, err := strconv.ParseInt(e.Value, 0, strconv.IntSize); err == nil {
			return IntLit{int(n)}
		}
	case *ast.Ident:
		if l.info != nil {
			if c, ok := l.info.Uses[e].(*types.Const); ok {
				if n, exact := constant.Int64Val(constant.ToInt(c.Val())); exact && c.Val().Kind() == constant.Int {
					return IntLit{int(n)}
				}
				return opaque
			}
		}
		if e.Name != "_" {
			return Var{l.name(e)}
		}
	case *ast.UnaryExpr:
		switch e.Op {
		case token.ADD:
			return l.lowerExpr(e.X)
		case token.SUB:
			if lit, ok := astutil.Unparen(e.X).(*ast.BasicLit); ok && lit.Kind == token.INT {
				if n, err := strconv.ParseInt("-"+lit.Value, 0, strconv.IntSize); err == nil {
					return IntLit{int(n)}
				}
			}
		}
	case *ast.BinaryExpr:
		if op, ok := arithmetic(e.Op); ok && l.isInteger(e) {
			return Binary{Op: op, X: l.lowerExpr(e.X), Y: l.lowerExpr(e.Y), Kind: l.kind(e)}
		}
	}
	return opaque
}
