package cfg

import (
	"fmt"
	"go/ast"
	"go/token"
	"go/types"

	"github.com/cs-au-dk/cprop/pkgutil"

	gocfg "golang.org/x/tools/go/cfg"
)

// FromSource builds the control-flow graphs of every function and method
// declared in the syntax of the given packages.
func FromSource(src *pkgutil.Source) *Program {
	prog := NewProgram()
	prog.Fset = src.Fset
	for _, pkg := range src.Packages {
		prog.addFiles(pkg.Files, pkg.Info)
	}
	return prog
}

// FromFiles builds the control-flow graphs of every function and method
// declared in files. info may be nil, in which case lowering relies on
// syntax alone.
func FromFiles(fset *token.FileSet, files []*ast.File, info *types.Info) *Program {
	prog := NewProgram()
	prog.Fset = fset
	prog.addFiles(files, info)
	return prog
}

func (p *Program) addFiles(files []*ast.File, info *types.Info) {
	for _, file := range files {
		for _, decl := range file.Decls {
			fun, ok := decl.(*ast.FuncDecl)
			if !ok || fun.Body == nil {
				continue
			}

			key := p.uniqueKey(MethodKey{ClassOf(file, fun), fun.Name.Name})
			p.addFunction(key, fun.Body, newLowerer(p.Fset, info, fun))
		}
	}
}

// ClassOf names the class a function belongs to: the base type of its
// receiver, or the package name for plain functions.
func ClassOf(file *ast.File, fun *ast.FuncDecl) string {
	if fun.Recv == nil || len(fun.Recv.List) == 0 {
		return file.Name.Name
	}

	typ := fun.Recv.List[0].Type
	for {
		switch t := typ.(type) {
		case *ast.StarExpr:
			typ = t.X
		case *ast.ParenExpr:
			typ = t.X
		case *ast.IndexExpr:
			typ = t.X
		case *ast.IndexListExpr:
			typ = t.X
		case *ast.Ident:
			return t.Name
		default:
			return file.Name.Name
		}
	}
}

// uniqueKey disambiguates repeated keys, e.g. several init functions.
func (p *Program) uniqueKey(key MethodKey) MethodKey {
	return UniqueKey(key, func(k MethodKey) bool {
		_, taken := p.entries[k]
		return taken
	})
}

// UniqueKey returns key, or key with a "$n" suffix on the method name if key
// is already taken. The n-th function sharing a key is suffixed with $n.
func UniqueKey(key MethodKey, taken func(MethodKey) bool) MethodKey {
	base := key.Method
	for n := 2; taken(key); n++ {
		key.Method = fmt.Sprintf("%s$%d", base, n)
	}
	return key
}

// addFunction lowers the basic blocks computed by go/cfg into the arena.
// Blocks that go/cfg marks as dead are kept, but without edges.
func (p *Program) addFunction(key MethodKey, body *ast.BlockStmt, l *lowerer) {
	g := gocfg.New(body, l.mayReturn)

	ids := make([]BlockID, len(g.Blocks))
	for i, gb := range g.Blocks {
		b := p.NewBlock(key)
		for _, n := range gb.Nodes {
			b.Append(l.lower(n)...)
		}
		ids[i] = b.ID
	}

	for i, gb := range g.Blocks {
		if !gb.Live {
			continue
		}
		for _, succ := range gb.Succs {
			p.AddEdge(ids[i], ids[succ.Index])
		}
	}

	p.SetEntry(key, ids[0])
}
