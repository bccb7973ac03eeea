package upfront

import (
	"fmt"
	"go/ast"
	"go/token"
	"go/types"
	"io"
	"sort"
	"strings"

	"github.com/cs-au-dk/cprop/analysis/cfg"
	"github.com/cs-au-dk/cprop/pkgutil"
)

// IntegerVars records, per class and method, the variables declared with an
// integer type: receivers, parameters, named results and locals.
type IntegerVars struct {
	methods map[cfg.MethodKey]map[string]struct{}
}

func NewIntegerVars() *IntegerVars {
	return &IntegerVars{methods: make(map[cfg.MethodKey]map[string]struct{})}
}

// Add records x as an integer variable of m.
func (iv *IntegerVars) Add(m cfg.MethodKey, x string) {
	vars, ok := iv.methods[m]
	if !ok {
		vars = make(map[string]struct{})
		iv.methods[m] = vars
	}
	if x != "" && x != "_" {
		vars[x] = struct{}{}
	}
}

// IsInteger reports whether x is declared with an integer type in m.
func (iv *IntegerVars) IsInteger(m cfg.MethodKey, x string) bool {
	if iv == nil {
		return false
	}
	_, ok := iv.methods[m][x]
	return ok
}

// Vars lists the integer variables of m in ascending order.
func (iv *IntegerVars) Vars(m cfg.MethodKey) []string {
	res := make([]string, 0, len(iv.methods[m]))
	for x := range iv.methods[m] {
		res = append(res, x)
	}
	sort.Strings(res)
	return res
}

// Methods lists every method seen by the collector, ordered by key.
func (iv *IntegerVars) Methods() []cfg.MethodKey {
	res := make([]cfg.MethodKey, 0, len(iv.methods))
	for m := range iv.methods {
		res = append(res, m)
	}
	sort.Slice(res, func(i, j int) bool {
		return res[i].String() < res[j].String()
	})
	return res
}

// Fprint lists the integer variables grouped by class and method.
func (iv *IntegerVars) Fprint(w io.Writer) {
	class := ""
	for i, m := range iv.Methods() {
		if i == 0 || m.Class != class {
			class = m.Class
			fmt.Fprintf(w, "Class: %s\n", class)
		}
		fmt.Fprintf(w, "  Method: %s\n", m.Method)
		fmt.Fprintf(w, "    Integer variables: %s\n", strings.Join(iv.Vars(m), ", "))
	}
}

// CollectIntegerVars visits every function and method of src. Method keys
// are assigned exactly as the control-flow graph builder assigns them, so
// both agree on repeated keys.
func CollectIntegerVars(src *pkgutil.Source) *IntegerVars {
	iv := NewIntegerVars()
	for _, pkg := range src.Packages {
		CollectFromFiles(iv, pkg.Files, pkg.Info)
	}
	return iv
}

// CollectFromFiles adds the integer variables declared in files to iv. info
// may be nil, in which case only explicitly typed declarations are found.
func CollectFromFiles(iv *IntegerVars, files []*ast.File, info *types.Info) {
	for _, file := range files {
		for _, decl := range file.Decls {
			fun, ok := decl.(*ast.FuncDecl)
			if !ok || fun.Body == nil {
				continue
			}

			key := cfg.UniqueKey(cfg.MethodKey{Class: cfg.ClassOf(file, fun), Method: fun.Name.Name},
				func(k cfg.MethodKey) bool {
					_, taken := iv.methods[k]
					return taken
				})
			iv.Add(key, "")
			c := &integerVarCollector{
				method:     key,
				info:       info,
				names:      cfg.LocalNames(fun, info),
				iv:         iv,
				defs:       make(map[string]int),
				candidates: make(map[string]bool),
			}
			ast.Walk(c, fun)
			c.flush()
		}
	}
}

// integerVarCollector visits the declarations of one method. Variables are
// recorded under the names the control-flow graph builder gives them, so
// shadowing declarations are told apart.
//
// Without type information variables are only known by their identifiers.
// A name declared more than once in the method is then not recorded at all.
type integerVarCollector struct {
	method cfg.MethodKey
	info   *types.Info
	names  map[types.Object]string
	iv     *IntegerVars

	defs       map[string]int
	candidates map[string]bool
}

func (v *integerVarCollector) Visit(n ast.Node) ast.Visitor {
	switch n := n.(type) {
	case *ast.FuncLit:
		// Function literals have their own control flow.
		return nil
	case *ast.Field:
		for _, x := range n.Names {
			v.declare(x, n.Type)
		}
	case *ast.ValueSpec:
		for _, x := range n.Names {
			v.declare(x, n.Type)
		}
	case *ast.AssignStmt:
		if n.Tok == token.DEFINE {
			for _, lhs := range n.Lhs {
				v.define(lhs)
			}
		}
	case *ast.RangeStmt:
		if n.Tok == token.DEFINE {
			v.define(n.Key)
			v.define(n.Value)
		}
	case *ast.Ident:
		if v.info != nil {
			v.declare(n, nil)
		}
	}
	return v
}

// declare records x if it is defined with an integer type. The type
// expression typ is only consulted without type information.
func (v *integerVarCollector) declare(x *ast.Ident, typ ast.Expr) {
	if v.info == nil {
		v.defs[x.Name]++
		if isIntegerTypeName(typ) {
			v.candidates[x.Name] = true
		}
		return
	}

	obj, ok := v.info.Defs[x].(*types.Var)
	if !ok || obj.IsField() {
		return
	}
	if basic, ok := obj.Type().Underlying().(*types.Basic); ok && basic.Info()&types.IsInteger != 0 {
		v.iv.Add(v.method, v.names[obj])
	}
}

// define counts a short variable declaration of e without type information.
func (v *integerVarCollector) define(e ast.Expr) {
	if x, ok := e.(*ast.Ident); ok && v.info == nil {
		v.defs[x.Name]++
	}
}

// flush records the integer variables found without type information.
func (v *integerVarCollector) flush() {
	for x := range v.candidates {
		if v.defs[x] == 1 {
			v.iv.Add(v.method, x)
		}
	}
}

func isIntegerTypeName(typ ast.Expr) bool {
	id, ok := typ.(*ast.Ident)
	if !ok {
		return false
	}
	switch id.Name {
	case "int", "int8", "int16", "int32", "int64",
		"uint", "uint8", "uint16", "uint32", "uint64", "uintptr",
		"byte", "rune":
		return true
	}
	return false
}
