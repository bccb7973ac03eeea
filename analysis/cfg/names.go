package cfg

import (
	"fmt"
	"go/ast"
	"go/types"
)

// LocalNames names the variables declared by fun, including its receiver,
// parameters and results, so that no two share a name. The first variable
// declared with a given name keeps it. Variables that reuse the name in an
// inner scope are suffixed with $2, $3, ... in declaration order.
//
// Variables of function literals are not named; their bodies are not part
// of the control flow of fun.
func LocalNames(fun *ast.FuncDecl, info *types.Info) map[types.Object]string {
	names := make(map[types.Object]string)
	if info == nil {
		return names
	}

	seen := make(map[string]int)
	ast.Inspect(fun, func(n ast.Node) bool {
		switch n := n.(type) {
		case *ast.FuncLit:
			return false
		case *ast.Ident:
			obj, ok := info.Defs[n].(*types.Var)
			if !ok || obj.IsField() || n.Name == "_" {
				break
			}
			if _, done := names[obj]; done {
				break
			}
			seen[n.Name]++
			if k := seen[n.Name]; k > 1 {
				names[obj] = fmt.Sprintf("%s$%d", n.Name, k)
			} else {
				names[obj] = n.Name
			}
		}
		return true
	})
	return names
}
