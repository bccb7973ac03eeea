package pkgutil

import (
	"context"
	"fmt"
	"go/ast"
	"go/importer"
	"go/parser"
	"go/token"
	"go/types"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"golang.org/x/sync/errgroup"
)

// Source is a set of parsed and type-checked packages sharing a file set.
type Source struct {
	Fset     *token.FileSet
	Packages []*Package
}

// Package is the syntax of one package together with its type information.
// Type errors do not prevent analysis; they are collected in Errors and the
// information that could be computed is kept.
type Package struct {
	Name   string
	Path   string
	Files  []*ast.File
	Info   *types.Info
	Types  *types.Package
	Errors []error
}

// Files lists every file of every package.
func (s *Source) Files() (files []*ast.File) {
	for _, pkg := range s.Packages {
		files = append(files, pkg.Files...)
	}
	return
}

// TypeErrors lists the type errors of every package.
func (s *Source) TypeErrors() (errs []error) {
	for _, pkg := range s.Packages {
		errs = append(errs, pkg.Errors...)
	}
	return
}

// ExpandPaths replaces directories in paths by the Go files they contain.
// Test files are only included when includeTests is set.
func ExpandPaths(paths []string, includeTests bool) ([]string, error) {
	var files []string
	for _, path := range paths {
		fi, err := os.Stat(path)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrLoad, err)
		}
		if !fi.IsDir() {
			files = append(files, path)
			continue
		}

		entries, err := os.ReadDir(path)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrLoad, err)
		}
		for _, e := range entries {
			name := e.Name()
			if e.IsDir() || !strings.HasSuffix(name, ".go") ||
				(!includeTests && strings.HasSuffix(name, "_test.go")) {
				continue
			}
			files = append(files, filepath.Join(path, name))
		}
	}
	if len(files) == 0 {
		return nil, fmt.Errorf("%w: no Go files in %v", ErrLoad, paths)
	}
	return files, nil
}

// ParseFiles parses the given files concurrently, groups them into packages
// by directory and package name, and type-checks every package.
func ParseFiles(ctx context.Context, paths []string) (*Source, error) {
	fset := token.NewFileSet()
	files := make([]*ast.File, len(paths))

	g, ctx := errgroup.WithContext(ctx)
	for i, path := range paths {
		i, path := i, path
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			src, err := os.ReadFile(path)
			if err != nil {
				return fmt.Errorf("%w: %v", ErrLoad, err)
			}
			f, err := parser.ParseFile(fset, relativize(path), src, parseMode)
			if err != nil {
				return fmt.Errorf("%w: %v", ErrLoad, err)
			}
			files[i] = f
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	type group struct{ dir, name string }
	groups := make(map[group][]*ast.File)
	var order []group
	for i, f := range files {
		k := group{filepath.Dir(paths[i]), f.Name.Name}
		if _, ok := groups[k]; !ok {
			order = append(order, k)
		}
		groups[k] = append(groups[k], f)
	}
	sort.SliceStable(order, func(i, j int) bool {
		if order[i].dir != order[j].dir {
			return order[i].dir < order[j].dir
		}
		return order[i].name < order[j].name
	})

	source := &Source{Fset: fset}
	for _, k := range order {
		source.Packages = append(source.Packages, Check(fset, k.name, groups[k]))
	}
	return source, nil
}

// ParseSource parses and type-checks a single file given as a string. It is
// mainly useful for testing.
func ParseSource(src string) (*Source, error) {
	fset := token.NewFileSet()
	f, err := parser.ParseFile(fset, "main.go", src, parseMode)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrLoad, err)
	}
	return &Source{
		Fset:     fset,
		Packages: []*Package{Check(fset, f.Name.Name, []*ast.File{f})},
	}, nil
}

// Check type-checks files as the package called name. Type errors are
// recorded in the result instead of aborting the check.
func Check(fset *token.FileSet, name string, files []*ast.File) *Package {
	pkg := &Package{
		Name:  name,
		Path:  name,
		Files: files,
		Info: &types.Info{
			Types: make(map[ast.Expr]types.TypeAndValue),
			Defs:  make(map[*ast.Ident]types.Object),
			Uses:  make(map[*ast.Ident]types.Object),
		},
	}

	conf := types.Config{
		Importer: importer.Default(),
		Error: func(err error) {
			pkg.Errors = append(pkg.Errors, err)
		},
	}
	pkg.Types, _ = conf.Check(name, fset, files, pkg.Info)
	return pkg
}
