package pkgutil

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
)

func TestLoadWithModule(t *testing.T) {
	if src, err := LoadPackages(LoadConfig{
		ModulePath: "../examples/src/pkg-with-module",
	}, "unrelated-name/..."); err != nil {
		t.Fatal(err)
	} else if len(src.Packages) != 2 {
		t.Errorf("Expected load result to contain 2 packages, got: %d", len(src.Packages))
	} else if len(src.Files()) != 2 {
		t.Errorf("Expected load result to contain 2 files, got: %d", len(src.Files()))
	}
}

func TestLoadWithoutModule(t *testing.T) {
	_, err := LoadPackages(LoadConfig{ModulePath: "../examples/src/calc"}, "./...")
	if !errors.Is(err, ErrLoad) {
		t.Errorf("Expected ErrLoad, got %v", err)
	}
}

func TestParseFiles(t *testing.T) {
	files, err := ExpandPaths([]string{
		"../examples/src/calc",
		"../examples/src/pkg-with-module/geometry/area.go",
	}, false)
	if err != nil {
		t.Fatal(err)
	}

	exp := []string{
		filepath.Join("../examples/src/calc", "calc.go"),
		"../examples/src/pkg-with-module/geometry/area.go",
	}
	if len(files) != len(exp) || files[0] != exp[0] || files[1] != exp[1] {
		t.Fatalf("Expected files %v, got %v", exp, files)
	}

	src, err := ParseFiles(context.Background(), files)
	if err != nil {
		t.Fatal(err)
	}

	if len(src.Packages) != 2 {
		t.Fatalf("Expected 2 packages, got %d", len(src.Packages))
	}
	for i, name := range []string{"calc", "geometry"} {
		pkg := src.Packages[i]
		if pkg.Name != name {
			t.Errorf("Expected package %s at %d, got %s", name, i, pkg.Name)
		}
		if len(pkg.Errors) > 0 {
			t.Errorf("Unexpected type errors in %s: %v", name, pkg.Errors)
		}
		if pkg.Types == nil || pkg.Types.Scope().Len() == 0 {
			t.Errorf("Package %s was not type-checked", name)
		}
	}
}

func TestParseFilesMissing(t *testing.T) {
	if _, err := ExpandPaths([]string{"../examples/src/missing"}, false); !errors.Is(err, ErrLoad) {
		t.Errorf("Expected ErrLoad, got %v", err)
	}
	if _, err := ParseFiles(context.Background(), []string{"../examples/src/missing.go"}); !errors.Is(err, ErrLoad) {
		t.Errorf("Expected ErrLoad, got %v", err)
	}
}

func TestParseSource(t *testing.T) {
	src, err := ParseSource(`package main

func f() int {
	x := undefined + 1
	return x
}
`)
	if err != nil {
		t.Fatal(err)
	}
	if len(src.TypeErrors()) == 0 {
		t.Errorf("Expected the undefined identifier to be reported")
	}
	if len(src.Files()) != 1 || src.Packages[0].Info == nil {
		t.Errorf("Expected syntax and partial type information to be kept")
	}

	if _, err := ParseSource("package"); !errors.Is(err, ErrLoad) {
		t.Errorf("Expected ErrLoad for syntax errors, got %v", err)
	}
}
