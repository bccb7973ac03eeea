package testutil

import (
	"testing"

	"github.com/cs-au-dk/cprop/analysis/cfg"
	u "github.com/cs-au-dk/cprop/analysis/upfront"
	"github.com/cs-au-dk/cprop/pkgutil"
)

// LoadResult contains the inputs of the analysis obtained from a Go program.
type LoadResult struct {
	Source *pkgutil.Source
	// Prog holds the control-flow graphs of every function and method.
	Prog *cfg.Program
	// Facts records the integer variables of every function and method.
	Facts *u.IntegerVars
}

// Load parses and type-checks src as a single file, and builds the inputs of
// the analysis. The test fails on syntax or type errors.
func Load(t testing.TB, src string) LoadResult {
	t.Helper()

	source, err := pkgutil.ParseSource(src)
	if err != nil {
		t.Fatalf("Failed to parse source: %v", err)
	}
	if errs := source.TypeErrors(); len(errs) > 0 {
		t.Fatalf("Failed to type-check source: %v", errs)
	}

	res := LoadResult{
		Source: source,
		Prog:   cfg.FromSource(source),
		Facts:  u.CollectIntegerVars(source),
	}
	if err := res.Prog.Validate(); err != nil {
		t.Fatalf("Malformed control-flow graph: %v", err)
	}
	return res
}

// Method parses a method key, failing the test if it is malformed.
func Method(t testing.TB, key string) cfg.MethodKey {
	t.Helper()

	m, err := cfg.ParseMethodKey(key)
	if err != nil {
		t.Fatal(err)
	}
	return m
}
