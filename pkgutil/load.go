package pkgutil

import (
	"errors"
	"fmt"
	"go/ast"
	"go/parser"
	"go/token"
	"os"
	"path/filepath"
	"regexp"

	"golang.org/x/tools/go/packages"
)

// ErrLoad is reported when packages or files could not be loaded.
var ErrLoad = errors.New("unable to load sources")

// LoadConfig configures package loading. Packages are loaded in module-aware
// mode relative to ModulePath, or relative to the working directory if it is
// empty. If IncludeTests is true, test files are loaded as well.
type LoadConfig struct {
	ModulePath   string
	IncludeTests bool
}

// loadMode avoids deprecation warnings from using packages.LoadAllSyntax.
const loadMode packages.LoadMode = packages.NeedName | packages.NeedFiles | packages.NeedCompiledGoFiles |
	packages.NeedImports | packages.NeedTypes | packages.NeedTypesSizes | packages.NeedSyntax |
	packages.NeedTypesInfo

var (
	// moduleRegex is a regular expression according to which a go.mod file can be parsed.
	moduleRegex = regexp.MustCompile(`(?m)^module\s+(.*)$`)

	// cwd is the working directory on start-up.
	cwd = func() string {
		if dir, err := os.Getwd(); err == nil {
			return dir
		} else {
			panic(err)
		}
	}()
)

// relativizingParseFile is a ParseFile implementation that relativizes
// filenames according to CWD, which keeps printed positions stable across
// machines.
func relativizingParseFile(fset *token.FileSet, filename string, src []byte) (*ast.File, error) {
	return parser.ParseFile(fset, relativize(filename), src, parseMode)
}

const parseMode = parser.AllErrors | parser.ParseComments

func relativize(filename string) string {
	if rel, err := filepath.Rel(cwd, filename); err == nil {
		return rel
	}
	return filename
}

// LoadPackages loads the syntax and type information of the packages matching
// pattern, according to the provided LoadConfig.
func LoadPackages(cfg LoadConfig, pattern string) (*Source, error) {
	config := &packages.Config{
		Mode:      loadMode,
		Tests:     cfg.IncludeTests,
		ParseFile: relativizingParseFile,
	}

	if modulePath := cfg.ModulePath; modulePath != "" {
		pkgPath, err := filepath.Abs(modulePath)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrLoad, err)
		}

		contents, err := os.ReadFile(filepath.Join(pkgPath, "go.mod"))
		if err != nil {
			return nil, fmt.Errorf("%w: no 'go.mod' file at %s: %v", ErrLoad, modulePath, err)
		}

		if m := moduleRegex.FindSubmatch(contents); len(m) <= 1 {
			return nil, fmt.Errorf("%w: unable to locate module name in 'go.mod' file", ErrLoad)
		}

		config.Dir = pkgPath
	}
	config.Env = append(os.Environ(), "GO111MODULE=on")

	pkgs, err := loadPackagesWithConfig(config, pattern)
	if err != nil {
		return nil, err
	}
	return FromPackages(pkgs), nil
}

// loadPackagesWithConfig wraps around packages.Load, and performs additional
// filtering when loading includes test packages.
func loadPackagesWithConfig(config *packages.Config, query string) ([]*packages.Package, error) {
	pkgs, err := packages.Load(config, query)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrLoad, err)
	} else if packages.PrintErrors(pkgs) > 0 {
		return nil, fmt.Errorf("%w: errors encountered while loading packages", ErrLoad)
	} else if len(pkgs) == 0 {
		return nil, fmt.Errorf("%w: no packages match %q", ErrLoad, query)
	}

	if config.Tests {
		// Packages with test files are returned twice, once with no tests and
		// once with tests. Discard the one without tests.
		packageIDs := map[string]bool{}
		for _, pkg := range pkgs {
			packageIDs[pkg.ID] = true
		}

		filteredPkgs := []*packages.Package{}
		for _, pkg := range pkgs {
			if !packageIDs[fmt.Sprintf("%s [%s.test]", pkg.ID, pkg.ID)] {
				filteredPkgs = append(filteredPkgs, pkg)
			}
		}
		pkgs = filteredPkgs
	}
	return pkgs, nil
}

// FromPackages collects the syntax of loaded packages into a Source.
func FromPackages(pkgs []*packages.Package) *Source {
	src := &Source{}
	for _, pkg := range pkgs {
		if src.Fset == nil {
			src.Fset = pkg.Fset
		}
		p := &Package{
			Name:  pkg.Name,
			Path:  pkg.PkgPath,
			Files: pkg.Syntax,
			Info:  pkg.TypesInfo,
			Types: pkg.Types,
		}
		for _, err := range pkg.TypeErrors {
			p.Errors = append(p.Errors, err)
		}
		src.Packages = append(src.Packages, p)
	}
	if src.Fset == nil {
		src.Fset = token.NewFileSet()
	}
	return src
}
