package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/cs-au-dk/cprop/analysis/cfg"
	"github.com/cs-au-dk/cprop/analysis/constprop"
	u "github.com/cs-au-dk/cprop/analysis/upfront"
	"github.com/cs-au-dk/cprop/pkgutil"
	"github.com/cs-au-dk/cprop/utils"

	"go.uber.org/zap"
)

// pipeline holds the inputs of the analysis: the control-flow graphs built
// from the loaded sources and the integer variables of every method.
type pipeline struct {
	source *pkgutil.Source
	prog   *cfg.Program
	facts  *u.IntegerVars
}

// loader produces the sources a pipeline is built from.
type loader func(ctx context.Context) (*pkgutil.Source, error)

// task consumes a pipeline and writes its result to w.
type task func(w io.Writer, pl *pipeline) error

// fromPaths parses the Go files given directly or found in directories.
func fromPaths(paths []string) loader {
	return func(ctx context.Context) (*pkgutil.Source, error) {
		files, err := pkgutil.ExpandPaths(paths, false)
		if err != nil {
			return nil, err
		}
		return pkgutil.ParseFiles(ctx, files)
	}
}

// fromPattern loads the packages matching pattern through go/packages.
func fromPattern(pattern string) loader {
	return func(context.Context) (*pkgutil.Source, error) {
		return pkgutil.LoadPackages(pkgutil.LoadConfig{ModulePath: opts.ModuleDir()}, pattern)
	}
}

// sourceDirs lists the directories watched for changes of paths.
func sourceDirs(paths []string) []string {
	dirs := make([]string, 0, len(paths))
	for _, path := range paths {
		if fi, err := os.Stat(path); err == nil && fi.IsDir() {
			dirs = append(dirs, path)
		} else {
			dirs = append(dirs, filepath.Dir(path))
		}
	}
	return dirs
}

// newPipeline loads the sources and prepares the inputs of the analysis.
func newPipeline(ctx context.Context, load loader) (*pipeline, error) {
	defer utils.TimeTrack(logger, time.Now(), "Loading")

	source, err := load(ctx)
	if err != nil {
		return nil, err
	}
	for _, err := range source.TypeErrors() {
		logger.Warn("Type checking failed, lowering may be imprecise", zap.Error(err))
	}

	prog := cfg.FromSource(source)
	if err := prog.Validate(); err != nil {
		return nil, err
	}
	logger.Debug("Control-flow graphs built",
		zap.Int("methods", len(prog.Methods())),
		zap.Int("blocks", len(prog.Blocks())))

	return &pipeline{
		source: source,
		prog:   prog,
		facts:  u.CollectIntegerVars(source),
	}, nil
}

// methods parses the method keys requested on the command line.
func (pl *pipeline) methods() ([]cfg.MethodKey, error) {
	var methods []cfg.MethodKey
	for _, s := range opts.Methods() {
		m, err := cfg.ParseMethodKey(s)
		if err != nil {
			return nil, err
		}
		methods = append(methods, m)
	}
	return methods, nil
}

// analyze runs constant propagation over the requested methods.
func (pl *pipeline) analyze() (*constprop.Result, error) {
	methods, err := pl.methods()
	if err != nil {
		return nil, err
	}

	res, err := constprop.Analyze(pl.prog, pl.facts, constprop.Config{
		Log:     logger,
		Methods: methods,
		Metrics: opts.Metrics(),
	})
	if err != nil {
		return nil, err
	}

	opts.OnVerbose(func() {
		for _, m := range res.Methods {
			if err := pl.prog.Fprint(os.Stderr, m); err != nil {
				logger.Error("Printing control-flow graph failed", zap.Error(err))
			}
		}
	})
	reportMetrics(os.Stderr, res)

	return res, nil
}

// renderTask prints the simplified code of every analyzed method.
func renderTask(w io.Writer, pl *pipeline) error {
	res, err := pl.analyze()
	if err != nil {
		return err
	}
	return constprop.Render(w, pl.prog, res.Methods)
}

// run executes t once, or every time a Go file in dirs is written when
// watching.
func run(ctx context.Context, dirs []string, load loader, t task) error {
	once := func() error {
		pl, err := newPipeline(ctx, load)
		if err != nil {
			return err
		}
		return t(os.Stdout, pl)
	}

	if !opts.Watch() {
		return once()
	}

	if err := once(); err != nil {
		logger.Error("Analysis failed", zap.Error(err))
	}

	w, err := newWatcher(dirs, once)
	if err != nil {
		return fmt.Errorf("watching %v: %w", dirs, err)
	}
	logger.Info("Watching for changes", zap.Strings("dirs", dirs))
	return w.loop(ctx)
}
