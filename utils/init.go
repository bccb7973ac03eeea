package utils

import (
	"fmt"
	"strings"
)

type options struct {
	configPath   string
	outputFormat string
	output       string
	moduleDir    string
	methods      []string
	noColorize   bool
	verbose      bool
	metrics      bool
	watch        bool
}

// Formats accepted by -format.
var formats = []string{"dot", "svg", "png", "jpg"}

var opts = &options{
	outputFormat: "dot",
}

type optInterface struct{}

// Opts exposes read access to the process-wide options.
func Opts() optInterface {
	return optInterface{}
}

func (optInterface) ConfigPath() string {
	return opts.configPath
}

func (optInterface) NoColorize() bool {
	return opts.noColorize
}

func (optInterface) Verbose() bool {
	return opts.verbose
}

func (optInterface) Metrics() bool {
	return opts.metrics
}

func (optInterface) Watch() bool {
	return opts.watch
}

func (optInterface) OutputFormat() string {
	return opts.outputFormat
}

func (optInterface) Output() string {
	return opts.output
}

func (optInterface) ModuleDir() string {
	return opts.moduleDir
}

// Methods lists the method keys the analysis output is restricted to.
// An empty list selects every method.
func (optInterface) Methods() []string {
	return opts.methods
}

func (optInterface) OnVerbose(do func()) {
	if opts.verbose {
		do()
	}
}

// CanColorize returns col, or a plain formatter if colorization is disabled.
func CanColorize(col func(...interface{}) string) func(...interface{}) string {
	return func(is ...interface{}) string {
		if opts.noColorize {
			return fmt.Sprintf(strings.Repeat("%s", len(is)), is...)
		}
		return col(is...)
	}
}

// Validate checks option values after flags, environment and configuration
// files have been merged.
func (optInterface) Validate() error {
	for _, f := range formats {
		if f == opts.outputFormat {
			return nil
		}
	}
	return fmt.Errorf("value %q is not valid for -format (expected one of %s)",
		opts.outputFormat, strings.Join(formats, ", "))
}
