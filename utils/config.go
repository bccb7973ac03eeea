package utils

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"

	"github.com/spf13/pflag"
	"github.com/xyproto/env/v2"
	"gopkg.in/yaml.v3"
)

// DefaultConfigFile is looked up in the working directory when -config is not given.
const DefaultConfigFile = ".cprop.yaml"

// FileConfig mirrors the options that may be set from a YAML file.
// Pointer fields distinguish "absent" from the zero value.
type FileConfig struct {
	NoColorize *bool    `yaml:"no-colorize"`
	Verbose    *bool    `yaml:"verbose"`
	Metrics    *bool    `yaml:"metrics"`
	Format     *string  `yaml:"format"`
	Output     *string  `yaml:"output"`
	Methods    []string `yaml:"methods"`
}

// BindFlags registers the command line options on flags.
func BindFlags(flags *pflag.FlagSet) {
	flags.StringVar(&opts.configPath, "config", "", "path to a YAML configuration file (default "+DefaultConfigFile+" if present)")
	flags.StringVar(&opts.outputFormat, "format", opts.outputFormat, "output format for CFG rendering ["+strings.Join(formats, " | ")+"]")
	flags.StringVarP(&opts.output, "output", "o", "", "base path of the rendered CFG image; DOT is written to stdout when empty")
	flags.StringVar(&opts.moduleDir, "dir", "", "directory of the Go module used when loading package patterns")
	flags.StringSliceVar(&opts.methods, "methods", nil, "restrict the output to these method keys (Class_method)")
	flags.BoolVar(&opts.noColorize, "no-colorize", false, "disable pretty printer colorization")
	flags.BoolVar(&opts.verbose, "verbose", false, "enable verbose output")
	flags.BoolVar(&opts.metrics, "metrics", false, "report fixed-point metrics after the analysis")
	flags.BoolVar(&opts.watch, "watch", false, "re-run the analysis whenever an input file is written")
}

// LoadConfig merges the configuration file and the environment into the
// options. Flags that were set explicitly on flags always win.
func LoadConfig(flags *pflag.FlagSet) error {
	path := opts.configPath
	explicit := path != ""
	if !explicit {
		path = DefaultConfigFile
	}

	var fc FileConfig
	data, err := os.ReadFile(path)
	switch {
	case err == nil:
		if err := yaml.Unmarshal(data, &fc); err != nil {
			return fmt.Errorf("parsing %s: %w", path, err)
		}
	case errors.Is(err, fs.ErrNotExist) && !explicit:
	default:
		return fmt.Errorf("reading configuration: %w", err)
	}

	// The environment may have changed since start-up.
	env.Load()

	changed := func(name string) bool {
		return flags != nil && flags.Changed(name)
	}

	applyBool := func(name string, dst *bool, file *bool) {
		if changed(name) {
			return
		}
		if key := envKey(name); env.Has(key) {
			*dst = env.Bool(key)
		} else if file != nil {
			*dst = *file
		}
	}
	applyString := func(name string, dst *string, file *string) {
		if changed(name) {
			return
		}
		if key := envKey(name); env.Has(key) {
			*dst = env.Str(key)
		} else if file != nil {
			*dst = *file
		}
	}

	applyBool("no-colorize", &opts.noColorize, fc.NoColorize)
	applyBool("verbose", &opts.verbose, fc.Verbose)
	applyBool("metrics", &opts.metrics, fc.Metrics)
	applyString("format", &opts.outputFormat, fc.Format)
	applyString("output", &opts.output, fc.Output)
	if !changed("methods") && len(fc.Methods) > 0 {
		opts.methods = fc.Methods
	}

	return Opts().Validate()
}

// envKey maps a flag name to its environment variable, e.g. no-colorize
// becomes CPROP_NO_COLORIZE.
func envKey(flag string) string {
	return "CPROP_" + strings.ToUpper(strings.ReplaceAll(flag, "-", "_"))
}
