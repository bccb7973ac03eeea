package main

import (
	"bytes"
	"fmt"
	"io"
	"os"

	"github.com/cs-au-dk/cprop/utils/dot"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var cfgCmd = &cobra.Command{
	Use:   "cfg [paths...]",
	Short: "Emit the analyzed control-flow graphs",
	Long: `Runs the analysis and emits the control-flow graph of every analyzed method,
annotated with the constants known after each block. The graph is written to
stdout in DOT format, or rendered to <output>.<format> when --output is set.
Example) cprop cfg --methods Calc_Branch -o calc --format svg examples/src/calc`,
	Args: cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return run(cmd.Context(), sourceDirs(args), fromPaths(args), cfgTask)
	},
}

var factsCmd = &cobra.Command{
	Use:   "facts [paths...]",
	Short: "Print the integer variables of every method",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return run(cmd.Context(), sourceDirs(args), fromPaths(args), factsTask)
	},
}

var loadCmd = &cobra.Command{
	Use:   "load <pattern>",
	Short: "Analyze the packages matching a pattern",
	Long: `Loads the packages matching the pattern with the go tool, relative to the
module in --dir, and prints the simplified code like the root command.
Example) cprop load --dir ./examples/src/pkg-with-module ./...`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		dir := opts.ModuleDir()
		if dir == "" {
			dir = "."
		}
		return run(cmd.Context(), []string{dir}, fromPattern(args[0]), renderTask)
	},
}

// cfgTask writes the annotated control-flow graphs as DOT, or renders them
// to an image.
func cfgTask(w io.Writer, pl *pipeline) error {
	res, err := pl.analyze()
	if err != nil {
		return err
	}

	G, err := pl.prog.Visualize(res.Methods)
	if err != nil {
		return err
	}

	if opts.Output() == "" {
		return G.WriteDot(w)
	}

	var buf bytes.Buffer
	if err := G.WriteDot(&buf); err != nil {
		return err
	}

	var img string
	if opts.OutputFormat() == "dot" {
		img = opts.Output() + ".dot"
		err = os.WriteFile(img, buf.Bytes(), 0o644)
	} else {
		img, err = dot.DotToImage(opts.Output(), opts.OutputFormat(), buf.Bytes())
	}
	if err != nil {
		return fmt.Errorf("rendering control-flow graph: %w", err)
	}

	logger.Info("Control-flow graph written", zap.String("file", img), zap.Int("nodes", G.CountNodes()))
	return nil
}

// factsTask prints the integer variables of every method.
func factsTask(w io.Writer, pl *pipeline) error {
	pl.facts.Fprint(w)
	return nil
}
