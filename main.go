package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"

	"github.com/cs-au-dk/cprop/utils"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var (
	opts   = utils.Opts()
	logger *zap.Logger
)

var rootCmd = &cobra.Command{
	Use:   "cprop [paths...]",
	Short: "cprop - intraprocedural constant propagation for Go",
	Long: `Propagates integer constants through the control-flow graph of every
function and method in the given files or directories, and prints the code
with the constants known at the end of each block substituted.`,
	TraverseChildren: true,
	SilenceUsage:     true,
	SilenceErrors:    true,
	PersistentPreRunE: func(cmd *cobra.Command, _ []string) (err error) {
		if err := utils.LoadConfig(cmd.Flags()); err != nil {
			return err
		}
		color.NoColor = color.NoColor || opts.NoColorize()

		logger, err = utils.NewLogger(opts.Verbose())
		return err
	},
	RunE: func(cmd *cobra.Command, args []string) error {
		if len(args) == 0 {
			return cmd.Help()
		}
		return run(cmd.Context(), sourceDirs(args), fromPaths(args), renderTask)
	},
}

func init() {
	utils.BindFlags(rootCmd.PersistentFlags())
	rootCmd.AddCommand(cfgCmd, factsCmd, loadCmd)
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	err := rootCmd.ExecuteContext(ctx)
	stop()

	if logger == nil {
		if err != nil {
			fmt.Fprintln(os.Stderr, "Error:", err)
			os.Exit(1)
		}
		return
	}

	if err != nil {
		logger.Error("cprop failed", zap.Error(err))
	}
	_ = logger.Sync()
	if err != nil {
		os.Exit(1)
	}
}
