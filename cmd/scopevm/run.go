package main

import (
	"fmt"
	"os"

	"github.com/gookit/color"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
	"github.com/timewinder-dev/scopevm/model"
)

var (
	debugFlag   bool
	verboseFlag bool
	statsFlag   bool
	maxSteps    int
	maxStack    int
	detectLoops bool
)

var runCmd = &cobra.Command{
	Use:   "run FILE",
	Short: "Run a program (.star, .svm) or a run spec (.toml, .yaml)",
	Args:  cobra.ExactArgs(1),
	Run:   runCommand,
}

func init() {
	runCmd.Flags().BoolVar(&debugFlag, "debug", false, "Print the instruction listing before running")
	runCmd.Flags().BoolVarP(&verboseFlag, "verbose", "v", false, "Print every executed instruction to stderr")
	runCmd.Flags().BoolVar(&statsFlag, "stats", false, "Print execution statistics when done")
	runCmd.Flags().IntVar(&maxSteps, "max-steps", 0, "Abort after this many instructions (0 = unlimited)")
	runCmd.Flags().IntVar(&maxStack, "max-stack", 0, "Maximum value stack depth (0 = unbounded)")
	runCmd.Flags().BoolVar(&detectLoops, "detect-loops", false, "Abort when the machine repeats a state")
}

// applyLimitFlags lets command line flags override the spec's limits.
func applyLimitFlags(cmd *cobra.Command, s *model.Spec) {
	if cmd.Flags().Changed("max-steps") {
		s.Limits.MaxSteps = maxSteps
	}
	if cmd.Flags().Changed("max-stack") {
		s.Limits.MaxStackDepth = maxStack
	}
	if cmd.Flags().Changed("detect-loops") {
		s.Limits.DetectLoops = detectLoops
	}
}

func runCommand(cmd *cobra.Command, args []string) {
	spec, err := loadSpec(args[0])
	if err != nil {
		log.Fatal().Err(err).Msg("Couldn't load file")
	}
	applyLimitFlags(cmd, spec)

	exec, err := spec.BuildExecutor(nil)
	if err != nil {
		log.Fatal().Err(err).Msg("Couldn't build executor")
	}
	exec.Output = os.Stdout
	if verboseFlag {
		exec.Reporter = &model.ColorReporter{Writer: os.Stderr}
	}
	if debugFlag {
		exec.Program.DebugPrint(os.Stderr)
		fmt.Fprintln(os.Stderr)
	}

	result := exec.Run()
	if !result.Success {
		fmt.Fprint(os.Stderr, model.FormatError(result.Err, exec.Program))
	}
	if statsFlag {
		fmt.Fprint(os.Stderr, model.FormatStatistics(result.Statistics))
	}
	if !result.Success {
		os.Exit(1)
	}
	if statsFlag {
		fmt.Fprintln(os.Stderr, color.Green.Sprint("✓ Program finished"))
	}
}
