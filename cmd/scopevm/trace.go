package main

import (
	"fmt"
	"os"

	"github.com/gookit/color"
	"github.com/spf13/cobra"
	"github.com/timewinder-dev/scopevm/interp"
	"github.com/timewinder-dev/scopevm/model"
	"github.com/timewinder-dev/scopevm/vm"
)

var traceSteps int

var traceCmd = &cobra.Command{
	Use:   "trace FILE",
	Short: "Execute a program one instruction at a time, printing the machine state",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		p, err := vm.LoadPath(args[0])
		if err != nil {
			return err
		}
		return trace(p, traceSteps)
	},
}

func init() {
	traceCmd.Flags().IntVar(&traceSteps, "max-steps", 1000, "Stop tracing after this many instructions (0 = unlimited)")
}

func trace(prog *vm.Program, limit int) error {
	in := interp.NewWithConfig(interp.Config{Out: os.Stdout})
	in.Load(prog)
	fmt.Print(model.FormatState("Initial State:", in.Snapshot(), prog))
	for step := 1; limit == 0 || step <= limit; step++ {
		pc := in.Evaluator.PC
		inst, _ := prog.GetInstruction(pc)
		res, err := in.Step()
		if err != nil {
			return &model.ExecError{PC: pc, Line: prog.GetLineNumber(pc), Op: inst, Err: err}
		}
		switch res {
		case interp.EndStep:
			fmt.Println(color.Green.Sprint("Finished: end of program"))
			return nil
		case interp.HaltStep:
			fmt.Print(model.FormatState(fmt.Sprintf("Step %d: %03d %s", step, pc, inst), in.Snapshot(), prog))
			fmt.Println(color.Green.Sprint("Finished: exit"))
			return nil
		}
		fmt.Print(model.FormatState(fmt.Sprintf("Step %d: %03d %s", step, pc, inst), in.Snapshot(), prog))
	}
	fmt.Println(color.Yellow.Sprintf("Stopped after %d steps", limit))
	return nil
}
