package main

import (
	"fmt"
	"os"

	"github.com/gookit/color"
	"github.com/spf13/cobra"
	"github.com/timewinder-dev/scopevm/model"
)

var checkCmd = &cobra.Command{
	Use:   "check SPEC...",
	Short: "Run specs and verify their expected output and errors",
	Args:  cobra.MinimumNArgs(1),
	RunE:  checkCommand,
}

func checkCommand(cmd *cobra.Command, args []string) error {
	failed := 0
	for _, path := range args {
		if err := checkOne(path); err != nil {
			failed++
			fmt.Fprintf(cmd.OutOrStdout(), "%s %s: %v\n", color.Red.Sprint("FAIL"), path, err)
			continue
		}
		fmt.Fprintf(cmd.OutOrStdout(), "%s %s\n", color.Green.Sprint("PASS"), path)
	}
	if failed > 0 {
		return fmt.Errorf("%d of %d specs failed", failed, len(args))
	}
	return nil
}

func checkOne(path string) error {
	spec, err := model.LoadSpecFromFile(path)
	if err != nil {
		return err
	}
	exec, err := spec.BuildExecutor(nil)
	if err != nil {
		return err
	}
	result := exec.Run()
	err = result.Check(spec.Expect)
	if err != nil && result.Err != nil {
		fmt.Fprint(os.Stderr, model.FormatError(result.Err, exec.Program))
	}
	return err
}
