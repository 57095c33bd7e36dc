package main

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
	"github.com/timewinder-dev/scopevm/vm"
)

var outputPath string

var buildCmd = &cobra.Command{
	Use:   "build FILE",
	Short: "Compile a source file to a " + vm.ProgramExt + " program",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		p, err := vm.CompilePath(args[0])
		if err != nil {
			return err
		}
		if err := p.Validate(); err != nil {
			return fmt.Errorf("compiled program is invalid: %w", err)
		}
		out := outputPath
		if out == "" {
			out = strings.TrimSuffix(args[0], filepath.Ext(args[0])) + vm.ProgramExt
		}
		if err := vm.WritePath(p, out); err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "wrote %s (%d instructions)\n", out, p.Len())
		return nil
	},
}

func init() {
	buildCmd.Flags().StringVarP(&outputPath, "output", "o", "", "Output file (default: source name with "+vm.ProgramExt+")")
}
