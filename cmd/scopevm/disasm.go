package main

import (
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
	"github.com/timewinder-dev/scopevm/vm"
)

var disasmCmd = &cobra.Command{
	Use:   "disasm FILE",
	Short: "Print the instruction listing of a program",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		p, err := vm.LoadPath(args[0])
		if err != nil {
			return err
		}
		if err := p.Validate(); err != nil {
			log.Warn().Err(err).Msg("Program does not validate")
		}
		p.DebugPrint(cmd.OutOrStdout())
		return nil
	},
}
