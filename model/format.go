package model

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/gookit/color"
	"github.com/timewinder-dev/scopevm/interp"
	"github.com/timewinder-dev/scopevm/vm"
)

const (
	heavyRule = "================================================================================"
	lightRule = "--------------------------------------------------------------------------------"
)

func section(b *strings.Builder, title string) {
	b.WriteString(color.Gray.Sprint(lightRule))
	b.WriteString("\n")
	b.WriteString(color.Cyan.Sprint(title))
	b.WriteString("\n")
	b.WriteString(color.Gray.Sprint(lightRule))
	b.WriteString("\n")
}

// FormatError renders a failed run for display. prog may be nil.
func FormatError(err error, prog *vm.Program) string {
	var b strings.Builder
	b.WriteString("\n")
	b.WriteString(color.Gray.Sprint(heavyRule))
	b.WriteString("\n")

	var nonTerm *NonTerminationError
	var execErr *ExecError
	switch {
	case errors.As(err, &nonTerm):
		b.WriteString(color.Yellow.Sprint("NON-TERMINATION"))
		b.WriteString("\n")
		b.WriteString(color.Gray.Sprint(heavyRule))
		b.WriteString("\n")
		b.WriteString(color.Bold.Sprint("Step:       "))
		b.WriteString(fmt.Sprintf("%d\n", nonTerm.Step))
		b.WriteString(color.Bold.Sprint("First seen: "))
		b.WriteString(fmt.Sprintf("step %d\n", nonTerm.FirstSeen))
		b.WriteString(color.Bold.Sprint("Hash:       "))
		b.WriteString(fmt.Sprintf("0x%s\n", nonTerm.Hash))
		if nonTerm.State != nil {
			b.WriteString("\n")
			section(&b, "Repeated State:")
			b.WriteString(nonTerm.State.PrettyPrint(prog))
		}
	case errors.As(err, &execErr):
		b.WriteString(color.Red.Sprint("RUNTIME ERROR"))
		b.WriteString("\n")
		b.WriteString(color.Gray.Sprint(heavyRule))
		b.WriteString("\n")
		b.WriteString(color.Bold.Sprint("Error:       "))
		b.WriteString(color.Red.Sprintf("%s\n", execErr.Err))
		b.WriteString(color.Bold.Sprint("Instruction: "))
		b.WriteString(fmt.Sprintf("%03d %s\n", execErr.PC, execErr.Op))
		if execErr.Line > 0 {
			b.WriteString(color.Bold.Sprint("Location:    "))
			if prog != nil && prog.Filename != "" {
				b.WriteString(fmt.Sprintf("%s:%d\n", filepath.Base(prog.Filename), execErr.Line))
			} else {
				b.WriteString(fmt.Sprintf("line %d\n", execErr.Line))
			}
		}
	default:
		b.WriteString(color.Red.Sprint("ERROR"))
		b.WriteString("\n")
		b.WriteString(color.Gray.Sprint(heavyRule))
		b.WriteString("\n")
		b.WriteString(color.Red.Sprintf("%s\n", err))
	}

	b.WriteString(color.Gray.Sprint(heavyRule))
	b.WriteString("\n")
	return b.String()
}

func FormatStatistics(stats Statistics) string {
	var b strings.Builder
	b.WriteString("\n")
	b.WriteString(color.Cyan.Sprint("=== Execution statistics ==="))
	b.WriteString("\n")
	b.WriteString(color.Bold.Sprint("Instructions executed: "))
	b.WriteString(fmt.Sprintf("%d\n", stats.Steps))
	b.WriteString(color.Bold.Sprint("Maximum stack depth: "))
	b.WriteString(fmt.Sprintf("%d\n", stats.MaxValueDepth))
	b.WriteString(color.Bold.Sprint("Maximum scope depth: "))
	b.WriteString(fmt.Sprintf("%d\n", stats.MaxScopeDepth))
	if stats.UniqueStates > 0 {
		b.WriteString(color.Bold.Sprint("Unique states: "))
		b.WriteString(fmt.Sprintf("%d\n", stats.UniqueStates))
	}
	if stats.Cache != nil {
		b.WriteString(color.Bold.Sprint("Snapshot cache: "))
		b.WriteString(fmt.Sprintf("%d/%d entries, %d hits, %d misses\n",
			stats.Cache.Size, stats.Cache.MaxSize, stats.Cache.Hits, stats.Cache.Misses))
	}
	b.WriteString(color.Bold.Sprint("Duration: "))
	b.WriteString(fmt.Sprintf("%s\n", stats.Duration))
	return b.String()
}

// FormatState renders a machine snapshot under a heading.
func FormatState(title string, s *interp.State, prog *vm.Program) string {
	var b strings.Builder
	section(&b, title)
	b.WriteString(s.PrettyPrint(prog))
	return b.String()
}

// FormatResult summarizes a run in one line.
func FormatResult(name string, r *Result) string {
	if r.Success {
		return fmt.Sprintf("%s %s (%d steps)", color.Green.Sprint("PASS"), name, r.Statistics.Steps)
	}
	return fmt.Sprintf("%s %s: %v", color.Red.Sprint("FAIL"), name, r.Err)
}
