package model

import (
	"fmt"
	"io"

	"github.com/gookit/color"
	"github.com/timewinder-dev/scopevm/vm"
)

// StepInfo describes one executed instruction.
type StepInfo struct {
	Step       int
	PC         int
	Line       int
	Op         vm.Op
	StackDepth int
	ScopeDepth int
}

// Reporter receives progress while a program runs
type Reporter interface {
	Step(info StepInfo)
}

// SilentReporter does not output any progress
type SilentReporter struct{}

func (r *SilentReporter) Step(StepInfo) {}

// ColorReporter writes one colorized line per step (typically to stderr)
type ColorReporter struct {
	Writer io.Writer
}

func (r *ColorReporter) Step(info StepInfo) {
	loc := ""
	if info.Line > 0 {
		loc = color.Gray.Sprintf(" ; line %d", info.Line)
	}
	fmt.Fprintf(r.Writer, "%s %s  %s stack=%d scopes=%d%s\n",
		color.Gray.Sprintf("%6d", info.Step),
		color.Cyan.Sprintf("%03d", info.PC),
		color.Bold.Sprintf("%-24s", info.Op),
		info.StackDepth, info.ScopeDepth, loc)
}
