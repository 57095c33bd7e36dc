package model

import (
	"errors"
	"fmt"

	"github.com/timewinder-dev/scopevm/cas"
	"github.com/timewinder-dev/scopevm/interp"
	"github.com/timewinder-dev/scopevm/vm"
)

var ErrStepLimit = errors.New("step limit exceeded")

// ExecError ties a runtime failure to the instruction that raised it.
type ExecError struct {
	PC   int
	Line int
	Op   vm.Op
	Err  error
}

func (e *ExecError) Error() string {
	if e.Line > 0 {
		return fmt.Sprintf("line %d, pc %d (%s): %s", e.Line, e.PC, e.Op, e.Err)
	}
	return fmt.Sprintf("pc %d (%s): %s", e.PC, e.Op, e.Err)
}

func (e *ExecError) Unwrap() error {
	return e.Err
}

// NonTerminationError reports a machine state that was seen before. The
// machine is deterministic, so a repeated state means it never halts.
type NonTerminationError struct {
	Step      int
	FirstSeen int
	Hash      cas.Hash
	State     *interp.State
}

func (e *NonTerminationError) Error() string {
	return fmt.Sprintf("program does not terminate: state %s at step %d repeats step %d", e.Hash, e.Step, e.FirstSeen)
}
