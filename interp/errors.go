package interp

import (
	"errors"
	"fmt"

	"github.com/timewinder-dev/scopevm/vm"
)

type StackKind int

const (
	ValueStack StackKind = iota
	ScopeStack
	FrameStack
)

func (k StackKind) String() string {
	switch k {
	case ValueStack:
		return "value"
	case ScopeStack:
		return "scope"
	case FrameStack:
		return "frame"
	}
	return fmt.Sprintf("StackKind(%d)", int(k))
}

type StackErrorKind int

const (
	StackUnderflow StackErrorKind = iota
	StackOverflow
)

func (k StackErrorKind) String() string {
	switch k {
	case StackUnderflow:
		return "underflow"
	case StackOverflow:
		return "overflow"
	}
	return fmt.Sprintf("StackErrorKind(%d)", int(k))
}

// StackError reports which logical stack failed and how. Underflow comes
// from pop/top on an empty stack; overflow only from a push past a
// configured depth limit.
type StackError struct {
	Stack StackKind
	Kind  StackErrorKind
}

func (e *StackError) Error() string {
	return fmt.Sprintf("%s stack %s", e.Stack, e.Kind)
}

// Is matches any StackError with the same stack and kind.
func (e *StackError) Is(target error) bool {
	t, ok := target.(*StackError)
	return ok && t.Stack == e.Stack && t.Kind == e.Kind
}

var ErrDivideByZero = errors.New("division by zero")

type InvalidBinopError struct {
	Op   vm.Op
	L, R vm.Value
}

func (e *InvalidBinopError) Error() string {
	return fmt.Sprintf("invalid operands for %s: %s (%s) and %s (%s)",
		e.Op, vm.FormatValue(e.L), e.L.Kind(), vm.FormatValue(e.R), e.R.Kind())
}

type InvalidUnaryError struct {
	Op  vm.Op
	Val vm.Value
}

func (e *InvalidUnaryError) Error() string {
	return fmt.Sprintf("invalid operand for %s: %s (%s)", e.Op, vm.FormatValue(e.Val), e.Val.Kind())
}

type InvalidJumpValueError struct {
	Val vm.Value
}

func (e *InvalidJumpValueError) Error() string {
	return fmt.Sprintf("conditional jump on non-bool value %s (%s)", vm.FormatValue(e.Val), e.Val.Kind())
}

type UnknownConstError struct {
	Name string
}

func (e *UnknownConstError) Error() string {
	return fmt.Sprintf("unknown name %q", e.Name)
}
