package interp

import (
	"fmt"
	"io"
	"os"

	"github.com/rs/zerolog/log"
	"github.com/timewinder-dev/scopevm/vm"
)

// Evaluator is the transient machine state: program counter, halt flag and
// the global bindings shared by the whole program.
type Evaluator struct {
	PC      int
	Running bool
	Globals map[string]vm.Value
	Out     io.Writer
}

func NewEvaluator() *Evaluator {
	return &Evaluator{
		Running: true,
		Globals: make(map[string]vm.Value),
		Out:     os.Stdout,
	}
}

// Eval executes a single instruction against frame. The program counter is
// advanced before the instruction's effect, so jumps and POP_SCOPE simply
// overwrite it.
func (e *Evaluator) Eval(frame *Frame, inst vm.Op) error {
	e.PC++

	switch inst.Code {
	case vm.PUSH:
		return frame.Values.Push(inst.Arg)
	case vm.POP:
		val, err := frame.Values.Pop()
		if err != nil {
			return err
		}
		log.Trace().Str("value", vm.FormatValue(val)).Msg("  POP")
	case vm.BINOP:
		return e.evalBinop(frame, inst)
	case vm.UNARY:
		val, err := frame.Values.Pop()
		if err != nil {
			return err
		}
		b, ok := val.(vm.BoolValue)
		if !ok || inst.Operator != vm.Not {
			return &InvalidUnaryError{Op: inst, Val: val}
		}
		return frame.Values.Push(!b)
	case vm.COMPARE:
		a, err := frame.Values.Pop()
		if err != nil {
			return err
		}
		b, err := frame.Values.Pop()
		if err != nil {
			return err
		}
		switch inst.Operator {
		case vm.Equal:
			return frame.Values.Push(vm.BoolValue(a.Equal(b)))
		case vm.NotEqual:
			return frame.Values.Push(vm.BoolValue(!a.Equal(b)))
		default:
			return fmt.Errorf("COMPARE with invalid operator %s", inst.Operator)
		}
	case vm.PRINT:
		val, err := frame.Values.Pop()
		if err != nil {
			return err
		}
		_, err = fmt.Fprintln(e.Out, val.String())
		return err
	case vm.EXIT:
		e.Running = false
	case vm.JMP:
		e.PC = inst.Target
	case vm.POP_JFALSE:
		return e.evalPopJump(frame, inst, false)
	case vm.POP_JTRUE:
		return e.evalPopJump(frame, inst, true)
	case vm.STORE:
		val, err := frame.Values.Pop()
		if err != nil {
			return err
		}
		log.Trace().Str("variable", inst.Name).Str("value", vm.FormatValue(val)).Str("scope", "local").Msg("  STORE")
		return frame.StoreLocal(inst.Name, val)
	case vm.STORE_GLOBAL:
		val, err := frame.Values.Pop()
		if err != nil {
			return err
		}
		e.Globals[inst.Name] = val
		log.Trace().Str("variable", inst.Name).Str("value", vm.FormatValue(val)).Str("scope", "global").Msg("  STORE_GLOBAL")
	case vm.LOAD:
		if val, ok := frame.GetLocal(inst.Name); ok {
			return frame.Values.Push(val)
		}
		if val, ok := e.Globals[inst.Name]; ok {
			return frame.Values.Push(val)
		}
		return &UnknownConstError{Name: inst.Name}
	case vm.PUSH_SCOPE:
		return frame.Scopes.Push(NewScope(frame.Values.Len(), inst.Target))
	case vm.POP_SCOPE:
		scope, err := frame.Scopes.Pop()
		if err != nil {
			return err
		}
		frame.Values.Truncate(scope.StackLevel)
		e.PC = scope.AfterInstr
		log.Trace().Int("stack_level", scope.StackLevel).Int("after", scope.AfterInstr).Msg("  POP_SCOPE")
	default:
		return fmt.Errorf("unknown opcode %s", inst.Code)
	}
	return nil
}

// evalBinop pops the left-hand operand first: with `PUSH a; PUSH b; BINOP -`
// the result is b - a.
func (e *Evaluator) evalBinop(frame *Frame, inst vm.Op) error {
	l, err := frame.Values.Pop()
	if err != nil {
		return err
	}
	r, err := frame.Values.Pop()
	if err != nil {
		return err
	}
	switch {
	case inst.Operator.IsArithmetic():
		li, lok := l.(vm.IntValue)
		ri, rok := r.(vm.IntValue)
		if !lok || !rok {
			return &InvalidBinopError{Op: inst, L: l, R: r}
		}
		v, err := arith(inst.Operator, li, ri)
		if err != nil {
			return err
		}
		return frame.Values.Push(v)
	case inst.Operator.IsLogical():
		lb, lok := l.(vm.BoolValue)
		rb, rok := r.(vm.BoolValue)
		if !lok || !rok {
			return &InvalidBinopError{Op: inst, L: l, R: r}
		}
		if inst.Operator == vm.And {
			return frame.Values.Push(lb && rb)
		}
		return frame.Values.Push(lb || rb)
	}
	return &InvalidBinopError{Op: inst, L: l, R: r}
}

// arith follows Go's int32 semantics: overflow wraps.
func arith(op vm.Operator, l, r vm.IntValue) (vm.Value, error) {
	switch op {
	case vm.Plus:
		return l + r, nil
	case vm.Minus:
		return l - r, nil
	case vm.Times:
		return l * r, nil
	case vm.Divide:
		if r == 0 {
			return nil, ErrDivideByZero
		}
		return l / r, nil
	}
	return nil, fmt.Errorf("not an arithmetic operator: %s", op)
}

func (e *Evaluator) evalPopJump(frame *Frame, inst vm.Op, jumpIf bool) error {
	top, err := frame.Values.Pop()
	if err != nil {
		return err
	}
	b, ok := top.(vm.BoolValue)
	if !ok {
		return &InvalidJumpValueError{Val: top}
	}
	if bool(b) == jumpIf {
		e.PC = inst.Target
	}
	return nil
}
