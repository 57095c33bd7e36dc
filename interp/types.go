package interp

import (
	"fmt"

	"github.com/timewinder-dev/scopevm/vm"
)

// Scope is a lexical block. It remembers the value stack depth at entry so
// leaving it can discard whatever the block left behind.
type Scope struct {
	StackLevel int
	AfterInstr int
	Locals     map[string]vm.Value
}

func NewScope(stackLevel, afterInstr int) Scope {
	return Scope{
		StackLevel: stackLevel,
		AfterInstr: afterInstr,
		Locals:     make(map[string]vm.Value),
	}
}

// Frame is one execution context. Scopes is never empty while the frame is
// alive: top-level bindings live in the outermost scope.
type Frame struct {
	Values *Stack[vm.Value]
	Scopes *Stack[Scope]
}

func NewFrame() *Frame {
	f := &Frame{
		Values: NewStack[vm.Value](ValueStack),
		Scopes: NewStack[Scope](ScopeStack),
	}
	// Scopes is unbounded, so this cannot fail.
	_ = f.Scopes.Push(NewScope(0, 0))
	return f
}

// resolve returns the index of the innermost scope binding name, or -1.
func (f *Frame) resolve(name string) int {
	for i := f.Scopes.Len() - 1; i >= 0; i-- {
		if _, ok := f.Scopes.At(i).Locals[name]; ok {
			return i
		}
	}
	return -1
}

func (f *Frame) GetLocal(name string) (vm.Value, bool) {
	i := f.resolve(name)
	if i < 0 {
		return nil, false
	}
	return f.Scopes.At(i).Locals[name], true
}

// StoreLocal overwrites the binding the scope chain resolves name to, or
// creates it in the innermost scope when there is none.
func (f *Frame) StoreLocal(name string, v vm.Value) error {
	if i := f.resolve(name); i >= 0 {
		f.Scopes.At(i).Locals[name] = v
		return nil
	}
	top, err := f.Scopes.TopMut()
	if err != nil {
		return err
	}
	if top.Locals == nil {
		top.Locals = make(map[string]vm.Value)
	}
	top.Locals[name] = v
	return nil
}

type StepResult int

const (
	ContinueStep StepResult = iota
	HaltStep                // EXIT executed
	EndStep                 // pc ran off the end of the program
)

func (r StepResult) String() string {
	switch r {
	case ContinueStep:
		return "Continue"
	case HaltStep:
		return "Halt"
	case EndStep:
		return "End"
	}
	return fmt.Sprintf("StepResult(%d)", int(r))
}
