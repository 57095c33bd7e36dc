package interp

import (
	"io"

	"github.com/rs/zerolog/log"
	"github.com/timewinder-dev/scopevm/vm"
)

// Interpreter drives the fetch-execute loop. It owns the evaluator, the
// program and the frame stack. Only one frame ever exists; the frame stack
// is kept so call support has somewhere to go.
type Interpreter struct {
	Evaluator *Evaluator
	Program   *vm.Program
	Frames    *Stack[*Frame]
}

type Config struct {
	// Out receives PRINT output. Defaults to stdout.
	Out io.Writer
	// MaxStackDepth bounds the value stack; 0 leaves it unbounded.
	MaxStackDepth int
}

func New() *Interpreter {
	return NewWithConfig(Config{})
}

func NewWithConfig(cfg Config) *Interpreter {
	in := &Interpreter{
		Evaluator: NewEvaluator(),
		Program:   &vm.Program{},
		Frames:    NewStack[*Frame](FrameStack),
	}
	if cfg.Out != nil {
		in.Evaluator.Out = cfg.Out
	}
	f := NewFrame()
	f.Values.Limit = cfg.MaxStackDepth
	_ = in.Frames.Push(f)
	return in
}

// PushInstrs appends instructions to the program.
func (in *Interpreter) PushInstrs(ops ...vm.Op) {
	in.Program.Append(ops...)
}

// Load replaces the program. The machine state is left untouched.
func (in *Interpreter) Load(p *vm.Program) {
	in.Program = p
}

func (in *Interpreter) TopFrame() (*Frame, error) {
	return in.Frames.Top()
}

// Top returns the top of the active frame's value stack.
func (in *Interpreter) Top() (vm.Value, error) {
	f, err := in.TopFrame()
	if err != nil {
		return nil, err
	}
	return f.Values.Top()
}

func (in *Interpreter) Running() bool {
	return in.Evaluator.Running && in.Evaluator.PC < in.Program.Len()
}

// Step executes the instruction at the program counter. Errors are returned
// exactly as the evaluator raised them.
func (in *Interpreter) Step() (StepResult, error) {
	if !in.Evaluator.Running {
		return HaltStep, nil
	}
	frame, err := in.TopFrame()
	if err != nil {
		return ContinueStep, err
	}
	pc := in.Evaluator.PC
	inst, err := in.Program.GetInstruction(pc)
	if err != nil {
		log.Trace().Int("pc", pc).Msg("Step: end of code")
		return EndStep, nil
	}

	log.Trace().
		Str("opcode", inst.String()).
		Int("pc", pc).
		Int("stack_depth", frame.Values.Len()).
		Int("scope_depth", frame.Scopes.Len()).
		Msg("Step: executing instruction")

	err = in.Evaluator.Eval(frame, inst)
	if err != nil {
		log.Trace().Err(err).Int("pc", pc).Msg("Step: error")
		return ContinueStep, err
	}
	if !in.Evaluator.Running {
		return HaltStep, nil
	}
	return ContinueStep, nil
}

// Run executes until EXIT, the end of the program, or the first error.
func (in *Interpreter) Run() error {
	for {
		res, err := in.Step()
		if err != nil {
			return err
		}
		if res != ContinueStep {
			return nil
		}
	}
}
